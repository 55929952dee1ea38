package validators

import "go.mongodb.org/mongo-driver/bson"

var VehicleTypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name", "wheels"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"wheels": bson.M{
				"bsonType": []string{"int", "long"},
				"enum":     []int{2, 4},
			},
		},
	},
}

// VehicleValidator leaves booking_seq optional; it is created by the first
// booking transaction that locks the vehicle.
var VehicleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name", "vehicle_type_id"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},
			"vehicle_type_id": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
			"booking_seq": bson.M{
				"bsonType": []string{"int", "long"},
			},
		},
	},
}

var RequesterValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"first_name", "last_name", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},
			"first_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"last_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
