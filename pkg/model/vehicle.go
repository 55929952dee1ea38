package model

// VehicleType is a catalog category; read-only for the booking core.
type VehicleType struct {
	ID     int    `json:"id" bson:"_id"`
	Name   string `json:"name" bson:"name"`
	Wheels int    `json:"wheels" bson:"wheels"`
}

// Vehicle is the bookable resource. BookingSeq is bumped inside every booking
// transaction for the vehicle and acts as its write lock.
type Vehicle struct {
	ID            int    `json:"id" bson:"_id"`
	Name          string `json:"name" bson:"name"`
	VehicleTypeID int    `json:"vehicleTypeId" bson:"vehicle_type_id"`
	BookingSeq    int64  `json:"-" bson:"booking_seq,omitempty"`
}
