package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalogrepo "rentals/internal/catalog/repository"
	"rentals/pkg/logger"
	"rentals/pkg/model"
)

var SeedVehicleTypes = []model.VehicleType{
	{ID: 1, Name: "Hatchback", Wheels: 4},
	{ID: 2, Name: "SUV", Wheels: 4},
	{ID: 3, Name: "Sedan", Wheels: 4},
	{ID: 4, Name: "Cruiser", Wheels: 2},
	{ID: 5, Name: "Sports", Wheels: 2},
}

var SeedVehicles = []model.Vehicle{
	{ID: 1, Name: "Volkswagen Golf", VehicleTypeID: 1},
	{ID: 2, Name: "Ford Focus", VehicleTypeID: 1},
	{ID: 3, Name: "Toyota RAV4", VehicleTypeID: 2},
	{ID: 4, Name: "Jeep Wrangler", VehicleTypeID: 2},
	{ID: 5, Name: "Honda Civic", VehicleTypeID: 3},
	{ID: 6, Name: "Toyota Camry", VehicleTypeID: 3},
	{ID: 7, Name: "Harley-Davidson Sportster", VehicleTypeID: 4},
	{ID: 8, Name: "Royal Enfield Classic 350", VehicleTypeID: 4},
	{ID: 9, Name: "Yamaha R6", VehicleTypeID: 5},
	{ID: 10, Name: "Kawasaki Ninja 650", VehicleTypeID: 5},
}

// SeedCatalog upserts the initial catalog by name. Running it twice leaves the
// collections unchanged, and an existing vehicle keeps its booking_seq.
func SeedCatalog(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	types := make([]mongo.WriteModel, 0, len(SeedVehicleTypes))
	for _, t := range SeedVehicleTypes {
		types = append(types, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": t.Name}).
			SetUpdate(bson.M{
				"$setOnInsert": bson.M{"_id": t.ID},
				"$set":         bson.M{"wheels": t.Wheels},
			}).
			SetUpsert(true))
	}
	if err := bulkUpsert(ctx, db.Collection(catalogrepo.VehicleTypesCollection), types, log); err != nil {
		return err
	}

	vehicles := make([]mongo.WriteModel, 0, len(SeedVehicles))
	for _, v := range SeedVehicles {
		vehicles = append(vehicles, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": v.Name}).
			SetUpdate(bson.M{
				"$setOnInsert": bson.M{"_id": v.ID},
				"$set":         bson.M{"vehicle_type_id": v.VehicleTypeID},
			}).
			SetUpsert(true))
	}
	return bulkUpsert(ctx, db.Collection(catalogrepo.VehiclesCollection), vehicles, log)
}

func bulkUpsert(ctx context.Context, coll *mongo.Collection, models []mongo.WriteModel, log *logger.Logger) error {
	result, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("failed seeding %s: %w", coll.Name(), err)
	}
	log.Info("Seeded collection",
		"collection", coll.Name(),
		"inserted", result.UpsertedCount,
		"updated", result.ModifiedCount,
	)
	return nil
}
