package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingrepo "rentals/internal/bookings/repository"
	catalogrepo "rentals/internal/catalog/repository"
	"rentals/internal/migrations/mongo/validators"
	"rentals/pkg/logger"
)

var (
	VehicleTypesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "wheels", Value: 1}}},
	}

	VehiclesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "vehicle_type_id", Value: 1}}},
	}

	// The unique pair index turns a concurrent insert of the same requester
	// into a duplicate key error, which the identity resolver treats as a race.
	UsersIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "first_name", Value: 1},
				{Key: "last_name", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "vehicle_id", Value: 1},
			{Key: "start_date", Value: 1},
			{Key: "end_date", Value: 1},
		}},
		{Keys: bson.D{{Key: "requester_id", Value: 1}}},
	}
)

type collectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections are created in dependency order: catalog first, then users and
// bookings.
func collections() []collectionDef {
	return []collectionDef{
		{Name: catalogrepo.VehicleTypesCollection, Indexes: VehicleTypesIndexes, Validator: validators.VehicleTypeValidator},
		{Name: catalogrepo.VehiclesCollection, Indexes: VehiclesIndexes, Validator: validators.VehicleValidator},
		{Name: bookingrepo.UsersCollection, Indexes: UsersIndexes, Validator: validators.RequesterValidator},
		{Name: bookingrepo.CollectionName, Indexes: BookingsIndexes, Validator: validators.BookingValidator},
	}
}

// RunMigration creates every collection with its validator and indexes. When
// seed is true the initial vehicle catalog is upserted afterwards.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string, seed bool, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for _, def := range collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	if seed {
		if err := SeedCatalog(ctx, db, log); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
