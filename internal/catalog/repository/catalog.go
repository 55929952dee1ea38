package repository

import (
	"context"
	"fmt"
	"rentals/pkg/config"
	"rentals/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	VehicleTypesCollection = "Vehicle_types"
	VehiclesCollection     = "Vehicles"
)

type CatalogRepository interface {
	FindTypesByWheels(ctx context.Context, wheels int) ([]*model.VehicleType, error)
	FindVehiclesByType(ctx context.Context, typeID int) ([]*model.Vehicle, error)
}

type mongoCatalogRepository struct {
	cfg      *config.Config
	types    *mongo.Collection
	vehicles *mongo.Collection
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCatalogRepository{
		cfg:      cfg,
		types:    db.Collection(VehicleTypesCollection),
		vehicles: db.Collection(VehiclesCollection),
	}
}

func (r *mongoCatalogRepository) FindTypesByWheels(ctx context.Context, wheels int) ([]*model.VehicleType, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	types := []*model.VehicleType{}
	if err := findAll(ctx, r.types, bson.M{"wheels": wheels}, &types); err != nil {
		return nil, fmt.Errorf("failed to find vehicle types: %w", err)
	}
	return types, nil
}

func (r *mongoCatalogRepository) FindVehiclesByType(ctx context.Context, typeID int) ([]*model.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	vehicles := []*model.Vehicle{}
	if err := findAll(ctx, r.vehicles, bson.M{"vehicle_type_id": typeID}, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to find vehicles: %w", err)
	}
	return vehicles, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetMaxTime(5 * time.Second)
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
