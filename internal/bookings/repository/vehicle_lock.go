package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "rentals/internal/bookings/errors"
	"rentals/pkg/config"
	"rentals/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const VehiclesCollection = "Vehicles"

// VehicleLockRepository checks a vehicle exists and write-locks it for the
// rest of the surrounding transaction.
type VehicleLockRepository interface {
	LockForBooking(ctx context.Context, vehicleID int) (*model.Vehicle, error)
}

type mongoVehicleLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewVehicleLockRepository(cfg *config.Config) VehicleLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVehicleLockRepository{
		cfg:        cfg,
		collection: db.Collection(VehiclesCollection),
	}
}

// LockForBooking bumps booking_seq on the vehicle document. Inside a
// transaction the write holds the document until commit or abort, so a second
// transaction locking the same vehicle fails with a WriteConflict and is
// retried by the driver after the first one finishes.
func (r *mongoVehicleLockRepository) LockForBooking(ctx context.Context, vehicleID int) (*model.Vehicle, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var vehicle model.Vehicle
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": vehicleID},
		bson.M{"$inc": bson.M{"booking_seq": 1}},
		opts,
	).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to lock vehicle %d: %w", vehicleID, err)
	}

	return &vehicle, nil
}
