package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "rentals/internal/bookings/errors"
	"rentals/pkg/config"
	"rentals/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const UsersCollection = "Users"

type RequesterRepository interface {
	// FindByName returns nil, nil when no requester has this exact name pair.
	FindByName(ctx context.Context, firstName, lastName string) (*model.Requester, error)
	// Create returns ErrRequesterExists when the unique name index rejects the insert.
	Create(ctx context.Context, requester *model.Requester) error
}

type mongoRequesterRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewRequesterRepository(cfg *config.Config) RequesterRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRequesterRepository{
		cfg:        cfg,
		collection: db.Collection(UsersCollection),
	}
}

func (r *mongoRequesterRepository) FindByName(ctx context.Context, firstName, lastName string) (*model.Requester, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var requester model.Requester
	err := r.collection.FindOne(ctx, bson.M{
		"first_name": firstName,
		"last_name":  lastName,
	}).Decode(&requester)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find requester: %w", err)
	}

	return &requester, nil
}

func (r *mongoRequesterRepository) Create(ctx context.Context, requester *model.Requester) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	requester.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, requester)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", bookingserrors.ErrRequesterExists, err)
		}
		return fmt.Errorf("failed to create requester: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		requester.ID = oid.Hex()
	}
	return nil
}
