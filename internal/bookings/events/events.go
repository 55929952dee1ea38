package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"rentals/pkg/kafka"
	"rentals/pkg/middleware"
	"rentals/pkg/model"
)

const (
	EventBookingCreated = "booking.created"
	SchemaVersion       = "1"
)

// BookingCreated is the payload of a booking.created event.
type BookingCreated struct {
	BookingID   string    `json:"booking_id"`
	RequesterID string    `json:"requester_id"`
	VehicleID   int       `json:"vehicle_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewBookingCreated(b *model.Booking) BookingCreated {
	return BookingCreated{
		BookingID:   b.ID,
		RequesterID: b.RequesterID,
		VehicleID:   b.VehicleID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		CreatedAt:   b.CreatedAt,
	}
}

// Publisher announces committed bookings. It is only ever called after the
// transaction has committed.
type Publisher interface {
	PublishBookingCreated(ctx context.Context, booking *model.Booking) error
}

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaPublisher struct {
	producer MessagePublisher
	source   string
}

func NewKafkaPublisher(producer MessagePublisher, source string) Publisher {
	return &kafkaPublisher{producer: producer, source: source}
}

// PublishBookingCreated keys the message by vehicle id so events for one
// vehicle stay ordered on a single partition.
func (p *kafkaPublisher) PublishBookingCreated(ctx context.Context, booking *model.Booking) error {
	msg, err := kafka.NewMessage().
		WithKey(strconv.Itoa(booking.VehicleID)).
		WithValue(NewBookingCreated(booking)).
		WithEventType(EventBookingCreated).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", EventBookingCreated, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", EventBookingCreated, err)
	}
	return nil
}

type noopPublisher struct{}

// NewNoopPublisher is used when events are disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishBookingCreated(context.Context, *model.Booking) error {
	return nil
}
