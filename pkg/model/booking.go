package model

import "time"

type Requester struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName string    `json:"firstName" bson:"first_name"`
	LastName  string    `json:"lastName" bson:"last_name"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	RequesterID string    `json:"userId" bson:"requester_id"`
	VehicleID   int       `json:"vehicleId" bson:"vehicle_id"`
	StartDate   time.Time `json:"startDate" bson:"start_date"`
	EndDate     time.Time `json:"endDate" bson:"end_date"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// BookingRequest is the raw createBooking input after transport-level coercion.
type BookingRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	VehicleID int    `json:"vehicleId" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// Interval is a validated half-open [Start, End) range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open semantics: touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartDate, End: b.EndDate}
}
