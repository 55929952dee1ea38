package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrRequesterExists is returned when an insert hits the unique
	// (first_name, last_name) index because a concurrent unit of work won the race.
	ErrRequesterExists = errors.New("requester already exists")

	// ErrIdentityRace means the race could not be settled inside the current
	// unit of work; the whole unit of work must be retried.
	ErrIdentityRace = errors.New("requester identity race")
)
