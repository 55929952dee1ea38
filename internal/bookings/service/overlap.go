package service

import (
	"context"
	"fmt"

	"rentals/internal/bookings/repository"
	"rentals/internal/bookings/validator"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/model"
)

type OverlapChecker struct {
	repo repository.BookingRepository
}

func NewOverlapChecker(repo repository.BookingRepository) *OverlapChecker {
	return &OverlapChecker{repo: repo}
}

// HasOverlap returns the earliest booking of the vehicle that intersects the
// half-open interval, or nil. It must run inside the unit of work that holds
// the vehicle lock, otherwise the answer can be stale by the time it is used.
func (c *OverlapChecker) HasOverlap(ctx context.Context, vehicleID int, interval model.Interval) (*model.Booking, error) {
	existing, err := c.repo.FindOverlapping(ctx, vehicleID, interval.Start, interval.End)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func conflictError(existing *model.Booking) *apperrors.AppError {
	msg := fmt.Sprintf("Vehicle is already booked from %s to %s. Please select different dates.",
		validator.FormatDate(existing.StartDate),
		validator.FormatDate(existing.EndDate),
	)
	return apperrors.ConflictWithInterval(msg, existing.StartDate, existing.EndDate)
}
