package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingserrors "rentals/internal/bookings/errors"
	"rentals/internal/bookings/repository"
	"rentals/internal/bookings/validator"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/logger"
	"rentals/pkg/model"
)

// IdentityResolver maps a (first name, last name) pair to a requester id,
// creating the requester on first sight. Names match exactly and are stored
// as given.
type IdentityResolver struct {
	repo repository.RequesterRepository
	log  *logger.Logger
}

func NewIdentityResolver(repo repository.RequesterRepository, log *logger.Logger) *IdentityResolver {
	return &IdentityResolver{repo: repo, log: log}
}

// Resolve must run inside the caller's unit of work. When a concurrent unit of
// work inserts the same pair first, the winner is re-read; if that is not
// possible here, ErrIdentityRace tells the caller to retry the whole unit.
func (r *IdentityResolver) Resolve(ctx context.Context, firstName, lastName string) (string, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return "", apperrors.Validation(validator.MsgNamesRequired)
	}

	existing, err := r.repo.FindByName(ctx, firstName, lastName)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	requester := &model.Requester{FirstName: firstName, LastName: lastName}
	err = r.repo.Create(ctx, requester)
	if err == nil {
		r.log.Debug("Requester created", "requester_id", requester.ID)
		return requester.ID, nil
	}
	if !errors.Is(err, bookingserrors.ErrRequesterExists) {
		return "", err
	}

	r.log.Debug("Requester inserted concurrently, re-reading")
	existing, err = r.repo.FindByName(ctx, firstName, lastName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", bookingserrors.ErrIdentityRace, err)
	}
	if existing == nil {
		return "", bookingserrors.ErrIdentityRace
	}
	return existing.ID, nil
}
