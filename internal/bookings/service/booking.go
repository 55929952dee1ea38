package service

import (
	"context"
	"errors"
	"sync"

	bookingserrors "rentals/internal/bookings/errors"
	"rentals/internal/bookings/events"
	"rentals/internal/bookings/repository"
	"rentals/internal/bookings/validator"
	"rentals/pkg/config"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const MsgVehicleNotFound = "Vehicle not found."

// State is a step of the admission protocol. It is only used for logging.
type State string

const (
	StateValidating      State = "validating"
	StateResourceCheck   State = "resource_check"
	StateConflictCheck   State = "conflict_check"
	StateIdentityResolve State = "identity_resolve"
	StatePersist         State = "persist"
	StateCommitted       State = "committed"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByVehicle(ctx context.Context, vehicleID int, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	vehicles  repository.VehicleLockRepository
	identity  *IdentityResolver
	overlap   *OverlapChecker
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	vehicles repository.VehicleLockRepository,
	requesters repository.RequesterRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &bookingService{
		repo:      repo,
		vehicles:  vehicles,
		identity:  NewIdentityResolver(requesters, cfg.Log),
		overlap:   NewOverlapChecker(repo),
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create admits a booking if the vehicle exists and the interval is free, and
// records it together with the requester in one transaction. Every error
// returned is an *apperrors.AppError of one of the four kinds.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	interval, err := s.validator.Validate(req)
	if err != nil {
		appErr := apperrors.Classify(err)
		s.cfg.Log.Warn("Booking rejected", "state", StateValidating, "code", appErr.Code, "reason", appErr.Message)
		return nil, appErr
	}

	var (
		booking *model.Booking
		state   State
	)
	attempts := max(s.cfg.IdentityRaceRetries, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		booking, state, err = s.admit(ctx, req, interval)
		if !errors.Is(err, bookingserrors.ErrIdentityRace) {
			break
		}
		s.cfg.Log.Warn("Requester identity race, retrying booking",
			"attempt", attempt,
			"max_attempts", attempts,
			"vehicle_id", req.VehicleID,
		)
	}

	if err != nil {
		appErr := apperrors.Classify(err)
		if appErr.Code == apperrors.CodeInternal {
			s.cfg.Log.Error("Failed to create booking",
				"state", state,
				"vehicle_id", req.VehicleID,
				"error", err,
			)
		} else {
			s.cfg.Log.Info("Booking rejected",
				"state", state,
				"code", appErr.Code,
				"vehicle_id", req.VehicleID,
				"reason", appErr.Message,
			)
		}
		return nil, appErr
	}

	s.cfg.Log.Info("Booking created successfully",
		"state", StateCommitted,
		"id", booking.ID,
		"vehicle_id", booking.VehicleID,
		"requester_id", booking.RequesterID,
		"start_date", booking.StartDate,
		"end_date", booking.EndDate,
	)

	s.publishCreated(ctx, booking)
	return booking, nil
}

// admit runs one unit of work. The returned state is the step the unit of
// work was in when it stopped.
func (s *bookingService) admit(ctx context.Context, req *model.BookingRequest, interval *model.Interval) (*model.Booking, State, error) {
	var (
		booking *model.Booking
		state   State
	)

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The driver may re-run this function on transient errors.
		booking = nil

		state = StateResourceCheck
		if _, err := s.vehicles.LockForBooking(sessCtx, req.VehicleID); err != nil {
			if errors.Is(err, bookingserrors.ErrVehicleNotFound) {
				return apperrors.NotFound(MsgVehicleNotFound)
			}
			return err
		}

		state = StateConflictCheck
		existing, err := s.overlap.HasOverlap(sessCtx, req.VehicleID, *interval)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflictError(existing)
		}

		state = StateIdentityResolve
		requesterID, err := s.identity.Resolve(sessCtx, req.FirstName, req.LastName)
		if err != nil {
			return err
		}

		state = StatePersist
		b := &model.Booking{
			RequesterID: requesterID,
			VehicleID:   req.VehicleID,
			StartDate:   interval.Start,
			EndDate:     interval.End,
		}
		if err := s.repo.Create(sessCtx, b); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, state, err
	}

	return booking, StateCommitted, nil
}

// publishCreated is best effort: the booking is committed whatever happens here.
func (s *bookingService) publishCreated(ctx context.Context, booking *model.Booking) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.publisher.PublishBookingCreated(pubCtx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "id", booking.ID, "error", err)
	}
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.Validation("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.Validation("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to retrieve booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListByVehicle(ctx context.Context, vehicleID int, limit int, offset int64) ([]*model.Booking, int64, error) {
	if vehicleID <= 0 {
		return nil, 0, apperrors.Validation(validator.MsgVehicleRequired)
	}

	var (
		count             int64
		bookings          []*model.Booking
		errCount, errFind error
		wg                sync.WaitGroup
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByVehicle(ctx, vehicleID)
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByVehicle(ctx, vehicleID, limit, offset)
	}()

	wg.Wait()
	if err := errors.Join(errCount, errFind); err != nil {
		s.cfg.Log.Error("Failed to list bookings", "vehicle_id", vehicleID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, count, nil
}
