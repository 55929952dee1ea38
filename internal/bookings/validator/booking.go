package validator

import (
	"errors"
	"rentals/pkg/logger"
	"rentals/pkg/model"
	"strings"
	"time"

	apperrors "rentals/pkg/errors"

	"github.com/go-playground/validator/v10"
)

const (
	MsgInvalidDateFormat = "invalid date format"
	MsgIdenticalDates    = "start and end cannot be identical"
	MsgEndBeforeStart    = "end must be after start"
	MsgNamesRequired     = "name fields required"
	MsgVehicleRequired   = "vehicle id required"
)

const dateOnlyLayout = "2006-01-02"

// Layouts tried in order. Values without a zone are read as UTC.
var dateLayouts = []string{
	dateOnlyLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		log.Fatal("Failed to register 'notblank' validator",
			"error", err,
		)
	}

	log.Debug("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// validateNotBlank rejects strings made only of whitespace. The value itself
// is stored untouched.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate checks the request shape and returns the normalized interval.
func (v *BookingValidator) Validate(req *model.BookingRequest) (*model.Interval, error) {
	if req == nil {
		return nil, apperrors.Validation(MsgNamesRequired)
	}

	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, v.translateValidationErrors(validationErrs)
		}
		return nil, apperrors.Internal(apperrors.InternalMessage, err)
	}

	start, end, err := ValidateInterval(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	return &model.Interval{Start: start, End: end}, nil
}

// translateValidationErrors reports the first failing field group. Names are
// checked before the vehicle, the vehicle before the dates.
func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) error {
	var names, vehicle, dates bool
	for _, e := range errs {
		switch e.Field() {
		case "FirstName", "LastName":
			names = true
		case "VehicleID":
			vehicle = true
		case "StartDate", "EndDate":
			dates = true
		}
	}

	switch {
	case names:
		return apperrors.Validation(MsgNamesRequired)
	case vehicle:
		return apperrors.Validation(MsgVehicleRequired)
	case dates:
		return apperrors.Validation(MsgInvalidDateFormat)
	}
	return apperrors.Validation(errs.Error())
}

// ValidateInterval parses both endpoints and checks start < end. Results are
// in UTC with millisecond precision.
func ValidateInterval(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, ok := ParseDate(startRaw)
	if !ok {
		return time.Time{}, time.Time{}, apperrors.Validation(MsgInvalidDateFormat)
	}
	end, ok := ParseDate(endRaw)
	if !ok {
		return time.Time{}, time.Time{}, apperrors.Validation(MsgInvalidDateFormat)
	}

	if start.Equal(end) {
		return time.Time{}, time.Time{}, apperrors.Validation(MsgIdenticalDates)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperrors.Validation(MsgEndBeforeStart)
	}

	return start, end, nil
}

func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t.UTC().Truncate(time.Millisecond), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders midnight values as a bare date and anything else as RFC3339.
func FormatDate(t time.Time) string {
	t = t.UTC()
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(dateOnlyLayout)
	}
	return t.Format(time.RFC3339)
}
