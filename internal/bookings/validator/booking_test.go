package validator

import (
	"testing"
	"time"

	apperrors "rentals/pkg/errors"
	"rentals/pkg/logger"
	"rentals/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.Discard())
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		VehicleID: 5,
		StartDate: "2025-06-01",
		EndDate:   "2025-06-05",
	}
}

func TestValidateInterval(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
		wantMsg   string
	}{
		{
			name:      "date only",
			start:     "2025-06-01",
			end:       "2025-06-05",
			wantStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "rfc3339 with offset is normalized to utc",
			start:     "2025-06-01T10:00:00+02:00",
			end:       "2025-06-01T12:00:00+02:00",
			wantStart: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "sub millisecond precision is dropped",
			start:     "2025-06-01T00:00:00.123456789Z",
			end:       "2025-06-02T00:00:00Z",
			wantStart: time.Date(2025, 6, 1, 0, 0, 0, 123000000, time.UTC),
			wantEnd:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "naive datetime read as utc",
			start:     "2025-06-01T09:30:00",
			end:       "2025-06-01T17:00:00",
			wantStart: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC),
		},
		{name: "garbage start", start: "next tuesday", end: "2025-06-05", wantMsg: MsgInvalidDateFormat},
		{name: "garbage end", start: "2025-06-01", end: "2025-13-45", wantMsg: MsgInvalidDateFormat},
		{name: "empty start", start: "", end: "2025-06-05", wantMsg: MsgInvalidDateFormat},
		{name: "identical", start: "2025-06-01", end: "2025-06-01", wantMsg: MsgIdenticalDates},
		{name: "identical across zones", start: "2025-06-01T02:00:00+02:00", end: "2025-06-01T00:00:00Z", wantMsg: MsgIdenticalDates},
		{name: "reversed", start: "2025-06-05", end: "2025-06-01", wantMsg: MsgEndBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ValidateInterval(tt.start, tt.end)
			if tt.wantMsg != "" {
				assertValidation(t, err, tt.wantMsg)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !start.Equal(tt.wantStart) || start.Location() != time.UTC {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) || end.Location() != time.UTC {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestValidate_Request(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *model.BookingRequest)
		wantMsg string
	}{
		{"empty first name", func(r *model.BookingRequest) { r.FirstName = "" }, MsgNamesRequired},
		{"whitespace last name", func(r *model.BookingRequest) { r.LastName = "   " }, MsgNamesRequired},
		{"missing vehicle", func(r *model.BookingRequest) { r.VehicleID = 0 }, MsgVehicleRequired},
		{"names reported before vehicle", func(r *model.BookingRequest) { r.FirstName = ""; r.VehicleID = 0 }, MsgNamesRequired},
		{"missing start date", func(r *model.BookingRequest) { r.StartDate = "" }, MsgInvalidDateFormat},
		{"reversed dates", func(r *model.BookingRequest) { r.StartDate, r.EndDate = r.EndDate, r.StartDate }, MsgEndBeforeStart},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := v.Validate(req)
			assertValidation(t, err, tt.wantMsg)
		})
	}
}

func TestValidate_NamesAreNotRewritten(t *testing.T) {
	v := newTestValidator()
	req := validRequest()
	req.FirstName = " Ada "

	interval, err := v.Validate(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.FirstName != " Ada " {
		t.Errorf("first name was modified: %q", req.FirstName)
	}
	if !interval.Start.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %v", interval.Start)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)); got != "2025-06-01" {
		t.Errorf("FormatDate(midnight) = %s", got)
	}
	if got := FormatDate(time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)); got != "2025-06-01T09:30:00Z" {
		t.Errorf("FormatDate(09:30) = %s", got)
	}
}

func assertValidation(t *testing.T, err error, wantMsg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error %q, got nil", wantMsg)
	}
	appErr := apperrors.Classify(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
	if appErr.Message != wantMsg {
		t.Errorf("message = %q, want %q", appErr.Message, wantMsg)
	}
}
