package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "rentals/pkg/errors"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperrors.Validation("invalid date format"), http.StatusBadRequest, "invalid date format"},
		{"not found", apperrors.NotFound("Vehicle not found."), http.StatusNotFound, "Vehicle not found."},
		{"conflict", apperrors.Conflict("taken"), http.StatusConflict, "taken"},
		{"internal", apperrors.Internal(apperrors.InternalMessage, errors.New("secret")), http.StatusInternalServerError, apperrors.InternalMessage},
		{"plain error", errors.New("mongo: socket closed"), http.StatusInternalServerError, apperrors.InternalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", body.Error, tt.wantMsg)
			}
			if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "socket") {
				t.Errorf("cause leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestWriteError_ConflictDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.ConflictWithInterval("taken",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
	_ = WriteError(rec, err)

	if !strings.Contains(rec.Body.String(), `"conflict_start":"2025-06-01T00:00:00Z"`) {
		t.Errorf("conflict details missing: %s", rec.Body.String())
	}
}

func TestWriteCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	_ = WriteCreated(rec, "Booking created successfully", map[string]string{"id": "1"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, `"message":"Booking created successfully"`) || !strings.Contains(got, `"booking":{"id":"1"}`) {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		url     string
		want    int
		wantMsg string
	}{
		{"/?wheels=4", 4, ""},
		{"/?wheels=", 0, "missing"},
		{"/", 0, "missing"},
		{"/?wheels=four", 0, "invalid"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.url, nil)
		got, err := QueryInt(r, "wheels", "missing", "invalid")
		if tt.wantMsg != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("QueryInt(%s) error = %v, want %q", tt.url, err, tt.wantMsg)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("QueryInt(%s) = %d, %v", tt.url, got, err)
		}
	}
}

func TestExtractLimitOffset(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10", nil)
	limit, offset, err := ExtractLimitOffset(r)
	if err != nil || limit != 5 || offset != 10 {
		t.Errorf("got %d, %d, %v", limit, offset, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	if _, _, err := ExtractLimitOffset(r); !apperrors.IsKind(err, apperrors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v map[string]any

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad"))
	if err := DecodeJSON(r, &v); !apperrors.IsKind(err, apperrors.CodeValidation) {
		t.Errorf("malformed body should be a validation error, got %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(r, &v); err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("empty body should be rejected, got %v", err)
	}

	rec := httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"`+strings.Repeat("x", 100)+`"}`))
	r.Body = http.MaxBytesReader(rec, r.Body, 10)
	if err := DecodeJSON(r, &v); err == nil || !strings.Contains(err.Error(), "exceeds 10 bytes") {
		t.Errorf("oversized body should be rejected, got %v", err)
	}
}
