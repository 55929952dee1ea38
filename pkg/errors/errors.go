package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind is the stable category of an AppError. It never depends on message text.
type Kind string

const (
	CodeValidation Kind = "VALIDATION_ERROR"
	CodeNotFound   Kind = "NOT_FOUND"
	CodeConflict   Kind = "CONFLICT"
	CodeInternal   Kind = "INTERNAL_ERROR"
)

const (
	DetailConflictStart = "conflict_start"
	DetailConflictEnd   = "conflict_end"
)

// InternalMessage is the only text an internal failure ever shows its caller.
const InternalMessage = "An internal error occurred while creating the booking."

type AppError struct {
	Code    Kind           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

type ErrorResponse struct {
	Code    Kind           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func Validation(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NotFound(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

func NotFoundWithID(resource string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// ConflictWithInterval builds a conflict that names the interval it collided with.
func ConflictWithInterval(message string, start, end time.Time) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Details: map[string]any{
			DetailConflictStart: start.UTC().Format(time.RFC3339),
			DetailConflictEnd:   end.UTC().Format(time.RFC3339),
		},
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == kind
}

// Classify maps any failure onto the four kinds that may leave the core.
// Unknown failures become Internal; the cause is kept for logging only.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeValidation, CodeNotFound, CodeConflict, CodeInternal:
			return appErr
		}
		return Internal(InternalMessage, appErr)
	}
	return Internal(InternalMessage, err)
}
