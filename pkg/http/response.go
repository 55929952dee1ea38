package http

import (
	"encoding/json"
	"net/http"
	apperrors "rentals/pkg/errors"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    apperrors.Kind `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

type CreatedResponse struct {
	Message string `json:"message"`
	Booking any    `json:"booking"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.CodeValidation:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError never exposes the cause of an internal error.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.Classify(err)
	if appErr == nil {
		appErr = apperrors.Internal(apperrors.InternalMessage, nil)
	}

	resp := ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	}
	if appErr.Code != apperrors.CodeInternal {
		resp.Details = appErr.Details
	}

	return WriteJSON(w, StatusFor(appErr.Code), resp)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, message string, booking any) error {
	return WriteJSON(w, http.StatusCreated, CreatedResponse{Message: message, Booking: booking})
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}
