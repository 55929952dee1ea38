package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"rentals/pkg/config"
	apperrors "rentals/pkg/errors"
	"strconv"
	"strings"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.Validation("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.Validation("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// QueryInt reads a required integer query parameter. missingMsg and
// invalidMsg become the validation error messages.
func QueryInt(r *http.Request, name, missingMsg, invalidMsg string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, apperrors.Validation(missingMsg)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation(invalidMsg)
	}
	return v, nil
}

// DecodeJSON decodes the request body into v. Bodies over the size limit and
// malformed JSON are validation errors.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return apperrors.Validation("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.Validation(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		case errors.Is(err, io.EOF):
			return apperrors.Validation("request body is required")
		default:
			return apperrors.Validation("invalid JSON body")
		}
	}
	return nil
}
