package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"rentals/pkg/model"
)

const idempotencyKeyHeader = "Idempotency-Key"

// APIError is a non-2xx answer from the rentals API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rentals api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

type BookingPage struct {
	Data       []*model.Booking `json:"data"`
	TotalCount int64            `json:"total_count"`
	Limit      int              `json:"limit"`
	Offset     int64            `json:"offset"`
}

type createdBooking struct {
	Message string         `json:"message"`
	Booking *model.Booking `json:"booking"`
}

// RentalsClient is a typed client for the booking and catalog endpoints.
type RentalsClient struct {
	http *HttpClient
}

func NewRentalsClient(baseURL string) *RentalsClient {
	return &RentalsClient{http: NewHttpClient(baseURL)}
}

// NewRentalsClientWith reuses an existing HttpClient, e.g. one pointed at an
// httptest server.
func NewRentalsClientWith(c *HttpClient) *RentalsClient {
	return &RentalsClient{http: c}
}

// CreateBooking posts a booking. A non-empty idempotencyKey makes retries of
// the same call safe.
func (c *RentalsClient) CreateBooking(ctx context.Context, req model.BookingRequest, idempotencyKey string) (*model.Booking, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{idempotencyKeyHeader: idempotencyKey}
	}

	resp, err := c.http.POST(ctx, "/api/bookings", req, headers)
	if err != nil {
		return nil, err
	}
	var out createdBooking
	if err := decode(resp, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return out.Booking, nil
}

func (c *RentalsClient) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.http.GET(ctx, "/api/bookings/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	var out model.Booking
	if err := decode(resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RentalsClient) ListBookings(ctx context.Context, vehicleID, limit int, offset int64) (*BookingPage, error) {
	q := url.Values{}
	q.Set("vehicleId", strconv.Itoa(vehicleID))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.FormatInt(offset, 10))
	}

	resp, err := c.http.GET(ctx, "/api/bookings?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var out BookingPage
	if err := decode(resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RentalsClient) VehicleTypes(ctx context.Context, wheels int) ([]*model.VehicleType, error) {
	resp, err := c.http.GET(ctx, "/api/vehicles/types?wheels="+strconv.Itoa(wheels))
	if err != nil {
		return nil, err
	}
	var out []*model.VehicleType
	if err := decode(resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RentalsClient) Vehicles(ctx context.Context, typeID int) ([]*model.Vehicle, error) {
	resp, err := c.http.GET(ctx, "/api/vehicles?typeId="+strconv.Itoa(typeID))
	if err != nil {
		return nil, err
	}
	var out []*model.Vehicle
	if err := decode(resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(resp *Response, wantStatus int, target any) error {
	if resp.StatusCode != wantStatus {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Error   string         `json:"error"`
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		}
		if err := resp.DecodeJSON(&body); err == nil {
			apiErr.Code = body.Code
			apiErr.Message = body.Error
			apiErr.Details = body.Details
		} else {
			apiErr.Message = string(resp.Body)
		}
		return apiErr
	}
	if err := resp.DecodeJSON(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
