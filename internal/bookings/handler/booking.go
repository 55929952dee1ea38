package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"rentals/internal/bookings/service"
	httputil "rentals/pkg/http"
	"rentals/pkg/logger"
	"rentals/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const MsgBookingCreated = "Booking created successfully"

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// createBookingBody accepts vehicleId as a JSON number or a numeric string,
// since HTML form values arrive as strings.
type createBookingBody struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	VehicleID flexibleInt `json:"vehicleId"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
}

type flexibleInt int

func (f *flexibleInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexibleInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexibleInt(n)
	return nil
}

func (b createBookingBody) toRequest() *model.BookingRequest {
	return &model.BookingRequest{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		VehicleID: int(b.VehicleID),
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body createBookingBody
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking, err := h.service.Create(r.Context(), body.toRequest())
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, MsgBookingCreated, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListByVehicle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	vehicleID, err := httputil.QueryInt(r, "vehicleId", "vehicleId query parameter is required", "vehicleId must be a number")
	if err != nil {
		h.writeError(w, "ListByVehicle", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByVehicle", err)
		return
	}

	bookings, total, err := h.service.ListByVehicle(r.Context(), vehicleID, limit, offset)
	if err != nil {
		h.writeError(w, "ListByVehicle", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByVehicle", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.Create)
	router.GET("/api/bookings", h.ListByVehicle)
	router.GET("/api/bookings/:id", h.GetByID)
}
