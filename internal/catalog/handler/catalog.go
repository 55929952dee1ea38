package handler

import (
	"net/http"

	"rentals/internal/catalog/service"
	httputil "rentals/pkg/http"
	"rentals/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const (
	MsgWheelsMissing = "Please select the number of wheels to see available types."
	MsgWheelsInvalid = "Invalid number of wheels provided. It must be a number."
	MsgTypeIDMissing = "Please select a vehicle type to see available models."
	MsgTypeIDInvalid = "Invalid Vehicle Type ID provided. It must be a number."
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, log: log}
}

func (h *CatalogHandler) GetVehicleTypes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	wheels, err := httputil.QueryInt(r, "wheels", MsgWheelsMissing, MsgWheelsInvalid)
	if err != nil {
		h.writeError(w, "GetVehicleTypes", err)
		return
	}

	types, err := h.service.TypesByWheels(r.Context(), wheels)
	if err != nil {
		h.writeError(w, "GetVehicleTypes", err)
		return
	}

	if err := httputil.WriteSuccess(w, types); err != nil {
		h.log.Error("failed to write success response", "handler", "GetVehicleTypes", "error", err)
	}
}

func (h *CatalogHandler) GetVehicles(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	typeID, err := httputil.QueryInt(r, "typeId", MsgTypeIDMissing, MsgTypeIDInvalid)
	if err != nil {
		h.writeError(w, "GetVehicles", err)
		return
	}

	vehicles, err := h.service.VehiclesByType(r.Context(), typeID)
	if err != nil {
		h.writeError(w, "GetVehicles", err)
		return
	}

	if err := httputil.WriteSuccess(w, vehicles); err != nil {
		h.log.Error("failed to write success response", "handler", "GetVehicles", "error", err)
	}
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// RegisterRoutes uses a query parameter for the type id because httprouter
// cannot hold /api/vehicles/types next to /api/vehicles/:typeId.
func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/vehicles/types", h.GetVehicleTypes)
	router.GET("/api/vehicles", h.GetVehicles)
}
