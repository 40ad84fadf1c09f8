package handler

import (
	"encoding/json"
	"net/http"

	"labslot/internal/reservations/service"
	httputil "labslot/pkg/http"
	"labslot/pkg/logger"
	"labslot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// availabilityMessage is part of the public contract of
// GET /availability/:resource_id and must not change.
const availabilityMessage = "This endpoint provides raw reservation data. Availability is best checked on the client or via a more specific query."

type AvailabilityResponse struct {
	ResourceID   int64                `json:"resource_id"`
	Message      string               `json:"message"`
	Reservations []*model.Reservation `json:"reservations"`
}

type ReservationHandler struct {
	engine service.ReservationEngine
	log    *logger.Logger
}

func NewReservationHandler(engine service.ReservationEngine, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		engine: engine,
		log:    log,
	}
}

func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Reserve", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.engine.Book(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reserve", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Reserve", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reservations, err := h.engine.ListReservations(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if reservations == nil {
		reservations = []*model.Reservation{}
	}
	if err := httputil.WriteSuccess(w, reservations); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resourceID, err := httputil.PathID(ps, "resource_id")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	reservations, err := h.engine.ListReservationsForResource(r.Context(), resourceID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if reservations == nil {
		reservations = []*model.Reservation{}
	}
	if err := httputil.WriteSuccess(w, AvailabilityResponse{
		ResourceID:   resourceID,
		Message:      availabilityMessage,
		Reservations: reservations,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.PathID(ps, "id")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if _, err := h.engine.Cancel(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, httputil.MessageResponse{
		Message: "Reservation cancelled successfully",
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/reserve", h.Reserve)
	router.GET("/reservations", h.GetAll)
	router.GET("/availability/:resource_id", h.Availability)
	router.DELETE("/reservations/:id", h.Cancel)
}
