package handler

import (
	"net/http"

	"labslot/internal/reservations/service"
	httputil "labslot/pkg/http"
	"labslot/pkg/logger"
	"labslot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ResourceHandler struct {
	engine service.ReservationEngine
	log    *logger.Logger
}

func NewResourceHandler(engine service.ReservationEngine, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{
		engine: engine,
		log:    log,
	}
}

func (h *ResourceHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resources, err := h.engine.ListResources(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if resources == nil {
		resources = []model.Resource{}
	}
	if err := httputil.WriteSuccess(w, resources); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ResourceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.PathID(ps, "id")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	resource, err := h.engine.GetResource(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, resource); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ResourceHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/resources", h.GetAll)
	router.GET("/resources/:id", h.GetByID)
}
