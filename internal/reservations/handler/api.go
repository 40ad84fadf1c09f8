package handler

import (
	"labslot/internal/reservations/service"
	"labslot/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// API groups the public endpoints behind one route registrar.
type API struct {
	reservations *ReservationHandler
	resources    *ResourceHandler
}

func NewAPI(engine service.ReservationEngine, log *logger.Logger) *API {
	return &API{
		reservations: NewReservationHandler(engine, log),
		resources:    NewResourceHandler(engine, log),
	}
}

func (a *API) RegisterRoutes(router *httprouter.Router) {
	a.resources.RegisterRoutes(router)
	a.reservations.RegisterRoutes(router)
}
