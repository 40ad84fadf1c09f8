package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labslot/internal/reservations/catalog"
	reserrors "labslot/internal/reservations/errors"
	"labslot/internal/reservations/repository"
	"labslot/internal/reservations/store"
	"labslot/internal/reservations/validator"
	"labslot/pkg/config"
	apperrors "labslot/pkg/errors"
	"labslot/pkg/model"
	"labslot/pkg/notify"
	"labslot/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// naiveTimeLayout accepts timestamps without a zone designator; they are
// interpreted as UTC, matching how clients of the old API sent them.
const naiveTimeLayout = "2006-01-02T15:04:05"

type ReservationEngine interface {
	Book(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error)
	Cancel(ctx context.Context, id int64) (*model.Reservation, error)
	ListResources(ctx context.Context) ([]model.Resource, error)
	GetResource(ctx context.Context, id int64) (*model.Resource, error)
	ListReservations(ctx context.Context) ([]*model.Reservation, error)
	ListReservationsForResource(ctx context.Context, resourceID int64) ([]*model.Reservation, error)
}

type reservationEngine struct {
	store     *store.IntervalStore
	catalog   *catalog.Catalog
	repo      repository.ReservationRepository
	validator *validator.ReservationValidator
	bus       notify.Publisher
	cfg       *config.Config
}

func NewReservationEngine(
	intervals *store.IntervalStore,
	resources *catalog.Catalog,
	repo repository.ReservationRepository,
	reqValidator *validator.ReservationValidator,
	bus notify.Publisher,
	cfg *config.Config,
) ReservationEngine {
	return &reservationEngine{
		store:     intervals,
		catalog:   resources,
		repo:      repo,
		validator: reqValidator,
		bus:       bus,
		cfg:       cfg,
	}
}

// Book admits the requested slot against the in-memory interval store, then
// mirrors it to durable storage. Admission and persistence are ordered so a
// storage failure rolls the slot back; the slot is never durable without
// being admitted first.
func (s *reservationEngine) Book(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	if req.Description != nil {
		desc := sanitizer.NormalizeDescription(*req.Description)
		if desc == "" {
			req.Description = nil
		} else {
			req.Description = &desc
		}
	}

	if err := s.validator.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]any, len(verrs))
			for _, ve := range verrs {
				details[ve.Field] = ve.Message
			}
			return nil, apperrors.Validation("Missing data for required field.", details)
		}
		return nil, apperrors.Internal("Failed to validate reservation request", err)
	}

	start, err := parseStartTime(req.StartTime)
	if err != nil {
		return nil, apperrors.InvalidInput("start_time must be an ISO 8601 timestamp")
	}

	minutes, err := req.DurationMinutes.Int64()
	if err != nil || minutes <= 0 {
		return nil, apperrors.InvalidInput("duration_minutes must be a positive integer")
	}
	end := start.Add(time.Duration(minutes) * time.Minute)

	if !s.catalog.Exists(req.ResourceID) {
		return nil, apperrors.NotFoundWithID("Resource", req.ResourceID)
	}

	id, ok := s.store.AdmitIfFree(req.ResourceID, start, end)
	if !ok {
		s.cfg.Log.Info("Reservation rejected due to conflict",
			"resource_id", req.ResourceID,
			"start_time", start,
			"end_time", end,
		)
		return nil, apperrors.Conflict("Resource is already reserved for the requested time slot")
	}

	reservation := &model.Reservation{
		ID:          id,
		ResourceID:  req.ResourceID,
		StartTime:   start,
		EndTime:     end,
		Description: req.Description,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return s.repo.Create(sessCtx, reservation)
	})
	if err != nil {
		s.store.Remove(id)
		s.cfg.Log.Error("Failed to persist reservation, slot released",
			"id", id,
			"resource_id", req.ResourceID,
			"error", err,
		)
		return nil, apperrors.Persistence("Could not process reservation due to a database error.", err)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"resource_id", reservation.ResourceID,
		"start_time", reservation.StartTime,
		"end_time", reservation.EndTime,
	)

	s.bus.Publish(model.ReservationEvent{
		Action:      model.ActionCreated,
		Reservation: reservation,
	})

	return reservation, nil
}

// Cancel releases the slot and deletes the durable record, returning the
// pre-deletion snapshot. Removing the interval first keeps the store
// authoritative; a storage failure re-admits the exact interval so no state
// is lost. Cancelling an id twice reports not found on the second call.
func (s *reservationEngine) Cancel(ctx context.Context, id int64) (*model.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	removed, ok := s.store.Remove(id)
	if !ok {
		// Durable record exists but the slot is already gone, so another
		// cancel won the race. Treat it as the second call.
		return nil, apperrors.NotFoundWithID("Reservation", id)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return s.repo.Delete(sessCtx, id)
	})
	if err != nil && !errors.Is(err, reserrors.ErrNotFound) {
		if restoreErr := s.store.Restore([]store.Interval{removed}); restoreErr != nil {
			s.cfg.Log.Error("Failed to re-admit interval after cancel rollback",
				"id", id,
				"error", restoreErr,
			)
		}
		s.cfg.Log.Error("Failed to delete reservation, slot re-admitted",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Persistence("Could not process cancellation due to a database error.", err)
	}

	s.cfg.Log.Info("Reservation cancelled successfully",
		"id", reservation.ID,
		"resource_id", reservation.ResourceID,
	)

	s.bus.Publish(model.ReservationEvent{
		Action:      model.ActionDeleted,
		Reservation: reservation,
	})

	return reservation, nil
}

func (s *reservationEngine) ListResources(ctx context.Context) ([]model.Resource, error) {
	return s.catalog.List(), nil
}

func (s *reservationEngine) GetResource(ctx context.Context, id int64) (*model.Resource, error) {
	resource, ok := s.catalog.Get(id)
	if !ok {
		return nil, apperrors.NotFound("Resource")
	}
	return &resource, nil
}

func (s *reservationEngine) ListReservations(ctx context.Context) ([]*model.Reservation, error) {
	reservations, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, nil
}

func (s *reservationEngine) ListReservationsForResource(ctx context.Context, resourceID int64) ([]*model.Reservation, error) {
	if !s.catalog.Exists(resourceID) {
		return nil, apperrors.NotFound("Resource")
	}

	reservations, err := s.repo.FindByResource(ctx, resourceID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations for resource",
			"resource_id", resourceID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, nil
}

// parseStartTime accepts RFC 3339 timestamps and zone-less timestamps, the
// two shapes clients historically sent.
func parseStartTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(naiveTimeLayout, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", value)
}
