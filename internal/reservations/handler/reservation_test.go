package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "labslot/pkg/errors"
	"labslot/pkg/logger"
	"labslot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockEngine struct {
	bookFunc            func(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error)
	cancelFunc          func(ctx context.Context, id int64) (*model.Reservation, error)
	listResourcesFunc   func(ctx context.Context) ([]model.Resource, error)
	getResourceFunc     func(ctx context.Context, id int64) (*model.Resource, error)
	listAllFunc         func(ctx context.Context) ([]*model.Reservation, error)
	listForResourceFunc func(ctx context.Context, resourceID int64) ([]*model.Reservation, error)
}

func (m *mockEngine) Book(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	return m.bookFunc(ctx, req)
}

func (m *mockEngine) Cancel(ctx context.Context, id int64) (*model.Reservation, error) {
	return m.cancelFunc(ctx, id)
}

func (m *mockEngine) ListResources(ctx context.Context) ([]model.Resource, error) {
	return m.listResourcesFunc(ctx)
}

func (m *mockEngine) GetResource(ctx context.Context, id int64) (*model.Resource, error) {
	return m.getResourceFunc(ctx, id)
}

func (m *mockEngine) ListReservations(ctx context.Context) ([]*model.Reservation, error) {
	return m.listAllFunc(ctx)
}

func (m *mockEngine) ListReservationsForResource(ctx context.Context, resourceID int64) ([]*model.Reservation, error) {
	return m.listForResourceFunc(ctx, resourceID)
}

func newTestRouter(engine *mockEngine) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON})
	router := httprouter.New()
	NewAPI(engine, log).RegisterRoutes(router)
	return router
}

func sampleReservation() *model.Reservation {
	return &model.Reservation{
		ID:         7,
		ResourceID: 1,
		StartTime:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	}
}

func TestReserveCreated(t *testing.T) {
	router := newTestRouter(&mockEngine{
		bookFunc: func(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
			if req.ResourceID != 1 {
				t.Errorf("unexpected resource_id %d", req.ResourceID)
			}
			return sampleReservation(), nil
		},
	})

	body := `{"resource_id":1,"start_time":"2025-06-01T10:00:00Z","duration_minutes":60}`
	req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	var got model.Reservation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.ID != 7 || got.ResourceID != 1 {
		t.Errorf("unexpected reservation: %+v", got)
	}
	if got.Description != nil {
		t.Error("absent description should round-trip as null")
	}
}

func TestReserveDurationAsString(t *testing.T) {
	var captured json.Number
	router := newTestRouter(&mockEngine{
		bookFunc: func(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
			captured = req.DurationMinutes
			return sampleReservation(), nil
		},
	})

	body := `{"resource_id":1,"start_time":"2025-06-01T10:00:00Z","duration_minutes":"60"}`
	req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}
	if captured != "60" {
		t.Errorf("duration_minutes = %q, want 60", captured)
	}
}

func TestReserveMalformedBody(t *testing.T) {
	router := newTestRouter(&mockEngine{
		bookFunc: func(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
			t.Fatal("engine must not be called for malformed bodies")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReserveErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.Validation("Missing data for required field.", nil), http.StatusBadRequest},
		{"unknown resource", apperrors.NotFoundWithID("Resource", 99), http.StatusNotFound},
		{"conflict", apperrors.Conflict("Resource is already reserved for the requested time slot"), http.StatusConflict},
		{"persistence", apperrors.Persistence("Could not process reservation due to a database error.", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockEngine{
				bookFunc: func(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
					return nil, tt.err
				},
			})

			body := `{"resource_id":1,"start_time":"2025-06-01T10:00:00Z","duration_minutes":60}`
			req := httptest.NewRequest(http.MethodPost, "/reserve", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var errBody struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if errBody.Error == "" {
				t.Error("expected a non-empty error message")
			}
		})
	}
}

func TestGetAllReservationsEmptyIsArray(t *testing.T) {
	router := newTestRouter(&mockEngine{
		listAllFunc: func(ctx context.Context) ([]*model.Reservation, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("empty list must encode as [], got %q", got)
	}
}

func TestAvailability(t *testing.T) {
	router := newTestRouter(&mockEngine{
		listForResourceFunc: func(ctx context.Context, resourceID int64) ([]*model.Reservation, error) {
			if resourceID != 1 {
				return nil, apperrors.NotFound("Resource")
			}
			return []*model.Reservation{sampleReservation()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/availability/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var got AvailabilityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.ResourceID != 1 || got.Message == "" || len(got.Reservations) != 1 {
		t.Errorf("unexpected availability response: %+v", got)
	}
}

func TestAvailabilityUnknownResource(t *testing.T) {
	router := newTestRouter(&mockEngine{
		listForResourceFunc: func(ctx context.Context, resourceID int64) ([]*model.Reservation, error) {
			return nil, apperrors.NotFound("Resource")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/availability/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCancelSuccess(t *testing.T) {
	var cancelled int64
	router := newTestRouter(&mockEngine{
		cancelFunc: func(ctx context.Context, id int64) (*model.Reservation, error) {
			cancelled = id
			return sampleReservation(), nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/reservations/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cancelled != 7 {
		t.Errorf("cancelled id = %d, want 7", cancelled)
	}

	var got struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.Message != "Reservation cancelled successfully" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestCancelNotFound(t *testing.T) {
	router := newTestRouter(&mockEngine{
		cancelFunc: func(ctx context.Context, id int64) (*model.Reservation, error) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/reservations/12345", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCancelInvalidID(t *testing.T) {
	router := newTestRouter(&mockEngine{
		cancelFunc: func(ctx context.Context, id int64) (*model.Reservation, error) {
			t.Fatal("engine must not be called for invalid ids")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/reservations/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetResources(t *testing.T) {
	router := newTestRouter(&mockEngine{
		listResourcesFunc: func(ctx context.Context) ([]model.Resource, error) {
			return []model.Resource{
				{ID: 1, Name: "bench-alpha", IPAddress: "10.0.0.1", SSHPort: 22, WebPort: 8080},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/resources", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []model.Resource
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(got) != 1 || got[0].Name != "bench-alpha" {
		t.Errorf("unexpected resources: %+v", got)
	}
}

func TestGetResourceByID(t *testing.T) {
	router := newTestRouter(&mockEngine{
		getResourceFunc: func(ctx context.Context, id int64) (*model.Resource, error) {
			if id != 1 {
				return nil, apperrors.NotFound("Resource")
			}
			return &model.Resource{ID: 1, Name: "bench-alpha"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/resources/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/resources/999", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var errBody struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if errBody.Error != "Resource not found" {
		t.Errorf("error = %q, want %q", errBody.Error, "Resource not found")
	}
}
