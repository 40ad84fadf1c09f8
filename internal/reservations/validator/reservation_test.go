package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"labslot/pkg/logger"
	"labslot/pkg/model"
)

func newTestValidator() *ReservationValidator {
	return NewReservationValidator(logger.New(logger.Config{Level: "error", Format: logger.JSON}))
}

func validRequest() *model.ReservationRequest {
	return &model.ReservationRequest{
		ResourceID:      1,
		StartTime:       "2025-06-01T10:00:00Z",
		DurationMinutes: json.Number("60"),
	}
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
	if err := newTestValidator().Validate(validRequest()); err != nil {
		t.Errorf("expected valid request to pass, got %v", err)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.ReservationRequest)
		field  string
	}{
		{"missing resource_id", func(r *model.ReservationRequest) { r.ResourceID = 0 }, "ResourceID"},
		{"missing start_time", func(r *model.ReservationRequest) { r.StartTime = "" }, "StartTime"},
		{"missing duration", func(r *model.ReservationRequest) { r.DurationMinutes = "" }, "DurationMinutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := newTestValidator().Validate(req)
			if err == nil {
				t.Fatal("expected a validation error")
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if len(verrs) != 1 || verrs[0].Field != tt.field {
				t.Errorf("expected single error on %s, got %v", tt.field, verrs)
			}
		})
	}
}

func TestValidateOptionalDescription(t *testing.T) {
	req := validRequest()
	req.Description = nil
	if err := newTestValidator().Validate(req); err != nil {
		t.Errorf("nil description must be allowed, got %v", err)
	}

	desc := "weekly sync"
	req.Description = &desc
	if err := newTestValidator().Validate(req); err != nil {
		t.Errorf("present description must be allowed, got %v", err)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "StartTime", Message: "StartTime is required"},
	}
	if errs.Error() == "" {
		t.Error("expected non-empty error message")
	}
	if (ValidationErrors{}).Error() != "" {
		t.Error("empty ValidationErrors should produce an empty message")
	}
}
