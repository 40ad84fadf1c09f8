package model

import (
	"encoding/json"
	"time"
)

// Reservation is a confirmed, immutable time slot on a single resource.
// The interval is half-open: [StartTime, EndTime). The only mutation a
// reservation ever sees is deletion through a cancel request.
type Reservation struct {
	ID          int64     `json:"id" bson:"_id"`
	ResourceID  int64     `json:"resource_id" bson:"resource_id"`
	StartTime   time.Time `json:"start_time" bson:"start_time"`
	EndTime     time.Time `json:"end_time" bson:"end_time"`
	Description *string   `json:"description" bson:"description,omitempty"`
}

// ReservationRequest is the body of POST /reserve. DurationMinutes is kept
// as json.Number so the engine owns the "positive integer" check instead of
// the JSON decoder.
type ReservationRequest struct {
	ResourceID      int64       `json:"resource_id" validate:"required"`
	StartTime       string      `json:"start_time" validate:"required"`
	DurationMinutes json.Number `json:"duration_minutes" validate:"required"`
	Description     *string     `json:"description"`
}

// Event actions carried on the notification bus and the Kafka topic.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// ReservationEvent is the fanout payload emitted after a successful Book or
// Cancel. It carries the full snapshot so subscribers never need a read-back.
type ReservationEvent struct {
	Action      string       `json:"action"`
	Reservation *Reservation `json:"reservation"`
}
