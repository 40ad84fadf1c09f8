package notify

import (
	"context"
	"strconv"

	"labslot/pkg/kafka"
	"labslot/pkg/logger"
	"labslot/pkg/model"
)

const eventTypeReservationUpdate = "reservation_update"

// KafkaForwarder bridges bus events onto a Kafka topic. Messages are keyed
// by resource id so hash partitioning preserves per-resource ordering.
type KafkaForwarder struct {
	producer *kafka.Producer
	events   <-chan model.ReservationEvent
	cancel   func()
	log      *logger.Logger
}

func NewKafkaForwarder(producer *kafka.Producer, bus *Bus, log *logger.Logger) *KafkaForwarder {
	events, cancel := bus.Subscribe()
	return &KafkaForwarder{
		producer: producer,
		events:   events,
		cancel:   cancel,
		log:      log,
	}
}

// Run forwards events until the context ends or the bus closes. Publish
// failures are logged and dropped; the stream has no delivery guarantee.
func (f *KafkaForwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-f.events:
			if !ok {
				return
			}
			f.forward(ctx, event)
		}
	}
}

func (f *KafkaForwarder) forward(ctx context.Context, event model.ReservationEvent) {
	if event.Reservation == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(strconv.FormatInt(event.Reservation.ResourceID, 10)).
		WithValue(event).
		WithEventType(eventTypeReservationUpdate).
		WithSource("reservations").
		Build()

	if err := f.producer.Publish(ctx, msg); err != nil {
		f.log.Error("Failed to forward reservation event",
			"action", event.Action,
			"reservation_id", event.Reservation.ID,
			"error", err,
		)
	}
}

// Stop detaches the forwarder from the bus.
func (f *KafkaForwarder) Stop() {
	f.cancel()
}
