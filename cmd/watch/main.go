package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"labslot/pkg/kafka"
	kafka_config "labslot/pkg/kafka/config"
	kafka_middleware "labslot/pkg/kafka/middleware"
	"labslot/pkg/logger"
	"labslot/pkg/model"
)

// watch tails the reservation event topic and prints each event, the
// operator-side replacement for subscribing in a browser.
func main() {
	topic := flag.String("topic", "reservation-updates", "Kafka topic to tail")
	group := flag.String("group", "labslot-watch", "consumer group id")
	flag.Parse()

	log := logger.New(logger.Config{
		Level:   getEnv("LOG_LEVEL", "info"),
		Format:  "text",
		Service: "watch",
	})

	consumer, err := kafka.NewConsumer(kafka_config.Load(), *topic, *group, printEvent, log)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown
		cancel()
	}()

	log.Info("Watching reservation events", "topic", *topic, "group", *group)
	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
}

func printEvent(ctx context.Context, msg kafka.Message) error {
	var event model.ReservationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("malformed event payload: %w", err)
	}

	if event.Reservation == nil {
		fmt.Printf("[%s] event %s (no snapshot)\n", msg.GetEventType(), event.Action)
		return nil
	}

	desc := ""
	if event.Reservation.Description != nil {
		desc = *event.Reservation.Description
	}
	fmt.Printf("[%s] reservation %d on resource %d: %s -> %s %q\n",
		event.Action,
		event.Reservation.ID,
		event.Reservation.ResourceID,
		event.Reservation.StartTime.Format("2006-01-02 15:04"),
		event.Reservation.EndTime.Format("2006-01-02 15:04"),
		desc,
	)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
