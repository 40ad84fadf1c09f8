package main

import (
	"context"

	"labslot/internal/reservations/catalog"
	"labslot/internal/reservations/handler"
	"labslot/internal/reservations/repository"
	"labslot/internal/reservations/service"
	"labslot/internal/reservations/store"
	"labslot/internal/reservations/validator"
	"labslot/pkg/app"
	"labslot/pkg/config"
	"labslot/pkg/kafka"
	kafka_config "labslot/pkg/kafka/config"
	kafka_middleware "labslot/pkg/kafka/middleware"
	"labslot/pkg/notify"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	engine, bus := initEngine(cfg)

	serverApp := app.NewApplication(cfg, handler.NewAPI(engine, cfg.Log))
	if cfg.EventsEnabled {
		stopForwarder := startForwarder(cfg, bus)
		serverApp.OnShutdown(stopForwarder)
	}
	serverApp.OnShutdown(bus.Close)

	serverApp.Run()
}

// initEngine hydrates the catalog and the interval store from Mongo, then
// wires the engine on top. Durable state that violates the non-overlap
// invariant aborts startup.
func initEngine(cfg *config.Config) (service.ReservationEngine, *notify.Bus) {
	ctx := context.Background()

	resourceRepo := repository.NewMongoResourceRepository(cfg)
	resources, err := resourceRepo.FindAll(ctx)
	if err != nil {
		cfg.Log.Fatal("Failed to load resources", "error", err)
	}
	resourceCatalog := catalog.New(resources)
	cfg.Log.Info("Resource catalog loaded", "resources", resourceCatalog.Len())

	reservationRepo := repository.NewMongoReservationRepository(cfg)
	reservations, err := reservationRepo.FindAll(ctx)
	if err != nil {
		cfg.Log.Fatal("Failed to load reservations", "error", err)
	}

	intervals := store.NewIntervalStore()
	restored := make([]store.Interval, 0, len(reservations))
	for _, r := range reservations {
		restored = append(restored, store.Interval{
			ID:         r.ID,
			ResourceID: r.ResourceID,
			Start:      r.StartTime,
			End:        r.EndTime,
		})
	}
	if err := intervals.Restore(restored); err != nil {
		cfg.Log.Fatal("Failed to restore interval store", "error", err)
	}
	cfg.Log.Info("Interval store restored", "reservations", len(restored))

	bus := notify.NewBus(64, cfg.Log)

	engine := service.NewReservationEngine(
		intervals,
		resourceCatalog,
		reservationRepo,
		validator.NewReservationValidator(cfg.Log),
		bus,
		cfg,
	)

	cfg.Log.Info("Reservation engine initialized", "database", cfg.MongoDatabaseName)
	return engine, bus
}

// startForwarder attaches a Kafka forwarder to the bus and returns its
// teardown function.
func startForwarder(cfg *config.Config, bus *notify.Bus) func() {
	kafkaCfg := kafka_config.Load()

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	forwarder := notify.NewKafkaForwarder(producer, bus, cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		forwarder.Run(ctx)
	}()

	cfg.Log.Info("Kafka forwarder started", "topic", cfg.EventsTopic)

	return func() {
		forwarder.Stop()
		cancel()
		<-done
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}
