package main

import (
	"parkdeck/internal/parking/events"
	"parkdeck/internal/parking/handler"
	"parkdeck/internal/parking/repository"
	"parkdeck/internal/parking/service"
	"parkdeck/internal/parking/validator"
	"parkdeck/pkg/app"
	"parkdeck/pkg/config"
	"parkdeck/pkg/kafka"
	kafka_config "parkdeck/pkg/kafka/config"
)

const ServiceName = "parking"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Parking service")

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	api := initAPI(cfg, publisher)
	healthHandler := handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(healthHandler, api)
	serverApp.Run()
}

// initPublisher wires the Kafka producer behind the domain event publisher.
// A broker outage must not take the API down, so failures degrade to a
// publisher that only logs.
func initPublisher(cfg *config.Config) *events.Publisher {
	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Error("Failed to initialize Kafka producer, events will not be published", "error", err)
		return events.NewPublisher(nil, ServiceName, cfg.Log)
	}

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.EventsTopic, "dlq_topic", cfg.EventsDLQTopic)
	return events.NewPublisher(producer, ServiceName, cfg.Log)
}

func initAPI(cfg *config.Config, publisher *events.Publisher) *handler.API {
	lotRepo := repository.NewMongoLotRepository(cfg)
	spotRepo := repository.NewMongoSpotRepository(cfg)
	sessionRepo := repository.NewMongoSessionRepository(cfg)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	paymentRepo := repository.NewMongoPaymentRepository(cfg)
	lockRepo := repository.NewMongoSpotLockRepository(cfg)

	lotService := service.NewLotService(lotRepo, validator.NewLotValidator(cfg.Log), cfg)
	spotService := service.NewSpotService(spotRepo, validator.NewSpotValidator(cfg.Log), publisher, cfg)
	sessionService := service.NewSessionService(
		sessionRepo,
		spotRepo,
		lotRepo,
		paymentRepo,
		lockRepo,
		validator.NewSessionValidator(cfg.Log),
		publisher,
		cfg,
	)
	reservationService := service.NewReservationService(
		reservationRepo,
		spotRepo,
		lockRepo,
		validator.NewReservationValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Parking services initialized", "database", cfg.MongoDatabaseName)

	return handler.NewAPI(
		handler.NewLotHandler(lotService, cfg.Log),
		handler.NewSpotHandler(spotService, cfg.Log),
		handler.NewSessionHandler(sessionService, cfg.Log),
		handler.NewReservationHandler(reservationService, cfg.Log),
	)
}
