package main

import (
	"rentals/internal/bookings/events"
	bookinghandler "rentals/internal/bookings/handler"
	bookingrepo "rentals/internal/bookings/repository"
	bookingservice "rentals/internal/bookings/service"
	"rentals/internal/bookings/validator"
	cataloghandler "rentals/internal/catalog/handler"
	catalogrepo "rentals/internal/catalog/repository"
	catalogservice "rentals/internal/catalog/service"
	"rentals/internal/health"
	"rentals/pkg/app"
	"rentals/pkg/config"
	"rentals/pkg/kafka"
	kafka_config "rentals/pkg/kafka/config"
	kafka_middleware "rentals/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)

	publisher := initPublisher(cfg, serverApp)
	bookingService := initBookingService(cfg, publisher)
	catalogService := catalogservice.NewCatalogService(catalogrepo.NewMongoCatalogRepository(cfg), cfg)

	serverApp.SetApp(
		health.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		cataloghandler.NewCatalogHandler(catalogService, cfg.Log),
	)
	serverApp.Run()
}

func initBookingService(cfg *config.Config, publisher events.Publisher) bookingservice.BookingService {
	bookingService := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingrepo.NewVehicleLockRepository(cfg),
		bookingrepo.NewRequesterRepository(cfg),
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

// initPublisher returns a no-op publisher unless EVENTS_ENABLED is set. The
// producer is closed by the application on shutdown.
func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking events disabled")
		return events.NewNoopPublisher()
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		metrics := &kafka_middleware.Metrics{}
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(metrics.ProducerMiddleware())
		serverApp.OnShutdown("kafka-metrics", func() error {
			metrics.Log(cfg.Log)
			return nil
		})
	}
	serverApp.OnShutdown("kafka-producer", producer.Close)

	cfg.Log.Info("Booking events enabled", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName)
}
