package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"rentals/internal/bookings/events"
	"rentals/pkg/config"
	"rentals/pkg/kafka"
	kafka_config "rentals/pkg/kafka/config"
	kafka_middleware "rentals/pkg/kafka/middleware"
)

const ServiceName = "notifier"

// The notifier consumes booking.created events and logs a confirmation for
// each booking. Failed messages are parked on the DLQ.
func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		cfg.NotifierGroupID,
		cfg.BookingEventsDLQTopic,
		events.NewBookingCreatedHandler(cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := &kafka_middleware.Metrics{}
	consumer.Use(metrics.ConsumerMiddleware())
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier", "topic", cfg.BookingEventsTopic, "group_id", cfg.NotifierGroupID)
	runErr := consumer.Start(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", runErr)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Warn("Failed to close consumer", "error", err)
	}
	metrics.Log(cfg.Log)

	// Exit non-zero so the unsettled message is redelivered on restart.
	if errors.Is(runErr, kafka.ErrMessageNotSettled) {
		cfg.Log.Fatal("Notifier stopped on an unsettled message", "error", runErr)
	}
	cfg.Log.Info("Notifier stopped")
}
