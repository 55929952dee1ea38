package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "rentals"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "5002"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultCORSAllowedOrigins = "*"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTransactionTimeout  = 10 * time.Second
	DefaultIdentityRaceRetries = 3

	DefaultEventsEnabled         = false
	DefaultBookingEventsTopic    = "rentals.booking-events"
	DefaultBookingEventsDLQTopic = "rentals.booking-events.dlq"
	DefaultNotifierGroupID       = "rentals-notifier"

	DefaultPaginationLimit = 100
)
