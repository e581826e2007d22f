package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "parkdeck"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	// Dev-only fallback. Deployments must set JWT_SECRET.
	DefaultJWTSecret = "parkdeck-dev-secret"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultOpenEndedHorizonYears = 100
	DefaultSpotLockTTL           = 10 * time.Second

	DefaultEventsTopic    = "parking.events"
	DefaultEventsDLQTopic = "parking.events.dlq"

	DefaultPaginationLimit = 100
)
