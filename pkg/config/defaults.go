package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "staybook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Instant-book rooms historically accept overlapping requests and leave
	// reconciliation to the host. Turning this on blocks every overlap,
	// instant-book or not.
	DefaultStrictOverlapEnforcement = false

	DefaultBookingLockTTL = 10 * time.Second

	DefaultDefaultMinNights = 1
	DefaultDefaultMaxNights = 365
	DefaultMaxRoomCapacity  = 50

	DefaultPaginationLimit = 100

	// Booking statuses
	Pending   = "pending"
	Confirmed = "confirmed"
	Cancelled = "cancelled"
	Completed = "completed"
	Rejected  = "rejected"
)
