package constant

import (
	"time"

	"github.com/Felo0o0/PrimeSecure/utils/types"
)

// These are general keys for the config file
const (
	Service     = "service"
	Environment = "environment"
	RunMode     = "RunMode"
	Language    = "language"

	EnvPrefix = "PRIMESECURE"

	DefaultServiceName = "primesecure"
	DefaultEnvironment = "dev"
	DefaultConfigName  = "config"
	DefaultConfigType  = "yaml"
)

// Statuses reported by batch and scan outcomes
const (
	Completed types.Status = "completed"
	Cancelled types.Status = "cancelled"
	Partial   types.Status = "partial"
)

// Operations observed by the worker pool
const (
	OpScan    types.Operation = "scan"
	OpEncrypt types.Operation = "encrypt"
	OpDecrypt types.Operation = "decrypt"
	OpBatch   types.Operation = "batch"
	OpSeed    types.Operation = "seed"
)

// Keyring backends
const (
	MemoryBackend types.Backend = "memory"
	RedisBackend  types.Backend = "redis"
)

// Keyring defaults, matching the classic 3-digit key space
const (
	DefaultKeyMin       = 100
	DefaultKeyMax       = 1000
	DefaultKeySeedCount = 10
	RandomPrimeAttempts = 100
)

// Worker pool defaults
const (
	DefaultWorkers        = 4
	DefaultThrottleBurst  = 1
	DefaultScanCacheSize  = 128
	DefaultScanCacheTTL   = 10 * time.Minute
	DefaultRedisKeyPrefix = "primes"
)

// Event subjects, published under the configured prefix
const (
	EventScanCompleted  = "scan.completed"
	EventBatchCompleted = "batch.completed"
	EventTextProcessed  = "text.processed"
	EventFileProcessed  = "file.processed"
	EventKeyringSeeded  = "keyring.seeded"

	MessageIdHeader       = "Message-ID"
	DefaultEventPrefix    = "primesecure"
	DefaultNATSURL        = "nats://127.0.0.1:4222"
	DefaultEventTimeout   = 2 * time.Second
	DefaultIdempotencyTTL = 10 * time.Minute
)

// GraceFul Shutdown Constants
const (
	ServerDefaultGracefulTime time.Duration = 10 * time.Second
)

// HTTP related constants
const (
	DefaultHTTPPort     = "8080"
	RequestIDHeader     = "X-Request-ID"
	RequestID           = "request_id"
	HealthyStatus       = "healthy"
	HandlerFailed       = "Handler failed"
	MetricsEndpoint     = "/metrics"
	HealthEndpoint      = "/health"
	DefaultHTTPBasePath = "/v1"
)
