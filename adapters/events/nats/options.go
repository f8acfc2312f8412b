package nats

import (
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/utils/circuitBreaker"
	"github.com/nats-io/nats.go"
)

const (
	BreakerName             = "NATSPublish"
	DefaultReconnectWait    = 2 * time.Second
	DefaultMaxReconnects    = -1 // retry forever
	ConnectionFailedMessage = "connection to NATS is not yet established or failed"
)

// Option configures a NATSManager.
type Option func(*NATSManager)

// WithLogger sets the logger.
func WithLogger(logger *log.Log) Option {
	return func(w *NATSManager) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithCircuitBreaker guards publishing with a breaker.
func WithCircuitBreaker(options ...circuitBreaker.Option) Option {
	if len(options) == 0 {
		options = append(options, circuitBreaker.WithName(BreakerName))
	}
	return func(w *NATSManager) {
		w.breaker = circuitBreaker.NewCircuitBreaker(options...)
	}
}

// WithSubjectPrefix sets the prefix every subject is published under.
func WithSubjectPrefix(prefix string) Option {
	return func(w *NATSManager) {
		w.prefix = prefix
	}
}

// WithServiceName names the connection and the events' service field.
func WithServiceName(name string) Option {
	return func(w *NATSManager) {
		if name != "" {
			w.service = name
		}
	}
}

// WithTimeout bounds the initial dial and each publish flush.
func WithTimeout(timeout time.Duration) Option {
	return func(w *NATSManager) {
		if timeout > 0 {
			w.timeout = timeout
		}
	}
}

// WithIdempotencyWindow sets how long delivered event ids are remembered.
func WithIdempotencyWindow(window time.Duration) Option {
	return func(w *NATSManager) {
		if window > 0 {
			w.retention = window
		}
	}
}

// WithReconnect sets the reconnect policy.
func WithReconnect(maxReconnects int, wait time.Duration) Option {
	return func(w *NATSManager) {
		w.maxReconnects = maxReconnects
		w.reconnectWait = wait
	}
}

// WithConnectOptions passes raw options to nats.Connect.
func WithConnectOptions(opts ...nats.Option) Option {
	return func(w *NATSManager) {
		w.connectOptions = append(w.connectOptions, opts...)
	}
}
