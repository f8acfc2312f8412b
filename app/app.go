// Package app wires the PrimeSecure components together from configuration.
// Every operation takes an explicit worker count; 0 selects the configured default.
package app

import (
	"context"
	"runtime"

	"github.com/Felo0o0/PrimeSecure/adapters/events/nats"
	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/adapters/prometheus"
	"github.com/Felo0o0/PrimeSecure/adapters/redis"
	"github.com/Felo0o0/PrimeSecure/adapters/validator"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/keyring"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/cache"
	"github.com/Felo0o0/PrimeSecure/utils/circuitBreaker"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/workerpool"
	"go.uber.org/multierr"
)

// App holds the long lived components shared by the CLI and the HTTP API.
type App struct {
	cfg       *Config
	log       *log.Log
	metrics   *prometheus.MetricsCollector
	pool      *workerpool.WorkerPool
	scanner   *prime.Scanner
	keyring   *keyring.Keyring
	scanCache cache.Cache[scanKey, *prime.ScanResult]
	validator *validator.Validator
	store     keyring.Store
	redis     *redis.RedisManager
	events    EventPublisher
	ownsLog   bool
}

// Option overrides a component built by New.
type Option func(*App)

// WithLogger uses logger instead of building one from the log section.
func WithLogger(logger *log.Log) Option {
	return func(a *App) {
		a.log = logger
	}
}

// WithMetrics uses collector instead of building one.
func WithMetrics(collector *prometheus.MetricsCollector) Option {
	return func(a *App) {
		a.metrics = collector
	}
}

// WithEvents publishes operation events on publisher instead of the
// configured NATS connection.
func WithEvents(publisher EventPublisher) Option {
	return func(a *App) {
		a.events = publisher
	}
}

// WithStore uses store for the keyring regardless of keyring.backend.
func WithStore(store keyring.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// New builds the application. ctx bounds the redis connection check.
func New(ctx context.Context, cfg *Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, validator: validator.Default()}
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		logger, err := log.NewLogger(cfg.LoggerConfig())
		if err != nil {
			return nil, blame.ConfigLoadError(err)
		}
		a.log = logger
		a.ownsLog = true
	}
	if a.metrics == nil && cfg.Metrics.Enabled {
		metricOpts := []prometheus.Option{prometheus.WithServiceName(cfg.Service)}
		if cfg.Metrics.Runtime {
			metricOpts = append(metricOpts, prometheus.WithRuntimeMetrics())
		}
		a.metrics = prometheus.NewMetricsCollector(metricOpts...)
	}

	poolOpts := []workerpool.Option{
		workerpool.WithLogger(a.log.Named("pool")),
		workerpool.WithThrottle(cfg.Workers.ThrottlePerSecond, cfg.Workers.ThrottleBurst),
	}
	scannerOpts := []prime.ScannerOption{prime.WithScannerLogger(a.log.Named("scanner"))}
	if a.metrics != nil {
		poolOpts = append(poolOpts, workerpool.WithRecorder(a.metrics))
		scannerOpts = append(scannerOpts, prime.WithFoundRecorder(a.metrics))
	}
	a.pool = workerpool.NewWorkerPool(poolOpts...)
	a.scanner = prime.NewScanner(a.pool, scannerOpts...)

	if cfg.Cache.Size > 0 {
		a.scanCache = cache.NewLRUCache[scanKey, *prime.ScanResult](cache.CacheConfig{
			MaxSize: cfg.Cache.Size,
			TTL:     cfg.Cache.TTL,
		})
	}

	if err := a.openStore(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.openEvents(); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.keyring = keyring.New(a.store,
		keyring.WithBounds(cfg.Keyring.Min, cfg.Keyring.Max),
		keyring.WithSeedCount(cfg.Keyring.SeedCount),
		keyring.WithScanner(a.scanner),
		keyring.WithLogger(a.log.Named("keyring")))

	a.log.Info("application ready",
		log.String("keyring_backend", cfg.Keyring.Backend.String()),
		log.Int("default_workers", cfg.Workers.Default),
		log.Bool("metrics", a.metrics != nil),
		log.Bool("events", a.events != nil))
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	if a.store != nil {
		return nil
	}
	switch a.cfg.Keyring.Backend {
	case constant.RedisBackend:
		manager, err := redis.NewRedisWrapper(ctx, a.cfg.Keyring.Redis)
		if err != nil {
			return blame.KeyringStoreError("connect", err)
		}
		a.redis = manager
		a.store = keyring.NewRedisStore(manager, a.cfg.SetKey(), a.log.Named("redis"))
	default:
		a.store = keyring.NewMemoryStore()
	}
	return nil
}

func (a *App) openEvents() error {
	if a.events != nil || !a.cfg.Events.Enabled {
		return nil
	}
	manager, err := nats.NewNATSManager(a.cfg.Events.URL,
		nats.WithLogger(a.log.Named("events")),
		nats.WithServiceName(a.cfg.Service),
		nats.WithSubjectPrefix(a.cfg.Events.SubjectPrefix),
		nats.WithTimeout(a.cfg.Events.Timeout),
		nats.WithIdempotencyWindow(a.cfg.Events.IdempotencyWindow),
		nats.WithCircuitBreaker(
			circuitBreaker.WithName(nats.BreakerName),
			circuitBreaker.WithConsecutiveFailures(5)))
	if err != nil {
		return err
	}
	a.events = manager
	return nil
}

// Workers resolves a requested worker count for total units of work.
func (a *App) Workers(requested, total int) int {
	if requested > 0 {
		return requested
	}
	if a.cfg.Workers.Default > 0 {
		return a.cfg.Workers.Default
	}
	limit := min(runtime.NumCPU(), a.cfg.Workers.Max)
	return workerpool.SuggestWorkers(total, limit)
}

// Config returns the configuration the app was built with.
func (a *App) Config() *Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() *log.Log {
	return a.log
}

// Metrics returns the collector, nil when metrics are disabled.
func (a *App) Metrics() *prometheus.MetricsCollector {
	return a.metrics
}

// Keyring returns the key store.
func (a *App) Keyring() *keyring.Keyring {
	return a.keyring
}

// Validator returns the shared validator.
func (a *App) Validator() *validator.Validator {
	return a.validator
}

// Health pings the redis backend and the event bus when they are configured.
func (a *App) Health(ctx context.Context) error {
	if a.redis != nil {
		if err := a.redis.Ping(ctx); err != nil {
			return blame.KeyringStoreError("ping", err)
		}
	}
	if a.events != nil {
		if err := a.events.Ping(); err != nil {
			return blame.EventPublishError(a.cfg.Events.URL, err)
		}
	}
	return nil
}

// Close releases the keyring backend and flushes the logger it created.
func (a *App) Close() error {
	var err error
	if a.keyring != nil {
		err = multierr.Append(err, a.keyring.Close())
	} else if a.store != nil {
		err = multierr.Append(err, a.store.Close())
	}
	if a.events != nil {
		err = multierr.Append(err, a.events.Close())
	}
	if a.ownsLog && a.log != nil {
		_ = a.log.Sync()
	}
	return err
}
