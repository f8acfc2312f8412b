package app

import (
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/adapters/redis"
	"github.com/Felo0o0/PrimeSecure/adapters/validator"
	"github.com/Felo0o0/PrimeSecure/adapters/viper"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/types"
)

// Config is the full application configuration.
type Config struct {
	Service     string        `mapstructure:"service" validate:"required"`
	Environment string        `mapstructure:"environment" validate:"required"`
	Language    string        `mapstructure:"language"`
	Log         LogConfig     `mapstructure:"log"`
	Workers     WorkersConfig `mapstructure:"workers"`
	Keyring     KeyringConfig `mapstructure:"keyring"`
	Cache       CacheConfig   `mapstructure:"cache"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	HTTP        HTTPConfig    `mapstructure:"http"`
	Archive     ArchiveConfig `mapstructure:"archive"`
	Events      EventsConfig  `mapstructure:"events"`
}

// LogConfig selects the encoder and the optional rotated log file.
type LogConfig struct {
	Production bool   `mapstructure:"production"`
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	CallerPath int    `mapstructure:"caller_path" validate:"gte=0"`
}

// WorkersConfig holds the pool defaults. Default 0 derives a count from the input size.
type WorkersConfig struct {
	Default           int     `mapstructure:"default" validate:"gte=0"`
	Max               int     `mapstructure:"max" validate:"gte=1"`
	ThrottlePerSecond float64 `mapstructure:"throttle_per_second" validate:"gte=0"`
	ThrottleBurst     int     `mapstructure:"throttle_burst" validate:"gte=0"`
}

// KeyringConfig selects the key store. RefillInterval tops the keyring up to
// SeedCount while serving; 0 disables it.
type KeyringConfig struct {
	Backend        types.Backend `mapstructure:"backend" validate:"oneof=memory redis"`
	Min            int           `mapstructure:"min" validate:"gte=0"`
	Max            int           `mapstructure:"max" validate:"gtfield=Min"`
	SeedCount      int           `mapstructure:"seed_count" validate:"gte=0"`
	SetKey         string        `mapstructure:"set_key"`
	Redis          redis.Config  `mapstructure:"redis"`
	RefillInterval time.Duration `mapstructure:"refill_interval" validate:"gte=0"`
}

// CacheConfig bounds the scan result cache. Size 0 disables it.
type CacheConfig struct {
	Size int           `mapstructure:"size" validate:"gte=0"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// MetricsConfig toggles the prometheus collector.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Runtime bool `mapstructure:"runtime"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Port               string        `mapstructure:"port" validate:"required"`
	BaseURL            string        `mapstructure:"base_url"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst" validate:"gte=0"`
}

// ArchiveConfig picks the default export format.
type ArchiveConfig struct {
	Format types.CodecType `mapstructure:"format" validate:"oneof=msgpack json yaml gob"`
}

// EventsConfig publishes operation events on NATS when enabled.
type EventsConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	URL               string        `mapstructure:"url" validate:"required_if=Enabled true"`
	SubjectPrefix     string        `mapstructure:"subject_prefix"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gte=0"`
	IdempotencyWindow time.Duration `mapstructure:"idempotency_window" validate:"gte=0"`
}

// Defaults returns the value of every configuration key. Registering all of
// them lets environment variables override keys absent from the file.
func Defaults() map[string]any {
	redisCfg := redis.NewConfig()
	return map[string]any{
		constant.Service:               constant.DefaultServiceName,
		constant.Environment:           constant.DefaultEnvironment,
		constant.Language:              "en",
		"log.production":               false,
		"log.level":                    "",
		"log.file":                     "",
		"log.max_size_mb":              100,
		"log.max_backups":              3,
		"log.max_age_days":             28,
		"log.caller_path":              0,
		"workers.default":              constant.DefaultWorkers,
		"workers.max":                  64,
		"workers.throttle_per_second":  0.0,
		"workers.throttle_burst":       constant.DefaultThrottleBurst,
		"keyring.backend":              string(constant.MemoryBackend),
		"keyring.min":                  constant.DefaultKeyMin,
		"keyring.max":                  constant.DefaultKeyMax,
		"keyring.seed_count":           constant.DefaultKeySeedCount,
		"keyring.set_key":              "",
		"keyring.redis.addr":           redisCfg.Addr,
		"keyring.redis.password":       "",
		"keyring.redis.db":             0,
		"keyring.redis.dial_timeout":   redisCfg.DialTimeout.String(),
		"keyring.refill_interval":      "0s",
		"cache.size":                   constant.DefaultScanCacheSize,
		"cache.ttl":                    constant.DefaultScanCacheTTL.String(),
		"metrics.enabled":              true,
		"metrics.runtime":              false,
		"http.port":                    constant.DefaultHTTPPort,
		"http.base_url":                constant.DefaultHTTPBasePath,
		"http.shutdown_timeout":        constant.ServerDefaultGracefulTime.String(),
		"http.rate_limit_per_second":   0.0,
		"http.rate_limit_burst":        20,
		"archive.format":               "msgpack",
		"events.enabled":               false,
		"events.url":                   constant.DefaultNATSURL,
		"events.subject_prefix":        constant.DefaultEventPrefix,
		"events.timeout":               constant.DefaultEventTimeout.String(),
		"events.idempotency_window":    constant.DefaultIdempotencyTTL.String(),
	}
}

// DefaultConfig returns the configuration used when no file or env is present.
func DefaultConfig() *Config {
	redisCfg := redis.NewConfig()
	return &Config{
		Service:     constant.DefaultServiceName,
		Environment: constant.DefaultEnvironment,
		Language:    "en",
		Log:         LogConfig{MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28},
		Workers: WorkersConfig{
			Default:       constant.DefaultWorkers,
			Max:           64,
			ThrottleBurst: constant.DefaultThrottleBurst,
		},
		Keyring: KeyringConfig{
			Backend:   constant.MemoryBackend,
			Min:       constant.DefaultKeyMin,
			Max:       constant.DefaultKeyMax,
			SeedCount: constant.DefaultKeySeedCount,
			Redis:     *redisCfg,
		},
		Cache:   CacheConfig{Size: constant.DefaultScanCacheSize, TTL: constant.DefaultScanCacheTTL},
		Metrics: MetricsConfig{Enabled: true},
		HTTP: HTTPConfig{
			Port:            constant.DefaultHTTPPort,
			BaseURL:         constant.DefaultHTTPBasePath,
			ShutdownTimeout: constant.ServerDefaultGracefulTime,
			RateLimitBurst:  20,
		},
		Archive: ArchiveConfig{Format: "msgpack"},
		Events: EventsConfig{
			URL:               constant.DefaultNATSURL,
			SubjectPrefix:     constant.DefaultEventPrefix,
			Timeout:           constant.DefaultEventTimeout,
			IdempotencyWindow: constant.DefaultIdempotencyTTL,
		},
	}
}

// LoadConfig reads <dir>/<env>/config.yaml, applies PRIMESECURE_* overrides
// and validates the result. An empty dir uses defaults and env only.
func LoadConfig(dir, env string) (*Config, error) {
	v := viper.NewViper(constant.DefaultConfigName, constant.DefaultConfigType, dir,
		viper.WithEnvironment(env), viper.WithAllowMissingFile())
	v.SetDefaults(Defaults())
	if err := v.InitialiseViper(); err != nil {
		return nil, blame.ConfigLoadError(err)
	}

	cfg := &Config{}
	if err := viper.UnmarshalConfig(v, cfg); err != nil {
		return nil, blame.ConfigLoadError(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration with the shared validator.
func (c *Config) Validate() error {
	if err := validator.Default().Validate(c); err != nil {
		return blame.ConfigLoadError(err)
	}
	return nil
}

// IsProduction reports whether the production logger should be used.
func (c *Config) IsProduction() bool {
	if c.Log.Production {
		return true
	}
	switch c.Environment {
	case "prod", "production":
		return true
	}
	return false
}

// SetKey is the redis set holding the keyring.
func (c *Config) SetKey() string {
	if c.Keyring.SetKey != "" {
		return c.Keyring.SetKey
	}
	return c.Service + ":" + constant.DefaultRedisKeyPrefix
}

// LoggerConfig maps the log section onto the log adapter.
func (c *Config) LoggerConfig() *log.Config {
	opts := []log.Option{
		log.WithServiceName(c.Service),
		log.WithEnvironment(c.Environment),
		log.WithCallerDepth(c.Log.CallerPath),
	}
	if c.Log.Level != "" {
		opts = append(opts, log.WithLevel(c.Log.Level))
	}
	if c.Log.File != "" {
		opts = append(opts, log.WithFile(log.FileConfig{
			Path:       c.Log.File,
			MaxSizeMB:  c.Log.MaxSizeMB,
			MaxBackups: c.Log.MaxBackups,
			MaxAgeDays: c.Log.MaxAgeDays,
		}))
	}
	return log.NewConfig(c.IsProduction(), opts...)
}
