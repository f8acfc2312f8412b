package log

import (
	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxCallerDepth caps how many path segments the caller field keeps.
const maxCallerDepth = 7

// FileConfig describes the rotated log file teed next to the console.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Config drives NewLogger. Production selects JSON output at info level,
// otherwise a colored console at debug level. A nil Output means stdout.
type Config struct {
	Production  bool
	Level       string
	Service     string
	Environment string
	Output      zapcore.WriteSyncer
	File        *FileConfig
	CallerDepth int
	ZapOptions  []zap.Option
}

// Option adjusts a Config.
type Option func(*Config)

// NewConfig returns a Config for the current service and environment.
func NewConfig(production bool, opts ...Option) *Config {
	c := &Config{
		Production:  production,
		Service:     helpers.GetServiceName(),
		Environment: helpers.GetEnvironment(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLevel forces a level by name (debug, info, warn, error).
func WithLevel(level string) Option {
	return func(c *Config) { c.Level = level }
}

func WithOutput(w zapcore.WriteSyncer) Option {
	return func(c *Config) { c.Output = w }
}

// WithFile tees the log into a lumberjack rotated file.
func WithFile(file FileConfig) Option {
	return func(c *Config) {
		if file.Path != "" {
			c.File = &file
		}
	}
}

func WithServiceName(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.Service = name
		}
	}
}

func WithEnvironment(env string) Option {
	return func(c *Config) {
		if env != "" {
			c.Environment = env
		}
	}
}

// WithCallerDepth keeps the last n segments of the caller path. Depths
// below 3 fall back to the short caller.
func WithCallerDepth(n int) Option {
	return func(c *Config) {
		c.CallerDepth = min(n, maxCallerDepth)
		if c.CallerDepth < 3 {
			c.CallerDepth = 0
		}
	}
}

func WithZapOptions(opts ...zap.Option) Option {
	return func(c *Config) { c.ZapOptions = append(c.ZapOptions, opts...) }
}

func (c *Config) level() (zapcore.Level, error) {
	if c.Level != "" {
		return zapcore.ParseLevel(c.Level)
	}
	if c.Production {
		return zapcore.InfoLevel, nil
	}
	return zapcore.DebugLevel, nil
}
