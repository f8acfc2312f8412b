// Package log is the zap based structured logger used throughout the module.
package log

import (
	"os"

	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is a zap.Logger whose With and Named keep the wrapper type. Sync also
// closes the rotated file when one is attached.
type Log struct {
	*zap.Logger
	closers []func() error
}

// NewBasicLogger is a logger with the default configuration. It never fails;
// a bad configuration yields a no-op logger.
func NewBasicLogger(production bool) *Log {
	l, err := NewLogger(NewConfig(production))
	if err != nil {
		return NewNopLogger()
	}
	return l
}

// NewNopLogger returns a logger that discards everything. Libraries default to it.
func NewNopLogger() *Log {
	return &Log{Logger: zap.NewNop()}
}

// NewLogger builds a logger from cfg.
func NewLogger(cfg *Config) (*Log, error) {
	lvl, err := cfg.level()
	if err != nil {
		return nil, err
	}
	level := zap.NewAtomicLevelAt(lvl)

	console := encoderConfig(cfg.CallerDepth)
	var enc zapcore.Encoder
	if cfg.Production {
		enc = zapcore.NewJSONEncoder(console)
	} else {
		console.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(console)
	}

	out := cfg.Output
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}
	cores := []zapcore.Core{zapcore.NewCore(enc, out, level)}

	l := &Log{}
	if cfg.File != nil {
		file := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig(cfg.CallerDepth)), zapcore.AddSync(file), level))
		l.closers = append(l.closers, file.Close)
	}

	opts := append([]zap.Option{
		zap.AddCaller(),
		zap.Fields(zap.String("service", cfg.Service), zap.String("environment", cfg.Environment)),
	}, cfg.ZapOptions...)
	l.Logger = zap.New(zapcore.NewTee(cores...), opts...)
	return l, nil
}

func encoderConfig(callerDepth int) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "log",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeCaller:   helpers.TailCallerEncoder(callerDepth),
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// With returns a child logger carrying fields.
func (l *Log) With(fields ...zap.Field) *Log {
	return &Log{Logger: l.Logger.With(fields...)}
}

// Named returns a child logger scoped to a component name.
func (l *Log) Named(name string) *Log {
	return &Log{Logger: l.Logger.Named(name)}
}

// Sync flushes buffered entries and closes attached files.
func (l *Log) Sync() error {
	err := l.Logger.Sync()
	for _, closeFn := range l.closers {
		err = multierr.Append(err, closeFn())
	}
	return err
}
