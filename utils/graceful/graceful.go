package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
)

// Shutdowner is an interface that defines a Shutdown method.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ShutdownFunc is a function type that matches the Shutdown method signature.
type ShutdownFunc func(ctx context.Context) error

// Shutdown implements the Shutdowner interface for ShutdownFunc.
func (f ShutdownFunc) Shutdown(ctx context.Context) error {
	return f(ctx)
}

// NotifyContext returns a context cancelled on SIGINT or SIGTERM.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// GracefulShutdown blocks until ctx is done, then gives service at most
// timeout to stop. A non-positive timeout uses the server default.
func GracefulShutdown(ctx context.Context, service Shutdowner, timeout time.Duration, logger *log.Log) error {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if timeout <= 0 {
		timeout = constant.ServerDefaultGracefulTime
	}

	<-ctx.Done()
	logger.Info("shutting down", log.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := service.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", log.Err(err))
		return err
	}
	logger.Info("service stopped")
	return nil
}
