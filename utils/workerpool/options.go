package workerpool

import (
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"golang.org/x/time/rate"
)

// Recorder receives pool level measurements. The prometheus collector implements it.
type Recorder interface {
	RecordWorkers(op types.Operation, workers int)
	RecordUnits(op types.Operation, processed, failed int)
	RecordCancelled(op types.Operation)
	RecordDuration(op types.Operation, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordWorkers(types.Operation, int)             {}
func (nopRecorder) RecordUnits(types.Operation, int, int)          {}
func (nopRecorder) RecordCancelled(types.Operation)                {}
func (nopRecorder) RecordDuration(types.Operation, time.Duration) {}

// Option is a function type for configuring the WorkerPool.
type Option func(*WorkerPool)

// WithLogger sets logger for worker pool.
func WithLogger(logger *log.Log) Option {
	return func(wp *WorkerPool) {
		if logger != nil {
			wp.log = logger
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(wp *WorkerPool) {
		if recorder != nil {
			wp.recorder = recorder
		}
	}
}

// WithThrottle limits every worker checkpoint to perSecond units overall. Zero disables it.
func WithThrottle(perSecond float64, burst int) Option {
	return func(wp *WorkerPool) {
		if perSecond <= 0 {
			wp.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		wp.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}
