package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

// WorkerPool runs one goroutine per span of a partitioned range and joins them all.
// It holds no per-run state and may be shared between concurrent runs.
type WorkerPool struct {
	log      *log.Log
	recorder Recorder
	limiter  *rate.Limiter
}

// NewWorkerPool creates a new WorkerPool with the provided options.
func NewWorkerPool(options ...Option) *WorkerPool {
	wp := &WorkerPool{
		log:      log.NewNopLogger(),
		recorder: nopRecorder{},
	}
	for _, option := range options {
		option(wp)
	}
	return wp
}

// Job is the work a single worker performs over its span.
type Job func(ctx context.Context, w *Worker) error

// Worker is handed to a Job. Its counters belong to that worker alone.
type Worker struct {
	ID        int
	Span      Span
	processed int
	failed    int
	limiter   *rate.Limiter
}

// Checkpoint is called before each unit: it honours cancellation and the pool throttle.
func (w *Worker) Checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.limiter == nil {
		return nil
	}
	if err := w.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// the limiter refuses to wait past the deadline
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return nil
}

// Processed counts one finished unit.
func (w *Worker) Processed() {
	w.processed++
}

// ProcessedN counts n finished units, for jobs whose unit is a chunk.
func (w *Worker) ProcessedN(n int) {
	w.processed += n
}

// Failed counts one finished unit that failed.
func (w *Worker) Failed() {
	w.processed++
	w.failed++
}

// WorkerStats summarises a single worker after the join.
type WorkerStats struct {
	ID        int  `json:"id"`
	Span      Span `json:"span"`
	Processed int  `json:"processed"`
	Failed    int  `json:"failed"`
}

// Outcome describes a finished run.
type Outcome struct {
	Operation types.Operation `json:"operation"`
	Total     int             `json:"total"`
	Workers   int             `json:"workers"`
	Stats     []WorkerStats   `json:"stats"`
	Elapsed   time.Duration   `json:"elapsed"`
}

// Processed sums the units every worker finished.
func (o *Outcome) Processed() int {
	n := 0
	for _, s := range o.Stats {
		n += s.Processed
	}
	return n
}

// Run partitions [0, total) across workers, runs job once per span and blocks
// until every goroutine has returned. A run interrupted by ctx returns a
// Cancelled blame carrying every worker error; other worker errors are combined.
func (wp *WorkerPool) Run(ctx context.Context, op types.Operation, total, workers int, job Job) (*Outcome, error) {
	if total < 0 {
		return nil, blame.InvalidRangeError(0, total)
	}

	effective := ClampWorkers(total, workers)
	if total > 0 && effective != workers {
		wp.log.Warn("worker count clamped",
			log.Stringer("operation", op),
			log.Blame(blame.InvalidWorkerCountError(workers, effective)))
	}

	spans := Partition(total, effective)
	outcome := &Outcome{
		Operation: op,
		Total:     total,
		Workers:   len(spans),
		Stats:     make([]WorkerStats, len(spans)),
	}
	if len(spans) == 0 {
		return outcome, nil
	}

	wp.recorder.RecordWorkers(op, len(spans))
	start := time.Now()

	errs := make([]error, len(spans))
	var wg sync.WaitGroup
	for i, span := range spans {
		wg.Add(1)
		go func(worker *Worker) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[worker.ID] = blame.InternalServerError(fmt.Errorf("worker %d panicked: %v", worker.ID, r))
				}
				outcome.Stats[worker.ID] = WorkerStats{
					ID:        worker.ID,
					Span:      worker.Span,
					Processed: worker.processed,
					Failed:    worker.failed,
				}
			}()
			errs[worker.ID] = job(ctx, worker)
		}(&Worker{ID: i, Span: span, limiter: wp.limiter})
	}
	wg.Wait()

	outcome.Elapsed = time.Since(start)
	wp.recordOutcome(outcome)

	wp.log.Debug("pool run joined",
		log.Stringer("operation", op),
		log.Int("total", total),
		log.Int("workers", outcome.Workers),
		log.Duration("elapsed", outcome.Elapsed))

	if interrupted(errs) {
		wp.recorder.RecordCancelled(op)
		return outcome, blame.CancelledError(op, errs...)
	}
	return outcome, multierr.Combine(errs...)
}

func (wp *WorkerPool) recordOutcome(outcome *Outcome) {
	processed, failed := 0, 0
	for _, s := range outcome.Stats {
		processed += s.Processed
		failed += s.Failed
	}
	wp.recorder.RecordUnits(outcome.Operation, processed, failed)
	wp.recorder.RecordDuration(outcome.Operation, outcome.Elapsed)
}

// interrupted reports whether a worker stopped because of its context. A run
// whose workers all finished before ctx fired is complete.
func interrupted(errs []error) bool {
	for _, err := range errs {
		if IsContextError(err) {
			return true
		}
	}
	return false
}

// IsContextError reports whether err comes from a cancelled or expired context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
