// Package schedule runs a job at a fixed interval until its context ends.
package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
)

const DefaultName = "schedule"

// Processor is the scheduled job.
type Processor interface {
	Process(ctx context.Context) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context) error

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context) error {
	return f(ctx)
}

// Schedule calls its processor every interval. A failing run is logged and
// the schedule keeps going.
type Schedule struct {
	name       string
	interval   time.Duration
	runAtStart bool
	processor  Processor
	log        *log.Log
}

// Option configures a Schedule.
type Option func(*Schedule)

// WithName names the schedule in logs.
func WithName(name string) Option { return func(s *Schedule) { s.name = name } }

// WithInterval is the time between runs. It must be positive for Run to start.
func WithInterval(d time.Duration) Option { return func(s *Schedule) { s.interval = d } }

// WithRunAtStart runs the processor once before the first tick.
func WithRunAtStart() Option { return func(s *Schedule) { s.runAtStart = true } }

func WithLogger(logger *log.Log) Option {
	return func(s *Schedule) {
		if logger != nil {
			s.log = logger
		}
	}
}

// NewSchedule creates a Schedule that is idle until Run.
func NewSchedule(processor Processor, opts ...Option) *Schedule {
	s := &Schedule{
		name:      DefaultName,
		processor: processor,
		log:       log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until ctx is done. It returns an error only for a schedule that
// cannot run at all.
func (s *Schedule) Run(ctx context.Context) error {
	if s.processor == nil {
		return errors.New("schedule: processor is nil")
	}
	if s.interval <= 0 {
		return errors.New("schedule: interval must be positive")
	}

	if s.runAtStart {
		s.tick(ctx)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("schedule started", log.String("name", s.name), log.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("schedule stopped", log.String("name", s.name))
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Schedule) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := s.processor.Process(ctx); err != nil {
		s.log.Warn("scheduled run failed", log.String("name", s.name), log.Err(err))
		return
	}
	s.log.Debug("scheduled run done",
		log.String("name", s.name),
		log.Duration("elapsed", time.Since(start)),
		log.String("next", time.Now().Add(s.interval).Format(time.RFC3339)))
}
