package batch

import (
	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/Felo0o0/PrimeSecure/utils/workerpool"
)

var defaultPool = workerpool.NewWorkerPool()

// DefaultChunkRunes bounds the runes a worker transforms between cancellation checks.
const DefaultChunkRunes = 1 << 16

type options struct {
	pool      *workerpool.WorkerPool
	operation types.Operation
	log       *log.Log
	chunkSize int
}

// Option configures a single transform call.
type Option func(*options)

// WithPool runs the transform on pool instead of the package default.
func WithPool(pool *workerpool.WorkerPool) Option {
	return func(o *options) {
		if pool != nil {
			o.pool = pool
		}
	}
}

// WithOperation labels the run for logs and metrics.
func WithOperation(op types.Operation) Option {
	return func(o *options) {
		if op != "" {
			o.operation = op
		}
	}
}

// WithLogger sets the logger used for the run summary.
func WithLogger(logger *log.Log) Option {
	return func(o *options) {
		if logger != nil {
			o.log = logger
		}
	}
}

// WithChunkSize sets how many runes a text worker handles per step. Values
// below one keep the default.
func WithChunkSize(runes int) Option {
	return func(o *options) {
		if runes > 0 {
			o.chunkSize = runes
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		pool:      defaultPool,
		operation: constant.OpBatch,
		log:       log.NewNopLogger(),
		chunkSize: DefaultChunkRunes,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
