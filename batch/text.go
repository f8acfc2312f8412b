package batch

import (
	"context"
	"strings"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/Felo0o0/PrimeSecure/utils/workerpool"
)

// ChunkFunc transforms one chunk. offset is the rune position of the chunk's
// first rune in the whole text. A worker may call it several times over
// consecutive pieces of its span.
type ChunkFunc func(chunk string, offset int) string

// TransformText encrypts or decrypts text in parallel chunks. The output does
// not depend on the worker count.
func TransformText(ctx context.Context, text string, key int, op cipher.Operation, workers int, opts ...Option) (string, *Report, error) {
	opts = append([]Option{WithOperation(types.Operation(op.String()))}, opts...)
	return TransformChunks(ctx, text, func(chunk string, offset int) string {
		return op.Apply(chunk, key, offset)
	}, workers, opts...)
}

// TransformChunks splits text by runes into one span per worker, runs fn over
// every span concurrently in steps of at most the chunk size and joins the
// outputs in order. A cancelled run returns no output.
func TransformChunks(ctx context.Context, text string, fn ChunkFunc, workers int, opts ...Option) (string, *Report, error) {
	o := buildOptions(opts)
	runes := []rune(text)
	report := &Report{
		Operation: o.operation,
		Total:     len(runes),
		Status:    constant.Completed,
	}
	if len(runes) == 0 {
		return "", report, nil
	}

	slots := make([]string, workerpool.ClampWorkers(len(runes), workers))
	outcome, runErr := o.pool.Run(ctx, o.operation, len(runes), workers,
		func(ctx context.Context, w *workerpool.Worker) error {
			var sb strings.Builder
			for from := w.Span.Offset; from < w.Span.End(); from += o.chunkSize {
				if err := w.Checkpoint(ctx); err != nil {
					return err
				}
				to := min(from+o.chunkSize, w.Span.End())
				sb.WriteString(fn(string(runes[from:to]), from))
				w.ProcessedN(to - from)
			}
			slots[w.ID] = sb.String()
			return nil
		})
	if outcome == nil {
		return "", nil, runErr
	}

	report.Workers = outcome.Workers
	report.Elapsed = outcome.Elapsed
	report.Succeeded = outcome.Processed()
	report.Skipped = report.Total - report.Succeeded

	if runErr != nil {
		report.Status = constant.Cancelled
		if !blame.HasCode(runErr, blame.ErrorBatchCancelled) {
			report.Status = constant.Partial
		}
		o.log.Warn("text transform stopped", log.Stringer("operation", o.operation), log.Err(runErr))
		return "", report, runErr
	}

	o.log.Debug("text transform finished",
		log.Stringer("operation", o.operation),
		log.Int("runes", report.Total),
		log.Int("workers", report.Workers),
		log.Duration("elapsed", report.Elapsed))

	var sb strings.Builder
	sb.Grow(len(text))
	for _, s := range slots {
		sb.WriteString(s)
	}
	return sb.String(), report, nil
}
