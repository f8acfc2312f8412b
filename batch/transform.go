// Package batch runs in-place transforms over item lists and text buffers on
// the partitioned worker pool.
package batch

import (
	"context"
	"fmt"
	"slices"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/result"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/workerpool"
)

// ItemFunc transforms items[index] in place.
type ItemFunc[T any] func(ctx context.Context, index int, item T) error

// TransformBatch applies fn to every item, each worker owning one contiguous
// slice of items. Item errors never abort the batch: they are collected in the
// report and surfaced as a PartialFailure. Items not reached because ctx was
// cancelled are counted as skipped and the call returns Cancelled.
func TransformBatch[T any](ctx context.Context, items []T, fn ItemFunc[T], workers int, opts ...Option) (*Report, error) {
	o := buildOptions(opts)
	report := &Report{
		Operation: o.operation,
		Total:     len(items),
		Status:    constant.Completed,
	}
	if len(items) == 0 {
		return report, nil
	}

	failures := make([][]result.TaskResult[any], workerpool.ClampWorkers(len(items), workers))
	outcome, runErr := o.pool.Run(ctx, o.operation, len(items), workers,
		func(ctx context.Context, w *workerpool.Worker) error {
			for i := w.Span.Offset; i < w.Span.End(); i++ {
				if err := w.Checkpoint(ctx); err != nil {
					return err
				}
				err := callItem(ctx, fn, i, items[i])
				if err == nil {
					w.Processed()
					continue
				}
				if workerpool.IsContextError(err) {
					return err
				}
				var item any = items[i]
				failures[w.ID] = append(failures[w.ID], result.NewTaskResult(i, w.ID,
					result.NewFailureWithValue(&item, blame.ItemMalformedError(i, err))))
				w.Failed()
			}
			return nil
		})
	if outcome == nil {
		return nil, runErr
	}

	processed := outcome.Processed()
	report.Failures = slices.Concat(failures...)
	report.Workers = outcome.Workers
	report.Elapsed = outcome.Elapsed
	report.Succeeded = processed - report.Failed()
	report.Skipped = report.Total - processed

	err := finish(ctx, report, runErr)
	o.log.Info("batch finished",
		log.Stringer("operation", report.Operation),
		log.Int("total", report.Total),
		log.Int("succeeded", report.Succeeded),
		log.Int("failed", report.Failed()),
		log.Int("skipped", report.Skipped),
		log.Int("workers", report.Workers),
		log.Duration("elapsed", report.Elapsed))
	return report, err
}

// finish sets the report status and picks the error the caller sees.
func finish(ctx context.Context, report *Report, runErr error) error {
	switch {
	case blame.HasCode(runErr, blame.ErrorBatchCancelled):
		report.Status = constant.Cancelled
		causes := append([]error{context.Cause(ctx)}, report.FailureErrors()...)
		return blame.CancelledError(report.Operation, causes...)
	case runErr != nil:
		report.Status = constant.Partial
		return runErr
	case report.Failed() > 0:
		report.Status = constant.Partial
		return blame.PartialFailureError(report.Failed(), report.Total, report.FailureErrors()...)
	}
	return nil
}

// callItem turns a panicking item function into an item error.
func callItem[T any](ctx context.Context, fn ItemFunc[T], index int, item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("item %d panicked: %v", index, r)
		}
	}()
	return fn(ctx, index, item)
}
