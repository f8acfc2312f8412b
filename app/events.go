package app

import (
	"context"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/batch"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/types"
)

// EventPublisher receives an event after each completed operation.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Ping() error
	Close() error
}

// ScanEvent summarises a scan without its prime list.
type ScanEvent struct {
	Start   int           `json:"start"`
	End     int           `json:"end"`
	Found   int           `json:"found"`
	Workers int           `json:"workers"`
	Elapsed time.Duration `json:"elapsed"`
	Status  types.Status  `json:"status"`
}

// BatchEvent is a batch or text report with its failure count.
type BatchEvent struct {
	Operation types.Operation `json:"operation"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Skipped   int             `json:"skipped"`
	Workers   int             `json:"workers"`
	Elapsed   time.Duration   `json:"elapsed"`
	Status    types.Status    `json:"status"`
}

// KeyringEvent lists keys added to the keyring.
type KeyringEvent struct {
	Added []int `json:"added"`
	Size  int   `json:"size"`
}

func newScanEvent(res *prime.ScanResult) ScanEvent {
	return ScanEvent{
		Start:   res.Range.Start,
		End:     res.Range.End,
		Found:   len(res.Primes),
		Workers: res.WorkerCount(),
		Elapsed: res.Elapsed,
		Status:  res.Status,
	}
}

func newBatchEvent(r *batch.Report) BatchEvent {
	return BatchEvent{
		Operation: r.Operation,
		Total:     r.Total,
		Succeeded: r.Succeeded,
		Failed:    r.Failed(),
		Skipped:   r.Skipped,
		Workers:   r.Workers,
		Elapsed:   r.Elapsed,
		Status:    r.Status,
	}
}

// publish sends an event when a publisher is configured. A failed publish
// is logged and never fails the operation.
func (a *App) publish(ctx context.Context, subject string, payload any) {
	if a.events == nil {
		return
	}
	if err := a.events.Publish(context.WithoutCancel(ctx), subject, payload); err != nil {
		a.log.Warn("event not published", log.String("subject", subject), log.Err(err))
	}
}
