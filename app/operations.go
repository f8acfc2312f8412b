package app

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/archive"
	"github.com/Felo0o0/PrimeSecure/batch"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/message"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/types"
)

// FileReport describes one ProcessFile run.
type FileReport struct {
	Input     string           `json:"input"`
	Output    string           `json:"output"`
	Operation cipher.Operation `json:"operation"`
	Bytes     int              `json:"bytes"`
	Runes     int              `json:"runes"`
	Workers   int              `json:"workers"`
	Elapsed   time.Duration    `json:"elapsed"`
	Status    types.Status     `json:"status"`
}

// scanKey identifies a cached scan. Per-worker stats depend on the count.
type scanKey struct {
	r       prime.Range
	workers int
}

// ScanPrimes returns the primes in r. Complete results are cached by range and
// resolved worker count, so the returned value must be treated as read-only.
func (a *App) ScanPrimes(ctx context.Context, r prime.Range, workers int) (*prime.ScanResult, error) {
	key := scanKey{r: r, workers: a.Workers(workers, r.Size())}
	if a.scanCache != nil {
		if cached, ok := a.scanCache.Get(key); ok {
			a.log.Debug("scan served from cache",
				log.Int("start", r.Start), log.Int("end", r.End), log.Int("workers", key.workers))
			return cached, nil
		}
	}

	res, err := a.scanner.Scan(ctx, r, key.workers)
	if err == nil && a.scanCache != nil && res.Status == constant.Completed {
		a.scanCache.Set(key, res)
	}
	if res != nil {
		a.publish(ctx, constant.EventScanCompleted, newScanEvent(res))
	}
	return res, err
}

// EncryptMessages encrypts msgs in place.
func (a *App) EncryptMessages(ctx context.Context, msgs []*message.Message, workers int) (*batch.Report, error) {
	return a.TransformMessages(ctx, msgs, cipher.Encrypt, workers)
}

// DecryptMessages decrypts msgs in place.
func (a *App) DecryptMessages(ctx context.Context, msgs []*message.Message, workers int) (*batch.Report, error) {
	return a.TransformMessages(ctx, msgs, cipher.Decrypt, workers)
}

// TransformMessages applies op to every message on the worker pool.
func (a *App) TransformMessages(ctx context.Context, msgs []*message.Message, op cipher.Operation, workers int) (*batch.Report, error) {
	if _, err := cipher.ParseOperation(op.String()); err != nil {
		return nil, err
	}
	report, err := batch.TransformBatch(ctx, msgs, message.ItemFunc(op), a.Workers(workers, len(msgs)),
		batch.WithPool(a.pool),
		batch.WithOperation(types.Operation(op.String())),
		batch.WithLogger(a.log.Named("batch")))
	if report != nil {
		a.publish(ctx, constant.EventBatchCompleted, newBatchEvent(report))
	}
	return report, err
}

// ProcessText runs the chunked cipher over text with a prime key.
func (a *App) ProcessText(ctx context.Context, text string, key int, op cipher.Operation, workers int) (string, *batch.Report, error) {
	if _, err := cipher.ParseOperation(op.String()); err != nil {
		return "", nil, err
	}
	if !prime.IsPrime(key) {
		return "", nil, blame.KeyNotPrimeError(key)
	}
	out, report, err := batch.TransformText(ctx, text, key, op, a.Workers(workers, utf8.RuneCountInString(text)),
		batch.WithPool(a.pool),
		batch.WithLogger(a.log.Named("text")))
	if report != nil {
		a.publish(ctx, constant.EventTextProcessed, newBatchEvent(report))
	}
	return out, report, err
}

// ProcessFile reads in, transforms its content and writes the result to out.
// Nothing is written when the transform fails.
func (a *App) ProcessFile(ctx context.Context, in, out string, key int, op cipher.Operation, workers int) (*FileReport, error) {
	start := time.Now()
	text, err := archive.ReadText(in)
	if err != nil {
		return nil, err
	}

	output, report, err := a.ProcessText(ctx, text, key, op, workers)
	if err != nil {
		return nil, err
	}
	if err := archive.WriteText(out, output); err != nil {
		return nil, err
	}

	fr := &FileReport{
		Input:     in,
		Output:    out,
		Operation: op,
		Bytes:     len(text),
		Runes:     report.Total,
		Workers:   report.Workers,
		Elapsed:   time.Since(start),
		Status:    report.Status,
	}
	a.log.Info("file processed",
		log.String("input", in),
		log.String("output", out),
		log.String("operation", op.String()),
		log.Int("bytes", fr.Bytes),
		log.Int("workers", fr.Workers),
		log.Duration("elapsed", fr.Elapsed))
	a.publish(ctx, constant.EventFileProcessed, fr)
	return fr, nil
}

// ImportCSV builds plaintext messages from CSV rows. Rows without a key get
// one from the keyring. Malformed rows and invalid messages are returned as
// row errors; only a broken reader or store fails the whole import.
func (a *App) ImportCSV(ctx context.Context, r io.Reader) ([]*message.Message, []error, error) {
	rows, rowErrs, err := archive.ReadCSV(r)
	if err != nil {
		return nil, nil, err
	}

	msgs := make([]*message.Message, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return msgs, rowErrs, blame.CancelledError(constant.OpBatch, err)
		}
		key := row.PrimeCode
		if !row.HasKey() {
			if key, err = a.keyring.RandomOrGenerate(ctx); err != nil {
				return msgs, rowErrs, err
			}
		}
		m, err := message.New(row.Content, row.Sender, row.Recipient, key)
		if err != nil {
			rowErrs = append(rowErrs, blame.ItemMalformedError(row.Line, err))
			continue
		}
		msgs = append(msgs, m)
	}

	a.log.Info("csv imported", log.Int("messages", len(msgs)), log.Int("row_errors", len(rowErrs)))
	return msgs, rowErrs, nil
}

// GenerateSamples builds n numbered plaintext messages with random keys from
// the keyring bounds.
func (a *App) GenerateSamples(ctx context.Context, n int) ([]*message.Message, error) {
	lo, hi := a.keyring.Bounds()
	msgs := make([]*message.Message, 0, max(n, 0))
	for i := range n {
		if err := ctx.Err(); err != nil {
			return msgs, blame.CancelledError(constant.OpBatch, err)
		}
		key, err := prime.RandomInRange(lo, hi)
		if err != nil {
			return msgs, err
		}
		m, err := message.New(
			fmt.Sprintf("Sample message #%d", i+1),
			fmt.Sprintf("Sender%d", i),
			fmt.Sprintf("Recipient%d", i),
			key)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
