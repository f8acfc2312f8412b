package prime

import (
	"context"
	"math"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/concurrent/concurrentSet"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/Felo0o0/PrimeSecure/utils/workerpool"
)

// Range is an inclusive integer interval.
type Range struct {
	Start int `json:"start" yaml:"start" form:"start"`
	End   int `json:"end" yaml:"end" form:"end"`
}

// Validate fails with InvalidRange when End lies before Start.
func (r Range) Validate() error {
	if r.End < r.Start {
		return blame.InvalidRangeError(r.Start, r.End)
	}
	return nil
}

// candidates narrows r to the values that can be prime.
func (r Range) candidates() Range {
	if r.Start < 2 {
		r.Start = 2
	}
	return r
}

// Size is the number of integers in r, zero when r is empty. It saturates at
// math.MaxInt for ranges wider than an int can count.
func (r Range) Size() int {
	if r.End < r.Start {
		return 0
	}
	diff := uint64(r.End) - uint64(r.Start)
	if diff >= math.MaxInt {
		return math.MaxInt
	}
	return int(diff) + 1
}

// Exceeds reports whether r holds more than limit integers.
func (r Range) Exceeds(limit int) bool {
	if r.End < r.Start {
		return limit < 0
	}
	if limit <= 0 {
		return true
	}
	return uint64(r.End)-uint64(r.Start) >= uint64(limit)
}

// WorkerScan reports what one worker covered.
type WorkerScan struct {
	Worker int `json:"worker"`
	Start  int `json:"start"`
	End    int `json:"end"`
	Found  int `json:"found"`
}

// ScanResult is the joined outcome of a parallel scan.
type ScanResult struct {
	Range   Range         `json:"range"`
	Primes  []int         `json:"primes"`
	Workers []WorkerScan  `json:"workers"`
	Elapsed time.Duration `json:"elapsed"`
	Status  types.Status  `json:"status"`
}

// WorkerCount is the number of workers that were launched.
func (r *ScanResult) WorkerCount() int {
	return len(r.Workers)
}

// FoundRecorder is notified of how many primes a scan found.
type FoundRecorder interface {
	RecordPrimesFound(n int)
}

// Scanner runs primality checks over partitioned ranges on a worker pool.
type Scanner struct {
	pool     *workerpool.WorkerPool
	log      *log.Log
	recorder FoundRecorder
	isPrime  func(int) bool
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithScannerLogger sets the scanner logger.
func WithScannerLogger(logger *log.Log) ScannerOption {
	return func(s *Scanner) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithFoundRecorder reports found counts to recorder.
func WithFoundRecorder(recorder FoundRecorder) ScannerOption {
	return func(s *Scanner) {
		s.recorder = recorder
	}
}

// WithPrimalityTest replaces IsPrime as the per-candidate check.
func WithPrimalityTest(test func(int) bool) ScannerOption {
	return func(s *Scanner) {
		if test != nil {
			s.isPrime = test
		}
	}
}

// NewScanner binds a Scanner to pool. A nil pool gets a default one.
func NewScanner(pool *workerpool.WorkerPool, opts ...ScannerOption) *Scanner {
	if pool == nil {
		pool = workerpool.NewWorkerPool()
	}
	s := &Scanner{pool: pool, log: log.NewNopLogger(), isPrime: IsPrime}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScanner = NewScanner(nil)

// ScanPrimesParallel scans r with the default scanner.
func ScanPrimesParallel(ctx context.Context, r Range, workers int) (*ScanResult, error) {
	return defaultScanner.Scan(ctx, r, workers)
}

// Scan returns every prime in r, found by workers goroutines over disjoint
// sub-ranges. On cancellation the primes found so far are returned together
// with a Cancelled error. Any other worker failure marks the result Partial.
func (s *Scanner) Scan(ctx context.Context, r Range, workers int) (*ScanResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	narrowed := r.candidates()
	found := concurrentSet.NewConcurrentSet[int]()
	counts := make([]int, workerpool.ClampWorkers(narrowed.Size(), workers))

	outcome, runErr := s.pool.Run(ctx, constant.OpScan, narrowed.Size(), workers,
		func(ctx context.Context, w *workerpool.Worker) error {
			first := narrowed.Start + w.Span.Offset
			for i := 0; i < w.Span.Length; i++ {
				if err := w.Checkpoint(ctx); err != nil {
					return err
				}
				n := first + i
				if s.isPrime(n) && found.Add(n) {
					counts[w.ID]++
				}
				w.Processed()
			}
			return nil
		})
	if outcome == nil {
		return nil, runErr
	}

	res := &ScanResult{
		Range:   r,
		Primes:  found.Sorted(),
		Workers: make([]WorkerScan, len(outcome.Stats)),
		Elapsed: outcome.Elapsed,
		Status:  constant.Completed,
	}
	for i, stat := range outcome.Stats {
		res.Workers[i] = WorkerScan{
			Worker: stat.ID,
			Start:  narrowed.Start + stat.Span.Offset,
			End:    narrowed.Start + stat.Span.Offset + (stat.Span.Length - 1),
			Found:  counts[i],
		}
	}
	if s.recorder != nil {
		s.recorder.RecordPrimesFound(len(res.Primes))
	}

	if runErr != nil {
		res.Status = constant.Partial
		if blame.HasCode(runErr, blame.ErrorBatchCancelled) {
			res.Status = constant.Cancelled
		}
		s.log.Warn("prime scan stopped early",
			log.Int("start", r.Start), log.Int("end", r.End),
			log.Int("found", len(res.Primes)), log.Err(runErr))
		return res, runErr
	}

	s.log.Debug("prime scan completed",
		log.Int("start", r.Start), log.Int("end", r.End),
		log.Int("workers", res.WorkerCount()), log.Int("found", len(res.Primes)))
	return res, nil
}
