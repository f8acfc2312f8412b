package batch

import (
	"time"

	"github.com/Felo0o0/PrimeSecure/result"
	"github.com/Felo0o0/PrimeSecure/utils/types"
)

// Report summarises a batch or text run.
type Report struct {
	Operation types.Operation          `json:"operation"`
	Total     int                      `json:"total"`
	Succeeded int                      `json:"succeeded"`
	Skipped   int                      `json:"skipped"`
	Failures  []result.TaskResult[any] `json:"-"`
	Workers   int                      `json:"workers"`
	Elapsed   time.Duration            `json:"elapsed"`
	Status    types.Status             `json:"status"`
}

// Failed is the number of items whose transform returned an error.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// FailureErrors returns the error of every failed item in index order.
func (r *Report) FailureErrors() []error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Output.Error())
	}
	return errs
}
