package api

import (
	"time"

	"github.com/Felo0o0/PrimeSecure/batch"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/message"
	"github.com/Felo0o0/PrimeSecure/utils/types"
)

// MaxScanSpan bounds the size of a range scanned through the API.
const MaxScanSpan = 10_000_000

// ScanQuery is the query of GET /primes.
type ScanQuery struct {
	Start   int `form:"start" json:"start" validate:"gte=0"`
	End     int `form:"end" json:"end" validate:"gte=0"`
	Workers int `form:"workers" json:"workers" validate:"gte=0,lte=1024"`
}

// MessagesRequest is the body of POST /messages/{op}.
type MessagesRequest struct {
	Workers  int                `json:"workers" validate:"gte=0,lte=1024"`
	Messages []*message.Message `json:"messages" validate:"required,min=1,dive,required"`
}

// MessagesResponse carries the transformed messages and the batch report.
type MessagesResponse struct {
	Messages []*message.Message `json:"messages"`
	Report   ReportView         `json:"report"`
}

// TextRequest is the body of POST /text/{op}.
type TextRequest struct {
	Text    string `json:"text" validate:"required"`
	Key     int    `json:"key" validate:"required,prime"`
	Workers int    `json:"workers" validate:"gte=0,lte=1024"`
}

// TextResponse carries the transformed text.
type TextResponse struct {
	Text   string     `json:"text"`
	Report ReportView `json:"report"`
}

// KeyRequest is the body of POST /keys.
type KeyRequest struct {
	Key int `json:"key" validate:"required"`
}

// SeedRequest is the body of POST /keys/seed. Count 0 uses the configured count.
type SeedRequest struct {
	Count int `json:"count" validate:"gte=0,lte=1000"`
}

// KeyResponse answers single key endpoints.
type KeyResponse struct {
	Key   int  `json:"key"`
	Added bool `json:"added,omitempty"`
}

// KeysResponse lists the keyring.
type KeysResponse struct {
	Keys  []int `json:"keys"`
	Count int   `json:"count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Environment string `json:"environment"`
	Keyring     string `json:"keyring"`
	Error       string `json:"error,omitempty"`
}

// FailureView is one failed item of a batch.
type FailureView struct {
	Index  int                 `json:"index"`
	Worker int                 `json:"worker"`
	Error  blame.ErrorResponse `json:"error"`
}

// ReportView is the serialised form of a batch report.
type ReportView struct {
	Operation types.Operation `json:"operation"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Skipped   int             `json:"skipped"`
	Workers   int             `json:"workers"`
	ElapsedMS float64         `json:"elapsed_ms"`
	Status    types.Status    `json:"status"`
	Failures  []FailureView   `json:"failures,omitempty"`
}

// NewReportView converts report, translating every item error.
func NewReportView(report *batch.Report) ReportView {
	if report == nil {
		return ReportView{}
	}
	view := ReportView{
		Operation: report.Operation,
		Total:     report.Total,
		Succeeded: report.Succeeded,
		Failed:    report.Failed(),
		Skipped:   report.Skipped,
		Workers:   report.Workers,
		ElapsedMS: float64(report.Elapsed) / float64(time.Millisecond),
		Status:    report.Status,
	}
	for _, f := range report.Failures {
		view.Failures = append(view.Failures, FailureView{
			Index:  f.Index,
			Worker: f.WorkerID,
			Error:  f.Output.Error().FetchErrorResponse(blame.WithTranslation()),
		})
	}
	return view
}
