package api

import (
	"fmt"
	"net/http"

	"github.com/Felo0o0/PrimeSecure/adapters/gin/request"
	"github.com/Felo0o0/PrimeSecure/app"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/result"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/gin-gonic/gin"
)

// Handlers serves the API from one App.
type Handlers struct {
	app *app.App
}

// NewHandlers binds the handlers to a.
func NewHandlers(a *app.App) *Handlers {
	return &Handlers{app: a}
}

// Health reports the service and keyring backend state.
func (h *Handlers) Health(c *gin.Context) {
	cfg := h.app.Config()
	resp := HealthResponse{
		Status:      constant.HealthyStatus,
		Service:     cfg.Service,
		Environment: cfg.Environment,
		Keyring:     cfg.Keyring.Backend.String(),
	}
	code := http.StatusOK
	if err := h.app.Health(c.Request.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Error = err.Error()
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// ScanPrimes serves GET /primes?start=&end=&workers=.
func (h *Handlers) ScanPrimes(c *gin.Context) result.Result[prime.ScanResult] {
	query := request.ExtractDataFromQuery[ScanQuery](c)
	if !query.IsSuccess() {
		return result.NewFailure[prime.ScanResult](query.Error())
	}
	q := query.ToValue()
	r := prime.Range{Start: q.Start, End: q.End}
	if err := r.Validate(); err != nil {
		return result.NewFailure[prime.ScanResult](blame.AsBlame(err))
	}
	if r.Exceeds(MaxScanSpan) {
		return result.NewFailure[prime.ScanResult](blame.RequestBodyInvalidError(
			fmt.Errorf("range spans more than %d numbers", MaxScanSpan)))
	}

	res, err := h.app.ScanPrimes(c.Request.Context(), r, q.Workers)
	if err != nil {
		return result.NewFailure[prime.ScanResult](blame.AsBlame(err))
	}
	return result.NewSuccess(res)
}

// TransformMessages serves POST /messages/{op}. Item failures are reported
// in the body with status "partial"; cancellation fails the request.
func (h *Handlers) TransformMessages(c *gin.Context) result.Result[MessagesResponse] {
	op := request.FetchOperationParam(c, "op")
	if !op.IsSuccess() {
		return result.NewFailure[MessagesResponse](op.Error())
	}
	body := request.ExtractDataFromRequestBody[MessagesRequest](c)
	if !body.IsSuccess() {
		return result.NewFailure[MessagesResponse](body.Error())
	}
	req := body.ToValue()

	report, err := h.app.TransformMessages(c.Request.Context(), req.Messages, *op.ToValue(), req.Workers)
	if err != nil && !blame.HasCode(err, blame.ErrorPartialFailure) {
		return result.NewFailure[MessagesResponse](blame.AsBlame(err))
	}
	return result.NewSuccess(&MessagesResponse{Messages: req.Messages, Report: NewReportView(report)})
}

// TransformText serves POST /text/{op}.
func (h *Handlers) TransformText(c *gin.Context) result.Result[TextResponse] {
	op := request.FetchOperationParam(c, "op")
	if !op.IsSuccess() {
		return result.NewFailure[TextResponse](op.Error())
	}
	body := request.ExtractDataFromRequestBody[TextRequest](c)
	if !body.IsSuccess() {
		return result.NewFailure[TextResponse](body.Error())
	}
	req := body.ToValue()

	text, report, err := h.app.ProcessText(c.Request.Context(), req.Text, req.Key, *op.ToValue(), req.Workers)
	if err != nil {
		return result.NewFailure[TextResponse](blame.AsBlame(err))
	}
	return result.NewSuccess(&TextResponse{Text: text, Report: NewReportView(report)})
}

// ListKeys serves GET /keys.
func (h *Handlers) ListKeys(c *gin.Context) result.Result[KeysResponse] {
	keys, err := h.app.Keyring().List(c.Request.Context())
	if err != nil {
		return result.NewFailure[KeysResponse](blame.AsBlame(err))
	}
	if keys == nil {
		keys = []int{}
	}
	return result.NewSuccess(&KeysResponse{Keys: keys, Count: len(keys)})
}

// RandomKey serves GET /keys/random.
func (h *Handlers) RandomKey(c *gin.Context) result.Result[KeyResponse] {
	key, err := h.app.Keyring().Random(c.Request.Context())
	if err != nil {
		return result.NewFailure[KeyResponse](blame.AsBlame(err))
	}
	return result.NewSuccess(&KeyResponse{Key: key})
}

// AddKey serves POST /keys.
func (h *Handlers) AddKey(c *gin.Context) result.Result[KeyResponse] {
	body := request.ExtractDataFromRequestBody[KeyRequest](c)
	if !body.IsSuccess() {
		return result.NewFailure[KeyResponse](body.Error())
	}
	key := body.ToValue().Key

	added, err := h.app.Keyring().Add(c.Request.Context(), key)
	if err != nil {
		return result.NewFailure[KeyResponse](blame.AsBlame(err))
	}
	return result.NewSuccess(&KeyResponse{Key: key, Added: added})
}

// SeedKeys serves POST /keys/seed.
func (h *Handlers) SeedKeys(c *gin.Context) result.Result[KeysResponse] {
	body := request.ExtractDataFromRequestBody[SeedRequest](c)
	if !body.IsSuccess() {
		return result.NewFailure[KeysResponse](body.Error())
	}

	added, err := h.app.SeedKeys(c.Request.Context(), body.ToValue().Count)
	if err != nil {
		return result.NewFailure[KeysResponse](blame.AsBlame(err))
	}
	return result.NewSuccess(&KeysResponse{Keys: added, Count: len(added)})
}
