package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/app"
	"github.com/Felo0o0/PrimeSecure/app/api"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope[T any] struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	Result    T      `json:"result"`
}

func newRouter(t *testing.T) (http.Handler, *app.App) {
	t.Helper()
	a, err := app.New(context.Background(), app.DefaultConfig(), app.WithLogger(log.NewNopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return api.NewServer(a).Engine(), a
}

func do[T any](t *testing.T, h http.Handler, method, path string, body any) (int, envelope[T]) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, rec.Header().Get(constant.RequestIDHeader), env.RequestID)
	return rec.Code, env
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health api.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, constant.HealthyStatus, health.Status)
	assert.Equal(t, "memory", health.Keyring)

	do[prime.ScanResult](t, h, http.MethodGet, "/v1/primes?start=100&end=200&workers=4", nil)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "primesecure_primes_found_total 21")
	assert.Contains(t, rec.Body.String(), `path="/v1/primes"`)
}

func TestScanPrimes(t *testing.T) {
	h, _ := newRouter(t)

	code, env := do[prime.ScanResult](t, h, http.MethodGet, "/v1/primes?start=100&end=200&workers=7", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Len(t, env.Result.Primes, 21)
	assert.Equal(t, 101, env.Result.Primes[0])
	assert.Equal(t, 199, env.Result.Primes[20])
	assert.Equal(t, constant.Completed, env.Result.Status)
}

func TestScanPrimesErrors(t *testing.T) {
	h, _ := newRouter(t)

	code, env := do[blame.ErrorResponse](t, h, http.MethodGet, "/v1/primes?start=50&end=10", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Equal(t, blame.ErrorInvalidRange, env.Result.ErrorCode)

	code, env = do[blame.ErrorResponse](t, h, http.MethodGet, "/v1/primes?start=abc&end=10", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, blame.ErrorRequestBodyInvalid, env.Result.ErrorCode)

	code, env = do[blame.ErrorResponse](t, h, http.MethodGet, "/v1/primes?start=0&end=100000000", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, blame.ErrorRequestBodyInvalid, env.Result.ErrorCode)

	code, env = do[blame.ErrorResponse](t, h, http.MethodGet, fmt.Sprintf("/v1/primes?start=0&end=%d", math.MaxInt), nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, blame.ErrorRequestBodyInvalid, env.Result.ErrorCode)
}

func TestMessagesRoundTrip(t *testing.T) {
	h, _ := newRouter(t)
	body := map[string]any{
		"workers": 2,
		"messages": []map[string]any{
			{"content": "hola mundo", "sender": "ana", "recipient": "luis", "prime_code": 101},
			{"content": "Reunión 10:00!", "sender": "eva", "recipient": "max", "prime_code": 997},
			{"content": "tercer mensaje", "prime_code": 103},
		},
	}

	code, enc := do[api.MessagesResponse](t, h, http.MethodPost, "/v1/messages/encrypt", body)
	require.Equal(t, http.StatusOK, code)
	require.True(t, enc.Success)
	assert.Equal(t, 3, enc.Result.Report.Succeeded)
	assert.Equal(t, 2, enc.Result.Report.Workers)
	for _, m := range enc.Result.Messages {
		assert.True(t, m.Encrypted)
	}
	assert.NotEqual(t, "hola mundo", enc.Result.Messages[0].Content)

	code, dec := do[api.MessagesResponse](t, h, http.MethodPost, "/v1/messages/decrypt",
		map[string]any{"messages": enc.Result.Messages})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hola mundo", dec.Result.Messages[0].Content)
	assert.Equal(t, "Reunión 10:00!", dec.Result.Messages[1].Content)
	assert.False(t, dec.Result.Messages[2].Encrypted)
}

func TestMessagesValidation(t *testing.T) {
	h, _ := newRouter(t)

	code, env := do[blame.ErrorResponse](t, h, http.MethodPost, "/v1/messages/encrypt",
		map[string]any{"messages": []map[string]any{{"content": "x", "prime_code": 100}}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, blame.ErrorMessageInvalid, env.Result.ErrorCode)

	code, env = do[blame.ErrorResponse](t, h, http.MethodPost, "/v1/messages/rot13",
		map[string]any{"messages": []map[string]any{{"content": "x", "prime_code": 101}}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, blame.ErrorUnknownOperation, env.Result.ErrorCode)
}

func TestTextRoundTrip(t *testing.T) {
	h, _ := newRouter(t)
	plain := "The quick brown fox, 2024! ¿Sí?"

	code, enc := do[api.TextResponse](t, h, http.MethodPost, "/v1/text/encrypt",
		api.TextRequest{Text: plain, Key: 101, Workers: 5})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, cipher.EncryptText(plain, 101, 0), enc.Result.Text)

	code, dec := do[api.TextResponse](t, h, http.MethodPost, "/v1/text/decrypt",
		api.TextRequest{Text: enc.Result.Text, Key: 101, Workers: 1})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, plain, dec.Result.Text)

	code, bad := do[blame.ErrorResponse](t, h, http.MethodPost, "/v1/text/encrypt",
		api.TextRequest{Text: plain, Key: 100})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, blame.ErrorMessageInvalid, bad.Result.ErrorCode)
}

func TestKeys(t *testing.T) {
	h, _ := newRouter(t)

	code, env := do[blame.ErrorResponse](t, h, http.MethodGet, "/v1/keys/random", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, blame.ErrorKeyringEmpty, env.Result.ErrorCode)

	code, added := do[api.KeyResponse](t, h, http.MethodPost, "/v1/keys", api.KeyRequest{Key: 101})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, added.Result.Added)

	code, again := do[api.KeyResponse](t, h, http.MethodPost, "/v1/keys", api.KeyRequest{Key: 101})
	require.Equal(t, http.StatusOK, code)
	assert.False(t, again.Result.Added)

	code, env = do[blame.ErrorResponse](t, h, http.MethodPost, "/v1/keys", api.KeyRequest{Key: 100})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, blame.ErrorKeyNotPrime, env.Result.ErrorCode)

	code, seeded := do[api.KeysResponse](t, h, http.MethodPost, "/v1/keys/seed", api.SeedRequest{Count: 3})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, seeded.Result.Count)

	code, list := do[api.KeysResponse](t, h, http.MethodGet, "/v1/keys", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, list.Result.Keys, 101)
	assert.Equal(t, len(list.Result.Keys), list.Result.Count)

	code, random := do[api.KeyResponse](t, h, http.MethodGet, "/v1/keys/random", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, list.Result.Keys, random.Result.Key)
}
