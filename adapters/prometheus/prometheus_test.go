package prometheus_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felo0o0/PrimeSecure/adapters/prometheus"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/workerpool"
)

var (
	_ workerpool.Recorder = (*prometheus.MetricsCollector)(nil)
	_ prime.FoundRecorder = (*prometheus.MetricsCollector)(nil)
)

func TestPoolMetrics(t *testing.T) {
	mc := prometheus.NewMetricsCollector(prometheus.WithServiceName("prime-secure"))
	assert.Equal(t, "prime_secure", mc.ServiceName())

	mc.RecordWorkers(constant.OpScan, 4)
	mc.RecordWorkers(constant.OpScan, 2)
	mc.RecordUnits(constant.OpScan, 10, 2)
	mc.RecordUnits(constant.OpScan, 5, 0)
	mc.RecordCancelled(constant.OpBatch)
	mc.RecordDuration(constant.OpScan, 20*time.Millisecond)
	mc.RecordPrimesFound(21)
	mc.RecordPrimesFound(0)

	expected := `
# HELP prime_secure_workers_launched_total Worker goroutines launched by the pool
# TYPE prime_secure_workers_launched_total counter
prime_secure_workers_launched_total{operation="scan"} 6
# HELP prime_secure_units_processed_total Work units completed by the pool
# TYPE prime_secure_units_processed_total counter
prime_secure_units_processed_total{operation="scan"} 15
# HELP prime_secure_unit_failures_total Work units that failed
# TYPE prime_secure_unit_failures_total counter
prime_secure_unit_failures_total{operation="scan"} 2
# HELP prime_secure_batches_cancelled_total Runs stopped by cancellation or deadline
# TYPE prime_secure_batches_cancelled_total counter
prime_secure_batches_cancelled_total{operation="batch"} 1
# HELP prime_secure_primes_found_total Primes reported by range scans
# TYPE prime_secure_primes_found_total counter
prime_secure_primes_found_total 21
`
	require.NoError(t, testutil.GatherAndCompare(mc.Registry(), strings.NewReader(expected),
		"prime_secure_workers_launched_total",
		"prime_secure_units_processed_total",
		"prime_secure_unit_failures_total",
		"prime_secure_batches_cancelled_total",
		"prime_secure_primes_found_total",
	))

	count, err := testutil.GatherAndCount(mc.Registry(), "prime_secure_batch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTwoCollectorsDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		prometheus.NewMetricsCollector()
		prometheus.NewMetricsCollector()
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	mc := prometheus.NewMetricsCollector()
	mc.ObserveRequest("GET", "/v1/primes", "200", time.Millisecond, 128)
	mc.RecordPrimesFound(3)

	rec := httptest.NewRecorder()
	mc.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `primesecure_http_requests_total{method="GET",path="/v1/primes",status_code="200"} 1`)
	assert.Contains(t, string(body), "primesecure_primes_found_total 3")
}
