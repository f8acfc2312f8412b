package prometheus

import (
	"net/http"
	"strings"
	"time"

	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is a struct for collecting Prometheus metrics.
// It owns a private registry so several collectors can live in one process.
type MetricsCollector struct {
	registry             *prometheus.Registry
	serviceName          string
	runtimeMetrics       bool
	requestCount         *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	responseSize         *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge
	workers              *prometheus.CounterVec
	processed            *prometheus.CounterVec
	failures             *prometheus.CounterVec
	cancelled            *prometheus.CounterVec
	operationDuration    *prometheus.HistogramVec
	primesFound          prometheus.Counter
}

// NewMetricsCollector creates a new Prometheus metrics collector with options.
func NewMetricsCollector(options ...Option) *MetricsCollector {
	collector := &MetricsCollector{
		registry:    prometheus.NewRegistry(),
		serviceName: "primesecure",
	}

	for _, option := range options {
		option(collector)
	}
	collector.serviceName = metricPrefix(collector.serviceName)

	collector.registerHTTPMetrics()
	collector.registerPoolMetrics()
	if collector.runtimeMetrics {
		collector.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return collector
}

func metricPrefix(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(name)
}

func (mc *MetricsCollector) name(suffix string) string {
	if mc.serviceName == "" {
		return suffix
	}
	return mc.serviceName + "_" + suffix
}

func (mc *MetricsCollector) registerHTTPMetrics() {
	labels := []string{"method", "path", "status_code"}

	mc.requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: mc.name("http_requests_total"),
			Help: "Total number of HTTP requests",
		},
		labels,
	)

	mc.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    mc.name("http_request_duration_seconds"),
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		labels,
	)

	mc.responseSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    mc.name("http_response_size_bytes"),
			Help:    "Size of HTTP responses",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		labels,
	)

	mc.httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: mc.name("http_requests_in_flight"),
			Help: "Current number of HTTP requests in flight",
		},
	)

	mc.registry.MustRegister(
		mc.requestCount,
		mc.requestDuration,
		mc.responseSize,
		mc.httpRequestsInFlight,
	)
}

func (mc *MetricsCollector) registerPoolMetrics() {
	byOperation := []string{"operation"}

	mc.workers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: mc.name("workers_launched_total"),
			Help: "Worker goroutines launched by the pool",
		},
		byOperation,
	)

	mc.processed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: mc.name("units_processed_total"),
			Help: "Work units completed by the pool",
		},
		byOperation,
	)

	mc.failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: mc.name("unit_failures_total"),
			Help: "Work units that failed",
		},
		byOperation,
	)

	mc.cancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: mc.name("batches_cancelled_total"),
			Help: "Runs stopped by cancellation or deadline",
		},
		byOperation,
	)

	mc.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    mc.name("batch_duration_seconds"),
			Help:    "Wall time of worker pool runs",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
		byOperation,
	)

	mc.primesFound = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: mc.name("primes_found_total"),
			Help: "Primes reported by range scans",
		},
	)

	mc.registry.MustRegister(
		mc.workers,
		mc.processed,
		mc.failures,
		mc.cancelled,
		mc.operationDuration,
		mc.primesFound,
	)
}

// RecordWorkers counts the workers launched for op.
func (mc *MetricsCollector) RecordWorkers(op types.Operation, workers int) {
	mc.workers.WithLabelValues(op.String()).Add(float64(workers))
}

// RecordUnits adds processed and failed unit counts for op.
func (mc *MetricsCollector) RecordUnits(op types.Operation, processed, failed int) {
	mc.processed.WithLabelValues(op.String()).Add(float64(processed))
	if failed > 0 {
		mc.failures.WithLabelValues(op.String()).Add(float64(failed))
	}
}

// RecordCancelled counts a cancelled run of op.
func (mc *MetricsCollector) RecordCancelled(op types.Operation) {
	mc.cancelled.WithLabelValues(op.String()).Inc()
}

// RecordDuration observes the wall time of a run of op.
func (mc *MetricsCollector) RecordDuration(op types.Operation, elapsed time.Duration) {
	mc.operationDuration.WithLabelValues(op.String()).Observe(elapsed.Seconds())
}

// RecordPrimesFound adds n to the primes found counter.
func (mc *MetricsCollector) RecordPrimesFound(n int) {
	if n > 0 {
		mc.primesFound.Add(float64(n))
	}
}

// TrackInFlight counts a request as in flight until the returned func is called.
func (mc *MetricsCollector) TrackInFlight() func() {
	mc.httpRequestsInFlight.Inc()
	return mc.httpRequestsInFlight.Dec
}

// ObserveRequest records one finished HTTP request.
func (mc *MetricsCollector) ObserveRequest(method, path, statusCode string, elapsed time.Duration, size int) {
	mc.requestCount.WithLabelValues(method, path, statusCode).Inc()
	mc.requestDuration.WithLabelValues(method, path, statusCode).Observe(elapsed.Seconds())
	if size > 0 {
		mc.responseSize.WithLabelValues(method, path, statusCode).Observe(float64(size))
	}
}

// Handler exposes the collector's registry in the text exposition format.
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}
