package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Option configures a MetricsCollector.
type Option func(*MetricsCollector)

// WithServiceName sets the metric name prefix. Dashes, dots and spaces
// become underscores.
func WithServiceName(serviceName string) Option {
	return func(mc *MetricsCollector) { mc.serviceName = serviceName }
}

// WithRegistry registers into r instead of a fresh private registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(mc *MetricsCollector) {
		if r != nil {
			mc.registry = r
		}
	}
}

// WithRuntimeMetrics adds the Go runtime and process collectors.
func WithRuntimeMetrics() Option {
	return func(mc *MetricsCollector) { mc.runtimeMetrics = true }
}

// ServiceName is the sanitized metric name prefix.
func (mc *MetricsCollector) ServiceName() string { return mc.serviceName }

// Registry is the registry every metric of mc lives in.
func (mc *MetricsCollector) Registry() *prometheus.Registry { return mc.registry }
