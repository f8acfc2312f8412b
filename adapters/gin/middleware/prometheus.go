package middleware

import (
	"strconv"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/prometheus"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no route, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records count, latency and size per route template.
func MetricsMiddleware(mc *prometheus.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := mc.TrackInFlight()
		defer done()
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		mc.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start), c.Writer.Size())
	}
}

// RegisterMetricsEndpoint serves mc's registry on the metrics endpoint.
func RegisterMetricsEndpoint(router gin.IRoutes, mc *prometheus.MetricsCollector) {
	router.GET(constant.MetricsEndpoint, gin.WrapH(mc.Handler()))
}
