package middleware

import (
	"fmt"

	"github.com/Felo0o0/PrimeSecure/adapters/gin/handler"
	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/random"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware keeps a valid incoming X-Request-ID or generates one,
// stores it in the context and echoes it in the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constant.RequestIDHeader)
		if uuid.Validate(requestID) != nil {
			requestID = random.GenerateUUIDString()
		}

		c.Set(constant.RequestID, requestID)
		c.Writer.Header().Set(constant.RequestIDHeader, requestID)
		c.Next()
	}
}

// RecoveryMiddleware turns a panic further down the chain into an
// InternalServerError envelope.
func RecoveryMiddleware(logger *log.Log) gin.HandlerFunc {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return func(c *gin.Context) {
		defer func() {
			if exception := recover(); exception != nil {
				handler.WriteError(c, logger, blame.InternalServerError(fmt.Errorf("panic: %v", exception)))
			}
		}()
		c.Next()
	}
}

// **Gin Middleware for Compression**
func CompressionMiddleware() gin.HandlerFunc {
	return gzip.Gzip(gzip.BestSpeed, gzip.WithExcludedPaths([]string{constant.MetricsEndpoint}))
}
