package middleware

import (
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/gin-gonic/gin"
)

// GinRequestLogger logs one line per request once the handler has run.
// Bodies are not logged; they carry message content.
func GinRequestLogger(logger *log.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		fields := []types.Field{
			log.String("method", c.Request.Method),
			log.String("path", c.FullPath()),
			log.String("url", c.Request.RequestURI),
			log.Int("status_code", c.Writer.Status()),
			log.Int("size", c.Writer.Size()),
			log.Duration("latency", time.Since(startTime)),
			log.String("client_ip", c.ClientIP()),
			log.String(constant.RequestID, c.GetString(constant.RequestID)),
		}
		if errs := c.Errors.String(); errs != "" {
			fields = append(fields, log.String("errors", errs))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
