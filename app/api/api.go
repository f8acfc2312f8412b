// Package api exposes the application over HTTP with gin.
package api

import (
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/gin/handler"
	"github.com/Felo0o0/PrimeSecure/adapters/gin/middleware"
	"github.com/Felo0o0/PrimeSecure/adapters/gin/server"
	"github.com/Felo0o0/PrimeSecure/app"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// idleClientTTL is how long a silent client keeps its rate limit bucket.
const idleClientTTL = 10 * time.Minute

// NewServer builds the HTTP server for a from its http section.
func NewServer(a *app.App) *server.Server {
	cfg := a.Config().HTTP
	logger := a.Logger().Named("http")
	h := NewHandlers(a)

	middlewares := []gin.HandlerFunc{
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(logger),
		middleware.GinRequestLogger(logger),
	}
	if mc := a.Metrics(); mc != nil {
		middlewares = append(middlewares, middleware.MetricsMiddleware(mc))
	}
	if cfg.RateLimitPerSecond > 0 {
		limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst, idleClientTTL, logger)
		middlewares = append(middlewares, limiter.Middleware())
	}
	middlewares = append(middlewares, middleware.CompressionMiddleware())

	return server.NewServer(
		server.WithPort(cfg.Port),
		server.WithBaseURL(cfg.BaseURL),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
		server.WithLogger(logger),
		server.WithMiddleware(middlewares...),
		server.WithGroup(server.NewGroup("",
			server.GET("/primes", handler.ExecuteControllerHandler(logger, h.ScanPrimes)),
			server.POST("/messages/:op", handler.ExecuteControllerHandler(logger, h.TransformMessages)),
			server.POST("/text/:op", handler.ExecuteControllerHandler(logger, h.TransformText)),
		)),
		server.WithGroup(server.NewGroup("/keys",
			server.GET("", handler.ExecuteControllerHandler(logger, h.ListKeys)),
			server.GET("/random", handler.ExecuteControllerHandler(logger, h.RandomKey)),
			server.POST("", handler.ExecuteControllerHandler(logger, h.AddKey)),
			server.POST("/seed", handler.ExecuteControllerHandler(logger, h.SeedKeys)),
		)),
		server.WithEngineHook(func(engine *gin.Engine) {
			engine.GET(constant.HealthEndpoint, h.Health)
			if mc := a.Metrics(); mc != nil {
				middleware.RegisterMetricsEndpoint(engine, mc)
			}
		}),
	)
}
