package server

import (
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/gin-gonic/gin"
)

const defaultReadHeaderTimeout = 10 * time.Second

type options struct {
	port              string
	baseURL           string
	shutdownTimeout   time.Duration
	readHeaderTimeout time.Duration
	middlewares       []gin.HandlerFunc
	groups            []Group
	engineHooks       []func(*gin.Engine)
	log               *log.Log
}

func defaultOptions() *options {
	return &options{
		port:              constant.DefaultHTTPPort,
		baseURL:           "/",
		shutdownTimeout:   constant.ServerDefaultGracefulTime,
		readHeaderTimeout: defaultReadHeaderTimeout,
		log:               log.NewNopLogger(),
	}
}

// Option configures a Server.
type Option func(*options)

// WithPort sets the listening port; "0" picks a free one.
func WithPort(port string) Option {
	return func(o *options) {
		if port != "" {
			o.port = port
		}
	}
}

// WithBaseURL sets the prefix every Group is mounted under.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithMiddleware appends engine wide middlewares, run in order.
func WithMiddleware(middlewares ...gin.HandlerFunc) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithGroup mounts a group of routes under the base URL.
func WithGroup(g Group) Option {
	return func(o *options) {
		o.groups = append(o.groups, g)
	}
}

// WithEngineHook runs fn on the engine after the groups are mounted, for
// routes that live outside the base URL.
func WithEngineHook(fn func(*gin.Engine)) Option {
	return func(o *options) {
		if fn != nil {
			o.engineHooks = append(o.engineHooks, fn)
		}
	}
}

// WithShutdownTimeout bounds how long Shutdown waits for in-flight requests.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.shutdownTimeout = timeout
		}
	}
}

// WithReadHeaderTimeout bounds how long a client may take to send headers.
func WithReadHeaderTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.readHeaderTimeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Log) Option {
	return func(o *options) {
		if logger != nil {
			o.log = logger
		}
	}
}
