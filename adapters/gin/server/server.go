package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/utils/graceful"
	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"github.com/gin-gonic/gin"
)

// Server is a gin engine bound to an http.Server.
type Server struct {
	engine  *gin.Engine
	http    *http.Server
	options *options
}

var _ graceful.Shutdowner = (*Server)(nil)

// NewServer builds the router from the options without listening.
func NewServer(opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if helpers.IsProdEnvironment() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(o.middlewares...)
	register(engine.Group(o.baseURL), o.groups, o.log)
	for _, hook := range o.engineHooks {
		hook(engine)
	}

	return &Server{
		engine:  engine,
		options: o,
		http: &http.Server{
			Addr:              net.JoinHostPort("", o.port),
			Handler:           engine,
			ReadHeaderTimeout: o.readHeaderTimeout,
		},
	}
}

// Engine exposes the router, e.g. for httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start listens until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.options.log.Info("http server listening", log.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.options.log.Error("http server failed", log.Err(err))
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.options.log.Info("gracefully shutting down http server")
	return s.http.Shutdown(ctx)
}

// Run starts the server and shuts it down once ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	if err := graceful.GracefulShutdown(ctx, s, s.options.shutdownTimeout, s.options.log); err != nil {
		return err
	}
	return <-errCh
}
