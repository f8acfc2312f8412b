// Package circuitBreaker wraps sony/gobreaker for the keyring store and the
// event publisher.
package circuitBreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// Breakers start closed, count failures over a 30s window and probe again
// with up to 5 requests after a 10s open period.
const (
	defaultName        = "primesecure-breaker"
	defaultOpenPeriod  = 10 * time.Second
	defaultWindow      = 30 * time.Second
	defaultHalfOpenMax = 5
	defaultTripAfter   = 4
)

// Option adjusts the gobreaker settings before the breaker is built.
type Option func(*gobreaker.Settings)

// WithName names the breaker in state change callbacks and errors.
func WithName(name string) Option {
	return func(s *gobreaker.Settings) {
		if name != "" {
			s.Name = name
		}
	}
}

// WithOnStateChange is called whenever the breaker opens, half-opens or closes.
func WithOnStateChange(fn func(name string, from, to gobreaker.State)) Option {
	return func(s *gobreaker.Settings) {
		s.OnStateChange = fn
	}
}

// WithConsecutiveFailures trips the breaker after n failures in a row.
func WithConsecutiveFailures(n uint32) Option {
	return func(s *gobreaker.Settings) {
		s.ReadyToTrip = tripAfter(n)
	}
}

func tripAfter(n uint32) func(gobreaker.Counts) bool {
	return func(c gobreaker.Counts) bool {
		return c.ConsecutiveFailures >= n
	}
}

// NewCircuitBreaker builds a breaker from the defaults and opts.
func NewCircuitBreaker(opts ...Option) *gobreaker.CircuitBreaker {
	s := gobreaker.Settings{
		Name:        defaultName,
		MaxRequests: defaultHalfOpenMax,
		Interval:    defaultWindow,
		Timeout:     defaultOpenPeriod,
		ReadyToTrip: tripAfter(defaultTripAfter),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return gobreaker.NewCircuitBreaker(s)
}

// Execute runs fn through cb and keeps the result typed.
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (any, error) {
		return fn()
	})
	v, _ := out.(T)
	return v, err
}

// IsRejected reports whether err means the breaker refused the call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
