// Package result carries a value or a blame error between layers that
// prefer a single return, such as gin handlers and worker outputs.
package result

import "github.com/Felo0o0/PrimeSecure/blame"

// Result is either a success holding a value or a failure holding a blame.
// A failure may still hold the value produced before the error.
type Result[T any] interface {
	IsSuccess() bool
	IsError() bool
	// Value returns the value and the error; either may be nil.
	Value() (*T, blame.Blame)
	// Error is nil for a success.
	Error() blame.Blame
	// ToValue is the value of a success and nil for a failure.
	ToValue() *T
}

type outcome[T any] struct {
	val *T
	err blame.Blame
}

func NewSuccess[T any](value *T) Result[T] {
	return outcome[T]{val: value}
}

func NewFailure[T any](err blame.Blame) Result[T] {
	return outcome[T]{err: err}
}

// NewFailureWithValue keeps the partial value next to the error.
func NewFailureWithValue[T any](value *T, err blame.Blame) Result[T] {
	return outcome[T]{val: value, err: err}
}

func (o outcome[T]) IsSuccess() bool          { return o.err == nil }
func (o outcome[T]) IsError() bool            { return o.err != nil }
func (o outcome[T]) Value() (*T, blame.Blame) { return o.val, o.err }
func (o outcome[T]) Error() blame.Blame       { return o.err }

func (o outcome[T]) ToValue() *T {
	if o.err != nil {
		return nil
	}
	return o.val
}

// ToResult builds a Result from a value and an error; a non-nil error always wins.
func ToResult[T any](value *T, err error) Result[T] {
	if err != nil {
		return NewFailureWithValue(value, blame.AsBlame(err))
	}
	return NewSuccess(value)
}

// Unwrap converts a Result back into a (value, error) pair.
func Unwrap[T any](r Result[T]) (*T, error) {
	val, err := r.Value()
	if err == nil {
		return val, nil
	}
	return val, err
}
