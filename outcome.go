package refcache

import "fmt"

// Kind tags an Outcome.
type Kind uint8

const (
	KindSuccess Kind = iota
	KindTimedOut
	KindCanceled
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindTimedOut:
		return "timed_out"
	case KindCanceled:
		return "canceled"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Outcome is the result of every refresh and lookup:
// Success(value) | TimedOut | Canceled | Failed(err).
//
// A value is only carried by Success and an error only by Failed; the fields
// are unexported so no other combination can be built.
// The zero Outcome is Success with the zero value.
type Outcome[T any] struct {
	kind  Kind
	value T
	err   error
}

func Success[T any](v T) Outcome[T] { return Outcome[T]{kind: KindSuccess, value: v} }

func TimedOut[T any]() Outcome[T] { return Outcome[T]{kind: KindTimedOut} }

func Canceled[T any]() Outcome[T] { return Outcome[T]{kind: KindCanceled} }

// Failed wraps a producer error. A nil err is replaced by ErrProducerFailed.
func Failed[T any](err error) Outcome[T] {
	if err == nil {
		err = ErrProducerFailed
	}
	return Outcome[T]{kind: KindFailed, err: err}
}

func (o Outcome[T]) Kind() Kind        { return o.kind }
func (o Outcome[T]) IsSuccess() bool  { return o.kind == KindSuccess }
func (o Outcome[T]) IsTimedOut() bool { return o.kind == KindTimedOut }
func (o Outcome[T]) IsCanceled() bool { return o.kind == KindCanceled }
func (o Outcome[T]) IsFailed() bool   { return o.kind == KindFailed }

// Value returns the produced value for Success, the zero value otherwise.
func (o Outcome[T]) Value() T { return o.value }

// Error returns the producer error for Failed, nil otherwise.
func (o Outcome[T]) Error() error { return o.err }

// Get returns the value and whether the outcome is Success.
func (o Outcome[T]) Get() (T, bool) { return o.value, o.kind == KindSuccess }

// Err folds the outcome into a plain error: nil for Success, ErrTimedOut,
// ErrCanceled, or the producer error.
func (o Outcome[T]) Err() error {
	switch o.kind {
	case KindTimedOut:
		return ErrTimedOut
	case KindCanceled:
		return ErrCanceled
	case KindFailed:
		return o.err
	default:
		return nil
	}
}

func (o Outcome[T]) String() string {
	switch o.kind {
	case KindSuccess:
		return fmt.Sprintf("Success(%v)", o.value)
	case KindFailed:
		return fmt.Sprintf("Failed(%v)", o.err)
	default:
		return o.kind.String()
	}
}

// Convert maps a Success value through f and carries every other kind over
// unchanged.
func Convert[T, U any](o Outcome[T], f func(T) U) Outcome[U] {
	if o.kind == KindSuccess {
		return Success(f(o.value))
	}
	return Outcome[U]{kind: o.kind, err: o.err}
}
