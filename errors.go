package refcache

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidArgument is wrapped by every *ArgumentError.
	ErrInvalidArgument = errors.New("refcache: invalid argument")

	// ErrTimedOut is what Outcome.Err reports for a TimedOut outcome.
	ErrTimedOut = errors.New("refcache: timed out")

	// ErrCanceled is what Outcome.Err reports for a Canceled outcome.
	ErrCanceled = errors.New("refcache: canceled")

	// ErrProducerFailed stands in for a nil error handed to Failed.
	ErrProducerFailed = errors.New("refcache: producer failed")
)

// ArgumentError reports a call rejected before any asynchronous work started.
type ArgumentError struct {
	Arg    string
	Value  any
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("refcache: invalid %s: %s", e.Arg, e.Reason)
	}
	return fmt.Sprintf("refcache: invalid %s %v: %s", e.Arg, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// PanicError carries a panic recovered from a producer.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("refcache: producer panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error { return ErrProducerFailed }

func validateCall[T any](producer Producer[T], timeout time.Duration) error {
	if producer == nil {
		return &ArgumentError{Arg: "producer", Reason: "must not be nil"}
	}
	if timeout <= 0 {
		return &ArgumentError{Arg: "timeout", Value: timeout, Reason: "must be > 0"}
	}
	return nil
}
