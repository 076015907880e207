package refcache

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// Producer computes the value a cache holds: enumerate firewall rules, ping a
// device, load a document from disk. It does not have to honor ctx; see
// "Abandon-in-place" in the package doc.
type Producer[T any] func(ctx context.Context) (T, error)

// who gets the producer's result: the waiting caller or nobody
const (
	raceOpen int32 = iota
	raceDelivered
	raceAbandoned
)

// Execute runs producer once and returns whichever happens first: its
// result, the timeout elapsing (TimedOut) or ctx being done (Canceled).
//
// On TimedOut/Canceled the producer is left running and its result is
// discarded. A non-positive timeout or nil producer returns an *ArgumentError
// without starting anything.
func Execute[T any](ctx context.Context, producer Producer[T], timeout time.Duration) (Outcome[T], error) {
	return execute(ctx, clock.New(), producer, timeout, nil)
}

// execute is Execute with an injectable clock. abandoned, if set, receives
// the result of a producer the caller stopped waiting for.
func execute[T any](
	ctx context.Context,
	clk clock.Clock,
	producer Producer[T],
	timeout time.Duration,
	abandoned func(Outcome[T]),
) (Outcome[T], error) {
	if err := validateCall(producer, timeout); err != nil {
		return Outcome[T]{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return Canceled[T](), nil
	}

	var race atomic.Int32
	done := make(chan Outcome[T], 1)
	detached := context.WithoutCancel(ctx)

	go func() {
		out := call(detached, producer)
		if race.CompareAndSwap(raceOpen, raceDelivered) {
			done <- out
			return
		}
		if abandoned != nil {
			abandoned(out)
		}
	}()

	timer := clk.Timer(timeout)
	defer timer.Stop()

	var lost Outcome[T]
	select {
	case out := <-done:
		return out, nil
	case <-timer.C:
		lost = TimedOut[T]()
	case <-ctx.Done():
		lost = Canceled[T]()
	}

	if !race.CompareAndSwap(raceOpen, raceAbandoned) {
		// the producer finished in the same instant; its result wins
		return <-done, nil
	}
	return lost, nil
}

func call[T any](ctx context.Context, producer Producer[T]) (out Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed[T](&PanicError{Value: r, Stack: debug.Stack()})
		}
	}()
	v, err := producer(ctx)
	if err != nil {
		return Failed[T](err)
	}
	return Success(v)
}
