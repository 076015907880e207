package refcache

import "time"

// Hooks lightweight callbacks for high-signal refresh events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths, sometimes while a refresh is settling.
type Hooks interface {
	// A caller found a refresh in flight and waited on it instead of
	// starting its own.
	RefreshJoined(name string)

	// A successful refresh was committed at version.
	RefreshCommitted(name string, version uint64, took time.Duration)

	// The owner of a refresh gave up waiting after timeout.
	RefreshTimedOut(name string, timeout time.Duration)

	// The owner's context was done before the producer finished.
	RefreshCanceled(name string)

	// The producer returned an error (or panicked).
	RefreshFailed(name string, err error)

	// A failed refresh left the previously committed value in place.
	StaleServed(name string, version uint64)

	// A producer that was abandoned on timeout/cancel finished later.
	// kind is the outcome it would have produced.
	ProducerAbandoned(name string, kind Kind)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) RefreshJoined(string)                          {}
func (NopHooks) RefreshCommitted(string, uint64, time.Duration) {}
func (NopHooks) RefreshTimedOut(string, time.Duration)          {}
func (NopHooks) RefreshCanceled(string)                         {}
func (NopHooks) RefreshFailed(string, error)                    {}
func (NopHooks) StaleServed(string, uint64)                     {}
func (NopHooks) ProducerAbandoned(string, Kind)                 {}
