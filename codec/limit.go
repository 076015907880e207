package codec

import (
	"errors"
	"fmt"
)

var ErrTooLarge = errors.New("payload too large")

// Limit wraps another codec and rejects payloads over MaxDecode bytes before
// decoding them. MaxDecode <= 0 disables the check.
//
// Use it in front of documents read from a shared store.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, wrap("limit", "decode", fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), c.MaxDecode))
	}
	return c.Inner.Decode(b)
}
