// Package codec turns cached values into bytes for a provider and back.
package codec

import "fmt"

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Error tags a codec failure with the codec and direction.
type Error struct {
	Codec string
	Op    string // "encode" or "decode"
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("codec %s: %s: %v", e.Codec, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(codec, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Codec: codec, Op: op, Err: err}
}
