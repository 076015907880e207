package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// CBOR encodes values with fxamacker/cbor. Build it with NewCBOR or MustCBOR;
// the zero value has no modes and panics.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

// NewCBOR builds a CBOR codec. deterministic selects RFC 8949 core
// deterministic encoding, so equal maps encode to equal bytes; otherwise map
// keys keep Go's iteration order. Timestamps are written as RFC 3339 strings
// with nanoseconds in both modes. Decoding rejects duplicate map keys.
func NewCBOR[V any](deterministic bool) (CBOR[V], error) {
	opts := cbor.PreferredUnsortedEncOptions()
	if deterministic {
		opts = cbor.CoreDetEncOptions()
	}
	opts.Time = cbor.TimeRFC3339Nano

	enc, err := opts.EncMode()
	if err != nil {
		return CBOR[V]{}, wrap("cbor", "encode", err)
	}
	dec, err := cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		return CBOR[V]{}, wrap("cbor", "decode", err)
	}
	return CBOR[V]{enc: enc, dec: dec}, nil
}

// MustCBOR is NewCBOR for package-level vars; it panics on error.
func MustCBOR[V any](deterministic bool) CBOR[V] {
	c, err := NewCBOR[V](deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[V]) Encode(v V) ([]byte, error) {
	b, err := c.enc.Marshal(v)
	return b, wrap("cbor", "encode", err)
}

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, wrap("cbor", "decode", err)
}
