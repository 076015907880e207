package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Be mindful of struct tag differences vs JSON; use `msgpack:"name"` tags
// for explicit control.
type Msgpack[V any] struct{}

func (Msgpack[V]) Encode(v V) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	return b, wrap("msgpack", "encode", err)
}

func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(b, &v)
	return v, wrap("msgpack", "decode", err)
}
