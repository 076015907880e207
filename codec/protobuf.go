package codec

import "google.golang.org/protobuf/proto"

// Protobuf encodes proto messages. ctor builds an empty message to decode
// into, e.g. func() *pb.Device { return &pb.Device{} }.
type Protobuf[T proto.Message] struct {
	ctor func() T
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{ctor: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(v)
	return b, wrap("protobuf", "encode", err)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.ctor()
	err := proto.Unmarshal(b, m)
	return m, wrap("protobuf", "decode", err)
}
