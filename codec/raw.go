package codec

// Bytes passes []byte values through untouched. Decode returns a slice
// aliasing the provider's buffer; copy it before mutating.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String stores a string as its raw bytes. No UTF-8 check either way.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
