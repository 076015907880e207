// Package wire frames the documents the source package writes to a provider.
//
// Every frame carries the version the value was committed at and the time it
// was written, so a reader can tell which snapshot it is looking at.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	formatVersion byte = 1
	kindSingle    byte = 1
	kindBulk      byte = 2

	// MaxKeyLen is the largest key a bulk frame can carry (u16 length).
	MaxKeyLen = 0xFFFF

	headerLen = 4 + 1 + 1 + 8 + 8
	// smallest bulk item: klen(2) | key(1) | vlen(4)
	minItemLen = 2 + 1 + 4
)

var (
	ErrCorrupt   = errors.New("refcache: corrupt document")
	ErrKeyLength = errors.New("refcache: invalid key length in bulk document")
	magic4       = [...]byte{'R', 'F', 'C', 'H'}
)

// Header is the metadata in front of every frame.
type Header struct {
	Version uint64 // cache version the payload was committed at
	Stamp   int64  // unix nanoseconds when the frame was written
}

func putHeader(buf *bytes.Buffer, kind byte, h Header) {
	var u8 [8]byte
	buf.Write(magic4[:])
	buf.WriteByte(formatVersion)
	buf.WriteByte(kind)
	binary.BigEndian.PutUint64(u8[:], h.Version)
	buf.Write(u8[:])
	binary.BigEndian.PutUint64(u8[:], uint64(h.Stamp))
	buf.Write(u8[:])
}

func readHeader(b []byte, kind byte) (Header, error) {
	if len(b) < headerLen || !bytes.Equal(b[:4], magic4[:]) || b[4] != formatVersion || b[5] != kind {
		return Header{}, ErrCorrupt
	}
	return Header{
		Version: binary.BigEndian.Uint64(b[6:14]),
		Stamp:   int64(binary.BigEndian.Uint64(b[14:22])),
	}, nil
}

// Single: magic(4) | fmt(1) | kind(1=single) | version(u64) | stamp(i64) | vlen(u32) | payload(vlen)
func EncodeSingle(h Header, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(headerLen + 4 + len(payload))
	putHeader(&buf, kindSingle, h)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])
	buf.Write(payload)
	return buf.Bytes()
}

// DecodeSingle returns the header and a payload slice aliasing b.
func DecodeSingle(b []byte) (Header, []byte, error) {
	h, err := readHeader(b, kindSingle)
	if err != nil {
		return Header{}, nil, err
	}
	off := headerLen
	if off+4 > len(b) {
		return Header{}, nil, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off {
		return Header{}, nil, ErrCorrupt
	}
	return h, b[off:], nil
}

// Item is one key/payload pair in a bulk frame.
type Item struct {
	Key     string
	Payload []byte
}

// Bulk:
//
//	magic(4) | fmt(1) | kind(2=bulk) | version(u64) | stamp(i64) | n(u32)
//	(klen(u16) | key(klen) | vlen(u32) | payload(vlen)) * n
func EncodeBulk(h Header, items []Item) ([]byte, error) {
	total := headerLen + 4
	for _, it := range items {
		if l := len(it.Key); l == 0 || l > MaxKeyLen {
			return nil, fmt.Errorf("%w: %d", ErrKeyLength, l)
		}
		total += 2 + len(it.Key) + 4 + len(it.Payload)
	}

	var buf bytes.Buffer
	buf.Grow(total)
	putHeader(&buf, kindBulk, h)

	var u4 [4]byte
	var u2 [2]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(items)))
	buf.Write(u4[:])

	for _, it := range items {
		binary.BigEndian.PutUint16(u2[:], uint16(len(it.Key)))
		buf.Write(u2[:])
		buf.WriteString(it.Key)

		binary.BigEndian.PutUint32(u4[:], uint32(len(it.Payload)))
		buf.Write(u4[:])
		buf.Write(it.Payload)
	}
	return buf.Bytes(), nil
}

// DecodeBulk returns the header and items whose payloads alias b.
func DecodeBulk(b []byte) (Header, []Item, error) {
	h, err := readHeader(b, kindBulk)
	if err != nil {
		return Header{}, nil, err
	}
	off := headerLen
	if off+4 > len(b) {
		return Header{}, nil, ErrCorrupt
	}
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// a count the remaining bytes cannot hold is rejected before allocating
	if n > (len(b)-off)/minItemLen {
		return Header{}, nil, ErrCorrupt
	}

	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		if off+2 > len(b) {
			return Header{}, nil, ErrCorrupt
		}
		klen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if klen == 0 || klen > len(b)-off {
			return Header{}, nil, ErrCorrupt
		}
		key := b[off : off+klen]
		off += klen

		if off+4 > len(b) {
			return Header{}, nil, ErrCorrupt
		}
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen > len(b)-off {
			return Header{}, nil, ErrCorrupt
		}
		items = append(items, Item{Key: string(key), Payload: b[off : off+vlen]})
		off += vlen
	}
	if off != len(b) {
		return Header{}, nil, ErrCorrupt
	}
	return h, items, nil
}
