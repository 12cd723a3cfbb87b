package serial

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Order is the byte order of every fixed-width scalar on the wire.
var Order = binary.BigEndian

// Buffer is the binary backend: a flat byte sequence appended at the back
// while serializing and consumed from the front while deserializing. No
// structural nesting is recorded; nesting is implicit in the order of
// primitive writes and reads.
//
// Named fields are written as a 1-byte length prefix, the key's raw UTF-8
// bytes, then the encoded value. Reading by key scans the remaining bytes
// for that pattern and splices around the value (see DeserializeEntry),
// so fields can be decoded out of write order. The scan can still
// false-match value content that happens to contain the pattern; keys
// should be chosen so that cannot occur.
type Buffer struct {
	data []byte
}

// NewBuffer returns an empty buffer ready for serializing.
func NewBuffer() *Buffer { return &Buffer{} }

// BufferFrom wraps data for deserializing. The slice is adopted, not
// copied; the buffer only ever re-slices it.
func BufferFrom(data []byte) *Buffer { return &Buffer{data: data} }

// Bytes returns the unconsumed contents.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int { return len(b.data) }

// take consumes exactly n bytes from the front.
func (b *Buffer) take(n int) ([]byte, error) {
	if len(b.data) < n {
		return nil, ErrUnexpectedEOF
	}
	out := b.data[:n]
	b.data = b.data[n:]
	return out, nil
}

func (b *Buffer) appendUint(v uint64, width int) {
	switch width {
	case 1:
		b.data = append(b.data, byte(v))
	case 2:
		b.data = Order.AppendUint16(b.data, uint16(v))
	case 4:
		b.data = Order.AppendUint32(b.data, uint32(v))
	case 8:
		b.data = Order.AppendUint64(b.data, v)
	default:
		panic(fmt.Sprintf("serial: invalid integer width %d", width))
	}
}

func (b *Buffer) readUint(width int) (uint64, error) {
	raw, err := b.take(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(raw[0]), nil
	case 2:
		return uint64(Order.Uint16(raw)), nil
	case 4:
		return uint64(Order.Uint32(raw)), nil
	case 8:
		return Order.Uint64(raw), nil
	default:
		panic(fmt.Sprintf("serial: invalid integer width %d", width))
	}
}

// --- primitive codec contract ---

// Booleans are a single byte: 0xFF true, 0x00 false. Anything else is a
// NoMatch, not a silent truthiness coercion.
func (b *Buffer) SerializeBool(v bool) {
	if v {
		b.data = append(b.data, 0xFF)
	} else {
		b.data = append(b.data, 0x00)
	}
}

func (b *Buffer) DeserializeBool() (bool, error) {
	raw, err := b.take(1)
	if err != nil {
		return false, err
	}
	switch raw[0] {
	case 0xFF:
		return true, nil
	case 0x00:
		return false, nil
	default:
		return false, &NoMatchError{Actual: fmt.Sprintf("0x%02X", raw[0])}
	}
}

func (b *Buffer) SerializeUint(v uint64, width int) { b.appendUint(v, width) }

func (b *Buffer) DeserializeUint(width int) (uint64, error) {
	return b.readUint(width)
}

func (b *Buffer) SerializeInt(v int64, width int) { b.appendUint(uint64(v), width) }

func (b *Buffer) DeserializeInt(width int) (int64, error) {
	u, err := b.readUint(width)
	if err != nil {
		return 0, err
	}
	shift := 64 - uint(width)*8
	return int64(u<<shift) >> shift, nil
}

func (b *Buffer) SerializeFloat(v float64, width int) {
	switch width {
	case 4:
		b.appendUint(uint64(math.Float32bits(float32(v))), 4)
	case 8:
		b.appendUint(math.Float64bits(v), 8)
	default:
		panic(fmt.Sprintf("serial: invalid float width %d", width))
	}
}

func (b *Buffer) DeserializeFloat(width int) (float64, error) {
	u, err := b.readUint(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 4:
		return float64(math.Float32frombits(uint32(u))), nil
	case 8:
		return math.Float64frombits(u), nil
	default:
		panic(fmt.Sprintf("serial: invalid float width %d", width))
	}
}

func (b *Buffer) SerializeString(v string) { b.SerializeStringSized(v, SizeU32) }

func (b *Buffer) DeserializeString() (string, error) {
	return b.DeserializeStringSized(SizeU32)
}

func (b *Buffer) SerializeStringSized(v string, size SizeType) {
	if len(v) > size.Max() {
		panic(fmt.Sprintf("serial: string length %d exceeds %v size prefix", len(v), size))
	}
	b.appendUint(uint64(len(v)), size.Width())
	b.data = append(b.data, v...)
}

func (b *Buffer) DeserializeStringSized(size SizeType) (string, error) {
	length, err := b.readUint(size.Width())
	if err != nil {
		return "", err
	}
	return b.DeserializeStringExact(int(length))
}

func (b *Buffer) DeserializeStringExact(length int) (string, error) {
	raw, err := b.take(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}
	return string(raw), nil
}

func (b *Buffer) SerializeBytes(v []byte) { b.SerializeBytesSized(v, SizeU32) }

func (b *Buffer) DeserializeBytes() ([]byte, error) {
	return b.DeserializeBytesSized(SizeU32)
}

func (b *Buffer) SerializeBytesSized(v []byte, size SizeType) {
	if len(v) > size.Max() {
		panic(fmt.Sprintf("serial: byte sequence length %d exceeds %v size prefix", len(v), size))
	}
	b.appendUint(uint64(len(v)), size.Width())
	b.data = append(b.data, v...)
}

func (b *Buffer) DeserializeBytesSized(size SizeType) ([]byte, error) {
	length, err := b.readUint(size.Width())
	if err != nil {
		return nil, err
	}
	raw, err := b.take(int(length))
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), raw...), nil
}

// --- composite contract ---

// encodeKey builds the on-wire key pattern: 1-byte length plus raw bytes.
// Key names are part of a type's mapping, so a bad one is a contract
// violation.
func encodeKey(key string) []byte {
	if len(key) == 0 || len(key) > 255 {
		panic(fmt.Sprintf("serial: key %q must be 1-255 bytes", key))
	}
	out := make([]byte, 0, len(key)+1)
	out = append(out, byte(len(key)))
	return append(out, key...)
}

// Nested values have no explicit envelope in the binary layout, so
// staging a nested value is just continuing to append.
func (b *Buffer) SerializeValue(fill func(Serializer)) { fill(b) }

func (b *Buffer) SerializeEntry(key string, fill func(Serializer)) {
	b.data = append(b.data, encodeKey(key)...)
	fill(b)
}

func (b *Buffer) DeserializeValue(read func(Serializer) error) error {
	return read(b)
}

// DeserializeEntry locates the key's pattern anywhere in the unconsumed
// bytes, sets aside everything before it, hands the remainder to read,
// then splices the untouched prefix back in front of whatever read did
// not consume. read must consume exactly the value's own bytes.
func (b *Buffer) DeserializeEntry(key string, read func(Serializer) error) error {
	pattern := encodeKey(key)
	idx := bytes.Index(b.data, pattern)
	if idx < 0 {
		return InField(key, ErrMissingField)
	}
	prefix := append([]byte(nil), b.data[:idx]...)
	b.data = b.data[idx+len(pattern):]
	err := read(b)
	b.data = append(prefix, b.data...)
	if err != nil {
		return InField(key, Nest(err))
	}
	return nil
}

// TryGetKey always reports false: the keyed binary layout carries no
// table of contents, so unknown keys cannot be enumerated.
func (b *Buffer) TryGetKey() (string, bool) { return "", false }

// EncodeBinary serializes v through mapping M into a fresh binary buffer.
func EncodeBinary[M Mapping[T], T any](v T) []byte {
	var m M
	b := NewBuffer()
	m.Serialize(v, b)
	return b.Bytes()
}

// DecodeBinary reconstructs a T from data through mapping M.
func DecodeBinary[M Mapping[T], T any](data []byte) (T, error) {
	var m M
	return m.Deserialize(BufferFrom(data))
}
