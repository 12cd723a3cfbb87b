// Package serial is a format-agnostic serialization engine. A type's
// structural mapping — which fields it has, whether they are keyed by name
// or laid out positionally — is written once and reused unchanged across
// every backend: a compact binary buffer and an intermediate value tree
// that prints to several human-readable text dialects (TOML-like,
// JSON-like, and a flat multi-list form).
//
// A mapping is a zero-size type implementing Mapping[T]. One logical type
// may carry several mappings (a readable keyed one, a compact positional
// one); the caller picks the mapping at the call site by type parameter:
//
//	data := serial.EncodeBinary[personCompact](p)
//	p, err := serial.DecodeTOML[personReadable](text)
//
// Backends are exclusively borrowed for the duration of one serialize or
// deserialize call tree and are mutated destructively; they must not be
// shared across concurrent call trees.
package serial

// Mapping describes how a value of type T moves through a backend. It is
// the unit of profile selection: implement it once per (type, profile)
// pair and pass the implementation as a type argument to the dispatch
// helpers. Implementations are expected to be zero-size.
//
// Serialize pushes the value's fields into the backend, either keyed
// (SerializeEntry / SerializeKey) or positionally (SerializeValue /
// Serialize). Deserialize reverses the exact same reads. Serialization
// itself cannot fail; malformed input surfaces on the deserialize side.
type Mapping[T any] interface {
	Serialize(v T, into Serializer)
	Deserialize(from Serializer) (T, error)
}

// ContextMapping is the marshalled variant of Mapping: a caller-supplied
// context value is threaded through both directions. It is the tool for
// reconstructing values that refer into data the caller already owns —
// serialize an identifying key, resolve it through the context on decode —
// rather than embedding an owned copy.
type ContextMapping[T any, C any] interface {
	Serialize(v T, ctx C, into Serializer)
	Deserialize(from Serializer, ctx C) (T, error)
}

// KeyMapping converts typed map keys to and from their textual form.
// ParseKey reports a structured error when the text does not denote a K.
type KeyMapping[K comparable] interface {
	FormatKey(k K) string
	ParseKey(s string) (K, error)
}

// SizeType selects the width of the length prefix written before
// variable-length primitives. Narrower prefixes are denser but cap the
// payload length; the caller picks per field and must use the same width
// on both sides.
type SizeType uint8

const (
	// SizeU8 is a 1-byte prefix, lengths 0-255.
	SizeU8 SizeType = iota
	// SizeU16 is a 2-byte big-endian prefix, lengths 0-65535.
	SizeU16
	// SizeU32 is a 4-byte big-endian prefix, the default.
	SizeU32
)

// Width returns the prefix width in bytes.
func (t SizeType) Width() int {
	switch t {
	case SizeU8:
		return 1
	case SizeU16:
		return 2
	default:
		return 4
	}
}

// Max returns the largest payload length the prefix can express.
func (t SizeType) Max() int {
	switch t {
	case SizeU8:
		return 1<<8 - 1
	case SizeU16:
		return 1<<16 - 1
	default:
		return 1<<32 - 1
	}
}

func (t SizeType) String() string {
	switch t {
	case SizeU8:
		return "u8"
	case SizeU16:
		return "u16"
	default:
		return "u32"
	}
}

// Serializer is the complete backend contract: the primitive scalar codec
// plus the composite operations the dispatch layer drives. Both backends
// (*Buffer, *Value) implement it.
//
// All operations are destructive and strictly sequential: serializing
// appends, deserializing consumes from the front. Width arguments are in
// bytes (1, 2, 4 or 8; floats 4 or 8).
type Serializer interface {
	SerializeBool(v bool)
	DeserializeBool() (bool, error)

	SerializeUint(v uint64, width int)
	DeserializeUint(width int) (uint64, error)
	SerializeInt(v int64, width int)
	DeserializeInt(width int) (int64, error)
	SerializeFloat(v float64, width int)
	DeserializeFloat(width int) (float64, error)

	// Strings carry a SizeU32 length prefix unless a narrower SizeType is
	// chosen; DeserializeStringExact reads a caller-known byte count with
	// no prefix at all.
	SerializeString(v string)
	DeserializeString() (string, error)
	SerializeStringSized(v string, size SizeType)
	DeserializeStringSized(size SizeType) (string, error)
	DeserializeStringExact(length int) (string, error)

	SerializeBytes(v []byte)
	DeserializeBytes() ([]byte, error)
	SerializeBytesSized(v []byte, size SizeType)
	DeserializeBytesSized(size SizeType) ([]byte, error)

	// SerializeValue stages a nested unnamed value: fill receives the
	// backend (or a fresh child, backend's choice) and writes the nested
	// value's own fields into it. SerializeEntry is the keyed form.
	SerializeValue(fill func(Serializer))
	SerializeEntry(key string, fill func(Serializer))

	// DeserializeValue hands the next unnamed value to read;
	// DeserializeEntry locates the named entry, hands it to read, and
	// splices whatever read did not consume back into place. Errors from
	// inside read come back annotated with the entry's key.
	DeserializeValue(read func(Serializer) error) error
	DeserializeEntry(key string, read func(Serializer) error) error

	// TryGetKey peeks whether another named entry remains, for backends
	// that can enumerate keys (the value tree can; the binary buffer
	// cannot and always reports false).
	TryGetKey() (string, bool)
}

// Interface assertions for both backends.
var (
	_ Serializer = (*Value)(nil)
	_ Serializer = (*Buffer)(nil)
)
