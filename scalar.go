package serial

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/constraints"
)

// Number covers every fixed-width numeric type the engine can carry.
type Number interface {
	constraints.Integer | constraints.Float
}

// SerializeNum writes v with the width and signedness of its concrete
// type: fixed-width big-endian in the binary backend, an Integer or Float
// node in the value tree. int, uint and uintptr travel as 8 bytes.
func SerializeNum[N Number](s Serializer, v N) {
	switch reflect.TypeOf(v).Kind() {
	case reflect.Uint8:
		s.SerializeUint(uint64(v), 1)
	case reflect.Uint16:
		s.SerializeUint(uint64(v), 2)
	case reflect.Uint32:
		s.SerializeUint(uint64(v), 4)
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		s.SerializeUint(uint64(v), 8)
	case reflect.Int8:
		s.SerializeInt(int64(v), 1)
	case reflect.Int16:
		s.SerializeInt(int64(v), 2)
	case reflect.Int32:
		s.SerializeInt(int64(v), 4)
	case reflect.Int64, reflect.Int:
		s.SerializeInt(int64(v), 8)
	case reflect.Float32:
		s.SerializeFloat(float64(v), 4)
	case reflect.Float64:
		s.SerializeFloat(float64(v), 8)
	default:
		panic(fmt.Sprintf("serial: unsupported number type %T", v))
	}
}

// DeserializeNum reads a value of N's width and signedness. Reading an
// unsigned type from a negative value, or an integer type from a float,
// is an InvalidType error rather than a silent wrap.
func DeserializeNum[N Number](s Serializer) (N, error) {
	var zero N
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Uint8:
		v, err := s.DeserializeUint(1)
		return N(v), err
	case reflect.Uint16:
		v, err := s.DeserializeUint(2)
		return N(v), err
	case reflect.Uint32:
		v, err := s.DeserializeUint(4)
		return N(v), err
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		v, err := s.DeserializeUint(8)
		return N(v), err
	case reflect.Int8:
		v, err := s.DeserializeInt(1)
		return N(v), err
	case reflect.Int16:
		v, err := s.DeserializeInt(2)
		return N(v), err
	case reflect.Int32:
		v, err := s.DeserializeInt(4)
		return N(v), err
	case reflect.Int64, reflect.Int:
		v, err := s.DeserializeInt(8)
		return N(v), err
	case reflect.Float32:
		v, err := s.DeserializeFloat(4)
		return N(v), err
	case reflect.Float64:
		v, err := s.DeserializeFloat(8)
		return N(v), err
	default:
		panic(fmt.Sprintf("serial: unsupported number type %T", zero))
	}
}

// Num is the natural mapping for numeric types.
type Num[N Number] struct{}

func (Num[N]) Serialize(v N, s Serializer) { SerializeNum(s, v) }

func (Num[N]) Deserialize(s Serializer) (N, error) { return DeserializeNum[N](s) }

// Bool is the natural mapping for booleans.
type Bool struct{}

func (Bool) Serialize(v bool, s Serializer) { s.SerializeBool(v) }

func (Bool) Deserialize(s Serializer) (bool, error) { return s.DeserializeBool() }

// Str is the natural mapping for strings.
type Str struct{}

func (Str) Serialize(v string, s Serializer) { s.SerializeString(v) }

func (Str) Deserialize(s Serializer) (string, error) { return s.DeserializeString() }

// StrAs is the natural mapping for named string types: serialized as
// their string value, reconstructed by conversion.
type StrAs[T ~string] struct{}

func (StrAs[T]) Serialize(v T, s Serializer) { s.SerializeString(string(v)) }

func (StrAs[T]) Deserialize(s Serializer) (T, error) {
	v, err := s.DeserializeString()
	return T(v), err
}

// Bytes is the natural mapping for raw byte sequences.
type Bytes struct{}

func (Bytes) Serialize(v []byte, s Serializer) { s.SerializeBytes(v) }

func (Bytes) Deserialize(s Serializer) ([]byte, error) { return s.DeserializeBytes() }

// Mapping assertions for the natural scalar profiles.
var (
	_ Mapping[uint16] = Num[uint16]{}
	_ Mapping[bool]   = Bool{}
	_ Mapping[string] = Str{}
	_ Mapping[[]byte] = Bytes{}
)
