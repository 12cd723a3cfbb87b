package serial

import (
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"
)

// Slice is the mapping for ordered sequences: elements are written in
// order with no count or terminator, and read back until the input runs
// out. UnexpectedEOF is the termination signal, not a failure; any other
// error aborts the whole decode. A consequence of the missing count is
// that a trailing element which itself decodes partially before hitting
// EOF is silently dropped — sequence fields should contain self-delimited
// elements.
type Slice[M Mapping[E], E any] struct{}

func (Slice[M, E]) Serialize(vs []E, s Serializer) {
	for _, v := range vs {
		Serialize[M](s, v)
	}
}

func (Slice[M, E]) Deserialize(s Serializer) ([]E, error) {
	out := make([]E, 0)
	for {
		v, err := Deserialize[M, E](s)
		if err != nil {
			if IsUnexpectedEOF(err) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

// Set is Slice over the keys of a set; element order on the wire is
// unspecified.
type Set[M Mapping[E], E comparable] struct{}

func (Set[M, E]) Serialize(vs map[E]struct{}, s Serializer) {
	for v := range vs {
		Serialize[M](s, v)
	}
}

func (Set[M, E]) Deserialize(s Serializer) (map[E]struct{}, error) {
	out := make(map[E]struct{})
	for {
		v, err := Deserialize[M, E](s)
		if err != nil {
			if IsUnexpectedEOF(err) {
				return out, nil
			}
			return nil, err
		}
		out[v] = struct{}{}
	}
}

// MapOf is the mapping for string-keyed maps: entries are written keyed
// and read back by looping TryGetKey, so it only decodes from backends
// that can enumerate keys. From a backend that cannot (the binary
// buffer), it decodes as empty.
type MapOf[M Mapping[V], V any] struct{}

func (MapOf[M, V]) Serialize(vs map[string]V, s Serializer) {
	for k, v := range vs {
		SerializeKey[M](s, k, v)
	}
}

func (MapOf[M, V]) Deserialize(s Serializer) (map[string]V, error) {
	out := make(map[string]V)
	for {
		key, ok := s.TryGetKey()
		if !ok {
			return out, nil
		}
		v, err := DeserializeKey[M, V](s, key)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
}

// KeyedMap generalizes MapOf to typed keys: KM converts keys to and from
// their textual form. A key that fails to convert back is a structured
// error naming the offending key.
type KeyedMap[KM KeyMapping[K], M Mapping[V], K comparable, V any] struct{}

func (KeyedMap[KM, M, K, V]) Serialize(vs map[K]V, s Serializer) {
	var km KM
	for k, v := range vs {
		SerializeKey[M](s, km.FormatKey(k), v)
	}
}

func (KeyedMap[KM, M, K, V]) Deserialize(s Serializer) (map[K]V, error) {
	var km KM
	out := make(map[K]V)
	for {
		key, ok := s.TryGetKey()
		if !ok {
			return out, nil
		}
		k, err := km.ParseKey(key)
		if err != nil {
			return nil, InField(key, err)
		}
		v, err := DeserializeKey[M, V](s, key)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
}

// StringKeys is the identity key conversion.
type StringKeys struct{}

func (StringKeys) FormatKey(k string) string { return k }

func (StringKeys) ParseKey(s string) (string, error) { return s, nil }

// NumKeys converts integer map keys through their decimal form.
type NumKeys[N constraints.Integer] struct{}

func (NumKeys[N]) FormatKey(k N) string {
	if reflect.ValueOf(k).CanUint() {
		return strconv.FormatUint(uint64(k), 10)
	}
	return strconv.FormatInt(int64(k), 10)
}

func (NumKeys[N]) ParseKey(s string) (N, error) {
	var zero N
	if reflect.ValueOf(zero).CanUint() {
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return zero, &NoMatchError{Actual: s}
		}
		return N(u), nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return zero, &NoMatchError{Actual: s}
	}
	return N(i), nil
}

// Option is the mapping for optional values. An absent value writes
// nothing at all — no null marker — so in a positional layout an optional
// field must be the last thing written, or its absence desynchronizes
// every later read. Decoding treats exhausted input (or a missing key)
// as absence.
type Option[M Mapping[E], E any] struct{}

func (Option[M, E]) Serialize(v *E, s Serializer) {
	if v == nil {
		return
	}
	Serialize[M](s, *v)
}

func (Option[M, E]) Deserialize(s Serializer) (*E, error) {
	v, err := Deserialize[M, E](s)
	if err != nil {
		if IsUnexpectedEOF(err) || IsMissingField(err) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

var (
	_ Mapping[[]uint32]          = Slice[Num[uint32], uint32]{}
	_ Mapping[map[string]string] = MapOf[Str, string]{}
	_ Mapping[map[uint16]string] = KeyedMap[NumKeys[uint16], Str, uint16, string]{}
	_ Mapping[map[bool]struct{}] = Set[Bool, bool]{}
	_ Mapping[*string]           = Option[Str, string]{}
	_ KeyMapping[string]         = StringKeys{}
	_ KeyMapping[int32]          = NumKeys[int32]{}
)
