package serial

// Serialize stages v, through mapping M, as the backend's next unnamed
// value. The mapping is selected purely by type argument; nothing about
// the chosen profile is stored in the data.
func Serialize[M Mapping[T], T any](s Serializer, v T) {
	var m M
	s.SerializeValue(func(child Serializer) { m.Serialize(v, child) })
}

// SerializeKey stages v, through mapping M, as a named entry.
func SerializeKey[M Mapping[T], T any](s Serializer, key string, v T) {
	var m M
	s.SerializeEntry(key, func(child Serializer) { m.Serialize(v, child) })
}

// Deserialize reconstructs the backend's next unnamed value through
// mapping M.
func Deserialize[M Mapping[T], T any](s Serializer) (T, error) {
	var m M
	var out T
	err := s.DeserializeValue(func(child Serializer) error {
		v, err := m.Deserialize(child)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// DeserializeKey reconstructs the named entry through mapping M. Errors
// raised inside the entry's own decode come back annotated with key.
func DeserializeKey[M Mapping[T], T any](s Serializer, key string) (T, error) {
	var m M
	var out T
	err := s.DeserializeEntry(key, func(child Serializer) error {
		v, err := m.Deserialize(child)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// DeserializeKeyOr is DeserializeKey with a fallback for an absent key.
// Only a directly missing key yields the fallback; a key that is present
// but malformed propagates its error unchanged.
func DeserializeKeyOr[M Mapping[T], T any](s Serializer, key string, fallback T) (T, error) {
	out, err := DeserializeKey[M, T](s, key)
	if err != nil {
		if IsMissingField(err) {
			return fallback, nil
		}
		var zero T
		return zero, err
	}
	return out, nil
}

// DeserializeKeyOrElse is DeserializeKeyOr with a lazily computed
// fallback.
func DeserializeKeyOrElse[M Mapping[T], T any](s Serializer, key string, fallback func() T) (T, error) {
	out, err := DeserializeKey[M, T](s, key)
	if err != nil {
		if IsMissingField(err) {
			return fallback(), nil
		}
		var zero T
		return zero, err
	}
	return out, nil
}
