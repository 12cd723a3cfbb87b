package serial

// SerializeCtx stages v, through context mapping M, as the backend's
// next unnamed value. The marshalled variants exist for types that refer
// into caller-owned data: the mapping writes an identifying key and
// resolves it back through ctx on decode.
func SerializeCtx[M ContextMapping[T, C], T any, C any](s Serializer, v T, ctx C) {
	var m M
	s.SerializeValue(func(child Serializer) { m.Serialize(v, ctx, child) })
}

// SerializeKeyCtx stages v, through context mapping M, as a named entry.
func SerializeKeyCtx[M ContextMapping[T, C], T any, C any](s Serializer, key string, v T, ctx C) {
	var m M
	s.SerializeEntry(key, func(child Serializer) { m.Serialize(v, ctx, child) })
}

// DeserializeCtx reconstructs the backend's next unnamed value through
// context mapping M.
func DeserializeCtx[M ContextMapping[T, C], T any, C any](s Serializer, ctx C) (T, error) {
	var m M
	var out T
	err := s.DeserializeValue(func(child Serializer) error {
		v, err := m.Deserialize(child, ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// DeserializeKeyCtx reconstructs the named entry through context mapping
// M. Errors raised inside the entry's own decode come back annotated
// with key.
func DeserializeKeyCtx[M ContextMapping[T, C], T any, C any](s Serializer, key string, ctx C) (T, error) {
	var m M
	var out T
	err := s.DeserializeEntry(key, func(child Serializer) error {
		v, err := m.Deserialize(child, ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// EncodeBinaryCtx encodes v to flat binary through context mapping M.
func EncodeBinaryCtx[M ContextMapping[T, C], T any, C any](v T, ctx C) []byte {
	var m M
	b := NewBuffer()
	m.Serialize(v, ctx, b)
	return b.Bytes()
}

// DecodeBinaryCtx reconstructs a T from data through context mapping M.
func DecodeBinaryCtx[M ContextMapping[T, C], T any, C any](data []byte, ctx C) (T, error) {
	var m M
	return m.Deserialize(BufferFrom(data), ctx)
}

// EncodeTOMLCtx serializes v through context mapping M and prints the
// TOML-like dialect.
func EncodeTOMLCtx[M ContextMapping[T, C], T any, C any](v T, ctx C) (string, error) {
	var m M
	out := NewValue()
	m.Serialize(v, ctx, out)
	return out.ToTOML()
}

// DecodeTOMLCtx parses the TOML-like dialect and reconstructs a T
// through context mapping M.
func DecodeTOMLCtx[M ContextMapping[T, C], T any, C any](data string, ctx C) (T, error) {
	var m M
	val, err := ParseTOML(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.Deserialize(val, ctx)
}

// EncodeJSONCtx serializes v through context mapping M and prints the
// JSON-like dialect.
func EncodeJSONCtx[M ContextMapping[T, C], T any, C any](v T, ctx C) (string, error) {
	var m M
	out := NewValue()
	m.Serialize(v, ctx, out)
	return out.ToJSON()
}

// DecodeJSONCtx parses the JSON-like dialect and reconstructs a T
// through context mapping M.
func DecodeJSONCtx[M ContextMapping[T, C], T any, C any](data string, ctx C) (T, error) {
	var m M
	val, err := ParseJSON(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.Deserialize(val, ctx)
}

// EncodeMListCtx serializes v through context mapping M and prints the
// multi-list dialect.
func EncodeMListCtx[M ContextMapping[T, C], T any, C any](v T, ctx C) (string, error) {
	var m M
	out := NewValue()
	m.Serialize(v, ctx, out)
	return out.ToMList()
}

// DecodeMListCtx parses the multi-list dialect and reconstructs a T
// through context mapping M.
func DecodeMListCtx[M ContextMapping[T, C], T any, C any](data string, ctx C) (T, error) {
	var m M
	val, err := ParseMList(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.Deserialize(val, ctx)
}
