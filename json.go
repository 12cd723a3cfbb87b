package serial

import (
	"fmt"
	"sort"
	"strings"
)

// ToJSON renders the value in the JSON-like dialect: `{ key: value }` and
// `[ value, ... ]` with unquoted keys. The grammar is a relaxed superset
// tuned to this printer's own output, not an arbitrary-JSON codec.
func (v *Value) ToJSON() (string, error) {
	switch v.kind {
	case KindEmpty:
		return "", nil
	case KindTable:
		keys := make([]string, 0, len(v.table))
		for key := range v.table {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var sb strings.Builder
		sb.WriteString("{\n")
		for _, key := range keys {
			inner, err := v.table[key].ToJSON()
			if err != nil {
				return "", InField(key, err)
			}
			fmt.Fprintf(&sb, "\t%s: %s,\n", key, indentTail(inner))
		}
		sb.WriteString("}")
		return sb.String(), nil
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, elem := range v.arr {
			part, err := elem.ToJSON()
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	default:
		return printScalar(v), nil
	}
}

// indentTail shifts the continuation lines of a nested rendering one tab
// right so nested tables stay readable.
func indentTail(s string) string {
	return strings.ReplaceAll(s, "\n", "\n\t")
}

// ParseJSON reconstructs a value from the JSON-like dialect. Empty input
// is UnexpectedEOF; structural defects (unbalanced brackets, a key with
// no value) are malformed-format errors naming the offending key where
// one is known.
func ParseJSON(data string) (*Value, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, ErrUnexpectedEOF
	}

	switch data[0] {
	case '{':
		if !strings.HasSuffix(data, "}") {
			return nil, &FormatError{Reason: "missing closing brace"}
		}
		segments, err := splitTopLevel(data)
		if err != nil {
			return nil, err
		}
		out := NewValue()
		for _, segment := range segments {
			if segment == "" {
				continue
			}
			idx := strings.Index(segment, ":")
			if idx < 0 {
				return nil, InField(segment, &FormatError{Reason: "missing value"})
			}
			key := strings.TrimSpace(segment[:idx])
			if key == "" {
				return nil, &FormatError{Reason: "missing key"}
			}
			body := strings.TrimSpace(segment[idx+1:])
			if body == "" {
				return nil, InField(key, &FormatError{Reason: "missing value"})
			}
			child, err := ParseJSON(body)
			if err != nil {
				return nil, InField(key, err)
			}
			out.PushEntry(key, child)
		}
		return out, nil
	case '[':
		if !strings.HasSuffix(data, "]") {
			return nil, &FormatError{Reason: "missing closing bracket"}
		}
		segments, err := splitTopLevel(data)
		if err != nil {
			return nil, err
		}
		out := NewValue()
		for _, segment := range segments {
			if segment == "" {
				return nil, &FormatError{Reason: "missing array value"}
			}
			child, err := ParseJSON(segment)
			if err != nil {
				return nil, err
			}
			out.PushValue(child)
		}
		return out, nil
	default:
		return parseScalar(data)
	}
}

// IsValidJSON reports whether data parses in the JSON-like dialect.
func IsValidJSON(data string) bool {
	_, err := ParseJSON(data)
	return err == nil
}

// EncodeJSON serializes v through mapping M and prints the JSON-like
// dialect.
func EncodeJSON[M Mapping[T], T any](v T) (string, error) {
	var m M
	out := NewValue()
	m.Serialize(v, out)
	return out.ToJSON()
}

// DecodeJSON parses the JSON-like dialect and reconstructs a T through
// mapping M.
func DecodeJSON[M Mapping[T], T any](data string) (T, error) {
	var m M
	val, err := ParseJSON(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.Deserialize(val)
}
