package serial

import (
	"fmt"
	"strings"
)

// ToTOML renders the value in the TOML-like dialect: `key = value` lines
// grouped under `[dotted.path]` section headers, nested tables flattened
// into their owning path. Arrays print inline and may not contain
// tables.
func (v *Value) ToTOML() (string, error) {
	switch v.kind {
	case KindEmpty:
		return "", nil
	case KindTable:
		var sb strings.Builder
		for _, sec := range flattenTable(v.table) {
			if len(sec.path) > 0 {
				fmt.Fprintf(&sb, "[%s]\n", strings.Join(sec.path, "."))
			}
			for _, key := range sec.keys {
				line, err := tomlInline(sec.values[key])
				if err != nil {
					return "", InField(key, err)
				}
				fmt.Fprintf(&sb, "%s = %s\n", key, line)
			}
			sb.WriteByte('\n')
		}
		return sb.String(), nil
	default:
		return tomlInline(v)
	}
}

// tomlInline renders a scalar or array in value position.
func tomlInline(v *Value) (string, error) {
	if v.kind == KindArray {
		if arrayContainsTable(v.arr) {
			return "", &FormatError{Reason: "array may not contain a table"}
		}
		parts := make([]string, len(v.arr))
		for i, elem := range v.arr {
			part, err := tomlInline(elem)
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	}
	if v.kind == KindTable {
		return "", &FormatError{Reason: "table in value position"}
	}
	return printScalar(v), nil
}

// ParseTOML reconstructs a value from the TOML-like dialect. Section
// headers reset the current dotted path; each `key = value` line lands
// under it. Input ending inside a section header is UnexpectedEOF; a key
// line without '=' is malformed.
func ParseTOML(data string) (*Value, error) {
	out := NewValue()
	sc := newScanner(data)
	var sectionPath []string

	for {
		start, ok := sc.firstSymbol()
		if !ok {
			break
		}
		if start == '[' {
			path, err := sc.readSectionPath()
			if err != nil {
				return nil, err
			}
			sectionPath = path
			continue
		}

		key := []rune{start}
		for {
			c, ok := sc.next()
			if !ok {
				return nil, InField(strings.TrimSpace(string(key)), ErrUnexpectedEOF)
			}
			if c == '=' {
				break
			}
			if c == '\n' {
				return nil, &FormatError{Reason: fmt.Sprintf("key %q has no '='", strings.TrimSpace(string(key)))}
			}
			key = append(key, c)
		}
		name := strings.TrimSpace(string(key))
		if name == "" {
			return nil, &FormatError{Reason: "empty key"}
		}

		raw := strings.TrimSpace(sc.restOfLine())
		val, err := parseTOMLValue(raw)
		if err != nil {
			return nil, InField(name, err)
		}
		out.PushEntryPath(append(append([]string{}, sectionPath...), name), val)
	}
	return out, nil
}

func parseTOMLValue(raw string) (*Value, error) {
	if !strings.HasPrefix(raw, "[") {
		return parseScalar(raw)
	}
	if !strings.HasSuffix(raw, "]") {
		return nil, &FormatError{Reason: "array is missing its closing bracket"}
	}
	var elems []*Value
	for _, item := range splitComma(raw[1 : len(raw)-1]) {
		elem, err := parseScalar(item)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return ArrayValue(elems...), nil
}

// IsValidTOML reports whether data parses in the TOML-like dialect.
func IsValidTOML(data string) bool {
	_, err := ParseTOML(data)
	return err == nil
}

// EncodeTOML serializes v through mapping M and prints the TOML-like
// dialect.
func EncodeTOML[M Mapping[T], T any](v T) (string, error) {
	var m M
	out := NewValue()
	m.Serialize(v, out)
	return out.ToTOML()
}

// DecodeTOML parses the TOML-like dialect and reconstructs a T through
// mapping M.
func DecodeTOML[M Mapping[T], T any](data string) (T, error) {
	var m M
	val, err := ParseTOML(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.Deserialize(val)
}
