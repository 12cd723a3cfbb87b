package serial

import (
	"fmt"
	"strings"
)

// ToMList renders the value in the multi-list dialect: one bracketed
// dotted-path header per leaf entry, followed by that entry's values one
// per line with no `name =` qualifier. Line order under a header is
// significant.
func (v *Value) ToMList() (string, error) {
	switch v.kind {
	case KindEmpty:
		return "", nil
	case KindTable:
		var sb strings.Builder
		for _, sec := range flattenTable(v.table) {
			for _, key := range sec.keys {
				header := strings.Join(append(append([]string{}, sec.path...), key), ".")
				lines, err := mlistLines(sec.values[key])
				if err != nil {
					return "", InField(key, err)
				}
				fmt.Fprintf(&sb, "[%s]\n%s", header, lines)
			}
			sb.WriteByte('\n')
		}
		return sb.String(), nil
	default:
		return mlistLines(v)
	}
}

// mlistLines renders a scalar as one line, an array as one line per
// element.
func mlistLines(v *Value) (string, error) {
	if v.kind == KindArray {
		if arrayContainsTable(v.arr) {
			return "", &FormatError{Reason: "array may not contain a table"}
		}
		var sb strings.Builder
		for _, elem := range v.arr {
			lines, err := mlistLines(elem)
			if err != nil {
				return "", err
			}
			sb.WriteString(lines)
		}
		return sb.String(), nil
	}
	if v.kind == KindTable {
		return "", &FormatError{Reason: "table in value position"}
	}
	return printScalar(v) + "\n", nil
}

// ParseMList reconstructs a value from the multi-list dialect. Values
// accumulate line by line and flush as an array under the current header
// path when the next header (or the end of input) arrives. Values before
// any header become unnamed root values.
func ParseMList(data string) (*Value, error) {
	out := NewValue()
	sc := newScanner(data)
	var path []string
	var pending []*Value

	flush := func() {
		if len(pending) == 0 {
			return
		}
		if len(path) == 0 {
			for _, v := range pending {
				out.PushValue(v)
			}
		} else {
			out.PushEntryPath(path, ArrayValue(pending...))
		}
		pending = nil
	}

	for {
		start, ok := sc.firstSymbol()
		if !ok {
			break
		}
		if start == '[' {
			flush()
			next, err := sc.readSectionPath()
			if err != nil {
				return nil, err
			}
			path = next
			continue
		}

		line := strings.TrimSpace(string(start) + sc.restOfLine())
		val, err := parseScalar(line)
		if err != nil {
			if len(path) > 0 {
				err = InField(strings.Join(path, "."), err)
			}
			return nil, err
		}
		pending = append(pending, val)
	}
	flush()
	return out, nil
}

// IsValidMList reports whether data parses in the multi-list dialect.
func IsValidMList(data string) bool {
	_, err := ParseMList(data)
	return err == nil
}

// EncodeMList serializes v through mapping M and prints the multi-list
// dialect.
func EncodeMList[M Mapping[T], T any](v T) (string, error) {
	var m M
	out := NewValue()
	m.Serialize(v, out)
	return out.ToMList()
}

// DecodeMList parses the multi-list dialect and reconstructs a T through
// mapping M.
func DecodeMList[M Mapping[T], T any](data string) (T, error) {
	var m M
	val, err := ParseMList(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.Deserialize(val)
}
