package serial

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// scanner is a rune cursor over dialect input.
type scanner struct {
	runes []rune
	pos   int
}

func newScanner(data string) *scanner {
	return &scanner{runes: []rune(data)}
}

func (s *scanner) next() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	r := s.runes[s.pos]
	s.pos++
	return r, true
}

// firstSymbol consumes whitespace and returns the next significant rune.
func (s *scanner) firstSymbol() (rune, bool) {
	for {
		r, ok := s.next()
		if !ok {
			return 0, false
		}
		switch r {
		case ' ', '\t', '\r', '\n':
		default:
			return r, true
		}
	}
}

// restOfLine consumes up to and including the next newline and returns
// the consumed text without the newline. Callers trim; trimming here
// would eat whitespace that belongs inside a quoted string.
func (s *scanner) restOfLine() string {
	start := s.pos
	for {
		r, ok := s.next()
		if !ok || r == '\n' {
			break
		}
	}
	end := s.pos
	if end > start && s.runes[end-1] == '\n' {
		end--
	}
	return string(s.runes[start:end])
}

// readSectionPath reads a `[dotted.path]` section header, the opening
// bracket already consumed. Input ending before the closing bracket is
// UnexpectedEOF; an empty path segment is malformed.
func (s *scanner) readSectionPath() ([]string, error) {
	var path []string
	var segment []rune
	for {
		c, ok := s.next()
		if !ok {
			return nil, InField("section header", ErrUnexpectedEOF)
		}
		if c == ']' {
			break
		}
		if c == '.' {
			if len(segment) == 0 {
				return nil, &FormatError{Reason: "section header has an empty path segment"}
			}
			path = append(path, string(segment))
			segment = segment[:0]
			continue
		}
		segment = append(segment, c)
	}
	if len(segment) == 0 {
		return nil, &FormatError{Reason: "section header is empty or terminates incorrectly"}
	}
	return append(path, string(segment)), nil
}

// parseScalar classifies a trimmed token by trial parse in priority
// order: quoted string, boolean, integer, float. Total failure is an
// InvalidType; an empty token is malformed.
func parseScalar(token string) (*Value, error) {
	if token == "" {
		return nil, &FormatError{Reason: "empty value"}
	}
	if strings.HasPrefix(token, `"`) {
		if len(token) < 2 || !strings.HasSuffix(token, `"`) {
			return nil, &FormatError{Reason: "string is missing its terminating quote"}
		}
		return StringValue(token[1 : len(token)-1]), nil
	}
	if strings.HasSuffix(token, `"`) {
		return nil, &FormatError{Reason: "string is missing its opening quote"}
	}
	switch token {
	case "true":
		return BoolValue(true), nil
	case "false":
		return BoolValue(false), nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return IntValue(i), nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return FloatValue(f), nil
	}
	return nil, &TypeError{Expected: "string, boolean or number", Actual: token}
}

// printScalar renders a scalar in the form parseScalar reverses. Floats
// use the shortest representation that reparses exactly; one that prints
// without a fraction reclassifies as Integer, which numeric decoding
// accepts for float targets.
func printScalar(v *Value) string {
	switch v.kind {
	case KindString:
		return `"` + v.str + `"`
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	}
	panic(fmt.Sprintf("serial: %v is not a scalar", v.kind))
}

// section is one flattened group of leaf entries sharing an owning path.
type section struct {
	path   []string
	keys   []string
	values map[string]*Value
}

// flattenTable walks nested tables with an explicit worklist and groups
// every leaf entry under its owning dotted path. Sections come back
// root-first, then ordered by path depth and name; keys within a section
// are sorted. Empty subtables produce no section.
func flattenTable(root map[string]*Value) []section {
	type frame struct {
		path  []string
		table map[string]*Value
	}
	grouped := make(map[string]*section)
	work := []frame{{path: nil, table: root}}
	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]
		for key, val := range f.table {
			if val.kind == KindTable {
				sub := append(append([]string{}, f.path...), key)
				work = append(work, frame{path: sub, table: val.table})
				continue
			}
			id := strings.Join(f.path, ".")
			sec, ok := grouped[id]
			if !ok {
				sec = &section{path: f.path, values: make(map[string]*Value)}
				grouped[id] = sec
			}
			sec.values[key] = val
		}
	}

	out := make([]section, 0, len(grouped))
	for _, sec := range grouped {
		for key := range sec.values {
			sec.keys = append(sec.keys, key)
		}
		sort.Strings(sec.keys)
		out = append(out, *sec)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].path) != len(out[j].path) {
			return len(out[i].path) < len(out[j].path)
		}
		return strings.Join(out[i].path, ".") < strings.Join(out[j].path, ".")
	})
	return out
}

// arrayContainsTable reports whether any element, at any nesting depth,
// is a table. Dotted-path flattening cannot address array elements, so
// the line dialects refuse to print such arrays.
func arrayContainsTable(arr []*Value) bool {
	work := append([]*Value(nil), arr...)
	for len(work) > 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]
		switch v.kind {
		case KindTable:
			return true
		case KindArray:
			work = append(work, v.arr...)
		}
	}
	return false
}

// splitComma splits an array body on commas, toggling an in-quotes flag
// per character so commas inside quoted strings do not separate.
func splitComma(data string) []string {
	var out []string
	inString := false
	var buf []rune
	for _, c := range data {
		if c == '"' {
			inString = !inString
		}
		if c == ',' && !inString {
			out = append(out, strings.TrimSpace(string(buf)))
			buf = buf[:0]
			continue
		}
		buf = append(buf, c)
	}
	if item := strings.TrimSpace(string(buf)); item != "" {
		out = append(out, item)
	}
	return out
}

// splitTopLevel splits the body of a bracketed composite on commas at
// depth one, tracking bracket depth and quoted strings. The outermost
// bracket pair is consumed; nested composites stay intact inside their
// segment.
func splitTopLevel(data string) ([]string, error) {
	data = strings.TrimSpace(data)
	var out []string
	depth := 0
	inString := false
	var buf []rune
	for _, c := range data {
		if inString {
			if c == '"' {
				inString = false
			}
			buf = append(buf, c)
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
			if depth == 1 {
				continue
			}
		case '}', ']':
			if depth == 0 {
				return nil, &FormatError{Reason: fmt.Sprintf("unbalanced brackets: unexpected %q", c)}
			}
			depth--
			if depth == 0 {
				continue
			}
		case ',':
			if depth == 1 {
				out = append(out, strings.TrimSpace(string(buf)))
				buf = buf[:0]
				continue
			}
		}
		buf = append(buf, c)
	}
	if inString {
		return nil, &FormatError{Reason: "unterminated string"}
	}
	if depth != 0 {
		return nil, ErrUnexpectedEOF
	}
	if item := strings.TrimSpace(string(buf)); item != "" {
		out = append(out, item)
	}
	return out, nil
}
