package serial

// Kind identifies the variant a Value currently holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBool
	KindTable
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindTable:
		return "table"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// Value is the intermediate staging area shared by all text dialects: a
// recursive sum of Empty, scalar variants, a Table (unique names, order
// irrelevant) and an Array (order significant, duplicates allowed).
//
// A fresh Value is Empty and auto-promotes as data is pushed into it: the
// first unnamed push makes it that value, a second promotes it to an
// Array preserving insertion order, and a named push makes it a
// single-entry Table. Pushing an unnamed value onto a Table (or a named
// value onto a scalar) is a contract violation and panics: it indicates a
// bug in a type's mapping, not bad input.
type Value struct {
	kind  Kind
	str   string
	num   int64
	float float64
	flag  bool
	table map[string]*Value
	arr   []*Value
}

// NewValue returns an Empty value.
func NewValue() *Value { return &Value{} }

// StringValue returns a string scalar.
func StringValue(s string) *Value { return &Value{kind: KindString, str: s} }

// IntValue returns an integer scalar.
func IntValue(i int64) *Value { return &Value{kind: KindInteger, num: i} }

// FloatValue returns a float scalar.
func FloatValue(f float64) *Value { return &Value{kind: KindFloat, float: f} }

// BoolValue returns a boolean scalar.
func BoolValue(b bool) *Value { return &Value{kind: KindBool, flag: b} }

// TableValue returns a table over entries. The map is adopted, not
// copied; a nil map yields an empty table.
func TableValue(entries map[string]*Value) *Value {
	if entries == nil {
		entries = make(map[string]*Value)
	}
	return &Value{kind: KindTable, table: entries}
}

// ArrayValue returns an array over elems, adopted in order.
func ArrayValue(elems ...*Value) *Value {
	return &Value{kind: KindArray, arr: elems}
}

// Kind reports the variant v currently holds.
func (v *Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v holds no data: Empty itself, or a table or
// array with nothing left in it.
func (v *Value) IsEmpty() bool {
	switch v.kind {
	case KindEmpty:
		return true
	case KindTable:
		return len(v.table) == 0
	case KindArray:
		return len(v.arr) == 0
	}
	return false
}

// PushValue appends an unnamed value, applying the promotion rules.
func (v *Value) PushValue(other *Value) {
	switch v.kind {
	case KindEmpty:
		*v = *other
	case KindArray:
		v.arr = append(v.arr, other)
	case KindTable:
		panic("serial: pushed an unnamed value onto a table")
	default:
		first := *v
		*v = Value{kind: KindArray, arr: []*Value{&first, other}}
	}
}

// PushEntry appends a named entry, creating a table if v is Empty.
func (v *Value) PushEntry(key string, other *Value) {
	switch v.kind {
	case KindEmpty:
		*v = Value{kind: KindTable, table: map[string]*Value{key: other}}
	case KindTable:
		v.table[key] = other
	default:
		panic("serial: pushed a named value onto a non-table")
	}
}

// PushEntryPath is PushEntry through a dotted path: intermediate tables
// are created or descended as needed and the final segment names the
// entry. The path must not be empty.
func (v *Value) PushEntryPath(path []string, other *Value) {
	if len(path) == 0 {
		panic("serial: empty entry path")
	}
	cur := v
	for _, segment := range path[:len(path)-1] {
		switch cur.kind {
		case KindEmpty:
			*cur = Value{kind: KindTable, table: make(map[string]*Value)}
		case KindTable:
		default:
			panic("serial: pushed a named value onto a non-table")
		}
		next, ok := cur.table[segment]
		if !ok {
			next = TableValue(nil)
			cur.table[segment] = next
		}
		cur = next
	}
	cur.PushEntry(path[len(path)-1], other)
}

// PullValue removes and returns the next unnamed value: the front element
// of an array, or the whole value (leaving Empty behind) for a scalar.
// Exhausted arrays and Empty report UnexpectedEOF; a table cannot be read
// positionally and reports InvalidType.
func (v *Value) PullValue() (*Value, error) {
	switch v.kind {
	case KindArray:
		if len(v.arr) == 0 {
			return nil, ErrUnexpectedEOF
		}
		out := v.arr[0]
		v.arr = v.arr[1:]
		return out, nil
	case KindEmpty:
		return nil, ErrUnexpectedEOF
	case KindTable:
		return nil, &TypeError{Expected: "scalar or array", Actual: "table"}
	default:
		out := *v
		*v = Value{}
		return &out, nil
	}
}

// PullEntry removes and returns the named table entry. An absent entry —
// including any entry of an Empty value — reports MissingField; a scalar
// or array reports InvalidType.
func (v *Value) PullEntry(key string) (*Value, error) {
	switch v.kind {
	case KindTable:
		out, ok := v.table[key]
		if !ok {
			return nil, ErrMissingField
		}
		delete(v.table, key)
		return out, nil
	case KindEmpty:
		return nil, ErrMissingField
	default:
		return nil, &TypeError{Expected: "table", Actual: v.kind.String()}
	}
}

// --- primitive codec contract ---

func (v *Value) SerializeBool(b bool) { v.PushValue(BoolValue(b)) }

func (v *Value) DeserializeBool() (bool, error) {
	pulled, err := v.PullValue()
	if err != nil {
		return false, err
	}
	if pulled.kind != KindBool {
		return false, &TypeError{Expected: "boolean", Actual: pulled.kind.String()}
	}
	return pulled.flag, nil
}

func (v *Value) SerializeUint(u uint64, width int) { v.PushValue(IntValue(int64(u))) }

func (v *Value) DeserializeUint(width int) (uint64, error) {
	pulled, err := v.PullValue()
	if err != nil {
		return 0, err
	}
	switch pulled.kind {
	case KindInteger:
		if pulled.num < 0 {
			return 0, &TypeError{Expected: "unsigned integer", Actual: "signed integer"}
		}
		return uint64(pulled.num), nil
	case KindFloat:
		return 0, &TypeError{Expected: "integer", Actual: "float"}
	default:
		return 0, &TypeError{Expected: "number", Actual: pulled.kind.String()}
	}
}

func (v *Value) SerializeInt(i int64, width int) { v.PushValue(IntValue(i)) }

func (v *Value) DeserializeInt(width int) (int64, error) {
	pulled, err := v.PullValue()
	if err != nil {
		return 0, err
	}
	switch pulled.kind {
	case KindInteger:
		return pulled.num, nil
	case KindFloat:
		return 0, &TypeError{Expected: "integer", Actual: "float"}
	default:
		return 0, &TypeError{Expected: "number", Actual: pulled.kind.String()}
	}
}

func (v *Value) SerializeFloat(f float64, width int) { v.PushValue(FloatValue(f)) }

func (v *Value) DeserializeFloat(width int) (float64, error) {
	pulled, err := v.PullValue()
	if err != nil {
		return 0, err
	}
	switch pulled.kind {
	case KindFloat:
		return pulled.float, nil
	case KindInteger:
		// Integers widen to float; a float printed without a fraction
		// reparses as one.
		return float64(pulled.num), nil
	default:
		return 0, &TypeError{Expected: "number", Actual: pulled.kind.String()}
	}
}

func (v *Value) SerializeString(s string) { v.PushValue(StringValue(s)) }

func (v *Value) DeserializeString() (string, error) {
	pulled, err := v.PullValue()
	if err != nil {
		return "", err
	}
	if pulled.kind != KindString {
		return "", &TypeError{Expected: "string", Actual: pulled.kind.String()}
	}
	return pulled.str, nil
}

// Size prefixes are a binary concern; the value tree stores text.
func (v *Value) SerializeStringSized(s string, size SizeType) { v.SerializeString(s) }

func (v *Value) DeserializeStringSized(size SizeType) (string, error) {
	return v.DeserializeString()
}

func (v *Value) DeserializeStringExact(length int) (string, error) {
	return v.DeserializeString()
}

func (v *Value) SerializeBytes(b []byte) {
	elems := make([]*Value, len(b))
	for i, x := range b {
		elems[i] = IntValue(int64(x))
	}
	v.PushValue(ArrayValue(elems...))
}

// DeserializeBytes reads v itself as the byte array, consuming it whole
// and leaving Empty behind. SerializeBytes onto a fresh value makes the
// value the array, so there is no element to pull first.
func (v *Value) DeserializeBytes() ([]byte, error) {
	if v.kind != KindArray {
		return nil, &TypeError{Expected: "array", Actual: v.kind.String()}
	}
	elems := v.arr
	*v = Value{}
	out := make([]byte, 0, len(elems))
	for _, elem := range elems {
		if elem.kind != KindInteger || elem.num < 0 || elem.num > 255 {
			return nil, &TypeError{Expected: "byte", Actual: elem.kind.String()}
		}
		out = append(out, byte(elem.num))
	}
	return out, nil
}

func (v *Value) SerializeBytesSized(b []byte, size SizeType) { v.SerializeBytes(b) }

func (v *Value) DeserializeBytesSized(size SizeType) ([]byte, error) {
	return v.DeserializeBytes()
}

// --- composite contract ---

// SerializeValue stages a nested unnamed value in a fresh child and
// pushes the result. A child left empty is not pushed at all, so absent
// optionals write nothing.
func (v *Value) SerializeValue(fill func(Serializer)) {
	child := NewValue()
	fill(child)
	if !child.IsEmpty() {
		v.PushValue(child)
	}
}

// SerializeEntry stages a nested named value. As with SerializeValue, an
// empty child produces no entry.
func (v *Value) SerializeEntry(key string, fill func(Serializer)) {
	child := NewValue()
	fill(child)
	if !child.IsEmpty() {
		v.PushEntry(key, child)
	}
}

// DeserializeValue pulls the next unnamed value, lets read consume from
// it, and pushes back whatever read left behind so later reads (or
// defaulted fields) still see it.
func (v *Value) DeserializeValue(read func(Serializer) error) error {
	pulled, err := v.PullValue()
	if err != nil {
		return err
	}
	result := read(pulled)
	if !pulled.IsEmpty() {
		v.PushValue(pulled)
	}
	return result
}

// DeserializeEntry pulls the named entry, lets read consume from it, and
// restores the unconsumed remainder under the same key. Failures inside
// read come back nested under the key; an absent key is MissingField
// under the key.
func (v *Value) DeserializeEntry(key string, read func(Serializer) error) error {
	entry, err := v.PullEntry(key)
	if err != nil {
		return InField(key, err)
	}
	result := read(entry)
	if !entry.IsEmpty() {
		v.PushEntry(key, entry)
	}
	if result != nil {
		return InField(key, Nest(result))
	}
	return nil
}

// TryGetKey reports an arbitrary remaining table entry name.
func (v *Value) TryGetKey() (string, bool) {
	if v.kind != KindTable {
		return "", false
	}
	for key := range v.table {
		return key, true
	}
	return "", false
}
