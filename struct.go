package serial

import (
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// planCache holds the serialization plan per struct type. Building a plan
// walks struct tags via reflection; caching in a concurrent map keeps
// repeat encodes cheap and safe to share across goroutines.
var planCache = xsync.NewMap[reflect.Type, []fieldPlan]()

type fieldPlan struct {
	name     string
	index    int
	optional bool
}

// Auto is the natural mapping for plain structs: exported fields are
// written keyed by field name, overridable with a `serial:"name"` tag
// (`serial:"-"` skips the field). Supported field types are booleans,
// fixed-width and platform integers, floats, strings, []byte, nested
// structs, slices, string-keyed maps, and pointers to any of these.
// Pointer fields are optionals: nil writes nothing and an absent key
// decodes back to nil. Slice fields other than []byte carry no element
// count and decode until their input runs out, so in the flat binary
// layout such a field must be the struct's last written field. An
// unsupported field type is a mapping bug and panics when the plan is
// first built.
type Auto[T any] struct{}

func (Auto[T]) Serialize(v T, s Serializer) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Struct {
		panic(fmt.Sprintf("serial: Auto requires a struct, got %T", v))
	}
	writeStructFields(s, rv)
}

func (Auto[T]) Deserialize(s Serializer) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		panic(fmt.Sprintf("serial: Auto requires a struct, got %T", out))
	}
	if err := readStructFields(s, rv); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func structPlan(t reflect.Type) []fieldPlan {
	if plan, ok := planCache.Load(t); ok {
		return plan
	}
	return buildPlan(t, map[reflect.Type]bool{})
}

// buildPlan walks t's fields, validating each field type as it goes.
// visiting tracks the struct types on the current build path so
// self-referential types terminate.
func buildPlan(t reflect.Type, visiting map[reflect.Type]bool) []fieldPlan {
	visiting[t] = true
	plan := make([]fieldPlan, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("serial"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		checkFieldType(f.Type, visiting)
		plan = append(plan, fieldPlan{
			name:     name,
			index:    i,
			optional: f.Type.Kind() == reflect.Pointer,
		})
	}
	planCache.Store(t, plan)
	return plan
}

// checkFieldType rejects field types the engine cannot carry, at plan
// build time rather than mid-encode.
func checkFieldType(t reflect.Type, visiting map[reflect.Type]bool) {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			checkFieldType(t.Elem(), visiting)
		}
	case reflect.Pointer:
		checkFieldType(t.Elem(), visiting)
	case reflect.Struct:
		if visiting[t] {
			return
		}
		if _, ok := planCache.Load(t); !ok {
			buildPlan(t, visiting)
		}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			panic(fmt.Sprintf("serial: unsupported map key type %v", t.Key()))
		}
		checkFieldType(t.Elem(), visiting)
	default:
		panic(fmt.Sprintf("serial: unsupported field type %v", t))
	}
}

func writeStructFields(s Serializer, rv reflect.Value) {
	for _, f := range structPlan(rv.Type()) {
		fv := rv.Field(f.index)
		if f.optional && fv.IsNil() {
			continue
		}
		s.SerializeEntry(f.name, func(child Serializer) {
			writeReflected(child, fv)
		})
	}
}

func readStructFields(s Serializer, rv reflect.Value) error {
	for _, f := range structPlan(rv.Type()) {
		fv := rv.Field(f.index)
		err := s.DeserializeEntry(f.name, func(child Serializer) error {
			return readReflected(child, fv)
		})
		if err != nil {
			if f.optional && IsMissingField(err) {
				continue
			}
			return err
		}
	}
	return nil
}

func intWidth(k reflect.Kind) int {
	switch k {
	case reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32:
		return 4
	default:
		return 8
	}
}

func writeReflected(s Serializer, v reflect.Value) {
	switch v.Kind() {
	case reflect.Bool:
		s.SerializeBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s.SerializeInt(v.Int(), intWidth(v.Kind()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		s.SerializeUint(v.Uint(), intWidth(v.Kind()))
	case reflect.Float32:
		s.SerializeFloat(v.Float(), 4)
	case reflect.Float64:
		s.SerializeFloat(v.Float(), 8)
	case reflect.String:
		s.SerializeString(v.String())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			s.SerializeBytes(v.Bytes())
			return
		}
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			s.SerializeValue(func(child Serializer) {
				writeReflected(child, elem)
			})
		}
	case reflect.Struct:
		writeStructFields(s, v)
	case reflect.Pointer:
		if !v.IsNil() {
			writeReflected(s, v.Elem())
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			val := iter.Value()
			s.SerializeEntry(iter.Key().String(), func(child Serializer) {
				writeReflected(child, val)
			})
		}
	default:
		panic(fmt.Sprintf("serial: unsupported field type %v", v.Type()))
	}
}

func readReflected(s Serializer, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := s.DeserializeBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := s.DeserializeInt(intWidth(v.Kind()))
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := s.DeserializeUint(intWidth(v.Kind()))
		if err != nil {
			return err
		}
		v.SetUint(u)
	case reflect.Float32:
		f, err := s.DeserializeFloat(4)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Float64:
		f, err := s.DeserializeFloat(8)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.String:
		str, err := s.DeserializeString()
		if err != nil {
			return err
		}
		v.SetString(str)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.DeserializeBytes()
			if err != nil {
				return err
			}
			v.SetBytes(b)
			return nil
		}
		out := reflect.MakeSlice(v.Type(), 0, 0)
		for {
			elem := reflect.New(v.Type().Elem()).Elem()
			err := s.DeserializeValue(func(child Serializer) error {
				return readReflected(child, elem)
			})
			if err != nil {
				if IsUnexpectedEOF(err) {
					break
				}
				return err
			}
			out = reflect.Append(out, elem)
		}
		v.Set(out)
	case reflect.Struct:
		return readStructFields(s, v)
	case reflect.Pointer:
		elem := reflect.New(v.Type().Elem())
		if err := readReflected(s, elem.Elem()); err != nil {
			if IsUnexpectedEOF(err) {
				return nil
			}
			return err
		}
		v.Set(elem)
	case reflect.Map:
		out := reflect.MakeMap(v.Type())
		for {
			key, ok := s.TryGetKey()
			if !ok {
				break
			}
			elem := reflect.New(v.Type().Elem()).Elem()
			err := s.DeserializeEntry(key, func(child Serializer) error {
				return readReflected(child, elem)
			})
			if err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(key), elem)
		}
		v.Set(out)
	default:
		panic(fmt.Sprintf("serial: unsupported field type %v", v.Type()))
	}
	return nil
}
