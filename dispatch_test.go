package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name  string
	Age   uint8
	Admin bool
}

// personKeyed is the readable profile: every field named, order
// irrelevant on the wire.
type personKeyed struct{}

func (personKeyed) Serialize(p person, s Serializer) {
	SerializeKey[Str](s, "name", p.Name)
	SerializeKey[Num[uint8]](s, "age", p.Age)
	SerializeKey[Bool](s, "admin", p.Admin)
}

func (personKeyed) Deserialize(s Serializer) (person, error) {
	var p person
	var err error
	if p.Name, err = DeserializeKey[Str, string](s, "name"); err != nil {
		return person{}, err
	}
	if p.Age, err = DeserializeKey[Num[uint8], uint8](s, "age"); err != nil {
		return person{}, err
	}
	if p.Admin, err = DeserializeKeyOr[Bool](s, "admin", false); err != nil {
		return person{}, err
	}
	return p, nil
}

// personCompact is the dense profile: positional, no keys on the wire.
type personCompact struct{}

func (personCompact) Serialize(p person, s Serializer) {
	Serialize[Str](s, p.Name)
	Serialize[Num[uint8]](s, p.Age)
	Serialize[Bool](s, p.Admin)
}

func (personCompact) Deserialize(s Serializer) (person, error) {
	var p person
	var err error
	if p.Name, err = Deserialize[Str, string](s); err != nil {
		return person{}, err
	}
	if p.Age, err = Deserialize[Num[uint8], uint8](s); err != nil {
		return person{}, err
	}
	if p.Admin, err = Deserialize[Bool, bool](s); err != nil {
		return person{}, err
	}
	return p, nil
}

var (
	_ Mapping[person] = personKeyed{}
	_ Mapping[person] = personCompact{}
)

func TestProfileRoundTrips(t *testing.T) {
	ada := person{Name: "Ada", Age: 30, Admin: true}

	t.Run("KeyedBinary", func(t *testing.T) {
		got, err := DecodeBinary[personKeyed](EncodeBinary[personKeyed](ada))
		require.NoError(t, err)
		assert.Equal(t, ada, got)
	})

	t.Run("CompactBinary", func(t *testing.T) {
		data := EncodeBinary[personCompact](ada)
		// 4-byte length prefix + "Ada", age, bool.
		assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x03, 'A', 'd', 'a', 30, 0xFF}, data)

		got, err := DecodeBinary[personCompact](data)
		require.NoError(t, err)
		assert.Equal(t, ada, got)
	})

	t.Run("ProfilesDiffer", func(t *testing.T) {
		assert.NotEqual(t, EncodeBinary[personKeyed](ada), EncodeBinary[personCompact](ada))
	})

	t.Run("KeyedValueTree", func(t *testing.T) {
		v := NewValue()
		var m personKeyed
		m.Serialize(ada, v)
		require.Equal(t, KindTable, v.Kind())

		got, err := m.Deserialize(v)
		require.NoError(t, err)
		assert.Equal(t, ada, got)
	})
}

func TestKeyedDecodeIgnoresWriteOrder(t *testing.T) {
	// The compact decoder reads fields in its own order; the keyed one
	// must locate them regardless of where they were written. Write the
	// keys reversed by hand and decode through the keyed profile.
	b := NewBuffer()
	SerializeKey[Bool](b, "admin", true)
	SerializeKey[Num[uint8]](b, "age", uint8(30))
	SerializeKey[Str](b, "name", "Ada")

	var m personKeyed
	got, err := m.Deserialize(b)
	require.NoError(t, err)
	assert.Equal(t, person{Name: "Ada", Age: 30, Admin: true}, got)
}

func TestDeserializeKeyOr(t *testing.T) {
	t.Run("MissingKeyYieldsFallback", func(t *testing.T) {
		v := NewValue()
		SerializeKey[Num[uint8]](v, "age", uint8(30))

		got, err := DeserializeKeyOr[Num[uint8]](v, "score", uint8(7))
		require.NoError(t, err)
		assert.EqualValues(t, 7, got)
	})

	t.Run("MalformedValuePropagates", func(t *testing.T) {
		v := NewValue()
		SerializeKey[Str](v, "age", "thirty")

		_, err := DeserializeKeyOr[Num[uint8]](v, "age", uint8(0))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("MissingInnerFieldPropagates", func(t *testing.T) {
		// The outer key is present; a field missing inside its value is
		// a decode failure, never the fallback.
		v := NewValue()
		v.SerializeEntry("outer", func(c Serializer) {
			SerializeKey[Num[uint8]](c, "age", uint8(30))
		})

		_, err := DeserializeKeyOr[personKeyed](v, "outer", person{})
		require.Error(t, err)
		assert.Equal(t, []string{"outer", "name"}, FieldPath(err))
	})

	t.Run("LazyFallback", func(t *testing.T) {
		v := NewValue()
		SerializeKey[Num[uint8]](v, "age", uint8(30))

		called := false
		got, err := DeserializeKeyOrElse[Num[uint8]](v, "score", func() uint8 {
			called = true
			return 9
		})
		require.NoError(t, err)
		assert.True(t, called)
		assert.EqualValues(t, 9, got)

		got, err = DeserializeKeyOrElse[Num[uint8]](v, "age", func() uint8 { return 9 })
		require.NoError(t, err)
		assert.EqualValues(t, 30, got)
	})
}
