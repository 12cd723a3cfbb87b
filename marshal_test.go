package serial

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type device struct {
	ID    uint16
	Label string
}

type deviceRegistry map[uint16]*device

// deviceRef serializes only the device's identifier and resolves it back
// through the registry on decode, so decoded values alias the caller's
// own instances instead of owning copies.
type deviceRef struct{}

func (deviceRef) Serialize(d *device, ctx deviceRegistry, s Serializer) {
	s.SerializeEntry("device", func(c Serializer) { c.SerializeUint(uint64(d.ID), 2) })
}

func (deviceRef) Deserialize(s Serializer, ctx deviceRegistry) (*device, error) {
	var d *device
	err := s.DeserializeEntry("device", func(c Serializer) error {
		id, err := c.DeserializeUint(2)
		if err != nil {
			return err
		}
		found, ok := ctx[uint16(id)]
		if !ok {
			return &NoMatchError{Actual: strconv.FormatUint(id, 10)}
		}
		d = found
		return nil
	})
	return d, err
}

var _ ContextMapping[*device, deviceRegistry] = deviceRef{}

func testRegistry() (deviceRegistry, *device) {
	d := &device{ID: 7, Label: "sensor"}
	return deviceRegistry{7: d}, d
}

func TestContextMappingBinary(t *testing.T) {
	reg, d := testRegistry()

	data := EncodeBinaryCtx[deviceRef](d, reg)
	assert.Equal(t, []byte{0x06, 'd', 'e', 'v', 'i', 'c', 'e', 0x00, 0x07}, data)

	got, err := DecodeBinaryCtx[deviceRef](data, reg)
	require.NoError(t, err)
	assert.Same(t, d, got)
}

func TestContextMappingUnknownReference(t *testing.T) {
	reg, d := testRegistry()
	data := EncodeBinaryCtx[deviceRef](d, reg)

	_, err := DecodeBinaryCtx[deviceRef](data, deviceRegistry{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Equal(t, []string{"device"}, FieldPath(err))
}

func TestContextMappingText(t *testing.T) {
	reg, d := testRegistry()

	t.Run("TOML", func(t *testing.T) {
		text, err := EncodeTOMLCtx[deviceRef](d, reg)
		require.NoError(t, err)
		assert.Equal(t, "device = 7\n\n", text)

		got, err := DecodeTOMLCtx[deviceRef](text, reg)
		require.NoError(t, err)
		assert.Same(t, d, got)
	})

	t.Run("JSON", func(t *testing.T) {
		text, err := EncodeJSONCtx[deviceRef](d, reg)
		require.NoError(t, err)

		got, err := DecodeJSONCtx[deviceRef](text, reg)
		require.NoError(t, err)
		assert.Same(t, d, got)
	})

	t.Run("MList", func(t *testing.T) {
		text, err := EncodeMListCtx[deviceRef](d, reg)
		require.NoError(t, err)

		got, err := DecodeMListCtx[deviceRef](text, reg)
		require.NoError(t, err)
		assert.Same(t, d, got)
	})
}

func TestContextDispatchHelpers(t *testing.T) {
	reg, d := testRegistry()

	t.Run("Unnamed", func(t *testing.T) {
		b := NewBuffer()
		SerializeCtx[deviceRef](b, d, reg)

		got, err := DeserializeCtx[deviceRef](b, reg)
		require.NoError(t, err)
		assert.Same(t, d, got)
	})

	t.Run("Keyed", func(t *testing.T) {
		v := NewValue()
		SerializeKeyCtx[deviceRef](v, "primary", d, reg)

		got, err := DeserializeKeyCtx[deviceRef](v, "primary", reg)
		require.NoError(t, err)
		assert.Same(t, d, got)
	})
}
