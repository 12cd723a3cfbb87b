package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumWidths(t *testing.T) {
	// Each concrete type carries exactly its own width on the wire.
	assert.Len(t, EncodeBinary[Num[uint8]](uint8(1)), 1)
	assert.Len(t, EncodeBinary[Num[int16]](int16(-1)), 2)
	assert.Len(t, EncodeBinary[Num[uint32]](uint32(1)), 4)
	assert.Len(t, EncodeBinary[Num[int64]](int64(1)), 8)
	assert.Len(t, EncodeBinary[Num[int]](1), 8)
	assert.Len(t, EncodeBinary[Num[float32]](float32(1)), 4)
	assert.Len(t, EncodeBinary[Num[float64]](1.0), 8)

	got, err := DecodeBinary[Num[int16]](EncodeBinary[Num[int16]](int16(-300)))
	require.NoError(t, err)
	assert.EqualValues(t, -300, got)
}

func TestStrAs(t *testing.T) {
	type hostname string

	data := EncodeBinary[StrAs[hostname]](hostname("example.test"))
	got, err := DecodeBinary[StrAs[hostname]](data)
	require.NoError(t, err)
	assert.Equal(t, hostname("example.test"), got)
}

func TestBytesMapping(t *testing.T) {
	in := []byte{0xDE, 0xAD}
	data := EncodeBinary[Bytes](in)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x02, 0xDE, 0xAD}, data)

	got, err := DecodeBinary[Bytes](data)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
