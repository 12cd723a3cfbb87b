package serial

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type BufferSuite struct {
	suite.Suite
	buf *Buffer
}

func TestBufferSuite(t *testing.T) { suite.Run(t, new(BufferSuite)) }

func (s *BufferSuite) SetupTest() { s.buf = NewBuffer() }

func (s *BufferSuite) TestScalarLayout() {
	s.buf.SerializeUint(0xAA, 1)
	s.buf.SerializeUint(0xBBCC, 2)
	s.buf.SerializeUint(0xDDEEFF00, 4)
	s.buf.SerializeInt(-2, 2)
	s.buf.SerializeBool(true)
	s.buf.SerializeBool(false)

	expected := []byte{
		0xAA,       // u8
		0xBB, 0xCC, // u16, big endian
		0xDD, 0xEE, 0xFF, 0x00, // u32
		0xFF, 0xFE, // -2 as i16
		0xFF, // true
		0x00, // false
	}
	s.Assert().Equal(expected, s.buf.Bytes())
}

func (s *BufferSuite) TestSignExtension() {
	for _, width := range []int{1, 2, 4, 8} {
		s.buf.SerializeInt(-7, width)
		got, err := s.buf.DeserializeInt(width)
		s.Require().NoError(err)
		s.Assert().EqualValues(-7, got, "width %d", width)
	}
	s.Assert().Zero(s.buf.Len())
}

func (s *BufferSuite) TestFloatRoundTrip() {
	s.buf.SerializeFloat(1.5, 4)
	s.buf.SerializeFloat(-2.25, 8)

	f, err := s.buf.DeserializeFloat(4)
	s.Require().NoError(err)
	s.Assert().Equal(1.5, f)

	f, err = s.buf.DeserializeFloat(8)
	s.Require().NoError(err)
	s.Assert().Equal(-2.25, f)
}

func (s *BufferSuite) TestBoolRejectsOtherBytes() {
	b := BufferFrom([]byte{0x7F})
	_, err := b.DeserializeBool()
	s.Require().Error(err)
	s.Assert().ErrorIs(err, ErrNoMatch)
}

func (s *BufferSuite) TestStrings() {
	s.buf.SerializeString("hi")
	s.Assert().Equal([]byte{0x00, 0x00, 0x00, 0x02, 'h', 'i'}, s.buf.Bytes())
	got, err := s.buf.DeserializeString()
	s.Require().NoError(err)
	s.Assert().Equal("hi", got)
}

func (s *BufferSuite) TestSizedStrings() {
	s.buf.SerializeStringSized("abc", SizeU8)
	s.Assert().Equal([]byte{0x03, 'a', 'b', 'c'}, s.buf.Bytes())

	got, err := s.buf.DeserializeStringSized(SizeU8)
	s.Require().NoError(err)
	s.Assert().Equal("abc", got)

	s.Assert().Panics(func() {
		s.buf.SerializeStringSized(string(make([]byte, 256)), SizeU8)
	})
}

func (s *BufferSuite) TestStringExact() {
	b := BufferFrom([]byte{'o', 'k'})
	got, err := b.DeserializeStringExact(2)
	s.Require().NoError(err)
	s.Assert().Equal("ok", got)

	bad := BufferFrom([]byte{0xFF, 0xFE})
	_, err = bad.DeserializeStringExact(2)
	s.Assert().ErrorIs(err, ErrInvalidUTF8)
}

func (s *BufferSuite) TestBytesSized() {
	s.buf.SerializeBytesSized([]byte{9, 8}, SizeU16)
	s.Assert().Equal([]byte{0x00, 0x02, 9, 8}, s.buf.Bytes())

	got, err := s.buf.DeserializeBytesSized(SizeU16)
	s.Require().NoError(err)
	s.Assert().Equal([]byte{9, 8}, got)
}

func (s *BufferSuite) TestShortInputIsEOF() {
	b := BufferFrom([]byte{0x01})
	_, err := b.DeserializeUint(4)
	s.Assert().ErrorIs(err, ErrUnexpectedEOF)
}

func (s *BufferSuite) TestKeyedEntryLayout() {
	s.buf.SerializeEntry("id", func(c Serializer) { c.SerializeUint(0xBEEF, 2) })
	s.Assert().Equal([]byte{0x02, 'i', 'd', 0xBE, 0xEF}, s.buf.Bytes())
}

func (s *BufferSuite) TestKeyedOutOfOrderDecode() {
	s.buf.SerializeEntry("name", func(c Serializer) { c.SerializeString("Ada") })
	s.buf.SerializeEntry("age", func(c Serializer) { c.SerializeUint(30, 1) })

	var age uint64
	err := s.buf.DeserializeEntry("age", func(c Serializer) error {
		var err error
		age, err = c.DeserializeUint(1)
		return err
	})
	s.Require().NoError(err)
	s.Assert().EqualValues(30, age)

	var name string
	err = s.buf.DeserializeEntry("name", func(c Serializer) error {
		var err error
		name, err = c.DeserializeString()
		return err
	})
	s.Require().NoError(err)
	s.Assert().Equal("Ada", name)
	s.Assert().Zero(s.buf.Len())
}

func (s *BufferSuite) TestMissingKey() {
	s.buf.SerializeEntry("present", func(c Serializer) { c.SerializeBool(true) })

	err := s.buf.DeserializeEntry("nope", func(Serializer) error { return nil })
	s.Require().Error(err)
	s.Assert().True(IsMissingField(err))
	s.Assert().Equal([]string{"nope"}, FieldPath(err))
}

func (s *BufferSuite) TestNestedFailurePath() {
	s.buf.SerializeEntry("user", func(c Serializer) {
		c.SerializeEntry("age", func(cc Serializer) { cc.SerializeUint(30, 1) })
	})

	err := s.buf.DeserializeEntry("user", func(c Serializer) error {
		return c.DeserializeEntry("height", func(Serializer) error { return nil })
	})
	s.Require().Error(err)
	s.Assert().Equal([]string{"user", "height"}, FieldPath(err))
	s.Assert().False(IsMissingField(err))
}

func (s *BufferSuite) TestKeyContractViolationsPanic() {
	s.Assert().Panics(func() {
		s.buf.SerializeEntry("", func(Serializer) {})
	})
	s.Assert().Panics(func() {
		s.buf.SerializeUint(0, 3)
	})
	s.Assert().Panics(func() {
		s.buf.SerializeFloat(0, 2)
	})
}

func (s *BufferSuite) TestEncodeDecodeHelpers() {
	data := EncodeBinary[Num[uint32]](uint32(7))
	s.Assert().Equal([]byte{0x00, 0x00, 0x00, 0x07}, data)

	got, err := DecodeBinary[Num[uint32]](data)
	s.Require().NoError(err)
	s.Assert().EqualValues(7, got)
}
