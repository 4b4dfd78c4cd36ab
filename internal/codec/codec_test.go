package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestU16RoundTrip(t *testing.T) {
	b := EncodeU16(4091)
	got, err := DecodeU16(b)
	require.NoError(t, err)
	assert.Equal(t, uint16(4091), got)
}

func TestI32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2147483647, -2147483648} {
		b := EncodeI32(v)
		got, err := DecodeI32(b)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestF32RoundTrip(t *testing.T) {
	for _, v := range []float32{0, 1.5, -3.25, 3.14159} {
		b := EncodeF32(v)
		got, err := DecodeF32(b)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	b := EncodeString("hello")
	s, n, err := DecodeString(b)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, len(b), n)
}

func TestEmptyString(t *testing.T) {
	b := EncodeString("")
	s, n, err := DecodeString(b)
	require.NoError(t, err)
	assert.Equal(t, "", s)
	assert.Equal(t, 1, n)
}

func TestDecodeShortBufferFails(t *testing.T) {
	_, err := DecodeI32([]byte{1, 2})
	assert.Error(t, err)

	_, err = DecodeU16(nil)
	assert.Error(t, err)

	_, _, err = DecodeString([]byte{5, 'a', 'b'})
	assert.Error(t, err)
}
