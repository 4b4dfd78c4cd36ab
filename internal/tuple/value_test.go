package tuple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Value{
		StringValue("hello world"),
		StringValue(""),
		IntValue(-42),
		FloatValue(2.5),
	}
	for _, v := range cases {
		b, err := v.Encode()
		require.NoError(t, err)
		got, n, err := DecodeValue(v.Typ, b)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(b), n)
	}
}

func TestStringValueTooLong(t *testing.T) {
	long := make([]byte, 256)
	_, err := StringValue(string(long)).Encode()
	assert.Error(t, err)
}

func TestParseString(t *testing.T) {
	v, err := ParseString(INT, "17")
	require.NoError(t, err)
	assert.Equal(t, IntValue(17), v)

	v, err = ParseString(FLOAT, "3.5")
	require.NoError(t, err)
	assert.Equal(t, FloatValue(3.5), v)

	_, err = ParseString(INT, "not-a-number")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(IntValue(1), IntValue(2)))
	assert.Equal(t, 1, Compare(IntValue(2), IntValue(1)))
	assert.Equal(t, 0, Compare(IntValue(2), IntValue(2)))
	assert.Equal(t, -1, Compare(StringValue("a"), StringValue("b")))
}

func TestColumnIndex(t *testing.T) {
	idx := NewColumnIndex([]string{"name", "age"})
	assert.Equal(t, 2, idx.Len())

	pos, ok := idx.IndexOf("age")
	assert.True(t, ok)
	assert.Equal(t, 1, pos)

	_, ok = idx.IndexOf("missing")
	assert.False(t, ok)

	_, err := idx.MustIndexOf("missing")
	assert.Error(t, err)
}

func TestParseRow(t *testing.T) {
	schema := []Type{STRING, INT}
	row, err := ParseRow(schema, []string{"fido", "3"})
	require.NoError(t, err)
	assert.Equal(t, Row{StringValue("fido"), IntValue(3)}, row)

	_, err = ParseRow(schema, []string{"fido"})
	assert.Error(t, err)
}
