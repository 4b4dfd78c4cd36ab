package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFooterRoundTrip(t *testing.T) {
	p := EmptyDataPage()
	copy(p[PageSize-FooterSize:], EncodeFooter(7, 1234))

	rowCount, freeOffset, err := DecodeFooter(p)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), rowCount)
	assert.Equal(t, uint16(1234), freeOffset)
}

func TestDecodeFooterWrongSize(t *testing.T) {
	_, _, err := DecodeFooter(make([]byte, 10))
	assert.Error(t, err)
}

func TestEmptyDirectoryPage(t *testing.T) {
	free, err := DecodeDirectory(EmptyDirectoryPage())
	require.NoError(t, err)
	assert.Len(t, free, DirectoryEntriesNum)
	for _, v := range free {
		assert.Equal(t, uint16(InitialFreeBytes), v)
	}
}

func TestDirectoryRoundTrip(t *testing.T) {
	free := make([]uint16, DirectoryEntriesNum)
	free[0] = 10
	free[5] = 4000

	got, err := DecodeDirectory(EncodeDirectory(free))
	require.NoError(t, err)
	assert.Equal(t, free, got)
}

func TestSectionStartAndIsDirectoryPage(t *testing.T) {
	assert.Equal(t, int64(0), SectionStart(0))
	assert.Equal(t, int64(SectionStride), SectionStart(1))

	assert.True(t, IsDirectoryPage(0))
	assert.True(t, IsDirectoryPage(SectionStride))
	assert.False(t, IsDirectoryPage(1))
	assert.False(t, IsDirectoryPage(SectionStride+1))
}
