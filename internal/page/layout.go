// Package page describes the slotted data-page and section/directory
// layout shared by the heap file: constants, footer codec, and the
// section/page arithmetic. It holds no I/O of its own.
package page

import "github.com/carloshernandez2/clj-db/internal/codec"

const (
	// PageSize is the fixed byte size of every page on disk.
	PageSize = 4096
	// CountSize is the width of the footer's row_count field.
	CountSize = 2
	// FreeOffsetSize is the width of the footer's free_offset field.
	FreeOffsetSize = 2
	// FooterSize is the combined width of the footer (last FooterSize
	// bytes of every data page).
	FooterSize = CountSize + FreeOffsetSize
	// SlotSize is the per-row bookkeeping reservation charged against
	// the free-byte budget, even though no slot directory is written
	// (spec.md §3, the slot array is "reserved", not materialized).
	SlotSize = 2
	// DirEntrySize is the width of one page-directory entry (a u16
	// free-byte count).
	DirEntrySize = 2
	// DirectoryEntriesNum is the number of data pages described by one
	// section's directory page.
	DirectoryEntriesNum = 2048
	// SectionStride is the number of pages in one section: one
	// directory page followed by DirectoryEntriesNum data pages.
	SectionStride = DirectoryEntriesNum + 1
)

// InitialFreeBytes is the free-byte count of a newly created, zeroed
// data page: the whole page minus its footer.
const InitialFreeBytes = PageSize - FooterSize

// EmptyDataPage returns a new, all-zero data page.
func EmptyDataPage() []byte {
	return make([]byte, PageSize)
}

// EmptyDirectoryPage returns a new page directory: DirectoryEntriesNum
// copies of the sentinel free-byte value for an empty data page.
func EmptyDirectoryPage() []byte {
	out := make([]byte, PageSize)
	for i := 0; i < DirectoryEntriesNum; i++ {
		copy(out[i*DirEntrySize:], codec.EncodeU16(uint16(InitialFreeBytes)))
	}
	return out
}

// SectionStart returns the absolute page index at which section
// starts (the index of that section's directory page).
func SectionStart(section int) int64 {
	return int64(section) * SectionStride
}

// IsDirectoryPage reports whether absolute page index idx is a
// section's directory page rather than a data page.
func IsDirectoryPage(idx int64) bool {
	return idx%SectionStride == 0
}

// EncodeFooter emits the 4-byte (row_count, free_offset) footer.
func EncodeFooter(rowCount, freeOffset uint16) []byte {
	out := make([]byte, FooterSize)
	copy(out, codec.EncodeU16(rowCount))
	copy(out[CountSize:], codec.EncodeU16(freeOffset))
	return out
}

// DecodeFooter reads the footer from the last FooterSize bytes of a
// full PageSize-length page buffer.
func DecodeFooter(pageBytes []byte) (rowCount, freeOffset uint16, err error) {
	if len(pageBytes) != PageSize {
		return 0, 0, errFootPageSize(len(pageBytes))
	}
	footer := pageBytes[PageSize-FooterSize:]
	rowCount, err = codec.DecodeU16(footer[:CountSize])
	if err != nil {
		return 0, 0, err
	}
	freeOffset, err = codec.DecodeU16(footer[CountSize:])
	if err != nil {
		return 0, 0, err
	}
	return rowCount, freeOffset, nil
}

// DecodeDirectory reads the DirectoryEntriesNum u16 free-byte counts
// from a full directory page.
func DecodeDirectory(dirPageBytes []byte) ([]uint16, error) {
	if len(dirPageBytes) != PageSize {
		return nil, errFootPageSize(len(dirPageBytes))
	}
	out := make([]uint16, DirectoryEntriesNum)
	for i := range out {
		v, err := codec.DecodeU16(dirPageBytes[i*DirEntrySize : i*DirEntrySize+DirEntrySize])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeDirectory serializes free-byte counts (len must be
// DirectoryEntriesNum) into a full PageSize directory page.
func EncodeDirectory(free []uint16) []byte {
	out := make([]byte, PageSize)
	for i, v := range free {
		copy(out[i*DirEntrySize:], codec.EncodeU16(v))
	}
	return out
}
