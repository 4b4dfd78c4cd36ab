package heap

import (
	"io"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/carloshernandez2/clj-db/internal/catalog"
	"github.com/carloshernandez2/clj-db/internal/dberr"
	"github.com/carloshernandez2/clj-db/internal/page"
	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// File is the random-access surface WriteRows needs: a file already
// open for both reading and writing.
type File interface {
	io.ReaderAt
	io.WriterAt
}

// pagesPerSectionPass bounds how many data pages write_rows will
// modify within a single section before moving on to the next
// section. This is an intentional small-batch policy (spec.md §9) —
// not a correctness requirement — kept as a tunable constant.
const pagesPerSectionPass = 2

// SectionDirectoryCache is a read-through cache of decoded section
// directories, keyed by the absolute byte offset of the directory
// page. It exists purely to avoid re-reading a section's directory
// page across back-to-back WriteRows calls against the same file
// within one process; every call that mutates a directory evicts the
// stale entry before returning. Scan never consults this cache.
type SectionDirectoryCache struct {
	cache *ristretto.Cache[int64, []uint16]
}

// NewSectionDirectoryCache constructs an empty cache.
func NewSectionDirectoryCache() (*SectionDirectoryCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[int64, []uint16]{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &SectionDirectoryCache{cache: c}, nil
}

func (c *SectionDirectoryCache) get(offset int64) ([]uint16, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	return c.cache.Get(offset)
}

func (c *SectionDirectoryCache) set(offset int64, dir []uint16) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Set(offset, dir, int64(len(dir)*page.DirEntrySize))
	c.cache.Wait()
}

func (c *SectionDirectoryCache) invalidate(offset int64) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Del(offset)
	c.cache.Wait()
}

// WriteRows appends rows to the table's heap file, allocating into as
// many sections as necessary. It assumes exclusive access to f for
// the duration of the call (spec.md §5, Mutation).
func WriteRows(f File, cat *catalog.Catalog, rows []tuple.Row, dirCache *SectionDirectoryCache) error {
	numColumns := len(cat.Columns)
	for _, row := range rows {
		if len(row) != numColumns {
			return dberr.SchemaViolation("row arity %d does not match schema arity %d", len(row), numColumns)
		}
		if rowCost(row)+page.FooterSize > page.PageSize {
			return dberr.RowTooLarge("row of %d bytes cannot fit in a %d-byte page", rowCost(row), page.PageSize)
		}
	}

	queue := append([]tuple.Row(nil), rows...)
	section := 0
	for len(queue) > 0 {
		var err error
		queue, err = writeSection(f, cat, numColumns, section, queue, dirCache)
		if err != nil {
			return err
		}
		section++
	}
	return nil
}

// writeSection packs as much of queue as the small-batch policy
// allows into section, writes the modified data pages and the
// section's directory page, and returns the residual queue.
func writeSection(f File, cat *catalog.Catalog, numColumns, section int, queue []tuple.Row, dirCache *SectionDirectoryCache) ([]tuple.Row, error) {
	sectionStart := page.SectionStart(section)
	dirOffset := sectionStart * page.PageSize

	free, err := readSectionDirectory(f, dirOffset, dirCache)
	if err != nil {
		return nil, err
	}

	type placed struct {
		pageIdx    int // 1-based within section
		rows       []tuple.Row
		addedBytes int
	}
	var modified []placed
	rest := queue

	for p := 1; p <= page.DirectoryEntriesNum && len(modified) < pagesPerSectionPass && len(rest) > 0; p++ {
		avail := int(free[p-1])
		var thisPage []tuple.Row
		added := 0
		for len(rest) > 0 {
			cost := rowCost(rest[0])
			if added+cost > avail {
				break
			}
			thisPage = append(thisPage, rest[0])
			added += cost
			rest = rest[1:]
		}
		if len(thisPage) > 0 {
			modified = append(modified, placed{pageIdx: p, rows: thisPage, addedBytes: added})
		}
	}

	for _, m := range modified {
		absoluteIdx := sectionStart + int64(m.pageIdx)
		existingBytes, err := readDataPageOrEmpty(f, absoluteIdx)
		if err != nil {
			return nil, err
		}
		existingRows, err := takeDataRows(cat.Schema, numColumns, existingBytes)
		if err != nil {
			return nil, err
		}
		newPage, err := buildPage(existingRows, m.rows)
		if err != nil {
			return nil, err
		}
		if _, err := f.WriteAt(newPage, absoluteIdx*page.PageSize); err != nil {
			return nil, dberr.IO(err, "writing page %d", absoluteIdx)
		}

		free[m.pageIdx-1] = uint16(int(free[m.pageIdx-1]) - m.addedBytes)
	}

	if len(modified) > 0 {
		if _, err := f.WriteAt(page.EncodeDirectory(free), dirOffset); err != nil {
			return nil, dberr.IO(err, "writing section %d directory", section)
		}
		dirCache.invalidate(dirOffset)
		dirCache.set(dirOffset, free)
	}

	return rest, nil
}

// readSectionDirectory returns the decoded free-byte counts for the
// section whose directory page starts at byte offset dirOffset,
// treating a directory beyond end-of-file as empty.
func readSectionDirectory(f File, dirOffset int64, dirCache *SectionDirectoryCache) ([]uint16, error) {
	if dir, ok := dirCache.get(dirOffset); ok {
		return append([]uint16(nil), dir...), nil
	}

	buf := make([]byte, page.PageSize)
	n, err := f.ReadAt(buf, dirOffset)
	if n == 0 {
		dir, derr := page.DecodeDirectory(page.EmptyDirectoryPage())
		return dir, derr
	}
	if err != nil && err != io.EOF {
		return nil, dberr.IO(err, "reading directory at offset %d", dirOffset)
	}
	if n < page.PageSize {
		padded := page.EmptyDirectoryPage()
		copy(padded, buf[:n])
		buf = padded
	}
	return page.DecodeDirectory(buf)
}

// readDataPageOrEmpty reads the full page at absolute page index idx,
// treating a page beyond end-of-file as a freshly zeroed data page.
func readDataPageOrEmpty(f File, idx int64) ([]byte, error) {
	buf := make([]byte, page.PageSize)
	n, err := f.ReadAt(buf, idx*page.PageSize)
	if n == 0 {
		return page.EmptyDataPage(), nil
	}
	if err != nil && err != io.EOF {
		return nil, dberr.IO(err, "reading page %d", idx)
	}
	if n < page.PageSize {
		padded := page.EmptyDataPage()
		copy(padded, buf[:n])
		return padded, nil
	}
	return buf, nil
}
