package heap

import (
	"io"
	"iter"

	"github.com/carloshernandez2/clj-db/internal/catalog"
	"github.com/carloshernandez2/clj-db/internal/dberr"
	"github.com/carloshernandez2/clj-db/internal/page"
	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// Scan lazily iterates absolute page indices 1, 2, ... skipping every
// directory page, parsing each data page's payload per cat.Schema and
// yielding one row at a time. The sequence is single-pass: restarting
// it requires a fresh ReaderAt over the file (spec.md §4.3).
func Scan(cat *catalog.Catalog, r io.ReaderAt) iter.Seq2[tuple.Row, error] {
	numColumns := len(cat.Columns)
	return func(yield func(tuple.Row, error) bool) {
		buf := make([]byte, page.PageSize)
		for idx := int64(1); ; idx++ {
			if page.IsDirectoryPage(idx) {
				continue
			}

			n, err := r.ReadAt(buf, idx*page.PageSize)
			if n == 0 {
				return
			}
			if err != nil && err != io.EOF {
				yield(nil, dberr.IO(err, "reading page %d", idx))
				return
			}

			pageBytes := buf
			if n < page.PageSize {
				padded := make([]byte, page.PageSize)
				copy(padded, buf[:n])
				pageBytes = padded
			}

			rows, perr := takeDataRows(cat.Schema, numColumns, pageBytes)
			if perr != nil {
				yield(nil, perr)
				return
			}
			for _, row := range rows {
				if !yield(row, nil) {
					return
				}
			}

			if n < page.PageSize {
				return
			}
		}
	}
}
