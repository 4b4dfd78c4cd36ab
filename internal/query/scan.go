package query

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/carloshernandez2/clj-db/internal/catalog"
	"github.com/carloshernandez2/clj-db/internal/dberr"
	"github.com/carloshernandez2/clj-db/internal/heap"
	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// ScanCSV opens "<table>_table.csv" and its catalog under dir, builds
// a column index from the CSV header row, and lazily applies
// tuple.ParseRow (schema-driven value parsing) to every subsequent
// record. The opened file is registered on env for the executor to
// close after terminal materialization.
func ScanCSV(store *catalog.Store, dir, table string) Operator {
	return func(env *Env, _ ResultSet) (ResultSet, error) {
		cat, err := store.Read(table)
		if err != nil {
			return ResultSet{}, err
		}

		f, err := os.Open(filepath.Join(dir, table+"_table.csv"))
		if err != nil {
			return ResultSet{}, dberr.IO(err, "opening csv for table %q", table)
		}
		env.Register(f)

		r := csv.NewReader(f)
		header, err := r.Read()
		if err != nil {
			return ResultSet{}, dberr.IO(err, "reading csv header for table %q", table)
		}
		if len(header) != len(cat.Schema) {
			return ResultSet{}, dberr.SchemaViolation("csv header for table %q has %d columns, schema has %d", table, len(header), len(cat.Schema))
		}
		idx := tuple.NewColumnIndex(header)

		rows := func(yield func(tuple.Row, error) bool) {
			for {
				record, rerr := r.Read()
				if rerr == io.EOF {
					return
				}
				if rerr != nil {
					yield(nil, dberr.IO(rerr, "reading csv row for table %q", table))
					return
				}
				row, perr := tuple.ParseRow(cat.Schema, record)
				if perr != nil {
					yield(nil, perr)
					return
				}
				if !yield(row, nil) {
					return
				}
			}
		}

		return ResultSet{Columns: idx, Rows: rows}, nil
	}
}

// ScanHeap opens "<table>_table.cljdb" and its catalog under dir,
// building a column index from the catalog and streaming rows from
// heap.Scan. The opened file is registered on env.
func ScanHeap(store *catalog.Store, dir, table string) Operator {
	return func(env *Env, _ ResultSet) (ResultSet, error) {
		cat, err := store.Read(table)
		if err != nil {
			return ResultSet{}, err
		}

		f, err := os.Open(filepath.Join(dir, table+"_table.cljdb"))
		if err != nil {
			return ResultSet{}, dberr.IO(err, "opening heap file for table %q", table)
		}
		env.Register(f)

		idx := tuple.NewColumnIndex(cat.Columns)
		rows := func(yield func(tuple.Row, error) bool) {
			for row, serr := range heap.Scan(cat, f) {
				if serr != nil {
					yield(nil, serr)
					return
				}
				if !yield(row, nil) {
					return
				}
			}
		}

		return ResultSet{Columns: idx, Rows: rows}, nil
	}
}
