package query

import (
	"iter"

	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// iterPull adapts a lazy (row, error) sequence into an imperative
// next/stop pair, needed by merge-style operators that must compare
// the heads of two sequences before deciding which to advance.
func iterPull(seq iter.Seq2[tuple.Row, error]) (next func() (tuple.Row, bool, error), stop func()) {
	pull, stop := iter.Pull2(seq)
	next = func() (tuple.Row, bool, error) {
		row, err, ok := pull()
		if !ok {
			return nil, false, nil
		}
		return row, true, err
	}
	return next, stop
}
