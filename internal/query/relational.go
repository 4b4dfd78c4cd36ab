package query

import (
	"slices"

	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// Projection keeps only the named columns, preserving input order and
// compacting indices to 0..k-1. Unknown columns are silently excluded
// (spec.md §4.5).
func Projection(cols ...string) Operator {
	return func(_ *Env, in ResultSet) (ResultSet, error) {
		var kept []string
		var positions []int
		for _, name := range in.Columns.Names() {
			if slices.Contains(cols, name) {
				kept = append(kept, name)
				i, _ := in.Columns.IndexOf(name)
				positions = append(positions, i)
			}
		}
		outIdx := tuple.NewColumnIndex(kept)

		rows := func(yield func(tuple.Row, error) bool) {
			for row, err := range in.Rows {
				if err != nil {
					yield(nil, err)
					return
				}
				out := make(tuple.Row, len(positions))
				for i, p := range positions {
					out[i] = row[p]
				}
				if !yield(out, nil) {
					return
				}
			}
		}
		return ResultSet{Columns: outIdx, Rows: rows}, nil
	}
}

// Selection lazily filters rows by expr.
func Selection(expr BoolExpr) Operator {
	return func(_ *Env, in ResultSet) (ResultSet, error) {
		rows := func(yield func(tuple.Row, error) bool) {
			for row, err := range in.Rows {
				if err != nil {
					yield(nil, err)
					return
				}
				ok, eerr := expr.eval(in.Columns, row)
				if eerr != nil {
					yield(nil, eerr)
					return
				}
				if !ok {
					continue
				}
				if !yield(row, nil) {
					return
				}
			}
		}
		return ResultSet{Columns: in.Columns, Rows: rows}, nil
	}
}

// Limit emits at most the first n rows.
func Limit(n int) Operator {
	return func(_ *Env, in ResultSet) (ResultSet, error) {
		rows := func(yield func(tuple.Row, error) bool) {
			if n <= 0 {
				return
			}
			count := 0
			for row, err := range in.Rows {
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(row, nil) {
					return
				}
				count++
				if count >= n {
					return
				}
			}
		}
		return ResultSet{Columns: in.Columns, Rows: rows}, nil
	}
}

// Sort materializes all input rows and emits them lazily, ascending
// by the projected key tuple over fields. Stability is not guaranteed
// (spec.md §9).
func Sort(fields ...string) Operator {
	return func(_ *Env, in ResultSet) (ResultSet, error) {
		positions := make([]int, len(fields))
		for i, f := range fields {
			p, err := in.Columns.MustIndexOf(f)
			if err != nil {
				return ResultSet{}, err
			}
			positions[i] = p
		}

		var buf []tuple.Row
		for row, err := range in.Rows {
			if err != nil {
				return ResultSet{}, err
			}
			buf = append(buf, row)
		}

		slices.SortFunc(buf, func(a, b tuple.Row) int {
			for _, p := range positions {
				if c := tuple.Compare(a[p], b[p]); c != 0 {
					return c
				}
			}
			return 0
		})

		rows := func(yield func(tuple.Row, error) bool) {
			for _, row := range buf {
				if !yield(row, nil) {
					return
				}
			}
		}
		return ResultSet{Columns: in.Columns, Rows: rows}, nil
	}
}

// Merge concatenates __result__ rows with the rows bound under
// otherKey (multiset union, duplicates preserved, left-then-right
// order). Column schemas are expected to be name-compatible; if not,
// the result's column_index is simply __result__'s, as produced
// (spec.md §4.5 — "no rename").
func Merge(otherKey string) Operator {
	return func(env *Env, in ResultSet) (ResultSet, error) {
		other, err := env.Lookup(otherKey)
		if err != nil {
			return ResultSet{}, err
		}

		rows := func(yield func(tuple.Row, error) bool) {
			for row, err := range in.Rows {
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(row, nil) {
					return
				}
			}
			for row, err := range other.Rows {
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(row, nil) {
					return
				}
			}
		}
		return ResultSet{Columns: in.Columns, Rows: rows}, nil
	}
}
