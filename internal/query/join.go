package query

import (
	"github.com/cespare/xxhash/v2"

	"github.com/carloshernandez2/clj-db/internal/dberr"
	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// joinedColumns builds the combined column index for a join's output:
// left columns, then right columns, renaming any right-side name that
// collides with a left-side name to "<tableKey>/<name>" (spec.md
// §4.5, applied uniformly per §9's Open Question resolution).
func joinedColumns(left, right tuple.ColumnIndex, tableKey string) tuple.ColumnIndex {
	names := append([]string(nil), left.Names()...)
	for _, n := range right.Names() {
		if left.Has(n) {
			names = append(names, tableKey+"/"+n)
		} else {
			names = append(names, n)
		}
	}
	return tuple.NewColumnIndex(names)
}

func concatRows(left, right tuple.Row) tuple.Row {
	out := make(tuple.Row, len(left)+len(right))
	copy(out, left)
	copy(out[len(left):], right)
	return out
}

// NestedLoopsJoin produces the Cartesian product of __result__ with
// the rows bound under tableKey, emitting concatenated rows for which
// op(row1[leftCol], row2[rightCol]) holds. The tableKey side is
// materialized once so it can be re-scanned per left row.
func NestedLoopsJoin(op CompareOp, leftCol, rightCol, tableKey string) Operator {
	return func(env *Env, in ResultSet) (ResultSet, error) {
		right, err := env.Lookup(tableKey)
		if err != nil {
			return ResultSet{}, err
		}
		leftPos, err := in.Columns.MustIndexOf(leftCol)
		if err != nil {
			return ResultSet{}, err
		}
		rightPos, err := right.Columns.MustIndexOf(rightCol)
		if err != nil {
			return ResultSet{}, err
		}
		outIdx := joinedColumns(in.Columns, right.Columns, tableKey)

		var rightRows []tuple.Row
		for row, rerr := range right.Rows {
			if rerr != nil {
				return ResultSet{}, rerr
			}
			rightRows = append(rightRows, row)
		}

		rows := func(yield func(tuple.Row, error) bool) {
			for l, lerr := range in.Rows {
				if lerr != nil {
					yield(nil, lerr)
					return
				}
				for _, r := range rightRows {
					ok, cerr := evalCompare(op, l[leftPos], r[rightPos])
					if cerr != nil {
						yield(nil, cerr)
						return
					}
					if !ok {
						continue
					}
					if !yield(concatRows(l, r), nil) {
						return
					}
				}
			}
		}
		return ResultSet{Columns: outIdx, Rows: rows}, nil
	}
}

// HashJoin requires an equality predicate (validated eagerly, at
// construction time, per spec.md §7). It materializes __result__ into
// a multimap bucketed by the xxhash of the encoded join key, then
// streams tableKey's rows as probes, emitting one joined row per
// matching build-side row. Output order follows the probe side.
func HashJoin(leftCol, rightCol, tableKey string) (Operator, error) {
	return buildJoin(Eq, leftCol, rightCol, tableKey, true)
}

// SortMergeJoin requires an equality predicate and both inputs sorted
// ascending by their join key (precondition, not enforced at runtime
// — spec.md leaves verification to the caller). It performs a classic
// merge: advance the lesser side, materialize the current group when
// keys match, and emit the cross-product of the two same-key groups.
func SortMergeJoin(leftCol, rightCol, tableKey string) (Operator, error) {
	return buildJoin(Eq, leftCol, rightCol, tableKey, false)
}

func buildJoin(op CompareOp, leftCol, rightCol, tableKey string, hash bool) (Operator, error) {
	if op != Eq {
		return nil, dberr.UnsupportedOp(op.String())
	}
	if hash {
		return hashJoinOperator(leftCol, rightCol, tableKey), nil
	}
	return sortMergeJoinOperator(leftCol, rightCol, tableKey), nil
}

func hashJoinOperator(leftCol, rightCol, tableKey string) Operator {
	return func(env *Env, in ResultSet) (ResultSet, error) {
		probe, err := env.Lookup(tableKey)
		if err != nil {
			return ResultSet{}, err
		}
		leftPos, err := in.Columns.MustIndexOf(leftCol)
		if err != nil {
			return ResultSet{}, err
		}
		rightPos, err := probe.Columns.MustIndexOf(rightCol)
		if err != nil {
			return ResultSet{}, err
		}
		outIdx := joinedColumns(in.Columns, probe.Columns, tableKey)

		buckets := make(map[uint64][]tuple.Row)
		for row, lerr := range in.Rows {
			if lerr != nil {
				return ResultSet{}, lerr
			}
			h, herr := hashKey(row[leftPos])
			if herr != nil {
				return ResultSet{}, herr
			}
			buckets[h] = append(buckets[h], row)
		}

		rows := func(yield func(tuple.Row, error) bool) {
			for r, rerr := range probe.Rows {
				if rerr != nil {
					yield(nil, rerr)
					return
				}
				h, herr := hashKey(r[rightPos])
				if herr != nil {
					yield(nil, herr)
					return
				}
				for _, l := range buckets[h] {
					eq, cerr := evalCompare(Eq, l[leftPos], r[rightPos])
					if cerr != nil {
						yield(nil, cerr)
						return
					}
					if !eq {
						continue // hash collision, not a real match
					}
					if !yield(concatRows(l, r), nil) {
						return
					}
				}
			}
		}
		return ResultSet{Columns: outIdx, Rows: rows}, nil
	}
}

func hashKey(v tuple.Value) (uint64, error) {
	b, err := v.Encode()
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(b), nil
}

func sortMergeJoinOperator(leftCol, rightCol, tableKey string) Operator {
	return func(env *Env, in ResultSet) (ResultSet, error) {
		right, err := env.Lookup(tableKey)
		if err != nil {
			return ResultSet{}, err
		}
		leftPos, err := in.Columns.MustIndexOf(leftCol)
		if err != nil {
			return ResultSet{}, err
		}
		rightPos, err := right.Columns.MustIndexOf(rightCol)
		if err != nil {
			return ResultSet{}, err
		}
		outIdx := joinedColumns(in.Columns, right.Columns, tableKey)

		rows := func(yield func(tuple.Row, error) bool) {
			leftNext, leftStop := iterPull(in.Rows)
			defer leftStop()
			rightNext, rightStop := iterPull(right.Rows)
			defer rightStop()

			l, lok, lerr := leftNext()
			if lerr != nil {
				yield(nil, lerr)
				return
			}
			r, rok, rerr := rightNext()
			if rerr != nil {
				yield(nil, rerr)
				return
			}

			for lok && rok {
				c := tuple.Compare(l[leftPos], r[rightPos])
				switch {
				case c < 0:
					l, lok, lerr = leftNext()
					if lerr != nil {
						yield(nil, lerr)
						return
					}
				case c > 0:
					r, rok, rerr = rightNext()
					if rerr != nil {
						yield(nil, rerr)
						return
					}
				default:
					key := l[leftPos]
					var leftGroup, rightGroup []tuple.Row
					for lok && tuple.Compare(l[leftPos], key) == 0 {
						leftGroup = append(leftGroup, l)
						l, lok, lerr = leftNext()
						if lerr != nil {
							yield(nil, lerr)
							return
						}
					}
					for rok && tuple.Compare(r[rightPos], key) == 0 {
						rightGroup = append(rightGroup, r)
						r, rok, rerr = rightNext()
						if rerr != nil {
							yield(nil, rerr)
							return
						}
					}
					for _, lr := range leftGroup {
						for _, rr := range rightGroup {
							if !yield(concatRows(lr, rr), nil) {
								return
							}
						}
					}
				}
			}
		}
		return ResultSet{Columns: outIdx, Rows: rows}, nil
	}
}
