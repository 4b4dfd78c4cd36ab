package query

import (
	"github.com/shopspring/decimal"

	"github.com/carloshernandez2/clj-db/internal/dberr"
	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// AggFunc is the three-state streaming accumulator protocol: Start
// produces a fresh accumulator, Step folds one value into it, and End
// converts the finished accumulator into the output value. Keeping
// state opaque (any) lets built-ins and callers share the same
// Aggregate driver without it knowing their internal representation.
type AggFunc struct {
	Name  string
	Start func() any
	Step  func(state any, v tuple.Value) (any, error)
	End   func(state any) (tuple.Value, error)
}

// AggSpec names the input column an AggFunc folds over and the output
// column name its result is bound to.
type AggSpec struct {
	Func AggFunc
	Col  string
	As   string
}

// Count counts the rows in a group, ignoring the value itself.
func Count() AggFunc {
	return AggFunc{
		Name:  "count",
		Start: func() any { return int64(0) },
		Step: func(state any, _ tuple.Value) (any, error) {
			return state.(int64) + 1, nil
		},
		End: func(state any) (tuple.Value, error) {
			return tuple.IntValue(int32(state.(int64))), nil
		},
	}
}

type avgAcc struct {
	sum   decimal.Decimal
	count int64
}

// Average computes the mean of a numeric column using exact decimal
// arithmetic (github.com/shopspring/decimal), avoiding the rounding
// drift plain float64 accumulation would introduce over long streams.
func Average() AggFunc {
	return AggFunc{
		Name:  "average",
		Start: func() any { return avgAcc{sum: decimal.Zero} },
		Step: func(state any, v tuple.Value) (any, error) {
			acc := state.(avgAcc)
			d, err := valueToDecimal(v)
			if err != nil {
				return nil, err
			}
			acc.sum = acc.sum.Add(d)
			acc.count++
			return acc, nil
		},
		End: func(state any) (tuple.Value, error) {
			acc := state.(avgAcc)
			if acc.count == 0 {
				return tuple.FloatValue(0), nil
			}
			avg := acc.sum.DivRound(decimal.NewFromInt(acc.count), 8)
			f, _ := avg.Float64()
			return tuple.FloatValue(float32(f)), nil
		},
	}
}

func valueToDecimal(v tuple.Value) (decimal.Decimal, error) {
	switch v.Typ {
	case tuple.INT:
		return decimal.NewFromInt(int64(v.I)), nil
	case tuple.FLOAT:
		return decimal.NewFromFloat(float64(v.F)), nil
	default:
		return decimal.Decimal{}, dberr.SchemaViolation("cannot average column of type %v", v.Typ)
	}
}

func rowEqual(a, b tuple.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if tuple.Compare(a[i], b[i]) != 0 {
			return false
		}
	}
	return true
}

// Aggregate streams __result__ into consecutive groups keyed by
// groupCols, emitting one output row per group boundary. It assumes
// the input already arrives grouped (typically via a prior Sort) —
// a group key reappearing after a different key has been seen starts
// a second, separate group rather than merging with the first. With
// no groupCols, the entire input is treated as a single group; an
// entirely empty input then yields zero rows rather than a single
// zero-valued one.
func Aggregate(groupCols []string, specs ...AggSpec) Operator {
	return func(_ *Env, in ResultSet) (ResultSet, error) {
		groupPos := make([]int, len(groupCols))
		for i, c := range groupCols {
			p, err := in.Columns.MustIndexOf(c)
			if err != nil {
				return ResultSet{}, err
			}
			groupPos[i] = p
		}
		specPos := make([]int, len(specs))
		for i, s := range specs {
			p, err := in.Columns.MustIndexOf(s.Col)
			if err != nil {
				return ResultSet{}, err
			}
			specPos[i] = p
		}

		names := append([]string(nil), groupCols...)
		for _, s := range specs {
			names = append(names, s.As)
		}
		outIdx := tuple.NewColumnIndex(names)

		rows := func(yield func(tuple.Row, error) bool) {
			var curKey tuple.Row
			var states []any
			started := false

			emit := func() bool {
				out := make(tuple.Row, 0, len(groupCols)+len(specs))
				out = append(out, curKey...)
				for i, s := range specs {
					v, err := s.Func.End(states[i])
					if err != nil {
						return yield(nil, err)
					}
					out = append(out, v)
				}
				return yield(out, nil)
			}

			for row, err := range in.Rows {
				if err != nil {
					yield(nil, err)
					return
				}
				key := make(tuple.Row, len(groupPos))
				for i, p := range groupPos {
					key[i] = row[p]
				}
				if !started || !rowEqual(key, curKey) {
					if started {
						if !emit() {
							return
						}
					}
					curKey = key
					states = make([]any, len(specs))
					for i := range specs {
						states[i] = specs[i].Func.Start()
					}
					started = true
				}
				for i, s := range specs {
					ns, serr := s.Func.Step(states[i], row[specPos[i]])
					if serr != nil {
						yield(nil, serr)
						return
					}
					states[i] = ns
				}
			}
			if started {
				emit()
			}
		}
		return ResultSet{Columns: outIdx, Rows: rows}, nil
	}
}
