package query

import "github.com/carloshernandez2/clj-db/internal/tuple"

// literal turns a fixed set of rows into a ResultSet, standing in for
// a scan when a test only cares about a downstream operator.
func literal(columns []string, rows []tuple.Row) ResultSet {
	idx := tuple.NewColumnIndex(columns)
	return ResultSet{
		Columns: idx,
		Rows: func(yield func(tuple.Row, error) bool) {
			for _, row := range rows {
				if !yield(row, nil) {
					return
				}
			}
		},
	}
}

func collectRows(rs ResultSet) ([]tuple.Row, error) {
	var out []tuple.Row
	for row, err := range rs.Rows {
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
	return out, nil
}
