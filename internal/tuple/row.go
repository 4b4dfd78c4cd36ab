package tuple

import "github.com/carloshernandez2/clj-db/internal/dberr"

// Row is a positional tuple whose arity equals len(columns) and whose
// values conform to schema. Deliberately a slice, not a map: arity and
// order are part of the contract (spec Invariant 3).
type Row []Value

// ColumnIndex maps column name to tuple position; insertion order
// equals column order.
type ColumnIndex struct {
	names []string
	pos   map[string]int
}

// NewColumnIndex builds a ColumnIndex over names, in order.
func NewColumnIndex(names []string) ColumnIndex {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[n] = i
	}
	return ColumnIndex{names: append([]string(nil), names...), pos: pos}
}

// Names returns the column names in index order.
func (c ColumnIndex) Names() []string { return c.names }

// Len returns the number of columns.
func (c ColumnIndex) Len() int { return len(c.names) }

// IndexOf returns the position of name, or (-1, false) if absent.
func (c ColumnIndex) IndexOf(name string) (int, bool) {
	i, ok := c.pos[name]
	if !ok {
		return -1, false
	}
	return i, true
}

// MustIndexOf returns the position of name, or ErrUnknownColumn.
func (c ColumnIndex) MustIndexOf(name string) (int, error) {
	i, ok := c.pos[name]
	if !ok {
		return 0, dberr.UnknownColumn(name)
	}
	return i, nil
}

// Has reports whether name is present.
func (c ColumnIndex) Has(name string) bool {
	_, ok := c.pos[name]
	return ok
}

// ParseRow converts a vector of raw string fields into a typed Row
// per schema, checked for arity.
func ParseRow(schema []Type, fields []string) (Row, error) {
	if len(fields) != len(schema) {
		return nil, dberr.SchemaViolation("row arity %d does not match schema arity %d", len(fields), len(schema))
	}
	row := make(Row, len(fields))
	for i, f := range fields {
		v, err := ParseString(schema[i], f)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}
