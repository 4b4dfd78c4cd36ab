package query

import (
	"github.com/carloshernandez2/clj-db/internal/dberr"
	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// CompareOp is the tagged enum spec.md §9 asks for in place of
// treating comparison operators as dynamically-dispatched first-class
// values (as the teacher's sql.BoolExpression tree does).
type CompareOp int

const (
	Eq CompareOp = iota
	Neq
	Lt
	Leq
	Gt
	Geq
)

func (op CompareOp) String() string {
	switch op {
	case Eq:
		return "="
	case Neq:
		return "!="
	case Lt:
		return "<"
	case Leq:
		return "<="
	case Gt:
		return ">"
	case Geq:
		return ">="
	default:
		return "?"
	}
}

func evalCompare(op CompareOp, a, b tuple.Value) (bool, error) {
	if a.Typ != b.Typ {
		return false, dberr.SchemaViolation("cannot compare %v to %v", a.Typ, b.Typ)
	}
	c := tuple.Compare(a, b)
	switch op {
	case Eq:
		return c == 0, nil
	case Neq:
		return c != 0, nil
	case Lt:
		return c < 0, nil
	case Leq:
		return c <= 0, nil
	case Gt:
		return c > 0, nil
	case Geq:
		return c >= 0, nil
	default:
		return false, dberr.UnsupportedOp(op.String())
	}
}

// BoolExpr is a predicate over a row, evaluated against a column
// index. Built either from a single Predicate or a short-circuiting
// And/Or of two BoolExprs (spec.md §4.5, selection's [connector,
// pred2] clause).
type BoolExpr interface {
	eval(idx tuple.ColumnIndex, row tuple.Row) (bool, error)
}

// Predicate is (op, col, literal): op applied to the row's value at
// column_index[col] against literal.
type Predicate struct {
	Op      CompareOp
	Col     string
	Literal tuple.Value
}

func (p Predicate) eval(idx tuple.ColumnIndex, row tuple.Row) (bool, error) {
	i, err := idx.MustIndexOf(p.Col)
	if err != nil {
		return false, err
	}
	return evalCompare(p.Op, row[i], p.Literal)
}

// Connector is the logical combinator joining two predicates.
type Connector int

const (
	And Connector = iota
	Or
)

type connExpr struct {
	Conn        Connector
	Left, Right BoolExpr
}

func (c connExpr) eval(idx tuple.ColumnIndex, row tuple.Row) (bool, error) {
	left, err := c.Left.eval(idx, row)
	if err != nil {
		return false, err
	}
	switch c.Conn {
	case And:
		if !left {
			return false, nil // short-circuit
		}
		return c.Right.eval(idx, row)
	case Or:
		if left {
			return true, nil // short-circuit
		}
		return c.Right.eval(idx, row)
	default:
		return false, dberr.UnsupportedOp("connector")
	}
}

// Combine joins two predicates with connector, short-circuiting.
func Combine(left BoolExpr, conn Connector, right BoolExpr) BoolExpr {
	return connExpr{Conn: conn, Left: left, Right: right}
}
