package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carloshernandez2/clj-db/internal/tuple"
)

func TestPredicateEval(t *testing.T) {
	idx := tuple.NewColumnIndex([]string{"age"})
	row := tuple.Row{tuple.IntValue(30)}

	p := Predicate{Op: Gt, Col: "age", Literal: tuple.IntValue(18)}
	ok, err := p.eval(idx, row)
	require.NoError(t, err)
	assert.True(t, ok)

	p = Predicate{Op: Lt, Col: "age", Literal: tuple.IntValue(18)}
	ok, err = p.eval(idx, row)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPredicateUnknownColumn(t *testing.T) {
	idx := tuple.NewColumnIndex([]string{"age"})
	p := Predicate{Op: Eq, Col: "missing", Literal: tuple.IntValue(1)}
	_, err := p.eval(idx, tuple.Row{tuple.IntValue(1)})
	assert.Error(t, err)
}

func TestPredicateTypeMismatch(t *testing.T) {
	idx := tuple.NewColumnIndex([]string{"age"})
	p := Predicate{Op: Eq, Col: "age", Literal: tuple.StringValue("30")}
	_, err := p.eval(idx, tuple.Row{tuple.IntValue(30)})
	assert.Error(t, err)
}

func TestConnectorShortCircuits(t *testing.T) {
	idx := tuple.NewColumnIndex([]string{"age"})
	row := tuple.Row{tuple.IntValue(30)}

	// Right side references a column that does not exist; And should
	// never evaluate it once Left is false.
	left := Predicate{Op: Eq, Col: "age", Literal: tuple.IntValue(99)}
	right := Predicate{Op: Eq, Col: "does-not-exist", Literal: tuple.IntValue(1)}
	expr := Combine(left, And, right)

	ok, err := expr.eval(idx, row)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConnectorOr(t *testing.T) {
	idx := tuple.NewColumnIndex([]string{"age"})
	row := tuple.Row{tuple.IntValue(30)}

	left := Predicate{Op: Eq, Col: "age", Literal: tuple.IntValue(30)}
	right := Predicate{Op: Eq, Col: "does-not-exist", Literal: tuple.IntValue(1)}
	expr := Combine(left, Or, right)

	ok, err := expr.eval(idx, row)
	require.NoError(t, err)
	assert.True(t, ok)
}
