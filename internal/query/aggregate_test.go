package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carloshernandez2/clj-db/internal/tuple"
)

func TestAggregateCountNoGroup(t *testing.T) {
	in := literal([]string{"age"}, []tuple.Row{
		{tuple.IntValue(1)}, {tuple.IntValue(2)}, {tuple.IntValue(3)},
	})
	op := Aggregate(nil, AggSpec{Func: Count(), Col: "age", As: "n"})
	out, err := op(nil, in)
	require.NoError(t, err)

	rows, err := collectRows(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tuple.IntValue(3), rows[0][0])
}

func TestAggregateEmptyInputNoGroupYieldsNoRows(t *testing.T) {
	in := literal([]string{"age"}, nil)
	op := Aggregate(nil, AggSpec{Func: Count(), Col: "age", As: "n"})
	out, err := op(nil, in)
	require.NoError(t, err)

	rows, err := collectRows(out)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAggregateGroupedByPreSortedKey(t *testing.T) {
	// Pre-grouped, as a prior Sort("dept") would leave it.
	in := literal([]string{"dept", "salary"}, []tuple.Row{
		{tuple.StringValue("eng"), tuple.IntValue(100)},
		{tuple.StringValue("eng"), tuple.IntValue(200)},
		{tuple.StringValue("sales"), tuple.IntValue(50)},
	})
	op := Aggregate([]string{"dept"}, AggSpec{Func: Count(), Col: "salary", As: "n"})
	out, err := op(nil, in)
	require.NoError(t, err)

	rows, err := collectRows(out)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, tuple.StringValue("eng"), rows[0][0])
	assert.Equal(t, tuple.IntValue(2), rows[0][1])
	assert.Equal(t, tuple.StringValue("sales"), rows[1][0])
	assert.Equal(t, tuple.IntValue(1), rows[1][1])
}

func TestAggregateAverageUsesExactDecimal(t *testing.T) {
	in := literal([]string{"score"}, []tuple.Row{
		{tuple.IntValue(1)}, {tuple.IntValue(2)}, {tuple.IntValue(3)},
	})
	op := Aggregate(nil, AggSpec{Func: Average(), Col: "score", As: "avg"})
	out, err := op(nil, in)
	require.NoError(t, err)

	rows, err := collectRows(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 2.0, float64(rows[0][0].F), 1e-6)
}

func TestAggregateRepeatedGroupKeyAfterBreakIsSeparateGroup(t *testing.T) {
	// Not truly sorted: "eng" reappears after "sales" breaks the run.
	// The streaming aggregator treats this as two distinct groups
	// rather than merging them, matching its pre-sorted-input contract.
	in := literal([]string{"dept", "n"}, []tuple.Row{
		{tuple.StringValue("eng"), tuple.IntValue(1)},
		{tuple.StringValue("sales"), tuple.IntValue(1)},
		{tuple.StringValue("eng"), tuple.IntValue(1)},
	})
	op := Aggregate([]string{"dept"}, AggSpec{Func: Count(), Col: "n", As: "n"})
	out, err := op(nil, in)
	require.NoError(t, err)

	rows, err := collectRows(out)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
