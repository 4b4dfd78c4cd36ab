// Package query implements the lazy, pull-based (Volcano-style)
// relational operators: scan, projection, selection, limit, sort,
// merge, the three join strategies, and streaming aggregation. Every
// operator is a function from the shared result environment to a new
// intermediate result set; nothing is materialized until the executor
// forces the terminal chain.
package query

import (
	"io"
	"iter"

	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// ResultSet is the (column_index, row_iterator) pair flowing between
// operators (spec.md §3). Rows is lazy and single-pass; it yields
// (row, nil) for each produced row and, if iteration fails partway
// through (a corrupt page, a schema violation), a final (zero, err)
// before stopping, so operators raise data-dependent errors at
// iteration time rather than at construction time (spec.md §7).
type ResultSet struct {
	Columns tuple.ColumnIndex
	Rows    iter.Seq2[tuple.Row, error]
}

// Operator is a lazy transformer from the shared Env (plus the
// previous chain step's result) to a new ResultSet. Scans ignore in
// and instead open resources registered onto env.
type Operator func(env *Env, in ResultSet) (ResultSet, error)

// Env is the result environment threaded through a single Execute
// call: the reserved "current" result, other steps bound by key, and
// the accumulated resources a terminal materialization must close
// exactly once (spec.md §3, §5).
type Env struct {
	Bound     map[string]ResultSet
	resources []io.Closer
}

// NewEnv returns an empty result environment.
func NewEnv() *Env {
	return &Env{Bound: make(map[string]ResultSet)}
}

// Register adds c to the set of resources this Env will close exactly
// once, regardless of whether materialization succeeds or fails.
func (e *Env) Register(c io.Closer) {
	e.resources = append(e.resources, c)
}

// Lookup returns the result bound under key, or ErrMissingStep.
func (e *Env) Lookup(key string) (ResultSet, error) {
	rs, ok := e.Bound[key]
	if !ok {
		return ResultSet{}, missingStep(key)
	}
	return rs, nil
}

// Close closes every registered resource exactly once, in
// reverse-registration order, returning the first error encountered
// (if any) after attempting to close the rest.
func (e *Env) Close() error {
	var first error
	for i := len(e.resources) - 1; i >= 0; i-- {
		if err := e.resources[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	e.resources = nil
	return first
}
