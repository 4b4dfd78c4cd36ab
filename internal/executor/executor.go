// Package executor drives a Plan: a sequence of named steps, each a
// chain of query.Operators applied left to right. A step's chain
// starts from whatever is currently bound under the reserved
// "__result__" key (if anything), so steps that don't open their own
// scan continue the previous "__result__"; its output is then bound
// under the step's own key. The terminal value is always whatever
// "__result__" is bound to once every step has run.
package executor

import (
	"github.com/carloshernandez2/clj-db/internal/query"
)

// resultKey is the reserved environment key the executor threads
// between steps and materializes at the end (spec.md §4.6).
const resultKey = "__result__"

// Step is one named stage of a Plan: a chain of operators applied in
// order, starting from the environment's current "__result__" binding
// (empty if none yet) and bound under Key once the chain completes.
type Step struct {
	Key   string
	Chain []query.Operator
}

// Plan is an ordered list of steps.
type Plan []Step

// Execute runs plan against a fresh environment, closing every
// resource the chain opened (scans' underlying files) exactly once
// before returning, and materializes the final "__result__" binding's
// rows into ordinary maps keyed by column name.
func Execute(plan Plan) ([]map[string]any, error) {
	if len(plan) == 0 {
		return nil, nil
	}

	env := query.NewEnv()
	defer env.Close()

	for _, step := range plan {
		in, _ := env.Bound[resultKey]
		rs, err := runChain(env, step.Chain, in)
		if err != nil {
			return nil, err
		}
		env.Bound[step.Key] = rs
	}

	return materialize(env.Bound[resultKey])
}

func runChain(env *query.Env, chain []query.Operator, in query.ResultSet) (query.ResultSet, error) {
	rs := in
	for _, op := range chain {
		next, err := op(env, rs)
		if err != nil {
			return query.ResultSet{}, err
		}
		rs = next
	}
	return rs, nil
}

func materialize(rs query.ResultSet) ([]map[string]any, error) {
	names := rs.Columns.Names()
	var out []map[string]any
	for row, err := range rs.Rows {
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, len(names))
		for i, name := range names {
			m[name] = row[i].Native()
		}
		out = append(out, m)
	}
	return out, nil
}
