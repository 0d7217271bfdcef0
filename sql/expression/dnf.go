// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expression

import "gopkg.in/src-d/go-bqsql.v0/sql"

// ToDNF distributes conjunctions over disjunctions and returns the branches
// of the resulting disjunctive normal form, each branch being the list of its
// conjuncts. Negations and comparisons are kept as opaque leaves.
//
// The tree is folded bottom-up with an explicit work list, so deeply nested
// predicates do not grow the call stack.
func ToDNF(pred sql.Expression) [][]sql.Expression {
	if pred == nil {
		return nil
	}

	type frame struct {
		expr     sql.Expression
		expanded bool
	}

	work := []frame{{expr: pred}}
	var results [][][]sql.Expression

	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		var children []sql.Expression
		switch e := f.expr.(type) {
		case *Conjunction:
			children = e.Predicates
		case *Disjunction:
			children = e.Predicates
		default:
			results = append(results, [][]sql.Expression{{f.expr}})
			continue
		}

		if !f.expanded {
			work = append(work, frame{expr: f.expr, expanded: true})
			for i := len(children) - 1; i >= 0; i-- {
				work = append(work, frame{expr: children[i]})
			}
			continue
		}

		n := len(children)
		parts := results[len(results)-n:]

		var merged [][]sql.Expression
		if _, ok := f.expr.(*Conjunction); ok {
			merged = [][]sql.Expression{nil}
			for _, p := range parts {
				merged = cartesian(merged, p)
			}
		} else {
			for _, p := range parts {
				merged = append(merged, p...)
			}
		}

		results = append(results[:len(results)-n], merged)
	}

	return results[0]
}

func cartesian(left, right [][]sql.Expression) [][]sql.Expression {
	result := make([][]sql.Expression, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			branch := make([]sql.Expression, 0, len(l)+len(r))
			branch = append(branch, l...)
			branch = append(branch, r...)
			result = append(result, branch)
		}
	}
	return result
}

// FromDNF builds the predicate of the given branches.
func FromDNF(branches [][]sql.Expression) sql.Expression {
	disjuncts := make([]sql.Expression, len(branches))
	for i, b := range branches {
		disjuncts[i] = NewConjunction(b...)
	}
	return NewDisjunction(disjuncts...)
}
