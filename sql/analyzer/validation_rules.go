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

package analyzer

import (
	"fmt"

	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

// validateTree checks the structural invariants of the tree: every subquery
// is the parent of its statement, every join has two sides and boolean
// connectives have at least two operands.
func validateTree(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, _ := ctx.Span("validate_tree")
	defer span.Finish()

	var err error
	plan.Inspect(n, func(node sql.Node) bool {
		if err != nil {
			return false
		}

		switch node := node.(type) {
		case *plan.Subquery:
			if node.Statement() == nil || node.Statement().Parent() != node {
				err = sql.ErrTreeShape.New(fmt.Sprintf("subquery %s is not the parent of its statement", node.Alias()))
			}
		case *plan.JoinExpression:
			if node.Left == nil || node.Right == nil {
				err = sql.ErrTreeShape.New("join without two sides")
			}
		case *expression.Conjunction:
			if len(node.Predicates) < 2 {
				err = sql.ErrTreeShape.New(fmt.Sprintf("conjunction of %d predicates", len(node.Predicates)))
			}
		case *expression.Disjunction:
			if len(node.Predicates) < 2 {
				err = sql.ErrTreeShape.New(fmt.Sprintf("disjunction of %d predicates", len(node.Predicates)))
			}
		}

		return node != nil
	})

	if err != nil {
		return nil, err
	}
	return n, nil
}

// validateUnions checks every branch of a union projects as many columns as
// the first one.
func validateUnions(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	for _, stmt := range plan.Statements(n) {
		if stmt.From == nil || !stmt.From.Union {
			continue
		}

		branches := stmt.From.Subqueries()
		for _, b := range branches[1:] {
			if len(b.Items()) != len(branches[0].Items()) {
				return nil, sql.ErrTreeShape.New(fmt.Sprintf(
					"union branch %s has %d columns, %d expected",
					b.Alias(), len(b.Items()), len(branches[0].Items()),
				))
			}
		}
	}

	a.Log("unions validated")
	return n, nil
}
