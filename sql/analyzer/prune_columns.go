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
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

// pruneColumns removes the columns of nested subqueries nothing uses.
func pruneColumns(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("prune_columns")
	defer span.Finish()

	removed, err := PruneColumns(ctx, n)
	if err != nil {
		return nil, err
	}

	a.Log("pruned %d columns", removed)
	return n, nil
}

// PruneColumns removes from every subquery reachable from node the columns
// no other node points at, except base columns read from a table. The
// projection of node itself is never pruned, nor the projections of
// subqueries used as operands or selecting DISTINCT rows, and a projection
// always keeps at least one column. Removing a column can leave the column
// it pointed at unused, so the walk is repeated until nothing is removed: a
// second call on the same tree removes nothing.
func PruneColumns(ctx *sql.Context, node sql.Node) (int, error) {
	var total int
	for {
		removed, err := pruneOnce(ctx, node)
		if err != nil {
			return total, err
		}

		if removed == 0 {
			return total, nil
		}
		total += removed
	}
}

func pruneOnce(ctx *sql.Context, node sql.Node) (int, error) {
	var removed int
	for _, sq := range plan.Subqueries(node) {
		if sq == node || sq.IsExpr() {
			continue
		}

		stmt := sq.Statement()
		if stmt.Distinct {
			continue
		}

		proj := stmt.Projection
		for _, item := range append([]sql.Projected(nil), proj.Items...) {
			col, ok := item.(*expression.ColumnCall)
			if !ok || col.IsBase() || col.IsPointedTo() {
				continue
			}

			if len(proj.Items) == 1 && !proj.Star {
				continue
			}

			col.Unresolve()
			proj.Remove(col.ID())
			if err := ctx.Graph.Remove(col.ID()); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}
