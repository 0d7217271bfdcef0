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
	"strings"

	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

// ExpandTable fills the projection of a table subquery with one base column
// per column of the table, in table order. When the columns of the table
// cannot be looked up, the projection selects every column with *.
func ExpandTable(ctx *sql.Context, sq *plan.Subquery) error {
	table, ok := sq.Table()
	if !ok {
		return sql.ErrTreeShape.New("expanding a subquery that does not wrap a table")
	}

	if err := table.ResolveDataset(ctx); err != nil {
		if !sql.ErrLookupFailed.Is(err) {
			return err
		}
		ctx.Logger().WithError(err).Warnf("unable to resolve dataset of table %s", table.Name)
	}

	proj := sq.Statement().Projection
	columns, err := ctx.Lookup.Columns(ctx, table.Project, table.Dataset, table.Name, sql.AnyPattern)
	if err != nil {
		ctx.Logger().WithError(err).Warnf("unable to list columns of table %s, selecting all of them", table.FullName())
		proj.Star = true
		return nil
	}

	if len(columns) == 0 {
		ctx.Logger().Debugf("no columns known for table %s, selecting all of them", table.FullName())
		proj.Star = true
		return nil
	}

	for _, name := range columns {
		col, err := expression.NewColumnCall(ctx, name, nil, "")
		if err != nil {
			return err
		}
		proj.Add(col)
	}

	return nil
}

// ExpandStar returns one column per item projected by the subquery, in
// projection order, each pointing at the item it re-projects. With
// propagateUID the columns expose the unique id of their item instead of a
// fresh one. Cross join key columns are skipped.
func ExpandStar(ctx *sql.Context, sq *plan.Subquery, propagateUID bool) ([]sql.Projected, error) {
	var result []sql.Projected
	for _, item := range sq.Items() {
		if isEquivalentColumn(item) {
			continue
		}

		col, err := expression.NewPointingColumnCall(ctx, item, []string{sq.Alias()})
		if err != nil {
			return nil, err
		}

		if propagateUID {
			col.SetUniqueID(item.UniqueID())
		}
		result = append(result, col)
	}
	return result, nil
}

// ExpandStatementStar expands SELECT * over every source of the statement.
// When the sources are the branches of a union, the columns of the first
// branch are expanded and point at the columns in the same position of the
// other branches as well.
func ExpandStatementStar(ctx *sql.Context, stmt *plan.SelectStatement) ([]sql.Projected, error) {
	if stmt.From == nil {
		return nil, nil
	}

	sources := stmt.From.Subqueries()
	if stmt.From.Union && len(sources) > 0 {
		return expandUnionStar(ctx, sources, nil)
	}

	var result []sql.Projected
	for _, sq := range sources {
		if sq.Statement().Projection.Star {
			stmt.Projection.Star = true
		}

		items, err := ExpandStar(ctx, sq, false)
		if err != nil {
			return nil, err
		}
		result = append(result, items...)
	}
	return result, nil
}

func expandUnionStar(ctx *sql.Context, branches []*plan.Subquery, keep func(sql.Projected) bool) ([]sql.Projected, error) {
	first := branches[0]
	var result []sql.Projected
	for i, item := range first.Items() {
		if isEquivalentColumn(item) || (keep != nil && !keep(item)) {
			continue
		}

		var extras []sql.Projected
		for _, b := range branches[1:] {
			items := b.Items()
			if i >= len(items) {
				return nil, sql.ErrTreeShape.New("union branches with a different number of columns")
			}
			extras = append(extras, items[i])
		}

		col, err := expression.NewColumnCall(ctx, item.Name(), nil, "")
		if err != nil {
			return nil, err
		}

		if err := col.PointTo(item, extras...); err != nil {
			return nil, err
		}
		result = append(result, col)
	}
	return result, nil
}

// ExpandQualifiedStar expands scope.* into the columns of the statement
// sources that can be referenced as scope.name, name having no further dot.
func ExpandQualifiedStar(ctx *sql.Context, stmt *plan.SelectStatement, scope string) ([]sql.Projected, error) {
	if stmt.From == nil {
		return nil, sql.ErrColumnNotFound.New(scope + ".*")
	}

	prefix := strings.ToLower(scope) + "."
	keep := func(item sql.Projected) bool {
		for _, syn := range item.Synonyms() {
			syn = strings.ToLower(syn)
			if strings.HasPrefix(syn, prefix) && !strings.Contains(syn[len(prefix):], ".") {
				return true
			}
		}
		return false
	}

	sources := stmt.From.Subqueries()
	if stmt.From.Union && len(sources) > 0 {
		result, err := expandUnionStar(ctx, sources, keep)
		if err == nil && len(result) == 0 {
			return nil, sql.ErrColumnNotFound.New(scope + ".*")
		}
		return result, err
	}

	var result []sql.Projected
	var star bool
	for _, sq := range sources {
		for _, item := range sq.Items() {
			if isEquivalentColumn(item) || !keep(item) {
				continue
			}

			col, err := expression.NewPointingColumnCall(ctx, item, []string{sq.Alias()})
			if err != nil {
				return nil, err
			}
			result = append(result, col)
		}

		if sq.Statement().Projection.Star && matchesQualifier(sq, prefix) {
			star = true
		}
	}

	if len(result) == 0 {
		if star {
			stmt.Projection.Star = true
			return nil, nil
		}
		return nil, sql.ErrColumnNotFound.New(scope + ".*")
	}

	return result, nil
}

func matchesQualifier(sq *plan.Subquery, prefix string) bool {
	for _, q := range sq.Qualifiers() {
		if strings.ToLower(q)+"." == prefix {
			return true
		}
	}
	return false
}

func isEquivalentColumn(item sql.Projected) bool {
	c, ok := item.(*expression.Computed)
	return ok && c.IsEquivalentColumn()
}
