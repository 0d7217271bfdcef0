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

package parse

import (
	"github.com/spf13/cast"
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/analyzer"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"
)

// convertSelect builds the statement of a SELECT. The clauses are built in
// the order their references can be resolved: FROM first, then WHERE, which
// drives join synthesis, then the projection and the clauses that may name
// projected items. outer is the resolution of the enclosing statement for
// subqueries used as operands, nil otherwise.
func convertSelect(ctx *sql.Context, s *sqlparser.Select, outer *analyzer.Resolution) (*plan.SelectStatement, error) {
	items, err := tableExprsToFrom(ctx, s.From)
	if err != nil {
		return nil, err
	}

	stmt := plan.NewSelectStatement(plan.NewFromClause(items...))

	if s.Where != nil {
		res := analyzer.NewResolution(stmt, sql.ClauseWhere, outer)
		pred, err := exprToExpression(ctx, s.Where.Expr, res)
		if err != nil {
			return nil, err
		}
		stmt.SetWhere(pred)
	}

	// a comma means UNION ALL in the dialect, so every FROM list becomes a
	// tree of joins
	if err := analyzer.SynthesizeJoins(ctx, stmt); err != nil {
		return nil, err
	}

	if err := selectExprsToProjection(ctx, s.SelectExprs, stmt, outer); err != nil {
		return nil, err
	}

	if len(s.GroupBy) > 0 {
		res := analyzer.NewResolution(stmt, sql.ClauseGroupBy, outer)
		g := &plan.GroupBy{}
		for _, e := range s.GroupBy {
			expr, err := exprToExpression(ctx, e, res)
			if err != nil {
				return nil, err
			}
			g.Exprs = append(g.Exprs, expr)
		}
		stmt.GroupBy = g
	}

	if s.Having != nil {
		res := analyzer.NewResolution(stmt, sql.ClauseHaving, outer)
		pred, err := exprToExpression(ctx, s.Having.Expr, res)
		if err != nil {
			return nil, err
		}
		stmt.Having = &plan.Having{Predicate: pred}
	}

	if len(s.OrderBy) > 0 {
		ob, err := orderByToOrderBy(ctx, s.OrderBy, analyzer.NewResolution(stmt, sql.ClauseOrderBy, outer))
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = ob
	}

	if s.Limit != nil {
		limit, err := limitToLimit(s.Limit)
		if err != nil {
			return nil, err
		}
		stmt.Limit = limit
	}

	stmt.Distinct = s.Distinct != ""

	return stmt, nil
}

func selectExprsToProjection(
	ctx *sql.Context,
	exprs sqlparser.SelectExprs,
	stmt *plan.SelectStatement,
	outer *analyzer.Resolution,
) error {
	res := analyzer.NewResolution(stmt, sql.ClauseProjection, outer)
	for _, se := range exprs {
		switch e := se.(type) {
		case *sqlparser.StarExpr:
			var items []sql.Projected
			var err error
			if e.TableName.IsEmpty() {
				items, err = analyzer.ExpandStatementStar(ctx, stmt)
			} else {
				items, err = analyzer.ExpandQualifiedStar(ctx, stmt, tableNameString(e.TableName))
			}
			if err != nil {
				return err
			}
			stmt.Projection.Add(items...)
		case *sqlparser.AliasedExpr:
			item, err := projectedItem(ctx, e.Expr, e.As.String(), res)
			if err != nil {
				return err
			}
			stmt.Projection.Add(item)
		default:
			return ErrUnsupportedSyntax.New(se)
		}
	}
	return nil
}

// projectedItem builds an item of the projection: a column, a function call
// or any other expression.
func projectedItem(ctx *sql.Context, e sqlparser.Expr, alias string, res *analyzer.Resolution) (sql.Projected, error) {
	switch v := e.(type) {
	case *sqlparser.ParenExpr:
		return projectedItem(ctx, v.Expr, alias, res)
	case *sqlparser.ColName:
		col, err := expression.NewColumnCall(ctx, v.Name.String(), columnPrefixes(v), alias)
		if err != nil {
			return nil, err
		}

		if err := analyzer.ResolveColumnCall(ctx, col, res); err != nil {
			return nil, err
		}
		return col, nil
	case *sqlparser.FuncExpr:
		return funcExprToFunctionCall(ctx, v, alias, res)
	default:
		expr, err := exprToExpression(ctx, e, res)
		if err != nil {
			return nil, err
		}
		return expression.NewComputed(ctx, expr, alias)
	}
}

func orderByToOrderBy(ctx *sql.Context, ob sqlparser.OrderBy, res *analyzer.Resolution) (*plan.OrderBy, error) {
	var fields []plan.SortField
	for _, o := range ob {
		e, err := exprToExpression(ctx, o.Expr, res)
		if err != nil {
			return nil, err
		}

		var desc bool
		switch o.Direction {
		default:
			return nil, ErrInvalidSortOrder.New(o.Direction)
		case sqlparser.AscScr:
		case sqlparser.DescScr:
			desc = true
		}

		fields = append(fields, plan.SortField{Expr: e, Desc: desc})
	}

	return &plan.OrderBy{Fields: fields}, nil
}

func limitToLimit(l *sqlparser.Limit) (*plan.Limit, error) {
	count, err := intValue(l.Rowcount)
	if err != nil {
		return nil, ErrUnsupportedFeature.New("LIMIT with non-integer literal")
	}

	limit := &plan.Limit{Count: count}
	if l.Offset != nil {
		offset, err := intValue(l.Offset)
		if err != nil {
			return nil, ErrUnsupportedFeature.New("OFFSET with non-integer literal")
		}
		limit.Offset = offset
	}

	return limit, nil
}

func intValue(e sqlparser.Expr) (int64, error) {
	v, ok := e.(*sqlparser.SQLVal)
	if !ok || v.Type != sqlparser.IntVal {
		return 0, ErrUnsupportedSyntax.New(e)
	}
	return cast.ToInt64E(string(v.Val))
}
