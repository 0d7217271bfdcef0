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
	"strings"

	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/analyzer"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"
)

// dualTable is the table the parser reports for a SELECT without FROM.
const dualTable = "dual"

func tableExprsToFrom(ctx *sql.Context, te sqlparser.TableExprs) ([]sql.Node, error) {
	var items []sql.Node
	for _, t := range te {
		if isDual(t) {
			continue
		}

		sq, err := tableExprToSubquery(ctx, t)
		if err != nil {
			return nil, err
		}
		items = append(items, sq)
	}
	return items, nil
}

func isDual(te sqlparser.TableExpr) bool {
	t, ok := te.(*sqlparser.AliasedTableExpr)
	if !ok {
		return false
	}

	name, ok := t.Expr.(sqlparser.TableName)
	return ok && name.Qualifier.IsEmpty() && strings.EqualFold(name.Name.String(), dualTable)
}

// tableExprToSubquery builds the subquery of a FROM item. Tables become
// subqueries projecting their columns and joins become subqueries projecting
// the columns of both sides.
func tableExprToSubquery(ctx *sql.Context, te sqlparser.TableExpr) (*plan.Subquery, error) {
	switch t := te.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(te)
	case *sqlparser.AliasedTableExpr:
		switch e := t.Expr.(type) {
		case sqlparser.TableName:
			project, dataset := splitQualifier(e.Qualifier.String())
			table := plan.NewSourceTable(project, dataset, e.Name.String(), t.As.String())

			sq, err := plan.NewTableSubquery(ctx, table)
			if err != nil {
				return nil, err
			}

			if err := analyzer.ExpandTable(ctx, sq); err != nil {
				return nil, err
			}
			return sq, nil
		case *sqlparser.Subquery:
			sel, ok := e.Select.(*sqlparser.Select)
			if !ok {
				return nil, ErrUnsupportedFeature.New("UNION in subquery")
			}

			stmt, err := convertSelect(ctx, sel, nil)
			if err != nil {
				return nil, err
			}
			return plan.NewSubquery(ctx, stmt, t.As.String())
		default:
			return nil, ErrUnsupportedSyntax.New(te)
		}
	case *sqlparser.ParenTableExpr:
		var result *plan.Subquery
		for _, inner := range t.Exprs {
			sq, err := tableExprToSubquery(ctx, inner)
			if err != nil {
				return nil, err
			}

			if result == nil {
				result = sq
				continue
			}

			j, err := analyzer.CrossJoin(ctx, result, sq)
			if err != nil {
				return nil, err
			}

			if result, err = analyzer.WrapJoin(ctx, j); err != nil {
				return nil, err
			}
		}

		if result == nil {
			return nil, ErrUnsupportedSyntax.New(te)
		}
		return result, nil
	case *sqlparser.JoinTableExpr:
		return joinTableExprToSubquery(ctx, t)
	}
}

func joinTableExprToSubquery(ctx *sql.Context, t *sqlparser.JoinTableExpr) (*plan.Subquery, error) {
	var typ plan.JoinType
	switch t.Join {
	case sqlparser.JoinStr, sqlparser.StraightJoinStr:
		typ = plan.JoinUnspecified
	case sqlparser.LeftJoinStr:
		typ = plan.JoinLeft
	case sqlparser.RightJoinStr:
		typ = plan.JoinRight
	default:
		return nil, ErrUnsupportedFeature.New(t.Join)
	}

	if len(t.Condition.Using) > 0 {
		return nil, ErrUnsupportedFeature.New("using clause on join")
	}

	left, err := tableExprToSubquery(ctx, t.LeftExpr)
	if err != nil {
		return nil, err
	}

	right, err := tableExprToSubquery(ctx, t.RightExpr)
	if err != nil {
		return nil, err
	}

	var j *plan.JoinExpression
	if t.Condition.On == nil {
		if typ != plan.JoinUnspecified {
			return nil, ErrUnsupportedFeature.New(t.Join + " without ON clause")
		}

		if j, err = analyzer.CrossJoin(ctx, left, right); err != nil {
			return nil, err
		}
	} else {
		res := &analyzer.Resolution{
			Sources: []*plan.Subquery{left, right},
			Clause:  sql.ClauseOn,
		}

		cond, err := exprToExpression(ctx, t.Condition.On, res)
		if err != nil {
			return nil, err
		}

		j = plan.NewJoinExpression(left, right, typ, plan.NewOnClause(expression.Conjuncts(cond)...))
	}

	return analyzer.WrapJoin(ctx, j)
}

func tableNameString(t sqlparser.TableName) string {
	if t.Qualifier.IsEmpty() {
		return t.Name.String()
	}
	return t.Qualifier.String() + "." + t.Name.String()
}
