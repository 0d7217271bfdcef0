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

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/analyzer"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"
)

// exprToExpression converts the parsed expression, resolving its column
// references against res as they are built.
func exprToExpression(ctx *sql.Context, e sqlparser.Expr, res *analyzer.Resolution) (sql.Expression, error) {
	switch v := e.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(e)
	case *sqlparser.SQLVal:
		return convertVal(v)
	case sqlparser.BoolVal:
		return expression.NewLiteral(bool(v)), nil
	case *sqlparser.NullVal:
		return expression.NewLiteral(nil), nil
	case *sqlparser.ColName:
		ref := expression.NewColumnReference(ctx, v.Name.String(), columnPrefixes(v))
		if err := analyzer.ResolveColumn(ctx, ref, res); err != nil {
			return nil, err
		}
		return ref, nil
	case *sqlparser.ParenExpr:
		return exprToExpression(ctx, v.Expr, res)
	case *sqlparser.AndExpr:
		lhs, rhs, err := binaryOperands(ctx, v.Left, v.Right, res)
		if err != nil {
			return nil, err
		}
		return expression.NewConjunction(lhs, rhs), nil
	case *sqlparser.OrExpr:
		lhs, rhs, err := binaryOperands(ctx, v.Left, v.Right, res)
		if err != nil {
			return nil, err
		}
		return expression.NewDisjunction(lhs, rhs), nil
	case *sqlparser.NotExpr:
		c, err := exprToExpression(ctx, v.Expr, res)
		if err != nil {
			return nil, err
		}
		return expression.NewNegation(c), nil
	case *sqlparser.ComparisonExpr:
		return comparisonExprToExpression(ctx, v, res)
	case *sqlparser.IsExpr:
		return isExprToExpression(ctx, v, res)
	case *sqlparser.RangeCond:
		return rangeCondToExpression(ctx, v, res)
	case *sqlparser.ExistsExpr:
		sq, err := subqueryToExpression(ctx, v.Subquery, res)
		if err != nil {
			return nil, err
		}
		return expression.NewComparison(nil, expression.OpExists, sq), nil
	case *sqlparser.Subquery:
		return subqueryToExpression(ctx, v, res)
	case sqlparser.ValTuple:
		exprs, err := exprsToExpressions(ctx, []sqlparser.Expr(v), res)
		if err != nil {
			return nil, err
		}
		return expression.NewTuple(exprs...), nil
	case *sqlparser.BinaryExpr:
		lhs, rhs, err := binaryOperands(ctx, v.Left, v.Right, res)
		if err != nil {
			return nil, err
		}
		return expression.NewArithmetic(lhs, v.Operator, rhs), nil
	case *sqlparser.UnaryExpr:
		c, err := exprToExpression(ctx, v.Expr, res)
		if err != nil {
			return nil, err
		}
		return expression.NewUnary(v.Operator, c), nil
	case *sqlparser.FuncExpr:
		return funcExprToFunctionCall(ctx, v, "", res)
	case *sqlparser.CaseExpr:
		return caseExprToExpression(ctx, v, res)
	}
}

func binaryOperands(
	ctx *sql.Context,
	left, right sqlparser.Expr,
	res *analyzer.Resolution,
) (sql.Expression, sql.Expression, error) {
	lhs, err := exprToExpression(ctx, left, res)
	if err != nil {
		return nil, nil, err
	}

	rhs, err := exprToExpression(ctx, right, res)
	if err != nil {
		return nil, nil, err
	}

	return lhs, rhs, nil
}

func exprsToExpressions(ctx *sql.Context, exprs []sqlparser.Expr, res *analyzer.Resolution) ([]sql.Expression, error) {
	result := make([]sql.Expression, len(exprs))
	for i, e := range exprs {
		expr, err := exprToExpression(ctx, e, res)
		if err != nil {
			return nil, err
		}
		result[i] = expr
	}
	return result, nil
}

func convertVal(v *sqlparser.SQLVal) (sql.Expression, error) {
	switch v.Type {
	case sqlparser.StrVal:
		return expression.NewLiteral(string(v.Val)), nil
	case sqlparser.IntVal:
		n, err := cast.ToInt64E(string(v.Val))
		if err != nil {
			// out of range integers are kept as written
			return expression.NewRawLiteral(string(v.Val)), nil
		}
		return expression.NewLiteral(n), nil
	case sqlparser.FloatVal:
		return expression.NewRawLiteral(string(v.Val)), nil
	case sqlparser.HexNum:
		return expression.NewRawLiteral(string(v.Val)), nil
	}

	return nil, ErrInvalidSQLValType.New(v.Type)
}

func comparisonExprToExpression(
	ctx *sql.Context,
	c *sqlparser.ComparisonExpr,
	res *analyzer.Resolution,
) (sql.Expression, error) {
	switch c.Operator {
	case sqlparser.RegexpStr, sqlparser.NotRegexpStr, sqlparser.NullSafeEqualStr:
		return nil, ErrUnsupportedFeature.New(c.Operator)
	}

	if c.Escape != nil {
		return nil, ErrUnsupportedFeature.New("LIKE with ESCAPE")
	}

	left, right, err := binaryOperands(ctx, c.Left, c.Right, res)
	if err != nil {
		return nil, err
	}

	return expression.NewComparison(left, c.Operator, right), nil
}

func isExprToExpression(ctx *sql.Context, c *sqlparser.IsExpr, res *analyzer.Resolution) (sql.Expression, error) {
	e, err := exprToExpression(ctx, c.Expr, res)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(c.Operator) {
	case sqlparser.IsNullStr:
		return expression.NewComparison(e, expression.OpIsNull, nil), nil
	case sqlparser.IsNotNullStr:
		return expression.NewComparison(e, expression.OpIsNotNull, nil), nil
	default:
		return nil, ErrUnsupportedFeature.New(c.Operator)
	}
}

func rangeCondToExpression(ctx *sql.Context, c *sqlparser.RangeCond, res *analyzer.Resolution) (sql.Expression, error) {
	val, err := exprToExpression(ctx, c.Left, res)
	if err != nil {
		return nil, err
	}

	from, to, err := binaryOperands(ctx, c.From, c.To, res)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case sqlparser.BetweenStr, sqlparser.NotBetweenStr:
		return expression.NewComparison(val, c.Operator, expression.NewRange(from, to)), nil
	default:
		return nil, ErrUnsupportedFeature.New(c.Operator)
	}
}

func caseExprToExpression(ctx *sql.Context, c *sqlparser.CaseExpr, res *analyzer.Resolution) (sql.Expression, error) {
	var value sql.Expression
	if c.Expr != nil {
		var err error
		if value, err = exprToExpression(ctx, c.Expr, res); err != nil {
			return nil, err
		}
	}

	var whens []expression.When
	for _, w := range c.Whens {
		cond, val, err := binaryOperands(ctx, w.Cond, w.Val, res)
		if err != nil {
			return nil, err
		}
		whens = append(whens, expression.When{Cond: cond, Val: val})
	}

	var elseExpr sql.Expression
	if c.Else != nil {
		var err error
		if elseExpr, err = exprToExpression(ctx, c.Else, res); err != nil {
			return nil, err
		}
	}

	return expression.NewCase(value, whens, elseExpr), nil
}

// subqueryToExpression builds a subquery used as an operand. Its columns are
// resolved against its own sources first, then against res.
func subqueryToExpression(ctx *sql.Context, s *sqlparser.Subquery, res *analyzer.Resolution) (*plan.Subquery, error) {
	sel, ok := s.Select.(*sqlparser.Select)
	if !ok {
		return nil, ErrUnsupportedFeature.New("UNION in subquery")
	}

	stmt, err := convertSelect(ctx, sel, res)
	if err != nil {
		return nil, err
	}

	sq, err := plan.NewSubquery(ctx, stmt, "")
	if err != nil {
		return nil, err
	}
	sq.SetExpr(true)
	return sq, nil
}

// funcExprToFunctionCall builds a function call. Its parameters never fail
// to resolve: they are retried once the whole tree is built. COUNT(*) points
// at the first column of the first source so the column is never pruned.
func funcExprToFunctionCall(
	ctx *sql.Context,
	f *sqlparser.FuncExpr,
	alias string,
	res *analyzer.Resolution,
) (*expression.FunctionCall, error) {
	if !f.Qualifier.IsEmpty() {
		return nil, ErrUnsupportedFeature.New("qualified function " + f.Qualifier.String() + "." + f.Name.String())
	}

	params := res.WithClause(sql.ClauseFunctionParam)

	var exprs []sql.Expression
	for _, se := range f.Exprs {
		switch e := se.(type) {
		case *sqlparser.StarExpr:
			ref := expression.NewStarReference(ctx)
			if res.Stmt != nil {
				ref.SetScope(res.Stmt)
			}

			if first, ok := firstSourceItem(res); ok {
				if err := ref.PointTo(first); err != nil {
					return nil, err
				}
			}
			exprs = append(exprs, ref)
		case *sqlparser.AliasedExpr:
			expr, err := exprToExpression(ctx, e.Expr, params)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		default:
			return nil, ErrUnsupportedSyntax.New(se)
		}
	}

	return expression.NewFunctionCall(ctx, f.Name.String(), alias, f.Distinct, exprs...)
}

func firstSourceItem(res *analyzer.Resolution) (sql.Projected, bool) {
	for _, sq := range res.Sources {
		for _, item := range sq.Items() {
			if c, ok := item.(*expression.Computed); ok && c.IsEquivalentColumn() {
				continue
			}
			return item, true
		}
	}
	return nil, false
}

// columnPrefixes returns the qualifiers written before a column name.
func columnPrefixes(c *sqlparser.ColName) []string {
	var prefixes []string
	if !c.Qualifier.Qualifier.IsEmpty() {
		prefixes = append(prefixes, c.Qualifier.Qualifier.String())
	}
	if !c.Qualifier.Name.IsEmpty() {
		prefixes = append(prefixes, c.Qualifier.Name.String())
	}
	return prefixes
}
