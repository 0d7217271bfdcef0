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

package plan

import (
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/expression"
)

var _ expression.Copyable = (*Subquery)(nil)

// Copy implements the expression.Copyable interface. The statement is copied
// along with every source it reads from, each subquery and projected item
// under a fresh unique id.
func (s *Subquery) Copy(c *expression.Copier) (sql.Expression, error) {
	stmt, err := copyStatement(c, s.stmt)
	if err != nil {
		return nil, err
	}

	sq, err := NewSubquery(c.Context(), stmt, s.alias)
	if err != nil {
		return nil, err
	}
	sq.inJoin = s.inJoin
	sq.union = s.union
	sq.transparent = s.transparent
	sq.expr = s.expr
	return sq, nil
}

func copyStatement(c *expression.Copier, s *SelectStatement) (*SelectStatement, error) {
	n := &SelectStatement{Distinct: s.Distinct}
	n.Projection = NewProjection(n)
	n.Projection.Star = s.Projection.Star
	c.MapScope(s, n)

	if s.From != nil {
		from, err := copyFrom(c, s.From)
		if err != nil {
			return nil, err
		}
		n.From = from
	}

	for _, item := range s.Projection.Items {
		p, err := c.Item(item)
		if err != nil {
			return nil, err
		}
		n.Projection.Add(p)
	}

	if s.Where != nil {
		pred, err := c.Copy(s.Where.Predicate)
		if err != nil {
			return nil, err
		}
		n.Where = &Where{Predicate: pred}
	}

	if s.GroupBy != nil {
		exprs, err := c.CopyAll(s.GroupBy.Exprs)
		if err != nil {
			return nil, err
		}
		n.GroupBy = &GroupBy{Exprs: exprs}
	}

	if s.Having != nil {
		pred, err := c.Copy(s.Having.Predicate)
		if err != nil {
			return nil, err
		}
		n.Having = &Having{Predicate: pred}
	}

	if s.OrderBy != nil {
		fields := make([]SortField, len(s.OrderBy.Fields))
		for i, f := range s.OrderBy.Fields {
			expr, err := c.Copy(f.Expr)
			if err != nil {
				return nil, err
			}
			fields[i] = SortField{Expr: expr, Desc: f.Desc}
		}
		n.OrderBy = &OrderBy{Fields: fields}
	}

	if s.Limit != nil {
		limit := *s.Limit
		n.Limit = &limit
	}

	return n, nil
}

func copyFrom(c *expression.Copier, f *FromClause) (*FromClause, error) {
	n := &FromClause{Union: f.Union}
	for _, item := range f.Items {
		switch item := item.(type) {
		case *Subquery:
			sq, err := copySubquery(c, item)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, sq)
		case *JoinExpression:
			j, err := copyJoin(c, item)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, j)
		case *SourceTable:
			t := *item
			n.Items = append(n.Items, &t)
		default:
			return nil, sql.ErrTreeShape.New("FROM item of kind " + item.Kind().String() + " cannot be copied")
		}
	}
	return n, nil
}

func copyJoin(c *expression.Copier, j *JoinExpression) (*JoinExpression, error) {
	left, err := copySubquery(c, j.Left)
	if err != nil {
		return nil, err
	}

	right, err := copySubquery(c, j.Right)
	if err != nil {
		return nil, err
	}

	n := &JoinExpression{Left: left, Right: right, Type: j.Type}
	if j.On != nil {
		conds, err := c.CopyAll(j.On.Conditions)
		if err != nil {
			return nil, err
		}
		n.On = &OnClause{Conditions: conds, Operators: append([]string(nil), j.On.Operators...)}
	}
	return n, nil
}

func copySubquery(c *expression.Copier, s *Subquery) (*Subquery, error) {
	e, err := c.Copy(s)
	if err != nil {
		return nil, err
	}
	return e.(*Subquery), nil
}
