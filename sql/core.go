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

package sql

import "strings"

// Kind identifies the concrete type of a Node. The set of kinds is closed.
type Kind byte

const (
	// KindSelect is a SELECT statement.
	KindSelect Kind = iota + 1
	// KindSubquery is a parenthesized statement with an alias.
	KindSubquery
	// KindSourceTable is a physical table of the backend.
	KindSourceTable
	// KindFrom is the FROM clause of a statement.
	KindFrom
	// KindJoin is a join between two subqueries.
	KindJoin
	// KindOn is the ON clause of a join.
	KindOn
	// KindProjection is the list of projected items of a statement.
	KindProjection
	// KindWhere is the WHERE clause of a statement.
	KindWhere
	// KindGroupBy is the GROUP BY clause of a statement.
	KindGroupBy
	// KindHaving is the HAVING clause of a statement.
	KindHaving
	// KindOrderBy is the ORDER BY clause of a statement.
	KindOrderBy
	// KindLimit is the LIMIT clause of a statement.
	KindLimit
	// KindColumnCall is a projected column.
	KindColumnCall
	// KindFunctionCall is a projected function call.
	KindFunctionCall
	// KindComputed is any other projected expression.
	KindComputed
	// KindColumnReference is a usage of a column outside a projection.
	KindColumnReference
	// KindLiteral is a constant value.
	KindLiteral
	// KindTuple is a parenthesized list of values.
	KindTuple
	// KindRange is the operand of a BETWEEN comparison.
	KindRange
	// KindArithmetic is a binary or unary arithmetic expression.
	KindArithmetic
	// KindCase is a CASE expression.
	KindCase
	// KindComparison is a leaf of a boolean predicate.
	KindComparison
	// KindConjunction is an AND of predicates.
	KindConjunction
	// KindDisjunction is an OR of predicates.
	KindDisjunction
	// KindNegation is a NOT of a predicate.
	KindNegation
)

var kindNames = map[Kind]string{
	KindSelect:          "Select",
	KindSubquery:        "Subquery",
	KindSourceTable:     "SourceTable",
	KindFrom:            "From",
	KindJoin:            "Join",
	KindOn:              "On",
	KindProjection:      "Projection",
	KindWhere:           "Where",
	KindGroupBy:         "GroupBy",
	KindHaving:          "Having",
	KindOrderBy:         "OrderBy",
	KindLimit:           "Limit",
	KindColumnCall:      "ColumnCall",
	KindFunctionCall:    "FunctionCall",
	KindComputed:        "Computed",
	KindColumnReference: "ColumnReference",
	KindLiteral:         "Literal",
	KindTuple:           "Tuple",
	KindRange:           "Range",
	KindArithmetic:      "Arithmetic",
	KindCase:            "Case",
	KindComparison:      "Comparison",
	KindConjunction:     "Conjunction",
	KindDisjunction:     "Disjunction",
	KindNegation:        "Negation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is a node of the rewrite tree.
type Node interface {
	// Kind returns the kind of the node.
	Kind() Kind
	// Children returns the children of the node.
	Children() []Node
	// Render returns the dialect text of the node. A negative level renders
	// on a single line, otherwise the output is indented starting at the
	// given level.
	Render(level int) string
}

// Expression is a node that can be used as an operand.
type Expression interface {
	Node
	// RenderExpr returns the text of the node when used as an operand.
	RenderExpr() string
}

// Scope is the statement projected items belong to. Other statements use
// its qualifiers to reference those items.
type Scope interface {
	// Qualifier returns the prefix used to render references to the items of
	// this scope from other statements. ok is false when the items must be
	// referenced unqualified.
	Qualifier() (q string, ok bool)
	// Qualifiers returns every prefix the items of this scope can be
	// referenced by in the input query.
	Qualifiers() []string
	// Transparent reports whether the items of this scope expose the
	// synonyms of the items they point to.
	Transparent() bool
}

// Projected is an item of a projection. Projected items are registered in the
// session Graph and can be pointed at by other nodes.
type Projected interface {
	Expression
	// ID is the graph id of the item.
	ID() NodeID
	// Name is the name the item carries forward: its alias if it has one,
	// its source column name otherwise.
	Name() string
	// UniqueID is the synthetic name the item is exposed as.
	UniqueID() string
	// SetUniqueID overwrites the exposed unique id.
	SetUniqueID(string)
	// OutputName is the name rendered after AS.
	OutputName() string
	// SetOutputName overrides the output name.
	SetOutputName(string)
	// Scope returns the statement the item belongs to.
	Scope() Scope
	// SetScope sets the statement the item belongs to.
	SetScope(Scope)
	// Synonyms returns every name the item can be referenced by.
	Synonyms() []string
}

// Clause is the part of a statement a column reference appears in. It drives
// how strict column resolution is.
type Clause byte

const (
	// ClauseProjection is the SELECT list.
	ClauseProjection Clause = iota
	// ClauseWhere is the WHERE clause.
	ClauseWhere
	// ClauseHaving is the HAVING clause.
	ClauseHaving
	// ClauseOn is the ON clause of a join.
	ClauseOn
	// ClauseOrderBy is the ORDER BY clause.
	ClauseOrderBy
	// ClauseGroupBy is the GROUP BY clause.
	ClauseGroupBy
	// ClauseFunctionParam is the parameter list of a function.
	ClauseFunctionParam
)

func (c Clause) String() string {
	switch c {
	case ClauseProjection:
		return "SELECT"
	case ClauseWhere:
		return "WHERE"
	case ClauseHaving:
		return "HAVING"
	case ClauseOn:
		return "ON"
	case ClauseOrderBy:
		return "ORDER BY"
	case ClauseGroupBy:
		return "GROUP BY"
	case ClauseFunctionParam:
		return "function parameter"
	default:
		return "unknown clause"
	}
}

// Tolerant reports whether a column that cannot be resolved in this clause
// is left unresolved instead of failing the rewrite.
func (c Clause) Tolerant() bool {
	return c != ClauseProjection
}

// Indent returns the indentation for the given render level.
func Indent(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("\t", level)
}

// Pretty reports whether the level asks for indented output.
func Pretty(level int) bool {
	return level >= 0
}

// Deeper returns the level of a nested node, keeping compact mode compact.
func Deeper(level int) int {
	if level < 0 {
		return level
	}
	return level + 1
}
