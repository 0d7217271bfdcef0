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

package parse // import "gopkg.in/src-d/go-bqsql.v0/sql/parse"

import (
	"bufio"
	"io"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"gopkg.in/src-d/go-bqsql.v0/sql"
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
	errors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"
)

var (
	// ErrUnsupportedSyntax is thrown when a specific syntax is not already supported
	ErrUnsupportedSyntax = errors.NewKind("unsupported syntax: %#v")

	// ErrUnsupportedFeature is thrown when a feature is not already supported
	ErrUnsupportedFeature = errors.NewKind("unsupported feature: %s")

	// ErrInvalidSQLValType is returned when a SQLVal type is not valid.
	ErrInvalidSQLValType = errors.NewKind("invalid SQLVal of type: %d")

	// ErrInvalidSortOrder is returned when a sort order is not valid.
	ErrInvalidSortOrder = errors.NewKind("invalid sort order: %s")

	// ErrEmptyQuery is returned when nothing but comments is given.
	ErrEmptyQuery = errors.NewKind("query is empty")

	// ErrUnterminatedTableName is returned when a [table] name is not closed.
	ErrUnterminatedTableName = errors.NewKind("unterminated table name starting at %q")
)

// Parse parses the given SELECT statement and builds its rewrite tree. Every
// table is expanded into its columns, every column reference is pointed at
// the item it names and the implicit joins of the FROM clause are made
// explicit, so the result can be rendered as soon as it is analyzed.
func Parse(ctx *sql.Context, query string) (*plan.SelectStatement, error) {
	span, ctx := ctx.Span("parse", opentracing.Tag{Key: "query", Value: query})
	defer span.Finish()

	s, err := normalize(query)
	if err != nil {
		return nil, err
	}

	if s == "" {
		return nil, ErrEmptyQuery.New()
	}

	stmt, err := sqlparser.Parse(s)
	if err != nil {
		return nil, err
	}

	switch n := stmt.(type) {
	case *sqlparser.Select:
		return convertSelect(ctx, n, nil)
	case *sqlparser.Union:
		return nil, ErrUnsupportedFeature.New("UNION")
	default:
		return nil, ErrUnsupportedSyntax.New(n)
	}
}

// normalize strips the comments and the final semicolon of the query and
// turns the bracketed table names of the dialect into quoted identifiers the
// parser understands.
func normalize(query string) (string, error) {
	s := strings.TrimSpace(removeComments(query))
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	return quoteTableNames(s)
}

// quoteTableNames rewrites [project:dataset.table] as
// `project:dataset`.`table`. Brackets inside strings and quoted identifiers
// are kept as they are.
func quoteTableNames(s string) (string, error) {
	r := bufio.NewReader(strings.NewReader(s))
	var result []rune
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		switch ru {
		case '\'', '"':
			result = append(result, ru)
			result = append(result, readString(r, ru == '\'')...)
		case '`':
			result = append(result, ru)
			result = append(result, readUntil(r, '`')...)
		case '[':
			name := readUntil(r, ']')
			if len(name) == 0 || name[len(name)-1] != ']' {
				return "", ErrUnterminatedTableName.New(string(name))
			}
			result = append(result, []rune(quoteTableName(string(name[:len(name)-1])))...)
		default:
			result = append(result, ru)
		}
	}
	return string(result), nil
}

func quoteTableName(name string) string {
	name = strings.TrimSpace(name)
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "`" + name + "`"
	}
	return "`" + name[:i] + "`.`" + name[i+1:] + "`"
}

// splitQualifier splits a table qualifier in its project and dataset.
func splitQualifier(q string) (project, dataset string) {
	if i := strings.Index(q, ":"); i >= 0 {
		return q[:i], q[i+1:]
	}
	return "", q
}

func readUntil(r *bufio.Reader, end rune) []rune {
	var result []rune
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		result = append(result, ru)
		if ru == end {
			break
		}
	}
	return result
}

func removeComments(s string) string {
	r := bufio.NewReader(strings.NewReader(s))
	var result []rune
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		switch ru {
		case '\'', '"':
			result = append(result, ru)
			result = append(result, readString(r, ru == '\'')...)
		case '-':
			peeked, err := r.Peek(2)
			if err == nil &&
				len(peeked) == 2 &&
				rune(peeked[0]) == '-' &&
				rune(peeked[1]) == ' ' {
				discardUntilEOL(r)
			} else {
				result = append(result, ru)
			}
		case '#':
			discardUntilEOL(r)
		case '/':
			peeked, err := r.Peek(1)
			if err == nil &&
				len(peeked) == 1 &&
				rune(peeked[0]) == '*' {
				// read the char we peeked
				_, _, _ = r.ReadRune()
				discardMultilineComment(r)
			} else {
				result = append(result, ru)
			}
		default:
			result = append(result, ru)
		}
	}
	return string(result)
}

func discardUntilEOL(r *bufio.Reader) {
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if ru == '\n' {
			break
		}
	}
}

func discardMultilineComment(r *bufio.Reader) {
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if ru == '*' {
			peeked, err := r.Peek(1)
			if err == nil && len(peeked) == 1 && rune(peeked[0]) == '/' {
				// read the rune we just peeked
				_, _, _ = r.ReadRune()
				break
			}
		}
	}
}

func readString(r *bufio.Reader, single bool) []rune {
	var result []rune
	var escaped bool
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		result = append(result, ru)
		if (!single && ru == '"' && !escaped) ||
			(single && ru == '\'' && !escaped) {
			break
		}
		escaped = false
		if ru == '\\' {
			escaped = true
		}
	}
	return result
}
