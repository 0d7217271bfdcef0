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
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

// DefaultRules to apply when analyzing nodes.
var DefaultRules = []Rule{
	{"resolve_late", resolveLate},
}

// OnceAfterDefault contains the rules to be applied just once after the
// DefaultRules.
var OnceAfterDefault = []Rule{
	{"prune_columns", pruneColumns},
}

// DefaultValidationRules to apply while analyzing nodes.
var DefaultValidationRules = []Rule{
	{"validate_tree", validateTree},
	{"validate_unions", validateUnions},
}

// OnceAfterAll contains the rules to be applied just once after all other
// rules have been applied.
var OnceAfterAll = []Rule{
	{"assign_output_names", assignOutputNames},
}

// assignOutputNames names the columns of the outermost statement the way
// the query named them.
func assignOutputNames(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	stmt, ok := n.(*plan.SelectStatement)
	if !ok {
		return nil, ErrInvalidNodeType.New("assign_output_names", n)
	}

	a.Log("assigning output names to %d columns", len(stmt.Projection.Items))
	stmt.Projection.AssignOutputNames()
	return n, nil
}
