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
	"gopkg.in/src-d/go-bqsql.v0/sql/plan"
)

// UnifyBranches makes the union branches compatible with the first one. The
// columns of every other branch are matched to the columns of the first one
// by the unique id of the source column at the end of their pointer chain,
// take the unique id of their match and are reordered to its position.
func UnifyBranches(ctx *sql.Context, branches []*plan.Subquery) error {
	if len(branches) < 2 {
		return nil
	}

	canonical := branches[0].Items()
	for _, b := range branches[1:] {
		proj := b.Statement().Projection
		if len(proj.Items) != len(canonical) {
			return sql.ErrTreeShape.New(fmt.Sprintf(
				"union branch %s has %d columns, %d expected",
				b.Alias(), len(proj.Items), len(canonical),
			))
		}

		used := make([]bool, len(proj.Items))
		ordered := make([]sql.Projected, len(canonical))
		for i, c := range canonical {
			uid := sourceUniqueID(ctx, c)
			for j, item := range proj.Items {
				if !used[j] && sourceUniqueID(ctx, item) == uid {
					used[j] = true
					ordered[i] = item
					break
				}
			}

			if ordered[i] == nil {
				return sql.ErrTreeShape.New(fmt.Sprintf(
					"union branch %s has no column matching %s",
					b.Alias(), c.Name(),
				))
			}

			ordered[i].SetUniqueID(c.UniqueID())
		}

		proj.Items = ordered
	}

	ctx.Logger().Debugf("unified %d union branches of %d columns", len(branches), len(canonical))
	return nil
}

// sourceUniqueID returns the unique id of the item at the end of the pointer
// chain of the given one.
func sourceUniqueID(ctx *sql.Context, item sql.Projected) string {
	n, ok := ctx.Graph.Node(ctx.Graph.Ultimate(item.ID()))
	if !ok {
		return item.UniqueID()
	}

	p, ok := n.(sql.Projected)
	if !ok {
		return item.UniqueID()
	}
	return p.UniqueID()
}
