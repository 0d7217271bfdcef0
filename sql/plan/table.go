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
)

// SourceTable is a table of the backend.
type SourceTable struct {
	Project string
	Dataset string
	Name    string
	Alias   string
}

var _ sql.Node = (*SourceTable)(nil)

// NewSourceTable creates a table. Project and dataset may be empty.
func NewSourceTable(project, dataset, name, alias string) *SourceTable {
	return &SourceTable{Project: project, Dataset: dataset, Name: name, Alias: alias}
}

// ResolveDataset fills the project and the dataset of the table when the
// query omitted them. The dataset is the session default one or, without
// default, the first dataset of the catalog holding a table with this name.
func (t *SourceTable) ResolveDataset(ctx *sql.Context) error {
	if t.Project == "" {
		t.Project = ctx.Catalog
	}

	if t.Dataset != "" {
		return nil
	}

	if ctx.Dataset != "" {
		t.Dataset = ctx.Dataset
		return nil
	}

	datasets, err := ctx.Lookup.TableDatasets(ctx, t.Project, t.Name)
	if err != nil {
		return err
	}

	if len(datasets) == 0 {
		return sql.ErrTableNotFound.New(t.Name)
	}

	if len(datasets) > 1 {
		ctx.Logger().Debugf("table %s found in datasets %v, using %s", t.Name, datasets, datasets[0])
	}

	t.Dataset = datasets[0]
	return nil
}

// Qualifiers returns every prefix the columns of the table can be written
// with when the table has no alias.
func (t *SourceTable) Qualifiers() []string {
	qs := []string{t.Name}
	if t.Dataset != "" {
		qs = append(qs, t.Dataset+"."+t.Name)
		if t.Project != "" {
			qs = append(qs, t.Project+":"+t.Dataset+"."+t.Name)
		}
	}
	return qs
}

// FullName returns the name of the table in the backend.
func (t *SourceTable) FullName() string {
	switch {
	case t.Dataset == "":
		return t.Name
	case t.Project == "":
		return t.Dataset + "." + t.Name
	default:
		return t.Project + ":" + t.Dataset + "." + t.Name
	}
}

// Kind implements the sql.Node interface.
func (*SourceTable) Kind() sql.Kind { return sql.KindSourceTable }

// Children implements the sql.Node interface.
func (*SourceTable) Children() []sql.Node { return nil }

// Render implements the sql.Node interface.
func (t *SourceTable) Render(level int) string {
	return sql.Indent(level) + "[" + t.FullName() + "]"
}

func (t *SourceTable) String() string { return t.Render(-1) }
