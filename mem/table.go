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

package mem

import "strings"

// Table is the schema of an in-memory table: its name and its ordered
// column names.
type Table struct {
	name    string
	columns []string
}

// NewTable creates a table with the given columns.
func NewTable(name string, columns ...string) *Table {
	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
	}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the table has a column with the given name,
// ignoring case.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the table.
func (t *Table) AddColumn(name string) {
	t.columns = append(t.columns, name)
}
