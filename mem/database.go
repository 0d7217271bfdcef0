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

// Database is an in-memory dataset.
type Database struct {
	name   string
	tables []*Table
}

// NewDatabase creates a new dataset with the given name.
func NewDatabase(name string) *Database {
	return &Database{name: name}
}

// Name returns the dataset name.
func (d *Database) Name() string {
	return d.name
}

// Tables returns all tables in the dataset, in the order they were added.
func (d *Database) Tables() []*Table {
	return append([]*Table(nil), d.tables...)
}

// Table returns the table with the given name, ignoring case.
func (d *Database) Table(name string) (*Table, bool) {
	for _, t := range d.tables {
		if strings.EqualFold(t.Name(), name) {
			return t, true
		}
	}
	return nil, false
}

// AddTable adds a new table to the dataset, replacing any table with the same
// name.
func (d *Database) AddTable(t *Table) {
	for i, existing := range d.tables {
		if strings.EqualFold(existing.Name(), t.Name()) {
			d.tables[i] = t
			return
		}
	}
	d.tables = append(d.tables, t)
}
