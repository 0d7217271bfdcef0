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

import (
	"context"
	"sync"

	"gopkg.in/src-d/go-bqsql.v0/sql"
)

// Catalog is an in-memory SchemaLookup. Each project holds its datasets in
// the order they were added, which is the order lookups search them in.
type Catalog struct {
	mu       sync.RWMutex
	names    []string
	projects map[string][]*Database
}

var _ sql.SchemaLookup = (*Catalog)(nil)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{projects: make(map[string][]*Database)}
}

// AddDatabase adds a dataset to the project.
func (c *Catalog) AddDatabase(project string, db *Database) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.projects[project]; !ok {
		c.names = append(c.names, project)
	}

	dbs := c.projects[project]
	for i, existing := range dbs {
		if existing.Name() == db.Name() {
			dbs[i] = db
			return
		}
	}
	c.projects[project] = append(dbs, db)
}

// Projects returns the projects of the catalog in the order they were added.
func (c *Catalog) Projects() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.names...)
}

// Databases returns the datasets of the project.
func (c *Catalog) Databases(project string) []*Database {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Database(nil), c.projects[project]...)
}

// Columns implements the sql.SchemaLookup interface.
func (c *Catalog) Columns(_ context.Context, catalog, datasetPattern, table, columnPattern string) ([]string, error) {
	for _, db := range c.Databases(catalog) {
		if !sql.MatchPattern(datasetPattern, db.Name()) {
			continue
		}

		t, ok := db.Table(table)
		if !ok {
			continue
		}

		var result []string
		for _, col := range t.Columns() {
			if sql.MatchPattern(columnPattern, col) {
				result = append(result, col)
			}
		}
		return result, nil
	}

	return nil, nil
}

// ColumnPrefixes implements the sql.SchemaLookup interface.
func (c *Catalog) ColumnPrefixes(_ context.Context, catalog, column string) ([]string, error) {
	var result []string
	for _, db := range c.Databases(catalog) {
		for _, t := range db.Tables() {
			if t.HasColumn(column) {
				result = append(result, db.Name()+"."+t.Name())
			}
		}
	}
	return result, nil
}

// TableDatasets implements the sql.SchemaLookup interface.
func (c *Catalog) TableDatasets(_ context.Context, catalog, table string) ([]string, error) {
	var result []string
	for _, db := range c.Databases(catalog) {
		if _, ok := db.Table(table); ok {
			result = append(result, db.Name())
		}
	}
	return result, nil
}
