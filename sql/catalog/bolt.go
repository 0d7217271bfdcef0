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

// Package catalog implements a sql.SchemaLookup persisted in a bolt
// database, so a schema snapshot can be imported once and shared by many
// rewrites.
package catalog // import "gopkg.in/src-d/go-bqsql.v0/sql/catalog"

import (
	"context"
	"encoding/binary"
	"strings"
	"sync"
	"time"

	"github.com/boltdb/bolt"
	"gopkg.in/src-d/go-errors.v1"

	"gopkg.in/src-d/go-bqsql.v0/mem"
	"gopkg.in/src-d/go-bqsql.v0/sql"
)

var (
	// ErrOpenCatalog is returned when the catalog file cannot be opened.
	ErrOpenCatalog = errors.NewKind("unable to open catalog at %s")

	// ErrCatalogClosed is returned when the catalog is used after Close.
	ErrCatalogClosed = errors.NewKind("catalog %s is closed")

	// ErrInvalidName is returned when a project, dataset or table name is
	// empty.
	ErrInvalidName = errors.NewKind("invalid %s name %q")
)

const openTimeout = time.Second

// Catalog is a schema snapshot stored in a bolt database.
//
// buckets:
// - project name
//   - dataset name
//     - table name: column position uint64 (big endian) -> column name
//
// Datasets and tables are iterated sorted by name, columns in table order.
type Catalog struct {
	path string

	mut sync.RWMutex
	db  *bolt.DB
}

var _ sql.SchemaLookup = (*Catalog)(nil)

// Open opens the catalog stored at path, creating it if it does not exist.
func Open(path string) (*Catalog, error) {
	db, err := bolt.Open(path, 0640, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, ErrOpenCatalog.Wrap(err, path)
	}
	return &Catalog{path: path, db: db}, nil
}

// Path returns the path of the catalog file.
func (c *Catalog) Path() string { return c.path }

// Close closes the underlying database. Closing twice is a no-op.
func (c *Catalog) Close() error {
	c.mut.Lock()
	defer c.mut.Unlock()

	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Catalog) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mut.RLock()
	defer c.mut.RUnlock()

	if c.db == nil {
		return ErrCatalogClosed.New(c.path)
	}
	return c.db.View(fn)
}

func (c *Catalog) update(fn func(tx *bolt.Tx) error) error {
	c.mut.RLock()
	defer c.mut.RUnlock()

	if c.db == nil {
		return ErrCatalogClosed.New(c.path)
	}
	return c.db.Update(fn)
}

// PutTable stores the columns of a table, replacing any previous version of
// it.
func (c *Catalog) PutTable(project, dataset, table string, columns []string) error {
	for kind, name := range map[string]string{"project": project, "dataset": dataset, "table": table} {
		if name == "" {
			return ErrInvalidName.New(kind, name)
		}
	}

	return c.update(func(tx *bolt.Tx) error {
		return putTable(tx, project, dataset, table, columns)
	})
}

func putTable(tx *bolt.Tx, project, dataset, table string, columns []string) error {
	pb, err := tx.CreateBucketIfNotExists([]byte(project))
	if err != nil {
		return err
	}

	db, err := pb.CreateBucketIfNotExists([]byte(dataset))
	if err != nil {
		return err
	}

	if existing := tableBucketName(db, table); existing != nil {
		if err := db.DeleteBucket(existing); err != nil {
			return err
		}
	}

	tb, err := db.CreateBucket([]byte(table))
	if err != nil {
		return err
	}

	for i, col := range columns {
		if err := tb.Put(positionKey(i), []byte(col)); err != nil {
			return err
		}
	}
	return nil
}

// tableBucketName returns the key of the table bucket with the given name,
// ignoring case, or nil if there is none.
func tableBucketName(db *bolt.Bucket, table string) []byte {
	if db.Bucket([]byte(table)) != nil {
		return []byte(table)
	}

	c := db.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if v == nil && strings.EqualFold(string(k), table) {
			return k
		}
	}
	return nil
}

func tableBucket(db *bolt.Bucket, table string) *bolt.Bucket {
	name := tableBucketName(db, table)
	if name == nil {
		return nil
	}
	return db.Bucket(name)
}

func positionKey(i int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(i))
	return key
}

// Import stores every table of the in-memory catalog in a single
// transaction and returns how many tables were stored.
func (c *Catalog) Import(m *mem.Catalog) (int, error) {
	var n int
	err := c.update(func(tx *bolt.Tx) error {
		for _, project := range m.Projects() {
			for _, db := range m.Databases(project) {
				for _, t := range db.Tables() {
					if err := putTable(tx, project, db.Name(), t.Name(), t.Columns()); err != nil {
						return err
					}
					n++
				}
			}
		}
		return nil
	})

	if err != nil {
		return 0, err
	}
	return n, nil
}

// Export copies the whole catalog into an in-memory catalog.
func (c *Catalog) Export(ctx context.Context) (*mem.Catalog, error) {
	result := mem.NewCatalog()
	err := c.view(ctx, func(tx *bolt.Tx) error {
		return tx.ForEach(func(project []byte, pb *bolt.Bucket) error {
			return forEachBucket(pb, func(dataset []byte, db *bolt.Bucket) error {
				d := mem.NewDatabase(string(dataset))
				err := forEachBucket(db, func(table []byte, tb *bolt.Bucket) error {
					d.AddTable(mem.NewTable(string(table), columns(tb, sql.AnyPattern)...))
					return nil
				})
				if err != nil {
					return err
				}

				result.AddDatabase(string(project), d)
				return nil
			})
		})
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

func forEachBucket(b *bolt.Bucket, fn func(name []byte, b *bolt.Bucket) error) error {
	return b.ForEach(func(k, v []byte) error {
		if v != nil {
			return nil
		}

		nested := b.Bucket(k)
		if nested == nil {
			return nil
		}
		return fn(k, nested)
	})
}

func columns(tb *bolt.Bucket, pattern string) []string {
	var result []string
	_ = tb.ForEach(func(_, v []byte) error {
		if sql.MatchPattern(pattern, string(v)) {
			result = append(result, string(v))
		}
		return nil
	})
	return result
}

func hasColumn(tb *bolt.Bucket, column string) bool {
	var found bool
	_ = tb.ForEach(func(_, v []byte) error {
		if strings.EqualFold(string(v), column) {
			found = true
		}
		return nil
	})
	return found
}

// datasets calls fn with every dataset bucket of the project, stopping at
// the first one for which fn returns false.
func datasets(tx *bolt.Tx, project string, fn func(name string, db *bolt.Bucket) bool) {
	pb := tx.Bucket([]byte(project))
	if pb == nil {
		return
	}

	c := pb.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if v != nil {
			continue
		}

		db := pb.Bucket(k)
		if db == nil {
			continue
		}

		if !fn(string(k), db) {
			return
		}
	}
}

// Columns implements the sql.SchemaLookup interface.
func (c *Catalog) Columns(ctx context.Context, catalog, datasetPattern, table, columnPattern string) ([]string, error) {
	var result []string
	err := c.view(ctx, func(tx *bolt.Tx) error {
		datasets(tx, catalog, func(name string, db *bolt.Bucket) bool {
			if !sql.MatchPattern(datasetPattern, name) {
				return true
			}

			tb := tableBucket(db, table)
			if tb == nil {
				return true
			}

			result = columns(tb, columnPattern)
			return false
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// ColumnPrefixes implements the sql.SchemaLookup interface.
func (c *Catalog) ColumnPrefixes(ctx context.Context, catalog, column string) ([]string, error) {
	var result []string
	err := c.view(ctx, func(tx *bolt.Tx) error {
		datasets(tx, catalog, func(name string, db *bolt.Bucket) bool {
			_ = forEachBucket(db, func(table []byte, tb *bolt.Bucket) error {
				if hasColumn(tb, column) {
					result = append(result, name+"."+string(table))
				}
				return nil
			})
			return true
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// TableDatasets implements the sql.SchemaLookup interface.
func (c *Catalog) TableDatasets(ctx context.Context, catalog, table string) ([]string, error) {
	var result []string
	err := c.view(ctx, func(tx *bolt.Tx) error {
		datasets(tx, catalog, func(name string, db *bolt.Bucket) bool {
			if tableBucket(db, table) != nil {
				result = append(result, name)
			}
			return true
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}
