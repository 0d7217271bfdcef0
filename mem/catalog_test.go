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
	"testing"

	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	c := NewCatalog()

	sales := NewDatabase("sales")
	sales.AddTable(NewTable("orders", "id", "customer_id", "total"))
	sales.AddTable(NewTable("customers", "id", "name"))
	c.AddDatabase("acme", sales)

	archive := NewDatabase("archive")
	archive.AddTable(NewTable("orders", "id", "total", "archived_at"))
	c.AddDatabase("acme", archive)

	return c
}

func TestCatalogColumns(t *testing.T) {
	c := testCatalog()
	ctx := context.Background()

	testCases := []struct {
		name    string
		dataset string
		table   string
		pattern string
		result  []string
	}{
		{"all columns", "%", "orders", "%", []string{"id", "customer_id", "total"}},
		{"explicit dataset", "archive", "orders", "%", []string{"id", "total", "archived_at"}},
		{"dataset pattern", "arch%", "orders", "", []string{"id", "total", "archived_at"}},
		{"column pattern", "sales", "orders", "%_id", []string{"customer_id"}},
		{"case insensitive table", "sales", "ORDERS", "%", []string{"id", "customer_id", "total"}},
		{"unknown table", "%", "products", "%", nil},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			cols, err := c.Columns(ctx, "acme", tt.dataset, tt.table, tt.pattern)
			require.NoError(err)
			require.Equal(tt.result, cols)
		})
	}
}

func TestCatalogColumnPrefixes(t *testing.T) {
	require := require.New(t)
	c := testCatalog()

	prefixes, err := c.ColumnPrefixes(context.Background(), "acme", "total")
	require.NoError(err)
	require.Equal([]string{"sales.orders", "archive.orders"}, prefixes)

	prefixes, err = c.ColumnPrefixes(context.Background(), "acme", "NAME")
	require.NoError(err)
	require.Equal([]string{"sales.customers"}, prefixes)

	prefixes, err = c.ColumnPrefixes(context.Background(), "other", "total")
	require.NoError(err)
	require.Nil(prefixes)
}

func TestCatalogTableDatasets(t *testing.T) {
	require := require.New(t)
	c := testCatalog()

	datasets, err := c.TableDatasets(context.Background(), "acme", "orders")
	require.NoError(err)
	require.Equal([]string{"sales", "archive"}, datasets)

	datasets, err = c.TableDatasets(context.Background(), "acme", "customers")
	require.NoError(err)
	require.Equal([]string{"sales"}, datasets)
}

func TestCatalogAddDatabaseReplaces(t *testing.T) {
	require := require.New(t)
	c := testCatalog()

	sales := NewDatabase("sales")
	sales.AddTable(NewTable("orders", "id"))
	c.AddDatabase("acme", sales)

	require.Equal([]string{"acme"}, c.Projects())
	require.Len(c.Databases("acme"), 2)

	cols, err := c.Columns(context.Background(), "acme", "sales", "orders", "%")
	require.NoError(err)
	require.Equal([]string{"id"}, cols)
}

func TestDatabaseAddTable(t *testing.T) {
	require := require.New(t)
	db := NewDatabase("test")
	require.Equal("test", db.Name())
	require.Len(db.Tables(), 0)

	db.AddTable(NewTable("test_table", "a"))
	db.AddTable(NewTable("TEST_TABLE", "a", "b"))
	require.Len(db.Tables(), 1)

	table, ok := db.Table("test_table")
	require.True(ok)
	require.Equal([]string{"a", "b"}, table.Columns())
	require.True(table.HasColumn("B"))
	require.False(table.HasColumn("c"))
}
