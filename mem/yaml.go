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
	"io"
	"io/ioutil"
	"os"

	"gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

// ErrInvalidSchema is returned when a schema file cannot be decoded.
var ErrInvalidSchema = errors.NewKind("invalid schema file")

// SchemaFile is the YAML representation of a catalog.
type SchemaFile struct {
	Projects []ProjectSchema `yaml:"projects"`
}

// ProjectSchema is a project of a SchemaFile.
type ProjectSchema struct {
	Name     string          `yaml:"name"`
	Datasets []DatasetSchema `yaml:"datasets"`
}

// DatasetSchema is a dataset of a SchemaFile.
type DatasetSchema struct {
	Name   string        `yaml:"name"`
	Tables []TableSchema `yaml:"tables"`
}

// TableSchema is a table of a SchemaFile.
type TableSchema struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

// LoadYAML reads a catalog from its YAML representation.
func LoadYAML(r io.Reader) (*Catalog, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var f SchemaFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, ErrInvalidSchema.Wrap(err)
	}

	c := NewCatalog()
	for _, p := range f.Projects {
		for _, ds := range p.Datasets {
			db := NewDatabase(ds.Name)
			for _, t := range ds.Tables {
				db.AddTable(NewTable(t.Name, t.Columns...))
			}
			c.AddDatabase(p.Name, db)
		}
	}

	return c, nil
}

// LoadYAMLFile reads a catalog from the YAML file at path.
func LoadYAMLFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadYAML(f)
}

// Schema returns the SchemaFile representation of the catalog.
func (c *Catalog) Schema() SchemaFile {
	var f SchemaFile
	for _, name := range c.Projects() {
		p := ProjectSchema{Name: name}
		for _, db := range c.Databases(name) {
			ds := DatasetSchema{Name: db.Name()}
			for _, t := range db.Tables() {
				ds.Tables = append(ds.Tables, TableSchema{Name: t.Name(), Columns: t.Columns()})
			}
			p.Datasets = append(p.Datasets, ds)
		}
		f.Projects = append(f.Projects, p)
	}
	return f
}

// WriteYAML writes the YAML representation of the catalog.
func (c *Catalog) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(c.Schema())
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}
