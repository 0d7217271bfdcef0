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

package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/src-d/go-errors.v1"

	bqsql "gopkg.in/src-d/go-bqsql.v0"
	"gopkg.in/src-d/go-bqsql.v0/mem"
	"gopkg.in/src-d/go-bqsql.v0/sql/catalog"
)

// ErrNoCatalogPath is returned by the schema commands when no bolt catalog
// was configured.
var ErrNoCatalogPath = errors.NewKind("no catalog file given, use --db or catalog_path")

type app struct {
	in io.Reader

	configFile string
	cfg        bqsql.Config
}

func newRootCommand(in io.Reader) *cobra.Command {
	a := &app{in: in, cfg: bqsql.DefaultConfig()}

	root := &cobra.Command{
		Use:           "bqsql",
		Short:         "Rewrites standard SQL SELECT statements into BigQuery legacy SQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentPreRunE = a.loadConfig

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.cfg.Catalog, "catalog", "", "project of the tables without one")
	flags.StringVarP(&a.cfg.Dataset, "dataset", "d", "", "dataset of the tables without one")
	flags.StringVarP(&a.cfg.SchemaFile, "schema", "s", "", "YAML schema file used as catalog")
	flags.StringVar(&a.cfg.CatalogPath, "db", "", "bolt catalog file")
	flags.BoolVarP(&a.cfg.Pretty, "pretty", "p", false, "render the output indented")
	flags.StringVar(&a.cfg.IDPrefix, "id-prefix", "", "prefix of the generated names")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level")
	flags.BoolVar(&a.cfg.Debug, "debug", false, "log every analysis step")

	schema := &cobra.Command{
		Use:   "schema",
		Short: "Manage the bolt schema catalog",
	}
	schema.AddCommand(
		&cobra.Command{
			Use:   "import [schema.yml]",
			Short: "Imports a YAML schema file into the catalog",
			Args:  cobra.ExactArgs(1),
			RunE:  a.importSchema,
		},
		&cobra.Command{
			Use:   "export",
			Short: "Writes the catalog as a YAML schema file to the output",
			Args:  cobra.NoArgs,
			RunE:  a.exportSchema,
		},
	)

	root.AddCommand(
		&cobra.Command{
			Use:   "rewrite [query...]",
			Short: "Rewrites the given queries, or the query read from the input",
			RunE:  a.rewrite,
		},
		schema,
		&cobra.Command{
			Use:   "version",
			Short: "Prints the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "bqsql %s\n", version)
			},
		},
	)

	return root
}

// loadConfig builds the configuration from the file, the environment and the
// flags, in increasing order of precedence.
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	cfg := bqsql.DefaultConfig()
	if a.configFile != "" {
		var err error
		if cfg, err = bqsql.ReadConfigFile(a.configFile); err != nil {
			return err
		}
	}

	if err := cfg.LoadEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog = a.cfg.Catalog
	}
	if flags.Changed("dataset") {
		cfg.Dataset = a.cfg.Dataset
	}
	if flags.Changed("schema") {
		cfg.SchemaFile = a.cfg.SchemaFile
	}
	if flags.Changed("db") {
		cfg.CatalogPath = a.cfg.CatalogPath
	}
	if flags.Changed("pretty") {
		cfg.Pretty = a.cfg.Pretty
	}
	if flags.Changed("id-prefix") {
		cfg.IDPrefix = a.cfg.IDPrefix
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.cfg.LogLevel
	}
	if flags.Changed("debug") {
		cfg.Debug = a.cfg.Debug
	}

	a.cfg = cfg
	return bqsql.ConfigureLogging(cfg)
}

func (a *app) rewrite(cmd *cobra.Command, args []string) error {
	queries := args
	if len(queries) == 0 {
		data, err := ioutil.ReadAll(a.in)
		if err != nil {
			return err
		}
		queries = []string{string(data)}
	}

	e, err := bqsql.NewFromConfig(a.cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	out, err := e.RewriteAll(context.Background(), queries)
	if err != nil {
		return err
	}

	for _, q := range out {
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(q))
	}
	return nil
}

func (a *app) openCatalog() (*catalog.Catalog, error) {
	if a.cfg.CatalogPath == "" {
		return nil, ErrNoCatalogPath.New()
	}
	return catalog.Open(a.cfg.CatalogPath)
}

func (a *app) importSchema(cmd *cobra.Command, args []string) error {
	m, err := mem.LoadYAMLFile(args[0])
	if err != nil {
		return err
	}

	c, err := a.openCatalog()
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := c.Import(m)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d tables into %s\n", n, c.Path())
	return nil
}

func (a *app) exportSchema(cmd *cobra.Command, args []string) error {
	c, err := a.openCatalog()
	if err != nil {
		return err
	}
	defer c.Close()

	m, err := c.Export(context.Background())
	if err != nil {
		return err
	}
	return m.WriteYAML(cmd.OutOrStdout())
}
