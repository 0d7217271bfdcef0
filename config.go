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

package bqsql

import (
	"io/ioutil"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

// Environment variables overriding the configuration file.
const (
	EnvCatalog   = "BQSQL_CATALOG"
	EnvDataset   = "BQSQL_DATASET"
	EnvPretty    = "BQSQL_PRETTY"
	EnvCacheSize = "BQSQL_CACHE_SIZE"
	EnvLogLevel  = "BQSQL_LOG_LEVEL"
	EnvIDPrefix  = "BQSQL_ID_PREFIX"
)

// DefaultCacheSize is the number of rewrites kept by default.
const DefaultCacheSize = 512

var (
	// ErrInvalidConfig is returned when a configuration value cannot be
	// used.
	ErrInvalidConfig = errors.NewKind("invalid configuration value for %s: %v")

	// ErrReadConfig is returned when the configuration file cannot be read.
	ErrReadConfig = errors.NewKind("unable to read configuration file %s")
)

// Config of an Engine.
type Config struct {
	// Catalog is the project tables belong to when the query does not name
	// one.
	Catalog string `yaml:"catalog"`
	// Dataset is the default dataset of tables without one.
	Dataset string `yaml:"dataset"`
	// Pretty renders the output on several indented lines.
	Pretty bool `yaml:"pretty"`
	// CacheSize is the number of rewrites kept. Zero disables the cache.
	CacheSize int `yaml:"cache_size"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
	// LogFormat is either "text" or "json".
	LogFormat string `yaml:"log_format"`
	// Debug logs every step of the analysis.
	Debug bool `yaml:"debug"`
	// IDPrefix is prepended to the generated column and table names.
	IDPrefix string `yaml:"id_prefix"`
	// SchemaFile is a YAML schema file used as catalog.
	SchemaFile string `yaml:"schema_file,omitempty"`
	// CatalogPath is a bolt catalog file, used when SchemaFile is empty.
	CatalogPath string `yaml:"catalog_path,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		CacheSize: DefaultCacheSize,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// ReadConfigFile reads a YAML configuration file on top of the default
// configuration.
func ReadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, ErrReadConfig.Wrap(err, path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, ErrReadConfig.Wrap(err, path)
	}

	return cfg, cfg.Validate()
}

// WriteConfigFile writes the configuration as YAML.
func WriteConfigFile(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// LoadEnv overrides the configuration with the values of the environment.
func (c *Config) LoadEnv() error {
	return c.loadEnv(os.LookupEnv)
}

func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCatalog); ok {
		c.Catalog = v
	}

	if v, ok := lookup(EnvDataset); ok {
		c.Dataset = v
	}

	if v, ok := lookup(EnvPretty); ok {
		pretty, err := cast.ToBoolE(v)
		if err != nil {
			return ErrInvalidConfig.Wrap(err, EnvPretty, v)
		}
		c.Pretty = pretty
	}

	if v, ok := lookup(EnvCacheSize); ok {
		size, err := cast.ToIntE(v)
		if err != nil {
			return ErrInvalidConfig.Wrap(err, EnvCacheSize, v)
		}
		c.CacheSize = size
	}

	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}

	if v, ok := lookup(EnvIDPrefix); ok {
		c.IDPrefix = v
	}

	return c.Validate()
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.CacheSize < 0 {
		return ErrInvalidConfig.New("cache_size", c.CacheSize)
	}

	switch c.LogFormat {
	case "", "text", "json":
	default:
		return ErrInvalidConfig.New("log_format", c.LogFormat)
	}

	return nil
}
