// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package config defines the configuration file of the jtable command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/creachadair/jtable"
	"gopkg.in/yaml.v3"
)

// Names searched for by Find, in order of preference.
var fileNames = []string{".jtable.yaml", ".jtable.yml", "jtable.yaml", "jtable.yml"}

// Output formats.
var outputs = []string{"table", "tree", "json"}

// Table border styles.
var borders = []string{"normal", "rounded", "ascii", "hidden"}

// Config represents the configuration of the jtable command.
type Config struct {
	Search   string        `yaml:"search"`
	Columns  []string      `yaml:"columns"`
	HuJSON   bool          `yaml:"hujson"`
	LogLevel string        `yaml:"log_level"`
	Output   string        `yaml:"output"`
	Headers  HeadersConfig `yaml:"headers"`
	Table    TableConfig   `yaml:"table"`
}

// HeadersConfig sets the labels of the fixed columns.
type HeadersConfig struct {
	Structure string `yaml:"structure"`
	Scalar    string `yaml:"scalar"`
}

// TableConfig controls table output.
type TableConfig struct {
	Border     string `yaml:"border"`
	HideScalar bool   `yaml:"hide_scalar"`
}

// New returns a Config with default values.
func New() *Config {
	return &Config{
		Search:   jtable.DefaultSearchMode.String(),
		LogLevel: "warn",
		Output:   "table",
		Headers: HeadersConfig{
			Structure: jtable.DefaultStructureHeader,
			Scalar:    jtable.DefaultScalarHeader,
		},
		Table: TableConfig{Border: "rounded"},
	}
}

// Load reads a configuration from the YAML file at path. Settings not given
// in the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Find searches dir and its parents for a configuration file, and returns
// the path of the first one found, or "" if there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range fileNames {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate reports an error if any setting of c is invalid.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.SearchMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(outputs, c.Output) {
		errs = append(errs, fmt.Errorf("unknown output %q (want one of %s)", c.Output, strings.Join(outputs, ", ")))
	}
	if !slices.Contains(borders, c.Table.Border) {
		errs = append(errs, fmt.Errorf("unknown border %q (want one of %s)", c.Table.Border, strings.Join(borders, ", ")))
	}
	if i := slices.Index(c.Columns, ""); i >= 0 {
		errs = append(errs, fmt.Errorf("column %d has an empty name", i+1))
	}
	return errors.Join(errs...)
}

// SearchMode returns the column search mode of c.
func (c *Config) SearchMode() (jtable.SearchMode, error) {
	return jtable.ParseSearchMode(c.Search)
}

// Level returns the log level of c.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// ModelOptions returns options for a jtable.Model using the settings of c.
func (c *Config) ModelOptions(logger *slog.Logger) *jtable.Options {
	return &jtable.Options{
		Logger:          logger,
		StructureHeader: c.Headers.Structure,
		ScalarHeader:    c.Headers.Scalar,
	}
}
