// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/creachadair/jtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := New()

	assert.Equal(t, "quick", cfg.Search)
	assert.Empty(t, cfg.Columns)
	assert.False(t, cfg.HuJSON)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "<Structure>", cfg.Headers.Structure)
	assert.Equal(t, "<Scalar>", cfg.Headers.Scalar)
	assert.Equal(t, "rounded", cfg.Table.Border)
	require.NoError(t, cfg.Validate())

	mode, err := cfg.SearchMode()
	require.NoError(t, err)
	assert.Equal(t, jtable.QuickSearch, mode)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jtable.yaml")
	writeFile(t, path, `
search: full
columns: ["Last Name", "First Name"]
hujson: true
log_level: debug
output: json
headers:
  structure: Key
table:
  border: ascii
  hide_scalar: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	mode, err := cfg.SearchMode()
	require.NoError(t, err)
	assert.Equal(t, jtable.ComprehensiveSearch, mode)
	assert.Equal(t, []string{"Last Name", "First Name"}, cfg.Columns)
	assert.True(t, cfg.HuJSON)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "ascii", cfg.Table.Border)
	assert.True(t, cfg.Table.HideScalar)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	// Unset values keep their defaults.
	assert.Equal(t, "Key", cfg.Headers.Structure)
	assert.Equal(t, "<Scalar>", cfg.Headers.Scalar)

	opts := cfg.ModelOptions(nil)
	m := jtable.New(opts)
	assert.Equal(t, "Key", m.HeaderText(0))
	assert.Equal(t, "<Scalar>", m.HeaderText(1))
}

func TestConfig_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "nonesuch.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	tests := map[string]string{
		"syntax":  "search: [unclosed",
		"search":  "search: sloppy",
		"level":   "log_level: chatty",
		"output":  "output: xml",
		"border":  "table:\n  border: double",
		"columns": "columns: [a, '']",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			writeFile(t, path, content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	assert.Empty(t, Find(sub))

	want := filepath.Join(root, "a", ".jtable.yml")
	writeFile(t, want, "search: none\n")
	assert.Equal(t, want, Find(sub))

	// A file in a nearer directory is preferred.
	nearer := filepath.Join(sub, "jtable.yaml")
	writeFile(t, nearer, "search: none\n")
	assert.Equal(t, nearer, Find(sub))
}
