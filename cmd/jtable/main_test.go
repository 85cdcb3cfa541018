// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/creachadair/jtable"
	"github.com/creachadair/jtable/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `[
  {"alpha": 1, "beta": "x", "tags": ["t1", "t2"]},
  {"alpha": 2, "beta": "y", "tags": []}
]`

// setup moves the test into an empty directory and writes a document file
// there, returning its path.
func setup(t *testing.T, doc string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func runCLI(t *testing.T, cli *CLI, stdin string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := cli.Run(strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func parseOutput(t *testing.T, out string) value.Value {
	t.Helper()
	v, err := value.Parse([]byte(out))
	require.NoError(t, err, "output: %s", out)
	return v
}

func mustValue(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := value.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func TestKongFlags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("jtable"))
	require.NoError(t, err)

	_, err = parser.Parse([]string{
		"--set", "$[0].alpha=5", "--set", "beta=a,b",
		"--columns", "x,y", "--hujson", "-o", "json", "-s", "full",
		"--hide-scalar", "--log-level", "debug", "--structure-header", "Key",
		"doc.json",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"$[0].alpha=5", "beta=a,b"}, cli.Set)
	assert.Equal(t, []string{"x", "y"}, cli.Columns)
	assert.True(t, cli.HuJSON)
	assert.True(t, cli.HideScalar)
	assert.Equal(t, "json", cli.Output)
	assert.Equal(t, "full", cli.Search)
	assert.Equal(t, "debug", cli.LogLevel)
	assert.Equal(t, "Key", cli.StructureHeader)
	assert.Equal(t, "doc.json", filepath.Base(cli.File))
}

func TestRun_JSONOutput(t *testing.T) {
	path := setup(t, testDoc)
	out, _, err := runCLI(t, &CLI{File: path, Output: "json"}, "")
	require.NoError(t, err)
	assert.True(t, value.Equal(parseOutput(t, out), mustValue(t, testDoc)), "output: %s", out)
}

func TestRun_Stdin(t *testing.T) {
	setup(t, "")
	out, _, err := runCLI(t, &CLI{Output: "json"}, `{"k": "v", "list": [1]}`)
	require.NoError(t, err)
	assert.True(t, value.Equal(parseOutput(t, out), mustValue(t, `{"k": "v", "list": [1]}`)))
}

func TestRun_Set(t *testing.T) {
	path := setup(t, testDoc)
	cli := &CLI{
		File:   path,
		Output: "json",
		Set: []string{
			"[0].alpha=5",
			"$[1].beta=hello, world",
			"[0].tags[-1]=null",
			"[1].beta=\"quoted\"",
			"[0].alpha=5", // unchanged
		},
		LogLevel: "info",
	}
	out, logs, err := runCLI(t, cli, "")
	require.NoError(t, err)

	want := mustValue(t, `[
  {"alpha": 5, "beta": "x", "tags": ["t1", null]},
  {"alpha": 2, "beta": "quoted", "tags": []}
]`)
	assert.True(t, value.Equal(parseOutput(t, out), want), "output: %s", out)
	assert.Contains(t, logs, "loaded document")
	assert.Contains(t, logs, "set value")
	assert.Contains(t, logs, "value unchanged")
}

func TestRun_SetErrors(t *testing.T) {
	path := setup(t, testDoc)
	tests := map[string]string{
		"NoValue":     "[0].alpha",
		"BadPath":     "$..alpha=1",
		"NoSuchKey":   "[0].gamma=1",
		"OutOfRange":  "[5].alpha=1",
		"NotScalar":   "[0].alpha=[1]",
		"ObjectRow":   "[0]=1",
		"ArrayRow":    "[0].tags=1",
		"BeyondValue": "[0].alpha.x=1",
	}
	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := runCLI(t, &CLI{File: path, Output: "json", Set: []string{spec}}, "")
			assert.Error(t, err)
		})
	}
}

func TestRun_Table(t *testing.T) {
	path := setup(t, testDoc)

	out, _, err := runCLI(t, &CLI{File: path, Border: "ascii"}, "")
	require.NoError(t, err)
	for _, want := range []string{"<Structure>", "<Scalar>", "alpha", "beta", "tags", "t2", "x", "y"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "+") // ASCII border

	out, _, err = runCLI(t, &CLI{
		File:            path,
		Columns:         []string{"beta"},
		HideScalar:      true,
		StructureHeader: "Row",
	}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Row")
	assert.Contains(t, out, "beta")
	assert.NotContains(t, out, "alpha")
	assert.NotContains(t, out, "<Scalar>")
}

func TestRun_Tree(t *testing.T) {
	path := setup(t, testDoc)
	out, _, err := runCLI(t, &CLI{File: path, Output: "tree"}, "")
	require.NoError(t, err)

	assert.Contains(t, out, path)
	assert.Contains(t, out, `0 {alpha=1, beta="x"}`)
	assert.Contains(t, out, `1 {alpha=2, beta="y"}`)
	assert.Contains(t, out, `0: "t1"`)
	assert.Contains(t, out, "tags")
}

func TestRun_HuJSON(t *testing.T) {
	const doc = "[\n  // first\n  {\"a\": 1},\n]"
	path := setup(t, doc)

	_, _, err := runCLI(t, &CLI{File: path, Output: "json"}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, value.ErrNonStandard), "got %v", err)

	out, _, err := runCLI(t, &CLI{File: path, Output: "json", HuJSON: true}, "")
	require.NoError(t, err)
	assert.True(t, value.Equal(parseOutput(t, out), mustValue(t, `[{"a": 1}]`)))
}

func TestRun_InputErrors(t *testing.T) {
	path := setup(t, `42`)

	_, _, err := runCLI(t, &CLI{File: path}, "")
	assert.ErrorIs(t, err, jtable.ErrNotContainer)

	_, _, err = runCLI(t, &CLI{File: filepath.Join(filepath.Dir(path), "nonesuch.json")}, "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = runCLI(t, &CLI{}, "")
	assert.ErrorIs(t, err, value.ErrEmptyInput)

	for _, cli := range []*CLI{
		{File: path, Search: "sloppy"},
		{File: path, Output: "xml"},
		{File: path, Border: "double"},
		{File: path, LogLevel: "chatty"},
	} {
		_, _, err := runCLI(t, cli, "")
		assert.Error(t, err)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	path := setup(t, testDoc)
	dir := filepath.Dir(path)

	// A config file in the working directory is found automatically.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".jtable.yaml"), []byte(`
output: json
search: none
`), 0o644))
	out, _, err := runCLI(t, &CLI{File: path}, "")
	require.NoError(t, err)
	assert.True(t, value.Equal(parseOutput(t, out), mustValue(t, testDoc)))

	// Flags override the file.
	out, _, err = runCLI(t, &CLI{File: path, Output: "tree"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "tags")
	assert.NotContains(t, out, "alpha=") // no columns were discovered

	// An explicit config file is used instead.
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("output: tree\nsearch: full\n"), 0o644))
	out, _, err = runCLI(t, &CLI{File: path, Config: other}, "")
	require.NoError(t, err)
	assert.Contains(t, out, `alpha=1`)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output: [\n"), 0o644))
	_, _, err = runCLI(t, &CLI{File: path, Config: bad}, "")
	assert.Error(t, err)
}
