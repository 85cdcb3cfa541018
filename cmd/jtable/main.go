// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jtable displays a JSON document as a table of rows and columns,
// and optionally edits scalar values in it.
//
// Usage:
//
//	jtable [flags] [FILE]
//
// The document is read from FILE, or from stdin if FILE is omitted. Each
// array element and each array- or object-valued member is a row; the scalar
// members of objects are shown in named columns.
//
// Settings are read from a .jtable.yaml file in the current directory or one
// of its parents, or from the file named by --config. Flags override the
// settings from the file.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/creachadair/jtable"
	"github.com/creachadair/jtable/internal/config"
	"github.com/creachadair/jtable/jpath"
	"github.com/creachadair/jtable/value"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// CLI defines the command-line interface.
type CLI struct {
	File            string   `arg:"" optional:"" help:"JSON file to read. If omitted, reads from stdin." type:"path"`
	Config          string   `help:"Configuration file. If omitted, searches for .jtable.yaml." short:"c" type:"path"`
	Search          string   `help:"Column search mode: none, quick, or full." short:"s"`
	Columns         []string `help:"Named columns to show, in order. Disables column search."`
	HuJSON          bool     `help:"Accept comments and trailing commas in the input." name:"hujson"`
	Set             []string `help:"Set the scalar at PATH to VALUE before output. Repeatable." placeholder:"PATH=VALUE" sep:"none"`
	Output          string   `help:"Output format: table, tree, or json." short:"o"`
	Border          string   `help:"Table border: normal, rounded, ascii, or hidden."`
	HideScalar      bool     `help:"Omit the scalar column from table output."`
	StructureHeader string   `help:"Label of the structure column."`
	ScalarHeader    string   `help:"Label of the scalar column."`
	LogLevel        string   `help:"Log level: debug, info, warn, or error." name:"log-level"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("jtable"),
		kong.Description("Display and edit a JSON document as a table."),
		kong.UsageOnError(),
	)
	if err := cli.Run(os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "jtable: %v\n", err)
		os.Exit(1)
	}
}

// Run reads the input, applies edits, and writes the output.
func (c *CLI) Run(stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	lvl, _ := cfg.Level() // validated by loadConfig
	log := newLogger(stderr, lvl)

	doc, err := c.readInput(stdin, cfg.HuJSON)
	if err != nil {
		return err
	}

	m := jtable.New(cfg.ModelOptions(log))
	mode, _ := cfg.SearchMode()
	if len(cfg.Columns) != 0 {
		m.SetNamedColumns(cfg.Columns)
		mode = jtable.NoSearch
	}
	if err := m.Load(doc, mode); err != nil {
		return err
	}
	log.Info("loaded document", "rows", m.RowCount(jtable.Handle{}), "columns", m.NamedColumns())

	for _, spec := range c.Set {
		if err := applySet(m, spec, log); err != nil {
			return err
		}
	}

	switch cfg.Output {
	case "json":
		if err := value.Format(stdout, m.ValueAt(jtable.Handle{})); err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout)
		return err
	case "tree":
		_, err := fmt.Fprintln(stdout, renderTree(m, c.inputName()))
		return err
	default:
		_, err := fmt.Fprintln(stdout, renderTable(m, stdout, cfg.Table))
		return err
	}
}

// loadConfig returns the configuration from the config file, if any, with
// the settings given by flags applied over it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg := config.New()
	path := c.Config
	if path == "" {
		path = config.Find(".")
	}
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	override(&cfg.Search, c.Search)
	override(&cfg.Output, c.Output)
	override(&cfg.LogLevel, c.LogLevel)
	override(&cfg.Table.Border, c.Border)
	override(&cfg.Headers.Structure, c.StructureHeader)
	override(&cfg.Headers.Scalar, c.ScalarHeader)
	if len(c.Columns) != 0 {
		cfg.Columns = c.Columns
	}
	cfg.HuJSON = cfg.HuJSON || c.HuJSON
	cfg.Table.HideScalar = cfg.Table.HideScalar || c.HideScalar

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

func (c *CLI) inputName() string {
	if c.File == "" {
		return "<stdin>"
	}
	return c.File
}

func (c *CLI) readInput(stdin io.Reader, huJSON bool) (value.Value, error) {
	r := stdin
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	v, err := value.ParseReader(r, huJSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.inputName(), err)
	}
	return v, nil
}

// applySet applies an edit of the form PATH=VALUE to m. The VALUE is parsed
// as a JSON scalar; text that is not valid JSON is taken as a string.
func applySet(m *jtable.Model, spec string, log *slog.Logger) error {
	path, text, ok := strings.Cut(spec, "=")
	if !ok {
		return fmt.Errorf("set %q: want PATH=VALUE", spec)
	}
	steps, err := jpath.ParsePath(path)
	if err != nil {
		return fmt.Errorf("set %q: invalid path: %w", spec, err)
	}
	h, err := m.Find(steps...)
	if err != nil {
		return fmt.Errorf("set %q: %w", spec, err)
	}
	if !m.IsEditable(h) {
		return fmt.Errorf("set %q: the value at %s is not a scalar", spec, path)
	}

	v, err := value.Parse([]byte(text))
	if err != nil {
		v = value.String(text)
	} else if !value.IsScalar(v) {
		return fmt.Errorf("set %q: value must be a scalar", spec)
	}
	if m.SetCellValue(h, v) {
		log.Info("set value", "path", path, "value", v.JSON())
	} else {
		log.Info("value unchanged", "path", path)
	}
	return nil
}

// newLogger returns a logger writing to w at the given level, in color if w
// is a terminal.
func newLogger(w io.Writer, lvl slog.Level) *slog.Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
		NoColor:    !color,
	}))
}
