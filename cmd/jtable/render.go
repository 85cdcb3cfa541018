// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/creachadair/jtable"
	"github.com/creachadair/jtable/internal/config"
	"github.com/creachadair/jtable/value"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	mutedColor   = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#383838")
)

var borders = map[string]lipgloss.Border{
	"normal":  lipgloss.NormalBorder(),
	"rounded": lipgloss.RoundedBorder(),
	"ascii":   lipgloss.ASCIIBorder(),
	"hidden":  lipgloss.HiddenBorder(),
}

// A row is one visible row of the model, with its depth below the root.
type row struct {
	depth  int
	parent jtable.Handle
	index  int
}

// visibleRows returns every row of m in depth-first order.
func visibleRows(m *jtable.Model) []row {
	var rows []row
	var walk func(parent jtable.Handle, depth int)
	walk = func(parent jtable.Handle, depth int) {
		for r := range m.RowCount(parent) {
			rows = append(rows, row{depth: depth, parent: parent, index: r})
			walk(m.Index(r, jtable.StructureColumn, parent), depth+1)
		}
	}
	walk(jtable.Handle{}, 0)
	return rows
}

func cellText(m *jtable.Model, r row, col int) string {
	return value.Text(m.CellValue(m.Index(r.index, col, r.parent)))
}

// renderTable renders the rows of m as a table, with the structure column
// indented to show nesting. Styles are chosen for the terminal type of w.
func renderTable(m *jtable.Model, w io.Writer, tc config.TableConfig) string {
	re := lipgloss.NewRenderer(w)
	headerStyle := re.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	cellStyle := re.NewStyle().Padding(0, 1)
	altStyle := cellStyle.Foreground(mutedColor)

	var cols []int
	for c := range m.ColumnCount() {
		if c == jtable.ScalarColumn && tc.HideScalar {
			continue
		}
		cols = append(cols, c)
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = m.HeaderText(c)
	}
	var rows [][]string
	for _, r := range visibleRows(m) {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cellText(m, r, c)
		}
		cells[0] = strings.Repeat("  ", r.depth) + cells[0]
		rows = append(rows, cells)
	}

	t := table.New().
		Border(borders[tc.Border]).
		BorderStyle(re.NewStyle().Foreground(borderColor)).
		StyleFunc(func(r, _ int) lipgloss.Style {
			switch {
			case r == table.HeaderRow:
				return headerStyle
			case r%2 == 1:
				return altStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}

// renderTree renders the rows of m as an outline. Each row is labelled with
// its position or member name, followed by its scalar value or by the named
// columns of the object it holds.
func renderTree(m *jtable.Model, label string) string {
	t := tree.Root(label).Enumerator(tree.RoundedEnumerator)
	addRows(m, jtable.Handle{}, t)
	return t.String()
}

func addRows(m *jtable.Model, parent jtable.Handle, t *tree.Tree) {
	for r := range m.RowCount(parent) {
		h := m.Index(r, jtable.StructureColumn, parent)
		label := rowLabel(m, parent, r)
		if m.RowCount(h) == 0 {
			t.Child(label)
			continue
		}
		sub := tree.Root(label)
		addRows(m, h, sub)
		t.Child(sub)
	}
}

func rowLabel(m *jtable.Model, parent jtable.Handle, r int) string {
	var sb strings.Builder
	sb.WriteString(value.Text(m.CellValue(m.Index(r, jtable.StructureColumn, parent))))
	if v := m.CellValue(m.Index(r, jtable.ScalarColumn, parent)); v != nil {
		sb.WriteString(": " + v.JSON())
		return sb.String()
	}
	var named []string
	for c := 2; c < m.ColumnCount(); c++ {
		if v := m.CellValue(m.Index(r, c, parent)); v != nil {
			named = append(named, m.HeaderText(c)+"="+v.JSON())
		}
	}
	if len(named) != 0 {
		sb.WriteString(" {" + strings.Join(named, ", ") + "}")
	}
	return sb.String()
}
