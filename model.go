// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtable

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/creachadair/jtable/tree"
	"github.com/creachadair/jtable/value"
)

// Default labels for the fixed columns.
const (
	DefaultStructureHeader = "<Structure>"
	DefaultScalarHeader    = "<Scalar>"
)

// Indexes of the fixed columns.
const (
	StructureColumn = 0 // array positions and object member names
	ScalarColumn    = 1 // the values of scalar array elements
	firstNamed      = 2
)

// ErrNotContainer is reported by Load when the document is not an array or
// an object.
var ErrNotContainer = errors.New("document is not an array or object")

// Options are optional settings for a Model. A nil *Options is ready for use
// and provides default values.
type Options struct {
	// Logger receives debug logs for loads and edits.
	// If nil, logs are discarded.
	Logger *slog.Logger

	// Labels for the fixed columns. If empty, the defaults are used.
	StructureHeader string
	ScalarHeader    string

	// If set, OnReset is called after the model is reloaded or its columns
	// are replaced. Any handles obtained before the call are stale.
	OnReset func()

	// If set, OnCellChanged is called after each successful edit with a
	// handle to the edited cell.
	OnCellChanged func(Handle)
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o *Options) structureHeader() string {
	if o == nil {
		return DefaultStructureHeader
	}
	return cmp.Or(o.StructureHeader, DefaultStructureHeader)
}

func (o *Options) scalarHeader() string {
	if o == nil {
		return DefaultScalarHeader
	}
	return cmp.Or(o.ScalarHeader, DefaultScalarHeader)
}

func (o *Options) onReset() func() {
	if o == nil || o.OnReset == nil {
		return func() {}
	}
	return o.OnReset
}

func (o *Options) onCellChanged() func(Handle) {
	if o == nil || o.OnCellChanged == nil {
		return func(Handle) {}
	}
	return o.OnCellChanged
}

// A Handle addresses one cell of a Model: a row of some parent together with
// a column. The zero Handle is invalid, and denotes the root where a parent
// is expected.
//
// A Handle remains usable until the model is reloaded. After that it is
// invalid, and the methods of the model treat it as such.
type Handle struct {
	row, col int
	node     tree.ID
	gen      uint64
}

// IsValid reports whether h was minted by a model. It does not report
// whether h is stale; use Model.Valid for that.
func (h Handle) IsValid() bool { return h.node != tree.None }

// Row reports the row of h within its parent.
func (h Handle) Row() int { return h.row }

// Column reports the column of h.
func (h Handle) Column() int { return h.col }

func (h Handle) String() string {
	if !h.IsValid() {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(%d, %d)", h.row, h.col)
}

// A Model presents a JSON document as a tree of rows with a global set of
// columns, for display and editing by a hierarchical view.
//
// Each array element and each array- or object-valued member of an object
// occupies a row. Column StructureColumn holds the array position or member
// name of the row. Column ScalarColumn holds the value of a scalar array
// element. The remaining columns are named: each holds the scalar member with
// that name of the object in its row, if there is one.
//
// A Model is not safe for concurrent use.
type Model struct {
	log     *slog.Logger
	reset   func()
	changed func(Handle)

	doc     *tree.Arena
	gen     uint64
	headers []string // fixed columns followed by named columns
}

// New constructs a Model holding an empty array.
func New(opts *Options) *Model {
	return &Model{
		log:     opts.logger(),
		reset:   opts.onReset(),
		changed: opts.onCellChanged(),
		doc:     tree.FromArray(nil),
		gen:     1,
		headers: []string{opts.structureHeader(), opts.scalarHeader()},
	}
}

// Valid reports whether h addresses a cell of the current document.
func (m *Model) Valid(h Handle) bool {
	return h.IsValid() && h.gen == m.gen && m.doc.Kind(h.node) != tree.Invalid
}

// node returns the node addressed by h, or tree.None if h is not valid.
func (m *Model) node(h Handle) tree.ID {
	if m.Valid(h) {
		return h.node
	}
	return tree.None
}

// parentNode returns the node addressed by h as a parent. The zero Handle
// denotes the root; a stale handle denotes no node at all.
func (m *Model) parentNode(h Handle) tree.ID {
	if !h.IsValid() {
		return m.doc.Root()
	}
	return m.node(h)
}

func (m *Model) handle(row, col int, id tree.ID) Handle {
	return Handle{row: row, col: col, node: id, gen: m.gen}
}

// ColumnCount reports the number of columns, which is the same throughout
// the model.
func (m *Model) ColumnCount() int { return len(m.headers) }

// HeaderText returns the label of the specified column, or "" if col is out
// of range.
func (m *Model) HeaderText(col int) string {
	if col < 0 || col >= len(m.headers) {
		return ""
	}
	return m.headers[col]
}

// RowHeader returns the structure cell of the specified top-level row, for
// use as a vertical header. It returns nil if row is out of range.
func (m *Model) RowHeader(row int) value.Value {
	return m.CellValue(m.Index(row, StructureColumn, Handle{}))
}

// Index returns a handle to the cell at the given row and column under
// parent. The zero Handle denotes the root. Index returns an invalid handle
// if col or row is out of range, or if parent is a scalar or stale.
func (m *Model) Index(row, col int, parent Handle) Handle {
	if col < 0 || col >= len(m.headers) {
		return Handle{}
	}
	p := m.parentNode(parent)
	if !m.doc.Kind(p).IsList() {
		return Handle{}
	}
	kid := m.doc.ChildAt(p, row)
	if kid == tree.None {
		return Handle{}
	}
	return m.handle(row, col, kid)
}

// Parent returns a handle to the row containing h, in StructureColumn.
// It returns an invalid handle if h is a top-level row or is not valid.
func (m *Model) Parent(h Handle) Handle {
	id := m.node(h)
	if id == tree.None {
		return Handle{}
	}
	p := m.doc.Parent(id)
	if p == tree.None || p == m.doc.Root() {
		return Handle{}
	}
	pos := m.doc.ChildPosition(m.doc.Parent(p), p)
	return m.handle(pos, StructureColumn, p)
}

// RowCount reports the number of rows under parent. The zero Handle denotes
// the root. A scalar or a stale handle has no rows.
func (m *Model) RowCount(parent Handle) int {
	p := m.parentNode(parent)
	if !m.doc.Kind(p).IsList() {
		return 0
	}
	return m.doc.ChildCount(p)
}

// CellValue returns the value to display in the cell addressed by h, or nil
// if the cell is empty or h is not valid.
//
// The cell in StructureColumn holds the position of the row in its parent
// array as a number, or its member name in its parent object as a string.
// The cell in ScalarColumn holds the value of a scalar row. A named column
// holds the scalar member of that name of an object row.
func (m *Model) CellValue(h Handle) value.Value {
	id := m.node(h)
	if id == tree.None {
		return nil
	}
	switch {
	case h.col == StructureColumn:
		p := m.doc.Parent(id)
		switch m.doc.Kind(p) {
		case tree.Array, tree.Wrapper:
			return value.Int(int64(h.row))
		case tree.Object:
			if name, ok := m.doc.ChildName(p, id); ok {
				return value.String(name)
			}
		}
	case h.col == ScalarColumn:
		if m.doc.Kind(id) == tree.Scalar {
			return m.doc.Value(id)
		}
	case h.col < len(m.headers):
		if v, ok := m.doc.NamedScalar(id, m.headers[h.col]); ok {
			return v
		}
	}
	return nil
}

// ValueAt returns the JSON value addressed by h. For StructureColumn it is
// the complete value of the row; for other columns it is the same as the
// cell value. If h is invalid, ValueAt returns the entire document.
func (m *Model) ValueAt(h Handle) value.Value {
	id := m.node(h)
	if id == tree.None {
		return m.doc.Value(m.doc.Root())
	}
	if h.col == StructureColumn {
		return m.doc.Value(id)
	}
	return m.CellValue(h)
}

// LoadArray replaces the contents of m with arr. Unless mode is NoSearch,
// the named columns are replaced with those discovered in arr.
func (m *Model) LoadArray(arr value.Array, mode SearchMode) {
	m.install(tree.FromArray(arr), arr, mode)
}

// LoadObject replaces the contents of m with obj. Unless mode is NoSearch,
// the named columns are replaced with those discovered in obj.
//
// If obj has scalar members, the object itself occupies the single top-level
// row, so that those members can be shown in its named columns. Otherwise
// the array- and object-valued members of obj are the top-level rows.
func (m *Model) LoadObject(obj value.Object, mode SearchMode) {
	m.install(tree.FromObject(obj), obj, mode)
}

// Load replaces the contents of m with v, which must be an array or an
// object. If it is neither, Load reports ErrNotContainer and m is unchanged.
func (m *Model) Load(v value.Value, mode SearchMode) error {
	switch t := v.(type) {
	case value.Array:
		m.LoadArray(t, mode)
	case value.Object:
		m.LoadObject(t, mode)
	default:
		return fmt.Errorf("load %T: %w", v, ErrNotContainer)
	}
	return nil
}

// install makes doc the current document. The new tree is fully built before
// it replaces the old one, and handles to the old tree become stale.
func (m *Model) install(doc *tree.Arena, v value.Value, mode SearchMode) {
	m.doc = doc
	m.gen++
	if mode != NoSearch {
		m.headers = append(m.headers[:firstNamed], DiscoverColumns(v, mode)...)
	}
	m.log.Debug("loaded document", "root", doc.Kind(doc.Root()),
		"rows", doc.ChildCount(doc.Root()), "nodes", doc.Len(),
		"search", mode, "columns", len(m.headers)-firstNamed)
	m.reset()
}

// SetNamedColumns replaces the named columns of m with names, in order.
// Handles obtained before the call become stale.
func (m *Model) SetNamedColumns(names []string) {
	m.headers = append(m.headers[:firstNamed], names...)
	m.gen++
	m.log.Debug("set named columns", "columns", names)
	m.reset()
}

// NamedColumns returns a copy of the names of the named columns of m.
func (m *Model) NamedColumns() []string {
	return slices.Clone(m.headers[firstNamed:])
}

// ColumnOf returns the index of the named column with the given name, or -1
// if there is no such column.
func (m *Model) ColumnOf(name string) int {
	if i := slices.Index(m.headers[firstNamed:], name); i >= 0 {
		return i + firstNamed
	}
	return -1
}
