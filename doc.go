// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jtable presents a JSON document as a tree of rows and columns, for
// display and editing by hierarchical or tabular views.
//
// # Rows and Columns
//
// A Model holds a single JSON array or object. Each element of an array, and
// each array- or object-valued member of an object, is a row. Rows are
// addressed by position within their parent row, and a view descends into
// the document by asking for the rows under a handle:
//
//	m := jtable.New(nil)
//	m.LoadArray(arr, jtable.QuickSearch)
//	for r := range m.RowCount(jtable.Handle{}) {
//	   h := m.Index(r, jtable.StructureColumn, jtable.Handle{})
//	   fmt.Println(m.CellValue(h), m.RowCount(h))
//	}
//
// The columns are the same for every row. Column 0 shows the position or
// member name of the row; column 1 shows the value of a scalar array element.
// The remaining columns are named. Each named column shows the scalar member
// of that name of an object row, so an array of similar objects displays as
// a table, one object per row and one member per column.
//
// # Discovering Columns
//
// The named columns are either set explicitly with SetNamedColumns, or
// discovered when a document is loaded, according to a SearchMode. A
// QuickSearch examines only the first element of each array, on the
// assumption that arrays are homogeneous. A ComprehensiveSearch examines the
// whole document.
//
// # Editing
//
// Scalar values can be changed in place with SetCellValue, and the document
// is recovered with ValueAt. Structural changes (adding, removing, renaming
// or reordering rows) are not supported.
package jtable
