// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jtable

import (
	"fmt"

	"github.com/creachadair/jtable/tree"
)

// Find traverses a sequential path from the root of the document and returns
// a handle to the cell it reaches. Path elements are strings, denoting object
// members, integers, denoting row positions, or nil, which are ignored.
// An empty path yields the invalid handle, which denotes the root.
//
// If a path element is an integer, the current row must be an array or an
// object, and the integer selects one of its rows. Negative indices count
// backward from the end (-1 is last, -2 second last).
//
// If a path element is a string, the current row must be an object. If the
// member with that name is an array or object, traversal continues from its
// row. If it is a scalar, it must be the last element of the path, and Find
// returns a handle to the named column of the object for that member. It is
// an error if the model has no such column.
//
// If the path ends at a scalar array element, the handle addresses its
// ScalarColumn; otherwise it addresses the StructureColumn of the row.
func (m *Model) Find(path ...any) (Handle, error) {
	var cur Handle
	for i, elt := range path {
		id := m.parentNode(cur)

		switch t := elt.(type) {
		case string:
			// A wrapped object is the only row of the root.
			if m.doc.Kind(id) == tree.Wrapper {
				cur = m.Index(0, StructureColumn, cur)
				id = cur.node
			}
			if m.doc.Kind(id) != tree.Object {
				return Handle{}, fmt.Errorf("at %d: cannot find %q in %v", i, t, m.doc.Kind(id))
			}
			mem, ok := m.doc.Lookup(id, t)
			if !ok {
				return Handle{}, fmt.Errorf("at %d: key %q not found", i, t)
			}
			if mem.Child != tree.None {
				cur = m.handle(m.doc.ChildPosition(id, mem.Child), StructureColumn, mem.Child)
				continue
			}
			if i != len(path)-1 {
				return Handle{}, fmt.Errorf("at %d: member %q is a scalar", i, t)
			}
			col := m.ColumnOf(t)
			if col < 0 || !cur.IsValid() {
				return Handle{}, fmt.Errorf("at %d: no column for member %q", i, t)
			}
			return m.handle(cur.row, col, id), nil

		case int:
			if !m.doc.Kind(id).IsList() {
				return Handle{}, fmt.Errorf("at %d: cannot index %v with %d", i, m.doc.Kind(id), t)
			}
			n := m.doc.ChildCount(id)
			pos, ok := fixArrayBound(n, t)
			if !ok {
				return Handle{}, fmt.Errorf("at %d: index %d out of bounds (n=%d)", i, t, n)
			}
			cur = m.Index(pos, StructureColumn, cur)

		case nil:
			// Do nothing.

		default:
			return Handle{}, fmt.Errorf("at %d: invalid path element %T", i, elt)
		}
	}
	if m.doc.Kind(cur.node) == tree.Scalar {
		cur.col = ScalarColumn
	}
	return cur, nil
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
