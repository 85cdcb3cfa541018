// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtable

import (
	"fmt"

	"github.com/creachadair/jtable/tree"
	"github.com/creachadair/jtable/value"
)

// IsEditable reports whether the cell addressed by h can be changed by
// SetCellValue. Only the ScalarColumn of a scalar row and the named columns
// of an object row are editable. Structure cells and array rows never are.
func (m *Model) IsEditable(h Handle) bool {
	switch m.doc.Kind(m.node(h)) {
	case tree.Scalar:
		return h.col == ScalarColumn
	case tree.Object:
		return h.col >= firstNamed && h.col < len(m.headers)
	}
	return false
}

// SetCellValue replaces the value in the cell addressed by h with v, and
// reports whether the model changed. The value must be a scalar as accepted
// by value.Scalar. It reports false without change if the cell is not
// editable, v is not a scalar, or the cell already holds an equal value.
//
// Setting a named column of an object that has no member by that name adds
// the member. A member name held by an array or object value cannot be set.
func (m *Model) SetCellValue(h Handle, v any) bool {
	if !m.IsEditable(h) {
		m.log.Debug("edit rejected", "cell", h, "reason", "not editable")
		return false
	}
	nv, ok := value.Scalar(v)
	if !ok {
		m.log.Debug("edit rejected", "cell", h, "reason", "unsupported value", "type", typeName(v))
		return false
	}
	cur := m.CellValue(h)
	if value.Equal(cur, nv) || (cur == nil && nv == value.Null{}) {
		return false
	}

	var done bool
	if h.col == ScalarColumn {
		done = m.doc.SetScalar(h.node, nv)
	} else {
		done = m.doc.SetNamedScalar(h.node, m.headers[h.col], nv)
	}
	if !done {
		m.log.Debug("edit rejected", "cell", h, "reason", "member is not a scalar")
		return false
	}
	m.log.Debug("edited cell", "cell", h, "old", value.Text(cur), "new", nv.JSON())
	m.changed(h)
	return true
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
