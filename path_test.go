// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jtable_test

import (
	"testing"

	"github.com/creachadair/jtable"
)

const testJSON = `{
  "title": "inventory",
  "list": [
    {
      "x": 1
    },
    {
      "x": 2
    }
  ],
  "y": {
    "hello": "there"
  },
  "o": [
    "hi",
    "yourself"
  ],
  "xyz": {
    "p": true,
    "d": true,
    "q": false
  }
}`

func TestFind(t *testing.T) {
	m := mustLoad(t, testJSON, jtable.QuickSearch)

	tests := []struct {
		name string
		path []any
		want any // the value at the handle found
		col  int
		fail bool
	}{
		{"NilInput", nil, nil, 0, false},
		{"NoMatch", []any{"nonesuch"}, nil, 0, true},
		{"TopScalar", []any{"title"}, "inventory", m.ColumnOf("title"), false},

		{"ArrayPos", []any{"list", 1}, mustParse(t, `{"x": 2}`), 0, false},
		{"ArrayNeg", []any{"list", -1}, mustParse(t, `{"x": 2}`), 0, false},
		{"ArrayRange", []any{"o", 25}, nil, 0, true},
		{"ArrayScalar", []any{"o", 0}, "hi", jtable.ScalarColumn, false},
		{"ArrayMember", []any{"list", 0, "x"}, 1, m.ColumnOf("x"), false},
		{"ObjPath", []any{"xyz", "d"}, true, m.ColumnOf("d"), false},
		{"ObjRow", []any{"y"}, mustParse(t, `{"hello": "there"}`), 0, false},
		{"ObjIndex", []any{0, 1}, mustParse(t, `{"hello": "there"}`), 0, false},
		{"NilElement", []any{"list", nil, 0}, mustParse(t, `{"x": 1}`), 0, false},

		{"ScalarNotLast", []any{"title", 0}, nil, 0, true},
		{"IndexScalar", []any{"o", 0, 0}, nil, 0, true},
		{"KeyInArray", []any{"o", "hi"}, nil, 0, true},
		{"WrongType", []any{1.5}, nil, 0, true},
		{"NoMember", []any{"xyz", "nonesuch"}, nil, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := m.Find(tc.path...)
			if err != nil {
				if !tc.fail {
					t.Fatalf("Find %v: unexpected error: %v", tc.path, err)
				}
				t.Logf("Find %v: got expected error: %v", tc.path, err)
				return
			} else if tc.fail {
				t.Fatalf("Find %v: got %v, want error", tc.path, h)
			}
			if tc.path == nil {
				if h.IsValid() {
					t.Errorf("Find(): got %v, want invalid", h)
				}
				return
			}
			if got := h.Column(); got != tc.col {
				t.Errorf("Column: got %d, want %d", got, tc.col)
			}
			checkValue(t, "ValueAt", m.ValueAt(h), tc.want)
		})
	}
}

func TestFindMissingColumn(t *testing.T) {
	m := mustLoad(t, testJSON, jtable.NoSearch)
	if h, err := m.Find("xyz", "p"); err == nil {
		t.Errorf("Find without columns: got %v, want error", h)
	}

	m.SetNamedColumns([]string{"p"})
	h, err := m.Find("xyz", "p")
	if err != nil {
		t.Fatalf("Find: unexpected error: %v", err)
	}
	if !m.SetCellValue(h, false) {
		t.Fatal("SetCellValue failed")
	}
	v, err := m.Find("xyz")
	if err != nil {
		t.Fatalf("Find: unexpected error: %v", err)
	}
	checkValue(t, "xyz", m.ValueAt(v), mustParse(t, `{"p": false, "d": true, "q": false}`))
}
