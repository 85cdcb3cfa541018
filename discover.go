// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jtable

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/creachadair/jtable/value"
	"github.com/creachadair/mds/mapset"
)

// A SearchMode controls how a load updates the named columns of a Model.
type SearchMode int

const (
	// NoSearch leaves the named columns unchanged. The caller sets them with
	// SetNamedColumns.
	NoSearch SearchMode = iota

	// QuickSearch scans every member of each object, but only the first
	// element of each array.
	QuickSearch

	// ComprehensiveSearch scans every member of each object and every
	// element of each array.
	ComprehensiveSearch
)

// DefaultSearchMode is the search mode used when none is specified.
const DefaultSearchMode = QuickSearch

var searchModeNames = []string{
	NoSearch:            "none",
	QuickSearch:         "quick",
	ComprehensiveSearch: "full",
}

func (s SearchMode) String() string {
	if s >= 0 && int(s) < len(searchModeNames) {
		return searchModeNames[s]
	}
	return fmt.Sprintf("SearchMode(%d)", int(s))
}

// ParseSearchMode parses the name of a search mode: "none", "quick", or
// "full". The empty string denotes DefaultSearchMode.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultSearchMode, nil
	case "none", "no":
		return NoSearch, nil
	case "quick":
		return QuickSearch, nil
	case "full", "comprehensive":
		return ComprehensiveSearch, nil
	}
	return 0, fmt.Errorf("unknown search mode %q", s)
}

// FindScalarNames returns the set of names of scalar object members reachable
// from v. All members of every object are scanned. If comprehensive is
// false, only the first element of each array is scanned.
func FindScalarNames(v value.Value, comprehensive bool) mapset.Set[string] {
	names := mapset.New[string]()
	findScalarNames(names, v, comprehensive)
	return names
}

func findScalarNames(names mapset.Set[string], v value.Value, comprehensive bool) {
	switch t := v.(type) {
	case value.Array:
		for _, elt := range t {
			findScalarNames(names, elt, comprehensive)
			if !comprehensive {
				break
			}
		}
	case value.Object:
		// Where a key is repeated, only its last member is kept by the model.
		for _, key := range t.Keys() {
			m := t.Find(key)
			if value.IsScalar(m.Value) {
				names.Add(key)
			} else {
				findScalarNames(names, m.Value, comprehensive)
			}
		}
	}
}

// DiscoverColumns returns the sorted names of the named columns for v under
// the given search mode. It returns nil for NoSearch.
func DiscoverColumns(v value.Value, mode SearchMode) []string {
	if mode == NoSearch {
		return nil
	}
	names := FindScalarNames(v, mode == ComprehensiveSearch)
	if len(names) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(names))
}
