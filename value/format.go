// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"cmp"
	"io"
	"strings"
)

// A Formatter carries the settings for pretty-printing values.
// A zero value is ready for use with default settings.
type Formatter struct {
	// Indent is the text used for each level of nesting (default two spaces).
	Indent string

	// MaxLineItems is the largest number of scalar array elements that will
	// be rendered on a single line (default 3).
	MaxLineItems int
}

func (f Formatter) indent() string { return cmp.Or(f.Indent, "  ") }

func (f Formatter) maxLineItems() int { return cmp.Or(f.MaxLineItems, 3) }

// Format renders a pretty-printed representation of v to w with default
// settings.
func Format(w io.Writer, v Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatToString formats v to a string with default settings.
func FormatToString(v Value) string {
	var f Formatter
	var sb strings.Builder
	f.formatValue(&sb, v, "")
	return sb.String()
}

// Format renders a pretty-printed representation of v to w using the
// settings from f. The output is standard JSON.
func (f Formatter) Format(w io.Writer, v Value) error {
	var sb strings.Builder
	f.formatValue(&sb, v, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (f Formatter) formatValue(sb *strings.Builder, v Value, indent string) {
	if f.isBoring(v) {
		f.formatInline(sb, v)
		return
	}
	inner := indent + f.indent()
	switch t := v.(type) {
	case Array:
		sb.WriteString("[\n")
		for i, elt := range t {
			if i > 0 {
				sb.WriteString(",\n")
			}
			sb.WriteString(inner)
			f.formatValue(sb, elt, inner)
		}
		sb.WriteString("\n" + indent + "]")
	case Object:
		sb.WriteString("{\n")
		for i, m := range t {
			if i > 0 {
				sb.WriteString(",\n")
			}
			sb.WriteString(inner + Quote(m.Key) + ": ")
			f.formatValue(sb, m.Value, inner)
		}
		sb.WriteString("\n" + indent + "}")
	case *Member:
		sb.WriteString(Quote(t.Key) + ": ")
		f.formatValue(sb, t.Value, indent)
	default:
		sb.WriteString(v.JSON())
	}
}

// formatInline renders a boring value on one line, with a space after each
// separator.
func (f Formatter) formatInline(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case Array:
		sb.WriteByte('[')
		for i, elt := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			f.formatInline(sb, elt)
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(Quote(m.Key) + ": ")
			f.formatInline(sb, m.Value)
		}
		sb.WriteByte('}')
	case *Member:
		sb.WriteString(Quote(t.Key) + ": ")
		f.formatInline(sb, t.Value)
	case nil:
		sb.WriteString("null")
	default:
		sb.WriteString(v.JSON())
	}
}

// isBoring reports whether v has a simple enough structure that it can be
// rendered on one line.
func (f Formatter) isBoring(v Value) bool {
	switch t := v.(type) {
	case Array:
		if len(t) > f.maxLineItems() {
			return false
		}
		for _, elt := range t {
			if !IsScalar(elt) {
				return false
			}
		}
		return true
	case Object:
		if len(t) == 1 {
			return f.isBoring(t[0].Value)
		}
		return len(t) == 0
	case *Member:
		return f.isBoring(t.Value)
	}
	return true
}
