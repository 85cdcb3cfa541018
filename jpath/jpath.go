// Package jpath implements a parser for the simple JSONPath expressions used
// to address members and elements of a JSON document.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/creachadair/jtable/internal/escape"
	"go4.org/mem"
)

/*
Grammar:

  expr = [root] steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = "[" INDEX "]"
  step = "[" qname "]"
  name = TEXT
 qname = "'" QTEXT "'"
 qname = QUOTED

  TEXT = RE `[^.\[\]]+`
 QTEXT = RE `[^']*`
 INDEX = RE `-?\d+`
QUOTED = { a JSON string }

If the root is omitted, the "." of the first step may also be omitted.

The other JSONPath operators (recursive descent, wildcards, slices, unions,
filters, and scripts) are recognized and reported as ErrUnsupported.
*/

// ErrUnsupported is reported for valid JSONPath operators that select more
// than one value.
var ErrUnsupported = errors.New("unsupported path operator")

// An Expr is a parsed path expression.
type Expr []Step

// An Op is a path operator.
type Op byte

const (
	Invalid Op = iota // invalid operator
	Member            // object member lookup
	Index             // array index lookup
)

var opText = map[Op]string{
	Invalid: "invalid",
	Member:  "member",
	Index:   "index",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return opText[Invalid]
}

// A Step is a single step of a path expression.
type Step struct {
	Op    Op
	Name  string // for Member
	Index int    // for Index; negative values count from the end
}

// Parse parses s as a path expression.
func Parse(s string) (Expr, error) {
	rest, ok := strings.CutPrefix(s, "$")
	if !ok && rest != "" && rest[0] != '.' && rest[0] != '[' {
		rest = "." + rest
	}
	var e Expr
	for rest != "" {
		step, tail, err := parseStep(rest)
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", max(len(s)-len(rest), 0), err)
		}
		e = append(e, step)
		rest = tail
	}
	return e, nil
}

// ParsePath parses s as a path expression and returns its steps as a
// sequence of strings (member names) and integers (indexes).
func ParsePath(s string) ([]any, error) {
	e, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return e.Path(), nil
}

// Path returns the steps of e as a sequence of strings (member names) and
// integers (indexes).
func (e Expr) Path() []any {
	var path []any
	for _, s := range e {
		switch s.Op {
		case Member:
			path = append(path, s.Name)
		case Index:
			path = append(path, s.Index)
		}
	}
	return path
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		switch s.Op {
		case Member:
			if wordRE.MatchString(s.Name) {
				fmt.Fprint(&buf, ".", s.Name)
			} else if !strings.Contains(s.Name, "'") {
				fmt.Fprintf(&buf, "['%s']", s.Name)
			} else {
				fmt.Fprintf(&buf, "[%s]", escape.Quote(mem.S(s.Name)))
			}
		case Index:
			fmt.Fprintf(&buf, "[%d]", s.Index)
		}
	}
	return buf.String()
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if strings.HasPrefix(s, "..") {
		return Step{}, s, unsupported("recursive descent")
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		if strings.HasPrefix(t, "*") {
			return Step{}, s, unsupported("wildcard")
		}
		name := nameRE.FindString(t)
		if name == "" {
			return Step{}, s, errors.New("missing member name")
		}
		return Step{Op: Member, Name: name}, t[len(name):], nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		step, u, err := parseSubscript(t)
		if err != nil {
			return Step{}, s, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, u, errors.New("missing close bracket")
		}
		return step, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

func parseSubscript(s string) (_ Step, rest string, _ error) {
	switch {
	case strings.HasPrefix(s, "?("):
		return Step{}, s, unsupported("filter")
	case strings.HasPrefix(s, "("):
		return Step{}, s, unsupported("script")
	case strings.HasPrefix(s, "*"):
		return Step{}, s, unsupported("wildcard")
	case strings.HasPrefix(s, ":"):
		return Step{}, s, unsupported("slice")

	case strings.HasPrefix(s, "'"):
		end := strings.IndexByte(s[1:], '\'')
		if end < 0 {
			return Step{}, s, errors.New("unterminated quoted name")
		}
		return Step{Op: Member, Name: s[1 : end+1]}, s[end+2:], nil

	case strings.HasPrefix(s, `"`):
		n := quotedLen(s)
		if n < 0 {
			return Step{}, s, errors.New("unterminated quoted name")
		}
		name, err := escape.Unquote(mem.S(s[:n]))
		if err != nil {
			return Step{}, s, fmt.Errorf("quoted name: %w", err)
		}
		return Step{Op: Member, Name: string(name)}, s[n:], nil
	}

	text := indexRE.FindString(s)
	if text == "" {
		return Step{}, s, fmt.Errorf("invalid subscript: %q", s)
	}
	rest = s[len(text):]
	if strings.HasPrefix(rest, ":") {
		return Step{}, s, unsupported("slice")
	} else if strings.HasPrefix(rest, ",") {
		return Step{}, s, unsupported("union")
	}
	z, err := strconv.Atoi(text)
	if err != nil {
		return Step{}, s, fmt.Errorf("invalid index: %w", err)
	}
	return Step{Op: Index, Index: z}, rest, nil
}

// quotedLen returns the length of the JSON string at the start of s,
// including its quotes, or -1 if it is not terminated.
func quotedLen(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return -1
}

func unsupported(op string) error { return fmt.Errorf("%w: %s", ErrUnsupported, op) }

var (
	wordRE  = regexp.MustCompile(`^\w+$`)
	nameRE  = regexp.MustCompile(`^[^.\[\]]+`)
	indexRE = regexp.MustCompile(`^-?\d+`)
)
