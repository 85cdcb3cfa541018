// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	// ErrEmptyInput is reported when the input contains no value.
	ErrEmptyInput = errors.New("empty input")

	// ErrNonStandard is reported by Parse when the input uses HuJSON
	// extensions such as comments or trailing commas.
	ErrNonStandard = errors.New("non-standard JSON")
)

// Parse parses data as a single standard JSON value. Comments and trailing
// commas are rejected with ErrNonStandard; use ParseHuJSON to accept them.
func Parse(data []byte) (Value, error) { return parse(data, false) }

// ParseHuJSON parses data as a single JSON value, permitting the HuJSON
// extensions of comments and trailing commas.
func ParseHuJSON(data []byte) (Value, error) { return parse(data, true) }

// ParseReader reads all of r and parses it as a single value.
// If huJSON is true, HuJSON extensions are permitted.
func ParseReader(r io.Reader, huJSON bool) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return parse(data, huJSON)
}

func parse(data []byte, huJSON bool) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	hv, err := hujson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if !huJSON && !hv.IsStandard() {
		return nil, ErrNonStandard
	}
	return fromHuJSON(hv)
}

// fromHuJSON converts a HuJSON syntax tree into a Value, discarding comments
// and whitespace.
func fromHuJSON(v hujson.Value) (Value, error) {
	switch t := v.Value.(type) {
	case hujson.Literal:
		return fromLiteral(t)
	case *hujson.Array:
		out := make(Array, len(t.Elements))
		for i, elt := range t.Elements {
			ev, err := fromHuJSON(elt)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case *hujson.Object:
		out := make(Object, len(t.Members))
		for i, m := range t.Members {
			name, ok := m.Name.Value.(hujson.Literal)
			if !ok {
				return nil, fmt.Errorf("offset %d: invalid member name", m.Name.StartOffset)
			}
			key, err := Unquote(string(name))
			if err != nil {
				return nil, fmt.Errorf("offset %d: member name: %w", m.Name.StartOffset, err)
			}
			mv, err := fromHuJSON(m.Value)
			if err != nil {
				return nil, err
			}
			out[i] = &Member{Key: key, Value: mv}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("offset %d: unknown value %T", v.StartOffset, v.Value)
	}
}

func fromLiteral(lit hujson.Literal) (Value, error) {
	switch text := string(lit); {
	case text == "null":
		return Null{}, nil
	case text == "true":
		return Bool(true), nil
	case text == "false":
		return Bool(false), nil
	case strings.HasPrefix(text, `"`):
		s, err := Unquote(text)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	default:
		return ParseNumber(text)
	}
}
