// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package value defines the JSON value trees that are loaded into and
// exported from a jtable.Model, together with a parser, an encoder and a
// formatter for them.
//
// A Value is one of the concrete types Object, Array, String, Number, Bool,
// or Null. Objects keep their members in input order and may contain
// duplicate keys; where a single member is required for a key, the last one
// wins.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/creachadair/jtable/internal/escape"
	"go4.org/mem"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON returns the compact JSON encoding of the value.
	JSON() string
}

// An Object is a collection of key-value members.
type Object []*Member

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Len reports the number of members in o.
func (o Object) Len() int { return len(o) }

// Keys returns the distinct member keys of o in order of first appearance.
// Nil members are ignored, here and by Find.
func (o Object) Keys() []string {
	var keys []string
	seen := make(map[string]bool, len(o))
	for _, m := range o {
		if m == nil {
			continue
		}
		if !seen[m.Key] {
			seen[m.Key] = true
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// Find returns the last member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i] != nil && o[i].Key == key {
			return o[i]
		}
	}
	return nil
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// JSON satisfies the Value interface.
func (m *Member) JSON() string { return Quote(m.Key) + ":" + m.Value.JSON() }

// Field constructs an object member with the given key and value.
// The value must be acceptable to ToValue.
func Field(key string, v any) *Member { return &Member{Key: key, Value: ToValue(v)} }

// An Array is a sequence of values.
type Array []Value

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// A String is a string value.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return Quote(string(s)) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

// Null represents the null constant.
type Null struct{}

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }

// A Number is a numeric value. It retains the text it was parsed from, so
// that integers of any size survive a round trip unchanged.
type Number struct{ text string }

// Int constructs a Number from an integer.
func Int(z int64) Number { return Number{text: strconv.FormatInt(z, 10)} }

// Uint constructs a Number from an unsigned integer.
func Uint(u uint64) Number { return Number{text: strconv.FormatUint(u, 10)} }

// Float constructs a Number from a floating-point value. It panics if f is
// not finite, since JSON has no representation for infinities or NaN.
func Float(f float64) Number {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		panic(fmt.Sprintf("value: non-finite number %v", f))
	}
	return Number{text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// ParseNumber parses s as a JSON number.
func ParseNumber(s string) (Number, error) {
	if !isNumber(s) {
		return Number{}, fmt.Errorf("invalid number %q", s)
	}
	return Number{text: s}, nil
}

// JSON satisfies the Value interface.
func (n Number) JSON() string {
	if n.text == "" {
		return "0"
	}
	return n.text
}

func (n Number) String() string { return n.JSON() }

// IsInt reports whether n is written without a fraction or exponent.
func (n Number) IsInt() bool { return !strings.ContainsAny(n.text, ".eE") }

// Int64 returns n as an int64, reporting false if n is not an integer or is
// out of range.
func (n Number) Int64() (int64, bool) {
	if !n.IsInt() {
		return 0, false
	}
	z, err := strconv.ParseInt(n.JSON(), 10, 64)
	if err != nil {
		return 0, false
	}
	return z, true
}

// Float64 returns n as a float64.
func (n Number) Float64() float64 {
	f, _ := strconv.ParseFloat(n.JSON(), 64)
	return f
}

// equal reports whether n and o denote the same number. Integers are
// compared exactly at any size; other numbers are compared as decimals.
func (n Number) equal(o Number) bool {
	if a, ok := n.Int64(); ok {
		if b, ok := o.Int64(); ok {
			return a == b
		}
	}
	if n.IsInt() && o.IsInt() {
		a, aok := new(big.Int).SetString(n.JSON(), 10)
		b, bok := new(big.Int).SetString(o.JSON(), 10)
		if aok && bok {
			return a.Cmp(b) == 0
		}
	}
	a, aok := n.bigFloat()
	b, bok := o.bigFloat()
	if aok && bok {
		return a.Cmp(b) == 0
	}
	return n.Float64() == o.Float64()
}

// decimalPrec is the binary precision used to compare non-integer numbers.
const decimalPrec = 1024

func (n Number) bigFloat() (*big.Float, bool) {
	f, _, err := big.ParseFloat(n.JSON(), 10, decimalPrec, big.ToNearestEven)
	return f, err == nil
}

// Quote encodes s as a JSON string, with enclosing quotation marks.
func Quote(s string) string { return string(escape.Quote(mem.S(s))) }

// Unquote decodes a JSON string, including its enclosing quotation marks.
func Unquote(s string) (string, error) {
	dec, err := escape.Unquote(mem.S(s))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}

// IsScalar reports whether v is a scalar: a string, number, Boolean, or null.
func IsScalar(v Value) bool {
	switch v.(type) {
	case String, Number, Bool, Null:
		return true
	}
	return false
}

// Scalar converts a Go value into a scalar Value. It accepts nil, bool, any
// integer or floating-point kind, string, json.Number, and scalar Values.
// It reports false for any other input, and for non-finite floats.
func Scalar(v any) (Value, bool) {
	switch t := v.(type) {
	case nil:
		return Null{}, true
	case Null, Bool, String, Number:
		return t.(Value), true
	case bool:
		return Bool(t), true
	case string:
		return String(t), true
	case int:
		return Int(int64(t)), true
	case int8:
		return Int(int64(t)), true
	case int16:
		return Int(int64(t)), true
	case int32:
		return Int(int64(t)), true
	case int64:
		return Int(t), true
	case uint:
		return Uint(uint64(t)), true
	case uint8:
		return Uint(uint64(t)), true
	case uint16:
		return Uint(uint64(t)), true
	case uint32:
		return Uint(uint64(t)), true
	case uint64:
		return Uint(t), true
	case float32:
		return finite(float64(t))
	case float64:
		return finite(t)
	case json.Number:
		n, err := ParseNumber(string(t))
		return n, err == nil
	}
	return nil, false
}

func finite(f float64) (Value, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return Float(f), true
}

// ToValue converts a string, number, bool, nil, or Value into a Value.
// It panics if v does not have one of those types.
func ToValue(v any) Value {
	if t, ok := v.(Value); ok {
		return t
	}
	if s, ok := Scalar(v); ok {
		return s
	}
	panic(fmt.Sprintf("value: unsupported type %T", v))
}

// Text returns a display string for v: strings are returned without quotes
// or escapes, and all other values in their JSON encoding. A nil Value has
// empty text.
func Text(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case String:
		return string(t)
	}
	return v.JSON()
}

// Equal reports whether a and b represent the same JSON value. Numbers are
// compared by value rather than by text, and objects are compared as
// mappings from keys to values without regard to member order.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x.equal(y)
	case *Member:
		y, ok := b.(*Member)
		return ok && x.Key == y.Key && Equal(x.Value, y.Value)
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Object:
		y, ok := b.(Object)
		if !ok {
			return false
		}
		xm, ym := x.lastByKey(), y.lastByKey()
		if len(xm) != len(ym) {
			return false
		}
		for key, xv := range xm {
			yv, ok := ym[key]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

func (o Object) lastByKey() map[string]Value {
	m := make(map[string]Value, len(o))
	for _, kv := range o {
		if kv != nil {
			m[kv.Key] = kv.Value
		}
	}
	return m
}

// isNumber reports whether s matches the JSON number grammar.
func isNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && '1' <= s[i] && s[i] <= '9':
		i = skipDigits(s, i)
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		j := skipDigits(s, i+1)
		if j == i+1 {
			return false
		}
		i = j
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		j := skipDigits(s, i)
		if j == i {
			return false
		}
		i = j
	}
	return i == len(s)
}

func skipDigits(s string, i int) int {
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	return i
}
