// Package luatable parses WoW SavedVariables files - Lua source consisting
// of nested table literals - into structured values, without a Lua
// interpreter. Input files are live save data that may be read mid-write,
// so the parser never fails: malformed input degrades to safe defaults.
package luatable

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindTable
)

// Key is a table key: either a string or an integer.
type Key struct {
	Str   string
	N     int64
	IsInt bool
}

// StringKey returns a string-valued key.
func StringKey(s string) Key { return Key{Str: s} }

// IntKey returns an integer-valued key.
func IntKey(n int64) Key { return Key{N: n, IsInt: true} }

// String renders the key for display and for map keys in Interface().
func (k Key) String() string {
	if k.IsInt {
		return strconv.FormatInt(k.N, 10)
	}
	return k.Str
}

// Table is a key-value mapping that preserves insertion order.
type Table struct {
	keys    []Key
	entries map[Key]Value
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[Key]Value)}
}

// Set stores v under k. An existing key keeps its original position.
func (t *Table) Set(k Key, v Value) {
	if _, ok := t.entries[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.entries[k] = v
}

// Get returns the value stored under k.
func (t *Table) Get(k Key) (Value, bool) {
	v, ok := t.entries[k]
	return v, ok
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []Key { return t.keys }

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.keys) }

// Value is a parsed Lua value: nil, boolean, integer, float, string,
// array (contiguous 1-based positional table) or table.
type Value struct {
	kind Kind
	b    bool
	n    int64
	f    float64
	s    string
	arr  []Value
	tbl  *Table
}

// Nil returns the nil value.
func Nil() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(n int64) Value { return Value{kind: KindInt, n: n} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps an ordered sequence.
func Array(vs []Value) Value { return Value{kind: KindArray, arr: vs} }

// TableValue wraps a table.
func TableValue(t *Table) Value { return Value{kind: KindTable, tbl: t} }

// Kind reports which variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Bool returns the boolean payload, false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Int64 returns the value as an integer. Floats truncate; strings of
// digits convert; anything else is 0 with ok=false.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.n, true
	case KindFloat:
		return int64(v.f), true
	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Float64 returns the value as a float, 0 with ok=false for non-numbers.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.n), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Str returns the string payload, "" for other kinds.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.s
	}
	return ""
}

// Items returns the array payload, nil for other kinds.
func (v Value) Items() []Value {
	if v.kind == KindArray {
		return v.arr
	}
	return nil
}

// Table returns the table payload, nil for other kinds.
func (v Value) Table() *Table {
	if v.kind == KindTable {
		return v.tbl
	}
	return nil
}

// Field looks up a string key on a table value. Returns Nil for
// non-tables and absent keys, so lookups chain safely.
func (v Value) Field(name string) Value {
	if v.kind != KindTable {
		return Nil()
	}
	if got, ok := v.tbl.Get(StringKey(name)); ok {
		return got
	}
	return Nil()
}

// Index looks up a 1-based positional slot on an array or a table
// keyed by integer slots. Returns Nil when absent.
func (v Value) Index(i int64) Value {
	switch v.kind {
	case KindArray:
		if i >= 1 && i <= int64(len(v.arr)) {
			return v.arr[i-1]
		}
	case KindTable:
		if got, ok := v.tbl.Get(IntKey(i)); ok {
			return got
		}
	}
	return Nil()
}

// Interface converts to plain Go values: nil, bool, int64, float64,
// string, []any, or map[string]any keyed by Key.String().
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.n
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindTable:
		out := make(map[string]any, v.tbl.Len())
		for _, k := range v.tbl.Keys() {
			item, _ := v.tbl.Get(k)
			out[k.String()] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Encode renders the value back to Lua source text. Strings are emitted
// verbatim (escapes were never decoded), so Parse(Encode(v)) round-trips.
func (v Value) Encode() string {
	var b strings.Builder
	v.encode(&b)
	return b.String()
}

func (v Value) encode(b *strings.Builder) {
	switch v.kind {
	case KindNil:
		b.WriteString("nil")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.n, 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		b.WriteByte('"')
		b.WriteString(v.s)
		b.WriteByte('"')
	case KindArray:
		b.WriteByte('{')
		for i, item := range v.arr {
			if i > 0 {
				b.WriteString(", ")
			}
			item.encode(b)
		}
		b.WriteByte('}')
	case KindTable:
		b.WriteByte('{')
		for i, k := range v.tbl.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			item, _ := v.tbl.Get(k)
			if k.IsInt {
				fmt.Fprintf(b, "[%d] = ", k.N)
			} else if isIdentifier(k.Str) {
				b.WriteString(k.Str)
				b.WriteString(" = ")
			} else {
				fmt.Fprintf(b, "[%q] = ", k.Str)
			}
			item.encode(b)
		}
		b.WriteByte('}')
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
