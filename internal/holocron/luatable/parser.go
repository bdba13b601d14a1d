package luatable

import (
	"strconv"
	"strings"
)

// Parse extracts the first top-level `Name = { ... }` assignment from
// SavedVariables source and returns it as a single-entry table keyed by
// the variable name. When no assignment is found the result is an empty
// table, not an error: partially written save files are expected and
// must degrade quietly.
//
// Each call owns its own cursor, so Parse is safe to call concurrently.
func Parse(src string) Value {
	s := &scanner{src: src}
	for {
		s.skipSpace()
		if s.eof() {
			return TableValue(NewTable())
		}
		name := s.bareword()
		if name == "" {
			s.pos++
			continue
		}
		mark := s.pos
		s.skipSpace()
		if s.eof() || s.src[s.pos] != '=' {
			s.pos = mark
			continue
		}
		s.pos++
		s.skipSpace()
		if s.eof() || s.src[s.pos] != '{' {
			s.pos = mark
			continue
		}
		root := NewTable()
		root.Set(StringKey(name), s.value())
		return TableValue(root)
	}
}

// scanner is a cursor over one source string. All parsing methods are
// lenient: they never fail, they only stop early or fall back to a
// zero value.
type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

// skipSpace advances over whitespace and `--` comments. Comments are
// only recognized here, between tokens, so a `--` inside a string
// literal is never treated as a comment.
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.pos++
		case c == '-' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '-':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

// value parses one value at the cursor.
func (s *scanner) value() Value {
	s.skipSpace()
	if s.eof() {
		return Nil()
	}
	switch c := s.src[s.pos]; {
	case c == '{':
		return s.table()
	case c == '"':
		return String(s.quoted())
	case c == '-' || (c >= '0' && c <= '9'):
		return s.number()
	case strings.HasPrefix(s.src[s.pos:], "true"):
		s.pos += 4
		return Bool(true)
	case strings.HasPrefix(s.src[s.pos:], "false"):
		s.pos += 5
		return Bool(false)
	case strings.HasPrefix(s.src[s.pos:], "nil"):
		s.pos += 3
		return Nil()
	default:
		word := s.bareword()
		if word == "" {
			// Unparseable byte; consume it so the caller always makes
			// progress, and degrade to an empty string.
			s.pos++
		}
		return String(word)
	}
}

// quoted scans a double-quoted string. Backslash escape pairs are
// passed through verbatim, not decoded. An unterminated string runs to
// the end of input.
func (s *scanner) quoted() string {
	s.pos++ // opening quote
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != '"' {
		if s.src[s.pos] == '\\' && s.pos+1 < len(s.src) {
			s.pos += 2
		} else {
			s.pos++
		}
	}
	val := s.src[start:s.pos]
	if s.pos < len(s.src) {
		s.pos++ // closing quote
	}
	return val
}

// number scans an optional minus, digits and at most one decimal point.
// Integral results collapse to Int; malformed text degrades to Int(0).
func (s *scanner) number() Value {
	start := s.pos
	if s.src[s.pos] == '-' {
		s.pos++
	}
	sawDot := false
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c >= '0' && c <= '9' {
			s.pos++
		} else if c == '.' && !sawDot {
			sawDot = true
			s.pos++
		} else {
			break
		}
	}
	f, err := strconv.ParseFloat(s.src[start:s.pos], 64)
	if err != nil {
		return Int(0)
	}
	if f == float64(int64(f)) {
		return Int(int64(f))
	}
	return Float(f)
}

// bareword scans an identifier-like token ([A-Za-z0-9_]+) and returns
// it without advancing past anything else.
func (s *scanner) bareword() string {
	start := s.pos
	for s.pos < len(s.src) && isWordByte(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// table parses a table body after `{`. The table is classified once at
// the closing brace: positional-only and non-empty becomes an Array,
// anything else (explicit keys, mixed entries, truncated input) stays a
// Table with positional entries keyed by their 1-based slot.
func (s *scanner) table() Value {
	s.pos++ // opening brace
	tbl := NewTable()
	isArray := true
	nextSlot := int64(1)

	for {
		s.skipSpace()
		if s.eof() {
			// Truncated mid-write; return what we have as a mapping.
			return TableValue(tbl)
		}
		if s.src[s.pos] == '}' {
			s.pos++
			if isArray && tbl.Len() > 0 {
				items := make([]Value, 0, tbl.Len())
				for _, k := range tbl.Keys() {
					v, _ := tbl.Get(k)
					items = append(items, v)
				}
				return Array(items)
			}
			return TableValue(tbl)
		}

		var key Key
		haveKey := false
		switch c := s.src[s.pos]; {
		case c == '[':
			isArray = false
			s.pos++
			s.skipSpace()
			if !s.eof() && s.src[s.pos] == '"' {
				key = StringKey(s.quoted())
			} else if !s.eof() {
				key = numberKey(s.number())
			}
			haveKey = true
			s.skipSpace()
			if !s.eof() && s.src[s.pos] == ']' {
				s.pos++
			}
			s.skipSpace()
			if !s.eof() && s.src[s.pos] == '=' {
				s.pos++
			}
		case isWordStart(c):
			word := s.bareword()
			s.skipSpace()
			if !s.eof() && s.src[s.pos] == '=' {
				// identifier = value
				isArray = false
				s.pos++
				key = StringKey(word)
				haveKey = true
			} else {
				// A bareword with no `=` is a positional value.
				key = IntKey(nextSlot)
				nextSlot++
				tbl.Set(key, barewordValue(word))
				s.skipSpace()
				if !s.eof() && (s.src[s.pos] == ',' || s.src[s.pos] == ';') {
					s.pos++
				}
				continue
			}
		default:
			key = IntKey(nextSlot)
			nextSlot++
			haveKey = true
		}

		if haveKey {
			tbl.Set(key, s.value())
		}

		s.skipSpace()
		if !s.eof() && (s.src[s.pos] == ',' || s.src[s.pos] == ';') {
			s.pos++
		}
	}
}

func isWordStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// numberKey converts a parsed numeric key to a Key. Non-integral floats
// are rare in save data; they degrade to their string form.
func numberKey(v Value) Key {
	if n, ok := v.Int64(); ok {
		if v.Kind() == KindInt {
			return IntKey(n)
		}
		if f, _ := v.Float64(); f == float64(n) {
			return IntKey(n)
		}
	}
	f, _ := v.Float64()
	return StringKey(strconv.FormatFloat(f, 'g', -1, 64))
}

// barewordValue maps positional bareword tokens to their literal value.
func barewordValue(word string) Value {
	switch word {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "nil":
		return Nil()
	default:
		return String(word)
	}
}
