// Package scan provides small composable rules for parsing the line-oriented
// pattern and instrumentation formats.
//
// A Rule consumes a prefix of the input at a Cursor and returns the parsed
// value together with the cursor positioned after it. A rule that does not
// match returns ok == false and the caller discards the returned cursor.
package scan

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cursor is an immutable read position within a single line.
type Cursor struct {
	input string
	pos   int
}

// New returns a cursor at the start of s.
func New(s string) Cursor {
	return Cursor{input: s}
}

// Rest returns the unconsumed input.
func (c Cursor) Rest() string {
	return c.input[c.pos:]
}

// AtEnd reports whether all input has been consumed.
func (c Cursor) AtEnd() bool {
	return c.pos >= len(c.input)
}

func (c Cursor) advance(n int) Cursor {
	return Cursor{input: c.input, pos: c.pos + n}
}

// Rule parses a value of type T at a cursor.
type Rule[T any] func(c Cursor) (T, Cursor, bool)

// Maybe holds the result of an optional rule.
type Maybe[T any] struct {
	Value T
	Ok    bool
}

// While consumes the longest run (possibly empty) of runes satisfying pred.
func While(pred func(rune) bool) Rule[string] {
	return func(c Cursor) (string, Cursor, bool) {
		rest := c.Rest()
		n := 0
		for n < len(rest) {
			r, size := utf8.DecodeRuneInString(rest[n:])
			if !pred(r) {
				break
			}
			n += size
		}
		return rest[:n], c.advance(n), true
	}
}

// While1 is like While but requires at least one rune.
func While1(pred func(rune) bool) Rule[string] {
	w := While(pred)
	return func(c Cursor) (string, Cursor, bool) {
		s, next, _ := w(c)
		if s == "" {
			return "", c, false
		}
		return s, next, true
	}
}

var (
	// Spaces consumes optional horizontal whitespace.
	Spaces = While(isBlank)

	// Spaces1 consumes at least one whitespace character.
	Spaces1 = While1(isBlank)

	// Token consumes a run of non-whitespace characters.
	Token = While1(func(r rune) bool { return !unicode.IsSpace(r) })
)

func isBlank(r rune) bool {
	return unicode.IsSpace(r)
}

// End matches only when the input has been fully consumed.
func End(c Cursor) (struct{}, Cursor, bool) {
	return struct{}{}, c, c.AtEnd()
}

// Char matches any single byte listed in set.
func Char(set string) Rule[byte] {
	return func(c Cursor) (byte, Cursor, bool) {
		if c.AtEnd() {
			return 0, c, false
		}
		b := c.input[c.pos]
		if strings.IndexByte(set, b) < 0 {
			return 0, c, false
		}
		return b, c.advance(1), true
	}
}

// Fold1 applies r one or more times, folding each result into an
// accumulator created by init.
func Fold1[T, A any](r Rule[T], init func() A, fold func(A, T) A) Rule[A] {
	return func(c Cursor) (A, Cursor, bool) {
		acc := init()
		v, next, ok := r(c)
		if !ok {
			return acc, c, false
		}
		for ok {
			acc = fold(acc, v)
			c = next
			v, next, ok = r(c)
		}
		return acc, c, true
	}
}

// Verify fails when r succeeds with a value rejected by pred.
func Verify[T any](r Rule[T], pred func(T) bool) Rule[T] {
	return func(c Cursor) (T, Cursor, bool) {
		v, next, ok := r(c)
		if !ok || !pred(v) {
			var zero T
			return zero, c, false
		}
		return v, next, true
	}
}

// Optional always succeeds, recording whether r matched.
func Optional[T any](r Rule[T]) Rule[Maybe[T]] {
	return func(c Cursor) (Maybe[T], Cursor, bool) {
		v, next, ok := r(c)
		if !ok {
			return Maybe[T]{}, c, true
		}
		return Maybe[T]{Value: v, Ok: true}, next, true
	}
}

// Float matches the longest numeric-looking prefix that parses as a float64.
func Float(c Cursor) (float64, Cursor, bool) {
	lit, _, _ := While(func(r rune) bool {
		return (r >= '0' && r <= '9') || strings.ContainsRune("+-.eE", r)
	})(c)
	for n := len(lit); n > 0; n-- {
		if v, err := strconv.ParseFloat(lit[:n], 64); err == nil {
			return v, c.advance(n), true
		}
	}
	return 0, c, false
}
