// Package peg implements the grammar engine: a tree of Productions evaluated
// against an Input Context to build an abstract syntax tree. It is the
// runtime half of the grammar-driven parser toolkit; the compiler package
// translates a BNF-style grammar AST into a Table of Productions that this
// package then evaluates.
package peg

import (
	"github.com/dekarrin/grammarkit/internal/perr"
)

// Context carries the input text, a byte cursor, and the (line, column)
// position derived from everything consumed so far. It is the only
// backtracking mechanism the engine has: a Production that might fail
// evaluates on a Clone of the Context it was given, and only calls Update on
// the original when it succeeds. There is no other form of rollback.
type Context struct {
	Text   string
	Pos    int
	Line   int
	Column int

	// Declarations is shared by reference across every Clone of a Context;
	// it is built once by the compiler and never mutated during parsing.
	Declarations *Table
}

// NewContext creates a Context positioned at the start of text, resolving
// named references through decls.
func NewContext(text string, decls *Table) *Context {
	return &Context{Text: text, Declarations: decls}
}

// Eof reports whether there are fewer than n bytes left to consume.
func (c *Context) Eof(n int) bool {
	return c.Pos+n-1 >= len(c.Text)
}

// Peek returns up to n bytes starting at the cursor without consuming them.
// If fewer than n bytes remain, the available prefix is returned.
func (c *Context) Peek(n int) string {
	end := c.Pos + n
	if end > len(c.Text) {
		end = len(c.Text)
	}
	if end < c.Pos {
		end = c.Pos
	}
	return c.Text[c.Pos:end]
}

// Next consumes up to n bytes starting at the cursor, advancing Line and
// Column to match, and returns what was consumed. As with Peek, fewer bytes
// are returned (and consumed) if the input runs out first.
func (c *Context) Next(n int) string {
	s := c.Peek(n)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			c.Line++
			c.Column = 0
		} else {
			c.Column++
		}
	}
	c.Pos += len(s)
	return s
}

// Clone returns an independent copy of c that shares its Declarations table
// by reference. Mutating the clone's cursor has no effect on c until Update
// is called.
func (c *Context) Clone() *Context {
	clone := *c
	return &clone
}

// Update overwrites every field of c with other's, including the
// Declarations reference. This is the commit half of the clone/update
// backtracking idiom.
func (c *Context) Update(other *Context) {
	*c = *other
}

// Position returns the (zero-based) position of the cursor.
func (c *Context) Position() perr.Position {
	return perr.Position{Line: c.Line, Column: c.Column}
}

// GetText returns the substring of the input between c's cursor and end's
// cursor. end is normally a Context cloned from c and advanced by one or
// more successful evaluations.
func (c *Context) GetText(end *Context) string {
	return c.Text[c.Pos:end.Pos]
}
