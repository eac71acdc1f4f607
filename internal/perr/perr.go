// Package perr holds the error types and sentinel errors used across the
// grammar engine and compiler. Notably, it contains the ParseError and
// SemanticError types, which can be created with one or more 'cause' errors.
// Calling errors.Is() on either type with an argument consisting of any of
// the errors it has as a cause will return true.
//
// This package also holds several global error constants created via
// errors.New(), used to classify failures into the soft-mismatch,
// hard-parse-error, semantic-error, and internal-error taxonomy a grammar
// engine deals in.
package perr

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedRule is the cause attached whenever a DeclRef names a rule
	// that is not present in a Declaration Table. This indicates a bug in the
	// grammar being compiled, not in the input text being parsed.
	ErrUndefinedRule = errors.New("reference to an undefined rule")

	// ErrNotADeclarationSet is the cause attached when the grammar compiler is
	// handed an AST whose root is not named declaration_set.
	ErrNotADeclarationSet = errors.New("expected a declaration_set at the root of the grammar AST")

	// ErrEmptyGrammar is the cause attached when a grammar text produces no
	// declarations at all.
	ErrEmptyGrammar = errors.New("no declarations found in grammar")

	// ErrUnknownRuleKind is the cause attached when a declaration's name node
	// is not one of name, unreportedname, or expandedname.
	ErrUnknownRuleKind = errors.New("unrecognized declaration name variant")
)

// Position is a (line, column) pair. It is zero-based when tracked internally
// by a Context and one-based when surfaced in an error message.
type Position struct {
	Line   int
	Column int
}

// OneBased returns the Position shifted so Line and Column both start
// counting from 1, the convention used in user-facing messages.
func (p Position) OneBased() Position {
	return Position{Line: p.Line + 1, Column: p.Column + 1}
}

// String formats the Position in one-based "(line, col)" form.
func (p Position) String() string {
	ob := p.OneBased()
	return fmt.Sprintf("(%d, %d)", ob.Line, ob.Column)
}

// ParseError is a hard parse failure: a production with an attached
// on-fail message failed to match, or a Fail production was evaluated. It
// carries the zero-based position at which the failure was detected (Error
// formats it one-based) and a human-readable message, and is never
// recovered by an enclosing alternative.
type ParseError struct {
	Pos Position
	Msg string
	// cause holds zero or more errors this ParseError is considered to also
	// represent for errors.Is purposes.
	cause []error
}

// NewParseError creates a ParseError at the given (zero-based) position with
// the given message.
func NewParseError(pos Position, msg string, causes ...error) ParseError {
	pe := ParseError{Pos: pos, Msg: msg}
	if len(causes) > 0 {
		pe.cause = append([]error{}, causes...)
	}
	return pe
}

// Error returns the message formatted as "(<line>, <col>): <msg>" using
// one-based line and column numbers.
func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Unwrap gives the causes this ParseError was created with, if any.
func (e ParseError) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether target is one of this ParseError's causes.
func (e ParseError) Is(target error) bool {
	for _, c := range e.cause {
		if c == target {
			return true
		}
	}
	return false
}

// SemanticError is a compiler-phase error: the AST handed to the grammar
// compiler is structurally invalid in a way the meta-grammar's own syntax
// cannot catch (an unrecognized rule-name variant, a reference to an
// undefined rule, an AST that isn't rooted at declaration_set). Unlike
// ParseError, a SemanticError's Pos may be the zero Position when none was
// available (e.g. ErrEmptyGrammar).
type SemanticError struct {
	Pos   Position
	Msg   string
	cause []error
}

// NewSemanticError creates a SemanticError at the given (zero-based)
// position with the given message and causes.
func NewSemanticError(pos Position, msg string, causes ...error) SemanticError {
	se := SemanticError{Pos: pos, Msg: msg}
	if len(causes) > 0 {
		se.cause = append([]error{}, causes...)
	}
	return se
}

// Error returns the message, prefixed with the position unless Pos is the
// zero value.
func (e SemanticError) Error() string {
	if e.Pos == (Position{}) {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Unwrap gives the causes this SemanticError was created with, if any.
func (e SemanticError) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether target is one of this SemanticError's causes.
func (e SemanticError) Is(target error) bool {
	for _, c := range e.cause {
		if c == target {
			return true
		}
	}
	return false
}
