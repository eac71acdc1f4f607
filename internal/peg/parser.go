package peg

import (
	"fmt"

	"github.com/dekarrin/grammarkit/internal/perr"
)

// Parser is a thin facade pairing a Table with an entry-point rule name. It
// is the entry point external callers use to run a single top-level
// Evaluate call against a piece of target text.
type Parser struct {
	Declarations *Table
	EntryRule    string
}

// NewParser creates a Parser over decls with the given default entry rule.
// entryRule does not need to exist yet at construction time; it is resolved
// when Parse is called.
func NewParser(decls *Table, entryRule string) *Parser {
	return &Parser{Declarations: decls, EntryRule: entryRule}
}

// Parse evaluates the Parser's entry rule against text and returns the
// resulting AstResult. If the entry rule is undefined, a SemanticError is
// returned. A nested DeclRef to an undefined rule panics with a
// SemanticError during evaluation; that panic is recovered and returned as
// the error. Any other panic is re-raised.
func (p *Parser) Parse(text string) (result AstResult, err error) {
	return p.ParseRule(p.EntryRule, text)
}

// ParseRule evaluates the named rule against text, ignoring the Parser's
// configured EntryRule. It is used by callers (such as a REPL) that want to
// try several entry rules against one compiled grammar.
func (p *Parser) ParseRule(rule string, text string) (result AstResult, err error) {
	decl, ok := p.Declarations.Get(rule)
	if !ok {
		return Failure(), perr.NewSemanticError(perr.Position{}, fmt.Sprintf("no such rule %q", rule), perr.ErrUndefinedRule)
	}

	defer func() {
		if r := recover(); r != nil {
			if semErr, ok := r.(perr.SemanticError); ok {
				result, err = Failure(), semErr
				return
			}
			panic(r)
		}
	}()

	ctx := NewContext(text, p.Declarations)
	return decl.Evaluate(ctx)
}
