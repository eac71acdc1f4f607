// Package grammarkit builds PEG parsers from a small BNF-like grammar
// notation. It bootstraps itself: the notation's own grammar is described in
// the same dialect it compiles, wired up by hand in internal/metagrammar, and
// internal/compiler translates the resulting parse tree of a user's grammar
// text into the same internal/peg production tree the meta-grammar itself
// runs on.
//
// Compile is the typical entry point: feed it grammar source and an entry
// rule name, get back a Grammar that can parse text written in the
// described language.
package grammarkit

import (
	"github.com/dekarrin/grammarkit/internal/compiler"
	"github.com/dekarrin/grammarkit/internal/peg"
)

// Node is an exported alias for the AST node type every parse produces,
// named and positioned with its matched text and an ordered list of
// children.
type Node = peg.AstNode

// Result is an exported alias for the outcome of a parse: whether it
// succeeded, and the nodes it produced.
type Result = peg.AstResult

// Grammar is a compiled set of rule declarations paired with a default entry
// rule. It is safe for concurrent use: compiling builds the rule Table once,
// and every Parse call evaluates a fresh Context against it.
type Grammar struct {
	table  *peg.Table
	parser *peg.Parser
}

// Compile parses grammarText (written in the BNF-like notation described by
// internal/metagrammar) and builds a Grammar whose default entry rule is
// entryRule. It returns a SemanticError if entryRule is undefined, if any
// rule in grammarText references a name no declaration defines, or if
// grammarText yields no declarations; a hard syntax error in grammarText
// itself is returned as the meta-grammar's ParseError.
func Compile(grammarText, entryRule string) (*Grammar, error) {
	table, parser, err := compiler.Compile(grammarText, entryRule)
	if err != nil {
		return nil, err
	}
	return &Grammar{table: table, parser: parser}, nil
}

// CompileAST builds a Grammar directly from an already-parsed
// declaration_set AST, skipping the meta-grammar parse phase. This is used
// by callers that have parsed grammar source themselves, such as a REPL that
// wants to report the meta-grammar's own parse errors before attempting
// compilation.
func CompileAST(root Node, entryRule string) (*Grammar, error) {
	table, parser, err := compiler.CompileAST(root, entryRule)
	if err != nil {
		return nil, err
	}
	return &Grammar{table: table, parser: parser}, nil
}

// RuleNames returns every rule name the Grammar declares, in declaration
// order.
func (g *Grammar) RuleNames() []string {
	return g.table.Names()
}

// HasRule reports whether name is a declared rule in the Grammar.
func (g *Grammar) HasRule(name string) bool {
	_, ok := g.table.Get(name)
	return ok
}

// Parse runs the Grammar's default entry rule against text.
func (g *Grammar) Parse(text string) (Result, error) {
	return g.parser.Parse(text)
}

// ParseRule runs the named rule against text, ignoring the Grammar's default
// entry rule. It is used by callers that want to try several start rules
// against one compiled Grammar, such as an interactive checker.
func (g *Grammar) ParseRule(rule, text string) (Result, error) {
	return g.parser.ParseRule(rule, text)
}
