// Package metagrammar holds the hand-authored production tree for the BNF
// meta-grammar: the surface syntax that grammarkit grammars are themselves
// written in. It is data, not code generated from anything else — the same
// relationship a hand-rolled lexer table has to the language it tokenizes.
//
// The grammar text each declaration below is built from is given in the
// comment above it. Parsing a grammar text with Grammar() round-trips byte
// for byte: concatenating the text of each top-level declaration node
// reproduces the source. metagrammar_test.go checks this on a small sample
// grammar that uses every declaration kind.
package metagrammar

import "github.com/dekarrin/grammarkit/internal/peg"

// dr is shorthand for peg.NewDeclRef, used throughout this file exactly the
// way the declaration list it's grounded on uses its own DR alias.
func dr(name string) *peg.DeclRef { return peg.NewDeclRef(name) }

// ts is the whitespace-and-comments filler rule nearly every other
// declaration interleaves between its significant tokens.
func ts() *peg.DeclRef { return dr("ts") }

// Grammar builds the Table of every declaration composing the BNF
// meta-grammar and returns it alongside a Parser whose entry rule is
// declaration_set.
func Grammar() (*peg.Table, *peg.Parser) {
	table := peg.NewTable()

	// declaration_set := declaration+
	table.Add(peg.NewDecl("declaration_set", peg.NewOneOrMore(dr("declaration"))))

	// declaration := ts, (unreportedname/expandedname/name), ts, ':', ':'?, '=', seq_group
	table.Add(peg.NewDecl("declaration",
		ts(),
		peg.NewOrGroup(dr("unreportedname"), dr("expandedname"), dr("name")).
			OnFail("Expected name, <unreported>, or >expanded< declaration"),
		ts(),
		peg.NewOrGroup(peg.NewLiteral(":="), peg.NewLiteral("::=")).
			OnFail("Expected := or ::= operator"),
		dr("seq_group"),
	))

	// element_token := lookahead_indicator?, ts, neg_indicator?, ts,
	//                  (literal/range/group/name), ts, occurrence_indicator?, ts, error_on_fail?
	table.Add(peg.NewDecl("element_token",
		peg.NewOptional(dr("lookahead_indicator")), ts(),
		peg.NewOptional(dr("neg_indicator")), ts(),
		peg.NewOrGroup(dr("literal"), dr("range"), dr("group"), dr("name")),
		ts(),
		peg.NewOptional(dr("occurrence_indicator")), ts(),
		peg.NewOptional(dr("error_on_fail")),
	))

	// neg_indicator := '-'
	table.Add(peg.NewDecl("neg_indicator", peg.NewLiteral("-")))

	// lookahead_indicator := '?'
	table.Add(peg.NewDecl("lookahead_indicator", peg.NewLiteral("?")))

	// occurrence_indicator := [+*?]
	table.Add(peg.NewDecl("occurrence_indicator", peg.NewOneOf("+*?")))

	// error_on_fail := '!', (ts, literal)?
	table.Add(peg.NewDecl("error_on_fail",
		peg.NewLiteral("!"),
		peg.NewOptional(peg.NewSequence(ts(), dr("literal"))),
	))

	// >group< := '(', seq_group, ')'
	table.Add(peg.NewExpandedDecl("group",
		peg.NewLiteral("("),
		dr("seq_group"),
		peg.NewLiteral(")").OnFail(`Expected closing ")"`),
	))

	// seq_group := ts, (error_on_fail/fo_group/element_token),
	//              (ts, seq_indicator, ts, (error_on_fail/fo_group/element_token))*, ts
	table.Add(peg.NewDecl("seq_group",
		ts(),
		peg.NewOrGroup(dr("error_on_fail"), dr("fo_group"), dr("element_token")).
			OnFail("Expected one or more terms in sequence"),
		peg.NewZeroOrMore(peg.NewSequence(
			ts(), dr("seq_indicator"), ts(),
			peg.NewOrGroup(dr("error_on_fail"), dr("fo_group"), dr("element_token")),
		)),
		ts(),
	))

	// fo_group := ts, element_token, (ts, fo_indicator, ts, element_token)+
	table.Add(peg.NewDecl("fo_group",
		ts(),
		dr("element_token"),
		peg.NewOneOrMore(peg.NewSequence(
			ts(), dr("fo_indicator"), ts(), dr("element_token"),
		)),
	))

	// <fo_indicator> := '/'
	table.Add(peg.NewUnreportedDecl("fo_indicator", peg.NewLiteral("/")))

	// <seq_indicator> := ','
	table.Add(peg.NewUnreportedDecl("seq_indicator", peg.NewLiteral(",")))

	// unreportedname := '<', name, '>'
	table.Add(peg.NewDecl("unreportedname",
		peg.NewLiteral("<"), dr("name"), peg.NewLiteral(">").OnFail(`Expected closing ">"`),
	))

	// expandedname := '>', name, '<'
	table.Add(peg.NewDecl("expandedname",
		peg.NewLiteral(">"), dr("name"), peg.NewLiteral("<").OnFail(`Expected closing "<"`),
	))

	// name := [a-zA-Z_], [a-zA-Z0-9_]*
	table.Add(peg.NewDecl("name",
		peg.NewOrGroup(peg.NewCharRange('a', 'z'), peg.NewCharRange('A', 'Z'), peg.NewLiteral("_")),
		peg.NewZeroOrMore(peg.NewOrGroup(
			peg.NewCharRange('a', 'z'), peg.NewCharRange('A', 'Z'), peg.NewCharRange('0', '9'), peg.NewLiteral("_"),
		)),
	))

	// <ts> := ([ \011-\015]+ / comment)*
	table.Add(peg.NewUnreportedDecl("ts",
		peg.NewZeroOrMore(peg.NewOrGroup(
			peg.NewOneOrMore(peg.NewOrGroup(peg.NewLiteral(" "), peg.NewCharRange('\011', '\015'))),
			dr("comment"),
		)),
	))

	// >comment< := comment_start, comment_text, eol
	// comment_text := -eol*
	// <comment_start> := '#'
	// <eol> := '\n' / EOF
	table.Add(peg.NewExpandedDecl("comment", dr("comment_start"), dr("comment_text"), dr("eol")))
	table.Add(peg.NewDecl("comment_text", peg.NewZeroOrMoreUntil(dr("eol"))))
	table.Add(peg.NewUnreportedDecl("comment_start", peg.NewLiteral("#")))
	table.Add(peg.NewUnreportedDecl("eol", peg.NewOrGroup(peg.NewLiteral("\n"), peg.NewEof())))

	// literal := literalDecorator?, ("'", (CHAR_NO_SNGLQUOTE/ESCAPED_CHAR)*, "'") / ('"', (CHAR_NO_DBLQUOTE/ESCAPED_CHAR)*, '"')
	table.Add(peg.NewDecl("literal",
		peg.NewOptional(dr("literalDecorator")),
		peg.NewOrGroup(
			peg.NewSequence(
				peg.NewLiteral(`'`),
				peg.NewZeroOrMore(peg.NewOrGroup(dr("CHAR_NO_SNGLQUOTE"), dr("ESCAPED_CHAR"))),
				peg.NewLiteral(`'`).OnFail("Expected closing single-quote"),
			),
			peg.NewSequence(
				peg.NewLiteral(`"`),
				peg.NewZeroOrMore(peg.NewOrGroup(dr("CHAR_NO_DBLQUOTE"), dr("ESCAPED_CHAR"))),
				peg.NewLiteral(`"`).OnFail("Expected closing double-quote"),
			),
		),
	))

	// literalDecorator := [c]
	table.Add(peg.NewDecl("literalDecorator", peg.NewLiteral("c")))

	// range := '[', CHARBRACE?, CHARDASH?, (CHARRANGE/CHARNOBRACE)*, CHARDASH?, ']'
	table.Add(peg.NewDecl("range",
		peg.NewLiteral("["),
		peg.NewOptional(dr("CHARBRACE")), peg.NewOptional(dr("CHARDASH")),
		peg.NewZeroOrMore(peg.NewOrGroup(dr("CHARRANGE"), dr("CHARNOBRACE"))),
		peg.NewOptional(dr("CHARDASH")),
		peg.NewLiteral("]").OnFail(`Expected closing "]"`),
	))

	// CHARBRACE := ']'
	table.Add(peg.NewDecl("CHARBRACE", peg.NewLiteral("]")))

	// CHARDASH := '-'
	table.Add(peg.NewDecl("CHARDASH", peg.NewLiteral("-")))

	// CHARRANGE := CHARNOBRACE, '-', CHARNOBRACE
	table.Add(peg.NewDecl("CHARRANGE", dr("CHARNOBRACE"), peg.NewLiteral("-"), dr("CHARNOBRACE")))

	// >CHARNOBRACE< := ESCAPED_CHAR/CHAR
	table.Add(peg.NewExpandedDecl("CHARNOBRACE", peg.NewOrGroup(dr("ESCAPED_CHAR"), dr("CHAR"))))

	// CHAR := -']'
	table.Add(peg.NewDecl("CHAR", peg.NewNegate(peg.NewLiteral("]"))))

	// ESCAPED_CHAR := '\', (SPECIAL_ESCAPED_CHAR / ('x', HEX_ESCAPED_CHAR) /
	//                       ('u', UNICODE_ESCAPED_CHAR_16) / ('U', UNICODE_ESCAPED_CHAR_32) / OCTAL_ESCAPED_CHAR)
	table.Add(peg.NewDecl("ESCAPED_CHAR",
		peg.NewLiteral(`\`),
		peg.NewOrGroup(
			dr("SPECIAL_ESCAPED_CHAR"),
			peg.NewSequence(
				peg.NewLiteral("x"),
				dr("HEX_ESCAPED_CHAR").OnFail(`Expected two hex digits following "\x"`),
			),
			peg.NewSequence(
				peg.NewLiteral("u"),
				dr("UNICODE_ESCAPED_CHAR_16").OnFail(`Expected four hex digits following "\u"`),
			),
			peg.NewSequence(
				peg.NewLiteral("U"),
				dr("UNICODE_ESCAPED_CHAR_32").OnFail(`Expected eight hex digits following "\U"`),
			),
			dr("OCTAL_ESCAPED_CHAR"),
			peg.NewFail(`Expected escape sequence following "\"`),
		),
	))

	// SPECIAL_ESCAPED_CHAR := [\abfnrtv"']
	table.Add(peg.NewDecl("SPECIAL_ESCAPED_CHAR", peg.NewOneOf("\\abfnrtv\"'")))

	// OCTAL_ESCAPED_CHAR := [0-7], [0-7]?, [0-7]?
	table.Add(peg.NewDecl("OCTAL_ESCAPED_CHAR",
		peg.NewCharRange('0', '7'),
		peg.NewOptional(peg.NewCharRange('0', '7')),
		peg.NewOptional(peg.NewCharRange('0', '7')),
	))

	// HEX_ESCAPED_CHAR := HEXDIGIT, HEXDIGIT
	table.Add(peg.NewDecl("HEX_ESCAPED_CHAR", dr("HEXDIGIT"), dr("HEXDIGIT")))
	table.Add(peg.NewUnreportedDecl("HEXDIGIT", peg.NewOrGroup(
		peg.NewCharRange('0', '9'), peg.NewCharRange('a', 'f'), peg.NewCharRange('A', 'F'),
	)))

	// CHAR_NO_DBLQUOTE := -[\"]+
	table.Add(peg.NewDecl("CHAR_NO_DBLQUOTE", peg.NewOneOrMoreUntil(peg.NewOneOf(`\"`))))

	// CHAR_NO_SNGLQUOTE := -[\']+
	table.Add(peg.NewDecl("CHAR_NO_SNGLQUOTE", peg.NewOneOrMoreUntil(peg.NewOneOf(`\'`))))

	// UNICODE_ESCAPED_CHAR_16 := HEXDIGIT{4}
	table.Add(peg.NewDecl("UNICODE_ESCAPED_CHAR_16",
		dr("HEXDIGIT"), dr("HEXDIGIT"), dr("HEXDIGIT"), dr("HEXDIGIT"),
	))

	// UNICODE_ESCAPED_CHAR_32 := HEXDIGIT{8}
	table.Add(peg.NewDecl("UNICODE_ESCAPED_CHAR_32",
		dr("HEXDIGIT"), dr("HEXDIGIT"), dr("HEXDIGIT"), dr("HEXDIGIT"),
		dr("HEXDIGIT"), dr("HEXDIGIT"), dr("HEXDIGIT"), dr("HEXDIGIT"),
	))

	return table, peg.NewParser(table, "declaration_set")
}
