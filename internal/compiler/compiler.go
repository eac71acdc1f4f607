// Package compiler translates the AST produced by parsing a grammar text
// against the metagrammar into a fresh peg.Table and peg.Parser for that
// grammar. It is the Go equivalent of bnf.py's BnfParserGenerator: a
// one-shot AST-to-productions pass, not a general-purpose tree walker.
package compiler

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/grammarkit/internal/metagrammar"
	"github.com/dekarrin/grammarkit/internal/peg"
	"github.com/dekarrin/grammarkit/internal/perr"
	"github.com/dekarrin/grammarkit/internal/util"
)

const defaultFailMsg = "Syntax Error"

// Compile parses grammarText against the metagrammar and translates the
// resulting declaration_set into a ready-to-use Table and Parser whose
// entry rule is entryRule.
func Compile(grammarText, entryRule string) (*peg.Table, *peg.Parser, error) {
	_, metaParser := metagrammar.Grammar()

	result, err := metaParser.Parse(grammarText)
	if err != nil {
		return nil, nil, err
	}
	if !result.Ok() || len(result.Nodes()) == 0 {
		return nil, nil, perr.NewSemanticError(perr.Position{}, "no declarations found in grammar", perr.ErrEmptyGrammar)
	}

	root := result.Nodes()[0]
	return CompileAST(root, entryRule)
}

// CompileAST translates a declaration_set AST node (as produced by the
// metagrammar) into a Table and Parser. It is split out from Compile so
// callers that already have an AST — tests, or a REPL holding a
// previously-parsed grammar — don't have to re-run the metagrammar.
func CompileAST(root peg.AstNode, entryRule string) (*peg.Table, *peg.Parser, error) {
	if root.Name != "declaration_set" {
		return nil, nil, perr.NewSemanticError(root.Position, "expected a declaration_set at the root of the grammar AST", perr.ErrNotADeclarationSet)
	}
	if len(root.Children) == 0 {
		return nil, nil, perr.NewSemanticError(root.Position, "no declarations found in grammar", perr.ErrEmptyGrammar)
	}

	table := peg.NewTable()
	for _, declNode := range root.Children {
		decl, err := compileDeclaration(declNode)
		if err != nil {
			return nil, nil, err
		}
		table.Add(decl)
	}

	if err := Validate(table); err != nil {
		return nil, nil, err
	}
	if _, ok := table.Get(entryRule); !ok {
		return nil, nil, perr.NewSemanticError(perr.Position{}, "entry rule \""+entryRule+"\" is not defined", perr.ErrUndefinedRule)
	}

	return table, peg.NewParser(table, entryRule), nil
}

// Validate walks every declaration in table looking for DeclRef targets
// that the table has no declaration for. All dangling references are
// collected and reported together as a single SemanticError, so a grammar
// with several typoed rule names is rejected at compile time with one
// readable message instead of panicking the first time some input happens
// to reach one of those references at parse time.
func Validate(table *peg.Table) error {
	checked := util.NewSVSet[bool]()
	undefined := util.NewSVSet[bool]()
	for _, name := range table.Names() {
		decl, _ := table.Get(name)
		collectUndefinedRefs(decl, table, checked, undefined)
	}

	if undefined.Empty() {
		return nil
	}

	names := undefined.Elements()
	sort.Strings(names)
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "\"" + n + "\""
	}

	return perr.NewSemanticError(perr.Position{}, "reference to undefined rule "+util.MakeTextList(quoted), perr.ErrUndefinedRule)
}

func collectUndefinedRefs(prod peg.Production, table *peg.Table, checked, undefined util.SVSet[bool]) {
	if ref, ok := prod.(*peg.DeclRef); ok {
		if checked.Has(ref.Name()) {
			return
		}
		checked.Add(ref.Name())
		if _, ok := table.Get(ref.Name()); !ok {
			undefined.Add(ref.Name())
		}
		return
	}

	for _, child := range childProductions(prod) {
		collectUndefinedRefs(child, table, checked, undefined)
	}
}

// childProductions extracts the immediate sub-productions of any composite
// Production variant the compiler might itself emit or that a declaration
// might directly embed, so Validate can recurse into them.
func childProductions(prod peg.Production) []peg.Production {
	switch p := prod.(type) {
	case *peg.Sequence:
		return p.Items
	case *peg.OrGroup:
		return p.Items
	case *peg.Negate:
		return []peg.Production{p.Item}
	case *peg.Optional:
		return []peg.Production{p.Item}
	case *peg.Lookahead:
		return []peg.Production{p.Item}
	case *peg.OneOrMore:
		return []peg.Production{p.Item}
	case *peg.ZeroOrMore:
		return []peg.Production{p.Item}
	case *peg.OneOrMoreUntil:
		return []peg.Production{p.Term}
	case *peg.ZeroOrMoreUntil:
		return []peg.Production{p.Term}
	case *peg.Decl:
		return []peg.Production{declBody(p)}
	case *peg.UnreportedDecl:
		return []peg.Production{declBody(p)}
	case *peg.ExpandedDecl:
		return []peg.Production{declBody(p)}
	default:
		return nil
	}
}

// compileDeclaration translates one 'declaration' AST node into a
// peg.NamedDeclaration. The declaration's first child names and kinds it
// (name/unreportedname/expandedname); its seq_group descendant supplies the
// body.
func compileDeclaration(ast peg.AstNode) (peg.NamedDeclaration, error) {
	if len(ast.Children) < 2 {
		return nil, perr.NewSemanticError(ast.Position, "malformed declaration node", perr.ErrUnknownRuleKind)
	}

	nameNode := ast.Children[0]
	seqGroupNode, ok := findDescendant(ast, "seq_group")
	if !ok {
		return nil, perr.NewSemanticError(ast.Position, "declaration has no seq_group body", perr.ErrUnknownRuleKind)
	}

	body, err := compileSeqGroup(*seqGroupNode)
	if err != nil {
		return nil, err
	}

	switch nameNode.Name {
	case "name":
		return peg.NewDecl(strings.TrimSpace(nameNode.Text), body), nil
	case "unreportedname":
		if len(nameNode.Children) == 0 {
			return nil, perr.NewSemanticError(nameNode.Position, "malformed <unreported> declaration name", perr.ErrUnknownRuleKind)
		}
		return peg.NewUnreportedDecl(strings.TrimSpace(nameNode.Children[0].Text), body), nil
	case "expandedname":
		if len(nameNode.Children) == 0 {
			return nil, perr.NewSemanticError(nameNode.Position, "malformed >expanded< declaration name", perr.ErrUnknownRuleKind)
		}
		return peg.NewExpandedDecl(strings.TrimSpace(nameNode.Children[0].Text), body), nil
	default:
		return nil, perr.NewSemanticError(nameNode.Position, "unrecognized declaration name variant \""+nameNode.Name+"\"", perr.ErrUnknownRuleKind)
	}
}

// compileSeqGroup translates a seq_group node's children into a single
// Production. An error_on_fail child doesn't itself contribute a
// production; instead its message is attached (via OnFail) to every
// production that follows it in sequence, until another error_on_fail
// child replaces it. This mirrors bnf.py's BnfParserGenerator exactly,
// including the fact that the message sticks across more than just the
// next production.
func compileSeqGroup(ast peg.AstNode) (peg.Production, error) {
	var productions []peg.Production
	var errMsg string

	for _, node := range ast.Children {
		if node.Name == "error_on_fail" {
			msg, err := getErrorOnFailValue(node)
			if err != nil {
				return nil, err
			}
			errMsg = msg
			continue
		}

		prod, err := compileGroupMember(node)
		if err != nil {
			return nil, err
		}
		if errMsg != "" {
			prod = prod.OnFail(errMsg)
		}
		productions = append(productions, prod)
	}

	if len(productions) == 0 {
		return nil, perr.NewSemanticError(ast.Position, "seq_group produced no productions", perr.ErrUnknownRuleKind)
	}
	if len(productions) == 1 {
		return productions[0], nil
	}
	return peg.NewSequence(productions...), nil
}

// compileGroupMember dispatches a seq_group or fo_group child node to its
// translation function by name; fo_group and element_token are the only
// node kinds compileSeqGroup's loop body ever sees besides error_on_fail.
func compileGroupMember(node peg.AstNode) (peg.Production, error) {
	switch node.Name {
	case "fo_group":
		return compileFoGroup(node)
	case "element_token":
		return compileElementToken(node)
	default:
		return nil, perr.NewSemanticError(node.Position, "unexpected node \""+node.Name+"\" in sequence", perr.ErrUnknownRuleKind)
	}
}

// compileFoGroup translates a fo_group's element_token children into an
// OrGroup. Only element_token children are collected, matching
// bnf.py's _process_fo_group — the meta-grammar never nests a fo_group or
// seq_group directly inside another fo_group, so this is not a limitation
// in practice.
func compileFoGroup(ast peg.AstNode) (peg.Production, error) {
	var alternatives []peg.Production
	for _, node := range ast.Children {
		if node.Name != "element_token" {
			continue
		}
		prod, err := compileElementToken(node)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, prod)
	}
	if len(alternatives) == 0 {
		return nil, perr.NewSemanticError(ast.Position, "fo_group produced no alternatives", perr.ErrUnknownRuleKind)
	}
	return peg.NewOrGroup(alternatives...), nil
}

// compileElementToken translates a single element_token node into a
// Production, applying lookahead/negate/occurrence/error_on_fail in the
// same order bnf.py's _process_element_token does: negate and occurrence
// combine first (with the neg+occurrence combination yielding an "until"
// variant rather than a plain negated repeat), then lookahead wraps the
// result, then error_on_fail attaches last.
func compileElementToken(ast peg.AstNode) (peg.Production, error) {
	var (
		lookahead    bool
		negate       bool
		occurrence   string
		errorOnFail  *peg.AstNode
		prod         peg.Production
		prodAssigned bool
	)

	for i := range ast.Children {
		node := ast.Children[i]
		switch node.Name {
		case "lookahead_indicator":
			lookahead = true
		case "neg_indicator":
			negate = true
		case "occurrence_indicator":
			occurrence = node.Text
		case "error_on_fail":
			errorOnFail = &ast.Children[i]
		case "literal":
			p, err := compileLiteral(node)
			if err != nil {
				return nil, err
			}
			prod, prodAssigned = p, true
		case "range":
			p, err := compileRange(node)
			if err != nil {
				return nil, err
			}
			prod, prodAssigned = p, true
		case "seq_group":
			// the 'group' rule is an ExpandedDecl, so a parenthesized
			// group splices its seq_group child straight into
			// element_token rather than appearing as a "group" node.
			p, err := compileSeqGroup(node)
			if err != nil {
				return nil, err
			}
			prod, prodAssigned = p, true
		case "name":
			prod, prodAssigned = peg.NewDeclRef(strings.TrimSpace(node.Text)), true
		default:
			return nil, perr.NewSemanticError(node.Position, "unexpected node \""+node.Name+"\" in element_token", perr.ErrUnknownRuleKind)
		}
	}

	if !prodAssigned {
		return nil, perr.NewSemanticError(ast.Position, "element_token has no matchable term", perr.ErrUnknownRuleKind)
	}

	switch {
	case negate && occurrence != "":
		switch occurrence {
		case "+":
			prod = peg.NewOneOrMoreUntil(prod)
		case "*":
			prod = peg.NewZeroOrMoreUntil(prod)
		case "?":
			prod = peg.NewOptional(peg.NewNegate(prod))
		}
	case negate:
		prod = peg.NewNegate(prod)
	case occurrence != "":
		switch occurrence {
		case "+":
			prod = peg.NewOneOrMore(prod)
		case "*":
			prod = peg.NewZeroOrMore(prod)
		case "?":
			prod = peg.NewOptional(prod)
		}
	}

	if lookahead {
		prod = peg.NewLookahead(prod)
	}

	if errorOnFail != nil {
		msg, err := getErrorOnFailValue(*errorOnFail)
		if err != nil {
			return nil, err
		}
		prod = prod.OnFail(msg)
	}

	return prod, nil
}

// compileLiteral translates a 'literal' node into a Literal production.
// The optional literalDecorator child ('c') disables escape-sequence
// interpretation: the text between the quotes is taken verbatim.
func compileLiteral(ast peg.AstNode) (peg.Production, error) {
	convertEscapes := true
	for _, child := range ast.Children {
		if child.Name == "literalDecorator" {
			convertEscapes = false
			break
		}
	}

	value, err := literalValue(ast, convertEscapes)
	if err != nil {
		return nil, err
	}
	return peg.NewLiteral(value), nil
}

// compileRange translates a 'range' node into a CharRange, Literal, OneOf,
// or an OrGroup of those, exactly as bnf.py's _process_range does:
// CHARRANGE children become CharRange productions, every other matched
// character (CHARBRACE, CHARDASH, lone CHARNOBRACE) is collected into a
// single string and becomes a Literal (one character) or OneOf (more than
// one); if more than one alternative resulted, they're wrapped in an
// OrGroup.
func compileRange(ast peg.AstNode) (peg.Production, error) {
	var productions []peg.Production
	var explicitChars strings.Builder

	for _, node := range ast.Children {
		if node.Name == "CHARRANGE" {
			if len(node.Children) != 2 {
				return nil, perr.NewSemanticError(node.Position, "malformed CHARRANGE node", perr.ErrUnknownRuleKind)
			}
			loText, err := translateLiteralNode(node.Children[0], true)
			if err != nil {
				return nil, err
			}
			hiText, err := translateLiteralNode(node.Children[1], true)
			if err != nil {
				return nil, err
			}
			lo, err := singleByte(loText)
			if err != nil {
				return nil, err
			}
			hi, err := singleByte(hiText)
			if err != nil {
				return nil, err
			}
			productions = append(productions, peg.NewCharRange(lo, hi))
			continue
		}

		val, err := translateLiteralNode(node, true)
		if err != nil {
			return nil, err
		}
		explicitChars.WriteString(val)
	}

	chars := explicitChars.String()
	switch len(chars) {
	case 0:
		// nothing to add
	case 1:
		productions = append(productions, peg.NewLiteral(chars))
	default:
		productions = append(productions, peg.NewOneOf(chars))
	}

	if len(productions) == 0 {
		return nil, perr.NewSemanticError(ast.Position, "range produced no alternatives", perr.ErrUnknownRuleKind)
	}
	if len(productions) == 1 {
		return productions[0], nil
	}
	return peg.NewOrGroup(productions...), nil
}

func singleByte(s string) (byte, error) {
	if len(s) != 1 {
		return 0, perr.NewSemanticError(perr.Position{}, "expected a single character in char range bound", perr.ErrUnknownRuleKind)
	}
	return s[0], nil
}

// getErrorOnFailValue collects the literal text of an error_on_fail node's
// children (there is at most one: the optional literal), falling back to
// the default failure message if none was given.
func getErrorOnFailValue(ast peg.AstNode) (string, error) {
	var sb strings.Builder
	for _, node := range ast.Children {
		val, err := literalValue(node, true)
		if err != nil {
			return "", err
		}
		sb.WriteString(val)
	}
	if sb.Len() == 0 {
		return defaultFailMsg, nil
	}
	return sb.String(), nil
}

// literalValue concatenates the translated value of every child of node.
// Nodes named for one of the literal-content rules translate directly;
// any other node name (a container, like literalDecorator, or an
// ESCAPED_CHAR wrapping one of the escape-kind rules) is recursed into.
func literalValue(node peg.AstNode, convertEscapes bool) (string, error) {
	var sb strings.Builder
	for _, child := range node.Children {
		val, err := translateLiteralNode(child, convertEscapes)
		if err != nil {
			return "", err
		}
		sb.WriteString(val)
	}
	return sb.String(), nil
}

func translateLiteralNode(node peg.AstNode, convertEscapes bool) (string, error) {
	if !convertEscapes {
		switch node.Name {
		case "CHAR", "CHAR_NO_SNGLQUOTE", "CHAR_NO_DBLQUOTE", "ESCAPED_CHAR":
			return node.Text, nil
		default:
			return literalValue(node, convertEscapes)
		}
	}

	switch node.Name {
	case "CHAR", "CHAR_NO_SNGLQUOTE", "CHAR_NO_DBLQUOTE", "CHARBRACE", "CHARDASH":
		return node.Text, nil
	case "SPECIAL_ESCAPED_CHAR":
		return specialEscapeValue(node.Text)
	case "HEX_ESCAPED_CHAR", "UNICODE_ESCAPED_CHAR_16", "UNICODE_ESCAPED_CHAR_32":
		return decodeCodepoint(node.Text, 16, node.Position)
	case "OCTAL_ESCAPED_CHAR":
		return decodeCodepoint(node.Text, 8, node.Position)
	default:
		return literalValue(node, convertEscapes)
	}
}

var specialEscapeChars = map[byte]rune{
	'\\': '\\',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'"':  '"',
	'\'': '\'',
}

func specialEscapeValue(text string) (string, error) {
	if len(text) != 1 {
		return "", perr.NewSemanticError(perr.Position{}, "malformed special escape sequence \""+text+"\"", perr.ErrUnknownRuleKind)
	}
	ch, ok := specialEscapeChars[text[0]]
	if !ok {
		return "", perr.NewSemanticError(perr.Position{}, "unrecognized special escape \\"+text, perr.ErrUnknownRuleKind)
	}
	return string(ch), nil
}

// decodeCodepoint parses digits (hex or octal, per base) and returns the
// corresponding single rune as a string. Octal escapes are always decoded
// base-8 — the captured digits are octal digits by construction of the
// OCTAL_ESCAPED_CHAR rule, regardless of the escape's length.
func decodeCodepoint(digits string, base int, pos perr.Position) (string, error) {
	v, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return "", perr.NewSemanticError(pos, "invalid escape digits \""+digits+"\"", perr.ErrUnknownRuleKind)
	}
	return string(rune(v)), nil
}

// findDescendant performs a depth-first search of ast and its children for
// the first node named name, matching bnf.py's ParserBase._get_token.
func findDescendant(ast peg.AstNode, name string) (*peg.AstNode, bool) {
	if ast.Name == name {
		return &ast, true
	}
	for i := range ast.Children {
		if found, ok := findDescendant(ast.Children[i], name); ok {
			return found, true
		}
	}
	return nil, false
}

// declBody retrieves the inner production a named declaration wraps, used
// only by Validate to recurse into a Table's entries.
func declBody(decl interface{ Body() peg.Production }) peg.Production {
	return decl.Body()
}
