package peg

import (
	"fmt"

	"github.com/dekarrin/grammarkit/internal/perr"
)

// wrapSeq returns items[0] directly if there is exactly one, else wraps them
// all in a Sequence. Every named declaration constructor uses this so a
// single-production rule body doesn't pay for an unnecessary Sequence node.
func wrapSeq(items []Production) Production {
	if len(items) == 1 {
		return items[0]
	}
	return NewSequence(items...)
}

// Decl is a named rule. On success, the span it consumed is wrapped in a new
// AstNode carrying that name, with the inner production's nodes as children.
type Decl struct {
	onFail
	name string
	prod Production
}

// NewDecl creates a Decl named name over the given sequence of items (a
// single item is used directly; more than one is wrapped in a Sequence).
func NewDecl(name string, items ...Production) *Decl {
	return &Decl{name: name, prod: wrapSeq(items)}
}

// Name returns the rule's name.
func (p *Decl) Name() string { return p.name }

// Body returns the production this declaration wraps, for callers (such as
// the compiler's reference validator) that need to walk a Table's
// declarations without evaluating them.
func (p *Decl) Body() Production { return p.prod }

func (p *Decl) evalImpl(ctx *Context) (AstResult, error) {
	eval := ctx.Clone()
	result, err := p.prod.Evaluate(eval)
	if err != nil {
		return Failure(), err
	}
	if !result.Ok() {
		return Failure(), nil
	}
	node := AstNode{
		Name:     p.name,
		Text:     ctx.GetText(eval),
		Position: ctx.Position(),
		Children: result.Nodes(),
	}
	ctx.Update(eval)
	return Success(node), nil
}

func (p *Decl) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *Decl) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// UnreportedDecl is a named rule that participates in recognition but
// contributes no AST nodes on success; the rule's name exists only for
// documentation and lookup by DeclRef.
type UnreportedDecl struct {
	onFail
	name string
	prod Production
}

// NewUnreportedDecl creates an UnreportedDecl named name.
func NewUnreportedDecl(name string, items ...Production) *UnreportedDecl {
	return &UnreportedDecl{name: name, prod: wrapSeq(items)}
}

// Name returns the rule's name.
func (p *UnreportedDecl) Name() string { return p.name }

// Body returns the production this declaration wraps.
func (p *UnreportedDecl) Body() Production { return p.prod }

func (p *UnreportedDecl) evalImpl(ctx *Context) (AstResult, error) {
	result, err := p.prod.Evaluate(ctx)
	if err != nil {
		return Failure(), err
	}
	if !result.Ok() {
		return Failure(), nil
	}
	return Success(), nil
}

func (p *UnreportedDecl) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *UnreportedDecl) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// ExpandedDecl is a named rule whose matched children are spliced into the
// parent's AST without a wrapping node; the rule's name exists only for
// documentation and lookup by DeclRef.
type ExpandedDecl struct {
	onFail
	name string
	prod Production
}

// NewExpandedDecl creates an ExpandedDecl named name.
func NewExpandedDecl(name string, items ...Production) *ExpandedDecl {
	return &ExpandedDecl{name: name, prod: wrapSeq(items)}
}

// Name returns the rule's name.
func (p *ExpandedDecl) Name() string { return p.name }

// Body returns the production this declaration wraps.
func (p *ExpandedDecl) Body() Production { return p.prod }

func (p *ExpandedDecl) evalImpl(ctx *Context) (AstResult, error) {
	return p.prod.Evaluate(ctx)
}

func (p *ExpandedDecl) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *ExpandedDecl) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// DeclRef is a by-name back-edge to a Declaration in a Table, resolved at
// evaluation time. Recursive grammars produce cyclic reference graphs, but
// no cyclic ownership: the Table owns every Declaration and DeclRef only
// ever refers to one by name.
type DeclRef struct {
	onFail
	name string
}

// NewDeclRef creates a DeclRef to the rule named name.
func NewDeclRef(name string) *DeclRef {
	return &DeclRef{name: name}
}

// Name returns the referenced rule's name.
func (p *DeclRef) Name() string { return p.name }

func (p *DeclRef) evalImpl(ctx *Context) (AstResult, error) {
	decl, ok := ctx.Declarations.Get(p.name)
	if !ok {
		panic(perr.NewSemanticError(ctx.Position(), fmt.Sprintf("no such rule %q", p.name), perr.ErrUndefinedRule))
	}
	return decl.Evaluate(ctx)
}

func (p *DeclRef) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *DeclRef) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// Fail always raises a ParseError at the current position with Msg. It is
// used inside an OrGroup as a terminal "none of the above" error.
type Fail struct {
	onFail
	Msg string
}

// NewFail creates a Fail production with the given message.
func NewFail(msg string) *Fail {
	return &Fail{Msg: msg}
}

func (p *Fail) evalImpl(ctx *Context) (AstResult, error) {
	return Failure(), perr.NewParseError(ctx.Position(), p.Msg)
}

func (p *Fail) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *Fail) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// NamedDeclaration is implemented by the three declaration kinds a Table can
// hold: Decl, UnreportedDecl, and ExpandedDecl.
type NamedDeclaration interface {
	Production
	Name() string
}
