package peg

import "strings"

// Eof succeeds iff the context is at end-of-input. It never consumes and
// contributes no AST nodes.
type Eof struct {
	onFail
}

// NewEof creates an Eof production.
func NewEof() *Eof {
	return &Eof{}
}

func (p *Eof) evalImpl(ctx *Context) (AstResult, error) {
	if ctx.Eof(1) {
		return Success(), nil
	}
	return Failure(), nil
}

func (p *Eof) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *Eof) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// Any fails at end-of-input and otherwise consumes exactly one character.
type Any struct {
	onFail
}

// NewAny creates an Any production.
func NewAny() *Any {
	return &Any{}
}

func (p *Any) evalImpl(ctx *Context) (AstResult, error) {
	if ctx.Eof(1) {
		return Failure(), nil
	}
	ctx.Next(1)
	return Success(), nil
}

func (p *Any) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *Any) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// Literal matches an exact sequence of characters.
type Literal struct {
	onFail
	Text string
}

// NewLiteral creates a Literal production matching text exactly.
func NewLiteral(text string) *Literal {
	return &Literal{Text: text}
}

func (p *Literal) evalImpl(ctx *Context) (AstResult, error) {
	n := len(p.Text)
	if ctx.Eof(n) {
		return Failure(), nil
	}
	if ctx.Peek(n) != p.Text {
		return Failure(), nil
	}
	ctx.Next(n)
	return Success(), nil
}

func (p *Literal) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *Literal) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// OneOf matches any single character present in Chars.
type OneOf struct {
	onFail
	Chars string
}

// NewOneOf creates a OneOf production over the characters in chars.
func NewOneOf(chars string) *OneOf {
	return &OneOf{Chars: chars}
}

func (p *OneOf) evalImpl(ctx *Context) (AstResult, error) {
	if ctx.Eof(1) {
		return Failure(), nil
	}
	ch := ctx.Peek(1)
	if strings.Contains(p.Chars, ch) {
		ctx.Next(1)
		return Success(), nil
	}
	return Failure(), nil
}

func (p *OneOf) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *OneOf) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// CharRange matches a single character between Lo and Hi inclusive.
type CharRange struct {
	onFail
	Lo byte
	Hi byte
}

// NewCharRange creates a CharRange production matching a byte in [lo, hi].
func NewCharRange(lo, hi byte) *CharRange {
	return &CharRange{Lo: lo, Hi: hi}
}

func (p *CharRange) evalImpl(ctx *Context) (AstResult, error) {
	if ctx.Eof(1) {
		return Failure(), nil
	}
	ch := ctx.Text[ctx.Pos]
	if ch >= p.Lo && ch <= p.Hi {
		ctx.Next(1)
		return Success(), nil
	}
	return Failure(), nil
}

func (p *CharRange) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *CharRange) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}
