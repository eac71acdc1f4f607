package peg

// Sequence evaluates its items in order against a single shared clone of the
// caller's context; every item must succeed for the Sequence to succeed, and
// their nodes are concatenated in order. Any item's failure fails the whole
// Sequence and leaves the caller's context untouched.
type Sequence struct {
	onFail
	Items []Production
}

// NewSequence creates a Sequence over items.
func NewSequence(items ...Production) *Sequence {
	return &Sequence{Items: items}
}

func (p *Sequence) evalImpl(ctx *Context) (AstResult, error) {
	eval := ctx.Clone()
	result := Success()
	for _, item := range p.Items {
		itemResult, err := item.Evaluate(eval)
		if err != nil {
			return Failure(), err
		}
		if !itemResult.Ok() {
			return Failure(), nil
		}
		result = result.Combine(itemResult)
	}
	ctx.Update(eval)
	return result, nil
}

func (p *Sequence) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *Sequence) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// OrGroup tries each alternative in order on a fresh clone of the caller's
// context; the first alternative to succeed commits and its nodes are
// returned. If none succeed, OrGroup fails.
type OrGroup struct {
	onFail
	Items []Production
}

// NewOrGroup creates an OrGroup over items, tried in the given order.
func NewOrGroup(items ...Production) *OrGroup {
	return &OrGroup{Items: items}
}

func (p *OrGroup) evalImpl(ctx *Context) (AstResult, error) {
	for _, item := range p.Items {
		eval := ctx.Clone()
		result, err := item.Evaluate(eval)
		if err != nil {
			return Failure(), err
		}
		if result.Ok() {
			ctx.Update(eval)
			return result, nil
		}
	}
	return Failure(), nil
}

func (p *OrGroup) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *OrGroup) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// Negate succeeds, consuming exactly one character from the caller's
// context, iff its inner production fails on a clone. It fails, consuming
// nothing, if the inner production succeeds or the context is at EOF.
type Negate struct {
	onFail
	Item Production
}

// NewNegate creates a Negate production wrapping item.
func NewNegate(item Production) *Negate {
	return &Negate{Item: item}
}

func (p *Negate) evalImpl(ctx *Context) (AstResult, error) {
	if ctx.Eof(1) {
		return Failure(), nil
	}
	eval := ctx.Clone()
	innerResult, err := p.Item.Evaluate(eval)
	if err != nil {
		return Failure(), err
	}
	if innerResult.Ok() {
		return Failure(), nil
	}
	ctx.Next(1)
	return Success(), nil
}

func (p *Negate) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *Negate) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// Optional always succeeds. If its inner production succeeds on a clone, the
// clone is committed and its nodes are returned; otherwise Optional succeeds
// with no nodes and no consumption. At EOF, Optional succeeds immediately
// without attempting the inner production.
type Optional struct {
	onFail
	Item Production
}

// NewOptional creates an Optional production wrapping item.
func NewOptional(item Production) *Optional {
	return &Optional{Item: item}
}

func (p *Optional) evalImpl(ctx *Context) (AstResult, error) {
	if ctx.Eof(1) {
		return Success(), nil
	}
	eval := ctx.Clone()
	result, err := p.Item.Evaluate(eval)
	if err != nil {
		return Failure(), err
	}
	if result.Ok() {
		ctx.Update(eval)
		return result, nil
	}
	return Success(), nil
}

func (p *Optional) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *Optional) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// Lookahead succeeds iff its inner production succeeds on a clone of the
// caller's context. It never consumes input and contributes no nodes either
// way.
type Lookahead struct {
	onFail
	Item Production
}

// NewLookahead creates a Lookahead production wrapping item.
func NewLookahead(item Production) *Lookahead {
	return &Lookahead{Item: item}
}

func (p *Lookahead) evalImpl(ctx *Context) (AstResult, error) {
	eval := ctx.Clone()
	result, err := p.Item.Evaluate(eval)
	if err != nil {
		return Failure(), err
	}
	if result.Ok() {
		return Success(), nil
	}
	return Failure(), nil
}

func (p *Lookahead) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *Lookahead) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}
