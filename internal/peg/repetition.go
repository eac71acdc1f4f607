package peg

// OneOrMore repeats its inner production greedily, committing each success,
// stopping at the first failure or EOF. It fails if the first attempt fails
// or the context starts at EOF.
type OneOrMore struct {
	onFail
	Item Production
}

// NewOneOrMore creates a OneOrMore production wrapping item.
func NewOneOrMore(item Production) *OneOrMore {
	return &OneOrMore{Item: item}
}

func (p *OneOrMore) evalImpl(ctx *Context) (AstResult, error) {
	if ctx.Eof(1) {
		return Failure(), nil
	}
	eval := ctx.Clone()
	result, err := p.Item.Evaluate(eval)
	if err != nil {
		return Failure(), err
	}
	if !result.Ok() {
		return Failure(), nil
	}
	ctx.Update(eval)

	for !ctx.Eof(1) {
		next := ctx.Clone()
		nextResult, err := p.Item.Evaluate(next)
		if err != nil {
			return Failure(), err
		}
		if !nextResult.Ok() {
			break
		}
		ctx.Update(next)
		result = result.Combine(nextResult)
	}
	return result, nil
}

func (p *OneOrMore) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *OneOrMore) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// ZeroOrMore repeats its inner production greedily, committing each success,
// stopping at the first failure or EOF. It always succeeds, possibly with no
// nodes and no consumption.
type ZeroOrMore struct {
	onFail
	Item Production
}

// NewZeroOrMore creates a ZeroOrMore production wrapping item.
func NewZeroOrMore(item Production) *ZeroOrMore {
	return &ZeroOrMore{Item: item}
}

func (p *ZeroOrMore) evalImpl(ctx *Context) (AstResult, error) {
	result := Success()
	for !ctx.Eof(1) {
		eval := ctx.Clone()
		itemResult, err := p.Item.Evaluate(eval)
		if err != nil {
			return Failure(), err
		}
		if !itemResult.Ok() {
			break
		}
		ctx.Update(eval)
		result = result.Combine(itemResult)
	}
	return result, nil
}

func (p *ZeroOrMore) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *ZeroOrMore) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// OneOrMoreUntil scans character-by-character, testing Term on a clone
// before consuming each one. It succeeds, without consuming the terminator,
// as soon as Term matches; it fails if Term matches before any character is
// consumed, or if EOF is reached before Term ever matches.
type OneOrMoreUntil struct {
	onFail
	Term Production
}

// NewOneOrMoreUntil creates a OneOrMoreUntil production that scans until
// term matches.
func NewOneOrMoreUntil(term Production) *OneOrMoreUntil {
	return &OneOrMoreUntil{Term: term}
}

func (p *OneOrMoreUntil) evalImpl(ctx *Context) (AstResult, error) {
	if ctx.Eof(1) {
		return Failure(), nil
	}

	probe := ctx.Clone()
	termResult, err := p.Term.Evaluate(probe)
	if err != nil {
		return Failure(), err
	}
	if termResult.Ok() {
		return Failure(), nil
	}

	scan := ctx.Clone()
	for {
		scan.Next(1)
		probe = scan.Clone()
		termResult, err = p.Term.Evaluate(probe)
		if err != nil {
			return Failure(), err
		}
		if termResult.Ok() {
			break
		}
		if probe.Eof(1) {
			return Failure(), nil
		}
	}
	ctx.Update(scan)
	return Success(), nil
}

func (p *OneOrMoreUntil) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *OneOrMoreUntil) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

// ZeroOrMoreUntil scans character-by-character, testing Term on a clone
// before consuming each one, exactly as OneOrMoreUntil does, except it
// succeeds immediately (without scanning at all) at EOF and succeeds even
// if Term matches before any character is consumed.
type ZeroOrMoreUntil struct {
	onFail
	Term Production
}

// NewZeroOrMoreUntil creates a ZeroOrMoreUntil production that scans until
// term matches.
func NewZeroOrMoreUntil(term Production) *ZeroOrMoreUntil {
	return &ZeroOrMoreUntil{Term: term}
}

func (p *ZeroOrMoreUntil) evalImpl(ctx *Context) (AstResult, error) {
	if ctx.Eof(1) {
		return Success(), nil
	}

	scan := ctx.Clone()
	probe := scan.Clone()
	for {
		termResult, err := p.Term.Evaluate(probe)
		if err != nil {
			return Failure(), err
		}
		if termResult.Ok() {
			break
		}
		if probe.Eof(1) {
			return Failure(), nil
		}
		scan.Next(1)
		probe = scan.Clone()
	}
	ctx.Update(scan)
	return Success(), nil
}

func (p *ZeroOrMoreUntil) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *ZeroOrMoreUntil) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}
