package peg

import "github.com/dekarrin/grammarkit/internal/perr"

// Production is the abstract unit of the grammar engine: a closed family of
// variants (literals, character classes, combinators, repetitions,
// lookaheads, references, and declarations), each evaluating against a
// Context to produce an AstResult.
//
// Every Production may carry an on-fail message (see OnFail). Attaching one
// turns a local soft failure into a hard ParseError raised at the context's
// current position; this is the only mechanism the engine has for turning a
// recoverable mismatch into a diagnostic that aborts the parse.
type Production interface {
	// Evaluate runs this production against ctx. A returned error is always
	// a hard failure (a perr.ParseError, or a propagated one from a
	// nested production) and must not be treated as a normal soft mismatch;
	// soft mismatches are signaled by a false-OK result with a nil error.
	Evaluate(ctx *Context) (AstResult, error)

	// OnFail attaches msg as this production's on-fail message and returns
	// the same production, to allow chaining at construction time.
	OnFail(msg string) Production
}

// onFail is embedded by every concrete Production and supplies the shared
// on-fail-message bookkeeping so each variant doesn't reimplement it.
type onFail struct {
	msg *string
}

func (o *onFail) setFail(msg string) {
	o.msg = &msg
}

func (o *onFail) hasFail() bool {
	return o.msg != nil
}

// finish applies the evaluation contract described on Production.Evaluate:
// if evalErr is already set (a hard failure from a nested production, or a
// Fail production), it is propagated unchanged. Otherwise, if result did not
// succeed and an on-fail message is attached, a ParseError is raised at
// ctx's current position. Any other case returns result as-is.
func finish(ctx *Context, o *onFail, result AstResult, evalErr error) (AstResult, error) {
	if evalErr != nil {
		return Failure(), evalErr
	}
	if !result.Ok() && o.hasFail() {
		return Failure(), perr.NewParseError(ctx.Position(), *o.msg)
	}
	return result, nil
}
