package peg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Literal_Eof_Any(t *testing.T) {
	testCases := []struct {
		name    string
		prod    Production
		input   string
		wantOk  bool
		wantPos int
	}{
		{name: "literal match", prod: NewLiteral("foo"), input: "foobar", wantOk: true, wantPos: 3},
		{name: "literal mismatch", prod: NewLiteral("foo"), input: "barfoo", wantOk: false, wantPos: 0},
		{name: "literal short input", prod: NewLiteral("foo"), input: "fo", wantOk: false, wantPos: 0},
		{name: "eof at end", prod: NewEof(), input: "", wantOk: true, wantPos: 0},
		{name: "eof not at end", prod: NewEof(), input: "x", wantOk: false, wantPos: 0},
		{name: "any consumes one", prod: NewAny(), input: "x", wantOk: true, wantPos: 1},
		{name: "any fails at eof", prod: NewAny(), input: "", wantOk: false, wantPos: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ctx := NewContext(tc.input, NewTable())
			result, err := tc.prod.Evaluate(ctx)

			assert.NoError(err)
			assert.Equal(tc.wantOk, result.Ok())
			assert.Equal(tc.wantPos, ctx.Pos)
		})
	}
}

func Test_OneOf_CharRange(t *testing.T) {
	assert := assert.New(t)

	oneOf := NewOneOf("abc")
	ctx := NewContext("bxy", NewTable())
	result, err := oneOf.Evaluate(ctx)
	assert.NoError(err)
	assert.True(result.Ok())
	assert.Equal(1, ctx.Pos)

	rng := NewCharRange('0', '9')
	ctx2 := NewContext("5", NewTable())
	result2, err := rng.Evaluate(ctx2)
	assert.NoError(err)
	assert.True(result2.Ok())

	ctx3 := NewContext("z", NewTable())
	result3, err := rng.Evaluate(ctx3)
	assert.NoError(err)
	assert.False(result3.Ok())
	assert.Equal(0, ctx3.Pos)
}

// Test_FailedEval_LeavesContextUnchanged asserts the §8 invariant: a failed
// evaluation with no on-fail message attached leaves the caller's context
// untouched.
func Test_FailedEval_LeavesContextUnchanged(t *testing.T) {
	assert := assert.New(t)

	seq := NewSequence(NewLiteral("foo"), NewLiteral("bar"))
	ctx := NewContext("foobaz", NewTable())
	before := *ctx

	result, err := seq.Evaluate(ctx)

	assert.NoError(err)
	assert.False(result.Ok())
	assert.Equal(before.Pos, ctx.Pos)
	assert.Equal(before.Line, ctx.Line)
	assert.Equal(before.Column, ctx.Column)
}

func Test_Sequence_CommitsOnlyOnFullSuccess(t *testing.T) {
	assert := assert.New(t)

	seq := NewSequence(NewLiteral("foo"), NewLiteral("bar"))
	ctx := NewContext("foobar", NewTable())

	result, err := seq.Evaluate(ctx)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Equal(6, ctx.Pos)
}

func Test_OrGroup_FirstMatchWinsAndStopsTrying(t *testing.T) {
	assert := assert.New(t)

	var secondTried bool
	tracking := &trackingProd{called: &secondTried, inner: NewLiteral("bar")}

	group := NewOrGroup(NewLiteral("foo"), tracking)
	ctx := NewContext("foobar", NewTable())

	result, err := group.Evaluate(ctx)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Equal(3, ctx.Pos)
	assert.False(secondTried, "later alternatives must not be evaluated once one succeeds")
}

// trackingProd wraps another Production and records whether it was ever
// asked to Evaluate, used to confirm OrGroup short-circuits.
type trackingProd struct {
	onFail
	called *bool
	inner  Production
}

func (p *trackingProd) evalImpl(ctx *Context) (AstResult, error) {
	*p.called = true
	return p.inner.Evaluate(ctx)
}

func (p *trackingProd) Evaluate(ctx *Context) (AstResult, error) {
	result, err := p.evalImpl(ctx)
	return finish(ctx, &p.onFail, result, err)
}

func (p *trackingProd) OnFail(msg string) Production {
	p.setFail(msg)
	return p
}

func Test_Negate(t *testing.T) {
	assert := assert.New(t)

	neg := NewNegate(NewLiteral("x"))

	ctx := NewContext("y", NewTable())
	result, err := neg.Evaluate(ctx)
	assert.NoError(err)
	assert.True(result.Ok())
	assert.Equal(1, ctx.Pos, "Negate must advance by exactly one character on success")

	ctx2 := NewContext("x", NewTable())
	result2, err := neg.Evaluate(ctx2)
	assert.NoError(err)
	assert.False(result2.Ok())
	assert.Equal(0, ctx2.Pos, "Negate must not advance on failure")

	ctx3 := NewContext("", NewTable())
	result3, err := neg.Evaluate(ctx3)
	assert.NoError(err)
	assert.False(result3.Ok(), "Negate must fail at EOF")
}

func Test_Lookahead_NeverConsumes(t *testing.T) {
	assert := assert.New(t)

	la := NewLookahead(NewLiteral("foo"))
	ctx := NewContext("foobar", NewTable())

	result, err := la.Evaluate(ctx)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Equal(0, ctx.Pos)
	assert.Empty(result.Nodes())
}

func Test_Optional(t *testing.T) {
	assert := assert.New(t)

	opt := NewOptional(NewLiteral("foo"))

	ctx := NewContext("bar", NewTable())
	result, err := opt.Evaluate(ctx)
	assert.NoError(err)
	assert.True(result.Ok())
	assert.Equal(0, ctx.Pos)

	ctx2 := NewContext("foobar", NewTable())
	result2, err := opt.Evaluate(ctx2)
	assert.NoError(err)
	assert.True(result2.Ok())
	assert.Equal(3, ctx2.Pos)
}

func Test_OneOrMore_ZeroOrMore(t *testing.T) {
	assert := assert.New(t)

	oom := NewOneOrMore(NewOneOf("a"))

	ctx := NewContext("aaab", NewTable())
	result, err := oom.Evaluate(ctx)
	assert.NoError(err)
	assert.True(result.Ok())
	assert.Equal(3, ctx.Pos)

	ctx2 := NewContext("b", NewTable())
	result2, err := oom.Evaluate(ctx2)
	assert.NoError(err)
	assert.False(result2.Ok())
	assert.Equal(0, ctx2.Pos)

	zom := NewZeroOrMore(NewOneOf("a"))
	ctx3 := NewContext("b", NewTable())
	result3, err := zom.Evaluate(ctx3)
	assert.NoError(err)
	assert.True(result3.Ok())
	assert.Equal(0, ctx3.Pos)
}

func Test_OneOrMoreUntil_ZeroOrMoreUntil(t *testing.T) {
	assert := assert.New(t)

	term := NewLiteral(";")

	oomu := NewOneOrMoreUntil(term)
	ctx := NewContext("abc;", NewTable())
	result, err := oomu.Evaluate(ctx)
	assert.NoError(err)
	assert.True(result.Ok())
	assert.Equal(3, ctx.Pos, "the terminator itself must be left unconsumed")

	ctx2 := NewContext(";", NewTable())
	result2, err := oomu.Evaluate(ctx2)
	assert.NoError(err)
	assert.False(result2.Ok(), "OneOrMoreUntil fails if the terminator matches immediately")

	ctx3 := NewContext("abc", NewTable())
	result3, err := oomu.Evaluate(ctx3)
	assert.NoError(err)
	assert.False(result3.Ok(), "OneOrMoreUntil fails if EOF arrives before the terminator")

	zomu := NewZeroOrMoreUntil(term)
	ctx4 := NewContext(";", NewTable())
	result4, err := zomu.Evaluate(ctx4)
	assert.NoError(err)
	assert.True(result4.Ok())
	assert.Equal(0, ctx4.Pos)

	ctx5 := NewContext("", NewTable())
	result5, err := zomu.Evaluate(ctx5)
	assert.NoError(err)
	assert.True(result5.Ok(), "ZeroOrMoreUntil succeeds immediately at EOF")
}

func Test_Decl_NodeTextMatchesConsumedSpan(t *testing.T) {
	assert := assert.New(t)

	decl := NewDecl("greeting", NewLiteral("hello"))
	ctx := NewContext("hello world", NewTable())

	result, err := decl.Evaluate(ctx)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Len(result.Nodes(), 1)
	node := result.Nodes()[0]
	assert.Equal("greeting", node.Name)
	assert.Equal("hello", node.Text)
	assert.Equal(5, ctx.Pos)
}

func Test_UnreportedDecl_ContributesNoNodes(t *testing.T) {
	assert := assert.New(t)

	decl := NewUnreportedDecl("ws", NewOneOrMore(NewOneOf(" ")))
	ctx := NewContext("   x", NewTable())

	result, err := decl.Evaluate(ctx)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Empty(result.Nodes())
	assert.Equal(3, ctx.Pos)
}

func Test_ExpandedDecl_SplicesChildren(t *testing.T) {
	assert := assert.New(t)

	inner := NewDecl("word", NewOneOrMore(NewCharRange('a', 'z')))
	decl := NewExpandedDecl("wrapper", inner)
	ctx := NewContext("hello", NewTable())

	result, err := decl.Evaluate(ctx)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Len(result.Nodes(), 1)
	assert.Equal("word", result.Nodes()[0].Name)
}

func Test_DeclRef_ResolvesThroughTable(t *testing.T) {
	assert := assert.New(t)

	table := NewTable()
	table.Add(NewDecl("digit", NewCharRange('0', '9')))

	ref := NewDeclRef("digit")
	ctx := NewContext("7", table)

	result, err := ref.Evaluate(ctx)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Len(result.Nodes(), 1)
	assert.Equal("digit", result.Nodes()[0].Name)
}

func Test_DeclRef_UndefinedName_IsFatal(t *testing.T) {
	assert := assert.New(t)

	table := NewTable()
	ref := NewDeclRef("nope")
	ctx := NewContext("x", table)

	assert.Panics(func() {
		_, _ = ref.Evaluate(ctx)
	})
}

func Test_OnFail_RaisesHardParseErrorAtPosition(t *testing.T) {
	assert := assert.New(t)

	lit := NewLiteral("foo")
	lit.OnFail(`Expected "foo"`)
	ctx := NewContext("bar", NewTable())

	_, err := lit.Evaluate(ctx)

	assert.Error(err)
	assert.Equal(`(1, 1): Expected "foo"`, err.Error())
}

func Test_OnFail_HardFailureBypassesEnclosingOrGroup(t *testing.T) {
	assert := assert.New(t)

	hardFail := NewLiteral("foo")
	hardFail.OnFail("must be foo")

	group := NewOrGroup(hardFail, NewLiteral("bar"))
	ctx := NewContext("bar", NewTable())

	_, err := group.Evaluate(ctx)

	assert.Error(err, "a hard failure inside one alternative must not be swallowed by the OrGroup")
}

func Test_Fail_AlwaysRaises(t *testing.T) {
	assert := assert.New(t)

	f := NewFail("unreachable branch")
	ctx := NewContext("anything", NewTable())

	_, err := f.Evaluate(ctx)

	assert.Error(err)
	assert.Equal("(1, 1): unreachable branch", err.Error())
}

func Test_Parser_ParseRule(t *testing.T) {
	assert := assert.New(t)

	table := NewTable()
	table.Add(NewDecl("greeting", NewLiteral("hi")))
	p := NewParser(table, "greeting")

	result, err := p.Parse("hi")
	assert.NoError(err)
	assert.True(result.Ok())
	assert.Len(result.Nodes(), 1)

	_, err = p.ParseRule("nonexistent", "hi")
	assert.Error(err)
}
