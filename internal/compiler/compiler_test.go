package compiler

import (
	"testing"

	"github.com/dekarrin/grammarkit/internal/peg"
	"github.com/stretchr/testify/assert"
)

func Test_Compile_SimpleDeclaration(t *testing.T) {
	assert := assert.New(t)

	table, parser, err := Compile(`greeting ::= "hello"`, "greeting")
	assert.NoError(err)
	assert.NotNil(table)
	assert.Equal(1, table.Len())

	result, err := parser.Parse("hello")
	assert.NoError(err)
	assert.True(result.Ok())
}

func Test_Compile_UnreportedAndExpandedDeclarations(t *testing.T) {
	assert := assert.New(t)

	src := "" +
		"<ws> ::= [ \\t]+\n" +
		">paren< ::= '(', digit, ')'\n" +
		"digit ::= [0-9]\n"

	table, parser, err := Compile(src, "paren")
	assert.NoError(err)

	decl, ok := table.Get("ws")
	assert.True(ok)
	_, isUnreported := decl.(*peg.UnreportedDecl)
	assert.True(isUnreported)

	result, err := parser.Parse("(7)")
	assert.NoError(err)
	assert.True(result.Ok())
	// paren is an expanded decl: its own name contributes no wrapping
	// node, so the result is digit's node spliced straight through.
	assert.Len(result.Nodes(), 1)
	assert.Equal("digit", result.Nodes()[0].Name)
}

func Test_Compile_OccurrenceAndAlternation(t *testing.T) {
	assert := assert.New(t)

	src := "word ::= [a-z]+ / [0-9]+\n"
	_, parser, err := Compile(src, "word")
	assert.NoError(err)

	result, err := parser.Parse("hello")
	assert.NoError(err)
	assert.True(result.Ok())

	result, err = parser.Parse("1234")
	assert.NoError(err)
	assert.True(result.Ok())

	result, err = parser.Parse("!!!")
	assert.NoError(err)
	assert.False(result.Ok())
}

func Test_Compile_ErrorOnFailStickyAcrossSequence(t *testing.T) {
	assert := assert.New(t)

	// the error_on_fail token's message is sticky: it attaches to every
	// production after it in the sequence, not just the next one, so the
	// closing paren's message ends up reported for the failed name too.
	src := `pair ::= "(" , !"expected closing paren" , name , ")"` + "\n" +
		"name ::= [a-z]+\n"

	_, parser, err := Compile(src, "pair")
	assert.NoError(err)

	_, err = parser.Parse("(a)")
	assert.NoError(err)

	_, err = parser.Parse("(9)")
	assert.Error(err, "the sticky error-on-fail message should fire once name fails to match")
}

func Test_Compile_LiteralEscapes(t *testing.T) {
	assert := assert.New(t)

	_, parser, err := Compile(`tab ::= "\t"`, "tab")
	assert.NoError(err)

	result, err := parser.Parse("\t")
	assert.NoError(err)
	assert.True(result.Ok())
}

func Test_Compile_RawLiteralDecoratorDisablesEscapes(t *testing.T) {
	assert := assert.New(t)

	_, parser, err := Compile(`raw ::= c"\t"`, "raw")
	assert.NoError(err)

	// in raw mode, the two source characters backslash and t are matched
	// literally, not a tab byte.
	result, err := parser.Parse(`\t`)
	assert.NoError(err)
	assert.True(result.Ok())

	result, err = parser.Parse("\t")
	assert.NoError(err)
	assert.False(result.Ok())
}

func Test_Compile_UndefinedRuleReference_IsSemanticError(t *testing.T) {
	assert := assert.New(t)

	_, _, err := Compile(`broken ::= missingRule`, "broken")
	assert.Error(err)
}

func Test_Compile_GroupExpandsInline(t *testing.T) {
	assert := assert.New(t)

	src := "wrapped ::= (digit, digit)\n" +
		"digit ::= [0-9]\n"

	_, parser, err := Compile(src, "wrapped")
	assert.NoError(err)

	result, err := parser.Parse("42")
	assert.NoError(err)
	assert.True(result.Ok())
	assert.Len(result.Nodes()[0].Children, 2)
}

func Test_Compile_LookaheadDoesNotConsume(t *testing.T) {
	assert := assert.New(t)

	src := `guarded ::= ?"foo" , "foobar"` + "\n"
	_, parser, err := Compile(src, "guarded")
	assert.NoError(err)

	result, err := parser.Parse("foobar")
	assert.NoError(err)
	assert.True(result.Ok())
}

func Test_Compile_NegatedOccurrenceBecomesUntilVariant(t *testing.T) {
	assert := assert.New(t)

	src := `line ::= -"\n"+ , "\n"` + "\n"
	_, parser, err := Compile(src, "line")
	assert.NoError(err)

	result, err := parser.Parse("hello\n")
	assert.NoError(err)
	assert.True(result.Ok())
}
