package grammarkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Compile_ParsesWithDefaultEntryRule(t *testing.T) {
	assert := assert.New(t)

	g, err := Compile(`greeting ::= "hello" / "hi"`, "greeting")
	assert.NoError(err)
	assert.NotNil(g)

	result, err := g.Parse("hello")
	assert.NoError(err)
	assert.True(result.Ok())
}

func Test_Compile_UndefinedEntryRule_IsError(t *testing.T) {
	assert := assert.New(t)

	_, err := Compile(`greeting ::= "hello"`, "nonexistent")
	assert.Error(err)
}

func Test_Grammar_RuleNamesAndHasRule(t *testing.T) {
	assert := assert.New(t)

	src := "greeting ::= \"hello\"\n" +
		"<ws> ::= [ \\t]+\n"
	g, err := Compile(src, "greeting")
	assert.NoError(err)

	assert.True(g.HasRule("greeting"))
	assert.True(g.HasRule("ws"))
	assert.False(g.HasRule("nope"))
	assert.ElementsMatch([]string{"greeting", "ws"}, g.RuleNames())
}

func Test_Grammar_ParseRule_TriesAlternateStartRule(t *testing.T) {
	assert := assert.New(t)

	src := "greeting ::= \"hello\"\n" +
		"digit ::= [0-9]\n"
	g, err := Compile(src, "greeting")
	assert.NoError(err)

	result, err := g.ParseRule("digit", "7")
	assert.NoError(err)
	assert.True(result.Ok())
}
