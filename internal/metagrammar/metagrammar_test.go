package metagrammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_ParsesSingleDeclaration(t *testing.T) {
	assert := assert.New(t)

	_, parser := Grammar()
	result, err := parser.Parse(`greeting ::= "hello"`)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Len(result.Nodes(), 1)
	assert.Equal("declaration_set", result.Nodes()[0].Name)
}

func Test_Grammar_ParsesMultipleDeclarationsWithComments(t *testing.T) {
	assert := assert.New(t)

	src := "# a greeting rule\n" +
		"greeting ::= 'hi' / 'hello'\n" +
		"<ws> ::= [ \\t]+\n"

	_, parser := Grammar()
	result, err := parser.Parse(src)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Len(result.Nodes(), 1)
	assert.Len(result.Nodes()[0].Children, 2)
}

func Test_Grammar_UnreportedAndExpandedNames(t *testing.T) {
	assert := assert.New(t)

	_, parser := Grammar()

	result, err := parser.ParseRule("unreportedname", "<ws>")
	assert.NoError(err)
	assert.True(result.Ok())

	result, err = parser.ParseRule("expandedname", ">group<")
	assert.NoError(err)
	assert.True(result.Ok())
}

func Test_Grammar_ElementTokenWithOccurrenceAndErrorOnFail(t *testing.T) {
	assert := assert.New(t)

	_, parser := Grammar()

	result, err := parser.ParseRule("element_token", `"foo"+!"expected at least one foo"`)
	assert.NoError(err)
	assert.True(result.Ok())
}

func Test_Grammar_Range(t *testing.T) {
	assert := assert.New(t)

	_, parser := Grammar()

	testCases := []string{
		"[a-z]",
		"[abc]",
		"[]a-z]",
		"[-a-z]",
		"[a-z-]",
	}

	for _, tc := range testCases {
		result, err := parser.ParseRule("range", tc)
		assert.NoErrorf(err, "input %q", tc)
		assert.Truef(result.Ok(), "input %q should be a valid range", tc)
	}
}

func Test_Grammar_EscapedChar(t *testing.T) {
	assert := assert.New(t)

	_, parser := Grammar()

	testCases := []string{
		`\n`, `\t`, `\\`, `\"`, `\'`,
		`\x41`, `\u0041`, `\U00000041`, `\101`,
	}

	for _, tc := range testCases {
		result, err := parser.ParseRule("ESCAPED_CHAR", tc)
		assert.NoErrorf(err, "input %q", tc)
		assert.Truef(result.Ok(), "input %q should be a valid escape", tc)
	}
}

func Test_Grammar_EscapedChar_BadHexIsHardFailure(t *testing.T) {
	assert := assert.New(t)

	_, parser := Grammar()

	_, err := parser.ParseRule("ESCAPED_CHAR", `\xZZ`)
	assert.Error(err, `an incomplete \x escape must raise a hard failure, not silently mismatch`)
}

func Test_Grammar_MissingClosingBracketIsHardFailure(t *testing.T) {
	assert := assert.New(t)

	_, parser := Grammar()

	_, err := parser.ParseRule("range", "[a-z")
	assert.Error(err)
}

// Test_Grammar_SelfParseRoundTrip exercises the round-trip invariant on a
// small but complete grammar exercising every declaration kind (plain,
// <unreported>, >expanded<): it parses to an AST whose declaration count
// matches the source, and concatenating each declaration's text reproduces
// the source byte for byte.
func Test_Grammar_SelfParseRoundTrip(t *testing.T) {
	assert := assert.New(t)

	src := "" +
		"digit     ::= [0-9]\n" +
		"<ws>      ::= [ \\t]+\n" +
		">paren<   ::= '(', digit, ')'\n" +
		"number    ::= digit+\n"

	_, parser := Grammar()
	result, err := parser.Parse(src)

	assert.NoError(err)
	assert.True(result.Ok())
	assert.Len(result.Nodes(), 1)
	assert.Len(result.Nodes()[0].Children, 4)

	var rebuilt strings.Builder
	for _, decl := range result.Nodes()[0].Children {
		rebuilt.WriteString(decl.Text)
	}
	assert.Equal(src, rebuilt.String())
}
