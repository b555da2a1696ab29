package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukeod/parsekit/token"
)

func TestCompileStaticGuardLongestMatchFirst(t *testing.T) {
	rs, err := Compile([]FreeRule{
		{Literal: "=", Type: "="},
		{Literal: "==", Type: "=="},
	}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"==", "="}, rs.StaticGuard())
}

func TestCompileDuplicateStaticGuardIsConfigError(t *testing.T) {
	_, err := Compile([]FreeRule{
		{Literal: "x", Type: "a"},
		{Literal: "x", Type: "b"},
	}, Config{})
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestCompileKeywordsEmitKeywordType(t *testing.T) {
	rs, err := Compile(nil, Config{
		Keywords: []Keyword{{Literal: "if"}, {Literal: "else"}},
	})
	require.NoError(t, err)
	typ, _, ok := rs.LookupStatic("if")
	require.True(t, ok)
	assert.Equal(t, token.Keyword("if"), typ)
}

func TestCompileParenthesesPreset(t *testing.T) {
	rs, err := Compile(nil, Config{Parentheses: Parentheses{Paren: true, Brace: true}})
	require.NoError(t, err)
	for _, lit := range []string{"(", ")", "{", "}"} {
		_, _, ok := rs.LookupStatic(lit)
		assert.True(t, ok, "expected %q to be a static guard", lit)
	}
	_, _, ok := rs.LookupStatic("[")
	assert.False(t, ok)
}

func TestCompileNumbersSeparatorValidation(t *testing.T) {
	_, err := Compile(nil, Config{Numbers: Numbers{Integer: true, Separator: "ab"}})
	require.Error(t, err)

	_, err = Compile(nil, Config{Numbers: Numbers{Integer: true, Separator: "a"}})
	require.Error(t, err, "hex digit separator must be rejected")
}

func TestCompileNumbersAcceptPattern(t *testing.T) {
	rs, err := Compile(nil, Config{Numbers: Numbers{Integer: true, Float: true}})
	require.NoError(t, err)
	require.Len(t, rs.DynamicGuard(), 2)

	noFollow, accept := rs.DynamicGuard()[0], rs.DynamicGuard()[1]
	m, ok := accept.Match("123abc")
	require.True(t, ok)
	assert.Equal(t, "123", m)
	assert.Equal(t, token.Integer, accept.Type("123"))
	assert.Equal(t, token.Float, accept.Type("1.5"))

	_, ok = noFollow.Match("123abc")
	assert.True(t, ok, "no-follow guard should match a number directly followed by a letter")
}

func TestCompileStringsDefaultStopAndType(t *testing.T) {
	rs, err := Compile(nil, Config{Strings: map[string]QuoteRule{
		`"`: {},
	}})
	require.NoError(t, err)
	rule := rs.Quotes()[`"`]
	assert.Equal(t, `"`, rule.Stop)
	assert.Equal(t, token.Quoted(`"`), rule.TokenType)
	assert.True(t, rule.EscapeEnabled())
}

func TestCompileInvalidFreeRuleRegex(t *testing.T) {
	_, err := Compile([]FreeRule{{Pattern: "(", Type: "x"}}, Config{})
	require.Error(t, err)
}

func TestCompileFreeRuleRequiresLiteralOrPattern(t *testing.T) {
	_, err := Compile([]FreeRule{{Type: "x"}}, Config{})
	require.Error(t, err)
}

func TestTokenTypesExcludesDynamicKeywords(t *testing.T) {
	rs, err := Compile(nil, Config{Keywords: []Keyword{{Pattern: `[a-z]+`}}})
	require.NoError(t, err)
	assert.True(t, rs.HasDynamicKeywords())
	assert.Empty(t, rs.TokenTypes())
}

func TestTokenTypesCoversStaticAndQuotesAndNumbers(t *testing.T) {
	rs, err := Compile([]FreeRule{{Literal: "+", Type: "plus"}}, Config{
		Numbers: Numbers{Integer: true},
		Strings: map[string]QuoteRule{`"`: {}},
	})
	require.NoError(t, err)
	types := rs.TokenTypes()
	assert.Contains(t, types, "plus")
	assert.Contains(t, types, token.Integer)
	assert.Contains(t, types, token.Quoted(`"`))
}

func TestPrecedenceOf(t *testing.T) {
	rs, err := Compile(nil, Config{Operators: [][]Operator{
		{OpA("+", AssocLeft), OpA("-", AssocLeft)},
		{OpA("*", AssocLeft)},
	}})
	require.NoError(t, err)
	level, assoc, ok := rs.PrecedenceOf("*")
	require.True(t, ok)
	assert.Equal(t, 1, level)
	assert.Equal(t, AssocLeft, assoc)

	_, _, ok = rs.PrecedenceOf("/")
	assert.False(t, ok)
}
