package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukeod/parsekit/failure"
	"github.com/lukeod/parsekit/position"
	"github.com/lukeod/parsekit/ruleset"
	"github.com/lukeod/parsekit/token"
)

func mustCompile(t *testing.T, freeRules []ruleset.FreeRule, cfg ruleset.Config) *ruleset.RuleSet {
	t.Helper()
	rs, err := ruleset.Compile(freeRules, cfg)
	require.NoError(t, err)
	return rs
}

func lexAll(t *testing.T, rs *ruleset.RuleSet, input string) []token.Token {
	t.Helper()
	l := New(rs, input, "test")
	toks, err := l.AllTokens()
	require.NoError(t, err)
	return toks
}

func basicRuleSet(t *testing.T) *ruleset.RuleSet {
	return mustCompile(t, []ruleset.FreeRule{
		{Literal: "==", Type: "=="},
		{Literal: "=", Type: "="},
		{Pattern: `[A-Za-z_][A-Za-z0-9_]*`, Type: "ident"},
	}, ruleset.Config{
		Parentheses: ruleset.Parentheses{Paren: true},
		Numbers:     ruleset.Numbers{Integer: true, Float: true},
		Strings:     map[string]ruleset.QuoteRule{`"`: {}},
		LineComment: "//",
		NestedComment: ruleset.BlockPair("/*", "*/"),
	})
}

func TestLexerSkipsWhitespaceAndLineComments(t *testing.T) {
	rs := basicRuleSet(t)
	toks := lexAll(t, rs, "  foo // a comment\n  bar")
	require.Len(t, toks, 2)
	assert.Equal(t, "foo", toks[0].Literal)
	assert.Equal(t, "bar", toks[1].Literal)
}

func TestLexerBlockCommentsAreFlatNotNested(t *testing.T) {
	rs := basicRuleSet(t)
	// BlockPair builds a flat comment: the inner "/*" does not nest, so the
	// single "*/" below closes the whole comment.
	toks := lexAll(t, rs, "foo /* looks like /* a nested begin but is flat */ bar")
	require.Len(t, toks, 2)
	assert.Equal(t, "foo", toks[0].Literal)
	assert.Equal(t, "bar", toks[1].Literal)
}

func TestLexerTrueNestedBlockComments(t *testing.T) {
	rs := mustCompile(t, []ruleset.FreeRule{
		{Pattern: `[A-Za-z_][A-Za-z0-9_]*`, Type: "ident"},
	}, ruleset.Config{
		NestedComment: ruleset.NestedBlock("(*", "*)"),
	})
	toks := lexAll(t, rs, "(* outer (* inner *) still outer *) done")
	require.Len(t, toks, 1)
	assert.Equal(t, "done", toks[0].Literal)
}

func TestLexerStaticGuardLongestMatchWins(t *testing.T) {
	rs := basicRuleSet(t)
	toks := lexAll(t, rs, "a == b = c")
	require.Len(t, toks, 5)
	assert.Equal(t, "==", toks[1].Literal)
	assert.Equal(t, "=", toks[3].Literal)
}

func TestLexerKeywordDoesNotTruncateLongerIdentifier(t *testing.T) {
	rs := mustCompile(t, []ruleset.FreeRule{
		{Pattern: `[A-Za-z_][A-Za-z0-9_]*`, Type: "ident"},
	}, ruleset.Config{
		Keywords: []ruleset.Keyword{{Literal: "if"}},
	})
	toks := lexAll(t, rs, "iffy")
	require.Len(t, toks, 1)
	assert.Equal(t, "iffy", toks[0].Literal)
	assert.Equal(t, "ident", toks[0].Type)
}

func TestLexerKeywordMatchesAdjacentToPunctuation(t *testing.T) {
	rs := mustCompile(t, nil, ruleset.Config{
		Keywords:    []ruleset.Keyword{{Literal: "if"}},
		Parentheses: ruleset.Parentheses{Paren: true},
	})
	toks := lexAll(t, rs, "if(")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Keyword("if"), toks[0].Type)
	assert.Equal(t, "(", toks[1].Literal)
}

func TestLexerQuotedStringEscapes(t *testing.T) {
	rs := basicRuleSet(t)
	toks := lexAll(t, rs, `"hello\nworld"`)
	require.Len(t, toks, 1)
	assert.Equal(t, "hello\nworld", toks[0].Literal)
	assert.Equal(t, token.Quoted(`"`), toks[0].Type)
}

func TestLexerNumberNoFollowIsLexicalFailure(t *testing.T) {
	rs := basicRuleSet(t)
	l := New(rs, "123abc", "test")
	_, err := l.Next()
	require.Error(t, err)
	f, ok := err.(*failure.Failure)
	require.True(t, ok)
	assert.Equal(t, failure.Lexical, f.Kind)
}

func TestLexerNumberFollowedBySpaceIsFine(t *testing.T) {
	rs := basicRuleSet(t)
	toks := lexAll(t, rs, "123 = 4.5")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Integer, toks[0].Type)
	assert.Equal(t, token.Float, toks[2].Type)
}

func TestLexerEOFIsNotAnError(t *testing.T) {
	rs := basicRuleSet(t)
	l := New(rs, "", "test")
	_, err := l.Next()
	assert.ErrorIs(t, err, ErrEOF)
}

func TestLexerInvalidTokenFails(t *testing.T) {
	rs := basicRuleSet(t)
	l := New(rs, "@", "test")
	_, err := l.Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEOF)
}

func TestLexerCloneAssignCompare(t *testing.T) {
	rs := basicRuleSet(t)
	l := New(rs, "foo bar", "test")
	clone := l.Clone()
	_, err := clone.Next()
	require.NoError(t, err)

	assert.Equal(t, position.Forward, l.Compare(clone))
	l.Assign(clone)
	assert.Equal(t, position.Equal, l.Compare(clone))
}

func TestLexerUnterminatedStringIsUnexpectedEOF(t *testing.T) {
	rs := basicRuleSet(t)
	l := New(rs, `"unterminated`, "test")
	_, err := l.Next()
	require.Error(t, err)
	f, ok := err.(*failure.Failure)
	require.True(t, ok)
	assert.Equal(t, failure.UnexpectedEOF, f.Kind)
}

func TestLexerIterateStopsOnYieldFalse(t *testing.T) {
	rs := basicRuleSet(t)
	l := New(rs, "a b c", "test")
	var seen []string
	l.Iterate(func(tok token.Token, err error) bool {
		require.NoError(t, err)
		seen = append(seen, tok.Literal)
		return len(seen) < 2
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
