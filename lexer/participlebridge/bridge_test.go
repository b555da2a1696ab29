package participlebridge

import (
	"testing"

	"github.com/alecthomas/participle/v2"
	"github.com/stretchr/testify/require"

	"github.com/lukeod/parsekit/ruleset"
)

// assignment is a minimal participle struct-tag grammar ("key = value")
// used to prove the bridge can back a real participle.Build call instead of
// participle's own lexer.MustSimple.
type assignment struct {
	Key   string `parser:"@Ident \"=\""`
	Value string `parser:"@Ident"`
}

func assignmentRuleSet(t *testing.T) *ruleset.RuleSet {
	t.Helper()
	rs, err := ruleset.Compile([]ruleset.FreeRule{
		{Literal: "=", Type: "="},
		{Pattern: `[A-Za-z_][A-Za-z0-9_]*`, Type: "Ident"},
	}, ruleset.Config{})
	require.NoError(t, err)
	return rs
}

func TestNewRejectsDynamicKeywordRuleSet(t *testing.T) {
	rs, err := ruleset.Compile(nil, ruleset.Config{
		Keywords: []ruleset.Keyword{{Pattern: `[a-z]+`}},
	})
	require.NoError(t, err)

	_, err = New(rs)
	require.Error(t, err)
}

func TestBridgeDrivesAParticipleGrammar(t *testing.T) {
	rs := assignmentRuleSet(t)
	def, err := New(rs)
	require.NoError(t, err)

	parser, err := participle.Build[assignment](participle.Lexer(def))
	require.NoError(t, err)

	got, err := parser.ParseString("test", "width = tall")
	require.NoError(t, err)
	require.Equal(t, "width", got.Key)
	require.Equal(t, "tall", got.Value)
}

func TestBridgeSurfacesLexicalErrorsToParticiple(t *testing.T) {
	rs := assignmentRuleSet(t)
	def, err := New(rs)
	require.NoError(t, err)

	parser, err := participle.Build[assignment](participle.Lexer(def))
	require.NoError(t, err)

	_, err = parser.ParseString("test", "width = @@@")
	require.Error(t, err)
}
