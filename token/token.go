// Package token defines the Token value produced by the lexer and consumed
// by parser combinators, plus the well-known type tags built-in RuleSet
// presets emit.
package token

import "fmt"

// Well-known token type tags emitted by built-in RuleSet presets. User
// free-rules and keyword/operator presets may emit any other string tag.
const (
	Integer = "integer"
	Float   = "float"

	// KeywordPrefix tags a keyword token: the full type is KeywordPrefix +
	// the keyword spelling, e.g. "__kw_if".
	KeywordPrefix = "__kw_"

	// QuotedPrefix is the default type tag for a quoted string whose preset
	// didn't specify an explicit token type: QuotedPrefix + the opening
	// delimiter, e.g. `__quoted_by_"`.
	QuotedPrefix = "__quoted_by_"

	// NumberNoFollow is the internal type emitted when a number literal is
	// immediately followed by a character that must not directly follow a
	// number (a letter, or an 'e' not starting a valid exponent). The lexer
	// treats this type as a lexical failure; it is never returned to a
	// caller as a successful token.
	NumberNoFollow = "__number_nofollow"
)

// Keyword returns the well-known token type for a keyword spelling.
func Keyword(word string) string { return KeywordPrefix + word }

// Quoted returns the default token type for strings opened by delim.
func Quoted(delim string) string { return QuotedPrefix + delim }

// Token is a single lexical element: a type tag, its decoded lexeme, and
// the source position where it starts.
type Token struct {
	Type       string
	Literal    string
	SourceName string
	Line       int
	Column     int
}

// String renders the token for diagnostics and test failure messages.
func (t Token) String() string {
	lit := t.Literal
	if len(lit) > 40 {
		lit = lit[:37] + "..."
	}
	return fmt.Sprintf("%s:%d:%d %s %q", t.SourceName, t.Line, t.Column, t.Type, lit)
}
