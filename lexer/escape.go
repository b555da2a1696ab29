package lexer

import (
	"strconv"
	"strings"

	"github.com/lukeod/parsekit/failure"
	"github.com/lukeod/parsekit/ruleset"
	"github.com/lukeod/parsekit/token"
)

// lexQuoted consumes a quoted string opened by delim, decoding escapes per
// spec.md §4.3 step 3, and returns the resulting token positioned at the
// opening delimiter.
func (l *Lexer) lexQuoted(delim string, rule ruleset.QuoteRule, startLine, startCol int) (token.Token, error) {
	name := l.pos.Name()
	if err := l.advanceRunes(delim); err != nil {
		return token.Token{}, failure.NewUnexpectedEOF(name)
	}

	var sb strings.Builder
	for {
		if strings.HasPrefix(l.pos.Rest(), rule.Stop) {
			if err := l.advanceRunes(rule.Stop); err != nil {
				return token.Token{}, failure.NewUnexpectedEOF(name)
			}
			return token.Token{Type: rule.TokenType, Literal: sb.String(), SourceName: name, Line: startLine, Column: startCol}, nil
		}
		r, _, ok := l.pos.Char()
		if !ok {
			return token.Token{}, l.fail(failure.UnexpectedEOF, "unterminated string literal")
		}
		if r == '\\' && rule.EscapeEnabled() {
			if err := l.pos.Advance(1); err != nil {
				return token.Token{}, failure.NewUnexpectedEOF(name)
			}
			decoded, ferr := l.decodeEscape()
			if ferr != nil {
				return token.Token{}, ferr
			}
			sb.WriteRune(decoded)
			continue
		}
		if r == '\n' && !rule.Multiline {
			return token.Token{}, l.fail(failure.Lexical, "line break not allowed inside this string literal")
		}
		sb.WriteRune(r)
		if err := l.pos.Advance(1); err != nil {
			return token.Token{}, failure.NewUnexpectedEOF(name)
		}
	}
}

// decodeEscape decodes one escape sequence, with the leading backslash
// already consumed. It implements the table in spec.md §4.3 step 3.
func (l *Lexer) decodeEscape() (rune, *failure.Failure) {
	name := l.pos.Name()
	r, _, ok := l.pos.Char()
	if !ok {
		return 0, failure.NewUnexpectedEOF(name)
	}

	switch r {
	case 'a':
		l.pos.Advance(1)
		return '\a', nil
	case 'b':
		l.pos.Advance(1)
		return '\b', nil
	case 'f':
		l.pos.Advance(1)
		return '\f', nil
	case 'n':
		l.pos.Advance(1)
		return '\n', nil
	case 'r':
		l.pos.Advance(1)
		return '\r', nil
	case 't':
		l.pos.Advance(1)
		return '\t', nil
	case 'v':
		l.pos.Advance(1)
		return '\v', nil
	case '\\':
		l.pos.Advance(1)
		return '\\', nil
	case '\'':
		l.pos.Advance(1)
		return '\'', nil
	case '"':
		l.pos.Advance(1)
		return '"', nil
	case '?':
		l.pos.Advance(1)
		return '?', nil
	case 'o', 'O':
		l.pos.Advance(1)
		return l.decodeFixedDigits(3, isOctalDigit, 8)
	case 'x', 'X':
		l.pos.Advance(1)
		return l.decodeFixedDigits(2, isHexDigit, 16)
	case 'u', 'U':
		l.pos.Advance(1)
		return l.decodeFixedDigits(4, isHexDigit, 16)
	case 'w', 'W':
		l.pos.Advance(1)
		return l.decodeGreedyDigits(6, isHexDigit, 16, 1)
	default:
		if r >= '0' && r <= '9' {
			return l.decodeGreedyDigits(3, isDecimalDigit, 10, 1)
		}
		return 0, l.fail(failure.Lexical, "invalid escape sequence \\"+string(r))
	}
}

func isOctalDigit(r rune) bool   { return r >= '0' && r <= '7' }
func isDecimalDigit(r rune) bool { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// decodeFixedDigits reads exactly n digits (of the given predicate/base)
// and returns the decoded code point. EOF mid-sequence raises
// UnexpectedEOF; a non-matching character raises a malformed-escape
// failure.
func (l *Lexer) decodeFixedDigits(n int, isDigit func(rune) bool, base int) (rune, *failure.Failure) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		r, _, ok := l.pos.Char()
		if !ok {
			return 0, failure.NewUnexpectedEOF(l.pos.Name())
		}
		if !isDigit(r) {
			return 0, l.fail(failure.Lexical, "malformed escape sequence: expected "+strconv.Itoa(n)+" digits")
		}
		sb.WriteRune(r)
		l.pos.Advance(1)
	}
	return parseCodePoint(sb.String(), base), nil
}

// decodeGreedyDigits reads up to max digits (at least min), stopping at
// the first non-matching character or EOF.
func (l *Lexer) decodeGreedyDigits(max int, isDigit func(rune) bool, base, min int) (rune, *failure.Failure) {
	var sb strings.Builder
	for sb.Len() < max {
		r, _, ok := l.pos.Char()
		if !ok || !isDigit(r) {
			break
		}
		sb.WriteRune(r)
		l.pos.Advance(1)
	}
	if sb.Len() < min {
		return 0, l.fail(failure.Lexical, "malformed escape sequence: expected at least "+strconv.Itoa(min)+" digit(s)")
	}
	return parseCodePoint(sb.String(), base), nil
}

func parseCodePoint(digits string, base int) rune {
	v, _ := strconv.ParseInt(digits, base, 64)
	return rune(v)
}
