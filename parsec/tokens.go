package parsec

import (
	"strings"
	"unicode/utf8"

	"github.com/lukeod/parsekit/failure"
	"github.com/lukeod/parsekit/lexer"
	"github.com/lukeod/parsekit/token"
)

// nextRaw pulls one token from cur, normalizing lexer.ErrEOF into a
// *failure.Failure so every token-consuming combinator below shares one
// translation point.
func nextRaw(cur *lexer.Lexer, expected string) (token.Token, *failure.Failure) {
	before := cur.Clone()
	tok, err := cur.Next()
	if err == lexer.ErrEOF {
		return token.Token{}, failure.Newf(failure.UnexpectedEOF, before.SourceName(),
			before.Position().Line(), before.Position().Column(), "expected %s, got end of file", expected)
	}
	if err != nil {
		if f, ok := err.(*failure.Failure); ok {
			return token.Token{}, f
		}
		return token.Token{}, failure.New(failure.Lexical, before.SourceName(), 0, 0, err.Error())
	}
	return tok, nil
}

// AnyToken consumes and returns the next token, of any type. It fails
// (without consuming) at end of input or when the lexer reports a failure.
func AnyToken() Parser[token.Token] {
	return New(func(cur *lexer.Lexer) (token.Token, *failure.Failure) {
		before := cur.Clone()
		tok, err := nextRaw(cur, "a token")
		if err != nil {
			cur.Assign(before)
			return token.Token{}, err
		}
		return tok, nil
	})
}

// Token consumes the next token if its Type equals typ; otherwise it fails
// without consuming, restoring the cursor to where Token started.
func Token(typ string) Parser[token.Token] {
	return New(func(cur *lexer.Lexer) (token.Token, *failure.Failure) {
		before := cur.Clone()
		tok, err := nextRaw(cur, typ)
		if err != nil {
			cur.Assign(before)
			return token.Token{}, err
		}
		if tok.Type != typ {
			cur.Assign(before)
			return token.Token{}, failure.Newf(failure.Syntactic, tok.SourceName, tok.Line, tok.Column,
				"expected %s, got %s %q", typ, tok.Type, tok.Literal)
		}
		return tok, nil
	})
}

// TokenLiteral consumes the next token if both its Type and Literal match;
// otherwise it fails without consuming.
func TokenLiteral(typ, literal string) Parser[token.Token] {
	return New(func(cur *lexer.Lexer) (token.Token, *failure.Failure) {
		before := cur.Clone()
		tok, err := nextRaw(cur, literal)
		if err != nil {
			cur.Assign(before)
			return token.Token{}, err
		}
		if tok.Type != typ || tok.Literal != literal {
			cur.Assign(before)
			return token.Token{}, failure.Newf(failure.Syntactic, tok.SourceName, tok.Line, tok.Column,
				"expected %s %q, got %s %q", typ, literal, tok.Type, tok.Literal)
		}
		return tok, nil
	})
}

// Literal matches lit verbatim against the raw source text, bypassing the
// RuleSet's guards entirely (spec.md §3's byte-level "string" primitive).
// Useful for grammar fragments a RuleSet's guards can't express cleanly, or
// for probing ahead of the tokenizer's own boundaries.
func Literal(lit string) Parser[string] {
	return New(func(cur *lexer.Lexer) (string, *failure.Failure) {
		pos := cur.Position()
		line, col := pos.Line(), pos.Column()
		if !strings.HasPrefix(pos.Rest(), lit) {
			return "", failure.Newf(failure.Syntactic, cur.SourceName(), line, col, "expected %q", lit)
		}
		if err := pos.Advance(utf8.RuneCountInString(lit)); err != nil {
			return "", failure.NewUnexpectedEOF(cur.SourceName())
		}
		return lit, nil
	})
}

// EOF succeeds, consuming nothing, only when no further token can be read.
func EOF() Parser[struct{}] {
	return NotFollowedBy(Trivial(struct{}{}), AnyToken()).Expect("end of file")
}
