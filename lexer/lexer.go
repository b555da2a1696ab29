// Package lexer implements the tokenizer: it pulls the next Token from a
// Position using a compiled RuleSet, handling whitespace, comments, quoted
// strings (with escape decoding), and numeric-literal no-follow checks.
//
// The state-machine approach (an explicit cursor with next/peek/backup-style
// primitives on Position, token boundaries tracked as start/current offsets)
// follows the teacher's hand-written SMI lexer (parser/lexer/lexer.go in
// lukeod/gosmi), generalized from one fixed MIB grammar to an arbitrary
// RuleSet.
package lexer

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lukeod/parsekit/failure"
	"github.com/lukeod/parsekit/position"
	"github.com/lukeod/parsekit/ruleset"
	"github.com/lukeod/parsekit/token"
)

// ErrEOF is returned by Next to peacefully signal that the source is
// exhausted. It is not a failure.Failure: reaching EOF is not an error.
var ErrEOF = errors.New("lexer: EOF")

// Lexer pulls tokens from a Position, governed by a RuleSet. A RuleSet is
// immutable once compiled and may be shared by any number of Lexers.
type Lexer struct {
	rs  *ruleset.RuleSet
	pos *position.Position
}

// New creates a Lexer over source, tagged with name for error messages.
func New(rs *ruleset.RuleSet, source, name string) *Lexer {
	return &Lexer{rs: rs, pos: position.New(source, name)}
}

// FromPosition creates a Lexer that reads starting at an existing cursor.
func FromPosition(rs *ruleset.RuleSet, pos *position.Position) *Lexer {
	return &Lexer{rs: rs, pos: pos}
}

// Position exposes the Lexer's cursor, e.g. so a caller can report an
// error location before any token is read.
func (l *Lexer) Position() *position.Position { return l.pos }

// RuleSet returns the RuleSet this Lexer was configured with.
func (l *Lexer) RuleSet() *ruleset.RuleSet { return l.rs }

// SourceName is the name tag carried by the Lexer's cursor.
func (l *Lexer) SourceName() string { return l.pos.Name() }

// Clone returns a Lexer with an independent copy of the cursor, sharing
// the same compiled RuleSet. Used by combinators to take a speculative
// branch without disturbing the caller's progress.
func (l *Lexer) Clone() *Lexer {
	return &Lexer{rs: l.rs, pos: l.pos.Clone()}
}

// Assign commits a speculative branch (typically produced by Clone) back
// into l, overwriting l's cursor with other's.
func (l *Lexer) Assign(other *Lexer) {
	l.pos.Assign(other.pos)
}

// Compare reports l's progress relative to other's.
func (l *Lexer) Compare(other *Lexer) position.Compare {
	return l.pos.CompareTo(other.pos)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

func (l *Lexer) fail(kind failure.Kind, msg string) *failure.Failure {
	return failure.New(kind, l.pos.Name(), l.pos.Line(), l.pos.Column(), msg)
}

func (l *Lexer) failf(kind failure.Kind, format string, args ...any) *failure.Failure {
	return failure.Newf(kind, l.pos.Name(), l.pos.Line(), l.pos.Column(), format, args...)
}

// advanceRunes steps the cursor forward by the rune count of s (s must be
// a prefix of the current Rest()).
func (l *Lexer) advanceRunes(s string) error {
	return l.pos.Advance(utf8.RuneCountInString(s))
}

// Next resolves and returns the next token. At end of input it returns
// (Token{}, ErrEOF); on a lexeme error it returns (Token{}, *failure.Failure).
func (l *Lexer) Next() (token.Token, error) {
	if l.rs.SkipSpaces() {
		if err := l.skipWhites(); err != nil {
			return token.Token{}, err
		}
	}
	if l.pos.EOF() {
		return token.Token{}, ErrEOF
	}

	startLine, startCol := l.pos.Line(), l.pos.Column()
	name := l.pos.Name()

	// Quoted strings.
	rest := l.pos.Rest()
	for _, delim := range l.rs.QuoteOpeners() {
		if strings.HasPrefix(rest, delim) {
			return l.lexQuoted(delim, l.rs.Quotes()[delim], startLine, startCol)
		}
	}

	// Static guard: matched by descending literal length, so a longer
	// operator always wins over a shorter prefix of itself (spec.md §9's
	// resolved open question on the fast-path/fallback split). A keyword
	// literal additionally requires a word boundary right after the match,
	// per spec.md §4.3 step 4's whole-word keyword lookup — this is what
	// keeps "if" from peeling off the front of "iffy" instead of letting the
	// identifier rule take the whole word. Free-rule literals and
	// punctuation have no such boundary to check, so free literals "a" and
	// "b" split "ab" into two tokens.
	for _, lit := range l.rs.StaticGuard() {
		if strings.HasPrefix(rest, lit) {
			typ, transform, _ := l.rs.LookupStatic(lit)
			if strings.HasPrefix(typ, token.KeywordPrefix) && !staticGuardBoundaryOK(lit, rest) {
				continue
			}
			if err := l.advanceRunes(lit); err != nil {
				return token.Token{}, failure.NewUnexpectedEOF(name)
			}
			tok := token.Token{Type: typ, Literal: lit, SourceName: name, Line: startLine, Column: startCol}
			return l.applyTransform(tok, transform)
		}
	}

	// Dynamic guard, in declared order.
	guards := l.rs.DynamicGuard()
	for i, dm := range guards {
		matched, ok := dm.Match(rest)
		if !ok {
			continue
		}
		typ := dm.Type(matched)
		if typ == token.NumberNoFollow {
			// The no-follow regex can also match a shorter prefix of a valid
			// literal ("0" before "x10", "1.5" before "e10"). Only fail when
			// the full number, as matched by the accepting rule that Compile
			// places right after it, runs straight into a word character.
			if i+1 < len(guards) {
				num, _ := guards[i+1].Match(rest)
				next, _ := utf8.DecodeRuneInString(rest[len(num):])
				if len(num) == len(rest) || !isWordRune(next) {
					continue
				}
			}
			return token.Token{}, l.failf(failure.Lexical, "missing separator between number and following character at %s", describeRune(matched))
		}
		if err := l.advanceRunes(matched); err != nil {
			return token.Token{}, failure.NewUnexpectedEOF(name)
		}
		tok := token.Token{Type: typ, Literal: matched, SourceName: name, Line: startLine, Column: startCol}
		return l.applyTransform(tok, dm.Transform())
	}

	r, _, _ := l.pos.Char()
	return token.Token{}, l.failf(failure.Lexical, "invalid token starting with %q", r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// staticGuardBoundaryOK reports whether matching lit as a prefix of rest
// lands on a real token boundary. A word-shaped literal must not be
// immediately followed by another identifier character, or the match would
// silently truncate a longer identifier; literals that don't start on a
// word character (operators, punctuation) have no such constraint. Next
// applies this check to keyword literals only.
func staticGuardBoundaryOK(lit, rest string) bool {
	first, _ := utf8.DecodeRuneInString(lit)
	if !isWordRune(first) {
		return true
	}
	after := rest[len(lit):]
	if after == "" {
		return true
	}
	next, _ := utf8.DecodeRuneInString(after)
	return !isWordRune(next)
}

func describeRune(matched string) string {
	if matched == "" {
		return "<eof>"
	}
	r, _ := utf8.DecodeLastRuneInString(matched)
	return string(r)
}

func (l *Lexer) applyTransform(tok token.Token, transform ruleset.Transformer) (token.Token, error) {
	if transform == nil {
		return tok, nil
	}
	out, err := transform(tok)
	if err != nil {
		return token.Token{}, failure.New(failure.Lexical, tok.SourceName, tok.Line, tok.Column, err.Error())
	}
	return out, nil
}

// NextExceptEOF calls Next, running onEOF (if non-nil) and converting a
// peaceful EOF into an UnexpectedEOF failure. Use this inside a combinator
// that requires a token to be present (e.g. expecting a closing bracket).
func (l *Lexer) NextExceptEOF(onEOF func() error) (token.Token, error) {
	tok, err := l.Next()
	if err == ErrEOF {
		if onEOF != nil {
			if hookErr := onEOF(); hookErr != nil {
				return token.Token{}, hookErr
			}
		}
		return token.Token{}, failure.NewUnexpectedEOF(l.pos.Name())
	}
	return tok, err
}

// AllTokens drains the Lexer, returning every token up to EOF.
func (l *Lexer) AllTokens() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err == ErrEOF {
			return toks, nil
		}
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
}

// Iterate lazily yields tokens one at a time by invoking yield for each;
// it stops at EOF or the first error (if err != nil, tok is the zero
// value and no further tokens follow), or when yield returns false.
func (l *Lexer) Iterate(yield func(tok token.Token, err error) bool) {
	for {
		tok, err := l.Next()
		if err == ErrEOF {
			return
		}
		if err != nil {
			yield(token.Token{}, err)
			return
		}
		if !yield(tok, nil) {
			return
		}
	}
}

// skipWhites consumes whitespace, line comments, and block comments,
// repeatedly, until none of the three apply (spec.md §4.3 step 1).
func (l *Lexer) skipWhites() error {
	for {
		consumed := false

		for {
			r, _, ok := l.pos.Char()
			if !ok || !isSpace(r) {
				break
			}
			if err := l.pos.Advance(1); err != nil {
				return failure.NewUnexpectedEOF(l.pos.Name())
			}
			consumed = true
		}

		if lc := l.rs.LineComment(); lc != "" && strings.HasPrefix(l.pos.Rest(), lc) {
			if err := l.advanceRunes(lc); err != nil {
				return failure.NewUnexpectedEOF(l.pos.Name())
			}
			rest := l.pos.Rest()
			if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
				if err := l.pos.Advance(utf8.RuneCountInString(rest[:idx])); err != nil {
					return failure.NewUnexpectedEOF(l.pos.Name())
				}
			} else {
				if err := l.pos.Advance(utf8.RuneCountInString(rest)); err != nil && !l.pos.EOF() {
					return failure.NewUnexpectedEOF(l.pos.Name())
				}
			}
			consumed = true
			continue
		}

		if nc := l.rs.NestedComment(); nc != nil && strings.HasPrefix(l.pos.Rest(), nc.Begin) {
			if err := l.skipNestedComment(nc); err != nil {
				return err
			}
			consumed = true
			continue
		}

		if !consumed {
			return nil
		}
	}
}

func (l *Lexer) skipNestedComment(nc *ruleset.NestedComment) error {
	if err := l.advanceRunes(nc.Begin); err != nil {
		return failure.NewUnexpectedEOF(l.pos.Name())
	}
	depth := 1
	for depth > 0 {
		if l.pos.EOF() {
			return l.fail(failure.UnexpectedEOF, "unterminated comment")
		}
		rest := l.pos.Rest()
		if nc.Nested && strings.HasPrefix(rest, nc.Begin) {
			_ = l.advanceRunes(nc.Begin)
			depth++
			continue
		}
		if strings.HasPrefix(rest, nc.End) {
			_ = l.advanceRunes(nc.End)
			depth--
			continue
		}
		if err := l.pos.Advance(1); err != nil {
			return l.fail(failure.UnexpectedEOF, "unterminated comment")
		}
	}
	return nil
}
