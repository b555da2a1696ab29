// Package parsec implements the parser-combinator algebra: a Parser[T] wraps
// a function from a *lexer.Lexer cursor to (T, *failure.Failure), and every
// combinator in this package builds a bigger Parser[T] out of smaller ones.
//
// Go cannot add a new type parameter to a method (there is no
// Parser[T].Bind[U] spelling), so the combinators that change the result
// type — Bind, Translate, Combine2/3/4 and friends — are free functions
// instead of methods. Expect and Map, which keep T fixed, are methods; every
// other combinator, IfElse and Many included, is a free function only.
package parsec

import (
	"github.com/lukeod/parsekit/failure"
	"github.com/lukeod/parsekit/lexer"
	"github.com/lukeod/parsekit/ruleset"
)

// Parser is a parsing function together with the types it produces. The
// zero value is not usable; build one with Trivial or one of the
// combinators below.
type Parser[T any] struct {
	run func(cur *lexer.Lexer) (T, *failure.Failure)
}

// Run executes p against cur, advancing the cursor on success and leaving it
// exactly where p left it on failure (whether that's where it started or
// partway through, depending on what p consumed before failing).
func (p Parser[T]) Run(cur *lexer.Lexer) (T, *failure.Failure) {
	return p.run(cur)
}

// New builds a Parser from its run function directly. Most callers should
// reach for a combinator instead; New exists for combinators in this package
// and for callers writing a primitive parser that isn't expressible by
// composing existing ones.
func New[T any](run func(cur *lexer.Lexer) (T, *failure.Failure)) Parser[T] {
	return Parser[T]{run: run}
}

// Parse runs p against an existing cursor and converts a *failure.Failure
// into a plain error, for callers at the edge of the library.
func Parse[T any](p Parser[T], cur *lexer.Lexer) (T, error) {
	v, err := p.run(cur)
	if err != nil {
		return v, err
	}
	return v, nil
}

// ParseString builds a Lexer over source (tagged name, per rs) and runs p
// against it from the start.
func ParseString[T any](p Parser[T], rs *ruleset.RuleSet, source, name string) (T, error) {
	return Parse(p, lexer.New(rs, source, name))
}
