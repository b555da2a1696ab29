package parsec

import (
	"sync"

	"github.com/lukeod/parsekit/failure"
	"github.com/lukeod/parsekit/lexer"
	"github.com/lukeod/parsekit/position"
)

// Trivial always succeeds with v, consuming nothing.
func Trivial[T any](v T) Parser[T] {
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		return v, nil
	})
}

// Fail always fails with f, consuming nothing.
func Fail[T any](f *failure.Failure) Parser[T] {
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		var zero T
		return zero, f
	})
}

// Bind runs p, and on success feeds its result into f to build the next
// parser to run. This is the monadic join that every sequencing combinator
// in this package ultimately reduces to.
func Bind[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return New(func(cur *lexer.Lexer) (U, *failure.Failure) {
		v, err := p.run(cur)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(v).run(cur)
	})
}

// Then runs p, discards its result, then runs q.
func Then[T, U any](p Parser[T], q Parser[U]) Parser[U] {
	return Bind(p, func(T) Parser[U] { return q })
}

// Translate runs p and maps its result through f.
func Translate[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return Bind(p, func(v T) Parser[U] { return Trivial(f(v)) })
}

// Map is Translate restricted to endomorphisms, as a method for chaining.
func (p Parser[T]) Map(f func(T) T) Parser[T] {
	return Translate(p, f)
}

// Expect runs p, and if it fails without consuming any input, rewrites the
// failure's message to "expected " + msg (spec.md §3's "expect" combinator). A failure
// that did consume input is returned unchanged: rewriting it would hide how
// far the parse actually got.
func (p Parser[T]) Expect(msg string) Parser[T] {
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		before := cur.Clone()
		v, err := p.run(cur)
		if err == nil {
			return v, nil
		}
		if cur.Compare(before) == position.Equal {
			return v, err.Expect(msg)
		}
		return v, err
	})
}

// Lazy defers building p until it is first run, and remembers the built
// Parser for subsequent runs. Use this to tie the knot in a recursive
// grammar (a rule that refers to itself, directly or through others), where
// building the Parser eagerly would recurse forever before any input is
// ever read.
func Lazy[T any](thunk func() Parser[T]) Parser[T] {
	var once sync.Once
	var built Parser[T]
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		once.Do(func() { built = thunk() })
		return built.run(cur)
	})
}
