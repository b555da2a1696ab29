package parsec

import (
	"github.com/lukeod/parsekit/failure"
	"github.com/lukeod/parsekit/lexer"
	"github.com/lukeod/parsekit/position"
)

// DefaultMaxRepeat caps the number of *consuming* iterations Many/More will
// run before giving up, guarding against a parser whose consumption depends
// on state this package can't observe. It is deliberately generous: the
// common runaway case (a parser that succeeds without consuming) is caught
// immediately, well before this limit ever matters.
var DefaultMaxRepeat = 1_000_000

// Many runs p repeatedly, collecting results, until p fails. A failure that
// didn't consume any input ends the loop successfully with whatever was
// collected so far; a failure that did consume input fails the whole Many.
// An iteration that succeeds without consuming ends the loop immediately
// rather than looping forever, since by construction it would repeat
// identically every time (spec.md §4.4's MAX_REPEAT invariant, satisfied
// here in the strongest way possible: zero extra iterations spent).
func Many[T any](p Parser[T]) Parser[[]T] {
	return ManyN(p, DefaultMaxRepeat)
}

// ManyN is Many with an explicit cap on consuming iterations.
func ManyN[T any](p Parser[T], maxRepeat int) Parser[[]T] {
	return New(func(cur *lexer.Lexer) ([]T, *failure.Failure) {
		out, _, err := runMany(p, cur, maxRepeat)
		return out, err
	})
}

// ManyResult is the richer outcome ManyCapped reports: the values collected,
// and whether the iteration cap was hit before p ever failed.
type ManyResult[T any] struct {
	Values  []T
	Capped  bool
	Warning *failure.Failure
}

// ManyCapped behaves like Many but surfaces a Warning-kind failure.Failure
// when maxRepeat consuming iterations were exhausted without p failing,
// instead of silently truncating.
func ManyCapped[T any](p Parser[T], maxRepeat int) Parser[ManyResult[T]] {
	return New(func(cur *lexer.Lexer) (ManyResult[T], *failure.Failure) {
		out, capped, err := runMany(p, cur, maxRepeat)
		if err != nil {
			return ManyResult[T]{}, err
		}
		res := ManyResult[T]{Values: out, Capped: capped}
		if capped {
			res.Warning = failure.Newf(failure.Warning, cur.SourceName(),
				cur.Position().Line(), cur.Position().Column(),
				"many: reached the %d-iteration cap without the inner parser failing", maxRepeat)
		}
		return res, nil
	})
}

func runMany[T any](p Parser[T], cur *lexer.Lexer, maxRepeat int) ([]T, bool, *failure.Failure) {
	var out []T
	for i := 0; i < maxRepeat; i++ {
		before := cur.Clone()
		v, err := p.run(cur)
		if err != nil {
			if cur.Compare(before) == position.Equal {
				return out, false, nil
			}
			return nil, false, err
		}
		out = append(out, v)
		if cur.Compare(before) == position.Equal {
			return out, false, nil
		}
	}
	return out, true, nil
}

// More is Many but requires at least one success.
func More[T any](p Parser[T]) Parser[[]T] {
	return Bind(p, func(first T) Parser[[]T] {
		return Translate(Many(p), func(rest []T) []T {
			return append([]T{first}, rest...)
		})
	})
}

// Optional runs p; on success it returns a pointer to the value, on a
// non-consuming failure it returns (nil, nil). A consuming failure still
// fails Optional itself — Optional only absorbs failures p hasn't
// committed to yet.
func Optional[T any](p Parser[T]) Parser[*T] {
	return New(func(cur *lexer.Lexer) (*T, *failure.Failure) {
		before := cur.Clone()
		v, err := p.run(cur)
		if err == nil {
			vv := v
			return &vv, nil
		}
		if cur.Compare(before) == position.Equal {
			cur.Assign(before)
			return nil, nil
		}
		return nil, err
	})
}

// MoreSeparated parses one or more p, separated by sep, requiring at least
// one p.
func MoreSeparated[T, S any](p Parser[T], sep Parser[S]) Parser[[]T] {
	return Bind(p, func(first T) Parser[[]T] {
		return Translate(Many(Then(sep, p)), func(rest []T) []T {
			return append([]T{first}, rest...)
		})
	})
}

// ManySeparated is MoreSeparated but allows zero occurrences of p.
func ManySeparated[T, S any](p Parser[T], sep Parser[S]) Parser[[]T] {
	return IfElse(MoreSeparated(p, sep), Trivial([]T{}))
}

// MoreSeparatedOptionalEnd is MoreSeparated but additionally tolerates (and
// discards) a trailing separator after the last item — the common "trailing
// comma" grammar. Each sep-then-p pair is wrapped in Attempt so a dangling
// separator at the end of the list doesn't commit to expecting another item.
func MoreSeparatedOptionalEnd[T, S any](p Parser[T], sep Parser[S]) Parser[[]T] {
	return Bind(p, func(first T) Parser[[]T] {
		return Bind(Many(Attempt(Then(sep, p))), func(rest []T) Parser[[]T] {
			return Translate(Optional(sep), func(*S) []T {
				return append([]T{first}, rest...)
			})
		})
	})
}

// MoreEndWith parses one or more p, each immediately followed by end (whose
// result is discarded), requiring at least one p.
func MoreEndWith[T, E any](p Parser[T], end Parser[E]) Parser[[]T] {
	item := Bind(p, func(v T) Parser[T] {
		return Translate(end, func(E) T { return v })
	})
	return More(item)
}

// ManyEndWith is MoreEndWith but allows zero occurrences of p.
func ManyEndWith[T, E any](p Parser[T], end Parser[E]) Parser[[]T] {
	return IfElse(MoreEndWith(p, end), Trivial([]T{}))
}
