package parsec

import (
	"github.com/lukeod/parsekit/failure"
	"github.com/lukeod/parsekit/lexer"
	"github.com/lukeod/parsekit/position"
)

// IfElse tries p; if p fails without consuming any input, it tries q from
// the same starting point instead. If p fails after consuming input, that
// failure is returned as-is — q is never attempted, since backtracking past
// consumed input would hide how far p actually got (spec.md §3's ordered,
// PEG-style choice).
func IfElse[T any](p, q Parser[T]) Parser[T] {
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		before := cur.Clone()
		v, err := p.run(cur)
		if err == nil {
			return v, nil
		}
		if cur.Compare(before) != position.Equal {
			return v, err
		}
		cur.Assign(before)
		v2, err2 := q.run(cur)
		if err2 == nil {
			return v2, nil
		}
		if cur.Compare(before) == position.Equal {
			return v2, failure.Combine(err, err2)
		}
		return v2, err2
	})
}

// Attempt runs p on a cloned cursor, committing the clone back to cur only
// on success. On failure, cur is left exactly where it started, regardless
// of how much p consumed before failing — the opposite of IfElse's
// consumption-sensitive backtracking, for callers who explicitly want a
// parser they can retry in full.
func Attempt[T any](p Parser[T]) Parser[T] {
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		clone := cur.Clone()
		v, err := p.run(clone)
		if err != nil {
			var zero T
			return zero, err
		}
		cur.Assign(clone)
		return v, nil
	})
}

// Test runs p on a cloned cursor and reports its outcome, but never commits:
// cur is unchanged whether p succeeds or fails. Used to build lookahead
// combinators like NotFollowedBy.
func Test[T any](p Parser[T]) Parser[T] {
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		clone := cur.Clone()
		return p.run(clone)
	})
}

// NotFollowedBy runs p to completion first; only if p succeeds does it test
// q as lookahead, from the position where p stopped (spec.md §9's resolved
// reading). The lookahead runs on a clone, so it never moves cur.
// If q succeeds, the whole combinator fails (q was found to follow, which
// wasn't allowed); if q fails, p's result is returned.
func NotFollowedBy[T, U any](p Parser[T], q Parser[U]) Parser[T] {
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		v, err := p.run(cur)
		if err != nil {
			return v, err
		}
		_, qerr := Test(q).run(cur)
		if qerr == nil {
			var zero T
			return zero, failure.New(failure.Syntactic, cur.SourceName(),
				cur.Position().Line(), cur.Position().Column(), "unexpected token")
		}
		return v, nil
	})
}

// Parallel races p and q on independent clones of cur and takes whichever
// one succeeds. If both succeed, the parse is ambiguous and Parallel fails
// with an Ambiguity failure rather than silently picking one (spec.md §3).
// If both fail, their failures are combined.
func Parallel[T any](p, q Parser[T]) Parser[T] {
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		c1, c2 := cur.Clone(), cur.Clone()
		v1, e1 := p.run(c1)
		v2, e2 := q.run(c2)
		switch {
		case e1 == nil && e2 == nil:
			var zero T
			return zero, failure.New(failure.Ambiguity, cur.SourceName(),
				cur.Position().Line(), cur.Position().Column(), "ambiguous parse: both branches matched")
		case e1 == nil:
			cur.Assign(c1)
			return v1, nil
		case e2 == nil:
			cur.Assign(c2)
			return v2, nil
		default:
			var zero T
			return zero, failure.Combine(e1, e2)
		}
	})
}

// Choices tries each parser in order, each on its own clone of cur starting
// from the same position, and commits the first one that succeeds. If every
// branch fails, the returned failure is the combination of whichever
// branch(es) made the most progress (failure.FurthestOf) — so a deeply
// nested failure inside one alternative isn't drowned out by a shallow
// failure in an alternative tried later.
func Choices[T any](ps ...Parser[T]) Parser[T] {
	return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
		fails := make([]*failure.Failure, 0, len(ps))
		for _, p := range ps {
			c := cur.Clone()
			v, err := p.run(c)
			if err == nil {
				cur.Assign(c)
				return v, nil
			}
			fails = append(fails, err)
		}
		var zero T
		return zero, failure.FurthestOf(fails...)
	})
}
