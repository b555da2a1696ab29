package parsec

import (
	"github.com/lukeod/parsekit/failure"
	"github.com/lukeod/parsekit/lexer"
	"github.com/lukeod/parsekit/position"
)

// ChainLeftMore parses expr, then repeatedly parses op followed by another
// expr, left-folding the results: "a op b op c" becomes op(op(a, b), c).
// Used to parse a left-associative binary operator without recursion
// blowing the stack on a long operand chain.
func ChainLeftMore[T any](expr Parser[T], op Parser[func(T, T) T]) Parser[T] {
	return Bind(expr, func(first T) Parser[T] {
		return New(func(cur *lexer.Lexer) (T, *failure.Failure) {
			acc := first
			for {
				before := cur.Clone()
				combine, err := op.run(cur)
				if err != nil {
					if cur.Compare(before) == position.Equal {
						cur.Assign(before)
						return acc, nil
					}
					return acc, err
				}
				rhs, err2 := expr.run(cur)
				if err2 != nil {
					return acc, err2
				}
				acc = combine(acc, rhs)
			}
		})
	})
}

// ChainRightMore is ChainLeftMore's right-associative counterpart:
// "a op b op c" becomes op(a, op(b, c)).
func ChainRightMore[T any](expr Parser[T], op Parser[func(T, T) T]) Parser[T] {
	var rest func() Parser[T]
	rest = func() Parser[T] {
		return Bind(expr, func(lhs T) Parser[T] {
			return IfElse(
				Bind(op, func(combine func(T, T) T) Parser[T] {
					return Translate(Lazy(rest), func(rhs T) T { return combine(lhs, rhs) })
				}),
				Trivial(lhs),
			)
		})
	}
	return Lazy(rest)
}

// Pair is the result of Combine2: the two values in sequence, in order.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is the result of Combine3.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Quad is the result of Combine4.
type Quad[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

// Combine2 runs pa then pb, in that order, and pairs their results. Despite
// the name this library's source material uses for the equivalent
// combinator ("parallel"), the two parsers run sequentially against the
// same cursor — spec.md §9 calls out the source's naming as a documentation
// bug inherited from an earlier, genuinely-concurrent design, not a
// description of the actual (sequential) behavior to replicate.
func Combine2[A, B any](pa Parser[A], pb Parser[B]) Parser[Pair[A, B]] {
	return Bind(pa, func(a A) Parser[Pair[A, B]] {
		return Translate(pb, func(b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} })
	})
}

// Combine3 sequences three parsers and collects their results.
func Combine3[A, B, C any](pa Parser[A], pb Parser[B], pc Parser[C]) Parser[Triple[A, B, C]] {
	return Bind(Combine2(pa, pb), func(ab Pair[A, B]) Parser[Triple[A, B, C]] {
		return Translate(pc, func(c C) Triple[A, B, C] {
			return Triple[A, B, C]{First: ab.First, Second: ab.Second, Third: c}
		})
	})
}

// Combine4 sequences four parsers and collects their results.
func Combine4[A, B, C, D any](pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D]) Parser[Quad[A, B, C, D]] {
	return Bind(Combine3(pa, pb, pc), func(abc Triple[A, B, C]) Parser[Quad[A, B, C, D]] {
		return Translate(pd, func(d D) Quad[A, B, C, D] {
			return Quad[A, B, C, D]{First: abc.First, Second: abc.Second, Third: abc.Third, Fourth: d}
		})
	})
}

// CombineMany sequences an arbitrary number of same-typed parsers, in
// order, collecting their results into a slice.
func CombineMany[T any](ps ...Parser[T]) Parser[[]T] {
	return New(func(cur *lexer.Lexer) ([]T, *failure.Failure) {
		out := make([]T, 0, len(ps))
		for _, p := range ps {
			v, err := p.run(cur)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	})
}
