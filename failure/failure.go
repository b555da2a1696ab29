// Package failure implements ParseFailure: the error value threaded through
// the lexer and parser combinators. Failures combine (associatively,
// commutatively up to ordering, without deduplication) so that ifElse,
// choices and parallel can report every branch that contributed to a
// rejection.
package failure

import (
	"fmt"
	"strings"
)

// Kind distinguishes why a Failure was raised. Ambiguity is a distinct kind
// because it signals a grammar bug (two parallel branches both matched),
// not a malformed input.
type Kind int

const (
	// Lexical marks a failure raised by the tokenizer (unknown token,
	// invalid escape, unterminated string, number no-follow).
	Lexical Kind = iota
	// Syntactic marks a failure raised by a parser combinator.
	Syntactic
	// UnexpectedEOF marks a failure raised when EOF interrupts an
	// in-flight token or a combinator that required more input.
	UnexpectedEOF
	// Ambiguity marks two parallel branches both succeeding over the same
	// span; see the `parallel` combinator.
	Ambiguity
	// Warning marks a non-fatal condition (e.g. `many` hit MaxRepeat)
	// that a caller may choose to surface or ignore.
	Warning
)

// Failure is a positioned parse error. Combine merges several Failures into
// one whose Causes lists every leaf failure that went into it, in the order
// given.
type Failure struct {
	Kind       Kind
	Msg        string
	SourceName string
	Line       int
	Column     int

	// Causes holds the leaf failures of a combined Failure. Empty for a
	// leaf Failure.
	Causes []*Failure
}

// New constructs a leaf Failure.
func New(kind Kind, sourceName string, line, column int, msg string) *Failure {
	return &Failure{Kind: kind, Msg: msg, SourceName: sourceName, Line: line, Column: column}
}

// Newf constructs a leaf Failure with a formatted message.
func Newf(kind Kind, sourceName string, line, column int, format string, args ...any) *Failure {
	return New(kind, sourceName, line, column, fmt.Sprintf(format, args...))
}

// NewUnexpectedEOF builds the UnexpectedEOF failure raised when EOF interrupts
// an in-flight token, per spec: positioned at line 0, column 0.
func NewUnexpectedEOF(sourceName string) *Failure {
	return New(UnexpectedEOF, sourceName, 0, 0, "unexpected end of file")
}

// leaves flattens f into its constituent leaf failures (itself, if it has
// none).
func (f *Failure) leaves() []*Failure {
	if f == nil {
		return nil
	}
	if len(f.Causes) == 0 {
		return []*Failure{f}
	}
	out := make([]*Failure, 0, len(f.Causes))
	for _, c := range f.Causes {
		out = append(out, c.leaves()...)
	}
	return out
}

// Combine merges f with others into a single composite Failure containing
// the union of all underlying leaf failures, in argument order. Duplicates
// are preserved, not deduplicated. Combine is associative and commutative
// up to the ordering of the resulting Causes slice.
func Combine(first *Failure, rest ...*Failure) *Failure {
	if first == nil && len(rest) == 0 {
		return nil
	}
	var leaves []*Failure
	if first != nil {
		leaves = append(leaves, first.leaves()...)
	}
	for _, r := range rest {
		if r != nil {
			leaves = append(leaves, r.leaves()...)
		}
	}
	switch len(leaves) {
	case 0:
		return nil
	case 1:
		return leaves[0]
	default:
		return &Failure{Kind: Syntactic, Causes: leaves}
	}
}

// FurthestOf returns the subset of fs whose position is maximal by (line,
// column), combined into one Failure. Used by `choices` to report only the
// branches that made the most progress before failing.
func FurthestOf(fs ...*Failure) *Failure {
	var all []*Failure
	for _, f := range fs {
		all = append(all, f.leaves()...)
	}
	if len(all) == 0 {
		return nil
	}
	maxLine, maxCol := all[0].Line, all[0].Column
	for _, f := range all[1:] {
		if f.Line > maxLine || (f.Line == maxLine && f.Column > maxCol) {
			maxLine, maxCol = f.Line, f.Column
		}
	}
	var furthest []*Failure
	for _, f := range all {
		if f.Line == maxLine && f.Column == maxCol {
			furthest = append(furthest, f)
		}
	}
	if len(furthest) == 1 {
		return furthest[0]
	}
	return &Failure{Kind: Syntactic, Causes: furthest}
}

// Error implements the error interface. A leaf failure stringifies as
// "<name> - parse error at line L, column C: <msg>"; a combined failure as
// a newline-joined list prefixed with the failure count.
func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	if len(f.Causes) == 0 {
		name := f.SourceName
		if name == "" {
			name = "<input>"
		}
		return fmt.Sprintf("%s - parse error at line %d, column %d: %s", name, f.Line, f.Column, f.Msg)
	}
	lines := make([]string, 0, len(f.Causes))
	for _, c := range f.Causes {
		lines = append(lines, c.Error())
	}
	return fmt.Sprintf("%d parse errors:\n%s", len(lines), strings.Join(lines, "\n"))
}

// Expect rewrites a failure's message to "expected <msg>", per the `expect`
// combinator's contract. Only meaningful on a leaf failure; callers are
// expected to only call this when the parser in question did not consume
// input (see parsec.Expect).
func (f *Failure) Expect(msg string) *Failure {
	if f == nil {
		return nil
	}
	return New(f.Kind, f.SourceName, f.Line, f.Column, "expected "+msg)
}
