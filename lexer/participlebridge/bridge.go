// Package participlebridge adapts this module's lexer.Lexer and
// ruleset.RuleSet into github.com/alecthomas/participle/v2/lexer's
// Definition and Lexer interfaces, so a RuleSet-driven tokenizer can back a
// participle struct-tag grammar instead of participle's own lexer.MustSimple
// rules.
//
// This mirrors the teacher's own bottom-of-file LexerDefinition in
// lukeod/gosmi's parser/lexer/lexer.go, generalized from one hardcoded MIB
// token set to any compiled RuleSet.
package participlebridge

import (
	"fmt"
	"io"

	participlelexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/lukeod/parsekit/lexer"
	"github.com/lukeod/parsekit/ruleset"
)

// Definition implements participle/v2/lexer.Definition over a compiled
// RuleSet. Build one with New and pass it to participle.Build via
// participle.Lexer(def).
type Definition struct {
	rs      *ruleset.RuleSet
	symbols map[string]participlelexer.TokenType
}

// New builds a Definition from rs. It fails if rs declares a regex-pattern
// keyword: that guard's emitted type depends on the matched text, so it
// can't be enumerated into participle's closed, fixed symbol table ahead of
// time (see ruleset.RuleSet.HasDynamicKeywords).
func New(rs *ruleset.RuleSet) (*Definition, error) {
	if rs.HasDynamicKeywords() {
		return nil, fmt.Errorf("participlebridge: RuleSet has a regex-pattern keyword, which has no fixed token type to register with participle")
	}
	symbols := map[string]participlelexer.TokenType{
		"EOF":     participlelexer.EOF,
		"ILLEGAL": illegalType,
	}
	next := participlelexer.TokenType(1)
	for _, t := range rs.TokenTypes() {
		symbols[t] = next
		next++
	}
	return &Definition{rs: rs, symbols: symbols}, nil
}

// illegalType is the TokenType reported for a lexical failure surfaced
// through participle's error-returning Next, distinct from participle's own
// EOF sentinel.
const illegalType = participlelexer.TokenType(-2)

// Lex implements lexer.Definition.
func (d *Definition) Lex(filename string, r io.Reader) (participlelexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("participlebridge: reading %s: %w", filename, err)
	}
	return d.LexString(filename, string(data))
}

// LexString implements the optional lexer.StringDefinition interface.
func (d *Definition) LexString(filename string, input string) (participlelexer.Lexer, error) {
	return &Lexer{def: d, inner: lexer.New(d.rs, input, filename)}, nil
}

// LexBytes implements the optional lexer.BytesDefinition interface.
func (d *Definition) LexBytes(filename string, input []byte) (participlelexer.Lexer, error) {
	return d.LexString(filename, string(input))
}

// Symbols implements lexer.Definition.
func (d *Definition) Symbols() map[string]participlelexer.TokenType {
	return d.symbols
}

// Lexer implements participle/v2/lexer.Lexer by driving this module's own
// lexer.Lexer and translating each token.Token into participle's
// lexer.Token.
type Lexer struct {
	def   *Definition
	inner *lexer.Lexer
}

// Next implements lexer.Lexer.
func (l *Lexer) Next() (participlelexer.Token, error) {
	pos := l.inner.Position()
	offset, line, col := pos.Offset(), pos.Line(), pos.Column()

	tok, err := l.inner.Next()
	if err == lexer.ErrEOF {
		return participlelexer.Token{
			Type: participlelexer.EOF,
			Pos:  participlelexer.Position{Filename: l.inner.SourceName(), Offset: offset, Line: line, Column: col},
		}, nil
	}
	if err != nil {
		return participlelexer.Token{
			Type:  illegalType,
			Value: err.Error(),
			Pos:   participlelexer.Position{Filename: l.inner.SourceName(), Offset: offset, Line: line, Column: col},
		}, err
	}

	typ, ok := l.def.symbols[tok.Type]
	if !ok {
		// A type TokenTypes() couldn't enumerate ahead of time: New already
		// rejects RuleSets with dynamic keywords, and the lexer turns a
		// NumberNoFollow match into a failure, so reaching here means a
		// Transformer produced a type of its own. Surface it rather than
		// silently mis-tagging it.
		return participlelexer.Token{}, fmt.Errorf("participlebridge: token type %q has no registered participle symbol", tok.Type)
	}
	return participlelexer.Token{
		Type:  typ,
		Value: tok.Literal,
		Pos:   participlelexer.Position{Filename: tok.SourceName, Offset: offset, Line: tok.Line, Column: tok.Column},
	}, nil
}
