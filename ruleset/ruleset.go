// Package ruleset compiles a declarative grammar description (keywords,
// operators, quoted strings, comments, numeric literals) into the guards
// the Lexer matches against. Compilation is where configuration mistakes
// (a malformed separator, a bad regex) surface, as a *ConfigError: those
// are not parser-recoverable, unlike the failure.Failure values the lexer
// and parser combinators produce once a RuleSet is in use.
package ruleset

import (
	"regexp"
	"sort"

	"github.com/lukeod/parsekit/token"
)

// ConfigError reports a mistake in a RuleSet's declarative configuration,
// caught at Compile time rather than during parsing.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "ruleset config: " + e.Msg }

type guardValue struct {
	typ       string
	transform Transformer
}

type dynamicRule struct {
	pattern   *regexp.Regexp
	typ       string
	transform Transformer
	// dynamicType, when non-nil, computes the token type from the raw
	// match text instead of using a fixed typ (used by regex keywords and
	// by the number accept/no-follow pair).
	dynamicType func(match string) string
}

type precedenceEntry struct {
	level int
	assoc Associativity
}

// RuleSet is the compiled, immutable form of a Config. It may be shared
// across any number of Lexers.
type RuleSet struct {
	skipSpaces bool

	staticGuard     map[string]guardValue
	staticByLenDesc []string

	dynamicGuard []dynamicRule

	lineComment   string
	nestedComment *NestedComment

	quotes        map[string]QuoteRule
	quotesByLenDesc []string

	operators       [][]Operator
	precedenceIndex map[string]precedenceEntry

	tokenTypes         []string
	hasDynamicKeywords bool
}

// Compile builds a RuleSet from free-standing rules and a preset
// configuration. See Config's field documentation for what each preset
// contributes.
func Compile(freeRules []FreeRule, cfg Config) (*RuleSet, error) {
	rs := &RuleSet{
		skipSpaces:      cfg.skipSpaces(),
		staticGuard:     make(map[string]guardValue),
		lineComment:     cfg.LineComment,
		nestedComment:   cfg.NestedComment,
		quotes:          make(map[string]QuoteRule),
		operators:       cfg.Operators,
		precedenceIndex: make(map[string]precedenceEntry),
	}

	addStatic := func(lit, typ string, transform Transformer) error {
		if lit == "" {
			return &ConfigError{Msg: "static guard literal must not be empty"}
		}
		if _, exists := rs.staticGuard[lit]; exists {
			return &ConfigError{Msg: "duplicate static guard literal " + quoteForError(lit)}
		}
		rs.staticGuard[lit] = guardValue{typ: typ, transform: transform}
		return nil
	}
	addDynamic := func(pattern, typ string, transform Transformer, dynType func(string) string) error {
		re, err := regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return &ConfigError{Msg: "invalid regex " + quoteForError(pattern) + ": " + err.Error()}
		}
		rs.dynamicGuard = append(rs.dynamicGuard, dynamicRule{pattern: re, typ: typ, transform: transform, dynamicType: dynType})
		return nil
	}

	// Parentheses preset.
	if cfg.Parentheses.Paren {
		if err := addStatic("(", "(", nil); err != nil {
			return nil, err
		}
		if err := addStatic(")", ")", nil); err != nil {
			return nil, err
		}
	}
	if cfg.Parentheses.Bracket {
		if err := addStatic("[", "[", nil); err != nil {
			return nil, err
		}
		if err := addStatic("]", "]", nil); err != nil {
			return nil, err
		}
	}
	if cfg.Parentheses.Brace {
		if err := addStatic("{", "{", nil); err != nil {
			return nil, err
		}
		if err := addStatic("}", "}", nil); err != nil {
			return nil, err
		}
	}

	// Numbers preset: the no-follow guard (if enabled) is emitted before
	// the accepting rule, so the scan tries it first and treats a
	// trailing identifier character as a lexical error instead of
	// silently truncating the literal.
	accept, noFollow, err := buildNumberPatterns(cfg.Numbers)
	if err != nil {
		return nil, err
	}
	if accept != nil {
		if cfg.Numbers.noFollow() {
			rs.dynamicGuard = append(rs.dynamicGuard, dynamicRule{
				pattern:     noFollow,
				dynamicType: func(string) string { return token.NumberNoFollow },
			})
		}
		rs.dynamicGuard = append(rs.dynamicGuard, dynamicRule{
			pattern: accept,
			dynamicType: func(match string) string {
				if isFloatMatch(match) {
					return token.Float
				}
				return token.Integer
			},
		})
	}

	// User free rules, in declared order.
	for _, r := range freeRules {
		switch {
		case r.Literal != "" && r.Pattern != "":
			return nil, &ConfigError{Msg: "free rule must set exactly one of Literal or Pattern"}
		case r.Literal != "":
			if err := addStatic(r.Literal, r.Type, r.Transform); err != nil {
				return nil, err
			}
		case r.Pattern != "":
			if err := addDynamic(r.Pattern, r.Type, r.Transform, nil); err != nil {
				return nil, err
			}
		default:
			return nil, &ConfigError{Msg: "free rule must set Literal or Pattern"}
		}
	}

	// Keywords, in declared order: literal spellings go to the static
	// guard, regex spellings to the dynamic guard. Both always tag
	// token.Keyword(<matched text>), including literal ones, so
	// Transformer isn't needed for the static case.
	for _, kw := range cfg.Keywords {
		switch {
		case kw.Literal != "" && kw.Pattern != "":
			return nil, &ConfigError{Msg: "keyword must set exactly one of Literal or Pattern"}
		case kw.Literal != "":
			if err := addStatic(kw.Literal, token.Keyword(kw.Literal), nil); err != nil {
				return nil, err
			}
		case kw.Pattern != "":
			if err := addDynamic(kw.Pattern, "", nil, func(match string) string { return token.Keyword(match) }); err != nil {
				return nil, err
			}
			rs.hasDynamicKeywords = true
		default:
			return nil, &ConfigError{Msg: "keyword must set Literal or Pattern"}
		}
	}

	// Strings: fill in defaults for Stop/TokenType.
	for delim, rule := range cfg.Strings {
		if delim == "" {
			return nil, &ConfigError{Msg: "quote opening delimiter must not be empty"}
		}
		if rule.Stop == "" {
			rule.Stop = delim
		}
		if rule.TokenType == "" {
			rule.TokenType = token.Quoted(delim)
		}
		rs.quotes[delim] = rule
	}
	rs.quotesByLenDesc = make([]string, 0, len(rs.quotes))
	for k := range rs.quotes {
		rs.quotesByLenDesc = append(rs.quotesByLenDesc, k)
	}
	sort.Slice(rs.quotesByLenDesc, func(i, j int) bool {
		a, b := rs.quotesByLenDesc[i], rs.quotesByLenDesc[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	// Precompute the static guard's keys in descending-length order, so
	// the longest literal wins when a shorter one is also a prefix match
	// (e.g. "==" over "=").
	rs.staticByLenDesc = make([]string, 0, len(rs.staticGuard))
	for k := range rs.staticGuard {
		rs.staticByLenDesc = append(rs.staticByLenDesc, k)
	}
	sort.Slice(rs.staticByLenDesc, func(i, j int) bool {
		a, b := rs.staticByLenDesc[i], rs.staticByLenDesc[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	// Precedence table: outer index is the level, associativity defaults
	// to AssocNone.
	for level, group := range cfg.Operators {
		for _, op := range group {
			rs.precedenceIndex[op.Pattern] = precedenceEntry{level: level, assoc: op.Assoc}
		}
	}

	typeSet := make(map[string]struct{})
	for _, v := range rs.staticGuard {
		typeSet[v.typ] = struct{}{}
	}
	for _, q := range rs.quotes {
		typeSet[q.TokenType] = struct{}{}
	}
	for _, d := range rs.dynamicGuard {
		if d.dynamicType == nil {
			typeSet[d.typ] = struct{}{}
		}
	}
	if cfg.Numbers.enabled() {
		typeSet[token.Integer] = struct{}{}
		typeSet[token.Float] = struct{}{}
	}
	rs.tokenTypes = make([]string, 0, len(typeSet))
	for t := range typeSet {
		rs.tokenTypes = append(rs.tokenTypes, t)
	}
	sort.Strings(rs.tokenTypes)

	return rs, nil
}

// SkipSpaces reports whether the lexer should skip whitespace between
// tokens.
func (rs *RuleSet) SkipSpaces() bool { return rs.skipSpaces }

// LineComment returns the line-comment prefix, or "" if none configured.
func (rs *RuleSet) LineComment() string { return rs.lineComment }

// NestedComment returns the block-comment configuration, or nil if none
// configured.
func (rs *RuleSet) NestedComment() *NestedComment { return rs.nestedComment }

// Quotes returns the delimiter -> rule mapping for quoted strings.
func (rs *RuleSet) Quotes() map[string]QuoteRule { return rs.quotes }

// QuoteOpeners returns the registered opening delimiters, longest first,
// so a multi-character delimiter is never shadowed by a single-character
// prefix of itself.
func (rs *RuleSet) QuoteOpeners() []string { return rs.quotesByLenDesc }

// StaticGuard returns the literal-lexeme guards, longest literal first.
func (rs *RuleSet) StaticGuard() []string { return rs.staticByLenDesc }

// LookupStatic returns the guard installed for a literal lexeme, if any.
func (rs *RuleSet) LookupStatic(lit string) (typ string, transform Transformer, ok bool) {
	v, ok := rs.staticGuard[lit]
	if !ok {
		return "", nil, false
	}
	return v.typ, v.transform, true
}

// Operators returns the precedence table exactly as declared: outer index
// is precedence level (0 = lowest), inner slice is the group of operators
// sharing that level. The Lexer never consults this; it is exported for
// callers implementing their own precedence-climbing parser.
func (rs *RuleSet) Operators() [][]Operator { return rs.operators }

// PrecedenceOf looks up the precedence level and associativity declared
// for an operator pattern.
func (rs *RuleSet) PrecedenceOf(pattern string) (level int, assoc Associativity, ok bool) {
	e, ok := rs.precedenceIndex[pattern]
	if !ok {
		return 0, AssocNone, false
	}
	return e.level, e.assoc, true
}

// TokenTypes returns every token type this RuleSet can statically be known
// to emit, sorted, excluding the synthetic NumberNoFollow guard (which is
// always a lexical failure, never a token) and any regex-pattern keyword
// (see HasDynamicKeywords). Intended for adapters that need a closed,
// enumerable type set ahead of time, such as a bridge into a fixed
// token-type enum.
func (rs *RuleSet) TokenTypes() []string { return rs.tokenTypes }

// HasDynamicKeywords reports whether this RuleSet declares at least one
// regex-pattern Keyword, whose emitted type (token.Keyword(<matched text>))
// can't be enumerated ahead of a match and so is absent from TokenTypes.
func (rs *RuleSet) HasDynamicKeywords() bool { return rs.hasDynamicKeywords }

// DynamicGuard exposes the compiled dynamic guard, in declared order, to
// the lexer package.
func (rs *RuleSet) DynamicGuard() []DynamicMatcher {
	out := make([]DynamicMatcher, len(rs.dynamicGuard))
	for i, d := range rs.dynamicGuard {
		out[i] = DynamicMatcher{rule: d}
	}
	return out
}

// DynamicMatcher is one compiled dynamic-guard entry: a regex tried
// against the start of the remaining input, plus the logic for deriving
// the resulting token's type.
type DynamicMatcher struct {
	rule dynamicRule
}

// Match anchors the matcher's regex at the start of s and returns the
// matched prefix (empty and ok=false if there's no match).
func (m DynamicMatcher) Match(s string) (matched string, ok bool) {
	loc := m.rule.pattern.FindStringIndex(s)
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	return s[:loc[1]], true
}

// Type computes the token type for a successful match.
func (m DynamicMatcher) Type(match string) string {
	if m.rule.dynamicType != nil {
		return m.rule.dynamicType(match)
	}
	return m.rule.typ
}

// Transform returns the rule's token transformer, if any.
func (m DynamicMatcher) Transform() Transformer { return m.rule.transform }

// StaticType returns the matcher's token type when that type does not
// depend on the matched text (a plain regex free rule), and ok=false for
// the rules built with a computed type: a regex keyword and the
// integer/float alternation, which only know their type once they see what
// matched, and the synthetic number no-follow guard. Callers that need a closed, enumerable set of
// every token type a RuleSet can produce (e.g. an adapter into a fixed
// token-type enum) should treat ok=false entries as unsupported.
func (m DynamicMatcher) StaticType() (typ string, ok bool) {
	if m.rule.dynamicType != nil {
		return "", false
	}
	return m.rule.typ, true
}
