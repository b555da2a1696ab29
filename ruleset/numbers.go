package ruleset

import (
	"regexp"
	"strings"
)

const (
	decDigits = "0-9"
	hexDigits = "0-9A-Fa-f"
	octDigits = "0-7"
	binDigits = "01"
)

func isHexAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// validateSeparator enforces spec §4.2: the digit separator must be a
// single character and must not itself be a hex digit (which would make
// "0x1_2" ambiguous between a separator and a hex digit).
func validateSeparator(sep string) error {
	if len(sep) != 1 {
		return &ConfigError{Msg: "numbers: separator must be exactly one character, got " + quoteForError(sep)}
	}
	if isHexAlnum(sep[0]) {
		return &ConfigError{Msg: "numbers: separator must not be a hex digit, got " + quoteForError(sep)}
	}
	return nil
}

func quoteForError(s string) string { return "\"" + s + "\"" }

// digitGroup builds a regex fragment matching one or more digits from
// charClass, with sep optionally separating digit groups. Leading,
// trailing, and doubled separators are rejected by construction: the
// separator is only ever optional immediately before another digit.
func digitGroup(charClass, sep string) string {
	sepPat := regexp.QuoteMeta(sep)
	return "[" + charClass + "](?:" + sepPat + "?[" + charClass + "])*"
}

// buildNumberPatterns compiles the integer/float alternation and its
// no-follow guard described in spec §4.2. Returns (nil, nil, nil) if
// neither Integer nor Float is enabled.
func buildNumberPatterns(n Numbers) (*regexp.Regexp, *regexp.Regexp, error) {
	if !n.enabled() {
		return nil, nil, nil
	}
	sep := n.separator()
	if err := validateSeparator(sep); err != nil {
		return nil, nil, err
	}

	sign := ""
	if n.Signed {
		sign = `[+-]?`
	}

	var alternatives []string
	if n.Integer {
		hexInt := `0[xX]` + digitGroup(hexDigits, sep)
		octInt := `0[oO]` + digitGroup(octDigits, sep)
		binInt := `0[bB]` + digitGroup(binDigits, sep)
		decInt := digitGroup(decDigits, sep)
		alternatives = append(alternatives, hexInt, octInt, binInt, decInt)
	}
	if n.Float {
		floatBody := digitGroup(decDigits, sep) + `\.` + `(?:` + digitGroup(decDigits, sep) + `)?` +
			`(?:[eE][+-]?` + digitGroup(decDigits, sep) + `)?`
		// Put float before the bare decimal integer alternative so "1.5"
		// doesn't stop at "1" (Go's regexp alternation prefers the first
		// matching branch, not the longest).
		if n.Integer {
			alternatives = insertBefore(alternatives, floatBody, digitGroup(decDigits, sep))
		} else {
			alternatives = append(alternatives, floatBody)
		}
	}

	body := "(?:" + strings.Join(alternatives, "|") + ")"
	acceptSrc := "^" + sign + body
	accept, err := regexp.Compile(acceptSrc)
	if err != nil {
		return nil, nil, &ConfigError{Msg: "numbers: internal pattern error: " + err.Error()}
	}

	noFollowSrc := "^" + sign + body + `[A-Za-z_]`
	noFollow, err := regexp.Compile(noFollowSrc)
	if err != nil {
		return nil, nil, &ConfigError{Msg: "numbers: internal no-follow pattern error: " + err.Error()}
	}
	return accept, noFollow, nil
}

// insertBefore returns alternatives with needle inserted immediately
// before the first occurrence of before (or appended, if before isn't
// found).
func insertBefore(alternatives []string, needle, before string) []string {
	for i, a := range alternatives {
		if a == before {
			out := make([]string, 0, len(alternatives)+1)
			out = append(out, alternatives[:i]...)
			out = append(out, needle)
			out = append(out, alternatives[i:]...)
			return out
		}
	}
	return append(alternatives, needle)
}

// isFloatMatch reports whether a matched number literal should be tagged
// token.Float rather than token.Integer. The float grammar always requires
// a literal '.', so its presence is sufficient (hex literals may contain
// 'e'/'E' as digits, so those can't be used to distinguish the two).
func isFloatMatch(match string) bool {
	return strings.Contains(match, ".")
}
