// Package render renders token lexemes as tree-sitter rule bodies and TextMate regular expressions.
//
// All functions are pure: the same lexeme and mode always produce the same result.
package render

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ava12/ibtok/restrict"
)

// Mode selects case handling of rendered rules.
type Mode int

const (
	// CaseSensitive rules accept upper case spelling only.
	CaseSensitive Mode = iota
	// CaseInsensitive rules accept any letter case.
	CaseInsensitive
)

// ModeOf returns CaseInsensitive if allowLowerCase is set, CaseSensitive otherwise.
func ModeOf(allowLowerCase bool) Mode {
	if allowLowerCase {
		return CaseInsensitive
	}
	return CaseSensitive
}

// AllowsLowerCase reports whether m accepts lower case letters.
func (m Mode) AllowsLowerCase() bool {
	return m == CaseInsensitive
}

func (m Mode) String() string {
	if m == CaseInsensitive {
		return "case-insensitive"
	}
	return "case-sensitive"
}

// PrecedenceLevel is the precedence assigned to precedence tokens.
const PrecedenceLevel = 1

// Render returns rule body for lexeme:
// a quoted literal for single characters, a space tolerant regexp for lexical words,
// and a sequence of single character literals otherwise.
// Bodies of precedence words are wrapped in prec().
func Render(lexeme string, cls *restrict.Classes, m Mode) string {
	var result string
	switch cls.Kind(lexeme) {
	case restrict.LiteralKind:
		result = Literal(lexeme)
	case restrict.LexicalKind:
		result = Regex(lexeme, m)
	default:
		result = Sequence(lexeme, m)
	}

	if cls.IsPrecedence(lexeme) {
		result = Prec(result)
	}
	return result
}

// Prec wraps rule body in prec().
func Prec(body string) string {
	return "prec(" + strconv.Itoa(PrecedenceLevel) + "," + body + ")"
}

// Literal returns upper case lexeme as JavaScript string literal.
func Literal(lexeme string) string {
	return quote(strings.ToUpper(lexeme))
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// Regex returns JavaScript regexp literal matching lexeme with any number of spaces between characters.
func Regex(lexeme string, m Mode) string {
	return "/" + regexBody(lexeme, m, true) + "/"
}

// TextMate returns regexp source (no delimiters) matching lexeme with any number of spaces between characters.
func TextMate(lexeme string, m Mode) string {
	return regexBody(lexeme, m, false)
}

func regexBody(lexeme string, m Mode, slash bool) string {
	var sb strings.Builder
	runes := []rune(strings.ToUpper(lexeme))
	for i, r := range runes {
		if i > 0 {
			sb.WriteString(" *")
		}
		sb.WriteString(regexChar(r, m, slash))
	}
	return sb.String()
}

func regexChar(r rune, m Mode, slash bool) string {
	if unicode.IsLetter(r) {
		if m.AllowsLowerCase() {
			return "[" + string(r) + string(unicode.ToLower(r)) + "]"
		}
		return string(r)
	}

	if strings.ContainsRune(`\^$.|?*+()[]{}`, r) || (slash && r == '/') {
		return `\` + string(r)
	}
	return string(r)
}

// Sequence returns seq() of single character literals, letters are wrapped in choice() if m allows lower case.
func Sequence(lexeme string, m Mode) string {
	runes := []rune(strings.ToUpper(lexeme))
	items := make([]string, len(runes))
	for i, r := range runes {
		items[i] = sequenceItem(r, m)
	}
	return "seq(" + strings.Join(items, ",") + ")"
}

func sequenceItem(r rune, m Mode) string {
	upper := quote(string(r))
	if !m.AllowsLowerCase() || !unicode.IsLetter(r) {
		return upper
	}
	return "choice(" + upper + "," + quote(string(unicode.ToLower(r))) + ")"
}
