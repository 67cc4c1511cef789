package table

import (
	"strings"
	"unicode"

	"github.com/ava12/ibtok/source"
)

// Scope kinds having a special meaning for the weaver.
const (
	StatementScope = "statement"
	FcallScope     = "fcall"
)

// ThisElement is the pattern element standing for the token itself.
const ThisElement = "this"

// Scope describes where token rule reference substitutes token literal in grammar template.
// Zero value means grammar root.
type Scope struct {
	// Kind contains scope kind: grammar rule name or StatementScope/FcallScope. Empty for root scope.
	Kind string

	// Triggers contains leading keywords of statements or function calls the token belongs to, may be empty.
	// A trigger enclosed in single quotes is a template literal, otherwise it is a reserved word.
	Triggers []string
}

// IsRoot reports whether s is the grammar root scope.
func (s Scope) IsRoot() bool {
	return s.Kind == ""
}

// HasTriggers reports whether s is restricted to statements or function calls with specific leading keywords.
func (s Scope) HasTriggers() bool {
	return len(s.Triggers) > 0
}

// String returns scope in token table notation.
func (s Scope) String() string {
	if len(s.Triggers) == 0 {
		return s.Kind
	}
	return s.Kind + "." + strings.Join(s.Triggers, "|")
}

// TriggerLiteral returns template literal for trigger.
func TriggerLiteral(trigger string) string {
	if IsQuoted(trigger) {
		return trigger
	}
	return "'" + strings.ToUpper(trigger) + "'"
}

// IsQuoted reports whether s is enclosed in single quotes.
func IsQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\''
}

// Token describes one row of token table.
type Token struct {
	// Code contains token code, 0 .. 127.
	Code int

	// Lexeme contains lower case token text, empty for unused codes.
	Lexeme string

	// RuleID contains tree-sitter rule name, empty if the token does not produce a rule.
	RuleID string

	// Scope contains enclosing rule.
	Scope Scope

	// Pattern contains sequence of matcher elements: ThisElement, rule id, or quoted regexp fragment.
	Pattern []string

	// Pos contains row position in token table.
	Pos source.Pos
}

// HasRule reports whether the token produces a grammar rule.
func (t Token) HasRule() bool {
	return t.RuleID != ""
}

// Upper returns lexeme as it is written in grammar template.
func (t Token) Upper() string {
	return strings.ToUpper(t.Lexeme)
}

// Literal returns quoted template literal of the token.
func (t Token) Literal() string {
	return "'" + t.Upper() + "'"
}

// Ref returns rule reference of the token.
func (t Token) Ref() string {
	return RuleRef(t.RuleID)
}

// RuleRef returns grammar rule reference for rule id.
func RuleRef(id string) string {
	return "$." + id
}

// IsAlpha reports whether lexeme is a non-empty word of letters.
func (t Token) IsAlpha() bool {
	if t.Lexeme == "" {
		return false
	}
	for _, r := range t.Lexeme {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsPatterned reports whether the token is a statement keyword constrained by a pattern.
func (t Token) IsPatterned() bool {
	return len(t.Pattern) > 0 && t.Scope.Kind == StatementScope &&
		len(t.Scope.Triggers) == 1 && strings.EqualFold(t.Scope.Triggers[0], t.Lexeme)
}
