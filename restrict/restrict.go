// Package restrict classifies reserved words by the identifier positions they are forbidden in.
package restrict

import (
	"unicode/utf8"

	"github.com/ava12/ibtok/internal/words"
)

// Sets contains hand-curated reserved word sets.
type Sets struct {
	// Standalone words cannot be an entire variable name.
	Standalone words.Set

	// TrailingLetter words cannot be followed by a letter in a variable name.
	TrailingLetter words.Set

	// TrailingDigit words cannot be followed by a digit in a variable name.
	TrailingDigit words.Set

	// LeadingInside words cannot appear inside a variable name, i.e. after a leading letter.
	LeadingInside words.Set

	// StringTrailingDigitExtra words cannot be followed by a digit in a string variable name only.
	StringTrailingDigitExtra words.Set

	// Precedence words are string prefixes of other valid tokens and must be preferred by the lexer.
	Precedence words.Set
}

// Flags describe restrictions and categories of a word.
type Flags uint

const (
	StandaloneIllegal Flags = 1 << iota
	TrailingLetterIllegal
	TrailingDigitIllegal
	LeadingInsideIllegal
	Lexical
	Precedence
)

// Has reports whether all flags of x are set in f.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

// Kind determines token rule rendering.
type Kind int

const (
	// LiteralKind is a single character literal.
	LiteralKind Kind = iota
	// LexicalKind is a space tolerant regular expression.
	LexicalKind
	// SequenceKind is a sequence of single character literals.
	SequenceKind
)

func (k Kind) String() string {
	switch k {
	case LiteralKind:
		return "literal"
	case LexicalKind:
		return "lexical"
	case SequenceKind:
		return "sequence"
	default:
		return "unknown"
	}
}

// Classes contains source sets and derived word categories. Classes is immutable.
type Classes struct {
	Sets

	// Lexical words need regexp rules: words restricted in all of standalone, trailing letter,
	// and trailing digit positions, plus all leading-inside words.
	Lexical words.Set

	// LetterOnly words are forbidden before a letter but allowed before a digit.
	// A parser cannot enforce this restriction, so no tests are generated for them.
	LetterOnly words.Set

	// Postalpha words are forbidden before a letter, enforceable part of TrailingLetter.
	Postalpha words.Set

	// StringTrailingDigit words cannot be followed by a digit in a string variable name.
	StringTrailingDigit words.Set
}

// Classify derives word categories from sets.
func Classify(s Sets) *Classes {
	return &Classes{
		Sets:                s,
		Lexical:             s.Standalone.Intersect(s.TrailingLetter, s.TrailingDigit).Union(s.LeadingInside),
		LetterOnly:          s.TrailingLetter.Subtract(s.TrailingDigit),
		Postalpha:           s.TrailingLetter.Intersect(s.TrailingDigit),
		StringTrailingDigit: s.TrailingDigit.Union(s.StringTrailingDigitExtra),
	}
}

// Flags returns all restrictions and categories of word.
func (c *Classes) Flags(word string) Flags {
	var result Flags
	sets := []struct {
		set  words.Set
		flag Flags
	}{
		{c.Standalone, StandaloneIllegal},
		{c.TrailingLetter, TrailingLetterIllegal},
		{c.TrailingDigit, TrailingDigitIllegal},
		{c.LeadingInside, LeadingInsideIllegal},
		{c.Lexical, Lexical},
		{c.Precedence, Precedence},
	}
	for _, s := range sets {
		if s.set.Contains(word) {
			result |= s.flag
		}
	}
	return result
}

// IsLexical reports whether lexeme needs a regexp rule.
func (c *Classes) IsLexical(lexeme string) bool {
	return c.Lexical.Contains(lexeme)
}

// IsPrecedence reports whether lexeme rule needs precedence over shorter matches.
func (c *Classes) IsPrecedence(lexeme string) bool {
	return c.Precedence.Contains(lexeme)
}

// Kind returns rendering kind for lexeme. Single characters are always literals,
// lexical status takes priority over sequence rendering. Precedence is independent of kind.
func (c *Classes) Kind(lexeme string) Kind {
	switch {
	case utf8.RuneCountInString(lexeme) == 1:
		return LiteralKind
	case c.IsLexical(lexeme):
		return LexicalKind
	default:
		return SequenceKind
	}
}
