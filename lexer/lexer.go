// Package lexer defines lexical analyzer.
package lexer

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/ava12/ibtok"
	"github.com/ava12/ibtok/source"
)

const (
	// ErrorTokenType is the type for fake tokens capturing broken lexemes (e.g. unterminated quotes).
	// The purpose of these tokens is to generate more informative error messages.
	// Lexer will never return a token of this type, an error with message containing token text will be returned instead.
	ErrorTokenType = EofTokenType - 1

	// ErrorTokenName is the type name for ErrorTokenType.
	ErrorTokenName = "-error-"
)

// Error codes used by lexer:
const (
	// WrongCharError indicates that lexer cannot fetch any token at current position.
	// Error message contains the rune at current source position.
	WrongCharError = ibtok.LexicalErrors + iota

	// BadTokenError indicates that lexer has fetched a token of ErrorTokenType.
	BadTokenError
)

// TokenType describes token type for specific capturing group of regular expression.
type TokenType struct {
	// Type contains token type, may be any non-negative value. ErrorTokenType is treated specially.
	Type int

	// TypeName contains token type name, may be any value.
	TypeName string
}

// Lexer performs lexical analysis of source.Reader content using regexp.Regexp.
// Lexer itself is immutable and stateless, the same Lexer may be used with different readers.
// Each token type that may be returned by lexer maps to its own regexp capturing group index.
// A match containing no captured groups is treated as insignificant lexeme (e.g. whitespace),
// in this case lexer tries to fetch a token again at new position.
// Every byte of source must belong to some lexeme.
type Lexer struct {
	types []TokenType
	re    *regexp.Regexp
}

// New creates new Lexer.
// Each n-th element of types describes token type for (n+1)-th regexp capturing group.
// A group that has no description or that has negative token type is treated as ErrorTokenType.
// re must be anchored with ^.
func New(re *regexp.Regexp, types []TokenType) *Lexer {
	ts := make([]TokenType, len(types))
	for i, t := range types {
		ts[i].TypeName = t.TypeName
		if t.Type >= 0 {
			ts[i].Type = t.Type
		} else {
			ts[i].Type = ErrorTokenType
		}
	}
	return &Lexer{types: ts, re: re}
}

func wrongCharError(pos source.Pos, content []byte) *ibtok.Error {
	r, _ := utf8.DecodeRune(content)
	msg := fmt.Sprintf("wrong char %q (u+%x)", r, r)
	return ibtok.NewError(WrongCharError, msg, pos.SourceName(), pos.Line(), pos.Col())
}

func wrongTokenError(t *Token) *ibtok.Error {
	return ibtok.FormatErrorPos(t, BadTokenError, "bad token %q", t.Text())
}

func (l *Lexer) matchToken(r *source.Reader) (*Token, int, error) {
	content, pos := r.ContentPos()
	content = content[pos:]
	match := l.re.FindSubmatchIndex(content)
	if len(match) == 0 || match[0] != 0 || match[1] <= match[0] {
		return nil, 0, wrongCharError(r.Pos(), content)
	}

	for i := 2; i < len(match); i += 2 {
		if match[i] < 0 || match[i+1] < 0 {
			continue
		}

		tokenType := ErrorTokenType
		typeName := ErrorTokenName
		if len(l.types) >= (i >> 1) {
			tokenType = l.types[(i>>1)-1].Type
			typeName = l.types[(i>>1)-1].TypeName
		}
		sp := source.NewPos(r.Source(), pos+match[i])
		token := NewToken(tokenType, typeName, string(content[match[i]:match[i+1]]), sp)
		if tokenType == ErrorTokenType {
			return nil, 0, wrongTokenError(token)
		}

		return token, match[1], nil
	}

	return nil, match[1], nil
}

// Next fetches token starting at current reader position and advances current position.
// Returns nil token and ibtok.Error and does not advance if there is a lexical error.
// Returns EoF token if current position is at the end of source.
func (l *Lexer) Next(r *source.Reader) (*Token, error) {
	for !r.IsEof() {
		t, advance, e := l.matchToken(r)
		if e != nil {
			return nil, e
		}

		r.Skip(advance)
		if t != nil {
			return t, nil
		}
	}

	return EofToken(r), nil
}
