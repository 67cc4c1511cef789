package lexer

import (
	"github.com/ava12/ibtok/source"
)

// Token is a lexeme fetched by Lexer.
type Token struct {
	tokenType int
	typeName  string
	text      string
	pos       source.Pos
}

// NewToken creates new token.
func NewToken(tokenType int, typeName, text string, pos source.Pos) *Token {
	return &Token{tokenType, typeName, text, pos}
}

// Type returns token type.
func (t *Token) Type() int {
	return t.tokenType
}

// TypeName returns token type name.
func (t *Token) TypeName() string {
	return t.typeName
}

// Text returns token text.
func (t *Token) Text() string {
	return t.text
}

// Pos returns token position.
func (t *Token) Pos() source.Pos {
	return t.pos
}

// SourceName returns source name or empty string.
func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

// Line returns line number or 0.
func (t *Token) Line() int {
	return t.pos.Line()
}

// Col returns column number or 0.
func (t *Token) Col() int {
	return t.pos.Col()
}

// IsEof reports whether t is the end-of-file token.
func (t *Token) IsEof() bool {
	return t.tokenType == EofTokenType
}

const (
	EofTokenType = -2
	EofTokenName = "-end-of-file-"
)

// EofToken creates end-of-file token positioned at the end of r source.
func EofToken(r *source.Reader) *Token {
	return &Token{tokenType: EofTokenType, typeName: EofTokenName, pos: r.Pos()}
}
