/*
Package ibtok compiles the token table of Apple II Integer BASIC into the artifacts
a tree-sitter parser needs.

Consists of subpackages:
  - cmd/ibtok: console utility reading the token table and grammar template and writing grammar, queries, and tests;
  - source: defines source file and position information used in error messages;
  - lexer: regexp-based lexical analyzer used to read the token table and the grammar template;
  - table: loads and validates the 128-row token table;
  - restrict: classifies reserved words by the identifier positions they may not occupy;
  - render: renders token lexemes as tree-sitter rule bodies;
  - template: splits grammar template into placeholders and text runs;
  - weave: substitutes token rule references into grammar template and synthesizes conflicts;
  - emit: derives highlighting queries, TextMate grammar, and test corpus;
  - config: restriction sets and naming conventions as data;
  - compiler: runs the whole pipeline in memory.

Typical usage is:

1. Edit token table and/or grammar template.

2. Run ibtok utility with --allow-lower-case flag.

3. Run tree-sitter generate and tree-sitter test on the output directory.
*/
package ibtok

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	TableErrors    = 1   // used by table
	TemplateErrors = 101 // used by template
	WeaveErrors    = 201 // used by weave
	RenderErrors   = 301 // used by render
	ConfigErrors   = 401 // used by config and cmd/ibtok
	LexicalErrors  = 501 // used by lexer
)

// Error is the error type used by ibtok subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// ErrorCode returns code of e if it is an *Error, 0 otherwise.
func ErrorCode(e error) int {
	ee, ok := e.(*Error)
	if !ok || ee == nil {
		return 0
	}
	return ee.Code
}
