// Package source defines source file with line/column lookup and a read cursor used by lexer.
package source

import (
	"bytes"
	"sort"
	"unicode/utf8"
)

// Source contains a named chunk of text, typically the content of the token table or the grammar template.
// Source is immutable and safe for concurrent use.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates new Source. content must not be changed after the call.
func New(name string, content []byte) *Source {
	lineStarts := make([]int, 1, bytes.Count(content, []byte{'\n'})+1)
	for i, c := range content {
		if c == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &Source{name: name, content: content, lineStarts: lineStarts}
}

// Name returns source name, may be empty.
func (s *Source) Name() string {
	return s.name
}

// Content returns source content.
func (s *Source) Content() []byte {
	return s.content
}

// Len returns content length in bytes.
func (s *Source) Len() int {
	return len(s.content)
}

// Lines returns the number of lines, the last line may be empty.
func (s *Source) Lines() int {
	return len(s.lineStarts)
}

// LineCol returns line and column numbers (both starting from 1) for byte offset pos.
// Column is counted in runes. Offsets outside content are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	index := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	lineStart := s.lineStarts[index]
	return index + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos returns byte offset for line and column (both starting from 1), column is counted in bytes.
// Returns 0 for non-positive arguments, result is clamped to content length.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	}
	return res
}

// Pos contains source position information.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates position information for byte offset pos of src.
func NewPos(src *Source, pos int) Pos {
	line, col := src.LineCol(pos)
	return Pos{src, pos, line, col}
}

// Source returns source, may be nil.
func (p Pos) Source() *Source {
	return p.src
}

// SourceName returns source name or empty string.
func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

// Pos returns byte offset.
func (p Pos) Pos() int {
	return p.pos
}

// Line returns line number or 0.
func (p Pos) Line() int {
	return p.line
}

// Col returns column number or 0.
func (p Pos) Col() int {
	return p.col
}

// Reader is a read cursor over a single Source.
type Reader struct {
	src *Source
	pos int
}

// NewReader creates Reader positioned at the beginning of src.
func NewReader(src *Source) *Reader {
	return &Reader{src: src}
}

// Source returns source being read.
func (r *Reader) Source() *Source {
	return r.src
}

// ContentPos returns whole source content and current offset.
func (r *Reader) ContentPos() ([]byte, int) {
	return r.src.content, r.pos
}

// Pos returns position information for current offset.
func (r *Reader) Pos() Pos {
	return NewPos(r.src, r.pos)
}

// IsEof reports whether current offset is at the end of source.
func (r *Reader) IsEof() bool {
	return r.pos >= len(r.src.content)
}

// Skip advances current offset by size bytes, offset never exceeds content length.
func (r *Reader) Skip(size int) {
	if size <= 0 {
		return
	}

	r.pos += size
	if r.pos > len(r.src.content) {
		r.pos = len(r.src.content)
	}
}
