// Package template parses grammar templates.
//
// A grammar template is a text containing exactly one token rules placeholder
// (a line comment starting with RulesMarker) and exactly one conflicts placeholder (ConflictsMarker).
// Everything else is opaque text. Template values are immutable.
package template

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"github.com/ava12/ibtok"
	"github.com/ava12/ibtok/lexer"
	"github.com/ava12/ibtok/source"
)

// Placeholder markers.
const (
	RulesMarker     = "// token rules go here"
	ConflictsMarker = "conflicts: $ => ["
)

// IntegerBasic contains Apple II Integer BASIC grammar template.
//
//go:embed integerbasic.js
var IntegerBasic []byte

// IntegerBasicName is the source name used for IntegerBasic template.
const IntegerBasicName = "grammar-src.js"

const (
	PlaceholderMissingError = ibtok.TemplateErrors + iota
	PlaceholderDuplicateError
)

// NodeKind is the kind of template node.
type NodeKind int

const (
	TextNode NodeKind = iota
	RulesNode
	ConflictsNode
)

// Node is a template fragment: opaque text or placeholder.
type Node struct {
	Kind NodeKind

	// Text contains text run or placeholder source text.
	Text string

	// Indent contains leading whitespace of placeholder line, empty for text nodes.
	Indent string
}

// Template is parsed grammar template.
type Template struct {
	name  string
	nodes []Node
}

const (
	rulesTok = iota
	conflictsTok
	textTok
)

var templateLexer = lexer.New(
	regexp.MustCompile(`^(?:(`+regexp.QuoteMeta(RulesMarker)+`[^\n]*)|(`+regexp.QuoteMeta(ConflictsMarker)+`)|([^/c\n]+|[/c\n]))`),
	[]lexer.TokenType{{Type: rulesTok, TypeName: "rules"}, {Type: conflictsTok, TypeName: "conflicts"}, {Type: textTok, TypeName: "text"}},
)

// ParseFile reads and parses a template file.
func ParseFile(path string) (*Template, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, e
	}

	return Parse(source.New(path, content))
}

// ParseBytes parses template content using name as source name.
func ParseBytes(name string, content []byte) (*Template, error) {
	return Parse(source.New(name, content))
}

// Parse parses template source.
func Parse(src *source.Source) (*Template, error) {
	result := &Template{name: src.Name()}
	r := source.NewReader(src)
	var text strings.Builder
	found := map[NodeKind]bool{}

	flush := func() {
		if text.Len() > 0 {
			result.nodes = append(result.nodes, Node{Kind: TextNode, Text: text.String()})
			text.Reset()
		}
	}

	for {
		tok, e := templateLexer.Next(r)
		if e != nil {
			return nil, e
		}

		if tok.IsEof() {
			break
		}

		kind := TextNode
		switch tok.Type() {
		case textTok:
			text.WriteString(tok.Text())
			continue
		case rulesTok:
			kind = RulesNode
		case conflictsTok:
			kind = ConflictsNode
		}

		if found[kind] {
			return nil, ibtok.FormatErrorPos(tok, PlaceholderDuplicateError, "duplicate %s placeholder", tok.TypeName())
		}

		found[kind] = true
		indent := lineIndent(text.String())
		flush()
		result.nodes = append(result.nodes, Node{Kind: kind, Text: tok.Text(), Indent: indent})
	}
	flush()

	if !found[RulesNode] {
		return nil, ibtok.FormatError(PlaceholderMissingError, "%s: missing placeholder %q", src.Name(), RulesMarker)
	}
	if !found[ConflictsNode] {
		return nil, ibtok.FormatError(PlaceholderMissingError, "%s: missing placeholder %q", src.Name(), ConflictsMarker)
	}

	return result, nil
}

func lineIndent(text string) string {
	line := text[strings.LastIndexByte(text, '\n')+1:]
	if strings.Trim(line, " \t") != "" {
		return ""
	}
	return line
}

// Name returns template source name.
func (t *Template) Name() string {
	return t.name
}

// Map returns new template with every text run replaced by f(text). Placeholders are left intact.
func (t *Template) Map(f func(text string) string) *Template {
	result := &Template{name: t.name, nodes: make([]Node, len(t.nodes))}
	for i, n := range t.nodes {
		if n.Kind == TextNode {
			n.Text = f(n.Text)
		}
		result.nodes[i] = n
	}
	return result
}

// String returns template text with unresolved placeholders.
func (t *Template) String() string {
	var sb strings.Builder
	for _, n := range t.nodes {
		sb.WriteString(n.Text)
	}
	return sb.String()
}

// Render resolves placeholders. Rules placeholder line is replaced with rules lines,
// conflicts are appended after conflicts marker, one declaration per line.
func (t *Template) Render(rules, conflicts []string) string {
	var sb strings.Builder
	for _, n := range t.nodes {
		switch n.Kind {
		case RulesNode:
			for i, line := range rules {
				if i > 0 {
					sb.WriteByte('\n')
					if line != "" {
						sb.WriteString(n.Indent)
					}
				}
				sb.WriteString(line)
			}

		case ConflictsNode:
			sb.WriteString(n.Text)
			for _, c := range conflicts {
				sb.WriteString("\n" + n.Indent + "\t" + c + ",")
			}

		default:
			sb.WriteString(n.Text)
		}
	}
	return sb.String()
}
