// Package table loads token tables.
//
// A token table is a text file, one row per token code:
//
//	code lexeme? rule-id? enclosing-rule? pattern?
//
// Fields are separated by spaces or tabs. Code is hexadecimal, lexeme is lower case.
// Enclosing rule is either a grammar rule name or "statement.<trigger>|<trigger>..."
// (same for "fcall"), pattern is a dot-separated list of "this", rule ids, and quoted regexp fragments.
// Blank lines and lines starting with "#" are ignored.
// A table must contain exactly RowCount rows with codes 0 .. RowCount-1 in ascending order.
package table

import (
	_ "embed"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ava12/ibtok/internal/codes"
	"github.com/ava12/ibtok/lexer"
	"github.com/ava12/ibtok/source"
)

// RowCount is the number of rows in any valid table.
const RowCount = codes.Count

// MaxFields is the maximum number of fields in a row.
const MaxFields = 5

// IntegerBasic contains Apple II Integer BASIC token table.
//
//go:embed integerbasic.txt
var IntegerBasic []byte

// IntegerBasicName is the source name used for IntegerBasic table.
const IntegerBasicName = "integerbasic.txt"

const (
	newLineTok = iota
	fieldTok
)

var (
	rowLexer = lexer.New(
		regexp.MustCompile(`^(?:[ \t\r]+|(\n)|([^ \t\r\n]+))`),
		[]lexer.TokenType{{Type: newLineTok, TypeName: "newline"}, {Type: fieldTok, TypeName: "field"}},
	)
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Table contains all rows of token table.
type Table struct {
	name   string
	tokens []Token
}

// Name returns table source name.
func (t *Table) Name() string {
	return t.name
}

// Tokens returns all table rows, indexed by token code.
func (t *Table) Tokens() []Token {
	return t.tokens
}

// Rules returns rows carrying rule ids (working set) in code order. Table itself is left intact.
func (t *Table) Rules() []Token {
	result := make([]Token, 0, len(t.tokens))
	for _, tok := range t.tokens {
		if tok.HasRule() {
			result = append(result, tok)
		}
	}
	return result
}

// Histogram returns numbers of working set lexemes indexed by lexeme length (in runes).
func (t *Table) Histogram() []int {
	result := make([]int, 0)
	for _, tok := range t.Rules() {
		l := len([]rune(tok.Lexeme))
		for len(result) <= l {
			result = append(result, 0)
		}
		result[l]++
	}
	return result
}

// Unused returns codes having no lexeme.
func (t *Table) Unused() codes.Set {
	var result codes.Set
	for _, tok := range t.tokens {
		if tok.Lexeme == "" {
			result = result.Add(tok.Code)
		}
	}
	return result
}

// LoadFile loads a table from file.
func LoadFile(path string) (*Table, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, e
	}

	return LoadBytes(path, content)
}

// LoadBytes loads a table from content using name as source name.
func LoadBytes(name string, content []byte) (*Table, error) {
	return Load(source.New(name, content))
}

// Load parses and validates a table.
func Load(src *source.Source) (*Table, error) {
	rows, e := readRows(src)
	if e != nil {
		return nil, e
	}

	if len(rows) != RowCount {
		return nil, rowCountError(src.Name(), len(rows), rowCodes(rows).Missing())
	}

	result := &Table{name: src.Name(), tokens: make([]Token, 0, RowCount)}
	for i := range rows {
		t, e := parseRow(rows[i])
		if e != nil {
			return nil, e
		}

		if t.Code != i {
			return nil, codeOrderError(t, i, t.Code < i)
		}

		result.tokens = append(result.tokens, *t)
	}

	for i := range result.tokens {
		t := &result.tokens[i]
		if t.HasRule() && !identRe.MatchString(t.RuleID) {
			return nil, ruleIdError(t)
		}
	}

	return result, nil
}

// rowCodes returns the set of well-formed codes found in rows.
func rowCodes(rows [][]*lexer.Token) codes.Set {
	var result codes.Set
	for _, row := range rows {
		if code, e := parseCode(row[0].Text()); e == nil {
			result = result.Add(code)
		}
	}
	return result
}

func parseCode(text string) (int, error) {
	code, e := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(text), "0x"), 16, 8)
	return int(code), e
}

func readRows(src *source.Source) ([][]*lexer.Token, error) {
	r := source.NewReader(src)
	rows := make([][]*lexer.Token, 0, RowCount)
	var row []*lexer.Token
	comment := false
	for {
		tok, e := rowLexer.Next(r)
		if e != nil {
			return nil, e
		}

		if tok.Type() == fieldTok {
			if len(row) == 0 && strings.HasPrefix(tok.Text(), "#") {
				comment = true
			}
			if !comment {
				row = append(row, tok)
			}
			continue
		}

		if len(row) > 0 {
			rows = append(rows, row)
		}
		row = nil
		comment = false
		if tok.IsEof() {
			return rows, nil
		}
	}
}

func parseRow(fields []*lexer.Token) (*Token, error) {
	if len(fields) > MaxFields {
		return nil, malformedRowError(fields[MaxFields], "too many fields, expecting at most %d", MaxFields)
	}

	code, e := parseCode(fields[0].Text())
	if e != nil {
		return nil, malformedRowError(fields[0], "bad token code %q", fields[0].Text())
	}
	if !codes.Valid(code) {
		return nil, malformedRowError(fields[0], "token code 0x%02x out of range, expecting at most 0x%02x", code, RowCount-1)
	}

	result := &Token{Code: code, Pos: fields[0].Pos()}
	if len(fields) > 1 {
		result.Lexeme = strings.ToLower(fields[1].Text())
	}
	if len(fields) > 2 {
		result.RuleID = fields[2].Text()
	}
	if len(fields) > 3 {
		result.Scope, e = parseScope(fields[3])
		if e != nil {
			return nil, e
		}
	}
	if len(fields) > 4 {
		result.Pattern, e = parsePattern(fields[4])
		if e != nil {
			return nil, e
		}

		if !result.IsPatterned() {
			return nil, malformedRowError(fields[4], "pattern requires %s.%s enclosing rule", StatementScope, result.Lexeme)
		}
	}

	return result, nil
}

func parseScope(field *lexer.Token) (Scope, error) {
	kind, triggers, hasTriggers := strings.Cut(field.Text(), ".")
	if kind == "" {
		return Scope{}, malformedRowError(field, "empty scope kind in %q", field.Text())
	}

	result := Scope{Kind: kind}
	if !hasTriggers {
		return result, nil
	}

	if kind != StatementScope && kind != FcallScope {
		return Scope{}, malformedRowError(field, "only %s and %s scopes may have triggers, got %q", StatementScope, FcallScope, kind)
	}

	for _, trig := range strings.Split(triggers, "|") {
		if trig == "" || (trig[0] == '\'') != IsQuoted(trig) {
			return Scope{}, malformedRowError(field, "malformed trigger %q", trig)
		}
		result.Triggers = append(result.Triggers, trig)
	}
	return result, nil
}

func parsePattern(field *lexer.Token) ([]string, error) {
	result := make([]string, 0)
	text := field.Text()
	start := 0
	quoted := false
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] == '\'' {
			quoted = !quoted
		}
		if i < len(text) && (quoted || text[i] != '.') {
			continue
		}

		el := text[start:i]
		if el == "" || (el[0] == '\'' && !IsQuoted(el)) || (el[0] != '\'' && !identRe.MatchString(el)) {
			return nil, malformedRowError(field, "malformed pattern element %q", el)
		}

		result = append(result, el)
		start = i + 1
	}

	if quoted {
		return nil, malformedRowError(field, "unterminated quote in pattern %q", text)
	}

	return result, nil
}
