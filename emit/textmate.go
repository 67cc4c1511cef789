package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ava12/ibtok/render"
	"github.com/ava12/ibtok/table"
)

// TextMate scope names.
const (
	ScopeName     = "source.bas"
	CommentScope  = "comment"
	KeywordScope  = "keyword.control"
	FunctionScope = "support.function"
	StringScope   = "string"
	VariableScope = "variable"
)

const (
	functionCapture = "function"
	jsonIndent      = "    "
)

type tmPattern struct {
	Name  string `json:"name"`
	Match string `json:"match,omitempty"`
	Begin string `json:"begin,omitempty"`
	End   string `json:"end,omitempty"`
}

type tmGrammar struct {
	ScopeName string      `json:"scopeName"`
	Patterns  []tmPattern `json:"patterns"`
}

// TextMate returns a light TextMate grammar: comments, multi-character tokens, strings, and variables.
// Patterns are listed in that order, tokens keep table order. A comment starts with comment word.
// A token gets FunctionScope if any of its captures is a function capture, KeywordScope otherwise.
func TextMate(tokens []table.Token, m render.Mode, comment string, captures []Capture) ([]byte, error) {
	functions := make(map[string]bool)
	for _, c := range captures {
		if strings.Contains(c.Name, functionCapture) {
			functions[c.RuleID] = true
		}
	}

	g := tmGrammar{ScopeName: ScopeName}
	g.Patterns = append(g.Patterns, tmPattern{Name: CommentScope, Match: render.TextMate(comment, m) + ".*$"})

	seen := make(map[tmPattern]bool)
	for _, t := range tokens {
		if !t.HasRule() || utf8.RuneCountInString(t.Lexeme) < 2 {
			continue
		}

		p := tmPattern{Name: KeywordScope, Match: render.TextMate(t.Lexeme, m)}
		if functions[t.RuleID] {
			p.Name = FunctionScope
		}
		if !seen[p] {
			seen[p] = true
			g.Patterns = append(g.Patterns, p)
		}
	}

	g.Patterns = append(g.Patterns,
		tmPattern{Name: StringScope, Begin: `"`, End: `"`},
		tmPattern{Name: VariableScope, Match: variableRe(m)},
	)

	return marshal(g)
}

func variableRe(m render.Mode) string {
	if m.AllowsLowerCase() {
		return "[A-Za-z][A-Za-z0-9]*[$]?"
	}
	return "[A-Z][A-Z0-9]*[$]?"
}

type tokenRecord struct {
	Code          string `json:"code"`
	EnclosingRule string `json:"enclosing rule,omitempty"`
	Lexeme        string `json:"lexeme"`
	Pattern       string `json:"pattern,omitempty"`
	RuleID        string `json:"rule id"`
}

// TokenJSON returns tokens having rules as JSON array of objects with sorted keys.
func TokenJSON(tokens []table.Token) ([]byte, error) {
	records := make([]tokenRecord, 0, len(tokens))
	for _, t := range tokens {
		if !t.HasRule() {
			continue
		}

		records = append(records, tokenRecord{
			Code:          fmt.Sprintf("%02x", t.Code),
			EnclosingRule: t.Scope.String(),
			Lexeme:        t.Lexeme,
			Pattern:       strings.Join(t.Pattern, "."),
			RuleID:        t.RuleID,
		})
	}
	return marshal(records)
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if e := enc.Encode(v); e != nil {
		return nil, e
	}
	return buf.Bytes(), nil
}
