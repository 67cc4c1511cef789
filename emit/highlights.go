// Package emit generates auxiliary artifacts from the token working set:
// highlight queries, test corpus, TextMate grammar, and token list.
package emit

import (
	"strings"

	"github.com/ava12/ibtok/config"
	"github.com/ava12/ibtok/table"
)

// Capture assigns highlight capture name to a rule.
type Capture struct {
	RuleID string
	Name   string
}

// String returns capture in query notation.
func (c Capture) String() string {
	return "(" + c.RuleID + ") @" + c.Name
}

// Captures returns captures of tokens in table order. A rule gets a capture from every matching highlight rule,
// rules enclosed in a scope containing ExcludeScope are skipped by that highlight rule.
func Captures(tokens []table.Token, rules []config.HighlightRule) []Capture {
	result := make([]Capture, 0, len(tokens))
	seen := make(map[Capture]bool)
	for _, t := range tokens {
		if !t.HasRule() {
			continue
		}

		for _, r := range rules {
			if !strings.HasPrefix(t.RuleID, r.Prefix) {
				continue
			}
			if r.ExcludeScope != "" && strings.Contains(t.Scope.String(), r.ExcludeScope) {
				continue
			}

			c := Capture{t.RuleID, r.Capture}
			if !seen[c] {
				seen[c] = true
				result = append(result, c)
			}
		}
	}
	return result
}

// Highlights returns highlight query text: preamble lines followed by token captures.
func Highlights(tokens []table.Token, h config.Highlights) string {
	var sb strings.Builder
	for _, line := range h.Preamble {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, c := range Captures(tokens, h.Rules) {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
