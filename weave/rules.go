package weave

import (
	"strconv"
	"strings"

	"github.com/ava12/ibtok"
	"github.com/ava12/ibtok/render"
	"github.com/ava12/ibtok/restrict"
	"github.com/ava12/ibtok/table"
)

// ErrorRule is the name of the rule matching reserved words inside variable names.
const ErrorRule = "op_error"

// ConflictRules describe conflict declaration synthesis.
type ConflictRules struct {
	// Categories contains rule id prefixes (without underscore) of grouped rules.
	Categories []string

	// NullSuffix marks empty variants excluded from declarations.
	NullSuffix string

	// Identifiers contains rule ids added to every declaration.
	Identifiers []string
}

// RuleBlock returns token rule lines: one rule per distinct rule id (the first token wins)
// followed by a blank line and ErrorRule definition.
func RuleBlock(tokens []table.Token, cls *restrict.Classes, opts Options) ([]string, error) {
	result := make([]string, 0, len(tokens)+cls.LeadingInside.Len()+3)
	seen := make(map[string]bool)
	for _, t := range tokens {
		if !t.HasRule() || seen[t.RuleID] {
			continue
		}

		seen[t.RuleID] = true
		body := render.Render(t.Lexeme, cls, opts.Mode)
		if e := render.Validate(body); e != nil {
			return nil, badRuleError(t.RuleID, e)
		}

		result = append(result, t.RuleID+": $ => "+body+",")
	}

	result = append(result, "", ErrorRule+": $ => prec("+strconv.Itoa(render.PrecedenceLevel)+",choice(")
	for _, w := range cls.LeadingInside.Sorted() {
		var body string
		if opts.ErrorSequenceWords.Contains(w) {
			body = render.Sequence(w, opts.Mode)
		} else {
			body = render.Regex(w, opts.Mode)
		}
		if e := render.Validate(body); e != nil {
			return nil, badRuleError(ErrorRule, e)
		}

		result = append(result, "\t"+body+",")
	}
	result = append(result, ")),")
	return result, nil
}

func badRuleError(id string, e error) *ibtok.Error {
	return ibtok.FormatError(BadRuleError, "rule %s: %s", id, e.Error())
}

// Conflicts groups rule ids by <category>_<name> prefix and returns one declaration per group
// having more than one member. Groups and members keep token order.
func Conflicts(tokens []table.Token, rules ConflictRules) []string {
	categories := make(map[string]bool, len(rules.Categories))
	for _, c := range rules.Categories {
		categories[c] = true
	}

	keys := make([]string, 0)
	groups := make(map[string][]string)
	seen := make(map[string]bool)
	for _, t := range tokens {
		if !t.HasRule() || seen[t.RuleID] {
			continue
		}

		seen[t.RuleID] = true
		parts := strings.SplitN(t.RuleID, "_", 3)
		if len(parts) < 2 || parts[1] == "" || !categories[parts[0]] {
			continue
		}

		key := parts[0] + "_" + parts[1]
		if _, has := groups[key]; !has {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], t.RuleID)
	}

	result := make([]string, 0)
	for _, key := range keys {
		members := groups[key]
		if len(members) < 2 {
			continue
		}

		refs := make([]string, 0, len(members)+len(rules.Identifiers))
		for _, m := range members {
			if rules.NullSuffix == "" || !strings.HasSuffix(m, rules.NullSuffix) {
				refs = append(refs, table.RuleRef(m))
			}
		}
		for _, id := range rules.Identifiers {
			refs = append(refs, table.RuleRef(id))
		}
		result = append(result, "["+strings.Join(refs, ",")+"]")
	}
	return result
}
