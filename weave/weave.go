// Package weave substitutes token rule references into grammar template.
//
// Substitution runs in three passes, each pass handles tokens in table order:
//
//   - scoped pass: tokens enclosed in statements or function calls with trigger keywords;
//     a literal is replaced only on template lines starting with seq(<trigger>;
//   - root pass: tokens with no enclosing rule replace all remaining literals,
//     tokens enclosed in a bare rule replace literals on the line of that rule;
//   - pattern pass: statement keywords carrying a pattern replace literals followed by pattern elements.
//
// A greedy match of a line-bounded pattern replaces the last remaining occurrence of a literal on a line,
// so tokens sharing a lexeme and a scope take occurrences from right to left.
package weave

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ava12/ibtok"
	"github.com/ava12/ibtok/internal/words"
	"github.com/ava12/ibtok/render"
	"github.com/ava12/ibtok/restrict"
	"github.com/ava12/ibtok/table"
	"github.com/ava12/ibtok/template"
)

const (
	UnmatchedError = ibtok.WeaveErrors + iota
	BadPatternError
	BadRuleError
)

// CaseFlag is the name of template constant holding case mode.
const CaseFlag = "allow_lower_case"

// Pass identifies substitution pass.
type Pass int

const (
	ScopedPass Pass = iota + 1
	RootPass
	PatternPass
)

func (p Pass) String() string {
	switch p {
	case ScopedPass:
		return "scoped"
	case RootPass:
		return "root"
	case PatternPass:
		return "pattern"
	default:
		return "unknown"
	}
}

// Options control weaving.
type Options struct {
	// Mode selects case handling of token rules.
	Mode render.Mode

	// Lenient disables failing on transformations that never matched.
	Lenient bool

	// Conflicts describes conflict declaration synthesis.
	Conflicts ConflictRules

	// ErrorSequenceWords are rendered as sequences in op_error rule.
	ErrorSequenceWords words.Set
}

// Transformation is a single declared substitution.
type Transformation struct {
	Pass  Pass
	Token table.Token

	// Trigger contains trigger literal for scoped pass, empty otherwise.
	Trigger string

	// Match contains regular expression source.
	Match string

	// Count contains the number of replaced occurrences.
	Count int

	re   *regexp.Regexp
	repl string
}

// String describes transformation for diagnostics.
func (t Transformation) String() string {
	tok := t.Token
	where := "root"
	switch {
	case t.Pass == ScopedPass:
		where = fmt.Sprintf("%s trigger %s", tok.Scope.Kind, t.Trigger)
	case t.Pass == PatternPass:
		where = "pattern " + strings.Join(tok.Pattern, ".")
	case !tok.Scope.IsRoot():
		where = "scope " + tok.Scope.Kind
	}
	return fmt.Sprintf("token 0x%02x %s (%s) %s pass, %s", tok.Code, tok.RuleID, tok.Literal(), t.Pass, where)
}

// Result contains woven grammar and intermediate data.
type Result struct {
	// Grammar contains resolved grammar text.
	Grammar string

	// Rules contains token rule block lines.
	Rules []string

	// Conflicts contains conflict declarations.
	Conflicts []string

	// Transformations contains all applied transformations in application order.
	Transformations []Transformation

	// Unmatched contains transformations that never matched (lenient mode only).
	Unmatched []Transformation

	// CaseFlagRewrites contains the number of rewritten case flag definitions.
	CaseFlagRewrites int
}

var caseFlagRe = regexp.MustCompile(CaseFlag + `\s*=\s*\w+`)

// Weave applies all passes to template text, resolves placeholders, and returns the result.
// tokens must contain working set in table order.
func Weave(tpl *template.Template, tokens []table.Token, cls *restrict.Classes, opts Options) (*Result, error) {
	plan, e := Plan(tokens)
	if e != nil {
		return nil, e
	}

	rules, e := RuleBlock(tokens, cls, opts)
	if e != nil {
		return nil, e
	}

	result := &Result{Rules: rules, Conflicts: Conflicts(tokens, opts.Conflicts)}
	for i := range plan {
		x := &plan[i]
		tpl = tpl.Map(func(text string) string {
			x.Count += len(x.re.FindAllStringIndex(text, -1))
			return x.re.ReplaceAllString(text, x.repl)
		})
	}
	result.Transformations = plan

	flag := fmt.Sprintf("%s = %t", CaseFlag, opts.Mode.AllowsLowerCase())
	tpl = tpl.Map(func(text string) string {
		result.CaseFlagRewrites += len(caseFlagRe.FindAllStringIndex(text, -1))
		return caseFlagRe.ReplaceAllLiteralString(text, flag)
	})

	for _, x := range plan {
		if x.Count == 0 {
			result.Unmatched = append(result.Unmatched, x)
		}
	}
	if len(result.Unmatched) > 0 && !opts.Lenient {
		return nil, unmatchedError(result.Unmatched)
	}

	result.Grammar = tpl.Render(rules, result.Conflicts)
	return result, nil
}

func unmatchedError(xs []Transformation) *ibtok.Error {
	msg := xs[0].String() + ": never matched"
	if len(xs) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(xs)-1)
	}
	return ibtok.FormatErrorPos(xs[0].Token.Pos, UnmatchedError, "%s", msg)
}

func escapeRepl(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// Plan returns all transformations in application order.
func Plan(tokens []table.Token) ([]Transformation, error) {
	result := make([]Transformation, 0, len(tokens))

	for _, t := range tokens {
		if !t.HasRule() || len(t.Pattern) > 0 || !t.Scope.HasTriggers() {
			continue
		}

		for _, trig := range t.Scope.Triggers {
			lit := table.TriggerLiteral(trig)
			src := "(" + regexp.QuoteMeta("seq("+lit) + ".*)" + regexp.QuoteMeta(t.Literal())
			result = append(result, Transformation{
				Pass: ScopedPass, Token: t, Trigger: lit, Match: src,
				re: regexp.MustCompile(src), repl: "${1}" + escapeRepl(t.Ref()),
			})
		}
	}

	for _, t := range tokens {
		if !t.HasRule() || len(t.Pattern) > 0 || t.Scope.HasTriggers() {
			continue
		}

		var x Transformation
		if t.Scope.IsRoot() {
			src := regexp.QuoteMeta(t.Literal())
			x = Transformation{re: regexp.MustCompile(src), Match: src, repl: escapeRepl(t.Ref())}
		} else {
			src := "(" + regexp.QuoteMeta(t.Scope.Kind+":") + ".*)" + regexp.QuoteMeta(t.Literal())
			x = Transformation{re: regexp.MustCompile(src), Match: src, repl: "${1}" + escapeRepl(t.Ref())}
		}
		x.Pass = RootPass
		x.Token = t
		result = append(result, x)
	}

	for _, t := range tokens {
		if !t.HasRule() || len(t.Pattern) == 0 {
			continue
		}

		x, e := patternTransformation(t)
		if e != nil {
			return nil, e
		}

		result = append(result, x)
	}

	return result, nil
}

func patternTransformation(t table.Token) (Transformation, error) {
	if !t.IsPatterned() {
		return Transformation{}, ibtok.FormatErrorPos(t.Pos, BadPatternError,
			"token %s: pattern requires %s.%s enclosing rule, got %q", t.RuleID, table.StatementScope, t.Lexeme, t.Scope.String())
	}

	match := make([]string, len(t.Pattern))
	repl := make([]string, len(t.Pattern))
	for i, el := range t.Pattern {
		switch {
		case el == table.ThisElement:
			match[i] = regexp.QuoteMeta(t.Literal())
			repl[i] = t.Ref()
		case table.IsQuoted(el):
			match[i] = el[1 : len(el)-1]
			repl[i] = el[1 : len(el)-1]
		default:
			match[i] = regexp.QuoteMeta(table.RuleRef(el))
			repl[i] = table.RuleRef(el)
		}
	}

	src := strings.Join(match, `[ \t]*,[ \t]*`)
	re, e := regexp.Compile(src)
	if e != nil {
		return Transformation{}, ibtok.FormatErrorPos(t.Pos, BadPatternError, "token %s: bad pattern: %s", t.RuleID, e.Error())
	}

	return Transformation{
		Pass: PatternPass, Token: t, Match: src,
		re: re, repl: escapeRepl(strings.Join(repl, ",")),
	}, nil
}
