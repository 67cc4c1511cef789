package emit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ava12/ibtok/config"
	"github.com/ava12/ibtok/internal/test"
	"github.com/ava12/ibtok/internal/words"
	"github.com/ava12/ibtok/render"
	"github.com/ava12/ibtok/restrict"
	"github.com/ava12/ibtok/table"
)

func integerBasic(t *testing.T) []table.Token {
	t.Helper()
	tab, e := table.LoadBytes(table.IntegerBasicName, table.IntegerBasic)
	test.ExpectNoError(t, e)
	return tab.Rules()
}

func lines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func TestHighlights(t *testing.T) {
	c := config.Default()
	text := Highlights(integerBasic(t), c.Highlights)
	got := lines(text)
	test.ExpectInt(t, 9+93, len(got))
	test.ExpectString(t, "(linenum) @tag", got[0])
	test.ExpectString(t, "(sep_statement) @punctuation.delimiter", got[9])
	test.ExpectString(t, "(com_load) @keyword.builtin", got[10])

	for _, s := range []string{
		"(op_error) @operator\n",
		"(fcall_scrn) @function.builtin\n",
		"(sep_scrn) @punctuation.delimiter\n",
		"(kw_then_line) @keyword\n",
		"(statement_print_null) @keyword.builtin\n",
	} {
		test.ExpectContains(t, text, s)
	}
	test.Assert(t, !strings.Contains(text, "(sep_del)"), "command separators must not be highlighted")
	test.Assert(t, !strings.Contains(text, "(quote)"), "unexpected capture for quote")
}

func TestCaptures(t *testing.T) {
	tokens := []table.Token{
		{Code: 1, Lexeme: ",", RuleID: "sep_a", Scope: table.Scope{Kind: "command"}},
		{Code: 2, Lexeme: ",", RuleID: "sep_b", Scope: table.Scope{Kind: "statement", Triggers: []string{"print"}}},
		{Code: 3, Lexeme: "x", RuleID: "op_x"},
		{Code: 4, Lexeme: "x", RuleID: "op_x"},
		{Code: 5, Lexeme: "y"},
	}
	rules := []config.HighlightRule{
		{Prefix: "sep_", Capture: "punctuation", ExcludeScope: "command"},
		{Prefix: "op_", Capture: "operator"},
		{Prefix: "o", Capture: "other"},
	}
	expected := []Capture{{"sep_b", "punctuation"}, {"op_x", "operator"}, {"op_x", "other"}}
	got := Captures(tokens, rules)
	test.ExpectInt(t, len(expected), len(got))
	for i, c := range expected {
		test.ExpectString(t, c.String(), got[i].String())
	}
}

func TestCorpus(t *testing.T) {
	c := config.Default()
	corpus := NewCorpus(integerBasic(t), c.Classes(), c.Sentinel)

	test.ExpectInt(t, 86, strings.Count(corpus.Illegal, ":error\n"))
	test.ExpectInt(t, 86*2, strings.Count(corpus.Illegal, corpusBar))
	test.ExpectInt(t, 0, strings.Count(corpus.Legal, ":error\n"))
	test.ExpectInt(t, 298*2, strings.Count(corpus.Legal, corpusBar))
	test.ExpectInt(t, 298, strings.Count(corpus.Legal, "(source_file\n"))

	test.Assert(t, strings.HasPrefix(corpus.Illegal, "==========\nStandalone int auto\n:error\n==========\n\n10 AUTO = 1\n\n---\n\n"),
		"unexpected illegal corpus head: %q", corpus.Illegal[:80])
	test.Assert(t, strings.HasPrefix(corpus.Legal, "==========\nStandalone int abs\n==========\n\n10 ABS = 1\n\n---\n\n(source_file\n"+intTree+"\n\n"),
		"unexpected legal corpus head: %q", corpus.Legal[:80])

	for _, s := range []string{
		"Standalone str end\n:error\n==========\n\n10 END$ = \"1\"\n",
		"Postnumber str print\n:error\n==========\n\n10 PRINT1$ = \"1\"\n",
		"Postalpha int gr\n:error\n==========\n\n10 GRA = 1\n",
		"Within str and\n:error\n==========\n\n10 ZANDZ$ = \"1\": ZAND$ = \"1\"\n",
	} {
		test.ExpectContains(t, corpus.Illegal, s)
	}
	test.Assert(t, !strings.Contains(corpus.Illegal, "Postalpha int dsp\n"), "letter-only words have no postalpha cases")
	test.Assert(t, !strings.Contains(corpus.Illegal, "Standalone int run\n"), "run is a legal variable name")

	for _, s := range []string{
		"Standalone int run\n==========\n\n10 RUN = 1\n\n---\n\n(source_file\n" + intTree + "\n\n",
		"Standalone str rem\n==========\n\n10 REM$ = \"1\"\n\n---\n\n(source_file\n" + remTree + "\n\n",
		"Postnumber int print\n==========\n\n10 PRINT1 = 1\n\n---\n\n(source_file\n" +
			"(line (linenum) (statement (statement_print_int) (binary_aexpr (integer) (op_aeq) (integer)) )))\n\n",
		"Postalpha str goto\n==========\n\n10 GOTOA$ = \"1\"\n\n---\n\n(source_file\n" +
			"(line (linenum) (statement (statement_goto) (binary_aexpr (str_name (dollar)) (op_seq) (string (quote) (unquote))) )))\n\n",
		"Postalpha int let\n==========\n\n10 LETA = 1\n\n---\n\n(source_file\n" + letIntTree + "\n\n",
		"Within int abs\n==========\n\n10 ZABSZ = 1: ZABS = 1\n\n---\n\n(source_file\n(line (linenum)\n" +
			"    (statement (assignment_int (int_name) (op_eq_assign_int) (integer)))\n" +
			"    (sep_statement)\n" +
			"    (statement (assignment_int (int_name) (op_eq_assign_int) (integer)))))\n\n",
	} {
		test.ExpectContains(t, corpus.Legal, s)
	}
	test.Assert(t, !strings.Contains(corpus.Legal, "Postnumber int end\n"), "end is not legal before a digit")
}

func TestCorpusSentinel(t *testing.T) {
	cls := restrict.Classify(restrict.Sets{LeadingInside: words.New("to")})
	tokens := []table.Token{
		{Code: 1, Lexeme: "to", RuleID: "kw_to"},
		{Code: 2, Lexeme: "let", RuleID: "statement_let"},
		{Code: 3, Lexeme: "xy"},
		{Code: 4, Lexeme: "pr#", RuleID: "statement_prn"},
	}
	corpus := NewCorpus(tokens, cls, "q")
	test.ExpectString(t,
		"==========\nWithin int to\n:error\n==========\n\n10 QTOQ = 1: QTO = 1\n\n---\n\n"+
			"==========\nWithin str to\n:error\n==========\n\n10 QTOQ$ = \"1\": QTO$ = \"1\"\n\n---\n\n",
		corpus.Illegal)
	test.ExpectInt(t, 4+2+2+4+2, strings.Count(corpus.Legal, "(source_file\n"))
	test.ExpectContains(t, corpus.Legal, "Within int let\n==========\n\n10 QLETQ = 1: QLET = 1\n")
	test.Assert(t, !strings.Contains(corpus.Legal, "XY"), "tokens without rules are not listed")
	test.Assert(t, !strings.Contains(corpus.Legal, "PR#"), "non-alphabetic tokens are not listed")
}

func TestCorpusIsDeterministic(t *testing.T) {
	tokens := integerBasic(t)
	c := config.Default()
	a := NewCorpus(tokens, c.Classes(), c.Sentinel)
	b := NewCorpus(tokens, c.Classes(), c.Sentinel)
	test.ExpectString(t, a.Illegal, b.Illegal)
	test.ExpectString(t, a.Legal, b.Legal)
}

func TestTextMate(t *testing.T) {
	tokens := integerBasic(t)
	captures := Captures(tokens, config.Default().Highlights.Rules)
	src, e := TextMate(tokens, render.CaseInsensitive, "rem", captures)
	test.ExpectNoError(t, e)

	var g tmGrammar
	test.ExpectNoError(t, json.Unmarshal(src, &g))
	test.ExpectString(t, ScopeName, g.ScopeName)
	test.ExpectInt(t, 63, len(g.Patterns))
	test.ExpectString(t, `[Rr] *[Ee] *[Mm].*$`, g.Patterns[0].Match)
	test.ExpectString(t, CommentScope, g.Patterns[0].Name)
	test.ExpectString(t, `[Ll] *[Oo] *[Aa] *[Dd]`, g.Patterns[1].Match)
	test.ExpectString(t, KeywordScope, g.Patterns[1].Name)

	last := g.Patterns[len(g.Patterns)-2:]
	test.ExpectString(t, StringScope, last[0].Name)
	test.ExpectString(t, `"`, last[0].Begin)
	test.ExpectString(t, `"`, last[0].End)
	test.ExpectString(t, VariableScope, last[1].Name)
	test.ExpectString(t, `[A-Za-z][A-Za-z0-9]*[$]?`, last[1].Match)

	names := map[string]string{}
	for _, p := range g.Patterns {
		names[p.Match] = p.Name
	}
	test.ExpectString(t, FunctionScope, names[`[Ss] *[Cc] *[Rr] *[Nn] *\(`])
	test.ExpectString(t, KeywordScope, names[`[Pp] *[Rr] *#`])
	test.ExpectString(t, KeywordScope, names[`< *=`])
	test.ExpectContains(t, string(src), `"match": "< *="`)
	test.ExpectContains(t, string(src), "\n    \"patterns\": [\n        {\n")

	src, e = TextMate(tokens, render.CaseSensitive, "rem", captures)
	test.ExpectNoError(t, e)
	test.ExpectContains(t, string(src), `"match": "R *E *M.*$"`)
	test.ExpectContains(t, string(src), `"match": "[A-Z][A-Z0-9]*[$]?"`)
}

func TestTextMateCommentWord(t *testing.T) {
	src, e := TextMate(nil, render.CaseSensitive, "note", nil)
	test.ExpectNoError(t, e)

	var g tmGrammar
	test.ExpectNoError(t, json.Unmarshal(src, &g))
	test.ExpectInt(t, 3, len(g.Patterns))
	test.ExpectString(t, CommentScope, g.Patterns[0].Name)
	test.ExpectString(t, `N *O *T *E.*$`, g.Patterns[0].Match)
}

func TestTokenJSON(t *testing.T) {
	tokens := []table.Token{
		{Code: 3, Lexeme: ":", RuleID: "sep_statement"},
		{Code: 4, Lexeme: "x"},
		{Code: 0x3e, Lexeme: ",", RuleID: "sep_scrn", Scope: table.Scope{Kind: "fcall", Triggers: []string{"'SCRN('"}}},
		{Code: 0x61, Lexeme: "print", RuleID: "statement_print_str",
			Scope: table.Scope{Kind: "statement", Triggers: []string{"print"}}, Pattern: []string{"this", "_sexpr"}},
	}
	src, e := TokenJSON(tokens)
	test.ExpectNoError(t, e)
	expected := `[
    {
        "code": "03",
        "lexeme": ":",
        "rule id": "sep_statement"
    },
    {
        "code": "3e",
        "enclosing rule": "fcall.'SCRN('",
        "lexeme": ",",
        "rule id": "sep_scrn"
    },
    {
        "code": "61",
        "enclosing rule": "statement.print",
        "lexeme": "print",
        "pattern": "this._sexpr",
        "rule id": "statement_print_str"
    }
]
`
	test.ExpectString(t, expected, string(src))
}
