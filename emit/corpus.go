package emit

import (
	"strings"

	"github.com/ava12/ibtok/internal/words"
	"github.com/ava12/ibtok/restrict"
	"github.com/ava12/ibtok/table"
)

// Corpus contains tree-sitter test corpus files for variable names.
type Corpus struct {
	// Illegal contains cases expected to fail parsing.
	Illegal string

	// Legal contains cases with expected syntax trees.
	Legal string
}

const corpusBar = "==========\n"

const (
	intTree     = "(line (linenum) (statement (assignment_int (int_name) (op_eq_assign_int) (integer)))))"
	strTree     = "(line (linenum) (statement (assignment_str (str_name (dollar)) (op_eq_assign_str) (string (quote) (unquote))))))"
	remTree     = "(line (linenum) (statement (statement_rem) (comment_text) )))"
	letIntTree  = "(line (linenum) (statement (assignment_int (statement_let) (int_name) (op_eq_assign_int) (integer)))))"
	letStrTree  = "(line (linenum) (statement (assignment_str (statement_let) (str_name (dollar)) (op_eq_assign_str) (string (quote) (unquote))))))"
	withinInt   = "(statement (assignment_int (int_name) (op_eq_assign_int) (integer)))"
	withinStr   = "(statement (assignment_str (str_name (dollar)) (op_eq_assign_str) (string (quote) (unquote))))"
	numCompare  = "(binary_aexpr (integer) (op_aeq) (integer)) )))"
	intCompare  = "(binary_aexpr (int_name) (op_aeq) (integer)) )))"
	strCompare  = "(binary_aexpr (str_name (dollar)) (op_seq) (string (quote) (unquote))) )))"
	statementOf = "(line (linenum) (statement ("
)

type corpusWriter struct {
	sb strings.Builder
}

func (w *corpusWriter) heading(name, word string, fails bool) {
	w.sb.WriteString(corpusBar)
	w.sb.WriteString(name + " " + word + "\n")
	if fails {
		w.sb.WriteString(":error\n")
	}
	w.sb.WriteString(corpusBar + "\n")
}

func (w *corpusWriter) fail(name, word, src string) {
	w.heading(name, word, true)
	w.sb.WriteString(src + "\n\n---\n\n")
}

func (w *corpusWriter) pass(name, word, src, tree string) {
	w.heading(name, word, false)
	w.sb.WriteString(src + "\n\n---\n\n(source_file\n" + tree + "\n\n")
}

func intSource(name string) string {
	return "10 " + name + " = 1"
}

func strSource(name string) string {
	return "10 " + name + `$ = "1"`
}

func withinSource(sentinel, word string, str bool) string {
	inner := sentinel + word + sentinel
	outer := sentinel + word
	if str {
		return "10 " + inner + `$ = "1": ` + outer + `$ = "1"`
	}
	return "10 " + inner + " = 1: " + outer + " = 1"
}

// NewCorpus returns variable name test cases for alphabetic lexemes of tokens.
// sentinel is a letter used to embed words inside variable names.
// Cases of every category are listed in ascending word order.
func NewCorpus(tokens []table.Token, cls *restrict.Classes, sentinel string) Corpus {
	sentinel = strings.ToUpper(sentinel)
	alpha := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.HasRule() && t.IsAlpha() {
			alpha = append(alpha, t.Lexeme)
		}
	}
	all := words.New(alpha...)

	return Corpus{
		Illegal: illegalCases(cls, sentinel),
		Legal:   legalCases(all, cls, sentinel),
	}
}

func illegalCases(cls *restrict.Classes, sentinel string) string {
	w := &corpusWriter{}
	for _, word := range cls.Standalone.Sorted() {
		up := strings.ToUpper(word)
		w.fail("Standalone int", word, intSource(up))
		w.fail("Standalone str", word, strSource(up))
	}
	for _, word := range cls.TrailingDigit.Sorted() {
		w.fail("Postnumber int", word, intSource(strings.ToUpper(word)+"1"))
	}
	for _, word := range cls.StringTrailingDigit.Sorted() {
		w.fail("Postnumber str", word, strSource(strings.ToUpper(word)+"1"))
	}
	for _, word := range cls.Postalpha.Sorted() {
		up := strings.ToUpper(word) + "A"
		w.fail("Postalpha int", word, intSource(up))
		w.fail("Postalpha str", word, strSource(up))
	}
	for _, word := range cls.LeadingInside.Sorted() {
		up := strings.ToUpper(word)
		w.fail("Within int", word, withinSource(sentinel, up, false))
		w.fail("Within str", word, withinSource(sentinel, up, true))
	}
	return w.sb.String()
}

func legalCases(all words.Set, cls *restrict.Classes, sentinel string) string {
	w := &corpusWriter{}
	for _, word := range all.Subtract(cls.Standalone).Sorted() {
		up := strings.ToUpper(word)
		it, st := intTree, strTree
		if word == "rem" {
			it, st = remTree, remTree
		}
		w.pass("Standalone int", word, intSource(up), it)
		w.pass("Standalone str", word, strSource(up), st)
	}

	for _, word := range all.Subtract(cls.TrailingDigit).Sorted() {
		tree := intTree
		switch word {
		case "print":
			tree = statementOf + "statement_print_int) " + numCompare
		case "goto":
			tree = statementOf + "statement_goto) " + numCompare
		case "rem":
			tree = remTree
		}
		w.pass("Postnumber int", word, intSource(strings.ToUpper(word)+"1"), tree)
	}

	for _, word := range all.Subtract(cls.StringTrailingDigit).Sorted() {
		tree := strTree
		if word == "rem" {
			tree = remTree
		}
		w.pass("Postnumber str", word, strSource(strings.ToUpper(word)+"1"), tree)
	}

	for _, word := range all.Subtract(cls.TrailingLetter).Sorted() {
		up := strings.ToUpper(word) + "A"
		it, st := intTree, strTree
		switch word {
		case "let":
			it, st = letIntTree, letStrTree
		case "print":
			it = statementOf + "statement_print_int) " + intCompare
			st = statementOf + "statement_print_int) " + strCompare
		case "goto":
			it = statementOf + "statement_goto) " + intCompare
			st = statementOf + "statement_goto) " + strCompare
		case "rem":
			it, st = remTree, remTree
		}
		w.pass("Postalpha int", word, intSource(up), it)
		w.pass("Postalpha str", word, strSource(up), st)
	}

	for _, word := range all.Subtract(cls.LeadingInside).Sorted() {
		up := strings.ToUpper(word)
		w.pass("Within int", word, withinSource(sentinel, up, false), withinTree(withinInt))
		w.pass("Within str", word, withinSource(sentinel, up, true), withinTree(withinStr))
	}
	return w.sb.String()
}

func withinTree(statement string) string {
	return "(line (linenum)\n    " + statement + "\n    (sep_statement)\n    " + statement + "))"
}
