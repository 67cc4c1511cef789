package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ava12/ibtok/compiler"
	"github.com/ava12/ibtok/internal/test"
	"github.com/ava12/ibtok/table"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, e error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	e = cmd.Execute()
	return out.String(), errOut.String(), e
}

func outputPaths(dir string) []string {
	return []string{
		filepath.Join(dir, compiler.GrammarFile),
		filepath.Join(dir, compiler.HighlightsFile),
		filepath.Join(dir, compiler.IllegalCorpusFile),
		filepath.Join(dir, compiler.LegalCorpusFile),
		filepath.Join(dir, "integerbasic.tmGrammar.json"),
		filepath.Join(dir, compiler.TokenListFile),
	}
}

func expectNoOutput(t *testing.T, dir string) {
	t.Helper()
	entries, e := os.ReadDir(dir)
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 0, len(entries))
}

func TestMissingCaseMode(t *testing.T) {
	dir := t.TempDir()
	_, _, e := execute(t, "--out-dir", dir, "--tokens", filepath.Join(dir, "missing.txt"))
	test.ExpectErrorCode(t, MissingCaseModeError, e)
	test.ExpectInt(t, 2, exitCode(e))
	expectNoOutput(t, dir)
}

func TestBadCaseMode(t *testing.T) {
	dir := t.TempDir()
	_, _, e := execute(t, "--allow-lower-case", "maybe", "--out-dir", dir)
	test.ExpectErrorCode(t, BadCaseModeError, e)
	expectNoOutput(t, dir)
}

func TestHelp(t *testing.T) {
	stdout, _, e := execute(t, "--help")
	test.ExpectNoError(t, e)
	test.ExpectContains(t, stdout, "--allow-lower-case")
	test.ExpectContains(t, stdout, "--lenient")
}

func TestWritesArtifacts(t *testing.T) {
	samples := []struct {
		value string
		flag  string
	}{
		{"1", "true"},
		{"true", "true"},
		{"0", "false"},
		{"false", "false"},
	}
	for _, s := range samples {
		dir := t.TempDir()
		stdout, stderr, e := execute(t, "--allow-lower-case", s.value, "--out-dir", dir)
		test.ExpectNoError(t, e)
		test.ExpectContains(t, stdout, "Tokens: 98")
		test.ExpectContains(t, stderr, "level=INFO msg=written")

		for _, p := range outputPaths(dir) {
			content, e := os.ReadFile(p)
			test.ExpectNoError(t, e)
			test.Assert(t, len(content) > 0, "empty file %s", p)
		}

		grammar, _ := os.ReadFile(filepath.Join(dir, compiler.GrammarFile))
		test.ExpectContains(t, string(grammar), "const allow_lower_case = "+s.flag+";")
	}
}

func TestQuiet(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, e := execute(t, "--allow-lower-case", "1", "--out-dir", dir, "--quiet")
	test.ExpectNoError(t, e)
	test.ExpectString(t, "", stdout)
	test.ExpectString(t, "", stderr)

	_, _, e = execute(t, "--allow-lower-case", "1", "--out-dir", dir, "--quiet", "--verbose")
	test.Assert(t, e != nil, "expecting error for --quiet with --verbose")
}

func TestVerbose(t *testing.T) {
	dir := t.TempDir()
	_, stderr, e := execute(t, "--allow-lower-case", "1", "--out-dir", dir, "--verbose")
	test.ExpectNoError(t, e)
	test.ExpectContains(t, stderr, "level=DEBUG msg=substitution")
}

func TestTableErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "tokens.txt")
	test.ExpectNoError(t, os.WriteFile(src, []byte("00\n01\n02\n"), 0o644))

	_, _, e := execute(t, "--allow-lower-case", "1", "--out-dir", dir, "--tokens", src)
	test.ExpectErrorCode(t, table.RowCountError, e)
	test.ExpectInt(t, 3, exitCode(e))
	test.ExpectContains(t, e.Error(), "off by -125")
	expectNoOutput(t, dir)
}

func TestLenient(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(t.TempDir(), "grammar-src.js")
	text := "\tconflicts: $ => [\n\t],\n\t\t// token rules go here\n\t\tx: $ => seq('PRINT', $.y),\n"
	test.ExpectNoError(t, os.WriteFile(tpl, []byte(text), 0o644))

	_, _, e := execute(t, "--allow-lower-case", "0", "--out-dir", dir, "--template", tpl)
	test.Assert(t, e != nil, "expecting unmatched substitution error")
	expectNoOutput(t, dir)

	_, stderr, e := execute(t, "--allow-lower-case", "0", "--out-dir", dir, "--template", tpl, "--lenient")
	test.ExpectNoError(t, e)
	test.ExpectContains(t, stderr, "level=WARN msg=\"substitution never matched\"")
	test.ExpectContains(t, stderr, "level=WARN msg=\"case flag constant not found in template\"")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(t.TempDir(), "conf.yaml")
	test.ExpectNoError(t, os.WriteFile(conf, []byte("language: tinybasic\nsentinel: Q\n"), 0o644))

	_, _, e := execute(t, "--allow-lower-case", "1", "--out-dir", dir, "--config", conf, "-q")
	test.ExpectNoError(t, e)
	_, e = os.Stat(filepath.Join(dir, "tinybasic.tmGrammar.json"))
	test.ExpectNoError(t, e)

	corpus, e := os.ReadFile(filepath.Join(dir, compiler.IllegalCorpusFile))
	test.ExpectNoError(t, e)
	test.Assert(t, strings.Contains(string(corpus), "10 QANDQ = 1: QAND = 1"), "expecting custom sentinel in corpus")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b.txt")
	test.ExpectNoError(t, writeFile(path, []byte("one")))
	test.ExpectNoError(t, writeFile(path, []byte("two")))

	content, e := os.ReadFile(path)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "two", string(content))

	info, e := os.Stat(path)
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 0o644, int(info.Mode().Perm()))

	entries, e := os.ReadDir(filepath.Join(dir, "a"))
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 1, len(entries))
}
