// Package compiler runs the whole token table compilation:
// loads the table and the template, classifies restriction words, weaves the grammar, and emits artifacts.
// Nothing is written to disk here.
package compiler

import (
	"golang.org/x/sync/errgroup"

	"github.com/ava12/ibtok/config"
	"github.com/ava12/ibtok/emit"
	"github.com/ava12/ibtok/internal/words"
	"github.com/ava12/ibtok/render"
	"github.com/ava12/ibtok/restrict"
	"github.com/ava12/ibtok/table"
	"github.com/ava12/ibtok/template"
	"github.com/ava12/ibtok/weave"
)

// Output file names relative to the output directory.
const (
	GrammarFile        = "grammar.js"
	HighlightsFile     = "queries/highlights.scm"
	IllegalCorpusFile  = "test/corpus/vars-illegal.txt"
	LegalCorpusFile    = "test/corpus/vars-legal.txt"
	TokenListFile      = "script/token_list.json"
	textMateFileSuffix = ".tmGrammar.json"
)

// Source is a named input text.
type Source struct {
	Name    string
	Content []byte
}

// Input contains everything needed for compilation.
type Input struct {
	// Tokens contains token table text.
	Tokens Source

	// Template contains grammar template text.
	Template Source

	// Config defaults to embedded configuration if nil.
	Config *config.Config

	Mode    render.Mode
	Lenient bool
}

// DefaultInput returns input with embedded Integer BASIC table, template, and configuration.
func DefaultInput(m render.Mode) Input {
	return Input{
		Tokens:   Source{table.IntegerBasicName, table.IntegerBasic},
		Template: Source{template.IntegerBasicName, template.IntegerBasic},
		Config:   config.Default(),
		Mode:     m,
	}
}

// File is a generated artifact.
type File struct {
	Path    string
	Content []byte
}

// Output contains compilation results.
type Output struct {
	Table      *table.Table
	Classes    *restrict.Classes
	Weave      *weave.Result
	Highlights string
	Corpus     emit.Corpus
	TextMate   []byte
	TokenList  []byte

	language string
}

// Files returns generated artifacts in fixed order.
func (o *Output) Files() []File {
	return []File{
		{GrammarFile, []byte(o.Weave.Grammar)},
		{HighlightsFile, []byte(o.Highlights)},
		{IllegalCorpusFile, []byte(o.Corpus.Illegal)},
		{LegalCorpusFile, []byte(o.Corpus.Legal)},
		{o.language + textMateFileSuffix, o.TextMate},
		{TokenListFile, o.TokenList},
	}
}

// Compile runs compilation. The token table is loaded first, any table error aborts compilation
// before the template is parsed. Artifacts are computed concurrently from the same classified working set.
func Compile(in Input) (*Output, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = config.Default()
	}

	tab, e := table.LoadBytes(in.Tokens.Name, in.Tokens.Content)
	if e != nil {
		return nil, e
	}

	tpl, e := template.ParseBytes(in.Template.Name, in.Template.Content)
	if e != nil {
		return nil, e
	}

	out := &Output{Table: tab, Classes: cfg.Classes(), language: cfg.Language}
	tokens := tab.Rules()
	opts := weave.Options{
		Mode:    in.Mode,
		Lenient: in.Lenient,
		Conflicts: weave.ConflictRules{
			Categories:  cfg.Conflicts.Categories,
			NullSuffix:  cfg.Conflicts.NullSuffix,
			Identifiers: cfg.Conflicts.Identifiers,
		},
		ErrorSequenceWords: words.New(cfg.ErrorSequenceWords...),
	}

	var g errgroup.Group
	g.Go(func() (e error) {
		out.Weave, e = weave.Weave(tpl, tokens, out.Classes, opts)
		return
	})
	g.Go(func() (e error) {
		out.Highlights = emit.Highlights(tokens, cfg.Highlights)
		out.TextMate, e = emit.TextMate(tokens, in.Mode, cfg.CommentWord, emit.Captures(tokens, cfg.Highlights.Rules))
		return
	})
	g.Go(func() error {
		out.Corpus = emit.NewCorpus(tokens, out.Classes, cfg.Sentinel)
		return nil
	})
	g.Go(func() (e error) {
		out.TokenList, e = emit.TokenJSON(tokens)
		return
	})
	if e = g.Wait(); e != nil {
		return nil, e
	}

	return out, nil
}
