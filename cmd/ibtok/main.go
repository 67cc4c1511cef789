/*
ibtok is a console utility compiling Apple II Integer BASIC token table into tree-sitter grammar artifacts.
Usage is

	ibtok --allow-lower-case <bool> [--tokens <file>] [--template <file>] [--config <file>] [--out-dir <dir>] [--lenient] [--quiet | --verbose]

--allow-lower-case <bool> is required: 1 or true builds a parser accepting lower case in keywords and variable names,
0 or false builds a parser accepting upper case only;

--tokens <file> defines token table file, default is the embedded Integer BASIC table;

--template <file> defines grammar template file, default is the embedded Integer BASIC template;

--config <file> defines TOML or YAML file overriding embedded restriction sets and naming conventions;

--out-dir <dir> defines output directory, default is current directory;

--lenient reports substitutions that never matched as warnings instead of failing.

Files written to output directory: grammar.js, queries/highlights.scm, test/corpus/vars-illegal.txt,
test/corpus/vars-legal.txt, <language>.tmGrammar.json, script/token_list.json.
Nothing is written if any error occurs.
*/
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/ava12/ibtok"
	"github.com/ava12/ibtok/compiler"
	"github.com/ava12/ibtok/config"
	"github.com/ava12/ibtok/internal/report"
	"github.com/ava12/ibtok/render"
)

const (
	MissingCaseModeError = ibtok.ConfigErrors + 50 + iota
	BadCaseModeError
)

const caseModeFlag = "allow-lower-case"

type options struct {
	allowLowerCase string
	tokens         string
	template       string
	config         string
	outDir         string
	lenient        bool
	quiet          bool
	verbose        bool
}

func main() {
	if e := newRootCommand(os.Stdout, os.Stderr).Execute(); e != nil {
		fmt.Fprintln(os.Stderr, e.Error())
		os.Exit(exitCode(e))
	}
}

func exitCode(e error) int {
	switch ibtok.ErrorCode(e) {
	case MissingCaseModeError, BadCaseModeError:
		return 2
	default:
		return 3
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "ibtok --" + caseModeFlag + " <bool>",
		Short: "Compile Integer BASIC token table into tree-sitter grammar artifacts",
		Long: `ibtok reads the token table and the grammar template, substitutes token rules
into the template, and writes grammar.js, highlight queries, test corpus,
TextMate grammar, and token list into the output directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed(caseModeFlag) {
				return ibtok.FormatError(MissingCaseModeError, "--%s flag was not set", caseModeFlag)
			}
			return run(opts, stdout, newLogger(stderr, opts))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.allowLowerCase, caseModeFlag, "", "accept lower case in keywords and variable names (0, 1, false, true)")
	f.StringVar(&opts.tokens, "tokens", "", "token table file, default is embedded Integer BASIC table")
	f.StringVar(&opts.template, "template", "", "grammar template file, default is embedded Integer BASIC template")
	f.StringVar(&opts.config, "config", "", "TOML or YAML configuration file overriding embedded defaults")
	f.StringVarP(&opts.outDir, "out-dir", "o", ".", "output directory")
	f.BoolVar(&opts.lenient, "lenient", false, "warn about substitutions that never matched instead of failing")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "print warnings and errors only")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "print debug information")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
	return cmd
}

func newLogger(w io.Writer, opts *options) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.quiet:
		level = slog.LevelWarn
	case opts.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func caseMode(value string) (render.Mode, error) {
	allow, e := cast.ToBoolE(value)
	if e != nil {
		return render.CaseSensitive, ibtok.FormatError(BadCaseModeError, "--%s: invalid boolean value %q", caseModeFlag, value)
	}
	return render.ModeOf(allow), nil
}

func readSource(path string, src *compiler.Source) error {
	if path == "" {
		return nil
	}

	content, e := os.ReadFile(path)
	if e == nil {
		*src = compiler.Source{Name: path, Content: content}
	}
	return e
}

func run(opts *options, stdout io.Writer, log *slog.Logger) error {
	mode, e := caseMode(opts.allowLowerCase)
	if e != nil {
		return e
	}

	in := compiler.DefaultInput(mode)
	in.Lenient = opts.lenient
	e = readSource(opts.tokens, &in.Tokens)
	if e == nil {
		e = readSource(opts.template, &in.Template)
	}
	if e == nil && opts.config != "" {
		in.Config, e = config.Load(opts.config)
	}
	if e != nil {
		return e
	}

	log.Debug("compiling", "tokens", in.Tokens.Name, "template", in.Template.Name, "mode", mode.String())
	out, e := compiler.Compile(in)
	if e != nil {
		return e
	}

	for _, x := range out.Weave.Transformations {
		log.Debug("substitution", "transformation", x.String(), "matches", x.Count)
	}
	for _, x := range out.Weave.Unmatched {
		log.Warn("substitution never matched", "transformation", x.String())
	}
	if out.Weave.CaseFlagRewrites == 0 {
		log.Warn("case flag constant not found in template", "constant", "allow_lower_case")
	}

	if !opts.quiet {
		fmt.Fprint(stdout, report.Render(out.Table))
	}

	for _, f := range out.Files() {
		path := filepath.Join(opts.outDir, filepath.FromSlash(f.Path))
		if e := writeFile(path, f.Content); e != nil {
			return e
		}

		log.Info("written", "path", path, "bytes", len(f.Content))
	}
	return nil
}
