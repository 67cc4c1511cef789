// Package config contains compiler configuration: word restriction sets and grammar conventions.
//
// The default configuration for Apple II Integer BASIC is embedded.
// User files in TOML or YAML format (detected by extension) override default values key by key.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ava12/ibtok"
	"github.com/ava12/ibtok/internal/words"
	"github.com/ava12/ibtok/restrict"
)

const (
	ParseError = ibtok.ConfigErrors + iota
	InvalidConfigError
)

//go:embed integerbasic.toml
var defaultConfig []byte

// DefaultName is the source name of embedded configuration.
const DefaultName = "integerbasic.toml"

// Format is configuration file format.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// Restrictions contains reserved word sets.
type Restrictions struct {
	Standalone               []string `toml:"standalone" yaml:"standalone"`
	LeadingInside            []string `toml:"leading_inside" yaml:"leading_inside"`
	TrailingLetter           []string `toml:"trailing_letter" yaml:"trailing_letter"`
	TrailingDigit            []string `toml:"trailing_digit" yaml:"trailing_digit"`
	StringTrailingDigitExtra []string `toml:"string_trailing_digit_extra" yaml:"string_trailing_digit_extra"`
}

// Conflicts describes conflict declaration synthesis.
type Conflicts struct {
	Categories  []string `toml:"categories" yaml:"categories"`
	NullSuffix  string   `toml:"null_suffix" yaml:"null_suffix"`
	Identifiers []string `toml:"identifiers" yaml:"identifiers"`
}

// HighlightRule assigns a capture name to rules with given prefix.
type HighlightRule struct {
	Prefix  string `toml:"prefix" yaml:"prefix"`
	Capture string `toml:"capture" yaml:"capture"`

	// ExcludeScope skips tokens whose enclosing rule contains this text.
	ExcludeScope string `toml:"exclude_scope" yaml:"exclude_scope"`
}

// Highlights describes highlight query generation.
type Highlights struct {
	Preamble []string        `toml:"preamble" yaml:"preamble"`
	Rules    []HighlightRule `toml:"rules" yaml:"rules"`
}

// Config is compiler configuration.
type Config struct {
	Language           string       `toml:"language" yaml:"language"`
	Sentinel           string       `toml:"sentinel" yaml:"sentinel"`
	Precedence         []string     `toml:"precedence" yaml:"precedence"`
	CommentWord        string       `toml:"comment_word" yaml:"comment_word"`
	ErrorSequenceWords []string     `toml:"error_sequence_words" yaml:"error_sequence_words"`
	Restrictions       Restrictions `toml:"restrictions" yaml:"restrictions"`
	Conflicts          Conflicts    `toml:"conflicts" yaml:"conflicts"`
	Highlights         Highlights   `toml:"highlights" yaml:"highlights"`
}

// Default returns embedded Integer BASIC configuration.
func Default() *Config {
	c := &Config{}
	if e := decode(c, DefaultName, defaultConfig, FormatTOML); e != nil {
		panic(e)
	}
	return c
}

// DetectFormat returns configuration format by file name extension, TOML by default.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads configuration file over the default configuration and validates the result.
func Load(path string) (*Config, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, e
	}

	return LoadBytes(path, content, DetectFormat(path))
}

// LoadBytes decodes configuration content over the default configuration and validates the result.
func LoadBytes(name string, content []byte, f Format) (*Config, error) {
	c := Default()
	if e := decode(c, name, content, f); e != nil {
		return nil, e
	}

	if e := c.Validate(); e != nil {
		return nil, e
	}

	return c, nil
}

func decode(c *Config, name string, content []byte, f Format) error {
	var e error
	if f == FormatYAML {
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		e = dec.Decode(c)
		if errors.Is(e, io.EOF) {
			e = nil
		}
	} else {
		var meta toml.MetaData
		meta, e = toml.Decode(string(content), &Config{})
		if e == nil && len(meta.Undecoded()) > 0 {
			return ibtok.FormatError(ParseError, "%s: unknown key %q", name, meta.Undecoded()[0].String())
		}
		if e == nil {
			c.resetArrays(meta.IsDefined)
			_, e = toml.Decode(string(content), c)
		}
	}

	if e != nil {
		return ibtok.FormatError(ParseError, "%s: %s", name, e.Error())
	}
	return nil
}

// resetArrays drops default values of arrays defined in user file.
// TOML decoder reuses existing slice elements, so a table missing some keys would inherit them.
func (c *Config) resetArrays(defined func(key ...string) bool) {
	lists := []struct {
		key  []string
		list *[]string
	}{
		{[]string{"precedence"}, &c.Precedence},
		{[]string{"error_sequence_words"}, &c.ErrorSequenceWords},
		{[]string{"restrictions", "standalone"}, &c.Restrictions.Standalone},
		{[]string{"restrictions", "leading_inside"}, &c.Restrictions.LeadingInside},
		{[]string{"restrictions", "trailing_letter"}, &c.Restrictions.TrailingLetter},
		{[]string{"restrictions", "trailing_digit"}, &c.Restrictions.TrailingDigit},
		{[]string{"restrictions", "string_trailing_digit_extra"}, &c.Restrictions.StringTrailingDigitExtra},
		{[]string{"conflicts", "categories"}, &c.Conflicts.Categories},
		{[]string{"conflicts", "identifiers"}, &c.Conflicts.Identifiers},
		{[]string{"highlights", "preamble"}, &c.Highlights.Preamble},
	}
	for _, l := range lists {
		if defined(l.key...) {
			*l.list = nil
		}
	}

	if defined("highlights", "rules") {
		c.Highlights.Rules = nil
	}
}

func invalid(msg string, params ...any) *ibtok.Error {
	return ibtok.FormatError(InvalidConfigError, msg, params...)
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Language == "" {
		return invalid("language name is empty")
	}

	r, size := utf8.DecodeRuneInString(c.Sentinel)
	if size == 0 || size != len(c.Sentinel) || !unicode.IsLetter(r) {
		return invalid("sentinel must be a single letter, got %q", c.Sentinel)
	}

	required := []struct {
		name  string
		words []string
	}{
		{"standalone", c.Restrictions.Standalone},
		{"leading_inside", c.Restrictions.LeadingInside},
		{"trailing_letter", c.Restrictions.TrailingLetter},
		{"trailing_digit", c.Restrictions.TrailingDigit},
	}
	for _, set := range required {
		if len(set.words) == 0 {
			return invalid("restriction set %s is empty", set.name)
		}
		for _, w := range set.words {
			if !isWord(w) {
				return invalid("restriction set %s: %q is not a word", set.name, w)
			}
		}
	}

	for _, w := range c.Precedence {
		if utf8.RuneCountInString(w) < 2 {
			return invalid("precedence word %q must have at least 2 characters", w)
		}
	}

	if !isWord(c.CommentWord) {
		return invalid("comment word %q is not a word", c.CommentWord)
	}

	for _, hr := range c.Highlights.Rules {
		if hr.Prefix == "" || hr.Capture == "" {
			return invalid("highlight rule must have both prefix and capture, got %q -> %q", hr.Prefix, hr.Capture)
		}
	}

	return nil
}

func isWord(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Sets returns restriction sets.
func (c *Config) Sets() restrict.Sets {
	r := c.Restrictions
	return restrict.Sets{
		Standalone:               words.New(r.Standalone...),
		LeadingInside:            words.New(r.LeadingInside...),
		TrailingLetter:           words.New(r.TrailingLetter...),
		TrailingDigit:            words.New(r.TrailingDigit...),
		StringTrailingDigitExtra: words.New(r.StringTrailingDigitExtra...),
		Precedence:               words.New(c.Precedence...),
	}
}

// Classes returns classified restriction sets.
func (c *Config) Classes() *restrict.Classes {
	return restrict.Classify(c.Sets())
}
