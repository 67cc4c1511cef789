package render

import (
	"github.com/dlclark/regexp2"

	"github.com/ava12/ibtok"
)

const (
	RegexError = ibtok.RenderErrors + iota
	UnbalancedError
)

// Compile compiles JavaScript regexp source.
func Compile(re string) (*regexp2.Regexp, error) {
	return regexp2.Compile(re, regexp2.ECMAScript)
}

// RegexLiterals returns sources of all regexp literals in rule body.
// Contents of string literals are skipped.
func RegexLiterals(body string) []string {
	result := make([]string, 0)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\'', '"':
			i = skipString(body, i)
		case '/':
			end := regexEnd(body, i+1)
			result = append(result, body[i+1:end])
			i = end
		}
	}
	return result
}

func skipString(body string, start int) int {
	q := body[start]
	for i := start + 1; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return len(body)
}

func regexEnd(body string, start int) int {
	class := false
	for i := start; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '[':
			class = true
		case ']':
			class = false
		case '/':
			if !class {
				return i
			}
		}
	}
	return len(body)
}

// Validate checks structural well-formedness of rule body:
// balanced parentheses outside literals and valid regexp literals.
func Validate(body string) error {
	depth := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\'', '"':
			i = skipString(body, i)
		case '/':
			i = regexEnd(body, i+1)
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth < 0 || i >= len(body) {
			return ibtok.FormatError(UnbalancedError, "unbalanced rule body %s", body)
		}
	}
	if depth != 0 {
		return ibtok.FormatError(UnbalancedError, "unbalanced rule body %s", body)
	}

	for _, re := range RegexLiterals(body) {
		if _, e := Compile(re); e != nil {
			return ibtok.FormatError(RegexError, "bad regexp /%s/: %s", re, e.Error())
		}
	}
	return nil
}
