package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/ava12/ibtok/internal/test"
	"github.com/ava12/ibtok/internal/words"
	"github.com/ava12/ibtok/restrict"
)

func classes() *restrict.Classes {
	return restrict.Classify(restrict.Sets{
		Standalone:     words.New("end", "goto", "print", "rem2"),
		TrailingLetter: words.New("end", "dsp", "rem2"),
		TrailingDigit:  words.New("end", "rem2"),
		LeadingInside:  words.New("to", "at"),
		Precedence:     words.New("rem", "color=", "print", "rem2"),
	})
}

func TestRender(t *testing.T) {
	cls := classes()
	samples := []struct {
		lexeme      string
		insensitive string
		sensitive   string
	}{
		{":", "':'", "':'"},
		{"$", "'$'", "'$'"},
		{"end", "/[Ee] *[Nn] *[Dd]/", "/E *N *D/"},
		{"to", "/[Tt] *[Oo]/", "/T *O/"},
		{"goto", "seq(choice('G','g'),choice('O','o'),choice('T','t'),choice('O','o'))", "seq('G','O','T','O')"},
		{"rem", "prec(1,seq(choice('R','r'),choice('E','e'),choice('M','m')))", "prec(1,seq('R','E','M'))"},
		{"color=", "prec(1,seq(choice('C','c'),choice('O','o'),choice('L','l'),choice('O','o'),choice('R','r'),'='))", "prec(1,seq('C','O','L','O','R','='))"},
		{"pr#", "seq(choice('P','p'),choice('R','r'),'#')", "seq('P','R','#')"},
		{"rem2", "prec(1,/[Rr] *[Ee] *[Mm] *2/)", "prec(1,/R *E *M *2/)"},
	}

	for _, s := range samples {
		test.ExpectString(t, s.insensitive, Render(s.lexeme, cls, CaseInsensitive))
		test.ExpectString(t, s.sensitive, Render(s.lexeme, cls, CaseSensitive))
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	cls := classes()
	for _, lx := range []string{"end", "print", "scrn(", "+"} {
		for _, m := range []Mode{CaseSensitive, CaseInsensitive} {
			test.ExpectString(t, Render(lx, cls, m), Render(lx, classes(), m))
		}
	}
}

func TestEscaping(t *testing.T) {
	test.ExpectString(t, `/[Ll] *[Ee] *[Nn] *\(/`, Regex("len(", CaseInsensitive))
	test.ExpectString(t, `/X *\$/`, Regex("x$", CaseSensitive))
	test.ExpectString(t, `/\/ *\*/`, Regex("/*", CaseSensitive))
	test.ExpectString(t, `/ *\*`, TextMate("/*", CaseSensitive))
	test.ExpectString(t, `[Ss] *[Cc] *[Rr] *[Nn] *\(`, TextMate("scrn(", CaseInsensitive))
	test.ExpectString(t, `'\''`, Literal("'"))
}

func accepts(t *testing.T, re, input string) bool {
	t.Helper()
	compiled, e := Compile("^(?:" + re + ")$")
	test.ExpectNoError(t, e)
	matched, e := compiled.MatchString(input)
	test.ExpectNoError(t, e)
	return matched
}

var (
	seqItemRe = regexp.MustCompile(`choice\('(.)','(.)'\)|'(.)'`)
)

// sequenceRegex converts rendered seq() body to equivalent regexp source.
func sequenceRegex(body string) string {
	body = strings.TrimSuffix(strings.TrimPrefix(body, "seq("), ")")
	var sb strings.Builder
	for _, m := range seqItemRe.FindAllStringSubmatch(body, -1) {
		if m[3] != "" {
			sb.WriteString(regexp.QuoteMeta(m[3]))
		} else {
			sb.WriteString("[" + m[1] + m[2] + "]")
		}
	}
	return sb.String()
}

func TestCaseModeProperty(t *testing.T) {
	for _, lx := range []string{"rem", "end", "notrace", "then", "color=", "scrn("} {
		upper := strings.ToUpper(lx)
		lower := strings.ToLower(lx)

		insensitive := TextMate(lx, CaseInsensitive)
		sensitive := TextMate(lx, CaseSensitive)
		test.Assert(t, accepts(t, insensitive, upper), "%s: expecting %q to match", insensitive, upper)
		test.Assert(t, accepts(t, insensitive, lower), "%s: expecting %q to match", insensitive, lower)
		test.Assert(t, accepts(t, sensitive, upper), "%s: expecting %q to match", sensitive, upper)
		test.Assert(t, !accepts(t, sensitive, lower), "%s: expecting %q not to match", sensitive, lower)

		insensitive = sequenceRegex(Sequence(lx, CaseInsensitive))
		sensitive = sequenceRegex(Sequence(lx, CaseSensitive))
		test.Assert(t, accepts(t, insensitive, upper), "%s: expecting %q to match", insensitive, upper)
		test.Assert(t, accepts(t, insensitive, lower), "%s: expecting %q to match", insensitive, lower)
		test.Assert(t, accepts(t, sensitive, upper), "%s: expecting %q to match", sensitive, upper)
		test.Assert(t, !accepts(t, sensitive, lower), "%s: expecting %q not to match", sensitive, lower)
	}
}

func TestRemRegex(t *testing.T) {
	re := TextMate("rem", CaseInsensitive)
	for _, s := range []string{"REM", "rem", "ReM", "R E M", "r  e m"} {
		test.Assert(t, accepts(t, re, s), "expecting %q to match %s", s, re)
	}
	for _, s := range []string{"RE", " REM", "REMM", "R-E-M"} {
		test.Assert(t, !accepts(t, re, s), "expecting %q not to match %s", s, re)
	}
}

func TestValidate(t *testing.T) {
	cls := classes()
	for _, lx := range []string{"end", "to", "rem", "rem2", "len(", ":", "'", "/"} {
		for _, m := range []Mode{CaseSensitive, CaseInsensitive} {
			body := Render(lx, cls, m)
			test.ExpectNoError(t, Validate(body))
		}
	}

	test.ExpectErrorCode(t, RegexError, Validate("prec(1,/*a/)"))
	test.ExpectErrorCode(t, RegexError, Validate("/(/"))
	test.ExpectErrorCode(t, UnbalancedError, Validate("prec(1,seq('A')"))
	test.ExpectErrorCode(t, UnbalancedError, Validate("seq('A'))"))
	test.ExpectErrorCode(t, UnbalancedError, Validate("seq('A)"))
	test.ExpectErrorCode(t, UnbalancedError, Validate("/abc"))
}

func TestRegexLiterals(t *testing.T) {
	literals := RegexLiterals(`choice(/[Aa] *[Tt]/,'/',seq('A','T'),/[/] */)`)
	test.ExpectInt(t, 2, len(literals))
	test.ExpectString(t, "[Aa] *[Tt]", literals[0])
	test.ExpectString(t, "[/] *", literals[1])
}
