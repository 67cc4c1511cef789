package table

import (
	"fmt"
	"strings"

	"github.com/ava12/ibtok"
)

// maxListedCodes limits the number of missing codes named in row count error.
const maxListedCodes = 8

const (
	RowCountError = ibtok.TableErrors + iota
	CodeOrderError
	RuleIdError
	MalformedRowError
)

func rowCountError(name string, got int, missing []int) *ibtok.Error {
	msg := fmt.Sprintf("token table %s: expecting %d rows, got %d (off by %d)", name, RowCount, got, got-RowCount)
	if len(missing) > 0 {
		hex := make([]string, 0, maxListedCodes+1)
		for i, c := range missing {
			if i == maxListedCodes {
				hex = append(hex, "...")
				break
			}
			hex = append(hex, fmt.Sprintf("%02x", c))
		}
		msg += ", missing codes: " + strings.Join(hex, " ")
	}
	return ibtok.NewError(RowCountError, msg, "", 0, 0)
}

func codeOrderError(t *Token, expected int, duplicate bool) *ibtok.Error {
	if duplicate {
		return ibtok.FormatErrorPos(t.Pos, CodeOrderError, "duplicate code 0x%02x, expecting 0x%02x", t.Code, expected)
	}
	return ibtok.FormatErrorPos(t.Pos, CodeOrderError, "code out of order: expecting 0x%02x, got 0x%02x", expected, t.Code)
}

func ruleIdError(t *Token) *ibtok.Error {
	return ibtok.FormatErrorPos(t.Pos, RuleIdError, "token rule id not valid identifier: %q", t.RuleID)
}

func malformedRowError(pos ibtok.SourcePos, msg string, params ...any) *ibtok.Error {
	return ibtok.FormatErrorPos(pos, MalformedRowError, msg, params...)
}
