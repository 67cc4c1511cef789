// Package report renders human readable compilation diagnostics: token listing and lexeme length histogram.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/ava12/ibtok/table"
)

var (
	ColorHeader = lipgloss.Color("#8B5CF6")
	ColorMuted  = lipgloss.Color("#6B7280")
	ColorText   = lipgloss.Color("#F8FAFC")

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorHeader).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorHeader).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

func newTable(headers ...string) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(BorderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
}

// Tokens returns listing of tokens having rules.
func Tokens(tokens []table.Token) string {
	t := newTable("code", "lexeme", "rule", "scope", "pattern")
	count := 0
	for _, tok := range tokens {
		if !tok.HasRule() {
			continue
		}

		count++
		t.Row(fmt.Sprintf("%02x", tok.Code), tok.Lexeme, tok.RuleID, tok.Scope.String(), strings.Join(tok.Pattern, "."))
	}
	return TitleStyle.Render(fmt.Sprintf("Tokens: %d", count)) + "\n" + t.Render()
}

// Histogram returns lexeme length histogram, hist[i] is the number of lexemes of length i.
func Histogram(hist []int) string {
	t := newTable("length", "count")
	for l, n := range hist {
		t.Row(strconv.Itoa(l), strconv.Itoa(n))
	}
	return TitleStyle.Render("Token Histogram") + "\n" + t.Render()
}

// Unused returns the list of codes having no lexeme.
func Unused(tab *table.Table) string {
	unused := tab.Unused()
	hex := make([]string, 0, unused.Len())
	for _, c := range unused.ToSlice() {
		hex = append(hex, fmt.Sprintf("%02x", c))
	}
	return TitleStyle.Render(fmt.Sprintf("Unused codes: %d", unused.Len())) + " " + strings.Join(hex, " ")
}

// Render returns complete report for token table.
func Render(tab *table.Table) string {
	return Tokens(tab.Tokens()) + "\n\n" + Histogram(tab.Histogram()) + "\n" + Unused(tab) + "\n"
}
