package report

import (
	"strings"
	"unicode/utf8"

	"sales_ledger/internal/sales"
)

const (
	// CellWidth is the widest a name or buyer cell may render, in runes.
	CellWidth = 13
	// columnWidth is CellWidth plus the gutter.
	columnWidth = CellWidth + 2
	valueWidth  = 8
	currency    = "R$ "
	ellipsis    = "…"

	// EmptyTable is rendered instead of a table when there are no rows.
	EmptyTable = "Nenhum registro."
)

// FormatTable renders sales as a fixed-width table fenced for monospaced display.
func FormatTable(rows []sales.Sale) string {
	if len(rows) == 0 {
		return EmptyTable
	}

	var b strings.Builder
	b.WriteString("```text\n")
	b.WriteString(padRight("PRODUTO", columnWidth) + " " + padRight("COMPRADOR", columnWidth) + " VALOR\n")
	b.WriteString(strings.Repeat("-", columnWidth) + " " + strings.Repeat("-", columnWidth) + " " +
		strings.Repeat("-", len(currency)+valueWidth) + "\n")

	for _, s := range rows {
		buyer := s.Buyer
		if buyer == "" {
			buyer = "-"
		}
		b.WriteString(padRight(Truncate(s.Name, CellWidth), columnWidth))
		b.WriteString(" ")
		b.WriteString(padRight(Truncate(buyer, CellWidth), columnWidth))
		b.WriteString(" ")
		b.WriteString(currency + padLeft(Money(s.Value), valueWidth))
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}

// Truncate shortens s to width runes, ending in a single ellipsis when cut.
func Truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + ellipsis
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
