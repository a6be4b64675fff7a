package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Console palette, matching the web pages
var (
	navy  = lipgloss.Color("#1D3557")
	blue  = lipgloss.Color("#457B9D")
	cream = lipgloss.Color("#F1FAEE")
	red   = lipgloss.Color("#E63946")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(cream).Background(navy).Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(blue)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(navy).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	accentStyle = lipgloss.NewStyle().Bold(true).Foreground(red).Padding(0, 1)
)

// FormatCHF formats an amount as whole francs with thousands separators,
// e.g. "CHF 85,000"
func FormatCHF(amount float64) string {
	rounded := math.Round(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	digits := strconv.FormatFloat(rounded, 'f', 0, 64)
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return "CHF " + sign + sb.String()
}

// FormatPercent formats a value that is already a percentage, dropping
// trailing zeros: 119 -> "119%", 3.9 -> "3.9%"
func FormatPercent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(blue)).
		Headers(headers...)
}

// PrintTaxDetail writes a breakdown with its deductions and bracket steps
func PrintTaxDetail(w io.Writer, title string, d TaxDetail) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Income:        "), FormatCHF(d.Income))
	fmt.Fprintf(w, "%s %s (%s)\n", labelStyle.Render("Municipality:  "), d.Municipality, FormatPercent(d.Multiplier))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Deductions:    "), FormatCHF(d.Deductions.Total))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Taxable income:"), FormatCHF(d.TaxableIncome))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Marginal rate: "), FormatPercent(d.MarginalRate))
	fmt.Fprintln(w)

	ded := newTable("Deduction", "Amount").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Row("Standard", FormatCHF(d.Deductions.Standard)).
		Row("Professional expenses", FormatCHF(d.Deductions.Professional)).
		Row("Health insurance", FormatCHF(d.Deductions.HealthInsurance)).
		Row("Third pillar", FormatCHF(d.Deductions.ThirdPillar)).
		Row("Total", FormatCHF(d.Deductions.Total))
	fmt.Fprintln(w, ded.Render())

	if len(d.Brackets) > 0 {
		brackets := newTable("Bracket", "Rate", "Taxed", "Federal tax").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		for _, b := range d.Brackets {
			brackets.Row(
				fmt.Sprintf("%s - %s", FormatCHF(b.Bracket.LowerBound), FormatCHF(b.Bracket.UpperBound)),
				FormatPercent(b.Bracket.Rate),
				FormatCHF(b.Taxed),
				fmt.Sprintf("%.2f", b.Tax),
			)
		}
		fmt.Fprintln(w, brackets.Render())
	}

	b := d.Breakdown
	components := newTable("Component", "Amount").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 3:
				return accentStyle
			}
			return cellStyle
		}).
		Row("Federal", FormatCHF(b.Federal)).
		Row("Cantonal", FormatCHF(b.Cantonal)).
		Row("Municipal", FormatCHF(b.Municipal)).
		Row("Total", FormatCHF(b.Total)).
		Row("Effective rate", FormatPercent(b.EffectiveRate))
	fmt.Fprintln(w, components.Render())
}

// PrintComparison writes the cross-persona comparison table. The highlighted
// persona id, if any, is drawn in the accent color.
func PrintComparison(w io.Writer, rows []TaxComparison, highlight string) {
	t := newTable("Persona", "Income", "Municipality", "Multiplier", "Total Tax", "Effective Rate")
	for _, r := range rows {
		t.Row(
			r.Persona.Name,
			FormatCHF(r.Persona.Income),
			r.Persona.Municipality,
			FormatPercent(r.Persona.TaxMultiplier),
			FormatCHF(r.Breakdown.Total),
			FormatPercent(r.Breakdown.EffectiveRate),
		)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row >= 0 && row < len(rows) && rows[row].Persona.ID == highlight {
			return accentStyle
		}
		return cellStyle
	})

	fmt.Fprintln(w, titleStyle.Render("Tax Burden Across Personas"))
	fmt.Fprintln(w, t.Render())
}
