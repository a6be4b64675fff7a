package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDFTaxReport builds the downloadable tax report for one persona
type PDFTaxReport struct {
	pdf *fpdf.Fpdf
	p   *Perspective
	// tr converts UTF-8 to the cp1252 encoding the core fonts expect
	// (Küsnacht, Zürich)
	tr func(string) string
}

// Page layout constants (A4 in mm)
const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// GenerateTaxPDFReport creates a PDF with the persona's profile, deductions,
// bracket-by-bracket federal tax, components and the persona comparison
func GenerateTaxPDFReport(p *Perspective) ([]byte, error) {
	report := &PDFTaxReport{
		pdf: fpdf.New("P", "mm", "A4", ""),
		p:   p,
	}
	report.tr = report.pdf.UnicodeTranslatorFromDescriptor("")

	report.pdf.SetMargins(marginLeft, marginTop, marginRight)
	report.pdf.SetAutoPageBreak(true, marginBottom)
	report.pdf.SetTitle(report.tr(p.Persona.Name+" - Tax Report"), false)
	report.pdf.SetCreator(appName, false)

	report.pdf.AddPage()
	report.addTitle()
	report.addProfile()
	report.addDeductions()
	report.addBrackets()
	report.addComponents()
	report.addComparison()
	report.addFooterNote()

	var buf bytes.Buffer
	if err := report.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFTaxReport) addTitle() {
	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.SetTextColor(29, 53, 87)
	r.pdf.CellFormat(contentWidth, 12, "Zurich Perspectives", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "", 14)
	r.pdf.SetTextColor(69, 123, 157)
	r.pdf.CellFormat(contentWidth, 8, r.tr("Tax report for "+r.p.Persona.FullName), "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(contentWidth, 7, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")
	r.pdf.Ln(6)
}

func (r *PDFTaxReport) addProfile() {
	r.drawSectionHeader("Profile")
	persona := r.p.Persona
	widths := []float64{60, contentWidth - 60}
	rows := [][]string{
		{"Name", persona.FullName},
		{"Occupation", persona.Occupation},
		{"Age", fmt.Sprintf("%d", persona.Age)},
		{"Municipality", persona.Municipality},
		{"Annual income", FormatCHF(persona.Income)},
		{"Municipal multiplier", FormatPercent(r.p.Detail.Multiplier)},
	}
	for _, row := range rows {
		r.drawTableRow(row, widths, false)
	}
	r.pdf.Ln(6)
}

func (r *PDFTaxReport) addDeductions() {
	r.drawSectionHeader("Deductions")
	d := r.p.Detail.Deductions
	widths := []float64{contentWidth - 50, 50}
	r.drawTableHeader([]string{"Deduction", "Amount"}, widths)
	r.drawTableRow([]string{"Standard", FormatCHF(d.Standard)}, widths, false)
	r.drawTableRow([]string{"Professional expenses", FormatCHF(d.Professional)}, widths, false)
	r.drawTableRow([]string{"Health insurance", FormatCHF(d.HealthInsurance)}, widths, false)
	thirdPillar := FormatCHF(d.ThirdPillar)
	if d.ThirdPillar == 0 {
		thirdPillar = fmt.Sprintf("%s (income not above %s)", thirdPillar, FormatCHF(ThirdPillarThreshold))
	}
	r.drawTableRow([]string{"Third pillar", thirdPillar}, widths, false)
	r.drawTableRow([]string{"Total deductions", FormatCHF(d.Total)}, widths, true)
	r.drawTableRow([]string{"Taxable income", FormatCHF(r.p.Detail.TaxableIncome)}, widths, true)
	r.pdf.Ln(6)
}

func (r *PDFTaxReport) addBrackets() {
	r.drawSectionHeader("Federal Tax by Bracket")
	widths := []float64{70, 30, 40, contentWidth - 140}
	r.drawTableHeader([]string{"Bracket", "Rate", "Taxed", "Tax"}, widths)

	total := 0.0
	for _, b := range r.p.Detail.Brackets {
		r.drawTableRow([]string{
			fmt.Sprintf("%s - %s", FormatCHF(b.Bracket.LowerBound), FormatCHF(b.Bracket.UpperBound)),
			FormatPercent(b.Bracket.Rate),
			FormatCHF(b.Taxed),
			fmt.Sprintf("%.2f", b.Tax),
		}, widths, false)
		total += b.Tax
	}
	if len(r.p.Detail.Brackets) == 0 {
		r.drawTableRow([]string{"No taxable income", "", "", "0.00"}, widths, false)
	}
	r.drawTableRow([]string{"Federal tax", "", "", fmt.Sprintf("%.2f", total)}, widths, true)

	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(100, 100, 100)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Marginal rate: %s", FormatPercent(r.p.Detail.MarginalRate)), "", 1, "L", false, 0, "")
	r.pdf.Ln(4)
}

func (r *PDFTaxReport) addComponents() {
	r.drawSectionHeader("Tax Components")
	t := r.p.Tax
	federal, cantonal, municipal := ComponentShares(t)
	widths := []float64{contentWidth - 90, 50, 40}
	r.drawTableHeader([]string{"Component", "Amount", "Share"}, widths)
	r.drawTableRow([]string{"Federal", FormatCHF(t.Federal), fmt.Sprintf("%.1f%%", federal)}, widths, false)
	r.drawTableRow([]string{"Cantonal", FormatCHF(t.Cantonal), fmt.Sprintf("%.1f%%", cantonal)}, widths, false)
	r.drawTableRow([]string{"Municipal", FormatCHF(t.Municipal), fmt.Sprintf("%.1f%%", municipal)}, widths, false)
	r.drawTableRow([]string{"Total", FormatCHF(t.Total), ""}, widths, true)
	r.drawTableRow([]string{"Effective rate", FormatPercent(t.EffectiveRate), ""}, widths, true)

	r.pdf.Ln(3)
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	analysis := fmt.Sprintf("%s's effective tax rate of %s means that %s of income goes to taxes.",
		r.p.Persona.Name, FormatPercent(t.EffectiveRate), r.p.BurdenLevel())
	r.pdf.MultiCell(contentWidth, 5, r.tr(analysis), "", "L", false)
	r.pdf.Ln(6)
}

func (r *PDFTaxReport) addComparison() {
	r.drawSectionHeader("Compare Tax Burden Across Personas")
	widths := []float64{30, 35, 40, 25, 30, contentWidth - 160}
	r.drawTableHeader([]string{"Persona", "Income", "Municipality", "Multiplier", "Total Tax", "Eff. Rate"}, widths)
	for _, row := range r.p.Comparison() {
		r.drawTableRow([]string{
			row.Persona.Name,
			FormatCHF(row.Persona.Income),
			row.Persona.Municipality,
			FormatPercent(row.Persona.TaxMultiplier),
			FormatCHF(row.Breakdown.Total),
			FormatPercent(row.Breakdown.EffectiveRate),
		}, widths, row.Persona.ID == r.p.Persona.ID)
	}
}

func (r *PDFTaxReport) addFooterNote() {
	r.pdf.Ln(10)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5,
		"Cantonal tax is derived from the federal amount using the cantonal base rate, and municipal tax from "+
			"the cantonal amount using the municipality multiplier. Figures are illustrative and not tax advice.", "", "C", false)
}

// Helper functions

func (r *PDFTaxReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(29, 53, 87)
	r.pdf.CellFormat(contentWidth, 9, r.tr(title), "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(29, 53, 87)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(4)
}

func (r *PDFTaxReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(29, 53, 87)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, r.tr(header), "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFTaxReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)

	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(241, 250, 238)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, r.tr(cell), "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}
