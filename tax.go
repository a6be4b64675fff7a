package main

import (
	"math"

	"github.com/shopspring/decimal"
)

// ThirdPillarThreshold is the income above which the third-pillar (Säule 3a)
// contribution is assumed and deducted in full. At exactly this income it is
// not deducted.
const ThirdPillarThreshold = 80000.0

// NeutralMultiplier is the municipal multiplier used for municipalities
// missing from the rate schedule (no bonus, no penalty)
const NeutralMultiplier = 100.0

// CalculateDeductions itemizes the deductions for a gross income.
// Negative incomes are treated as zero.
func CalculateDeductions(income float64, schedule DeductionSchedule) Deductions {
	income = clampIncome(income)

	professional := math.Min(income*schedule.ProfessionalExpenses, schedule.MaxProfessionalExpenses)

	// All-or-nothing, not prorated
	var thirdPillar float64
	if income > ThirdPillarThreshold {
		thirdPillar = schedule.ThirdPillar
	}

	d := Deductions{
		Standard:        schedule.Standard,
		Professional:    professional,
		HealthInsurance: schedule.HealthInsurance,
		ThirdPillar:     thirdPillar,
	}
	d.Total = d.Standard + d.Professional + d.HealthInsurance + d.ThirdPillar
	return d
}

// TaxableIncome returns gross income minus all deductions, floored at zero
func TaxableIncome(income float64, schedule DeductionSchedule) float64 {
	deductions := CalculateDeductions(income, schedule)
	return math.Max(0, clampIncome(income)-deductions.Total)
}

// FederalBracketContributions splits a taxable income across the brackets.
// Only brackets the income reaches are returned.
func FederalBracketContributions(taxable float64, brackets []TaxBracket) []BracketContribution {
	var out []BracketContribution
	for _, bracket := range brackets {
		if taxable <= bracket.LowerBound {
			break
		}

		// Only the portion inside the bracket is taxed at its rate
		taxed := math.Min(taxable-bracket.LowerBound, bracket.UpperBound-bracket.LowerBound)
		out = append(out, BracketContribution{
			Bracket: bracket,
			Taxed:   taxed,
			Tax:     taxed * bracket.Rate / 100,
		})
	}
	return out
}

// CalculateFederalTax calculates the federal tax owed on a taxable income
func CalculateFederalTax(taxable float64, brackets []TaxBracket) float64 {
	if taxable <= 0 {
		return 0
	}

	var totalTax float64
	for _, c := range FederalBracketContributions(taxable, brackets) {
		totalTax += c.Tax
	}
	return totalTax
}

// MunicipalMultiplier returns the multiplier (%) for a municipality.
// The municipal map wins over the cantonal multiplier list; unknown
// municipalities get NeutralMultiplier.
func MunicipalMultiplier(municipality string, rates RateSchedule) float64 {
	if m, ok := rates.Municipal[municipality]; ok {
		return m
	}
	for _, entry := range rates.Cantonal.Multipliers {
		if entry.Municipality == municipality {
			return entry.Multiplier
		}
	}
	return NeutralMultiplier
}

// GetMarginalRate returns the federal marginal rate (%) for a taxable income
func GetMarginalRate(taxable float64, brackets []TaxBracket) float64 {
	for _, bracket := range brackets {
		if taxable >= bracket.LowerBound && taxable < bracket.UpperBound {
			return bracket.Rate
		}
	}
	// If above all brackets, return the highest rate
	if len(brackets) > 0 {
		return brackets[len(brackets)-1].Rate
	}
	return 0
}

// clampIncome taxes negative and non-finite incomes as zero
func clampIncome(income float64) float64 {
	if math.IsNaN(income) || math.IsInf(income, 0) || income < 0 {
		return 0
	}
	return income
}

// ComputeTaxDetail runs the full calculation and keeps the intermediate values
func ComputeTaxDetail(income float64, municipality string, data TaxData) TaxDetail {
	gross := clampIncome(income)

	deductions := CalculateDeductions(gross, data.Deductions)
	taxable := math.Max(0, gross-deductions.Total)
	brackets := FederalBracketContributions(taxable, data.TaxRates.Federal)

	var federal float64
	for _, c := range brackets {
		federal += c.Tax
	}

	// Cantonal tax is derived from the federal amount, not from its own brackets
	cantonal := federal * (data.TaxRates.Cantonal.BaseRate / 100)
	multiplier := MunicipalMultiplier(municipality, data.TaxRates)
	municipal := cantonal * (multiplier / 100)
	total := federal + cantonal + municipal

	var effective float64
	if gross > 0 {
		effective = total / gross * 100
	}

	return TaxDetail{
		Income:        gross,
		Municipality:  municipality,
		Multiplier:    multiplier,
		Deductions:    deductions,
		TaxableIncome: taxable,
		Brackets:      brackets,
		MarginalRate:  GetMarginalRate(taxable, data.TaxRates.Federal),
		Breakdown: TaxBreakdown{
			Federal:       roundTo(federal, 0),
			Cantonal:      roundTo(cantonal, 0),
			Municipal:     roundTo(municipal, 0),
			Total:         roundTo(total, 0),
			EffectiveRate: roundTo(effective, 1),
		},
	}
}

// ComputeTax computes the rounded federal, cantonal and municipal tax and the
// effective rate for an income living in the given municipality
func ComputeTax(income float64, municipality string, data TaxData) TaxBreakdown {
	return ComputeTaxDetail(income, municipality, data).Breakdown
}

// ComputePersonaTax computes the breakdown for a persona's income and municipality
func ComputePersonaTax(p Persona, data TaxData) TaxBreakdown {
	return ComputeTax(p.Income, p.Municipality, data)
}

// CompareTax computes one comparison row per persona, in the given order
func CompareTax(personas []Persona, data TaxData) []TaxComparison {
	rows := make([]TaxComparison, 0, len(personas))
	for _, p := range personas {
		rows = append(rows, TaxComparison{Persona: p, Breakdown: ComputePersonaTax(p, data)})
	}
	return rows
}

// ComponentShares returns each component's share of the total tax (%).
// All shares are zero when no tax is owed.
func ComponentShares(b TaxBreakdown) (federal, cantonal, municipal float64) {
	if b.Total <= 0 {
		return 0, 0, 0
	}
	return b.Federal / b.Total * 100, b.Cantonal / b.Total * 100, b.Municipal / b.Total * 100
}

// BurdenLevel describes how much of the income an effective rate represents
func BurdenLevel(effectiveRate float64) string {
	switch {
	case effectiveRate > 15:
		return "a significant portion"
	case effectiveRate > 10:
		return "a moderate portion"
	default:
		return "a relatively small portion"
	}
}

// roundTo rounds half away from zero to the given number of decimal places.
// decimal avoids binary artefacts such as 2.675 rounding down.
func roundTo(value float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(value).Round(places).Float64()
	return f
}
