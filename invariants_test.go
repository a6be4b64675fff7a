package main

import (
	"math"
	"testing"
)

// Mathematical Invariants Test Suite
//
// Properties that must hold for any income rather than specific values.
// The third-pillar deduction switches on above CHF 80,000, so totals are
// only monotonic on each side of that threshold.

var invariantMunicipalities = []string{"Zurich City", "Schlieren", "Küsnacht", "Winterthur", "Atlantis"}

// incomesBetween returns lo, lo+step, ... up to and including hi
func incomesBetween(lo, hi, step float64) []float64 {
	var out []float64
	for v := lo; v <= hi; v += step {
		out = append(out, v)
	}
	return out
}

// =============================================================================
// Tax Calculation Invariants
// =============================================================================

func TestInvariant_TaxMonotonicBelowThreshold(t *testing.T) {
	data := loadTestTaxData(t)

	for _, municipality := range invariantMunicipalities {
		var previous float64
		for _, income := range incomesBetween(0, ThirdPillarThreshold, 250) {
			total := ComputeTax(income, municipality, data).Total
			if total < previous {
				t.Errorf("%s: tax decreased from CHF %.0f to CHF %.0f at income CHF %.0f",
					municipality, previous, total, income)
			}
			previous = total
		}
	}
}

func TestInvariant_TaxMonotonicAboveThreshold(t *testing.T) {
	data := loadTestTaxData(t)

	incomes := append([]float64{ThirdPillarThreshold + 1}, incomesBetween(81000, 2000000, 3000)...)
	for _, municipality := range invariantMunicipalities {
		var previous float64
		for _, income := range incomes {
			total := ComputeTax(income, municipality, data).Total
			if total < previous {
				t.Errorf("%s: tax decreased from CHF %.0f to CHF %.0f at income CHF %.0f",
					municipality, previous, total, income)
			}
			previous = total
		}
	}
}

func TestInvariant_ThirdPillarCliff(t *testing.T) {
	// Crossing the threshold adds a full 6,800 deduction, so tax drops
	data := loadTestTaxData(t)

	at := ComputeTax(ThirdPillarThreshold, "Zurich City", data).Total
	above := ComputeTax(ThirdPillarThreshold+1, "Zurich City", data).Total
	if above >= at {
		t.Errorf("expected tax to drop across the threshold, got CHF %.0f then CHF %.0f", at, above)
	}
}

func TestInvariant_ComponentsAddUp(t *testing.T) {
	// Each component is rounded on its own, so the sum may be off by one
	data := loadTestTaxData(t)

	for _, municipality := range invariantMunicipalities {
		for _, income := range incomesBetween(0, 1000000, 7919) {
			b := ComputeTax(income, municipality, data)
			if diff := math.Abs(b.Total - (b.Federal + b.Cantonal + b.Municipal)); diff > 1.5 {
				t.Errorf("%s CHF %.0f: components %v do not add up to total %.0f",
					municipality, income, b, b.Total)
			}
		}
	}
}

func TestInvariant_TaxNeverExceedsIncome(t *testing.T) {
	data := loadTestTaxData(t)

	for _, income := range []float64{1000, 10000, 50000, 100000, 750000, 5000000} {
		b := ComputeTax(income, "Winterthur", data)
		if b.Total > income {
			t.Errorf("Tax CHF %.0f exceeds income CHF %.0f", b.Total, income)
		}
		if b.EffectiveRate < 0 || b.EffectiveRate > 100 {
			t.Errorf("Effective rate %.1f%% out of range at income CHF %.0f", b.EffectiveRate, income)
		}
	}
}

func TestInvariant_ZeroIncomeZeroTax(t *testing.T) {
	data := loadTestTaxData(t)

	for _, municipality := range invariantMunicipalities {
		b := ComputeTax(0, municipality, data)
		if b != (TaxBreakdown{}) {
			t.Errorf("%s: expected no tax at zero income, got %+v", municipality, b)
		}
	}
}

func TestInvariant_MunicipalOrdering(t *testing.T) {
	// Same income: a higher multiplier never yields a lower municipal tax
	data := loadTestTaxData(t)

	for _, income := range []float64{55000, 85000, 250000, 750000} {
		// Kilchberg 72%, unknown 100%, Winterthur 125%
		low := ComputeTax(income, "Kilchberg", data)
		neutral := ComputeTax(income, "Atlantis", data)
		high := ComputeTax(income, "Winterthur", data)
		if low.Municipal > neutral.Municipal || neutral.Municipal > high.Municipal {
			t.Errorf("CHF %.0f: municipal tax not ordered by multiplier: %.0f, %.0f, %.0f",
				income, low.Municipal, neutral.Municipal, high.Municipal)
		}
		if low.Federal != high.Federal || low.Cantonal != high.Cantonal {
			t.Errorf("CHF %.0f: federal and cantonal tax should not depend on the municipality", income)
		}
	}
}

func TestInvariant_CantonalFollowsFederal(t *testing.T) {
	data := loadTestTaxData(t)
	base := data.TaxRates.Cantonal.BaseRate / 100

	for _, income := range incomesBetween(20000, 900000, 11111) {
		d := ComputeTaxDetail(income, "Zurich City", data)
		var federal float64
		for _, c := range d.Brackets {
			federal += c.Tax
		}
		if math.Abs(d.Breakdown.Cantonal-federal*base) > 0.5 {
			t.Errorf("CHF %.0f: cantonal %.0f is not %.0f%% of federal %.2f",
				income, d.Breakdown.Cantonal, base*100, federal)
		}
	}
}

func TestInvariant_Deterministic(t *testing.T) {
	data := loadTestTaxData(t)

	for _, income := range []float64{0, 41900, 85000, 750000} {
		first := ComputeTaxDetail(income, "Schlieren", data)
		second := ComputeTaxDetail(income, "Schlieren", data)
		if first.Breakdown != second.Breakdown {
			t.Errorf("CHF %.0f: results differ between calls: %+v vs %+v", income, first.Breakdown, second.Breakdown)
		}
	}
}
