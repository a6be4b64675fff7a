package main

import (
	"fmt"
	"strings"
)

// ValidationError is a single problem found in a fixture document
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationErrors) add(field, format string, args ...any) {
	*v = append(*v, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// orNil returns nil for an empty list so callers can compare against nil
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// validateMoney checks if amount is non-negative and reasonable
func validateMoney(errs *ValidationErrors, amount float64, fieldName string) {
	if amount < 0 {
		errs.add(fieldName, "amount cannot be negative (got %.2f)", amount)
	}
}

// validateFraction checks a share expressed as a decimal between 0 and 1
func validateFraction(errs *ValidationErrors, rate float64, fieldName string) {
	if rate < 0 || rate > 1.0 {
		errs.add(fieldName, "fraction must be between 0 and 1 (got %g)", rate)
	}
}

// ValidateTaxData checks the rate and deduction schedules before any tax is
// computed. The calculator assumes every rule here holds.
func ValidateTaxData(data TaxData) error {
	var errs ValidationErrors

	brackets := data.TaxRates.Federal
	if len(brackets) == 0 {
		errs.add("taxRates.federal", "at least one bracket is required")
	}
	for i, b := range brackets {
		field := fmt.Sprintf("taxRates.federal[%d]", i)
		if i == 0 && b.LowerBound != 0 {
			errs.add(field, "first bracket must start at 0 (got %g)", b.LowerBound)
		}
		if i > 0 && b.LowerBound != brackets[i-1].UpperBound {
			errs.add(field, "lowerBound %g does not continue previous upperBound %g", b.LowerBound, brackets[i-1].UpperBound)
		}
		if b.UpperBound <= b.LowerBound {
			errs.add(field, "upperBound %g must exceed lowerBound %g", b.UpperBound, b.LowerBound)
		}
		if b.Rate < 0 || b.Rate > 100 {
			errs.add(field, "rate must be between 0 and 100 (got %g)", b.Rate)
		}
	}

	if data.TaxRates.Cantonal.BaseRate <= 0 {
		errs.add("taxRates.cantonal.baseRate", "must be positive (got %g)", data.TaxRates.Cantonal.BaseRate)
	}
	for i, m := range data.TaxRates.Cantonal.Multipliers {
		field := fmt.Sprintf("taxRates.cantonal.multipliers[%d]", i)
		if strings.TrimSpace(m.Municipality) == "" {
			errs.add(field, "municipality name is required")
		}
		if m.Multiplier < 0 {
			errs.add(field, "multiplier cannot be negative (got %g)", m.Multiplier)
		}
	}
	for name, m := range data.TaxRates.Municipal {
		if m < 0 {
			errs.add("taxRates.municipal."+name, "multiplier cannot be negative (got %g)", m)
		}
	}

	d := data.Deductions
	validateMoney(&errs, d.Standard, "deductions.standard")
	validateFraction(&errs, d.ProfessionalExpenses, "deductions.professionalExpenses")
	validateMoney(&errs, d.MaxProfessionalExpenses, "deductions.maxProfessionalExpenses")
	validateMoney(&errs, d.HealthInsurance, "deductions.healthInsurance")
	validateMoney(&errs, d.ThirdPillar, "deductions.thirdPillar")

	return errs.orNil()
}

// ValidatePersonas checks that every persona can be addressed and taxed
func ValidatePersonas(personas []Persona) error {
	var errs ValidationErrors

	if len(personas) == 0 {
		errs.add("personas", "at least one persona is required")
	}
	seen := make(map[string]bool)
	for i, p := range personas {
		field := fmt.Sprintf("personas[%d]", i)
		if p.ID == "" {
			errs.add(field+".id", "id is required")
		} else if seen[p.ID] {
			errs.add(field+".id", "duplicate id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Name == "" {
			errs.add(field+".name", "name is required")
		}
		validateMoney(&errs, p.Income, field+".income")
	}

	return errs.orNil()
}

// ValidateEngagementData checks the barrier impact scores used for the 0-10 bars
func ValidateEngagementData(data EngagementData) error {
	var errs ValidationErrors
	for id, barriers := range data.VoterEngagement.ParticipationBarriers {
		for i, b := range barriers {
			if b.Impact < 0 || b.Impact > 10 {
				errs.add(fmt.Sprintf("participationBarriers.%s[%d].impact", id, i), "must be between 0 and 10 (got %g)", b.Impact)
			}
		}
	}
	return errs.orNil()
}
