package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTaxData() TaxData {
	return TaxData{
		TaxRates: RateSchedule{
			Federal: []TaxBracket{
				{LowerBound: 0, UpperBound: 10000, Rate: 0},
				{LowerBound: 10000, UpperBound: 1e9, Rate: 10},
			},
			Cantonal: CantonalRates{
				BaseRate:    98,
				Multipliers: []MunicipalityMultiplier{{Municipality: "Zurich City", Multiplier: 119}},
			},
			Municipal: map[string]float64{"Zurich City": 119},
		},
		Deductions: DeductionSchedule{
			Standard:                2600,
			ProfessionalExpenses:    0.03,
			MaxProfessionalExpenses: 4000,
			HealthInsurance:         1700,
			ThirdPillar:             6800,
		},
	}
}

// validationFields lists the fields named in a ValidationErrors result
func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %T", err)
	fields := make([]string, len(verrs))
	for i, e := range verrs {
		fields[i] = e.Field
	}
	return fields
}

func TestValidateTaxData(t *testing.T) {
	require.NoError(t, ValidateTaxData(validTaxData()))
	require.NoError(t, ValidateTaxData(loadTestTaxData(t)))

	tests := []struct {
		name   string
		mutate func(*TaxData)
		fields []string
	}{
		{
			name:   "no brackets",
			mutate: func(d *TaxData) { d.TaxRates.Federal = nil },
			fields: []string{"taxRates.federal"},
		},
		{
			name:   "first bracket not at zero",
			mutate: func(d *TaxData) { d.TaxRates.Federal[0].LowerBound = 100 },
			fields: []string{"taxRates.federal[0]"},
		},
		{
			name:   "gap between brackets",
			mutate: func(d *TaxData) { d.TaxRates.Federal[1].LowerBound = 12000 },
			fields: []string{"taxRates.federal[1]"},
		},
		{
			name:   "empty bracket",
			mutate: func(d *TaxData) { d.TaxRates.Federal[1].UpperBound = 10000 },
			fields: []string{"taxRates.federal[1]"},
		},
		{
			name:   "rate above 100",
			mutate: func(d *TaxData) { d.TaxRates.Federal[1].Rate = 120 },
			fields: []string{"taxRates.federal[1]"},
		},
		{
			name:   "missing cantonal base rate",
			mutate: func(d *TaxData) { d.TaxRates.Cantonal.BaseRate = 0 },
			fields: []string{"taxRates.cantonal.baseRate"},
		},
		{
			name: "unnamed municipality in cantonal list",
			mutate: func(d *TaxData) {
				d.TaxRates.Cantonal.Multipliers = append(d.TaxRates.Cantonal.Multipliers, MunicipalityMultiplier{Multiplier: 100})
			},
			fields: []string{"taxRates.cantonal.multipliers[1]"},
		},
		{
			name:   "negative municipal multiplier",
			mutate: func(d *TaxData) { d.TaxRates.Municipal["Zurich City"] = -1 },
			fields: []string{"taxRates.municipal.Zurich City"},
		},
		{
			name:   "professional expenses as a percentage",
			mutate: func(d *TaxData) { d.Deductions.ProfessionalExpenses = 3 },
			fields: []string{"deductions.professionalExpenses"},
		},
		{
			name: "negative deductions",
			mutate: func(d *TaxData) {
				d.Deductions.Standard = -1
				d.Deductions.ThirdPillar = -1
			},
			fields: []string{"deductions.standard", "deductions.thirdPillar"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := validTaxData()
			tc.mutate(&data)
			err := ValidateTaxData(data)
			require.Error(t, err)
			assert.Equal(t, tc.fields, validationFields(t, err))
		})
	}
}

func TestValidatePersonas(t *testing.T) {
	require.NoError(t, ValidatePersonas(loadTestStore(t).Personas()))

	err := ValidatePersonas(nil)
	assert.Equal(t, []string{"personas"}, validationFields(t, err))

	err = ValidatePersonas([]Persona{
		{ID: "anna", Name: "Anna", Income: 85000},
		{ID: "anna", Name: "Anna 2", Income: 1},
		{ID: "", Name: "", Income: -5},
	})
	assert.Equal(t, []string{
		"personas[1].id",
		"personas[2].id",
		"personas[2].name",
		"personas[2].income",
	}, validationFields(t, err))
	assert.Contains(t, err.Error(), `duplicate id "anna"`)
}

func TestValidateEngagementData(t *testing.T) {
	require.NoError(t, ValidateEngagementData(loadTestStore(t).Engagement))

	var data EngagementData
	data.VoterEngagement.ParticipationBarriers = map[string][]ParticipationBarrier{
		"leo": {{Barrier: "Time", Impact: 7}, {Barrier: "Language", Impact: 11}},
	}
	err := ValidateEngagementData(data)
	assert.Equal(t, []string{"participationBarriers.leo[1].impact"}, validationFields(t, err))
}

func TestValidationErrors_Message(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "first"},
		{Field: "b", Message: "second"},
	}
	assert.Equal(t, "a: first; b: second", errs.Error())
	assert.NoError(t, ValidationErrors(nil).orNil())
}
