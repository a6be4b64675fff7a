package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTaxPDFReport(t *testing.T) {
	store := loadTestStore(t)

	for _, id := range []string{"anna", "leo", "millionaire"} {
		t.Run(id, func(t *testing.T) {
			p, err := NewPerspective(store, id, PageTaxation)
			require.NoError(t, err)

			data, err := GenerateTaxPDFReport(p)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "missing PDF header")
			assert.True(t, bytes.Contains(data, []byte("%%EOF")), "missing PDF trailer")
			assert.Greater(t, len(data), 1000)
		})
	}
}

func TestGenerateTaxPDFReport_ZeroIncome(t *testing.T) {
	store := loadTestStore(t)
	store.personas = append(store.personas, Persona{ID: "student", Name: "Mia", FullName: "Mia Keller", Municipality: "Zürich"})
	store.byID["student"] = len(store.personas) - 1

	p, err := NewPerspective(store, "student", PageTaxation)
	require.NoError(t, err)

	data, err := GenerateTaxPDFReport(p)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
