package main

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentAxis(t *testing.T) {
	tests := []struct {
		max      float64
		wantMax  float64
		wantStep float64
	}{
		{0, 100, 20},
		{70, 100, 20},
		{100, 100, 20},
		{150, 150, 50},
		{420, 500, 100},
		{750000, 800000, 200000},
		{math.NaN(), 100, 20},
	}
	for _, tc := range tests {
		gotMax, gotStep := PercentAxis(tc.max)
		assert.Equal(t, tc.wantMax, gotMax, "max for %g", tc.max)
		assert.Equal(t, tc.wantStep, gotStep, "step for %g", tc.max)
	}
}

func TestAxisTicks(t *testing.T) {
	ticks := axisTicks(100, 20, "%")
	require.Len(t, ticks, 6)
	assert.Equal(t, "0%", ticks[0].Label)
	assert.Equal(t, "100%", ticks[5].Label)
	assert.Equal(t, 100.0, ticks[5].Value)
}

func TestBarChartSVG(t *testing.T) {
	bars := []ChartBar{{"Low income", 35}, {"Middle income", 48}, {"High income", 70}}

	plain, err := BarChartSVG("Turnout", bars, NoHighlight)
	require.NoError(t, err)
	assert.Contains(t, string(plain), "<svg")
	assert.NotContains(t, string(plain), colorHighlight.String())

	highlighted, err := BarChartSVG("Turnout", bars, 1)
	require.NoError(t, err)
	assert.Contains(t, string(highlighted), colorHighlight.String())

	_, err = BarChartSVG("Empty", nil, NoHighlight)
	assert.Error(t, err)
}

func TestPieChartSVG(t *testing.T) {
	svg, err := PieChartSVG("Components", []ChartBar{{"Federal", 1062}, {"Cantonal", 1041}, {"Municipal", 1238}})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	_, err = PieChartSVG("Nothing", []ChartBar{{"Federal", 0}, {"Cantonal", 0}})
	assert.Error(t, err)
}

func TestPersonaChartSVG(t *testing.T) {
	store := loadTestStore(t)

	for _, id := range []string{"anna", "leo", "millionaire"} {
		p, err := NewPerspective(store, id, PageEngagement)
		require.NoError(t, err)
		for _, name := range ChartNames {
			svg, err := PersonaChartSVG(p, name)
			require.NoError(t, err, "%s/%s", id, name)
			assert.Contains(t, string(svg), "<svg", "%s/%s", id, name)
		}
	}

	p, err := NewPerspective(store, "anna", PageEngagement)
	require.NoError(t, err)
	_, err = PersonaChartSVG(p, "turnout-age")
	assert.True(t, errors.Is(err, ErrUnknownChart))
}
