package main

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart palette
var (
	colorHighlight = drawing.ColorFromHex("E63946")
	colorBar       = drawing.ColorFromHex("457B9D")
	colorNavy      = drawing.ColorFromHex("1D3557")
	colorMint      = drawing.ColorFromHex("A8DADC")
)

// Persona chart names served under /charts/:persona/
const (
	ChartTurnoutEducation = "turnout-education"
	ChartTurnoutIncome    = "turnout-income"
	ChartPolicyAlignment  = "policy-alignment"
	ChartTaxComponents    = "tax-components"
)

// ChartNames lists every chart a persona page can embed
var ChartNames = []string{ChartTurnoutEducation, ChartTurnoutIncome, ChartPolicyAlignment, ChartTaxComponents}

// ErrUnknownChart is returned for a chart name outside ChartNames
var ErrUnknownChart = errors.New("unknown chart")

// NoHighlight draws every bar in the default color
const NoHighlight = -1

// ChartBar is one labelled value
type ChartBar struct {
	Label string
	Value float64
}

// PercentAxis returns the axis maximum and tick step for values with the
// given maximum. Percentages stay on a fixed 0-100 scale.
func PercentAxis(maxValue float64) (axisMax, step float64) {
	if maxValue <= 100 || math.IsNaN(maxValue) || math.IsInf(maxValue, 0) {
		return 100, 20
	}
	rough := maxValue / 5
	mag := math.Pow(10, math.Floor(math.Log10(rough)))
	step = 10 * mag
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		if c*mag >= rough {
			step = c * mag
			break
		}
	}
	return math.Ceil(maxValue/step) * step, step
}

// axisTicks builds labelled ticks from 0 to axisMax
func axisTicks(axisMax, step float64, suffix string) []chart.Tick {
	var ticks []chart.Tick
	for v := 0.0; v <= axisMax+step/2; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%g%s", v, suffix)})
	}
	return ticks
}

// BarChartSVG renders a percentage bar chart. The bar at index highlight is
// drawn in the accent color; pass NoHighlight for none.
func BarChartSVG(title string, bars []ChartBar, highlight int) ([]byte, error) {
	if len(bars) == 0 {
		return nil, errors.New("bar chart needs at least one value")
	}

	maxValue := 0.0
	values := make([]chart.Value, len(bars))
	for i, b := range bars {
		fill := colorBar
		if i == highlight {
			fill = colorHighlight
		}
		values[i] = chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 0},
		}
		maxValue = math.Max(maxValue, b.Value)
	}

	axisMax, step := PercentAxis(maxValue)
	bc := chart.BarChart{
		Title:      title,
		Width:      600,
		Height:     360,
		BarWidth:   80,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax},
			Ticks: axisTicks(axisMax, step, "%"),
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// PieChartSVG renders the share of each value in the total
func PieChartSVG(title string, slices []ChartBar) ([]byte, error) {
	palette := []drawing.Color{colorNavy, colorBar, colorMint}
	var values []chart.Value
	total := 0.0
	for i, s := range slices {
		if s.Value <= 0 {
			continue
		}
		fill := palette[i%len(palette)]
		values = append(values, chart.Value{
			Label: s.Label,
			Value: s.Value,
			Style: chart.Style{FillColor: fill, FontColor: drawing.ColorWhite},
		})
		total += s.Value
	}
	if total <= 0 {
		return nil, errors.New("pie chart needs a positive value")
	}

	pc := chart.PieChart{
		Title:  title,
		Width:  400,
		Height: 400,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pc.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

func turnoutBars(rows []Turnout) []ChartBar {
	bars := make([]ChartBar, len(rows))
	for i, r := range rows {
		bars[i] = ChartBar{Label: r.Label(), Value: r.Turnout}
	}
	return bars
}

// PersonaChartSVG renders one of the named charts for a perspective
func PersonaChartSVG(p *Perspective, name string) ([]byte, error) {
	engagement := p.Store.Engagement.VoterEngagement
	switch name {
	case ChartTurnoutEducation:
		return BarChartSVG("Voter Turnout by Education Level", turnoutBars(engagement.TurnoutRates.Zurich.ByEducation), NoHighlight)
	case ChartTurnoutIncome:
		return BarChartSVG("Voter Turnout by Income Level", turnoutBars(engagement.TurnoutRates.Zurich.ByIncome), p.Narrative.IncomeGroup)
	case ChartPolicyAlignment:
		rows := engagement.RepresentationEffects.PolicyAlignment
		bars := make([]ChartBar, len(rows))
		for i, r := range rows {
			bars[i] = ChartBar{Label: r.IncomeGroup, Value: r.Alignment}
		}
		return BarChartSVG("Policy Alignment by Income Group", bars, p.Narrative.IncomeGroup)
	case ChartTaxComponents:
		return PieChartSVG(p.Persona.Name+"'s Tax Components", []ChartBar{
			{Label: "Federal", Value: p.Tax.Federal},
			{Label: "Cantonal", Value: p.Tax.Cantonal},
			{Label: "Municipal", Value: p.Tax.Municipal},
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
}
