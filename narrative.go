package main

import (
	"fmt"
	"strings"
	"text/template"
)

// ParticipationPattern is one line of the "how often do they vote" list
type ParticipationPattern struct {
	Arena     string
	Frequency string
}

// PersonaNarrative holds the prose that differs between personas. Fields that
// mention computed figures are text/template snippets rendered against a
// Perspective.
type PersonaNarrative struct {
	CardTitle    string // Home page card heading
	CardBlurb    string // Home page card text
	SynthesisTag string // Short line on the "explore other perspectives" cards

	// IncomeGroup is the index of the persona's row in the income turnout and
	// policy alignment tables (low, middle, high)
	IncomeGroup int

	TaxBurden    string   // Appended to the burden analysis sentence
	TaxInsights  []string // First and last key insight; the middle one is shared
	TurnoutNote  string
	BarrierIntro string
	Patterns     []ParticipationPattern
	WhatItMeans  string

	SynthesisTaxation   string // template
	SynthesisSpending   string
	SynthesisInfluence  string
	SynthesisEngagement string
	CyclePosition       string
}

// SharedTaxInsight sits between the two persona specific insights
const SharedTaxInsight = "Municipal tax multipliers create significant differences in tax burden based on location, with wealthy municipalities often having the lowest rates."

// ReflectionQuestions close the synthesis page
var ReflectionQuestions = []string{
	"How does economic inequality affect the functioning of democracy in Zurich?",
	"What mechanisms could help reduce the translation of economic inequality into political inequality?",
	"How might the experience of democracy differ for residents across different socioeconomic positions?",
	"What responsibility do higher-income residents have in addressing systemic inequalities?",
	"How can democratic systems better account for differential participation rates?",
}

// CycleStage is one station of the inequality cycle infographic
type CycleStage struct {
	Title   string
	Caption string
}

// InequalityCycle is drawn clockwise from the top
var InequalityCycle = []CycleStage{
	{"Differential Tax Burden", "Wealthy areas have lower tax rates"},
	{"Unequal Political Access", "Wealth provides greater influence"},
	{"Differential Participation", "Higher-income voters participate more"},
	{"Policy Alignment", "Policies favor higher-income preferences"},
}

// Narratives is keyed by persona id
var Narratives = map[string]PersonaNarrative{
	"anna": {
		CardTitle:    "Middle-Class Employee",
		CardBlurb:    "Office administrator living in Zurich City, earning CHF 85,000 annually. Educated and politically aware but time-constrained.",
		SynthesisTag: "Middle-income employee living in Zurich City",
		IncomeGroup:  1,
		TaxBurden:    "Living in {{.Persona.Municipality}} means paying a higher municipal tax multiplier ({{pct .Detail.Multiplier}}) compared to wealthy suburbs, creating a proportionally higher tax burden for middle-income residents.",
		TaxInsights: []string{
			"Middle-income residents bear a proportionally higher tax burden compared to the wealthiest residents.",
			"While able to benefit from some tax deductions like third pillar contributions, the overall tax burden remains significant.",
		},
		TurnoutNote:  "As a middle-income resident, Anna falls in the middle range of voter participation.",
		BarrierIntro: "As a middle-income resident with a full-time job, Anna faces moderate barriers to political participation, primarily related to time constraints.",
		Patterns: []ParticipationPattern{
			{"Federal Elections", "Votes in most federal elections"},
			{"Cantonal Elections", "Votes in some cantonal elections"},
			{"Referendums", "Participates in approximately half of referendums"},
			{"Local Politics", "Limited engagement with local political issues"},
		},
		WhatItMeans:         "As a middle-income resident with moderate political participation, Anna's preferences are somewhat represented in policy outcomes, but not as strongly as those of higher-income voters. The policies that affect her daily life may not fully align with her interests.",
		SynthesisTaxation:   "As a middle-income resident living in {{.Persona.Municipality}}, Anna pays a moderate tax rate with a municipal multiplier of {{pct .Detail.Multiplier}}. Her effective tax rate is approximately {{pct .Tax.EffectiveRate}} of her income, placing her in the middle of the tax burden spectrum.",
		SynthesisSpending:   "Anna receives moderate benefits from public spending, particularly in transportation and healthcare. Her tax-to-benefit ratio is relatively balanced, though she may not fully utilize all services her taxes support.",
		SynthesisInfluence:  "Anna has limited direct access to politicians and moderate indirect access through professional associations. Her ability to influence policy is constrained by both financial limitations and time constraints.",
		SynthesisEngagement: "As a middle-income resident, Anna votes in most federal elections and approximately half of referendums. Her political participation is moderate, limited primarily by time constraints due to work and family responsibilities.",
		CyclePosition:       "As a middle-income resident, Anna occupies an intermediate position in this cycle. She has moderate political influence and participation, but faces significant constraints compared to higher-income residents. Her experience illustrates the 'middle squeeze' in Zurich's democracy.",
	},
	"leo": {
		CardTitle:    "Lower-Income Service Worker",
		CardBlurb:    "Hospitality worker living in Schlieren, earning CHF 55,000 annually. Works multiple jobs with limited time for political engagement.",
		SynthesisTag: "Lower-income service worker living in Schlieren",
		IncomeGroup:  0,
		TaxBurden:    "Despite having a lower income, the tax burden is still significant relative to disposable income, and living in {{.Persona.Municipality}} provides only a modest tax advantage compared to Zurich City.",
		TaxInsights: []string{
			"Lower-income residents have less flexibility to optimize their tax situation through relocation.",
			"Limited ability to take advantage of tax deductions due to lower income.",
		},
		TurnoutNote:  "As a lower-income resident, Leo is in the demographic group with the lowest voter participation rates.",
		BarrierIntro: "As a lower-income resident working multiple jobs, Leo faces significant barriers to political participation, including severe time constraints and limited access to political information.",
		Patterns: []ParticipationPattern{
			{"Federal Elections", "Votes occasionally in major federal elections"},
			{"Cantonal Elections", "Rarely votes in cantonal elections"},
			{"Referendums", "Participates in few referendums"},
			{"Local Politics", "Minimal engagement with local political issues"},
		},
		WhatItMeans:         "As a lower-income resident with limited political participation, Leo's preferences are significantly underrepresented in policy outcomes. The political system is less responsive to his needs and interests compared to higher-income voters.",
		SynthesisTaxation:   "As a lower-income resident living in {{.Persona.Municipality}}, Leo pays a lower absolute amount in taxes but faces a municipal multiplier of {{pct .Detail.Multiplier}}. Despite his lower income, his effective tax rate is approximately {{pct .Tax.EffectiveRate}} of his income.",
		SynthesisSpending:   "Leo receives significant benefits from public spending, particularly in healthcare, transportation, and occasionally social welfare. His tax-to-benefit ratio shows he receives more in services than he contributes in taxes.",
		SynthesisInfluence:  "Leo has very limited direct access to politicians and minimal indirect access through unions or community organizations. His ability to influence policy is severely constrained by financial limitations, time constraints, and information barriers.",
		SynthesisEngagement: "As a lower-income resident, Leo votes occasionally in major federal elections but rarely participates in referendums. His political participation is low, limited by severe time constraints, information barriers, and skepticism about his ability to influence outcomes.",
		CyclePosition:       "As a lower-income resident, Leo is disadvantaged at every point in this cycle. He faces higher effective tax rates in his municipality, receives limited political access, participates less in voting, and sees policies that often don't align with his preferences. His experience illustrates the compounding nature of economic and political inequality.",
	},
	"millionaire": {
		CardTitle:    "Finance Executive",
		CardBlurb:    "Finance executive living in Küsnacht, earning CHF 750,000 annually. Well-connected, politically active and influential.",
		SynthesisTag: "High-income finance professional living in Küsnacht",
		IncomeGroup:  2,
		TaxBurden:    "Despite having a much higher income, the effective tax rate benefits from the low tax multiplier in {{.Persona.Municipality}} ({{pct .Detail.Multiplier}}), showing how wealthy residents can optimize their tax situation by living in low-tax municipalities.",
		TaxInsights: []string{
			"Wealthy residents benefit significantly from Switzerland's regressive tax system and can choose to live in low-tax municipalities.",
			"Access to tax optimization strategies (like third pillar contributions) provides additional advantages to high-income residents.",
		},
		TurnoutNote:  "As a high-income resident, Thomas is in the demographic group with the highest voter participation rates.",
		BarrierIntro: "As a high-income resident with a flexible schedule and extensive networks, Thomas faces few barriers to political participation.",
		Patterns: []ParticipationPattern{
			{"Federal Elections", "Votes consistently in federal elections"},
			{"Cantonal Elections", "Votes regularly in cantonal elections"},
			{"Referendums", "Participates in most referendums"},
			{"Local Politics", "Active engagement with local political issues"},
		},
		WhatItMeans:         "As a high-income resident with high political participation, Thomas's preferences are strongly represented in policy outcomes. The political system is highly responsive to his needs and interests.",
		SynthesisTaxation:   "As a high-income resident living in {{.Persona.Municipality}}, Thomas benefits from one of the canton's lowest municipal multipliers at {{pct .Detail.Multiplier}}. His effective tax rate is approximately {{pct .Tax.EffectiveRate}} of his income. The favorable multiplier keeps the municipal part of his bill well below what the same income would owe in Zurich City.",
		SynthesisSpending:   "Thomas contributes significantly in taxes but utilizes relatively few public services directly, often opting for private alternatives in education and healthcare. His tax-to-benefit ratio shows he contributes more than he directly receives in benefits.",
		SynthesisInfluence:  "Thomas has significant direct access to politicians through business networks and strong indirect access through industry associations. His financial resources allow him to make political donations and participate in exclusive events with decision-makers.",
		SynthesisEngagement: "As a high-income resident, Thomas votes consistently in federal elections and most referendums. His political participation is high, facilitated by greater control over his schedule, excellent access to information, and confidence in his ability to influence outcomes.",
		CyclePosition:       "As a high-income resident, Thomas benefits at every point in this cycle. He enjoys lower tax rates in his wealthy municipality, has significant political access, participates actively in voting, and sees policies that generally align with his preferences. His experience illustrates how economic advantages translate into political advantages.",
	},
}

// NarrativeFor returns the prose for a persona id
func NarrativeFor(id string) (PersonaNarrative, bool) {
	n, ok := Narratives[id]
	return n, ok
}

var narrativeFuncs = template.FuncMap{
	"pct": FormatPercent,
}

// RenderNarrative executes a narrative snippet against a perspective. Plain
// strings without actions come back unchanged.
func RenderNarrative(snippet string, p *Perspective) (string, error) {
	if !strings.Contains(snippet, "{{") {
		return snippet, nil
	}
	tmpl, err := template.New("narrative").Funcs(narrativeFuncs).Option("missingkey=error").Parse(snippet)
	if err != nil {
		return "", fmt.Errorf("parse narrative: %w", err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, p); err != nil {
		return "", fmt.Errorf("render narrative: %w", err)
	}
	return sb.String(), nil
}
