package main

import "fmt"

// Perspective is everything a page needs to render one persona's view. It is
// built per request and passed explicitly to templates and reports.
type Perspective struct {
	Persona   Persona
	Store     *Store
	Detail    TaxDetail
	Tax       TaxBreakdown
	Page      Page
	Narrative PersonaNarrative
}

// NewPerspective resolves a persona and computes its tax once
func NewPerspective(store *Store, personaID string, page Page) (*Perspective, error) {
	persona, ok := store.Persona(personaID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPersonaNotFound, personaID)
	}
	detail := ComputeTaxDetail(persona.Income, persona.Municipality, store.Tax)
	narrative, ok := NarrativeFor(persona.ID)
	if !ok {
		narrative.IncomeGroup = NoHighlight
	}
	return &Perspective{
		Persona:   persona,
		Store:     store,
		Detail:    detail,
		Tax:       detail.Breakdown,
		Page:      page,
		Narrative: narrative,
	}, nil
}

// Others returns the remaining personas, for the "compare with" links
func (p *Perspective) Others() []Persona {
	var others []Persona
	for _, o := range p.Store.Personas() {
		if o.ID != p.Persona.ID {
			others = append(others, o)
		}
	}
	return others
}

// Comparison returns the tax comparison rows for every persona
func (p *Perspective) Comparison() []TaxComparison {
	return CompareTax(p.Store.Personas(), p.Store.Tax)
}

// BurdenLevel describes how heavy the effective rate is
func (p *Perspective) BurdenLevel() string {
	return BurdenLevel(p.Tax.EffectiveRate)
}

// Shares returns the component widths for the progress bars
func (p *Perspective) Shares() [3]float64 {
	f, c, m := ComponentShares(p.Tax)
	return [3]float64{f, c, m}
}

// Benefits returns the public services this persona uses
func (p *Perspective) Benefits() []PersonaBenefit {
	return p.Store.Spending.GovernmentSpending.PersonaBenefits[p.Persona.ID]
}

// PoliticalAccess returns the access description, empty when not present
func (p *Perspective) PoliticalAccess() string {
	return p.Store.Influence.WealthInfluence.PoliticalAccess[p.Persona.ID].Description
}

// Barriers returns the participation barriers for this persona
func (p *Perspective) Barriers() []ParticipationBarrier {
	return p.Store.Engagement.VoterEngagement.ParticipationBarriers[p.Persona.ID]
}

// Render executes a narrative snippet against this perspective. Template
// errors fall back to the raw snippet so a page never fails on prose.
func (p *Perspective) Render(snippet string) string {
	out, err := RenderNarrative(snippet, p)
	if err != nil {
		Log.Sugar().Warnw("Narrative render failed", "persona", p.Persona.ID, "error", err)
		return snippet
	}
	return out
}

// HasNext reports whether the journey continues after this page
func (p *Perspective) HasNext() bool {
	_, ok := p.Page.Next()
	return ok
}

// Next is the following journey page; only meaningful when HasNext is true
func (p *Perspective) Next() Page {
	next, _ := p.Page.Next()
	return next
}

func (p *Perspective) HasPrev() bool {
	_, ok := p.Page.Previous()
	return ok
}

func (p *Perspective) Prev() Page {
	prev, _ := p.Page.Previous()
	return prev
}
