package main

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates maps each page to the template that renders it
var pageTemplates = map[Page]string{
	PageProfile:    "profile",
	PageTaxation:   "taxation",
	PageSpending:   "spending",
	PageInfluence:  "influence",
	PageEngagement: "engagement",
	PageSynthesis:  "synthesis",
}

// ParseTemplates loads the embedded page templates with the view helpers
func ParseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"chf":           FormatCHF,
		"pct":           FormatPercent,
		"upper":         strings.ToUpper,
		"mul10":         func(v float64) float64 { return v * 10 },
		"pages":         func() []Page { return JourneyPages },
		"cycle":         func() []CycleStage { return InequalityCycle },
		"questions":     func() []string { return ReflectionQuestions },
		"sharedInsight": func() string { return SharedTaxInsight },
		"narrative": func(id string) PersonaNarrative {
			n, _ := NarrativeFor(id)
			return n
		},
	}
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// linkStyle decides how pages refer to each other: server routes, or flat
// file names for the static export
type linkStyle int

const (
	linksServer linkStyle = iota
	linksStatic
)

// pageData is the value every page template executes against
type pageData struct {
	Title    string
	Personas []Persona
	P        *Perspective // nil on the home and not-found pages
	links    linkStyle
}

func newPageData(store *Store, p *Perspective, links linkStyle) pageData {
	d := pageData{links: links, P: p, Title: "Home"}
	if store != nil {
		d.Personas = store.Personas()
	}
	if p != nil {
		d.Title = p.Persona.Name
		if p.Page != PageProfile {
			d.Title = p.Page.String() + " - " + p.Persona.Name
		}
	}
	return d
}

func (d pageData) HomeURL() string {
	if d.links == linksStatic {
		return "index.html"
	}
	return "/"
}

func (d pageData) ProfileURL(personaID string) string {
	return d.PageURL(personaID, PageProfile)
}

// PageURL links to one page of a persona's journey
func (d pageData) PageURL(personaID string, page Page) string {
	if d.links == linksStatic {
		if page == PageProfile {
			return personaID + ".html"
		}
		return personaID + "-" + page.Slug() + ".html"
	}
	if page == PageProfile {
		return "/explore/" + personaID
	}
	return "/explore/" + personaID + "/" + page.Slug()
}

// ChartURL links to a rendered SVG chart
func (d pageData) ChartURL(personaID, chart string) string {
	if d.links == linksStatic {
		return "charts/" + personaID + "-" + chart + ".svg"
	}
	return "/charts/" + personaID + "/" + chart + ".svg"
}

// PDFURL is empty in the static export, which has no PDF endpoint
func (d pageData) PDFURL() string {
	if d.links == linksStatic || d.P == nil {
		return ""
	}
	return "/api/export-pdf/" + d.P.Persona.ID
}

func (d pageData) IsCurrent(personaID string) bool {
	return d.P != nil && d.P.Persona.ID == personaID
}

// renderPage executes the template for the perspective's page
func renderPage(w io.Writer, tmpl *template.Template, p *Perspective, links linkStyle) error {
	name, ok := pageTemplates[p.Page]
	if !ok {
		return fmt.Errorf("no template for page %v", p.Page)
	}
	return tmpl.ExecuteTemplate(w, name, newPageData(p.Store, p, links))
}

// renderHome executes the persona selection page
func renderHome(w io.Writer, tmpl *template.Template, store *Store, links linkStyle) error {
	return tmpl.ExecuteTemplate(w, "home", newPageData(store, nil, links))
}
