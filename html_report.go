package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// GenerateHTMLReports exports the whole site as static files into a dated
// folder below outputDir and returns the path of its index page
func GenerateHTMLReports(store *Store, outputDir string) (string, error) {
	timestamp := time.Now().Format("2006-01-02_1504")
	return GenerateHTMLReportsInDir(store, filepath.Join(outputDir, timestamp))
}

// GenerateHTMLReportsInDir writes index.html, one page per persona and
// journey step, and the charts those pages embed
func GenerateHTMLReportsInDir(store *Store, dir string) (string, error) {
	tmpl, err := ParseTemplates()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dir, "charts"), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := renderHome(&buf, tmpl, store, linksStatic); err != nil {
		return "", fmt.Errorf("failed to render index: %w", err)
	}
	indexPath := filepath.Join(dir, "index.html")
	if err := os.WriteFile(indexPath, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	data := newPageData(store, nil, linksStatic)
	for _, persona := range store.Personas() {
		for _, page := range append([]Page{PageProfile}, JourneyPages...) {
			p, err := NewPerspective(store, persona.ID, page)
			if err != nil {
				return "", err
			}
			buf.Reset()
			if err := renderPage(&buf, tmpl, p, linksStatic); err != nil {
				return "", fmt.Errorf("failed to render %s for %s: %w", page, persona.ID, err)
			}
			name := sanitizeFilename(data.PageURL(persona.ID, page))
			if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644); err != nil {
				return "", err
			}
		}

		p, err := NewPerspective(store, persona.ID, PageEngagement)
		if err != nil {
			return "", err
		}
		for _, chart := range ChartNames {
			svg, err := PersonaChartSVG(p, chart)
			if err != nil {
				// A zero tax persona has no pie; the page skips it too
				Log.Debug("Chart skipped", zap.String("persona", persona.ID), zap.String("chart", chart), zap.Error(err))
				continue
			}
			name := sanitizeFilename(persona.ID + "-" + chart + ".svg")
			if err := os.WriteFile(filepath.Join(dir, "charts", name), svg, 0644); err != nil {
				return "", err
			}
		}
	}

	Log.Info("HTML export written", zap.String("dir", dir), zap.Int("personas", len(store.Personas())))
	return indexPath, nil
}

// sanitizeFilename replaces characters that are not safe in filenames
func sanitizeFilename(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '/' || c == '\\' || c == ':' || c == '*' || c == '?' || c == '"' || c == '<' || c == '>' || c == '|' {
			result = append(result, '_')
		} else {
			result = append(result, c)
		}
	}
	return string(result)
}
