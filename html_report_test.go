package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHTMLReportsInDir(t *testing.T) {
	dir := t.TempDir()

	index, err := GenerateHTMLReportsInDir(loadTestStore(t), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.html"), index)

	expected := []string{"index.html"}
	for _, id := range []string{"anna", "leo", "millionaire"} {
		expected = append(expected, id+".html")
		for _, page := range JourneyPages {
			expected = append(expected, id+"-"+page.Slug()+".html")
		}
		for _, chart := range ChartNames {
			expected = append(expected, filepath.Join("charts", id+"-"+chart+".svg"))
		}
	}
	for _, name := range expected {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	home, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Contains(t, string(home), `href="anna.html"`)
	assert.NotContains(t, string(home), `href="/explore/`)

	taxation, err := os.ReadFile(filepath.Join(dir, "anna-taxation.html"))
	require.NoError(t, err)
	page := string(taxation)
	assert.Contains(t, page, `src="charts/anna-tax-components.svg"`)
	assert.Contains(t, page, `href="anna-spending.html"`)
	assert.Contains(t, page, "CHF 3,341")
	// The export has no server to generate PDFs
	assert.NotContains(t, page, "/api/export-pdf")
}

func TestGenerateHTMLReports_DatedFolder(t *testing.T) {
	parent := t.TempDir()

	index, err := GenerateHTMLReports(loadTestStore(t), parent)
	require.NoError(t, err)

	rel, err := filepath.Rel(parent, index)
	require.NoError(t, err)
	parts := strings.Split(rel, string(filepath.Separator))
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], len("2006-01-02_1504"))
	assert.Equal(t, "index.html", parts[1])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "anna-taxation.html", sanitizeFilename("anna-taxation.html"))
	assert.Equal(t, "a_b_c_d", sanitizeFilename("a/b:c?d"))
}
