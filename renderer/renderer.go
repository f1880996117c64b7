// Package renderer turns valuation reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// SummaryRenderOptions holds configuration for rendering a summary.
type SummaryRenderOptions struct {
	SkipDetails    bool // Do not render the per holding table.
	SkipAllocation bool // Do not render the allocation section.
}

// RenderSummary renders the Summary struct to a markdown string.
func RenderSummary(s *Summary, opts SummaryRenderOptions) string {
	partials := map[string]string{
		"summary_title":   "summary_title.md",
		"summary_metrics": "summary_metrics.md",
		"summary_stale":   "summary_stale.md",
	}
	// An empty file name results in an empty template.
	partials["summary_details"] = ""
	if !opts.SkipDetails {
		partials["summary_details"] = "summary_details.md"
	}
	partials["summary_allocation"] = ""
	if !opts.SkipAllocation {
		partials["summary_allocation"] = "summary_allocation.md"
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// RenderHistory renders the History struct to a markdown string.
func RenderHistory(h *History) string {
	partials := map[string]string{
		"history_points": "history_points.md",
	}
	return renderTemplate("history", "history.md", partials, h)
}

// RenderHoldings renders the stored holdings to a markdown string.
func RenderHoldings(h *Holdings) string {
	return renderTemplate("holdings", "holdings.md", nil, h)
}

// RenderEmpty renders the message shown instead of a report for an empty portfolio.
func RenderEmpty() string {
	return renderTemplate("empty", "empty.md", nil, nil)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
