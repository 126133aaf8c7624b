// Package plotpage renders standalone HTML pages of go-echarts charts.
package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

const styleCloseTag = "</style>"

// Hint contains interpretive guidance for a chart section.
type Hint struct {
	Title string
	Items []string
}

// Stat is one labelled figure shown above the sections.
type Stat struct {
	Label string
	Value string
}

// Section represents a chart section within a page.
type Section struct {
	Chart    Renderable
	Title    string
	Subtitle string
	Hint     Hint
}

// Page represents a complete visualization page.
type Page struct {
	Title       string
	Description string
	ProjectName string
	Theme       Theme
	Stats       []Stat
	Sections    []Section
}

// NewPage creates a dark-themed page.
func NewPage(title, description string) *Page {
	return &Page{
		Title:       title,
		Description: description,
		ProjectName: "histogauss",
		Theme:       ThemeDark,
	}
}

// WithTheme sets the theme for the page.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// AddStats appends summary figures.
func (p *Page) AddStats(stats ...Stat) {
	p.Stats = append(p.Stats, stats...)
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	return HTMLRenderer{}.Render(w, p)
}

// Renderable is the interface for chart components.
type Renderable interface {
	Render(w io.Writer) error
}

// HTMLRenderer renders pages as HTML.
type HTMLRenderer struct{}

// Render writes page to w.
func (r HTMLRenderer) Render(w io.Writer, page *Page) error {
	var sectionsHTML bytes.Buffer

	for _, section := range page.Sections {
		sectionHTML, err := r.renderSection(section)
		if err != nil {
			return fmt.Errorf("render section %q: %w", section.Title, err)
		}

		sectionsHTML.WriteString(string(sectionHTML))
	}

	darkClass := ""
	if page.Theme == ThemeDark {
		darkClass = "dark"
	}

	html, err := renderTemplate("page.html", pageData{
		Title:       page.Title,
		Description: page.Description,
		ProjectName: page.ProjectName,
		DarkClass:   darkClass,
		Theme:       GetThemeConfig(page.Theme),
		Stats:       page.Stats,
		Content:     template.HTML(sectionsHTML.String()), //nolint:gosec // rendered by our own templates.
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

func (r HTMLRenderer) renderSection(section Section) (template.HTML, error) {
	chartHTML, err := renderChart(section.Chart)
	if err != nil {
		return "", err
	}

	var hint *hintData

	if len(section.Hint.Items) > 0 {
		hint = &hintData{Title: section.Hint.Title, Items: section.Hint.Items}
	}

	return renderTemplate("section.html", sectionData{
		Title:    section.Title,
		Subtitle: section.Subtitle,
		Chart:    template.HTML(chartHTML), //nolint:gosec // go-echarts output.
		Hint:     hint,
	})
}

func renderChart(chart Renderable) (string, error) {
	if chart == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	return extractChartContent(buf.String()), nil
}

// extractChartContent cuts the chart container out of a full go-echarts
// page. Fragments pass through unchanged.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	end := strings.Index(html, `</body>`)

	if start == -1 || end == -1 || end < start {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			return content
		}

		j := strings.Index(content[i:], styleCloseTag)
		if j == -1 {
			return content
		}

		content = content[:i] + content[i+j+len(styleCloseTag):]
	}
}
