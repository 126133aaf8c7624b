package plotpage

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

// echartsAssetURL is the script the extracted chart fragments depend on.
const echartsAssetURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

//go:embed templates/*.html
var templateFS embed.FS

var loadTemplates = sync.OnceValues(func() (*template.Template, error) {
	tmpl, err := template.New("").
		Funcs(template.FuncMap{"echartsURL": func() string { return echartsAssetURL }}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return tmpl, nil
})

func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil //nolint:gosec // html/template output.
}

type pageData struct {
	Title       string
	Description string
	ProjectName string
	DarkClass   string
	Theme       ThemeConfig
	Stats       []Stat
	Content     template.HTML
}

type sectionData struct {
	Title    string
	Subtitle string
	Chart    template.HTML
	Hint     *hintData
}

type hintData struct {
	Title string
	Items []string
}
