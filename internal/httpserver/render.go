package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// partials can be rendered on their own, without the layout.
var partials = []string{"game_cards"}

// Renderer implements echo.Renderer over html/template. Every page is parsed
// into its own set together with the layout and partials, so pages can all
// define "title" and "content".
type Renderer struct {
	pages map[string]*template.Template
	entry map[string]string
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"gb":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"has": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}, entry: map[string]string{}}

	shared := []string{"templates/layout.html", "templates/partials/*.html"}
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		name := strings.TrimSuffix(path.Base(p), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, append(shared, p)...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		r.pages[name] = t
		r.entry[name] = "layout"
	}

	for _, name := range partials {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/partials/*.html")
		if err != nil {
			return nil, fmt.Errorf("parse partial %s: %w", name, err)
		}
		r.pages[name] = t
		r.entry[name] = name
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, r.entry[name], data)
}
