package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"moviefinder/internal/tmdb"
)

//go:embed templates/*.html
var templateFS embed.FS

// Results is the view of a session's latest search.
type Results struct {
	Movies     []tmdb.Movie
	Error      string
	Loading    bool
	Generation uint64
}

// Page is the full document: heading, form, and results region.
type Page struct {
	Title   string
	Form    SearchForm
	Results Results
}

// Renderer executes the embedded page and fragment templates.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates with card helpers bound to images.
func New(images Images) (*Renderer, error) {
	funcs := template.FuncMap{
		"imageURL":    images.URL,
		"poster":      func(path string) string { return images.URL(path, DefaultImageSize) },
		"releaseDate": FormatReleaseDate,
		"rating":      FormatRating,
	}
	tpl, err := template.New("moviefinder").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: tpl}, nil
}

// Page writes the full HTML document.
func (r *Renderer) Page(w io.Writer, page Page) error {
	if page.Title == "" {
		page.Title = "Movie Finder"
	}
	return r.execute(w, "page", page)
}

// Results writes only the results region, as returned to background searches.
func (r *Renderer) Results(w io.Writer, results Results) error {
	return r.execute(w, "results", results)
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
