// Package render defines the view-rendering contract the HTTP layer
// depends on, plus the html/template-backed implementation.
package render

import (
	"fmt"
	"html/template"
	"strings"
)

// Renderer turns a view name and a string context into markup.
type Renderer interface {
	Render(view string, data map[string]string) (string, error)
}

// HTMLRenderer renders views from a parsed html/template set.
type HTMLRenderer struct {
	tmpl *template.Template
}

var _ Renderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer parses all templates matching glob (e.g.
// "templates/*.html") up front so missing files fail at startup.
func NewHTMLRenderer(glob string) (*HTMLRenderer, error) {
	tmpl, err := template.ParseGlob(glob)
	if err != nil {
		return nil, fmt.Errorf("parse templates %q: %w", glob, err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render executes the named view. An unknown view is an error, never
// empty output.
func (r *HTMLRenderer) Render(view string, data map[string]string) (string, error) {
	if r.tmpl.Lookup(view) == nil {
		return "", fmt.Errorf("unknown view %q", view)
	}
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, view, data); err != nil {
		return "", fmt.Errorf("render view %q: %w", view, err)
	}
	return b.String(), nil
}
