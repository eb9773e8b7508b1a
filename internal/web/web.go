// Package web provides the server-rendered HTML views for the catalog:
// an embedded template set with a shared layout, the product list and
// form pages, and a not-found page.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/backoffice-labs/catalog/internal/flash"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists the content templates rendered inside the shared layout.
var pages = []string{
	"products_list.html",
	"product_form.html",
	"404.html",
}

// PageData contains the data passed to page templates during rendering.
type PageData struct {
	Title string
	Flash *flash.Message
	Data  any
}

// Renderer holds pre-parsed templates. Parsing happens once at startup,
// so a bad template fails fast instead of at request time.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded layout and page templates.
func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", page, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+page); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		parsed[page] = t
	}

	return &Renderer{pages: parsed}, nil
}

// Render executes the named page within the layout.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data PageData) {
	t, ok := r.pages[page]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		// Headers are already written; nothing left to do but drop the request.
		return
	}
}

// NotFound renders the not-found page.
func (r *Renderer) NotFound(w http.ResponseWriter) {
	r.Render(w, http.StatusNotFound, "404.html", PageData{Title: "Not Found"})
}
