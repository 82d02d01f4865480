// Package site serves the rendered documents as navigable pages.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagenav/internal/document"
	"github.com/ziadkadry99/pagenav/internal/library"
	"github.com/ziadkadry99/pagenav/internal/outline"
)

// Documents is the part of the library the site reads.
type Documents interface {
	List() []library.Summary
	Get(slug string) (*library.Entry, bool)
}

// Options configure the pages.
type Options struct {
	// Title is shown in the menu bar and the browser tab.
	Title string
	// SectionClass and EntryClass are the active marker classes.
	SectionClass string
	EntryClass   string
}

// Site renders the index and document pages.
type Site struct {
	docs   Documents
	opts   Options
	css    template.CSS
	index  *template.Template
	page   *template.Template
	logger *zap.Logger
}

// New parses the page templates.
func New(docs Documents, opts Options, logger *zap.Logger) (*Site, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = "pagenav"
	}
	if opts.SectionClass == "" {
		opts.SectionClass = "sec-active"
	}
	if opts.EntryClass == "" {
		opts.EntryClass = "item-active"
	}

	index, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	css := strings.NewReplacer(
		"SECTION_CLASS", opts.SectionClass,
		"ENTRY_CLASS", opts.EntryClass,
	).Replace(cssTemplate)

	return &Site{
		docs:   docs,
		opts:   opts,
		css:    template.CSS(css),
		index:  index,
		page:   page,
		logger: logger,
	}, nil
}

// RegisterRoutes mounts the pages, the outline API and the page script.
func (s *Site) RegisterRoutes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Get("/d/{slug}", s.handlePage)
	r.Get("/d/{slug}/outline", s.handleOutline)
	r.Get("/static/pagenav.js", handleScript)
}

type indexData struct {
	Title     string
	CSS       template.CSS
	Documents []library.Summary
}

type pageData struct {
	Title   string
	CSS     template.CSS
	Slug    string
	Doc     *document.Document
	Entries []outline.NavEntry
}

func (s *Site) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, s.index, indexData{
		Title:     s.opts.Title,
		CSS:       s.css,
		Documents: s.docs.List(),
	})
}

func (s *Site) handlePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	e, ok := s.docs.Get(slug)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, s.page, pageData{
		Title:   s.opts.Title,
		CSS:     s.css,
		Slug:    slug,
		Doc:     e.Doc,
		Entries: e.Registry.Current().Entries(),
	})
}

// OutlineResponse is the JSON body of GET /d/{slug}/outline.
type OutlineResponse struct {
	Slug    string             `json:"slug"`
	Title   string             `json:"title"`
	Entries []outline.NavEntry `json:"entries"`
}

func (s *Site) handleOutline(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	e, ok := s.docs.Get(slug)
	if !ok {
		http.NotFound(w, r)
		return
	}
	entries := e.Registry.Current().Entries()
	if entries == nil {
		entries = []outline.NavEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(OutlineResponse{Slug: slug, Title: e.Doc.Title, Entries: entries})
}

func handleScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	fmt.Fprint(w, script)
}

func (s *Site) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("rendering page", zap.String("template", tmpl.Name()), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
