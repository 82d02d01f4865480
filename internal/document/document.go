// Package document renders a markdown source into a single-page document
// split into navigable sections.
package document

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/ziadkadry99/pagenav/internal/outline"
)

// NavAttribute is the heading attribute that overrides the menu label,
// e.g. `## Installing the CLI {data-nav="Install"}`.
const NavAttribute = "data-nav"

// Options controls how a document is split.
type Options struct {
	// SectionLevel is the heading level that opens a section. Default: 2.
	SectionLevel int
	// HighlightStyle is the chroma style for fenced code. Default: github.
	HighlightStyle string
}

func (o *Options) defaults() {
	if o.SectionLevel < 1 || o.SectionLevel > 6 {
		o.SectionLevel = 2
	}
	if o.HighlightStyle == "" {
		o.HighlightStyle = "github"
	}
}

// Section is one navigable part of a document.
type Section struct {
	ID    string
	Label string
	HTML  template.HTML
}

// Document is a rendered markdown file.
type Document struct {
	Name     string
	Title    string
	Preamble template.HTML
	Sections []Section
}

// Meta returns the section metadata in document order.
func (d *Document) Meta() []outline.Meta {
	metas := make([]outline.Meta, 0, len(d.Sections))
	for _, s := range d.Sections {
		metas = append(metas, outline.Meta{ID: s.ID, Label: s.Label})
	}
	return metas
}

// Renderer converts markdown sources. It is safe for concurrent use.
type Renderer struct {
	md   goldmark.Markdown
	opts Options
}

// NewRenderer creates a renderer with GFM, syntax highlighting, automatic
// heading ids and heading attributes enabled.
func NewRenderer(opts Options) *Renderer {
	opts.defaults()
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(opts.HighlightStyle),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md, opts: opts}
}

// Render parses src and splits it into sections. name is the document's
// file name, used as the title when the source has no level-1 heading.
func (r *Renderer) Render(src []byte, name string) (*Document, error) {
	root := r.md.Parser().Parse(text.NewReader(src))

	doc := &Document{Name: name}

	var nodes []ast.Node
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		nodes = append(nodes, n)
	}

	var (
		preamble bytes.Buffer
		body     bytes.Buffer
		current  *Section
	)
	flush := func() {
		if current != nil {
			current.HTML = template.HTML(body.String())
			doc.Sections = append(doc.Sections, *current)
			body.Reset()
		}
	}

	for _, n := range nodes {
		if h, ok := n.(*ast.Heading); ok {
			if h.Level == 1 && doc.Title == "" {
				doc.Title = plainText(h, src)
			}
			if h.Level == r.opts.SectionLevel {
				flush()
				current = &Section{
					ID:    attr(h, "id"),
					Label: attr(h, NavAttribute),
				}
				if current.Label == "" {
					current.Label = plainText(h, src)
				}
				// The section element carries the id; keep it unique in the page.
				h.RemoveAttributes()
			}
		}

		w := &preamble
		if current != nil {
			w = &body
		}
		if err := r.md.Renderer().Render(w, src, n); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", name, err)
		}
	}
	flush()

	doc.Preamble = template.HTML(preamble.String())
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	return doc, nil
}

// attr returns a heading attribute as a string.
func attr(n ast.Node, name string) string {
	v, ok := n.AttributeString(name)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case []byte:
		return strings.TrimSpace(string(val))
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// plainText concatenates the text content of n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
