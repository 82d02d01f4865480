package document

import (
	"strings"
	"testing"
)

const guide = `# Field Guide

An introduction that appears before any section.

## Getting Started

Install the tool.

### Requirements

Go and a browser.

## Configuration {data-nav="Config"}

` + "```yaml\nport: 8080\n```" + `

## Usage {#how-to}

Run it.
`

func TestRenderSplitsSections(t *testing.T) {
	doc, err := NewRenderer(Options{}).Render([]byte(guide), "guide.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if doc.Title != "Field Guide" {
		t.Errorf("title = %q, want %q", doc.Title, "Field Guide")
	}
	if !strings.Contains(string(doc.Preamble), "An introduction") {
		t.Errorf("preamble missing intro text: %s", doc.Preamble)
	}

	want := []struct{ id, label string }{
		{"getting-started", "Getting Started"},
		{"configuration", "Config"},
		{"how-to", "Usage"},
	}
	if len(doc.Sections) != len(want) {
		t.Fatalf("got %d sections, want %d", len(doc.Sections), len(want))
	}
	for i, w := range want {
		s := doc.Sections[i]
		if s.ID != w.id || s.Label != w.label {
			t.Errorf("section[%d] = (%q, %q), want (%q, %q)", i, s.ID, s.Label, w.id, w.label)
		}
	}

	first := string(doc.Sections[0].HTML)
	if !strings.Contains(first, "Requirements") {
		t.Error("lower level headings should stay inside their section")
	}
	if strings.Contains(first, `id="getting-started"`) {
		t.Error("section heading should not repeat the section id")
	}
	if strings.Contains(string(doc.Sections[1].HTML), NavAttribute) {
		t.Error("nav attribute should not leak into the rendered heading")
	}
	if !strings.Contains(string(doc.Sections[1].HTML), "8080") {
		t.Error("code block missing from configuration section")
	}
}

func TestRenderMetaOrder(t *testing.T) {
	doc, err := NewRenderer(Options{}).Render([]byte(guide), "guide.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	metas := doc.Meta()
	if len(metas) != 3 {
		t.Fatalf("got %d metas", len(metas))
	}
	for i, m := range metas {
		if m.ID != doc.Sections[i].ID || m.Label != doc.Sections[i].Label {
			t.Errorf("meta[%d] = %+v does not match section", i, m)
		}
	}
}

func TestRenderWithoutSections(t *testing.T) {
	doc, err := NewRenderer(Options{}).Render([]byte("just a paragraph\n"), "notes/plain.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(doc.Sections))
	}
	if doc.Title != "plain" {
		t.Errorf("title should fall back to file name, got %q", doc.Title)
	}
	if len(doc.Meta()) != 0 {
		t.Error("expected empty meta")
	}
}

func TestRenderSectionLevel(t *testing.T) {
	src := "# One\n\ntext\n\n# Two\n\nmore\n"
	doc, err := NewRenderer(Options{SectionLevel: 1}).Render([]byte(src), "x.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(doc.Sections) != 2 || doc.Sections[0].ID != "one" || doc.Sections[1].ID != "two" {
		t.Errorf("unexpected sections %+v", doc.Sections)
	}
}

func TestRenderDuplicateHeadings(t *testing.T) {
	src := "## Notes\n\na\n\n## Notes\n\nb\n"
	doc, err := NewRenderer(Options{}).Render([]byte(src), "x.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].ID == doc.Sections[1].ID {
		t.Errorf("duplicate headings should get distinct ids, both are %q", doc.Sections[0].ID)
	}
}
