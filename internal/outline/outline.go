// Package outline holds the ordered set of trackable regions of a document
// and the navigation entries paired with them.
package outline

import (
	"strings"
	"sync/atomic"
)

// Meta is the per-section metadata supplied by the document.
type Meta struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Region is a trackable content section.
type Region struct {
	ID string `json:"id"`
}

// NavEntry is the menu entry paired with a Region by id.
type NavEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Target returns the section id the entry's anchor points at.
func (e NavEntry) Target() string {
	return Fragment(e.Href)
}

// Fragment extracts the part after '#' of an href. An href without a
// fragment yields "".
func Fragment(href string) string {
	_, frag, ok := strings.Cut(href, "#")
	if !ok {
		return ""
	}
	return frag
}

// Outline is an immutable, ordered list of regions and their entries.
// A nil *Outline is valid and means there is nothing to track.
type Outline struct {
	regions []Region
	entries []NavEntry
	index   map[string]int
}

// Build creates an outline from metas in document order. Metas without an
// id are skipped and duplicate ids keep their first occurrence. It returns
// nil when no region remains.
func Build(metas []Meta) *Outline {
	o := &Outline{index: make(map[string]int, len(metas))}
	for _, m := range metas {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			continue
		}
		if _, dup := o.index[id]; dup {
			continue
		}
		label := strings.TrimSpace(m.Label)
		if label == "" {
			label = id
		}
		o.index[id] = len(o.regions)
		o.regions = append(o.regions, Region{ID: id})
		o.entries = append(o.entries, NavEntry{ID: id, Label: label, Href: "#" + id})
	}
	if len(o.regions) == 0 {
		return nil
	}
	return o
}

// Len returns the number of regions.
func (o *Outline) Len() int {
	if o == nil {
		return 0
	}
	return len(o.regions)
}

// Empty reports whether there is nothing to track.
func (o *Outline) Empty() bool { return o.Len() == 0 }

// Regions returns a copy of the regions in document order.
func (o *Outline) Regions() []Region {
	if o == nil {
		return nil
	}
	return append([]Region(nil), o.regions...)
}

// Entries returns a copy of the navigation entries in document order.
func (o *Outline) Entries() []NavEntry {
	if o == nil {
		return nil
	}
	return append([]NavEntry(nil), o.entries...)
}

// Has reports whether id names a region of the outline.
func (o *Outline) Has(id string) bool {
	return o.Index(id) >= 0
}

// Index returns the document position of id, or -1.
func (o *Outline) Index(id string) int {
	if o == nil {
		return -1
	}
	if i, ok := o.index[id]; ok {
		return i
	}
	return -1
}

// Registry holds the current outline of one document. Rebuild swaps the
// whole outline at once so readers never observe a partial list.
type Registry struct {
	cur atomic.Pointer[Outline]
}

// NewRegistry returns a registry built from metas.
func NewRegistry(metas []Meta) *Registry {
	r := &Registry{}
	r.Rebuild(metas)
	return r
}

// Rebuild replaces the outline with one built from metas and returns it.
func (r *Registry) Rebuild(metas []Meta) *Outline {
	o := Build(metas)
	r.cur.Store(o)
	return o
}

// Current returns the outline snapshot. It may be nil.
func (r *Registry) Current() *Outline {
	return r.cur.Load()
}

// Has reports whether id names a region of the current outline.
func (r *Registry) Has(id string) bool {
	return r.Current().Has(id)
}
