// Package nav reflects the active region on the page: it toggles the
// active markers of sections and menu entries and asks for a scroll when
// the activation did not come from the reader.
package nav

import (
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagenav/internal/outline"
	"github.com/ziadkadry99/pagenav/internal/scroll"
)

// View receives marker changes. Implementations translate them into the
// page's class list operations.
type View interface {
	MarkSection(id string, active bool)
	MarkEntry(id string, active bool)
}

// Scroller is the part of the scroll coordinator the presenter needs.
type Scroller interface {
	Suppressed() bool
	ScrollTo(id string, origin scroll.Origin) bool
}

// Presenter applies activation decisions to a View.
type Presenter struct {
	outline  func() *outline.Outline
	view     View
	scroller Scroller
	logger   *zap.Logger

	active string
}

// NewPresenter creates a presenter over the outline returned by current,
// which is consulted on every call so rebuilds are picked up.
func NewPresenter(current func() *outline.Outline, view View, scroller Scroller, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Presenter{
		outline:  current,
		view:     view,
		scroller: scroller,
		logger:   logger,
	}
}

// SetActive marks the region id and its entry active and every other one
// inactive. An empty id clears all markers. An id that is not part of the
// outline is ignored.
func (p *Presenter) SetActive(id string) {
	o := p.outline()
	if id != "" && !o.Has(id) {
		p.logger.Debug("activation for unknown section ignored", zap.String("section", id))
		return
	}

	for _, r := range o.Regions() {
		p.view.MarkSection(r.ID, r.ID == id)
	}
	for _, e := range o.Entries() {
		p.view.MarkEntry(e.ID, id != "" && e.Target() == id)
	}

	changed := id != p.active
	p.active = id

	if id == "" || !changed {
		return
	}
	if p.scroller.Suppressed() {
		p.logger.Debug("scroll withheld while reader is scrolling", zap.String("section", id))
		return
	}
	p.scroller.ScrollTo(id, scroll.OriginResolver)
}

// Active returns the id last presented as active.
func (p *Presenter) Active() string { return p.active }

// Forget drops the remembered active id without touching the view, used
// after the page reloaded with a fresh document.
func (p *Presenter) Forget() { p.active = "" }
