// Package spy decides which region of a page is the active one, given the
// batches of visibility events reported while the reader scrolls.
package spy

// Resolve applies one batch to st and returns the next state. The boolean
// result reports whether the presenter must be notified with the returned
// decision; when it is false the decision is the zero value and the
// returned state differs from st at most by a refreshed incumbent ratio.
//
// A region other than the incumbent only becomes a candidate when it is
// strictly more visible than the incumbent and than every earlier
// candidate of the same batch, so equal ratios never displace the
// incumbent and the first of several equal candidates wins.
func Resolve(st State, b Batch) (State, Decision, bool) {
	var (
		best       State
		currentOut bool
	)

	for _, ev := range b {
		if ev.RegionID == "" {
			continue
		}
		if ev.RegionID == st.SectionID {
			if !ev.Intersecting {
				currentOut = true
			} else {
				st.Ratio = ev.Ratio
			}
			continue
		}
		if !ev.Intersecting {
			continue
		}
		if ev.Ratio > st.Ratio && ev.Ratio > best.Ratio {
			best = State{SectionID: ev.RegionID, Ratio: ev.Ratio}
		}
	}

	switch {
	case currentOut && best.Ratio == 0:
		return State{}, Decision{}, true
	case best.SectionID != st.SectionID && best.Ratio > 0:
		return best, Decision{SectionID: best.SectionID, Ratio: best.Ratio}, true
	default:
		return st, Decision{}, false
	}
}

// Resolver owns the active state of one page and feeds it batches in
// delivery order. It is not safe for concurrent use; callers serialize
// Apply, which the session actor does by construction.
type Resolver struct {
	state   State
	batches int
}

// NewResolver returns a resolver with no active region.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Apply resolves b against the current state and stores the result.
func (r *Resolver) Apply(b Batch) (Decision, bool) {
	r.batches++
	next, d, ok := Resolve(r.state, b)
	r.state = next
	return d, ok
}

// State returns a copy of the current state.
func (r *Resolver) State() State { return r.state }

// Batches returns how many batches have been applied since the last reset.
func (r *Resolver) Batches() int { return r.batches }

// Reset forgets the active region, e.g. after the document was rebuilt.
func (r *Resolver) Reset() {
	r.state = State{}
	r.batches = 0
}
