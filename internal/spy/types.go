package spy

// Event is one visibility crossing reported by the page for a tracked region.
type Event struct {
	RegionID     string  `json:"id"`
	Intersecting bool    `json:"isIntersecting"`
	Ratio        float64 `json:"ratio"`
}

// Batch is the unit of delivery from the visibility tracker. Events keep
// the order in which the tracker delivered them.
type Batch []Event

// State is the currently designated active region and its last known
// visibility ratio.
type State struct {
	SectionID string  `json:"section_id"`
	Ratio     float64 `json:"ratio"`
}

// Empty reports whether no region is active.
func (s State) Empty() bool { return s.SectionID == "" }

// Valid reports whether the state respects its invariant: the ratio is
// zero whenever no region is active, and always within [0,1].
func (s State) Valid() bool {
	if s.Ratio < 0 || s.Ratio > 1 {
		return false
	}
	return s.SectionID != "" || s.Ratio == 0
}

// Decision is the outcome of a batch that requires the presenter to act.
// An empty SectionID clears every marker.
type Decision struct {
	SectionID string  `json:"section_id"`
	Ratio     float64 `json:"ratio"`
}

// Clear reports whether the decision deactivates the current region.
func (d Decision) Clear() bool { return d.SectionID == "" }
