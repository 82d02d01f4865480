// Package visibility describes the page-side visibility tracker: the
// thresholds it is configured with and the entries it reports.
package visibility

import (
	"math"

	"github.com/ziadkadry99/pagenav/internal/spy"
)

// Default threshold range: a region must be at least 35% visible before
// the tracker reports it, then every 5% up to fully visible.
const (
	DefaultMin  = 0.35
	DefaultMax  = 1.0
	DefaultStep = 0.05
)

// Thresholds returns the ratios at which the tracker reports crossings,
// from lo to hi inclusive in step increments, rounded to two decimals.
// Out of range bounds are clamped to [0,1]; a non-positive step yields
// only lo and hi.
func Thresholds(lo, hi, step float64) []float64 {
	lo = clamp(lo)
	hi = clamp(hi)
	if hi < lo {
		lo, hi = hi, lo
	}
	if step <= 0 {
		if lo == hi {
			return []float64{round2(lo)}
		}
		return []float64{round2(lo), round2(hi)}
	}

	var out []float64
	n := int(math.Floor((hi-lo)/step + 1e-9))
	for i := 0; i <= n; i++ {
		out = append(out, round2(lo+float64(i)*step))
	}
	if last := out[len(out)-1]; last < round2(hi) {
		out = append(out, round2(hi))
	}
	return out
}

// Entry is one record of a tracker callback as sent by the page.
type Entry struct {
	ID             string  `json:"id"`
	IsIntersecting bool    `json:"isIntersecting"`
	Ratio          float64 `json:"ratio"`
}

// Decode converts tracker entries into a resolver batch. Entries with an
// empty id, or an id known rejects, are dropped; the rest keep their
// order. Ratios are clamped into [0,1] and NaN becomes 0.
func Decode(entries []Entry, known func(id string) bool) (spy.Batch, int) {
	batch := make(spy.Batch, 0, len(entries))
	dropped := 0
	for _, e := range entries {
		if e.ID == "" || (known != nil && !known(e.ID)) {
			dropped++
			continue
		}
		batch = append(batch, spy.Event{
			RegionID:     e.ID,
			Intersecting: e.IsIntersecting,
			Ratio:        clamp(e.Ratio),
		})
	}
	return batch, dropped
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
