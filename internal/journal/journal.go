// Package journal records navigation decisions made by page sessions so
// they can be inspected after the fact.
package journal

import (
	"context"
	"time"
)

// Kind identifies what happened in a session.
type Kind string

const (
	// KindActivate records a section becoming current.
	KindActivate Kind = "activate"
	// KindClear records the current section going away with no successor.
	KindClear Kind = "clear"
	// KindNavigate records a menu or agent request to scroll to a section.
	KindNavigate Kind = "navigate"
	// KindSettle records the end of a user-initiated scroll.
	KindSettle Kind = "settle"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindActivate, KindClear, KindNavigate, KindSettle:
		return true
	}
	return false
}

// Entry is a single journal row.
type Entry struct {
	ID        string    `json:"id"`
	At        time.Time `json:"at"`
	SessionID string    `json:"session_id"`
	Document  string    `json:"document"`
	Kind      Kind      `json:"kind"`
	SectionID string    `json:"section_id,omitempty"`
	Ratio     float64   `json:"ratio,omitempty"`
}

// Recorder accepts journal entries. Store implements it; Discard drops them.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Discard is a Recorder that keeps nothing.
type Discard struct{}

// Record implements Recorder.
func (Discard) Record(context.Context, Entry) error { return nil }
