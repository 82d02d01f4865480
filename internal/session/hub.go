package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagenav/internal/journal"
)

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

// ErrUnknownSection is returned when navigating to a section the
// session's document does not have.
var ErrUnknownSection = errors.New("unknown section")

// Hub tracks the live sessions.
type Hub struct {
	opts     Options
	recorder journal.Recorder
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub creates an empty hub. recorder may be nil.
func NewHub(opts Options, recorder journal.Recorder, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		opts:     opts,
		recorder: recorder,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Options returns the options sessions are opened with.
func (h *Hub) Options() Options { return h.opts }

// Open registers a new session for document. The caller runs it.
func (h *Hub) Open(document string, source Source, transport Transport) *Session {
	s := New(uuid.New().String(), document, source, transport, h.opts, h.recorder, h.logger)

	h.mu.Lock()
	h.sessions[s.ID()] = s
	h.mu.Unlock()

	h.logger.Debug("session opened", zap.String("session", s.ID()), zap.String("document", document))
	return s
}

// Remove closes and forgets the session id.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if ok {
		s.Close()
		h.logger.Debug("session closed", zap.String("session", id))
	}
}

// Get returns the session id.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// List returns snapshots of all sessions, oldest first.
func (h *Hub) List() []Snapshot {
	h.mu.RLock()
	out := make([]Snapshot, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s.Snapshot())
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Connected.Equal(out[j].Connected) {
			return out[i].ID < out[j].ID
		}
		return out[i].Connected.Before(out[j].Connected)
	})
	return out
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast offers msg to every session showing document and returns how
// many accepted it. Sessions with a full inbox are skipped, so one slow
// page cannot hold up the others.
func (h *Hub) Broadcast(ctx context.Context, document string, msg Message) int {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if s.Document() == document {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()

	n := 0
	for _, s := range targets {
		if ctx.Err() != nil {
			break
		}
		if err := s.TryPost(msg); err != nil {
			h.logger.Warn("broadcast skipped session", zap.String("session", s.ID()), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

// Navigate scrolls session id to section as if the reader clicked its menu
// entry.
func (h *Hub) Navigate(ctx context.Context, id, section string) error {
	s, ok := h.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !s.Known(section) {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return s.Post(ctx, NavigateMessage{ID: section})
}

// Close closes every session.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
