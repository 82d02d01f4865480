// Package session runs one navigation actor per connected page. The actor
// consumes visibility batches and reader input strictly in delivery order,
// feeds them through the resolver, presenter and scroll coordinator, and
// sends the resulting page operations back as a single frame.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/pagenav/internal/journal"
	"github.com/ziadkadry99/pagenav/internal/nav"
	"github.com/ziadkadry99/pagenav/internal/outline"
	"github.com/ziadkadry99/pagenav/internal/scroll"
	"github.com/ziadkadry99/pagenav/internal/spy"
	"github.com/ziadkadry99/pagenav/internal/visibility"
)

// ErrClosed is returned when posting to a session that stopped.
var ErrClosed = errors.New("session closed")

// ErrBusy is returned by TryPost when the inbox is full.
var ErrBusy = errors.New("session inbox full")

// Transport delivers outbound messages to the page. Send is only ever
// called from the session's own goroutine.
type Transport interface {
	Send(msg Outbound) error
}

// Source yields the current outline of the session's document.
type Source interface {
	Current() *outline.Outline
}

// Options configure every session a hub opens.
type Options struct {
	Thresholds []float64
	Classes    Classes
	Scroll     scroll.Options
	InboxSize  int
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID        string      `json:"id"`
	Document  string      `json:"document"`
	Active    string      `json:"active"`
	Ratio     float64     `json:"ratio"`
	Mode      scroll.Mode `json:"mode"`
	Target    string      `json:"target,omitempty"`
	Batches   int         `json:"batches"`
	Connected time.Time   `json:"connected"`
}

// Session is the actor for one page.
type Session struct {
	id        string
	document  string
	source    Source
	transport Transport
	recorder  journal.Recorder
	logger    *zap.Logger

	resolver    *spy.Resolver
	coordinator *scroll.Coordinator
	presenter   *nav.Presenter
	frame       *frame

	inbox     chan Message
	quit      chan struct{}
	closeOnce sync.Once

	mu   sync.RWMutex
	snap Snapshot
}

// New creates a session for document. It does nothing until Run is called.
func New(id, document string, source Source, transport Transport, opts Options, recorder journal.Recorder, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = journal.Discard{}
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = 64
	}
	logger = logger.With(zap.String("session", id), zap.String("document", document))

	s := &Session{
		id:        id,
		document:  document,
		source:    source,
		transport: transport,
		recorder:  recorder,
		logger:    logger,
		resolver:  spy.NewResolver(),
		frame:     newFrame(opts.Classes),
		inbox:     make(chan Message, opts.InboxSize),
		quit:      make(chan struct{}),
		snap: Snapshot{
			ID:        id,
			Document:  document,
			Connected: time.Now(),
		},
	}
	s.coordinator = scroll.NewCoordinator(s.known, s.frame, opts.Scroll, logger)
	s.presenter = nav.NewPresenter(source.Current, s.frame, s.coordinator, logger)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Document returns the slug of the document the page shows.
func (s *Session) Document() string { return s.document }

// Known reports whether id is a section of the session's current outline.
func (s *Session) Known(id string) bool { return s.known(id) }

func (s *Session) known(id string) bool {
	return s.source.Current().Has(id)
}

// Snapshot returns the session state as of the last handled message.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Post queues msg for the actor. It blocks while the inbox is full.
func (s *Session) Post(ctx context.Context, msg Message) error {
	select {
	case <-s.quit:
		return ErrClosed
	default:
	}
	select {
	case s.inbox <- msg:
		return nil
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPost queues msg without waiting. A full inbox yields ErrBusy.
func (s *Session) TryPost(msg Message) error {
	select {
	case <-s.quit:
		return ErrClosed
	default:
	}
	select {
	case s.inbox <- msg:
		return nil
	default:
		return ErrBusy
	}
}

// Close stops the actor. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
}

// Run consumes the inbox until ctx is done, Close is called or the
// transport fails.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.quit:
			return nil
		case msg := <-s.inbox:
			if err := s.handle(ctx, msg); err != nil {
				return err
			}
		}
	}
}

func (s *Session) handle(ctx context.Context, msg Message) error {
	switch m := msg.(type) {
	case BatchMessage:
		s.onBatch(ctx, m.Entries)
	case ClickMessage:
		s.navigate(ctx, outline.Fragment(m.Href))
	case NavigateMessage:
		s.navigate(ctx, m.ID)
	case SettledMessage:
		s.onSettled(ctx)
	case ReloadMessage:
		s.resolver.Reset()
		s.presenter.Forget()
		s.coordinator.Settled()
		s.frame.reset()
		s.publish()
		return s.send(Outbound{Type: TypeReload, Document: s.document})
	case invalidMessage:
		s.logger.Debug("malformed page message", zap.Error(m.err))
		return s.send(Outbound{Type: TypeError, Message: m.err.Error()})
	default:
		return fmt.Errorf("session: unhandled message %T", msg)
	}

	s.publish()
	return s.flush()
}

func (s *Session) onBatch(ctx context.Context, entries []visibility.Entry) {
	batch, dropped := visibility.Decode(entries, s.known)
	if dropped > 0 {
		s.logger.Debug("dropped tracker entries", zap.Int("dropped", dropped))
	}
	dec, ok := s.resolver.Apply(batch)
	if !ok {
		return
	}
	s.presenter.SetActive(dec.SectionID)

	kind := journal.KindActivate
	if dec.Clear() {
		kind = journal.KindClear
	}
	s.record(ctx, journal.Entry{Kind: kind, SectionID: dec.SectionID, Ratio: dec.Ratio})
}

func (s *Session) navigate(ctx context.Context, id string) {
	if !s.coordinator.ScrollTo(id, scroll.OriginMenu) {
		return
	}
	s.record(ctx, journal.Entry{Kind: journal.KindNavigate, SectionID: id})
}

func (s *Session) onSettled(ctx context.Context) {
	st := s.coordinator.Status()
	s.coordinator.Settled()
	if st.Mode == scroll.UserScrolling {
		s.record(ctx, journal.Entry{Kind: journal.KindSettle, SectionID: st.Target})
	}
}

func (s *Session) record(ctx context.Context, e journal.Entry) {
	e.SessionID = s.id
	e.Document = s.document
	if err := s.recorder.Record(ctx, e); err != nil {
		s.logger.Warn("recording journal entry", zap.Error(err))
	}
}

func (s *Session) publish() {
	st := s.resolver.State()
	cs := s.coordinator.Status()

	s.mu.Lock()
	s.snap.Active = st.SectionID
	s.snap.Ratio = st.Ratio
	s.snap.Mode = cs.Mode
	s.snap.Target = cs.Target
	s.snap.Batches = s.resolver.Batches()
	s.mu.Unlock()
}

func (s *Session) flush() error {
	ops := s.frame.take()
	if len(ops) == 0 {
		return nil
	}
	return s.send(Outbound{Type: TypeFrame, Ops: ops})
}

func (s *Session) send(msg Outbound) error {
	if err := s.transport.Send(msg); err != nil {
		return fmt.Errorf("sending %s: %w", msg.Type, err)
	}
	return nil
}
