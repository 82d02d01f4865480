package session

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/ziadkadry99/pagenav/internal/journal"
	"github.com/ziadkadry99/pagenav/internal/outline"
	"github.com/ziadkadry99/pagenav/internal/scroll"
	"github.com/ziadkadry99/pagenav/internal/visibility"
)

type fakeTransport struct {
	mu   sync.Mutex
	sent []Outbound
	err  error
}

func (f *fakeTransport) Send(msg Outbound) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeTransport) take() []Outbound {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sent
	f.sent = nil
	return out
}

type memRecorder struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (m *memRecorder) Record(_ context.Context, e journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memRecorder) kinds() []journal.Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []journal.Kind
	for _, e := range m.entries {
		out = append(out, e.Kind)
	}
	return out
}

var testOptions = Options{
	Thresholds: visibility.Thresholds(visibility.DefaultMin, visibility.DefaultMax, visibility.DefaultStep),
	Classes:    Classes{Section: "sec-active", Entry: "item-active"},
	Scroll:     scroll.DefaultOptions,
}

func newTestSession(t *testing.T, ids ...string) (*Session, *fakeTransport, *memRecorder) {
	t.Helper()
	metas := make([]outline.Meta, len(ids))
	for i, id := range ids {
		metas[i] = outline.Meta{ID: id}
	}
	tr := &fakeTransport{}
	rec := &memRecorder{}
	s := New("sess-1", "guide", outline.NewRegistry(metas), tr, testOptions, rec, zaptest.NewLogger(t))
	return s, tr, rec
}

func entry(id string, in bool, ratio float64) visibility.Entry {
	return visibility.Entry{ID: id, IsIntersecting: in, Ratio: ratio}
}

func classOp(target, id string, on bool) Op {
	class := "sec-active"
	if target == TargetEntry {
		class = "item-active"
	}
	return Op{Op: OpClass, Target: target, ID: id, Class: class, On: on}
}

func scrollOp(id string) Op {
	return Op{Op: OpScroll, ID: id, Behavior: "smooth", Block: "center"}
}

func mustHandle(t *testing.T, s *Session, msg Message) {
	t.Helper()
	if err := s.handle(context.Background(), msg); err != nil {
		t.Fatalf("handle(%T): %v", msg, err)
	}
}

func onlyFrame(t *testing.T, tr *fakeTransport) []Op {
	t.Helper()
	sent := tr.take()
	if len(sent) == 0 {
		return nil
	}
	if len(sent) != 1 || sent[0].Type != TypeFrame {
		t.Fatalf("sent = %+v, want a single frame", sent)
	}
	return sent[0].Ops
}

func TestActivationMarksAndScrolls(t *testing.T) {
	s, tr, rec := newTestSession(t, "intro", "usage", "faq")

	mustHandle(t, s, BatchMessage{Entries: []visibility.Entry{entry("intro", true, 0.6)}})

	want := []Op{
		classOp(TargetSection, "intro", true),
		classOp(TargetEntry, "intro", true),
		scrollOp("intro"),
	}
	if got := onlyFrame(t, tr); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %+v\nwant %+v", got, want)
	}

	snap := s.Snapshot()
	if snap.Active != "intro" || snap.Ratio != 0.6 || snap.Batches != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if got := rec.kinds(); !reflect.DeepEqual(got, []journal.Kind{journal.KindActivate}) {
		t.Errorf("journal kinds = %v", got)
	}
}

func TestNoDecisionSendsNothing(t *testing.T) {
	s, tr, rec := newTestSession(t, "intro", "usage")

	mustHandle(t, s, BatchMessage{Entries: []visibility.Entry{entry("intro", false, 0)}})

	if sent := tr.take(); len(sent) != 0 {
		t.Errorf("sent = %+v, want nothing", sent)
	}
	if len(rec.kinds()) != 0 {
		t.Errorf("journal kinds = %v, want none", rec.kinds())
	}
	if s.Snapshot().Batches != 1 {
		t.Errorf("Batches = %d, want 1", s.Snapshot().Batches)
	}
}

func TestUnknownEntriesIgnored(t *testing.T) {
	s, tr, _ := newTestSession(t, "intro")

	mustHandle(t, s, BatchMessage{Entries: []visibility.Entry{
		entry("ghost", true, 1),
		entry("intro", true, 0.4),
	}})

	if s.Snapshot().Active != "intro" {
		t.Errorf("Active = %q, want intro", s.Snapshot().Active)
	}
	for _, op := range onlyFrame(t, tr) {
		if op.ID == "ghost" {
			t.Errorf("unexpected op for unknown region: %+v", op)
		}
	}
}

func TestClickSuppressesResolverScroll(t *testing.T) {
	s, tr, rec := newTestSession(t, "intro", "usage", "faq")

	mustHandle(t, s, BatchMessage{Entries: []visibility.Entry{entry("intro", true, 0.6)}})
	tr.take()

	// The reader clicks the faq entry.
	mustHandle(t, s, ClickMessage{Href: "#faq"})
	if got := onlyFrame(t, tr); !reflect.DeepEqual(got, []Op{scrollOp("faq")}) {
		t.Errorf("click ops = %+v", got)
	}
	snap := s.Snapshot()
	if snap.Mode != scroll.UserScrolling || snap.Target != "faq" {
		t.Errorf("after click mode = %v target = %q", snap.Mode, snap.Target)
	}

	// While scrolling, a new region becomes active: markers move, no scroll.
	mustHandle(t, s, BatchMessage{Entries: []visibility.Entry{
		entry("intro", false, 0.1),
		entry("usage", true, 0.7),
	}})
	want := []Op{
		classOp(TargetSection, "intro", false),
		classOp(TargetSection, "usage", true),
		classOp(TargetEntry, "intro", false),
		classOp(TargetEntry, "usage", true),
	}
	if got := onlyFrame(t, tr); !reflect.DeepEqual(got, want) {
		t.Errorf("suppressed ops = %+v\nwant %+v", got, want)
	}

	mustHandle(t, s, SettledMessage{})
	if sent := tr.take(); len(sent) != 0 {
		t.Errorf("settled sent %+v", sent)
	}
	if s.Snapshot().Mode != scroll.Idle {
		t.Errorf("mode after settle = %v, want idle", s.Snapshot().Mode)
	}

	// Once settled, automatic activations scroll again.
	mustHandle(t, s, BatchMessage{Entries: []visibility.Entry{entry("faq", true, 0.9)}})
	ops := onlyFrame(t, tr)
	if len(ops) == 0 || ops[len(ops)-1] != scrollOp("faq") {
		t.Errorf("post-settle ops = %+v, want trailing scroll to faq", ops)
	}

	wantKinds := []journal.Kind{
		journal.KindActivate,
		journal.KindNavigate,
		journal.KindActivate,
		journal.KindSettle,
		journal.KindActivate,
	}
	if got := rec.kinds(); !reflect.DeepEqual(got, wantKinds) {
		t.Errorf("journal kinds = %v\nwant %v", got, wantKinds)
	}
}

func TestClickUnknownSectionIsNoop(t *testing.T) {
	s, tr, rec := newTestSession(t, "intro")

	for _, href := range []string{"#missing", "no-fragment", "#"} {
		mustHandle(t, s, ClickMessage{Href: href})
	}
	if sent := tr.take(); len(sent) != 0 {
		t.Errorf("sent = %+v, want nothing", sent)
	}
	if s.Snapshot().Mode != scroll.Idle {
		t.Error("stale click must not suppress scrolling")
	}
	if len(rec.kinds()) != 0 {
		t.Errorf("journal kinds = %v, want none", rec.kinds())
	}
}

func TestRedundantSettledIsHarmless(t *testing.T) {
	s, tr, rec := newTestSession(t, "intro")

	mustHandle(t, s, SettledMessage{})
	mustHandle(t, s, SettledMessage{})

	if sent := tr.take(); len(sent) != 0 {
		t.Errorf("sent = %+v", sent)
	}
	if len(rec.kinds()) != 0 {
		t.Errorf("idle settle recorded %v", rec.kinds())
	}
}

func TestClearRemovesMarkers(t *testing.T) {
	s, tr, rec := newTestSession(t, "intro", "usage")

	mustHandle(t, s, BatchMessage{Entries: []visibility.Entry{entry("intro", true, 0.5)}})
	tr.take()

	mustHandle(t, s, BatchMessage{Entries: []visibility.Entry{entry("intro", false, 0)}})
	want := []Op{
		classOp(TargetSection, "intro", false),
		classOp(TargetEntry, "intro", false),
	}
	if got := onlyFrame(t, tr); !reflect.DeepEqual(got, want) {
		t.Errorf("clear ops = %+v\nwant %+v", got, want)
	}
	if s.Snapshot().Active != "" {
		t.Errorf("Active = %q, want empty", s.Snapshot().Active)
	}
	kinds := rec.kinds()
	if kinds[len(kinds)-1] != journal.KindClear {
		t.Errorf("last journal kind = %v, want clear", kinds[len(kinds)-1])
	}
}

func TestNavigateTakesClickPath(t *testing.T) {
	s, tr, _ := newTestSession(t, "intro", "usage")

	mustHandle(t, s, NavigateMessage{ID: "usage"})
	if got := onlyFrame(t, tr); !reflect.DeepEqual(got, []Op{scrollOp("usage")}) {
		t.Errorf("ops = %+v", got)
	}
	if s.Snapshot().Mode != scroll.UserScrolling {
		t.Error("agent navigation should suppress automatic scrolls")
	}
}

func TestReloadResetsState(t *testing.T) {
	s, tr, _ := newTestSession(t, "intro")

	mustHandle(t, s, BatchMessage{Entries: []visibility.Entry{entry("intro", true, 0.5)}})
	mustHandle(t, s, ClickMessage{Href: "#intro"})
	tr.take()

	mustHandle(t, s, ReloadMessage{})
	sent := tr.take()
	if len(sent) != 1 || sent[0].Type != TypeReload || sent[0].Document != "guide" {
		t.Fatalf("sent = %+v, want reload", sent)
	}
	snap := s.Snapshot()
	if snap.Active != "" || snap.Mode != scroll.Idle || snap.Batches != 0 {
		t.Errorf("snapshot after reload = %+v", snap)
	}
}

func TestInvalidMessageAnswersError(t *testing.T) {
	s, tr, _ := newTestSession(t, "intro")

	mustHandle(t, s, invalidMessage{err: errors.New("unknown message type: zoom")})
	sent := tr.take()
	if len(sent) != 1 || sent[0].Type != TypeError || sent[0].Message == "" {
		t.Errorf("sent = %+v, want error", sent)
	}
}

func TestRunProcessesInOrderAndStops(t *testing.T) {
	s, tr, _ := newTestSession(t, "a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	post := func(msg Message) {
		if err := s.Post(ctx, msg); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}
	post(BatchMessage{Entries: []visibility.Entry{entry("a", true, 0.4)}})
	post(BatchMessage{Entries: []visibility.Entry{entry("b", true, 0.8)}})
	post(BatchMessage{Entries: []visibility.Entry{entry("a", true, 0.5)}})

	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().Batches < 3 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for batches")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := s.Snapshot().Active; got != "b" {
		t.Errorf("Active = %q, want b", got)
	}
	if len(tr.take()) != 2 {
		t.Error("expected one frame per decision")
	}

	s.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil after Close", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
	if err := s.Post(context.Background(), SettledMessage{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Post after close = %v, want ErrClosed", err)
	}
}

func TestRunStopsOnTransportError(t *testing.T) {
	s, tr, _ := newTestSession(t, "a")
	tr.err = errors.New("broken pipe")

	ctx := context.Background()
	if err := s.Post(ctx, BatchMessage{Entries: []visibility.Entry{entry("a", true, 1)}}); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if err := s.Run(ctx); err == nil {
		t.Error("Run() = nil, want transport error")
	}
}
