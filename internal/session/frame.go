package session

import "github.com/ziadkadry99/pagenav/internal/scroll"

// Classes names the CSS classes that mark the active section and entry.
type Classes struct {
	Section string
	Entry   string
}

type markKey struct {
	target string
	id     string
}

// frame buffers the page operations produced while handling one message.
// It only emits class ops for markers whose state actually changes.
type frame struct {
	classes Classes
	marks   map[markKey]bool
	ops     []Op
}

func newFrame(classes Classes) *frame {
	return &frame{classes: classes, marks: make(map[markKey]bool)}
}

// MarkSection implements nav.View.
func (f *frame) MarkSection(id string, active bool) {
	f.mark(TargetSection, f.classes.Section, id, active)
}

// MarkEntry implements nav.View.
func (f *frame) MarkEntry(id string, active bool) {
	f.mark(TargetEntry, f.classes.Entry, id, active)
}

func (f *frame) mark(target, class, id string, active bool) {
	k := markKey{target: target, id: id}
	if f.marks[k] == active {
		return
	}
	if active {
		f.marks[k] = true
	} else {
		delete(f.marks, k)
	}
	f.ops = append(f.ops, Op{Op: OpClass, Target: target, ID: id, Class: class, On: active})
}

// ScrollIntoView implements scroll.Scroller.
func (f *frame) ScrollIntoView(id string, opts scroll.Options) {
	f.ops = append(f.ops, Op{Op: OpScroll, ID: id, Behavior: opts.Behavior, Block: opts.Block})
}

// reset forgets every marker, matching a freshly loaded page.
func (f *frame) reset() {
	clear(f.marks)
	f.ops = nil
}

// take returns the buffered ops and empties the buffer.
func (f *frame) take() []Op {
	ops := f.ops
	f.ops = nil
	return ops
}
