// Package scroll executes scroll-into-view requests and tracks whether a
// reader-initiated scroll is still settling.
package scroll

import "go.uber.org/zap"

// Mode is the coordinator's scrolling mode.
type Mode int

const (
	// Idle means no reader-initiated scroll is in flight.
	Idle Mode = iota
	// UserScrolling means a menu or agent navigation scroll has been
	// requested and the page has not reported that scrolling settled.
	UserScrolling
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case UserScrolling:
		return "user_scrolling"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Origin tells the coordinator who asked for a scroll.
type Origin int

const (
	// OriginResolver is a scroll requested after an automatic activation.
	OriginResolver Origin = iota
	// OriginMenu is a scroll requested by a navigation entry click, or by
	// an agent navigating on the reader's behalf.
	OriginMenu
)

// Options are passed to the page with every scroll request.
type Options struct {
	Behavior string `json:"behavior" yaml:"behavior" koanf:"behavior"`
	Block    string `json:"block" yaml:"block" koanf:"block"`
}

// DefaultOptions is a smooth scroll that centers the region.
var DefaultOptions = Options{Behavior: "smooth", Block: "center"}

// Scroller performs the scroll in the environment. Calls are fire and
// forget: completion is reported later through Settled.
type Scroller interface {
	ScrollIntoView(id string, opts Options)
}

// Status is a read-only view of the coordinator.
type Status struct {
	Mode   Mode   `json:"mode"`
	Target string `json:"target,omitempty"`
}

// Valid reports whether mode and target agree: a pending target exists
// exactly while the reader is scrolling.
func (s Status) Valid() bool {
	switch s.Mode {
	case Idle:
		return s.Target == ""
	case UserScrolling:
		return s.Target != ""
	default:
		return false
	}
}

// Coordinator owns the suppression state. Like the resolver it is driven
// from a single goroutine.
type Coordinator struct {
	known    func(id string) bool
	scroller Scroller
	opts     Options
	logger   *zap.Logger

	status Status
}

// NewCoordinator creates a coordinator. known reports whether an id is a
// region of the current document.
func NewCoordinator(known func(id string) bool, scroller Scroller, opts Options, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Behavior == "" {
		opts.Behavior = DefaultOptions.Behavior
	}
	if opts.Block == "" {
		opts.Block = DefaultOptions.Block
	}
	return &Coordinator{
		known:    known,
		scroller: scroller,
		opts:     opts,
		logger:   logger,
	}
}

// ScrollTo requests a scroll to the region id. Unknown ids are ignored and
// reported as false. A menu-originated request enters UserScrolling before
// the scroll is requested.
func (c *Coordinator) ScrollTo(id string, origin Origin) bool {
	if id == "" || (c.known != nil && !c.known(id)) {
		c.logger.Debug("scroll target not found", zap.String("section", id))
		return false
	}
	if origin == OriginMenu {
		c.status = Status{Mode: UserScrolling, Target: id}
	}
	c.scroller.ScrollIntoView(id, c.opts)
	return true
}

// Settled is called once scrolling momentum stopped. It is idempotent.
func (c *Coordinator) Settled() {
	if c.status.Mode == UserScrolling {
		c.logger.Debug("scroll settled", zap.String("target", c.status.Target))
	}
	c.status = Status{Mode: Idle}
}

// Suppressed reports whether automatic scrolls must be withheld.
func (c *Coordinator) Suppressed() bool {
	return c.status.Mode == UserScrolling
}

// Status returns the current mode and pending target.
func (c *Coordinator) Status() Status { return c.status }
