package session

import "github.com/ziadkadry99/pagenav/internal/visibility"

// Message is anything a session actor consumes from its inbox.
type Message interface {
	message()
}

// BatchMessage carries one visibility tracker callback.
type BatchMessage struct {
	Entries []visibility.Entry
}

// ClickMessage is a click on a menu entry.
type ClickMessage struct {
	Href string
}

// SettledMessage reports that scrolling momentum stopped.
type SettledMessage struct{}

// NavigateMessage asks the page to scroll to a section on the reader's
// behalf. It takes the same path as a menu click.
type NavigateMessage struct {
	ID string
}

// ReloadMessage tells the page its document changed.
type ReloadMessage struct{}

// invalidMessage reports an inbound frame that could not be decoded.
type invalidMessage struct {
	err error
}

func (BatchMessage) message()    {}
func (ClickMessage) message()    {}
func (SettledMessage) message()  {}
func (NavigateMessage) message() {}
func (ReloadMessage) message()   {}
func (invalidMessage) message()  {}
