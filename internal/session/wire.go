package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ziadkadry99/pagenav/internal/visibility"
)

// Inbound message types sent by the page.
const (
	TypeBatch   = "batch"
	TypeClick   = "click"
	TypeSettled = "settled"
)

// Outbound message types sent to the page.
const (
	TypeHello  = "hello"
	TypeFrame  = "frame"
	TypeReload = "reload"
	TypeError  = "error"
)

// Op kinds carried in a frame.
const (
	OpClass  = "class"
	OpScroll = "scroll"
)

// Class op targets.
const (
	TargetSection = "section"
	TargetEntry   = "entry"
)

// Inbound is the JSON shape of every message the page sends.
type Inbound struct {
	Type    string             `json:"type"`
	Entries []visibility.Entry `json:"entries,omitempty"`
	Href    string             `json:"href,omitempty"`
}

// Op is one instruction for the page. Class ops toggle a class on a section
// or menu entry; scroll ops scroll a section into view.
type Op struct {
	Op       string `json:"op"`
	Target   string `json:"target,omitempty"`
	ID       string `json:"id"`
	Class    string `json:"class,omitempty"`
	On       bool   `json:"on"`
	Behavior string `json:"behavior,omitempty"`
	Block    string `json:"block,omitempty"`
}

// Outbound is the JSON shape of every message sent to the page.
type Outbound struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"session_id,omitempty"`
	Document   string    `json:"document,omitempty"`
	Thresholds []float64 `json:"thresholds,omitempty"`
	Ops        []Op      `json:"ops,omitempty"`
	Message    string    `json:"message,omitempty"`
}

var errEmptyType = errors.New("message has no type")

// DecodeInbound parses a page message into the session message it stands
// for.
func DecodeInbound(data []byte) (Message, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("invalid message format: %w", err)
	}
	switch in.Type {
	case TypeBatch:
		return BatchMessage{Entries: in.Entries}, nil
	case TypeClick:
		if in.Href == "" {
			return nil, fmt.Errorf("click without href")
		}
		return ClickMessage{Href: in.Href}, nil
	case TypeSettled:
		return SettledMessage{}, nil
	case "":
		return nil, errEmptyType
	default:
		return nil, fmt.Errorf("unknown message type: %s", in.Type)
	}
}
