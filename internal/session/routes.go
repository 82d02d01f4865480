package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second

	// maxMessageSize bounds one inbound frame. A visibility batch for a
	// page with thousands of sections stays well below it.
	maxMessageSize = 512 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Lookup resolves a document slug to its outline source.
type Lookup func(slug string) (Source, bool)

// RegisterRoutes mounts the page websocket and the session API.
func RegisterRoutes(r chi.Router, hub *Hub, lookup Lookup) {
	r.Get("/ws/{slug}", hub.handleWebSocket(lookup))
	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", hub.handleList)
		r.Get("/{id}", hub.handleGet)
		r.Post("/{id}/navigate", hub.handleNavigate)
	})
}

// wsTransport writes outbound messages to a websocket.
type wsTransport struct {
	conn *websocket.Conn
}

func (t wsTransport) Send(msg Outbound) error {
	t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return t.conn.WriteJSON(msg)
}

func (h *Hub) handleWebSocket(lookup Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		src, ok := lookup(slug)
		if !ok {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade", zap.Error(err))
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxMessageSize)

		transport := wsTransport{conn: conn}
		s := h.Open(slug, src, transport)
		defer h.Remove(s.ID())

		hello := Outbound{
			Type:       TypeHello,
			SessionID:  s.ID(),
			Document:   slug,
			Thresholds: h.opts.Thresholds,
		}
		if err := transport.Send(hello); err != nil {
			h.logger.Debug("websocket hello", zap.Error(err))
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			defer cancel()
			h.readLoop(ctx, conn, s)
		}()

		if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			h.logger.Debug("session stopped", zap.String("session", s.ID()), zap.Error(err))
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, conn *websocket.Conn, s *Session) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read", zap.String("session", s.ID()), zap.Error(err))
			}
			return
		}

		msg, err := DecodeInbound(data)
		if err != nil {
			msg = invalidMessage{err: err}
		}
		if err := s.Post(ctx, msg); err != nil {
			return
		}
	}
}

func (h *Hub) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.List())
}

func (h *Hub) handleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

type navigateRequest struct {
	Section string `json:"section"`
}

func (h *Hub) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Section == "" {
		http.Error(w, "section is required", http.StatusBadRequest)
		return
	}

	err := h.Navigate(r.Context(), chi.URLParam(r, "id"), req.Section)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrUnknownSection):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
