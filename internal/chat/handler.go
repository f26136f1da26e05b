package chat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/solargearltd/solar-platform/pkg/logging"
	"golang.org/x/net/websocket"
)

// DefaultIdleTTL is how long a widget survives without visitor activity
// before the sweeper closes its session.
const DefaultIdleTTL = 30 * time.Minute

// WidgetFactory creates a widget (and its backing session) for one visitor.
type WidgetFactory func(visitorID string) *Widget

// Handler exposes the chat widget over WebSocket with an HTTP fallback.
// Widgets survive reconnects: the visitor ID keys the live widget, so a
// dropped socket resumes against the same transcript and remote session.
// Widgets are released when the page closes them explicitly or when the
// idle sweeper finds them inactive past the TTL.
type Handler struct {
	newWidget WidgetFactory
	logger    *logging.Logger
	idleTTL   time.Duration
	now       func() time.Time

	mu      sync.Mutex
	widgets map[string]*widgetEntry // visitorID -> live widget
}

type widgetEntry struct {
	widget   *Widget
	lastSeen time.Time
}

// InboundMessage is what the page sends over the socket.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "prefill", "escalate", "close", "ping"
	VisitorID string `json:"visitor_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what the handler pushes to the page.
type OutboundMessage struct {
	Type      string    `json:"type"` // "message", "typing", "history", "session", "whatsapp", "pong", "error"
	Message   *Message  `json:"message,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
	VisitorID string    `json:"visitor_id,omitempty"`
	Link      string    `json:"link,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
}

// NewHandler creates a chat handler.
func NewHandler(newWidget WidgetFactory, idleTTL time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Handler{
		newWidget: newWidget,
		logger:    logger,
		idleTTL:   idleTTL,
		now:       time.Now,
		widgets:   make(map[string]*widgetEntry),
	}
}

func generateVisitorID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// widget returns the visitor's live widget, creating it on first contact.
// Every access refreshes the idle clock.
func (h *Handler) widget(visitorID string) *Widget {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.widgets[visitorID]; ok {
		e.lastSeen = h.now()
		return e.widget
	}
	w := h.newWidget(visitorID)
	h.widgets[visitorID] = &widgetEntry{widget: w, lastSeen: h.now()}
	return w
}

// CloseVisitor releases the visitor's widget and its remote session. It is a
// no-op for unknown visitors.
func (h *Handler) CloseVisitor(visitorID string) {
	h.mu.Lock()
	e, ok := h.widgets[visitorID]
	if ok {
		delete(h.widgets, visitorID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	if err := e.widget.Close(); err != nil {
		h.logger.Warn("chat: widget close failed", "visitor_id", visitorID, "error", err)
	}
}

// SweepIdle closes and removes every widget inactive past the TTL and
// returns how many were released.
func (h *Handler) SweepIdle() int {
	cutoff := h.now().Add(-h.idleTTL)

	h.mu.Lock()
	var expired []*widgetEntry
	for id, e := range h.widgets {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e)
			delete(h.widgets, id)
		}
	}
	h.mu.Unlock()

	for _, e := range expired {
		if err := e.widget.Close(); err != nil {
			h.logger.Warn("chat: idle widget close failed", "error", err)
		}
	}
	if len(expired) > 0 {
		h.logger.Info("chat: released idle widgets", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps idle widgets until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) {
	interval := h.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.SweepIdle()
		}
	}
}

// HandleWebSocket upgrades to WebSocket and drives the widget in real time.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	visitorID := r.URL.Query().Get("visitor")
	if visitorID == "" {
		visitorID = generateVisitorID()
	}
	widget := h.widget(visitorID)

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", VisitorID: visitorID})
	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: widget.Transcript().Messages()})

	h.logger.Info("chat: connection opened", "visitor_id", visitorID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("chat: connection closed", "visitor_id", visitorID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
		case "close":
			h.CloseVisitor(visitorID)
			return
		case "escalate":
			link := widget.EscalateWhatsApp(r.Context())
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "whatsapp", Link: link})
		case "prefill":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})
			reply, sent, err := widget.SendPrefill(r.Context(), msg.Text)
			if err != nil || !sent {
				continue
			}
			h.touch(visitorID)
			h.sendReply(conn, reply)
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})
			reply, err := widget.Send(r.Context(), msg.Text)
			if err != nil {
				h.sendSendError(conn, err)
				continue
			}
			h.touch(visitorID)
			h.sendReply(conn, reply)
		}
	}
}

// touch refreshes the idle clock for a visitor whose widget is already live.
func (h *Handler) touch(visitorID string) {
	h.mu.Lock()
	if e, ok := h.widgets[visitorID]; ok {
		e.lastSeen = h.now()
	}
	h.mu.Unlock()
}

func (h *Handler) sendReply(conn *websocket.Conn, reply Message) {
	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "message",
		Message:   &reply,
		Timestamp: reply.Timestamp.Format(time.RFC3339),
	})
}

func (h *Handler) sendSendError(conn *websocket.Conn, err error) {
	detail := "message rejected"
	switch {
	case errors.Is(err, ErrReplyPending):
		detail = "a reply is still pending"
	case errors.Is(err, ErrEmptyMessage):
		detail = "message is empty"
	}
	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Detail: detail})
}

// HandleMessage is the HTTP fallback for pages without WebSocket support.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VisitorID string `json:"visitor_id"`
		Text      string `json:"text"`
		Prefill   bool   `json:"prefill,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.VisitorID == "" {
		req.VisitorID = generateVisitorID()
	}

	widget := h.widget(req.VisitorID)

	var reply Message
	var err error
	if req.Prefill {
		var sent bool
		reply, sent, err = widget.SendPrefill(r.Context(), req.Text)
		if err == nil && !sent {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"visitor_id": req.VisitorID,
				"skipped":    true,
			})
			return
		}
	} else {
		reply, err = widget.Send(r.Context(), req.Text)
	}
	if err != nil {
		if errors.Is(err, ErrReplyPending) {
			http.Error(w, "a reply is still pending", http.StatusConflict)
			return
		}
		http.Error(w, "message rejected", http.StatusBadRequest)
		return
	}
	h.touch(req.VisitorID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"visitor_id": req.VisitorID,
		"message":    reply,
	})
}

// HandleHistory returns the visitor's transcript.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	visitorID := r.URL.Query().Get("visitor")
	if visitorID == "" {
		http.Error(w, "visitor parameter required", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	entry, ok := h.widgets[visitorID]
	if ok {
		entry.lastSeen = h.now()
	}
	h.mu.Unlock()

	messages := []Message{}
	if ok {
		messages = entry.widget.Transcript().Messages()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": messages})
}

// HandleEscalate records a WhatsApp escalation and returns the link.
func (h *Handler) HandleEscalate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VisitorID string `json:"visitor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.VisitorID == "" {
		http.Error(w, "visitor_id is required", http.StatusBadRequest)
		return
	}

	link := h.widget(req.VisitorID).EscalateWhatsApp(r.Context())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"link": link})
}

// HandleClose releases the visitor's widget when the page unmounts it. The
// page fires this as a beacon, so the response is always 204.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VisitorID string `json:"visitor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.VisitorID != "" {
		h.CloseVisitor(req.VisitorID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Shutdown closes every live widget and its remote session.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	entries := make([]*widgetEntry, 0, len(h.widgets))
	for _, e := range h.widgets {
		entries = append(entries, e)
	}
	h.widgets = make(map[string]*widgetEntry)
	h.mu.Unlock()

	var firstErr error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.widget.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
