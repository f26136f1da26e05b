package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/solargearltd/solar-platform/internal/analytics"
	"github.com/solargearltd/solar-platform/internal/conversation"
	"github.com/solargearltd/solar-platform/internal/observability/metrics"
	"github.com/solargearltd/solar-platform/internal/whatsapp"
	"github.com/solargearltd/solar-platform/pkg/logging"
)

// ErrEmptyMessage is returned when Send is given blank input.
var ErrEmptyMessage = errors.New("chat: message is empty")

// ErrReplyPending is returned when Send is called before the previous reply
// arrived. One widget sends strictly one message at a time.
var ErrReplyPending = errors.New("chat: a reply is still pending")

// Conversationalist is the session surface the widget drives.
type Conversationalist interface {
	Send(ctx context.Context, text string) (string, error)
	Close() error
}

// Widget sequences one visitor's exchange with the surveyor: it owns the
// transcript, enforces one in-flight send, classifies replies, and handles
// the WhatsApp escalation.
type Widget struct {
	session        Conversationalist
	transcript     *Transcript
	tagger         *analytics.Tagger
	metrics        *metrics.ChatMetrics
	logger         *logging.Logger
	visitorID      string
	whatsAppNumber string

	mu           sync.Mutex
	pending      bool
	prefillSpent bool
}

// NewWidget creates a widget around an open session. The transcript starts
// with the greeting.
func NewWidget(session Conversationalist, tagger *analytics.Tagger, m *metrics.ChatMetrics, visitorID, whatsAppNumber string, logger *logging.Logger) *Widget {
	if logger == nil {
		logger = logging.Default()
	}
	return &Widget{
		session:        session,
		transcript:     NewTranscript(),
		tagger:         tagger,
		metrics:        m,
		logger:         logger,
		visitorID:      visitorID,
		whatsAppNumber: whatsAppNumber,
	}
}

// Transcript exposes the widget's message log.
func (w *Widget) Transcript() *Transcript { return w.transcript }

// Send submits visitor text and returns the assistant's transcript entry.
// The visitor's message is appended before the reply arrives, so a
// transcript observed mid-send is one message ahead of the replies.
func (w *Widget) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	w.mu.Lock()
	if w.pending {
		w.mu.Unlock()
		return Message{}, ErrReplyPending
	}
	w.pending = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.pending = false
		w.mu.Unlock()
	}()

	w.transcript.Append(Message{Role: RoleUser, Text: text})
	w.metrics.ObserveMessage(string(RoleUser), "text")

	reply, err := w.session.Send(ctx, text)
	if err != nil {
		// Busy and closed sessions are programming faults upstream; the
		// visitor still gets the connection-issue message.
		w.logger.Error("chat: session rejected send", "error", err)
		reply = conversation.FallbackMessage
	}

	msg := classify(reply)
	w.transcript.Append(msg)
	w.metrics.ObserveMessage(string(RoleAssistant), flavor(msg))
	return msg, nil
}

// SendPrefill submits prepared text, typically "Tell me more about the
// <package> package" from a package card. Only the first prefill per widget
// is sent; later ones are dropped so reopening the panel never re-fires it.
func (w *Widget) SendPrefill(ctx context.Context, text string) (Message, bool, error) {
	w.mu.Lock()
	if w.prefillSpent {
		w.mu.Unlock()
		return Message{}, false, nil
	}
	w.prefillSpent = true
	w.mu.Unlock()

	msg, err := w.Send(ctx, text)
	if err != nil {
		return Message{}, false, err
	}
	return msg, true, nil
}

// EscalateWhatsApp records the conversion and returns the wa.me link for the
// engineer handoff offered next to error replies.
func (w *Widget) EscalateWhatsApp(ctx context.Context) string {
	w.tagger.TrackWhatsAppClick(ctx, w.visitorID, analytics.SourceChatModal, "")
	return whatsapp.EscalationLink(w.whatsAppNumber)
}

// Close tears down the underlying session.
func (w *Widget) Close() error {
	return w.session.Close()
}

// classify derives the rendering flavors from the reply text. The fallback
// and booking phrasings are fixed upstream, so substring checks are enough.
// The flags are independent: a reply can carry both.
func classify(reply string) Message {
	msg := Message{Role: RoleAssistant, Text: reply}
	lower := strings.ToLower(reply)
	if strings.Contains(lower, "temporary connection issue") ||
		strings.Contains(lower, "whatsapp option") {
		msg.IsError = true
	}
	if strings.Contains(lower, "calendly.com") ||
		strings.Contains(lower, "book your slot") {
		msg.IsBooking = true
	}
	return msg
}

func flavor(msg Message) string {
	switch {
	case msg.IsError:
		return "error"
	case msg.IsBooking:
		return "booking"
	default:
		return "text"
	}
}
