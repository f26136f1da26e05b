// Package chat is the visitor-facing surface of the Virtual Surveyor: an
// append-only transcript, a widget that sequences sends against one
// conversation session, and the HTTP/WebSocket handler that exposes both.
package chat

import (
	"sync"
	"time"
)

// Greeting is the assistant's opening message. Every transcript starts with
// it so the widget never renders an empty panel.
const Greeting = "Hi 👋 Welcome to Solar Gear. Are you looking for a solar solution for your Home, Business, or an Apartment here in Nairobi? 😊"

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. IsError marks fallback replies so the
// widget can render the WhatsApp escalation next to them; IsBooking marks
// replies that should carry the booking link.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	IsError   bool      `json:"is_error,omitempty"`
	IsBooking bool      `json:"is_booking,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is an append-only message log for one widget. Messages are
// never edited or removed once appended.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

// NewTranscript creates a transcript seeded with the greeting.
func NewTranscript() *Transcript {
	t := &Transcript{now: time.Now}
	t.Append(Message{Role: RoleAssistant, Text: Greeting})
	return t
}

// Append adds a message, stamping it if the caller did not.
func (t *Transcript) Append(msg Message) Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = t.now().UTC()
	}
	t.messages = append(t.messages, msg)
	return msg
}

// Messages returns a copy of the log in append order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len reports the number of messages including the greeting.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
