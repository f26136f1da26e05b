// Package conversation wraps one ongoing exchange with the hosted model: it
// sends user text, receives either plain text or a submitLead invocation,
// forwards invocations to the lead gateway, and shields callers from every
// transport fault behind a fixed fallback message.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/solargearltd/solar-platform/internal/analytics"
	"github.com/solargearltd/solar-platform/internal/leadgate"
	"github.com/solargearltd/solar-platform/pkg/logging"
)

// ErrSessionBusy is returned when Send is called while a prior Send is still
// in flight. Sends on one session must be sequential; the widget enforces
// this with its pending flag and the session defends the invariant itself.
var ErrSessionBusy = errors.New("conversation: a send is already in flight")

// State is the session's visible lifecycle position. The submitLead round
// trip gets its own state so the extended busy window is observable instead
// of hidden inside a single send.
type State int

const (
	// StateIdle: no send in flight. The remote handle may not exist yet.
	StateIdle State = iota
	// StateSending: a user message is awaiting its model reply.
	StateSending
	// StateAwaitingLead: the model invoked submitLead and the session is
	// executing the gateway call plus the confirmation round trip.
	StateAwaitingLead
)

func (s State) String() string {
	switch s {
	case StateSending:
		return "sending"
	case StateAwaitingLead:
		return "awaiting_lead"
	default:
		return "idle"
	}
}

// LeadSubmitter executes the declared capability against the forms backend.
type LeadSubmitter interface {
	Submit(ctx context.Context, payload leadgate.Payload) leadgate.Outcome
}

// ModelFactory lazily creates the remote handle on first send.
type ModelFactory func(ctx context.Context) (ChatModel, error)

// Session owns one remote conversational context. It is created by whoever
// owns the chat feature and must be closed when that owner is torn down.
type Session struct {
	newModel ModelFactory
	gateway  LeadSubmitter
	tagger   *analytics.Tagger

	visitorID      string
	whatsAppNumber string
	logger         *logging.Logger

	mu     sync.Mutex
	state  State
	model  ChatModel
	closed bool
}

// NewSession creates a session for one visitor. The remote handle is not
// created until the first Send.
func NewSession(newModel ModelFactory, gateway LeadSubmitter, tagger *analytics.Tagger, visitorID, whatsAppNumber string, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	return &Session{
		newModel:       newModel,
		gateway:        gateway,
		tagger:         tagger,
		visitorID:      visitorID,
		whatsAppNumber: whatsAppNumber,
		logger:         logger,
		state:          StateIdle,
	}
}

// State reports the session's current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Send transmits text within the session and returns the effective reply.
// Model and transport failures never surface: the reply is the fixed
// fallback message instead. The only returned errors are ErrSessionBusy and
// use-after-Close.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}
	defer s.settle()

	model, err := s.ensureModel(ctx)
	if err != nil {
		s.logger.Error("conversation: failed to initialize model", "error", err)
		return FallbackMessage, nil
	}

	reply, err := model.Send(ctx, text)
	if err != nil {
		s.logger.Warn("conversation: send failed", "error", err)
		return FallbackMessage, nil
	}

	if len(reply.LeadCalls) > 0 {
		return s.handleLeadCalls(ctx, model, reply.LeadCalls), nil
	}

	if reply.Text == "" {
		return FallbackMessage, nil
	}
	return reply.Text, nil
}

// handleLeadCalls executes submitLead and asks the model for a confirmation
// inside the same session. The conversation continues whether or not the
// gateway delivered.
func (s *Session) handleLeadCalls(ctx context.Context, model ChatModel, calls []LeadCall) string {
	s.setState(StateAwaitingLead)

	confirmation := ""
	for _, call := range calls {
		result := s.submitLead(ctx, call)

		followUp, err := model.SendLeadResult(ctx, result)
		if err != nil {
			s.logger.Warn("conversation: confirmation round trip failed", "error", err)
			continue
		}
		if followUp.Text != "" {
			confirmation = followUp.Text
		}
	}

	if confirmation == "" {
		return fmt.Sprintf("Report started! Please send a photo of your KPLC bill to %s to finish your blueprint.", s.whatsAppNumber)
	}
	return confirmation
}

// submitLead converts the call's arguments into a gateway payload and
// reduces the delivery outcome to a descriptive string for the model.
func (s *Session) submitLead(ctx context.Context, call LeadCall) string {
	payload := make(leadgate.Payload, len(call.Args))
	for k, v := range call.Args {
		payload[k] = fmt.Sprint(v)
	}

	if err := payload.RequireFields("fullName", "phoneNumber", "homeType", "location"); err != nil {
		s.logger.Warn("conversation: model omitted required lead fields", "error", err)
		return "Lead was incomplete; ask the user for the missing details."
	}

	outcome := s.gateway.Submit(ctx, payload.WithSource("Virtual Surveyor AI"))
	if !outcome.Delivered {
		s.logger.Warn("conversation: lead delivery failed", "detail", outcome.Detail)
		return "Failed to record lead, but I will tell the user to use WhatsApp."
	}

	s.tagger.TrackLeadSubmission(ctx, s.visitorID, "chat", payload["packageInterest"])
	return outcome.Detail
}

// Close disposes the remote handle. Further sends fail.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.model != nil {
		return s.model.Close()
	}
	return nil
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("conversation: session is closed")
	}
	if s.state != StateIdle {
		return ErrSessionBusy
	}
	s.state = StateSending
	return nil
}

func (s *Session) settle() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) ensureModel(ctx context.Context) (ChatModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model != nil {
		return s.model, nil
	}
	model, err := s.newModel(ctx)
	if err != nil {
		return nil, err
	}
	s.model = model
	return model, nil
}
