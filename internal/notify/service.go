package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/solargearltd/solar-platform/pkg/logging"
)

// Service alerts the sales inbox about captured leads. Alerts are
// best-effort: a lead already delivered to the forms gateway is never failed
// because the inbox email bounced.
type Service struct {
	email      EmailSender
	salesInbox string
	logger     *logging.Logger
}

// NewService creates a notification service. A nil sender or empty inbox
// disables alerts.
func NewService(email EmailSender, salesInbox string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		salesInbox: salesInbox,
		logger:     logger,
	}
}

// LeadAlert carries the fields worth surfacing in the inbox subject and body.
type LeadAlert struct {
	Name     string
	Phone    string
	Location string
	HomeType string
	Package  string
	Source   string
	Notes    string
}

// NotifyNewLead emails the sales inbox about a captured lead.
func (s *Service) NotifyNewLead(ctx context.Context, alert LeadAlert) {
	if s == nil || s.email == nil || s.salesInbox == "" {
		return
	}

	name := alert.Name
	if name == "" {
		name = "A visitor"
	}

	subject := fmt.Sprintf("New solar lead: %s", name)
	if alert.Package != "" {
		subject += fmt.Sprintf(" (%s)", alert.Package)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\nPhone: %s\n", alert.Name, alert.Phone)
	if alert.Location != "" {
		fmt.Fprintf(&body, "Location: %s\n", alert.Location)
	}
	if alert.HomeType != "" {
		fmt.Fprintf(&body, "Home type: %s\n", alert.HomeType)
	}
	if alert.Package != "" {
		fmt.Fprintf(&body, "Package interest: %s\n", alert.Package)
	}
	if alert.Source != "" {
		fmt.Fprintf(&body, "Source: %s\n", alert.Source)
	}
	if alert.Notes != "" {
		fmt.Fprintf(&body, "Notes: %s\n", alert.Notes)
	}

	if err := s.email.Send(ctx, EmailMessage{
		To:      s.salesInbox,
		ToName:  "Solar Gear Sales",
		Subject: subject,
		Body:    body.String(),
	}); err != nil {
		s.logger.Warn("notify: lead alert failed", "error", err, "lead", alert.Name)
	}
}
