package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/solargearltd/solar-platform/internal/analytics"
	"github.com/solargearltd/solar-platform/internal/leadgate"
	"github.com/solargearltd/solar-platform/internal/notify"
	"github.com/solargearltd/solar-platform/internal/observability/metrics"
	"github.com/solargearltd/solar-platform/internal/whatsapp"
	"github.com/solargearltd/solar-platform/pkg/logging"
)

// Submitter executes form submissions against the forms backend.
type Submitter interface {
	Submit(ctx context.Context, payload leadgate.Payload) leadgate.Outcome
}

// Handler serves the two lead forms.
type Handler struct {
	gateway  Submitter
	tagger   *analytics.Tagger
	notifier *notify.Service
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger

	whatsAppNumber string
	handoffWait    time.Duration
	schedule       func(d time.Duration, fn func())
}

// NewHandler creates a lead form handler. handoffWait is how long the page
// shows the confirmation before the WhatsApp redirect fires; the delayed
// conversion tag follows the same schedule.
func NewHandler(gateway Submitter, tagger *analytics.Tagger, notifier *notify.Service, m *metrics.LeadMetrics, whatsAppNumber string, handoffWait time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		gateway:        gateway,
		tagger:         tagger,
		notifier:       notifier,
		metrics:        m,
		logger:         logger,
		whatsAppNumber: whatsAppNumber,
		handoffWait:    handoffWait,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

type auditResponse struct {
	Delivered    bool   `json:"delivered"`
	Detail       string `json:"detail"`
	WhatsAppLink string `json:"whatsapp_link"`
}

// HandleAudit accepts the satellite audit form. The lead must reach the
// forms backend; without it no engineer ever sees the request.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	var req AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	outcome := h.gateway.Submit(r.Context(), req.payload().WithSource("Audit Request Form"))
	h.metrics.ObserveGatewayLatency("audit_form", time.Since(start).Seconds())
	h.metrics.ObserveSubmission("audit_form", outcome.Delivered)

	if !outcome.Delivered {
		h.logger.Error("leads: audit submission failed", "detail", outcome.Detail)
		writeJSON(w, http.StatusBadGateway, auditResponse{
			Delivered:    false,
			Detail:       outcome.Detail,
			WhatsAppLink: whatsapp.EscalationLink(h.whatsAppNumber),
		})
		return
	}

	h.tagger.TrackLeadSubmission(r.Context(), visitor(req.VisitorID), "form", "")
	h.notifier.NotifyNewLead(r.Context(), notify.LeadAlert{
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		HomeType: req.HomeType,
		Source:   "Audit Request Form",
		Notes:    req.Notes,
	})

	writeJSON(w, http.StatusOK, auditResponse{
		Delivered:    true,
		Detail:       outcome.Detail,
		WhatsAppLink: whatsapp.AuditPhotosLink(h.whatsAppNumber),
	})
}

type purchaseResponse struct {
	WhatsAppLink string `json:"whatsapp_link"`
	HandoffWait  int64  `json:"handoff_wait_ms"`
}

// HandlePurchase accepts the purchase intent form. The WhatsApp handoff is
// the real conversion path here, so a gateway failure is logged and the
// visitor still gets their link.
func (h *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	outcome := h.gateway.Submit(r.Context(), req.payload().WithSource("Package Buy Button"))
	h.metrics.ObserveGatewayLatency("purchase_form", time.Since(start).Seconds())
	h.metrics.ObserveSubmission("purchase_form", outcome.Delivered)
	if !outcome.Delivered {
		h.logger.Warn("leads: purchase record failed, continuing with handoff", "detail", outcome.Detail)
	}

	visitorID := visitor(req.VisitorID)
	h.tagger.TrackLeadSubmission(r.Context(), visitorID, "form", req.Package)
	h.notifier.NotifyNewLead(r.Context(), notify.LeadAlert{
		Name:    req.Name,
		Phone:   req.Phone,
		Package: req.Package,
		Source:  "Package Buy Button",
	})

	// The page redirects to WhatsApp after the confirmation pause; the
	// conversion tag fires on the same schedule, detached from the request.
	pkg := req.Package
	h.schedule(h.handoffWait, func() {
		h.tagger.TrackWhatsAppClick(context.Background(), visitorID, analytics.SourcePackageModal, pkg)
	})

	writeJSON(w, http.StatusOK, purchaseResponse{
		WhatsAppLink: whatsapp.PurchaseLink(h.whatsAppNumber, req.Package, req.Name),
		HandoffWait:  h.handoffWait.Milliseconds(),
	})
}

func visitor(id string) string {
	if id == "" {
		return "anonymous"
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
