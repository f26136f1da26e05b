package site

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/solargearltd/solar-platform/internal/analytics"
	"github.com/solargearltd/solar-platform/pkg/logging"
)

// VisitorCookie carries the visitor ID that keys variant assignment and
// analytics across visits.
const VisitorCookie = "sg_visitor"

// Pages the shell can render. Anything else falls back to home.
var Pages = []string{"home", "privacy"}

// Handler serves the page config and the sizing calculator.
type Handler struct {
	tagger *analytics.Tagger
	logger *logging.Logger

	whatsAppNumber string
	bookingLink    string
	greetingDelay  time.Duration
	secureCookies  bool
}

// NewHandler creates the site handler. secureCookies should be true outside
// local development.
func NewHandler(tagger *analytics.Tagger, whatsAppNumber, bookingLink string, greetingDelay time.Duration, secureCookies bool, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		tagger:         tagger,
		logger:         logger,
		whatsAppNumber: whatsAppNumber,
		bookingLink:    bookingLink,
		greetingDelay:  greetingDelay,
		secureCookies:  secureCookies,
	}
}

type configResponse struct {
	VisitorID       string    `json:"visitor_id"`
	Variant         string    `json:"variant"`
	Hero            HeroCopy  `json:"hero"`
	Packages        []Package `json:"packages"`
	Pages           []string  `json:"pages"`
	WhatsAppNumber  string    `json:"whatsapp_number"`
	BookingLink     string    `json:"booking_link"`
	GreetingDelayMS int64     `json:"greeting_delay_ms"`
	EngineerPrefill string    `json:"engineer_prefill"`
}

// HandleConfig assigns the visitor cookie on first contact and returns
// everything the page needs to render: variant-selected hero copy, the
// package catalog, handoff targets, and the greeting schedule.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	visitorID := h.ensureVisitor(w, r)
	variant := h.tagger.Variant(r.Context(), visitorID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(configResponse{
		VisitorID:       visitorID,
		Variant:         string(variant),
		Hero:            HeroCopyFor(variant),
		Packages:        Catalog(),
		Pages:           Pages,
		WhatsAppNumber:  h.whatsAppNumber,
		BookingLink:     h.bookingLink,
		GreetingDelayMS: h.greetingDelay.Milliseconds(),
		EngineerPrefill: EngineerPrefill,
	})
}

func (h *Handler) ensureVisitor(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil && c.Value != "" {
		return c.Value
	}
	visitorID := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    visitorID,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return visitorID
}

type estimateRequest struct {
	MonthlyBillKES float64 `json:"monthly_bill_kes,omitempty"`
	DailyKWh       float64 `json:"daily_kwh,omitempty"`
}

// HandleEstimate runs the sizing calculator. Daily kWh wins when both
// figures are supplied, mirroring the calculator's kWh mode.
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var est Estimate
	var err error
	if req.DailyKWh > 0 {
		est, err = Size(req.DailyKWh)
	} else {
		est, err = SizeFromBill(req.MonthlyBillKES)
	}
	if err != nil {
		if errors.Is(err, ErrNoUsage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("site: estimate failed", "error", err)
		http.Error(w, "estimate failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(est)
}

type packageClickRequest struct {
	VisitorID string `json:"visitor_id"`
	Package   string `json:"package"`
}

// HandlePackageClick records interest in a package card and returns the chat
// prefill for its "ask an expert" CTA.
func (h *Handler) HandlePackageClick(w http.ResponseWriter, r *http.Request) {
	var req packageClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Package == "" {
		http.Error(w, "package is required", http.StatusBadRequest)
		return
	}
	if req.VisitorID == "" {
		req.VisitorID = "anonymous"
	}

	h.tagger.TrackPackageInterest(r.Context(), req.VisitorID, req.Package)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"prefill": PackagePrefill(req.Package),
	})
}
