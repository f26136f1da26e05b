package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/solargearltd/solar-platform/pkg/logging"
)

// Handler accepts event beacons from the page so page-side interactions flow
// through the same tagger as server-side ones.
type Handler struct {
	tagger *Tagger
	logger *logging.Logger
}

// NewHandler creates an analytics beacon handler.
func NewHandler(tagger *Tagger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{tagger: tagger, logger: logger}
}

// TrackRequest is the beacon body posted by the page.
type TrackRequest struct {
	VisitorID string         `json:"visitor_id"`
	Event     string         `json:"event"`
	Params    map[string]any `json:"params"`
}

// Track handles POST /events requests. The beacon is always acknowledged;
// a dropped event must never surface as a page error.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Event == "" {
		http.Error(w, "event is required", http.StatusBadRequest)
		return
	}
	if req.VisitorID == "" {
		req.VisitorID = "anonymous"
	}

	h.tagger.TrackEvent(r.Context(), req.VisitorID, req.Event, req.Params)

	w.WriteHeader(http.StatusAccepted)
}
