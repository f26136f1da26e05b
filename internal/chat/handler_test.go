package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/solargearltd/solar-platform/internal/analytics"
	"github.com/solargearltd/solar-platform/pkg/logging"
)

func newTestHandler() *Handler {
	factory := func(visitorID string) *Widget {
		return newTestWidget(&scriptedSession{}, analytics.NewMemoryQueue(8))
	}
	return NewHandler(factory, 0, logging.Default())
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleMessage_ReturnsAssistantReply(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.HandleMessage, `{"visitor_id":"v1","text":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		VisitorID string  `json:"visitor_id"`
		Message   Message `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.VisitorID != "v1" {
		t.Errorf("unexpected visitor id: %q", resp.VisitorID)
	}
	if resp.Message.Role != RoleAssistant || resp.Message.Text == "" {
		t.Errorf("unexpected reply: %+v", resp.Message)
	}
}

func TestHandleMessage_AssignsVisitorID(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.HandleMessage, `{"text":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		VisitorID string `json:"visitor_id"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.VisitorID == "" {
		t.Error("expected an assigned visitor id")
	}
}

func TestHandleMessage_RejectsBlankAndBadBody(t *testing.T) {
	h := newTestHandler()

	for _, body := range []string{`{"visitor_id":"v1","text":"  "}`, `not json`} {
		rec := postJSON(t, h.HandleMessage, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestHandleMessage_PrefillSkippedSecondTime(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.HandleMessage, `{"visitor_id":"v1","text":"Tell me about SolarStart","prefill":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first prefill: expected 200, got %d", rec.Code)
	}

	rec = postJSON(t, h.HandleMessage, `{"visitor_id":"v1","text":"Tell me about SolarElite","prefill":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second prefill: expected 200, got %d", rec.Code)
	}
	var resp struct {
		Skipped bool `json:"skipped"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Skipped {
		t.Errorf("second prefill not skipped: %s", rec.Body.String())
	}
}

func TestHandleHistory_GrowsAcrossRequests(t *testing.T) {
	h := newTestHandler()

	_ = postJSON(t, h.HandleMessage, `{"visitor_id":"v1","text":"hello"}`)
	_ = postJSON(t, h.HandleMessage, `{"visitor_id":"v1","text":"pricing?"}`)

	req := httptest.NewRequest(http.MethodGet, "/?visitor=v1", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 5 {
		t.Errorf("expected greeting plus two pairs, got %d messages", len(resp.Messages))
	}
	if resp.Messages[0].Text != Greeting {
		t.Errorf("history does not start with the greeting: %+v", resp.Messages[0])
	}
}

func TestHandleHistory_UnknownVisitorIsEmpty(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/?visitor=ghost", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"messages":[]`) {
		t.Errorf("expected empty history, got %s", rec.Body.String())
	}
}

func TestHandleEscalate_ReturnsLink(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.HandleEscalate, `{"visitor_id":"v1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Link string `json:"link"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.HasPrefix(resp.Link, "https://wa.me/254722371250") {
		t.Errorf("unexpected link: %q", resp.Link)
	}
}

func TestShutdown_ClosesEveryWidget(t *testing.T) {
	sessions := make(map[string]*scriptedSession)
	factory := func(visitorID string) *Widget {
		s := &scriptedSession{}
		sessions[visitorID] = s
		return newTestWidget(s, analytics.NewMemoryQueue(8))
	}
	h := NewHandler(factory, 0, logging.Default())

	_ = postJSON(t, h.HandleMessage, `{"visitor_id":"v1","text":"hello"}`)
	_ = postJSON(t, h.HandleMessage, `{"visitor_id":"v2","text":"hello"}`)

	if err := h.Shutdown(httptest.NewRequest(http.MethodGet, "/", nil).Context()); err != nil {
		t.Fatal(err)
	}
	for id, s := range sessions {
		if !s.closed {
			t.Errorf("session for %s not closed", id)
		}
	}
}

func TestSweepIdle_ReleasesAbandonedWidgets(t *testing.T) {
	sessions := make(map[string]*scriptedSession)
	factory := func(visitorID string) *Widget {
		s := &scriptedSession{}
		sessions[visitorID] = s
		return newTestWidget(s, analytics.NewMemoryQueue(8))
	}
	h := NewHandler(factory, 30*time.Minute, logging.Default())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	// Many visitors each send a single message and never come back.
	const visitors = 500
	for i := 0; i < visitors; i++ {
		body := fmt.Sprintf(`{"visitor_id":"drive-by-%d","text":"hello"}`, i)
		if rec := postJSON(t, h.HandleMessage, body); rec.Code != http.StatusOK {
			t.Fatalf("visitor %d: expected 200, got %d", i, rec.Code)
		}
	}

	// Nothing is stale yet.
	if released := h.SweepIdle(); released != 0 {
		t.Fatalf("premature release of %d widgets", released)
	}

	now = now.Add(31 * time.Minute)
	if released := h.SweepIdle(); released != visitors {
		t.Fatalf("expected %d widgets released, got %d", visitors, released)
	}

	closed := 0
	for _, s := range sessions {
		if s.closed {
			closed++
		}
	}
	if closed != visitors {
		t.Errorf("expected %d sessions closed, got %d", visitors, closed)
	}

	req := httptest.NewRequest(http.MethodGet, "/?visitor=drive-by-0", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)
	if !strings.Contains(rec.Body.String(), `"messages":[]`) {
		t.Errorf("swept widget still holds history: %s", rec.Body.String())
	}
}

func TestSweepIdle_KeepsActiveWidgets(t *testing.T) {
	sessions := make(map[string]*scriptedSession)
	factory := func(visitorID string) *Widget {
		s := &scriptedSession{}
		sessions[visitorID] = s
		return newTestWidget(s, analytics.NewMemoryQueue(8))
	}
	h := NewHandler(factory, 30*time.Minute, logging.Default())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	_ = postJSON(t, h.HandleMessage, `{"visitor_id":"stale","text":"hello"}`)
	_ = postJSON(t, h.HandleMessage, `{"visitor_id":"active","text":"hello"}`)

	now = now.Add(20 * time.Minute)
	_ = postJSON(t, h.HandleMessage, `{"visitor_id":"active","text":"still here"}`)

	now = now.Add(15 * time.Minute)
	if released := h.SweepIdle(); released != 1 {
		t.Fatalf("expected only the stale widget released, got %d", released)
	}
	if !sessions["stale"].closed {
		t.Error("stale session not closed")
	}
	if sessions["active"].closed {
		t.Error("active session must survive the sweep")
	}
}

func TestHandleClose_ReleasesWidget(t *testing.T) {
	sessions := make(map[string]*scriptedSession)
	factory := func(visitorID string) *Widget {
		s := &scriptedSession{}
		sessions[visitorID] = s
		return newTestWidget(s, analytics.NewMemoryQueue(8))
	}
	h := NewHandler(factory, 0, logging.Default())

	_ = postJSON(t, h.HandleMessage, `{"visitor_id":"v1","text":"hello"}`)

	rec := postJSON(t, h.HandleClose, `{"visitor_id":"v1"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !sessions["v1"].closed {
		t.Error("session not closed on widget close")
	}

	req := httptest.NewRequest(http.MethodGet, "/?visitor=v1", nil)
	histRec := httptest.NewRecorder()
	h.HandleHistory(histRec, req)
	if !strings.Contains(histRec.Body.String(), `"messages":[]`) {
		t.Errorf("closed widget still holds history: %s", histRec.Body.String())
	}

	// Closing an unknown visitor is a quiet no-op.
	if rec := postJSON(t, h.HandleClose, `{"visitor_id":"ghost"}`); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for unknown visitor, got %d", rec.Code)
	}
}
