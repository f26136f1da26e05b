package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/solargearltd/solar-platform/pkg/logging"
)

type fixedVariantStore struct {
	variant Variant
	err     error
}

func (s *fixedVariantStore) Assign(_ context.Context, _ string) (Variant, error) {
	return s.variant, s.err
}

func TestTrackEvent_EnrichesRecord(t *testing.T) {
	queue := NewMemoryQueue(8)
	tagger := NewTagger(&fixedVariantStore{variant: VariantB}, queue, nil, logging.Default())
	tagger.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	tagger.TrackEvent(context.Background(), "visitor-1", "cta_click", map[string]any{
		"button_name": "ask_expert_package",
	})

	records := queue.Drain()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(records[0]), &record); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if record["event"] != "cta_click" {
		t.Errorf("event name missing: %v", record)
	}
	if record["ab_test_variant"] != "B" {
		t.Errorf("variant not injected: %v", record)
	}
	if record["timestamp"] != "2026-03-01T12:00:00Z" {
		t.Errorf("timestamp not injected: %v", record)
	}
	if record["button_name"] != "ask_expert_package" {
		t.Errorf("params not merged: %v", record)
	}
}

func TestTrackEvent_NoQueueIsSilentNoop(t *testing.T) {
	tagger := NewTagger(NewMemoryVariantStore(), nil, nil, logging.Default())
	// Must not panic or block.
	tagger.TrackEvent(context.Background(), "visitor-1", "cta_click", nil)
}

func TestTrackEvent_VariantFailureFallsBackToA(t *testing.T) {
	queue := NewMemoryQueue(8)
	store := &fixedVariantStore{err: errors.New("redis down")}
	tagger := NewTagger(store, queue, nil, logging.Default())

	tagger.TrackEvent(context.Background(), "visitor-1", "page_view", nil)

	records := queue.Drain()
	if len(records) != 1 {
		t.Fatalf("expected the event despite variant failure, got %d records", len(records))
	}
	var record map[string]any
	_ = json.Unmarshal([]byte(records[0]), &record)
	if record["ab_test_variant"] != "A" {
		t.Errorf("expected fallback variant A, got %v", record["ab_test_variant"])
	}
}

func TestTrackWhatsAppClick_Shape(t *testing.T) {
	queue := NewMemoryQueue(8)
	tagger := NewTagger(&fixedVariantStore{variant: VariantA}, queue, nil, logging.Default())

	tagger.TrackWhatsAppClick(context.Background(), "visitor-1", SourcePackageModal, "SolarFamily™ Hybrid")
	tagger.TrackWhatsAppClick(context.Background(), "visitor-1", SourceChatModal, "")

	records := queue.Drain()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	var first, second map[string]any
	_ = json.Unmarshal([]byte(records[0]), &first)
	_ = json.Unmarshal([]byte(records[1]), &second)

	if first["event"] != "whatsapp_conversion" || first["package_name"] != "SolarFamily™ Hybrid" {
		t.Errorf("unexpected first record: %v", first)
	}
	if first["conversion_source"] != "package_modal" || first["method"] != "whatsapp_direct" {
		t.Errorf("unexpected first record: %v", first)
	}
	if second["package_name"] != "general" {
		t.Errorf("empty package should default to general: %v", second)
	}
}

func TestTrackLeadSubmission_EventNameBySource(t *testing.T) {
	queue := NewMemoryQueue(8)
	tagger := NewTagger(&fixedVariantStore{variant: VariantA}, queue, nil, logging.Default())

	tagger.TrackLeadSubmission(context.Background(), "v", "form", "")
	tagger.TrackLeadSubmission(context.Background(), "v", "chat", "SolarElite™ Independence")

	records := queue.Drain()
	var form, chat map[string]any
	_ = json.Unmarshal([]byte(records[0]), &form)
	_ = json.Unmarshal([]byte(records[1]), &chat)

	if form["event"] != "form_lead_submit" || form["package_interest"] != "unknown" {
		t.Errorf("unexpected form record: %v", form)
	}
	if chat["event"] != "chat_lead_submit" || chat["package_interest"] != "SolarElite™ Independence" {
		t.Errorf("unexpected chat record: %v", chat)
	}
}
