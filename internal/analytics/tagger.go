// Package analytics annotates tracked interactions with the visitor's A/B
// variant and forwards them to the tag-management queue. Tracking is always
// best-effort: no call in this package fails the interaction that raised it.
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/solargearltd/solar-platform/internal/observability/metrics"
	"github.com/solargearltd/solar-platform/pkg/logging"
)

// ConversionSource identifies where on the page a conversion action started.
type ConversionSource string

const (
	SourceHero         ConversionSource = "hero"
	SourceHeader       ConversionSource = "header"
	SourceFooter       ConversionSource = "footer"
	SourcePackageModal ConversionSource = "package_modal"
	SourceChatModal    ConversionSource = "chat_modal"
	SourceLeadForm     ConversionSource = "lead_form"
	SourceFAQ          ConversionSource = "faq"
)

// Tagger enriches events and pushes them downstream.
type Tagger struct {
	variants VariantStore
	queue    EventQueue
	metrics  *metrics.AnalyticsMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewTagger creates a tagger. A nil queue turns every Track call into a
// silent no-op, matching pages served without a tag manager.
func NewTagger(variants VariantStore, queue EventQueue, m *metrics.AnalyticsMetrics, logger *logging.Logger) *Tagger {
	if logger == nil {
		logger = logging.Default()
	}
	return &Tagger{
		variants: variants,
		queue:    queue,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// TrackEvent merges params with the visitor's variant and a timestamp and
// pushes the record. Never returns an error and never blocks the caller's
// flow beyond the queue push itself.
func (t *Tagger) TrackEvent(ctx context.Context, visitorID, name string, params map[string]any) {
	if t == nil || t.queue == nil {
		return
	}

	record := make(map[string]any, len(params)+3)
	for k, v := range params {
		record[k] = v
	}
	record["event"] = name
	record["ab_test_variant"] = string(t.variant(ctx, visitorID))
	record["timestamp"] = t.now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(record)
	if err != nil {
		t.logger.Error("analytics: failed to encode event", "event", name, "error", err)
		t.metrics.ObserveEvent(name, "dropped")
		return
	}

	if err := t.queue.Push(ctx, string(body)); err != nil {
		t.logger.Warn("analytics: failed to push event", "event", name, "error", err)
		t.metrics.ObserveEvent(name, "dropped")
		return
	}
	t.metrics.ObserveEvent(name, "pushed")
}

func (t *Tagger) variant(ctx context.Context, visitorID string) Variant {
	if t.variants == nil {
		return VariantA
	}
	v, err := t.variants.Assign(ctx, visitorID)
	if err != nil {
		t.logger.Warn("analytics: variant lookup failed", "error", err)
		return VariantA
	}
	return v
}

// Variant exposes the visitor's bucket for copy selection.
func (t *Tagger) Variant(ctx context.Context, visitorID string) Variant {
	if t == nil {
		return VariantA
	}
	return t.variant(ctx, visitorID)
}

// TrackWhatsAppClick records a conversion to the WhatsApp channel.
func (t *Tagger) TrackWhatsAppClick(ctx context.Context, visitorID string, source ConversionSource, packageName string) {
	if packageName == "" {
		packageName = "general"
	}
	t.TrackEvent(ctx, visitorID, "whatsapp_conversion", map[string]any{
		"conversion_source": string(source),
		"package_name":      packageName,
		"method":            "whatsapp_direct",
	})
}

// TrackLeadSubmission records a captured lead. Source is "form" or "chat".
func (t *Tagger) TrackLeadSubmission(ctx context.Context, visitorID, source, packageName string) {
	name := "form_lead_submit"
	if source == "chat" {
		name = "chat_lead_submit"
	}
	if packageName == "" {
		packageName = "unknown"
	}
	t.TrackEvent(ctx, visitorID, name, map[string]any{
		"conversion_source": source,
		"package_interest":  packageName,
	})
}

// TrackPackageInterest records a click on a package card CTA.
func (t *Tagger) TrackPackageInterest(ctx context.Context, visitorID, packageName string) {
	t.TrackEvent(ctx, visitorID, "package_interest_click", map[string]any{
		"package_name": packageName,
	})
}
