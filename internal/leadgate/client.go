// Package leadgate delivers lead payloads to the external forms backend.
// Delivery is fire-and-forget: one POST per call, no retry, no queueing, and
// failure reduces to an Outcome instead of propagating.
package leadgate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/solargearltd/solar-platform/pkg/logging"
)

// Outcome is the reduced result of a submission attempt. Detail carries a
// short human-readable description suitable for feeding back into the
// conversational session.
type Outcome struct {
	Delivered bool
	Detail    string
}

// Client posts JSON-encoded lead payloads to a fixed endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer sets a custom tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// NewClient creates a gateway client for the given forms endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logging.Default(),
		tracer: otel.Tracer("solargear.internal.leadgate"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Submit performs exactly one POST of the payload. Transport errors and
// non-2xx statuses are absorbed into Outcome{Delivered: false}; callers
// decide what a failed delivery means for their flow.
func (c *Client) Submit(ctx context.Context, payload Payload) Outcome {
	ctx, span := c.tracer.Start(ctx, "leadgate.submit")
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		c.logger.Error("leadgate: failed to encode payload", "error", err)
		return Outcome{Delivered: false, Detail: "Failed to record lead."}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		c.logger.Error("leadgate: failed to build request", "error", err)
		return Outcome{Delivered: false, Detail: "Failed to record lead."}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		c.logger.Warn("leadgate: submission failed", "error", err)
		return Outcome{Delivered: false, Detail: "Failed to record lead."}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("leadgate: forms backend returned status %d", resp.StatusCode)
		span.RecordError(err)
		c.logger.Warn("leadgate: submission rejected", "status", resp.StatusCode)
		return Outcome{Delivered: false, Detail: "Failed to record lead."}
	}

	c.logger.Info("leadgate: lead delivered", "fields", len(payload))
	return Outcome{Delivered: true, Detail: "Audit request received. Engineers starting satellite analysis."}
}
