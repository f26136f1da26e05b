package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead capture flows.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	gatewayLatency   *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solargear",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead submissions by source and outcome",
		}, []string{"source", "outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solargear",
			Subsystem: "leads",
			Name:      "gateway_latency_seconds",
			Help:      "Latency of forms backend submissions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.gatewayLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(source string, delivered bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if delivered {
		outcome = "delivered"
	}
	m.submissionsTotal.WithLabelValues(source, outcome).Inc()
}

func (m *LeadMetrics) ObserveGatewayLatency(source string, seconds float64) {
	if m == nil {
		return
	}
	m.gatewayLatency.WithLabelValues(source).Observe(seconds)
}

// ChatMetrics exposes counters for the chat widget.
type ChatMetrics struct {
	messagesTotal *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solargear",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total chat messages by role and flavor",
		}, []string{"role", "flavor"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal)
	return m
}

func (m *ChatMetrics) ObserveMessage(role, flavor string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(role, flavor).Inc()
}

// AnalyticsMetrics counts tracked events by push status.
type AnalyticsMetrics struct {
	eventsTotal *prometheus.CounterVec
}

func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	m := &AnalyticsMetrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solargear",
			Subsystem: "analytics",
			Name:      "events_total",
			Help:      "Total analytics events by name and push status",
		}, []string{"event", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.eventsTotal)
	return m
}

func (m *AnalyticsMetrics) ObserveEvent(event, status string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(event, status).Inc()
}
