// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package metrics

import "github.com/prometheus/client_golang/prometheus"

// ServiceMetrics exposes counters/histograms for meeting and webhook flows.
type ServiceMetrics struct {
	meetingsStarted   prometheus.Counter
	meetingsEnded     prometheus.Counter
	webhookTotal      *prometheus.CounterVec
	signatureFailures prometheus.Counter
	webhookLatency    *prometheus.HistogramVec
}

func NewServiceMetrics(reg prometheus.Registerer) *ServiceMetrics {
	m := &ServiceMetrics{
		meetingsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "consult",
			Subsystem: "meetings",
			Name:      "started_total",
			Help:      "Total meetings started",
		}),
		meetingsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "consult",
			Subsystem: "meetings",
			Name:      "ended_total",
			Help:      "Total meetings ended",
		}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consult",
			Subsystem: "webhooks",
			Name:      "inbound_total",
			Help:      "Total inbound provider webhooks",
		}, []string{"event_type", "status"}),
		signatureFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "consult",
			Subsystem: "webhooks",
			Name:      "signature_failures_total",
			Help:      "Total webhook deliveries rejected for a bad signature",
		}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "consult",
			Subsystem: "webhooks",
			Name:      "latency_seconds",
			Help:      "Latency of provider webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.meetingsStarted, m.meetingsEnded, m.webhookTotal, m.signatureFailures, m.webhookLatency)
	return m
}

func (m *ServiceMetrics) ObserveMeetingStarted() {
	if m == nil {
		return
	}
	m.meetingsStarted.Inc()
}

func (m *ServiceMetrics) ObserveMeetingEnded() {
	if m == nil {
		return
	}
	m.meetingsEnded.Inc()
}

func (m *ServiceMetrics) ObserveWebhook(eventType, status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(eventType, status).Inc()
}

func (m *ServiceMetrics) ObserveSignatureFailure() {
	if m == nil {
		return
	}
	m.signatureFailures.Inc()
}

func (m *ServiceMetrics) ObserveWebhookLatency(eventType string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(eventType).Observe(seconds)
}
