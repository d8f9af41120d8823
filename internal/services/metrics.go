package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Chat metrics
	ChatRequests       prometheus.Counter
	ChatRequestLatency prometheus.Histogram
	ChatErrors         *prometheus.CounterVec
	ToneClassified     *prometheus.CounterVec
	SimulatedReplies   prometheus.Counter

	// Store metrics
	FactsSaved  prometheus.Counter
	FactRows    prometheus.Gauge
	HistoryRows prometheus.Gauge
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		ChatRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "solace_chat_requests_total",
			Help: "Total number of chat requests processed",
		}),

		ChatRequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "solace_chat_request_duration_seconds",
			Help:    "Chat request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}, // generous upper end for slow providers
		}),

		ChatErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solace_chat_errors_total",
			Help: "Total number of chat errors by type",
		}, []string{"error_type"}),

		ToneClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solace_tone_classified_total",
			Help: "Total number of messages classified by tone",
		}, []string{"tone"}),

		SimulatedReplies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "solace_simulated_replies_total",
			Help: "Total number of replies served by the offline fallback or provider-error path",
		}),

		FactsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "solace_facts_saved_total",
			Help: "Total number of fact upserts",
		}),

		FactRows: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "solace_fact_rows",
			Help: "Current number of rows in the facts table",
		}),

		HistoryRows: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "solace_history_rows",
			Help: "Current number of rows in the history table",
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordChatRequest records a chat request
func (m *Metrics) RecordChatRequest() {
	m.ChatRequests.Inc()
}

// RecordChatLatency records chat request latency
func (m *Metrics) RecordChatLatency(seconds float64) {
	m.ChatRequestLatency.Observe(seconds)
}

// RecordChatError records a chat error
func (m *Metrics) RecordChatError(errorType string) {
	m.ChatErrors.WithLabelValues(errorType).Inc()
}

// RecordTone records a classified tone
func (m *Metrics) RecordTone(tone string) {
	m.ToneClassified.WithLabelValues(tone).Inc()
}

// RecordSimulatedReply records a simulated (non-live) reply
func (m *Metrics) RecordSimulatedReply() {
	m.SimulatedReplies.Inc()
}

// RecordFactSaved records a fact upsert
func (m *Metrics) RecordFactSaved() {
	m.FactsSaved.Inc()
}

// SetStoreSizes updates the fact/history row-count gauges
func (m *Metrics) SetStoreSizes(facts, history int64) {
	m.FactRows.Set(float64(facts))
	m.HistoryRows.Set(float64(history))
}
