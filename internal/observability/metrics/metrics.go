package metrics

import "github.com/prometheus/client_golang/prometheus"

// SafetyMetrics exposes counters/histograms for the mediation layer.
type SafetyMetrics struct {
	outcomes       *prometheus.CounterVec
	gatewayCalls   *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec
	extractions    *prometheus.CounterVec
}

func NewSafetyMetrics(reg prometheus.Registerer) *SafetyMetrics {
	m := &SafetyMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caretaker",
			Subsystem: "safety",
			Name:      "mediation_outcomes_total",
			Help:      "Mediated chat calls by terminal outcome",
		}, []string{"outcome"}),
		gatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caretaker",
			Subsystem: "safety",
			Name:      "gateway_calls_total",
			Help:      "Model gateway calls by provider and status",
		}, []string{"provider", "status"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "caretaker",
			Subsystem: "safety",
			Name:      "gateway_latency_seconds",
			Help:      "Latency of model gateway calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caretaker",
			Subsystem: "content",
			Name:      "extractions_total",
			Help:      "AI appointment extractions by confidence",
		}, []string{"confidence"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outcomes, m.gatewayCalls, m.gatewayLatency, m.extractions)
	return m
}

func (m *SafetyMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *SafetyMetrics) ObserveGatewayCall(provider, status string, seconds float64) {
	if m == nil {
		return
	}
	m.gatewayCalls.WithLabelValues(provider, status).Inc()
	m.gatewayLatency.WithLabelValues(provider).Observe(seconds)
}

func (m *SafetyMetrics) ObserveExtraction(confidence string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(confidence).Inc()
}
