package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the lead intake pipeline.
type IntakeMetrics struct {
	leadsTotal    *prometheus.CounterVec
	rejectedTotal *prometheus.CounterVec
	channelTotal  *prometheus.CounterVec
	intakeLatency *prometheus.HistogramVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		leadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crewsight",
			Subsystem: "intake",
			Name:      "leads_total",
			Help:      "Total accepted leads",
		}, []string{"source", "priority"}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crewsight",
			Subsystem: "intake",
			Name:      "rejected_total",
			Help:      "Total rejected submissions",
		}, []string{"source"}),
		channelTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crewsight",
			Subsystem: "notify",
			Name:      "channel_total",
			Help:      "Notification channel outcomes",
		}, []string{"channel", "status"}),
		intakeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crewsight",
			Subsystem: "intake",
			Name:      "latency_seconds",
			Help:      "Latency of intake processing including notification fan-out",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.leadsTotal, m.rejectedTotal, m.channelTotal, m.intakeLatency)
	return m
}

func (m *IntakeMetrics) ObserveLead(source, priority string) {
	if m == nil {
		return
	}
	m.leadsTotal.WithLabelValues(source, priority).Inc()
}

func (m *IntakeMetrics) ObserveRejected(source string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(source).Inc()
}

func (m *IntakeMetrics) ObserveChannel(channel, status string) {
	if m == nil {
		return
	}
	m.channelTotal.WithLabelValues(channel, status).Inc()
}

func (m *IntakeMetrics) ObserveLatency(source string, seconds float64) {
	if m == nil {
		return
	}
	m.intakeLatency.WithLabelValues(source).Observe(seconds)
}
