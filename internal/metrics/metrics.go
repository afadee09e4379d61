package metrics

import "github.com/prometheus/client_golang/prometheus"

// PortalMetrics exposes counters/histograms for the booking and chat flows.
type PortalMetrics struct {
	bookingsTotal     *prometheus.CounterVec
	chatTurnsTotal    *prometheus.CounterVec
	slotLookupSeconds prometheus.Histogram
}

func NewPortalMetrics(reg prometheus.Registerer) *PortalMetrics {
	m := &PortalMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		chatTurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Chat turns by source and outcome",
		}, []string{"source", "outcome"}),
		slotLookupSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "scheduling",
			Name:      "slot_lookup_seconds",
			Help:      "Latency of availability derivations",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.chatTurnsTotal, m.slotLookupSeconds)
	return m
}

func (m *PortalMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *PortalMetrics) ObserveChatTurn(source, outcome string) {
	if m == nil {
		return
	}
	m.chatTurnsTotal.WithLabelValues(source, outcome).Inc()
}

func (m *PortalMetrics) ObserveSlotLookup(seconds float64) {
	if m == nil {
		return
	}
	m.slotLookupSeconds.Observe(seconds)
}
