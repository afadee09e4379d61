package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveBooking(t *testing.T) {
	m := NewPortalMetrics(prometheus.NewRegistry())

	m.ObserveBooking("created")
	m.ObserveBooking("created")
	m.ObserveBooking("conflict")

	require.Equal(t, 2.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("created")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("conflict")))
}

func TestObserveChatTurn(t *testing.T) {
	m := NewPortalMetrics(prometheus.NewRegistry())

	m.ObserveChatTurn("medical_bot", "ok")
	m.ObserveChatTurn("gemini", "downstream_error")

	require.Equal(t, 1.0, testutil.ToFloat64(m.chatTurnsTotal.WithLabelValues("medical_bot", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.chatTurnsTotal.WithLabelValues("gemini", "downstream_error")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.chatTurnsTotal.WithLabelValues("gemini", "ok")))
}

// A nil receiver is a no-op so wiring can stay unconditional.
func TestNilMetricsAreSafe(t *testing.T) {
	var m *PortalMetrics

	m.ObserveBooking("created")
	m.ObserveChatTurn("medical_bot", "ok")
	m.ObserveSlotLookup(0.2)
}
