package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("connectors", reg)

	m.ConnectorRequestsTotal.WithLabelValues("stripe", "authorize", "success").Inc()
	m.CircuitBreakerState.WithLabelValues("api.stripe.com").Set(2)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[mf.GetName()] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[mf.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 1.0, values["connectors_connector_requests_total"])
	assert.Equal(t, 2.0, values["connectors_circuit_breaker_state"])
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics("connectors", reg)

	assert.Panics(t, func() { NewMetrics("connectors", reg) })
}
