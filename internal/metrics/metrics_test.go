package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCommandsTotalIncrementsPerLabel(t *testing.T) {
	CommandsTotal.Reset()
	CommandsTotal.WithLabelValues("PEEK").Inc()
	CommandsTotal.WithLabelValues("PEEK").Inc()
	CommandsTotal.WithLabelValues("POKE").Inc()

	require.Equal(t, float64(2), testutil.ToFloat64(CommandsTotal.WithLabelValues("PEEK")))
	require.Equal(t, float64(1), testutil.ToFloat64(CommandsTotal.WithLabelValues("POKE")))
}

func TestConnectionsActiveGauge(t *testing.T) {
	ConnectionsActive.Set(0)
	ConnectionsActive.Inc()
	ConnectionsActive.Inc()
	ConnectionsActive.Dec()

	require.Equal(t, float64(1), testutil.ToFloat64(ConnectionsActive))
}
