// Package metrics exposes operational counters for the agent. These count
// commands and bytes moved; they never log arguments or results, so they
// don't constitute the effect-auditing the design explicitly leaves out of
// scope.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "remoted_connections_active",
		Help: "Number of currently open client connections.",
	})

	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "remoted_commands_total",
		Help: "Commands dispatched, by command name.",
	}, []string{"cmd"})

	PeekBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "remoted_peek_bytes_total",
		Help: "Total bytes read via PEEK.",
	})

	PokeBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "remoted_poke_bytes_total",
		Help: "Total bytes written via POKE.",
	})

	ExecSessionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "remoted_exec_sessions_total",
		Help: "EXEC sessions started, by mode (background|interactive).",
	}, []string{"mode"})
)

// Registry is the collector set registered with an HTTP handler when the
// -o metrics:<addr> sink is enabled.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(ConnectionsActive, CommandsTotal, PeekBytesTotal, PokeBytesTotal, ExecSessionsTotal)
}
