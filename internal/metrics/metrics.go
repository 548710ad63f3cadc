// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitledger"

// Metrics groups every collector the server records to.
type Metrics struct {
	// RPCRequests counts finished RPCs by procedure and Connect code.
	RPCRequests *prometheus.CounterVec

	// RPCDuration observes RPC latency in seconds by procedure.
	RPCDuration *prometheus.HistogramVec

	// SettlementSize observes how many transactions a balance computation produced.
	SettlementSize prometheus.Histogram

	// UnauthorizedScopes counts balance queries for projects the viewer is
	// not an active participant of.
	UnauthorizedScopes prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Finished RPCs by procedure and code.",
		}, []string{"procedure", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		SettlementSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transactions",
			Help:      "Number of transactions in a computed settlement plan.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		UnauthorizedScopes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unauthorized_scopes_total",
			Help:      "Balance queries for projects the viewer does not participate in.",
		}),
	}
}

// NewUnregistered creates collectors that are not exported anywhere.
// Useful for tests and offline tools.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
