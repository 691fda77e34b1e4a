// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger ─────────────────────────────────────────────────────────────────

// LedgerRecords tracks the number of records currently held in memory.
var LedgerRecords = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "academypay",
	Subsystem: "ledger",
	Name:      "records",
	Help:      "Payment records currently held by the record store.",
})

// LedgerMutations counts add/remove operations by outcome (ok, invalid, not_found, degraded).
var LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "academypay",
	Subsystem: "ledger",
	Name:      "mutations_total",
	Help:      "Record store mutations by operation and outcome.",
}, []string{"op", "outcome"})

// ─── Persistence ────────────────────────────────────────────────────────────

// PersistenceWrites counts durable writes by result (ok, capacity, error, retried).
var PersistenceWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "academypay",
	Subsystem: "persistence",
	Name:      "writes_total",
	Help:      "Durable writes of the payment history by result.",
}, []string{"result"})

// PersistenceDegraded is 1 while in-memory state is ahead of durable storage.
var PersistenceDegraded = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "academypay",
	Subsystem: "persistence",
	Name:      "degraded",
	Help:      "1 when the latest ledger state could not be saved durably.",
})

// CorruptLoads counts loads that found unparseable persisted data.
var CorruptLoads = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "academypay",
	Subsystem: "persistence",
	Name:      "corrupt_loads_total",
	Help:      "Loads that fell back to an empty ledger because persisted data was corrupt.",
})

// ─── Queries ────────────────────────────────────────────────────────────────

// QueryDuration observes history/partition computations in milliseconds.
var QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "academypay",
	Subsystem: "query",
	Name:      "duration_ms",
	Help:      "Time spent computing derived views.",
	Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100},
}, []string{"view"})

// ─── RPC ────────────────────────────────────────────────────────────────────

// RPCRequests counts handled Connect calls by procedure and result code ("ok"
// on success).
var RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "academypay",
	Subsystem: "rpc",
	Name:      "requests_total",
	Help:      "Connect calls by procedure and code.",
}, []string{"procedure", "code"})

// RPCDuration observes Connect call latency in milliseconds.
var RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "academypay",
	Subsystem: "rpc",
	Name:      "duration_ms",
	Help:      "Connect call latency.",
	Buckets:   []float64{0.5, 1, 5, 10, 50, 100, 500},
}, []string{"procedure"})

// SetDegraded records the current persistence state.
func SetDegraded(degraded bool) {
	if degraded {
		PersistenceDegraded.Set(1)
		return
	}
	PersistenceDegraded.Set(0)
}
