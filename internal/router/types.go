// Package router implements the routing matrix, per-source filters, ring
// queue, and dispatcher described in spec.md §4.4: one input queue, one
// dispatcher goroutine, a swappable configuration snapshot, and
// per-destination statistics.
package router

import "github.com/leandrodaf/midi-router/sdk/contracts"

// TransportCount mirrors contracts.TransportCount; kept as a local alias
// so this package reads naturally against spec.md's "N" without an
// extra qualifier on every array declaration.
const TransportCount = contracts.TransportCount

// Config is the router's configuration snapshot; spec.md §3 calls for a
// swappable, replicated-without-copying record, realized here as a type
// alias over the public contracts.RouterConfig so sdk/router and
// internal/config can share one schema.
type Config = contracts.RouterConfig

// Stats holds the per-slot counters of spec.md §4.4's get_stats/reset_stats.
// Counters are plain uint64s updated via atomic add; spec.md explicitly
// permits relaxed ordering since "exact totals are not required."
type Stats struct {
	PacketsRouted   [TransportCount][TransportCount]uint64
	PacketsFiltered [TransportCount]uint64
	PacketsDropped  [TransportCount]uint64
	RoutingErrors   uint64
}
