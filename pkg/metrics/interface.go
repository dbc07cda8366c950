// Package metrics instruments ingestion, queries and agent cycles.
package metrics

import "context"

// Collector is the interface for metrics collection. Implementations are
// the Prometheus-backed collector and a no-op collector for embedders that
// do not expose metrics.
type Collector interface {
	// RecordIngest counts one ingested record by kind and outcome.
	RecordIngest(ctx context.Context, kind string, status string)

	// RecordQuery observes the latency of one read operation.
	RecordQuery(ctx context.Context, operation string, durationMs int64)

	// RecordAgentCycle counts one background-agent cycle and its latency.
	RecordAgentCycle(ctx context.Context, agent string, status string, durationMs int64)

	// SetGraphSize publishes the current node and edge totals.
	SetGraphSize(ctx context.Context, nodes, edges int64)
}
