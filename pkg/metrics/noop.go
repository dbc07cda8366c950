package metrics

import "context"

// NoopCollector discards all measurements.
type NoopCollector struct{}

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

var _ Collector = (*NoopCollector)(nil)

func (n *NoopCollector) RecordIngest(ctx context.Context, kind string, status string) {}

func (n *NoopCollector) RecordQuery(ctx context.Context, operation string, durationMs int64) {}

func (n *NoopCollector) RecordAgentCycle(ctx context.Context, agent string, status string, durationMs int64) {
}

func (n *NoopCollector) SetGraphSize(ctx context.Context, nodes, edges int64) {}
