package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector on a private Prometheus registry.
type PrometheusCollector struct {
	ingestTotal   *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	agentCycles   *prometheus.CounterVec
	agentDuration *prometheus.HistogramVec
	graphNodes    prometheus.Gauge
	graphEdges    prometheus.Gauge
	registry      *prometheus.Registry
}

// NewCollector creates a Prometheus metrics collector.
func NewCollector() *PrometheusCollector {
	registry := prometheus.NewRegistry()

	ingestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "braingraph_ingest_total",
			Help: "Total ingested records by kind and status",
		},
		[]string{"kind", "status"},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "braingraph_query_duration_seconds",
			Help:    "Latency of graph read operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5},
		},
		[]string{"operation"},
	)

	agentCycles := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "braingraph_agent_cycles_total",
			Help: "Total background agent cycles by agent and status",
		},
		[]string{"agent", "status"},
	)

	agentDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "braingraph_agent_cycle_duration_seconds",
			Help:    "Duration of background agent cycles",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 120.0},
		},
		[]string{"agent"},
	)

	graphNodes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "braingraph_graph_nodes",
		Help: "Current number of nodes in the graph",
	})

	graphEdges := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "braingraph_graph_edges",
		Help: "Current number of edges in the graph",
	})

	registry.MustRegister(ingestTotal, queryDuration, agentCycles, agentDuration, graphNodes, graphEdges)

	return &PrometheusCollector{
		ingestTotal:   ingestTotal,
		queryDuration: queryDuration,
		agentCycles:   agentCycles,
		agentDuration: agentDuration,
		graphNodes:    graphNodes,
		graphEdges:    graphEdges,
		registry:      registry,
	}
}

var _ Collector = (*PrometheusCollector)(nil)

func (m *PrometheusCollector) RecordIngest(ctx context.Context, kind string, status string) {
	m.ingestTotal.WithLabelValues(kind, status).Inc()
}

func (m *PrometheusCollector) RecordQuery(ctx context.Context, operation string, durationMs int64) {
	m.queryDuration.WithLabelValues(operation).Observe(float64(durationMs) / 1000.0)
}

func (m *PrometheusCollector) RecordAgentCycle(ctx context.Context, agent string, status string, durationMs int64) {
	m.agentCycles.WithLabelValues(agent, status).Inc()
	m.agentDuration.WithLabelValues(agent).Observe(float64(durationMs) / 1000.0)
}

func (m *PrometheusCollector) SetGraphSize(ctx context.Context, nodes, edges int64) {
	m.graphNodes.Set(float64(nodes))
	m.graphEdges.Set(float64(edges))
}

// Registry returns the Prometheus registry for HTTP exposure.
func (m *PrometheusCollector) Registry() *prometheus.Registry {
	return m.registry
}
