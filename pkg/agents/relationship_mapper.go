package agents

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/query"
	"github.com/rumeelabs/braingraph/pkg/shared"
)

const centralEntityLimit = 5

// RelationshipMapper digests the graph into the shared summary slot: node
// and edge totals plus the most connected people and topics. It also feeds
// the graph-size gauges.
type RelationshipMapper struct {
	interval time.Duration
	now      func() time.Time
}

func NewRelationshipMapper() *RelationshipMapper {
	return &RelationshipMapper{
		interval: 40 * time.Second,
		now:      time.Now,
	}
}

func (a *RelationshipMapper) Name() string            { return "relationship-mapper" }
func (a *RelationshipMapper) Interval() time.Duration { return a.interval }

func (a *RelationshipMapper) Process(ctx context.Context, deps Deps) error {
	stats := deps.Store.Stats()

	summary := shared.GraphSummary{
		TotalNodes:    stats.TotalNodes,
		TotalEdges:    stats.TotalEdges,
		NodeTypes:     stats.NodeTypes,
		EdgeTypes:     stats.EdgeTypes,
		CentralPeople: toRanks(deps.Query.CentralNodes(ingest.TypePerson, centralEntityLimit)),
		CentralTopics: toRanks(deps.Query.CentralNodes(ingest.TypeTopic, centralEntityLimit)),
		UpdatedAt:     a.now(),
	}
	deps.Memory.SetGraphSummary(summary)
	if deps.Metrics != nil {
		deps.Metrics.SetGraphSize(ctx, int64(stats.TotalNodes), int64(stats.TotalEdges))
	}

	deps.Log.Named(a.Name()).Debug("graph summarized",
		zap.Int("nodes", stats.TotalNodes),
		zap.Int("edges", stats.TotalEdges))
	return nil
}

func toRanks(central []query.Central) []shared.EntityRank {
	out := make([]shared.EntityRank, len(central))
	for i, c := range central {
		out[i] = shared.EntityRank{ID: c.ID, Connections: c.Connections}
	}
	return out
}
