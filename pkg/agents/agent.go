// Package agents runs the fixed roster of background workers that keep the
// graph and the shared memory up to date. Each agent runs on its own
// goroutine with its own interval; a failing or panicking agent never takes
// down the scheduler or another agent.
package agents

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/ai"
	"github.com/rumeelabs/braingraph/pkg/graph"
	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/metrics"
	"github.com/rumeelabs/braingraph/pkg/query"
	"github.com/rumeelabs/braingraph/pkg/shared"
	"github.com/rumeelabs/braingraph/pkg/source"
	"github.com/rumeelabs/braingraph/pkg/trace"
)

// Agent is one periodic background worker.
type Agent interface {
	// Name identifies the agent in logs, metrics and traces.
	Name() string

	// Interval is the pause between the end of one cycle and the start
	// of the next.
	Interval() time.Duration

	// Process runs one cycle. Returning an error (or panicking) delays
	// the next cycle by the scheduler's backoff but never stops the loop.
	Process(ctx context.Context, deps Deps) error
}

// Deps is everything an agent may touch during a cycle. Agents write only
// to their own shared-memory slot; all other fields are read or call-through
// surfaces. The AI fields may be nil, in which case AI-dependent agents
// skip their cycles.
type Deps struct {
	Source     source.Source
	Store      *graph.Store
	Pipeline   *ingest.Pipeline
	Query      *query.Engine
	Memory     *shared.Memory
	Scorer     ai.RelationshipScorer
	Classifier ai.ContentClassifier
	Metrics    metrics.Collector
	Trace      trace.Exporter
	Log        *zap.Logger
}

// DefaultRoster returns the six standard agents with their stock intervals.
func DefaultRoster() []Agent {
	return []Agent{
		NewSignalSorter(),
		NewContextBuilder(),
		NewMindWeaver(),
		NewRelationshipMapper(),
		NewInsightGenerator(),
		NewPatternDetector(),
	}
}

// noteContent is the text agents hand to the AI capabilities for one note.
func noteContent(n *ingest.NoteRecord) string {
	if n.Title == "" {
		return n.Content
	}
	return n.Title + " " + n.Content
}
