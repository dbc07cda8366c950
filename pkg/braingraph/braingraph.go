// Package braingraph assembles the knowledge graph, its query engine, the
// ingestion pipeline, shared agent memory and the background agent scheduler
// into one embeddable system.
package braingraph

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/agents"
	"github.com/rumeelabs/braingraph/pkg/ai"
	"github.com/rumeelabs/braingraph/pkg/graph"
	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/llm"
	"github.com/rumeelabs/braingraph/pkg/metrics"
	"github.com/rumeelabs/braingraph/pkg/query"
	"github.com/rumeelabs/braingraph/pkg/shared"
	"github.com/rumeelabs/braingraph/pkg/source"
	"github.com/rumeelabs/braingraph/pkg/trace"
)

// DefaultAITimeout bounds one extraction, scoring or classification call.
const DefaultAITimeout = 120 * time.Second

// ErrNilRecord is returned when an ingest method receives a nil record.
var ErrNilRecord = errors.New("record cannot be empty")

// ErrMissingID is returned when an ingest method receives a record
// without an id.
var ErrMissingID = errors.New("record id cannot be empty")

// Config holds configuration for the Brain.
type Config struct {
	// Source supplies domain records to the background agents and, when it
	// also implements source.Writer, persists records ingested through the
	// Brain. Defaults to an in-memory source.
	Source source.Source

	// LLM backs entity extraction, relationship scoring and content
	// classification. When nil the AI-dependent agents skip their cycles
	// and Extract is unavailable.
	LLM llm.Client

	// AITimeout bounds a single LLM-backed call (default 120s).
	AITimeout time.Duration

	// MaxPaths caps the number of paths FindPaths returns (default 50).
	MaxPaths int

	// Agents overrides the standard roster. Defaults to the six stock
	// agents.
	Agents []agents.Agent

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Metrics defaults to a no-op collector.
	Metrics metrics.Collector

	// Trace defaults to a no-op exporter.
	Trace trace.Exporter
}

// Brain is the main entry point. All methods are safe for concurrent use.
type Brain struct {
	config    Config
	log       *zap.Logger
	store     *graph.Store
	engine    *query.Engine
	pipeline  *ingest.Pipeline
	memory    *shared.Memory
	scheduler *agents.Scheduler
	analyzer  *ai.Analyzer
	metrics   metrics.Collector
	trace     trace.Exporter
}

// New wires a Brain from cfg, applying defaults for every zero field.
func New(cfg Config) (*Brain, error) {
	if cfg.Source == nil {
		cfg.Source = source.NewMemorySource()
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = DefaultAITimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoopCollector()
	}
	if cfg.Trace == nil {
		cfg.Trace = &trace.NoopExporter{}
	}
	if cfg.Agents == nil {
		cfg.Agents = agents.DefaultRoster()
	}

	store := graph.NewStore(cfg.Logger)
	engine := query.NewEngine(store, query.Config{
		MaxPaths: cfg.MaxPaths,
		Logger:   cfg.Logger,
	})
	pipeline := ingest.NewPipeline(store, cfg.Logger)
	memory := shared.NewMemory()

	b := &Brain{
		config:   cfg,
		log:      cfg.Logger,
		store:    store,
		engine:   engine,
		pipeline: pipeline,
		memory:   memory,
		metrics:  cfg.Metrics,
		trace:    cfg.Trace,
	}

	deps := agents.Deps{
		Source:   cfg.Source,
		Store:    store,
		Pipeline: pipeline,
		Query:    engine,
		Memory:   memory,
		Metrics:  cfg.Metrics,
		Trace:    cfg.Trace,
		Log:      cfg.Logger,
	}
	if cfg.LLM != nil {
		b.analyzer = ai.NewAnalyzer(cfg.LLM, cfg.Logger)
		deps.Scorer = &deadlineScorer{inner: b.analyzer, timeout: cfg.AITimeout}
		deps.Classifier = &deadlineClassifier{inner: b.analyzer, timeout: cfg.AITimeout}
	}
	b.scheduler = agents.NewScheduler(deps, cfg.Agents...)

	return b, nil
}

// Start launches the background agents. It is a no-op if already running.
func (b *Brain) Start(ctx context.Context) {
	b.scheduler.Start(ctx)
}

// Stop halts the background agents and waits for in-flight cycles.
func (b *Brain) Stop() {
	b.scheduler.Stop()
}

// Memory returns the shared agent memory.
func (b *Brain) Memory() *shared.Memory {
	return b.memory
}

// Graph returns the underlying graph store.
func (b *Brain) Graph() *graph.Store {
	return b.store
}

// IngestNote persists the note when the configured source accepts writes,
// then projects it into the graph.
func (b *Brain) IngestNote(ctx context.Context, rec *ingest.NoteRecord) error {
	var id string
	if rec != nil {
		id = rec.ID
	}
	return b.ingest(ctx, "note", rec == nil, id, func() error {
		if w, ok := b.config.Source.(source.Writer); ok {
			if err := w.PutNote(ctx, rec); err != nil {
				return err
			}
		}
		b.pipeline.IngestNote(rec)
		return nil
	})
}

// IngestPerson persists and projects a person record.
func (b *Brain) IngestPerson(ctx context.Context, rec *ingest.PersonRecord) error {
	var id string
	if rec != nil {
		id = rec.ID
	}
	return b.ingest(ctx, "person", rec == nil, id, func() error {
		if w, ok := b.config.Source.(source.Writer); ok {
			if err := w.PutPerson(ctx, rec); err != nil {
				return err
			}
		}
		b.pipeline.IngestPerson(rec)
		return nil
	})
}

// IngestMeeting persists and projects a meeting record.
func (b *Brain) IngestMeeting(ctx context.Context, rec *ingest.MeetingRecord) error {
	var id string
	if rec != nil {
		id = rec.ID
	}
	return b.ingest(ctx, "meeting", rec == nil, id, func() error {
		if w, ok := b.config.Source.(source.Writer); ok {
			if err := w.PutMeeting(ctx, rec); err != nil {
				return err
			}
		}
		b.pipeline.IngestMeeting(rec)
		return nil
	})
}

// IngestReminder persists and projects a reminder record.
func (b *Brain) IngestReminder(ctx context.Context, rec *ingest.ReminderRecord) error {
	var id string
	if rec != nil {
		id = rec.ID
	}
	return b.ingest(ctx, "reminder", rec == nil, id, func() error {
		if w, ok := b.config.Source.(source.Writer); ok {
			if err := w.PutReminder(ctx, rec); err != nil {
				return err
			}
		}
		b.pipeline.IngestReminder(rec)
		return nil
	})
}

// LinkNotes records a typed connection between two already-ingested notes.
// It reports whether the edge was committed.
func (b *Brain) LinkNotes(sourceNoteID, targetNoteID, connectionType string, strength float64, reason string) bool {
	return b.pipeline.LinkNotes(sourceNoteID, targetNoteID, connectionType, strength, reason)
}

// Extract runs LLM entity extraction over free text. It requires a
// configured LLM client.
func (b *Brain) Extract(ctx context.Context, text string) (*ingest.EntityPayload, error) {
	if b.analyzer == nil {
		return nil, errors.New("extraction requires an LLM client")
	}
	ctx, cancel := context.WithTimeout(ctx, b.config.AITimeout)
	defer cancel()
	return b.analyzer.Extract(ctx, text)
}

// Stats summarizes the graph.
func (b *Brain) Stats(ctx context.Context) graph.Stats {
	defer b.timeQuery(ctx, "stats")()
	return b.store.Stats()
}

// FindContext collects the neighborhood of a node out to depth hops.
func (b *Brain) FindContext(ctx context.Context, id string, depth int) *query.Context {
	defer b.timeQuery(ctx, "find_context")()
	return b.engine.FindContext(id, depth)
}

// FindPaths lists paths between two nodes up to maxDepth hops.
func (b *Brain) FindPaths(ctx context.Context, startID, endID string, maxDepth int) [][]string {
	defer b.timeQuery(ctx, "find_paths")()
	return b.engine.FindPaths(startID, endID, maxDepth)
}

// CentralNodes ranks nodes of a type by connection count.
func (b *Brain) CentralNodes(ctx context.Context, nodeType string, limit int) []query.Central {
	defer b.timeQuery(ctx, "central_nodes")()
	return b.engine.CentralNodes(nodeType, limit)
}

// Clusters groups connected nodes of a type.
func (b *Brain) Clusters(ctx context.Context, nodeType string) map[string][]string {
	defer b.timeQuery(ctx, "clusters")()
	return b.engine.Clusters(nodeType)
}

// Timeline lists the dated activity around an entity, newest first.
func (b *Brain) Timeline(ctx context.Context, entityID string) []query.TimelineEntry {
	defer b.timeQuery(ctx, "timeline")()
	return b.engine.Timeline(entityID)
}

// Export projects the graph for visualization.
func (b *Brain) Export(ctx context.Context, types []string, limit int) *graph.View {
	defer b.timeQuery(ctx, "export")()
	return b.store.Export(types, limit)
}

func (b *Brain) ingest(ctx context.Context, kind string, missing bool, id string, commit func() error) error {
	start := time.Now()
	var err error
	switch {
	case missing:
		err = ErrNilRecord
	case id == "":
		err = ErrMissingID
	default:
		err = commit()
	}

	status := "success"
	errType := ""
	if err != nil {
		status = "error"
		errType = ClassifyError(err)
	}
	b.metrics.RecordIngest(ctx, kind, status)
	b.metrics.SetGraphSize(ctx, int64(b.store.NodeCount()), int64(b.store.EdgeCount()))
	b.exportTrace(ctx, &trace.Record{
		Timestamp:   start,
		OperationID: uuid.NewString(),
		Operation:   "ingest_" + kind,
		DurationMs:  time.Since(start).Milliseconds(),
		Status:      status,
		ErrorType:   errType,
	})
	return err
}

func (b *Brain) timeQuery(ctx context.Context, operation string) func() {
	start := time.Now()
	return func() {
		b.metrics.RecordQuery(ctx, operation, time.Since(start).Milliseconds())
	}
}

func (b *Brain) exportTrace(ctx context.Context, rec *trace.Record) {
	if err := b.trace.Export(ctx, rec); err != nil {
		b.log.Warn("trace export failed", zap.Error(err))
	}
}

// deadlineScorer bounds each scoring call by the configured AI timeout.
type deadlineScorer struct {
	inner   ai.RelationshipScorer
	timeout time.Duration
}

func (d *deadlineScorer) Score(ctx context.Context, first, second string) (*ai.Connection, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.inner.Score(ctx, first, second)
}

// deadlineClassifier bounds each classification call by the configured AI
// timeout.
type deadlineClassifier struct {
	inner   ai.ContentClassifier
	timeout time.Duration
}

func (d *deadlineClassifier) Classify(ctx context.Context, text string) (*ai.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.inner.Classify(ctx, text)
}
