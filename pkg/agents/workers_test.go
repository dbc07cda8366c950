package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/ai"
	"github.com/rumeelabs/braingraph/pkg/graph"
	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/metrics"
	"github.com/rumeelabs/braingraph/pkg/query"
	"github.com/rumeelabs/braingraph/pkg/shared"
	"github.com/rumeelabs/braingraph/pkg/source"
)

type stubClassifier struct {
	cls   *ai.Classification
	err   error
	calls int
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (*ai.Classification, error) {
	s.calls++
	return s.cls, s.err
}

type stubScorer struct {
	conn  *ai.Connection
	err   error
	calls int
}

func (s *stubScorer) Score(ctx context.Context, a, b string) (*ai.Connection, error) {
	s.calls++
	return s.conn, s.err
}

func newTestDeps(t *testing.T) (Deps, *source.MemorySource) {
	t.Helper()
	store := graph.NewStore(nil)
	src := source.NewMemorySource()
	deps := Deps{
		Source:   src,
		Store:    store,
		Pipeline: ingest.NewPipeline(store, nil),
		Query:    query.NewEngine(store, query.Config{}),
		Memory:   shared.NewMemory(),
		Metrics:  metrics.NewNoopCollector(),
		Log:      zap.NewNop(),
	}
	return deps, src
}

func putNote(t *testing.T, src *source.MemorySource, rec *ingest.NoteRecord) {
	t.Helper()
	require.NoError(t, src.PutNote(context.Background(), rec))
}

func putReminder(t *testing.T, src *source.MemorySource, rec *ingest.ReminderRecord) {
	t.Helper()
	require.NoError(t, src.PutReminder(context.Background(), rec))
}

func noteAt(id string, created time.Time, entities *ingest.EntityPayload) *ingest.NoteRecord {
	return &ingest.NoteRecord{
		ID:        id,
		Title:     "note " + id,
		Content:   "content " + id,
		CreatedAt: created,
		Entities:  entities,
	}
}

func TestSignalSorter_ClassifiesAndMarks(t *testing.T) {
	deps, src := newTestDeps(t)
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	putNote(t, src, noteAt("n1", now, nil))
	putNote(t, src, &ingest.NoteRecord{ID: "n2", CreatedAt: now, Processed: true})

	classifier := &stubClassifier{cls: &ai.Classification{
		ContentType: "idea",
		Topics:      []string{"roadmap", "hiring"},
	}}
	deps.Classifier = classifier

	a := NewSignalSorter()
	require.NoError(t, a.Process(context.Background(), deps))

	// Only the unprocessed note was classified.
	assert.Equal(t, 1, classifier.calls)

	snap, _ := src.Snapshot(context.Background())
	for _, n := range snap.Notes {
		assert.True(t, n.Processed, n.ID)
	}

	topics := deps.Memory.ActiveTopics()
	require.Len(t, topics, 2)
	assert.Equal(t, "roadmap", topics[0].Topic)
	assert.Equal(t, "n1", topics[0].NoteID)
}

func TestSignalSorter_BatchLimit(t *testing.T) {
	deps, src := newTestDeps(t)
	now := time.Now()
	for i := 0; i < signalSorterBatch+3; i++ {
		putNote(t, src, noteAt(string(rune('a'+i)), now.Add(time.Duration(i)*time.Minute), nil))
	}
	classifier := &stubClassifier{cls: &ai.Classification{}}
	deps.Classifier = classifier

	require.NoError(t, NewSignalSorter().Process(context.Background(), deps))
	assert.Equal(t, signalSorterBatch, classifier.calls)
}

func TestSignalSorter_ClassifierErrorSkipsNote(t *testing.T) {
	deps, src := newTestDeps(t)
	putNote(t, src, noteAt("n1", time.Now(), nil))
	deps.Classifier = &stubClassifier{err: errors.New("model offline")}

	require.NoError(t, NewSignalSorter().Process(context.Background(), deps))

	snap, _ := src.Snapshot(context.Background())
	assert.False(t, snap.Notes[0].Processed)
}

func TestSignalSorter_NoClassifierIsNoop(t *testing.T) {
	deps, src := newTestDeps(t)
	putNote(t, src, noteAt("n1", time.Now(), nil))

	require.NoError(t, NewSignalSorter().Process(context.Background(), deps))
	snap, _ := src.Snapshot(context.Background())
	assert.False(t, snap.Notes[0].Processed)
}

func TestMindWeaver_CommitsStrongConnections(t *testing.T) {
	deps, src := newTestDeps(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	shared1 := &ingest.EntityPayload{Topics: []string{"roadmap"}}

	// Eleven notes: ten recent plus one older sharing a topic with them.
	deps.Pipeline.IngestNote(noteAt("old", base, shared1))
	putNote(t, src, noteAt("old", base, shared1))
	for i := 0; i < mindWeaverRecent; i++ {
		var ents *ingest.EntityPayload
		if i == 0 {
			ents = shared1
		}
		n := noteAt(string(rune('a'+i)), base.Add(time.Duration(i+1)*time.Hour), ents)
		deps.Pipeline.IngestNote(n)
		putNote(t, src, n)
	}

	scorer := &stubScorer{conn: &ai.Connection{
		Connected: true, Strength: 0.9, Type: "builds_on", Reason: "same roadmap",
	}}
	deps.Scorer = scorer

	require.NoError(t, NewMindWeaver().Process(context.Background(), deps))

	// Only the pair sharing a topic was scored and linked.
	assert.Equal(t, 1, scorer.calls)
	refs := deps.Memory.CrossReferences("a")
	require.Len(t, refs, 1)
	assert.Equal(t, "old", refs[0].TargetNoteID)
	assert.Equal(t, 0.9, refs[0].Strength)

	edges := deps.Store.EdgesFrom("note:a", "BUILDS_ON")
	require.Len(t, edges, 1)
	assert.Equal(t, "note:old", edges[0].TargetID)

	// A second cycle does not re-score the same pair.
	require.NoError(t, NewMindWeaver().Process(context.Background(), deps))
	assert.Equal(t, 1, scorer.calls)
}

func TestMindWeaver_WeakConnectionNotCommitted(t *testing.T) {
	deps, src := newTestDeps(t)
	base := time.Now().Add(-time.Hour)
	ents := &ingest.EntityPayload{People: []string{"Sarah"}}

	for i := 0; i < mindWeaverRecent+1; i++ {
		n := noteAt(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute), ents)
		deps.Pipeline.IngestNote(n)
		putNote(t, src, n)
	}

	deps.Scorer = &stubScorer{conn: &ai.Connection{Connected: true, Strength: 0.5}}
	require.NoError(t, NewMindWeaver().Process(context.Background(), deps))

	_, total := deps.Memory.CrossReferenceStats()
	assert.Zero(t, total)
}

func TestMindWeaver_NoScorerIsNoop(t *testing.T) {
	deps, src := newTestDeps(t)
	putNote(t, src, noteAt("n1", time.Now(), nil))
	putNote(t, src, noteAt("n2", time.Now(), nil))

	require.NoError(t, NewMindWeaver().Process(context.Background(), deps))
}

func TestContextBuilder_BuildsUserContext(t *testing.T) {
	deps, src := newTestDeps(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	putNote(t, src, noteAt("1", base, &ingest.EntityPayload{
		Topics: []string{"roadmap"}, People: []string{"Sarah"},
	}))
	putNote(t, src, noteAt("2", base.Add(time.Hour), &ingest.EntityPayload{
		Topics: []string{"roadmap", "hiring"}, People: []string{"Sarah", "Bob"},
	}))

	a := NewContextBuilder()
	a.now = func() time.Time { return base.Add(2 * time.Hour) }
	require.NoError(t, a.Process(context.Background(), deps))

	got, ok := deps.Memory.UserContext()
	require.True(t, ok)
	assert.Equal(t, "roadmap", got.PrimaryFocus)
	assert.Equal(t, []string{"roadmap", "hiring"}, got.ActiveTopics)
	assert.Equal(t, []string{"Sarah", "Bob"}, got.ActivePeople)
	assert.Equal(t, 2, got.RecentActivity)
	assert.Equal(t, base.Add(2*time.Hour), got.UpdatedAt)
}

func TestContextBuilder_EmptySourceIsNoop(t *testing.T) {
	deps, _ := newTestDeps(t)
	require.NoError(t, NewContextBuilder().Process(context.Background(), deps))
	_, ok := deps.Memory.UserContext()
	assert.False(t, ok)
}

func TestPatternDetector_RecordsSnapshot(t *testing.T) {
	deps, src := newTestDeps(t)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// Five notes, three at 9am, across two weekdays, all in the last month.
	times := []time.Time{
		now.Add(-1 * 24 * time.Hour).Truncate(24 * time.Hour).Add(9 * time.Hour),
		now.Add(-2 * 24 * time.Hour).Truncate(24 * time.Hour).Add(9 * time.Hour),
		now.Add(-8 * 24 * time.Hour).Truncate(24 * time.Hour).Add(9 * time.Hour),
		now.Add(-9 * 24 * time.Hour).Truncate(24 * time.Hour).Add(14 * time.Hour),
		now.Add(-10 * 24 * time.Hour).Truncate(24 * time.Hour).Add(16 * time.Hour),
	}
	for i, ts := range times {
		putNote(t, src, noteAt(string(rune('a'+i)), ts, &ingest.EntityPayload{
			Topics: []string{"roadmap"},
			People: []string{"Sarah"},
		}))
	}

	a := NewPatternDetector()
	a.now = func() time.Time { return now }
	require.NoError(t, a.Process(context.Background(), deps))

	patterns := deps.Memory.Patterns()
	require.Len(t, patterns, 1)
	p := patterns[0]

	require.NotEmpty(t, p.PeakHours)
	assert.Equal(t, 9, p.PeakHours[0].Hour)
	assert.Equal(t, 3, p.PeakHours[0].Count)

	require.NotEmpty(t, p.Collaborators)
	assert.Equal(t, "Sarah", p.Collaborators[0].Person)
	assert.Equal(t, 5, p.Collaborators[0].Count)

	total := 0
	for _, week := range p.TopicsByWeek {
		total += week["roadmap"]
	}
	assert.Equal(t, 5, total)
}

func TestPatternDetector_TooFewNotesIsNoop(t *testing.T) {
	deps, src := newTestDeps(t)
	putNote(t, src, noteAt("1", time.Now(), nil))

	require.NoError(t, NewPatternDetector().Process(context.Background(), deps))
	assert.Empty(t, deps.Memory.Patterns())
}

func TestInsightGenerator_StaleRemindersAndNeglectedPeople(t *testing.T) {
	deps, src := newTestDeps(t)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	deps.Memory.SetUserContext(shared.UserContext{PrimaryFocus: "roadmap"})

	putReminder(t, src, &ingest.ReminderRecord{
		ID: "r1", Title: "old task", Status: "pending", CreatedAt: now.Add(-5 * 24 * time.Hour),
	})
	putReminder(t, src, &ingest.ReminderRecord{
		ID: "r2", Title: "fresh task", Status: "pending", CreatedAt: now.Add(-time.Hour),
	})
	putNote(t, src, noteAt("n1", now.Add(-20*24*time.Hour), &ingest.EntityPayload{People: []string{"Bob"}}))

	a := NewInsightGenerator()
	a.now = func() time.Time { return now }
	require.NoError(t, a.Process(context.Background(), deps))

	insights := deps.Memory.Insights()
	require.Len(t, insights, 2)
	assert.Equal(t, "unfinished_business", insights[0].Type)
	assert.Contains(t, insights[0].Description, "1 tasks pending")
	assert.Equal(t, "neglected_contacts", insights[1].Type)
	assert.Contains(t, insights[1].Description, "Bob")
	assert.Equal(t, now, insights[0].GeneratedAt)
}

func TestInsightGenerator_Convergence(t *testing.T) {
	deps, _ := newTestDeps(t)
	deps.Memory.SetUserContext(shared.UserContext{})
	for _, id := range []string{"a", "b", "c", "d"} {
		deps.Memory.AddCrossReference(id, shared.CrossReference{TargetNoteID: "x"})
	}

	require.NoError(t, NewInsightGenerator().Process(context.Background(), deps))

	insights := deps.Memory.Insights()
	require.Len(t, insights, 1)
	assert.Equal(t, "topic_convergence", insights[0].Type)
	assert.Contains(t, insights[0].Description, "4 connections")
}

func TestInsightGenerator_NoContextIsNoop(t *testing.T) {
	deps, src := newTestDeps(t)
	putReminder(t, src, &ingest.ReminderRecord{
		ID: "r1", Status: "pending", CreatedAt: time.Now().Add(-5 * 24 * time.Hour),
	})

	require.NoError(t, NewInsightGenerator().Process(context.Background(), deps))
	assert.Empty(t, deps.Memory.Insights())
}

func TestRelationshipMapper_SummarizesGraph(t *testing.T) {
	deps, _ := newTestDeps(t)

	for _, id := range []string{"1", "2", "3"} {
		deps.Pipeline.IngestNote(noteAt(id, time.Now(), &ingest.EntityPayload{
			People: []string{"Sarah"},
			Topics: []string{"roadmap"},
		}))
	}

	require.NoError(t, NewRelationshipMapper().Process(context.Background(), deps))

	summary, ok := deps.Memory.GraphSummary()
	require.True(t, ok)
	assert.Equal(t, 5, summary.TotalNodes)
	assert.Equal(t, 6, summary.TotalEdges)

	require.NotEmpty(t, summary.CentralPeople)
	assert.Equal(t, "person:Sarah", summary.CentralPeople[0].ID)
	assert.Equal(t, 3, summary.CentralPeople[0].Connections)
	require.NotEmpty(t, summary.CentralTopics)
	assert.Equal(t, "topic:roadmap", summary.CentralTopics[0].ID)
}

func TestRelationshipMapper_NilMetrics(t *testing.T) {
	deps, _ := newTestDeps(t)
	deps.Metrics = nil

	deps.Pipeline.IngestNote(noteAt("1", time.Now(), &ingest.EntityPayload{
		People: []string{"Sarah"},
	}))

	require.NoError(t, NewRelationshipMapper().Process(context.Background(), deps))

	summary, ok := deps.Memory.GraphSummary()
	require.True(t, ok)
	assert.Equal(t, 2, summary.TotalNodes)
}
