package braingraph

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumeelabs/braingraph/pkg/agents"
	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/source"
)

func TestNew_Defaults(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)

	assert.Equal(t, DefaultAITimeout, b.config.AITimeout)
	assert.NotNil(t, b.Memory())
	assert.NotNil(t, b.Graph())
}

func TestBrain_IngestAndQuery(t *testing.T) {
	src := source.NewMemorySource()
	b, err := New(Config{Source: src})
	require.NoError(t, err)
	ctx := context.Background()

	note := &NoteRecord{
		ID:        "n1",
		Title:     "standup",
		Content:   "synced with Sarah about the roadmap",
		CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Entities: &EntityPayload{
			People: []string{"Sarah"},
			Topics: []string{"roadmap"},
		},
	}
	require.NoError(t, b.IngestNote(ctx, note))

	stats := b.Stats(ctx)
	assert.Equal(t, 3, stats.TotalNodes)
	assert.Equal(t, 2, stats.TotalEdges)

	fc := b.FindContext(ctx, "note:n1", 1)
	require.NotNil(t, fc.Center)
	assert.Len(t, fc.Nodes, 2)

	paths := b.FindPaths(ctx, "note:n1", "topic:roadmap", 2)
	require.NotEmpty(t, paths)
	assert.Equal(t, []string{"note:n1", "topic:roadmap"}, paths[0])

	// Ingesting through the facade also persists to the source.
	snap, err := src.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "n1", snap.Notes[0].ID)
}

func TestBrain_IngestValidation(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, b.IngestNote(ctx, nil), ErrNilRecord)
	assert.ErrorIs(t, b.IngestNote(ctx, &NoteRecord{}), ErrMissingID)
	assert.ErrorIs(t, b.IngestPerson(ctx, nil), ErrNilRecord)
	assert.ErrorIs(t, b.IngestMeeting(ctx, &MeetingRecord{}), ErrMissingID)
	assert.ErrorIs(t, b.IngestReminder(ctx, nil), ErrNilRecord)
}

func TestBrain_LinkNotes(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.IngestNote(ctx, &NoteRecord{ID: "a", CreatedAt: time.Now()}))
	require.NoError(t, b.IngestNote(ctx, &NoteRecord{ID: "b", CreatedAt: time.Now()}))

	assert.True(t, b.LinkNotes("a", "b", "related", 0.8, "same project"))
	assert.False(t, b.LinkNotes("a", "missing", "related", 0.8, "no target"))

	stats := b.Stats(ctx)
	assert.Equal(t, map[string]int{"RELATED": 1}, stats.EdgeTypes)
}

func TestBrain_Export(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.IngestNote(ctx, &NoteRecord{
		ID:        "n1",
		Title:     "planning",
		CreatedAt: time.Now(),
		Entities:  &EntityPayload{Topics: []string{"roadmap"}},
	}))

	view := b.Export(ctx, []string{TypeNote, TypeTopic}, 10)
	require.NotNil(t, view)
	assert.Len(t, view.Nodes, 2)
	assert.Len(t, view.Edges, 1)
}

type countingAgent struct {
	cycles atomic.Int32
}

func (c *countingAgent) Name() string            { return "counter" }
func (c *countingAgent) Interval() time.Duration { return time.Millisecond }

func (c *countingAgent) Process(ctx context.Context, deps agents.Deps) error {
	c.cycles.Add(1)
	return nil
}

func TestBrain_StartStop(t *testing.T) {
	a := &countingAgent{}
	b, err := New(Config{Agents: []agents.Agent{a}})
	require.NoError(t, err)

	b.Start(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for a.cycles.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	b.Stop()

	assert.Greater(t, a.cycles.Load(), int32(0))
}

func TestBrain_ExtractWithoutLLM(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)

	_, err = b.Extract(context.Background(), "some text")
	assert.Error(t, err)
}

func TestIngestReminderThroughFacade(t *testing.T) {
	b, err := New(Config{})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.IngestReminder(ctx, &ingest.ReminderRecord{
		ID:     "r1",
		Title:  "follow up",
		Status: "pending",
	}))

	n, ok := b.Graph().GetNode("reminder:r1")
	require.True(t, ok)
	assert.Equal(t, "pending", n.Properties["status"])
}
