package agents

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/shared"
)

const (
	contextWindow    = 5
	contextListLimit = 5
)

// ContextBuilder recomputes the user-context slot from the entities of the
// most recent notes.
type ContextBuilder struct {
	interval time.Duration
	now      func() time.Time
}

func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{
		interval: 20 * time.Second,
		now:      time.Now,
	}
}

func (a *ContextBuilder) Name() string            { return "context-builder" }
func (a *ContextBuilder) Interval() time.Duration { return a.interval }

func (a *ContextBuilder) Process(ctx context.Context, deps Deps) error {
	snap, err := deps.Source.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snap.Notes) == 0 {
		return nil
	}

	recent := snap.Notes
	if len(recent) > contextWindow {
		recent = recent[len(recent)-contextWindow:]
	}

	focus := make(map[string]int)
	people := make(map[string]int)
	for _, note := range recent {
		if note.Entities.IsEmpty() {
			continue
		}
		for _, topic := range note.Entities.Topics {
			focus[topic]++
		}
		for _, person := range note.Entities.People {
			people[person]++
		}
	}

	topTopics := rankedKeys(focus, contextListLimit)
	userCtx := shared.UserContext{
		ActiveTopics:   topTopics,
		ActivePeople:   rankedKeys(people, contextListLimit),
		RecentActivity: len(recent),
		UpdatedAt:      a.now(),
	}
	if len(topTopics) > 0 {
		userCtx.PrimaryFocus = topTopics[0]
	}
	deps.Memory.SetUserContext(userCtx)

	deps.Log.Named(a.Name()).Debug("context rebuilt",
		zap.String("primary_focus", userCtx.PrimaryFocus),
		zap.Int("notes", len(recent)))
	return nil
}

// rankedKeys returns up to limit keys sorted by count descending, name
// ascending on ties.
func rankedKeys(counts map[string]int, limit int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
