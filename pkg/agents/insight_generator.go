package agents

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/shared"
	"github.com/rumeelabs/braingraph/pkg/source"
)

const (
	staleReminderAge    = 3 * 24 * time.Hour
	neglectedPersonAge  = 14 * 24 * time.Hour
	convergenceMinNotes = 3
)

// InsightGenerator synthesizes proactive suggestions from the other agents'
// slots and the raw records: stale pending reminders, people who have not
// come up in a while, and converging cross-referenced notes.
type InsightGenerator struct {
	interval time.Duration
	now      func() time.Time
}

func NewInsightGenerator() *InsightGenerator {
	return &InsightGenerator{
		interval: 45 * time.Second,
		now:      time.Now,
	}
}

func (a *InsightGenerator) Name() string            { return "insight-generator" }
func (a *InsightGenerator) Interval() time.Duration { return a.interval }

func (a *InsightGenerator) Process(ctx context.Context, deps Deps) error {
	// No context yet means the context builder has not run; nothing to
	// reason about.
	if _, ok := deps.Memory.UserContext(); !ok {
		return nil
	}

	snap, err := deps.Source.Snapshot(ctx)
	if err != nil {
		return err
	}

	now := a.now()
	var insights []shared.Insight

	if count := staleReminders(snap, now); count > 0 {
		insights = append(insights, shared.Insight{
			Type:        "unfinished_business",
			Title:       "Unfinished Items Need Attention",
			Description: fmt.Sprintf("%d tasks pending for over 3 days", count),
			Priority:    "high",
		})
	}

	if neglected := neglectedPeople(snap, now); len(neglected) > 0 {
		insights = append(insights, shared.Insight{
			Type:        "neglected_contacts",
			Title:       "People You Haven't Connected With",
			Description: fmt.Sprintf("You haven't mentioned %s in a while. Consider reaching out.", neglected[0]),
			Priority:    "medium",
		})
	}

	if notes, total := deps.Memory.CrossReferenceStats(); notes > convergenceMinNotes {
		insights = append(insights, shared.Insight{
			Type:        "topic_convergence",
			Title:       "Your Ideas Are Connecting",
			Description: fmt.Sprintf("I found %d connections between your notes. Your thinking is converging around key themes.", total),
			Priority:    "low",
		})
	}

	for _, in := range insights {
		in.GeneratedAt = now
		deps.Memory.AddInsight(in)
	}
	if len(insights) > 0 {
		deps.Log.Named(a.Name()).Info("generated insights", zap.Int("count", len(insights)))
	}
	return nil
}

// staleReminders counts pending reminders older than three days.
func staleReminders(snap *source.Snapshot, now time.Time) int {
	count := 0
	for _, r := range snap.Reminders {
		if r.Status != "pending" || r.CreatedAt.IsZero() {
			continue
		}
		if now.Sub(r.CreatedAt) > staleReminderAge {
			count++
		}
	}
	return count
}

// neglectedPeople returns people whose most recent note mention is older
// than two weeks, ordered by how long ago that was (longest first).
func neglectedPeople(snap *source.Snapshot, now time.Time) []string {
	lastSeen := make(map[string]time.Time)
	for _, n := range snap.Notes {
		if n.CreatedAt.IsZero() || n.Entities.IsEmpty() {
			continue
		}
		for _, person := range n.Entities.People {
			if n.CreatedAt.After(lastSeen[person]) {
				lastSeen[person] = n.CreatedAt
			}
		}
	}

	var neglected []string
	for person, seen := range lastSeen {
		if now.Sub(seen) > neglectedPersonAge {
			neglected = append(neglected, person)
		}
	}
	// Deterministic order: longest-unseen first, then name.
	sort.Slice(neglected, func(i, j int) bool {
		a, b := neglected[i], neglected[j]
		if !lastSeen[a].Equal(lastSeen[b]) {
			return lastSeen[a].Before(lastSeen[b])
		}
		return a < b
	})
	return neglected
}
