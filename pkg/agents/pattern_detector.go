package agents

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/shared"
)

const (
	patternMinNotes      = 5
	patternTopBuckets    = 3
	patternWeeks         = 4
	patternCollaborators = 10
)

// PatternDetector derives temporal and collaboration patterns from the note
// history and appends a snapshot to the shared pattern slot.
type PatternDetector struct {
	interval time.Duration
	now      func() time.Time
}

func NewPatternDetector() *PatternDetector {
	return &PatternDetector{
		interval: 60 * time.Second,
		now:      time.Now,
	}
}

func (a *PatternDetector) Name() string            { return "pattern-detector" }
func (a *PatternDetector) Interval() time.Duration { return a.interval }

func (a *PatternDetector) Process(ctx context.Context, deps Deps) error {
	snap, err := deps.Source.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snap.Notes) < patternMinNotes {
		return nil
	}

	now := a.now()
	pattern := shared.PatternSnapshot{
		PeakHours:     peakHours(snap.Notes),
		ActiveDays:    activeDays(snap.Notes),
		TopicsByWeek:  topicsByWeek(snap.Notes, now),
		Collaborators: collaborators(snap.Notes),
		DetectedAt:    now,
	}
	deps.Memory.AddPattern(pattern)

	deps.Log.Named(a.Name()).Debug("pattern recorded",
		zap.Int("peak_hours", len(pattern.PeakHours)),
		zap.Int("collaborators", len(pattern.Collaborators)))
	return nil
}

func peakHours(notes []*ingest.NoteRecord) []shared.HourCount {
	counts := make(map[int]int)
	for _, n := range notes {
		if !n.CreatedAt.IsZero() {
			counts[n.CreatedAt.Hour()]++
		}
	}

	out := make([]shared.HourCount, 0, len(counts))
	for hour, c := range counts {
		out = append(out, shared.HourCount{Hour: hour, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Hour < out[j].Hour
	})
	if len(out) > patternTopBuckets {
		out = out[:patternTopBuckets]
	}
	return out
}

func activeDays(notes []*ingest.NoteRecord) []shared.DayCount {
	counts := make(map[string]int)
	for _, n := range notes {
		if !n.CreatedAt.IsZero() {
			counts[n.CreatedAt.Weekday().String()]++
		}
	}

	out := make([]shared.DayCount, 0, len(counts))
	for day, c := range counts {
		out = append(out, shared.DayCount{Day: day, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Day < out[j].Day
	})
	if len(out) > patternTopBuckets {
		out = out[:patternTopBuckets]
	}
	return out
}

// topicsByWeek counts topic mentions per whole week back from now, covering
// the last four weeks.
func topicsByWeek(notes []*ingest.NoteRecord, now time.Time) map[int]map[string]int {
	weeks := make(map[int]map[string]int)
	for _, n := range notes {
		if n.CreatedAt.IsZero() || n.Entities.IsEmpty() {
			continue
		}
		weeksAgo := int(now.Sub(n.CreatedAt).Hours() / 24 / 7)
		if weeksAgo < 0 || weeksAgo > patternWeeks {
			continue
		}
		for _, topic := range n.Entities.Topics {
			if weeks[weeksAgo] == nil {
				weeks[weeksAgo] = make(map[string]int)
			}
			weeks[weeksAgo][topic]++
		}
	}
	return weeks
}

func collaborators(notes []*ingest.NoteRecord) []shared.PersonCount {
	counts := make(map[string]int)
	for _, n := range notes {
		if n.Entities.IsEmpty() {
			continue
		}
		for _, person := range n.Entities.People {
			counts[person]++
		}
	}

	out := make([]shared.PersonCount, 0, len(counts))
	for person, c := range counts {
		out = append(out, shared.PersonCount{Person: person, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Person < out[j].Person
	})
	if len(out) > patternCollaborators {
		out = out[:patternCollaborators]
	}
	return out
}
