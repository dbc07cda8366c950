package agents

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/shared"
)

const (
	mindWeaverRecent = 10
	mindWeaverOlder  = 20

	// Connections below this strength are not committed.
	minConnectionStrength = 0.6
)

// MindWeaver compares recent notes against older ones that share entities,
// scores candidate pairs with the external relationship scorer and commits
// qualifying connections both to the graph and to the cross-reference slot.
type MindWeaver struct {
	interval time.Duration
	now      func() time.Time
}

func NewMindWeaver() *MindWeaver {
	return &MindWeaver{
		interval: 30 * time.Second,
		now:      time.Now,
	}
}

func (a *MindWeaver) Name() string            { return "mind-weaver" }
func (a *MindWeaver) Interval() time.Duration { return a.interval }

func (a *MindWeaver) Process(ctx context.Context, deps Deps) error {
	if deps.Scorer == nil {
		return nil
	}

	snap, err := deps.Source.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snap.Notes) < 2 {
		return nil
	}

	// Notes arrive oldest first; the recent window is the tail, reversed
	// so the newest note is compared first.
	notes := snap.Notes
	split := len(notes) - mindWeaverRecent
	if split < 0 {
		split = 0
	}
	recent := make([]*ingest.NoteRecord, 0, len(notes)-split)
	for i := len(notes) - 1; i >= split; i-- {
		recent = append(recent, notes[i])
	}
	older := notes[:split]
	if len(older) > mindWeaverOlder {
		older = older[len(older)-mindWeaverOlder:]
	}

	log := deps.Log.Named(a.Name())
	committed := 0
	for _, recentNote := range recent {
		for _, oldNote := range older {
			if !sharesEntities(recentNote, oldNote) {
				continue
			}
			if alreadyLinked(deps.Memory, recentNote.ID, oldNote.ID) {
				continue
			}

			// The scorer call is long-latency; no graph lock is held
			// here, stores lock internally per upsert.
			conn, err := deps.Scorer.Score(ctx, noteContent(recentNote), noteContent(oldNote))
			if err != nil {
				log.Debug("scoring failed",
					zap.String("recent", recentNote.ID),
					zap.String("old", oldNote.ID),
					zap.Error(err))
				continue
			}
			if !conn.Connected || conn.Strength <= minConnectionStrength {
				continue
			}
			// Discard results that arrive after a stop request.
			if ctx.Err() != nil {
				return ctx.Err()
			}

			deps.Memory.AddCrossReference(recentNote.ID, shared.CrossReference{
				TargetNoteID: oldNote.ID,
				Type:         conn.Type,
				Strength:     conn.Strength,
				Reason:       conn.Reason,
				DiscoveredAt: a.now(),
			})
			deps.Pipeline.LinkNotes(recentNote.ID, oldNote.ID, conn.Type, conn.Strength, conn.Reason)
			committed++
		}
	}

	if committed > 0 {
		log.Info("committed connections", zap.Int("count", committed))
	}
	return nil
}

// sharesEntities reports whether two notes mention a common person or topic.
func sharesEntities(a, b *ingest.NoteRecord) bool {
	if a.Entities.IsEmpty() || b.Entities.IsEmpty() {
		return false
	}
	return overlaps(a.Entities.People, b.Entities.People) ||
		overlaps(a.Entities.Topics, b.Entities.Topics)
}

func overlaps(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

// alreadyLinked skips pairs whose connection was discovered in an earlier
// cycle, saving repeat scorer calls.
func alreadyLinked(mem *shared.Memory, sourceID, targetID string) bool {
	for _, ref := range mem.CrossReferences(sourceID) {
		if ref.TargetNoteID == targetID {
			return true
		}
	}
	return false
}
