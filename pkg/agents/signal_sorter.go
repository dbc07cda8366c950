package agents

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/shared"
)

// signalSorterBatch caps how many unprocessed notes one cycle classifies.
const signalSorterBatch = 5

// SignalSorter classifies unprocessed notes and feeds their topics into the
// shared active-topics slot.
type SignalSorter struct {
	interval time.Duration
	now      func() time.Time
}

func NewSignalSorter() *SignalSorter {
	return &SignalSorter{
		interval: 10 * time.Second,
		now:      time.Now,
	}
}

func (a *SignalSorter) Name() string            { return "signal-sorter" }
func (a *SignalSorter) Interval() time.Duration { return a.interval }

func (a *SignalSorter) Process(ctx context.Context, deps Deps) error {
	if deps.Classifier == nil {
		return nil
	}

	snap, err := deps.Source.Snapshot(ctx)
	if err != nil {
		return err
	}

	var pending []*ingest.NoteRecord
	for _, n := range snap.Notes {
		if !n.Processed {
			pending = append(pending, n)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	if len(pending) > signalSorterBatch {
		pending = pending[:signalSorterBatch]
	}

	log := deps.Log.Named(a.Name())
	for _, note := range pending {
		cls, err := deps.Classifier.Classify(ctx, noteContent(note))
		if err != nil {
			// External call failed; skip this note this cycle.
			log.Debug("classification failed", zap.String("note", note.ID), zap.Error(err))
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := deps.Source.MarkNoteProcessed(ctx, note.ID, cls.Map()); err != nil {
			log.Warn("mark processed failed", zap.String("note", note.ID), zap.Error(err))
			continue
		}

		observed := a.now()
		for _, topic := range cls.Topics {
			deps.Memory.AddActiveTopics(shared.ActiveTopic{
				Topic:      topic,
				NoteID:     note.ID,
				ObservedAt: observed,
			})
		}
		log.Debug("classified note",
			zap.String("note", note.ID),
			zap.String("content_type", cls.ContentType),
			zap.Int("topics", len(cls.Topics)))
	}
	return nil
}
