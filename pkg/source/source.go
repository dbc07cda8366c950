// Package source abstracts where domain records live. The graph core never
// owns notes, contacts, meetings or reminders; it reads point-in-time
// snapshots of them from a Source and feeds them through the ingestion
// pipeline. Implementations range from an in-memory map for tests to a
// SQLite database.
package source

import (
	"context"
	"errors"

	"github.com/rumeelabs/braingraph/pkg/ingest"
)

// ErrNotFound is returned when a record id does not exist in the source.
var ErrNotFound = errors.New("source: record not found")

// Snapshot is a point-in-time copy of every domain record. Slices are owned
// by the caller; sources never retain or mutate a returned snapshot.
type Snapshot struct {
	Notes     []*ingest.NoteRecord
	People    []*ingest.PersonRecord
	Meetings  []*ingest.MeetingRecord
	Reminders []*ingest.ReminderRecord
}

// Source provides domain records to the background agents.
type Source interface {
	// Snapshot returns a consistent copy of all records, notes sorted by
	// CreatedAt ascending.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// MarkNoteProcessed records that the signal sorter classified a note,
	// persisting the classification alongside it. Returns ErrNotFound when
	// the note does not exist.
	MarkNoteProcessed(ctx context.Context, noteID string, classification map[string]any) error
}

// Writer is the write side of a record store. Both bundled sources
// implement it; callers that manage records elsewhere only need Source.
type Writer interface {
	PutNote(ctx context.Context, rec *ingest.NoteRecord) error
	PutPerson(ctx context.Context, rec *ingest.PersonRecord) error
	PutMeeting(ctx context.Context, rec *ingest.MeetingRecord) error
	PutReminder(ctx context.Context, rec *ingest.ReminderRecord) error
}
