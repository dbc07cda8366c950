package source

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rumeelabs/braingraph/pkg/ingest"
)

// MemorySource keeps all records in process memory. It is the default
// source for tests and for embedding the graph into an application that
// manages its own persistence.
type MemorySource struct {
	mu        sync.RWMutex
	notes     map[string]*ingest.NoteRecord
	people    map[string]*ingest.PersonRecord
	meetings  map[string]*ingest.MeetingRecord
	reminders map[string]*ingest.ReminderRecord
}

var (
	_ Source = (*MemorySource)(nil)
	_ Writer = (*MemorySource)(nil)
)

func NewMemorySource() *MemorySource {
	return &MemorySource{
		notes:     make(map[string]*ingest.NoteRecord),
		people:    make(map[string]*ingest.PersonRecord),
		meetings:  make(map[string]*ingest.MeetingRecord),
		reminders: make(map[string]*ingest.ReminderRecord),
	}
}

// PutNote adds or replaces a note.
func (s *MemorySource) PutNote(ctx context.Context, rec *ingest.NoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.notes[rec.ID] = &cp
	return nil
}

// PutPerson adds or replaces a contact.
func (s *MemorySource) PutPerson(ctx context.Context, rec *ingest.PersonRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.people[rec.ID] = &cp
	return nil
}

// PutMeeting adds or replaces a meeting.
func (s *MemorySource) PutMeeting(ctx context.Context, rec *ingest.MeetingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.meetings[rec.ID] = &cp
	return nil
}

// PutReminder adds or replaces a reminder.
func (s *MemorySource) PutReminder(ctx context.Context, rec *ingest.ReminderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.reminders[rec.ID] = &cp
	return nil
}

// Snapshot implements Source.
func (s *MemorySource) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Notes:     make([]*ingest.NoteRecord, 0, len(s.notes)),
		People:    make([]*ingest.PersonRecord, 0, len(s.people)),
		Meetings:  make([]*ingest.MeetingRecord, 0, len(s.meetings)),
		Reminders: make([]*ingest.ReminderRecord, 0, len(s.reminders)),
	}
	for _, n := range s.notes {
		cp := *n
		snap.Notes = append(snap.Notes, &cp)
	}
	for _, p := range s.people {
		cp := *p
		snap.People = append(snap.People, &cp)
	}
	for _, m := range s.meetings {
		cp := *m
		snap.Meetings = append(snap.Meetings, &cp)
	}
	for _, r := range s.reminders {
		cp := *r
		snap.Reminders = append(snap.Reminders, &cp)
	}

	sort.Slice(snap.Notes, func(i, j int) bool {
		if !snap.Notes[i].CreatedAt.Equal(snap.Notes[j].CreatedAt) {
			return snap.Notes[i].CreatedAt.Before(snap.Notes[j].CreatedAt)
		}
		return snap.Notes[i].ID < snap.Notes[j].ID
	})
	return snap, nil
}

// MarkNoteProcessed implements Source.
func (s *MemorySource) MarkNoteProcessed(ctx context.Context, noteID string, classification map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[noteID]
	if !ok {
		return fmt.Errorf("mark note %q processed: %w", noteID, ErrNotFound)
	}
	note.Processed = true
	if classification != nil {
		note.Classification = classification
	}
	return nil
}
