package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rumeelabs/braingraph/pkg/ingest"
)

func setupTestSource(t *testing.T) *SQLiteSource {
	t.Helper()
	s, err := NewSQLiteSource(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteSource failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSource_NoteRoundTrip(t *testing.T) {
	s := setupTestSource(t)
	ctx := context.Background()

	note := &ingest.NoteRecord{
		ID:        "n1",
		Title:     "Standup",
		Content:   "talked with Sarah about roadmap",
		Tags:      []string{"work", "planning"},
		CreatedAt: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		Entities: &ingest.EntityPayload{
			People: []string{"Sarah"},
			Topics: []string{"roadmap"},
		},
		Sentiment: map[string]any{"label": "neutral"},
	}
	if err := s.PutNote(ctx, note); err != nil {
		t.Fatalf("PutNote failed: %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(snap.Notes))
	}

	got := snap.Notes[0]
	if got.Title != "Standup" {
		t.Errorf("Title mismatch: got %q", got.Title)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" {
		t.Errorf("Tags mismatch: got %v", got.Tags)
	}
	if got.Entities == nil || len(got.Entities.People) != 1 || got.Entities.People[0] != "Sarah" {
		t.Errorf("Entities mismatch: got %+v", got.Entities)
	}
	if got.Processed {
		t.Error("note should not start processed")
	}
	if got.Sentiment["label"] != "neutral" {
		t.Errorf("Sentiment mismatch: got %v", got.Sentiment)
	}
}

func TestSQLiteSource_NotesSortedByCreatedAt(t *testing.T) {
	s := setupTestSource(t)
	ctx := context.Background()

	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"late", "early", "middle"} {
		offsets := map[string]time.Duration{"late": 2 * time.Hour, "early": 0, "middle": time.Hour}
		if err := s.PutNote(ctx, &ingest.NoteRecord{
			ID: id, Title: id, CreatedAt: base.Add(offsets[id]),
		}); err != nil {
			t.Fatalf("PutNote %d failed: %v", i, err)
		}
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	want := []string{"early", "middle", "late"}
	for i, w := range want {
		if snap.Notes[i].ID != w {
			t.Errorf("position %d: got %q, want %q", i, snap.Notes[i].ID, w)
		}
	}
}

func TestSQLiteSource_MarkNoteProcessed(t *testing.T) {
	s := setupTestSource(t)
	ctx := context.Background()

	if err := s.PutNote(ctx, &ingest.NoteRecord{ID: "n1", Title: "x", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("PutNote failed: %v", err)
	}

	cls := map[string]any{"content_type": "idea", "actionable": true}
	if err := s.MarkNoteProcessed(ctx, "n1", cls); err != nil {
		t.Fatalf("MarkNoteProcessed failed: %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if !snap.Notes[0].Processed {
		t.Error("note should be processed")
	}
	if snap.Notes[0].Classification["content_type"] != "idea" {
		t.Errorf("Classification mismatch: got %v", snap.Notes[0].Classification)
	}

	err = s.MarkNoteProcessed(ctx, "ghost", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteSource_OtherRecordKinds(t *testing.T) {
	s := setupTestSource(t)
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	if err := s.PutPerson(ctx, &ingest.PersonRecord{
		ID: "p1", Name: "Sarah", Email: "sarah@example.com", CreatedAt: now,
	}); err != nil {
		t.Fatalf("PutPerson failed: %v", err)
	}
	if err := s.PutMeeting(ctx, &ingest.MeetingRecord{
		ID: "m1", Title: "Planning", ScheduledAt: now, Attendees: []string{"Sarah", "Bob"}, CreatedAt: now,
	}); err != nil {
		t.Fatalf("PutMeeting failed: %v", err)
	}
	if err := s.PutReminder(ctx, &ingest.ReminderRecord{
		ID: "r1", Title: "Pay invoice", DueDate: now.Add(48 * time.Hour), Priority: "high", Status: "pending", CreatedAt: now,
	}); err != nil {
		t.Fatalf("PutReminder failed: %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.People) != 1 || snap.People[0].Email != "sarah@example.com" {
		t.Errorf("People mismatch: %+v", snap.People)
	}
	if len(snap.Meetings) != 1 || len(snap.Meetings[0].Attendees) != 2 {
		t.Errorf("Meetings mismatch: %+v", snap.Meetings)
	}
	if len(snap.Reminders) != 1 || snap.Reminders[0].Status != "pending" {
		t.Errorf("Reminders mismatch: %+v", snap.Reminders)
	}
}

func TestMemorySource_SnapshotIsolation(t *testing.T) {
	s := NewMemorySource()
	ctx := context.Background()

	if err := s.PutNote(ctx, &ingest.NoteRecord{ID: "n1", Title: "original", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("PutNote failed: %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	snap.Notes[0].Title = "mutated"

	again, _ := s.Snapshot(ctx)
	if again.Notes[0].Title != "original" {
		t.Errorf("snapshot mutation leaked into source: %q", again.Notes[0].Title)
	}
}

func TestMemorySource_MarkNoteProcessed(t *testing.T) {
	s := NewMemorySource()
	ctx := context.Background()

	if err := s.PutNote(ctx, &ingest.NoteRecord{ID: "n1", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("PutNote failed: %v", err)
	}

	if err := s.MarkNoteProcessed(ctx, "n1", map[string]any{"content_type": "task"}); err != nil {
		t.Fatalf("MarkNoteProcessed failed: %v", err)
	}
	snap, _ := s.Snapshot(ctx)
	if !snap.Notes[0].Processed {
		t.Error("note should be processed")
	}

	if err := s.MarkNoteProcessed(ctx, "ghost", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
