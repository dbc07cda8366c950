// Package ingest maps domain records and externally extracted entities into
// graph mutations. Every ingestion call is a deterministic, idempotent
// translation to UpsertNode/UpsertEdge sequences; the package never calls the
// extraction function itself, it only consumes its output.
package ingest

import "time"

// NoteRecord is a free-form note plus whatever the external extraction
// function found in it. AI-derived fields may be absent.
type NoteRecord struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Tags      []string       `json:"tags,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Entities  *EntityPayload `json:"entities,omitempty"`

	// Sentiment, Priority and Classification carry upstream AI metadata
	// verbatim; the pipeline stores them as note properties without
	// interpreting them.
	Sentiment      map[string]any `json:"sentiment,omitempty"`
	Priority       map[string]any `json:"priority,omitempty"`
	Classification map[string]any `json:"classification,omitempty"`

	// Processed marks that the signal-sorter has classified this note.
	Processed bool `json:"processed,omitempty"`
}

// PersonRecord is a contact.
type PersonRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MeetingRecord is a scheduled meeting with attendee names.
type MeetingRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReminderRecord is a task or reminder.
type ReminderRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"due_date"`
	Priority    string    `json:"priority,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
