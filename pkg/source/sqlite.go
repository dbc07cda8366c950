package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rumeelabs/braingraph/pkg/ingest"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteSource persists domain records in a SQLite database. Structured
// fields (tags, entities, attendees, AI metadata) are stored as JSON text
// columns; the graph itself stays in memory and is rebuilt by re-ingesting
// the records on startup.
type SQLiteSource struct {
	db *sql.DB
}

var (
	_ Source = (*SQLiteSource)(nil)
	_ Writer = (*SQLiteSource)(nil)
)

// NewSQLiteSource opens (or creates) the database at dbPath. ":memory:"
// gives a throwaway in-memory database.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteSource{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT,
		tags TEXT,
		entities TEXT,
		sentiment TEXT,
		priority TEXT,
		classification TEXT,
		processed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at);

	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		company TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meetings (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		scheduled_at DATETIME,
		location TEXT,
		attendees TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		due_date DATETIME,
		priority TEXT,
		status TEXT,
		created_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// PutNote inserts or replaces a note.
func (s *SQLiteSource) PutNote(ctx context.Context, rec *ingest.NoteRecord) error {
	tags, err := marshalJSON(rec.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	entities, err := marshalJSON(rec.Entities)
	if err != nil {
		return fmt.Errorf("marshal entities: %w", err)
	}
	sentiment, err := marshalJSON(rec.Sentiment)
	if err != nil {
		return fmt.Errorf("marshal sentiment: %w", err)
	}
	priority, err := marshalJSON(rec.Priority)
	if err != nil {
		return fmt.Errorf("marshal priority: %w", err)
	}
	classification, err := marshalJSON(rec.Classification)
	if err != nil {
		return fmt.Errorf("marshal classification: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO notes
			(id, title, content, tags, entities, sentiment, priority, classification, processed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Content, tags, entities, sentiment, priority, classification,
		boolToInt(rec.Processed), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("put note: %w", err)
	}
	return nil
}

// PutPerson inserts or replaces a contact.
func (s *SQLiteSource) PutPerson(ctx context.Context, rec *ingest.PersonRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO people (id, name, email, phone, company, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Email, rec.Phone, rec.Company, rec.Notes, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("put person: %w", err)
	}
	return nil
}

// PutMeeting inserts or replaces a meeting.
func (s *SQLiteSource) PutMeeting(ctx context.Context, rec *ingest.MeetingRecord) error {
	attendees, err := marshalJSON(rec.Attendees)
	if err != nil {
		return fmt.Errorf("marshal attendees: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO meetings (id, title, description, scheduled_at, location, attendees, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Description, rec.ScheduledAt, rec.Location, attendees, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("put meeting: %w", err)
	}
	return nil
}

// PutReminder inserts or replaces a reminder.
func (s *SQLiteSource) PutReminder(ctx context.Context, rec *ingest.ReminderRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reminders (id, title, description, due_date, priority, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Description, rec.DueDate, rec.Priority, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("put reminder: %w", err)
	}
	return nil
}

// Snapshot implements Source.
func (s *SQLiteSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := s.loadNotes(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadPeople(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadMeetings(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadReminders(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SQLiteSource) loadNotes(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, tags, entities, sentiment, priority, classification, processed, created_at
		FROM notes ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec ingest.NoteRecord
		var tags, entities, sentiment, priority, classification sql.NullString
		var processed int

		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Content, &tags, &entities,
			&sentiment, &priority, &classification, &processed, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scan note: %w", err)
		}
		rec.Processed = processed != 0

		if err := unmarshalJSON(tags, &rec.Tags); err != nil {
			return fmt.Errorf("unmarshal note tags: %w", err)
		}
		if err := unmarshalJSON(entities, &rec.Entities); err != nil {
			return fmt.Errorf("unmarshal note entities: %w", err)
		}
		if err := unmarshalJSON(sentiment, &rec.Sentiment); err != nil {
			return fmt.Errorf("unmarshal note sentiment: %w", err)
		}
		if err := unmarshalJSON(priority, &rec.Priority); err != nil {
			return fmt.Errorf("unmarshal note priority: %w", err)
		}
		if err := unmarshalJSON(classification, &rec.Classification); err != nil {
			return fmt.Errorf("unmarshal note classification: %w", err)
		}
		snap.Notes = append(snap.Notes, &rec)
	}
	return rows.Err()
}

func (s *SQLiteSource) loadPeople(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, company, notes, created_at
		FROM people ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec ingest.PersonRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Phone,
			&rec.Company, &rec.Notes, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scan person: %w", err)
		}
		snap.People = append(snap.People, &rec)
	}
	return rows.Err()
}

func (s *SQLiteSource) loadMeetings(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, scheduled_at, location, attendees, created_at
		FROM meetings ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec ingest.MeetingRecord
		var attendees sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.ScheduledAt,
			&rec.Location, &attendees, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scan meeting: %w", err)
		}
		if err := unmarshalJSON(attendees, &rec.Attendees); err != nil {
			return fmt.Errorf("unmarshal meeting attendees: %w", err)
		}
		snap.Meetings = append(snap.Meetings, &rec)
	}
	return rows.Err()
}

func (s *SQLiteSource) loadReminders(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, due_date, priority, status, created_at
		FROM reminders ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec ingest.ReminderRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.DueDate,
			&rec.Priority, &rec.Status, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scan reminder: %w", err)
		}
		snap.Reminders = append(snap.Reminders, &rec)
	}
	return rows.Err()
}

// MarkNoteProcessed implements Source.
func (s *SQLiteSource) MarkNoteProcessed(ctx context.Context, noteID string, classification map[string]any) error {
	cls, err := marshalJSON(classification)
	if err != nil {
		return fmt.Errorf("marshal classification: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET processed = 1, classification = COALESCE(?, classification) WHERE id = ?`,
		cls, noteID,
	)
	if err != nil {
		return fmt.Errorf("mark note processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark note processed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark note %q processed: %w", noteID, ErrNotFound)
	}
	return nil
}

// marshalJSON returns nil for nil-ish values so empty fields stay NULL in
// the database instead of becoming "null" text.
func marshalJSON(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []string:
		if val == nil {
			return nil, nil
		}
	case map[string]any:
		if val == nil {
			return nil, nil
		}
	case *ingest.EntityPayload:
		if val == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func unmarshalJSON(col sql.NullString, dst any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
