package ingest

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/graph"
)

// Node id prefixes. Graph ids take the form "type:name_or_external_id".
const (
	TypeNote         = "note"
	TypePerson       = "person"
	TypeTopic        = "topic"
	TypeOrganization = "organization"
	TypeLocation     = "location"
	TypeTask         = "task"
	TypeMeeting      = "meeting"
	TypeReminder     = "reminder"
)

// Fixed semantic edge types emitted by ingestion.
const (
	EdgeMentions     = "MENTIONS"
	EdgeDiscusses    = "DISCUSSES"
	EdgeReferences   = "REFERENCES"
	EdgeAtLocation   = "AT_LOCATION"
	EdgeContainsTask = "CONTAINS_TASK"
	EdgeAttends      = "ATTENDS"
)

// Pipeline turns domain records into graph mutations. Re-ingesting the same
// record id merges into the existing nodes and edges; nothing is duplicated.
type Pipeline struct {
	store *graph.Store
	log   *zap.Logger
}

// NewPipeline creates an ingestion pipeline writing into store.
func NewPipeline(store *graph.Store, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{store: store, log: log}
}

// NodeID builds the graph id for a typed entity, e.g. NodeID("person",
// "Sarah") -> "person:Sarah".
func NodeID(nodeType, key string) string {
	return nodeType + ":" + key
}

// IngestNote upserts the note node and one typed node plus edge per extracted
// entity: MENTIONS for people, DISCUSSES for topics, REFERENCES for
// organizations, AT_LOCATION for locations, CONTAINS_TASK for tasks.
// A nil or empty entity payload ingests just the note.
func (p *Pipeline) IngestNote(rec *NoteRecord) {
	noteID := NodeID(TypeNote, rec.ID)

	props := map[string]any{
		"title":      rec.Title,
		"content":    rec.Content,
		"tags":       rec.Tags,
		"created_at": rec.CreatedAt,
	}
	if rec.Sentiment != nil {
		props["sentiment"] = rec.Sentiment
	}
	if rec.Priority != nil {
		props["priority"] = rec.Priority
	}
	if rec.Classification != nil {
		props["classification"] = rec.Classification
	}
	p.store.UpsertNode(noteID, TypeNote, props)

	if rec.Entities.IsEmpty() {
		p.log.Debug("note ingested without entities", zap.String("note_id", rec.ID))
		return
	}

	for _, person := range rec.Entities.People {
		p.linkEntity(noteID, TypePerson, person, EdgeMentions)
	}
	for _, topic := range rec.Entities.Topics {
		p.linkEntity(noteID, TypeTopic, topic, EdgeDiscusses)
	}
	for _, org := range rec.Entities.Organizations {
		p.linkEntity(noteID, TypeOrganization, org, EdgeReferences)
	}
	for _, loc := range rec.Entities.Locations {
		p.linkEntity(noteID, TypeLocation, loc, EdgeAtLocation)
	}
	for _, task := range rec.Entities.Tasks {
		taskID := NodeID(TypeTask, task.Title)
		taskProps := map[string]any{"title": task.Title}
		for k, v := range task.Props {
			taskProps[k] = v
		}
		p.store.UpsertNode(taskID, TypeTask, taskProps)
		p.store.UpsertEdge(noteID, taskID, EdgeContainsTask, nil)
	}
}

func (p *Pipeline) linkEntity(noteID, entityType, name, edgeType string) {
	entityID := NodeID(entityType, name)
	p.store.UpsertNode(entityID, entityType, map[string]any{"name": name})
	p.store.UpsertEdge(noteID, entityID, edgeType, nil)
}

// IngestPerson upserts a person node from a contact record.
func (p *Pipeline) IngestPerson(rec *PersonRecord) {
	p.store.UpsertNode(NodeID(TypePerson, rec.ID), TypePerson, map[string]any{
		"name":       rec.Name,
		"email":      rec.Email,
		"phone":      rec.Phone,
		"company":    rec.Company,
		"notes":      rec.Notes,
		"created_at": rec.CreatedAt,
	})
}

// IngestMeeting upserts the meeting node and links each attendee to it via
// ATTENDS. Attendees named only in the meeting are created as person nodes
// first, so the edge guard never fires for them.
func (p *Pipeline) IngestMeeting(rec *MeetingRecord) {
	meetingID := NodeID(TypeMeeting, rec.ID)
	p.store.UpsertNode(meetingID, TypeMeeting, map[string]any{
		"title":        rec.Title,
		"description":  rec.Description,
		"scheduled_at": rec.ScheduledAt,
		"location":     rec.Location,
		"created_at":   rec.CreatedAt,
	})

	for _, attendee := range rec.Attendees {
		personID := NodeID(TypePerson, attendee)
		if _, ok := p.store.GetNode(personID); !ok {
			p.store.UpsertNode(personID, TypePerson, map[string]any{"name": attendee})
		}
		p.store.UpsertEdge(personID, meetingID, EdgeAttends, nil)
	}
}

// IngestReminder upserts a reminder node.
func (p *Pipeline) IngestReminder(rec *ReminderRecord) {
	p.store.UpsertNode(NodeID(TypeReminder, rec.ID), TypeReminder, map[string]any{
		"title":       rec.Title,
		"description": rec.Description,
		"due_date":    rec.DueDate,
		"priority":    rec.Priority,
		"status":      rec.Status,
		"created_at":  rec.CreatedAt,
	})
}

// LinkNotes records an AI-discovered relationship between two existing notes.
// The connection type is normalized to upper case and strength doubles as the
// edge weight. The upsert is rejected (and logged by the store) when either
// note has not been ingested yet.
func (p *Pipeline) LinkNotes(sourceNoteID, targetNoteID, connectionType string, strength float64, reason string) bool {
	_, ok := p.store.UpsertEdge(
		NodeID(TypeNote, sourceNoteID),
		NodeID(TypeNote, targetNoteID),
		strings.ToUpper(connectionType),
		map[string]any{
			"strength":      strength,
			"weight":        strength,
			"reason":        reason,
			"discovered_at": time.Now(),
		},
	)
	return ok
}
