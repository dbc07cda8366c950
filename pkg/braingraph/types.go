package braingraph

import (
	"github.com/rumeelabs/braingraph/pkg/graph"
	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/shared"
)

// Type re-exports for caller convenience

// Node is re-exported from graph package
type Node = graph.Node

// Edge is re-exported from graph package
type Edge = graph.Edge

// Stats is re-exported from graph package
type Stats = graph.Stats

// NoteRecord is re-exported from ingest package
type NoteRecord = ingest.NoteRecord

// PersonRecord is re-exported from ingest package
type PersonRecord = ingest.PersonRecord

// MeetingRecord is re-exported from ingest package
type MeetingRecord = ingest.MeetingRecord

// ReminderRecord is re-exported from ingest package
type ReminderRecord = ingest.ReminderRecord

// EntityPayload is re-exported from ingest package
type EntityPayload = ingest.EntityPayload

// UserContext is re-exported from shared package
type UserContext = shared.UserContext

// Insight is re-exported from shared package
type Insight = shared.Insight

// GraphSummary is re-exported from shared package
type GraphSummary = shared.GraphSummary

// Node type constants re-exported from ingest package
const (
	TypeNote         = ingest.TypeNote
	TypePerson       = ingest.TypePerson
	TypeTopic        = ingest.TypeTopic
	TypeOrganization = ingest.TypeOrganization
	TypeLocation     = ingest.TypeLocation
	TypeTask         = ingest.TypeTask
	TypeMeeting      = ingest.TypeMeeting
	TypeReminder     = ingest.TypeReminder
)
