package query

import (
	"sort"
	"time"
)

// previewRunes bounds the content preview in timeline entries.
const previewRunes = 200

// TimelineEntry is one note-backed event in an entity's history.
type TimelineEntry struct {
	NoteID    string    `json:"note_id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	EdgeType  string    `json:"relationship"`
	CreatedAt time.Time `json:"created_at"`
}

// Timeline collects every note node with an edge pointing at entityID and
// projects it to a dated entry, newest first. The note's recorded creation
// time (the "created_at" property set at ingestion) wins over the node's
// insertion time when present.
func (e *Engine) Timeline(entityID string) []TimelineEntry {
	sn := e.store.Snapshot()

	entries := make([]TimelineEntry, 0)
	for _, edge := range sn.In(entityID) {
		node, ok := sn.Node(edge.SourceID)
		if !ok || node.Type != "note" {
			continue
		}

		title, _ := node.Properties["title"].(string)
		content, _ := node.Properties["content"].(string)
		created := node.CreatedAt
		if ts, ok := node.Properties["created_at"].(time.Time); ok {
			created = ts
		}

		entries = append(entries, TimelineEntry{
			NoteID:    node.ID,
			Title:     title,
			Preview:   truncateRunes(content, previewRunes),
			EdgeType:  edge.Type,
			CreatedAt: created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].NoteID < entries[j].NoteID
	})
	return entries
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
