package ingest

import "encoding/json"

// EntityPayload is the structured output of the external extraction function.
// Extraction output is untrusted: any field may be absent, empty or carry the
// wrong JSON type. Decoding degrades malformed fields to empty collections
// instead of failing, so a bad payload never blocks ingestion of the record
// it rode in on.
type EntityPayload struct {
	People        []string   `json:"people,omitempty"`
	Topics        []string   `json:"topics,omitempty"`
	Organizations []string   `json:"organizations,omitempty"`
	Locations     []string   `json:"locations,omitempty"`
	Tasks         []TaskItem `json:"tasks,omitempty"`
	Dates         []string   `json:"dates,omitempty"`
}

// TaskItem is one extracted task. Extractors emit either a bare string or an
// object with at least a title; both decode into this shape.
type TaskItem struct {
	Title string         `json:"title"`
	Props map[string]any `json:"-"`
}

// IsEmpty reports whether the payload carries no entities at all.
func (p *EntityPayload) IsEmpty() bool {
	if p == nil {
		return true
	}
	return len(p.People) == 0 && len(p.Topics) == 0 && len(p.Organizations) == 0 &&
		len(p.Locations) == 0 && len(p.Tasks) == 0 && len(p.Dates) == 0
}

// UnmarshalJSON tolerates wrong-typed fields by degrading them to empty
// collections.
func (p *EntityPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an object at all; treat as an empty payload.
		*p = EntityPayload{}
		return nil
	}

	p.People = stringList(raw["people"])
	p.Topics = stringList(raw["topics"])
	p.Organizations = stringList(raw["organizations"])
	p.Locations = stringList(raw["locations"])
	p.Dates = stringList(raw["dates"])
	p.Tasks = taskList(raw["tasks"])
	return nil
}

func stringList(data json.RawMessage) []string {
	if len(data) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func taskList(data json.RawMessage) []TaskItem {
	if len(data) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make([]TaskItem, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				out = append(out, TaskItem{Title: s})
			}
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		title, _ := obj["title"].(string)
		if title == "" {
			continue
		}
		out = append(out, TaskItem{Title: title, Props: obj})
	}
	return out
}
