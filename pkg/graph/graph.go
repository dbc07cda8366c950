// Package graph implements the in-memory knowledge graph shared by the
// ingestion pipeline, the query engine and the background agents.
package graph

import "time"

// Node represents any entity in the graph: a note, a person, a topic, an
// organization, a location, a task, a meeting or a reminder. The type set is
// open; ingestion decides which types exist.
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Edge represents a directed, typed relationship between two nodes.
// An edge is identified by the (source, target, type) triple; re-inserting the
// same triple merges properties instead of duplicating the edge.
type Edge struct {
	SourceID   string         `json:"source"`
	TargetID   string         `json:"target"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Weight     float64        `json:"weight"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Direction selects which edges to follow when listing neighbors.
type Direction string

const (
	// DirectionOut follows outgoing edges only.
	DirectionOut Direction = "out"

	// DirectionIn follows incoming edges only.
	DirectionIn Direction = "in"

	// DirectionBoth follows edges in both directions.
	DirectionBoth Direction = "both"
)

// DefaultWeight is assigned to edges created without an explicit weight.
const DefaultWeight = 1.0

func cloneProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

func cloneNode(n *Node) *Node {
	c := *n
	c.Properties = cloneProps(n.Properties)
	return &c
}

func cloneEdge(e *Edge) *Edge {
	c := *e
	c.Properties = cloneProps(e.Properties)
	return &c
}
