// Package ai defines the external language-model capabilities the graph
// consumes: entity extraction, relationship scoring and content
// classification. The core only depends on these interfaces; the bundled
// implementations drive a chat completion client.
package ai

import (
	"context"

	"github.com/rumeelabs/braingraph/pkg/ingest"
)

// Connection is the result of scoring two pieces of content against each
// other. Strength is always within [0, 1] after decoding.
type Connection struct {
	Connected bool    `json:"connected"`
	Strength  float64 `json:"strength"`
	Type      string  `json:"type"`
	Reason    string  `json:"reason"`
}

// Classification is the deep-classification result for one note.
type Classification struct {
	ContentType     string   `json:"content_type"`
	Topics          []string `json:"topics"`
	Importance      int      `json:"importance"`
	TimeSensitivity string   `json:"time_sensitivity"`
	RelatedDomains  []string `json:"related_domains"`
	Actionable      bool     `json:"actionable"`
	KeyConcepts     []string `json:"key_concepts"`
}

// Map flattens the classification for storage as note metadata.
func (c *Classification) Map() map[string]any {
	return map[string]any{
		"content_type":     c.ContentType,
		"topics":           c.Topics,
		"importance":       c.Importance,
		"time_sensitivity": c.TimeSensitivity,
		"related_domains":  c.RelatedDomains,
		"actionable":       c.Actionable,
		"key_concepts":     c.KeyConcepts,
	}
}

// EntityExtractor turns free text into structured entities.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) (*ingest.EntityPayload, error)
}

// RelationshipScorer judges whether two pieces of content are related.
type RelationshipScorer interface {
	Score(ctx context.Context, a, b string) (*Connection, error)
}

// ContentClassifier performs deep classification of note content.
type ContentClassifier interface {
	Classify(ctx context.Context, text string) (*Classification, error)
}
