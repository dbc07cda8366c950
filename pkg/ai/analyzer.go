package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/ingest"
	"github.com/rumeelabs/braingraph/pkg/llm"
)

// Prompt budgets. Content beyond these rune counts is truncated before it
// reaches the model.
const (
	maxClassifyRunes = 1000
	maxScoreRunes    = 500
)

const extractSystemPrompt = `You are an entity extraction assistant. Extract entities and return valid JSON.`

const extractUserPrompt = `Extract entities from the following text:

Text: %s

Please identify:
1. People mentioned (names)
2. Dates/times mentioned
3. Topics/themes discussed
4. Organizations/companies mentioned
5. Locations mentioned
6. Tasks/action items mentioned

Return as JSON with keys: people, dates, topics, organizations, locations, tasks`

const scoreSystemPrompt = `Analyze if these two pieces of content are related. Return JSON:
{
    "connected": true/false,
    "strength": 0.0-1.0,
    "type": "builds_on|contradicts|supports|related_to|same_theme",
    "reason": "brief explanation"
}`

const classifySystemPrompt = `Classify this content deeply. Return JSON with:
- content_type: (idea, task, meeting_notes, reference, decision, question, reflection)
- topics: array of specific topics (be specific, not generic)
- importance: 1-10 score
- time_sensitivity: (immediate, soon, later, timeless)
- related_domains: array of knowledge domains this relates to
- actionable: boolean
- key_concepts: array of key concepts mentioned`

// Analyzer implements the three AI contracts on top of a chat client.
type Analyzer struct {
	client llm.Client
	log    *zap.Logger
}

var (
	_ EntityExtractor    = (*Analyzer)(nil)
	_ RelationshipScorer = (*Analyzer)(nil)
	_ ContentClassifier  = (*Analyzer)(nil)
)

func NewAnalyzer(client llm.Client, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{client: client, log: log}
}

// Extract implements EntityExtractor. The payload decoder is tolerant, so a
// partially wrong-shaped model answer still yields whatever was usable.
func (a *Analyzer) Extract(ctx context.Context, text string) (*ingest.EntityPayload, error) {
	var payload ingest.EntityPayload
	err := a.client.CompleteJSON(ctx, extractSystemPrompt,
		fmt.Sprintf(extractUserPrompt, truncateRunes(text, maxClassifyRunes)), &payload)
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}
	return &payload, nil
}

// Score implements RelationshipScorer. Strength is clamped to [0, 1];
// models occasionally return values just outside the asked-for range.
func (a *Analyzer) Score(ctx context.Context, first, second string) (*Connection, error) {
	user := fmt.Sprintf("Content 1: %s\n\nContent 2: %s",
		truncateRunes(first, maxScoreRunes), truncateRunes(second, maxScoreRunes))

	var conn Connection
	if err := a.client.CompleteJSON(ctx, scoreSystemPrompt, user, &conn); err != nil {
		return nil, fmt.Errorf("score relationship: %w", err)
	}

	if conn.Strength < 0 {
		a.log.Debug("clamped connection strength", zap.Float64("strength", conn.Strength))
		conn.Strength = 0
	} else if conn.Strength > 1 {
		a.log.Debug("clamped connection strength", zap.Float64("strength", conn.Strength))
		conn.Strength = 1
	}
	return &conn, nil
}

// Classify implements ContentClassifier.
func (a *Analyzer) Classify(ctx context.Context, text string) (*Classification, error) {
	var cls Classification
	err := a.client.CompleteJSON(ctx, classifySystemPrompt, truncateRunes(text, maxClassifyRunes), &cls)
	if err != nil {
		return nil, fmt.Errorf("classify content: %w", err)
	}
	return &cls, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
