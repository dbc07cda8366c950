// Package shared holds the cross-worker scratch state produced by the
// background agents. Each slot is written by exactly one agent and read by
// everyone else; ownership is by convention, the memory itself only
// guarantees that individual reads and writes are atomic and that getters
// return copies.
package shared

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Slot capacities. Queues drop their oldest entries once full.
const (
	MaxInsights         = 20
	MaxPatterns         = 10
	MaxActiveTopics     = 100
	MaxCrossRefsPerNote = 25
)

// ActiveTopic is one topic observation recorded by the signal sorter while
// classifying a note.
type ActiveTopic struct {
	Topic      string
	NoteID     string
	ObservedAt time.Time
}

// UserContext summarizes what the user is currently focused on, derived
// from the most recent notes by the context builder.
type UserContext struct {
	PrimaryFocus   string
	ActiveTopics   []string
	ActivePeople   []string
	RecentActivity int
	UpdatedAt      time.Time
}

// HourCount and DayCount are histogram buckets for the pattern detector.
type HourCount struct {
	Hour  int
	Count int
}

type DayCount struct {
	Day   string
	Count int
}

// PersonCount ranks a collaborator by how often they appear in notes.
type PersonCount struct {
	Person string
	Count  int
}

// PatternSnapshot is one pattern-detection pass: when the user is most
// active, how topics moved over the last four weeks, and who they work with.
type PatternSnapshot struct {
	PeakHours     []HourCount
	ActiveDays    []DayCount
	TopicsByWeek  map[int]map[string]int
	Collaborators []PersonCount
	DetectedAt    time.Time
}

// CrossReference is one AI-discovered connection from a note to another,
// mirrored here by the mind weaver alongside the graph edge it creates.
type CrossReference struct {
	TargetNoteID string
	Type         string
	Strength     float64
	Reason       string
	DiscoveredAt time.Time
}

// Insight is one proactive suggestion emitted by the insight generator.
type Insight struct {
	ID          string
	Type        string
	Title       string
	Description string
	Priority    string
	GeneratedAt time.Time
}

// EntityRank pairs a node id with its degree.
type EntityRank struct {
	ID          string
	Connections int
}

// GraphSummary is the relationship mapper's digest of the graph: totals,
// per-type counts and the most connected people and topics.
type GraphSummary struct {
	TotalNodes    int
	TotalEdges    int
	NodeTypes     map[string]int
	EdgeTypes     map[string]int
	CentralPeople []EntityRank
	CentralTopics []EntityRank
	UpdatedAt     time.Time
}

// Memory is the shared scratch state. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu sync.RWMutex

	userContext  *UserContext
	patterns     []PatternSnapshot
	crossRefs    map[string][]CrossReference
	insights     []Insight
	activeTopics []ActiveTopic
	graphSummary *GraphSummary
}

func NewMemory() *Memory {
	return &Memory{
		crossRefs: make(map[string][]CrossReference),
	}
}

// SetUserContext replaces the user-context slot. Context-builder only.
func (m *Memory) SetUserContext(ctx UserContext) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx.ActiveTopics = append([]string(nil), ctx.ActiveTopics...)
	ctx.ActivePeople = append([]string(nil), ctx.ActivePeople...)
	m.userContext = &ctx
}

// UserContext returns a copy of the current context and whether one has
// been built yet.
func (m *Memory) UserContext() (UserContext, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.userContext == nil {
		return UserContext{}, false
	}
	ctx := *m.userContext
	ctx.ActiveTopics = append([]string(nil), ctx.ActiveTopics...)
	ctx.ActivePeople = append([]string(nil), ctx.ActivePeople...)
	return ctx, true
}

// AddPattern appends a snapshot, dropping the oldest beyond MaxPatterns.
// Pattern-detector only.
func (m *Memory) AddPattern(p PatternSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, p)
	if len(m.patterns) > MaxPatterns {
		m.patterns = append([]PatternSnapshot(nil), m.patterns[len(m.patterns)-MaxPatterns:]...)
	}
}

// Patterns returns the retained snapshots, oldest first.
func (m *Memory) Patterns() []PatternSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]PatternSnapshot(nil), m.patterns...)
}

// AddCrossReference records a discovered connection for a note, bounded per
// note. Mind-weaver only.
func (m *Memory) AddCrossReference(noteID string, ref CrossReference) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refs := append(m.crossRefs[noteID], ref)
	if len(refs) > MaxCrossRefsPerNote {
		refs = append([]CrossReference(nil), refs[len(refs)-MaxCrossRefsPerNote:]...)
	}
	m.crossRefs[noteID] = refs
}

// CrossReferences returns the connections recorded for one note.
func (m *Memory) CrossReferences(noteID string) []CrossReference {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]CrossReference(nil), m.crossRefs[noteID]...)
}

// CrossReferenceStats reports how many notes have connections and the total
// connection count, for the insight generator's convergence check.
func (m *Memory) CrossReferenceStats() (notes, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, refs := range m.crossRefs {
		if len(refs) > 0 {
			notes++
			total += len(refs)
		}
	}
	return notes, total
}

// AddInsight appends to the insight queue, assigning an id when the caller
// left it empty, and trims the queue to MaxInsights by dropping the oldest.
// Insight-generator only.
func (m *Memory) AddInsight(in Insight) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	m.insights = append(m.insights, in)
	if len(m.insights) > MaxInsights {
		m.insights = append([]Insight(nil), m.insights[len(m.insights)-MaxInsights:]...)
	}
}

// Insights returns the queue, oldest first.
func (m *Memory) Insights() []Insight {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Insight(nil), m.insights...)
}

// AddActiveTopics appends topic observations, trimming to MaxActiveTopics.
// Signal-sorter only.
func (m *Memory) AddActiveTopics(topics ...ActiveTopic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeTopics = append(m.activeTopics, topics...)
	if len(m.activeTopics) > MaxActiveTopics {
		m.activeTopics = append([]ActiveTopic(nil), m.activeTopics[len(m.activeTopics)-MaxActiveTopics:]...)
	}
}

// ActiveTopics returns the retained topic observations, oldest first.
func (m *Memory) ActiveTopics() []ActiveTopic {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ActiveTopic(nil), m.activeTopics...)
}

// SetGraphSummary replaces the graph summary slot. Relationship-mapper only.
func (m *Memory) SetGraphSummary(s GraphSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.graphSummary = &s
}

// GraphSummary returns a copy of the latest summary and whether one exists.
func (m *Memory) GraphSummary() (GraphSummary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.graphSummary == nil {
		return GraphSummary{}, false
	}
	s := *m.graphSummary
	s.NodeTypes = copyCounts(s.NodeTypes)
	s.EdgeTypes = copyCounts(s.EdgeTypes)
	s.CentralPeople = append([]EntityRank(nil), s.CentralPeople...)
	s.CentralTopics = append([]EntityRank(nil), s.CentralTopics...)
	return s, true
}

func copyCounts(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
