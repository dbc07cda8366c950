package graph

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is the mutable shared graph. All mutation goes through UpsertNode and
// UpsertEdge under a write lock held only for the duration of the single
// upsert; reads take a read lock and return copies. Node and edge values are
// never modified in place once published, so a Snapshot stays consistent while
// writers keep going.
type Store struct {
	mu     sync.RWMutex
	nodes  map[string]*Node
	out    map[string][]*Edge
	in     map[string][]*Edge
	byType map[string]map[string]struct{}

	edgeCount int

	log *zap.Logger
	now func() time.Time
}

// NewStore creates an empty graph store. A nil logger disables logging.
func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		nodes:  make(map[string]*Node),
		out:    make(map[string][]*Edge),
		in:     make(map[string][]*Edge),
		byType: make(map[string]map[string]struct{}),
		log:    log,
		now:    time.Now,
	}
}

// UpsertNode creates the node if absent, otherwise merges the supplied
// properties into the existing ones (shallow, new keys win) and bumps
// updated_at. The node type is immutable: a conflicting type on an existing id
// is ignored. Never fails. Returns a copy of the stored node.
func (s *Store) UpsertNode(id, nodeType string, props map[string]any) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.nodes[id]; ok {
		if nodeType != "" && nodeType != existing.Type {
			s.log.Warn("node type conflict ignored",
				zap.String("node_id", id),
				zap.String("existing_type", existing.Type),
				zap.String("requested_type", nodeType))
		}
		merged := cloneProps(existing.Properties)
		for k, v := range props {
			merged[k] = v
		}
		updated := &Node{
			ID:         existing.ID,
			Type:       existing.Type,
			Properties: merged,
			CreatedAt:  existing.CreatedAt,
			UpdatedAt:  s.now(),
		}
		s.nodes[id] = updated
		return cloneNode(updated)
	}

	ts := s.now()
	node := &Node{
		ID:         id,
		Type:       nodeType,
		Properties: cloneProps(props),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	s.nodes[id] = node
	ids, ok := s.byType[nodeType]
	if !ok {
		ids = make(map[string]struct{})
		s.byType[nodeType] = ids
	}
	ids[id] = struct{}{}
	s.log.Debug("node created", zap.String("node_id", id), zap.String("type", nodeType))
	return cloneNode(node)
}

// UpsertEdge creates or updates the directed edge identified by
// (sourceID, targetID, edgeType). If either endpoint is missing the call is
// rejected: it logs a warning, leaves the store unchanged and returns
// (nil, false). Nodes are never created as a side effect of edge insertion.
//
// On update, properties merge shallowly and a numeric "weight" property
// replaces the stored weight (last write wins).
func (s *Store) UpsertEdge(sourceID, targetID, edgeType string, props map[string]any) (*Edge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[sourceID]; !ok {
		s.log.Warn("edge rejected: source node missing",
			zap.String("source", sourceID), zap.String("target", targetID), zap.String("type", edgeType))
		return nil, false
	}
	if _, ok := s.nodes[targetID]; !ok {
		s.log.Warn("edge rejected: target node missing",
			zap.String("source", sourceID), zap.String("target", targetID), zap.String("type", edgeType))
		return nil, false
	}

	for i, e := range s.out[sourceID] {
		if e.TargetID == targetID && e.Type == edgeType {
			merged := cloneProps(e.Properties)
			for k, v := range props {
				merged[k] = v
			}
			updated := &Edge{
				SourceID:   e.SourceID,
				TargetID:   e.TargetID,
				Type:       e.Type,
				Properties: merged,
				Weight:     weightFrom(props, e.Weight),
				CreatedAt:  e.CreatedAt,
			}
			// Slices may be shared with live snapshots; replace via fresh copies.
			s.out[sourceID] = replaceEdge(s.out[sourceID], i, updated)
			s.in[targetID] = replaceEdgeByIdentity(s.in[targetID], e, updated)
			return cloneEdge(updated), true
		}
	}

	edge := &Edge{
		SourceID:   sourceID,
		TargetID:   targetID,
		Type:       edgeType,
		Properties: cloneProps(props),
		Weight:     weightFrom(props, DefaultWeight),
		CreatedAt:  s.now(),
	}
	s.out[sourceID] = append(s.out[sourceID], edge)
	s.in[targetID] = append(s.in[targetID], edge)
	s.edgeCount++
	s.log.Debug("edge created",
		zap.String("source", sourceID), zap.String("target", targetID), zap.String("type", edgeType))
	return cloneEdge(edge), true
}

func replaceEdge(edges []*Edge, idx int, e *Edge) []*Edge {
	out := make([]*Edge, len(edges))
	copy(out, edges)
	out[idx] = e
	return out
}

func replaceEdgeByIdentity(edges []*Edge, old, updated *Edge) []*Edge {
	out := make([]*Edge, len(edges))
	copy(out, edges)
	for i, e := range out {
		if e == old {
			out[i] = updated
			break
		}
	}
	return out
}

func weightFrom(props map[string]any, fallback float64) float64 {
	switch w := props["weight"].(type) {
	case float64:
		return w
	case float32:
		return float64(w)
	case int:
		return float64(w)
	default:
		return fallback
	}
}

// GetNode returns a copy of the node with the given id.
func (s *Store) GetNode(id string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return cloneNode(node), true
}

// NodesByType returns copies of all nodes of the given type, ordered by
// creation time then id so callers see a stable order.
func (s *Store) NodesByType(nodeType string) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byType[nodeType]
	nodes := make([]*Node, 0, len(ids))
	for id := range ids {
		nodes = append(nodes, cloneNode(s.nodes[id]))
	}
	sortNodes(nodes)
	return nodes
}

// NodesByProperties returns nodes of the given type whose properties match
// every filter entry exactly.
func (s *Store) NodesByProperties(nodeType string, filters map[string]any) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var nodes []*Node
	for id := range s.byType[nodeType] {
		node := s.nodes[id]
		matches := true
		for k, want := range filters {
			got, ok := node.Properties[k]
			if !ok || got != want {
				matches = false
				break
			}
		}
		if matches {
			nodes = append(nodes, cloneNode(node))
		}
	}
	sortNodes(nodes)
	return nodes
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if !nodes[i].CreatedAt.Equal(nodes[j].CreatedAt) {
			return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
		}
		return nodes[i].ID < nodes[j].ID
	})
}

// EdgesFrom returns copies of the outgoing edges of a node, optionally
// filtered by edge type (empty filter matches all).
func (s *Store) EdgesFrom(id, typeFilter string) []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterEdges(s.out[id], typeFilter)
}

// EdgesTo returns copies of the incoming edges of a node, optionally filtered
// by edge type.
func (s *Store) EdgesTo(id, typeFilter string) []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterEdges(s.in[id], typeFilter)
}

func filterEdges(edges []*Edge, typeFilter string) []*Edge {
	out := make([]*Edge, 0, len(edges))
	for _, e := range edges {
		if typeFilter == "" || e.Type == typeFilter {
			out = append(out, cloneEdge(e))
		}
	}
	return out
}

// Neighbors returns copies of the nodes adjacent to id, following edges in the
// given direction, optionally restricted to an edge type. A node reachable via
// several edges appears once per edge.
func (s *Store) Neighbors(id, typeFilter string, direction Direction) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var nodes []*Node
	if direction == DirectionOut || direction == DirectionBoth {
		for _, e := range s.out[id] {
			if typeFilter != "" && e.Type != typeFilter {
				continue
			}
			if n, ok := s.nodes[e.TargetID]; ok {
				nodes = append(nodes, cloneNode(n))
			}
		}
	}
	if direction == DirectionIn || direction == DirectionBoth {
		for _, e := range s.in[id] {
			if typeFilter != "" && e.Type != typeFilter {
				continue
			}
			if n, ok := s.nodes[e.SourceID]; ok {
				nodes = append(nodes, cloneNode(n))
			}
		}
	}
	return nodes
}

// NodeCount returns the number of nodes in the graph.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edgeCount
}
