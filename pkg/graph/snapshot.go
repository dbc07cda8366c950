package graph

import "sort"

// Snapshot is a consistent, read-only view of the graph taken at a single
// point in time. Traversals run against a snapshot so that concurrent writes
// starting after the snapshot was taken are not observed mid-walk.
//
// Snapshot methods return internal values; callers must treat them as
// immutable.
type Snapshot struct {
	nodes  map[string]*Node
	out    map[string][]*Edge
	in     map[string][]*Edge
	byType map[string][]string
}

// Snapshot captures the current graph state. The cost is one map/slice copy
// per node and adjacency list; node and edge values themselves are shared,
// which is safe because the store never mutates them in place.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sn := &Snapshot{
		nodes:  make(map[string]*Node, len(s.nodes)),
		out:    make(map[string][]*Edge, len(s.out)),
		in:     make(map[string][]*Edge, len(s.in)),
		byType: make(map[string][]string, len(s.byType)),
	}
	for id, n := range s.nodes {
		sn.nodes[id] = n
	}
	for id, edges := range s.out {
		sn.out[id] = edges[:len(edges):len(edges)]
	}
	for id, edges := range s.in {
		sn.in[id] = edges[:len(edges):len(edges)]
	}
	for t, ids := range s.byType {
		sorted := make([]string, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)
		sn.byType[t] = sorted
	}
	return sn
}

// Node returns the node with the given id, if present.
func (sn *Snapshot) Node(id string) (*Node, bool) {
	n, ok := sn.nodes[id]
	return n, ok
}

// Out returns the outgoing edges of a node in insertion order.
func (sn *Snapshot) Out(id string) []*Edge {
	return sn.out[id]
}

// In returns the incoming edges of a node in insertion order.
func (sn *Snapshot) In(id string) []*Edge {
	return sn.in[id]
}

// NodeIDsOfType returns the sorted ids of all nodes of the given type.
func (sn *Snapshot) NodeIDsOfType(nodeType string) []string {
	return sn.byType[nodeType]
}

// NodeIDs returns all node ids in sorted order.
func (sn *Snapshot) NodeIDs() []string {
	ids := make([]string, 0, len(sn.nodes))
	for id := range sn.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Degree returns in-degree plus out-degree of a node.
func (sn *Snapshot) Degree(id string) int {
	return len(sn.in[id]) + len(sn.out[id])
}

// NodeCount returns the number of nodes in the snapshot.
func (sn *Snapshot) NodeCount() int {
	return len(sn.nodes)
}
