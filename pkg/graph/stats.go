package graph

import (
	"sort"
	"strings"
)

// Stats summarizes the graph for dashboards and the relationship-mapper agent.
type Stats struct {
	TotalNodes int            `json:"total_nodes"`
	TotalEdges int            `json:"total_edges"`
	NodeTypes  map[string]int `json:"node_types"`
	EdgeTypes  map[string]int `json:"edge_types"`
	Density    float64        `json:"density"`
}

// Stats computes node/edge totals, per-type counts and graph density.
// Density is E / (N * (N-1)) for a directed graph, 0 when fewer than 2 nodes.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalNodes: len(s.nodes),
		TotalEdges: s.edgeCount,
		NodeTypes:  make(map[string]int, len(s.byType)),
		EdgeTypes:  make(map[string]int),
	}
	for t, ids := range s.byType {
		stats.NodeTypes[t] = len(ids)
	}
	for _, edges := range s.out {
		for _, e := range edges {
			stats.EdgeTypes[e.Type]++
		}
	}
	if stats.TotalNodes > 1 {
		stats.Density = float64(stats.TotalEdges) / float64(stats.TotalNodes*(stats.TotalNodes-1))
	}
	return stats
}

// ViewNode is a node projected for visualization.
type ViewNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Size  int    `json:"size"`
}

// ViewEdge is an edge projected for visualization.
type ViewEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// View is a graph projection suitable for force-directed rendering.
type View struct {
	Nodes []ViewNode `json:"nodes"`
	Edges []ViewEdge `json:"edges"`
}

// Export projects the graph for visualization. When types is non-empty only
// nodes of those types are included, otherwise nodes are taken in sorted id
// order up to limit. Edges appear only when both endpoints are selected.
func (s *Store) Export(types []string, limit int) *View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	if len(types) > 0 {
		seen := make(map[string]struct{})
		for _, t := range types {
			for id := range s.byType[t] {
				seen[id] = struct{}{}
			}
		}
		ids = make([]string, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
	} else {
		ids = make([]string, 0, len(s.nodes))
		for id := range s.nodes {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	view := &View{
		Nodes: make([]ViewNode, 0, len(ids)),
		Edges: make([]ViewEdge, 0),
	}
	for _, id := range ids {
		node := s.nodes[id]
		view.Nodes = append(view.Nodes, ViewNode{
			ID:    id,
			Label: nodeLabel(node),
			Type:  node.Type,
			Size:  len(s.in[id]) + len(s.out[id]),
		})
	}
	for _, id := range ids {
		for _, e := range s.out[id] {
			if _, ok := selected[e.TargetID]; !ok {
				continue
			}
			view.Edges = append(view.Edges, ViewEdge{
				Source: e.SourceID,
				Target: e.TargetID,
				Type:   e.Type,
				Weight: e.Weight,
			})
		}
	}
	return view
}

func nodeLabel(n *Node) string {
	if name, ok := n.Properties["name"].(string); ok && name != "" {
		return name
	}
	if title, ok := n.Properties["title"].(string); ok && title != "" {
		return title
	}
	if _, suffix, found := strings.Cut(n.ID, ":"); found {
		return suffix
	}
	return n.ID
}
