package query

import "sort"

// Central ranks a node by degree centrality.
type Central struct {
	ID          string `json:"id"`
	Connections int    `json:"connections"`
}

// CentralNodes ranks nodes by degree centrality (in-degree plus out-degree),
// descending. nodeType restricts the candidates when non-empty. Ties break on
// earliest creation time, then id, so the ordering is total and deterministic.
// An empty graph yields an empty slice.
func (e *Engine) CentralNodes(nodeType string, limit int) []Central {
	sn := e.store.Snapshot()

	var ids []string
	if nodeType != "" {
		ids = sn.NodeIDsOfType(nodeType)
	} else {
		ids = sn.NodeIDs()
	}

	ranked := make([]Central, 0, len(ids))
	for _, id := range ids {
		ranked = append(ranked, Central{ID: id, Connections: sn.Degree(id)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Connections != ranked[j].Connections {
			return ranked[i].Connections > ranked[j].Connections
		}
		ni, _ := sn.Node(ranked[i].ID)
		nj, _ := sn.Node(ranked[j].ID)
		if !ni.CreatedAt.Equal(nj.CreatedAt) {
			return ni.CreatedAt.Before(nj.CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
