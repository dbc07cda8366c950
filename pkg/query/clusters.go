package query

import (
	"sort"

	"github.com/google/uuid"
)

// Clusters computes connected components among nodes of the given type. Two
// same-type nodes are adjacent when any edge links them directly, ignoring
// direction; paths through nodes of a different type do not join clusters.
// Returns a map from an opaque cluster id to its sorted member ids. An empty
// or unknown type yields an empty map.
func (e *Engine) Clusters(nodeType string) map[string][]string {
	sn := e.store.Snapshot()

	clusters := make(map[string][]string)
	visited := make(map[string]bool)

	for _, seed := range sn.NodeIDsOfType(nodeType) {
		if visited[seed] {
			continue
		}

		var members []string
		queue := []string{seed}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if visited[cur] {
				continue
			}
			visited[cur] = true
			members = append(members, cur)

			for _, edge := range sn.Out(cur) {
				if n, ok := sn.Node(edge.TargetID); ok && n.Type == nodeType && !visited[n.ID] {
					queue = append(queue, n.ID)
				}
			}
			for _, edge := range sn.In(cur) {
				if n, ok := sn.Node(edge.SourceID); ok && n.Type == nodeType && !visited[n.ID] {
					queue = append(queue, n.ID)
				}
			}
		}

		sort.Strings(members)
		clusters["cluster:"+uuid.NewString()] = members
	}
	return clusters
}
