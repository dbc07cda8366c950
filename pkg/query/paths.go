package query

import "go.uber.org/zap"

// FindPaths enumerates simple paths (no repeated node) from startID to endID
// following directed edges, up to maxDepth edges per path. Enumeration is BFS
// over partial paths, so shorter paths come first. Returns an empty slice when
// either endpoint is absent. At most MaxPaths paths are returned; partial
// paths beyond maxDepth are discarded to bound memory.
func (e *Engine) FindPaths(startID, endID string, maxDepth int) [][]string {
	sn := e.store.Snapshot()

	paths := make([][]string, 0)
	if _, ok := sn.Node(startID); !ok {
		return paths
	}
	if _, ok := sn.Node(endID); !ok {
		return paths
	}

	type partial struct {
		path    []string
		visited map[string]bool
	}
	queue := []partial{{
		path:    []string{startID},
		visited: map[string]bool{startID: true},
	}}

	for len(queue) > 0 && len(paths) < e.maxPaths {
		cur := queue[0]
		queue = queue[1:]

		current := cur.path[len(cur.path)-1]
		if current == endID {
			paths = append(paths, cur.path)
			continue
		}
		if len(cur.path)-1 >= maxDepth {
			continue
		}

		for _, edge := range sn.Out(current) {
			if cur.visited[edge.TargetID] {
				continue
			}
			next := make([]string, len(cur.path), len(cur.path)+1)
			copy(next, cur.path)
			next = append(next, edge.TargetID)

			visited := make(map[string]bool, len(cur.visited)+1)
			for k := range cur.visited {
				visited[k] = true
			}
			visited[edge.TargetID] = true

			queue = append(queue, partial{path: next, visited: visited})
		}
	}

	if len(paths) == e.maxPaths {
		e.log.Debug("path enumeration capped",
			zap.String("start", startID), zap.String("end", endID), zap.Int("cap", e.maxPaths))
	}
	return paths
}
