package query

import "github.com/rumeelabs/braingraph/pkg/graph"

// Context is the neighborhood of a node: every node within the requested hop
// depth (excluding the center) and every edge seen while expanding.
type Context struct {
	Center *graph.Node   `json:"center"`
	Nodes  []*graph.Node `json:"nodes"`
	Edges  []*graph.Edge `json:"edges"`
}

// FindContext expands breadth-first from id out to depth hops, following edges
// in both directions and deduplicating visited nodes and edges. depth 0
// returns only the center. A missing id yields a Context with a nil center.
func (e *Engine) FindContext(id string, depth int) *Context {
	sn := e.store.Snapshot()

	ctx := &Context{
		Nodes: make([]*graph.Node, 0),
		Edges: make([]*graph.Edge, 0),
	}
	center, ok := sn.Node(id)
	if !ok {
		return ctx
	}
	ctx.Center = center

	type item struct {
		id    string
		depth int
	}
	queue := []item{{id, 0}}
	visited := make(map[string]bool)
	seenEdges := make(map[[3]string]bool)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if visited[cur.id] || cur.depth > depth {
			continue
		}
		visited[cur.id] = true

		if cur.id != id {
			if n, ok := sn.Node(cur.id); ok {
				ctx.Nodes = append(ctx.Nodes, n)
			}
		}

		if cur.depth >= depth {
			continue
		}
		for _, edge := range sn.Out(cur.id) {
			key := [3]string{edge.SourceID, edge.TargetID, edge.Type}
			if !seenEdges[key] {
				seenEdges[key] = true
				ctx.Edges = append(ctx.Edges, edge)
			}
			if !visited[edge.TargetID] {
				queue = append(queue, item{edge.TargetID, cur.depth + 1})
			}
		}
		for _, edge := range sn.In(cur.id) {
			key := [3]string{edge.SourceID, edge.TargetID, edge.Type}
			if !seenEdges[key] {
				seenEdges[key] = true
				ctx.Edges = append(ctx.Edges, edge)
			}
			if !visited[edge.SourceID] {
				queue = append(queue, item{edge.SourceID, cur.depth + 1})
			}
		}
	}
	return ctx
}
