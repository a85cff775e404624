package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Directed returns a gonum view of the listed links. Self links are left out
// since simple graphs cannot hold them, and dangling nodes get no edges.
// Lists beyond len(links) are treated as empty.
func Directed(n int, links [][]int) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, targets := range links {
		for _, j := range targets {
			if i == j || j < 0 || j >= n {
				continue
			}
			g.SetEdge(g.NewEdge(g.Node(int64(i)), g.Node(int64(j))))
		}
	}
	return g
}

// Components returns the strongly connected components of the graph as it
// is after dangling correction, each sorted by node ID, largest first.
//
// The corrected edges are never materialized. A corrected dangling node
// reaches every node, so all nodes with a path to some dangling node form a
// single component; the rest keep their components from the raw links.
func Components(n int, links [][]int) [][]int64 {
	if n <= 0 {
		return nil
	}
	g := Directed(n, links)

	var dangling []int64
	for i := 0; i < n; i++ {
		if i >= len(links) || len(links[i]) == 0 {
			dangling = append(dangling, int64(i))
		}
	}

	reaches := reachingAny(g, n, dangling)

	var components [][]int64
	if len(dangling) > 0 {
		var merged []int64
		for id, ok := range reaches {
			if ok {
				merged = append(merged, int64(id))
			}
		}
		components = append(components, merged)
	}

	for _, scc := range topo.TarjanSCC(g) {
		// An SCC lies entirely inside or outside the merged component
		if reaches[scc[0].ID()] {
			continue
		}
		components = append(components, sortedIDs(scc))
	}

	sort.SliceStable(components, func(a, b int) bool {
		if len(components[a]) != len(components[b]) {
			return len(components[a]) > len(components[b])
		}
		return components[a][0] < components[b][0]
	})
	return components
}

// IsStronglyConnected reports whether every node can reach every other node
// once dangling nodes are corrected
func IsStronglyConnected(n int, links [][]int) bool {
	return len(Components(n, links)) == 1
}

// reachingAny marks every node with a path to one of targets, targets
// included, walking the edges backwards
func reachingAny(g graph.Directed, n int, targets []int64) []bool {
	seen := make([]bool, n)
	queue := make([]int64, 0, len(targets))
	for _, id := range targets {
		seen[id] = true
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		from := g.To(id)
		for from.Next() {
			p := from.Node().ID()
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return seen
}

func sortedIDs(nodes []graph.Node) []int64 {
	ids := make([]int64, len(nodes))
	for i, node := range nodes {
		ids[i] = node.ID()
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
