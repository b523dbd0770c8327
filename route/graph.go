package route

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
)

// interactionGraph builds the undirected qubit-interaction graph: one node
// per qubit, one edge per qubit pair that appears together in a multi-qubit
// operation. Parallel applications collapse into a single edge.
func interactionGraph(c *Circuit) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for q := 0; q < c.NumQubits; q++ {
		g.AddNode(simple.Node(q))
	}
	for _, op := range c.Operations {
		for i := 0; i < len(op.Qubits); i++ {
			for j := i + 1; j < len(op.Qubits); j++ {
				u, v := int64(op.Qubits[i]), int64(op.Qubits[j])
				if !g.HasEdgeBetween(u, v) {
					g.SetEdge(g.NewEdge(simple.Node(u), simple.Node(v)))
				}
			}
		}
	}
	return g
}

// meanDegree returns the average node degree of g over n nodes.
func meanDegree(g *simple.UndirectedGraph, n int) float64 {
	if n == 0 {
		return 0
	}
	total := 0
	for q := 0; q < n; q++ {
		total += g.From(int64(q)).Len()
	}
	return float64(total) / float64(n)
}

// treewidthMinDegree runs the min-degree elimination heuristic on the
// interaction graph and returns the width of the resulting elimination
// order. This is an upper bound on the true treewidth, not an exact value;
// exact treewidth is NP-hard and deliberately out of reach here. Ties are
// broken by lowest qubit index so the result is deterministic.
func treewidthMinDegree(c *Circuit) int {
	g := interactionGraph(c)

	alive := make([]int64, 0, c.NumQubits)
	for q := 0; q < c.NumQubits; q++ {
		alive = append(alive, int64(q))
	}

	width := 0
	for len(alive) > 0 {
		// Pick the lowest-index node of minimum degree.
		best, bestDeg := 0, g.From(alive[0]).Len()
		for i := 1; i < len(alive); i++ {
			if d := g.From(alive[i]).Len(); d < bestDeg {
				best, bestDeg = i, d
			}
		}
		if bestDeg > width {
			width = bestDeg
		}

		// Eliminate: turn the node's neighborhood into a clique, then drop it.
		victim := alive[best]
		neighbors := make([]int64, 0, bestDeg)
		it := g.From(victim)
		for it.Next() {
			neighbors = append(neighbors, it.Node().ID())
		}
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
		for i := 0; i < len(neighbors); i++ {
			for j := i + 1; j < len(neighbors); j++ {
				if !g.HasEdgeBetween(neighbors[i], neighbors[j]) {
					g.SetEdge(g.NewEdge(simple.Node(neighbors[i]), simple.Node(neighbors[j])))
				}
			}
		}
		g.RemoveNode(victim)
		alive = append(alive[:best], alive[best+1:]...)
	}
	return width
}
