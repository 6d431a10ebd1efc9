package community

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// girvanNewman removes the highest edge-betweenness edge until the number of
// connected components grows, level times over.
func girvanNewman(ug *simple.WeightedUndirectedGraph, level int) ([]int, error) {
	work := simple.NewUndirectedGraph()
	nodes := ug.Nodes()
	for nodes.Next() {
		work.AddNode(nodes.Node())
	}
	edges := ug.Edges()
	for edges.Next() {
		e := edges.Edge()
		work.SetEdge(work.NewEdge(e.From(), e.To()))
	}
	if work.Edges().Len() == 0 {
		return nil, ErrDegenerate
	}

	comps := topo.ConnectedComponents(work)
	for l := 0; l < level; l++ {
		before := len(comps)
		for len(comps) <= before {
			if work.Edges().Len() == 0 {
				return componentLabels(comps, ug.Nodes().Len()), nil
			}
			u, v := mostCentralEdge(work)
			work.RemoveEdge(u, v)
			comps = topo.ConnectedComponents(work)
		}
	}
	return componentLabels(comps, ug.Nodes().Len()), nil
}

func mostCentralEdge(g *simple.UndirectedGraph) (int64, int64) {
	eb := network.EdgeBetweenness(g)
	if len(eb) == 0 {
		it := g.Edges()
		it.Next()
		e := it.Edge()
		return e.From().ID(), e.To().ID()
	}
	keys := make([][2]int64, 0, len(eb))
	for k := range eb {
		if k[0] > k[1] {
			k[0], k[1] = k[1], k[0]
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	best := keys[0]
	bestScore := score(eb, best)
	for _, k := range keys[1:] {
		if s := score(eb, k); s > bestScore+1e-12 {
			best, bestScore = k, s
		}
	}
	return best[0], best[1]
}

func score(eb map[[2]int64]float64, k [2]int64) float64 {
	if s, ok := eb[k]; ok {
		return s
	}
	return eb[[2]int64{k[1], k[0]}]
}

func componentLabels(comps [][]graph.Node, n int) []int {
	labels := make([]int, n)
	for c, members := range comps {
		for _, nd := range members {
			labels[nd.ID()] = c
		}
	}
	return canonical(labels)
}
