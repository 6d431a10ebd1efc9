// Package graph builds the directed interaction graph and its per-node
// degree metrics.
package graph

import (
	"gonum.org/v1/gonum/graph/simple"

	"twinpics/internal/model"
)

// Options controls which handles become nodes.
type Options struct {
	// Seed handles are added first, fixing node order.
	Seed []string
	// Restrict, when non-nil, keeps only handles in the set.
	Restrict map[string]bool
}

// Graph is a directed interaction graph keyed by handle. Self-loops are kept
// aside for metrics and never become graph edges.
type Graph struct {
	handles []string
	ids     map[string]int64
	g       *simple.WeightedDirectedGraph
	self    map[string]int
	edges   []model.Edge
}

// Build creates the graph from an edge table. The NoMention target never
// becomes a node.
func Build(edges []model.Edge, opts Options) *Graph {
	gr := &Graph{
		ids:  make(map[string]int64),
		g:    simple.NewWeightedDirectedGraph(0, 0),
		self: make(map[string]int),
	}
	for _, h := range opts.Seed {
		gr.addNode(h, opts.Restrict)
	}
	for _, e := range edges {
		src, okS := gr.addNode(e.Source, opts.Restrict)
		dst, okD := gr.addNode(e.Target, opts.Restrict)
		if !okS || !okD {
			continue
		}
		if src == dst {
			gr.self[e.Source] += e.Iteration
			continue
		}
		w := float64(e.Iteration)
		if prev := gr.g.WeightedEdge(src, dst); prev != nil {
			w += prev.Weight()
		} else {
			gr.edges = append(gr.edges, model.Edge{Source: e.Source, Target: e.Target})
		}
		gr.g.SetWeightedEdge(gr.g.NewWeightedEdge(simple.Node(src), simple.Node(dst), w))
	}
	for i := range gr.edges {
		e := gr.g.WeightedEdge(gr.ids[gr.edges[i].Source], gr.ids[gr.edges[i].Target])
		gr.edges[i].Iteration = int(e.Weight())
	}
	return gr
}

func (gr *Graph) addNode(h string, restrict map[string]bool) (int64, bool) {
	if h == model.NoMention {
		return 0, false
	}
	if restrict != nil && !restrict[h] {
		return 0, false
	}
	if id, ok := gr.ids[h]; ok {
		return id, true
	}
	id := int64(len(gr.handles))
	gr.ids[h] = id
	gr.handles = append(gr.handles, h)
	gr.g.AddNode(simple.Node(id))
	return id, true
}

// Len returns the node count.
func (gr *Graph) Len() int { return len(gr.handles) }

// Handles returns node handles in insertion order.
func (gr *Graph) Handles() []string { return append([]string(nil), gr.handles...) }

// Has reports whether h is a node.
func (gr *Graph) Has(h string) bool { _, ok := gr.ids[h]; return ok }

// Edges returns the non-self edges in first-appearance order with summed
// iterations.
func (gr *Graph) Edges() []model.Edge { return append([]model.Edge(nil), gr.edges...) }

// SelfLoop returns the self-mention count of h (0 when none).
func (gr *Graph) SelfLoop(h string) int { return gr.self[h] }

// Undirected projects the graph: u-v weight is the sum of both directions.
func (gr *Graph) Undirected() *simple.WeightedUndirectedGraph {
	ug := simple.NewWeightedUndirectedGraph(0, 0)
	for id := range gr.handles {
		ug.AddNode(simple.Node(int64(id)))
	}
	for _, e := range gr.edges {
		u, v := gr.ids[e.Source], gr.ids[e.Target]
		w := float64(e.Iteration)
		if prev := ug.WeightedEdge(u, v); prev != nil {
			w += prev.Weight()
		}
		ug.SetWeightedEdge(ug.NewWeightedEdge(simple.Node(u), simple.Node(v), w))
	}
	return ug
}
