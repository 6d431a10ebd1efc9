package community

import (
	"gonum.org/v1/gonum/graph"
	gcommunity "gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	tgraph "twinpics/internal/graph"
	"twinpics/internal/logging"
	"twinpics/internal/metrics"
	"twinpics/internal/model"
)

// Result is the outcome of a community assignment.
type Result struct {
	Algorithm   Algorithm
	Labels      map[string]int
	Communities []model.Community
	// MeanDegree maps each handle to the mean degree of its community.
	MeanDegree map[string]float64
	Modularity float64
	Fallback   bool
}

// Assign labels every node of g. On a degenerate graph or a failure to
// converge it falls back to one community labelled 0 and logs a warning.
func Assign(g *tgraph.Graph, alg Algorithm, nodeCount int, opts Options, log *logging.Logger) Result {
	log = logging.OrNop(log)
	res := Result{Algorithm: alg.Resolve(nodeCount, opts)}
	ug := g.Undirected()

	labels, err := alg.Apply(ug, nodeCount, opts)
	if err != nil {
		log.Warn("community_fallback", "algorithm", res.Algorithm.String(), "nodes", g.Len(), "error", err.Error())
		metrics.CommunityFallbacks.Inc()
		labels = make([]int, g.Len())
		res.Fallback = true
	}

	handles := g.Handles()
	res.Labels = make(map[string]int, len(handles))
	res.MeanDegree = make(map[string]float64, len(handles))
	byLabel := make(map[int]*model.Community)
	var order []int
	for id, h := range handles {
		l := labels[id]
		res.Labels[h] = l
		c, ok := byLabel[l]
		if !ok {
			c = &model.Community{Label: l}
			byLabel[l] = c
			order = append(order, l)
		}
		c.Members = append(c.Members, h)
	}
	for _, l := range order {
		c := byLabel[l]
		sum := 0
		for _, h := range c.Members {
			m, _ := g.Metrics(h)
			sum += m.Degree
		}
		c.MeanDegree = float64(sum) / float64(len(c.Members))
		for _, h := range c.Members {
			res.MeanDegree[h] = c.MeanDegree
		}
		res.Communities = append(res.Communities, *c)
	}
	res.Modularity = modularity(ug, labels, opts.withDefaults().Resolution)
	log.Info("communities_assigned", "algorithm", res.Algorithm.String(), "nodes", len(handles),
		"communities", len(res.Communities), "modularity", res.Modularity, "fallback", res.Fallback)
	return res
}

func modularity(ug *simple.WeightedUndirectedGraph, labels []int, gamma float64) float64 {
	if len(labels) == 0 || ug.Edges().Len() == 0 {
		return 0
	}
	groups := make(map[int][]graph.Node)
	var order []int
	for id, l := range labels {
		if _, ok := groups[l]; !ok {
			order = append(order, l)
		}
		groups[l] = append(groups[l], simple.Node(int64(id)))
	}
	parts := make([][]graph.Node, 0, len(order))
	for _, l := range order {
		parts = append(parts, groups[l])
	}
	return gcommunity.Q(ug, parts, gamma)
}
