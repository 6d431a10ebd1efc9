package community

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
)

const eps = 1e-12

type neighbor struct {
	to int
	w  float64
}

// wgraph is the working graph of one Leiden level.
type wgraph struct {
	adj  [][]neighbor
	self []float64
	k    []float64
	m2   float64
}

func (g *wgraph) n() int { return len(g.adj) }

func fromGonum(ug *simple.WeightedUndirectedGraph) *wgraph {
	n := ug.Nodes().Len()
	maps := make([]map[int]float64, n)
	for i := range maps {
		maps[i] = make(map[int]float64)
	}
	it := ug.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge()
		u, v := int(e.From().ID()), int(e.To().ID())
		maps[u][v] += e.Weight()
		maps[v][u] += e.Weight()
	}
	return build(maps, make([]float64, n))
}

func build(maps []map[int]float64, self []float64) *wgraph {
	g := &wgraph{adj: make([][]neighbor, len(maps)), self: self, k: make([]float64, len(maps))}
	for v, m := range maps {
		nb := make([]neighbor, 0, len(m))
		for u, w := range m {
			nb = append(nb, neighbor{to: u, w: w})
			g.k[v] += w
		}
		sort.Slice(nb, func(i, j int) bool { return nb[i].to < nb[j].to })
		g.adj[v] = nb
		g.k[v] += 2 * self[v]
		g.m2 += g.k[v]
	}
	return g
}

// leiden runs local moving, refinement and aggregation until every community
// of a level is a single aggregate node.
func leiden(ug *simple.WeightedUndirectedGraph, gamma float64, maxIter int) ([]int, error) {
	g := fromGonum(ug)
	if g.m2 == 0 {
		return nil, ErrDegenerate
	}
	member := make([]int, g.n())
	comm := make([]int, g.n())
	for i := range member {
		member[i] = i
		comm[i] = i
	}
	for iter := 0; iter < maxIter; iter++ {
		localMove(g, comm, gamma)
		comm = canonical(comm)
		nComm := count(comm)
		if nComm == g.n() {
			out := make([]int, len(member))
			for i, m := range member {
				out[i] = comm[m]
			}
			return canonical(out), nil
		}
		refined := canonical(refine(g, comm, gamma))
		if count(refined) == g.n() {
			refined = comm
		}
		nRef := count(refined)
		next := make([]int, nRef)
		for v, r := range refined {
			next[r] = comm[v]
		}
		for i := range member {
			member[i] = refined[member[i]]
		}
		g = aggregate(g, refined, nRef)
		comm = next
	}
	return nil, ErrNotConverged
}

func count(labels []int) int {
	max := -1
	for _, l := range labels {
		if l > max {
			max = l
		}
	}
	return max + 1
}

// localMove greedily moves nodes to the neighbouring community with the best
// modularity gain, revisiting neighbours of moved nodes.
func localMove(g *wgraph, comm []int, gamma float64) bool {
	n := g.n()
	tot := make([]float64, n)
	size := make([]int, n)
	for v := 0; v < n; v++ {
		tot[comm[v]] += g.k[v]
		size[comm[v]]++
	}
	queue := make([]int, n)
	inQ := make([]bool, n)
	for v := range queue {
		queue[v] = v
		inQ[v] = true
	}
	moved := false
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		inQ[v] = false

		cur := comm[v]
		weights, order := neighborWeights(g, v, comm, nil)
		tot[cur] -= g.k[v]
		size[cur]--

		best := cur
		bestGain := weights[cur] - gamma*g.k[v]*tot[cur]/g.m2
		for _, c := range order {
			if c == cur {
				continue
			}
			if gain := weights[c] - gamma*g.k[v]*tot[c]/g.m2; gain > bestGain+eps {
				best, bestGain = c, gain
			}
		}
		if bestGain < -eps {
			for c := range size {
				if size[c] == 0 {
					best = c
					break
				}
			}
		}
		tot[best] += g.k[v]
		size[best]++
		if best == cur {
			continue
		}
		comm[v] = best
		moved = true
		for _, nb := range g.adj[v] {
			if comm[nb.to] != best && !inQ[nb.to] {
				queue = append(queue, nb.to)
				inQ[nb.to] = true
			}
		}
	}
	return moved
}

// neighborWeights sums edge weight from v into each label, optionally only
// over neighbours accepted by keep. order lists labels in ascending order.
func neighborWeights(g *wgraph, v int, labels []int, keep func(u int) bool) (map[int]float64, []int) {
	weights := make(map[int]float64)
	for _, nb := range g.adj[v] {
		if keep != nil && !keep(nb.to) {
			continue
		}
		weights[labels[nb.to]] += nb.w
	}
	order := make([]int, 0, len(weights))
	for c := range weights {
		order = append(order, c)
	}
	sort.Ints(order)
	return weights, order
}

// refine splits each community into sub-communities by merging singleton
// nodes into the best-connected sub-community of the same community.
func refine(g *wgraph, comm []int, gamma float64) []int {
	n := g.n()
	ref := make([]int, n)
	tot := make([]float64, n)
	size := make([]int, n)
	for v := 0; v < n; v++ {
		ref[v] = v
		tot[v] = g.k[v]
		size[v] = 1
	}
	for v := 0; v < n; v++ {
		if size[ref[v]] > 1 {
			continue
		}
		cv := comm[v]
		weights, order := neighborWeights(g, v, ref, func(u int) bool { return comm[u] == cv })
		best, bestGain := -1, 0.0
		for _, c := range order {
			if c == ref[v] {
				continue
			}
			if gain := weights[c] - gamma*g.k[v]*tot[c]/g.m2; gain > bestGain+eps {
				best, bestGain = c, gain
			}
		}
		if best < 0 {
			continue
		}
		old := ref[v]
		tot[old] -= g.k[v]
		size[old]--
		ref[v] = best
		tot[best] += g.k[v]
		size[best]++
	}
	return ref
}

// aggregate collapses nodes sharing a label into one node.
func aggregate(g *wgraph, labels []int, n2 int) *wgraph {
	maps := make([]map[int]float64, n2)
	for i := range maps {
		maps[i] = make(map[int]float64)
	}
	self := make([]float64, n2)
	for v := 0; v < g.n(); v++ {
		cv := labels[v]
		self[cv] += g.self[v]
		for _, nb := range g.adj[v] {
			cu := labels[nb.to]
			if cu == cv {
				self[cv] += nb.w / 2
				continue
			}
			maps[cv][cu] += nb.w
		}
	}
	return build(maps, self)
}
