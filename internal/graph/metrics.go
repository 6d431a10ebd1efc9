package graph

import "twinpics/internal/model"

// NodeMetrics are the degree statistics of one node.
type NodeMetrics struct {
	Handle            string  `json:"screen_name"`
	InDegree          int     `json:"in_degree"`
	OutDegree         int     `json:"out_degree"`
	Degree            int     `json:"degree"`
	InCentrality      float64 `json:"in_degree_centrality"`
	OutCentrality     float64 `json:"out_degree_centrality"`
	DegreeCentrality  float64 `json:"degree_centrality"`
	SelfLoop          bool    `json:"self_loop"`
	SelfLoopIteration int     `json:"self_loop_iteration"`
}

// Metrics computes the metrics of h. ok is false when h is not a node.
func (gr *Graph) Metrics(h string) (NodeMetrics, bool) {
	id, ok := gr.ids[h]
	if !ok {
		return NodeMetrics{}, false
	}
	in := gr.g.To(id).Len()
	out := gr.g.From(id).Len()
	m := NodeMetrics{
		Handle:            h,
		InDegree:          in,
		OutDegree:         out,
		Degree:            in + out,
		SelfLoop:          gr.self[h] > 0,
		SelfLoopIteration: gr.self[h],
	}
	if n := len(gr.handles); n > 1 {
		norm := float64(n - 1)
		m.InCentrality = float64(in) / norm
		m.OutCentrality = float64(out) / norm
		m.DegreeCentrality = float64(in+out) / norm
	}
	return m, true
}

// AllMetrics returns the metrics of every node keyed by handle.
func (gr *Graph) AllMetrics() map[string]NodeMetrics {
	out := make(map[string]NodeMetrics, len(gr.handles))
	for _, h := range gr.handles {
		m, _ := gr.Metrics(h)
		out[h] = m
	}
	return out
}

// Join copies the node metrics into a feature row.
func (m NodeMetrics) Join(f *model.Features) {
	f.InDegree = m.InDegree
	f.OutDegree = m.OutDegree
	f.Degree = m.Degree
	f.InCentrality = m.InCentrality
	f.OutCentrality = m.OutCentrality
	f.DegreeCentrality = m.DegreeCentrality
	f.SelfLoop = m.SelfLoop
	f.SelfLoopIteration = m.SelfLoopIteration
}
