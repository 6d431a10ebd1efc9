// Package community partitions the interaction graph into labelled
// communities.
package community

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
)

// Algorithm selects the partitioning method.
type Algorithm int

const (
	Auto Algorithm = iota
	GirvanNewman
	Leiden
)

var (
	// ErrDegenerate means the graph has no edges to partition on.
	ErrDegenerate = errors.New("community: degenerate graph")
	// ErrNotConverged means the iteration cap was hit.
	ErrNotConverged = errors.New("community: did not converge")
)

func (a Algorithm) String() string {
	switch a {
	case GirvanNewman:
		return "girvan_newman"
	case Leiden:
		return "leiden"
	default:
		return "auto"
	}
}

// ParseAlgorithm maps a config value to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "girvan_newman", "girvan-newman", "gn":
		return GirvanNewman, nil
	case "leiden":
		return Leiden, nil
	}
	return Auto, fmt.Errorf("unknown community algorithm %q", s)
}

// Options tunes the algorithms. Zero values take defaults.
type Options struct {
	AutoThreshold int
	Level         int
	Resolution    float64
	MaxIterations int
}

func (o Options) withDefaults() Options {
	if o.AutoThreshold <= 0 {
		o.AutoThreshold = 1000
	}
	if o.Level <= 0 {
		o.Level = 2
	}
	if o.Resolution <= 0 {
		o.Resolution = 1
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 32
	}
	return o
}

// Resolve turns Auto into a concrete algorithm for nodeCount nodes.
func (a Algorithm) Resolve(nodeCount int, opts Options) Algorithm {
	if a != Auto {
		return a
	}
	if nodeCount < opts.withDefaults().AutoThreshold {
		return GirvanNewman
	}
	return Leiden
}

// Apply partitions ug and returns one community label per node ID, labels
// numbered by the smallest node ID they contain.
func (a Algorithm) Apply(ug *simple.WeightedUndirectedGraph, nodeCount int, opts Options) ([]int, error) {
	opts = opts.withDefaults()
	switch a.Resolve(nodeCount, opts) {
	case GirvanNewman:
		return girvanNewman(ug, opts.Level)
	default:
		return leiden(ug, opts.Resolution, opts.MaxIterations)
	}
}

// canonical relabels so that labels appear in increasing order of node ID.
func canonical(labels []int) []int {
	next := 0
	seen := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		c, ok := seen[l]
		if !ok {
			c = next
			seen[l] = c
			next++
		}
		out[i] = c
	}
	return out
}
