package contextual

import "math"

// Cosine is the cosine similarity of two term-count vectors, 0 when either
// is empty.
func Cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, x := range a {
		dot += x * b[k]
		na += x * x
	}
	for _, y := range b {
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TermCounts counts each term.
func TermCounts(terms []string) map[string]float64 {
	out := make(map[string]float64, len(terms))
	for _, t := range terms {
		out[t]++
	}
	return out
}

func setVector(set map[string]bool) map[string]float64 {
	out := make(map[string]float64, len(set))
	for k := range set {
		out[k] = 1
	}
	return out
}
