package contextual

import (
	"math"
	"strings"
)

const maxWordLen = 24

// Segmenter splits glued tokens such as hashtags back into known words.
type Segmenter struct {
	vocab map[string]bool
}

// NewSegmenter builds a segmenter over words; the lexicon vocabulary is
// always included.
func NewSegmenter(words ...[]string) *Segmenter {
	s := &Segmenter{vocab: make(map[string]bool)}
	for w := range lexicon() {
		s.vocab[w] = true
	}
	for _, ws := range words {
		for _, w := range ws {
			if w = strings.TrimPrefix(strings.ToLower(w), "#"); w != "" {
				s.vocab[w] = true
			}
		}
	}
	return s
}

// Split returns the fewest known words covering token, with runs of unknown
// characters kept together as one piece. A leading '#' is dropped.
func (s *Segmenter) Split(token string) []string {
	r := []rune(strings.TrimPrefix(strings.ToLower(token), "#"))
	if len(r) == 0 {
		return nil
	}
	const unknownCost = 10.0
	cost := make([]float64, len(r)+1)
	from := make([]int, len(r)+1)
	known := make([]bool, len(r)+1)
	for i := 1; i <= len(r); i++ {
		cost[i] = math.Inf(1)
		for j := max(0, i-maxWordLen); j < i; j++ {
			if s.vocab[string(r[j:i])] && cost[j]+1 < cost[i] {
				cost[i], from[i], known[i] = cost[j]+1, j, true
			}
		}
		if cost[i-1]+unknownCost < cost[i] {
			cost[i], from[i], known[i] = cost[i-1]+unknownCost, i-1, false
		}
	}

	var pieces []string
	var unknown []rune
	for i := len(r); i > 0; i = from[i] {
		if known[i] {
			if len(unknown) > 0 {
				pieces = append(pieces, reverse(unknown))
				unknown = unknown[:0]
			}
			pieces = append(pieces, string(r[from[i]:i]))
			continue
		}
		unknown = append(unknown, r[i-1])
	}
	if len(unknown) > 0 {
		pieces = append(pieces, reverse(unknown))
	}
	for i, j := 0, len(pieces)-1; i < j; i, j = i+1, j-1 {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	}
	return pieces
}

// reverse turns runes collected back to front into a string.
func reverse(rs []rune) string {
	out := make([]rune, len(rs))
	for i, c := range rs {
		out[len(rs)-1-i] = c
	}
	return string(out)
}
