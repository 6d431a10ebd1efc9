package contextual

import (
	_ "embed"
	"math"
	"strconv"
	"strings"
	"sync"

	"twinpics/internal/util"
)

//go:embed lexicon.tsv
var lexiconTSV string

type entry struct {
	polarity, subjectivity, intensity float64
}

var (
	lexOnce sync.Once
	lex     map[string]entry
)

var negations = map[string]bool{"not": true, "no": true, "never": true, "nunca": true, "ni": true}

func lexicon() map[string]entry {
	lexOnce.Do(func() {
		lex = make(map[string]entry)
		for _, line := range strings.Split(lexiconTSV, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			f := strings.Split(line, "\t")
			if len(f) != 4 {
				continue
			}
			p, err1 := strconv.ParseFloat(f[1], 64)
			s, err2 := strconv.ParseFloat(f[2], 64)
			i, err3 := strconv.ParseFloat(f[3], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				continue
			}
			lex[f[0]] = entry{p, s, i}
		}
	})
	return lex
}

// Sentiment scores text with the embedded lexicon. Polarity lies in [-1, 1]
// and subjectivity in [0, 1]; both are averages over the assessed words.
// A negation flips and halves the next assessed word, an intensifier
// multiplies it. Texts without lexicon words score 0, 0.
func Sentiment(text string) (polarity, subjectivity float64) {
	words := lexicon()
	var ps, ss []float64
	negate := false
	boost := 1.0
	for _, tok := range util.Tokenize(text) {
		if negations[tok] || strings.HasSuffix(tok, "n't") {
			negate = true
			continue
		}
		e, ok := words[tok]
		if !ok {
			continue
		}
		if e.intensity != 1 {
			boost *= e.intensity
			continue
		}
		p, s := e.polarity*boost, e.subjectivity*boost
		if negate {
			p *= -0.5
		}
		ps = append(ps, p)
		ss = append(ss, s)
		negate, boost = false, 1.0
	}
	if len(ps) == 0 {
		return 0, 0
	}
	return clamp(mean(ps), -1, 1), clamp(mean(ss), 0, 1)
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
