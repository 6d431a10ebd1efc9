package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TrendOptions configures the anomaly band.
type TrendOptions struct {
	// ZScore is the half-width of the normal band in standard deviations.
	ZScore float64
	// MinDays is the smallest dense timeline length that gets a trend.
	MinDays int
}

// DefaultTrend is the 90% band over at least five days.
var DefaultTrend = TrendOptions{ZScore: 1.64, MinDays: 5}

func (o TrendOptions) withDefaults() TrendOptions {
	if o.ZScore <= 0 {
		o.ZScore = DefaultTrend.ZScore
	}
	if o.MinDays <= 0 {
		o.MinDays = DefaultTrend.MinDays
	}
	return o
}

// Trend classifies a per-day count series. It returns 2 when there is too
// little history, 0 when the peak day falls outside the band
// [mean - z*sd, mean + z*sd], 1 otherwise, together with the number of
// days outside the band.
func Trend(counts []int, opts TrendOptions) (trend int, numAnom int) {
	opts = opts.withDefaults()
	if len(counts) < opts.MinDays {
		return 2, 0
	}
	x := make([]float64, len(counts))
	peak := 0
	for i, c := range counts {
		x[i] = float64(c)
		if c > peak {
			peak = c
		}
	}
	mean := stat.Mean(x, nil)
	sd := stat.StdDev(x, nil)
	if math.IsNaN(sd) {
		sd = 0
	}
	lo, hi := mean-opts.ZScore*sd, mean+opts.ZScore*sd
	anomalous := make(map[int]bool)
	for _, c := range counts {
		if v := float64(c); v < lo || v > hi {
			numAnom++
			anomalous[c] = true
		}
	}
	if anomalous[peak] {
		return 0, numAnom
	}
	return 1, numAnom
}
