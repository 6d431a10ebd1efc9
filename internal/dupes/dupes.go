// Package dupes finds accounts whose daily activity and own texts are close
// enough to be the same operator.
package dupes

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"twinpics/internal/analytics"
	"twinpics/internal/logging"
)

// Options holds the two duplicate thresholds.
type Options struct {
	// DTWThreshold bounds the warping distance of candidate pairs.
	DTWThreshold float64
	// OverlapThreshold is the minimum share of common texts over num_userTw.
	OverlapThreshold float64
}

var DefaultOptions = Options{DTWThreshold: 12600, OverlapThreshold: 3e-5}

// Pair is a confirmed duplicate pair.
type Pair struct {
	A, B     string
	Distance float64
	Overlap  float64
}

// Series is one member's per-day counts aligned on the group's date range.
type Series struct {
	Handle string
	Counts []int
}

// CommonText is a text every member of a group published, with each
// member's publication times.
type CommonText struct {
	Text  string
	Times map[string][]time.Time
}

// Group is a transitively closed set of duplicate accounts.
type Group struct {
	ID      string
	Members []string
	Dates   []time.Time
	Series  []Series
	Common  []CommonText
}

// Report is the detector output.
type Report struct {
	Pairs   []Pair
	Groups  []Group
	Skipped int
}

// groupNamespace seeds group IDs so a member set always maps to the same ID.
var groupNamespace = uuid.MustParse("6f1c2b1e-5d0a-4c57-9a43-2d1f0c7be6a1")

// Detect compares every pair of profiles. A pair is a candidate when the DTW
// distance of their per-day counts is under the threshold, and confirmed when
// the share of common own texts exceeds the overlap threshold in either
// direction. Pairs with a non-finite distance are skipped.
func Detect(profiles []analytics.Profile, opts Options, log *logging.Logger) Report {
	log = logging.OrNop(log)
	if opts.DTWThreshold <= 0 {
		opts.DTWThreshold = DefaultOptions.DTWThreshold
	}
	if opts.OverlapThreshold <= 0 {
		opts.OverlapThreshold = DefaultOptions.OverlapThreshold
	}

	keys := make([]map[string]bool, len(profiles))
	series := make([][]float64, len(profiles))
	for i, p := range profiles {
		keys[i] = keySet(p)
		series[i] = floats(p.Features.TwPerDayList)
	}

	var rep Report
	uf := newUnionFind(len(profiles))
	for i := range profiles {
		for j := i + 1; j < len(profiles); j++ {
			a, b := profiles[i].Features.Handle, profiles[j].Features.Handle
			if a == b {
				continue
			}
			d := DTW(series[i], series[j])
			if math.IsNaN(d) || math.IsInf(d, 0) {
				rep.Skipped++
				log.Warn("dupes_pair_skipped", "a", a, "b", b, "distance", d)
				continue
			}
			if d >= opts.DTWThreshold {
				continue
			}
			common := intersect(keys[i], keys[j])
			ov := math.Max(share(len(common), profiles[i].Features.NumUserTw), share(len(common), profiles[j].Features.NumUserTw))
			if ov <= opts.OverlapThreshold {
				continue
			}
			rep.Pairs = append(rep.Pairs, Pair{A: a, B: b, Distance: d, Overlap: ov})
			uf.union(i, j)
		}
	}

	byRoot := make(map[int][]int)
	var roots []int
	for i := range profiles {
		r := uf.find(i)
		if uf.size[r] < 2 {
			continue
		}
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], i)
	}
	for _, r := range roots {
		members := make([]analytics.Profile, 0, len(byRoot[r]))
		for _, i := range byRoot[r] {
			members = append(members, profiles[i])
		}
		rep.Groups = append(rep.Groups, buildGroup(members))
	}
	return rep
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func keySet(p analytics.Profile) map[string]bool {
	out := make(map[string]bool, len(p.Own))
	for _, o := range p.Own {
		if o.Key != "" {
			out[o.Key] = true
		}
	}
	return out
}

func intersect(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func buildGroup(members []analytics.Profile) Group {
	g := Group{}
	for _, m := range members {
		g.Members = append(g.Members, m.Features.Handle)
	}
	sorted := append([]string(nil), g.Members...)
	sort.Strings(sorted)
	g.ID = uuid.NewSHA1(groupNamespace, []byte(strings.Join(sorted, "\x00"))).String()

	var newest, oldest time.Time
	for _, m := range members {
		if len(m.Timeline) == 0 {
			continue
		}
		first, last := m.Timeline[0].Date, m.Timeline[len(m.Timeline)-1].Date
		if newest.IsZero() || first.After(newest) {
			newest = first
		}
		if oldest.IsZero() || last.Before(oldest) {
			oldest = last
		}
	}
	if !newest.IsZero() {
		for d := newest; !d.Before(oldest); d = d.AddDate(0, 0, -1) {
			g.Dates = append(g.Dates, d)
		}
	}
	for _, m := range members {
		byDate := make(map[int64]int, len(m.Timeline))
		for _, b := range m.Timeline {
			byDate[b.Date.Unix()] = b.Count
		}
		counts := make([]int, len(g.Dates))
		for i, d := range g.Dates {
			counts[i] = byDate[d.Unix()]
		}
		g.Series = append(g.Series, Series{Handle: m.Features.Handle, Counts: counts})
	}

	shared := keySet(members[0])
	for _, m := range members[1:] {
		ks := keySet(m)
		for k := range shared {
			if !ks[k] {
				delete(shared, k)
			}
		}
	}
	keys := make([]string, 0, len(shared))
	for k := range shared {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ct := CommonText{Text: k, Times: make(map[string][]time.Time, len(members))}
		for _, m := range members {
			for _, o := range m.Own {
				if o.Key == k {
					ct.Times[m.Features.Handle] = append(ct.Times[m.Features.Handle], o.Time)
				}
			}
		}
		g.Common = append(g.Common, ct)
	}
	return g
}

type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
		u.size[i] = 1
	}
	return u
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}

// GroupOf returns the ID of the group containing handle, or "".
func (r Report) GroupOf(handle string) string {
	for _, g := range r.Groups {
		for _, m := range g.Members {
			if m == handle {
				return g.ID
			}
		}
	}
	return ""
}
