package dupes

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"twinpics/internal/analytics"
	"twinpics/internal/logging"
	"twinpics/internal/model"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// profile builds an account with perDay own messages on each of days
// consecutive days ending 2024-05-20. shared texts are placed first.
func profile(handle string, days, perDay int, shared ...string) analytics.Profile {
	var msgs []model.Message
	n := 0
	for d := 0; d < days; d++ {
		for k := 0; k < perDay; k++ {
			text := fmt.Sprintf("%s unique %d", handle, n)
			if n < len(shared) {
				text = shared[n] + " http://t.co/" + handle
			}
			msgs = append(msgs, model.Message{
				AuthorHandle: handle,
				Text:         text,
				CreatedAt:    time.Date(2024, 5, 20-d, 8, k, 0, 0, time.UTC),
			})
			n++
		}
	}
	return analytics.Featurize(model.Account{Handle: handle}, msgs, now, analytics.DefaultTrend)
}

func TestDTW(t *testing.T) {
	assert.Equal(t, 0.0, DTW([]float64{10, 10, 10, 10}, []float64{10, 10, 10, 10}))
	assert.Equal(t, 0.0, DTW([]float64{1, 2, 3}, []float64{1, 2, 2, 3}))
	assert.Equal(t, 3.0, DTW([]float64{0, 0}, []float64{1, 2}))
	assert.Equal(t, DTW([]float64{5, 1, 9}, []float64{2, 8}), DTW([]float64{2, 8}, []float64{5, 1, 9}))
	assert.True(t, math.IsInf(DTW(nil, []float64{1}), 1))
	assert.Equal(t, 0.0, DTW(nil, nil))
}

func TestDuplicatePair(t *testing.T) {
	x := profile("X", 4, 10, "same words one", "same words two")
	y := profile("Y", 4, 10, "same words one", "same words two")
	require.Equal(t, []int{10, 10, 10, 10}, x.Features.TwPerDayList)
	require.Equal(t, 40, x.Features.NumUserTw)

	rep := Detect([]analytics.Profile{x, y}, DefaultOptions, nil)
	require.Len(t, rep.Pairs, 1)
	assert.Equal(t, 0.0, rep.Pairs[0].Distance)
	assert.InDelta(t, 0.05, rep.Pairs[0].Overlap, 1e-12)

	require.Len(t, rep.Groups, 1)
	g := rep.Groups[0]
	assert.Equal(t, []string{"X", "Y"}, g.Members)
	assert.Len(t, g.Dates, 4)
	assert.Equal(t, []Series{{"X", []int{10, 10, 10, 10}}, {"Y", []int{10, 10, 10, 10}}}, g.Series)
	require.Len(t, g.Common, 2)
	assert.Equal(t, "same words one", g.Common[0].Text)
	assert.Len(t, g.Common[0].Times["X"], 1)
	assert.Len(t, g.Common[0].Times["Y"], 1)

	assert.NotEmpty(t, rep.GroupOf("X"))
	assert.Equal(t, rep.GroupOf("X"), rep.GroupOf("Y"))
}

func TestPairOrderDoesNotMatter(t *testing.T) {
	x := profile("X", 4, 10, "a b")
	y := profile("Y", 4, 10, "a b")
	r1 := Detect([]analytics.Profile{x, y}, DefaultOptions, nil)
	r2 := Detect([]analytics.Profile{y, x}, DefaultOptions, nil)
	assert.Equal(t, r1.GroupOf("X"), r2.GroupOf("Y"))
	assert.Equal(t, r1.Groups[0].ID, r1.GroupOf("Y"))
}

func TestNoCommonTextMeansNoGroup(t *testing.T) {
	x := profile("X", 4, 10)
	y := profile("Y", 4, 10)
	rep := Detect([]analytics.Profile{x, y}, DefaultOptions, nil)
	assert.Empty(t, rep.Pairs)
	assert.Empty(t, rep.Groups)
	assert.Empty(t, rep.GroupOf("X"))
}

func TestDistantSeriesAreNotCandidates(t *testing.T) {
	x := profile("X", 4, 10, "a b")
	y := profile("Y", 4, 10, "a b")
	rep := Detect([]analytics.Profile{x, y}, Options{DTWThreshold: 0.5, OverlapThreshold: 0.9}, nil)
	assert.Empty(t, rep.Groups)
}

func TestGroupsAreTransitive(t *testing.T) {
	a := profile("A", 3, 5, "ab shared")
	b := profile("B", 3, 5, "ab shared", "bc shared")
	c := profile("C", 3, 5, "bc shared")
	rep := Detect([]analytics.Profile{a, b, c}, DefaultOptions, nil)
	assert.Len(t, rep.Pairs, 2)
	require.Len(t, rep.Groups, 1)
	assert.Equal(t, []string{"A", "B", "C"}, rep.Groups[0].Members)
	assert.Empty(t, rep.Groups[0].Common)
}

func TestEmptyTimelineIsSkipped(t *testing.T) {
	x := profile("X", 2, 1, "t")
	empty := analytics.Featurize(model.Account{Handle: "E"}, nil, now, analytics.DefaultTrend)
	core, logs := observer.New(zap.WarnLevel)
	rep := Detect([]analytics.Profile{x, empty}, DefaultOptions, logging.FromZap(zap.New(core)))
	assert.Equal(t, 1, rep.Skipped)
	assert.Empty(t, rep.Groups)
	assert.Equal(t, 1, logs.FilterMessage("dupes_pair_skipped").Len())
}

func TestAlignmentFillsUnionRange(t *testing.T) {
	a := profile("A", 2, 1, "t")
	msgs := []model.Message{
		{AuthorHandle: "B", Text: "t", CreatedAt: time.Date(2024, 5, 18, 1, 0, 0, 0, time.UTC)},
	}
	b := analytics.Featurize(model.Account{Handle: "B"}, msgs, now, analytics.DefaultTrend)
	g := buildGroup([]analytics.Profile{a, b})
	require.Len(t, g.Dates, 3)
	assert.Equal(t, []int{1, 1, 0}, g.Series[0].Counts)
	assert.Equal(t, []int{0, 0, 1}, g.Series[1].Counts)
}
