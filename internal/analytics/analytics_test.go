package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twinpics/internal/model"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func at(day, hour, min int) time.Time {
	return time.Date(2024, 5, day, hour, min, 0, 0, time.UTC)
}

func post(author, text string, ts time.Time) model.Message {
	return model.Message{AuthorHandle: author, Text: text, CreatedAt: ts, IsRepost: model.IsRepostText(text)}
}

func TestTimelineIsDenseAndConserving(t *testing.T) {
	msgs := []model.Message{
		post("a", "one", at(1, 9, 0)),
		post("a", "two", at(4, 23, 59)),
		post("a", "three", at(4, 0, 1)),
		post("a", "four", at(6, 12, 0)),
	}
	tl := BuildTimeline(msgs)
	require.Len(t, tl, 6)
	for i := 1; i < len(tl); i++ {
		assert.Equal(t, tl[i-1].Date.AddDate(0, 0, -1), tl[i].Date)
	}
	assert.Equal(t, []int{1, 0, 2, 0, 0, 1}, Counts(tl))
	for _, b := range tl {
		sum := 0
		for _, h := range b.HourHistogram {
			sum += h
		}
		assert.Equal(t, b.Count, sum)
		assert.Len(t, b.Texts, b.Count)
		assert.Len(t, b.Times, b.Count)
	}
	assert.Equal(t, 1, tl[2].HourHistogram[23])
	assert.Equal(t, 1, tl[2].HourHistogram[0])
}

func TestTimelineBucketsByUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	ts := time.Date(2024, 5, 2, 1, 0, 0, 0, loc)
	tl := BuildTimeline([]model.Message{post("a", "x", ts)})
	require.Len(t, tl, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), tl[0].Date)
	assert.Equal(t, 1, tl[0].HourHistogram[22])
}

func TestTimelineMixedOffsetsStayOrdered(t *testing.T) {
	plus2 := time.FixedZone("UTC+2", 2*3600)
	tl := BuildTimeline([]model.Message{
		post("a", "x", time.Date(2024, 5, 2, 0, 30, 0, 0, plus2)),
		post("a", "y", time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)),
		post("a", "z", time.Date(2024, 5, 3, 9, 0, 0, 0, plus2)),
	})
	require.Len(t, tl, 3)
	for i := 1; i < len(tl); i++ {
		assert.Equal(t, tl[i-1].Date.AddDate(0, 0, -1), tl[i].Date, "bucket %d", i)
	}
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), tl[0].Date)
	assert.Equal(t, 0, tl[1].Count)
	assert.Equal(t, 2, tl[2].Count)
}

func TestEmptyTimeline(t *testing.T) {
	assert.Empty(t, BuildTimeline(nil))
	p := Featurize(model.Account{Handle: "z"}, nil, now, DefaultTrend)
	assert.Equal(t, 0, p.Features.NumUserTw)
	assert.Equal(t, model.TrendUndetermined, p.Features.Trend)
}

func TestRepostChainCounters(t *testing.T) {
	p := Featurize(model.Account{Handle: "bob"}, []model.Message{
		post("bob", "RT @carol: foo", at(1, 10, 0)),
		post("bob", "RT @carol: bar", at(1, 11, 0)),
	}, now, DefaultTrend)
	f := p.Features
	assert.Equal(t, 0, f.NumOwnTw)
	assert.Equal(t, 2, f.RT)
	assert.Equal(t, 2, f.NumUserTw)
	assert.Equal(t, 0.0, f.TwRTRate)
	assert.Equal(t, 0.0, f.IterFavRTRate)
	assert.Empty(t, p.Own)
	assert.Equal(t, 60.0, f.TimeBtwTw)
	assert.Equal(t, 0.0, f.Seasonality)
}

func TestOwnMessageCounters(t *testing.T) {
	p := Featurize(model.Account{Handle: "dan", Followers: 10, Followees: 5}, []model.Message{
		{AuthorHandle: "dan", Text: "hello world", CreatedAt: at(3, 10, 0), Favorites: 4, Reposts: 1},
		{AuthorHandle: "dan", Text: "@ann see http://x.y", CreatedAt: at(3, 9, 0), Favorites: 2, Reposts: 7},
		{AuthorHandle: "dan", Text: "hello world http://a.b", CreatedAt: at(3, 8, 30)},
		{AuthorHandle: "dan", Text: "RT @x: y", CreatedAt: at(3, 8, 0)},
	}, now, DefaultTrend)
	f := p.Features
	assert.Equal(t, 3, f.NumOwnTw)
	assert.Equal(t, 1, f.RT)
	assert.Equal(t, 4, f.NumUserTw)
	assert.Equal(t, 2, f.TweetsURL)
	assert.Equal(t, 1, f.Mentions)
	assert.Equal(t, 1, f.TwDuplicated)
	assert.Equal(t, []int{4, 2, 0}, f.FavoriteTweetList)
	assert.Equal(t, []int{1, 7, 0}, f.RetweetTweetList)
	assert.Equal(t, 6, f.FavoriteCount)
	assert.Equal(t, 8, f.RetweetCount)
	assert.Equal(t, 4, f.MaxFavTw)
	assert.Equal(t, 7, f.MaxRetTw)
	assert.Equal(t, 120.0, f.TimeBtwTw)
	assert.Equal(t, 60.0, f.MinuTwAnswer)
	assert.Equal(t, 0.5, f.FollowRate)
	assert.InDelta(t, 14.0/3.0, f.IterFavRTRate, 1e-9)
	assert.Equal(t, 0.75, f.TwRTRate)
	assert.Equal(t, 30.0, f.TimeTwRate)
	require.Len(t, f.TextTweets, 3)
	assert.False(t, f.TextTweets[0].IsRepost)
}

func TestTrendBurst(t *testing.T) {
	trend, anom := Trend([]int{3, 4, 5, 4, 3, 4, 5, 4, 3, 300}, DefaultTrend)
	assert.Equal(t, model.TrendBurst, trend)
	assert.Equal(t, 1, anom)
}

func TestTrendSustainedAndUndetermined(t *testing.T) {
	trend, anom := Trend([]int{5, 5, 5, 5, 5, 5}, DefaultTrend)
	assert.Equal(t, model.TrendSustained, trend)
	assert.Equal(t, 0, anom)

	trend, _ = Trend([]int{1, 2, 3, 4}, DefaultTrend)
	assert.Equal(t, model.TrendUndetermined, trend)
}

func TestFeaturizeTrendFromTimeline(t *testing.T) {
	counts := []int{3, 4, 5, 4, 3, 4, 5, 4, 3, 300}
	var msgs []model.Message
	for i, c := range counts {
		for j := 0; j < c; j++ {
			msgs = append(msgs, post("s", "x", time.Date(2024, 5, 20-i, 0, 0, j, 0, time.UTC)))
		}
	}
	f := Featurize(model.Account{Handle: "s"}, msgs, now, DefaultTrend).Features
	assert.Equal(t, counts, f.TwPerDayList)
	assert.Equal(t, 300, f.MaxTwDay)
	assert.Equal(t, 9, f.IndexMaxDayTw)
	assert.Equal(t, 10, f.DaysWithTw)
	assert.Equal(t, model.TrendBurst, f.Trend)
	assert.Equal(t, 1, f.NumAnom)
	assert.InDelta(t, 0.1, f.AnomRate, 1e-12)

	sum := 0
	for _, c := range f.TwPerDayList {
		sum += c
	}
	assert.Equal(t, f.NumUserTw, sum)
}

func TestFakeAccountSignals(t *testing.T) {
	acc := model.Account{
		Handle:          "user1234",
		HasDefaultImage: true,
		HasEmptyBio:     true,
		Followees:       model.ProbablyFakeLimit,
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f := Featurize(acc, nil, now, DefaultTrend).Features
	assert.Equal(t, 1, f.ScreenNameBot)
	assert.Equal(t, 3, f.FakeSum)
	assert.Equal(t, model.FakeAll, f.FakeType)
	assert.Equal(t, 1, f.ProbablyFake)
	assert.Equal(t, 1, f.TwitterYears)
}

func TestRatiosAreFinite(t *testing.T) {
	acc := model.Account{Handle: "q", StatusesCount: 10, Followees: 3}
	f := Featurize(acc, nil, now, DefaultTrend).Features
	for name, v := range map[string]float64{
		"tw_year_rate":     f.TwYearRate,
		"tw_RT_rate":       f.TwRTRate,
		"iter_fav_RT_rate": f.IterFavRTRate,
		"time_tw_rate":     f.TimeTwRate,
		"follow_rate":      f.FollowRate,
		"anom_rate":        f.AnomRate,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), name)
	}
	assert.Equal(t, 0.0, f.FollowRate)
	assert.Equal(t, 10.0, f.TwYearRate)
}
