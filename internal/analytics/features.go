package analytics

import (
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"twinpics/internal/model"
	"twinpics/internal/util"
)

// OwnMessage is an account's own (non-repost) message as used for duplicate
// detection.
type OwnMessage struct {
	Text string
	Key  string
	Time time.Time
}

// Profile bundles everything derived from one account's messages.
type Profile struct {
	Account  model.Account
	Timeline model.Timeline
	Features model.Features
	Own      []OwnMessage
}

// Featurize builds the timeline and feature vector of acc from its messages.
// now fixes the reference year for account age.
func Featurize(acc model.Account, msgs []model.Message, now time.Time, opts TrendOptions) Profile {
	sorted := SortDesc(msgs)
	tl := BuildTimeline(sorted)
	f := model.Features{
		Handle:    acc.Handle,
		Verified:  acc.IsVerified,
		Followers: acc.Followers,
		Followees: acc.Followees,
	}
	p := Profile{Account: acc, Timeline: tl}

	gaps := make([]float64, 0, len(sorted))
	var answerGaps []float64
	seenKeys := make(map[string]bool)
	for i, m := range sorted {
		if i+1 < len(sorted) {
			older := sorted[i+1]
			gap := m.CreatedAt.Sub(older.CreatedAt).Minutes()
			gaps = append(gaps, gap)
			if !isMention(m) && isMention(older) {
				answerGaps = append(answerGaps, gap)
			}
		}
		if isRepost(m) {
			f.RT++
			continue
		}
		f.NumOwnTw++
		if strings.Contains(m.Text, "http") {
			f.TweetsURL++
		}
		if strings.Contains(m.Text, "@") {
			f.Mentions++
		}
		f.TextTweets = append(f.TextTweets, model.TextEntry{Text: m.Text, Language: m.Language})
		f.FavoriteTweetList = append(f.FavoriteTweetList, m.Favorites)
		f.RetweetTweetList = append(f.RetweetTweetList, m.Reposts)
		f.FavoriteCount += m.Favorites
		f.RetweetCount += m.Reposts
		f.MaxFavTw = max(f.MaxFavTw, m.Favorites)
		f.MaxRetTw = max(f.MaxRetTw, m.Reposts)

		key := util.DuplicateKey(m.Text)
		p.Own = append(p.Own, OwnMessage{Text: m.Text, Key: key, Time: m.CreatedAt})
		if key == "" {
			continue
		}
		if seenKeys[key] {
			f.TwDuplicated++
		}
		seenKeys[key] = true
	}
	f.NumUserTw = f.NumOwnTw + f.RT

	if len(gaps) > 1 {
		f.Seasonality = stat.StdDev(gaps, nil)
	}
	for _, g := range gaps {
		f.TimeBtwTw += g
	}
	if len(answerGaps) > 0 {
		f.MinuTwAnswer = stat.Mean(answerGaps, nil)
	}

	f.TwDayList = Dates(tl)
	f.TwPerDayList = Counts(tl)
	for i, c := range f.TwPerDayList {
		if c > 0 {
			f.DaysWithTw++
		}
		if c > f.MaxTwDay {
			f.MaxTwDay, f.IndexMaxDayTw = c, i
		}
	}

	f.TwitterYears = 1
	if !acc.CreatedAt.IsZero() {
		f.TwitterYears = max(1, now.Year()-acc.CreatedAt.Year()+1)
	}
	f.TwYearRate = ratio(float64(acc.StatusesCount), float64(f.TwitterYears))
	f.TwRTRate = ratio(float64(f.NumOwnTw), float64(f.NumUserTw))
	f.IterFavRTRate = ratio(float64(f.FavoriteCount+f.RetweetCount), float64(f.NumOwnTw))
	f.TimeTwRate = ratio(f.TimeBtwTw, float64(f.NumUserTw))
	f.FollowRate = ratio(float64(acc.Followees), float64(acc.Followers))

	digits := model.ScreenNameBot(acc.Handle)
	f.ScreenNameBot = model.B2I(digits)
	f.DefaultImage = model.B2I(acc.HasDefaultImage)
	f.EmptyBio = model.B2I(acc.HasEmptyBio)
	f.ProbablyFake = model.B2I(acc.Followees == model.ProbablyFakeLimit)
	f.FakeSum = f.DefaultImage + f.EmptyBio + f.ScreenNameBot
	f.FakeType = model.FakeType(acc.HasDefaultImage, acc.HasEmptyBio, digits)

	f.Trend, f.NumAnom = Trend(f.TwPerDayList, opts)
	f.AnomRate = ratio(float64(f.NumAnom), float64(f.DaysWithTw))

	p.Features = f
	return p
}

// ratio divides, resolving zero or non-finite results to 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func isMention(m model.Message) bool {
	return !isRepost(m) && strings.Contains(m.Text, "@")
}
