// Package analytics turns an account's messages into a dense daily timeline
// and the behavioural feature vector derived from it.
package analytics

import (
	"sort"
	"time"

	"twinpics/internal/model"
)

// SortDesc returns a copy of msgs ordered most recent first.
func SortDesc(msgs []model.Message) []model.Message {
	out := append([]model.Message(nil), msgs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Day returns the UTC calendar day of t. Every timeline buckets in UTC so
// that messages carrying different offsets still sort into one day order.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildTimeline buckets msgs per calendar day, most recent first, and fills
// every missing day between the newest and oldest with an empty bucket.
func BuildTimeline(msgs []model.Message) model.Timeline {
	sorted := SortDesc(msgs)
	var sparse model.Timeline
	for _, m := range sorted {
		day := Day(m.CreatedAt)
		if len(sparse) == 0 || !sparse[len(sparse)-1].Date.Equal(day) {
			sparse = append(sparse, model.DailyBucket{Date: day})
		}
		b := &sparse[len(sparse)-1]
		b.Count++
		b.Texts = append(b.Texts, model.TextEntry{Text: m.Text, Language: m.Language, IsRepost: isRepost(m)})
		b.Times = append(b.Times, m.CreatedAt)
		b.HourHistogram[m.CreatedAt.UTC().Hour()]++
	}
	return densify(sparse)
}

func densify(sparse model.Timeline) model.Timeline {
	if len(sparse) == 0 {
		return nil
	}
	dense := make(model.Timeline, 0, len(sparse))
	for i, b := range sparse {
		dense = append(dense, b)
		if i+1 == len(sparse) {
			break
		}
		for d := b.Date.AddDate(0, 0, -1); d.After(sparse[i+1].Date); d = d.AddDate(0, 0, -1) {
			dense = append(dense, model.DailyBucket{Date: d})
		}
	}
	return dense
}

// Counts returns the per-bucket message counts.
func Counts(tl model.Timeline) []int {
	out := make([]int, len(tl))
	for i, b := range tl {
		out[i] = b.Count
	}
	return out
}

// Dates returns the bucket dates.
func Dates(tl model.Timeline) []time.Time {
	out := make([]time.Time, len(tl))
	for i, b := range tl {
		out[i] = b.Date
	}
	return out
}

func isRepost(m model.Message) bool { return m.IsRepost || model.IsRepostText(m.Text) }
