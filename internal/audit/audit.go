// Package audit labels accounts with abnormal-behaviour categories from their
// feature vectors.
package audit

import "twinpics/internal/model"

// Labels.
const (
	OldSpreader      = "Old Spreader"
	LRTHI            = "LRT_HI"
	HRTSD            = "HRT_SD"
	Influencer       = "Influencer"
	ConstantSpreader = "Constant Spreader"
	NPHA             = "NP_HA"
	FakeBehaviour    = "Fake Behaviour"
	InfluLDHI        = "Influ_LD_HI"
	Bot              = "BOT"
	MoreData         = "More Data"
	No               = "No"
)

type rule struct {
	label string
	match func(f model.Features) bool
}

func viral(f model.Features) bool { return f.MaxRetTw > 500 || f.MaxFavTw > 500 }

// rules are evaluated in order; verified accounts never match.
var rules = []rule{
	{OldSpreader, func(f model.Features) bool { return f.IndexMaxDayTw >= 30 && f.MaxTwDay > 60 }},
	{LRTHI, func(f model.Features) bool {
		return f.Trend == model.TrendBurst && f.MaxTwDay < 40 && f.TwRTRate < 0.2 && viral(f)
	}},
	{HRTSD, func(f model.Features) bool {
		return f.Trend == model.TrendBurst && f.MaxTwDay > 150 && f.TwRTRate < 0.1
	}},
	{Influencer, func(f model.Features) bool {
		return f.Trend == model.TrendSustained && f.InDegree >= 5 && f.Followers >= 3000
	}},
	{ConstantSpreader, func(f model.Features) bool {
		return f.Trend == model.TrendSustained && f.OutDegree >= 2 && f.Followees >= 3000
	}},
	{NPHA, func(f model.Features) bool {
		return f.Trend == model.TrendUndetermined && f.TwitterYears == 1 && f.MaxTwDay > 210
	}},
	{FakeBehaviour, func(f model.Features) bool { return f.Trend == model.TrendUndetermined && f.FakeSum >= 2 }},
	{InfluLDHI, func(f model.Features) bool {
		return f.Trend == model.TrendUndetermined && viral(f) && f.MaxTwDay > 210
	}},
	{Bot, func(f model.Features) bool { return f.MaxTwDay > 288 }},
	{MoreData, func(f model.Features) bool { return f.Trend == model.TrendUndetermined && f.MaxTwDay > 180 }},
}

// Classify returns every matching label in rule order, or just No.
func Classify(f model.Features) []string {
	var out []string
	if !f.Verified {
		for _, r := range rules {
			if r.match(f) {
				out = append(out, r.label)
			}
		}
	}
	if len(out) == 0 {
		return []string{No}
	}
	return out
}

// OnlyMoreData reports whether labels ask for more history and nothing else.
func OnlyMoreData(labels []string) bool {
	return len(labels) == 1 && labels[0] == MoreData
}

// IsSuspect reports whether labels carry a category worth contextual analysis.
func IsSuspect(labels []string) bool {
	for _, l := range labels {
		if l != No && l != MoreData {
			return true
		}
	}
	return false
}
