package model

import "time"

// Features is the per-account feature vector produced from a timeline and
// joined with graph metrics. JSON names follow the column names used in the
// tabular dump.
type Features struct {
	Handle string `json:"screen_name"`

	Seasonality   float64 `json:"seasonality"`
	TimeBtwTw     float64 `json:"time_btw_tw"`
	MinuTwAnswer  float64 `json:"minu_tw_answer"`
	TweetsURL     int     `json:"tweets_url"`
	Mentions      int     `json:"mentions"`
	NumOwnTw      int     `json:"num_ownTw"`
	RT            int     `json:"RT"`
	NumUserTw     int     `json:"num_userTw"`
	TwDuplicated  int     `json:"tw_duplicated"`
	FavoriteCount int     `json:"favorite_tweets_count"`
	RetweetCount  int     `json:"retweet_tweets_count"`
	MaxFavTw      int     `json:"max_fav_tw"`
	MaxRetTw      int     `json:"max_ret_tw"`

	TextTweets        []TextEntry `json:"text_tweets"`
	FavoriteTweetList []int       `json:"favorite_tweets_list"`
	RetweetTweetList  []int       `json:"retweet_tweets_list"`
	TwDayList         []time.Time `json:"tw_day_list"`
	TwPerDayList      []int       `json:"tw_per_day_list"`

	TwitterYears   int     `json:"twitter_years"`
	TwYearRate     float64 `json:"tw_year_rate"`
	TwRTRate       float64 `json:"tw_RT_rate"`
	IterFavRTRate  float64 `json:"iter_fav_RT_rate"`
	TimeTwRate     float64 `json:"time_tw_rate"`
	FollowRate     float64 `json:"follow_rate"`
	MaxTwDay       int     `json:"max_tw_day"`
	IndexMaxDayTw  int     `json:"index_max_day_tw"`
	DaysWithTw     int     `json:"days_with_tw"`
	ScreenNameBot  int     `json:"screen_name_bot"`
	ProbablyFake   int     `json:"probably_fake"`
	DefaultImage   int     `json:"default_profile_image"`
	EmptyBio       int     `json:"has_empty_bio"`
	FakeSum        int     `json:"fake_sum"`
	FakeType       string  `json:"fake_type"`
	Trend          int     `json:"trend"`
	NumAnom        int     `json:"num_anom"`
	AnomRate       float64 `json:"anom_rate"`

	// Account and graph attributes joined in before classification.
	Verified  bool `json:"verified"`
	Followers int  `json:"followers"`
	Followees int  `json:"following"`
	InDegree  int  `json:"in_degree"`
	OutDegree int  `json:"out_degree"`

	Degree            int     `json:"degree"`
	InCentrality      float64 `json:"in_degree_centrality"`
	OutCentrality     float64 `json:"out_degree_centrality"`
	DegreeCentrality  float64 `json:"degree_centrality"`
	SelfLoop          bool    `json:"self_loop"`
	SelfLoopIteration int     `json:"self_loop_iteration"`
}

// Trend values.
const (
	TrendBurst        = 0
	TrendSustained    = 1
	TrendUndetermined = 2
)
