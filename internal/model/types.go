package model

import (
	"strings"
	"time"
)

// NoMention is the target used for messages that mention nobody, so the
// author still shows up as an edge source. It can never be a real handle
// because mention tokens are non-empty after stripping.
const NoMention = ""

// Platform identifies where a corpus came from.
type Platform string

const (
	Twitter  Platform = "twitter"
	Telegram Platform = "telegram"
)

// Message is one social-media post.
type Message struct {
	ID                  string
	AuthorHandle        string
	Text                string
	CreatedAt           time.Time
	Language            string
	IsRepost            bool
	Favorites           int
	Reposts             int
	ReplyToMessageID    string
	ReplyToAuthorHandle string
}

// Account is one social-media identity.
type Account struct {
	Handle          string
	DisplayName     string
	Description     string
	CreatedAt       time.Time
	Followers       int
	Followees       int
	StatusesCount   int
	HasDefaultImage bool
	DefaultProfile  bool
	HasEmptyBio     bool
	IsVerified      bool
	ListedCount     int
	FavouriteCount  int
}

// Edge is a directed interaction from Source to Target, repeated Iteration times.
type Edge struct {
	Source    string
	Target    string
	Iteration int
}

// TextEntry is one message body kept inside a daily bucket.
type TextEntry struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	IsRepost bool   `json:"is_repost"`
}

// DailyBucket holds the activity of one account on one calendar day.
type DailyBucket struct {
	Date          time.Time
	Count         int
	Texts         []TextEntry
	Times         []time.Time
	HourHistogram [24]int
}

// Timeline is a dense, most-recent-first sequence of daily buckets.
type Timeline []DailyBucket

// Community is a set of handles sharing a label.
type Community struct {
	Label      int
	Members    []string
	MeanDegree float64
}

// IsRepostText reports whether a raw body is a repost ("RT " prefix).
func IsRepostText(text string) bool {
	return strings.HasPrefix(text, "RT ")
}
