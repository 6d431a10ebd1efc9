package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"twinpics/internal/model"
)

// tweetRecord accepts both the dump column names and the v1.1 API names.
type tweetRecord struct {
	IDStr         string      `json:"id_str"`
	CreatedAt     *string     `json:"created_at"`
	Text          *string     `json:"text"`
	FullText      *string     `json:"full_text"`
	Lang          *string     `json:"lang"`
	Favorites     *int        `json:"favorites"`
	FavoriteCount *int        `json:"favorite_count"`
	Retweets      *int        `json:"retweets"`
	RetweetCount  *int        `json:"retweet_count"`
	ReplyToID     string      `json:"in_reply_to_status_id_str"`
	ReplyToHandle string      `json:"in_reply_to_screen_name"`
	User          *userRecord `json:"user"`
}

type userRecord struct {
	ScreenName          *string `json:"screen_name"`
	Name                string  `json:"name"`
	CreatedAt           *string `json:"created_at"`
	Followees           *int    `json:"followees"`
	FriendsCount        *int    `json:"friends_count"`
	Followers           *int    `json:"followers"`
	FollowersCount      *int    `json:"followers_count"`
	StatusesCount       *int    `json:"statuses_count"`
	Description         *string `json:"description"`
	DefaultProfile      *bool   `json:"default_profile"`
	DefaultProfileImage *bool   `json:"default_profile_image"`
	ListedCount         *int    `json:"listed_count"`
	FavoritesCount      *int    `json:"favorites_count"`
	FavouritesCount     *int    `json:"favourites_count"`
	Verified            *bool   `json:"verified"`
}

// account flattens the nested user object, failing on the first missing
// profile field.
func (u *userRecord) account(source string, i int) (model.Account, error) {
	var acc model.Account
	if u.CreatedAt == nil {
		return acc, missing(source, i, "user.created_at")
	}
	created, err := ParseTime(*u.CreatedAt)
	if err != nil {
		return acc, &SchemaError{Source: source, Index: i, Field: "user.created_at", Reason: err.Error()}
	}
	ints := []struct {
		field string
		v     *int
	}{
		{"user.followees", firstInt(u.Followees, u.FriendsCount)},
		{"user.followers", firstInt(u.Followers, u.FollowersCount)},
		{"user.statuses_count", u.StatusesCount},
		{"user.listed_count", u.ListedCount},
		{"user.favorites_count", firstInt(u.FavoritesCount, u.FavouritesCount)},
	}
	for _, f := range ints {
		if f.v == nil {
			return acc, missing(source, i, f.field)
		}
	}
	bools := []struct {
		field string
		v     *bool
	}{
		{"user.default_profile", u.DefaultProfile},
		{"user.default_profile_image", u.DefaultProfileImage},
		{"user.verified", u.Verified},
	}
	for _, f := range bools {
		if f.v == nil {
			return acc, missing(source, i, f.field)
		}
	}
	if u.Description == nil {
		return acc, missing(source, i, "user.description")
	}
	return model.Account{
		Handle:          *u.ScreenName,
		DisplayName:     u.Name,
		Description:     *u.Description,
		CreatedAt:       created,
		Followers:       *ints[1].v,
		Followees:       *ints[0].v,
		StatusesCount:   *u.StatusesCount,
		HasDefaultImage: *u.DefaultProfileImage,
		DefaultProfile:  *u.DefaultProfile,
		HasEmptyBio:     model.EmptyBio(*u.Description),
		IsVerified:      *u.Verified,
		ListedCount:     *u.ListedCount,
		FavouriteCount:  *ints[4].v,
	}, nil
}

// Batch is a decoded corpus: messages in input order and one account per
// distinct author in first-appearance order.
type Batch struct {
	Messages []model.Message
	Accounts []model.Account
}

var timeLayouts = []string{
	time.RubyDate,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339Nano,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseTime accepts the timestamp layouts seen in Twitter dumps.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// DecodeTweets reads Twitter records from r. Any record without a required
// field fails the batch with a *SchemaError.
func DecodeTweets(r io.Reader, source string) (Batch, error) {
	var b Batch
	seen := make(map[string]bool)
	err := decodeRecords(r, source, func(i int, raw json.RawMessage) error {
		var rec tweetRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return &SchemaError{Source: source, Index: i, Field: "record", Reason: err.Error()}
		}
		msg, acc, err := rec.convert(source, i)
		if err != nil {
			return err
		}
		b.Messages = append(b.Messages, msg)
		if !seen[acc.Handle] {
			seen[acc.Handle] = true
			b.Accounts = append(b.Accounts, acc)
		}
		return nil
	})
	return b, err
}

// DecodeTweetsFile opens path and decodes it.
func DecodeTweetsFile(path string) (Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, err
	}
	defer f.Close()
	return DecodeTweets(f, path)
}

func (rec tweetRecord) convert(source string, i int) (model.Message, model.Account, error) {
	var msg model.Message
	var acc model.Account
	if rec.User == nil {
		return msg, acc, missing(source, i, "user")
	}
	if rec.User.ScreenName == nil || *rec.User.ScreenName == "" {
		return msg, acc, missing(source, i, "user.screen_name")
	}
	if rec.CreatedAt == nil {
		return msg, acc, missing(source, i, "created_at")
	}
	ts, err := ParseTime(*rec.CreatedAt)
	if err != nil {
		return msg, acc, &SchemaError{Source: source, Index: i, Field: "created_at", Reason: err.Error()}
	}
	text := firstString(rec.FullText, rec.Text)
	if text == nil {
		return msg, acc, missing(source, i, "text")
	}
	if rec.Lang == nil {
		return msg, acc, missing(source, i, "lang")
	}
	favs := firstInt(rec.Favorites, rec.FavoriteCount)
	if favs == nil {
		return msg, acc, missing(source, i, "favorites")
	}
	rts := firstInt(rec.Retweets, rec.RetweetCount)
	if rts == nil {
		return msg, acc, missing(source, i, "retweets")
	}

	u := rec.User
	handle := *u.ScreenName
	msg = model.Message{
		ID:                  rec.IDStr,
		AuthorHandle:        handle,
		Text:                *text,
		CreatedAt:           ts,
		Language:            *rec.Lang,
		IsRepost:            model.IsRepostText(*text),
		Favorites:           max(0, *favs),
		Reposts:             max(0, *rts),
		ReplyToMessageID:    rec.ReplyToID,
		ReplyToAuthorHandle: rec.ReplyToHandle,
	}
	acc, err = u.account(source, i)
	if err != nil {
		return model.Message{}, acc, err
	}
	return msg, acc, nil
}

func firstString(vs ...*string) *string {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstInt(vs ...*int) *int {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}
