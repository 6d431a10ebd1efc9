package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twinpics/internal/model"
)

const tweetLine = `{"created_at":"Wed Oct 10 20:19:24 +0000 2018","text":"RT @carol: foo","lang":"en","favorites":0,"retweets":3,
"user":{"screen_name":"bob","created_at":"Wed Oct 10 20:19:24 +0000 2012","followees":2001,"followers":12,"statuses_count":40,
"description":"","default_profile":true,"default_profile_image":true,"listed_count":1,"favorites_count":9,"verified":false}}`

func TestDecodeTweetsLines(t *testing.T) {
	in := tweetLine + "\n" + strings.Replace(tweetLine, "RT @carol: foo", "hello", 1) + "\n"
	b, err := DecodeTweets(strings.NewReader(in), "tweets.jsonl")
	require.NoError(t, err)
	require.Len(t, b.Messages, 2)
	require.Len(t, b.Accounts, 1)

	m := b.Messages[0]
	assert.Equal(t, "bob", m.AuthorHandle)
	assert.True(t, m.IsRepost)
	assert.False(t, b.Messages[1].IsRepost)
	assert.Equal(t, 3, m.Reposts)
	assert.Equal(t, time.Date(2018, 10, 10, 20, 19, 24, 0, time.UTC), m.CreatedAt.UTC())

	a := b.Accounts[0]
	assert.Equal(t, 2001, a.Followees)
	assert.True(t, a.HasEmptyBio)
	assert.True(t, a.HasDefaultImage)
	assert.Equal(t, 9, a.FavouriteCount)
	assert.Equal(t, 2012, a.CreatedAt.Year())
}

func TestDecodeTweetsArrayWithAPINames(t *testing.T) {
	in := `[{"created_at":"2024-05-01T10:00:00Z","full_text":"@x hi","text":"short","lang":"es",
	"favorite_count":4,"retweet_count":1,"in_reply_to_screen_name":"x",
	"user":{"screen_name":"ana","created_at":"Tue Mar 21 20:50:14 +0000 2006","friends_count":7,"followers_count":8,
	"statuses_count":3,"description":"bio","default_profile":false,"default_profile_image":false,
	"listed_count":0,"favourites_count":5,"verified":true}}]`
	b, err := DecodeTweets(strings.NewReader(in), "api")
	require.NoError(t, err)
	require.Len(t, b.Messages, 1)
	assert.Equal(t, "@x hi", b.Messages[0].Text)
	assert.Equal(t, "x", b.Messages[0].ReplyToAuthorHandle)
	a := b.Accounts[0]
	assert.Equal(t, 7, a.Followees)
	assert.Equal(t, 8, a.Followers)
	assert.Equal(t, 5, a.FavouriteCount)
	assert.Equal(t, 2006, a.CreatedAt.Year())
	assert.True(t, a.IsVerified)
	assert.False(t, a.HasEmptyBio)
}

func TestSchemaErrorMissingProfileField(t *testing.T) {
	cases := map[string]string{
		`"created_at":"Wed Oct 10 20:19:24 +0000 2012",`: "user.created_at",
		`"followees":2001,`:                              "user.followees",
		`"followers":12,`:                                "user.followers",
		`"statuses_count":40,`:                           "user.statuses_count",
		`"description":"",`:                              "user.description",
		`"default_profile":true,`:                        "user.default_profile",
		`"default_profile_image":true,`:                  "user.default_profile_image",
		`"listed_count":1,`:                              "user.listed_count",
		`"favorites_count":9,`:                           "user.favorites_count",
		`,"verified":false`:                              "user.verified",
	}
	for drop, field := range cases {
		in := strings.Replace(tweetLine, drop, "", 1)
		require.NotEqual(t, tweetLine, in, field)
		_, err := DecodeTweets(strings.NewReader(in), "tweets.jsonl")
		var se *SchemaError
		require.ErrorAs(t, err, &se, field)
		assert.Equal(t, field, se.Field)
	}

	_, err := DecodeTweets(strings.NewReader(`{"created_at":"2024-05-01T10:00:00Z","text":"hi","lang":"en","favorites":0,"retweets":0,"user":{"screen_name":"bob"}}`), "s")
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "user.created_at", se.Field)
}

func TestSchemaErrorBadAccountDate(t *testing.T) {
	in := strings.Replace(tweetLine, "Wed Oct 10 20:19:24 +0000 2012", "someday", 1)
	_, err := DecodeTweets(strings.NewReader(in), "tweets.jsonl")
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "user.created_at", se.Field)
}

func TestSchemaErrorPointsAtRecord(t *testing.T) {
	bad := strings.Replace(tweetLine, `"lang":"en",`, "", 1)
	_, err := DecodeTweets(strings.NewReader(tweetLine+"\n"+bad), "tweets.jsonl")
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Index)
	assert.Equal(t, "lang", se.Field)
	assert.Contains(t, err.Error(), "tweets.jsonl: record 1: lang")
}

func TestSchemaErrorMissingUser(t *testing.T) {
	_, err := DecodeTweets(strings.NewReader(`{"created_at":"x","text":"t"}`), "s")
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "user", se.Field)
}

func TestEmptyInput(t *testing.T) {
	b, err := DecodeTweets(strings.NewReader("  \n"), "s")
	require.NoError(t, err)
	assert.Empty(t, b.Messages)
}

func TestDecodeTelegram(t *testing.T) {
	parts := `[{"_id":1,"first_name":"Ann","last_name":"Lee"},{"_id":2,"first_name":"Bo","last_name":""}]`
	msgs := `{"_id":10,"from_id":{"user_id":1},"message":"hola","date":"2024-05-01T10:00:00Z"}
{"_id":11,"from_id":{"user_id":2},"reply_to":{"reply_to_msg_id":10},"message":"que tal"}
{"_id":12,"from_id":{"user_id":3},"reply_to":{"reply_to_msg_id":99},"message":"?"}`
	b, err := DecodeTelegram(strings.NewReader(msgs), "m", strings.NewReader(parts), "p")
	require.NoError(t, err)
	require.Len(t, b.Messages, 3)
	assert.Equal(t, "1", b.Messages[1].ReplyToAuthorHandle)
	assert.Equal(t, "10", b.Messages[1].ReplyToMessageID)
	assert.Equal(t, model.NoMention, b.Messages[2].ReplyToAuthorHandle)
	require.Len(t, b.Accounts, 3)
	assert.Equal(t, "Ann Lee", b.Accounts[0].DisplayName)
	assert.Equal(t, "3", b.Accounts[2].Handle)
}

func TestDecodeTelegramSchema(t *testing.T) {
	_, err := DecodeTelegram(strings.NewReader(`{"_id":10,"message":"x"}`), "m", nil, "")
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "from_id.user_id", se.Field)
}

func TestDecodeTelegramParticipantNames(t *testing.T) {
	msgs := `{"_id":10,"from_id":{"user_id":1},"message":"hola"}`
	b, err := DecodeTelegram(strings.NewReader(msgs), "m", strings.NewReader(`[{"_id":1,"first_name":"Ann","last_name":null}]`), "p")
	require.NoError(t, err)
	assert.Equal(t, "Ann", b.Accounts[0].DisplayName)

	for _, parts := range map[string]string{
		"first_name": `[{"_id":1,"last_name":"Lee"}]`,
		"last_name":  `[{"_id":1,"first_name":"Ann"},{"_id":2}]`,
	} {
		_, err := DecodeTelegram(strings.NewReader(msgs), "m", strings.NewReader(parts), "p")
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 0, se.Index)
		assert.Equal(t, "p", se.Source)
	}

	_, err = DecodeTelegram(strings.NewReader(msgs), "m", strings.NewReader(`[{"_id":1,"first_name":"Ann"}]`), "p")
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "last_name", se.Field)
}

func TestLoadCorpora(t *testing.T) {
	dir := t.TempDir()
	kw := filepath.Join(dir, "k.csv")
	ht := filepath.Join(dir, "h.csv")
	require.NoError(t, os.WriteFile(kw, []byte("id,keywords\n1, Jihad \n2,\n3,bomb\n"), 0o644))
	require.NoError(t, os.WriteFile(ht, []byte("hashtags\n#Caliphate\nisis\n"), 0o644))

	c, err := LoadCorpora(context.Background(), kw, ht)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"jihad": true, "bomb": true}, c.Keywords)
	assert.Equal(t, map[string]bool{"#caliphate": true, "#isis": true}, c.Hashtags)

	_, err = LoadCorpora(context.Background(), ht, ht)
	var se *SchemaError
	assert.ErrorAs(t, err, &se)
}

func TestGroupByAuthor(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	handles, by := GroupByAuthor([]model.Message{
		{AuthorHandle: "b", CreatedAt: t0},
		{AuthorHandle: "a", CreatedAt: t0},
		{AuthorHandle: "b", CreatedAt: t0.Add(time.Hour)},
	})
	assert.Equal(t, []string{"b", "a"}, handles)
	require.Len(t, by["b"], 2)
	assert.True(t, by["b"][0].CreatedAt.After(by["b"][1].CreatedAt))
}
