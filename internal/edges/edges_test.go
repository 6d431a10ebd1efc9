package edges

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"twinpics/internal/model"
)

func msg(author, text string) model.Message {
	return model.Message{AuthorHandle: author, Text: text, IsRepost: model.IsRepostText(text)}
}

func TestSelfMention(t *testing.T) {
	got := Extract([]model.Message{msg("alice", "@alice hi")})
	assert.Equal(t, []model.Edge{{Source: "alice", Target: "alice", Iteration: 1}}, got)
}

func TestRepostChainTakesFirstMentionOnly(t *testing.T) {
	got := Extract([]model.Message{
		msg("bob", "RT @carol: foo @dave"),
		msg("bob", "RT @carol: bar"),
	})
	assert.Equal(t, []model.Edge{{Source: "bob", Target: "carol", Iteration: 2}}, got)
}

func TestNoMentionEmitsSentinel(t *testing.T) {
	got := Extract([]model.Message{msg("dan", "hello world")})
	assert.Equal(t, []model.Edge{{Source: "dan", Target: model.NoMention, Iteration: 1}}, got)
}

func TestMentionRules(t *testing.T) {
	assert.Equal(t, []string{"bob", "josé"}, Mentions("mail me at a@b.com @bob! @josé… @.,"))
	assert.Equal(t, []string{"ann"}, Mentions(`"@ann"`[1:]))
	assert.Empty(t, Mentions("@ @# @$"))
}

func TestMentionPunctuationTrimmedAtEndsOnly(t *testing.T) {
	assert.Equal(t, []string{"o'neil", "dan", "carol", "x.y"}, Mentions("@o'neil @'dan' @carol: @x.y?"))
	assert.Equal(t, []string{model.NoMention}, Targets("hi @... there"))
}

func TestAllMentionsCountForOwnMessages(t *testing.T) {
	got := Extract([]model.Message{
		msg("a", "@b @c hi"),
		msg("a", "@b again"),
		msg("x", "@a"),
	})
	assert.Equal(t, []model.Edge{
		{Source: "a", Target: "b", Iteration: 2},
		{Source: "a", Target: "c", Iteration: 1},
		{Source: "x", Target: "a", Iteration: 1},
	}, got)
}

func TestExtractIsIdempotent(t *testing.T) {
	in := []model.Message{msg("a", "@b"), msg("b", "RT @a: x"), msg("c", "nothing")}
	assert.Equal(t, Extract(in), Extract(in))
}

func TestFromReplies(t *testing.T) {
	in := []model.Message{
		{AuthorHandle: "a", ReplyToAuthorHandle: "b"},
		{AuthorHandle: "a", ReplyToAuthorHandle: "b"},
		{AuthorHandle: "b"},
	}
	assert.Equal(t, []model.Edge{
		{Source: "a", Target: "b", Iteration: 2},
		{Source: "b", Target: model.NoMention, Iteration: 1},
	}, FromReplies(in))
}
