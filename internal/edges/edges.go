// Package edges turns message bodies into directed (author -> mentioned)
// interaction edges.
package edges

import (
	"strings"

	"twinpics/internal/model"
)

// mentionPunct is trimmed from both ends of a mention token; punctuation
// inside the token is kept.
const mentionPunct = "[]'\"!?¿#$:….,"

// Mentions returns every mention handle in text, in order of appearance.
// A token is a mention iff it starts with '@' and is non-empty once the
// punctuation set is trimmed from its ends.
func Mentions(text string) []string {
	var out []string
	for _, tok := range strings.Fields(text) {
		if !strings.HasPrefix(tok, "@") {
			continue
		}
		h := strings.Trim(tok[1:], mentionPunct)
		if h == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Targets returns the interaction targets of one message: the reposted author
// for reposts, every mention otherwise, and NoMention when there are none.
func Targets(text string) []string {
	ms := Mentions(text)
	if len(ms) == 0 {
		return []string{model.NoMention}
	}
	if model.IsRepostText(text) {
		return ms[:1]
	}
	return ms
}

// Extract aggregates author->target pairs over msgs. Iteration counts how
// many messages by the author hit that target; edges come out in order of
// first appearance.
func Extract(msgs []model.Message) []model.Edge {
	agg := newAggregator()
	for _, m := range msgs {
		seen := make(map[string]bool)
		for _, t := range Targets(m.Text) {
			if seen[t] {
				continue
			}
			seen[t] = true
			agg.add(m.AuthorHandle, t)
		}
	}
	return agg.edges()
}

// FromReplies builds edges from reply links: author -> replied-to author.
// Messages that reply to nobody known emit NoMention.
func FromReplies(msgs []model.Message) []model.Edge {
	agg := newAggregator()
	for _, m := range msgs {
		agg.add(m.AuthorHandle, m.ReplyToAuthorHandle)
	}
	return agg.edges()
}

type pair struct{ src, dst string }

type aggregator struct {
	order  []pair
	counts map[pair]int
}

func newAggregator() *aggregator { return &aggregator{counts: make(map[pair]int)} }

func (a *aggregator) add(src, dst string) {
	p := pair{src, dst}
	if _, ok := a.counts[p]; !ok {
		a.order = append(a.order, p)
	}
	a.counts[p]++
}

func (a *aggregator) edges() []model.Edge {
	out := make([]model.Edge, 0, len(a.order))
	for _, p := range a.order {
		out = append(out, model.Edge{Source: p.src, Target: p.dst, Iteration: a.counts[p]})
	}
	return out
}
