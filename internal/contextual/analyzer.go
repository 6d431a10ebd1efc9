// Package contextual scores messages against a keyword corpus and a hashtag
// corpus and buckets the suggestive ones by sentiment.
package contextual

import (
	"context"
	"strings"

	"twinpics/internal/logging"
	"twinpics/internal/model"
	"twinpics/internal/translate"
	"twinpics/internal/util"
)

// Refined labels for suggestive messages.
const (
	NegativeOpinion = "Negative opinion"
	NegativeFact    = "Negative fact"
	Neutral         = "Neutral"
	PositiveFact    = "Positive fact"
	PositiveOpinion = "Positive opinion"
)

// Undetermined is the language assigned when translation fails.
const Undetermined = "und"

// Label buckets a polarity/subjectivity pair.
func Label(polarity, subjectivity float64) string {
	switch {
	case polarity <= -0.1 && subjectivity >= 0.6:
		return NegativeOpinion
	case polarity <= -0.1:
		return NegativeFact
	case polarity < 0.1:
		return Neutral
	case subjectivity <= 0.5:
		return PositiveFact
	default:
		return PositiveOpinion
	}
}

// Corpus is the keyword and hashtag vocabulary messages are scored against.
// Hashtags keep their leading '#'.
type Corpus struct {
	Keywords map[string]bool
	Hashtags map[string]bool
}

// MessageResult is the contextual reading of one message.
type MessageResult struct {
	Text              string   `json:"text"`
	Language          string   `json:"language"`
	Translated        string   `json:"translated,omitempty"`
	Skipped           bool     `json:"skipped"`
	Polarity          float64  `json:"polarity"`
	Subjectivity      float64  `json:"subjectivity"`
	KeywordScore      float64  `json:"keyword_score"`
	Hashtags          []string `json:"hashtags"`
	HashtagScore      int      `json:"hashtag_score"`
	Suggestion        bool     `json:"terrorist_suggestion"`
	Label             string   `json:"label,omitempty"`
	KeywordSimilarity float64  `json:"keyword_similarity"`
	HashtagSimilarity float64  `json:"hashtag_similarity"`
}

// AccountResult rolls up an account's own messages. The five fractions are
// shares of the suggestive messages and sum to 1 when Suggested > 0.
type AccountResult struct {
	Handle          string          `json:"screen_name"`
	Messages        int             `json:"messages"`
	Skipped         int             `json:"skipped"`
	Suggested       int             `json:"suggested"`
	NegativeOpinion float64         `json:"negative_opinion"`
	NegativeFact    float64         `json:"negative_fact"`
	Neutral         float64         `json:"neutral"`
	PositiveFact    float64         `json:"positive_fact"`
	PositiveOpinion float64         `json:"positive_opinion"`
	Details         []MessageResult `json:"details,omitempty"`
}

// Analyzer scores messages. Translator may be nil, in which case texts are
// analysed as they are.
type Analyzer struct {
	Corpus     Corpus
	Translator translate.Translator
	// Target is the language texts are translated to before scoring.
	Target string

	seg      *Segmenter
	keywords map[string]float64
	log      *logging.Logger
}

// NewAnalyzer prepares an analyzer for corpus.
func NewAnalyzer(corpus Corpus, tr translate.Translator, target string, log *logging.Logger) *Analyzer {
	if target == "" {
		target = "en"
	}
	kw := make([]string, 0, len(corpus.Keywords))
	for k := range corpus.Keywords {
		kw = append(kw, k)
	}
	return &Analyzer{
		Corpus:     corpus,
		Translator: tr,
		Target:     target,
		seg:        NewSegmenter(kw),
		keywords:   setVector(corpus.Keywords),
		log:        logging.OrNop(log),
	}
}

// AnalyzeMessage scores one message. A failed translation marks the message
// Undetermined and Skipped with no scores.
func (a *Analyzer) AnalyzeMessage(ctx context.Context, msg model.Message) MessageResult {
	res := MessageResult{Text: msg.Text, Language: msg.Language}
	text := msg.Text
	if a.needsTranslation(msg.Language) {
		out, err := a.Translator.Translate(ctx, msg.Text, a.Target)
		if err != nil {
			a.log.Warn("translation_failed", "author", msg.AuthorHandle, "id", msg.ID, "error", err.Error())
			res.Language = Undetermined
			res.Skipped = true
			return res
		}
		res.Translated = out
		text = out
	}

	res.Polarity, res.Subjectivity = Sentiment(text)

	tokens := util.Tokenize(text)
	if len(tokens) > 0 {
		hits := 0
		for _, t := range tokens {
			if a.Corpus.Keywords[t] {
				hits++
			}
		}
		res.KeywordScore = float64(hits) / float64(len(tokens))
	}
	res.KeywordSimilarity = Cosine(TermCounts(tokens), a.keywords)

	res.Hashtags = util.Hashtags(msg.Text)
	var pieces []string
	for _, h := range res.Hashtags {
		if a.Corpus.Hashtags[h] {
			res.HashtagScore++
		}
		pieces = append(pieces, a.seg.Split(h)...)
	}
	res.HashtagSimilarity = Cosine(TermCounts(pieces), a.keywords)

	res.Suggestion = res.KeywordScore > 0 || res.HashtagScore > 0
	if res.Suggestion {
		res.Label = Label(res.Polarity, res.Subjectivity)
	}
	return res
}

func (a *Analyzer) needsTranslation(lang string) bool {
	if a.Translator == nil {
		return false
	}
	lang = strings.ToLower(lang)
	return lang != strings.ToLower(a.Target) && !strings.HasPrefix(lang, strings.ToLower(a.Target)+"-")
}

// AnalyzeAccount scores the own (non-repost) messages of one account.
func (a *Analyzer) AnalyzeAccount(ctx context.Context, handle string, msgs []model.Message) AccountResult {
	out := AccountResult{Handle: handle}
	counts := make(map[string]int, 5)
	for _, m := range msgs {
		if m.IsRepost || model.IsRepostText(m.Text) {
			continue
		}
		out.Messages++
		r := a.AnalyzeMessage(ctx, m)
		out.Details = append(out.Details, r)
		if r.Skipped {
			out.Skipped++
			continue
		}
		if r.Suggestion {
			out.Suggested++
			counts[r.Label]++
		}
	}
	if out.Suggested > 0 {
		n := float64(out.Suggested)
		out.NegativeOpinion = float64(counts[NegativeOpinion]) / n
		out.NegativeFact = float64(counts[NegativeFact]) / n
		out.Neutral = float64(counts[Neutral]) / n
		out.PositiveFact = float64(counts[PositiveFact]) / n
		out.PositiveOpinion = float64(counts[PositiveOpinion]) / n
	}
	return out
}
