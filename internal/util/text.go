package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var hashtagRe = regexp.MustCompile(`#[A-Za-z0-9_]+`)

// Lower folds s to lower case after NFKC normalisation.
func Lower(s string) string {
	return cases.Lower(language.Und).String(norm.NFKC.String(s))
}

// IsLinkOrMention reports whether a whitespace token is a URL or a mention.
func IsLinkOrMention(tok string) bool {
	return strings.HasPrefix(tok, "http") || strings.HasPrefix(tok, "@")
}

// StripLinksAndMentions removes URL (prefix "http") and mention (prefix "@")
// tokens and rejoins the rest with single spaces.
func StripLinksAndMentions(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if IsLinkOrMention(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// DuplicateKey is the form under which two texts count as near-duplicates.
func DuplicateKey(s string) string {
	return StripLinksAndMentions(norm.NFKC.String(s))
}

// Tokenize lowercases s, drops URL and mention tokens, and splits the rest on
// whitespace and punctuation.
func Tokenize(s string) []string {
	s = StripLinksAndMentions(Lower(s))
	repl := strings.NewReplacer(
		",", " ", ".", " ", "!", " ", "?", " ", ":", " ", ";", " ",
		"\n", " ", "\t", " ", "\r", " ", "(", " ", ")", " ", "[", " ", "]", " ",
		"\"", " ", "¿", " ", "¡", " ", "…", " ", "“", " ", "”", " ",
	)
	s = repl.Replace(s)
	return strings.Fields(s)
}

// Hashtags returns the lowercased hashtags of s, leading '#' included.
func Hashtags(s string) []string {
	found := hashtagRe.FindAllString(s, -1)
	out := make([]string, 0, len(found))
	for _, h := range found {
		out = append(out, strings.ToLower(h))
	}
	return out
}
