package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"twinpics/internal/contextual"
	"twinpics/internal/model"
)

// ReadColumn reads the named column of a CSV with a header row, lowercased
// and trimmed, skipping blanks.
func ReadColumn(r io.Reader, source, column string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Source: source, Index: 0, Field: column, Reason: "empty file"}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, &SchemaError{Source: source, Index: 0, Field: column, Reason: "column not in header"}
	}
	var out []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		if col >= len(rec) {
			continue
		}
		if v := strings.ToLower(strings.TrimSpace(rec[col])); v != "" {
			out = append(out, v)
		}
	}
}

func readColumnFile(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadColumn(f, path, column)
}

// LoadKeywords reads the "keywords" column of path.
func LoadKeywords(path string) (map[string]bool, error) {
	words, err := readColumnFile(path, "keywords")
	if err != nil {
		return nil, err
	}
	return toSet(words, ""), nil
}

// LoadHashtags reads the "hashtags" column of path; every entry carries a
// leading '#'.
func LoadHashtags(path string) (map[string]bool, error) {
	tags, err := readColumnFile(path, "hashtags")
	if err != nil {
		return nil, err
	}
	return toSet(tags, "#"), nil
}

func toSet(vs []string, prefix string) map[string]bool {
	out := make(map[string]bool, len(vs))
	for _, v := range vs {
		if prefix != "" && !strings.HasPrefix(v, prefix) {
			v = prefix + v
		}
		out[v] = true
	}
	return out
}

// LoadCorpora loads both corpora concurrently.
func LoadCorpora(ctx context.Context, keywordsPath, hashtagsPath string) (contextual.Corpus, error) {
	var c contextual.Corpus
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		kw, err := LoadKeywords(keywordsPath)
		c.Keywords = kw
		return err
	})
	g.Go(func() error {
		ht, err := LoadHashtags(hashtagsPath)
		c.Hashtags = ht
		return err
	})
	if err := g.Wait(); err != nil {
		return contextual.Corpus{}, err
	}
	return c, nil
}

// GroupByAuthor splits msgs per author, most recent first. handles lists
// authors in first-appearance order.
func GroupByAuthor(msgs []model.Message) (handles []string, byAuthor map[string][]model.Message) {
	byAuthor = make(map[string][]model.Message)
	for _, m := range msgs {
		if _, ok := byAuthor[m.AuthorHandle]; !ok {
			handles = append(handles, m.AuthorHandle)
		}
		byAuthor[m.AuthorHandle] = append(byAuthor[m.AuthorHandle], m)
	}
	for _, h := range handles {
		ms := byAuthor[h]
		sort.SliceStable(ms, func(i, j int) bool { return ms[i].CreatedAt.After(ms[j].CreatedAt) })
	}
	return handles, byAuthor
}
