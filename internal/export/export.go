// Package export renders the account graph as the JSON node/edge document.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"twinpics/internal/model"
)

// Node is one account row.
type Node struct {
	ScreenName          string  `json:"screen_name"`
	Community           string  `json:"community"`
	CommunityDegreeMean float64 `json:"community_degree_mean"`
	Followers           int     `json:"followers"`
	Following           int     `json:"following"`
	StatusesCount       int     `json:"statuses_count"`
	URL                 string  `json:"url"`
}

// Edge is one (source, target, iteration) row.
type Edge struct {
	ScreenName        string `json:"screen_name"`
	ScreenNameMention string `json:"screen_name_mention"`
	Iteration         string `json:"iteration"`
}

// Document is the exported graph.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Input is what Build joins together.
type Input struct {
	Platform   model.Platform
	Accounts   []model.Account
	Labels     map[string]int
	MeanDegree map[string]float64
	Edges      []model.Edge
}

// Build emits one node per account in account order and every edge whose
// endpoints are both nodes, in edge-table order.
func Build(in Input) Document {
	doc := Document{Nodes: make([]Node, 0, len(in.Accounts)), Edges: []Edge{}}
	known := make(map[string]bool, len(in.Accounts))
	for _, a := range in.Accounts {
		if known[a.Handle] {
			continue
		}
		known[a.Handle] = true
		doc.Nodes = append(doc.Nodes, Node{
			ScreenName:          a.Handle,
			Community:           strconv.Itoa(in.Labels[a.Handle]),
			CommunityDegreeMean: in.MeanDegree[a.Handle],
			Followers:           a.Followers,
			Following:           a.Followees,
			StatusesCount:       a.StatusesCount,
			URL:                 ProfileURL(in.Platform, a.Handle),
		})
	}
	for _, e := range in.Edges {
		if e.Target == model.NoMention || !known[e.Source] || !known[e.Target] {
			continue
		}
		doc.Edges = append(doc.Edges, Edge{
			ScreenName:        e.Source,
			ScreenNameMention: e.Target,
			Iteration:         strconv.Itoa(e.Iteration),
		})
	}
	return doc
}

// ProfileURL links a handle to its public profile.
func ProfileURL(p model.Platform, handle string) string {
	switch p {
	case model.Telegram:
		return "tg://user?id=" + url.QueryEscape(handle)
	default:
		return "https://twitter.com/" + url.PathEscape(handle)
	}
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteFile writes doc to path, creating parent directories.
func WriteFile(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}
