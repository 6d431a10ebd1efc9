// Package jobs wires the analysis stages into the Twitter and Telegram runs.
package jobs

import (
	"time"

	"twinpics/internal/analytics"
	"twinpics/internal/community"
	"twinpics/internal/config"
	"twinpics/internal/contextual"
	"twinpics/internal/dupes"
	"twinpics/internal/export"
	"twinpics/internal/graph"
	"twinpics/internal/logging"
	"twinpics/internal/metrics"
	"twinpics/internal/model"
	"twinpics/internal/translate"
	"twinpics/internal/xclient"
)

// Deps carries the collaborators and tunables of a run.
type Deps struct {
	Log *logging.Logger
	// Fetcher and Ring back-fill history for More Data accounts; a nil
	// Fetcher disables the second pass.
	Fetcher  xclient.Fetcher
	Ring     *xclient.Ring
	Backfill xclient.BackfillOptions

	Corpus     contextual.Corpus
	Translator translate.Translator
	Target     string

	Algorithm community.Algorithm
	Community community.Options
	Trend     analytics.TrendOptions
	Dupes     dupes.Options

	Now func() time.Time
}

// DepsFromConfig fills the tunables of Deps from cfg.
func DepsFromConfig(cfg config.Config, log *logging.Logger) (Deps, error) {
	alg, err := community.ParseAlgorithm(cfg.Community.Algorithm)
	if err != nil {
		return Deps{}, err
	}
	return Deps{
		Log: log,
		Backfill: xclient.BackfillOptions{
			MaxAttempts: cfg.Backfill.MaxAttempts,
			PageSize:    cfg.Backfill.PageSize,
			Log:         log,
		},
		Target:    cfg.Translation.Target,
		Algorithm: alg,
		Community: community.Options{
			AutoThreshold: cfg.Community.AutoThreshold,
			Level:         cfg.Community.GirvanNewmanLevel,
			Resolution:    cfg.Community.Resolution,
			MaxIterations: cfg.Community.MaxIterations,
		},
		Trend: analytics.TrendOptions{ZScore: cfg.Trend.ZScore, MinDays: cfg.Trend.MinDays},
		Dupes: dupes.Options{DTWThreshold: cfg.Duplicates.DTWThreshold, OverlapThreshold: cfg.Duplicates.OverlapThreshold},
	}, nil
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Result is everything a run produces.
type Result struct {
	Document    export.Document
	Graph       *graph.Graph
	Nodes       map[string]graph.NodeMetrics
	Communities community.Result
	Profiles    []analytics.Profile
	Labels      map[string][]string
	Duplicates  dupes.Report
	Contexts    []contextual.AccountResult
	Failures    []Failure
}

// stage times f under name and logs its completion.
func stage(log *logging.Logger, name string, f func() []any) {
	start := time.Now()
	kv := f()
	metrics.ObserveStage(name, start)
	log.Info("stage_done", append([]any{"stage", name, "took", time.Since(start).String()}, kv...)...)
}

func buildGraph(log *logging.Logger, accounts []model.Account, es []model.Edge) *graph.Graph {
	var g *graph.Graph
	stage(log, "graph", func() []any {
		seed := make([]string, 0, len(accounts))
		known := make(map[string]bool, len(accounts))
		for _, a := range accounts {
			seed = append(seed, a.Handle)
			known[a.Handle] = true
		}
		g = graph.Build(es, graph.Options{Seed: seed, Restrict: known})
		return []any{"nodes", g.Len(), "edges", len(g.Edges())}
	})
	return g
}

func assignCommunities(log *logging.Logger, d Deps, g *graph.Graph) community.Result {
	var res community.Result
	stage(log, "community", func() []any {
		res = community.Assign(g, d.Algorithm, g.Len(), d.Community, log)
		return []any{"communities", len(res.Communities)}
	})
	return res
}
