package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"twinpics/internal/analytics"
	"twinpics/internal/audit"
	"twinpics/internal/contextual"
	"twinpics/internal/dupes"
	"twinpics/internal/edges"
	"twinpics/internal/export"
	"twinpics/internal/graph"
	"twinpics/internal/ingest"
	"twinpics/internal/logging"
	"twinpics/internal/model"
	"twinpics/internal/xclient"
)

// RunTwitter runs the full Twitter analysis over a decoded batch. Per-account
// problems are recorded in Result.Failures; only a cancelled context aborts.
func RunTwitter(ctx context.Context, d Deps, in ingest.Batch) (Result, error) {
	log := logging.OrNop(d.Log).With("platform", string(model.Twitter))
	res := Result{Labels: make(map[string][]string)}

	var es []model.Edge
	stage(log, "edges", func() []any {
		es = edges.Extract(in.Messages)
		return []any{"messages", len(in.Messages), "edges", len(es)}
	})
	res.Graph = buildGraph(log, in.Accounts, es)
	res.Nodes = res.Graph.AllMetrics()
	res.Communities = assignCommunities(log, d, res.Graph)

	_, byAuthor := ingest.GroupByAuthor(in.Messages)
	now := d.now()
	stage(log, "features", func() []any {
		for _, acc := range in.Accounts {
			res.Profiles = append(res.Profiles, featurize(res.Nodes, acc, byAuthor[acc.Handle], now, d.Trend))
		}
		return []any{"accounts", len(res.Profiles)}
	})

	stage(log, "audit", func() []any {
		suspects := 0
		for _, p := range res.Profiles {
			labels := audit.Classify(p.Features)
			res.Labels[p.Account.Handle] = labels
			if audit.IsSuspect(labels) {
				suspects++
			}
		}
		return []any{"suspects", suspects}
	})

	if err := secondPass(ctx, log, d, &res, byAuthor, now); err != nil {
		return res, err
	}

	stage(log, "dupes", func() []any {
		res.Duplicates = dupes.Detect(res.Profiles, d.Dupes, log)
		return []any{"pairs", len(res.Duplicates.Pairs), "groups", len(res.Duplicates.Groups), "skipped", res.Duplicates.Skipped}
	})

	an := contextual.NewAnalyzer(d.Corpus, d.Translator, d.Target, log)
	stage(log, "contextual", func() []any {
		for _, p := range res.Profiles {
			if !audit.IsSuspect(res.Labels[p.Account.Handle]) {
				continue
			}
			res.Contexts = append(res.Contexts, an.AnalyzeAccount(ctx, p.Account.Handle, byAuthor[p.Account.Handle]))
		}
		return []any{"accounts", len(res.Contexts)}
	})

	stage(log, "export", func() []any {
		res.Document = export.Build(export.Input{
			Platform:   model.Twitter,
			Accounts:   in.Accounts,
			Labels:     res.Communities.Labels,
			MeanDegree: res.Communities.MeanDegree,
			Edges:      es,
		})
		return []any{"nodes", len(res.Document.Nodes), "edges", len(res.Document.Edges)}
	})
	return res, ctx.Err()
}

// featurize builds an account's profile and joins in its graph metrics.
func featurize(nodes map[string]graph.NodeMetrics, acc model.Account, msgs []model.Message, now time.Time, opts analytics.TrendOptions) analytics.Profile {
	p := analytics.Featurize(acc, msgs, now, opts)
	if m, ok := nodes[acc.Handle]; ok {
		m.Join(&p.Features)
	}
	return p
}

// secondPass back-fills accounts that only lack history, then re-features and
// re-labels them. Accounts that stay undetermined or cannot be fetched are
// recorded as failures and so never reach contextual analysis.
func secondPass(ctx context.Context, log *logging.Logger, d Deps, res *Result, byAuthor map[string][]model.Message, now time.Time) error {
	var targets []int
	for i, p := range res.Profiles {
		if audit.OnlyMoreData(res.Labels[p.Account.Handle]) {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return nil
	}
	var abort error
	stage(log, "backfill", func() []any {
		recovered := 0
		for _, i := range targets {
			h := res.Profiles[i].Account.Handle
			if d.Fetcher == nil {
				res.fail(h, "backfill", "back-fill disabled")
				continue
			}
			more, _, err := xclient.Backfill(ctx, d.Fetcher, d.Ring, h, d.Backfill)
			if err != nil {
				if ctx.Err() != nil {
					abort = ctx.Err()
					break
				}
				if !errors.Is(err, xclient.ErrUnavailable) {
					err = fmt.Errorf("%w: %v", xclient.ErrUnavailable, err)
				}
				log.Warn("backfill_failed", "handle", h, "error", err.Error())
				res.fail(h, "backfill", err.Error())
				continue
			}
			merged := mergeMessages(byAuthor[h], more)
			byAuthor[h] = merged
			res.Profiles[i] = featurize(res.Nodes, res.Profiles[i].Account, merged, now, d.Trend)
			labels := audit.Classify(res.Profiles[i].Features)
			res.Labels[h] = labels
			if !audit.IsSuspect(labels) {
				res.fail(h, "backfill", "still undetermined after back-fill")
				continue
			}
			recovered++
		}
		return []any{"accounts", len(targets), "recovered", recovered}
	})
	return abort
}

// mergeMessages unions two message lists by ID, most recent first.
func mergeMessages(have, more []model.Message) []model.Message {
	seen := make(map[string]bool, len(have))
	out := append([]model.Message(nil), have...)
	for _, m := range have {
		if m.ID != "" {
			seen[m.ID] = true
		}
	}
	for _, m := range more {
		if m.ID != "" && seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return analytics.SortDesc(out)
}
