package jobs

import (
	"context"

	"twinpics/internal/analytics"
	"twinpics/internal/contextual"
	"twinpics/internal/edges"
	"twinpics/internal/export"
	"twinpics/internal/ingest"
	"twinpics/internal/logging"
	"twinpics/internal/model"
)

// RunTelegram builds the reply graph of a Telegram dump and scores every
// author's messages, translating them to the target language first.
func RunTelegram(ctx context.Context, d Deps, in ingest.Batch) (Result, error) {
	log := logging.OrNop(d.Log).With("platform", string(model.Telegram))
	res := Result{Labels: make(map[string][]string)}

	var es []model.Edge
	stage(log, "edges", func() []any {
		es = edges.FromReplies(in.Messages)
		return []any{"messages", len(in.Messages), "edges", len(es)}
	})
	res.Graph = buildGraph(log, in.Accounts, es)
	res.Nodes = res.Graph.AllMetrics()
	res.Communities = assignCommunities(log, d, res.Graph)

	// no timeline features on Telegram; profiles carry the account and its
	// graph metrics only
	for _, acc := range in.Accounts {
		f := model.Features{Handle: acc.Handle, Followers: acc.Followers, Followees: acc.Followees}
		if m, ok := res.Nodes[acc.Handle]; ok {
			m.Join(&f)
		}
		res.Profiles = append(res.Profiles, analytics.Profile{Account: acc, Features: f})
	}

	handles, byAuthor := ingest.GroupByAuthor(in.Messages)
	an := contextual.NewAnalyzer(d.Corpus, d.Translator, d.Target, log)
	stage(log, "contextual", func() []any {
		skipped := 0
		for _, h := range handles {
			if ctx.Err() != nil {
				break
			}
			r := an.AnalyzeAccount(ctx, h, byAuthor[h])
			if r.Skipped > 0 {
				skipped += r.Skipped
				res.fail(h, "contextual", "untranslated messages counted as activity only")
			}
			res.Contexts = append(res.Contexts, r)
		}
		return []any{"accounts", len(res.Contexts), "untranslated", skipped}
	})

	stage(log, "export", func() []any {
		res.Document = export.Build(export.Input{
			Platform:   model.Telegram,
			Accounts:   in.Accounts,
			Labels:     res.Communities.Labels,
			MeanDegree: res.Communities.MeanDegree,
			Edges:      es,
		})
		return []any{"nodes", len(res.Document.Nodes), "edges", len(res.Document.Edges)}
	})
	return res, ctx.Err()
}
