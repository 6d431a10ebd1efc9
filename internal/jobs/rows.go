package jobs

import (
	"twinpics/internal/contextual"
	"twinpics/internal/model"
	"twinpics/internal/store/featuredb"
)

// Rows flattens a run into one dump row per exported node.
func (r Result) Rows() []featuredb.AccountRow {
	byHandle := make(map[string]*contextual.AccountResult, len(r.Contexts))
	for i := range r.Contexts {
		byHandle[r.Contexts[i].Handle] = &r.Contexts[i]
	}
	feats := make(map[string]model.Features, len(r.Profiles))
	for _, p := range r.Profiles {
		feats[p.Account.Handle] = p.Features
	}
	out := make([]featuredb.AccountRow, 0, len(r.Document.Nodes))
	for _, n := range r.Document.Nodes {
		f, ok := feats[n.ScreenName]
		if !ok {
			f.Handle = n.ScreenName
			if m, ok := r.Nodes[n.ScreenName]; ok {
				m.Join(&f)
			}
		}
		out = append(out, featuredb.AccountRow{
			Handle:    n.ScreenName,
			Community: r.Communities.Labels[n.ScreenName],
			Labels:    r.Labels[n.ScreenName],
			Features:  f,
			Context:   byHandle[n.ScreenName],
		})
	}
	return out
}
