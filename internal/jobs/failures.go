package jobs

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"twinpics/internal/metrics"
)

// Failure records an account that was dropped or degraded by a stage.
type Failure struct {
	Handle string
	Stage  string
	Reason string
}

func (r *Result) fail(handle, stage, reason string) {
	metrics.IncAccountFailure(stage)
	r.Failures = append(r.Failures, Failure{Handle: handle, Stage: stage, Reason: reason})
}

// WriteFailureSummary prints failures grouped by stage.
func WriteFailureSummary(w io.Writer, fs []Failure) error {
	if len(fs) == 0 {
		_, err := fmt.Fprintln(w, "no account failures")
		return err
	}
	sorted := append([]Failure(nil), fs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Stage < sorted[j].Stage })
	if _, err := fmt.Fprintf(w, "%d account failure(s)\n", len(fs)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tACCOUNT\tREASON")
	for _, f := range sorted {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Stage, f.Handle, f.Reason)
	}
	return tw.Flush()
}
