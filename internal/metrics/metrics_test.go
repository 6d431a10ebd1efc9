package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposure(t *testing.T) {
	ObserveStage("edges", time.Now().Add(-1500*time.Millisecond))
	IncAccountFailure("backfill")
	IncFetchOutcome("rate_limited")
	CommunityFallbacks.Inc()
	IncCommandRun("twitter")
	IncCommandError("twitter")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, m := range []string{
		"twinpics_stage_runs_total",
		"twinpics_stage_duration_seconds",
		"twinpics_account_failures_total",
		"twinpics_fetch_outcomes_total",
		"twinpics_community_fallbacks_total",
		"twinpics_command_runs_total",
		"twinpics_command_errors_total",
	} {
		assert.Contains(t, body, m)
	}
}
