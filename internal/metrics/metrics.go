package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StageRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twinpics_stage_runs_total",
		Help: "Total pipeline stage executions",
	}, []string{"stage"})
	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "twinpics_stage_duration_seconds",
		Help:    "Pipeline stage duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	AccountFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twinpics_account_failures_total",
		Help: "Accounts dropped or degraded per stage",
	}, []string{"stage"})
	FetchOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twinpics_fetch_outcomes_total",
		Help: "Timeline back-fill outcomes by kind",
	}, []string{"kind"})
	CommunityFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "twinpics_community_fallbacks_total",
		Help: "Community detections that fell back to a single community",
	})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twinpics_command_runs_total",
		Help: "CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twinpics_command_errors_total",
		Help: "CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(StageRuns, StageDuration, AccountFailures, FetchOutcomes, CommunityFallbacks, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

// ObserveStage counts a stage run and records its duration since start.
func ObserveStage(stage string, start time.Time) {
	StageRuns.WithLabelValues(stage).Inc()
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func IncAccountFailure(stage string) { AccountFailures.WithLabelValues(stage).Inc() }
func IncFetchOutcome(kind string)    { FetchOutcomes.WithLabelValues(kind).Inc() }
func IncCommandRun(cmd string)       { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string)     { CommandErrors.WithLabelValues(cmd).Inc() }
