package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "windforest_chat_requests_total",
			Help: "Total number of chat requests processed by the engine.",
		},
	)
	generationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windforest_generation_failures_total",
			Help: "Total number of SQL generation failures by kind.",
		},
		[]string{"kind"},
	)
	sqlExecutionFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "windforest_sql_execution_failures_total",
			Help: "Total number of SQL statements rejected or failed at execution.",
		},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "windforest_query_duration_seconds",
			Help:    "End-to-end duration of a question round trip (generation + execution).",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
	archiveRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windforest_archive_runs_total",
			Help: "Total number of dataset archive runs by outcome.",
		},
		[]string{"outcome"},
	)
	seededRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windforest_seeded_rows_total",
			Help: "Total number of rows written by the dataset seeder per table.",
		},
		[]string{"table"},
	)
)

func init() {
	prometheus.MustRegister(
		chatRequestsTotal,
		generationFailuresTotal,
		sqlExecutionFailuresTotal,
		queryDurationSeconds,
		archiveRunsTotal,
		seededRowsTotal,
	)
}

func ObserveChatRequest(elapsed time.Duration) {
	chatRequestsTotal.Inc()
	queryDurationSeconds.Observe(elapsed.Seconds())
}

func IncrementGenerationFailure(kind string) {
	generationFailuresTotal.WithLabelValues(kind).Inc()
}

func IncrementSQLExecutionFailure() {
	sqlExecutionFailuresTotal.Inc()
}

func ObserveArchiveRun(succeeded bool) {
	outcome := "success"
	if !succeeded {
		outcome = "failure"
	}
	archiveRunsTotal.WithLabelValues(outcome).Inc()
}

func AddSeededRows(table string, rows int) {
	if rows <= 0 {
		return
	}
	seededRowsTotal.WithLabelValues(table).Add(float64(rows))
}
