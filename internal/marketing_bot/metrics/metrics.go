// Package metrics declares the Prometheus collectors of the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketing_bot"

var (
	// Updates counts inbound events by kind (text, choice, command).
	Updates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_total",
		Help:      "Inbound user events by kind.",
	}, []string{"kind"})

	// Transitions counts dialog transitions by the step the user was in.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dialog_transitions_total",
		Help:      "Dialog transitions by source step.",
	}, []string{"from"})

	// Completions counts completion requests by provider and result.
	Completions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completions_total",
		Help:      "Completion requests by provider and result.",
	}, []string{"provider", "result"})

	// CompletionDuration observes completion latency including the retry.
	CompletionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "completion_duration_seconds",
		Help:      "Completion latency by provider.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
	}, []string{"provider"})

	// KeywordOutcomes counts keyword generation outcomes.
	KeywordOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keyword_outcomes_total",
		Help:      "Keyword generation outcomes.",
	}, []string{"outcome"})

	// KeywordRecordsDropped counts records skipped for missing keyword or relevance.
	KeywordRecordsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keyword_records_dropped_total",
		Help:      "Keyword records dropped because of missing fields.",
	})

	// BenchmarkFetches counts benchmark lookups by source (cache, scrape, error).
	BenchmarkFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "benchmark_fetches_total",
		Help:      "Benchmark lookups by source.",
	}, []string{"source"})

	// StoredStates reports the number of user states held in memory.
	StoredStates = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored_user_states",
		Help:      "User states currently held in memory.",
	})
)
