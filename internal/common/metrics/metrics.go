package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UtterancesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_utterances_classified_total",
			Help: "Total number of utterances classified, by resolved intent",
		},
		[]string{"intent"},
	)

	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "assistant_classification_duration_seconds",
			Help: "Duration of a single utterance classification",
		},
	)

	PatternRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_pattern_refreshes_total",
			Help: "Total number of remote pattern refresh attempts, by status",
		},
		[]string{"status"},
	)

	PatternsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_patterns_skipped_total",
			Help: "Total number of remote patterns skipped because they failed to compile",
		},
	)

	FallbackActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_pattern_fallback_active",
			Help: "1 when the built-in fallback pattern set is active, 0 when a remote set is",
		},
	)

	SlotReprompts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_slot_reprompts_total",
			Help: "Total number of slot re-prompts issued, by slot",
		},
		[]string{"slot"},
	)

	TransactionsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_transactions_finalized_total",
			Help: "Total number of pending transactions handed to the finalizer, by kind",
		},
		[]string{"kind"},
	)

	OutcomeLogFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_outcome_log_failures_total",
			Help: "Total number of best-effort outcome reports that failed",
		},
	)
)
