// Package metrics exposes the pipeline's Prometheus instrumentation:
// per-phase durations and regeneration counts from the orchestrator, LLM
// call outcomes from the client adapter, and question/refusal counters
// from the Q&A engine. Served on /metrics by the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PhaseDuration observes how long each pipeline phase took per run.
	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wikigen",
		Name:      "phase_duration_seconds",
		Help:      "Wall-clock duration of each generation phase.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 3, 10),
	}, []string{"phase"})

	// PagesRegenerated counts pages actually rebuilt (cache misses), by
	// phase. A no-op rerun increments nothing here.
	PagesRegenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wikigen",
		Name:      "pages_regenerated_total",
		Help:      "Number of wiki pages regenerated, by producing phase.",
	}, []string{"phase"})

	// PagesSkipped counts targets whose stored hash/signature matched and
	// therefore skipped their LLM call.
	PagesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wikigen",
		Name:      "pages_skipped_total",
		Help:      "Number of wiki pages reused unchanged, by phase.",
	}, []string{"phase"})

	// LLMCalls counts model invocations by outcome ("ok" or the adapter's
	// error class).
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wikigen",
		Name:      "llm_calls_total",
		Help:      "LLM calls issued by the pipeline and Q&A engine, by outcome.",
	}, []string{"outcome"})

	// QAQuestions counts answered/refused/failed questions.
	QAQuestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wikigen",
		Name:      "qa_questions_total",
		Help:      "Questions handled by the Q&A engine, by result.",
	}, []string{"result"})

	// EvidenceGateRefusals counts strict-mode refusals for insufficient
	// grounded evidence, a quality signal for retrieval tuning.
	EvidenceGateRefusals = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wikigen",
		Name:      "evidence_gate_refusals_total",
		Help:      "Questions refused by the evidence gate in strict mode.",
	})
)
