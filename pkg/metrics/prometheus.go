package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	candidatesTotal *prometheus.CounterVec
	sentimentTotal  *prometheus.CounterVec
	signalsTotal    *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_runs_total",
				Help: "Total pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockpulse_run_duration_seconds",
				Help:    "Duration of one pipeline run",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		candidatesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_candidates_total",
				Help: "Candidates analyzed by outcome",
			},
			[]string{"outcome"},
		),
		sentimentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_sentiment_calls_total",
				Help: "Sentiment analyses by outcome",
			},
			[]string{"outcome"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_signals_total",
				Help: "Emitted signals by grade",
			},
			[]string{"grade"},
		),
	}
}

// RecordRun records one run outcome and its duration.
func (r *Recorder) RecordRun(outcome string, seconds float64) {
	r.runsTotal.WithLabelValues(outcome).Inc()
	r.runDuration.Observe(seconds)
}

// RecordCandidate records one analyzed or skipped candidate.
func (r *Recorder) RecordCandidate(outcome string) {
	r.candidatesTotal.WithLabelValues(outcome).Inc()
}

// RecordSentiment records one sentiment analysis outcome.
func (r *Recorder) RecordSentiment(outcome string) {
	r.sentimentTotal.WithLabelValues(outcome).Inc()
}

// RecordSignal records one emitted signal.
func (r *Recorder) RecordSignal(grade string) {
	r.signalsTotal.WithLabelValues(grade).Inc()
}
