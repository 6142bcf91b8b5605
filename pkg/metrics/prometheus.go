package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	gamesTotal     *prometheus.CounterVec
	decisionsTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastWager      *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		gamesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arenafighter_games_total",
				Help: "Total number of settled games",
			},
			[]string{"game", "result"},
		),
		decisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arenafighter_decisions_total",
				Help: "Total number of decisions taken, by strategy",
			},
			[]string{"strategy"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arenafighter_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastWager: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "arenafighter_last_wager_wei",
				Help: "Last committed wager for an opponent in wei",
			},
			[]string{"opponent"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arenafighter_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordGame records a settled game.
func (r *Recorder) RecordGame(game string, won bool) {
	result := "loss"
	if won {
		result = "win"
	}
	r.gamesTotal.WithLabelValues(game, result).Inc()
}

// RecordDecision records a decision taken by the fighter.
func (r *Recorder) RecordDecision(strategy string) {
	r.decisionsTotal.WithLabelValues(strategy).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordWager records the last wager committed against an opponent.
func (r *Recorder) RecordWager(opponent string, wei float64) {
	r.lastWager.WithLabelValues(opponent).Set(wei)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
