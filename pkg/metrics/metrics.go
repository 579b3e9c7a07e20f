// Package metrics defines the Prometheus collectors for a vocabulary build
// and pushes them to a Pushgateway when the run finishes.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds all Prometheus collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	RecordsRead     prometheus.Counter
	TokensCounted   prometheus.Counter
	DistinctTokens  prometheus.Gauge
	VocabularySize  prometheus.Gauge
	TruncatedTokens prometheus.Gauge
	OutputBytes     prometheus.Gauge
	StageDuration   *prometheus.HistogramVec
	PublishTotal    *prometheus.CounterVec
	LastSuccess     prometheus.Gauge
}

// New creates all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsRead: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vocabgen_records_read_total",
				Help: "Text records read from the input column.",
			},
		),
		TokensCounted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vocabgen_tokens_counted_total",
				Help: "Tokens counted across all records.",
			},
		),
		DistinctTokens: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vocabgen_distinct_tokens",
				Help: "Distinct tokens seen before truncation.",
			},
		),
		VocabularySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vocabgen_vocabulary_size",
				Help: "Entries in the written vocabulary, OOV included.",
			},
		),
		TruncatedTokens: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vocabgen_truncated_tokens",
				Help: "Distinct tokens dropped by the max words cap.",
			},
		),
		OutputBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vocabgen_output_bytes",
				Help: "Size of the written vocabulary file in bytes.",
			},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vocabgen_stage_duration_seconds",
				Help:    "Duration of each build stage (load, build, write, publish).",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
			[]string{"stage"},
		),
		PublishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vocabgen_publish_total",
				Help: "Sink publish attempts by sink and status.",
			},
			[]string{"sink", "status"},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vocabgen_last_success_timestamp_seconds",
				Help: "Unix time of the last successful build.",
			},
		),
	}

	m.registry.MustRegister(
		m.RecordsRead,
		m.TokensCounted,
		m.DistinctTokens,
		m.VocabularySize,
		m.TruncatedTokens,
		m.OutputBytes,
		m.StageDuration,
		m.PublishTotal,
		m.LastSuccess,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records how long a stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// MarkSuccess stamps the last-success gauge with now.
func (m *Metrics) MarkSuccess() {
	m.LastSuccess.SetToCurrentTime()
}

// Push sends every collector to the Pushgateway at url under job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
