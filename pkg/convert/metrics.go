package convert

import (
	"context"

	"github.com/aretw0/chazz/pkg/domain"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes conversion counters as Prometheus collectors.
type Metrics struct {
	Documents   *prometheus.CounterVec
	Duration    prometheus.Histogram
	RuleMatches *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chazz_documents_total",
				Help: "Documents processed, by outcome",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chazz_document_duration_seconds",
				Help:    "Time spent converting a single document",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		RuleMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chazz_rule_matches_total",
				Help: "Tags rewritten, by rule",
			},
			[]string{"rule"},
		),
	}
	reg.MustRegister(m.Documents, m.Duration, m.RuleMatches)
	return m
}

// Hooks returns conversion hooks that record every document outcome.
// Callbacks in next still run after the metric is recorded.
func (m *Metrics) Hooks(next domain.ConversionHooks) domain.ConversionHooks {
	record := func(fn func(context.Context, *domain.DocumentEvent)) func(context.Context, *domain.DocumentEvent) {
		return func(ctx context.Context, e *domain.DocumentEvent) {
			m.Documents.WithLabelValues(string(e.Outcome)).Inc()
			m.Duration.Observe(e.Duration.Seconds())
			if fn != nil {
				fn(ctx, e)
			}
		}
	}
	return domain.ConversionHooks{
		OnDocumentDone:    record(next.OnDocumentDone),
		OnDocumentSkipped: record(next.OnDocumentSkipped),
		OnDocumentFailed:  record(next.OnDocumentFailed),
	}
}

// Observer returns a markup observer counting rewrites per rule.
func (m *Metrics) Observer() markup.Observer {
	return func(rule string, matches int) {
		m.RuleMatches.WithLabelValues(rule).Add(float64(matches))
	}
}
