package observability

import (
	"context"

	"github.com/aretw0/picket/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for widget protocol events.
type Metrics struct {
	encodes      *prometheus.CounterVec
	interactions *prometheus.CounterVec
	commits      *prometheus.CounterVec
	overrides    prometheus.Counter
}

// NewMetrics creates and registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		encodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picket_widget_encodes_total",
				Help: "Total number of widget descriptors encoded",
			},
			[]string{"click_mode"},
		),
		interactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picket_widget_interactions_total",
				Help: "Total number of accepted widget clicks",
			},
			[]string{"click_mode"},
		),
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picket_value_commits_total",
				Help: "Total number of emitted value updates",
			},
			[]string{"deferred"},
		),
		overrides: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "picket_server_overrides_total",
				Help: "Total number of server-pushed values overriding local selection",
			},
		),
	}
	reg.MustRegister(m.encodes, m.interactions, m.commits, m.overrides)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEncode: func(ctx context.Context, e *domain.WidgetEvent) {
			m.encodes.WithLabelValues(e.ClickMode.String()).Inc()
		},
		OnInteraction: func(ctx context.Context, e *domain.WidgetEvent) {
			m.interactions.WithLabelValues(e.ClickMode.String()).Inc()
		},
		OnCommit: func(ctx context.Context, e *domain.WidgetEvent) {
			deferred := "false"
			if e.FormID != "" {
				deferred = "true"
			}
			m.commits.WithLabelValues(deferred).Inc()
		},
		OnOverride: func(ctx context.Context, e *domain.WidgetEvent) {
			m.overrides.Inc()
		},
	}
}
