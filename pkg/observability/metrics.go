package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

// Metrics holds the bot's Prometheus collectors.
type Metrics struct {
	turns      *prometheus.CounterVec
	navigation *prometheus.CounterVec
	generator  *prometheus.CounterVec
	latency    *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// A *prometheus.Registry is used as the gatherer for Handler when reg is one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bqa_turns_total",
				Help: "Dialog turns fulfilled, by intent and resulting action.",
			},
			[]string{"intent", "action"},
		),
		navigation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bqa_navigation_total",
				Help: "Back and menu commands handled.",
			},
			[]string{"command"},
		),
		generator: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bqa_generator_requests_total",
				Help: "Generator calls, by outcome.",
			},
			[]string{"outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bqa_generator_duration_seconds",
				Help:    "Generator call latency.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 15, 25, 30},
			},
			[]string{"purpose"},
		),
		gatherer: prometheus.DefaultGatherer,
	}
	reg.MustRegister(m.turns, m.navigation, m.generator, m.latency)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			m.turns.WithLabelValues(e.Intent, string(e.Action)).Inc()
		},
		OnNavigate: func(ctx context.Context, e *domain.NavigateEvent) {
			m.navigation.WithLabelValues(e.Command).Inc()
		},
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			m.generator.WithLabelValues(e.Outcome).Inc()
			m.latency.WithLabelValues(e.Purpose).Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
