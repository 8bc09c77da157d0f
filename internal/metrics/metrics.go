package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"simongame/internal/events"
)

// Metrics holds the game collectors on a private registry so tests and
// multiple servers in one process do not collide.
type Metrics struct {
	Registry       *prometheus.Registry
	RoundsTotal    *prometheus.CounterVec
	RoundScore     prometheus.Histogram
	RoundsStarted  prometheus.Counter
	ActiveSessions prometheus.Gauge
	IgnoredInputs  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RoundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simon",
			Name:      "rounds_total",
			Help:      "Finished rounds by result.",
		}, []string{"result"}),
		RoundScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "simon",
			Name:      "round_score",
			Help:      "Score of finished rounds.",
			Buckets:   prometheus.LinearBuckets(0, 2, 11),
		}),
		RoundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simon",
			Name:      "rounds_started_total",
			Help:      "Rounds that entered the countdown.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simon",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
		IgnoredInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simon",
			Name:      "ignored_inputs_total",
			Help:      "Player selections the engine rejected.",
		}),
	}
	m.Registry.MustRegister(
		m.RoundsTotal,
		m.RoundScore,
		m.RoundsStarted,
		m.ActiveSessions,
		m.IgnoredInputs,
		prometheus.NewGoCollector(),
	)
	return m
}

// Observe updates collectors from one engine event. Round starts and
// rejected inputs are counted by the caller, which sees the engine's result.
func (m *Metrics) Observe(ev events.Event) {
	switch ev.Kind {
	case events.KindRoundOver:
		result := "lost"
		if ev.Won {
			result = "won"
		}
		m.RoundsTotal.WithLabelValues(result).Inc()
		m.RoundScore.Observe(float64(ev.Score))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
