package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus gauges exported at /metrics.
type Metrics struct {
	// Registry owns every collector below; /metrics serves it.
	Registry *prometheus.Registry

	streak        prometheus.Gauge
	maxStreak     prometheus.Gauge
	minK          prometheus.Gauge
	totalLogged   prometheus.Gauge
	completionDay prometheus.Gauge
	loggedDays    prometheus.Gauge
	locked        prometheus.Gauge
	polls         *prometheus.CounterVec
}

// NewMetrics creates a dedicated registry and registers the strive gauges.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		streak: factory.NewGauge(prometheus.GaugeOpts{
			Name: "strive_streak_days",
			Help: "Current consecutive days meeting the minimum.",
		}),
		maxStreak: factory.NewGauge(prometheus.GaugeOpts{
			Name: "strive_max_streak_days",
			Help: "Longest streak seen in the log.",
		}),
		minK: factory.NewGauge(prometheus.GaugeOpts{
			Name: "strive_min_daily_k",
			Help: "Displayed daily minimum in thousands.",
		}),
		totalLogged: factory.NewGauge(prometheus.GaugeOpts{
			Name: "strive_total_logged",
			Help: "Sum of logged amounts inside the goal window.",
		}),
		completionDay: factory.NewGauge(prometheus.GaugeOpts{
			Name: "strive_completion_day",
			Help: "Projected completion day of the actual goal.",
		}),
		loggedDays: factory.NewGauge(prometheus.GaugeOpts{
			Name: "strive_logged_days",
			Help: "Number of days with a log entry inside the goal window.",
		}),
		locked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "strive_goal_locked",
			Help: "1 when goal edits are locked.",
		}),
		polls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strive_polls_total",
				Help: "Report polls by result.",
			},
			[]string{"result"},
		),
	}
}

// Observe records a snapshot.
func (m *Metrics) Observe(s Snapshot) {
	m.streak.Set(float64(s.Streak))
	m.maxStreak.Set(float64(s.MaxStreak))
	m.minK.Set(s.DisplayMinK)
	m.totalLogged.Set(s.TotalLogged)
	m.completionDay.Set(float64(s.CompletionDay))
	m.loggedDays.Set(float64(s.LoggedDays))
	if s.Locked {
		m.locked.Set(1)
	} else {
		m.locked.Set(0)
	}
}

// RecordPoll counts a poll with its result ("ok" or "error").
func (m *Metrics) RecordPoll(result string) {
	m.polls.WithLabelValues(result).Inc()
}
