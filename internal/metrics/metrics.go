// Package metrics exposes run outcomes as Prometheus metrics, written to a
// textfile for the node exporter textfile collector.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/networkteam/staycheck/expect"
	"github.com/networkteam/staycheck/scenario"
)

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	cases        *prometheus.CounterVec
	caseDuration *prometheus.HistogramVec
	steps        *prometheus.CounterVec
	failures     *prometheus.CounterVec
	appErrors    *prometheus.CounterVec
	lastRun      *prometheus.GaugeVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cases: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "staycheck", Name: "cases_total", Help: "Cases by outcome."},
			[]string{"driver", "suite", "status"},
		),
		caseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "staycheck", Name: "case_duration_seconds",
				Help:    "Case duration seconds.",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"driver", "suite"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "staycheck", Name: "steps_total", Help: "Named steps by outcome."},
			[]string{"driver", "status"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "staycheck", Name: "failures_total", Help: "Failed checks by kind."},
			[]string{"driver", "suite", "kind"}, // kind: assertion|app_error|other
		),
		appErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "staycheck", Name: "suppressed_app_errors_total", Help: "Application errors ignored by policy."},
			[]string{"driver"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: "staycheck", Name: "last_run_timestamp_seconds", Help: "Start of the last run."},
			[]string{"driver"},
		),
	}
	m.registry.MustRegister(m.cases, m.caseDuration, m.steps, m.failures, m.appErrors, m.lastRun)
	return m
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// FailureKind classifies a failure for the kind label.
func FailureKind(err error) string {
	var mismatch *expect.MismatchError
	var appErr *scenario.AppError
	switch {
	case errors.As(err, &mismatch):
		return "assertion"
	case errors.As(err, &appErr):
		return "app_error"
	default:
		return "other"
	}
}

// Observe records a finished run.
func (m *Metrics) Observe(res scenario.Result) {
	m.lastRun.WithLabelValues(res.Driver).Set(float64(res.Started.Unix()))
	for _, c := range res.Cases {
		m.cases.WithLabelValues(res.Driver, c.Suite, string(c.Status)).Inc()
		if c.Status == scenario.StatusSkipped {
			continue
		}
		m.caseDuration.WithLabelValues(res.Driver, c.Suite).Observe(c.Duration.Seconds())
		for _, s := range c.Steps {
			m.steps.WithLabelValues(res.Driver, string(s.Status)).Inc()
		}
		for _, f := range c.Failures {
			m.failures.WithLabelValues(res.Driver, c.Suite, FailureKind(f.Err)).Inc()
		}
		if c.SuppressedAppErrors > 0 {
			m.appErrors.WithLabelValues(res.Driver).Add(float64(c.SuppressedAppErrors))
		}
	}
}

// WriteFile writes all metrics in the text exposition format.
func (m *Metrics) WriteFile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}
