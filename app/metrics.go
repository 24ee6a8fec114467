package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// runnerMetrics is the internal diagnostics sink abstraction: a real
// Prometheus-backed implementation when an App is built with
// WithMetrics, a no-op otherwise, so the frame loop never pays for
// metrics nobody asked for.
type runnerMetrics interface {
	observeFrame(d time.Duration)
	incShutdown()
}

type noopRunnerMetrics struct{}

func (noopRunnerMetrics) observeFrame(time.Duration) {}
func (noopRunnerMetrics) incShutdown()               {}

type prometheusRunnerMetrics struct {
	frameDuration prometheus.Histogram
	shutdowns     prometheus.Counter
}

func newPrometheusRunnerMetrics(reg *prometheus.Registry) *prometheusRunnerMetrics {
	m := &prometheusRunnerMetrics{
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "helios_frame_duration_seconds",
			Help: "Wall-clock duration of one App.Update call.",
		}),
		shutdowns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "helios_shutdown_events_total",
			Help: "Number of ShutdownEvents observed by the runner.",
		}),
	}
	reg.MustRegister(m.frameDuration, m.shutdowns)
	return m
}

func (m *prometheusRunnerMetrics) observeFrame(d time.Duration) {
	m.frameDuration.Observe(d.Seconds())
}

func (m *prometheusRunnerMetrics) incShutdown() { m.shutdowns.Inc() }

func metricsFor(reg *prometheus.Registry) runnerMetrics {
	if reg == nil {
		return noopRunnerMetrics{}
	}
	return newPrometheusRunnerMetrics(reg)
}
