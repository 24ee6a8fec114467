package app

import (
	"github.com/helios-engine/core/helioslog"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures an App at construction time, the functional-option
// idiom used throughout the pack for optional knobs that shouldn't widen
// New's signature.
type Option func(*App)

// WithLogger plugs a structured logger into the App and every SubApp it
// owns. A nil logger is ignored; the default is helioslog.Nop().
func WithLogger(l helioslog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics enables runner diagnostics on reg. Passing nil (the
// default) keeps metrics collection entirely off the hot path.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.metrics = reg
	}
}

// WithWorkers caps how many goroutines the scheduler's executor may run
// concurrently within one stage. Zero, the default, means unbounded.
func WithWorkers(n int) Option {
	return func(a *App) {
		a.workers = n
	}
}
