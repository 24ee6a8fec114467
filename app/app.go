// Package app is the top-level driver: an App owns a main SubApp, any
// number of auxiliary SubApps, a module list, and a Runner that ticks
// them frame by frame.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/helios-engine/core/ecs"
	"github.com/helios-engine/core/helioslog"
	"github.com/helios-engine/core/sched"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Module extends an App at BuildModules time and tears itself down at
// CleanUp, in reverse registration order. Typically a Module adds
// systems, events and resources to a.Main (or one of a.Aux) from Build.
type Module interface {
	Build(a *App) error
	Destroy(a *App) error
}

// ExitCode is the runner's exit status.
type ExitCode int

const (
	ExitSuccess ExitCode = 0
	ExitFailure ExitCode = 1
)

// ShutdownEvent is the only cancellation signal a system may raise. Any
// Runner checks for one after every Update and, once observed, stops the
// loop and maps its ExitCode onto the process exit code.
type ShutdownEvent struct {
	ExitCode ExitCode
}

// App owns a main SubApp, any auxiliary SubApps, and the modules, runner
// and logger that drive them.
type App struct {
	Main *SubApp
	Aux  []*SubApp
	Time Time

	modules []Module
	runner  Runner
	logger  helioslog.Logger
	workers int
	metrics *prometheus.Registry

	metricsSink runnerMetrics
	built       bool
}

// New returns an App with a fresh main SubApp, ready for AddSystem,
// AddModule and AddSubApp calls.
func New(opts ...Option) *App {
	a := &App{
		Main:   NewSubApp("main"),
		runner: DefaultRunner(),
		logger: helioslog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	a.metricsSink = metricsFor(a.metrics)
	a.Main.logger = a.logger
	a.Main.workers = a.workers
	return a
}

// AddSubApp registers an auxiliary SubApp, inheriting the App's logger
// and worker cap.
func (a *App) AddSubApp(sub *SubApp) *App {
	sub.logger = a.logger
	sub.workers = a.workers
	a.Aux = append(a.Aux, sub)
	return a
}

// AddSystem registers sys against the main SubApp's scheduler.
func (a *App) AddSystem(sys sched.System, opts ...sched.SystemOption) *App {
	a.Main.AddSystem(sys, opts...)
	return a
}

// AddModule queues m to run at BuildModules and, in reverse order, at
// CleanUp.
func (a *App) AddModule(m Module) *App {
	a.modules = append(a.modules, m)
	return a
}

// SetRunner overrides the frame-loop strategy (DefaultRunner by
// default).
func (a *App) SetRunner(r Runner) *App {
	a.runner = r
	return a
}

// InsertResource sets a resource on the main SubApp's World. A package
// function rather than a method: Go methods can't introduce a new type
// parameter beyond the receiver's.
func InsertResource[T any](a *App, value T) *App {
	ecs.SetResource(a.Main.World, value)
	return a
}

// BuildModules invokes Build on every registered module, in registration
// order. Initialize calls this automatically if it hasn't run yet.
func (a *App) BuildModules() error {
	for _, m := range a.modules {
		if err := m.Build(a); err != nil {
			return fmt.Errorf("app: module build: %w", err)
		}
	}
	a.built = true
	return nil
}

// Initialize builds modules (if not already built), compiles every
// SubApp's scheduler into a Plan, and runs StartUp across the main
// SubApp and every auxiliary SubApp concurrently.
func (a *App) Initialize(ctx context.Context) error {
	if !a.built {
		if err := a.BuildModules(); err != nil {
			return err
		}
	}

	ecs.SetResource(a.Main.World, Time{})
	ecs.RegisterEvent[ShutdownEvent](a.Main.World, ecs.ClearAutomatic)

	subApps := append([]*SubApp{a.Main}, a.Aux...)
	for _, s := range subApps {
		if err := s.compile(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range subApps {
		s := s
		g.Go(func() error { return s.runStartUp(gctx, a.workers) })
	}
	return g.Wait()
}

// Update runs exactly one frame: tick Time, run the main SubApp's
// Main+Update stages, then run every non-overlapping aux SubApp
// concurrently with the others and wait for them, kick off or reap
// overlapping ones, and report a ShutdownEvent if one was sent.
func (a *App) Update(ctx context.Context, now time.Time) (*ShutdownEvent, error) {
	a.Time = tickTime(a.Main.World, now)

	if err := a.Main.runMainUpdate(ctx, a.workers); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range a.Aux {
		s := s
		if s.AllowOverlappingUpdates {
			s.reap(false, a.logger)
			if s.overlap == nil {
				s.beginOverlap(gctx, a.Main.World, a.workers)
			}
			continue
		}
		if s.Extract != nil {
			s.Extract.Extract(a.Main.World)
		}
		g.Go(func() error { return s.runMainUpdate(gctx, a.workers) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return CheckShutdownEvent(a.Main.World), nil
}

// CleanUp reaps any still-running overlapping SubApp updates, runs
// CleanUp on every SubApp concurrently, then tears modules down in
// reverse registration order.
func (a *App) CleanUp(ctx context.Context) error {
	for _, s := range a.Aux {
		s.reap(true, a.logger)
	}

	subApps := append([]*SubApp{a.Main}, a.Aux...)
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range subApps {
		s := s
		g.Go(func() error { return s.runCleanUp(gctx, a.workers) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := len(a.modules) - 1; i >= 0; i-- {
		if err := a.modules[i].Destroy(a); err != nil {
			return fmt.Errorf("app: module destroy: %w", err)
		}
	}
	return nil
}

// Run enters the configured Runner's frame loop and returns its exit
// code.
func (a *App) Run(ctx context.Context) ExitCode {
	return a.runner.Run(ctx, a)
}
