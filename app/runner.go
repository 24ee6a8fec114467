package app

import (
	"context"
	"fmt"
	"time"

	"github.com/helios-engine/core/ecs"
)

// Runner drives an App's frame loop: Initialize once, then repeated
// Update calls under whatever stopping condition the variant implements,
// then CleanUp.
type Runner interface {
	Run(ctx context.Context, a *App) ExitCode
}

// CheckShutdownEvent reports the first ShutdownEvent still within its
// event-buffer lifetime, or nil. Every Runner variant calls this after
// each Update.
func CheckShutdownEvent(world *ecs.World) *ShutdownEvent {
	events := ecs.ReadEvents[ShutdownEvent](world)
	if len(events) == 0 {
		return nil
	}
	ev := events[0]
	return &ev
}

// ToAppExitCode maps a frame-loop error onto an ExitCode: nil is
// success, anything else is failure.
func ToAppExitCode(err error) ExitCode {
	if err != nil {
		return ExitFailure
	}
	return ExitSuccess
}

// recoverUpdate calls a.Update and turns a panicking system into a
// failed frame rather than taking the whole runner down with it — the
// stage-boundary panic recovery the error-handling design calls for.
func recoverUpdate(ctx context.Context, a *App, now time.Time) (shutdown *ShutdownEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("system panicked", "recovered", r)
			err = fmt.Errorf("app: system panicked: %v", r)
		}
	}()
	return a.Update(ctx, now)
}

// runLoop is the Initialize/loop/CleanUp skeleton shared by every Runner
// variant except FixedTimestepRunner, which needs its own accumulator.
// shouldContinue decides, given the frame count about to run, whether
// another Update happens.
func runLoop(ctx context.Context, a *App, shouldContinue func(frame uint64) bool) ExitCode {
	if err := a.Initialize(ctx); err != nil {
		a.logger.Error("initialize failed", "err", err)
		return ExitFailure
	}

	exitCode := ExitSuccess
	frame := uint64(0)

loop:
	for shouldContinue(frame) {
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		start := time.Now()
		shutdown, err := recoverUpdate(ctx, a, start)
		a.metricsSink.observeFrame(time.Since(start))
		if err != nil {
			a.logger.Error("update failed", "err", err)
			exitCode = ExitFailure
			break
		}
		frame++
		if shutdown != nil {
			a.metricsSink.incShutdown()
			exitCode = shutdown.ExitCode
			break
		}
	}

	if err := a.CleanUp(ctx); err != nil {
		a.logger.Error("cleanup failed", "err", err)
		exitCode = ExitFailure
	}
	return exitCode
}

// DefaultRunner loops until a ShutdownEvent is sent.
func DefaultRunner() Runner { return defaultRunner{} }

type defaultRunner struct{}

func (defaultRunner) Run(ctx context.Context, a *App) ExitCode {
	return runLoop(ctx, a, func(uint64) bool { return true })
}

// FrameLimitedRunner stops after exactly maxFrames updates, or an
// earlier ShutdownEvent.
func FrameLimitedRunner(maxFrames uint64) Runner {
	return frameLimitedRunner{max: maxFrames}
}

type frameLimitedRunner struct{ max uint64 }

func (r frameLimitedRunner) Run(ctx context.Context, a *App) ExitCode {
	return runLoop(ctx, a, func(frame uint64) bool { return frame < r.max })
}

// OnceRunner runs exactly one frame. Useful for tests that want a single
// deterministic Update without writing their own stopping condition.
func OnceRunner() Runner { return frameLimitedRunner{max: 1} }

// TimedRunner stops once duration has elapsed since Run was called, or
// an earlier ShutdownEvent.
func TimedRunner(duration time.Duration) Runner {
	return timedRunner{duration: duration}
}

type timedRunner struct{ duration time.Duration }

func (r timedRunner) Run(ctx context.Context, a *App) ExitCode {
	deadline := time.Now().Add(r.duration)
	return runLoop(ctx, a, func(uint64) bool { return time.Now().Before(deadline) })
}

// FixedTimestepRunner accumulates wall-clock time and calls Update in
// fixedDelta-sized simulation steps, clamping to at most maxSubsteps per
// real frame — a debugger pause or GC stall drops the remainder instead
// of spiraling into ever-more catch-up steps.
func FixedTimestepRunner(fixedDelta time.Duration, maxSubsteps uint32) Runner {
	return &fixedTimestepRunner{fixedDelta: fixedDelta, maxSubsteps: maxSubsteps}
}

type fixedTimestepRunner struct {
	fixedDelta  time.Duration
	maxSubsteps uint32
}

func (r *fixedTimestepRunner) Run(ctx context.Context, a *App) ExitCode {
	if err := a.Initialize(ctx); err != nil {
		a.logger.Error("initialize failed", "err", err)
		return ExitFailure
	}

	exitCode := ExitSuccess
	accumulator := time.Duration(0)
	simTime := time.Now()
	last := simTime
	ecs.SetResource(a.Main.World, Time{last: simTime})

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		wallNow := time.Now()
		accumulator += wallNow.Sub(last)
		last = wallNow

		substeps := uint32(0)
		for accumulator >= r.fixedDelta && substeps < r.maxSubsteps {
			simTime = simTime.Add(r.fixedDelta)
			shutdown, err := recoverUpdate(ctx, a, simTime)
			a.metricsSink.observeFrame(r.fixedDelta)
			accumulator -= r.fixedDelta
			substeps++
			if err != nil {
				a.logger.Error("update failed", "err", err)
				exitCode = ExitFailure
				break loop
			}
			if shutdown != nil {
				a.metricsSink.incShutdown()
				exitCode = shutdown.ExitCode
				break loop
			}
		}
		if substeps == r.maxSubsteps {
			accumulator = 0
		}
	}

	if err := a.CleanUp(ctx); err != nil {
		a.logger.Error("cleanup failed", "err", err)
		exitCode = ExitFailure
	}
	return exitCode
}
