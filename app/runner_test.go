package app

import (
	"context"
	"testing"
	"time"

	"github.com/helios-engine/core/ecs"
	"github.com/helios-engine/core/sched"
	"github.com/stretchr/testify/require"
)

type frameCountingSystem struct{ frames *int }

func (frameCountingSystem) AccessPolicy() sched.AccessPolicy { return sched.NewAccessPolicy() }
func (s frameCountingSystem) Run(*sched.Context) error {
	*s.frames++
	return nil
}

func TestFrameLimitedRunnerStopsAtExactFrameCount(t *testing.T) {
	frames := 0
	a := New()
	a.AddSystem(frameCountingSystem{frames: &frames}, sched.InStage[sched.Update]())
	a.SetRunner(FrameLimitedRunner(5))

	code := a.Run(context.Background())
	require.Equal(t, ExitSuccess, code)
	require.Equal(t, 5, frames)
}

func TestOnceRunnerRunsExactlyOneFrame(t *testing.T) {
	frames := 0
	a := New()
	a.AddSystem(frameCountingSystem{frames: &frames}, sched.InStage[sched.Update]())
	a.SetRunner(OnceRunner())

	code := a.Run(context.Background())
	require.Equal(t, ExitSuccess, code)
	require.Equal(t, 1, frames)
}

type shutdownSystem struct{ atFrame, frames *int }

func (shutdownSystem) AccessPolicy() sched.AccessPolicy { return sched.NewAccessPolicy() }

func (s shutdownSystem) Run(ctx *sched.Context) error {
	*s.frames++
	if *s.frames == *s.atFrame {
		ecs.SendEvent(ctx.World, ShutdownEvent{ExitCode: ExitFailure})
	}
	return nil
}

func TestDefaultRunnerStopsOnShutdownEventAndReportsItsExitCode(t *testing.T) {
	frames := 0
	atFrame := 3
	a := New()
	a.AddSystem(shutdownSystem{atFrame: &atFrame, frames: &frames}, sched.InStage[sched.Update]())
	a.SetRunner(DefaultRunner())

	code := a.Run(context.Background())
	require.Equal(t, ExitFailure, code)
	require.Equal(t, 3, frames)
}

func TestTimedRunnerStopsAfterDuration(t *testing.T) {
	frames := 0
	a := New()
	a.AddSystem(frameCountingSystem{frames: &frames}, sched.InStage[sched.Update]())
	a.SetRunner(TimedRunner(20 * time.Millisecond))

	start := time.Now()
	code := a.Run(context.Background())
	require.Equal(t, ExitSuccess, code)
	require.Greater(t, frames, 0)
	require.WithinDuration(t, start.Add(20*time.Millisecond), time.Now(), 200*time.Millisecond)
}

func TestFixedTimestepRunnerDeliversExactDelta(t *testing.T) {
	const fixedDelta = 5 * time.Millisecond
	const wantSteps = 3

	var deltas []time.Duration
	a := New()
	a.AddSystem(deltaRecordingSystem{deltas: &deltas, stopAfter: wantSteps}, sched.InStage[sched.Update]())
	a.SetRunner(FixedTimestepRunner(fixedDelta, 8))

	code := a.Run(context.Background())
	require.Equal(t, ExitSuccess, code)
	require.Len(t, deltas, wantSteps)
	for _, d := range deltas {
		require.Equal(t, fixedDelta, d, "every substep must see exactly fixedDelta, never a jittery wall-clock delta")
	}
}

type deltaRecordingSystem struct {
	deltas    *[]time.Duration
	stopAfter int
}

func (deltaRecordingSystem) AccessPolicy() sched.AccessPolicy { return sched.NewAccessPolicy() }
func (s deltaRecordingSystem) Run(ctx *sched.Context) error {
	*s.deltas = append(*s.deltas, MustTime(ctx.World).Delta)
	if len(*s.deltas) >= s.stopAfter {
		ecs.SendEvent(ctx.World, ShutdownEvent{ExitCode: ExitSuccess})
	}
	return nil
}
