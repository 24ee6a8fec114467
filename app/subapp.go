package app

import (
	"context"
	"fmt"

	"github.com/helios-engine/core/ecs"
	"github.com/helios-engine/core/helioslog"
	"github.com/helios-engine/core/sched"
)

// Extractor lets a SubApp pull a consistent snapshot of the main World's
// state before its own stages run — spec's Extract hook. It always runs
// on the thread driving the frame, before the SubApp's Main+Update, so
// an overlapping SubApp's previous frame can still be in flight without
// its next Extract racing it: Extract is called once per SubApp update,
// never concurrently with that same SubApp's own stages.
//
// Extract is expected to copy whatever state it needs out of mainWorld
// into the SubApp's own World, not retain a reference to mainWorld —
// handing out a live reference would let an overlapping SubApp observe
// the main World mutating mid-update, which defeats the point of a
// snapshot.
type Extractor interface {
	Extract(mainWorld *ecs.World)
}

// SubApp owns one World and one Scheduler. The top-level App always has
// exactly one (App.Main); any others are auxiliary, added via
// App.AddSubApp, and may run in parallel with the main SubApp or even
// straddle multiple main-SubApp frames if AllowOverlappingUpdates is set.
type SubApp struct {
	Name      string
	World     *ecs.World
	Scheduler *sched.Scheduler

	// AllowOverlappingUpdates, when true, lets this SubApp's Update stage
	// run on a background goroutine that the runner does not wait on
	// before starting the main SubApp's next frame; the result is reaped
	// (or waited for) on a later frame, or at CleanUp.
	AllowOverlappingUpdates bool

	// Extract is optional; a SubApp with no Extractor just evolves its
	// own World independently of the main one.
	Extract Extractor

	logger  helioslog.Logger
	workers int

	startUp  *sched.Plan
	mainOnly *sched.Plan
	update   *sched.Plan
	cleanUp  *sched.Plan

	overlap *overlapTask
}

// NewSubApp returns a SubApp with a fresh World and Scheduler.
func NewSubApp(name string) *SubApp {
	return &SubApp{
		Name:      name,
		World:     ecs.NewWorld(),
		Scheduler: sched.NewScheduler(),
		logger:    helioslog.Nop(),
	}
}

// AddSystem registers sys with this SubApp's scheduler.
func (s *SubApp) AddSystem(sys sched.System, opts ...sched.SystemOption) *SubApp {
	s.Scheduler.AddSystem(sys, opts...)
	return s
}

// compile turns the SubApp's Scheduler into four single-stage Plans, one
// per lifecycle phase, so the App driver can run StartUp exactly once,
// Main+Update every frame, and CleanUp exactly once at shutdown, without
// re-running stages the scheduler already compiled together.
func (s *SubApp) compile() error {
	plan, err := sched.Compile(s.Scheduler)
	if err != nil {
		return fmt.Errorf("subapp %s: %w", s.Name, err)
	}
	s.startUp = stagePlan(plan, sched.IDOf[sched.StartUp]())
	s.mainOnly = stagePlan(plan, sched.IDOf[sched.Main]())
	s.update = stagePlan(plan, sched.IDOf[sched.Update]())
	s.cleanUp = stagePlan(plan, sched.IDOf[sched.CleanUp]())
	return nil
}

func stagePlan(plan *sched.Plan, stage sched.ScheduleID) *sched.Plan {
	for _, sp := range plan.Stages {
		if sp.Stage == stage {
			return &sched.Plan{Stages: []sched.StagePlan{sp}}
		}
	}
	return &sched.Plan{}
}

func (s *SubApp) runStartUp(ctx context.Context, workers int) error {
	return sched.RunPlanWithWorkers(ctx, s.World, s.startUp, workers)
}

func (s *SubApp) runMainUpdate(ctx context.Context, workers int) error {
	if err := sched.RunPlanWithWorkers(ctx, s.World, s.mainOnly, workers); err != nil {
		return err
	}
	return sched.RunPlanWithWorkers(ctx, s.World, s.update, workers)
}

func (s *SubApp) runCleanUp(ctx context.Context, workers int) error {
	return sched.RunPlanWithWorkers(ctx, s.World, s.cleanUp, workers)
}

// overlapTask tracks one in-flight background Update for a SubApp
// flagged AllowOverlappingUpdates.
type overlapTask struct {
	done chan error
}

// beginOverlap extracts a snapshot from mainWorld, then runs this
// SubApp's Main+Update stages on a background goroutine.
func (s *SubApp) beginOverlap(ctx context.Context, mainWorld *ecs.World, workers int) {
	if s.Extract != nil {
		s.Extract.Extract(mainWorld)
	}
	done := make(chan error, 1)
	s.overlap = &overlapTask{done: done}
	go func() {
		done <- s.runMainUpdate(ctx, workers)
	}()
}

// reap collects the result of a previously started overlapping update,
// if any. block makes it wait; otherwise it only collects a result
// that's already ready, leaving s.overlap set if the update is still
// running.
func (s *SubApp) reap(block bool, logger helioslog.Logger) {
	if s.overlap == nil {
		return
	}
	if block {
		if err := <-s.overlap.done; err != nil {
			logger.Error("overlapping subapp update failed", "subapp", s.Name, "err", err)
		}
		s.overlap = nil
		return
	}
	select {
	case err := <-s.overlap.done:
		if err != nil {
			logger.Error("overlapping subapp update failed", "subapp", s.Name, "err", err)
		}
		s.overlap = nil
	default:
	}
}
