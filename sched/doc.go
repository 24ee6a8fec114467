/*
Package sched compiles systems into a conflict-free, parallel execution
plan over an ecs.World.

Core concepts:

  - System: an AccessPolicy plus a Run(*Context) method.
  - AccessPolicy: the components and resources a system reads and writes.
  - Scheduler: accumulates system registrations and system-set orderings.
  - Plan: the compiled result — one StagePlan per stage. Waves describe
    the same graph as topological levels, for display and testing
    ("these systems are mutually conflict-free and could run
    concurrently"); the executor itself dispatches continuously off the
    underlying dependency graph, starting each system the instant its
    own predecessors finish rather than waiting for its whole wave.

Basic usage:

	scheduler := sched.NewScheduler()
	scheduler.AddSystem(MovementSystem{})
	scheduler.AddSystem(RenderSystem{}, sched.InStage[sched.Update]())

	plan, err := sched.Compile(scheduler)
	if err != nil {
		// err is a *sched.CycleError if ordering is contradictory, or a
		// *sched.ConflictError if two conflicting systems have no order
	}

	err = sched.RunPlan(ctx, world, plan)

A system declares what it touches by returning an AccessPolicy from
AccessPolicy():

	func (MovementSystem) AccessPolicy() sched.AccessPolicy {
		return sched.NewAccessPolicy().
			Query(sched.W[Position](), sched.R[Velocity]()).
			Resources(sched.ReadRes[GameTime]())
	}

Two systems whose policies overlap on a written component or resource,
and which have no explicit ordering between them, make Compile fail with
a *ConflictError; Compile does not pick an order for them.
*/
package sched
