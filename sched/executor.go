package sched

import (
	"context"
	"fmt"
	"sync"

	"github.com/helios-engine/core/ecs"
	"golang.org/x/sync/errgroup"
)

// RunPlan executes every stage of plan against world, in order. Within a
// stage the executor dispatches off the compiled dependency graph
// directly, not off wave boundaries: a system starts the instant its own
// predecessors have finished, not when every system in its wave's
// predecessor level has finished, so an idle worker never sits out a
// stage waiting on a slower sibling it doesn't actually depend on.
// Command buffers are applied, in the order each system happened to
// finish, once every node in the stage has run — safe because the plan
// is conflict-free by construction. world.Flush and world.TickEvents run
// once per stage boundary, after that apply.
func RunPlan(ctx context.Context, world *ecs.World, plan *Plan) error {
	return RunPlanWithWorkers(ctx, world, plan, 0)
}

// RunPlanWithWorkers is RunPlan with an explicit worker cap. workers <= 0
// means unbounded (one goroutine per ready system).
func RunPlanWithWorkers(ctx context.Context, world *ecs.World, plan *Plan, workers int) error {
	for _, stage := range plan.Stages {
		if err := runStage(ctx, world, stage, workers); err != nil {
			return fmt.Errorf("sched: stage %s: %w", stage.Name, err)
		}
		world.Flush()
		world.TickEvents()
	}
	return nil
}

func runStage(ctx context.Context, world *ecs.World, stage StagePlan, workers int) error {
	n := len(stage.Nodes)
	if n == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	indegree := make([]int, n)
	copy(indegree, stage.Indegree)

	var mu sync.Mutex
	buffers := make([]*ecs.CommandBuffer, 0, n)

	var dispatch func(i int)
	dispatch = func(i int) {
		reg := stage.Nodes[i]
		g.Go(func() error {
			cmds := ecs.NewCommandBuffer()
			sysCtx := &Context{Ctx: gctx, World: world, Commands: cmds}
			if err := reg.System.Run(sysCtx); err != nil {
				return fmt.Errorf("system %s: %w", reg.Name, err)
			}

			mu.Lock()
			buffers = append(buffers, cmds)
			var ready []int
			for _, j := range stage.Successors[i] {
				indegree[j]--
				if indegree[j] == 0 {
					ready = append(ready, j)
				}
			}
			mu.Unlock()

			for _, j := range ready {
				dispatch(j)
			}
			return nil
		})
	}

	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			dispatch(i)
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ecs.ApplyCommandBuffers(world, buffers)
}
