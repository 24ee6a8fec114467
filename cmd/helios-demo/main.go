// Command helios-demo wires an App, a handful of components and systems,
// and a FrameLimitedRunner together as a minimal smoke test of the
// engine substrate: entities move under a Velocity system for a fixed
// number of frames and the demo prints how many survived.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/helios-engine/core/app"
	"github.com/helios-engine/core/ecs"
	"github.com/helios-engine/core/helioslog"
	"github.com/helios-engine/core/sched"
	"go.uber.org/zap"
)

type Position struct{ X, Y float64 }
type Velocity struct{ DX, DY float64 }

var (
	PositionComponent = ecs.NewComponent[Position]()
	VelocityComponent = ecs.NewComponent[Velocity]()
)

// MovementSystem advances every moving entity's Position by its Velocity
// scaled by the frame's Delta.
type MovementSystem struct{}

func (MovementSystem) AccessPolicy() sched.AccessPolicy {
	return sched.NewAccessPolicy().Query(
		sched.W[Position](),
		sched.R[Velocity](),
	)
}

func (MovementSystem) Run(ctx *sched.Context) error {
	dt := app.MustTime(ctx.World).Delta.Seconds()
	q := ecs.NewQuery().With(PositionComponent, VelocityComponent)
	for cur := ctx.World.Query(q); cur.Next(); {
		pos := PositionComponent.GetFromCursor(cur)
		vel := VelocityComponent.GetFromCursor(cur)
		pos.X += vel.DX * dt
		pos.Y += vel.DY * dt
	}
	return nil
}

// SpawnSystem creates a handful of moving entities once, at StartUp.
type SpawnSystem struct{}

func (SpawnSystem) AccessPolicy() sched.AccessPolicy {
	return sched.NewAccessPolicy()
}

func (SpawnSystem) Run(ctx *sched.Context) error {
	for i := 0; i < 5; i++ {
		ctx.Commands.Push(ecs.CreateEntityCommand{
			Components: []ecs.Component{PositionComponent, VelocityComponent},
		})
	}
	return nil
}

func main() {
	logger, _ := zap.NewDevelopment()

	a := app.New(
		app.WithLogger(helioslog.NewZap(logger)),
	)
	a.AddSystem(SpawnSystem{}, sched.InStage[sched.StartUp]())
	a.AddSystem(MovementSystem{}, sched.InStage[sched.Update]())
	a.SetRunner(app.FrameLimitedRunner(60))

	code := a.Run(context.Background())
	fmt.Printf("helios-demo: ran to completion with %d live entities, exit=%d\n",
		a.Main.World.EntityCount(), code)
	os.Exit(int(code))
}
