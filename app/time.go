package app

import (
	"time"

	"github.com/helios-engine/core/ecs"
)

// Time is the frame-clock resource every App inserts into its main
// SubApp's World at Initialize and refreshes once per frame, right
// before Update runs. Systems read it with ecs.GetResource[app.Time].
type Time struct {
	Delta   time.Duration
	Elapsed time.Duration
	Frame   uint64

	last time.Time
}

func (t *Time) tick(now time.Time) {
	if t.last.IsZero() {
		t.Delta = 0
	} else {
		t.Delta = now.Sub(t.last)
	}
	t.last = now
	t.Elapsed += t.Delta
	t.Frame++
}

// tickTime advances world's Time resource to now and writes it back,
// returning the updated value.
func tickTime(world *ecs.World, now time.Time) Time {
	t, _ := ecs.GetResource[Time](world)
	t.tick(now)
	ecs.SetResource(world, t)
	return t
}

// MustTime returns world's current Time resource, panicking if Initialize
// has not yet run (and so no Time has ever been inserted).
func MustTime(world *ecs.World) Time {
	return ecs.MustResource[Time](world)
}
