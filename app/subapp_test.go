package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/helios-engine/core/ecs"
	"github.com/helios-engine/core/sched"
	"github.com/stretchr/testify/require"
)

type auxMarker struct{ Seen int }

var auxMarkerComponent = ecs.NewComponent[auxMarker]()

type slowAuxSystem struct {
	started chan struct{}
	release chan struct{}
}

func (slowAuxSystem) AccessPolicy() sched.AccessPolicy {
	return sched.NewAccessPolicy().Query(sched.W[auxMarker]())
}

func (s slowAuxSystem) Run(ctx *sched.Context) error {
	close(s.started)
	<-s.release
	for cur := ctx.World.Query(ecs.NewQuery().With(auxMarkerComponent)); cur.Next(); {
		auxMarkerComponent.GetFromCursor(cur).Seen++
	}
	return nil
}

type copyExtractor struct {
	mainWorld *ecs.World
	count     *int
	mu        *sync.Mutex
}

func (e copyExtractor) Extract(mainWorld *ecs.World) {
	e.mu.Lock()
	*e.count++
	e.mu.Unlock()
}

// TestOverlappingSubAppDoesNotBlockMainFrame verifies that an
// AllowOverlappingUpdates SubApp's slow Update does not stall the main
// SubApp's next frame: Update returns as soon as the main SubApp's own
// stages finish, leaving the aux SubApp's work running in the
// background until a later reap.
func TestOverlappingSubAppDoesNotBlockMainFrame(t *testing.T) {
	a := New()

	aux := NewSubApp("aux")
	_, err := aux.World.CreateEntity(auxMarkerComponent)
	require.NoError(t, err)
	aux.World.Flush()

	started := make(chan struct{})
	release := make(chan struct{})
	aux.AllowOverlappingUpdates = true
	aux.AddSystem(slowAuxSystem{started: started, release: release}, sched.InStage[sched.Update]())

	var mu sync.Mutex
	extractCount := 0
	aux.Extract = copyExtractor{count: &extractCount, mu: &mu}

	a.AddSubApp(aux)
	require.NoError(t, a.Initialize(context.Background()))

	done := make(chan struct{})
	go func() {
		_, err := a.Update(context.Background(), time.Now())
		require.NoError(t, err)
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("aux system never started")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("App.Update blocked on the overlapping aux SubApp instead of returning")
	}

	close(release)
	require.NoError(t, a.CleanUp(context.Background()))

	mu.Lock()
	require.Equal(t, 1, extractCount)
	mu.Unlock()
}

type countingSystem struct{ n *int }

func (countingSystem) AccessPolicy() sched.AccessPolicy { return sched.NewAccessPolicy() }
func (s countingSystem) Run(*sched.Context) error {
	*s.n++
	return nil
}

func TestNonOverlappingAuxRunsAlongsideMainEachFrame(t *testing.T) {
	a := New()

	aux := NewSubApp("aux")
	auxRuns := 0
	aux.AddSystem(countingSystem{n: &auxRuns}, sched.InStage[sched.Update]())
	a.AddSubApp(aux)

	mainRuns := 0
	a.AddSystem(countingSystem{n: &mainRuns}, sched.InStage[sched.Update]())

	require.NoError(t, a.Initialize(context.Background()))
	_, err := a.Update(context.Background(), time.Now())
	require.NoError(t, err)
	_, err = a.Update(context.Background(), time.Now())
	require.NoError(t, err)

	require.Equal(t, 2, mainRuns)
	require.Equal(t, 2, auxRuns, "non-overlapping aux SubApp runs every frame in lockstep with main")

	require.NoError(t, a.CleanUp(context.Background()))
}
