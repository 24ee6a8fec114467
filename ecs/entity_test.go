package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryReserveFlush(t *testing.T) {
	r := NewRegistry()

	e := r.Reserve()
	require.False(t, r.IsAlive(e), "not alive until Flush")

	r.Flush()
	require.True(t, r.IsAlive(e))
	require.Equal(t, uint32(1), e.Generation)
}

func TestRegistryDestroyRecyclesIndexBumpsGeneration(t *testing.T) {
	r := NewRegistry()

	e1 := r.Reserve()
	r.Flush()
	require.True(t, r.Destroy(e1))
	require.False(t, r.IsAlive(e1), "stale handle must not read as alive")

	e2 := r.Reserve()
	r.Flush()
	require.Equal(t, e1.Index, e2.Index, "index should be recycled")
	require.Greater(t, e2.Generation, e1.Generation, "generation must have advanced")
	require.True(t, r.IsAlive(e2))
	require.False(t, r.IsAlive(e1), "old handle still stale after recycle")
}

func TestRegistryDestroyAlreadyDeadReturnsFalse(t *testing.T) {
	r := NewRegistry()
	e := r.Reserve()
	r.Flush()
	require.True(t, r.Destroy(e))
	require.False(t, r.Destroy(e), "destroying an already-dead handle reports false")
}

func TestRegistryCount(t *testing.T) {
	r := NewRegistry()
	var entities []Entity
	for i := 0; i < 5; i++ {
		entities = append(entities, r.Reserve())
	}
	r.Flush()
	require.Equal(t, 5, r.Count())

	r.Destroy(entities[0])
	require.Equal(t, 4, r.Count())
}

func TestEntityValidAndOrdering(t *testing.T) {
	var zero Entity
	require.False(t, zero.Valid())

	a := Entity{Index: 1, Generation: 1}
	b := Entity{Index: 2, Generation: 1}
	require.True(t, a.Valid())
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
}

func TestFixedAllocatorPanicsOverBudget(t *testing.T) {
	r := NewRegistryWithAllocator(FixedAllocator{Max: 2})
	r.Reserve()
	r.Reserve()
	r.Flush()

	require.Panics(t, func() {
		r.Reserve()
		r.Reserve()
		r.Reserve()
		r.Flush()
	})
}
