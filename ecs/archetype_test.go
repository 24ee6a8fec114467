package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type archTestA struct{ Value int }
type archTestB struct{ Value int }

var (
	archTestAComponent = NewComponent[archTestA]()
	archTestBComponent = NewComponent[archTestB]()
)

func TestAddComponentMigratesToNewArchetypeAndPreservesColumns(t *testing.T) {
	w := NewWorld()

	e, err := w.CreateEntity(archTestAComponent)
	require.NoError(t, err)
	w.Flush()

	srcArch := w.store.Archetype(e)
	require.NotNil(t, srcArch)
	require.ElementsMatch(t, []ComponentID{ComponentID(archTestAComponent.ID())}, srcArch.ComponentIDs())

	_, row, ok := w.store.Row(e)
	require.True(t, ok)
	archTestAComponent.Get(row, srcArch.Table()).Value = 42

	require.NoError(t, w.AddComponent(e, archTestBComponent))

	dstArch := w.store.Archetype(e)
	require.NotNil(t, dstArch)
	require.NotEqual(t, srcArch.ID(), dstArch.ID())
	require.ElementsMatch(t,
		[]ComponentID{ComponentID(archTestAComponent.ID()), ComponentID(archTestBComponent.ID())},
		dstArch.ComponentIDs(),
	)
	require.Equal(t, 0, srcArch.Len(), "old archetype's row must be gone after migration")

	_, newRow, ok := w.store.Row(e)
	require.True(t, ok)
	require.Equal(t, 42, archTestAComponent.Get(newRow, dstArch.Table()).Value, "column A value must carry over")
}

func TestAddComponentReusesCachedEdgeOnRepeatedIdenticalMigration(t *testing.T) {
	w := NewWorld()

	e1, err := w.CreateEntity(archTestAComponent)
	require.NoError(t, err)
	e2, err := w.CreateEntity(archTestAComponent)
	require.NoError(t, err)
	w.Flush()

	require.NoError(t, w.AddComponent(e1, archTestBComponent))
	versionAfterFirst := w.StructuralVersion()
	require.Equal(t, w.store.Archetype(e1).id, w.store.Archetype(e2).addEdge[ComponentID(archTestBComponent.ID())],
		"first migration must cache the add-edge on the source archetype")

	require.NoError(t, w.AddComponent(e2, archTestBComponent))
	versionAfterSecond := w.StructuralVersion()

	require.Equal(t, versionAfterFirst, versionAfterSecond,
		"second identical migration must reuse the cached add-edge, not create a new archetype")
	require.Equal(t, w.store.Archetype(e1).ID(), w.store.Archetype(e2).ID())
}

func TestRemoveComponentMigratesToArchetypeWithoutComponent(t *testing.T) {
	w := NewWorld()

	e, err := w.CreateEntity(archTestAComponent, archTestBComponent)
	require.NoError(t, err)
	w.Flush()

	srcArch := w.store.Archetype(e)
	require.NoError(t, w.RemoveComponent(e, ComponentID(archTestBComponent.ID())))

	dstArch := w.store.Archetype(e)
	require.NotEqual(t, srcArch.ID(), dstArch.ID())
	require.ElementsMatch(t, []ComponentID{ComponentID(archTestAComponent.ID())}, dstArch.ComponentIDs())
	require.Equal(t, 0, srcArch.Len())
}
