package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type damageEvent struct {
	Amount int
}

func TestSendReadEventsSameTick(t *testing.T) {
	w := NewWorld()
	RegisterEvent[damageEvent](w, ClearAutomatic)
	SendEvent(w, damageEvent{Amount: 10})
	SendEvent(w, damageEvent{Amount: 5})

	got := ReadEvents[damageEvent](w)
	require.Len(t, got, 2)
	require.Equal(t, 10, got[0].Amount)
}

func TestSendEventOnUnregisteredTypePanics(t *testing.T) {
	w := NewWorld()
	require.Panics(t, func() {
		SendEvent(w, damageEvent{Amount: 1})
	})
}

func TestReadEventsOnUnregisteredTypeReturnsEmpty(t *testing.T) {
	w := NewWorld()
	require.Empty(t, ReadEvents[damageEvent](w))
}

func TestAutomaticClearSurvivesOneTickThenDrops(t *testing.T) {
	w := NewWorld()
	RegisterEvent[damageEvent](w, ClearAutomatic)
	SendEvent(w, damageEvent{Amount: 10})

	w.TickEvents()
	got := ReadEvents[damageEvent](w)
	require.Len(t, got, 1, "event sent before the tick is still readable for one more tick")

	w.TickEvents()
	got = ReadEvents[damageEvent](w)
	require.Empty(t, got, "event must be gone after its one extra tick of lifetime")
}

func TestManualClearPersistsUntilClearEvents(t *testing.T) {
	w := NewWorld()
	RegisterEvent[damageEvent](w, ClearManual)
	SendEvent(w, damageEvent{Amount: 10})

	w.TickEvents()
	w.TickEvents()
	got := ReadEvents[damageEvent](w)
	require.Len(t, got, 1, "ClearManual events must not be rotated away automatically")

	ClearEvents[damageEvent](w)
	require.Empty(t, ReadEvents[damageEvent](w))
}

func TestEntitySpawnedEventSentOnFlushIffRegistered(t *testing.T) {
	w := NewWorld()
	RegisterEvent[EntitySpawnedEvent](w, ClearAutomatic)

	e, err := w.CreateEntity()
	require.NoError(t, err)
	require.Empty(t, ReadEvents[EntitySpawnedEvent](w), "not spawned until Flush")

	w.Flush()
	got := ReadEvents[EntitySpawnedEvent](w)
	require.Len(t, got, 1)
	require.Equal(t, e, got[0].Entity)
}

func TestEntitySpawnedEventNotSentUnlessRegistered(t *testing.T) {
	w := NewWorld()
	_, err := w.CreateEntity()
	require.NoError(t, err)
	require.NotPanics(t, func() { w.Flush() })
}

func TestEntityDestroyedEventSentIffRegistered(t *testing.T) {
	w := NewWorld()
	RegisterEvent[EntityDestroyedEvent](w, ClearAutomatic)

	e, err := w.CreateEntity()
	require.NoError(t, err)
	w.Flush()

	require.NoError(t, w.DestroyEntity(e))
	got := ReadEvents[EntityDestroyedEvent](w)
	require.Len(t, got, 1)
	require.Equal(t, e, got[0].Entity)
}
