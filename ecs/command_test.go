package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type cmdPosition struct{ X, Y float64 }

var cmdPositionComponent = NewComponent[cmdPosition]()

func TestCreateEntityCommandAppliesAndFiresCallback(t *testing.T) {
	w := NewWorld()
	buf := NewCommandBuffer()

	var created Entity
	buf.Push(CreateEntityCommand{
		Components: []Component{cmdPositionComponent},
		OnCreated:  func(e Entity) { created = e },
	})
	require.Equal(t, 1, buf.Len())

	require.NoError(t, buf.Apply(w))
	w.Flush()

	require.True(t, w.IsAlive(created))
	require.Equal(t, 0, buf.Len(), "Apply drains the buffer")
}

func TestApplyCommandBuffersRunsInGivenOrder(t *testing.T) {
	w := NewWorld()
	var order []int

	orderedCmd := func(n int) Command {
		return recordingCommand{fn: func() { order = append(order, n) }}
	}

	b1 := NewCommandBuffer()
	b1.Push(orderedCmd(1))
	b2 := NewCommandBuffer()
	b2.Push(orderedCmd(2))

	require.NoError(t, ApplyCommandBuffers(w, []*CommandBuffer{b1, b2}))
	require.Equal(t, []int{1, 2}, order)
}

func TestDestroyEntityCommand(t *testing.T) {
	w := NewWorld()
	e, err := w.CreateEntity(cmdPositionComponent)
	require.NoError(t, err)
	w.Flush()

	buf := NewCommandBuffer()
	buf.Push(DestroyEntityCommand{Entity: e})
	require.NoError(t, buf.Apply(w))

	require.False(t, w.IsAlive(e))
}

// recordingCommand is test-only scaffolding for asserting apply order.
type recordingCommand struct{ fn func() }

func (c recordingCommand) Apply(*World) error {
	c.fn()
	return nil
}
