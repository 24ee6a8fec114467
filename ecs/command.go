package ecs

import "sync"

// Command is a deferred World mutation. Systems queue commands into
// their own CommandBuffer instead of mutating the World directly while
// other systems may be reading it concurrently; the scheduler applies
// every system's buffer, serially, at the next stage boundary.
type Command interface {
	Apply(w *World) error
}

// CommandBuffer accumulates commands from a single system. It is safe
// for concurrent Push calls from within that system's own goroutine(s),
// but Apply must only ever be called from the single command-application
// thread between stages.
type CommandBuffer struct {
	mu       sync.Mutex
	commands []Command
}

// NewCommandBuffer returns an empty buffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

// Push queues a command for later application.
func (b *CommandBuffer) Push(c Command) {
	b.mu.Lock()
	b.commands = append(b.commands, c)
	b.mu.Unlock()
}

// Len reports how many commands are currently queued.
func (b *CommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.commands)
}

// Apply runs every queued command against w, in the order they were
// pushed, and drains the buffer. Stops at the first error.
func (b *CommandBuffer) Apply(w *World) error {
	b.mu.Lock()
	cmds := b.commands
	b.commands = nil
	b.mu.Unlock()

	for _, c := range cmds {
		if err := c.Apply(w); err != nil {
			return err
		}
	}
	return nil
}

// ApplyCommandBuffers applies a set of per-system command buffers to w,
// one buffer at a time, in the given order. The scheduler passes buffers
// in the stage's completion order, so commands from a system that
// finished earlier are always visible to one that finished later.
func ApplyCommandBuffers(w *World, buffers []*CommandBuffer) error {
	for _, b := range buffers {
		if err := b.Apply(w); err != nil {
			return err
		}
	}
	return nil
}

// CreateEntityCommand defers World.CreateEntity. OnCreated, if set, is
// invoked with the resulting entity once applied.
type CreateEntityCommand struct {
	Components []Component
	OnCreated  func(Entity)
}

func (c CreateEntityCommand) Apply(w *World) error {
	e, err := w.CreateEntity(c.Components...)
	if err != nil {
		return err
	}
	if c.OnCreated != nil {
		c.OnCreated(e)
	}
	return nil
}

// DestroyEntityCommand defers World.DestroyEntity.
type DestroyEntityCommand struct {
	Entity Entity
}

func (c DestroyEntityCommand) Apply(w *World) error {
	return w.DestroyEntity(c.Entity)
}

// AddComponentCommand defers World.AddComponent.
type AddComponentCommand struct {
	Entity    Entity
	Component Component
}

func (c AddComponentCommand) Apply(w *World) error {
	return w.AddComponent(c.Entity, c.Component)
}

// RemoveComponentCommand defers World.RemoveComponent.
type RemoveComponentCommand struct {
	Entity    Entity
	Component ComponentID
}

func (c RemoveComponentCommand) Apply(w *World) error {
	return w.RemoveComponent(c.Entity, c.Component)
}
