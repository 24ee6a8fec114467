package ecs

import (
	"fmt"
	"sync"

	"github.com/TheBitDrifter/bark"
	"github.com/helios-engine/core/typeid"
)

// ClearPolicy controls how an event type's buffers are rotated each
// tick.
type ClearPolicy int

const (
	// ClearAutomatic rotates the queue every Tick: events sent during a
	// frame remain readable for exactly one further tick (the classic
	// double-buffer lifetime), then are dropped without caller action.
	ClearAutomatic ClearPolicy = iota
	// ClearManual never rotates automatically; the caller must call
	// ClearEvents[T] to drop accumulated events.
	ClearManual
)

type eventQueue struct {
	mu       sync.Mutex
	current  []any
	previous []any
	policy   ClearPolicy
}

func (q *eventQueue) send(ev any) {
	q.mu.Lock()
	q.current = append(q.current, ev)
	q.mu.Unlock()
}

func (q *eventQueue) read() []any {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]any, 0, len(q.previous)+len(q.current))
	out = append(out, q.previous...)
	out = append(out, q.current...)
	return out
}

func (q *eventQueue) tick() {
	q.mu.Lock()
	if q.policy == ClearAutomatic {
		q.previous = q.current
		q.current = nil
	}
	q.mu.Unlock()
}

func (q *eventQueue) clear() {
	q.mu.Lock()
	q.previous = nil
	q.current = nil
	q.mu.Unlock()
}

// eventRegistry holds one double-buffered queue per registered event
// type.
type eventRegistry struct {
	mu     sync.RWMutex
	queues map[typeid.ID]*eventQueue
}

func newEventRegistry() *eventRegistry {
	return &eventRegistry{queues: make(map[typeid.ID]*eventQueue)}
}

// register creates id's queue if it does not already exist.
// RegisterEvent is the only caller.
func (r *eventRegistry) register(id typeid.ID, policy ClearPolicy) *eventQueue {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[id]
	if !ok {
		q = &eventQueue{policy: policy}
		r.queues[id] = q
	}
	return q
}

// lookup returns id's queue without creating one.
func (r *eventRegistry) lookup(id typeid.ID) (*eventQueue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.queues[id]
	return q, ok
}

// tickAll rotates every registered queue. World calls this once per
// frame (or once per stage boundary, if the caller wants per-stage event
// lifetimes).
func (r *eventRegistry) tickAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, q := range r.queues {
		q.tick()
	}
}

// RegisterEvent declares T as an event type with the given clear
// policy. Must be called before SendEvent[T] — writing into an
// unregistered type is an assertion failure, not an implicit
// registration.
func RegisterEvent[T any](w *World, policy ClearPolicy) {
	w.events.register(typeid.Of[T](), policy)
}

// EventNotRegisteredError is panicked by SendEvent when T has never
// been declared via RegisterEvent.
type EventNotRegisteredError struct {
	Event string
}

func (e EventNotRegisteredError) Error() string {
	return fmt.Sprintf("event type not registered: %s", e.Event)
}

// SendEvent appends ev to T's current-frame queue. T must already have
// been declared with RegisterEvent[T]; sending an unregistered type is
// an assertion failure.
func SendEvent[T any](w *World, ev T) {
	q, ok := w.events.lookup(typeid.Of[T]())
	if !ok {
		panic(bark.AddTrace(EventNotRegisteredError{Event: typeid.Name[T]()}))
	}
	q.send(ev)
}

// ReadEvents returns every T event still within its buffer lifetime:
// the ones sent so far this tick, plus the ones sent last tick (for
// ClearAutomatic queues) or ever since the last ClearEvents call (for
// ClearManual queues). An unregistered or never-sent type reads as
// empty.
func ReadEvents[T any](w *World) []T {
	q, ok := w.events.lookup(typeid.Of[T]())
	if !ok {
		return nil
	}
	raw := q.read()
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(T)
	}
	return out
}

// ClearEvents empties both buffers for T immediately. A no-op if T was
// never registered.
func ClearEvents[T any](w *World) {
	if q, ok := w.events.lookup(typeid.Of[T]()); ok {
		q.clear()
	}
}

// EntitySpawnedEvent is sent when an entity reserved via
// World.CreateEntity becomes live (i.e. after World.Flush). Only sent
// if RegisterEvent[EntitySpawnedEvent] has been called.
type EntitySpawnedEvent struct {
	Entity Entity
}

// EntityDestroyedEvent is sent when World.DestroyEntity removes an
// entity. Only sent if RegisterEvent[EntityDestroyedEvent] has been
// called.
type EntityDestroyedEvent struct {
	Entity Entity
}

// emitIfRegistered sends ev on T's queue iff T has already been
// registered, unlike SendEvent it is not an assertion failure to skip a
// type nobody asked to observe — used for the built-in lifecycle
// events, which most Worlds never register.
func emitIfRegistered[T any](w *World, ev T) {
	if q, ok := w.events.lookup(typeid.Of[T]()); ok {
		q.send(ev)
	}
}
