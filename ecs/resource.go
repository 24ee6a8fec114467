package ecs

import (
	"sync"

	"github.com/TheBitDrifter/bark"
	"github.com/helios-engine/core/typeid"
)

// ThreadSafe marks a resource type as synchronizing itself, so the
// scheduler need not serialize access to it. sched.ReadRes/WriteRes
// detect it (on the value or its pointer), and sched.AccessPolicy drops
// such accesses, so they never take part in conflict analysis. Resources
// that don't implement it are still readable from multiple systems at
// once; writers are what the scheduler serializes.
type ThreadSafe interface {
	ThreadSafe()
}

// resourceStore is a typed singleton store, one value per Go type,
// keyed the same way components are: a stable id derived from the
// type itself rather than a string name.
type resourceStore struct {
	mu    sync.RWMutex
	items map[typeid.ID]any
}

func newResourceStore() *resourceStore {
	return &resourceStore{items: make(map[typeid.ID]any)}
}

func (s *resourceStore) set(id typeid.ID, value any) {
	s.mu.Lock()
	s.items[id] = value
	s.mu.Unlock()
}

func (s *resourceStore) get(id typeid.ID) (any, bool) {
	s.mu.RLock()
	v, ok := s.items[id]
	s.mu.RUnlock()
	return v, ok
}

func (s *resourceStore) remove(id typeid.ID) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// SetResource installs value as the World's singleton instance of T,
// replacing any existing one.
func SetResource[T any](w *World, value T) {
	w.resources.set(typeid.Of[T](), value)
}

// GetResource returns the World's singleton instance of T, if one has
// been set.
func GetResource[T any](w *World) (T, bool) {
	v, ok := w.resources.get(typeid.Of[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// MustResource returns the World's singleton instance of T, panicking if
// none has been set. Intended for systems that declare the resource in
// their AccessPolicy and can therefore assume its presence.
func MustResource[T any](w *World) T {
	v, ok := GetResource[T](w)
	if !ok {
		panic(bark.AddTrace(ResourceNotFoundError{Resource: typeid.Name[T]()}))
	}
	return v
}

// RemoveResource deletes T's singleton instance, if any.
func RemoveResource[T any](w *World) {
	w.resources.remove(typeid.Of[T]())
}
