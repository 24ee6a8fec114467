package ecs

// World is the facade over entity/archetype storage, resources, events
// and the query cache. It is the unit of state the scheduler's systems
// read and, via CommandBuffer, defer mutation of.
type World struct {
	registry  *Registry
	store     *ArchetypeStore
	resources *resourceStore
	events    *eventRegistry
	cache     *queryCache
}

// NewWorld returns an empty World with its own entity registry,
// archetype store, resource store, event registry and query cache. Its
// entity registry grows under DefaultAllocator.
func NewWorld() *World {
	return NewWorldWithAllocator(DefaultAllocator)
}

// NewWorldWithAllocator is NewWorld with an explicit entity-registry
// growth strategy — e.g. FixedAllocator for a deployment that wants a
// hard, reviewed entity-count budget instead of unbounded growth.
func NewWorldWithAllocator(alloc Allocator) *World {
	return &World{
		registry:  NewRegistryWithAllocator(alloc),
		store:     NewArchetypeStore(),
		resources: newResourceStore(),
		events:    newEventRegistry(),
		cache:     newQueryCache(QueryCacheCapacity),
	}
}

// CreateEntity reserves a new entity and places it in the archetype for
// components, with every column default-initialized. Call Flush
// afterward to make the entity visible to IsAlive.
func (w *World) CreateEntity(components ...Component) (Entity, error) {
	e := w.registry.Reserve()
	if err := w.store.AssignFresh(e, components); err != nil {
		return Entity{}, err
	}
	return e, nil
}

// Flush commits every entity reserved since the last Flush into the
// registry's live generation table, then sends EntitySpawnedEvent for
// each (iff that type has been registered). Single-threaded: call it
// only from the command-application point between stages, never
// concurrently with Reserve.
func (w *World) Flush() {
	spawned := w.registry.Flush()
	for _, e := range spawned {
		emitIfRegistered(w, EntitySpawnedEvent{Entity: e})
	}
}

// DestroyEntity removes e's row from storage, recycles its index, and
// sends EntityDestroyedEvent (iff that type has been registered).
func (w *World) DestroyEntity(e Entity) error {
	if !w.registry.IsAlive(e) {
		return EntityNotAliveError{Entity: e}
	}
	if err := w.store.Destroy(e); err != nil {
		return err
	}
	w.registry.Destroy(e)
	emitIfRegistered(w, EntityDestroyedEvent{Entity: e})
	return nil
}

// AddComponent moves e into the archetype for its current components
// plus c.
func (w *World) AddComponent(e Entity, c Component) error {
	if !w.registry.IsAlive(e) {
		return EntityNotAliveError{Entity: e}
	}
	return w.store.AddComponent(e, c)
}

// RemoveComponent moves e into the archetype for its current components
// minus id.
func (w *World) RemoveComponent(e Entity, id ComponentID) error {
	if !w.registry.IsAlive(e) {
		return EntityNotAliveError{Entity: e}
	}
	return w.store.RemoveComponent(e, id)
}

// IsAlive reports whether e is a currently-live entity.
func (w *World) IsAlive(e Entity) bool {
	return w.registry.IsAlive(e)
}

// EntityCount returns the number of currently live entities.
func (w *World) EntityCount() int {
	return w.registry.Count()
}

// Query resolves q against the current archetype set, consulting the
// World's query cache, and returns a Cursor over the matching rows.
func (w *World) Query(q *Query) *Cursor {
	archetypes := w.cache.resolve(q, w.store)
	return newCursor(archetypes)
}

// Archetypes returns every archetype the World has ever created.
func (w *World) Archetypes() []*Archetype {
	return w.store.Archetypes()
}

// StructuralVersion returns the World's current structural-change
// counter, bumped every time a new archetype is created.
func (w *World) StructuralVersion() uint64 {
	return w.store.StructuralVersion()
}

// TickEvents rotates every registered event queue's double buffer. The
// scheduler's executor (sched.RunPlan) calls this once per stage, after
// every system in the stage has run and had its commands applied.
func (w *World) TickEvents() {
	w.events.tickAll()
}
