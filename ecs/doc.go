/*
Package ecs is the entity/component/archetype/event/resource substrate of
Helios. It groups entities into archetypes by exact component set, keeps
per-component data in contiguous columns, and exposes queries, events,
resources and a per-system command buffer on top.

Core concepts:

  - Entity: a {index, generation} handle for a game object.
  - Component: a data container registered once via NewComponent[T]().
  - Archetype: the set of entities sharing the exact same component types.
  - Query: a with/without predicate resolved to a cached archetype list.
  - Resource: a uniquely-typed singleton value held by the World.
  - Event: a typed, double-buffered queue ticked once per stage.
  - Command: a deferred world mutation, applied at a stage boundary.

Basic usage:

	world := ecs.NewWorld()

	position := ecs.NewComponent[Position]()
	velocity := ecs.NewComponent[Velocity]()

	e, _ := world.CreateEntity(position, velocity)
	world.Flush()

	q := ecs.NewQuery().With(position, velocity)
	for cur := world.Query(q); cur.Next(); {
		pos := position.GetFromCursor(cur)
		vel := velocity.GetFromCursor(cur)
		pos.X += vel.X
		pos.Y += vel.Y
	}

The scheduler that composes systems touching these queries into a
conflict-free parallel plan lives in the sibling package `sched`.
*/
package ecs
