package ecs

import "sort"

// Query is a with/without predicate over component sets. It is cheap to
// construct and immutable once built; World.Query resolves it against
// the current archetype set, consulting the per-World query cache.
type Query struct {
	with    []ComponentID
	without []ComponentID
}

// NewQuery returns an empty query matching every archetype.
func NewQuery() *Query {
	return &Query{}
}

// With requires the archetype carry every given component.
func (q *Query) With(components ...Component) *Query {
	q.with = mergeIDs(q.with, components)
	return q
}

// Without excludes archetypes carrying any given component.
func (q *Query) Without(components ...Component) *Query {
	q.without = mergeIDs(q.without, components)
	return q
}

func mergeIDs(existing []ComponentID, components []Component) []ComponentID {
	ids := make([]ComponentID, 0, len(existing)+len(components))
	ids = append(ids, existing...)
	for _, c := range components {
		ids = append(ids, ComponentID(c.ID()))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:0]
	for i, id := range ids {
		if i > 0 && id == out[len(out)-1] {
			continue
		}
		out = append(out, id)
	}
	return out
}

// matches reports whether an archetype's id set satisfies the query.
func (q *Query) matches(a *Archetype) bool {
	return a.containsAll(q.with) && a.disjointFrom(q.without)
}
