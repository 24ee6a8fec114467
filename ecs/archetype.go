package ecs

import (
	"sort"
	"sync/atomic"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// archetypeIndex is a stable, append-only index into an ArchetypeStore's
// archetype vector. Edge caches and entity locations hold indices rather
// than pointers so they stay valid as the store's backing vector grows,
// per the source engine's "stable indices instead of raw pointers"
// redesign note.
type archetypeIndex int32

// entityColumn is an internal marker component that stores which Entity
// occupies each row. Every archetype's table carries it alongside the
// user's components, so table's own row bookkeeping keeps it
// automatically synchronized across inserts, swap-removes and transfers
// — it doubles as the archetype's dense Entity vector (spec: "a dense
// Entity vector (row order)") without any manual bookkeeping on our part.
var entityColumn = NewComponent[Entity]()

// Archetype is the equivalence class of entities sharing the exact same
// component-type set. It owns the sorted id list, the parallel component
// descriptors, the columnar table, and the add/remove edge caches.
type Archetype struct {
	id         archetypeIndex
	ids        []ComponentID // sorted, deduplicated
	components []Component   // parallel to ids
	compMask   mask.Mask     // schema-bit identity key, used only for dedup
	tbl        table.Table
	generation atomic.Uint64
	addEdge    map[ComponentID]archetypeIndex
	removeEdge map[ComponentID]archetypeIndex
}

// ID returns the archetype's stable store index.
func (a *Archetype) ID() uint32 { return uint32(a.id) }

// Table returns the backing columnar table.
func (a *Archetype) Table() table.Table { return a.tbl }

// Len returns the number of live rows (entities) in this archetype.
func (a *Archetype) Len() int { return a.tbl.Length() }

// Generation returns the archetype's structural-mutation counter, used by
// the query cache to detect staleness.
func (a *Archetype) Generation() uint64 { return a.generation.Load() }

// ComponentIDs returns the sorted component-id set that identifies this
// archetype.
func (a *Archetype) ComponentIDs() []ComponentID { return a.ids }

// EntityAt returns the entity occupying row.
func (a *Archetype) EntityAt(row int) Entity {
	return *entityColumn.Get(row, a.tbl)
}

func (a *Archetype) bump() { a.generation.Add(1) }

func (a *Archetype) hasComponent(id ComponentID) bool {
	return containsSorted(a.ids, id)
}

// containsAll reports whether a's id set is a superset of with.
func (a *Archetype) containsAll(with []ComponentID) bool {
	return supersetSorted(a.ids, with)
}

// disjointFrom reports whether a's id set shares no member with without.
func (a *Archetype) disjointFrom(without []ComponentID) bool {
	return disjointSorted(a.ids, without)
}

// sortComponents sorts and deduplicates a component slice by id,
// returning the parallel id/component slices used to key an archetype.
func sortComponents(components []Component) ([]ComponentID, []Component) {
	type pair struct {
		id ComponentID
		c  Component
	}
	pairs := make([]pair, len(components))
	for i, c := range components {
		pairs[i] = pair{ComponentID(c.ID()), c}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	ids := make([]ComponentID, 0, len(pairs))
	comps := make([]Component, 0, len(pairs))
	for i, p := range pairs {
		if i > 0 && p.id == ids[len(ids)-1] {
			continue
		}
		ids = append(ids, p.id)
		comps = append(comps, p.c)
	}
	return ids, comps
}

func containsSorted(set []ComponentID, id ComponentID) bool {
	i := sort.Search(len(set), func(i int) bool { return set[i] >= id })
	return i < len(set) && set[i] == id
}

func supersetSorted(set, subset []ComponentID) bool {
	for _, id := range subset {
		if !containsSorted(set, id) {
			return false
		}
	}
	return true
}

func disjointSorted(set, other []ComponentID) bool {
	for _, id := range other {
		if containsSorted(set, id) {
			return false
		}
	}
	return true
}

func asElementTypes(components []Component) []table.ElementType {
	out := make([]table.ElementType, len(components))
	for i, c := range components {
		out[i] = c
	}
	return out
}
