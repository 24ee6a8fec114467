package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// entityLocation is where a live entity currently sits: which archetype,
// and its stable entry id within the store's single shared entry index.
// The row itself is never cached — it is re-resolved from entryID on
// every access, so swap-removes and transfers never require us to patch
// up some other entity's bookkeeping.
type entityLocation struct {
	arch    archetypeIndex
	entryID table.EntryID
}

// ArchetypeStore owns every archetype's table and the entity->location
// map, and implements the structural operations from the data model:
// AssignFresh, AddComponent, RemoveComponent and Destroy.
type ArchetypeStore struct {
	schema     table.Schema
	entryIndex table.EntryIndex
	events     table.TableEvents

	archetypes []*Archetype
	byMask     map[mask.Mask]archetypeIndex
	location   map[uint32]entityLocation

	structVersion uint64
}

// NewArchetypeStore returns an empty store with its own schema and entry
// index, ready to accept entities.
func NewArchetypeStore() *ArchetypeStore {
	return &ArchetypeStore{
		schema:     table.Factory.NewSchema(),
		entryIndex: table.Factory.NewEntryIndex(),
		byMask:     make(map[mask.Mask]archetypeIndex),
		location:   make(map[uint32]entityLocation),
	}
}

// SetTableEvents installs row-lifecycle callbacks used by every archetype
// table the store creates from this point forward.
func (s *ArchetypeStore) SetTableEvents(te table.TableEvents) {
	s.events = te
}

// StructuralVersion returns a counter bumped every time a new archetype
// is created. The query cache uses it to invalidate stale resolutions.
func (s *ArchetypeStore) StructuralVersion() uint64 {
	return s.structVersion
}

// Archetypes returns every archetype the store has ever created. Once
// created an archetype lives for the store's lifetime, even if it
// becomes empty.
func (s *ArchetypeStore) Archetypes() []*Archetype {
	return s.archetypes
}

// Archetype resolves an entity's current archetype, or nil if e carries
// no rows (already destroyed, or never assigned).
func (s *ArchetypeStore) Archetype(e Entity) *Archetype {
	loc, ok := s.location[e.Index]
	if !ok {
		return nil
	}
	return s.archetypes[loc.arch]
}

// Row resolves the live row an entity currently occupies within its
// archetype's table. Returns -1, false if e has no rows.
func (s *ArchetypeStore) Row(e Entity) (*Archetype, int, bool) {
	loc, ok := s.location[e.Index]
	if !ok {
		return nil, -1, false
	}
	entry, err := s.entryIndex.Entry(int(loc.entryID) - 1)
	if err != nil {
		return nil, -1, false
	}
	return s.archetypes[loc.arch], entry.Index(), true
}

func (s *ArchetypeStore) findOrCreateArchetype(components []Component) (*Archetype, error) {
	ids, comps := sortComponents(components)

	var m mask.Mask
	for _, c := range comps {
		s.schema.Register(c)
		m.Mark(s.schema.RowIndexFor(c))
	}

	if idx, ok := s.byMask[m]; ok {
		return s.archetypes[idx], nil
	}

	s.schema.Register(entityColumn.Component)
	elems := make([]table.ElementType, 0, len(comps)+1)
	elems = append(elems, asElementTypes(comps)...)
	elems = append(elems, entityColumn.Component)

	tbl, err := table.NewTableBuilder().
		WithSchema(s.schema).
		WithEntryIndex(s.entryIndex).
		WithElementTypes(elems...).
		WithEvents(s.events).
		Build()
	if err != nil {
		return nil, fmt.Errorf("ecs: building archetype table: %w", err)
	}

	idx := archetypeIndex(len(s.archetypes))
	arch := &Archetype{
		id:         idx,
		ids:        ids,
		components: comps,
		compMask:   m,
		tbl:        tbl,
		addEdge:    make(map[ComponentID]archetypeIndex),
		removeEdge: make(map[ComponentID]archetypeIndex),
	}
	s.archetypes = append(s.archetypes, arch)
	s.byMask[m] = idx
	s.structVersion++
	return arch, nil
}

// AssignFresh removes e from any archetype it currently occupies and
// inserts it as a new row in the archetype for components, default-
// initializing every column. It is the path used for entity creation and
// for snapshot-style component-set replacement.
func (s *ArchetypeStore) AssignFresh(e Entity, components []Component) error {
	if loc, ok := s.location[e.Index]; ok {
		if err := s.removeRow(loc); err != nil {
			return err
		}
		delete(s.location, e.Index)
	}

	arch, err := s.findOrCreateArchetype(components)
	if err != nil {
		return err
	}
	entries, err := arch.tbl.NewEntries(1)
	if err != nil {
		return fmt.Errorf("ecs: inserting entity row: %w", err)
	}
	entry := entries[0]
	*entityColumn.Get(entry.Index(), arch.tbl) = e
	s.location[e.Index] = entityLocation{arch: arch.id, entryID: entry.ID()}
	arch.bump()
	return nil
}

// AddComponent moves e into the archetype for its current component set
// plus comp, consulting and populating the source archetype's add-edge
// cache. A no-op if e already carries comp.
func (s *ArchetypeStore) AddComponent(e Entity, comp Component) error {
	loc, ok := s.location[e.Index]
	if !ok {
		return s.AssignFresh(e, []Component{comp})
	}
	src := s.archetypes[loc.arch]
	id := ComponentID(comp.ID())
	if src.hasComponent(id) {
		return nil
	}

	dst, hit := s.edgeTarget(src.addEdge, id)
	if !hit {
		newComps := make([]Component, 0, len(src.components)+1)
		newComps = append(newComps, src.components...)
		newComps = append(newComps, comp)
		created, err := s.findOrCreateArchetype(newComps)
		if err != nil {
			return err
		}
		dst = created
		src.addEdge[id] = dst.id
		dst.removeEdge[id] = src.id
	}
	return s.moveRow(e, loc, src, dst)
}

// RemoveComponent moves e into the archetype for its current component
// set minus id, consulting and populating the source archetype's
// remove-edge cache. A no-op if e does not carry id.
func (s *ArchetypeStore) RemoveComponent(e Entity, id ComponentID) error {
	loc, ok := s.location[e.Index]
	if !ok {
		return nil
	}
	src := s.archetypes[loc.arch]
	if !src.hasComponent(id) {
		return nil
	}

	dst, hit := s.edgeTarget(src.removeEdge, id)
	if !hit {
		newComps := make([]Component, 0, len(src.components))
		for _, c := range src.components {
			if ComponentID(c.ID()) != id {
				newComps = append(newComps, c)
			}
		}
		created, err := s.findOrCreateArchetype(newComps)
		if err != nil {
			return err
		}
		dst = created
		src.removeEdge[id] = dst.id
		dst.addEdge[id] = src.id
	}
	return s.moveRow(e, loc, src, dst)
}

func (s *ArchetypeStore) edgeTarget(edges map[ComponentID]archetypeIndex, id ComponentID) (*Archetype, bool) {
	idx, ok := edges[id]
	if !ok {
		return nil, false
	}
	return s.archetypes[idx], true
}

// moveRow transfers e's row from src into dst. entityColumn is present in
// every archetype, so it and every other shared column are carried across
// by TransferEntries automatically; only the location map needs updating.
func (s *ArchetypeStore) moveRow(e Entity, loc entityLocation, src, dst *Archetype) error {
	entry, err := s.entryIndex.Entry(int(loc.entryID) - 1)
	if err != nil {
		return fmt.Errorf("ecs: resolving entity row: %w", err)
	}
	if err := src.tbl.TransferEntries(dst.tbl, entry.Index()); err != nil {
		return fmt.Errorf("ecs: transferring entity row: %w", err)
	}
	s.location[e.Index] = entityLocation{arch: dst.id, entryID: loc.entryID}
	src.bump()
	dst.bump()
	return nil
}

func (s *ArchetypeStore) removeRow(loc entityLocation) error {
	arch := s.archetypes[loc.arch]
	if _, err := arch.tbl.DeleteEntries(int(loc.entryID)); err != nil {
		return fmt.Errorf("ecs: deleting entity row: %w", err)
	}
	arch.bump()
	return nil
}

// Destroy erases e's row from its archetype. A no-op if e has no rows.
func (s *ArchetypeStore) Destroy(e Entity) error {
	loc, ok := s.location[e.Index]
	if !ok {
		return nil
	}
	if err := s.removeRow(loc); err != nil {
		return err
	}
	delete(s.location, e.Index)
	return nil
}
