package ecs

import (
	"sync"
	"sync/atomic"
)

// invalidIndex is reserved and never handed out by Registry.
const invalidIndex = ^uint32(0)

// Entity is a {index, generation} handle. Generation 0 denotes an invalid
// handle. Ordering is by index then generation; Hash packs both into a
// single uint64 the way the source engine's entity hash did.
type Entity struct {
	Index      uint32
	Generation uint32
}

// Valid reports whether e carries a non-zero generation and an in-range
// index. It does not check liveness against a Registry — use
// Registry.IsAlive for that.
func (e Entity) Valid() bool {
	return e.Generation != 0 && e.Index != invalidIndex
}

// Less orders entities by index, then generation.
func (e Entity) Less(o Entity) bool {
	if e.Index != o.Index {
		return e.Index < o.Index
	}
	return e.Generation < o.Generation
}

// Hash packs index and generation into a single uint64 key.
func (e Entity) Hash() uint64 {
	return uint64(e.Generation)<<32 | uint64(e.Index)
}

type pendingEntity struct {
	index      uint32
	generation uint32
}

// Registry allocates and recycles {index, generation} entity handles.
//
// Reserve is the hot, concurrent path: it pops a recycled index from the
// free list via CAS, or fetch-adds a fresh index, and never takes a lock.
// Flush, Destroy and IsAlive are called only from the single command-
// application thread, per the scheduling model in sched.
type Registry struct {
	generations atomic.Pointer[[]uint32] // index -> live generation; 0 == not live
	freeList    atomic.Pointer[[]uint32] // recycled indices, swapped in by Destroy
	freeCursor  atomic.Uint32            // next freeList slot to claim
	nextIndex   atomic.Uint32            // next brand-new index to mint

	pendingMu sync.Mutex
	pending   []pendingEntity // reserved-but-not-yet-flushed

	alloc Allocator
}

// NewRegistry returns an empty entity registry using DefaultAllocator.
func NewRegistry() *Registry {
	return NewRegistryWithAllocator(DefaultAllocator)
}

// NewRegistryWithAllocator returns an empty entity registry whose
// generation table grows according to alloc.
func NewRegistryWithAllocator(alloc Allocator) *Registry {
	r := &Registry{alloc: alloc}
	empty := make([]uint32, 0, alloc.NextCapacity(0, 0))
	freeEmpty := make([]uint32, 0)
	r.generations.Store(&empty)
	r.freeList.Store(&freeEmpty)
	return r
}

// Reserve allocates a handle lock-free: a CAS pop from the free list when
// one is available, otherwise a fetch-add on the next-index counter. No
// component storage is touched.
func (r *Registry) Reserve() Entity {
	for {
		free := *r.freeList.Load()
		cursor := r.freeCursor.Load()
		if cursor >= uint32(len(free)) {
			break
		}
		if r.freeCursor.CompareAndSwap(cursor, cursor+1) {
			idx := free[cursor]
			gens := *r.generations.Load()
			gen := uint32(1)
			if int(idx) < len(gens) && gens[idx] != 0 {
				gen = gens[idx]
			}
			r.stage(idx, gen)
			return Entity{Index: idx, Generation: gen}
		}
	}
	idx := r.nextIndex.Add(1) - 1
	r.stage(idx, 1)
	return Entity{Index: idx, Generation: 1}
}

func (r *Registry) stage(index, generation uint32) {
	r.pendingMu.Lock()
	r.pending = append(r.pending, pendingEntity{index: index, generation: generation})
	r.pendingMu.Unlock()
}

// Flush materializes every reserved-but-unflushed index into the live
// generation table and returns the entities that just became live.
// Single-threaded.
func (r *Registry) Flush() []Entity {
	r.pendingMu.Lock()
	pending := r.pending
	r.pending = nil
	r.pendingMu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	old := *r.generations.Load()
	maxIdx := uint32(len(old))
	for _, p := range pending {
		if p.index+1 > maxIdx {
			maxIdx = p.index + 1
		}
	}
	next := make([]uint32, maxIdx, r.alloc.NextCapacity(cap(old), int(maxIdx)))
	copy(next, old)
	spawned := make([]Entity, len(pending))
	for i, p := range pending {
		next[p.index] = p.generation
		spawned[i] = Entity{Index: p.index, Generation: p.generation}
	}
	r.generations.Store(&next)
	return spawned
}

// Destroy invalidates e: its index is returned to the free list and its
// stored generation is incremented so stale handles compare unequal.
// Single-threaded. Returns false if e was already not alive.
func (r *Registry) Destroy(e Entity) bool {
	if !r.IsAlive(e) {
		return false
	}
	old := *r.generations.Load()
	next := make([]uint32, len(old))
	copy(next, old)
	overflowed := next[e.Index] == ^uint32(0)
	if overflowed {
		next[e.Index] = 0
	} else {
		next[e.Index]++
	}
	r.generations.Store(&next)
	if overflowed {
		// Generation counter saturated: retire the index permanently
		// (stored generation 0, never put on the free list) rather than
		// recycle it into a handle that could collide.
		return true
	}

	oldFree := *r.freeList.Load()
	newFree := make([]uint32, len(oldFree), len(oldFree)+1)
	copy(newFree, oldFree)
	newFree = append(newFree, e.Index)
	r.freeList.Store(&newFree)
	return true
}

// IsAlive reports whether e's index is within bounds and its stored
// generation matches the handle's generation.
func (r *Registry) IsAlive(e Entity) bool {
	if !e.Valid() {
		return false
	}
	gens := *r.generations.Load()
	if int(e.Index) >= len(gens) {
		return false
	}
	return gens[e.Index] == e.Generation
}

// Count returns the number of currently live entities.
func (r *Registry) Count() int {
	gens := *r.generations.Load()
	freeAll := *r.freeList.Load()
	cursor := int(r.freeCursor.Load())
	if cursor > len(freeAll) {
		cursor = len(freeAll)
	}
	free := make(map[uint32]struct{}, len(freeAll)-cursor)
	for _, idx := range freeAll[cursor:] {
		free[idx] = struct{}{}
	}
	n := 0
	for idx, gen := range gens {
		if gen == 0 {
			continue
		}
		if _, onFreeList := free[uint32(idx)]; onFreeList {
			continue
		}
		n++
	}
	return n
}
