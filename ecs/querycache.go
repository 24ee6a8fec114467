package ecs

import (
	"container/list"
	"strconv"
	"strings"
)

// queryResolution is a cached query resolution: the matching,
// non-empty archetypes returned to callers (archetypes), every matching
// archetype including empty ones tracked purely for staleness detection
// (tracked, parallel to generations), and the structural state it was
// computed against. tracked must include empty archetypes too — one
// gaining its first row is exactly the kind of structural change that
// must invalidate the cache, and it would go unnoticed if only the
// already-non-empty subset were watched.
type queryResolution struct {
	archetypes  []*Archetype
	tracked     []*Archetype
	structVer   uint64
	generations []uint64 // per-archetype generation, parallel to tracked
}

func (r *queryResolution) stale(s *ArchetypeStore) bool {
	if r.structVer != s.structVersion {
		return true
	}
	for i, a := range r.tracked {
		if a.Generation() != r.generations[i] {
			return true
		}
	}
	return false
}

// queryCache is an LRU cache of Query -> resolved archetype list, keyed
// by the query's sorted with/without id sets. A resolution is treated as
// stale (and recomputed) whenever the world's structural version or any
// matched archetype's own generation has moved since it was cached —
// this catches both new archetypes appearing and rows entering/leaving
// existing ones.
type queryCache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type cacheEntry struct {
	key string
	res *queryResolution
}

func newQueryCache(capacity int) *queryCache {
	if capacity <= 0 {
		capacity = QueryCacheCapacity
	}
	return &queryCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (q *Query) cacheKey() string {
	var b strings.Builder
	b.WriteString("w:")
	for _, id := range q.with {
		b.WriteString(strconv.FormatUint(uint64(id), 36))
		b.WriteByte(',')
	}
	b.WriteString("|x:")
	for _, id := range q.without {
		b.WriteString(strconv.FormatUint(uint64(id), 36))
		b.WriteByte(',')
	}
	return b.String()
}

// resolve returns the matching, non-empty archetypes for q — empty
// archetypes are skipped, per the query engine's "empty archetypes are
// never iterated" invariant — recomputing and re-caching if necessary.
func (c *queryCache) resolve(q *Query, s *ArchetypeStore) []*Archetype {
	key := q.cacheKey()
	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry)
		if !entry.res.stale(s) {
			c.order.MoveToFront(el)
			return entry.res.archetypes
		}
		c.order.Remove(el)
		delete(c.entries, key)
	}

	matched := make([]*Archetype, 0)
	tracked := make([]*Archetype, 0)
	generations := make([]uint64, 0)
	for _, a := range s.archetypes {
		if !q.matches(a) {
			continue
		}
		tracked = append(tracked, a)
		generations = append(generations, a.Generation())
		if a.Len() > 0 {
			matched = append(matched, a)
		}
	}

	res := &queryResolution{
		archetypes:  matched,
		tracked:     tracked,
		structVer:   s.structVersion,
		generations: generations,
	}
	el := c.order.PushFront(&cacheEntry{key: key, res: res})
	c.entries[key] = el
	c.evictOverflow()
	return matched
}

func (c *queryCache) evictOverflow() {
	for c.order.Len() > c.capacity {
		back := c.order.Back()
		if back == nil {
			return
		}
		entry := back.Value.(*cacheEntry)
		delete(c.entries, entry.key)
		c.order.Remove(back)
	}
}
