package sched

import (
	"sort"

	"github.com/helios-engine/core/ecs"
	"github.com/helios-engine/core/typeid"
)

// ComponentAccess is one component a system's query touches, and whether
// it reads or writes it. Build one with R[T]() or W[T]().
type ComponentAccess struct {
	ID    typeid.ID
	Name  string
	Write bool
}

// R declares a read-only access to component type T.
func R[T any]() ComponentAccess {
	return ComponentAccess{ID: typeid.Of[T](), Name: typeid.Name[T]()}
}

// W declares a read-write access to component type T.
func W[T any]() ComponentAccess {
	return ComponentAccess{ID: typeid.Of[T](), Name: typeid.Name[T](), Write: true}
}

// ResourceAccess is one resource a system touches, and whether it reads
// or writes it. Build one with ReadRes[T]() or WriteRes[T]().
type ResourceAccess struct {
	ID         typeid.ID
	Name       string
	Write      bool
	threadSafe bool
}

// ReadRes declares a read-only access to resource type T.
func ReadRes[T any]() ResourceAccess {
	return ResourceAccess{ID: typeid.Of[T](), Name: typeid.Name[T](), threadSafe: isThreadSafe[T]()}
}

// WriteRes declares a read-write access to resource type T.
func WriteRes[T any]() ResourceAccess {
	return ResourceAccess{ID: typeid.Of[T](), Name: typeid.Name[T](), Write: true, threadSafe: isThreadSafe[T]()}
}

// isThreadSafe reports whether T implements ecs.ThreadSafe, checked
// against both T's zero value and a pointer to it so either a value or
// pointer receiver marker method is picked up.
func isThreadSafe[T any]() bool {
	var zero T
	if _, ok := any(zero).(ecs.ThreadSafe); ok {
		return true
	}
	_, ok := any(&zero).(ecs.ThreadSafe)
	return ok
}

// QueryAccess is one query's sorted read/write component sets — the
// granularity at which the original engine's AccessPolicy.Query<...>()
// groups components; two systems only conflict on components that
// appear together in some pair of their queries.
type QueryAccess struct {
	Read  []ComponentAccess
	Write []ComponentAccess
}

// AccessPolicy declares everything a system touches: the World via one
// or more Query() calls, and resources via Resources(). It is immutable
// and built fluently, mirroring the source engine's
// `AccessPolicy().Query<...>().ReadResources<...>()` builder.
type AccessPolicy struct {
	queries        []QueryAccess
	readResources  []ResourceAccess
	writeResources []ResourceAccess
}

// NewAccessPolicy returns an empty policy: touches nothing, conflicts
// with nothing.
func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

// Query adds one query's component accesses to the policy.
func (p AccessPolicy) Query(accesses ...ComponentAccess) AccessPolicy {
	var q QueryAccess
	for _, a := range accesses {
		if a.Write {
			q.Write = append(q.Write, a)
		} else {
			q.Read = append(q.Read, a)
		}
	}
	sortComponentAccess(q.Read)
	sortComponentAccess(q.Write)
	p.queries = append(p.queries, q)
	return p
}

// Resources adds resource accesses to the policy. Resources whose type
// implements ecs.ThreadSafe are excluded from the policy entirely — they
// are safe for concurrent access from any number of systems and must
// never enter the scheduler's conflict graph.
func (p AccessPolicy) Resources(accesses ...ResourceAccess) AccessPolicy {
	for _, a := range accesses {
		if a.threadSafe {
			continue
		}
		if a.Write {
			p.writeResources = append(p.writeResources, a)
		} else {
			p.readResources = append(p.readResources, a)
		}
	}
	sortResourceAccess(p.readResources)
	sortResourceAccess(p.writeResources)
	return p
}

// HasQueries reports whether the policy declares any query access.
func (p AccessPolicy) HasQueries() bool { return len(p.queries) > 0 }

// HasResources reports whether the policy declares any resource access.
func (p AccessPolicy) HasResources() bool {
	return len(p.readResources) > 0 || len(p.writeResources) > 0
}

// Queries returns the policy's declared queries.
func (p AccessPolicy) Queries() []QueryAccess { return p.queries }

// ReadResources returns the policy's read-only resource accesses.
func (p AccessPolicy) ReadResources() []ResourceAccess { return p.readResources }

// WriteResources returns the policy's read-write resource accesses.
func (p AccessPolicy) WriteResources() []ResourceAccess { return p.writeResources }

func sortComponentAccess(s []ComponentAccess) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}

func sortResourceAccess(s []ResourceAccess) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
}
