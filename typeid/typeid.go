// Package typeid derives stable 64-bit identifiers for Go types.
//
// Helios leans on marker types the way the original engine leaned on
// empty C++ template parameters: a schedule, a system set, or a stage is
// a zero-sized struct whose only purpose is to be a distinct type. This
// package is the one place that turns "distinct type" into "stable
// uint64", the way CTTI/RTTI hashing did in the source engine.
package typeid

import (
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ID is a stable 64-bit type identifier.
type ID uint64

var (
	cacheMu sync.RWMutex
	cache   = make(map[reflect.Type]ID, 64)
)

// Of returns the stable id for type T, computed once and cached.
func Of[T any]() ID {
	var zero T
	t := reflect.TypeOf(zero)
	return OfType(t)
}

// OfType returns the stable id for an arbitrary reflect.Type, handling the
// nil-interface / pointer-to-nil case the generic Of[T] helper produces for
// interface type parameters.
func OfType(t reflect.Type) ID {
	cacheMu.RLock()
	if id, ok := cache[t]; ok {
		cacheMu.RUnlock()
		return id
	}
	cacheMu.RUnlock()

	name := qualifiedName(t)
	id := ID(xxhash.Sum64String(name))

	cacheMu.Lock()
	cache[t] = id
	cacheMu.Unlock()
	return id
}

func qualifiedName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.String()
}

// Name returns a human-readable type name for diagnostics, independent of
// the id cache.
func Name[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
