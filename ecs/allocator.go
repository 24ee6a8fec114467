package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// Allocator governs how far ahead of actual demand the entity registry
// grows its backing generation/free-list storage as new indices are
// minted, and whether that growth is allowed to be unbounded.
type Allocator interface {
	// NextCapacity returns the capacity a generations slice should be
	// grown to in order to hold at least need entries, given it
	// currently has capacity current.
	NextCapacity(current, need int) int
}

// GrowableAllocator doubles capacity from a floor every time it is
// exceeded — the same amortized strategy Go's own append uses. This is
// the default: entity counts are allowed to grow without a configured
// ceiling.
type GrowableAllocator struct {
	// Floor is the smallest capacity ever allocated. Zero means 1024.
	Floor int
}

func (a GrowableAllocator) NextCapacity(current, need int) int {
	floor := a.Floor
	if floor <= 0 {
		floor = 1024
	}
	capacity := current
	if capacity < floor {
		capacity = floor
	}
	for capacity < need {
		capacity *= 2
	}
	return capacity
}

// FixedAllocator never grows past Max; NextCapacity panics once demand
// would exceed it. Intended for deployments (e.g. deterministic
// lockstep netcode) that want a reviewed, fixed entity-count budget
// rather than silent unbounded growth.
type FixedAllocator struct {
	Max int
}

// AllocatorBudgetExceededError is panicked (wrapped via bark.AddTrace)
// by FixedAllocator when demand outgrows Max.
type AllocatorBudgetExceededError struct {
	Need int
	Max  int
}

func (e AllocatorBudgetExceededError) Error() string {
	return fmt.Sprintf("ecs: entity index demand %d exceeds fixed allocator budget %d", e.Need, e.Max)
}

func (a FixedAllocator) NextCapacity(current, need int) int {
	if need > a.Max {
		panic(bark.AddTrace(AllocatorBudgetExceededError{Need: need, Max: a.Max}))
	}
	return a.Max
}

// DefaultAllocator is GrowableAllocator{} unless overridden.
var DefaultAllocator Allocator = GrowableAllocator{}
