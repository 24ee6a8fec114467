// Package sched compiles registered systems into a conflict-free,
// stage-ordered parallel execution plan. It mirrors the source engine's
// template/CTTI-based Schedule/Stage/SystemSet marker types with Go
// generics over the shared typeid package, and its AccessPolicy-driven
// conflict analysis with a pairwise read/write overlap check over sorted
// component and resource id sets.
package sched

import (
	"fmt"

	"github.com/helios-engine/core/typeid"
)

// ScheduleID identifies a schedule or stage marker type.
type ScheduleID = typeid.ID

// SystemSetID identifies a system-set marker type.
type SystemSetID = typeid.ID

// beforeProvider is implemented by a marker type (or a System itself)
// that declares other ids which must run after it.
type beforeProvider interface {
	Before() []ScheduleID
}

// afterProvider is implemented by a marker type (or a System itself)
// that declares other ids which must run before it.
type afterProvider interface {
	After() []ScheduleID
}

// namedMarker is implemented by a marker type that wants a custom
// diagnostic name instead of its Go type name.
type namedMarker interface {
	Name() string
}

// IDOf returns the stable id for marker type T — a Schedule, Stage or
// SystemSet. It is the Go generics analogue of the source engine's
// ScheduleIdOf<T>()/SystemSetIdOf<T>(), both backed by the same CTTI-style
// type hash.
func IDOf[T any]() ScheduleID {
	return typeid.Of[T]()
}

// NameOf returns marker type T's diagnostic name: its Name() method if it
// has one, otherwise its Go type name.
func NameOf[T any]() string {
	var zero T
	if n, ok := any(zero).(namedMarker); ok {
		return n.Name()
	}
	return typeid.Name[T]()
}

func beforeOf(zero any) []ScheduleID {
	if b, ok := zero.(beforeProvider); ok {
		return b.Before()
	}
	return nil
}

func afterOf(zero any) []ScheduleID {
	if a, ok := zero.(afterProvider); ok {
		return a.After()
	}
	return nil
}

// Built-in stages. Every system belongs to exactly one; they always run
// in this order, with command buffers applied and Flush/TickEvents
// happening at each boundary.
type (
	StartUp struct{}
	Main    struct{}
	Update  struct{}
	CleanUp struct{}
)

// stageOrder is the fixed order built-in stages execute in.
var stageOrder = []ScheduleID{
	IDOf[StartUp](),
	IDOf[Main](),
	IDOf[Update](),
	IDOf[CleanUp](),
}

var stageNames = map[ScheduleID]string{
	IDOf[StartUp](): "StartUp",
	IDOf[Main]():    "Main",
	IDOf[Update]():  "Update",
	IDOf[CleanUp](): "CleanUp",
}

func stageName(id ScheduleID) string {
	if n, ok := stageNames[id]; ok {
		return n
	}
	return fmt.Sprintf("Stage#%d", id)
}
