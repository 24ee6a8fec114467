package sched

import (
	"context"
	"reflect"

	"github.com/helios-engine/core/ecs"
	"github.com/helios-engine/core/typeid"
)

// System processes a World once per invocation. AccessPolicy must
// describe every component and resource Run touches, sorted; the
// scheduler trusts it completely when deciding which systems may run
// concurrently, so an under-declared policy is a correctness bug, not
// just a missed optimization.
type System interface {
	AccessPolicy() AccessPolicy
	Run(ctx *Context) error
}

// Namer lets a System report a diagnostic name other than its Go type
// name.
type Namer interface {
	Name() string
}

// Context is what a running system sees: the World it may query and
// read resources from, and its own CommandBuffer for deferred mutation.
// A system must never mutate the World directly from Run — every
// structural change goes through Commands so it can be safely applied
// once every system in its stage has finished.
type Context struct {
	Ctx      context.Context
	World    *ecs.World
	Commands *ecs.CommandBuffer
}

func nameOf(sys System) string {
	if n, ok := sys.(Namer); ok {
		return n.Name()
	}
	t := reflect.TypeOf(sys)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// scheduleIDOfSystem derives a system's implicit schedule identity from
// its own concrete Go type, so distinct system implementations are
// distinct schedules by default without any boilerplate marker type.
func scheduleIDOfSystem(sys System) ScheduleID {
	t := reflect.TypeOf(sys)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return typeid.OfType(t)
}
