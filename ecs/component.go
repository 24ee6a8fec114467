package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/table"
	"github.com/helios-engine/core/typeid"
)

// Component identifies a registrable data type. It is satisfied by the
// value returned from NewComponent[T], backed by table.ElementType.
type Component interface {
	table.ElementType
}

// ComponentID is the stable 64-bit id derived from a component's Go type.
type ComponentID = typeid.ID

// ComponentTypeInfo carries the static facts about a registered component
// type: its id, declared size/alignment and whether it is a plain,
// trivially-copyable value (no pointers, no methods with side effects
// assumed). It orders by ID.
type ComponentTypeInfo struct {
	ID        ComponentID
	Name      string
	Size      uintptr
	Align     uintptr
	Trivial   bool
	goType    reflect.Type
}

func (a ComponentTypeInfo) Less(b ComponentTypeInfo) bool { return a.ID < b.ID }

// AccessibleComponent extends a base Component with typed, table-backed
// accessors.
type AccessibleComponent[T any] struct {
	Component
	table.Accessor[T]
	info ComponentTypeInfo
}

// NewComponent registers component type T once (idempotent per T by virtue
// of table's own element-type identity) and returns a typed accessor for
// it.
func NewComponent[T any]() AccessibleComponent[T] {
	iden := table.FactoryNewElementType[T]()
	info := typeInfoOf[T]()
	componentRegistry.Register(info.Name, info)
	return AccessibleComponent[T]{
		Component: iden,
		Accessor:  table.FactoryNewAccessor[T](iden),
		info:      info,
	}
}

// Info returns the static type-info record for this component.
func (c AccessibleComponent[T]) Info() ComponentTypeInfo { return c.info }

// GetFromCursor retrieves the component value for the entity at the
// cursor's current position.
func (c AccessibleComponent[T]) GetFromCursor(cur *Cursor) *T {
	return c.Get(cur.rowIndex(), cur.currentArchetype.tbl)
}

// GetFromCursorSafe retrieves the component value for the cursor's current
// entity, returning false if the current archetype does not carry it.
func (c AccessibleComponent[T]) GetFromCursorSafe(cur *Cursor) (*T, bool) {
	if !c.Accessor.Check(cur.currentArchetype.tbl) {
		return nil, false
	}
	return c.GetFromCursor(cur), true
}

// CheckCursor reports whether the cursor's current archetype carries this
// component.
func (c AccessibleComponent[T]) CheckCursor(cur *Cursor) bool {
	return c.Accessor.Check(cur.currentArchetype.tbl)
}

func typeInfoOf[T any]() ComponentTypeInfo {
	var zero T
	t := reflect.TypeOf(zero)
	trivial := true
	if t != nil {
		trivial = isTrivial(t)
	}
	size, align := uintptr(0), uintptr(1)
	if t != nil {
		size = t.Size()
		align = uintptr(t.Align())
	}
	return ComponentTypeInfo{
		ID:      typeid.Of[T](),
		Name:    typeid.Name[T](),
		Size:    size,
		Align:   align,
		Trivial: trivial,
		goType:  t,
	}
}

// isTrivial reports whether a type contains no pointers, interfaces,
// channels, maps, funcs, slices or strings — the closest Go analogue of
// "trivially copyable" for a plain-old-data component.
func isTrivial(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Chan, reflect.Map, reflect.Func, reflect.Slice, reflect.String, reflect.UnsafePointer:
		return false
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isTrivial(t.Field(i).Type) {
				return false
			}
		}
		return true
	case reflect.Array:
		return isTrivial(t.Elem())
	default:
		return true
	}
}
