package ecscore

import "reflect"

// StorageKind selects how a component's values are stored: Dense packs
// a column into every table that has the component (fast iteration,
// wasted space if rare); Sparse keeps a standalone entity->row map
// (slower random access, zero cost on archetypes that lack it).
type StorageKind uint8

const (
	Dense StorageKind = iota
	Sparse
)

// SparseComponent is the marker a component type implements to opt into
// Sparse storage; components are Dense by default.
type SparseComponent interface {
	SparseStorage()
}

func storageKindOf[T any]() StorageKind {
	var zero T
	if _, ok := any(zero).(SparseComponent); ok {
		return Sparse
	}
	return Dense
}

// ComponentDescriptor is the runtime-erased metadata recorded once per
// registered component type.
type ComponentDescriptor struct {
	Id      ComponentId
	Name    string
	Type    reflect.Type
	Storage StorageKind

	// Requires lists component ids this component pulls in, expanded
	// into every bundle/archetype that carries this one.
	Requires []ComponentId

	// defaultWriter installs this component's default value on an
	// entity that ends up with it only through some other component's
	// Requires closure, not through an explicit bundle field. Set by
	// RequireComponent on the *required* component's own descriptor; a
	// later RequireComponent call for the same dependency overwrites it
	// (last writer wins — a documented simplification versus fully
	// depth-ordered required-components resolution).
	defaultWriter func(w *World, e Entity)

	// denseAccessor is this component's table.ElementType/Accessor pair
	// over cell[T], built once at registration and shared by every
	// Table that carries the component.
	denseAccessor componentAccessor

	// newSparseColumn builds this component's sparseStorageColumn,
	// used only when Storage is Sparse.
	newSparseColumn func(capacity int) sparseStorageColumn
}

// componentRegistry assigns and looks up ComponentIds for one world.
type componentRegistry struct {
	cache *SimpleCache[ComponentDescriptor]
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{cache: NewSimpleCache[ComponentDescriptor]()}
}

func (r *componentRegistry) descriptor(id ComponentId) *ComponentDescriptor {
	return r.cache.GetItem32(uint32(id))
}

// RegisterComponent registers T if unseen and returns its ComponentId.
// Registration is idempotent.
func RegisterComponent[T any](w *World) ComponentId {
	ty := reflect.TypeFor[T]()
	reg := w.components
	if idx, ok := reg.cache.GetIndex(ty); ok {
		return reg.cache.GetItem(idx).Id
	}
	if reg.cache.Len() >= int(maxIds) {
		panic(TooManyIdsError{Kind: "component"})
	}
	id := ComponentId(reg.cache.Len())
	desc := ComponentDescriptor{
		Id:            id,
		Name:          ty.String(),
		Type:          ty,
		Storage:       storageKindOf[T](),
		denseAccessor: newTypedAccessor[T](),
		newSparseColumn: func(capacity int) sparseStorageColumn {
			return newSparseColumn[T](capacity)
		},
	}
	reg.cache.Register(ty, desc)
	return id
}

// RequireComponent declares that whenever Host is inserted on an entity
// lacking Required, Required is inserted too with the value produced by
// def. Requirements accumulate on Host's descriptor across calls; the
// default writer is stored on Required's own descriptor, so when several
// calls name the same Required type, the last call's def is used.
func RequireComponent[Host any, Required any](w *World, def func() Required) {
	hostId := RegisterComponent[Host](w)
	reqId := RegisterComponent[Required](w)
	hostDesc := w.components.descriptor(hostId)
	hostDesc.Requires = append(hostDesc.Requires, reqId)
	reqDesc := w.components.descriptor(reqId)
	reqDesc.defaultWriter = func(w *World, e Entity) {
		InsertComponent(w, e, def())
	}
}

// ComponentIdOf is RegisterComponent under the name callers reach for
// when they just want the id, not the side effect of registering.
func ComponentIdOf[T any](w *World) ComponentId { return RegisterComponent[T](w) }

// ComponentView is a typed handle bound to one world and component type,
// used for direct Get/Set access outside of a query. A concrete generic
// type is enough here; Go generics make a per-component accessor
// interface unnecessary.
type ComponentView[T any] struct {
	world *World
	id    ComponentId
}

// ViewOf returns the view for T on w, registering T if this is its first
// use.
func ViewOf[T any](w *World) ComponentView[T] {
	return ComponentView[T]{world: w, id: ComponentIdOf[T](w)}
}

func (v ComponentView[T]) Id() ComponentId { return v.id }

// Get fetches a pointer to T on e, or an error if e is dead or lacks T.
func (v ComponentView[T]) Get(e Entity) (*T, error) {
	return fetchComponent[T](v.world, e, v.id)
}

// Set overwrites T on e and stamps its change tick, or errors if e is
// dead or lacks T.
func (v ComponentView[T]) Set(e Entity, value T) error {
	ptr, err := v.Get(e)
	if err != nil {
		return InsertError{Cause: err}
	}
	*ptr = value
	v.world.markChanged(e, v.id)
	return nil
}

// Has reports whether e currently carries T. A dead entity reports
// false rather than erroring.
func (v ComponentView[T]) Has(e Entity) bool {
	_, err := v.Get(e)
	return err == nil
}
