package ecscore

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
)

// World is the top-level facade coordinating every other piece: the
// component/bundle registries, the archetype graph (with its tables and
// sparse maps), the entity directory, the resource set, and the
// world's logical tick clock.
type World struct {
	id uint32

	components *componentRegistry
	bundles    *bundleRegistry
	graph      *archetypeGraph
	entities   *entityDirectory
	resources  *resourceSet

	tick Tick
}

// New constructs an empty world identified by id.
func New(id uint32) *World {
	return &World{
		id:         id,
		components: newComponentRegistry(),
		bundles:    newBundleRegistry(),
		graph:      newArchetypeGraph(),
		entities:   newEntityDirectory(),
		resources:  newResourceSet(),
		tick:       1,
	}
}

func (w *World) Id() uint32 { return w.id }

// SpawnBundle1..4 are the typed convenience entry points over Spawn for
// statically-known bundles, writing each field through InsertComponent
// so later fields override earlier ones within the same call.

func SpawnBundle1[A any](w *World, a A) Entity {
	id := RegisterBundle1[A](w)
	return w.Spawn(id, func(w *World, e Entity) {
		InsertComponent(w, e, a)
	})
}

func SpawnBundle2[A, B any](w *World, a A, b B) Entity {
	id := RegisterBundle2[A, B](w)
	return w.Spawn(id, func(w *World, e Entity) {
		InsertComponent(w, e, a)
		InsertComponent(w, e, b)
	})
}

func SpawnBundle3[A, B, C any](w *World, a A, b B, c C) Entity {
	id := RegisterBundle3[A, B, C](w)
	return w.Spawn(id, func(w *World, e Entity) {
		InsertComponent(w, e, a)
		InsertComponent(w, e, b)
		InsertComponent(w, e, c)
	})
}

func SpawnBundle4[A, B, C, D any](w *World, a A, b B, c C, d D) Entity {
	id := RegisterBundle4[A, B, C, D](w)
	return w.Spawn(id, func(w *World, e Entity) {
		InsertComponent(w, e, a)
		InsertComponent(w, e, b)
		InsertComponent(w, e, c)
		InsertComponent(w, e, d)
	})
}

func (w *World) currentTick() Tick { return w.tick }

// Advance bumps the world's logical clock by one run, the this_run
// counter every write and every query comparison is stamped against.
func (w *World) Advance() Tick {
	w.tick++
	return w.tick
}

// Spawn creates one entity from bundle id: resolve the destination
// archetype via the bundle-edge cache, allocate rows in every backing
// store, commit the entity's location, then write required-component
// defaults for whatever the bundle doesn't cover followed by the
// bundle's own fields (so an explicit field wins over a default).
func (w *World) Spawn(bundleId BundleId, write func(w *World, e Entity)) Entity {
	archeId := w.archetypeForBundle(bundleId)
	arche := w.graph.archetype(archeId)

	e := w.entities.spawn(EntityLocation{})
	archeRow := arche.pushEntity(e)

	tbl := w.graph.table(arche.table)
	row := tbl.AllocateRow(e)

	for _, cid := range arche.SparseComponents() {
		sm := w.graph.sparseMap(cid)
		sm.Allocate(e)
	}

	loc := EntityLocation{Arche: archeId, Table: arche.table, ArcheRow: archeRow, Row: row}
	w.entities.set(e, loc)

	info := w.bundleInfo(bundleId)
	w.writeRequiredDefaults(e, arche, info.Explicit)
	if write != nil {
		write(w, e)
	}

	if hook := Config.entityEvents.OnSpawn; hook != nil {
		hook(e)
	}
	return e
}

// writeRequiredDefaults writes a default value for every component in
// arche that isn't one of the bundle's own explicit component ids. Run
// before the caller's explicit field writes so any field the caller
// does set still wins.
func (w *World) writeRequiredDefaults(e Entity, arche *Archetype, explicit []ComponentId) {
	isExplicit := make(map[ComponentId]bool, len(explicit))
	for _, id := range explicit {
		isExplicit[id] = true
	}
	for _, cid := range arche.components {
		if isExplicit[cid] {
			continue
		}
		if dw := w.components.descriptor(cid).defaultWriter; dw != nil {
			dw(w, e)
		}
	}
}

// Despawn removes e from the world. Freeing the dense row needs no
// "moved entity" patch-back: every other live entity's EntityLocation.Row
// is an id resolved fresh through the underlying table library's entry
// index, so it stays correct across that table's own swap-compaction
// without this module intervening.
func (w *World) Despawn(e Entity) error {
	loc, err := w.entities.get(e)
	if err != nil {
		return DespawnError{Cause: err}
	}
	if err := w.entities.despawn(e); err != nil {
		return DespawnError{Cause: err}
	}

	arche := w.graph.archetype(loc.Arche)
	if moved, ok := arche.swapRemove(loc.ArcheRow); ok {
		movedLoc, _ := w.entities.get(moved)
		movedLoc.ArcheRow = loc.ArcheRow
		w.entities.patchRow(moved.Index(), movedLoc)
	}

	w.graph.table(loc.Table).FreeRow(loc.Row)

	for _, cid := range arche.SparseComponents() {
		w.graph.sparseMap(cid).Free(e)
	}

	if hook := Config.entityEvents.OnDespawn; hook != nil {
		hook(e)
	}
	return nil
}

// InsertComponent adds value's type to e, moving it to the archetype
// reached via the insert-edge cache if it doesn't already carry that
// component.
func InsertComponent[T any](w *World, e Entity, value T) error {
	id := ComponentIdOf[T](w)
	loc, err := w.entities.get(e)
	if err != nil {
		return InsertError{Cause: err}
	}
	srcArche := w.graph.archetype(loc.Arche)
	if srcArche.Has(id) {
		*fetchAt[T](w, e, loc, id) = value
		w.markChanged(e, id)
		return nil
	}

	dstId := w.archetypeAfterInsert(loc.Arche, id)
	newLoc, err := w.moveEntity(e, loc, dstId)
	if err != nil {
		return InsertError{Cause: err}
	}
	dstArche := w.graph.archetype(dstId)
	explicit := make([]ComponentId, 0, len(srcArche.components)+1)
	explicit = append(explicit, srcArche.components...)
	explicit = append(explicit, id)
	w.writeRequiredDefaults(e, dstArche, explicit)
	*fetchAt[T](w, e, newLoc, id) = value
	w.markChanged(e, id)
	return nil
}

// RemoveComponent drops T from e, moving it to the archetype reached
// via the remove-edge cache.
func RemoveComponent[T any](w *World, e Entity) error {
	id := ComponentIdOf[T](w)
	loc, err := w.entities.get(e)
	if err != nil {
		return RemoveError{Cause: err}
	}
	srcArche := w.graph.archetype(loc.Arche)
	if !srcArche.Has(id) {
		return nil
	}
	dstId := w.archetypeAfterRemove(loc.Arche, id)
	if _, err := w.moveEntity(e, loc, dstId); err != nil {
		return RemoveError{Cause: err}
	}
	return nil
}

// moveEntity physically relocates e from its current archetype/table to
// dstId, copying columns shared between the two and leaving new ones
// zero-valued. When the two archetypes share a Table, the row itself
// doesn't move at all — only the ArcheRow (our own entity-list index)
// does.
func (w *World) moveEntity(e Entity, srcLoc EntityLocation, dstId ArcheId) (EntityLocation, error) {
	srcArche := w.graph.archetype(srcLoc.Arche)
	dstArche := w.graph.archetype(dstId)

	dstArcheRow := dstArche.pushEntity(e)

	dstRow := srcLoc.Row
	if dstArche.table != srcLoc.Table {
		dstTbl := w.graph.table(dstArche.table)
		srcTbl := w.graph.table(srcLoc.Table)
		moved, err := dstTbl.MoveRow(srcTbl, srcLoc.Row)
		if err != nil {
			return EntityLocation{}, err
		}
		dstRow = moved
	}

	for _, cid := range srcArche.SparseComponents() {
		if !dstArche.Has(cid) {
			w.graph.sparseMap(cid).Free(e)
		}
	}
	for _, cid := range dstArche.SparseComponents() {
		if !srcArche.Has(cid) {
			w.graph.sparseMap(cid).Allocate(e)
		}
	}

	if moved, ok := srcArche.swapRemove(srcLoc.ArcheRow); ok {
		movedLoc, _ := w.entities.get(moved)
		movedLoc.ArcheRow = srcLoc.ArcheRow
		w.entities.patchRow(moved.Index(), movedLoc)
	}

	newLoc := EntityLocation{Arche: dstId, Table: dstArche.table, ArcheRow: dstArcheRow, Row: dstRow}
	w.entities.set(e, newLoc)
	if hook := Config.entityEvents.OnArchetypeMove; hook != nil {
		hook(e, srcLoc.Arche, dstId)
	}
	return newLoc, nil
}

// fetchAt resolves T's storage cell for an already-known location,
// dense or sparse, returning nil if T isn't present there. e is needed
// independently of loc because sparse storage keys by Entity, not by
// anything carried in EntityLocation.
func fetchAt[T any](w *World, e Entity, loc EntityLocation, id ComponentId) *T {
	desc := w.components.descriptor(id)
	if desc.Storage == Sparse {
		sm := w.graph.sparseMap(id)
		row, ok := sm.GetRow(e)
		if !ok {
			return nil
		}
		col, ok := sm.column.(*sparseColumn[T])
		if !ok {
			panic(bark.AddTrace(componentTypeMismatch(id)))
		}
		return col.At(row)
	}
	tbl := w.graph.table(loc.Table)
	if !tbl.Has(id) {
		return nil
	}
	return componentAt[T](tbl, id, loc.Row)
}

func componentTypeMismatch(id ComponentId) error {
	return &ComponentNotFoundError{Component: id}
}

// fetchComponent resolves T on e by Entity rather than a pre-resolved
// location, the path ComponentView.Get uses.
func fetchComponent[T any](w *World, e Entity, id ComponentId) (*T, error) {
	loc, err := w.entities.get(e)
	if err != nil {
		return nil, FetchError{Cause: err}
	}
	ptr := fetchAt[T](w, e, loc, id)
	if ptr == nil {
		return nil, FetchError{Cause: ComponentNotFoundError{Component: id}}
	}
	return ptr, nil
}

// cellTicks resolves the (added, changed) tick pair for id on e at loc,
// used by Changed/Added query filters.
func (w *World) cellTicks(e Entity, loc EntityLocation, id ComponentId) *ticks {
	desc := w.components.descriptor(id)
	if desc.Storage == Sparse {
		sm := w.graph.sparseMap(id)
		row, ok := sm.GetRow(e)
		if !ok {
			return nil
		}
		return sm.column.(interface{ TicksAt(MapRow) *ticks }).TicksAt(row)
	}
	tbl := w.graph.table(loc.Table)
	if !tbl.Has(id) {
		return nil
	}
	return componentTicksAt(tbl, id, loc.Row)
}

// markChanged stamps id's changed tick on e without altering its value,
// used after InsertComponent/ComponentView.Set write through a pointer.
func (w *World) markChanged(e Entity, id ComponentId) {
	loc, err := w.entities.get(e)
	if err != nil {
		return
	}
	t := w.cellTicks(e, loc, id)
	if t != nil {
		t.markChanged(w.currentTick())
	}
}

// CheckTicks runs a maintenance pass over every table column, sparse
// map, and resource cell, clamping ages back inside the valid
// comparison window. Parallel by default via Config.maintenanceParallel,
// using the errgroup-backed taskGroup.
func (w *World) CheckTicks() {
	now := w.currentTick()
	if !Config.maintenanceParallel {
		for _, tbl := range w.graph.tables {
			tbl.checkAllTicks(now)
		}
		for _, sm := range w.graph.sparse {
			sm.column.checkAllTicks(now)
		}
		w.resources.checkTicks(now)
		return
	}

	tg := newTaskGroup()
	for _, tbl := range w.graph.tables {
		tbl := tbl
		tg.Go(func() error { tbl.checkAllTicks(now); return nil })
	}
	for _, sm := range w.graph.sparse {
		sm := sm
		tg.Go(func() error { sm.column.checkAllTicks(now); return nil })
	}
	tg.Go(func() error { w.resources.checkTicks(now); return nil })
	_ = tg.Wait()
}

// ArchetypeInspection is a read-only snapshot of one archetype, for
// diagnostics (stats.Collect, cmd/ecscoreinfo).
type ArchetypeInspection struct {
	Id           ArcheId
	Size         int
	DenseLen     int
	ComponentIds []ComponentId
}

// WorldInspection is a read-only snapshot of a World's registries,
// entity directory, and archetype graph.
type WorldInspection struct {
	EntitiesUsed     int
	EntitiesCapacity int
	EntitiesRecycled int
	ComponentTypes   []reflect.Type
	Archetypes       []ArchetypeInspection
}

// Inspect produces a WorldInspection snapshot, for tooling and tests
// that want to assert on storage shape without reaching into
// unexported fields.
func (w *World) Inspect() WorldInspection {
	info := WorldInspection{
		EntitiesCapacity: len(w.entities.locations),
		EntitiesRecycled: len(w.entities.freeList),
	}
	for _, alive := range w.entities.alive {
		if alive {
			info.EntitiesUsed++
		}
	}
	for _, desc := range w.components.cache.All() {
		info.ComponentTypes = append(info.ComponentTypes, desc.Type)
	}
	for _, arche := range w.graph.arches {
		ids := append([]ComponentId(nil), arche.components...)
		info.Archetypes = append(info.Archetypes, ArchetypeInspection{
			Id:           arche.id,
			Size:         arche.Len(),
			DenseLen:     arche.denseLen,
			ComponentIds: ids,
		})
	}
	return info
}
