package ecscore

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// globalEntryIndex is the single table.EntryIndex shared by every
// Table in the process, matching the teacher's own package-level
// globalEntryIndex in storage.go: row handles only need to be unique
// across tables, not re-created per table.
var globalEntryIndex = table.Factory.NewEntryIndex()

// ticksAccessor is the part of componentAccessor every typedAccessor[T]
// implements regardless of T, used where a caller needs a row's tick
// pair without knowing the component's static Go type.
type ticksAccessor interface {
	TicksAt(tbl table.Table, row int) *ticks
}

// Table is the dense, struct-of-arrays storage backing every archetype
// that shares the same dense component set, built directly on the
// teacher's table.Table rather than a hand-rolled column set: row
// allocation, delete-compaction, and cross-table transfer are all
// delegated to it.
type Table struct {
	id         TableId
	signature  mask.Mask256
	components []ComponentId
	accessors  map[ComponentId]componentAccessor
	underlying table.Table
}

func newTable(id TableId, componentIds []ComponentId, reg *componentRegistry, schema table.Schema, sig mask.Mask256) *Table {
	accessors := make(map[ComponentId]componentAccessor, len(componentIds))
	elemTypes := make([]table.ElementType, 0, len(componentIds))
	for _, cid := range componentIds {
		desc := reg.descriptor(cid)
		accessors[cid] = desc.denseAccessor
		elemTypes = append(elemTypes, desc.denseAccessor.ElementType())
	}
	schema.Register(elemTypes...)
	underlying, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(globalEntryIndex).
		WithElementTypes(elemTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		panic(bark.AddTrace(fmt.Errorf("ecscore: building table for component set: %w", err)))
	}
	return &Table{
		id:         id,
		signature:  sig,
		components: append([]ComponentId(nil), componentIds...),
		accessors:  accessors,
		underlying: underlying,
	}
}

func (t *Table) Len() int { return t.underlying.Length() }

func (t *Table) Has(id ComponentId) bool {
	_, ok := t.accessors[id]
	return ok
}

// resolveEntry dereferences id to its current table.Entry via the
// shared globalEntryIndex, the same indirection the teacher's own
// entity.entry() performs rather than trusting any previously-read
// table.Entry: a row's index and owning table.Table both change under
// the library's own compaction/transfer, but the EntryID doesn't.
func resolveEntry(id table.EntryID) table.Entry {
	en, err := globalEntryIndex.Entry(int(id) - 1)
	if err != nil {
		panic(bark.AddTrace(fmt.Errorf("ecscore: resolving table entry: %w", err)))
	}
	return en
}

// AllocateRow appends a new zero-valued row for e and returns its
// stable row id.
func (t *Table) AllocateRow(e Entity) table.EntryID {
	entries, err := t.underlying.NewEntries(1)
	if err != nil {
		panic(bark.AddTrace(fmt.Errorf("ecscore: allocating table row: %w", err)))
	}
	return entries[0].ID()
}

// FreeRow removes the row id currently occupies. No "moved entity"
// needs reporting back to the caller the way the hand-rolled
// predecessor required: every other live entity's EntityLocation.Row is
// an id resolved fresh through globalEntryIndex, so it stays correct
// across the library's own swap-compaction without this module
// patching anything.
func (t *Table) FreeRow(id table.EntryID) {
	row := resolveEntry(id)
	if _, err := t.underlying.DeleteEntries(row.Index()); err != nil {
		panic(bark.AddTrace(fmt.Errorf("ecscore: freeing table row: %w", err)))
	}
}

// MoveRow transfers id's row from src into t, copying every column the
// two tables hold in common and leaving any new ones zero-valued — the
// teacher's own originTable.TransferEntries(destTable, index) pattern
// for an entity moving between archetypes. id itself is unchanged by
// the transfer: globalEntryIndex tracks it into its new table.
func (t *Table) MoveRow(src *Table, id table.EntryID) (table.EntryID, error) {
	row := resolveEntry(id)
	if err := src.underlying.TransferEntries(t.underlying, row.Index()); err != nil {
		return id, err
	}
	return id, nil
}

// componentAt resolves id's value for row, or nil if t doesn't carry
// id. Free function since Go methods cannot introduce new type
// parameters; callers that mis-specify T against a differently-typed
// registration get a clear panic rather than silent corruption.
func componentAt[T any](t *Table, id ComponentId, row table.EntryID) *T {
	acc, ok := t.accessors[id]
	if !ok {
		return nil
	}
	ta, ok := acc.(*typedAccessor[T])
	if !ok {
		panic(bark.AddTrace(componentTypeMismatch(id)))
	}
	return ta.At(t.underlying, resolveEntry(row).Index())
}

// componentTicksAt resolves id's tick pair for row, or nil if t
// doesn't carry id.
func componentTicksAt(t *Table, id ComponentId, row table.EntryID) *ticks {
	acc, ok := t.accessors[id]
	if !ok {
		return nil
	}
	return acc.(ticksAccessor).TicksAt(t.underlying, resolveEntry(row).Index())
}

// checkAllTicks runs the per-cell tick maintenance pass over every
// component column in t.
func (t *Table) checkAllTicks(now Tick) {
	for _, acc := range t.accessors {
		acc.checkAllTicks(t.underlying, now)
	}
}
