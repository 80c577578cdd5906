package ecscore

import (
	"fmt"

	"github.com/TheBitDrifter/table"
)

// invalidIndex is the sentinel used by every id kind below to reserve
// room for niche-packing an "absent id" without a separate bool.
const invalidIndex uint32 = ^uint32(0)

// maxIds is the largest number of ids of any one kind a world will
// allocate; the sentinel value is excluded from the usable range.
const maxIds = invalidIndex - 1

// ComponentId identifies a registered component type within a world.
type ComponentId uint32

// Valid reports whether the id refers to a real component slot.
func (id ComponentId) Valid() bool { return id != ComponentId(invalidIndex) }

func (id ComponentId) String() string { return fmt.Sprintf("ComponentId(%d)", uint32(id)) }

// BundleId identifies a registered, deduplicated component multiset.
type BundleId uint32

// EmptyBundle is the canonical id of the zero-component bundle.
const EmptyBundle BundleId = 0

func (id BundleId) Valid() bool { return id != BundleId(invalidIndex) }

// ArcheId identifies an archetype: the equivalence class of entities
// sharing one exact component set.
type ArcheId uint32

// EmptyArche is the archetype with no components, created at world init.
const EmptyArche ArcheId = 0

func (id ArcheId) Valid() bool { return id != ArcheId(invalidIndex) }

func (id ArcheId) String() string { return fmt.Sprintf("ArcheId(%d)", uint32(id)) }

// TableId identifies the dense, columnar storage backing one or more
// archetypes that share the same dense component set.
type TableId uint32

// EmptyTable is the table with no columns, created at world init.
const EmptyTable TableId = 0

func (id TableId) Valid() bool { return id != TableId(invalidIndex) }

// MapId identifies one sparse component's entity->row map.
type MapId uint32

func (id MapId) Valid() bool { return id != MapId(invalidIndex) }

// MapRow is a row offset into a Map's dense value/tick arrays.
type MapRow uint32

// Entity is a 64-bit handle: a dense, reused index paired with a
// generation counter that increments every time the index is freed.
// Generation 0 is reserved and never issued, so the zero Entity is
// always invalid.
type Entity struct {
	index      uint32
	generation uint32
}

// Index returns the entity's dense slot index.
func (e Entity) Index() uint32 { return e.index }

// Generation returns the entity's generation tag.
func (e Entity) Generation() uint32 { return e.generation }

// Valid reports whether the handle could ever have been issued by a
// world (generation 0 is reserved, so the zero value is never valid).
func (e Entity) Valid() bool { return e.generation != 0 }

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d#%d)", e.index, e.generation)
}

// EntityLocation records exactly where a live entity's row data lives.
// Row is the entity's stable table.EntryID, resolved back to a live
// table.Entry through the package's single globalEntryIndex exactly the
// way the teacher's own entity.entry() does — never by caching a
// table.Entry value directly, since an entry's row and owning table.Table
// both change under the library's own compaction/transfer. Because the
// id, not the row, is what EntityLocation carries, unlike ArcheRow it
// never needs patching after a sibling row is freed or moved.
type EntityLocation struct {
	Arche    ArcheId
	Table    TableId
	ArcheRow uint32
	Row      table.EntryID
}
