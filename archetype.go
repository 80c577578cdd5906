package ecscore

import "github.com/TheBitDrifter/mask"

// Archetype is the equivalence class of entities sharing one exact
// component set. It owns the dense entity-row list, the id of the
// Table backing its dense subset, and memoised insert/remove edges for
// the archetype graph.
type Archetype struct {
	id        ArcheId
	signature mask.Mask256

	// components is canonicalised (sorted-dense ‖ sorted-sparse); the
	// same invariant BundleInfo carries.
	components []ComponentId
	denseLen   int

	table TableId

	entities []Entity

	insertEdge map[ComponentId]ArcheId
	removeEdge map[ComponentId]ArcheId
}

// Sparse maps are global per component — a sparse component present on
// entity e appears in exactly one map — not per archetype, so Archetype
// only needs the component id to find it in archetypeGraph.sparse.

func newArchetype(id ArcheId, components []ComponentId, denseLen int, table TableId, sig mask.Mask256) *Archetype {
	return &Archetype{
		id:         id,
		signature:  sig,
		components: components,
		denseLen:   denseLen,
		table:      table,
		insertEdge: make(map[ComponentId]ArcheId),
		removeEdge: make(map[ComponentId]ArcheId),
	}
}

func (a *Archetype) Id() ArcheId { return a.id }

func (a *Archetype) Len() int { return len(a.entities) }

func (a *Archetype) DenseComponents() []ComponentId { return a.components[:a.denseLen] }

func (a *Archetype) SparseComponents() []ComponentId { return a.components[a.denseLen:] }

// Has reports whether this archetype's component set includes id —
// used by edge resolution and by the World's insert/remove/move paths.
func (a *Archetype) Has(id ComponentId) bool {
	for _, c := range a.components {
		if c == id {
			return true
		}
	}
	return false
}

func (a *Archetype) entityAt(row uint32) Entity { return a.entities[row] }

// pushEntity appends e to the dense entity list and returns its row.
func (a *Archetype) pushEntity(e Entity) uint32 {
	a.entities = append(a.entities, e)
	return uint32(len(a.entities) - 1)
}

// swapRemove removes row via swap-compaction, returning the entity (if
// any) that now occupies that row so its EntityLocation can be patched.
func (a *Archetype) swapRemove(row uint32) (moved Entity, ok bool) {
	last := uint32(len(a.entities) - 1)
	if row != last {
		a.entities[row] = a.entities[last]
		moved, ok = a.entities[row], true
	}
	a.entities = a.entities[:last]
	return moved, ok
}
