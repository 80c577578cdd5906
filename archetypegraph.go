package ecscore

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// archetypeGraph is the global archetype/table/sparse-map registry and
// the memoised insert/remove edge cache. Looking up "the archetype
// reached by adding component c to archetype a" is O(1) after the
// first time it's computed.
type archetypeGraph struct {
	arches []*Archetype
	tables []*Table
	sparse map[ComponentId]*SparseMap

	preciseMap   map[string]ArcheId
	componentMap map[ComponentId]map[ArcheId]struct{}
	bundleMap    map[BundleId]ArcheId

	tableByKey map[string]TableId

	// schema is the single table.Schema shared by every Table in this
	// graph, matching the teacher's own one-schema-per-world usage.
	schema table.Schema
}

func newArchetypeGraph() *archetypeGraph {
	g := &archetypeGraph{
		sparse:       make(map[ComponentId]*SparseMap),
		preciseMap:   make(map[string]ArcheId),
		componentMap: make(map[ComponentId]map[ArcheId]struct{}),
		bundleMap:    make(map[BundleId]ArcheId),
		tableByKey:   make(map[string]TableId),
		schema:       table.Factory.NewSchema(),
	}
	// Table 0 / Archetype 0 are the canonical empty instances.
	g.tables = append(g.tables, newTable(EmptyTable, nil, nil, g.schema, mask.Mask256{}))
	g.arches = append(g.arches, newArchetype(EmptyArche, nil, 0, EmptyTable, mask.Mask256{}))
	g.preciseMap[""] = EmptyArche
	return g
}

func signatureOf(ids []ComponentId) mask.Mask256 {
	var m mask.Mask256
	for _, id := range ids {
		m.Mark(int(id))
	}
	return m
}

func (g *archetypeGraph) archetype(id ArcheId) *Archetype { return g.arches[id] }

func (g *archetypeGraph) table(id TableId) *Table { return g.tables[id] }

func (g *archetypeGraph) sparseMap(id ComponentId) *SparseMap { return g.sparse[id] }

// getOrCreateTable finds (or registers) the Table backing a dense
// component list, reusing one Table across every archetype that shares
// the identical dense subset.
func (w *World) getOrCreateTable(dense []ComponentId) TableId {
	key := canonicalKey(dense)
	g := w.graph
	if id, ok := g.tableByKey[key]; ok {
		return id
	}
	id := TableId(len(g.tables))
	if uint32(id) >= uint32(maxIds) {
		panic(TooManyIdsError{Kind: "table"})
	}
	sig := signatureOf(dense)
	g.tables = append(g.tables, newTable(id, dense, w.components, g.schema, sig))
	g.tableByKey[key] = id
	return id
}

// getOrCreateSparseMaps ensures a global SparseMap exists for every
// sparse component id, registering a fresh MapId where needed.
func (w *World) getOrCreateSparseMaps(sparse []ComponentId) {
	g := w.graph
	for _, id := range sparse {
		if _, ok := g.sparse[id]; ok {
			continue
		}
		mapId := MapId(len(g.sparse))
		g.sparse[id] = newSparseMap(mapId, id, w.components)
	}
}

// getOrCreateArchetype looks up (or creates) the archetype for a
// canonicalised (dense, sparse) component list and returns its ArcheId, creating the backing
// table, sparse maps, and archetype if this is the first time this
// exact set has been seen.
func (w *World) getOrCreateArchetype(dense, sparse []ComponentId) ArcheId {
	all := make([]ComponentId, 0, len(dense)+len(sparse))
	all = append(all, dense...)
	all = append(all, sparse...)
	key := canonicalKey(all)

	g := w.graph
	if id, ok := g.preciseMap[key]; ok {
		return id
	}

	tableId := w.getOrCreateTable(dense)
	w.getOrCreateSparseMaps(sparse)

	id := ArcheId(len(g.arches))
	if uint32(id) >= uint32(maxIds) {
		panic(TooManyIdsError{Kind: "archetype"})
	}
	sig := signatureOf(all)
	arche := newArchetype(id, all, len(dense), tableId, sig)
	g.arches = append(g.arches, arche)
	g.preciseMap[key] = id

	for _, c := range all {
		set, ok := g.componentMap[c]
		if !ok {
			set = make(map[ArcheId]struct{})
			g.componentMap[c] = set
		}
		set[id] = struct{}{}
	}
	return id
}

// archetypeAfterInsert returns the ArcheId reached by adding component c
// (plus its required-components closure) to the archetype currently at
// from, using and populating the insert-edge cache.
func (w *World) archetypeAfterInsert(from ArcheId, c ComponentId) ArcheId {
	src := w.graph.archetype(from)
	if to, ok := src.insertEdge[c]; ok {
		return to
	}
	if src.Has(c) {
		src.insertEdge[c] = from
		return from
	}

	wanted := map[ComponentId]struct{}{c: {}}
	for _, existing := range src.components {
		wanted[existing] = struct{}{}
	}
	ids := make([]ComponentId, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}
	dense, sparse := canonicalize(w, ids)
	to := w.getOrCreateArchetype(dense, sparse)
	src.insertEdge[c] = to
	return to
}

// archetypeAfterRemove returns the ArcheId reached by removing component
// c from the archetype at from, using and populating the remove-edge
// cache.
func (w *World) archetypeAfterRemove(from ArcheId, c ComponentId) ArcheId {
	src := w.graph.archetype(from)
	if to, ok := src.removeEdge[c]; ok {
		return to
	}
	if !src.Has(c) {
		src.removeEdge[c] = from
		return from
	}
	// Removal is literal: the required-components closure is not
	// re-expanded, so c is dropped even if another component requires it.
	var dense, sparse []ComponentId
	for i, id := range src.components {
		if id == c {
			continue
		}
		if i < src.denseLen {
			dense = append(dense, id)
		} else {
			sparse = append(sparse, id)
		}
	}
	to := w.getOrCreateArchetype(dense, sparse)
	src.removeEdge[c] = to
	return to
}

// archetypeForBundle returns the archetype reached by spawning with
// bundle id starting from the empty archetype, memoised in bundleMap.
func (w *World) archetypeForBundle(id BundleId) ArcheId {
	if arche, ok := w.graph.bundleMap[id]; ok {
		return arche
	}
	info := w.bundleInfo(id)
	arche := w.getOrCreateArchetype(info.DenseComponents(), info.SparseComponents())
	w.graph.bundleMap[id] = arche
	return arche
}
