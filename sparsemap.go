package ecscore

// SparseMap is the per-sparse-component store: entity -> MapRow, backed
// by a dense values/ticks column plus a dense entity list and a sparse
// entity->row index, a classic sparse-set layout with separate dense
// values and an entity->row index. Unlike a Table, which delegates its
// storage to the teacher's table.Table (see table.go), each SparseMap
// owns its own independent dense packing via a plain sparseColumn.
type SparseMap struct {
	id   MapId
	comp ComponentId

	column   sparseStorageColumn
	entities []Entity
	rowOf    map[Entity]MapRow
}

func newSparseMap(id MapId, comp ComponentId, reg *componentRegistry) *SparseMap {
	desc := reg.descriptor(comp)
	return &SparseMap{
		id:     id,
		comp:   comp,
		column: desc.newSparseColumn(int(Config.tableInitialCapacity)),
		rowOf:  make(map[Entity]MapRow),
	}
}

func (m *SparseMap) Len() int { return len(m.entities) }

// GetRow returns e's row in this map, if present.
func (m *SparseMap) GetRow(e Entity) (MapRow, bool) {
	row, ok := m.rowOf[e]
	return row, ok
}

// Allocate assigns e a fresh dense row in amortised O(1).
func (m *SparseMap) Allocate(e Entity) MapRow {
	row := m.column.AppendZero()
	m.entities = append(m.entities, e)
	m.rowOf[e] = row
	return row
}

// Free removes e's row via swap-compaction with the map's last dense
// row, keeping the dense arrays contiguous.
func (m *SparseMap) Free(e Entity) {
	row, ok := m.rowOf[e]
	if !ok {
		return
	}
	last := MapRow(len(m.entities) - 1)
	m.column.SwapRemove(row)
	if row != last {
		moved := m.entities[last]
		m.entities[row] = moved
		m.rowOf[moved] = row
	}
	m.entities = m.entities[:last]
	delete(m.rowOf, e)
}
