package ecscore

// FilterData is the read/write component-id footprint one declared
// query contributes to an AccessTable, plus the "with"/"without" sets
// used for the disjointness test.
type FilterData struct {
	With    []ComponentId
	Without []ComponentId
	Reads   map[ComponentId]bool
	Writes  map[ComponentId]bool
}

// isDisjoint holds when either side's Without contains any of the
// other side's With — their archetype spaces cannot overlap, so no
// actual row can ever be touched by both.
func isDisjoint(a, b FilterData) bool {
	for _, w := range a.Without {
		for _, c := range b.With {
			if w == c {
				return true
			}
		}
	}
	for _, w := range b.Without {
		for _, c := range a.With {
			if w == c {
				return true
			}
		}
	}
	return false
}

// parallelisable holds when neither side writes a component the other
// reads or writes (no read/write or write/write aliasing).
func parallelisable(a, b FilterData) bool {
	for id := range a.Writes {
		if b.Reads[id] || b.Writes[id] {
			return false
		}
	}
	for id := range b.Writes {
		if a.Reads[id] || a.Writes[id] {
			return false
		}
	}
	return true
}

// AccessTable is the pre-flight contract a scheduler consults before
// running two systems concurrently.
type AccessTable struct {
	WorldRef bool
	WorldMut bool

	ResourceReads  map[string]bool
	ResourceWrites map[string]bool

	Queries map[*QueryState]FilterData
}

func NewAccessTable() *AccessTable {
	return &AccessTable{
		ResourceReads:  make(map[string]bool),
		ResourceWrites: make(map[string]bool),
		Queries:        make(map[*QueryState]FilterData),
	}
}

// CanRunWith reports whether a and b may execute concurrently.
func (a *AccessTable) CanRunWith(b *AccessTable) bool {
	if a.WorldMut || b.WorldMut {
		return false
	}
	if a.WorldRef && !b.WorldRef {
		return false
	}
	if b.WorldRef && !a.WorldRef {
		return false
	}
	for name := range a.ResourceWrites {
		if b.ResourceReads[name] || b.ResourceWrites[name] {
			return false
		}
	}
	for name := range b.ResourceWrites {
		if a.ResourceReads[name] || a.ResourceWrites[name] {
			return false
		}
	}
	for _, fa := range a.Queries {
		for _, fb := range b.Queries {
			if isDisjoint(fa, fb) {
				continue
			}
			if !parallelisable(fa, fb) {
				return false
			}
		}
	}
	return true
}

// markQuery records q's declared access, panicking if q self-conflicts:
// the same query both reads and writes overlapping rows it cannot
// statically prove disjoint.
func (a *AccessTable) markQuery(q *QueryState, data FilterData) {
	for id := range data.Writes {
		if data.Reads[id] {
			panic("ecscore: query declares overlapping read and write access to the same component without resolving aliasing")
		}
	}
	a.Queries[q] = data
}
