package ecscore

// entityDirectory is the generation-tagged free-list directory mapping
// every issued Entity index to its current EntityLocation. A freed
// index is recycled with its generation bumped so stale handles are
// detected instead of aliasing a new entity.
type entityDirectory struct {
	locations  []EntityLocation
	generation []uint32
	alive      []bool
	freeList   []uint32
}

func newEntityDirectory() *entityDirectory {
	return &entityDirectory{}
}

// spawn allocates a fresh Entity handle, reusing a freed index (with
// bumped generation) when one is available.
func (d *entityDirectory) spawn(loc EntityLocation) Entity {
	if n := len(d.freeList); n > 0 {
		idx := d.freeList[n-1]
		d.freeList = d.freeList[:n-1]
		d.generation[idx]++
		if d.generation[idx] == 0 {
			// Generation 0 is reserved; skip it on wraparound.
			d.generation[idx] = 1
		}
		d.alive[idx] = true
		d.locations[idx] = loc
		return Entity{index: idx, generation: d.generation[idx]}
	}
	idx := uint32(len(d.locations))
	d.locations = append(d.locations, loc)
	d.generation = append(d.generation, 1)
	d.alive = append(d.alive, true)
	return Entity{index: idx, generation: 1}
}

// check validates e against the current directory state.
func (d *entityDirectory) check(e Entity) error {
	if int(e.index) >= len(d.locations) {
		return ErrNotFound{Entity: e}
	}
	if !d.alive[e.index] {
		return ErrNotSpawned{Entity: e}
	}
	if d.generation[e.index] != e.generation {
		current := Entity{index: e.index, generation: d.generation[e.index]}
		return ErrMismatch{Expected: e, Actual: current}
	}
	return nil
}

func (d *entityDirectory) get(e Entity) (EntityLocation, error) {
	if err := d.check(e); err != nil {
		return EntityLocation{}, err
	}
	return d.locations[e.index], nil
}

func (d *entityDirectory) set(e Entity, loc EntityLocation) {
	d.locations[e.index] = loc
}

// patchRow patches the location of whatever entity currently
// occupies index, used after a swap-compaction moves it to a new row
// without changing its identity or generation.
func (d *entityDirectory) patchRow(idx uint32, loc EntityLocation) {
	d.locations[idx] = loc
}

// despawn marks e's index free and returns it to the free list.
func (d *entityDirectory) despawn(e Entity) error {
	if err := d.check(e); err != nil {
		return err
	}
	d.alive[e.index] = false
	d.freeList = append(d.freeList, e.index)
	return nil
}

func (d *entityDirectory) isAlive(e Entity) bool {
	return d.check(e) == nil
}
