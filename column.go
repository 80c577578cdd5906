package ecscore

import "github.com/TheBitDrifter/table"

// cell pairs one component's value with its change-detection tick
// metadata in a single table.ElementType, so the teacher's table.Table
// keeps the two aligned under its own row compaction instead of this
// module hand-synchronising a second column. cell[T] is itself a
// distinct Go type per T, which is what gives every component its own
// ElementType identity from table.FactoryNewElementType.
type cell[T any] struct {
	Value T
	Ticks ticks
}

// componentAccessor is the type-erased handle a dense Table uses to
// reach one component's backing column without knowing its static Go
// type: an ElementType/Accessor pair over cell[T], built once at
// registration (RegisterComponent) and shared by every Table that
// carries this component.
type componentAccessor interface {
	ElementType() table.ElementType
	Contains(tbl table.Table) bool
	checkAllTicks(tbl table.Table, now Tick)
}

type typedAccessor[T any] struct {
	elemType table.ElementType
	accessor table.Accessor[cell[T]]
}

func newTypedAccessor[T any]() *typedAccessor[T] {
	et := table.FactoryNewElementType[cell[T]]()
	return &typedAccessor[T]{
		elemType: et,
		accessor: table.FactoryNewAccessor[cell[T]](et),
	}
}

func (a *typedAccessor[T]) ElementType() table.ElementType { return a.elemType }

func (a *typedAccessor[T]) Contains(tbl table.Table) bool { return tbl.Contains(a.elemType) }

// At returns a pointer to row's value for in-place mutation, aliasing
// the same backing array the teacher's table.Table owns.
func (a *typedAccessor[T]) At(tbl table.Table, row int) *T {
	return &a.accessor.Get(row, tbl).Value
}

// TicksAt returns row's (added, changed) tick pair.
func (a *typedAccessor[T]) TicksAt(tbl table.Table, row int) *ticks {
	return &a.accessor.Get(row, tbl).Ticks
}

// checkAllTicks runs the per-cell tick maintenance pass over every
// occupied row of tbl for this component.
func (a *typedAccessor[T]) checkAllTicks(tbl table.Table, now Tick) {
	for i := 0; i < tbl.Length(); i++ {
		a.TicksAt(tbl, i).checkTicks(now)
	}
}

// sparseColumn is the plain generic-slice column backing one
// SparseMap's dense value/tick arrays. Sparse storage has no
// counterpart in the teacher's table-backed dense path — it's this
// module's own sparse-set layout (see SparseMap) — so it doesn't route
// through table.Table at all; a Go slice pair is the simplest correct
// backing for a structure SparseMap itself compacts.
type sparseColumn[T any] struct {
	data  []T
	ticks []ticks
}

func newSparseColumn[T any](capacity int) *sparseColumn[T] {
	return &sparseColumn[T]{
		data:  make([]T, 0, capacity),
		ticks: make([]ticks, 0, capacity),
	}
}

func (c *sparseColumn[T]) Len() int { return len(c.data) }

// AppendZero grows the column by one zero-valued row.
func (c *sparseColumn[T]) AppendZero() MapRow {
	var zero T
	row := MapRow(len(c.data))
	c.data = append(c.data, zero)
	c.ticks = append(c.ticks, ticks{})
	return row
}

// SwapRemove removes row by moving the last row into its slot.
func (c *sparseColumn[T]) SwapRemove(row MapRow) {
	last := len(c.data) - 1
	r := int(row)
	if r != last {
		c.data[r] = c.data[last]
		c.ticks[r] = c.ticks[last]
	}
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
	c.ticks = c.ticks[:last]
}

// At returns a pointer to row's value for in-place mutation.
func (c *sparseColumn[T]) At(row MapRow) *T { return &c.data[row] }

func (c *sparseColumn[T]) TicksAt(row MapRow) *ticks { return &c.ticks[row] }

// checkAllTicks runs the per-cell tick maintenance pass over every row
// in this column.
func (c *sparseColumn[T]) checkAllTicks(now Tick) {
	for i := range c.ticks {
		c.ticks[i].checkTicks(now)
	}
}

// sparseStorageColumn is the type-erased operations a SparseMap
// performs on its backing column without knowing its static Go type.
type sparseStorageColumn interface {
	Len() int
	AppendZero() MapRow
	SwapRemove(row MapRow)
	checkAllTicks(now Tick)
}
