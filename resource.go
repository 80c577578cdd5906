package ecscore

import (
	"bytes"
	"reflect"
	"runtime"
	"strconv"
)

// NonSend marks a resource type as pinned to the goroutine that most
// recently inserted it; GetResource and GetResourceMut check the caller
// against that goroutine and panic on mismatch (RemoveResource and a
// fresh InsertResource are not checked). Ordinary Go code has no OS-thread handle to pin
// a resource to, so the pin is tracked per-goroutine instead.
type NonSend interface {
	NonSendResource()
}

// NonSync marks a resource type as readable only from the goroutine
// that inserted it, same enforcement path as NonSend but only checked
// on reads (writes are necessarily already exclusive).
type NonSync interface {
	NonSyncResource()
}

// goroutineID returns a cheap fingerprint of the calling goroutine,
// parsed out of its runtime.Stack header ("goroutine 123 [running]:").
// This is the standard no-cgo trick Go code reaches for when it needs a
// goroutine identity to compare against, since the runtime deliberately
// doesn't expose one.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = "goroutine "
	if i := bytes.Index(b, []byte(prefix)); i >= 0 {
		b = b[i+len(prefix):]
	}
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

type resourceCell struct {
	value     any
	ticks     ticks
	nonSend   bool
	nonSync   bool
	ownerGoid uint64
}

// resourceSet is the world-singleton store keyed by type, with ticks
// and send/sync flags per cell.
type resourceSet struct {
	byType map[reflect.Type]*resourceCell
}

func newResourceSet() *resourceSet {
	return &resourceSet{byType: make(map[reflect.Type]*resourceCell)}
}

func checkPin(c *resourceCell, forWrite bool) {
	if !c.nonSend && !(c.nonSync && !forWrite) {
		return
	}
	if goroutineID() != c.ownerGoid {
		panic("ecscore: resource accessed from a goroutine other than the one that inserted it")
	}
}

// InsertResource installs value as the world's singleton T, overwriting
// any previous value, and returns a pointer to the stored copy.
func InsertResource[T any](w *World, value T) *T {
	ty := reflect.TypeFor[T]()
	var zero T
	_, nonSend := any(zero).(NonSend)
	_, nonSync := any(zero).(NonSync)
	ptr := new(T)
	*ptr = value
	cell := &resourceCell{
		value:     ptr,
		ticks:     newTicks(w.currentTick()),
		nonSend:   nonSend,
		nonSync:   nonSync,
		ownerGoid: goroutineID(),
	}
	w.resources.byType[ty] = cell
	return ptr
}

// RemoveResource drops T from the world, returning its last value if it
// was present.
func RemoveResource[T any](w *World) (T, bool) {
	ty := reflect.TypeFor[T]()
	cell, ok := w.resources.byType[ty]
	var zero T
	if !ok {
		return zero, false
	}
	delete(w.resources.byType, ty)
	return *cell.value.(*T), true
}

// GetResource returns a read-only pointer to T, or nil if absent.
// Panics if T is NonSend or NonSync and the caller is on a different
// goroutine than the one that inserted it.
func GetResource[T any](w *World) *T {
	ty := reflect.TypeFor[T]()
	cell, ok := w.resources.byType[ty]
	if !ok {
		return nil
	}
	checkPin(cell, false)
	return cell.value.(*T)
}

// GetResourceMut returns a mutable pointer to T and stamps its changed
// tick, or nil if absent. Panics if T is !Send and the caller is on a
// different goroutine than the one that inserted it.
func GetResourceMut[T any](w *World) *T {
	ty := reflect.TypeFor[T]()
	cell, ok := w.resources.byType[ty]
	if !ok {
		return nil
	}
	checkPin(cell, true)
	cell.ticks.markChanged(w.currentTick())
	return cell.value.(*T)
}

func (s *resourceSet) checkTicks(now Tick) {
	for _, cell := range s.byType {
		cell.ticks.checkTicks(now)
	}
}
