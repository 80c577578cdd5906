package ecscore

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// BundleInfo is the immutable record for one registered bundle: its
// component ids canonicalised as (sorted-dense ‖ sorted-sparse), with
// DenseLen partitioning the two segments.
type BundleInfo struct {
	Ids      []ComponentId
	DenseLen int

	// Explicit is the caller-supplied component list before required-
	// components expansion; Ids minus Explicit is exactly the set that
	// needs a required-component default written for it.
	Explicit []ComponentId
}

// DenseComponents is the dense-storage slice view of Ids.
func (b BundleInfo) DenseComponents() []ComponentId { return b.Ids[:b.DenseLen] }

// SparseComponents is the sparse-storage slice view of Ids.
func (b BundleInfo) SparseComponents() []ComponentId { return b.Ids[b.DenseLen:] }

// bundleRegistry maps both static Go tuple types and dynamic string
// names to a deduplicated BundleId: different source types with an
// identical canonical component set share one BundleId.
type bundleRegistry struct {
	infos   []BundleInfo
	byType  map[reflect.Type]BundleId
	byKey   map[string]BundleId
	dynamic *dynamicBundleCache
}

func newBundleRegistry() *bundleRegistry {
	r := &bundleRegistry{
		byType:  make(map[reflect.Type]BundleId),
		byKey:   map[string]BundleId{"": EmptyBundle},
		dynamic: newDynamicBundleCache(256),
	}
	// BundleId 0 is the canonical empty bundle (EmptyBundle), matching
	// ArcheId 0 / TableId 0 as the canonical empty archetype/table.
	r.infos = append(r.infos, BundleInfo{})
	return r
}

func canonicalKey(ids []ComponentId) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

// canonicalize expands ids with their transitive required-components
// closure, then partitions by storage kind and sorts each partition
// ascending, returning the canonical (dense, sparse) pair.
func canonicalize(w *World, ids []ComponentId) (dense, sparse []ComponentId) {
	seen := make(map[ComponentId]struct{}, len(ids))
	var expand func(id ComponentId)
	expand = func(id ComponentId) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		for _, req := range w.components.descriptor(id).Requires {
			expand(req)
		}
	}
	for _, id := range ids {
		expand(id)
	}
	for id := range seen {
		if w.components.descriptor(id).Storage == Sparse {
			sparse = append(sparse, id)
		} else {
			dense = append(dense, id)
		}
	}
	sort.Slice(dense, func(i, j int) bool { return dense[i] < dense[j] })
	sort.Slice(sparse, func(i, j int) bool { return sparse[i] < sparse[j] })
	return dense, sparse
}

// registerCanonical deduplicates a canonical (dense ‖ sparse) component
// list against every previously registered bundle, returning its id.
// explicit is recorded only the first time this canonical set is seen.
func (w *World) registerCanonical(dense, sparse []ComponentId, explicit []ComponentId) BundleId {
	reg := w.bundles
	all := make([]ComponentId, 0, len(dense)+len(sparse))
	all = append(all, dense...)
	all = append(all, sparse...)
	key := canonicalKey(all)
	if id, ok := reg.byKey[key]; ok {
		return id
	}
	id := BundleId(len(reg.infos))
	reg.infos = append(reg.infos, BundleInfo{Ids: all, DenseLen: len(dense), Explicit: explicit})
	if reg.byKey == nil {
		reg.byKey = make(map[string]BundleId)
	}
	reg.byKey[key] = id
	return id
}

func (w *World) registerBundleType(ty reflect.Type, ids []ComponentId) BundleId {
	if id, ok := w.bundles.byType[ty]; ok {
		return id
	}
	dense, sparse := canonicalize(w, ids)
	id := w.registerCanonical(dense, sparse, ids)
	w.bundles.byType[ty] = id
	return id
}

func (w *World) bundleInfo(id BundleId) BundleInfo { return w.bundles.infos[id] }

// RegisterNamedBundle registers (or looks up) a bundle built from a
// runtime-supplied component-id list under a caller-chosen name, for
// bundles assembled dynamically rather than from a static Go type. A
// bounded LRU backs this path since an unbounded number of distinct
// names is possible at runtime.
func RegisterNamedBundle(w *World, name string, ids []ComponentId) BundleId {
	if id, ok := w.bundles.dynamic.Get(name); ok {
		return id
	}
	dense, sparse := canonicalize(w, ids)
	id := w.registerCanonical(dense, sparse, ids)
	w.bundles.dynamic.Put(name, id)
	return id
}

// Bundle1..Bundle4 are statically-typed component tuples a caller can
// spawn or insert in one call. Go's lack of variadic generics caps this
// at a fixed arity, which covers the common case.

type Bundle1[A any] struct{ A A }

type Bundle2[A, B any] struct {
	A A
	B B
}

type Bundle3[A, B, C any] struct {
	A A
	B B
	C C
}

type Bundle4[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

func RegisterBundle1[A any](w *World) BundleId {
	return w.registerBundleType(reflect.TypeFor[Bundle1[A]](), []ComponentId{ComponentIdOf[A](w)})
}

func RegisterBundle2[A, B any](w *World) BundleId {
	return w.registerBundleType(reflect.TypeFor[Bundle2[A, B]](),
		[]ComponentId{ComponentIdOf[A](w), ComponentIdOf[B](w)})
}

func RegisterBundle3[A, B, C any](w *World) BundleId {
	return w.registerBundleType(reflect.TypeFor[Bundle3[A, B, C]](),
		[]ComponentId{ComponentIdOf[A](w), ComponentIdOf[B](w), ComponentIdOf[C](w)})
}

func RegisterBundle4[A, B, C, D any](w *World) BundleId {
	return w.registerBundleType(reflect.TypeFor[Bundle4[A, B, C, D]](),
		[]ComponentId{ComponentIdOf[A](w), ComponentIdOf[B](w), ComponentIdOf[C](w), ComponentIdOf[D](w)})
}
