package ecscore

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// FilterOp is the logical combinator a compositeFilter applies to its
// children: AND/OR/NOT over archetype component-set masks.
type FilterOp int

const (
	OpAnd FilterOp = iota
	OpOr
	OpNot
)

// FilterNode is one node of a compiled filter tree; Match is evaluated
// once per archetype when the query's matched-storage list is rebuilt.
type FilterNode interface {
	Match(a *Archetype) bool
}

type leafFilter struct {
	ids []ComponentId
	sig mask.Mask256
	// all selects ContainsAll (every id in ids must be present, the
	// sense an And leaf needs) vs ContainsAny (at least one suffices,
	// the sense both Or and Not leaves need).
	all bool
}

func newLeafFilter(ids []ComponentId, all bool) *leafFilter {
	return &leafFilter{ids: ids, sig: signatureOf(ids), all: all}
}

func (f *leafFilter) Match(a *Archetype) bool {
	if f.all {
		return a.signature.ContainsAll(f.sig)
	}
	return a.signature.ContainsAny(f.sig)
}

type compositeFilter struct {
	op       FilterOp
	leaf     *leafFilter
	children []FilterNode
}

func (f *compositeFilter) Match(a *Archetype) bool {
	switch f.op {
	case OpAnd:
		if f.leaf != nil && !f.leaf.Match(a) {
			return false
		}
		for _, c := range f.children {
			if !c.Match(a) {
				return false
			}
		}
		return true
	case OpOr:
		if f.leaf != nil && f.leaf.Match(a) {
			return true
		}
		for _, c := range f.children {
			if c.Match(a) {
				return true
			}
		}
		return false
	case OpNot:
		if f.leaf != nil && f.leaf.Match(a) {
			return false
		}
		for _, c := range f.children {
			if c.Match(a) {
				return false
			}
		}
		return true
	}
	return false
}

// FilterBuilder assembles an archetype-matching predicate from
// components and sub-filters via an And/Or/Not builder over
// ComponentId sets.
type FilterBuilder struct {
	root FilterNode
}

func NewFilterBuilder() *FilterBuilder { return &FilterBuilder{} }

func (b *FilterBuilder) And(items ...any) FilterNode { return b.compose(OpAnd, items) }
func (b *FilterBuilder) Or(items ...any) FilterNode  { return b.compose(OpOr, items) }
func (b *FilterBuilder) Not(items ...any) FilterNode { return b.compose(OpNot, items) }

func (b *FilterBuilder) compose(op FilterOp, items []any) FilterNode {
	ids, children := b.processItems(items)
	node := &compositeFilter{op: op, children: children}
	if len(ids) > 0 {
		node.leaf = newLeafFilter(ids, op == OpAnd)
	}
	if b.root == nil {
		b.root = node
	}
	return node
}

func (b *FilterBuilder) processItems(items []any) ([]ComponentId, []FilterNode) {
	var ids []ComponentId
	var children []FilterNode
	for _, item := range items {
		switch v := item.(type) {
		case ComponentId:
			ids = append(ids, v)
		case []ComponentId:
			ids = append(ids, v...)
		case FilterNode:
			children = append(children, v)
		default:
			panic(bark.AddTrace(fmt.Errorf("ecscore: invalid filter item type %T", item)))
		}
	}
	return ids, children
}

func (b *FilterBuilder) Match(a *Archetype) bool {
	if b.root == nil {
		return true
	}
	return b.root.Match(a)
}

// entityFilterKind selects the per-row change-detection predicate a
// query applies after archetype matching: Changed or Added.
type entityFilterKind int

const (
	filterChanged entityFilterKind = iota
	filterAdded
)

// entityFilter is a per-row predicate evaluated during iteration rather
// than at archetype-match time, since it depends on the row's stored
// ticks compared against the query's last-run/this-run pair.
type entityFilter struct {
	kind entityFilterKind
	id   ComponentId
}

func (f entityFilter) matches(t *ticks, lastRun, thisRun Tick) bool {
	switch f.kind {
	case filterAdded:
		return t.added.IsNewerThan(lastRun, thisRun)
	default:
		return t.changed.IsNewerThan(lastRun, thisRun)
	}
}
