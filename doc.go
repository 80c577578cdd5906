/*
Package ecscore is an archetype-based Entity-Component-System runtime
for games and simulations.

It stores entities by their exact component set: every entity sharing a
set lives in the same archetype, backed by a dense columnar Table for
the components that benefit from contiguous storage and per-component
sparse Maps for the ones that don't. Moving an entity between archetypes
(inserting or removing a component) walks a memoised edge graph instead
of recomputing the destination from scratch every time.

Core Concepts:

  - Entity: a generation-tagged handle into the world's entity directory.
  - Component: a registered Go type, stored densely by default or
    sparsely when it implements SparseComponent.
  - Bundle: a statically-known tuple of components written in one call.
  - Archetype: the equivalence class of entities sharing a component set.
  - Query: a compiled, cached filter over the archetype graph, iterated
    with Go 1.23 range-over-func.

Basic Usage:

	w := ecscore.New(1)

	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	e := ecscore.SpawnBundle2(w, Position{}, Velocity{X: 1})

	q := ecscore.NewQuery2[Position, Velocity](w)
	q.WriteA()
	for _, c := range q.Each(w) {
		c.A.X += c.B.X
		c.A.Y += c.B.Y
	}

ecscore has no scheduler of its own; see AccessTable for the conflict
predicate a caller's own worker pool consults before running two
systems concurrently.
*/
package ecscore
