package ecscore

import "iter"

// QueryState is the non-generic, compiled core of a query: the
// archetype-matching filter, the component ids it declares access to,
// and a version-stamped cache of the archetypes it currently matches.
// The generic Query1..4/Query2Opt wrappers below drive one QueryState
// each and add typed Each() iteration on top.
type QueryState struct {
	filter *FilterBuilder
	data   FilterData

	entityFilters []entityFilter
	lastRun       Tick

	version int
	matched []ArcheId
}

func newQueryState() *QueryState {
	return &QueryState{
		filter: NewFilterBuilder(),
		data: FilterData{
			Reads:  make(map[ComponentId]bool),
			Writes: make(map[ComponentId]bool),
		},
	}
}

func (s *QueryState) requireAll(ids ...ComponentId) {
	s.data.With = append(s.data.With, ids...)
	s.filter.And(ids)
}

func (s *QueryState) excludeAll(ids ...ComponentId) {
	s.data.Without = append(s.data.Without, ids...)
	s.filter.Not(ids)
}

func (s *QueryState) markRead(id ComponentId)  { s.data.Reads[id] = true }
func (s *QueryState) markWrite(id ComponentId) { s.data.Writes[id] = true }

// refresh rebuilds the matched-archetype cache if the world's archetype
// count has grown since the last refresh.
func (s *QueryState) refresh(w *World) {
	total := len(w.graph.arches)
	if total == s.version {
		return
	}
	for id := ArcheId(s.version); int(id) < total; id++ {
		arche := w.graph.archetype(id)
		if s.filter.Match(arche) {
			s.matched = append(s.matched, id)
		}
	}
	s.version = total
}

// recordRun stamps this query as having run as of now, so the next
// call's Changed/Added filters compare against this run rather than
// whatever the previous one was.
func (s *QueryState) recordRun(now Tick) { s.lastRun = now }

// queryRow is one entity yielded by iteration, along with its resolved
// storage coordinates for the caller's typed fetch.
type queryRow struct {
	entity Entity
	loc    EntityLocation
}

// rows walks every matched archetype's dense entity list, resolving
// each entity's current EntityLocation through the directory (so
// iteration stays correct across archetypes that share a Table) and
// applying any Changed/Added per-entity filters.
func (s *QueryState) rows(w *World) iter.Seq[queryRow] {
	return func(yield func(queryRow) bool) {
		for _, archeId := range s.matched {
			arche := w.graph.archetype(archeId)
			for _, e := range arche.entities {
				loc, err := w.entities.get(e)
				if err != nil {
					continue
				}
				if len(s.entityFilters) > 0 && !s.passesEntityFilters(w, e, loc) {
					continue
				}
				if !yield(queryRow{entity: e, loc: loc}) {
					return
				}
			}
		}
	}
}

func (s *QueryState) passesEntityFilters(w *World, e Entity, loc EntityLocation) bool {
	for _, ef := range s.entityFilters {
		t := w.cellTicks(e, loc, ef.id)
		if t == nil || !ef.matches(t, s.lastRun, w.currentTick()) {
			return false
		}
	}
	return true
}

// Changed adds a per-entity filter requiring id's changed tick to be
// newer than the query's last run.
func (s *QueryState) Changed(id ComponentId) { s.entityFilters = append(s.entityFilters, entityFilter{filterChanged, id}) }

// Added adds a per-entity filter requiring id's added tick to be newer
// than the query's last run.
func (s *QueryState) Added(id ComponentId) { s.entityFilters = append(s.entityFilters, entityFilter{filterAdded, id}) }

// Query1 fetches a single component per matching entity.
type Query1[A any] struct {
	state *QueryState
	idA   ComponentId
}

func NewQuery1[A any](w *World) *Query1[A] {
	idA := ComponentIdOf[A](w)
	s := newQueryState()
	s.requireAll(idA)
	s.markRead(idA)
	return &Query1[A]{state: s, idA: idA}
}

// Write marks A as mutably accessed, for the AccessTable conflict
// predicate; the fetched pointer is always mutable regardless (Go has
// no borrow checker to enforce read-only access at the type level).
func (q *Query1[A]) Write() *Query1[A] {
	delete(q.state.data.Reads, q.idA)
	q.state.markWrite(q.idA)
	return q
}

func (q *Query1[A]) Changed() *Query1[A] { q.state.Changed(q.idA); return q }
func (q *Query1[A]) Added() *Query1[A]   { q.state.Added(q.idA); return q }

func (q *Query1[A]) State() *QueryState { return q.state }

func (q *Query1[A]) Each(w *World) iter.Seq2[Entity, *A] {
	q.state.refresh(w)
	thisRun := w.currentTick()
	return func(yield func(Entity, *A) bool) {
		defer q.state.recordRun(thisRun)
		for row := range q.state.rows(w) {
			a := fetchAt[A](w, row.entity, row.loc, q.idA)
			if a == nil {
				continue
			}
			if !yield(row.entity, a) {
				return
			}
		}
	}
}

// Query2 fetches two components per matching entity.
type Query2[A, B any] struct {
	state    *QueryState
	idA, idB ComponentId
}

func NewQuery2[A, B any](w *World) *Query2[A, B] {
	idA, idB := ComponentIdOf[A](w), ComponentIdOf[B](w)
	s := newQueryState()
	s.requireAll(idA, idB)
	s.markRead(idA)
	s.markRead(idB)
	return &Query2[A, B]{state: s, idA: idA, idB: idB}
}

func (q *Query2[A, B]) WriteA() *Query2[A, B] {
	delete(q.state.data.Reads, q.idA)
	q.state.markWrite(q.idA)
	return q
}

func (q *Query2[A, B]) WriteB() *Query2[A, B] {
	delete(q.state.data.Reads, q.idB)
	q.state.markWrite(q.idB)
	return q
}

func (q *Query2[A, B]) State() *QueryState { return q.state }

func (q *Query2[A, B]) Each(w *World) iter.Seq2[Entity, struct {
	A *A
	B *B
}] {
	q.state.refresh(w)
	thisRun := w.currentTick()
	type pair struct {
		A *A
		B *B
	}
	return func(yield func(Entity, pair) bool) {
		defer q.state.recordRun(thisRun)
		for row := range q.state.rows(w) {
			a := fetchAt[A](w, row.entity, row.loc, q.idA)
			b := fetchAt[B](w, row.entity, row.loc, q.idB)
			if a == nil || b == nil {
				continue
			}
			if !yield(row.entity, pair{A: a, B: b}) {
				return
			}
		}
	}
}

// Query2Opt fetches a required A and an optional B, for a sparse
// presence query shape — an optional component that may or may not be
// set on a given entity.
type Query2Opt[A, B any] struct {
	state    *QueryState
	idA, idB ComponentId
}

func NewQuery2Opt[A, B any](w *World) *Query2Opt[A, B] {
	idA, idB := ComponentIdOf[A](w), ComponentIdOf[B](w)
	s := newQueryState()
	s.requireAll(idA)
	s.markRead(idA)
	s.markRead(idB)
	return &Query2Opt[A, B]{state: s, idA: idA, idB: idB}
}

func (q *Query2Opt[A, B]) State() *QueryState { return q.state }

func (q *Query2Opt[A, B]) Each(w *World) iter.Seq2[Entity, struct {
	A *A
	B *B
}] {
	q.state.refresh(w)
	thisRun := w.currentTick()
	type pair struct {
		A *A
		B *B
	}
	return func(yield func(Entity, pair) bool) {
		defer q.state.recordRun(thisRun)
		for row := range q.state.rows(w) {
			a := fetchAt[A](w, row.entity, row.loc, q.idA)
			if a == nil {
				continue
			}
			b := fetchAt[B](w, row.entity, row.loc, q.idB)
			if !yield(row.entity, pair{A: a, B: b}) {
				return
			}
		}
	}
}

// Query3 fetches three components per matching entity.
type Query3[A, B, C any] struct {
	state         *QueryState
	idA, idB, idC ComponentId
}

func NewQuery3[A, B, C any](w *World) *Query3[A, B, C] {
	idA, idB, idC := ComponentIdOf[A](w), ComponentIdOf[B](w), ComponentIdOf[C](w)
	s := newQueryState()
	s.requireAll(idA, idB, idC)
	s.markRead(idA)
	s.markRead(idB)
	s.markRead(idC)
	return &Query3[A, B, C]{state: s, idA: idA, idB: idB, idC: idC}
}

func (q *Query3[A, B, C]) State() *QueryState { return q.state }

func (q *Query3[A, B, C]) Each(w *World) iter.Seq2[Entity, struct {
	A *A
	B *B
	C *C
}] {
	q.state.refresh(w)
	thisRun := w.currentTick()
	type triple struct {
		A *A
		B *B
		C *C
	}
	return func(yield func(Entity, triple) bool) {
		defer q.state.recordRun(thisRun)
		for row := range q.state.rows(w) {
			a := fetchAt[A](w, row.entity, row.loc, q.idA)
			b := fetchAt[B](w, row.entity, row.loc, q.idB)
			c := fetchAt[C](w, row.entity, row.loc, q.idC)
			if a == nil || b == nil || c == nil {
				continue
			}
			if !yield(row.entity, triple{A: a, B: b, C: c}) {
				return
			}
		}
	}
}

// Query4 fetches four components per matching entity.
type Query4[A, B, C, D any] struct {
	state               *QueryState
	idA, idB, idC, idD  ComponentId
}

func NewQuery4[A, B, C, D any](w *World) *Query4[A, B, C, D] {
	idA, idB, idC, idD := ComponentIdOf[A](w), ComponentIdOf[B](w), ComponentIdOf[C](w), ComponentIdOf[D](w)
	s := newQueryState()
	s.requireAll(idA, idB, idC, idD)
	s.markRead(idA)
	s.markRead(idB)
	s.markRead(idC)
	s.markRead(idD)
	return &Query4[A, B, C, D]{state: s, idA: idA, idB: idB, idC: idC, idD: idD}
}

func (q *Query4[A, B, C, D]) State() *QueryState { return q.state }

func (q *Query4[A, B, C, D]) Each(w *World) iter.Seq2[Entity, struct {
	A *A
	B *B
	C *C
	D *D
}] {
	q.state.refresh(w)
	thisRun := w.currentTick()
	type quad struct {
		A *A
		B *B
		C *C
		D *D
	}
	return func(yield func(Entity, quad) bool) {
		defer q.state.recordRun(thisRun)
		for row := range q.state.rows(w) {
			a := fetchAt[A](w, row.entity, row.loc, q.idA)
			b := fetchAt[B](w, row.entity, row.loc, q.idB)
			c := fetchAt[C](w, row.entity, row.loc, q.idC)
			d := fetchAt[D](w, row.entity, row.loc, q.idD)
			if a == nil || b == nil || c == nil || d == nil {
				continue
			}
			if !yield(row.entity, quad{A: a, B: b, C: c, D: d}) {
				return
			}
		}
	}
}
