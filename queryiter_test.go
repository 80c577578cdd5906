package ecscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type qtPosition struct{ X, Y float64 }
type qtVelocity struct{ X, Y float64 }

func (qtVelocity) SparseStorage() {}

func TestQuery2IteratesOnlyMatchingEntities(t *testing.T) {
	w := New(1)
	for i := 0; i < 5; i++ {
		SpawnBundle1(w, qtPosition{X: float64(i)})
	}
	for i := 0; i < 3; i++ {
		SpawnBundle2(w, qtPosition{X: float64(i)}, qtVelocity{X: 1})
	}

	q := NewQuery2[qtPosition, qtVelocity](w)
	count := 0
	for range q.Each(w) {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestQuery2WriteAppliesMutation(t *testing.T) {
	w := New(1)
	e := SpawnBundle2(w, qtPosition{X: 0, Y: 0}, qtVelocity{X: 1, Y: 2})

	q := NewQuery2[qtPosition, qtVelocity](w)
	q.WriteA()
	for _, c := range q.Each(w) {
		c.A.X += c.B.X
		c.A.Y += c.B.Y
	}

	pos, err := ViewOf[qtPosition](w).Get(e)
	require.NoError(t, err)
	assert.Equal(t, qtPosition{X: 1, Y: 2}, *pos)
}

func TestQuery2OptReportsSparsePresence(t *testing.T) {
	w := New(1)
	for i := 0; i < 1000; i++ {
		e := SpawnBundle1(w, qtPosition{X: float64(i)})
		if i < 100 {
			require.NoError(t, InsertComponent(w, e, qtVelocity{X: 1}))
		}
	}

	required := NewQuery2[qtPosition, qtVelocity](w)
	requiredCount := 0
	for range required.Each(w) {
		requiredCount++
	}
	assert.Equal(t, 100, requiredCount)

	opt := NewQuery2Opt[qtPosition, qtVelocity](w)
	total, withVelocity := 0, 0
	for _, c := range opt.Each(w) {
		total++
		if c.B != nil {
			withVelocity++
		}
	}
	assert.Equal(t, 1000, total)
	assert.Equal(t, 100, withVelocity)
}

func TestAccessTableMarkQueryPanicsOnSelfConflict(t *testing.T) {
	at := NewAccessTable()
	state := newQueryState()
	id := ComponentId(0)
	state.data.Reads[id] = true
	state.data.Writes[id] = true

	assert.Panics(t, func() {
		at.markQuery(state, state.data)
	})
}

func TestAccessTableCanRunWith(t *testing.T) {
	w := New(1)
	idA := ComponentIdOf[qtPosition](w)
	idB := ComponentIdOf[qtVelocity](w)

	readA := FilterData{Reads: map[ComponentId]bool{idA: true}, Writes: map[ComponentId]bool{}}
	writeA := FilterData{Reads: map[ComponentId]bool{}, Writes: map[ComponentId]bool{idA: true}}
	writeB := FilterData{Reads: map[ComponentId]bool{}, Writes: map[ComponentId]bool{idB: true}}

	at1 := NewAccessTable()
	at1.markQuery(newQueryState(), readA)
	at2 := NewAccessTable()
	at2.markQuery(newQueryState(), writeA)
	at3 := NewAccessTable()
	at3.markQuery(newQueryState(), writeB)

	assert.False(t, at1.CanRunWith(at2), "a reader and a writer of the same component must not run concurrently")
	assert.True(t, at1.CanRunWith(at3), "disjoint component access may run concurrently")
}
