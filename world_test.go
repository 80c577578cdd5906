package ecscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wtPosition struct{ X, Y float64 }
type wtVelocity struct{ X, Y float64 }

func TestSpawnFetchRoundtrip(t *testing.T) {
	w := New(1)
	e := SpawnBundle2(w, wtPosition{X: 1, Y: 2}, wtVelocity{X: 3, Y: 4})

	pos, err := ViewOf[wtPosition](w).Get(e)
	require.NoError(t, err)
	assert.Equal(t, wtPosition{X: 1, Y: 2}, *pos)

	vel, err := ViewOf[wtVelocity](w).Get(e)
	require.NoError(t, err)
	assert.Equal(t, wtVelocity{X: 3, Y: 4}, *vel)
}

func TestDespawnReclaimsIndexAndBumpsGeneration(t *testing.T) {
	w := New(1)
	e1 := SpawnBundle1(w, wtPosition{X: 1})
	require.NoError(t, w.Despawn(e1))

	e2 := SpawnBundle1(w, wtPosition{X: 2})
	assert.Equal(t, e1.Index(), e2.Index())
	assert.Greater(t, e2.Generation(), e1.Generation())

	_, err := ViewOf[wtPosition](w).Get(e1)
	assert.Error(t, err)

	pos, err := ViewOf[wtPosition](w).Get(e2)
	require.NoError(t, err)
	assert.Equal(t, wtPosition{X: 2}, *pos)
}

func TestInsertComponentMovesToTargetArchetype(t *testing.T) {
	w := New(1)
	e := SpawnBundle1(w, wtPosition{X: 1, Y: 1})

	require.NoError(t, InsertComponent(w, e, wtVelocity{X: 5, Y: 6}))

	vel, err := ViewOf[wtVelocity](w).Get(e)
	require.NoError(t, err)
	assert.Equal(t, wtVelocity{X: 5, Y: 6}, *vel)

	pos, err := ViewOf[wtPosition](w).Get(e)
	require.NoError(t, err)
	assert.Equal(t, wtPosition{X: 1, Y: 1}, *pos)
}

func TestRemoveComponentMovesToTargetArchetype(t *testing.T) {
	w := New(1)
	e := SpawnBundle2(w, wtPosition{X: 1}, wtVelocity{X: 2})

	require.NoError(t, RemoveComponent[wtVelocity](w, e))

	assert.False(t, ViewOf[wtVelocity](w).Has(e))
	assert.True(t, ViewOf[wtPosition](w).Has(e))
}

func TestArchetypeEdgesAreMemoised(t *testing.T) {
	w := New(1)
	e1 := SpawnBundle1(w, wtPosition{X: 1})
	e2 := SpawnBundle1(w, wtPosition{X: 2})

	archeBefore := len(w.graph.arches)
	require.NoError(t, InsertComponent(w, e1, wtVelocity{X: 1}))
	archeAfterFirst := len(w.graph.arches)
	require.NoError(t, InsertComponent(w, e2, wtVelocity{X: 2}))
	archeAfterSecond := len(w.graph.arches)

	assert.Greater(t, archeAfterFirst, archeBefore, "first insert of a new component shape creates an archetype")
	assert.Equal(t, archeAfterFirst, archeAfterSecond, "second insert of the same shape reuses the memoised edge")
}

type wtRequiredHost struct{ Tag int }
type wtRequiredDep struct{ Value int }

func TestRequiredComponentsWriteDefaultsOnlyWhenNotExplicit(t *testing.T) {
	w := New(1)
	RequireComponent[wtRequiredHost, wtRequiredDep](w, func() wtRequiredDep { return wtRequiredDep{Value: 42} })

	e1 := SpawnBundle1(w, wtRequiredHost{Tag: 1})
	dep, err := ViewOf[wtRequiredDep](w).Get(e1)
	require.NoError(t, err)
	assert.Equal(t, 42, dep.Value)

	e2 := w.Spawn(RegisterBundle1[wtRequiredHost](w), func(w *World, e Entity) {
		InsertComponent(w, e, wtRequiredHost{Tag: 2})
		InsertComponent(w, e, wtRequiredDep{Value: 7})
	})
	dep2, err := ViewOf[wtRequiredDep](w).Get(e2)
	require.NoError(t, err)
	assert.Equal(t, 7, dep2.Value, "explicit field beats the required-component default")
}

func TestCheckTicksClampsAgeBackIntoWindow(t *testing.T) {
	w := New(1)
	e := SpawnBundle1(w, wtPosition{X: 1})
	loc, err := w.entities.get(e)
	require.NoError(t, err)

	t1 := w.cellTicks(e, loc, ComponentIdOf[wtPosition](w))
	require.NotNil(t, t1)
	t1.added = Tick(1)
	t1.changed = Tick(1)

	w.tick = Tick(MaxTickAge + CheckCycle)
	now := w.currentTick()
	w.CheckTicks()

	assert.LessOrEqual(t, now.RelativeTo(t1.changed), MaxTickAge)
}
