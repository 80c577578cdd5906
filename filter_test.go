package ecscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ftPosition struct{ X, Y float64 }
type ftVelocity struct{ X, Y float64 }
type ftHealth struct{ HP int }

func TestFilterBuilderAndOrNot(t *testing.T) {
	w := New(1)
	idPos := ComponentIdOf[ftPosition](w)
	idVel := ComponentIdOf[ftVelocity](w)
	idHealth := ComponentIdOf[ftHealth](w)

	archPosVel := w.graph.archetype(w.getOrCreateArchetype([]ComponentId{idPos, idVel}, nil))
	archPosOnly := w.graph.archetype(w.getOrCreateArchetype([]ComponentId{idPos}, nil))
	archHealthOnly := w.graph.archetype(w.getOrCreateArchetype([]ComponentId{idHealth}, nil))

	and := NewFilterBuilder()
	and.And(idPos, idVel)
	assert.True(t, and.Match(archPosVel))
	assert.False(t, and.Match(archPosOnly))

	or := NewFilterBuilder()
	or.Or(idPos, idHealth)
	assert.True(t, or.Match(archPosOnly))
	assert.True(t, or.Match(archHealthOnly))
	assert.False(t, or.Match(w.graph.archetype(EmptyArche)))

	not := NewFilterBuilder()
	not.Not(idVel)
	assert.True(t, not.Match(archPosOnly))
	assert.False(t, not.Match(archPosVel))
}
