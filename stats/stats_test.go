package stats

import (
	"testing"

	"github.com/archwright/ecscore"
	"github.com/stretchr/testify/assert"
)

type stPosition struct{ X, Y float64 }
type stVelocity struct{ X, Y float64 }

func TestCollectReportsEntitiesAndArchetypes(t *testing.T) {
	w := ecscore.New(1)
	for i := 0; i < 4; i++ {
		ecscore.SpawnBundle1(w, stPosition{X: float64(i)})
	}
	ecscore.SpawnBundle2(w, stPosition{X: 9}, stVelocity{X: 1})

	snap := Collect(w)
	assert.Equal(t, 5, snap.Entities.Used)
	assert.Equal(t, 0, snap.Entities.Recycled)
	assert.GreaterOrEqual(t, len(snap.Archetypes), 2)
	assert.NotEmpty(t, snap.String())
}
