package ecscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type btPosition struct{ X, Y float64 }
type btVelocity struct{ X, Y float64 }

func TestRegisterBundleIsIdempotent(t *testing.T) {
	w := New(1)
	id1 := RegisterBundle2[btPosition, btVelocity](w)
	id2 := RegisterBundle2[btPosition, btVelocity](w)
	assert.Equal(t, id1, id2)
}

func TestRegisterNamedBundleDedupesByCanonicalComponentSet(t *testing.T) {
	w := New(1)
	idA := ComponentIdOf[btPosition](w)
	idB := ComponentIdOf[btVelocity](w)

	named := RegisterNamedBundle(w, "pos_vel", []ComponentId{idA, idB})
	typed := RegisterBundle2[btPosition, btVelocity](w)

	assert.Equal(t, named, typed, "identical canonical component sets share one BundleId regardless of source")
}

func TestCanonicalizeSortsAndPartitionsByStorageKind(t *testing.T) {
	w := New(1)
	idA := ComponentIdOf[btPosition](w)
	idB := ComponentIdOf[btVelocity](w)

	dense, sparse := canonicalize(w, []ComponentId{idB, idA})
	assert.Equal(t, []ComponentId{idA, idB}, dense)
	assert.Empty(t, sparse)
}
