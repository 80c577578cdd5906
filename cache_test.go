package ecscore

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleCacheRegisterIsMonotonicAndIdempotent(t *testing.T) {
	c := NewSimpleCache[string]()

	idx1 := c.Register(reflect.TypeOf(1), "int")
	idx2 := c.Register(reflect.TypeOf("x"), "string")
	idx3 := c.Register(reflect.TypeOf(1), "int-again")

	assert.Equal(t, 0, idx1)
	assert.Equal(t, 1, idx2)
	assert.Equal(t, idx1, idx3, "re-registering a known type returns its existing index")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "int", *c.GetItem(idx3), "first registration wins; item isn't overwritten")
}

func TestDynamicBundleCacheEvictsLeastRecentlyUsed(t *testing.T) {
	d := newDynamicBundleCache(2)
	d.Put("a", BundleId(1))
	d.Put("b", BundleId(2))
	d.Put("c", BundleId(3))

	_, ok := d.Get("a")
	assert.False(t, ok, "capacity 2 evicted the least recently used entry")

	id, ok := d.Get("c")
	require.True(t, ok)
	assert.Equal(t, BundleId(3), id)
}
