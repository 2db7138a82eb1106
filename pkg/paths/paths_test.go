package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathFormats(t *testing.T) {
	assert.Equal(t, Path("db/2/native/"), Native(2))
	assert.Equal(t, Path("db/1/schema/public/table/3/"), Table(1, "public", 3))
	assert.Equal(t, Path("collection/7/read/"), CollectionRead(7))
	assert.Equal(t, Path("collection/root/read/"), CollectionRead(0))
}

func TestTablePathEmptySchema(t *testing.T) {
	// Schemaless engines keep the empty segment.
	assert.Equal(t, Path("db/1/schema//table/3/"), Table(1, "", 3))
}

func TestDenyAllUnsatisfiable(t *testing.T) {
	// Database ids start at 1, so no real grant covers database 0.
	assert.Equal(t, Path("db/0/native/"), DenyAll)
}

func TestSetDeduplicates(t *testing.T) {
	s := NewSet(Native(1), Native(1), Table(1, "public", 3))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(Native(1)))
	assert.False(t, s.Contains(Native(2)))
}

func TestSetEqualOrderIndependent(t *testing.T) {
	a := NewSet(Native(1), Table(1, "s", 2))
	b := NewSet(Table(1, "s", 2), Native(1))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewSet(Native(1))))
	assert.False(t, NewSet(Native(1)).Equal(NewSet(Native(2))))
}

func TestSliceSorted(t *testing.T) {
	s := NewSet(Native(9), Native(1), CollectionRead(2))
	assert.Equal(t, []Path{
		"collection/2/read/",
		"db/1/native/",
		"db/9/native/",
	}, s.Slice())
}

func TestEmptySet(t *testing.T) {
	s := NewSet()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Slice())
	assert.True(t, s.Equal(NewSet()))
}
