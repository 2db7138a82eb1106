package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querygate/querygate/pkg/paths"
	"github.com/querygate/querygate/pkg/perms"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTableSchemasBatched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddTable(ctx, 3, 1, "public"))
	require.NoError(t, store.AddTable(ctx, 5, 1, "reporting"))
	require.NoError(t, store.AddTable(ctx, 6, 1, "")) // schemaless

	schemas, err := store.TableSchemas(ctx, []int64{3, 5, 6, 99})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{3: "public", 5: "reporting", 6: ""}, schemas)
}

func TestTableSchemasEmptyBatch(t *testing.T) {
	store := newTestStore(t)

	schemas, err := store.TableSchemas(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, schemas)
}

func TestCardCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddCollection(ctx, 7, "Ops"))
	require.NoError(t, store.AddCard(ctx, 12, 7))

	coll, err := store.CardCollection(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, perms.Collection{ID: 7, Name: "Ops"}, coll)
}

func TestCardInRootCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddCard(ctx, 13, 0))

	coll, err := store.CardCollection(ctx, 13)
	require.NoError(t, err)
	assert.EqualValues(t, 0, coll.ID)

	set, err := store.ReadPermissions(ctx, coll)
	require.NoError(t, err)
	assert.True(t, set.Equal(paths.NewSet(paths.CollectionRead(0))))
}

func TestCardNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CardCollection(context.Background(), 99)
	assert.ErrorIs(t, err, perms.ErrNotFound)
}
