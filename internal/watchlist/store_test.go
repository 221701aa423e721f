package watchlist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "watchlist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreInsertAndFind(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Insert(ctx, Entity{
		EntityID: "e1",
		FullName: "Rahul Menon",
		IDNumber: "SGP1234567Z",
		Address:  "Jurong West, Singapore",
		Email:    "rahul@example.com",
		Source:   "LOCAL",
		Notes:    "test entity",
	}))

	byID, err := store.FindByIDNumber(ctx, "sgp1234567z")
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "Rahul Menon", byID[0].FullName)

	byName, err := store.FindByName(ctx, "RAHUL MENON")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "e1", byName[0].EntityID)

	like, err := store.FindNameLike(ctx, "menon")
	require.NoError(t, err)
	require.Len(t, like, 1)

	none, err := store.FindByIDNumber(ctx, "NOPE999")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStoreInsertUpserts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Insert(ctx, Entity{EntityID: "e1", FullName: "Old Name"}))
	require.NoError(t, store.Insert(ctx, Entity{EntityID: "e1", FullName: "New Name"}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	found, err := store.FindByName(ctx, "New Name")
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestStoreAllWithEmbedding(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Insert(ctx, Entity{
		EntityID:  "e1",
		FullName:  "Has Vector",
		Embedding: []float64{0.1, 0.2, 0.3},
	}))
	require.NoError(t, store.Insert(ctx, Entity{
		EntityID: "e2",
		FullName: "No Vector",
	}))

	embedded, err := store.AllWithEmbedding(ctx)
	require.NoError(t, err)
	require.Len(t, embedded, 1)
	assert.Equal(t, "e1", embedded[0].EntityID)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, embedded[0].Embedding)
}

func TestStoreEnsureReadySeedsOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.EnsureReady(ctx, nil))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, seedMinEntities)

	// Second call is a no-op.
	require.NoError(t, store.EnsureReady(ctx, nil))
	count2, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, count, count2)

	// Seed data includes the demo entities.
	found, err := store.FindByIDNumber(ctx, "SGP1234567Z")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Rahul Menon", found[0].FullName)
	assert.Equal(t, "SEED", found[0].Source)
}

func TestLoadSeedEntities(t *testing.T) {
	entities, err := loadSeedEntities()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entities), seedMinEntities)
	for _, e := range entities {
		assert.NotEmpty(t, e.FullName)
	}
}

func TestCanonicalAndQueryText(t *testing.T) {
	assert.Equal(t, "Rahul Menon | SGP1234567Z | Jurong West | rahul@example.com",
		CanonicalText("Rahul Menon", "SGP1234567Z", "Jurong West", "rahul@example.com"))

	assert.Equal(t, "Rahul Menon | SGP1234567Z",
		QueryText(Query{Name: "Rahul Menon", IDNumber: "SGP1234567Z"}))
	assert.Equal(t, "", QueryText(Query{}))
}
