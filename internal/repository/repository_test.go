package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sonroyaalmerol/wavebot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*FavoritesService, *config.Config) {
	t.Helper()
	cfg := &config.Config{DataDir: t.TempDir()}
	db, err := OpenDB(cfg)
	require.NoError(t, err)
	repo := NewRepo(db)
	t.Cleanup(func() { _ = repo.Close() })
	return NewFavoritesService(repo), cfg
}

func TestListByUserEmpty(t *testing.T) {
	favs, _ := newTestService(t)

	items, err := favs.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInsertAndListByUser(t *testing.T) {
	favs, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, favs.Insert(ctx, "u1", " First ", "Artist A", "https://example.com/1"))
	require.NoError(t, favs.Insert(ctx, "u2", "Other", "Artist B", "https://example.com/2"))
	require.NoError(t, favs.Insert(ctx, "u1", "Second", "Artist C", "https://example.com/3"))

	items, err := favs.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Favorite{UserID: "u1", Title: "First", Author: "Artist A", URL: "https://example.com/1"}, items[0])
	assert.Equal(t, "Second", items[1].Title)
}

func TestDuplicateFavoritesAllowed(t *testing.T) {
	favs, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, favs.Insert(ctx, "u1", "Same", "Artist", "https://example.com/same"))
	}

	items, err := favs.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFavoritesPersistAcrossReopen(t *testing.T) {
	favs, cfg := newTestService(t)
	ctx := context.Background()
	require.NoError(t, favs.Insert(ctx, "u1", "Kept", "Artist", "https://example.com/kept"))

	db, err := openPath(filepath.Join(cfg.DataDir, dbFile))
	require.NoError(t, err)
	reopened := NewFavoritesService(NewRepo(db))
	defer db.Close()

	items, err := reopened.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Kept", items[0].Title)
}
