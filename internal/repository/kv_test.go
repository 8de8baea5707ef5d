package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLiteRepo(t *testing.T) *SQLiteKVRepository {
	t.Helper()
	repo, err := NewSQLiteKVRepository(filepath.Join(t.TempDir(), "kv.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestKVRepositories(t *testing.T) {
	backends := map[string]func(t *testing.T) KVRepository{
		"memory": func(t *testing.T) KVRepository { return NewMemoryKVRepository() },
		"sqlite": func(t *testing.T) KVRepository { return newSQLiteRepo(t) },
	}

	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)

			_, err := repo.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, repo.Set(ctx, "metamarket_watchlist", []byte(`[{"cardId":"bew-001"}]`)))
			got, err := repo.Get(ctx, "metamarket_watchlist")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"cardId":"bew-001"}]`, string(got))

			// last write wins
			require.NoError(t, repo.Set(ctx, "metamarket_watchlist", []byte(`[]`)))
			got, err = repo.Get(ctx, "metamarket_watchlist")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(got))

			stats, err := repo.GetStats(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stats["total_keys"])

			require.NoError(t, repo.Delete(ctx, "metamarket_watchlist"))
			_, err = repo.Get(ctx, "metamarket_watchlist")
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting an absent key is fine
			assert.NoError(t, repo.Delete(ctx, "metamarket_watchlist"))
		})
	}
}

func TestSQLiteKVRepository_StoresMalformedValues(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	require.NoError(t, repo.Set(ctx, "metamarket_user", []byte("{not json")))
	got, err := repo.Get(ctx, "metamarket_user")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(got))
}

func TestMemoryKVRepository_Clear(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryKVRepository()
	require.NoError(t, repo.Set(ctx, "a", []byte("1")))
	require.NoError(t, repo.Set(ctx, "b", []byte("2")))

	repo.Clear()

	_, err := repo.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	stats, _ := repo.GetStats(ctx)
	assert.Equal(t, int64(0), stats["total_keys"])
}

func TestMemoryKVRepository_CopiesValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryKVRepository()
	value := []byte("abc")
	require.NoError(t, repo.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
