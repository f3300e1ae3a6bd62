package accounts

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract exercises the behaviour every backend must share.
func runRepositoryContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("create then find", func(t *testing.T) {
		acc, err := repo.Create(ctx, "alice", "$argon2id$hash-a")
		require.NoError(t, err)
		assert.NotEmpty(t, acc.ID)
		assert.Equal(t, "alice", acc.Username)
		assert.False(t, acc.CreatedAt.IsZero())

		got, err := repo.Find(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
		assert.Equal(t, "$argon2id$hash-a", got.PasswordHash)
		assert.True(t, acc.CreatedAt.Equal(got.CreatedAt))

		ok, err := repo.Exists(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("duplicate leaves original intact", func(t *testing.T) {
		_, err := repo.Create(ctx, "alice", "$argon2id$hash-b")
		require.ErrorIs(t, err, common.ErrDuplicateUsername)

		got, err := repo.Find(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "$argon2id$hash-a", got.PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.Find(ctx, "ghost")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		ok, err := repo.Exists(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("usernames are case sensitive", func(t *testing.T) {
		_, err := repo.Create(ctx, "Alice", "$argon2id$hash-c")
		require.NoError(t, err)
	})

	t.Run("concurrent creates yield one winner", func(t *testing.T) {
		const workers = 16

		var (
			wg        sync.WaitGroup
			successes atomic.Int32
			dupes     atomic.Int32
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Create(ctx, "racer", "$argon2id$hash-r")
				switch {
				case err == nil:
					successes.Add(1)
				case assert.ErrorIs(t, err, common.ErrDuplicateUsername):
					dupes.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 1, successes.Load())
		assert.EqualValues(t, workers-1, dupes.Load())
	})
}
