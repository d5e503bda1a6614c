package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"googly-bot/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	// Изменения копии не видны другим читателям.
	user.SetState(entity.StateProcessing)
	again, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, again.State)
}

func TestMemoryUserRepository_Update(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Update(ctx, 1, 10, func(u *entity.User) error {
		u.SetState(entity.StateAwaitingPhoto)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)
	require.Equal(t, int64(10), user.ChatID)

	got, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, got.State)
}

func TestMemoryUserRepository_UpdateErrorDiscardsChanges(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := repo.Update(ctx, 1, 10, func(u *entity.User) error {
		u.SetState(entity.StateProcessing)
		u.Processed = 5
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, got.State)
	require.Zero(t, got.Processed)
}

func TestMemoryUserRepository_ConcurrentUpdatesKeepEveryIncrement(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				// Два пользователя, чтобы инкременты одного и того же пользователя пересекались.
				_, err := repo.Update(ctx, id%2, id%2, func(u *entity.User) error {
					u.Processed++
					return nil
				})
				require.NoError(t, err)
			}
		}(int64(i))
	}
	wg.Wait()

	total, err := repo.TotalProcessed(ctx)
	require.NoError(t, err)
	require.Equal(t, workers*perWorker, total)
}

func TestMemoryUserRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, 1, 1)
	require.ErrorIs(t, err, context.Canceled)

	_, err = repo.Update(ctx, 1, 1, func(*entity.User) error { return nil })
	require.ErrorIs(t, err, context.Canceled)

	_, err = repo.TotalProcessed(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
