package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"enterprise-assistant-be/internal/repository/contract"
	"enterprise-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)

	s := &store.Session{ID: "s-1"}
	s.SetPending(store.CategoryITIssue, "VPN down", time.Now())
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	require.True(t, got.HasPending())
	assert.Equal(t, "VPN down", got.PendingAction.OriginalText)

	// Mutating a loaded copy does not leak into the store until saved.
	got.TakePending()
	again, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, again.HasPending())

	require.NoError(t, repo.Delete(ctx, "s-1"))
	_, err = repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
}

func TestSessionRepository_Expiry(t *testing.T) {
	repo := NewSessionRepository(20*time.Millisecond, time.Hour)
	require.NoError(t, repo.Save(context.Background(), &store.Session{ID: "s"}))

	time.Sleep(40 * time.Millisecond)
	_, err := repo.Get(context.Background(), "s")
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
}

func TestSessionRepository_LockSerialisesTurns(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := repo.Lock(ctx, "s-1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, repo.locks, "lock entries are released")
}

func TestSessionRepository_LockTimeout(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)

	unlock, err := repo.Lock(context.Background(), "s-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = repo.Lock(ctx, "s-1")
	assert.ErrorIs(t, err, contract.ErrLockTimeout)

	// Other sessions are independent.
	unlockOther, err := repo.Lock(context.Background(), "s-2")
	require.NoError(t, err)
	unlockOther()

	unlock()
	unlock() // idempotent

	unlock, err = repo.Lock(context.Background(), "s-1")
	require.NoError(t, err)
	unlock()
}
