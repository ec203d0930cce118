package session

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/wizard"
	"taxonomy-console/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// busySession returns a session with a submission in flight
func busySession(t *testing.T) *wizard.Session {
	t.Helper()
	s := wizard.NewSession(nil)
	require.NoError(t, s.Mutate(func(d *aggregates.Draft, _ *wizard.Controller, _ *wizard.AssociationState) error {
		d.SetChannel(entities.Channel{Name: "Test Channel", Code: "test-channel"})
		return nil
	}))
	_, err := s.BeginSubmission()
	require.NoError(t, err)
	return s
}

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	store := NewMemoryStore(time.Hour, time.Hour, nil)
	defer store.Close()
	ctx := context.Background()

	s := wizard.NewSession(nil)
	require.NoError(t, store.Save(ctx, s))
	assert.Equal(t, 1, store.Count(ctx))

	got, err := store.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, store.Delete(ctx, s.ID()))
	require.NoError(t, store.Delete(ctx, s.ID()))

	_, err = store.Get(ctx, s.ID())
	assert.True(t, stderrors.Is(err, errors.ErrSessionNotFound))
	assert.True(t, errors.IsNotFound(err))
}

func TestMemoryStore_GetDropsExpiredSession(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Hour, nil)
	defer store.Close()
	ctx := context.Background()

	idle := wizard.NewSession(nil)
	busy := busySession(t)
	require.NoError(t, store.Save(ctx, idle))
	require.NoError(t, store.Save(ctx, busy))
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err := store.Get(ctx, idle.ID())
	assert.True(t, stderrors.Is(err, errors.ErrSessionNotFound))

	got, err := store.Get(ctx, busy.ID())
	require.NoError(t, err)
	assert.Same(t, busy, got)
	assert.Equal(t, 1, store.Count(ctx))
}

func TestMemoryStore_EvictExpired(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Hour, nil)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, wizard.NewSession(nil)))
	require.NoError(t, store.Save(ctx, wizard.NewSession(nil)))
	require.NoError(t, store.Save(ctx, busySession(t)))

	assert.Equal(t, 0, store.evictExpired())

	store.now = func() time.Time { return time.Now().Add(time.Hour) }

	assert.Equal(t, 2, store.evictExpired())
	assert.Equal(t, 1, store.Count(ctx))
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(0, time.Millisecond, nil)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, wizard.NewSession(nil)))

	time.Sleep(5 * time.Millisecond)
	store.Close()

	assert.Equal(t, 1, store.Count(ctx))
}
