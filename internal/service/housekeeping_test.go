package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsdeck/authd/internal/domain"
)

func TestHousekeepingSweepsExpiredSessions(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, st.Sessions().Create(ctx, &domain.Session{
		ID: "s1", UserID: "u1", Token: "stale", ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, st.Sessions().Create(ctx, &domain.Session{
		ID: "s2", UserID: "u1", Token: "fresh", ExpiresAt: now.Add(time.Hour),
	}))

	hk := NewHousekeepingService(st, slog.Default(), time.Hour)
	hk.cleanup()

	require.Equal(t, 1, st.sessionCount())
	_, err := st.Sessions().GetByToken(ctx, "fresh")
	require.NoError(t, err)
}

func TestHousekeepingStartStop(t *testing.T) {
	t.Parallel()

	hk := NewHousekeepingService(newMemStore(), slog.Default(), time.Hour)
	hk.Start()
	hk.Stop() // must not hang or panic
}

func TestHousekeepingDefaultsInterval(t *testing.T) {
	t.Parallel()

	hk := NewHousekeepingService(newMemStore(), slog.Default(), 0)
	require.Equal(t, time.Hour, hk.Interval)
}
