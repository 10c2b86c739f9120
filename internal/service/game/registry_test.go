package game

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavramlab/kavram-api/internal/domain"
)

func TestEvictIdle(t *testing.T) {
	ctx := context.Background()

	t.Run("removes sessions idle past the TTL", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		base := time.Now()
		svc.now = func() time.Time { return base }

		idle, err := svc.StartFromText(ctx, "material", StartOptions{})
		require.NoError(t, err)
		active, err := svc.StartFromText(ctx, "material", StartOptions{})
		require.NoError(t, err)

		// An hour and a minute pass; only one session is touched again.
		svc.now = func() time.Time { return base.Add(61 * time.Minute) }
		_, err = svc.State(ctx, active.Session.SessionID)
		require.NoError(t, err)

		assert.Equal(t, 1, svc.evictIdle())

		_, err = svc.State(ctx, idle.Session.SessionID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = svc.State(ctx, active.Session.SessionID)
		assert.NoError(t, err)
	})

	t.Run("keeps recently active sessions", func(t *testing.T) {
		svc, _ := newTestService(t, nil)

		snap, err := svc.StartFromText(ctx, "material", StartOptions{})
		require.NoError(t, err)

		assert.Equal(t, 0, svc.evictIdle())
		_, err = svc.State(ctx, snap.Session.SessionID)
		assert.NoError(t, err)
	})
}

func TestPrefetchBookkeeping(t *testing.T) {
	ctx := context.Background()

	t.Run("take requires the matching round", func(t *testing.T) {
		svc, _ := newTestService(t, nil)

		snap, err := svc.StartFromText(ctx, "material", StartOptions{})
		require.NoError(t, err)
		sessionID := snap.Session.SessionID
		entry := entryOf(t, svc, sessionID)
		roundID, err := entry.session.CurrentRoundID()
		require.NoError(t, err)

		require.True(t, svc.offerPrefetched(sessionID, entry, roundID, setB))

		// A take against the wrong round leaves the stash alone.
		assert.Nil(t, svc.takePrefetched(sessionID, uuid.New()))
		assert.Equal(t, setB, svc.takePrefetched(sessionID, roundID))

		// The stash is consumed exactly once.
		assert.Nil(t, svc.takePrefetched(sessionID, roundID))
	})

	t.Run("offer is rejected after the session ends", func(t *testing.T) {
		svc, _ := newTestService(t, nil)

		snap, err := svc.StartFromText(ctx, "material", StartOptions{})
		require.NoError(t, err)
		sessionID := snap.Session.SessionID
		entry := entryOf(t, svc, sessionID)
		roundID, err := entry.session.CurrentRoundID()
		require.NoError(t, err)

		require.NoError(t, svc.End(ctx, sessionID))

		assert.False(t, svc.offerPrefetched(sessionID, entry, roundID, setB))
	})

	t.Run("offer is rejected when the round moved on", func(t *testing.T) {
		svc, _ := newTestService(t, func(d *testDeps) {
			d.generator = &stubGenerator{
				fn: func(call int, _ context.Context, _ string, _ int) ([]domain.Pair, error) {
					if call == 1 {
						return setOne, nil
					}
					return setB, nil
				},
			}
		})

		snap, err := svc.StartFromText(ctx, "material", StartOptions{})
		require.NoError(t, err)
		sessionID := snap.Session.SessionID
		entry := entryOf(t, svc, sessionID)
		completedRound, err := entry.session.CurrentRoundID()
		require.NoError(t, err)

		winRound(t, svc, sessionID)
		_, err = svc.NewRound(ctx, sessionID)
		require.NoError(t, err)

		assert.False(t, svc.offerPrefetched(sessionID, entry, completedRound, setA))
		assert.Nil(t, prefetchedPairs(svc, sessionID))
	})

	t.Run("offer is rejected for a replaced entry", func(t *testing.T) {
		svc, _ := newTestService(t, nil)

		snap, err := svc.StartFromText(ctx, "material", StartOptions{})
		require.NoError(t, err)
		sessionID := snap.Session.SessionID
		entry := entryOf(t, svc, sessionID)
		roundID, err := entry.session.CurrentRoundID()
		require.NoError(t, err)

		svc.mu.Lock()
		svc.sessions[sessionID] = &sessionEntry{
			session:    entry.session,
			lastActive: svc.now(),
		}
		svc.mu.Unlock()

		assert.False(t, svc.offerPrefetched(sessionID, entry, roundID, setB))
	})
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	svc, _ := newTestService(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunJanitor(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop after context cancellation")
	}
}
