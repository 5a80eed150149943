package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivermark/cardroom/internal/engine"
)

func TestSchedulerArmReplacesTimer(t *testing.T) {
	t.Parallel()
	svc, clock, _ := newTestService(t)
	ctx := context.Background()

	join(t, svc, "alice", "bob")
	_, err := svc.StartHand(ctx, "t1")
	require.NoError(t, err)

	// Re-arm with a later deadline; the original 30-second timer must not
	// fire.
	later := clock.Now().Add(60 * time.Second)
	svc.Scheduler().Arm("t1", &later)

	clock.Advance(31 * time.Second).MustWait(ctx)
	hand, err := svc.store.LatestHand(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, engine.Preflop, hand.Status)

	// The persisted deadline has passed by now, so the replacement timer
	// folds on fire. The mock clock cannot jump past the pending timer in
	// one call, so advance to its 60-second deadline and then beyond it.
	clock.Advance(29 * time.Second).MustWait(ctx)
	clock.Advance(1 * time.Second).MustWait(ctx)
	hand, err = svc.store.LatestHand(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, engine.Complete, hand.Status)
}

func TestSchedulerDisarm(t *testing.T) {
	t.Parallel()
	svc, clock, _ := newTestService(t)
	ctx := context.Background()

	join(t, svc, "alice", "bob")
	_, err := svc.StartHand(ctx, "t1")
	require.NoError(t, err)

	svc.Scheduler().Disarm("t1")

	clock.Advance(time.Hour).MustWait(ctx)
	hand, err := svc.store.LatestHand(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, engine.Preflop, hand.Status)

	// An explicit check still folds the expired actor
	res, err := svc.CheckTurnTimeout(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, res.Expired)
	assert.Equal(t, "alice", res.FoldedUserID)
}

func TestSchedulerArmNilDisarms(t *testing.T) {
	t.Parallel()
	svc, clock, _ := newTestService(t)
	ctx := context.Background()

	join(t, svc, "alice", "bob")
	_, err := svc.StartHand(ctx, "t1")
	require.NoError(t, err)

	svc.Scheduler().Arm("t1", nil)

	clock.Advance(time.Hour).MustWait(ctx)
	hand, err := svc.store.LatestHand(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, engine.Preflop, hand.Status)
}
