package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnExpired(t *testing.T) {
	t.Parallel()

	_, seats, res := dealt(t, 1, 1000, 1000)
	hand := res.Hand

	assert.False(t, TurnExpired(hand, testNow))
	assert.False(t, TurnExpired(hand, testNow.Add(testTurnWindow-time.Second)))
	assert.True(t, TurnExpired(hand, testNow.Add(testTurnWindow)))
	assert.True(t, TurnExpired(hand, testNow.Add(time.Minute)))

	// A completed hand never expires.
	table := testTable()
	act(t, table, hand, seats, "A", Fold, 0)
	assert.False(t, TurnExpired(hand, testNow.Add(time.Hour)))

	assert.False(t, TurnExpired(nil, testNow))
}

func TestForcedFoldFlowsThroughApplyAction(t *testing.T) {
	t.Parallel()

	table, seats, res := dealt(t, 1, 1000, 1000, 1000)
	hand := res.Hand

	acting := ActingSeat(hand, seats)
	require.NotNil(t, acting)
	require.Equal(t, "A", acting.UserID)

	expired := testNow.Add(testTurnWindow + time.Second)
	require.True(t, TurnExpired(hand, expired))

	out, err := ApplyAction(table, hand, seats, ForcedFold(acting.UserID), expired, testTurnWindow, FeeRule{})
	require.NoError(t, err)

	// Downstream it is an ordinary fold apart from the auto flag.
	assert.True(t, seats[0].Folded)
	assert.Equal(t, Fold, out.Record.Kind)
	assert.True(t, out.Record.Auto)
	assert.Equal(t, 1, out.NextToActPos)
}

func TestForcedFoldAfterRealActionIsNotYourTurn(t *testing.T) {
	t.Parallel()

	// A real action lands first; the late expiry check must observe the
	// new acting seat and reject the stale forced fold.
	table, seats, res := dealt(t, 1, 1000, 1000, 1000)
	hand := res.Hand

	act(t, table, hand, seats, "A", Call, 0)

	_, err := ApplyAction(table, hand, seats, ForcedFold("A"), testNow, testTurnWindow, FeeRule{})
	var nyt *NotYourTurnError
	require.ErrorAs(t, err, &nyt)
	assert.False(t, seats[0].Folded)
}
