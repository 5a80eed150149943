package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTurnWindow = 30 * time.Second

func testTable() *Table {
	return &Table{
		ID:         "t1",
		Name:       "main",
		SmallBlind: 5,
		BigBlind:   10,
		MaxSeats:   6,
		Active:     true,
	}
}

func testSeats(stacks ...int64) []*Seat {
	seats := make([]*Seat, len(stacks))
	for i, stack := range stacks {
		seats[i] = &Seat{
			TableID:  "t1",
			UserID:   string(rune('A' + i)),
			Position: i,
			Stack:    stack,
			Active:   true,
		}
	}
	return seats
}

func mustDeal(t *testing.T, table *Table, seats []*Seat, prevDealer int, seed int64) *DealResult {
	t.Helper()
	res, err := Deal(table, seats, prevDealer, rand.New(rand.NewSource(seed)), time.Now(), testTurnWindow, "h1")
	require.NoError(t, err)
	return res
}

func TestDealHeadsUpBlindAssignment(t *testing.T) {
	t.Parallel()

	// With seats [A,B] and dealer=A: A posts the small blind, B posts the
	// big blind, and A acts first preflop.
	table := testTable()
	seats := testSeats(1000, 1000)
	res := mustDeal(t, table, seats, 1, 1) // previous dealer was B, button rotates to A

	assert.Equal(t, 0, res.DealerPos)
	assert.Equal(t, 0, res.SmallBlindPos)
	assert.Equal(t, 1, res.BigBlindPos)
	assert.Equal(t, 0, res.FirstToActPos)
	assert.Equal(t, int64(995), seats[0].Stack)
	assert.Equal(t, int64(990), seats[1].Stack)
	assert.Equal(t, int64(15), res.InitialPot)
}

func TestDealThreeHandedAssignment(t *testing.T) {
	t.Parallel()

	table := testTable()
	seats := testSeats(1000, 1000, 1000)
	res := mustDeal(t, table, seats, -1, 1)

	assert.Equal(t, 0, res.DealerPos)
	assert.Equal(t, 1, res.SmallBlindPos)
	assert.Equal(t, 2, res.BigBlindPos)
	// Three-handed the dealer is first to act preflop.
	assert.Equal(t, 0, res.FirstToActPos)
}

func TestDealButtonRotatesPastEmptySeats(t *testing.T) {
	t.Parallel()

	table := testTable()
	seats := testSeats(1000, 1000, 1000, 1000)
	seats[1].Active = false // seat 1 left

	res := mustDeal(t, table, seats, 0, 1)
	assert.Equal(t, 2, res.DealerPos, "button should skip the vacated seat")
	assert.Equal(t, 3, res.SmallBlindPos)
	assert.Equal(t, 0, res.BigBlindPos)
	assert.Equal(t, 2, res.FirstToActPos)
}

func TestDealButtonWrapsAround(t *testing.T) {
	t.Parallel()

	table := testTable()
	seats := testSeats(1000, 1000, 1000)
	res := mustDeal(t, table, seats, 2, 1)
	assert.Equal(t, 0, res.DealerPos)
}

func TestDealShortStackBlindGoesAllIn(t *testing.T) {
	t.Parallel()

	table := testTable()
	seats := testSeats(1000, 1000, 4)
	res := mustDeal(t, table, seats, 2, 1)

	require.Equal(t, 2, res.BigBlindPos)
	bb := seats[2]
	assert.Equal(t, int64(0), bb.Stack)
	assert.Equal(t, int64(4), bb.CurrentBet)
	assert.True(t, bb.AllIn)
	assert.Equal(t, int64(9), res.InitialPot)
}

func TestDealHeadsUpAllInSmallBlindNeverHoldsTheTurn(t *testing.T) {
	t.Parallel()

	// Dealer A covers only 3 of the small blind and is all-in at the deal.
	// The turn must pass straight to B: an all-in seat on the clock could be
	// forced to fold its stake away by the turn timer.
	table := testTable()
	seats := testSeats(3, 1000)
	res := mustDeal(t, table, seats, 1, 1)

	require.Equal(t, 0, res.SmallBlindPos)
	require.True(t, seats[0].AllIn)
	assert.Equal(t, 1, res.FirstToActPos)
	assert.Equal(t, 1, res.Hand.ActingPos)
}

func TestDealBothBlindsAllInLeavesNoActor(t *testing.T) {
	t.Parallel()

	// Neither stack covers its blind, so nobody can bet. No acting seat, no
	// turn clock; the hand runs out instead.
	table := testTable()
	seats := testSeats(3, 8)
	res := mustDeal(t, table, seats, 1, 1)

	require.True(t, seats[0].AllIn)
	require.True(t, seats[1].AllIn)
	assert.Equal(t, -1, res.FirstToActPos)
	assert.Equal(t, -1, res.Hand.ActingPos)
	assert.Nil(t, res.Hand.TurnExpiresAt)
}

func TestDealHoleAndCommunityCards(t *testing.T) {
	t.Parallel()

	table := testTable()
	seats := testSeats(1000, 1000, 1000)
	res := mustDeal(t, table, seats, -1, 7)

	seen := make(map[string]bool)
	for _, s := range seats {
		require.Len(t, s.HoleCards, 2)
		for _, c := range s.HoleCards {
			require.False(t, seen[c.Code()], "duplicate card %s", c.Code())
			seen[c.Code()] = true
		}
	}
	require.Len(t, res.Hand.Community, 5)
	for _, c := range res.Hand.Community {
		require.False(t, seen[c.Code()], "duplicate card %s", c.Code())
		seen[c.Code()] = true
	}

	// Community cards stay hidden preflop.
	assert.Empty(t, res.Hand.RevealedCommunity())
}

func TestDealDeterministicUnderSeed(t *testing.T) {
	t.Parallel()

	table1, seats1 := testTable(), testSeats(1000, 1000, 1000)
	table2, seats2 := testTable(), testSeats(1000, 1000, 1000)
	res1 := mustDeal(t, table1, seats1, -1, 99)
	res2 := mustDeal(t, table2, seats2, -1, 99)

	for i := range seats1 {
		assert.Equal(t, seats1[i].HoleCards, seats2[i].HoleCards)
	}
	assert.Equal(t, res1.Hand.Community, res2.Hand.Community)
}

func TestDealRequiresTwoSeats(t *testing.T) {
	t.Parallel()

	table := testTable()
	seats := testSeats(1000, 1000)
	seats[1].SittingOut = true

	_, err := Deal(table, seats, -1, rand.New(rand.NewSource(1)), time.Now(), testTurnWindow, "h1")
	assert.ErrorIs(t, err, ErrNotEnoughSeats)
}

func TestDealSkipsBustedAndSittingOutSeats(t *testing.T) {
	t.Parallel()

	table := testTable()
	seats := testSeats(1000, 0, 1000, 1000)
	seats[3].SittingOut = true

	res := mustDeal(t, table, seats, -1, 1)
	assert.True(t, seats[0].InHand)
	assert.False(t, seats[1].InHand)
	assert.True(t, seats[2].InHand)
	assert.False(t, seats[3].InHand)
	assert.Equal(t, 0, res.DealerPos)
	assert.Equal(t, 0, res.SmallBlindPos, "heads-up after exclusions: dealer posts small blind")
}

func TestDealIncrementsHandCounterAndHonorsCap(t *testing.T) {
	t.Parallel()

	table := testTable()
	table.HandCap = 1
	seats := testSeats(1000, 1000)

	res := mustDeal(t, table, seats, -1, 1)
	assert.Equal(t, 1, table.HandsPlayed)
	assert.Equal(t, 1, res.Hand.HandNo)

	_, err := Deal(table, seats, res.DealerPos, rand.New(rand.NewSource(2)), time.Now(), testTurnWindow, "h2")
	assert.ErrorIs(t, err, ErrTableInactive)
}

func TestDealSetsTurnExpiry(t *testing.T) {
	t.Parallel()

	table := testTable()
	seats := testSeats(1000, 1000)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	res, err := Deal(table, seats, -1, rand.New(rand.NewSource(1)), now, testTurnWindow, "h1")
	require.NoError(t, err)
	require.NotNil(t, res.Hand.TurnExpiresAt)
	assert.Equal(t, now.Add(testTurnWindow), *res.Hand.TurnExpiresAt)
}
