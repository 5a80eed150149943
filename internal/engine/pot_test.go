package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivermark/cardroom/poker"
)

func holding(t *testing.T, codes string) []poker.Card {
	t.Helper()
	cards, err := poker.ParseCards(codes)
	require.NoError(t, err)
	return cards
}

func payoutFor(payouts []Payout, pos int) int64 {
	for _, p := range payouts {
		if p.Position == pos {
			return p.Amount
		}
	}
	return 0
}

func noFee() FeeRule { return FeeRule{} }

func TestDistributeUnequalAllIns(t *testing.T) {
	t.Parallel()

	// P1 all-in for 100 with the best hand, P2 all-in for 300 with the
	// second best, P3 active for 300 with the worst. P1 wins the first
	// layer (100 x 3 = 300), P2 the second (200 x 2 = 400), and there is
	// no third layer to contest.
	community := holding(t, "2H 7D 9S JC 3C")
	cs := []*Contender{
		{Position: 0, UserID: "P1", Contributed: 100, AllIn: true, HoleCards: holding(t, "AH AD")}, // aces
		{Position: 1, UserID: "P2", Contributed: 300, AllIn: true, HoleCards: holding(t, "KH KD")}, // kings
		{Position: 2, UserID: "P3", Contributed: 300, HoleCards: holding(t, "QH QD")},              // queens
	}

	payouts, fee := Distribute(cs, community, Showdown, noFee())
	assert.Zero(t, fee)
	assert.Equal(t, int64(300), payoutFor(payouts, 0))
	assert.Equal(t, int64(400), payoutFor(payouts, 1))
	assert.Equal(t, int64(0), payoutFor(payouts, 2))

	var total int64
	for _, p := range payouts {
		total += p.Amount
	}
	assert.Equal(t, int64(700), total)
}

func TestDistributeShortAllInNeverWinsAboveItsLevel(t *testing.T) {
	t.Parallel()

	// Even with the nut hand, a 50-chip all-in can only win 50 from each
	// contributor. The rest goes to the next best hand.
	community := holding(t, "2H 7D 9S JC 3C")
	cs := []*Contender{
		{Position: 0, UserID: "P1", Contributed: 50, AllIn: true, HoleCards: holding(t, "AH AD")},
		{Position: 1, UserID: "P2", Contributed: 500, HoleCards: holding(t, "KH KD")},
		{Position: 2, UserID: "P3", Contributed: 500, HoleCards: holding(t, "QH QD")},
	}

	payouts, _ := Distribute(cs, community, Showdown, noFee())
	assert.Equal(t, int64(150), payoutFor(payouts, 0))
	assert.Equal(t, int64(900), payoutFor(payouts, 1))
	assert.Equal(t, int64(0), payoutFor(payouts, 2))
}

func TestDistributeFoldedChipsCountButNeverWin(t *testing.T) {
	t.Parallel()

	community := holding(t, "2H 7D 9S JC 3C")
	cs := []*Contender{
		{Position: 0, UserID: "P1", Contributed: 100, HoleCards: holding(t, "AH AD")},
		{Position: 1, UserID: "P2", Contributed: 100, HoleCards: holding(t, "KH KD")},
		{Position: 2, UserID: "P3", Contributed: 60, Folded: true, HoleCards: holding(t, "QH QD")},
	}

	payouts, _ := Distribute(cs, community, Showdown, noFee())
	assert.Equal(t, int64(260), payoutFor(payouts, 0))
	assert.Equal(t, int64(0), payoutFor(payouts, 2))
}

func TestDistributeSplitPotRemainderIsDeterministic(t *testing.T) {
	t.Parallel()

	// Board plays for both survivors; a folded seat's 33 chips make the
	// contested 233 split unevenly, and the odd chip must go to exactly one
	// seat (the lowest position).
	community := holding(t, "9C 8S 7H 6C 5D")
	cs := []*Contender{
		{Position: 1, UserID: "P1", Contributed: 100, HoleCards: holding(t, "AH 2D")},
		{Position: 3, UserID: "P2", Contributed: 100, HoleCards: holding(t, "KH 3D")},
		{Position: 4, UserID: "P3", Contributed: 33, Folded: true},
	}

	payouts, _ := Distribute(cs, community, Showdown, noFee())
	assert.Equal(t, int64(117), payoutFor(payouts, 1))
	assert.Equal(t, int64(116), payoutFor(payouts, 3))
}

func TestDistributeLayersTheCalledPortionWithoutAllIns(t *testing.T) {
	t.Parallel()

	// Nobody is all-in, but P2 put in one chip more than P1 matched. The
	// called 100 is contested by both seats (the board plays, so they
	// split it), and only the unmatched chip belongs to P2 alone.
	community := holding(t, "9C 8S 7H 6C 5D")
	cs := []*Contender{
		{Position: 1, UserID: "P1", Contributed: 50, HoleCards: holding(t, "AH 2D")},
		{Position: 3, UserID: "P2", Contributed: 51, HoleCards: holding(t, "KH 3D")},
	}

	payouts, _ := Distribute(cs, community, Showdown, noFee())
	assert.Equal(t, int64(50), payoutFor(payouts, 1))
	assert.Equal(t, int64(51), payoutFor(payouts, 3))
}

func TestDistributeSingleSurvivorSkipsEvaluation(t *testing.T) {
	t.Parallel()

	// The survivor has no hole cards recorded; distribution must not need
	// them when everyone else folded.
	cs := []*Contender{
		{Position: 0, UserID: "P1", Contributed: 40},
		{Position: 1, UserID: "P2", Contributed: 40, Folded: true},
		{Position: 2, UserID: "P3", Contributed: 10, Folded: true},
	}

	payouts, fee := Distribute(cs, nil, Flop, noFee())
	require.Len(t, payouts, 1)
	assert.Equal(t, int64(90), payouts[0].Amount)
	assert.Zero(t, fee)
}

func TestDistributeUncalledBetReturns(t *testing.T) {
	t.Parallel()

	// P2 called 200 of P1's 500 bet and went to showdown with the better
	// hand. P2 wins the contested 400; P1's uncalled 300 comes back.
	community := holding(t, "2H 7D 9S JC 3C")
	cs := []*Contender{
		{Position: 0, UserID: "P1", Contributed: 500, HoleCards: holding(t, "QH QD")},
		{Position: 1, UserID: "P2", Contributed: 200, AllIn: true, HoleCards: holding(t, "AH AD")},
	}

	payouts, _ := Distribute(cs, community, Showdown, noFee())
	assert.Equal(t, int64(300), payoutFor(payouts, 0))
	assert.Equal(t, int64(400), payoutFor(payouts, 1))
}

func TestFeeRule(t *testing.T) {
	t.Parallel()

	rule := FeeRule{Percent: 5, MinPotBigBlinds: 10, BigBlind: 10}

	assert.Zero(t, rule.Fee(1000, Preflop), "no rake before the flop")
	assert.Zero(t, rule.Fee(99, Showdown), "no rake under the pot floor")
	assert.Equal(t, int64(50), rule.Fee(1000, Showdown))
	assert.Zero(t, FeeRule{}.Fee(1000, Showdown), "zero percent means no rake")
}

func TestDistributeFeeComesOutProportionally(t *testing.T) {
	t.Parallel()

	community := holding(t, "2H 7D 9S JC 3C")
	rule := FeeRule{Percent: 10, MinPotBigBlinds: 2, BigBlind: 10}
	cs := []*Contender{
		{Position: 0, UserID: "P1", Contributed: 100, AllIn: true, HoleCards: holding(t, "AH AD")},
		{Position: 1, UserID: "P2", Contributed: 300, AllIn: true, HoleCards: holding(t, "KH KD")},
		{Position: 2, UserID: "P3", Contributed: 300, HoleCards: holding(t, "QH QD")},
	}

	payouts, fee := Distribute(cs, community, Showdown, rule)
	assert.Equal(t, int64(70), fee)
	// Layer one is 300 less 10% = 270; layer two is 400 less 10% = 360.
	assert.Equal(t, int64(270), payoutFor(payouts, 0))
	assert.Equal(t, int64(360), payoutFor(payouts, 1))

	var total int64
	for _, p := range payouts {
		total += p.Amount
	}
	assert.Equal(t, int64(700)-fee, total, "no chips created or destroyed")
}

func TestDistributeFeeNeverOverdrawsAThinLayer(t *testing.T) {
	t.Parallel()

	// A ladder of all-ins leaves a one-chip top layer. Its proportional fee
	// share rounds to more than the layer holds; the excess must roll onto
	// the layer below instead of paying the top seat a negative amount.
	community := holding(t, "2H 7D 9S 4C 3C")
	rule := FeeRule{Percent: 10, MinPotBigBlinds: 2, BigBlind: 10}
	cs := []*Contender{
		{Position: 0, UserID: "P1", Contributed: 250, AllIn: true, HoleCards: holding(t, "AH AD")},
		{Position: 1, UserID: "P2", Contributed: 500, AllIn: true, HoleCards: holding(t, "KH KD")},
		{Position: 2, UserID: "P3", Contributed: 750, AllIn: true, HoleCards: holding(t, "QH QD")},
		{Position: 3, UserID: "P4", Contributed: 751, HoleCards: holding(t, "JH JD")},
	}

	// Pot 2251, fee 225. Layers are 1000/750/500/1; the floors 99/74/49/0
	// leave a remainder of 3, which the one-chip layer cannot absorb.
	payouts, fee := Distribute(cs, community, Showdown, rule)
	assert.Equal(t, int64(225), fee)
	assert.Equal(t, int64(901), payoutFor(payouts, 0))
	assert.Equal(t, int64(676), payoutFor(payouts, 1))
	assert.Equal(t, int64(449), payoutFor(payouts, 2))
	assert.Equal(t, int64(0), payoutFor(payouts, 3))

	var total int64
	for _, p := range payouts {
		require.GreaterOrEqual(t, p.Amount, int64(0))
		total += p.Amount
	}
	assert.Equal(t, int64(2251)-fee, total, "no chips created or destroyed")
}

func TestDistributeThreeWayTieSplitsLayer(t *testing.T) {
	t.Parallel()

	community := holding(t, "9C 8S 7H 6C 5D")
	cs := []*Contender{
		{Position: 0, UserID: "P1", Contributed: 100, HoleCards: holding(t, "AH 2D")},
		{Position: 1, UserID: "P2", Contributed: 100, HoleCards: holding(t, "KH 3D")},
		{Position: 2, UserID: "P3", Contributed: 100, HoleCards: holding(t, "QH 4D")},
	}

	payouts, _ := Distribute(cs, community, Showdown, noFee())
	assert.Equal(t, int64(100), payoutFor(payouts, 0))
	assert.Equal(t, int64(100), payoutFor(payouts, 1))
	assert.Equal(t, int64(100), payoutFor(payouts, 2))
}
