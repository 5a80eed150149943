package engine

import (
	"sort"

	"github.com/rivermark/cardroom/poker"
)

// FeeRule is the rake taken from a contested pot: nothing before the flop,
// nothing on pots under MinPotBigBlinds big blinds, otherwise a flat
// percentage of the total pot.
type FeeRule struct {
	Percent         int64
	MinPotBigBlinds int64
	BigBlind        int64
}

// Fee computes the rake for a pot that ended on the given street
func (r FeeRule) Fee(totalPot int64, endedOn HandStatus) int64 {
	if r.Percent <= 0 || endedOn <= Preflop {
		return 0
	}
	if totalPot < r.MinPotBigBlinds*r.BigBlind {
		return 0
	}
	return totalPot * r.Percent / 100
}

// Contender is a snapshot of one seat's hand-total contribution for pot
// distribution. Folded seats are included: their chips count toward pot
// size but they are never eligible winners.
type Contender struct {
	Position    int
	UserID      string
	Contributed int64
	AllIn       bool
	Folded      bool
	HoleCards   []poker.Card
}

// potLayer is one eligibility tier of the pot
type potLayer struct {
	amount   int64
	eligible []*Contender
}

// Distribute partitions the pot into all-in eligibility layers, evaluates
// each layer's contestants against the community cards and returns the
// per-seat payouts plus the fee taken. The fee is computed once against the
// total pot and subtracted proportionally from each layer. Within a layer
// ties split evenly; an odd remainder goes to the tied seat with the lowest
// position, so distribution is deterministic and conserves chips.
func Distribute(cs []*Contender, community []poker.Card, endedOn HandStatus, rule FeeRule) ([]Payout, int64) {
	var totalPot int64
	for _, c := range cs {
		totalPot += c.Contributed
	}
	if totalPot == 0 {
		return nil, 0
	}

	live := make([]*Contender, 0, len(cs))
	for _, c := range cs {
		if !c.Folded {
			live = append(live, c)
		}
	}
	if len(live) == 0 {
		return nil, 0
	}

	fee := rule.Fee(totalPot, endedOn)

	// Single survivor: the whole pot is uncontested, no evaluation.
	if len(live) == 1 {
		return []Payout{{Position: live[0].Position, UserID: live[0].UserID, Amount: totalPot - fee}}, fee
	}

	layers := buildLayers(cs, live)

	// Subtract the fee proportionally by layer size. The rounding remainder
	// lands on the last layer; any share a thin layer cannot cover rolls back
	// onto the layer before it, so the shares sum exactly to the fee and no
	// layer goes negative.
	shares := make([]int64, len(layers))
	var taken int64
	for i := range layers {
		shares[i] = fee * layers[i].amount / totalPot
		taken += shares[i]
	}
	if n := len(layers); n > 0 {
		shares[n-1] += fee - taken
	}
	for i := len(layers) - 1; i >= 0; i-- {
		if excess := shares[i] - layers[i].amount; excess > 0 && i > 0 {
			shares[i] -= excess
			shares[i-1] += excess
		}
		layers[i].amount -= shares[i]
	}

	values := make(map[int]poker.HandValue, len(live))
	for _, c := range live {
		values[c.Position] = poker.Evaluate(c.HoleCards, community)
	}

	payoutBySeat := make(map[int]*Payout)
	for _, layer := range layers {
		winners := layerWinners(layer, values)
		if len(winners) == 0 || layer.amount == 0 {
			continue
		}
		each := layer.amount / int64(len(winners))
		remainder := layer.amount % int64(len(winners))
		for i, w := range winners {
			amount := each
			if i == 0 {
				amount += remainder // winners are position-sorted
			}
			p, ok := payoutBySeat[w.Position]
			if !ok {
				p = &Payout{Position: w.Position, UserID: w.UserID}
				payoutBySeat[w.Position] = p
			}
			p.Amount += amount
		}
	}

	payouts := make([]Payout, 0, len(payoutBySeat))
	for _, p := range payoutBySeat {
		payouts = append(payouts, *p)
	}
	sort.Slice(payouts, func(i, j int) bool { return payouts[i].Position < payouts[j].Position })
	return payouts, fee
}

// buildLayers partitions contributions into one layer per distinct live
// contribution level, ascending. Eligibility for a layer requires a live
// contribution at or above its level, so an all-in seat contests only the
// layers it covered and a bet nobody matched sits alone in the top layer,
// returning to its owner. A layer whose contributors are all folded (no
// eligible seat) is merged into the previous layer so its chips are still
// contested.
func buildLayers(cs []*Contender, live []*Contender) []potLayer {
	levelSet := make(map[int64]bool)
	for _, c := range live {
		if c.Contributed > 0 {
			levelSet[c.Contributed] = true
		}
	}
	levels := make([]int64, 0, len(levelSet)+1)
	for lvl := range levelSet {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	// A folded seat may have wagered above every live level; that excess
	// needs a tier of its own so no chips are dropped. With no eligible
	// seat it merges into the contested layer below.
	var maxContribution int64
	for _, c := range cs {
		if c.Contributed > maxContribution {
			maxContribution = c.Contributed
		}
	}
	if len(levels) == 0 || maxContribution > levels[len(levels)-1] {
		levels = append(levels, maxContribution)
	}

	var layers []potLayer
	var prev int64
	for _, level := range levels {
		layer := potLayer{}
		for _, c := range cs {
			contribution := min64(c.Contributed, level) - min64(c.Contributed, prev)
			layer.amount += contribution
		}
		for _, c := range live {
			if c.Contributed >= level {
				layer.eligible = append(layer.eligible, c)
			}
		}
		if layer.amount == 0 {
			prev = level
			continue
		}
		if len(layer.eligible) == 0 && len(layers) > 0 {
			layers[len(layers)-1].amount += layer.amount
			prev = level
			continue
		}
		sort.Slice(layer.eligible, func(i, j int) bool {
			return layer.eligible[i].Position < layer.eligible[j].Position
		})
		layers = append(layers, layer)
		prev = level
	}
	return layers
}

// layerWinners returns the eligible seats holding the best hand for the
// layer, sorted by position. A lone eligible seat wins without evaluation
// (an uncalled bet returns to its owner).
func layerWinners(layer potLayer, values map[int]poker.HandValue) []*Contender {
	if len(layer.eligible) <= 1 {
		return layer.eligible
	}
	var winners []*Contender
	var best poker.HandValue
	for _, c := range layer.eligible {
		v := values[c.Position]
		switch {
		case len(winners) == 0 || poker.Compare(v, best) > 0:
			winners = []*Contender{c}
			best = v
		case poker.Compare(v, best) == 0:
			winners = append(winners, c)
		}
	}
	return winners
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
