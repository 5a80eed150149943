package engine

import (
	"math/rand"
	"sort"
	"time"

	"github.com/rivermark/cardroom/poker"
)

// DealResult reports the seat assignments of a freshly dealt hand
type DealResult struct {
	Hand          *Hand
	DealerPos     int
	SmallBlindPos int
	BigBlindPos   int
	FirstToActPos int
	InitialPot    int64 // posted blinds
}

// Deal starts a new hand: rotates the button, posts blinds, deals two hole
// cards per seat in seat order, then draws and stores all five community
// cards. The community cards are not revealed to clients until their street;
// RevealedCommunity handles that projection.
//
// prevDealerPos is the dealer of the previous hand, or -1 for the first hand
// at the table. Deal mutates the eligible seats (blind debits, hole cards)
// and increments the table's hand counter.
func Deal(table *Table, seats []*Seat, prevDealerPos int, rng *rand.Rand, now time.Time, turnWindow time.Duration, handID string) (*DealResult, error) {
	if !table.Active {
		return nil, ErrTableInactive
	}
	if table.HandCap > 0 && table.HandsPlayed >= table.HandCap {
		return nil, ErrTableInactive
	}

	eligible := make([]*Seat, 0, len(seats))
	for _, s := range seats {
		s.InHand = false
		if s.Active && !s.SittingOut && s.Stack > 0 {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) < 2 {
		return nil, ErrNotEnoughSeats
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Position < eligible[j].Position })

	for _, s := range eligible {
		s.InHand = true
		s.Folded = false
		s.AllIn = false
		s.CurrentBet = 0
		s.TotalBet = 0
		s.HoleCards = nil
	}

	// Button rotates to the next eligible seat clockwise from the previous
	// dealer; seat order starts at 0 when there is no previous hand.
	from := 0
	if prevDealerPos >= 0 {
		from = prevDealerPos + 1
	}
	dealer := nextEligibleFrom(eligible, from)

	var sb, bb *Seat
	if len(eligible) == 2 {
		// Heads-up: dealer posts the small blind and acts first preflop
		sb = dealer
		bb = nextEligibleFrom(eligible, dealer.Position+1)
	} else {
		sb = nextEligibleFrom(eligible, dealer.Position+1)
		bb = nextEligibleFrom(eligible, sb.Position+1)
	}

	postBlind(sb, table.SmallBlind)
	postBlind(bb, table.BigBlind)

	deck := poker.NewDeck(rng)
	for _, s := range eligible {
		s.HoleCards = append([]poker.Card(nil), deck.Deal(2)...)
	}
	community := append([]poker.Card(nil), deck.Deal(5)...)

	table.HandsPlayed++

	hand := &Hand{
		ID:            handID,
		TableID:       table.ID,
		HandNo:        table.HandsPlayed,
		Status:        Preflop,
		DealerPos:     dealer.Position,
		ActingPos:     -1,
		Community:     community,
		CurrentBet:    table.BigBlind,
		MinRaise:      table.BigBlind,
		LastRaiserPos: -1,
		Acted:         make(map[int]bool),
		StartedAt:     now,
	}

	// First to act preflop is the first seat clockwise from the big blind
	// that can still wager, which skips any seat a blind put all-in. When the
	// blinds leave nobody able to act, ActingPos stays -1 and the hand runs
	// out with no betting (see Runout).
	hand.ActingPos = hand.nextToAct(seats, bb.Position)
	if hand.ActingPos >= 0 {
		expiry := now.Add(turnWindow)
		hand.TurnExpiresAt = &expiry
	}

	return &DealResult{
		Hand:          hand,
		DealerPos:     dealer.Position,
		SmallBlindPos: sb.Position,
		BigBlindPos:   bb.Position,
		FirstToActPos: hand.ActingPos,
		InitialPot:    sb.CurrentBet + bb.CurrentBet,
	}, nil
}

// postBlind debits min(blind, stack); a seat that cannot cover the blind is
// all-in immediately.
func postBlind(s *Seat, blind int64) {
	posted := blind
	if s.Stack < posted {
		posted = s.Stack
	}
	s.Stack -= posted
	s.CurrentBet += posted
	s.TotalBet += posted
	if s.Stack == 0 {
		s.AllIn = true
	}
}

// nextEligibleFrom returns the first seat at or clockwise after the given
// position. The slice must be sorted by position and non-empty.
func nextEligibleFrom(eligible []*Seat, pos int) *Seat {
	for _, s := range eligible {
		if s.Position >= pos {
			return s
		}
	}
	return eligible[0]
}
