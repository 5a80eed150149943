package engine

import (
	"time"

	"github.com/rivermark/cardroom/poker"
)

// ActionInput is one player action entering the state machine. Auto marks a
// guard-forced fold (timeout or disconnect); it flows through the same path
// as a voluntary fold.
type ActionInput struct {
	UserID string
	Kind   ActionKind
	Amount int64
	Auto   bool
}

// ActionResult reports the state after an accepted action
type ActionResult struct {
	HandID       string
	Status       HandStatus
	NextToActPos int // -1 when nobody is to act
	Pot          int64
	PotDelta     int64
	Winners      []Payout
	WinningHand  string
	Fee          int64
	Record       ActionRecord
}

// ApplyAction validates and applies a single player action, advances turn
// order, and on betting-round completion advances the street or resolves
// the hand. It is the sole writer of hand and seat state during a hand: the
// caller must hold the hand's critical section and persist conditionally on
// the hand version. Either every effect of the action applies or none do.
func ApplyAction(table *Table, hand *Hand, seats []*Seat, in ActionInput, now time.Time, turnWindow time.Duration, rule FeeRule) (*ActionResult, error) {
	if hand == nil {
		return nil, ErrHandNotFound
	}
	if hand.Status >= Showdown {
		return nil, ErrHandComplete
	}

	seat := seatByUser(seats, in.UserID)
	if seat == nil || !seat.InHand {
		return nil, ErrNotSeated
	}
	if seat.Position != hand.ActingPos {
		return nil, &NotYourTurnError{GotPos: seat.Position, ExpectedPos: hand.ActingPos}
	}
	if hand.Acted[seat.Position] && seat.CurrentBet >= hand.CurrentBet {
		// Turn order should make this unreachable; reject rather than
		// silently ignore if the log and machine state ever disagree.
		return nil, ErrActionReplay
	}

	before := chipSum(hand, seats)
	potBefore := hand.Pot + roundBets(seats)

	if err := applySemantics(hand, seat, in); err != nil {
		return nil, err
	}
	hand.Acted[seat.Position] = true

	record := ActionRecord{
		HandID: hand.ID,
		UserID: in.UserID,
		Kind:   in.Kind,
		Amount: in.Amount,
		Round:  hand.Status,
		Auto:   in.Auto,
		At:     now,
	}

	result := &ActionResult{HandID: hand.ID, Record: record}

	if len(contenders(seats)) == 1 {
		// Everyone else folded: the survivor takes the pot uncontested.
		hand.collectBets(seats)
		resolve(hand, seats, rule, result)
	} else if next := hand.nextToAct(seats, seat.Position); next != -1 {
		hand.ActingPos = next
		expiry := now.Add(turnWindow)
		hand.TurnExpiresAt = &expiry
	} else {
		advanceStreet(table, hand, seats, now, turnWindow, rule, result)
	}

	result.Status = hand.Status
	result.NextToActPos = hand.ActingPos
	result.Pot = hand.Pot + roundBets(seats)
	result.PotDelta = result.Pot - potBefore
	if hand.Status == Complete {
		// Winnings left the pot, so the delta is against the settled state.
		result.PotDelta = 0
		result.Pot = 0
	}

	after := chipSum(hand, seats)
	if before-after != result.Fee {
		return nil, &ChipConservationError{HandID: hand.ID, Before: before, After: after, Fee: result.Fee}
	}

	return result, nil
}

// Runout settles a hand dealt with nobody left to act: the blinds put every
// contender all-in, so the board runs out with no betting and the pot is
// distributed at showdown. Like ApplyAction, the caller must hold the hand's
// critical section and persist conditionally on the hand version.
func Runout(table *Table, hand *Hand, seats []*Seat, rule FeeRule) (*ActionResult, error) {
	if hand == nil {
		return nil, ErrHandNotFound
	}
	if hand.Status >= Showdown {
		return nil, ErrHandComplete
	}
	if hand.ActingPos >= 0 {
		return nil, ErrHandInProgress
	}

	before := chipSum(hand, seats)
	result := &ActionResult{HandID: hand.ID}
	advanceStreet(table, hand, seats, time.Time{}, 0, rule, result)

	result.Status = hand.Status
	result.NextToActPos = hand.ActingPos
	after := chipSum(hand, seats)
	if before-after != result.Fee {
		return nil, &ChipConservationError{HandID: hand.ID, Before: before, After: after, Fee: result.Fee}
	}
	return result, nil
}

// applySemantics mutates the seat and round state for one action
func applySemantics(hand *Hand, seat *Seat, in ActionInput) error {
	switch in.Kind {
	case Fold:
		seat.Folded = true
		if hand.LastRaiserPos == seat.Position {
			hand.LastRaiserPos = -1
		}

	case Check:
		if seat.CurrentBet != hand.CurrentBet {
			return &IllegalActionError{Kind: Check, Reason: "there is a live bet to call"}
		}

	case Call:
		toCall := min64(hand.CurrentBet-seat.CurrentBet, seat.Stack)
		debit(seat, toCall)

	case Bet, Raise:
		if in.Amount <= hand.CurrentBet {
			return &IllegalActionError{Kind: in.Kind, Reason: "amount must exceed the current bet"}
		}
		need := in.Amount - seat.CurrentBet
		if need > seat.Stack {
			return &InsufficientChipsError{Need: need, Have: seat.Stack}
		}
		// Below-minimum raises are only legal as an all-in.
		if in.Amount < hand.CurrentBet+hand.MinRaise && need < seat.Stack {
			return &IllegalActionError{Kind: in.Kind, Reason: "raise below minimum"}
		}
		hand.MinRaise = in.Amount - hand.CurrentBet
		hand.CurrentBet = in.Amount
		hand.LastRaiserPos = seat.Position
		debit(seat, need)

	case AllInAction:
		debit(seat, seat.Stack)
		if seat.CurrentBet > hand.CurrentBet {
			hand.MinRaise = seat.CurrentBet - hand.CurrentBet
			hand.CurrentBet = seat.CurrentBet
			hand.LastRaiserPos = seat.Position
		}

	default:
		return &IllegalActionError{Kind: in.Kind, Reason: "unknown action"}
	}
	return nil
}

func debit(seat *Seat, amount int64) {
	seat.Stack -= amount
	seat.CurrentBet += amount
	seat.TotalBet += amount
	if seat.Stack == 0 {
		seat.AllIn = true
	}
}

// advanceStreet finishes the betting round and moves to the next street.
// When one or zero seats can still wager, no more chips can enter the pot,
// so the remaining streets are skipped straight through to showdown.
func advanceStreet(table *Table, hand *Hand, seats []*Seat, now time.Time, turnWindow time.Duration, rule FeeRule, result *ActionResult) {
	for {
		hand.collectBets(seats)
		hand.Status++
		hand.MinRaise = table.BigBlind

		if hand.Status == Showdown {
			resolve(hand, seats, rule, result)
			return
		}
		if len(actors(seats)) > 1 {
			break
		}
	}

	// First to act on the new street: the first seat clockwise from the
	// dealer that can still wager. Heads-up this is the non-dealer.
	hand.ActingPos = hand.nextToAct(seats, hand.DealerPos)
	expiry := now.Add(turnWindow)
	hand.TurnExpiresAt = &expiry
}

// resolve settles the hand: distributes the pot (with side-pot layers and
// the rake), credits winners, and marks the hand complete.
func resolve(hand *Hand, seats []*Seat, rule FeeRule, result *ActionResult) {
	in := handSeats(seats)
	cs := make([]*Contender, 0, len(in))
	for _, s := range in {
		cs = append(cs, &Contender{
			Position:    s.Position,
			UserID:      s.UserID,
			Contributed: s.TotalBet,
			AllIn:       s.AllIn,
			Folded:      s.Folded,
			HoleCards:   s.HoleCards,
		})
	}

	endedOn := hand.Status
	payouts, fee := Distribute(cs, hand.Community, endedOn, rule)
	for _, p := range payouts {
		seatAt(seats, p.Position).Stack += p.Amount
	}

	if live := contenders(seats); len(live) > 1 {
		var best poker.HandValue
		for _, s := range live {
			v := poker.Evaluate(s.HoleCards, hand.Community)
			if best.Category == 0 || poker.Compare(v, best) > 0 {
				best = v
			}
		}
		result.WinningHand = best.Category.String()
	}

	hand.Pot = 0
	hand.Status = Complete
	hand.ActingPos = -1
	hand.TurnExpiresAt = nil
	result.Winners = payouts
	result.Fee = fee
}

func chipSum(hand *Hand, seats []*Seat) int64 {
	total := hand.Pot
	for _, s := range handSeats(seats) {
		total += s.Stack + s.CurrentBet
	}
	return total
}

func roundBets(seats []*Seat) int64 {
	var total int64
	for _, s := range handSeats(seats) {
		total += s.CurrentBet
	}
	return total
}
