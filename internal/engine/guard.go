package engine

import "time"

// TurnExpired reports whether the currently-acting seat's turn window has
// elapsed. It is a pure read; the caller owns the hand's critical section
// and forces the fold through ApplyAction so that a timeout-driven fold and
// a voluntary fold share one code path. Two racing expiry checks observe
// the same version and only one conditional write can land, so exactly one
// fold is recorded.
func TurnExpired(hand *Hand, now time.Time) bool {
	if hand == nil || hand.Status >= Showdown {
		return false
	}
	if hand.ActingPos < 0 || hand.TurnExpiresAt == nil {
		return false
	}
	return !now.Before(*hand.TurnExpiresAt)
}

// ActingSeat returns the seat currently on the clock, or nil
func ActingSeat(hand *Hand, seats []*Seat) *Seat {
	if hand == nil || hand.ActingPos < 0 {
		return nil
	}
	return seatAt(seats, hand.ActingPos)
}

// ForcedFold builds the synthetic fold input the guard submits on behalf of
// a timed-out or disconnected seat.
func ForcedFold(userID string) ActionInput {
	return ActionInput{UserID: userID, Kind: Fold, Auto: true}
}
