package engine

import (
	"errors"
	"fmt"
)

// Validation errors are returned to the caller with nothing applied.
var (
	ErrHandNotFound   = errors.New("hand not found")
	ErrTableNotFound  = errors.New("table not found")
	ErrTableFull      = errors.New("table full")
	ErrTableInactive  = errors.New("table inactive")
	ErrNotSeated      = errors.New("user not seated at table")
	ErrHandComplete   = errors.New("hand already complete")
	ErrNotEnoughSeats = errors.New("need at least two active seats to deal")
	ErrHandInProgress = errors.New("a hand is already in progress")
	ErrSeatTaken      = errors.New("seat position already occupied")
	ErrActionReplay   = errors.New("action already recorded for this round")
)

// NotYourTurnError reports the seat that tried to act against the seat the
// machine expected, for client diagnostics.
type NotYourTurnError struct {
	GotPos      int
	ExpectedPos int
}

func (e *NotYourTurnError) Error() string {
	return fmt.Sprintf("not your turn: seat %d acted, seat %d expected", e.GotPos, e.ExpectedPos)
}

// InsufficientChipsError reports a bet or raise beyond the seat's stack
type InsufficientChipsError struct {
	Need int64
	Have int64
}

func (e *InsufficientChipsError) Error() string {
	return fmt.Sprintf("insufficient chips: need %d, have %d", e.Need, e.Have)
}

// IllegalActionError covers actions that are well-formed but not legal in
// the current state, such as checking a live bet.
type IllegalActionError struct {
	Kind   ActionKind
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal %s: %s", e.Kind, e.Reason)
}

// ErrStaleState is a concurrency conflict: the hand changed between read
// and conditional write. Callers retry a bounded number of times.
var ErrStaleState = errors.New("stale hand state, retry")

// ChipConservationError is an invariant violation: chips were created or
// destroyed by a transition. Fatal to the hand's resolution and must be
// logged for manual reconciliation, never swallowed.
type ChipConservationError struct {
	HandID string
	Before int64
	After  int64
	Fee    int64
}

func (e *ChipConservationError) Error() string {
	return fmt.Sprintf("chip conservation violated on hand %s: %d before, %d after, fee %d",
		e.HandID, e.Before, e.After, e.Fee)
}
