// Package store persists tables, seats, hands, the action log and fee
// records. Money-mutating writes go through transitions conditioned on the
// hand's version number, the optimistic half of the engine's single-writer
// rule; plain reads may be served from any replica.
package store

import (
	"context"
	"errors"

	"github.com/rivermark/cardroom/internal/engine"
)

// ErrNotFound is returned for missing rows
var ErrNotFound = errors.New("not found")

// Transition is one atomic state change to a hand: the new hand snapshot
// plus every row it touches. ExpectedVersion is the version the writer read
// the hand at; the write fails with engine.ErrStaleState if it moved.
type Transition struct {
	ExpectedVersion int64
	Hand            *engine.Hand
	Seats           []*engine.Seat
	Action          *engine.ActionRecord
	Fee             *engine.FeeRecord
	Table           *engine.Table // set when the table row changed too
}

// Store is the persistence boundary for the engine
type Store interface {
	CreateTable(ctx context.Context, t *engine.Table) error
	GetTable(ctx context.Context, id string) (*engine.Table, error)
	UpdateTable(ctx context.Context, t *engine.Table) error
	ListTables(ctx context.Context) ([]*engine.Table, error)

	UpsertSeat(ctx context.Context, s *engine.Seat) error
	SeatsByTable(ctx context.Context, tableID string) ([]*engine.Seat, error)

	// BeginHand atomically inserts the dealt hand, writes the blind debits
	// and hole cards, and bumps the table's hand counter.
	BeginHand(ctx context.Context, t *engine.Table, h *engine.Hand, seats []*engine.Seat) error
	GetHand(ctx context.Context, id string) (*engine.Hand, error)
	// LatestHand returns the most recent hand for a table, or ErrNotFound.
	LatestHand(ctx context.Context, tableID string) (*engine.Hand, error)
	// ApplyTransition commits one action's effects, or nothing at all.
	ApplyTransition(ctx context.Context, tr *Transition) error

	ActionsByHand(ctx context.Context, handID string) ([]engine.ActionRecord, error)
	FeesByTable(ctx context.Context, tableID string) ([]engine.FeeRecord, error)

	Close() error
}
