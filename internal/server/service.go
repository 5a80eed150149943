package server

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/rivermark/cardroom/internal/engine"
	"github.com/rivermark/cardroom/internal/store"
	"github.com/rivermark/cardroom/poker"
)

// ErrTryAgain is returned when a write kept losing the version race and the
// client should re-read state and resubmit.
var ErrTryAgain = errors.New("state changed, try again")

// staleRetries bounds how often a write is retried after losing the
// version race before the caller is told to resubmit.
const staleRetries = 3

// Notifier receives state-change messages for connected clients. The
// WebSocket server implements it; tests substitute a recorder.
type Notifier interface {
	Broadcast(tableID string, msg *Message)
	ToUser(userID string, msg *Message) error
}

// TimeoutResult reports the outcome of a turn-clock check
type TimeoutResult struct {
	Expired      bool
	FoldedUserID string
	Result       *engine.ActionResult
}

type tableRuntime struct {
	mu     sync.Mutex
	rule   engine.FeeRule
	window time.Duration
}

// Service owns the game flow for every configured table: seating, dealing,
// action handling, turn timeouts and deferred leaves. All state lives in the
// store; the service holds only per-table locks and fee/timeout settings.
// One mutex per table serializes writers in-process, and the hand's version
// column catches any writer the lock cannot see.
type Service struct {
	store    store.Store
	clock    quartz.Clock
	logger   *log.Logger
	notifier Notifier

	rngMu sync.Mutex
	rng   *rand.Rand

	mu     sync.Mutex
	tables map[string]*tableRuntime

	scheduler *TurnScheduler
}

// NewService creates a game service backed by the given store
func NewService(st store.Store, clock quartz.Clock, logger *log.Logger, seed int64) *Service {
	s := &Service{
		store:  st,
		clock:  clock,
		logger: logger.WithPrefix("service"),
		rng:    rand.New(rand.NewSource(seed)),
		tables: make(map[string]*tableRuntime),
	}
	s.scheduler = NewTurnScheduler(s, clock, logger)
	return s
}

// SetNotifier attaches the client notification sink
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Scheduler returns the turn-clock scheduler
func (s *Service) Scheduler() *TurnScheduler {
	return s.scheduler
}

// Bootstrap ensures a table row exists for every configured table and
// registers its fee rule and turn clock. Existing rows keep their persisted
// counters; blinds and caps follow the configuration.
func (s *Service) Bootstrap(ctx context.Context, cfg *ServerConfig) error {
	for _, tc := range cfg.Tables {
		table, err := s.store.GetTable(ctx, tc.Name)
		switch {
		case errors.Is(err, store.ErrNotFound):
			table = &engine.Table{
				ID:         tc.Name,
				Name:       tc.Name,
				SmallBlind: tc.SmallBlind,
				BigBlind:   tc.BigBlind,
				MaxSeats:   tc.MaxSeats,
				HandCap:    tc.HandCap,
				Active:     true,
			}
			if err := s.store.CreateTable(ctx, table); err != nil {
				return err
			}
			s.logger.Info("Created table", "table", tc.Name, "blinds", tc.SmallBlind, "bigBlind", tc.BigBlind)
		case err != nil:
			return err
		default:
			table.SmallBlind = tc.SmallBlind
			table.BigBlind = tc.BigBlind
			table.MaxSeats = tc.MaxSeats
			table.HandCap = tc.HandCap
			if err := s.store.UpdateTable(ctx, table); err != nil {
				return err
			}
		}

		s.mu.Lock()
		s.tables[tc.Name] = &tableRuntime{
			rule: engine.FeeRule{
				Percent:         int64(tc.RakePercent),
				MinPotBigBlinds: int64(tc.RakeMinPotBB),
				BigBlind:        tc.BigBlind,
			},
			window: tc.TurnTimeout(),
		}
		s.mu.Unlock()
	}
	return nil
}

// runtime returns the per-table lock and settings, creating a default
// runtime for tables that exist in the store but not the configuration.
func (s *Service) runtime(tableID string) *tableRuntime {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tables[tableID]
	if !ok {
		rt = &tableRuntime{window: 30 * time.Second}
		s.tables[tableID] = rt
	}
	return rt
}

// ListTables returns summaries of every table
func (s *Service) ListTables(ctx context.Context) ([]TableInfo, error) {
	tables, err := s.store.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]TableInfo, 0, len(tables))
	for _, t := range tables {
		seats, err := s.store.SeatsByTable(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		infos = append(infos, TableInfo{
			ID:         t.ID,
			Name:       t.Name,
			SeatCount:  len(seats),
			MaxSeats:   t.MaxSeats,
			SmallBlind: t.SmallBlind,
			BigBlind:   t.BigBlind,
			Active:     t.Active,
		})
	}
	return infos, nil
}

// JoinTable seats a user with the given buy-in. position < 0 picks the
// lowest free seat. Joining mid-hand is allowed; the seat is dealt in from
// the next hand.
func (s *Service) JoinTable(ctx context.Context, tableID, userID string, buyIn int64, position int) (*engine.Seat, error) {
	rt := s.runtime(tableID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if !table.Active {
		return nil, engine.ErrTableInactive
	}
	if buyIn <= 0 {
		return nil, &engine.IllegalActionError{Reason: "buy-in must be positive"}
	}

	seats, err := s.store.SeatsByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	taken := make(map[int]bool, len(seats))
	for _, seat := range seats {
		if seat.UserID == userID {
			return nil, engine.ErrSeatTaken
		}
		taken[seat.Position] = true
	}
	if len(seats) >= table.MaxSeats {
		return nil, engine.ErrTableFull
	}

	if position < 0 {
		for p := 0; p < table.MaxSeats; p++ {
			if !taken[p] {
				position = p
				break
			}
		}
	}
	if position < 0 || position >= table.MaxSeats {
		return nil, &engine.IllegalActionError{Reason: "no such seat"}
	}
	if taken[position] {
		return nil, engine.ErrSeatTaken
	}

	seat := &engine.Seat{
		TableID:  tableID,
		UserID:   userID,
		Position: position,
		Stack:    buyIn,
		Active:   true,
	}
	if err := s.store.UpsertSeat(ctx, seat); err != nil {
		return nil, err
	}

	s.logger.Info("Player seated", "table", tableID, "user", userID, "position", position, "buyIn", buyIn)
	return seat, nil
}

// LeaveTable removes a user from a table. Between hands the seat is freed
// immediately and the stack cashed out. Mid-hand the seat is marked leaving
// and sat out; if it is the leaver's turn their hand is folded at once, and
// the seat is freed when the hand completes.
func (s *Service) LeaveTable(ctx context.Context, tableID, userID string) (*TableLeftData, error) {
	rt := s.runtime(tableID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	seats, err := s.store.SeatsByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	var seat *engine.Seat
	for _, candidate := range seats {
		if candidate.UserID == userID {
			seat = candidate
			break
		}
	}
	if seat == nil {
		return nil, engine.ErrNotSeated
	}

	hand, err := s.store.LatestHand(ctx, tableID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	handLive := hand != nil && hand.Status < engine.Showdown
	if handLive && seat.InHand && !seat.Folded {
		seat.SittingOut = true
		seat.Leaving = true
		if err := s.store.UpsertSeat(ctx, seat); err != nil {
			return nil, err
		}
		if hand.ActingPos == seat.Position {
			if _, err := s.applyLocked(ctx, rt, table, engine.ForcedFold(userID)); err != nil {
				return nil, err
			}
		}
		s.logger.Info("Leave deferred to hand end", "table", tableID, "user", userID)
		return &TableLeftData{TableID: tableID, Deferred: true}, nil
	}

	stack := seat.Stack
	seat.Active = false
	seat.InHand = false
	seat.Leaving = false
	if err := s.store.UpsertSeat(ctx, seat); err != nil {
		return nil, err
	}

	s.logger.Info("Player left", "table", tableID, "user", userID, "stack", stack)
	return &TableLeftData{TableID: tableID, Stack: stack}, nil
}

// StartHand deals the next hand at a table. The previous hand must have
// completed.
func (s *Service) StartHand(ctx context.Context, tableID string) (*engine.DealResult, error) {
	rt := s.runtime(tableID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	prevDealer := -1
	prev, err := s.store.LatestHand(ctx, tableID)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		if prev.Status != engine.Complete {
			return nil, engine.ErrHandInProgress
		}
		prevDealer = prev.DealerPos
	}

	seats, err := s.store.SeatsByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	rng := rand.New(rand.NewSource(s.rng.Int63()))
	s.rngMu.Unlock()

	res, err := engine.Deal(table, seats, prevDealer, rng, s.clock.Now(), rt.window, uuid.NewString())
	if err != nil {
		return nil, err
	}

	if err := s.store.BeginHand(ctx, table, res.Hand, seats); err != nil {
		return nil, err
	}

	s.scheduler.Arm(tableID, res.Hand.TurnExpiresAt)
	s.announceHandStart(table, res, seats)
	s.logger.Info("Hand dealt", "table", tableID, "hand", res.Hand.ID, "no", res.Hand.HandNo,
		"dealer", res.DealerPos, "firstToAct", res.FirstToActPos, "pot", res.InitialPot)

	if res.Hand.ActingPos < 0 {
		// The blinds put every contender all-in: no betting can happen, so
		// the board runs out and the hand settles as part of the deal.
		if err := s.settleRunout(ctx, rt, table, res.Hand, seats); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// settleRunout finishes a hand that was dealt with nobody able to act and
// commits the settled state. The caller holds the table lock.
func (s *Service) settleRunout(ctx context.Context, rt *tableRuntime, table *engine.Table, hand *engine.Hand, seats []*engine.Seat) error {
	res, err := engine.Runout(table, hand, seats, rt.rule)
	if err != nil {
		return err
	}

	tr := &store.Transition{ExpectedVersion: hand.Version, Hand: hand, Seats: seats}
	if res.Fee > 0 {
		tr.Fee = &engine.FeeRecord{
			HandID:    hand.ID,
			TableID:   table.ID,
			Amount:    res.Fee,
			PotSize:   settledPot(res),
			BigBlind:  table.BigBlind,
			CreatedAt: s.clock.Now(),
		}
	}
	if table.HandCap > 0 && table.HandsPlayed >= table.HandCap {
		table.Active = false
		tr.Table = table
	}
	if err := s.store.ApplyTransition(ctx, tr); err != nil {
		return err
	}

	s.logger.Info("Blinds left no actor, hand ran out", "table", table.ID, "hand", hand.ID)
	s.finishHand(ctx, table, hand, seats, res)
	return nil
}

// PerformAction applies one player action to the table's current hand
func (s *Service) PerformAction(ctx context.Context, tableID, userID string, kind engine.ActionKind, amount int64) (*engine.ActionResult, error) {
	rt := s.runtime(tableID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return s.applyLocked(ctx, rt, table, engine.ActionInput{UserID: userID, Kind: kind, Amount: amount})
}

// CheckTurnTimeout folds the acting seat if its turn clock has expired. It
// is idempotent: a check that races a real action or another check simply
// reports no expiry.
func (s *Service) CheckTurnTimeout(ctx context.Context, tableID string) (*TimeoutResult, error) {
	rt := s.runtime(tableID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	hand, err := s.store.LatestHand(ctx, tableID)
	if errors.Is(err, store.ErrNotFound) {
		return &TimeoutResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !engine.TurnExpired(hand, s.clock.Now()) {
		return &TimeoutResult{}, nil
	}

	seats, err := s.store.SeatsByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	acting := engine.ActingSeat(hand, seats)
	if acting == nil {
		return &TimeoutResult{}, nil
	}

	res, err := s.applyLocked(ctx, rt, table, engine.ForcedFold(acting.UserID))
	if err != nil {
		var notTurn *engine.NotYourTurnError
		if errors.As(err, &notTurn) || errors.Is(err, engine.ErrHandComplete) {
			// Lost the race to a real action; nothing to do.
			return &TimeoutResult{}, nil
		}
		return nil, err
	}

	s.logger.Info("Turn expired, folded", "table", tableID, "hand", hand.ID, "user", acting.UserID)
	s.broadcast(tableID, MessageTypeTurnTimeout, TurnTimeoutData{
		TableID: tableID,
		HandID:  hand.ID,
		UserID:  acting.UserID,
		Action:  engine.Fold.String(),
	})
	return &TimeoutResult{Expired: true, FoldedUserID: acting.UserID, Result: res}, nil
}

// HandleDisconnect sits a user out so they are skipped from the next deal,
// and folds their hand immediately if they are on the clock.
func (s *Service) HandleDisconnect(ctx context.Context, tableID, userID string) error {
	rt := s.runtime(tableID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	seats, err := s.store.SeatsByTable(ctx, tableID)
	if err != nil {
		return err
	}

	var seat *engine.Seat
	for _, candidate := range seats {
		if candidate.UserID == userID {
			seat = candidate
			break
		}
	}
	if seat == nil {
		return engine.ErrNotSeated
	}

	seat.SittingOut = true
	if err := s.store.UpsertSeat(ctx, seat); err != nil {
		return err
	}

	hand, err := s.store.LatestHand(ctx, tableID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if hand.Status < engine.Showdown && hand.ActingPos == seat.Position && seat.InHand && !seat.Folded {
		if _, err := s.applyLocked(ctx, rt, table, engine.ForcedFold(userID)); err != nil {
			return err
		}
	}

	s.logger.Info("Player disconnected, sitting out", "table", tableID, "user", userID)
	return nil
}

// SitIn clears a sitting-out flag so the seat is dealt in again
func (s *Service) SitIn(ctx context.Context, tableID, userID string) error {
	rt := s.runtime(tableID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	seats, err := s.store.SeatsByTable(ctx, tableID)
	if err != nil {
		return err
	}
	for _, seat := range seats {
		if seat.UserID == userID {
			seat.SittingOut = false
			return s.store.UpsertSeat(ctx, seat)
		}
	}
	return engine.ErrNotSeated
}

// applyLocked runs one action through the state machine and commits it,
// retrying a bounded number of times when the conditional write loses the
// version race. The caller holds the table lock.
func (s *Service) applyLocked(ctx context.Context, rt *tableRuntime, table *engine.Table, in engine.ActionInput) (*engine.ActionResult, error) {
	for attempt := 0; attempt < staleRetries; attempt++ {
		hand, err := s.store.LatestHand(ctx, table.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, engine.ErrHandNotFound
		}
		if err != nil {
			return nil, err
		}
		seats, err := s.store.SeatsByTable(ctx, table.ID)
		if err != nil {
			return nil, err
		}

		expected := hand.Version
		res, err := engine.ApplyAction(table, hand, seats, in, s.clock.Now(), rt.window, rt.rule)
		if err != nil {
			var conservation *engine.ChipConservationError
			if errors.As(err, &conservation) {
				// Nothing was persisted, but the machine and the stored state
				// disagree about the chip total. That needs an operator.
				s.logger.Error("Chip total mismatch, action rejected",
					"table", table.ID, "hand", hand.ID, "user", in.UserID,
					"before", conservation.Before, "after", conservation.After, "fee", conservation.Fee)
			}
			return nil, err
		}

		tr := &store.Transition{
			ExpectedVersion: expected,
			Hand:            hand,
			Seats:           seats,
			Action:          &res.Record,
		}
		if res.Status == engine.Complete {
			if res.Fee > 0 {
				tr.Fee = &engine.FeeRecord{
					HandID:    hand.ID,
					TableID:   table.ID,
					Amount:    res.Fee,
					PotSize:   settledPot(res),
					BigBlind:  table.BigBlind,
					CreatedAt: s.clock.Now(),
				}
			}
			if table.HandCap > 0 && table.HandsPlayed >= table.HandCap {
				table.Active = false
				tr.Table = table
			}
		}

		err = s.store.ApplyTransition(ctx, tr)
		if errors.Is(err, engine.ErrStaleState) {
			s.logger.Warn("Lost version race, retrying", "table", table.ID, "hand", hand.ID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.afterTransition(ctx, table, hand, seats, res)
		return res, nil
	}
	return nil, ErrTryAgain
}

// afterTransition handles the post-commit work of a successful action:
// timers, deferred leaves and client notifications.
func (s *Service) afterTransition(ctx context.Context, table *engine.Table, hand *engine.Hand, seats []*engine.Seat, res *engine.ActionResult) {
	s.broadcast(table.ID, MessageTypePlayerAction, PlayerActionData{
		TableID:   table.ID,
		HandID:    hand.ID,
		UserID:    res.Record.UserID,
		Action:    res.Record.Kind.String(),
		Amount:    res.Record.Amount,
		Auto:      res.Record.Auto,
		PotAfter:  hand.Pot + roundTotal(seats),
		Round:     res.Record.Round.String(),
		ActingPos: hand.ActingPos,
	})

	if res.Status == engine.Complete {
		s.scheduler.Disarm(table.ID)
		s.finishHand(ctx, table, hand, seats, res)
		return
	}

	if res.Status != res.Record.Round {
		s.broadcast(table.ID, MessageTypeStreetChange, StreetChangeData{
			TableID:   table.ID,
			HandID:    hand.ID,
			Round:     res.Status.String(),
			Community: poker.Codes(hand.RevealedCommunity()),
			ActingPos: hand.ActingPos,
		})
	}
	s.scheduler.Arm(table.ID, hand.TurnExpiresAt)
}

// finishHand announces the result and frees seats whose leave was deferred
func (s *Service) finishHand(ctx context.Context, table *engine.Table, hand *engine.Hand, seats []*engine.Seat, res *engine.ActionResult) {
	winners := make([]WinnerInfo, len(res.Winners))
	for i, w := range res.Winners {
		winners[i] = WinnerInfo{UserID: w.UserID, Position: w.Position, Amount: w.Amount}
	}
	s.broadcast(table.ID, MessageTypeHandEnd, HandEndData{
		TableID:     table.ID,
		HandID:      hand.ID,
		Winners:     winners,
		WinningHand: res.WinningHand,
		PotSize:     settledPot(res),
		Fee:         res.Fee,
		FinalBoard:  poker.Codes(hand.RevealedCommunity()),
	})

	for _, seat := range seats {
		if !seat.Leaving || !seat.Active {
			continue
		}
		stack := seat.Stack
		seat.Active = false
		seat.InHand = false
		seat.Leaving = false
		if err := s.store.UpsertSeat(ctx, seat); err != nil {
			s.logger.Error("Failed to free leaving seat", "table", table.ID, "user", seat.UserID, "error", err)
			continue
		}
		s.logger.Info("Deferred leave completed", "table", table.ID, "user", seat.UserID, "stack", stack)
		s.send(seat.UserID, MessageTypeTableLeft, TableLeftData{TableID: table.ID, Stack: stack})
	}

	if !table.Active {
		s.logger.Info("Hand cap reached, table retired", "table", table.ID, "hands", table.HandsPlayed)
	}
}

// Snapshot builds the table state as visible to one viewer. Hole cards are
// redacted except for the viewer's own seat, and revealed for every live
// seat once a hand has gone to showdown.
func (s *Service) Snapshot(ctx context.Context, tableID, viewerID string) (*TableStateData, error) {
	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	seats, err := s.store.SeatsByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	hand, err := s.store.LatestHand(ctx, tableID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	state := &TableStateData{
		TableID:   table.ID,
		DealerPos: -1,
		ActingPos: -1,
	}

	showdown := false
	if hand != nil {
		live := 0
		for _, seat := range seats {
			if seat.InHand && !seat.Folded {
				live++
			}
		}
		showdown = hand.Status >= engine.Showdown && live > 1

		state.HandID = hand.ID
		state.HandNo = hand.HandNo
		state.Status = hand.Status.String()
		state.DealerPos = hand.DealerPos
		state.ActingPos = hand.ActingPos
		state.Pot = hand.Pot
		state.CurrentBet = hand.CurrentBet
		state.MinRaise = hand.MinRaise
		state.Community = poker.Codes(hand.RevealedCommunity())
		state.TurnExpiresAt = hand.TurnExpiresAt
	}

	sort.Slice(seats, func(i, j int) bool { return seats[i].Position < seats[j].Position })
	for _, seat := range seats {
		ss := SeatState{
			UserID:     seat.UserID,
			Position:   seat.Position,
			Stack:      seat.Stack,
			CurrentBet: seat.CurrentBet,
			TotalBet:   seat.TotalBet,
			InHand:     seat.InHand,
			Folded:     seat.Folded,
			AllIn:      seat.AllIn,
			SittingOut: seat.SittingOut,
		}
		if seat.UserID == viewerID || (showdown && seat.InHand && !seat.Folded) {
			ss.HoleCards = poker.Codes(seat.HoleCards)
		}
		state.Seats = append(state.Seats, ss)
	}
	return state, nil
}

// announceHandStart broadcasts the deal and sends each seat its own cards
func (s *Service) announceHandStart(table *engine.Table, res *engine.DealResult, seats []*engine.Seat) {
	data := HandStartData{
		TableID:       table.ID,
		HandID:        res.Hand.ID,
		HandNo:        res.Hand.HandNo,
		DealerPos:     res.DealerPos,
		SmallBlindPos: res.SmallBlindPos,
		BigBlindPos:   res.BigBlindPos,
		FirstToActPos: res.FirstToActPos,
		SmallBlind:    table.SmallBlind,
		BigBlind:      table.BigBlind,
		InitialPot:    res.InitialPot,
	}
	s.broadcast(table.ID, MessageTypeHandStart, data)

	for _, seat := range seats {
		if !seat.InHand {
			continue
		}
		private := data
		private.HoleCards = poker.Codes(seat.HoleCards)
		s.send(seat.UserID, MessageTypeHandStart, private)
	}
}

func (s *Service) broadcast(tableID string, mt MessageType, data interface{}) {
	if s.notifier == nil {
		return
	}
	msg, err := NewMessage(mt, data)
	if err != nil {
		s.logger.Error("Failed to encode broadcast", "type", mt, "error", err)
		return
	}
	s.notifier.Broadcast(tableID, msg)
}

func (s *Service) send(userID string, mt MessageType, data interface{}) {
	if s.notifier == nil {
		return
	}
	msg, err := NewMessage(mt, data)
	if err != nil {
		s.logger.Error("Failed to encode message", "type", mt, "error", err)
		return
	}
	_ = s.notifier.ToUser(userID, msg)
}

// settledPot reconstructs the final pot of a completed hand from its
// distribution: the pot itself is zeroed once winnings are credited.
func settledPot(res *engine.ActionResult) int64 {
	total := res.Fee
	for _, w := range res.Winners {
		total += w.Amount
	}
	return total
}

func roundTotal(seats []*engine.Seat) int64 {
	var sum int64
	for _, seat := range seats {
		if seat.InHand {
			sum += seat.CurrentBet
		}
	}
	return sum
}
