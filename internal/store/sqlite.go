package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rivermark/cardroom/internal/engine"
	"github.com/rivermark/cardroom/poker"
)

// SQLiteStore is the Store implementation on a local sqlite database
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS tables (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	small_blind  INTEGER NOT NULL,
	big_blind    INTEGER NOT NULL,
	max_seats    INTEGER NOT NULL,
	hands_played INTEGER NOT NULL DEFAULT 0,
	hand_cap     INTEGER NOT NULL DEFAULT 0,
	active       INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS seats (
	table_id    TEXT NOT NULL REFERENCES tables(id),
	user_id     TEXT NOT NULL,
	position    INTEGER NOT NULL,
	stack       INTEGER NOT NULL,
	current_bet INTEGER NOT NULL DEFAULT 0,
	total_bet   INTEGER NOT NULL DEFAULT 0,
	hole_cards  TEXT NOT NULL DEFAULT '',
	in_hand     INTEGER NOT NULL DEFAULT 0,
	folded      INTEGER NOT NULL DEFAULT 0,
	all_in      INTEGER NOT NULL DEFAULT 0,
	sitting_out INTEGER NOT NULL DEFAULT 0,
	leaving     INTEGER NOT NULL DEFAULT 0,
	active      INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (table_id, user_id)
);

CREATE TABLE IF NOT EXISTS hands (
	id              TEXT PRIMARY KEY,
	table_id        TEXT NOT NULL REFERENCES tables(id),
	hand_no         INTEGER NOT NULL,
	version         INTEGER NOT NULL DEFAULT 1,
	status          TEXT NOT NULL,
	dealer_pos      INTEGER NOT NULL,
	acting_pos      INTEGER NOT NULL,
	pot             INTEGER NOT NULL DEFAULT 0,
	community       TEXT NOT NULL,
	current_bet     INTEGER NOT NULL DEFAULT 0,
	min_raise       INTEGER NOT NULL DEFAULT 0,
	last_raiser_pos INTEGER NOT NULL DEFAULT -1,
	acted           TEXT NOT NULL DEFAULT '',
	turn_expires_at INTEGER,
	started_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_hands_table ON hands(table_id, hand_no);

CREATE TABLE IF NOT EXISTS actions (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	hand_id TEXT NOT NULL REFERENCES hands(id),
	user_id TEXT NOT NULL,
	kind    TEXT NOT NULL,
	amount  INTEGER NOT NULL DEFAULT 0,
	round   TEXT NOT NULL,
	auto    INTEGER NOT NULL DEFAULT 0,
	at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_actions_hand ON actions(hand_id);

CREATE TABLE IF NOT EXISTS fees (
	hand_id    TEXT PRIMARY KEY REFERENCES hands(id),
	table_id   TEXT NOT NULL,
	amount     INTEGER NOT NULL,
	pot_size   INTEGER NOT NULL,
	big_blind  INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
`

// OpenSQLite opens (and if needed creates) the database at path. Use
// ":memory:" for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateTable(ctx context.Context, t *engine.Table) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tables (id, name, small_blind, big_blind, max_seats, hands_played, hand_cap, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.SmallBlind, t.BigBlind, t.MaxSeats, t.HandsPlayed, t.HandCap, boolInt(t.Active))
	return err
}

func (s *SQLiteStore) GetTable(ctx context.Context, id string) (*engine.Table, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, small_blind, big_blind, max_seats, hands_played, hand_cap, active
		 FROM tables WHERE id = ?`, id)
	return scanTable(row)
}

func (s *SQLiteStore) ListTables(ctx context.Context) ([]*engine.Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, small_blind, big_blind, max_seats, hands_played, hand_cap, active
		 FROM tables ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*engine.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *SQLiteStore) UpdateTable(ctx context.Context, t *engine.Table) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tables SET name = ?, small_blind = ?, big_blind = ?, max_seats = ?,
		 hands_played = ?, hand_cap = ?, active = ? WHERE id = ?`,
		t.Name, t.SmallBlind, t.BigBlind, t.MaxSeats, t.HandsPlayed, t.HandCap, boolInt(t.Active), t.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) UpsertSeat(ctx context.Context, seat *engine.Seat) error {
	return s.execUpsertSeat(ctx, s.db, seat)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) execUpsertSeat(ctx context.Context, db execer, seat *engine.Seat) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO seats (table_id, user_id, position, stack, current_bet, total_bet,
		 hole_cards, in_hand, folded, all_in, sitting_out, leaving, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (table_id, user_id) DO UPDATE SET
		 position = excluded.position, stack = excluded.stack,
		 current_bet = excluded.current_bet, total_bet = excluded.total_bet,
		 hole_cards = excluded.hole_cards, in_hand = excluded.in_hand,
		 folded = excluded.folded, all_in = excluded.all_in,
		 sitting_out = excluded.sitting_out, leaving = excluded.leaving,
		 active = excluded.active`,
		seat.TableID, seat.UserID, seat.Position, seat.Stack, seat.CurrentBet, seat.TotalBet,
		encodeCards(seat.HoleCards), boolInt(seat.InHand), boolInt(seat.Folded),
		boolInt(seat.AllIn), boolInt(seat.SittingOut), boolInt(seat.Leaving), boolInt(seat.Active))
	return err
}

func (s *SQLiteStore) SeatsByTable(ctx context.Context, tableID string) ([]*engine.Seat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT table_id, user_id, position, stack, current_bet, total_bet,
		 hole_cards, in_hand, folded, all_in, sitting_out, leaving, active
		 FROM seats WHERE table_id = ? AND active = 1 ORDER BY position`, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []*engine.Seat
	for rows.Next() {
		var seat engine.Seat
		var holeCards string
		var inHand, folded, allIn, sittingOut, leaving, active int
		if err := rows.Scan(&seat.TableID, &seat.UserID, &seat.Position, &seat.Stack,
			&seat.CurrentBet, &seat.TotalBet, &holeCards,
			&inHand, &folded, &allIn, &sittingOut, &leaving, &active); err != nil {
			return nil, err
		}
		cards, err := decodeCards(holeCards)
		if err != nil {
			return nil, err
		}
		seat.HoleCards = cards
		seat.InHand = inHand != 0
		seat.Folded = folded != 0
		seat.AllIn = allIn != 0
		seat.SittingOut = sittingOut != 0
		seat.Leaving = leaving != 0
		seat.Active = active != 0
		seats = append(seats, &seat)
	}
	return seats, rows.Err()
}

func (s *SQLiteStore) BeginHand(ctx context.Context, t *engine.Table, h *engine.Hand, seats []*engine.Seat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	h.Version = 1
	if err := insertHand(ctx, tx, h); err != nil {
		return err
	}
	for _, seat := range seats {
		if err := s.execUpsertSeat(ctx, tx, seat); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE tables SET hands_played = ? WHERE id = ?`, t.HandsPlayed, t.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func insertHand(ctx context.Context, db execer, h *engine.Hand) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO hands (id, table_id, hand_no, version, status, dealer_pos, acting_pos,
		 pot, community, current_bet, min_raise, last_raiser_pos, acted, turn_expires_at, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.TableID, h.HandNo, h.Version, h.Status.String(), h.DealerPos, h.ActingPos,
		h.Pot, encodeCards(h.Community), h.CurrentBet, h.MinRaise, h.LastRaiserPos,
		encodeActed(h.Acted), encodeTimePtr(h.TurnExpiresAt), h.StartedAt.UnixMilli())
	return err
}

func (s *SQLiteStore) GetHand(ctx context.Context, id string) (*engine.Hand, error) {
	row := s.db.QueryRowContext(ctx, selectHand+` WHERE id = ?`, id)
	h, err := scanHand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return h, err
}

func (s *SQLiteStore) LatestHand(ctx context.Context, tableID string) (*engine.Hand, error) {
	row := s.db.QueryRowContext(ctx,
		selectHand+` WHERE table_id = ? ORDER BY hand_no DESC LIMIT 1`, tableID)
	h, err := scanHand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return h, err
}

const selectHand = `SELECT id, table_id, hand_no, version, status, dealer_pos, acting_pos,
 pot, community, current_bet, min_raise, last_raiser_pos, acted, turn_expires_at, started_at
 FROM hands`

// ApplyTransition commits one accepted action's full effect. The hand write
// is conditioned on the version the caller read; a lost race surfaces as
// engine.ErrStaleState with nothing applied.
func (s *SQLiteStore) ApplyTransition(ctx context.Context, tr *Transition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	h := tr.Hand
	res, err := tx.ExecContext(ctx,
		`UPDATE hands SET version = ?, status = ?, acting_pos = ?, pot = ?,
		 current_bet = ?, min_raise = ?, last_raiser_pos = ?, acted = ?, turn_expires_at = ?
		 WHERE id = ? AND version = ?`,
		tr.ExpectedVersion+1, h.Status.String(), h.ActingPos, h.Pot,
		h.CurrentBet, h.MinRaise, h.LastRaiserPos, encodeActed(h.Acted),
		encodeTimePtr(h.TurnExpiresAt), h.ID, tr.ExpectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrStaleState
	}
	h.Version = tr.ExpectedVersion + 1

	for _, seat := range tr.Seats {
		if err := s.execUpsertSeat(ctx, tx, seat); err != nil {
			return err
		}
	}
	if a := tr.Action; a != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO actions (hand_id, user_id, kind, amount, round, auto, at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.HandID, a.UserID, a.Kind.String(), a.Amount, a.Round.String(),
			boolInt(a.Auto), a.At.UnixMilli()); err != nil {
			return err
		}
	}
	if f := tr.Fee; f != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fees (hand_id, table_id, amount, pot_size, big_blind, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			f.HandID, f.TableID, f.Amount, f.PotSize, f.BigBlind, f.CreatedAt.UnixMilli()); err != nil {
			return err
		}
	}
	if t := tr.Table; t != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tables SET hands_played = ?, active = ? WHERE id = ?`,
			t.HandsPlayed, boolInt(t.Active), t.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ActionsByHand(ctx context.Context, handID string) ([]engine.ActionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hand_id, user_id, kind, amount, round, auto, at
		 FROM actions WHERE hand_id = ? ORDER BY id`, handID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []engine.ActionRecord
	for rows.Next() {
		var r engine.ActionRecord
		var kind, round string
		var auto int
		var at int64
		if err := rows.Scan(&r.HandID, &r.UserID, &kind, &r.Amount, &round, &auto, &at); err != nil {
			return nil, err
		}
		k, ok := engine.ParseActionKind(kind)
		if !ok {
			return nil, fmt.Errorf("unknown action kind %q in log", kind)
		}
		st, ok := engine.ParseHandStatus(round)
		if !ok {
			return nil, fmt.Errorf("unknown round %q in log", round)
		}
		r.Kind = k
		r.Round = st
		r.Auto = auto != 0
		r.At = time.UnixMilli(at).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) FeesByTable(ctx context.Context, tableID string) ([]engine.FeeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hand_id, table_id, amount, pot_size, big_blind, created_at
		 FROM fees WHERE table_id = ? ORDER BY created_at`, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []engine.FeeRecord
	for rows.Next() {
		var f engine.FeeRecord
		var createdAt int64
		if err := rows.Scan(&f.HandID, &f.TableID, &f.Amount, &f.PotSize, &f.BigBlind, &createdAt); err != nil {
			return nil, err
		}
		f.CreatedAt = time.UnixMilli(createdAt).UTC()
		fees = append(fees, f)
	}
	return fees, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTable(row rowScanner) (*engine.Table, error) {
	var t engine.Table
	var active int
	err := row.Scan(&t.ID, &t.Name, &t.SmallBlind, &t.BigBlind, &t.MaxSeats,
		&t.HandsPlayed, &t.HandCap, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Active = active != 0
	return &t, nil
}

func scanHand(row rowScanner) (*engine.Hand, error) {
	var h engine.Hand
	var status, community, acted string
	var expiresAt sql.NullInt64
	var startedAt int64
	if err := row.Scan(&h.ID, &h.TableID, &h.HandNo, &h.Version, &status, &h.DealerPos,
		&h.ActingPos, &h.Pot, &community, &h.CurrentBet, &h.MinRaise, &h.LastRaiserPos,
		&acted, &expiresAt, &startedAt); err != nil {
		return nil, err
	}
	st, ok := engine.ParseHandStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown hand status %q", status)
	}
	h.Status = st
	cards, err := decodeCards(community)
	if err != nil {
		return nil, err
	}
	h.Community = cards
	h.Acted, err = decodeActed(acted)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		at := time.UnixMilli(expiresAt.Int64).UTC()
		h.TurnExpiresAt = &at
	}
	h.StartedAt = time.UnixMilli(startedAt).UTC()
	return &h, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeCards(cards []poker.Card) string {
	return strings.Join(poker.Codes(cards), " ")
}

func decodeCards(s string) ([]poker.Card, error) {
	if s == "" {
		return nil, nil
	}
	return poker.ParseCards(s)
}

func encodeActed(acted map[int]bool) string {
	if len(acted) == 0 {
		return ""
	}
	positions := make([]int, 0, len(acted))
	for pos, ok := range acted {
		if ok {
			positions = append(positions, pos)
		}
	}
	// Stable output keeps the column diffable.
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if positions[j] < positions[i] {
				positions[i], positions[j] = positions[j], positions[i]
			}
		}
	}
	parts := make([]string, len(positions))
	for i, pos := range positions {
		parts[i] = strconv.Itoa(pos)
	}
	return strings.Join(parts, ",")
}

func decodeActed(s string) (map[int]bool, error) {
	acted := make(map[int]bool)
	if s == "" {
		return acted, nil
	}
	for _, part := range strings.Split(s, ",") {
		pos, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad acted set %q: %w", s, err)
		}
		acted[pos] = true
	}
	return acted, nil
}

func encodeTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
