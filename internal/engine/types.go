package engine

import (
	"time"

	"github.com/rivermark/cardroom/poker"
)

// Table holds the rarely-changing configuration of a cash table.
type Table struct {
	ID          string
	Name        string
	SmallBlind  int64
	BigBlind    int64
	MaxSeats    int
	HandsPlayed int
	HandCap     int // 0 means unlimited
	Active      bool
}

// Seat is one occupied position at a table. A row exists per (table, user)
// while the user is seated; leaving soft-deletes it via Active.
type Seat struct {
	TableID    string
	UserID     string
	Position   int
	Stack      int64
	CurrentBet int64 // chips committed this betting round
	TotalBet   int64 // chips committed this hand, including collected bets
	HoleCards  []poker.Card
	InHand     bool // dealt into the current hand
	Folded     bool
	AllIn      bool
	SittingOut bool
	Leaving    bool // leave requested mid-hand, removal deferred to hand end
	Active     bool
}

// HandStatus is the linear street progression of a hand. Complete is
// reachable early when everyone else folds.
type HandStatus int

const (
	Preflop HandStatus = iota
	Flop
	Turn
	River
	Showdown
	Complete
)

func (s HandStatus) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown", "complete"}[s]
}

// ParseHandStatus parses the string form stored in the database
func ParseHandStatus(s string) (HandStatus, bool) {
	for st := Preflop; st <= Complete; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

// Hand is one dealt hand. All five community cards are stored at deal time;
// RevealedCommunity projects them by street for clients. Acted is the
// per-round acted set, rebuilt at each street advance.
type Hand struct {
	ID            string
	TableID       string
	HandNo        int
	Version       int64 // optimistic concurrency token, bumped on every write
	Status        HandStatus
	DealerPos     int
	ActingPos     int // -1 when nobody is to act
	Pot           int64
	Community     []poker.Card
	CurrentBet    int64 // bet-to-match for the active round
	MinRaise      int64
	LastRaiserPos int
	Acted         map[int]bool
	TurnExpiresAt *time.Time
	StartedAt     time.Time
}

// RevealedCommunity returns the community cards visible at the current
// street. Revelation is a read-side projection, not a deal-time act.
func (h *Hand) RevealedCommunity() []poker.Card {
	switch {
	case h.Status <= Preflop:
		return nil
	case h.Status == Flop:
		return h.Community[:3]
	case h.Status == Turn:
		return h.Community[:4]
	default:
		return h.Community[:5]
	}
}

// ActionKind is a player action at the table
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Bet
	Raise
	AllInAction
)

func (a ActionKind) String() string {
	return [...]string{"fold", "check", "call", "bet", "raise", "all_in"}[a]
}

// ParseActionKind parses the wire form of an action
func ParseActionKind(s string) (ActionKind, bool) {
	for a := Fold; a <= AllInAction; a++ {
		if a.String() == s {
			return a, true
		}
	}
	return 0, false
}

// ActionRecord is one append-only action log row. Auto marks guard-forced
// folds; downstream they are ordinary folds apart from this flag.
type ActionRecord struct {
	HandID string
	UserID string
	Kind   ActionKind
	Amount int64
	Round  HandStatus
	Auto   bool
	At     time.Time
}

// FeeRecord is one audit row per raked hand
type FeeRecord struct {
	HandID    string
	TableID   string
	Amount    int64
	PotSize   int64
	BigBlind  int64
	CreatedAt time.Time
}

// Payout is one seat's winnings from a distribution
type Payout struct {
	Position int
	UserID   string
	Amount   int64
}
