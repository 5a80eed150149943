package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/rivermark/cardroom/internal/engine"
	"github.com/rivermark/cardroom/internal/store"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants for the client-server protocol
const (
	// Client to server messages
	MessageTypeAuth       MessageType = "auth"
	MessageTypeJoinTable  MessageType = "join_table"
	MessageTypeLeaveTable MessageType = "leave_table"
	MessageTypeListTables MessageType = "list_tables"
	MessageTypeStartHand  MessageType = "start_hand"
	MessageTypeAction     MessageType = "action"
	MessageTypeGetState   MessageType = "get_state"

	// Server to client messages
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeError        MessageType = "error"
	MessageTypeTableList    MessageType = "table_list"
	MessageTypeTableJoined  MessageType = "table_joined"
	MessageTypeTableLeft    MessageType = "table_left"
	MessageTypeTableState   MessageType = "table_state"
	MessageTypeHandStart    MessageType = "hand_start"
	MessageTypePlayerAction MessageType = "player_action"
	MessageTypeStreetChange MessageType = "street_change"
	MessageTypeHandEnd      MessageType = "hand_end"
	MessageTypeTurnTimeout  MessageType = "turn_timeout"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	UserID string `json:"userId"`
	Token  string `json:"token,omitempty"`
}

type JoinTableData struct {
	TableID  string `json:"tableId"`
	Position *int   `json:"position,omitempty"` // nil picks the first free seat
	BuyIn    int64  `json:"buyIn"`
}

type LeaveTableData struct {
	TableID string `json:"tableId"`
}

type StartHandData struct {
	TableID string `json:"tableId"`
}

type ActionData struct {
	TableID string `json:"tableId"`
	Action  string `json:"action"`
	Amount  int64  `json:"amount,omitempty"`
}

type GetStateData struct {
	TableID string `json:"tableId"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TableInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SeatCount  int    `json:"seatCount"`
	MaxSeats   int    `json:"maxSeats"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	Active     bool   `json:"active"`
}

type TableListData struct {
	Tables []TableInfo `json:"tables"`
}

type TableJoinedData struct {
	TableID  string `json:"tableId"`
	Position int    `json:"position"`
	Stack    int64  `json:"stack"`
}

type TableLeftData struct {
	TableID  string `json:"tableId"`
	Deferred bool   `json:"deferred"` // true when removal waits for hand end
	Stack    int64  `json:"stack,omitempty"`
}

// SeatState is one seat as seen by a particular viewer. HoleCards is only
// populated for the viewer's own seat, and at showdown for live seats.
type SeatState struct {
	UserID     string   `json:"userId"`
	Position   int      `json:"position"`
	Stack      int64    `json:"stack"`
	CurrentBet int64    `json:"currentBet"`
	TotalBet   int64    `json:"totalBet"`
	HoleCards  []string `json:"holeCards,omitempty"`
	InHand     bool     `json:"inHand"`
	Folded     bool     `json:"folded"`
	AllIn      bool     `json:"allIn"`
	SittingOut bool     `json:"sittingOut"`
}

type TableStateData struct {
	TableID       string      `json:"tableId"`
	HandID        string      `json:"handId,omitempty"`
	HandNo        int         `json:"handNo,omitempty"`
	Status        string      `json:"status,omitempty"`
	DealerPos     int         `json:"dealerPos"`
	ActingPos     int         `json:"actingPos"`
	Pot           int64       `json:"pot"`
	CurrentBet    int64       `json:"currentBet"`
	MinRaise      int64       `json:"minRaise"`
	Community     []string    `json:"community"`
	Seats         []SeatState `json:"seats"`
	TurnExpiresAt *time.Time  `json:"turnExpiresAt,omitempty"`
}

type HandStartData struct {
	TableID       string   `json:"tableId"`
	HandID        string   `json:"handId"`
	HandNo        int      `json:"handNo"`
	DealerPos     int      `json:"dealerPos"`
	SmallBlindPos int      `json:"smallBlindPos"`
	BigBlindPos   int      `json:"bigBlindPos"`
	FirstToActPos int      `json:"firstToActPos"`
	SmallBlind    int64    `json:"smallBlind"`
	BigBlind      int64    `json:"bigBlind"`
	InitialPot    int64    `json:"initialPot"`
	HoleCards     []string `json:"holeCards,omitempty"` // per-recipient only
}

type PlayerActionData struct {
	TableID   string `json:"tableId"`
	HandID    string `json:"handId"`
	UserID    string `json:"userId"`
	Action    string `json:"action"`
	Amount    int64  `json:"amount"`
	Auto      bool   `json:"auto"`
	PotAfter  int64  `json:"potAfter"`
	Round     string `json:"round"`
	ActingPos int    `json:"actingPos"`
}

type StreetChangeData struct {
	TableID   string   `json:"tableId"`
	HandID    string   `json:"handId"`
	Round     string   `json:"round"`
	Community []string `json:"community"`
	ActingPos int      `json:"actingPos"`
}

type WinnerInfo struct {
	UserID   string `json:"userId"`
	Position int    `json:"position"`
	Amount   int64  `json:"amount"`
}

type HandEndData struct {
	TableID     string       `json:"tableId"`
	HandID      string       `json:"handId"`
	Winners     []WinnerInfo `json:"winners"`
	WinningHand string       `json:"winningHand,omitempty"`
	PotSize     int64        `json:"potSize"`
	Fee         int64        `json:"fee"`
	FinalBoard  []string     `json:"finalBoard"`
}

type TurnTimeoutData struct {
	TableID string `json:"tableId"`
	HandID  string `json:"handId"`
	UserID  string `json:"userId"`
	Action  string `json:"action"`
}

// Stable wire error codes. Clients branch on these, never on error text.
const (
	CodeInvalidMessage    = "invalid_message"
	CodeNotAuthenticated  = "not_authenticated"
	CodeNotYourTurn       = "not_your_turn"
	CodeInsufficientChips = "insufficient_chips"
	CodeIllegalAction     = "illegal_action"
	CodeHandNotFound      = "hand_not_found"
	CodeHandComplete      = "hand_complete"
	CodeHandInProgress    = "hand_in_progress"
	CodeNotSeated         = "not_seated"
	CodeSeatTaken         = "seat_taken"
	CodeTableFull         = "table_full"
	CodeTableInactive     = "table_inactive"
	CodeTableNotFound     = "table_not_found"
	CodeNotEnoughSeats    = "not_enough_seats"
	CodeActionReplay      = "action_replay"
	CodeTryAgain          = "try_again"
	CodeInternal          = "internal"
)

// ErrorCode maps an engine or service error onto its stable wire code.
func ErrorCode(err error) string {
	var notTurn *engine.NotYourTurnError
	var insufficient *engine.InsufficientChipsError
	var illegal *engine.IllegalActionError

	switch {
	case errors.As(err, &notTurn):
		return CodeNotYourTurn
	case errors.As(err, &insufficient):
		return CodeInsufficientChips
	case errors.As(err, &illegal):
		return CodeIllegalAction
	case errors.Is(err, engine.ErrHandNotFound):
		return CodeHandNotFound
	case errors.Is(err, engine.ErrHandComplete):
		return CodeHandComplete
	case errors.Is(err, engine.ErrHandInProgress):
		return CodeHandInProgress
	case errors.Is(err, engine.ErrNotSeated):
		return CodeNotSeated
	case errors.Is(err, engine.ErrSeatTaken):
		return CodeSeatTaken
	case errors.Is(err, engine.ErrTableFull):
		return CodeTableFull
	case errors.Is(err, engine.ErrTableInactive):
		return CodeTableInactive
	case errors.Is(err, engine.ErrNotEnoughSeats):
		return CodeNotEnoughSeats
	case errors.Is(err, engine.ErrActionReplay):
		return CodeActionReplay
	case errors.Is(err, store.ErrNotFound):
		return CodeTableNotFound
	case errors.Is(err, ErrTryAgain) || errors.Is(err, engine.ErrStaleState):
		return CodeTryAgain
	default:
		return CodeInternal
	}
}
