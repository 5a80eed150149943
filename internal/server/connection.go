package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/rivermark/cardroom/internal/engine"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	// Must stay under pongTimeout or the read side times out between pings.
	pingEvery    = 54 * time.Second
	maxFrameSize = 8192
)

var errSendBufferFull = errors.New("connection send buffer full")

// Connection wraps one client WebSocket. Incoming messages are dispatched to
// the game service; outgoing ones queue on a buffered channel drained by the
// write loop, so service broadcasts never block on a slow client.
type Connection struct {
	ws      *websocket.Conn
	service *Service
	logger  *log.Logger

	outbox chan *Message
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	userID  string
	tableID string
	closed  bool
}

func NewConnection(ws *websocket.Conn, logger *log.Logger, service *Service) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		ws:      ws,
		service: service,
		logger:  logger.WithPrefix("conn"),
		outbox:  make(chan *Message, 256),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the read and write loops
func (c *Connection) Start() {
	go c.writeLoop()
	go c.readLoop()
}

// Close tears the connection down; it is safe to call more than once
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	return c.ws.Close()
}

// SendMessage queues a message for the client. A client that cannot drain
// its buffer is cut off rather than allowed to stall the table.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return c.ctx.Err()
	case c.outbox <- msg:
		return nil
	default:
		c.logger.Warn("Send buffer full, dropping client", "user", c.user())
		_ = c.Close()
		return errSendBufferFull
	}
}

func (c *Connection) user() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *Connection) table() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tableID
}

func (c *Connection) bindUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
}

func (c *Connection) bindTable(tableID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tableID = tableID
}

// readLoop decodes client frames until the peer goes away. Pongs refresh the
// read deadline, so a silent peer is detected within pongTimeout.
func (c *Connection) readLoop() {
	defer func() { _ = c.Close() }()

	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for c.ctx.Err() == nil {
		var msg Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("Read failed", "user", c.user(), "error", err)
			}
			return
		}
		c.dispatch(&msg)
	}
}

// writeLoop drains the outbox and keeps the peer alive with pings
func (c *Connection) writeLoop() {
	pinger := time.NewTicker(pingEvery)
	defer func() {
		pinger.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
			return
		case msg := <-c.outbox:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteJSON(msg); err != nil {
				c.logger.Error("Write failed", "user", c.user(), "error", err)
				return
			}
		case <-pinger.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// decode unmarshals a payload, reporting a wire error to the client on
// failure.
func (c *Connection) decode(raw json.RawMessage, out any) bool {
	if err := json.Unmarshal(raw, out); err != nil {
		c.sendError(CodeInvalidMessage, "Malformed payload: "+err.Error())
		return false
	}
	return true
}

func (c *Connection) dispatch(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "user", c.user())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if c.decode(msg.Data, &data) {
			c.handleAuth(data)
		}
	case MessageTypeJoinTable:
		var data JoinTableData
		if c.decode(msg.Data, &data) {
			c.handleJoinTable(data)
		}
	case MessageTypeLeaveTable:
		var data LeaveTableData
		if c.decode(msg.Data, &data) {
			c.handleLeaveTable(data)
		}
	case MessageTypeListTables:
		c.handleListTables()
	case MessageTypeStartHand:
		var data StartHandData
		if c.decode(msg.Data, &data) {
			c.handleStartHand(data)
		}
	case MessageTypeAction:
		var data ActionData
		if c.decode(msg.Data, &data) {
			c.handleAction(data)
		}
	case MessageTypeGetState:
		var data GetStateData
		if c.decode(msg.Data, &data) {
			c.handleGetState(data)
		}
	default:
		c.sendError(CodeInvalidMessage, "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error frame to the client
func (c *Connection) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("Failed to encode error", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// sendServiceError reports a service failure under its stable wire code
func (c *Connection) sendServiceError(err error) {
	c.sendError(ErrorCode(err), err.Error())
}

// authed returns the user ID, reporting an error to the client when the
// connection has not authenticated.
func (c *Connection) authed() (string, bool) {
	userID := c.user()
	if userID == "" {
		c.sendError(CodeNotAuthenticated, "Must authenticate first")
		return "", false
	}
	return userID, true
}

func (c *Connection) reply(mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		c.logger.Error("Failed to encode reply", "type", mt, "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) handleAuth(data AuthData) {
	if data.UserID == "" {
		c.sendError(CodeInvalidMessage, "User ID required")
		return
	}
	c.bindUser(data.UserID)
	c.logger.Info("Authenticated", "user", data.UserID)
	c.reply(MessageTypeAuthResponse, AuthResponseData{Success: true, UserID: data.UserID})
}

func (c *Connection) handleJoinTable(data JoinTableData) {
	userID, ok := c.authed()
	if !ok {
		return
	}

	position := -1
	if data.Position != nil {
		position = *data.Position
	}
	seat, err := c.service.JoinTable(c.ctx, data.TableID, userID, data.BuyIn, position)
	if err != nil {
		c.sendServiceError(err)
		return
	}

	c.bindTable(data.TableID)
	c.reply(MessageTypeTableJoined, TableJoinedData{
		TableID:  data.TableID,
		Position: seat.Position,
		Stack:    seat.Stack,
	})
}

func (c *Connection) handleLeaveTable(data LeaveTableData) {
	userID, ok := c.authed()
	if !ok {
		return
	}

	left, err := c.service.LeaveTable(c.ctx, data.TableID, userID)
	if err != nil {
		c.sendServiceError(err)
		return
	}
	if !left.Deferred {
		c.bindTable("")
	}
	c.reply(MessageTypeTableLeft, left)
}

func (c *Connection) handleListTables() {
	tables, err := c.service.ListTables(c.ctx)
	if err != nil {
		c.sendServiceError(err)
		return
	}
	c.reply(MessageTypeTableList, TableListData{Tables: tables})
}

func (c *Connection) handleStartHand(data StartHandData) {
	userID, ok := c.authed()
	if !ok {
		return
	}
	c.logger.Info("Start hand request", "table", data.TableID, "user", userID)

	if _, err := c.service.StartHand(c.ctx, data.TableID); err != nil {
		c.sendServiceError(err)
	}
	// The service broadcasts hand_start to every subscriber.
}

func (c *Connection) handleAction(data ActionData) {
	userID, ok := c.authed()
	if !ok {
		return
	}

	kind, ok := engine.ParseActionKind(data.Action)
	if !ok {
		c.sendError(CodeInvalidMessage, "Unknown action: "+data.Action)
		return
	}
	if _, err := c.service.PerformAction(c.ctx, data.TableID, userID, kind, data.Amount); err != nil {
		c.sendServiceError(err)
	}
	// State changes flow back through the service broadcasts.
}

func (c *Connection) handleGetState(data GetStateData) {
	state, err := c.service.Snapshot(c.ctx, data.TableID, c.user())
	if err != nil {
		c.sendServiceError(err)
		return
	}
	c.reply(MessageTypeTableState, state)
}
