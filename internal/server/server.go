package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server accepts WebSocket clients and fans service notifications out to
// them. It implements Notifier: broadcasts go to every connection bound to a
// table, direct messages to the one connection bound to a user.
type Server struct {
	addr     string
	service  *Service
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*Connection]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	http   *http.Server
}

func NewServer(addr string, service *Service, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:    addr,
		service: service,
		logger:  logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients connect from arbitrary origins for now.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns:  make(map[*Connection]struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	service.SetNotifier(s)
	return s
}

// Start serves WebSocket upgrades and blocks until Stop is called
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.http = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("Listening", "addr", s.addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop closes every client connection and shuts the listener down
func (s *Server) Stop() error {
	s.cancel()
	s.service.Scheduler().Stop()

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.conns = make(map[*Connection]struct{})
	s.mu.Unlock()

	if s.http != nil {
		return s.http.Close()
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Upgrade failed", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger, s.service)
	s.add(conn)
	conn.Start()

	go func() {
		<-conn.ctx.Done()
		s.drop(conn)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) add(conn *Connection) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	total := len(s.conns)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

// drop unregisters a finished connection. A player who vanishes mid-hand is
// sat out, folding if on the clock; the seat survives for reconnection.
func (s *Server) drop(conn *Connection) {
	s.mu.Lock()
	_, known := s.conns[conn]
	delete(s.conns, conn)
	total := len(s.conns)
	s.mu.Unlock()
	if !known {
		return
	}
	_ = conn.Close()

	if userID, tableID := conn.user(), conn.table(); userID != "" && tableID != "" {
		if err := s.service.HandleDisconnect(context.Background(), tableID, userID); err != nil {
			s.logger.Warn("Disconnect handling failed", "user", userID, "error", err)
		}
	}
	s.logger.Info("Client disconnected", "total", total)
}

// Broadcast sends a message to every connection watching a table. It
// implements Notifier.
func (s *Server) Broadcast(tableID string, msg *Message) {
	s.mu.RLock()
	targets := make([]*Connection, 0, len(s.conns))
	for conn := range s.conns {
		if conn.table() == tableID {
			targets = append(targets, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("Broadcast delivery failed", "user", conn.user(), "error", err)
		}
	}
	s.logger.Debug("Broadcast", "table", tableID, "type", msg.Type, "recipients", len(targets))
}

// ToUser sends a message to one connected user. It implements Notifier.
func (s *Server) ToUser(userID string, msg *Message) error {
	s.mu.RLock()
	var target *Connection
	for conn := range s.conns {
		if conn.user() == userID {
			target = conn
			break
		}
	}
	s.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("user not connected: %s", userID)
	}
	return target.SendMessage(msg)
}
