package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// TurnScheduler fires the turn-clock check for a table when the acting
// seat's window elapses. One timer is armed per table; arming replaces any
// earlier timer. The fired check is idempotent, so a timer that races a
// real action folds nobody.
type TurnScheduler struct {
	service *Service
	clock   quartz.Clock
	logger  *log.Logger

	mu     sync.Mutex
	timers map[string]*quartz.Timer
}

// NewTurnScheduler creates a scheduler bound to the given service
func NewTurnScheduler(service *Service, clock quartz.Clock, logger *log.Logger) *TurnScheduler {
	return &TurnScheduler{
		service: service,
		clock:   clock,
		logger:  logger.WithPrefix("turnclock"),
		timers:  make(map[string]*quartz.Timer),
	}
}

// Arm schedules the expiry check for a table. A nil deadline disarms.
func (ts *TurnScheduler) Arm(tableID string, expiresAt *time.Time) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if timer, ok := ts.timers[tableID]; ok {
		timer.Stop()
		delete(ts.timers, tableID)
	}
	if expiresAt == nil {
		return
	}

	wait := expiresAt.Sub(ts.clock.Now())
	if wait < 0 {
		wait = 0
	}
	ts.timers[tableID] = ts.clock.AfterFunc(wait, func() {
		ts.fire(tableID)
	})
}

// Disarm cancels the timer for a table
func (ts *TurnScheduler) Disarm(tableID string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if timer, ok := ts.timers[tableID]; ok {
		timer.Stop()
		delete(ts.timers, tableID)
	}
}

// Stop cancels every armed timer
func (ts *TurnScheduler) Stop() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for tableID, timer := range ts.timers {
		timer.Stop()
		delete(ts.timers, tableID)
	}
}

func (ts *TurnScheduler) fire(tableID string) {
	ts.mu.Lock()
	delete(ts.timers, tableID)
	ts.mu.Unlock()

	res, err := ts.service.CheckTurnTimeout(context.Background(), tableID)
	if err != nil {
		ts.logger.Error("Turn clock check failed", "table", tableID, "error", err)
		return
	}
	if res.Expired {
		ts.logger.Debug("Turn clock fired", "table", tableID, "folded", res.FoldedUserID)
	}
}
