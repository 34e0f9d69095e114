package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"shipping/internal/core/domain/model/kernel"
)

// Dispatch is the callback a timer fires to run a customs submission attempt.
type Dispatch func(ctx context.Context, orderID kernel.UUID)

// TimerScheduler implements ports.Scheduler with one in-process timer per
// order. Scheduling an order that already has a timer replaces it, so the
// latest requested attempt time always wins.
//
// Timers do not survive a restart; the customs sweep job re-dispatches due
// submissions from their persisted next-attempt time.
type TimerScheduler struct {
	mu       sync.Mutex
	timers   map[kernel.UUID]*time.Timer
	dispatch Dispatch
	logger   *zap.Logger
}

// NewTimerScheduler creates a scheduler that fires dispatch when an order's
// timer elapses.
func NewTimerScheduler(dispatch Dispatch, logger *zap.Logger) *TimerScheduler {
	return &TimerScheduler{
		timers:   make(map[kernel.UUID]*time.Timer),
		dispatch: dispatch,
		logger:   logger.With(zap.String("component", "timer_scheduler")),
	}
}

// ScheduleAt arranges a submission attempt for the order at the given time,
// replacing any previously scheduled attempt. Times in the past fire
// immediately.
func (s *TimerScheduler) ScheduleAt(orderID kernel.UUID, at time.Time) {
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[orderID]; ok {
		existing.Stop()
	}

	s.timers[orderID] = time.AfterFunc(delay, func() {
		s.fire(orderID)
	})

	s.logger.Debug("customs attempt scheduled",
		zap.String("order_id", orderID.String()),
		zap.Time("at", at))
}

// Cancel drops the scheduled attempt for the order, if any.
func (s *TimerScheduler) Cancel(orderID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[orderID]; ok {
		existing.Stop()
		delete(s.timers, orderID)
	}
}

// Stop cancels all pending timers. Used on shutdown; attempts lost here are
// recovered by the sweep job on the next start.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *TimerScheduler) fire(orderID kernel.UUID) {
	s.mu.Lock()
	delete(s.timers, orderID)
	s.mu.Unlock()

	s.dispatch(context.Background(), orderID)
}
