package ports

import (
	"time"

	"shipping/internal/core/domain/model/kernel"
)

// Scheduler manages the in-process timers behind customs submission
// retries. Scheduling the same order again replaces the previous timer.
//
// Timers are process-local and lost on restart; the customs sweep job
// re-dispatches due submissions from their persisted next-attempt time.
type Scheduler interface {
	// ScheduleAt arranges a customs submission attempt for the order at the
	// given time, replacing any previously scheduled attempt.
	ScheduleAt(orderID kernel.UUID, at time.Time)

	// Cancel drops the scheduled attempt for the order, if any.
	Cancel(orderID kernel.UUID)
}
