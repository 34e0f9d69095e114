package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/lock"
)

// DefaultCustomsCoolDown is the delay between labeling and the first customs
// submission attempt, giving the carrier time to register the shipment.
const DefaultCustomsCoolDown = 5 * time.Minute

// ScheduleCustomsCommandHandler decides whether an order needs customs
// documents and schedules the first submission attempt.
//
// Decision rules:
//   - destination country equals the shipper country: NotRequired, nothing
//     scheduled
//   - no submission yet: a Pending submission is created with its first
//     attempt at now + cool-down
//   - Pending submission: re-triggering reschedules the attempt instead of
//     running it immediately
//   - terminal submission (Submitted, Failed, NotRequired): no-op
type ScheduleCustomsCommandHandler struct {
	uowFactory     OrderUoWFactory
	scheduler      ports.Scheduler
	locks          *lock.KeyedMutex
	shipperCountry string
	coolDown       time.Duration
	now            func() time.Time
	logger         *zap.Logger
}

// NewScheduleCustomsCommandHandler creates a handler for customs workflow
// triggering.
func NewScheduleCustomsCommandHandler(
	uowFactory OrderUoWFactory,
	scheduler ports.Scheduler,
	locks *lock.KeyedMutex,
	shipperCountry string,
	coolDown time.Duration,
	now func() time.Time,
	logger *zap.Logger,
) ScheduleCustomsCommandHandler {
	if coolDown <= 0 {
		coolDown = DefaultCustomsCoolDown
	}

	return ScheduleCustomsCommandHandler{
		uowFactory:     uowFactory,
		scheduler:      scheduler,
		locks:          locks,
		shipperCountry: shipperCountry,
		coolDown:       coolDown,
		now:            now,
		logger:         logger.With(zap.String("component", "schedule_customs")),
	}
}

// Handle processes the customs trigger command.
func (h *ScheduleCustomsCommandHandler) Handle(ctx context.Context, cmd ScheduleCustomsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	h.locks.Lock(cmd.OrderID().String())
	defer h.locks.Unlock(cmd.OrderID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := h.now()
	firstAttemptAt := now.Add(h.coolDown)

	if existing := o.Customs(); existing != nil && !existing.IsVoided() {
		if existing.Status() != customs.Pending {
			h.logger.Debug("customs trigger ignored, submission is terminal",
				zap.String("order_id", o.ID().String()),
				zap.String("status", existing.Status().String()))
			return nil
		}

		if err = existing.Reschedule(firstAttemptAt); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
		if err = uow.Commit(ctx); err != nil {
			return err
		}

		h.scheduler.ScheduleAt(o.ID(), firstAttemptAt)
		return nil
	}

	var sub *customs.Submission
	if o.Destination().CountryCode() == h.shipperCountry {
		sub = customs.NewNotRequiredSubmission(now)
	} else {
		sub = customs.NewPendingSubmission(now, firstAttemptAt)
	}

	if err = o.AttachCustoms(sub); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if sub.Status() == customs.Pending {
		h.scheduler.ScheduleAt(o.ID(), firstAttemptAt)
	}

	return nil
}
