package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/shipment"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/lock"
)

// ErrNothingToVoid is returned when neither the command nor the order
// provides shipment identifiers to void.
var ErrNothingToVoid = errors.New("no shipment identifiers to void")

// ErrVoidFailed is returned when not a single identifier could be voided.
// No order data is cleaned in that case.
var ErrVoidFailed = errors.New("void failed for all shipment identifiers")

// VoidShipmentCommandHandler voids an order's shipments with the carrier and
// reconciles the order afterwards.
//
// Reconciliation rule: whenever at least one identifier was voided (or was
// already voided carrier-side), the order's shipment data is cleaned — the
// shipment record is removed, any customs submission is marked voided with
// its scheduled retry canceled, and the parcel pre-registration is blocked
// from resubmission. A half-voided shipment must never keep stale labels
// around. Only a run with zero successes leaves the order untouched.
type VoidShipmentCommandHandler struct {
	uowFactory OrderUoWFactory
	carrier    ports.CarrierClient
	scheduler  ports.Scheduler
	locks      *lock.KeyedMutex
	now        func() time.Time
	logger     *zap.Logger
}

// NewVoidShipmentCommandHandler creates a handler for void operations.
func NewVoidShipmentCommandHandler(
	uowFactory OrderUoWFactory,
	carrier ports.CarrierClient,
	scheduler ports.Scheduler,
	locks *lock.KeyedMutex,
	now func() time.Time,
	logger *zap.Logger,
) VoidShipmentCommandHandler {
	return VoidShipmentCommandHandler{
		uowFactory: uowFactory,
		carrier:    carrier,
		scheduler:  scheduler,
		locks:      locks,
		now:        now,
		logger:     logger.With(zap.String("component", "void_shipment")),
	}
}

// Handle processes the void command and returns the per-identifier result.
// Partial success cleans the order and returns a nil error; the caller reads
// the failures from the result. Zero successes return ErrVoidFailed.
func (h *VoidShipmentCommandHandler) Handle(ctx context.Context, cmd VoidShipmentCommand) (*shipment.VoidResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	h.locks.Lock(cmd.OrderID().String())
	defer h.locks.Unlock(cmd.OrderID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	identifiers := cmd.Identifiers()
	if len(identifiers) == 0 && o.Shipment() != nil {
		identifiers = o.Shipment().VoidIdentifiers()
	}
	if len(identifiers) == 0 {
		return nil, ErrNothingToVoid
	}

	result := shipment.NewVoidResult()
	for _, identifier := range identifiers {
		outcome, voidErr := h.carrier.VoidShipment(ctx, identifier)
		switch outcome {
		case shipment.Voided:
			result.RecordVoided(identifier)
		case shipment.AlreadyVoided:
			result.RecordAlreadyVoided(identifier)
		default:
			reason := "void rejected"
			if voidErr != nil {
				reason = voidErr.Error()
			}
			result.RecordFailure(identifier, reason)
		}
	}

	if result.SuccessCount() == 0 {
		h.logger.Error("void failed for all identifiers",
			zap.String("order_id", o.ID().String()),
			zap.Strings("failures", result.Failures()))
		return result, ErrVoidFailed
	}

	if err = h.cleanOrder(o, result); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.scheduler.Cancel(o.ID())

	return result, nil
}

// cleanOrder removes the shipment data after a void run with at least one
// success. Keeping labels for a half-voided shipment risks double use, so
// partial runs clean exactly like full ones.
func (h *VoidShipmentCommandHandler) cleanOrder(o *order.Order, result *shipment.VoidResult) error {
	if o.Shipment() != nil {
		if err := o.ClearShipment(); err != nil {
			return err
		}
	}

	if sub := o.Customs(); sub != nil {
		sub.MarkVoided()
	}
	o.VoidPreRegistration()

	if result.AllVoided() {
		o.AddNote(h.now(), "all shipments voided")
	} else {
		o.AddNote(h.now(), fmt.Sprintf(
			"shipments partially voided (%d success, %d errors), data cleaned for safety",
			result.SuccessCount(), result.FailureCount()))
	}

	return nil
}
