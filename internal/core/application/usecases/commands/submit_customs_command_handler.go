package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/lock"
)

// DefaultCustomsMaxAttempts is the customs submission retry budget.
const DefaultCustomsMaxAttempts = 3

// DefaultCustomsBackoff returns the delays before each retry: the first
// failure retries after 5 minutes, the second after 15, later ones after an
// hour.
func DefaultCustomsBackoff() []time.Duration {
	return []time.Duration{5 * time.Minute, 15 * time.Minute, time.Hour}
}

var (
	// ErrCustomsNotTriggered is returned when submitting customs documents
	// for an order whose workflow was never triggered.
	ErrCustomsNotTriggered = errors.New("customs workflow was not triggered for this order")

	// ErrCustomsNotPending is returned when the submission is in a terminal
	// state and no further attempts are allowed.
	ErrCustomsNotPending = errors.New("customs submission is not pending")
)

// SubmitCustomsCommandHandler runs one customs submission attempt: render
// the commercial invoice, upload it to the carrier's document store, and
// link the returned document id to the shipment's primary tracking number.
//
// Failures are persisted on the submission and retried with backoff until
// the attempt budget is exhausted, after which the submission becomes Failed
// with the last error preserved.
type SubmitCustomsCommandHandler struct {
	uowFactory  OrderUoWFactory
	carrier     ports.CarrierClient
	scheduler   ports.Scheduler
	invoices    services.InvoiceBuilder
	locks       *lock.KeyedMutex
	shipper     kernel.Address
	backoff     []time.Duration
	maxAttempts int
	now         func() time.Time
	logger      *zap.Logger
}

// NewSubmitCustomsCommandHandler creates a handler for customs submission
// attempts. Zero backoff/maxAttempts select the defaults.
func NewSubmitCustomsCommandHandler(
	uowFactory OrderUoWFactory,
	carrier ports.CarrierClient,
	scheduler ports.Scheduler,
	invoices services.InvoiceBuilder,
	locks *lock.KeyedMutex,
	shipper kernel.Address,
	backoff []time.Duration,
	maxAttempts int,
	now func() time.Time,
	logger *zap.Logger,
) SubmitCustomsCommandHandler {
	if len(backoff) == 0 {
		backoff = DefaultCustomsBackoff()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultCustomsMaxAttempts
	}

	return SubmitCustomsCommandHandler{
		uowFactory:  uowFactory,
		carrier:     carrier,
		scheduler:   scheduler,
		invoices:    invoices,
		locks:       locks,
		shipper:     shipper,
		backoff:     backoff,
		maxAttempts: maxAttempts,
		now:         now,
		logger:      logger.With(zap.String("component", "submit_customs")),
	}
}

// Handle processes one customs submission attempt.
//
// A successful attempt transitions the submission to Submitted and persists
// the document id. A failed attempt is recorded and rescheduled with
// backoff; the attempt that exhausts the budget transitions the submission
// to Failed. In both failure cases the persisted state is committed and the
// provider error is returned to the caller.
func (h *SubmitCustomsCommandHandler) Handle(ctx context.Context, cmd SubmitCustomsCommand) error {
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

	sub := o.Customs()
	if sub == nil {
		return ErrCustomsNotTriggered
	}
	if sub.IsVoided() {
		return customs.ErrSubmissionIsVoided
	}
	if sub.Status() != customs.Pending {
		return fmt.Errorf("%w: %s", ErrCustomsNotPending, sub.Status())
	}

	documentID, submitErr := h.submit(ctx, o)
	if submitErr != nil {
		return h.recordFailure(ctx, uow, orderRepo, o, sub, submitErr)
	}

	if err = sub.RecordSuccess(documentID, h.now()); err != nil {
		return err
	}
	o.AddNote(h.now(), fmt.Sprintf("customs documents submitted (document %s)", documentID))

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// submit uploads the invoice and links the document to the shipment.
func (h *SubmitCustomsCommandHandler) submit(ctx context.Context, o *order.Order) (string, error) {
	record := o.Shipment()
	if record == nil {
		return "", order.ErrNoShipmentAttached
	}

	invoice := h.invoices.Build(services.InvoiceMeta{
		InvoiceNumber:   o.Number(),
		InvoiceDate:     h.now(),
		Currency:        o.Currency(),
		ReasonForExport: reasonForExportSale,
		Terms:           incotermDAP,
	}, h.shipper, o.Destination(), o.ShippableItems())

	documentID, err := h.carrier.UploadCustomsDocument(ctx, ports.UploadDocumentRequest{
		FileName: fmt.Sprintf("commercial_invoice_%d.txt", h.now().Unix()),
		Content:  []byte(invoice),
	})
	if err != nil {
		return "", err
	}

	var shipmentID string
	if ids := record.ShipmentIDs(); len(ids) > 0 {
		shipmentID = ids[0]
	}

	err = h.carrier.LinkDocumentToTracking(ctx, ports.LinkDocumentRequest{
		DocumentID:       documentID,
		ShipmentID:       shipmentID,
		TrackingNumber:   record.PrimaryTrackingNumber(),
		ShipmentDateTime: record.CreatedAt(),
	})
	if err != nil {
		return "", err
	}

	return documentID, nil
}

// recordFailure persists the failed attempt, schedules the retry while the
// budget lasts, and returns the original submission error.
func (h *SubmitCustomsCommandHandler) recordFailure(
	ctx context.Context,
	uow OrderUoW,
	orderRepo ports.OrderRepository,
	o *order.Order,
	sub *customs.Submission,
	submitErr error,
) error {
	now := h.now()

	var retryAt *time.Time
	if sub.Attempts()+1 < h.maxAttempts {
		at := now.Add(h.backoffFor(sub.Attempts()))
		retryAt = &at
	}

	if err := sub.RecordFailure(submitErr.Error(), now, retryAt); err != nil {
		return errors.Join(submitErr, err)
	}

	if retryAt == nil {
		o.AddNote(now, fmt.Sprintf(
			"customs submission abandoned after %d attempts: %s", sub.Attempts(), submitErr))
		h.logger.Error("customs submission abandoned",
			zap.String("order_id", o.ID().String()),
			zap.Int("attempts", sub.Attempts()),
			zap.Error(submitErr))
	} else {
		h.logger.Warn("customs submission failed, retry scheduled",
			zap.String("order_id", o.ID().String()),
			zap.Int("attempts", sub.Attempts()),
			zap.Time("retry_at", *retryAt),
			zap.Error(submitErr))
	}

	if err := orderRepo.Update(ctx, o); err != nil {
		return errors.Join(submitErr, err)
	}
	if err := uow.Commit(ctx); err != nil {
		return errors.Join(submitErr, err)
	}

	if retryAt != nil {
		h.scheduler.ScheduleAt(o.ID(), *retryAt)
	}

	return submitErr
}

// backoffFor returns the delay after the given number of completed attempts,
// holding the last configured delay for everything beyond the table.
func (h *SubmitCustomsCommandHandler) backoffFor(attempts int) time.Duration {
	if attempts >= len(h.backoff) {
		return h.backoff[len(h.backoff)-1]
	}
	return h.backoff[attempts]
}
