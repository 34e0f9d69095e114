package commands

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/shipment"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/lock"
)

// Customs form constants shared by every international labeling request.
const (
	reasonForExportSale = "SALE"
	incotermDAP         = "DAP"

	// The carrier rejects invoice line totals below one currency unit.
	minInvoiceLineTotal = 1.00
)

// GenerateLabelCommandHandler runs the labeling workflow: plan packages,
// announce parcel contents, call the carrier once per package, and persist
// the shipment record.
//
// Failure semantics: any carrier failure aborts the whole operation and no
// shipment record is stored. Labels already created by earlier calls of the
// same run are NOT voided; the carrier bills them until manually voided, so
// the abort is logged at error level with the collected tracking numbers.
type GenerateLabelCommandHandler struct {
	uowFactory OrderUoWFactory
	carrier    ports.CarrierClient
	planner    services.PackagePlanner
	publisher  ports.EventPublisher
	locks      *lock.KeyedMutex
	shipper    kernel.Address
	now        func() time.Time
	logger     *zap.Logger
}

// NewGenerateLabelCommandHandler creates a handler for label generation.
func NewGenerateLabelCommandHandler(
	uowFactory OrderUoWFactory,
	carrier ports.CarrierClient,
	planner services.PackagePlanner,
	publisher ports.EventPublisher,
	locks *lock.KeyedMutex,
	shipper kernel.Address,
	now func() time.Time,
	logger *zap.Logger,
) GenerateLabelCommandHandler {
	return GenerateLabelCommandHandler{
		uowFactory: uowFactory,
		carrier:    carrier,
		planner:    planner,
		publisher:  publisher,
		locks:      locks,
		shipper:    shipper,
		now:        now,
		logger:     logger.With(zap.String("component", "generate_label")),
	}
}

// Handle processes the label generation command.
//
// Guards: an order that already carries a shipment record is rejected with
// order.ErrShipmentAlreadyAttached (void first), and the destination must be
// complete for carrier calls. On success the shipment record is persisted
// and a WaybillCreated event is published after commit.
func (h *GenerateLabelCommandHandler) Handle(ctx context.Context, cmd GenerateLabelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	event, err := h.labelOrder(ctx, cmd)
	if err != nil {
		return err
	}

	// Published after the per-order lock is released: subscribers run
	// follow-up commands that take the same lock.
	h.publisher.PublishWaybillCreated(ctx, event)

	return nil
}

// labelOrder runs the labeling workflow under the per-order lock and returns
// the event to publish once the lock is released.
func (h *GenerateLabelCommandHandler) labelOrder(
	ctx context.Context,
	cmd GenerateLabelCommand,
) (ports.WaybillCreated, error) {
	h.locks.Lock(cmd.OrderID().String())
	defer h.locks.Unlock(cmd.OrderID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.WaybillCreated{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ports.WaybillCreated{}, err
	}

	if o.HasShipment() {
		return ports.WaybillCreated{}, order.ErrShipmentAlreadyAttached
	}
	if err = o.Destination().ValidateComplete(); err != nil {
		return ports.WaybillCreated{}, err
	}

	packages, err := h.planner.Plan(o)
	if err != nil {
		return ports.WaybillCreated{}, err
	}

	h.preRegisterParcel(ctx, o)

	record, err := h.createShipments(ctx, o, packages)
	if err != nil {
		return ports.WaybillCreated{}, err
	}

	if err = o.AttachShipment(record); err != nil {
		return ports.WaybillCreated{}, err
	}
	o.AddNote(h.now(), "waybill created")

	if err = orderRepo.Update(ctx, o); err != nil {
		return ports.WaybillCreated{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ports.WaybillCreated{}, err
	}

	return ports.WaybillCreated{
		OrderID:         o.ID(),
		OrderNumber:     o.Number(),
		TrackingNumbers: record.TrackingNumbers(),
		OccurredAt:      h.now(),
	}, nil
}

// preRegisterParcel announces the parcel contents ahead of labeling.
// Failures never block labeling; they are recorded on the order and logged.
func (h *GenerateLabelCommandHandler) preRegisterParcel(ctx context.Context, o *order.Order) {
	if o.PreRegistration().Blocked() {
		return
	}

	err := h.carrier.PreRegisterParcel(ctx, ports.PreRegisterParcelRequest{
		OrderNumber: o.Number(),
		Destination: o.Destination(),
		Currency:    o.Currency(),
		Items:       o.ShippableItems(),
	})
	if err != nil {
		o.RecordPreRegistrationError(h.now(), err.Error())
		h.logger.Warn("parcel pre-registration failed",
			zap.String("order_id", o.ID().String()),
			zap.Error(err))
		return
	}

	o.MarkPreRegistered(h.now())
}

// createShipments labels every package and assembles the shipment record.
func (h *GenerateLabelCommandHandler) createShipments(
	ctx context.Context,
	o *order.Order,
	packages []shipment.PackageDescriptor,
) (*shipment.Record, error) {
	forms := ports.CustomsForms{
		InvoiceNumber:   o.Number(),
		InvoiceDate:     h.now(),
		ReasonForExport: reasonForExportSale,
		Incoterm:        incotermDAP,
		Currency:        o.Currency(),
		LineTotal:       math.Max(o.Total().Amount(), minInvoiceLineTotal),
		Items:           o.ShippableItems(),
	}

	var (
		shipmentIDs     []string
		trackingNumbers []string
		labels          []string
		labelFormat     string
	)

	for i, pkg := range packages {
		resp, err := h.carrier.CreateShipment(ctx, ports.CreateShipmentRequest{
			Shipper:     h.shipper,
			Destination: o.Destination(),
			Package:     pkg,
			Customs:     forms,
		})
		if err != nil {
			h.logger.Error("labeling aborted, earlier labels are not voided",
				zap.String("order_id", o.ID().String()),
				zap.Int("failed_package", i+1),
				zap.Int("package_count", len(packages)),
				zap.Strings("tracking_numbers", trackingNumbers),
				zap.Error(err))
			return nil, err
		}

		shipmentIDs = append(shipmentIDs, resp.ShipmentID)
		trackingNumbers = append(trackingNumbers, resp.TrackingNumber)
		labels = append(labels, resp.LabelImage)
		labelFormat = resp.LabelFormat
	}

	return shipment.NewRecord(shipmentIDs, trackingNumbers, labels, labelFormat, h.now())
}
