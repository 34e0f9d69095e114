package queries

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/shipment"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
)

// SimulateRateQueryHandler prices an order with the carrier: plan the
// packages, request a quote, and apply the configured handling fee on top.
//
// The quote currency must match the order currency. A mismatch means the
// carrier account is configured for a different billing currency and the
// quote would mislead the customer, so the handler fails instead of
// converting.
type SimulateRateQueryHandler struct {
	orders      ports.OrderRepository
	carrier     ports.CarrierClient
	planner     services.PackagePlanner
	shipper     kernel.Address
	handlingFee float64
	logger      *zap.Logger
}

// NewSimulateRateQueryHandler creates a handler for rate simulations.
// handlingFee is a flat surcharge in the quote currency; zero disables it.
func NewSimulateRateQueryHandler(
	orders ports.OrderRepository,
	carrier ports.CarrierClient,
	planner services.PackagePlanner,
	shipper kernel.Address,
	handlingFee float64,
	logger *zap.Logger,
) SimulateRateQueryHandler {
	return SimulateRateQueryHandler{
		orders:      orders,
		carrier:     carrier,
		planner:     planner,
		shipper:     shipper,
		handlingFee: handlingFee,
		logger:      logger.With(zap.String("component", "simulate_rate")),
	}
}

// Handle requests a live quote for the order's package plan.
//
// Returns ErrNoRateFromProvider unchanged when the carrier response carries
// no usable charges, and kernel.ErrCurrencyMismatch when the quote currency
// differs from the order currency.
func (h SimulateRateQueryHandler) Handle(
	ctx context.Context,
	query SimulateRateQuery,
) (shipment.RateQuote, error) {
	if err := query.Validate(); err != nil {
		return shipment.RateQuote{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return shipment.RateQuote{}, err
	}

	if err = o.Destination().ValidateComplete(); err != nil {
		return shipment.RateQuote{}, err
	}

	plan, err := h.planner.Plan(o)
	if err != nil {
		return shipment.RateQuote{}, err
	}

	resp, err := h.carrier.Rate(ctx, ports.RateRequest{
		Shipper:     h.shipper,
		Destination: o.Destination(),
		Packages:    plan,
	})
	if err != nil {
		return shipment.RateQuote{}, err
	}

	total := resp.Total
	if total.Currency() != o.Currency() {
		return shipment.RateQuote{}, fmt.Errorf("%w: quote in %s, order in %s",
			kernel.ErrCurrencyMismatch, total.Currency(), o.Currency())
	}

	if h.handlingFee > 0 {
		fee, feeErr := kernel.NewMoney(h.handlingFee, total.Currency())
		if feeErr != nil {
			return shipment.RateQuote{}, feeErr
		}
		total, err = total.Add(fee)
		if err != nil {
			return shipment.RateQuote{}, err
		}
	}

	billedKg := 0.0
	for _, pkg := range plan {
		billedKg += pkg.WeightKg()
	}

	h.logger.Debug("rate simulated",
		zap.String("order_id", o.ID().String()),
		zap.String("total", total.String()),
		zap.Int("packages", len(plan)),
		zap.Bool("negotiated", resp.Negotiated))

	return shipment.NewRateQuote(total, billedKg, resp.Negotiated)
}
