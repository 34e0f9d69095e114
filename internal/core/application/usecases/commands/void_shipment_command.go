package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrVoidShipmentCommandIsNotConstructed = errors.New(
	"VoidShipmentCommand must be created via NewVoidShipmentCommand constructor",
)

// VoidShipmentCommand represents a request to void an order's shipments with
// the carrier. Identifiers may be passed explicitly; when omitted, the
// order's recorded shipment identifiers are used.
type VoidShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	identifiers []string

	guard guard.ConstructorGuard
}

// NewVoidShipmentCommand creates a command to void the order's shipments.
// identifiers may be nil to void everything recorded on the order.
func NewVoidShipmentCommand(orderID kernel.UUID, identifiers []string) (VoidShipmentCommand, error) {
	cmd := VoidShipmentCommand{
		identifiers: append([]string(nil), identifiers...),
		guard:       guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return VoidShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VoidShipmentCommand) Validate() error {
	return c.guard.Validate(ErrVoidShipmentCommandIsNotConstructed)
}

// OrderID returns the unique identifier of the order to void.
func (c VoidShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Identifiers returns the explicit identifiers to void, empty when the
// order's recorded identifiers should be used.
func (c VoidShipmentCommand) Identifiers() []string {
	return append([]string(nil), c.identifiers...)
}

func (c *VoidShipmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
