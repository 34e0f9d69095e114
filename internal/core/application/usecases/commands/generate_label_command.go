package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrGenerateLabelCommandIsNotConstructed = errors.New(
	"GenerateLabelCommand must be created via NewGenerateLabelCommand constructor",
)

// GenerateLabelCommand represents a request to generate shipping labels for
// an order. One carrier labeling call is made per planned package; the
// operation is all-or-nothing from the order's point of view.
//
// Example:
//
//	cmd, err := NewGenerateLabelCommand(orderID)
//	if err != nil {
//	    return fmt.Errorf("invalid labeling request: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("labeling failed: %w", err)
//	}
type GenerateLabelCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGenerateLabelCommand creates a command to generate labels for the order.
func NewGenerateLabelCommand(orderID kernel.UUID) (GenerateLabelCommand, error) {
	cmd := GenerateLabelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return GenerateLabelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c GenerateLabelCommand) Validate() error {
	return c.guard.Validate(ErrGenerateLabelCommandIsNotConstructed)
}

// OrderID returns the unique identifier of the order to label.
func (c GenerateLabelCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *GenerateLabelCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
