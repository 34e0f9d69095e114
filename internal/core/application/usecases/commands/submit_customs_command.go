package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrSubmitCustomsCommandIsNotConstructed = errors.New(
	"SubmitCustomsCommand must be created via NewSubmitCustomsCommand constructor",
)

// SubmitCustomsCommand represents one customs submission attempt for an
// order, fired by the scheduler when the attempt is due or manually through
// the admin API.
type SubmitCustomsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSubmitCustomsCommand creates a command to run a customs submission
// attempt for the order.
func NewSubmitCustomsCommand(orderID kernel.UUID) (SubmitCustomsCommand, error) {
	cmd := SubmitCustomsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return SubmitCustomsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitCustomsCommand) Validate() error {
	return c.guard.Validate(ErrSubmitCustomsCommandIsNotConstructed)
}

// OrderID returns the unique identifier of the order.
func (c SubmitCustomsCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *SubmitCustomsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
