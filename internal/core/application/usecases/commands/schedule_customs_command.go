package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrScheduleCustomsCommandIsNotConstructed = errors.New(
	"ScheduleCustomsCommand must be created via NewScheduleCustomsCommand constructor",
)

// ScheduleCustomsCommand represents the customs workflow trigger for an
// order, normally fired by the WaybillCreated event after labeling.
type ScheduleCustomsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewScheduleCustomsCommand creates a command to trigger the customs
// workflow for the order.
func NewScheduleCustomsCommand(orderID kernel.UUID) (ScheduleCustomsCommand, error) {
	cmd := ScheduleCustomsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return ScheduleCustomsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ScheduleCustomsCommand) Validate() error {
	return c.guard.Validate(ErrScheduleCustomsCommandIsNotConstructed)
}

// OrderID returns the unique identifier of the order.
func (c ScheduleCustomsCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ScheduleCustomsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
