package queries

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrSimulateRateQueryIsNotConstructed = errors.New(
	"SimulateRateQuery must be created via NewSimulateRateQuery constructor",
)

// SimulateRateQuery asks the carrier for a live shipping quote for an order
// without buying a label. The quote reflects the same package plan a real
// labeling run would use.
type SimulateRateQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSimulateRateQuery creates a query for a live rate quote.
func NewSimulateRateQuery(orderID kernel.UUID) (SimulateRateQuery, error) {
	q := SimulateRateQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setOrderID(orderID); err != nil {
		return SimulateRateQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q SimulateRateQuery) Validate() error {
	return q.guard.Validate(ErrSimulateRateQueryIsNotConstructed)
}

// OrderID returns the unique identifier of the order.
func (q SimulateRateQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *SimulateRateQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}
