// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrPlanPackagesQueryIsNotConstructed = errors.New(
	"PlanPackagesQuery must be created via NewPlanPackagesQuery constructor",
)

// PlanPackagesQuery previews the package set an order would ship in, without
// touching the carrier. Useful for showing box sizes and weights in the admin
// UI before a label is bought.
//
// Example:
//
//	query, err := NewPlanPackagesQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	plan, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to plan packages: %w", err)
//	}
//
//	for _, pkg := range plan.Packages {
//	    fmt.Printf("%s box, %.2f kg\n", pkg.Name, pkg.WeightKg)
//	}
type PlanPackagesQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewPlanPackagesQuery creates a query to preview the order's package plan.
func NewPlanPackagesQuery(orderID kernel.UUID) (PlanPackagesQuery, error) {
	q := PlanPackagesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setOrderID(orderID); err != nil {
		return PlanPackagesQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q PlanPackagesQuery) Validate() error {
	return q.guard.Validate(ErrPlanPackagesQueryIsNotConstructed)
}

// OrderID returns the unique identifier of the order.
func (q PlanPackagesQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *PlanPackagesQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// PackageView is one planned package in the read model, carrying the wire
// units the carrier would receive.
type PackageView struct {
	Name          string
	LengthCm      float64
	WidthCm       float64
	HeightCm      float64
	WeightKg      float64
	Reference     string
	DimensionUnit string
	WeightUnit    string
	PackagingType string
}

// PlanPackagesQueryResponse is the order's package plan.
type PlanPackagesQueryResponse struct {
	Packages []PackageView
}
