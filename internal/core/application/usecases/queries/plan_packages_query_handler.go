package queries

import (
	"context"

	"shipping/internal/core/domain/model/shipment"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
)

// PlanPackagesQueryHandler runs the package planner against the stored order
// and returns the plan as a read model. The plan is computed fresh on every
// call; nothing is persisted.
type PlanPackagesQueryHandler struct {
	orders  ports.OrderRepository
	planner services.PackagePlanner
}

// NewPlanPackagesQueryHandler creates a handler for package plan previews.
func NewPlanPackagesQueryHandler(
	orders ports.OrderRepository,
	planner services.PackagePlanner,
) PlanPackagesQueryHandler {
	return PlanPackagesQueryHandler{orders: orders, planner: planner}
}

// Handle computes the package plan for the order.
func (h PlanPackagesQueryHandler) Handle(
	ctx context.Context,
	query PlanPackagesQuery,
) (PlanPackagesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return PlanPackagesQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return PlanPackagesQueryResponse{}, err
	}

	plan, err := h.planner.Plan(o)
	if err != nil {
		return PlanPackagesQueryResponse{}, err
	}

	packages := make([]PackageView, 0, len(plan))
	for _, pkg := range plan {
		packages = append(packages, newPackageView(pkg))
	}

	return PlanPackagesQueryResponse{Packages: packages}, nil
}

func newPackageView(pkg shipment.PackageDescriptor) PackageView {
	return PackageView{
		Name:          pkg.Name(),
		LengthCm:      pkg.LengthCm(),
		WidthCm:       pkg.WidthCm(),
		HeightCm:      pkg.HeightCm(),
		WeightKg:      pkg.WeightKg(),
		Reference:     pkg.Reference(),
		DimensionUnit: shipment.DimensionUnitCM,
		WeightUnit:    shipment.WeightUnitKGS,
		PackagingType: shipment.PackagingTypeCode,
	}
}
