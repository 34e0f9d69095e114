package services

import (
	"errors"
	"fmt"
	"math"

	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/shipment"
	"shipping/internal/pkg/errs"
)

var (
	// ErrNoShippableItems is returned when an order contains no items that
	// require shipping, so there is nothing to plan.
	ErrNoShippableItems = errors.New("order has no shippable items")

	// ErrItemWeightMissing is returned when a shippable item has no positive
	// weight. Planning never guesses weights.
	ErrItemWeightMissing = errors.New("shippable item has no positive weight")

	// ErrTooManyPackages is returned when splitting the order would exceed
	// the maximum package count.
	ErrTooManyPackages = errors.New("order exceeds the maximum package count")
)

// Box tier dimensions in centimeters. The tier is picked by total weight;
// split shipments always use the large box.
const (
	smallBoxName  = "small"
	mediumBoxName = "medium"
	largeBoxName  = "large"

	boxSideCm        = 33
	smallBoxHeightCm = 4
	mediumBoxHeight  = 10
	largeBoxHeightCm = 33

	smallBoxMaxKg  = 5.0
	mediumBoxMaxKg = 12.0
)

// Planner defaults.
const (
	DefaultWeightCeilingKg    = 15.0
	DefaultMinPackageWeightKg = 0.1
	DefaultMaxPackages        = 10
)

// PlannerConfig carries the tunable planning limits.
type PlannerConfig struct {
	// WeightCeilingKg is the maximum weight of a single package. Orders
	// heavier than this are split.
	WeightCeilingKg float64

	// MinPackageWeightKg is the minimum weight ever reported to the carrier.
	MinPackageWeightKg float64

	// MaxPackages is the maximum number of packages per shipment.
	MaxPackages int
}

// DefaultPlannerConfig returns the stock limits: 15 kg ceiling, 0.1 kg
// minimum, 10 packages.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		WeightCeilingKg:    DefaultWeightCeilingKg,
		MinPackageWeightKg: DefaultMinPackageWeightKg,
		MaxPackages:        DefaultMaxPackages,
	}
}

// PackagePlanner is a domain service that turns an order's shippable items
// into the package set sent to the carrier for rating and labeling.
//
// Business rules:
//   - Items not requiring shipping are skipped
//   - Every shippable item must have a positive weight; planning never guesses
//   - Total weight at or under the ceiling yields a single package whose box
//     tier is picked by weight (small ≤5 kg, medium ≤12 kg, large otherwise)
//   - Heavier orders are divided into ceil(total/ceiling) equal-weight
//     packages, all in the large box, labeled "Box i/n"
//   - Package weights are clamped to the configured minimum
//   - Plans exceeding the maximum package count fail rather than truncate
//
// Planning is deterministic: equal inputs produce equal plans.
type PackagePlanner struct {
	config PlannerConfig
}

// NewPackagePlanner creates a PackagePlanner with validated limits.
func NewPackagePlanner(config PlannerConfig) (PackagePlanner, error) {
	if config.WeightCeilingKg <= 0 {
		return PackagePlanner{}, errs.NewValueIsInvalidErrorWithCause("weightCeilingKg",
			fmt.Errorf("%v is not greater than 0", config.WeightCeilingKg))
	}
	if config.MinPackageWeightKg <= 0 || config.MinPackageWeightKg > config.WeightCeilingKg {
		return PackagePlanner{}, errs.NewValueIsOutOfRangeError("minPackageWeightKg",
			config.MinPackageWeightKg, 0.0, config.WeightCeilingKg)
	}
	if config.MaxPackages <= 0 {
		return PackagePlanner{}, errs.NewValueIsInvalidErrorWithCause("maxPackages",
			fmt.Errorf("%d is not greater than 0", config.MaxPackages))
	}

	return PackagePlanner{config: config}, nil
}

// Plan computes the package set for the order.
//
// Returns:
//   - one descriptor when the total shippable weight fits under the ceiling
//   - ceil(total/ceiling) equal-weight descriptors otherwise
//   - ErrNoShippableItems, ErrItemWeightMissing or ErrTooManyPackages on the
//     corresponding rule violations
func (p PackagePlanner) Plan(o *order.Order) ([]shipment.PackageDescriptor, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	totalKg, err := p.totalShippableWeight(o)
	if err != nil {
		return nil, err
	}

	if totalKg <= p.config.WeightCeilingKg {
		pkg, err := p.singlePackage(totalKg)
		if err != nil {
			return nil, err
		}
		return []shipment.PackageDescriptor{pkg}, nil
	}

	return p.splitPackages(totalKg)
}

// totalShippableWeight sums the shippable item weights, clamped to the
// configured minimum.
func (p PackagePlanner) totalShippableWeight(o *order.Order) (float64, error) {
	items := o.ShippableItems()
	if len(items) == 0 {
		return 0, ErrNoShippableItems
	}

	total := 0.0
	for _, item := range items {
		if item.UnitWeightKg() <= 0 {
			return 0, fmt.Errorf("%w: %s", ErrItemWeightMissing, item.ProductRef())
		}
		total += item.TotalWeightKg()
	}

	return math.Max(total, p.config.MinPackageWeightKg), nil
}

// singlePackage builds the one-package plan with the box tier picked by
// weight.
func (p PackagePlanner) singlePackage(weightKg float64) (shipment.PackageDescriptor, error) {
	switch {
	case weightKg <= smallBoxMaxKg:
		return shipment.NewPackageDescriptor(smallBoxName, boxSideCm, boxSideCm, smallBoxHeightCm, weightKg, "")
	case weightKg <= mediumBoxMaxKg:
		return shipment.NewPackageDescriptor(mediumBoxName, boxSideCm, boxSideCm, mediumBoxHeight, weightKg, "")
	default:
		return shipment.NewPackageDescriptor(largeBoxName, boxSideCm, boxSideCm, largeBoxHeightCm, weightKg, "")
	}
}

// splitPackages divides the total weight into equal packages in the large
// box, each labeled "Box i/n". The weight sum is preserved.
func (p PackagePlanner) splitPackages(totalKg float64) ([]shipment.PackageDescriptor, error) {
	count := int(math.Ceil(totalKg / p.config.WeightCeilingKg))
	if count > p.config.MaxPackages {
		return nil, fmt.Errorf("%w: %d packages needed, %d allowed",
			ErrTooManyPackages, count, p.config.MaxPackages)
	}

	perPackageKg := math.Max(totalKg/float64(count), p.config.MinPackageWeightKg)

	packages := make([]shipment.PackageDescriptor, 0, count)
	for i := 1; i <= count; i++ {
		pkg, err := shipment.NewPackageDescriptor(
			largeBoxName, boxSideCm, boxSideCm, largeBoxHeightCm,
			perPackageKg, fmt.Sprintf("Box %d/%d", i, count))
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}
