package shipment

import (
	"errors"
	"fmt"

	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

// Carrier wire constants shared by every package payload.
const (
	// DimensionUnitCM is the dimension unit sent to the carrier.
	DimensionUnitCM = "CM"

	// WeightUnitKGS is the weight unit sent to the carrier.
	WeightUnitKGS = "KGS"

	// PackagingTypeCode is the carrier packaging type for customer-supplied
	// packages.
	PackagingTypeCode = "02"
)

// ErrPackageDescriptorIsNotConstructed is returned when a PackageDescriptor
// was not created via NewPackageDescriptor.
var ErrPackageDescriptorIsNotConstructed = errs.NewValueIsRequiredError(
	"package descriptor must be created via NewPackageDescriptor constructor")

// PackageDescriptor is an immutable description of one physical package to
// be rated or labeled: a named box size, a weight, and an optional reference
// shown on the label ("Box i/n" for split shipments).
type PackageDescriptor struct { //nolint:recvcheck //using for validation
	name      string
	lengthCm  float64
	widthCm   float64
	heightCm  float64
	weightKg  float64
	reference string

	guard guard.ConstructorGuard
}

// NewPackageDescriptor creates a PackageDescriptor. All dimensions and the
// weight must be positive.
func NewPackageDescriptor(name string, lengthCm, widthCm, heightCm, weightKg float64, reference string) (PackageDescriptor, error) {
	p := PackageDescriptor{
		reference: reference,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setName(name),
		p.setDimensions(lengthCm, widthCm, heightCm),
		p.setWeight(weightKg),
	); err != nil {
		return PackageDescriptor{}, err
	}

	return p, nil
}

// Validate ensures the descriptor was created through NewPackageDescriptor.
func (p PackageDescriptor) Validate() error {
	return p.guard.Validate(ErrPackageDescriptorIsNotConstructed)
}

// Name returns the box size name, e.g. "small", "medium", "large".
func (p PackageDescriptor) Name() string { return p.name }

// LengthCm returns the package length in centimeters.
func (p PackageDescriptor) LengthCm() float64 { return p.lengthCm }

// WidthCm returns the package width in centimeters.
func (p PackageDescriptor) WidthCm() float64 { return p.widthCm }

// HeightCm returns the package height in centimeters.
func (p PackageDescriptor) HeightCm() float64 { return p.heightCm }

// WeightKg returns the package weight in kilograms.
func (p PackageDescriptor) WeightKg() float64 { return p.weightKg }

// Reference returns the label reference, empty for single-package shipments.
func (p PackageDescriptor) Reference() string { return p.reference }

func (p *PackageDescriptor) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *PackageDescriptor) setDimensions(lengthCm, widthCm, heightCm float64) error {
	if lengthCm <= 0 || widthCm <= 0 || heightCm <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("dimensions",
			fmt.Errorf("%vx%vx%v: all dimensions must be positive", lengthCm, widthCm, heightCm))
	}
	p.lengthCm = lengthCm
	p.widthCm = widthCm
	p.heightCm = heightCm
	return nil
}

func (p *PackageDescriptor) setWeight(weightKg float64) error {
	if weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg",
			fmt.Errorf("%v is not greater than 0", weightKg))
	}
	p.weightKg = weightKg
	return nil
}
