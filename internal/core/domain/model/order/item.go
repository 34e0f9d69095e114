package order

import (
	"errors"
	"fmt"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created via
// NewItem.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"item must be created via NewItem constructor")

// Item is one order line: a product reference, a quantity, the per-unit
// weight and declared value, and the customs attributes printed on the
// commercial invoice. Items that do not require shipping (virtual or
// downloadable products) are skipped by package planning.
type Item struct { //nolint:recvcheck //using for validation
	productRef       string
	description      string
	quantity         int
	unitWeightKg     float64
	unitValue        kernel.Money
	htsCode          string
	originCountry    string
	requiresShipping bool

	guard guard.ConstructorGuard
}

// NewItem creates an Item. The product reference and a positive quantity are
// mandatory; the unit weight may be zero here and is validated by package
// planning, which rejects shippable items without a usable weight.
func NewItem(
	productRef, description string,
	quantity int,
	unitWeightKg float64,
	unitValue kernel.Money,
	htsCode, originCountry string,
	requiresShipping bool,
) (Item, error) {
	item := Item{
		description:      description,
		unitWeightKg:     unitWeightKg,
		htsCode:          htsCode,
		originCountry:    originCountry,
		requiresShipping: requiresShipping,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductRef(productRef),
		item.setQuantity(quantity),
		item.setUnitValue(unitValue),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ProductRef returns the product reference (SKU).
func (i Item) ProductRef() string { return i.productRef }

// Description returns the human-readable product description.
func (i Item) Description() string { return i.description }

// Quantity returns the ordered quantity.
func (i Item) Quantity() int { return i.quantity }

// UnitWeightKg returns the per-unit weight in kilograms.
func (i Item) UnitWeightKg() float64 { return i.unitWeightKg }

// UnitValue returns the per-unit declared value.
func (i Item) UnitValue() kernel.Money { return i.unitValue }

// HTSCode returns the harmonized tariff code, empty when not captured.
func (i Item) HTSCode() string { return i.htsCode }

// OriginCountry returns the country of origin code, empty when not captured.
func (i Item) OriginCountry() string { return i.originCountry }

// RequiresShipping reports whether the item occupies package space.
func (i Item) RequiresShipping() bool { return i.requiresShipping }

// TotalWeightKg returns quantity × unit weight.
func (i Item) TotalWeightKg() float64 {
	return float64(i.quantity) * i.unitWeightKg
}

// TotalValue returns quantity × unit value.
func (i Item) TotalValue() (kernel.Money, error) {
	return kernel.NewMoney(float64(i.quantity)*i.unitValue.Amount(), i.unitValue.Currency())
}

func (i *Item) setProductRef(productRef string) error {
	if productRef == "" {
		return errs.NewValueIsRequiredError("productRef")
	}
	i.productRef = productRef
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitValue(unitValue kernel.Money) error {
	if err := unitValue.Validate(); err != nil {
		return err
	}
	i.unitValue = unitValue
	return nil
}
