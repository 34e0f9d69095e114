package shipment

import (
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

// ErrRateQuoteIsNotConstructed is returned when a RateQuote was not created
// via NewRateQuote.
var ErrRateQuoteIsNotConstructed = errs.NewValueIsRequiredError(
	"rate quote must be created via NewRateQuote constructor")

// RateQuote is the ephemeral result of a rate simulation: the total cost
// including any handling fee, the weight the quote was computed for, and
// whether the carrier returned account-negotiated pricing. Quotes are never
// persisted.
type RateQuote struct {
	cost           kernel.Money
	billedWeightKg float64
	negotiated     bool

	guard guard.ConstructorGuard
}

// NewRateQuote creates a RateQuote.
func NewRateQuote(cost kernel.Money, billedWeightKg float64, negotiated bool) (RateQuote, error) {
	if err := cost.Validate(); err != nil {
		return RateQuote{}, err
	}

	return RateQuote{
		cost:           cost,
		billedWeightKg: billedWeightKg,
		negotiated:     negotiated,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the quote was created through NewRateQuote.
func (q RateQuote) Validate() error {
	return q.guard.Validate(ErrRateQuoteIsNotConstructed)
}

// Cost returns the quoted total, handling fee included.
func (q RateQuote) Cost() kernel.Money { return q.cost }

// BilledWeightKg returns the total weight the quote covers.
func (q RateQuote) BilledWeightKg() float64 { return q.billedWeightKg }

// Negotiated reports whether the carrier returned negotiated pricing.
func (q RateQuote) Negotiated() bool { return q.negotiated }
