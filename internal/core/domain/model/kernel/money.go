package kernel

import (
	"fmt"
	"strings"

	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

// ErrMoneyIsNotConstructed is returned when attempting to use an improperly
// initialized Money. Money must be created via NewMoney.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney constructor")

// ErrCurrencyMismatch is returned by operations that combine Money values in
// different currencies. Currencies are never converted implicitly.
var ErrCurrencyMismatch = errs.NewValueIsInvalidError("currency mismatch")

// Money is an immutable monetary amount with an ISO 4217 currency code.
// Amounts are kept as float64 because that is what the carrier wire formats
// use; comparisons of amounts from carrier responses are exact string
// round-trips, not arithmetic results.
type Money struct { //nolint:recvcheck //using for validation
	amount   float64
	currency string

	guard guard.ConstructorGuard
}

// NewMoney creates a Money. The currency must be a three-letter code;
// negative amounts are rejected.
func NewMoney(amount float64, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter currency code", currency))
	}
	if amount < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount, 0.0, "+inf")
	}

	return Money{
		amount:   amount,
		currency: currency,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Money was created through NewMoney.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the monetary amount.
func (m Money) Amount() float64 { return m.amount }

// Currency returns the ISO 4217 currency code.
func (m Money) Currency() string { return m.currency }

// Add returns the sum of two Money values. Both must be constructed and in
// the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if err := other.Validate(); err != nil {
		return Money{}, err
	}
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return NewMoney(m.amount+other.amount, m.currency)
}

// IsEqual compares amount and currency. Both values must be constructed.
func (m Money) IsEqual(other Money) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}
	if err := other.Validate(); err != nil {
		return false, err
	}
	return m.amount == other.amount && m.currency == other.currency, nil
}

// String returns a human readable representation, e.g. "12.50 USD".
func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.amount, m.currency)
}
