package queries

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/guard"
)

var ErrValidateAddressQueryIsNotConstructed = errors.New(
	"ValidateAddressQuery must be created via NewValidateAddressQuery constructor",
)

// ValidateAddressQuery checks a destination address against the carrier's
// address validation service before a label is bought.
type ValidateAddressQuery struct { //nolint:recvcheck //using for validation
	address kernel.Address

	guard guard.ConstructorGuard
}

// NewValidateAddressQuery creates a query to validate the address.
func NewValidateAddressQuery(address kernel.Address) (ValidateAddressQuery, error) {
	q := ValidateAddressQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setAddress(address); err != nil {
		return ValidateAddressQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q ValidateAddressQuery) Validate() error {
	return q.guard.Validate(ErrValidateAddressQueryIsNotConstructed)
}

// Address returns the address to validate.
func (q ValidateAddressQuery) Address() kernel.Address {
	return q.address
}

func (q *ValidateAddressQuery) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	q.address = address
	return nil
}

// ValidateAddressQueryResponse is the carrier's verdict. Candidates holds
// suggested corrections when the address is ambiguous.
type ValidateAddressQueryResponse struct {
	Valid      bool
	Ambiguous  bool
	Candidates []string
}
