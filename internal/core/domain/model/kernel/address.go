package kernel

import (
	"errors"
	"fmt"
	"strings"

	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly
// initialized Address. Addresses must be created via NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// ErrAddressIncomplete is returned when an address lacks the fields the
// carrier requires before any rating or labeling call may be made.
var ErrAddressIncomplete = errors.New("address is incomplete")

// postalExemptCountries lists destinations the carrier ships to without a
// postal code. Taken from the carrier's own address validation rules.
func postalExemptCountries() map[string]struct{} {
	return map[string]struct{}{
		"IE": {}, "HK": {}, "AE": {}, "SA": {}, "QA": {}, "PA": {}, "GH": {}, "JM": {},
	}
}

// Address is an immutable value object describing a shipment destination or
// origin. The zero value is invalid; use NewAddress.
//
// Completeness for carrier calls requires a country code, a city, and a
// postal code unless the country is postal-exempt. Completeness is checked
// separately from construction so partially captured addresses can still be
// persisted and repaired later.
type Address struct { //nolint:recvcheck //using for validation
	name         string
	attentionTo  string
	addressLine1 string
	addressLine2 string
	city         string
	state        string
	postalCode   string
	countryCode  string
	phone        string
	email        string

	guard guard.ConstructorGuard
}

// NewAddress creates an Address. The name, first address line and country
// code are mandatory; the remaining fields may be empty and are validated
// lazily by ValidateComplete before carrier calls.
func NewAddress(
	name, attentionTo, addressLine1, addressLine2, city, state, postalCode, countryCode, phone, email string,
) (Address, error) {
	addr := Address{
		attentionTo:  attentionTo,
		addressLine2: addressLine2,
		city:         city,
		state:        state,
		postalCode:   strings.TrimSpace(postalCode),
		phone:        phone,
		email:        email,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		addr.setName(name),
		addr.setAddressLine1(addressLine1),
		addr.setCountryCode(countryCode),
	); err != nil {
		return Address{}, err
	}

	return addr, nil
}

// Validate ensures the Address was created through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// ValidateComplete reports whether the address carries everything the
// carrier requires: country code, city, and postal code unless the country
// is postal-exempt.
func (a Address) ValidateComplete() error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.countryCode == "" {
		return fmt.Errorf("%w: country code is missing", ErrAddressIncomplete)
	}
	if a.city == "" {
		return fmt.Errorf("%w: city is missing", ErrAddressIncomplete)
	}
	if a.postalCode == "" {
		if _, exempt := postalExemptCountries()[a.countryCode]; !exempt {
			return fmt.Errorf("%w: postal code is missing for country %s", ErrAddressIncomplete, a.countryCode)
		}
	}
	return nil
}

// Name returns the recipient or company name.
func (a Address) Name() string { return a.name }

// AttentionTo returns the contact person, falling back to the name when no
// separate contact was captured.
func (a Address) AttentionTo() string {
	if a.attentionTo == "" {
		return a.name
	}
	return a.attentionTo
}

// AddressLine1 returns the first street line.
func (a Address) AddressLine1() string { return a.addressLine1 }

// AddressLine2 returns the optional second street line.
func (a Address) AddressLine2() string { return a.addressLine2 }

// City returns the city.
func (a Address) City() string { return a.city }

// State returns the state or province code.
func (a Address) State() string { return a.state }

// PostalCode returns the postal code.
func (a Address) PostalCode() string { return a.postalCode }

// CountryCode returns the ISO 3166-1 alpha-2 country code.
func (a Address) CountryCode() string { return a.countryCode }

// Phone returns the contact phone number.
func (a Address) Phone() string { return a.phone }

// Email returns the contact email.
func (a Address) Email() string { return a.email }

// IsEqual compares two addresses field by field.
func (a Address) IsEqual(other Address) bool {
	return a.name == other.name &&
		a.addressLine1 == other.addressLine1 &&
		a.addressLine2 == other.addressLine2 &&
		a.city == other.city &&
		a.state == other.state &&
		a.postalCode == other.postalCode &&
		a.countryCode == other.countryCode
}

func (a *Address) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	a.name = name
	return nil
}

func (a *Address) setAddressLine1(line string) error {
	if line == "" {
		return errs.NewValueIsRequiredError("addressLine1")
	}
	a.addressLine1 = line
	return nil
}

func (a *Address) setCountryCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return errs.NewValueIsInvalidErrorWithCause("countryCode",
			fmt.Errorf("%q is not a two-letter country code", code))
	}
	a.countryCode = code
	return nil
}
