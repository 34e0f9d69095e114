package queries

import (
	"context"

	"shipping/internal/core/ports"
)

// ValidateAddressQueryHandler forwards an address to the carrier's address
// validation service.
type ValidateAddressQueryHandler struct {
	carrier ports.CarrierClient
}

// NewValidateAddressQueryHandler creates a handler for address validation.
func NewValidateAddressQueryHandler(carrier ports.CarrierClient) ValidateAddressQueryHandler {
	return ValidateAddressQueryHandler{carrier: carrier}
}

// Handle validates the address with the carrier.
//
// Incomplete addresses are rejected locally before the carrier is called, so
// a missing postal code never costs an API round trip.
func (h ValidateAddressQueryHandler) Handle(
	ctx context.Context,
	query ValidateAddressQuery,
) (ValidateAddressQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ValidateAddressQueryResponse{}, err
	}

	if err := query.Address().ValidateComplete(); err != nil {
		return ValidateAddressQueryResponse{}, err
	}

	result, err := h.carrier.ValidateAddress(ctx, query.Address())
	if err != nil {
		return ValidateAddressQueryResponse{}, err
	}

	return ValidateAddressQueryResponse{
		Valid:      result.Valid,
		Ambiguous:  result.Ambiguous,
		Candidates: result.Candidates,
	}, nil
}
