package ups

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// ValidateAddress checks an address through the Address Validation (XAV)
// API. Candidate addresses are flattened into display strings.
func (c *Client) ValidateAddress(
	ctx context.Context,
	address kernel.Address,
) (ports.AddressValidationResult, error) {
	if c.cfg.AddressValidateEndpoint == "" {
		return ports.AddressValidationResult{}, errs.NewConfigError("addressValidateEndpoint")
	}

	payload := xavRequest{
		XAVRequest: xavRequestBody{
			Request: requestOptions{
				RequestOption:        "1",
				TransactionReference: transactionReference{CustomerContext: "address validation"},
			},
			AddressKeyFormat: addressKeyFormat{
				AddressLine:        addressLines(address),
				PoliticalDivision2: address.City(),
				PoliticalDivision1: address.State(),
				PostcodePrimaryLow: address.PostalCode(),
				CountryCode:        address.CountryCode(),
			},
		},
	}

	raw, err := c.doRequest(ctx, "validate_address", http.MethodPost, c.cfg.AddressValidateEndpoint, payload, nil)
	if err != nil {
		return ports.AddressValidationResult{}, err
	}

	var decoded xavResponse
	if err = json.Unmarshal(raw, &decoded); err != nil {
		return ports.AddressValidationResult{}, errs.NewProviderErrorWithCause("validate_address", err)
	}

	body := decoded.XAVResponse
	result := ports.AddressValidationResult{
		Valid:     body.ValidAddressIndicator != nil,
		Ambiguous: body.AmbiguousAddressIndicator != nil,
	}
	for _, candidate := range body.Candidate {
		result.Candidates = append(result.Candidates, formatCandidate(candidate.AddressKeyFormat))
	}

	return result, nil
}

func formatCandidate(key addressKeyFormat) string {
	parts := make([]string, 0, 4)
	parts = append(parts, key.AddressLine...)
	if key.PoliticalDivision2 != "" {
		parts = append(parts, key.PoliticalDivision2)
	}
	if key.PostcodePrimaryLow != "" {
		parts = append(parts, key.PostcodePrimaryLow)
	}
	if key.CountryCode != "" {
		parts = append(parts, key.CountryCode)
	}
	return strings.Join(parts, ", ")
}
