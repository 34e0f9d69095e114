package ups

import (
	"context"
	"encoding/json"
	"net/http"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// Rate prices the package set through the Rating API with negotiated rates
// requested. Negotiated charges are preferred over published ones; a
// response carrying neither yields ErrNoRateFromProvider, never a zero or
// synthetic amount.
func (c *Client) Rate(ctx context.Context, req ports.RateRequest) (ports.RateResponse, error) {
	payload := rateRequest{
		RateRequest: rateRequestBody{
			Request: requestOptions{
				RequestOption:        "Rate",
				TransactionReference: transactionReference{CustomerContext: "rate simulation"},
			},
			Shipment: rateShipment{
				Shipper:                c.shipperParty(req.Shipper),
				ShipTo:                 toParty(req.Destination),
				ShipFrom:               shipFromParty(req.Shipper),
				PickupType:             codeRef{Code: pickupTypeDaily},
				CustomerClassification: codeRef{Code: customerClassificationRates},
				Service:                codeRef{Code: serviceCodeWorldwideEconomy},
				Package:                toWirePackages(req.Packages),
				PaymentInformation:     c.defaultPayment(),
				ShipmentRatingOptions:  ratingOptions{NegotiatedRatesIndicator: "1"},
			},
		},
	}

	raw, err := c.doRequest(ctx, "rate", http.MethodPost, c.cfg.RateEndpoint, payload, nil)
	if err != nil {
		return ports.RateResponse{}, err
	}

	var decoded rateResponse
	if err = json.Unmarshal(raw, &decoded); err != nil {
		return ports.RateResponse{}, errs.NewProviderErrorWithCause("rate", err)
	}

	rated := decoded.RateResponse.RatedShipment
	if len(rated) == 0 {
		return ports.RateResponse{}, ports.ErrNoRateFromProvider
	}

	charge, negotiated := pickCharge(rated[0])
	if charge == nil || charge.MonetaryValue == "" {
		return ports.RateResponse{}, ports.ErrNoRateFromProvider
	}

	amount, err := parseAmount("rate", charge.MonetaryValue)
	if err != nil {
		return ports.RateResponse{}, err
	}

	total, err := kernel.NewMoney(amount, charge.CurrencyCode)
	if err != nil {
		return ports.RateResponse{}, errs.NewProviderErrorWithCause("rate", err)
	}

	return ports.RateResponse{Total: total, Negotiated: negotiated}, nil
}

// pickCharge prefers account-negotiated charges over published ones.
func pickCharge(rated ratedShipment) (charge *monetary, negotiated bool) {
	if c := rated.NegotiatedRateCharges.TotalCharge; c != nil && c.MonetaryValue != "" {
		return c, true
	}
	return rated.TotalCharges, false
}
