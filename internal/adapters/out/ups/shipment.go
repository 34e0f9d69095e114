package ups

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// CreateShipment labels one package through the Shipping API. International
// forms (the electronic commercial invoice) ride along on the same request.
func (c *Client) CreateShipment(
	ctx context.Context,
	req ports.CreateShipmentRequest,
) (ports.CreateShipmentResponse, error) {
	description := req.Customs.InvoiceNumber
	if description == "" {
		description = "shipment"
	}

	payload := shipmentRequest{
		ShipmentRequest: shipmentRequestBody{
			Request: requestOptions{
				RequestOption: "nonvalidate",
				TransactionReference: transactionReference{
					CustomerContext: fmt.Sprintf("label generation - order %s", req.Customs.InvoiceNumber),
				},
			},
			Shipment: wireShipment{
				Description:            clip("Order "+description, maxNameLen),
				Shipper:                c.shipperParty(req.Shipper),
				ShipTo:                 toParty(req.Destination),
				ShipFrom:               shipFromParty(req.Shipper),
				PaymentInformation:     c.defaultPayment(),
				Service:                codeRef{Code: serviceCodeWorldwideEconomy},
				Package:                []wirePackage{toWirePackage(req.Package)},
				InternationalForms:     c.internationalForms(req.Customs),
				PickupType:             codeRef{Code: pickupTypeDaily},
				CustomerClassification: codeRef{Code: customerClassificationRates},
			},
			LabelSpecification: labelSpecification{
				LabelImageFormat: labelImageFormat{Code: strings.ToLower(c.cfg.LabelFormat)},
				LabelStockSize:   labelStockSize{Height: "6", Width: "4"},
			},
		},
	}

	raw, err := c.doRequest(ctx, "create_shipment", http.MethodPost, c.cfg.ShipEndpoint, payload, nil)
	if err != nil {
		return ports.CreateShipmentResponse{}, err
	}

	var decoded shipmentResponse
	if err = json.Unmarshal(raw, &decoded); err != nil {
		return ports.CreateShipmentResponse{}, errs.NewProviderErrorWithCause("create_shipment", err)
	}

	results := decoded.ShipmentResponse.ShipmentResults
	if len(results.PackageResults) == 0 {
		return ports.CreateShipmentResponse{}, errs.NewProviderError(
			"create_shipment", http.StatusOK, "", "response carried no package results")
	}

	pkg := results.PackageResults[0]
	if pkg.TrackingNumber == "" || pkg.ShippingLabel.GraphicImage == "" {
		return ports.CreateShipmentResponse{}, errs.NewProviderError(
			"create_shipment", http.StatusOK, "", "response missing tracking number or label image")
	}

	format := pkg.ShippingLabel.ImageFormat.Code
	if format == "" {
		format = c.cfg.LabelFormat
	}

	return ports.CreateShipmentResponse{
		ShipmentID:     results.ShipmentIdentificationNumber,
		TrackingNumber: pkg.TrackingNumber,
		LabelImage:     pkg.ShippingLabel.GraphicImage,
		LabelFormat:    format,
	}, nil
}

// internationalForms builds the electronic invoice block. The invoice line
// total is clamped to the carrier's 1.00 minimum upstream.
func (c *Client) internationalForms(customs ports.CustomsForms) internationalForms {
	return internationalForms{
		FormType:        formTypeInvoice,
		InvoiceNumber:   customs.InvoiceNumber,
		InvoiceDate:     customs.InvoiceDate.Format("20060102"),
		ReasonForExport: customs.ReasonForExport,
		TermsOfShipment: customs.Incoterm,
		CurrencyCode:    customs.Currency,
		Product:         toWireProducts(customs.Items),
		InvoiceLineTotal: monetary{
			CurrencyCode:  customs.Currency,
			MonetaryValue: formatAmount(customs.LineTotal),
		},
	}
}
