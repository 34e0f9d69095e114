package ups

import (
	"context"
	"net/http"

	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// PreRegisterParcel announces parcel contents ahead of labeling. The
// endpoint is optional; when unconfigured the call fails with a ConfigError
// and the caller treats it as a non-blocking miss.
func (c *Client) PreRegisterParcel(ctx context.Context, req ports.PreRegisterParcelRequest) error {
	if c.cfg.PreRegisterEndpoint == "" {
		return errs.NewConfigError("preRegisterEndpoint")
	}

	items := make([]preRegisterItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, preRegisterItem{
			SKU:         item.ProductRef(),
			Description: item.Description(),
			Quantity:    item.Quantity(),
			Value:       item.UnitValue().Amount(),
			WeightKg:    item.UnitWeightKg(),
			HSCode:      item.HTSCode(),
			Origin:      item.OriginCountry(),
		})
	}

	payload := preRegisterRequest{
		OrderNumber: req.OrderNumber,
		Currency:    req.Currency,
		AddressInfo: preRegisterAddress{
			Name:        req.Destination.Name(),
			Street1:     req.Destination.AddressLine1(),
			Street2:     req.Destination.AddressLine2(),
			City:        req.Destination.City(),
			Region:      req.Destination.State(),
			PostCode:    req.Destination.PostalCode(),
			CountryCode: req.Destination.CountryCode(),
			Phone:       req.Destination.Phone(),
			Email:       req.Destination.Email(),
		},
		ItemDetails: items,
	}

	_, err := c.doRequest(ctx, "pre_register", http.MethodPost, c.cfg.PreRegisterEndpoint, payload, nil)
	return err
}
