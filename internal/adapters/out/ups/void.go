package ups

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"shipping/internal/core/domain/model/shipment"
	"shipping/internal/pkg/errs"
)

// Void error codes the carrier returns for a shipment that was already
// canceled. Both count as success: the desired end state holds.
const (
	codeAlreadyVoided        = "190117"
	codeAlreadyVoidedPartial = "190118"
)

// VoidShipment cancels one shipment through the Void API: DELETE on
// {void}/cancel/{identifier} with no body.
func (c *Client) VoidShipment(ctx context.Context, identifier string) (shipment.VoidOutcome, error) {
	if c.cfg.VoidEndpoint == "" {
		return shipment.VoidFailed, errs.NewConfigError("voidEndpoint")
	}

	endpoint := strings.TrimRight(c.cfg.VoidEndpoint, "/") + "/cancel/" + url.PathEscape(identifier)

	_, err := c.doRequest(ctx, "void_shipment", http.MethodDelete, endpoint, nil, nil)
	if err != nil {
		var providerErr *errs.ProviderError
		if errors.As(err, &providerErr) &&
			(providerErr.Code == codeAlreadyVoided || providerErr.Code == codeAlreadyVoidedPartial) {
			return shipment.AlreadyVoided, nil
		}
		return shipment.VoidFailed, err
	}

	return shipment.Voided, nil
}
