package ups

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// UploadCustomsDocument stores a plain-text commercial invoice through the
// Paperless Documents v2 upload API and returns the document id. The shipper
// account number travels in the ShipperNumber header, not the body.
func (c *Client) UploadCustomsDocument(
	ctx context.Context,
	req ports.UploadDocumentRequest,
) (string, error) {
	if c.cfg.PaperlessUploadEndpoint == "" {
		return "", errs.NewConfigError("paperlessUploadEndpoint")
	}

	payload := uploadRequest{
		UploadRequest: uploadRequestBody{
			Request: paperlessRequest{
				TransactionReference: transactionReference{CustomerContext: "customs document upload"},
			},
			UserCreatedForm: userCreatedForm{
				FileName:     req.FileName,
				File:         base64.StdEncoding.EncodeToString(req.Content),
				FileFormat:   "txt",
				DocumentType: paperlessDocTypeInvoice,
			},
		},
	}

	headers := map[string]string{"ShipperNumber": c.cfg.AccountNumber}
	raw, err := c.doRequest(ctx, "upload_document", http.MethodPost, c.cfg.PaperlessUploadEndpoint, payload, headers)
	if err != nil {
		return "", err
	}

	var decoded uploadResponse
	if err = json.Unmarshal(raw, &decoded); err != nil {
		return "", errs.NewProviderErrorWithCause("upload_document", err)
	}

	ids := decoded.UploadResponse.FormsHistoryDocumentID.DocumentID
	if len(ids) == 0 || ids[0] == "" {
		return "", errs.NewProviderError("upload_document", http.StatusOK, "",
			"upload response carried no DocumentID")
	}

	return ids[0], nil
}

// LinkDocumentToTracking attaches an uploaded document to a shipment through
// the Paperless Documents v2 push-to-image API. ShipmentDateAndTime uses the
// API's own yyyy-MM-dd-HH.mm.ss layout.
func (c *Client) LinkDocumentToTracking(ctx context.Context, req ports.LinkDocumentRequest) error {
	if c.cfg.PaperlessImageEndpoint == "" {
		return errs.NewConfigError("paperlessImageEndpoint")
	}

	shipmentIdentifier := req.ShipmentID
	if shipmentIdentifier == "" {
		shipmentIdentifier = req.TrackingNumber
	}

	body := pushToImageRequestBody{
		Request: paperlessRequest{
			TransactionReference: transactionReference{CustomerContext: "customs document link"},
		},
		ShipmentIdentifier:  shipmentIdentifier,
		ShipmentDateAndTime: req.ShipmentDateTime.Format(paperlessDateLayout),
		ShipmentType:        paperlessShipmentTypeSmall,
		TrackingNumber:      []string{req.TrackingNumber},
	}
	body.FormsHistoryDocumentID.DocumentID = []string{req.DocumentID}

	headers := map[string]string{"ShipperNumber": c.cfg.AccountNumber}
	raw, err := c.doRequest(ctx, "link_document", http.MethodPost, c.cfg.PaperlessImageEndpoint,
		pushToImageRequest{PushToImageRepositoryRequest: body}, headers)
	if err != nil {
		return err
	}

	var decoded pushToImageResponse
	if err = json.Unmarshal(raw, &decoded); err != nil {
		return errs.NewProviderErrorWithCause("link_document", err)
	}
	if decoded.PushToImageRepositoryResponse == nil {
		return errs.NewProviderError("link_document", http.StatusOK, "",
			"link response in unexpected format")
	}

	return nil
}
