package ports

import (
	"context"
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/shipment"
)

// ErrNoRateFromProvider is returned when the carrier's rating response
// carries neither negotiated nor published charges. A missing rate is never
// substituted with zero or a synthetic value.
var ErrNoRateFromProvider = errors.New("provider returned no usable rate")

// RateRequest asks the carrier to price a package set between two addresses.
type RateRequest struct {
	Shipper     kernel.Address
	Destination kernel.Address
	Packages    []shipment.PackageDescriptor
}

// RateResponse is the carrier's quote. Negotiated reports whether Total came
// from account-specific pricing rather than published rates.
type RateResponse struct {
	Total      kernel.Money
	Negotiated bool
}

// CustomsForms carries the commercial invoice data embedded in an
// international labeling request.
type CustomsForms struct {
	InvoiceNumber   string
	InvoiceDate     time.Time
	ReasonForExport string
	Incoterm        string
	Currency        string
	LineTotal       float64
	Items           []order.Item
}

// CreateShipmentRequest asks the carrier to label one package. Multi-package
// orders issue one request per package, sharing shipper, destination and
// customs forms.
type CreateShipmentRequest struct {
	Shipper     kernel.Address
	Destination kernel.Address
	Package     shipment.PackageDescriptor
	Customs     CustomsForms
}

// CreateShipmentResponse is the outcome of labeling one package.
type CreateShipmentResponse struct {
	ShipmentID     string
	TrackingNumber string
	LabelImage     string
	LabelFormat    string
}

// AddressValidationResult reports the carrier's verdict on an address.
type AddressValidationResult struct {
	Valid      bool
	Ambiguous  bool
	Candidates []string
}

// UploadDocumentRequest uploads one customs document to the carrier's
// paperless document store.
type UploadDocumentRequest struct {
	FileName string
	Content  []byte
}

// LinkDocumentRequest attaches an uploaded document to a labeled shipment.
type LinkDocumentRequest struct {
	DocumentID       string
	ShipmentID       string
	TrackingNumber   string
	ShipmentDateTime time.Time
}

// PreRegisterParcelRequest announces parcel contents to the carrier ahead of
// labeling.
type PreRegisterParcelRequest struct {
	OrderNumber string
	Destination kernel.Address
	Currency    string
	Items       []order.Item
}

// CarrierClient is the gateway to the shipping provider's HTTP APIs.
//
// Implementations authenticate transparently, bound every call with a
// timeout, and translate provider failures into errs.ProviderError with the
// carrier's error code and description where available. Every method is safe
// for concurrent use.
type CarrierClient interface {
	// Rate prices the package set. Returns ErrNoRateFromProvider when the
	// response carries no usable charges.
	Rate(ctx context.Context, req RateRequest) (RateResponse, error)

	// CreateShipment labels one package and returns tracking number and
	// label image.
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (CreateShipmentResponse, error)

	// VoidShipment cancels one shipment identifier. A shipment the carrier
	// reports as already voided yields (AlreadyVoided, nil); failures yield
	// (VoidFailed, err).
	VoidShipment(ctx context.Context, identifier string) (shipment.VoidOutcome, error)

	// ValidateAddress runs the carrier's address validation.
	ValidateAddress(ctx context.Context, address kernel.Address) (AddressValidationResult, error)

	// UploadCustomsDocument stores a customs document and returns the
	// carrier's document id.
	UploadCustomsDocument(ctx context.Context, req UploadDocumentRequest) (string, error)

	// LinkDocumentToTracking attaches an uploaded document to a shipment.
	LinkDocumentToTracking(ctx context.Context, req LinkDocumentRequest) error

	// PreRegisterParcel announces parcel contents ahead of labeling.
	PreRegisterParcel(ctx context.Context, req PreRegisterParcelRequest) error
}
