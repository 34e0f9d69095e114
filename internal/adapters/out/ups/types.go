package ups

import (
	"encoding/json"
	"strconv"
	"time"
)

// Carrier wire codes.
const (
	serviceCodeWorldwideEconomy = "17"
	paymentChargeTransportation = "01"
	pickupTypeDaily             = "01"
	customerClassificationRates = "00"
	formTypeInvoice             = "01"
	paperlessDocTypeInvoice     = "002"
	paperlessShipmentTypeSmall  = "1"

	// paperlessDateLayout is the exact ShipmentDateAndTime format the
	// Paperless Documents API requires: yyyy-MM-dd-HH.mm.ss.
	paperlessDateLayout = "2006-01-02-15.04.05"
)

type authResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// ttl derives the cache lifetime from expires_in with the safety margin
// applied. The provider sends expires_in as a quoted number on some
// environments, hence json.Number.
func (a authResponse) ttl() time.Duration {
	seconds, err := strconv.Atoi(a.ExpiresIn.String())
	if err != nil || seconds <= 0 {
		return defaultTokenTTL
	}
	ttl := time.Duration(seconds)*time.Second - tokenTTLMargin
	if ttl < minTokenTTL {
		return minTokenTTL
	}
	return ttl
}

// errorEnvelope matches both error body shapes the carrier APIs return: the
// REST shape (response.errors) and the legacy fault shape
// (Fault.detail.Errors.ErrorDetail).
type errorEnvelope struct {
	Response struct {
		Errors []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"response"`
	Fault struct {
		Detail struct {
			Errors struct {
				ErrorDetail []struct {
					PrimaryErrorCode struct {
						Code        string `json:"Code"`
						Description string `json:"Description"`
					} `json:"PrimaryErrorCode"`
				} `json:"ErrorDetail"`
			} `json:"Errors"`
		} `json:"detail"`
	} `json:"Fault"`
	Message string `json:"message"`
}

func (e errorEnvelope) primaryError() (code, description string, ok bool) {
	if len(e.Response.Errors) > 0 {
		return e.Response.Errors[0].Code, e.Response.Errors[0].Message, true
	}
	if details := e.Fault.Detail.Errors.ErrorDetail; len(details) > 0 {
		return details[0].PrimaryErrorCode.Code, details[0].PrimaryErrorCode.Description, true
	}
	return "", "", false
}

// Shared request fragments.

type transactionReference struct {
	CustomerContext string `json:"CustomerContext"`
}

type requestOptions struct {
	RequestOption        string               `json:"RequestOption"`
	TransactionReference transactionReference `json:"TransactionReference"`
}

type codeRef struct {
	Code string `json:"Code"`
}

type codeDescriptionRef struct {
	Code        string `json:"Code"`
	Description string `json:"Description,omitempty"`
}

type phone struct {
	Number string `json:"Number"`
}

type wireAddress struct {
	AddressLine       []string `json:"AddressLine"`
	City              string   `json:"City"`
	StateProvinceCode string   `json:"StateProvinceCode,omitempty"`
	PostalCode        string   `json:"PostalCode,omitempty"`
	CountryCode       string   `json:"CountryCode"`
}

type party struct {
	Name          string      `json:"Name"`
	AttentionName string      `json:"AttentionName,omitempty"`
	ShipperNumber string      `json:"ShipperNumber,omitempty"`
	Address       wireAddress `json:"Address"`
	Phone         *phone      `json:"Phone,omitempty"`
	EmailAddress  string      `json:"EMailAddress,omitempty"`
}

type monetary struct {
	CurrencyCode  string `json:"CurrencyCode"`
	MonetaryValue string `json:"MonetaryValue"`
}

type unitOfMeasurement struct {
	Code string `json:"Code"`
}

type dimensions struct {
	UnitOfMeasurement unitOfMeasurement `json:"UnitOfMeasurement"`
	Length            string            `json:"Length"`
	Width             string            `json:"Width"`
	Height            string            `json:"Height"`
}

type packageWeight struct {
	UnitOfMeasurement unitOfMeasurement `json:"UnitOfMeasurement"`
	Weight            string            `json:"Weight"`
}

type referenceNumber struct {
	Value string `json:"Value"`
}

type wirePackage struct {
	PackagingType   codeDescriptionRef `json:"PackagingType"`
	Dimensions      dimensions         `json:"Dimensions"`
	PackageWeight   packageWeight      `json:"PackageWeight"`
	ReferenceNumber []referenceNumber  `json:"ReferenceNumber,omitempty"`
}

type billShipper struct {
	AccountNumber string `json:"AccountNumber"`
}

type shipmentCharge struct {
	Type        string      `json:"Type"`
	BillShipper billShipper `json:"BillShipper"`
}

type paymentInformation struct {
	ShipmentCharge shipmentCharge `json:"ShipmentCharge"`
}

type ratingOptions struct {
	NegotiatedRatesIndicator string `json:"NegotiatedRatesIndicator"`
}

// Rating.

type rateRequest struct {
	RateRequest rateRequestBody `json:"RateRequest"`
}

type rateRequestBody struct {
	Request  requestOptions `json:"Request"`
	Shipment rateShipment   `json:"Shipment"`
}

type rateShipment struct {
	Shipper                party              `json:"Shipper"`
	ShipTo                 party              `json:"ShipTo"`
	ShipFrom               party              `json:"ShipFrom"`
	PickupType             codeRef            `json:"PickupType"`
	CustomerClassification codeRef            `json:"CustomerClassification"`
	Service                codeRef            `json:"Service"`
	Package                []wirePackage      `json:"Package"`
	PaymentInformation     paymentInformation `json:"PaymentInformation"`
	ShipmentRatingOptions  ratingOptions      `json:"ShipmentRatingOptions"`
}

type rateResponse struct {
	RateResponse struct {
		RatedShipment ratedShipments `json:"RatedShipment"`
	} `json:"RateResponse"`
}

type ratedShipment struct {
	NegotiatedRateCharges struct {
		TotalCharge *monetary `json:"TotalCharge"`
	} `json:"NegotiatedRateCharges"`
	TotalCharges *monetary `json:"TotalCharges"`
}

// ratedShipments tolerates the carrier returning RatedShipment as either a
// single object or an array.
type ratedShipments []ratedShipment

func (r *ratedShipments) UnmarshalJSON(data []byte) error {
	var many []ratedShipment
	if err := json.Unmarshal(data, &many); err == nil {
		*r = many
		return nil
	}
	var one ratedShipment
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*r = ratedShipments{one}
	return nil
}

// Shipping.

type shipmentRequest struct {
	ShipmentRequest shipmentRequestBody `json:"ShipmentRequest"`
}

type shipmentRequestBody struct {
	Request            requestOptions     `json:"Request"`
	Shipment           wireShipment       `json:"Shipment"`
	LabelSpecification labelSpecification `json:"labelSpecification"`
}

type wireShipment struct {
	Description            string             `json:"Description"`
	Shipper                party              `json:"Shipper"`
	ShipTo                 party              `json:"ShipTo"`
	ShipFrom               party              `json:"ShipFrom"`
	PaymentInformation     paymentInformation `json:"PaymentInformation"`
	Service                codeRef            `json:"Service"`
	Package                []wirePackage      `json:"Package"`
	InternationalForms     internationalForms `json:"InternationalForms"`
	PickupType             codeRef            `json:"PickupType"`
	CustomerClassification codeRef            `json:"CustomerClassification"`
}

type internationalForms struct {
	FormType         string        `json:"FormType"`
	InvoiceNumber    string        `json:"InvoiceNumber"`
	InvoiceDate      string        `json:"InvoiceDate"`
	ReasonForExport  string        `json:"ReasonForExport"`
	TermsOfShipment  string        `json:"TermsOfShipment"`
	CurrencyCode     string        `json:"CurrencyCode"`
	Product          []wireProduct `json:"Product"`
	InvoiceLineTotal monetary      `json:"InvoiceLineTotal"`
}

type wireProduct struct {
	Description       string         `json:"Description"`
	Unit              productUnit    `json:"Unit"`
	CommodityCode     string         `json:"CommodityCode,omitempty"`
	OriginCountryCode string         `json:"OriginCountryCode,omitempty"`
	ProductWeight     *packageWeight `json:"ProductWeight,omitempty"`
}

type productUnit struct {
	Number            string            `json:"Number"`
	Value             string            `json:"Value"`
	UnitOfMeasurement unitOfMeasurement `json:"UnitOfMeasurement"`
}

type labelSpecification struct {
	LabelImageFormat labelImageFormat `json:"labelImageFormat"`
	LabelStockSize   labelStockSize   `json:"labelStockSize"`
}

type labelImageFormat struct {
	Code string `json:"code"`
}

type labelStockSize struct {
	Height string `json:"height"`
	Width  string `json:"width"`
}

type shipmentResponse struct {
	ShipmentResponse struct {
		ShipmentResults struct {
			ShipmentIdentificationNumber string         `json:"ShipmentIdentificationNumber"`
			PackageResults               packageResults `json:"PackageResults"`
		} `json:"ShipmentResults"`
	} `json:"ShipmentResponse"`
}

type packageResult struct {
	TrackingNumber string `json:"TrackingNumber"`
	ShippingLabel  struct {
		ImageFormat  codeDescriptionRef `json:"ImageFormat"`
		GraphicImage string             `json:"GraphicImage"`
	} `json:"ShippingLabel"`
}

// packageResults tolerates the carrier returning PackageResults as either a
// single object or an array.
type packageResults []packageResult

func (p *packageResults) UnmarshalJSON(data []byte) error {
	var many []packageResult
	if err := json.Unmarshal(data, &many); err == nil {
		*p = many
		return nil
	}
	var one packageResult
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*p = packageResults{one}
	return nil
}

// Address validation.

type xavRequest struct {
	XAVRequest xavRequestBody `json:"XAVRequest"`
}

type xavRequestBody struct {
	Request          requestOptions   `json:"Request"`
	AddressKeyFormat addressKeyFormat `json:"AddressKeyFormat"`
}

type addressKeyFormat struct {
	AddressLine        []string `json:"AddressLine"`
	PoliticalDivision2 string   `json:"PoliticalDivision2"`
	PoliticalDivision1 string   `json:"PoliticalDivision1"`
	PostcodePrimaryLow string   `json:"PostcodePrimaryLow"`
	CountryCode        string   `json:"CountryCode"`
}

type xavResponse struct {
	XAVResponse struct {
		ValidAddressIndicator     *struct{}     `json:"ValidAddressIndicator"`
		AmbiguousAddressIndicator *struct{}     `json:"AmbiguousAddressIndicator"`
		NoCandidatesIndicator     *struct{}     `json:"NoCandidatesIndicator"`
		Candidate                 xavCandidates `json:"Candidate"`
	} `json:"XAVResponse"`
}

type xavCandidate struct {
	AddressKeyFormat addressKeyFormat `json:"AddressKeyFormat"`
}

type xavCandidates []xavCandidate

func (c *xavCandidates) UnmarshalJSON(data []byte) error {
	var many []xavCandidate
	if err := json.Unmarshal(data, &many); err == nil {
		*c = many
		return nil
	}
	var one xavCandidate
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*c = xavCandidates{one}
	return nil
}

// Paperless documents.

type uploadRequest struct {
	UploadRequest uploadRequestBody `json:"UploadRequest"`
}

type uploadRequestBody struct {
	Request         paperlessRequest `json:"Request"`
	UserCreatedForm userCreatedForm  `json:"UserCreatedForm"`
}

type paperlessRequest struct {
	TransactionReference transactionReference `json:"TransactionReference"`
}

type userCreatedForm struct {
	FileName     string `json:"UserCreatedFormFileName"`
	File         string `json:"UserCreatedFormFile"`
	FileFormat   string `json:"UserCreatedFormFileFormat"`
	DocumentType string `json:"UserCreatedFormDocumentType"`
}

type uploadResponse struct {
	UploadResponse struct {
		FormsHistoryDocumentID struct {
			DocumentID documentIDs `json:"DocumentID"`
		} `json:"FormsHistoryDocumentID"`
	} `json:"UploadResponse"`
}

// documentIDs tolerates DocumentID returned as a string or array of strings.
type documentIDs []string

func (d *documentIDs) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*d = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*d = documentIDs{one}
	return nil
}

type pushToImageRequest struct {
	PushToImageRepositoryRequest pushToImageRequestBody `json:"PushToImageRepositoryRequest"`
}

type pushToImageRequestBody struct {
	Request                paperlessRequest `json:"Request"`
	FormsHistoryDocumentID struct {
		DocumentID []string `json:"DocumentID"`
	} `json:"FormsHistoryDocumentID"`
	ShipmentIdentifier  string   `json:"ShipmentIdentifier"`
	ShipmentDateAndTime string   `json:"ShipmentDateAndTime"`
	ShipmentType        string   `json:"ShipmentType"`
	TrackingNumber      []string `json:"TrackingNumber"`
}

type pushToImageResponse struct {
	PushToImageRepositoryResponse *struct {
		FormsGroupID string `json:"FormsGroupID"`
	} `json:"PushToImageRepositoryResponse"`
}

// Pre-registration.

type preRegisterRequest struct {
	OrderNumber string             `json:"OrderNumber"`
	Currency    string             `json:"Currency"`
	AddressInfo preRegisterAddress `json:"AddressInfo"`
	ItemDetails []preRegisterItem  `json:"ItemDetailsList"`
}

type preRegisterAddress struct {
	Name        string `json:"Name"`
	Street1     string `json:"Street1"`
	Street2     string `json:"Street2,omitempty"`
	City        string `json:"City"`
	Region      string `json:"Region,omitempty"`
	PostCode    string `json:"PostCode"`
	CountryCode string `json:"CountryCode"`
	Phone       string `json:"Phone,omitempty"`
	Email       string `json:"Email,omitempty"`
}

type preRegisterItem struct {
	SKU         string  `json:"SKU"`
	Description string  `json:"Description"`
	Quantity    int     `json:"Quantity"`
	Value       float64 `json:"Value"`
	WeightKg    float64 `json:"Weight"`
	HSCode      string  `json:"HSCode,omitempty"`
	Origin      string  `json:"CountryOfOrigin,omitempty"`
}
