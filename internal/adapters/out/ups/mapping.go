package ups

import (
	"strconv"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/shipment"
)

// Field length limits from the carrier payload specification.
const (
	maxNameLen   = 35
	maxLineLen   = 35
	maxCityLen   = 30
	maxPostalLen = 10
)

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func formatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64)
}

func formatDimension(cm float64) string {
	return strconv.FormatFloat(cm, 'f', -1, 64)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func addressLines(a kernel.Address) []string {
	lines := make([]string, 0, 2)
	if a.AddressLine1() != "" {
		lines = append(lines, clip(a.AddressLine1(), maxLineLen))
	}
	if a.AddressLine2() != "" {
		lines = append(lines, clip(a.AddressLine2(), maxLineLen))
	}
	return lines
}

func toWireAddress(a kernel.Address) wireAddress {
	return wireAddress{
		AddressLine:       addressLines(a),
		City:              clip(a.City(), maxCityLen),
		StateProvinceCode: a.State(),
		PostalCode:        clip(a.PostalCode(), maxPostalLen),
		CountryCode:       a.CountryCode(),
	}
}

func toParty(a kernel.Address) party {
	p := party{
		Name:          clip(a.Name(), maxNameLen),
		AttentionName: clip(a.AttentionTo(), maxNameLen),
		Address:       toWireAddress(a),
		EmailAddress:  a.Email(),
	}
	if a.Phone() != "" {
		p.Phone = &phone{Number: a.Phone()}
	}
	return p
}

// shipperParty is the shipper with the account number attached, as the
// Rating and Shipping APIs require.
func (c *Client) shipperParty(a kernel.Address) party {
	p := toParty(a)
	p.ShipperNumber = c.cfg.AccountNumber
	return p
}

// shipFromParty strips the account fields; ShipFrom repeats the shipper's
// name and address only.
func shipFromParty(a kernel.Address) party {
	return party{
		Name:          clip(a.Name(), maxNameLen),
		AttentionName: clip(a.AttentionTo(), maxNameLen),
		Address:       toWireAddress(a),
	}
}

func toWirePackage(pkg shipment.PackageDescriptor) wirePackage {
	wire := wirePackage{
		PackagingType: codeDescriptionRef{
			Code:        shipment.PackagingTypeCode,
			Description: "Customer Supplied Package",
		},
		Dimensions: dimensions{
			UnitOfMeasurement: unitOfMeasurement{Code: shipment.DimensionUnitCM},
			Length:            formatDimension(pkg.LengthCm()),
			Width:             formatDimension(pkg.WidthCm()),
			Height:            formatDimension(pkg.HeightCm()),
		},
		PackageWeight: packageWeight{
			UnitOfMeasurement: unitOfMeasurement{Code: shipment.WeightUnitKGS},
			Weight:            formatWeight(pkg.WeightKg()),
		},
	}
	if pkg.Reference() != "" {
		wire.ReferenceNumber = []referenceNumber{{Value: pkg.Reference()}}
	}
	return wire
}

func toWirePackages(packages []shipment.PackageDescriptor) []wirePackage {
	wire := make([]wirePackage, 0, len(packages))
	for _, pkg := range packages {
		wire = append(wire, toWirePackage(pkg))
	}
	return wire
}

func toWireProducts(items []order.Item) []wireProduct {
	products := make([]wireProduct, 0, len(items))
	for _, item := range items {
		product := wireProduct{
			Description: clip(item.Description(), maxNameLen),
			Unit: productUnit{
				Number:            strconv.Itoa(item.Quantity()),
				Value:             formatAmount(item.UnitValue().Amount()),
				UnitOfMeasurement: unitOfMeasurement{Code: "PCS"},
			},
			CommodityCode:     item.HTSCode(),
			OriginCountryCode: item.OriginCountry(),
		}
		if item.UnitWeightKg() > 0 {
			product.ProductWeight = &packageWeight{
				UnitOfMeasurement: unitOfMeasurement{Code: shipment.WeightUnitKGS},
				Weight:            formatWeight(item.TotalWeightKg()),
			}
		}
		products = append(products, product)
	}
	return products
}

func (c *Client) defaultPayment() paymentInformation {
	return paymentInformation{
		ShipmentCharge: shipmentCharge{
			Type:        paymentChargeTransportation,
			BillShipper: billShipper{AccountNumber: c.cfg.AccountNumber},
		},
	}
}
