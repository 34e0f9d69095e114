package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
)

// InvoiceMeta carries the invoice header fields shared with the labeling
// request's customs forms.
type InvoiceMeta struct {
	InvoiceNumber   string
	InvoiceDate     time.Time
	Currency        string
	ReasonForExport string
	Terms           string
}

// InvoiceBuilder renders the plain-text commercial invoice uploaded to the
// carrier's paperless document store. The carrier accepts TXT documents;
// the section layout is fixed and consumed downstream, so changes here are
// breaking.
type InvoiceBuilder struct{}

// NewInvoiceBuilder creates an InvoiceBuilder.
func NewInvoiceBuilder() InvoiceBuilder {
	return InvoiceBuilder{}
}

// Build renders the invoice for the order's shippable items.
func (b InvoiceBuilder) Build(meta InvoiceMeta, shipper, consignee kernel.Address, items []order.Item) string {
	var sb strings.Builder

	sb.WriteString("COMMERCIAL INVOICE\n")
	sb.WriteString("==================\n\n")

	fmt.Fprintf(&sb, "Invoice Number: %s\n", orNA(meta.InvoiceNumber))
	fmt.Fprintf(&sb, "Invoice Date: %s\n", meta.InvoiceDate.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Currency: %s\n", orNA(meta.Currency))
	fmt.Fprintf(&sb, "Reason for Export: %s\n", orNA(meta.ReasonForExport))
	fmt.Fprintf(&sb, "Terms: %s\n\n", orNA(meta.Terms))

	sb.WriteString("SHIPPER INFORMATION:\n")
	fmt.Fprintf(&sb, "Company: %s\n", orNA(shipper.Name()))
	fmt.Fprintf(&sb, "Address: %s\n", orNA(shipper.AddressLine1()))
	fmt.Fprintf(&sb, "City: %s\n", orNA(shipper.City()))
	fmt.Fprintf(&sb, "Postal Code: %s\n", orNA(shipper.PostalCode()))
	fmt.Fprintf(&sb, "Country: %s\n", orNA(shipper.CountryCode()))
	fmt.Fprintf(&sb, "Phone: %s\n", orNA(shipper.Phone()))
	fmt.Fprintf(&sb, "Email: %s\n\n", orNA(shipper.Email()))

	sb.WriteString("CONSIGNEE INFORMATION:\n")
	fmt.Fprintf(&sb, "Company: %s\n", orNA(consignee.Name()))
	fmt.Fprintf(&sb, "Contact: %s\n", orNA(consignee.AttentionTo()))
	fmt.Fprintf(&sb, "Address: %s\n", orNA(consignee.AddressLine1()))
	if consignee.AddressLine2() != "" {
		fmt.Fprintf(&sb, "Address 2: %s\n", consignee.AddressLine2())
	}
	fmt.Fprintf(&sb, "City: %s\n", orNA(consignee.City()))
	fmt.Fprintf(&sb, "State: %s\n", orNA(consignee.State()))
	fmt.Fprintf(&sb, "Postal Code: %s\n", orNA(consignee.PostalCode()))
	fmt.Fprintf(&sb, "Country: %s\n", orNA(consignee.CountryCode()))
	fmt.Fprintf(&sb, "Phone: %s\n", orNA(consignee.Phone()))
	fmt.Fprintf(&sb, "Email: %s\n\n", orNA(consignee.Email()))

	sb.WriteString("ITEMS:\n")
	sb.WriteString("------\n")

	totalValue := 0.0
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, orNA(item.Description()))
		fmt.Fprintf(&sb, "   SKU: %s\n", orNA(item.ProductRef()))
		fmt.Fprintf(&sb, "   Quantity: %d\n", item.Quantity())
		fmt.Fprintf(&sb, "   Unit Value: %s %s\n", formatAmount(item.UnitValue().Amount()), item.UnitValue().Currency())

		itemTotal := float64(item.Quantity()) * item.UnitValue().Amount()
		fmt.Fprintf(&sb, "   Total Value: %s %s\n", formatAmount(itemTotal), item.UnitValue().Currency())
		fmt.Fprintf(&sb, "   HTS Code: %s\n", orNA(item.HTSCode()))
		fmt.Fprintf(&sb, "   Country of Origin: %s\n", orNA(item.OriginCountry()))
		fmt.Fprintf(&sb, "   Weight: %s KG\n", formatAmount(item.TotalWeightKg()))
		sb.WriteString("\n")

		totalValue += itemTotal
	}
	fmt.Fprintf(&sb, "TOTAL VALUE: %s %s\n", formatAmount(totalValue), orNA(meta.Currency))

	sb.WriteString("\n--- End of Commercial Invoice ---\n")

	return sb.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
