// Package order contains the Order aggregate root of the shipping workflow.
//
// An Order carries the destination address, the purchasable line items, and
// the durable outcomes of the carrier workflows: the shipment record
// produced by labeling, the customs submission, the parcel pre-registration
// marker, and an append-only audit trail. Orders are mutated by the
// application handlers and never destroyed; voiding a shipment clears the
// carrier data but keeps the order.
package order
