// Package shipment holds the value objects produced and consumed by the
// carrier-facing workflows: package descriptors going into rating and
// labeling, the durable record of a labeled shipment, rate quotes, and the
// per-identifier results of void runs.
//
// The aggregate root owning these values is order.Order; this package keeps
// them free of persistence and carrier wire concerns.
package shipment
