// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the shipping system.
//
// The package includes:
//   - PackagePlanner: A domain service that turns an order's shippable items
//     into the package set sent to the carrier
//   - InvoiceBuilder: Renders the plain-text commercial invoice uploaded to
//     the carrier's document store
//
// Domain services implement business logic that doesn't naturally belong to
// a single aggregate root, following Domain-Driven Design principles.
package services
