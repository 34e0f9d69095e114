package order

import (
	"errors"
	"time"

	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/shipment"
	"shipping/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrShipmentAlreadyAttached is returned when labeling an order that already
	// carries a shipment record. Generating labels twice would double-bill;
	// the existing shipment must be voided first.
	ErrShipmentAlreadyAttached = errors.New("order already has a shipment attached")

	// ErrNoShipmentAttached is returned by operations that require a shipment
	// record when the order has none.
	ErrNoShipmentAttached = errors.New("order has no shipment attached")

	// ErrCustomsAlreadyAttached is returned when triggering the customs
	// workflow for an order that already has a live submission.
	ErrCustomsAlreadyAttached = errors.New("order already has a customs submission attached")
)

// Order is the aggregate root of the shipping workflow. It carries the
// destination, the purchasable line items, and the durable outcomes of the
// carrier workflows: the shipment record once labels are generated, the
// customs submission once the workflow is triggered, the parcel
// pre-registration marker, and an append-only audit trail.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-empty order number
//   - Must have at least one line item
//   - At most one shipment record is attached at a time
//   - Audit notes are append-only
//   - Can only be created through NewOrder or RestoreOrder
//
// Orders are mutated by the labeling, void and customs handlers and are
// never destroyed; voiding clears carrier data but keeps the order.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// number is the human-facing order number, used as the customs invoice number
	number string

	// destination is the shipping destination
	destination kernel.Address

	// total is the order's monetary total, declared on the commercial invoice
	total kernel.Money

	// items are the order lines
	items []Item

	// shipment is the labeling outcome (nil before labeling and after a void)
	shipment *shipment.Record

	// customs is the customs workflow state (nil until triggered)
	customs *customs.Submission

	// preRegistration is the parcel content announcement state
	preRegistration PreRegistration

	// notes is the append-only audit trail
	notes []Note

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// Note is one audit trail entry.
type Note struct {
	At      time.Time
	Message string
}

// NewOrder creates a new Order instance with validation. This is the only way
// to create a valid Order (besides RestoreOrder on the read path), ensuring
// all business invariants are maintained.
func NewOrder(id kernel.UUID, number string, destination kernel.Address, total kernel.Money, items []Item) (*Order, error) {
	order := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setNumber(number),
		order.setDestination(destination),
		order.setTotal(total),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persistence, including the
// workflow state written by earlier operations. Field validation matches
// NewOrder; attached workflow objects are trusted as already validated on
// their write path.
func RestoreOrder(
	id kernel.UUID,
	number string,
	destination kernel.Address,
	total kernel.Money,
	items []Item,
	shipmentRecord *shipment.Record,
	customsSubmission *customs.Submission,
	preRegistration PreRegistration,
	notes []Note,
) (*Order, error) {
	order, err := NewOrder(id, number, destination, total, items)
	if err != nil {
		return nil, err
	}

	order.shipment = shipmentRecord
	order.customs = customsSubmission
	order.preRegistration = preRegistration
	order.notes = append([]Note(nil), notes...)
	return order, nil
}

// Validate ensures the Order instance was properly constructed.
// This prevents bypassing validation by directly instantiating the struct
// and should be called when reconstructing orders from persistence.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-facing order number.
func (o *Order) Number() string {
	return o.number
}

// Destination returns the shipping destination.
func (o *Order) Destination() kernel.Address {
	return o.destination
}

// Total returns the order's monetary total.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Currency returns the order currency.
func (o *Order) Currency() string {
	return o.total.Currency()
}

// Items returns all order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// ShippableItems returns the order lines that occupy package space.
func (o *Order) ShippableItems() []Item {
	var shippable []Item
	for _, item := range o.items {
		if item.RequiresShipping() {
			shippable = append(shippable, item)
		}
	}
	return shippable
}

// Shipment returns the attached shipment record.
// Returns nil before labeling and after a void.
func (o *Order) Shipment() *shipment.Record {
	return o.shipment
}

// HasShipment reports whether labels were generated and not voided since.
func (o *Order) HasShipment() bool {
	return o.shipment != nil
}

// AttachShipment records the outcome of a successful labeling run.
//
// This method enforces the following business rules:
//   - The record must be properly constructed
//   - The order must not already carry a shipment record
//
// Returns ErrShipmentAlreadyAttached when labels already exist; the caller
// must void the existing shipment first.
func (o *Order) AttachShipment(record *shipment.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if o.shipment != nil {
		return ErrShipmentAlreadyAttached
	}

	o.shipment = record
	return nil
}

// ClearShipment removes the shipment record after a void run cleaned the
// carrier side. Returns ErrNoShipmentAttached when there is nothing to clear.
func (o *Order) ClearShipment() error {
	if o.shipment == nil {
		return ErrNoShipmentAttached
	}

	o.shipment = nil
	return nil
}

// Customs returns the attached customs submission.
// Returns nil until the customs workflow was triggered.
func (o *Order) Customs() *customs.Submission {
	return o.customs
}

// AttachCustoms records the customs workflow trigger outcome.
//
// This method enforces the following business rules:
//   - The submission must be properly constructed
//   - An existing non-voided submission must not be replaced; re-triggering
//     a pending workflow reschedules it instead (Submission.Reschedule)
func (o *Order) AttachCustoms(submission *customs.Submission) error {
	if err := submission.Validate(); err != nil {
		return err
	}
	if o.customs != nil && !o.customs.IsVoided() {
		return ErrCustomsAlreadyAttached
	}

	o.customs = submission
	return nil
}

// PreRegistration returns the parcel content announcement state.
func (o *Order) PreRegistration() PreRegistration {
	return o.preRegistration
}

// MarkPreRegistered records a successful parcel content announcement.
func (o *Order) MarkPreRegistered(at time.Time) {
	o.preRegistration.submitted = true
	o.preRegistration.attemptedAt = &at
	o.preRegistration.lastError = ""
}

// RecordPreRegistrationError records a failed announcement attempt. The
// failure never blocks labeling; it is kept for diagnosis.
func (o *Order) RecordPreRegistrationError(at time.Time, reason string) {
	o.preRegistration.attemptedAt = &at
	o.preRegistration.lastError = reason
}

// VoidPreRegistration marks the announcement as voided so contents are never
// re-announced for a canceled shipment. Idempotent.
func (o *Order) VoidPreRegistration() {
	o.preRegistration.voided = true
}

// Notes returns the audit trail in append order.
func (o *Order) Notes() []Note {
	return append([]Note(nil), o.notes...)
}

// AddNote appends an audit trail entry.
func (o *Order) AddNote(at time.Time, message string) {
	o.notes = append(o.notes, Note{At: at, Message: message})
}

// setID validates and sets the order's unique identifier.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setNumber validates and sets the order number.
func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("number")
	}
	o.number = number
	return nil
}

// setDestination validates and sets the destination address.
func (o *Order) setDestination(destination kernel.Address) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	o.destination = destination
	return nil
}

// setTotal validates and sets the order total.
func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	o.total = total
	return nil
}

// setItems validates and sets the order lines.
func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = append([]Item(nil), items...)
	return nil
}
