package shipment

import (
	"errors"
	"fmt"
	"time"

	"shipping/internal/pkg/errs"
)

var (
	// ErrRecordIsNotConstructed is returned when a Record instance was not
	// created through NewRecord.
	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

	// ErrLabelCountMismatch is returned when the number of label images does
	// not match the number of tracking numbers. A shipment is only usable
	// when every package got both.
	ErrLabelCountMismatch = errors.New("label count does not match tracking number count")
)

// Record is the durable outcome of a successful labeling run: the carrier
// shipment identifiers, the per-package tracking numbers and the per-package
// label images, all in package order.
//
// Record enforces one invariant at construction: len(labels) ==
// len(trackingNumbers) > 0. A record violating it is never created, so
// downstream code can rely on index correspondence between the two slices.
type Record struct {
	shipmentIDs     []string
	trackingNumbers []string
	labels          []string
	labelFormat     string
	createdAt       time.Time

	isConstructed bool
}

// NewRecord creates a Record from a completed labeling run.
//
// shipmentIDs holds the carrier's shipment identification numbers (one per
// carrier call), trackingNumbers and labels hold one entry per package, in
// package order. labels carry base64-encoded label images in labelFormat.
func NewRecord(shipmentIDs, trackingNumbers, labels []string, labelFormat string, createdAt time.Time) (*Record, error) {
	if len(trackingNumbers) == 0 {
		return nil, errs.NewValueIsRequiredError("trackingNumbers")
	}
	if len(labels) != len(trackingNumbers) {
		return nil, fmt.Errorf("%w: %d labels, %d tracking numbers",
			ErrLabelCountMismatch, len(labels), len(trackingNumbers))
	}
	if labelFormat == "" {
		return nil, errs.NewValueIsRequiredError("labelFormat")
	}

	return &Record{
		shipmentIDs:     append([]string(nil), shipmentIDs...),
		trackingNumbers: append([]string(nil), trackingNumbers...),
		labels:          append([]string(nil), labels...),
		labelFormat:     labelFormat,
		createdAt:       createdAt,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Record instance was properly constructed.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// ShipmentIDs returns the carrier shipment identification numbers.
func (r *Record) ShipmentIDs() []string {
	return append([]string(nil), r.shipmentIDs...)
}

// TrackingNumbers returns the per-package tracking numbers in package order.
func (r *Record) TrackingNumbers() []string {
	return append([]string(nil), r.trackingNumbers...)
}

// Labels returns the base64-encoded label images in package order.
func (r *Record) Labels() []string {
	return append([]string(nil), r.labels...)
}

// LabelFormat returns the label image format, e.g. "GIF".
func (r *Record) LabelFormat() string {
	return r.labelFormat
}

// CreatedAt returns when the labels were generated.
func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}

// LabelCount returns the number of labels, which by construction equals the
// number of tracking numbers.
func (r *Record) LabelCount() int {
	return len(r.labels)
}

// PrimaryTrackingNumber returns the first tracking number. Customs documents
// are linked against it.
func (r *Record) PrimaryTrackingNumber() string {
	return r.trackingNumbers[0]
}

// VoidIdentifiers returns the identifiers to void with the carrier: the
// shipment identification numbers when recorded, otherwise the tracking
// numbers.
func (r *Record) VoidIdentifiers() []string {
	if len(r.shipmentIDs) > 0 {
		return r.ShipmentIDs()
	}
	return r.TrackingNumbers()
}
