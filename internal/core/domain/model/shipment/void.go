package shipment

import "fmt"

// VoidOutcome is the result of voiding a single shipment identifier with the
// carrier.
type VoidOutcome int

const (
	// VoidOutcomeUnknown represents an invalid or undefined outcome.
	VoidOutcomeUnknown VoidOutcome = iota

	// Voided indicates the carrier accepted the void request.
	Voided

	// AlreadyVoided indicates the carrier reported the shipment as voided
	// before the request. Treated as success.
	AlreadyVoided

	// VoidFailed indicates the carrier rejected the void request.
	VoidFailed
)

// String returns the human-readable name of the outcome.
func (o VoidOutcome) String() string {
	switch o {
	case Voided:
		return "Voided"
	case AlreadyVoided:
		return "AlreadyVoided"
	case VoidFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsSuccess reports whether the outcome counts as a successful void.
func (o VoidOutcome) IsSuccess() bool {
	return o == Voided || o == AlreadyVoided
}

// IdentifierOutcome pairs one voided identifier with its outcome and, for
// failures, the carrier's reason.
type IdentifierOutcome struct {
	Identifier string
	Outcome    VoidOutcome
	Reason     string
}

// VoidResult aggregates the per-identifier outcomes of one void run. A run
// with both successes and failures is a partial result, not an error.
type VoidResult struct {
	outcomes []IdentifierOutcome
}

// NewVoidResult creates an empty VoidResult.
func NewVoidResult() *VoidResult {
	return &VoidResult{}
}

// RecordVoided records a successful void for the identifier.
func (r *VoidResult) RecordVoided(identifier string) {
	r.outcomes = append(r.outcomes, IdentifierOutcome{Identifier: identifier, Outcome: Voided})
}

// RecordAlreadyVoided records that the carrier reported the identifier as
// already voided.
func (r *VoidResult) RecordAlreadyVoided(identifier string) {
	r.outcomes = append(r.outcomes, IdentifierOutcome{Identifier: identifier, Outcome: AlreadyVoided})
}

// RecordFailure records a failed void with the carrier's reason.
func (r *VoidResult) RecordFailure(identifier, reason string) {
	r.outcomes = append(r.outcomes, IdentifierOutcome{Identifier: identifier, Outcome: VoidFailed, Reason: reason})
}

// Outcomes returns the per-identifier outcomes in void order.
func (r *VoidResult) Outcomes() []IdentifierOutcome {
	return append([]IdentifierOutcome(nil), r.outcomes...)
}

// SuccessCount returns the number of identifiers voided or already voided.
func (r *VoidResult) SuccessCount() int {
	n := 0
	for _, o := range r.outcomes {
		if o.Outcome.IsSuccess() {
			n++
		}
	}
	return n
}

// FailureCount returns the number of identifiers that failed to void.
func (r *VoidResult) FailureCount() int {
	return len(r.outcomes) - r.SuccessCount()
}

// AllVoided reports whether every identifier was voided successfully.
func (r *VoidResult) AllVoided() bool {
	return len(r.outcomes) > 0 && r.FailureCount() == 0
}

// Failures returns a formatted reason per failed identifier.
func (r *VoidResult) Failures() []string {
	var failures []string
	for _, o := range r.outcomes {
		if !o.Outcome.IsSuccess() {
			failures = append(failures, fmt.Sprintf("%s: %s", o.Identifier, o.Reason))
		}
	}
	return failures
}
