package customs

import (
	"fmt"

	"shipping/internal/pkg/errs"
)

// Status represents the lifecycle state of a customs document submission.
// It implements a state machine with defined transitions to ensure
// submissions follow the correct workflow.
//
// State transitions:
//
//	NotRequired                  (terminal, domestic shipments)
//
//	Pending ──┬──> Submitted     (terminal)
//	          │
//	          └──> Failed        (terminal, retry budget exhausted)
//
// Pending submissions loop on themselves while retries remain.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// NotRequired indicates the shipment is domestic and no customs
	// documents are needed. Terminal.
	NotRequired

	// Pending indicates documents are scheduled for submission or awaiting
	// a retry.
	Pending

	// Submitted indicates the documents were uploaded and linked to the
	// shipment. Terminal.
	Submitted

	// Failed indicates submission was abandoned after exhausting the retry
	// budget. Terminal.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		NotRequired:   "NotRequired",
		Pending:       "Pending",
		Submitted:     "Submitted",
		Failed:        "Failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		NotRequired: "NotRequired",
		Pending:     "Pending",
		Submitted:   "Submitted",
		Failed:      "Failed",
	}
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: NotRequired, Pending, Submitted, Failed.
// StatusUnknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses the persistence representation of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// Submit transitions the status to Submitted.
//
// Valid transitions:
//   - Pending -> Submitted
//
// Returns (0, error) for any other source state.
func (s Status) Submit() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to submit from", s.String()),
		)
	}
	return Submitted, nil
}

// Fail transitions the status to Failed.
//
// Valid transitions:
//   - Pending -> Failed
//
// Returns (0, error) for any other source state.
func (s Status) Fail() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to fail from", s.String()),
		)
	}
	return Failed, nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == NotRequired || s == Submitted || s == Failed
}
