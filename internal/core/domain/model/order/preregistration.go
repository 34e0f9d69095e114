package order

import "time"

// PreRegistration records the outcome of announcing the parcel contents to
// the carrier ahead of labeling. It is written once per order; a void marks
// it so contents are never re-announced for a canceled shipment.
type PreRegistration struct {
	submitted   bool
	attemptedAt *time.Time
	lastError   string
	voided      bool
}

// RestorePreRegistration reconstructs a PreRegistration from persistence.
func RestorePreRegistration(submitted bool, attemptedAt *time.Time, lastError string, voided bool) PreRegistration {
	return PreRegistration{
		submitted:   submitted,
		attemptedAt: attemptedAt,
		lastError:   lastError,
		voided:      voided,
	}
}

// Submitted reports whether the parcel contents were announced successfully.
func (p PreRegistration) Submitted() bool { return p.submitted }

// AttemptedAt returns when the announcement was last attempted, nil when
// never attempted.
func (p PreRegistration) AttemptedAt() *time.Time {
	if p.attemptedAt == nil {
		return nil
	}
	at := *p.attemptedAt
	return &at
}

// LastError returns the reason of the most recent failed attempt.
func (p PreRegistration) LastError() string { return p.lastError }

// Voided reports whether a shipment void blocked further announcements.
func (p PreRegistration) Voided() bool { return p.voided }

// Blocked reports whether another announcement attempt must not be made:
// either the contents are already announced or the shipment was voided.
func (p PreRegistration) Blocked() bool {
	return p.submitted || p.voided
}
