package customs

import (
	"errors"
	"fmt"
	"time"

	"shipping/internal/pkg/errs"
)

func notPendingError(s Status) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%s is not a valid status for a submission attempt", s.String()),
	)
}

var (
	// ErrSubmissionIsNotConstructed is returned when a Submission instance
	// was not created through a constructor.
	ErrSubmissionIsNotConstructed = errors.New("Submission must be created via NewPendingSubmission or NewNotRequiredSubmission constructor")

	// ErrSubmissionIsVoided is returned when attempting to act on a
	// submission whose shipment was voided. Voided submissions never run
	// again.
	ErrSubmissionIsVoided = errors.New("submission is voided")
)

// Submission tracks the customs document workflow for one order: whether
// documents are required, when the next attempt is due, how many attempts
// were made, and the uploaded document id once submission succeeds.
//
// Submission follows these invariants:
//   - Status transitions follow the Status state machine
//   - nextAttemptAt is set only while status is Pending and not voided
//   - A voided submission accepts no further transitions
type Submission struct {
	status        Status
	documentID    string
	attempts      int
	lastError     string
	nextAttemptAt *time.Time
	triggeredAt   time.Time
	completedAt   *time.Time
	voided        bool

	isConstructed bool
}

// NewPendingSubmission creates a Pending submission with its first attempt
// scheduled at firstAttemptAt.
func NewPendingSubmission(triggeredAt, firstAttemptAt time.Time) *Submission {
	next := firstAttemptAt
	return &Submission{
		status:        Pending,
		triggeredAt:   triggeredAt,
		nextAttemptAt: &next,
		isConstructed: true,
	}
}

// NewNotRequiredSubmission creates a terminal NotRequired submission for a
// domestic shipment.
func NewNotRequiredSubmission(triggeredAt time.Time) *Submission {
	return &Submission{
		status:        NotRequired,
		triggeredAt:   triggeredAt,
		isConstructed: true,
	}
}

// RestoreSubmission reconstructs a Submission from persistence. Values are
// trusted; validation happened on the write path.
func RestoreSubmission(
	status Status,
	documentID string,
	attempts int,
	lastError string,
	nextAttemptAt *time.Time,
	triggeredAt time.Time,
	completedAt *time.Time,
	voided bool,
) (*Submission, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Submission{
		status:        status,
		documentID:    documentID,
		attempts:      attempts,
		lastError:     lastError,
		nextAttemptAt: nextAttemptAt,
		triggeredAt:   triggeredAt,
		completedAt:   completedAt,
		voided:        voided,
		isConstructed: true,
	}, nil
}

// Validate ensures the Submission instance was properly constructed.
func (s *Submission) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSubmissionIsNotConstructed
	}
	return nil
}

// Status returns the current status of the submission.
func (s *Submission) Status() Status { return s.status }

// DocumentID returns the carrier document id, empty until Submitted.
func (s *Submission) DocumentID() string { return s.documentID }

// Attempts returns the number of submission attempts made.
func (s *Submission) Attempts() int { return s.attempts }

// LastError returns the reason of the most recent failed attempt.
func (s *Submission) LastError() string { return s.lastError }

// NextAttemptAt returns when the next attempt is due, nil when none is
// scheduled.
func (s *Submission) NextAttemptAt() *time.Time {
	if s.nextAttemptAt == nil {
		return nil
	}
	next := *s.nextAttemptAt
	return &next
}

// TriggeredAt returns when the workflow was triggered.
func (s *Submission) TriggeredAt() time.Time { return s.triggeredAt }

// CompletedAt returns when the submission reached a terminal state, nil
// while Pending.
func (s *Submission) CompletedAt() *time.Time {
	if s.completedAt == nil {
		return nil
	}
	at := *s.completedAt
	return &at
}

// IsVoided reports whether the shipment behind this submission was voided.
func (s *Submission) IsVoided() bool { return s.voided }

// IsDue reports whether a Pending attempt should run at now.
func (s *Submission) IsDue(now time.Time) bool {
	return s.status == Pending &&
		!s.voided &&
		s.nextAttemptAt != nil &&
		!now.Before(*s.nextAttemptAt)
}

// Reschedule moves the next attempt of a Pending submission to at.
// Re-triggering a pending workflow reschedules instead of running
// immediately.
func (s *Submission) Reschedule(at time.Time) error {
	if s.voided {
		return ErrSubmissionIsVoided
	}
	if s.status != Pending {
		return notPendingError(s.status)
	}
	s.nextAttemptAt = &at
	return nil
}

// RecordSuccess transitions the submission to Submitted with the uploaded
// document id.
func (s *Submission) RecordSuccess(documentID string, now time.Time) error {
	if s.voided {
		return ErrSubmissionIsVoided
	}

	newStatus, err := s.status.Submit()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.documentID = documentID
	s.attempts++
	s.lastError = ""
	s.nextAttemptAt = nil
	s.completedAt = &now
	return nil
}

// RecordFailure records a failed attempt. When retryAt is non-nil the
// submission stays Pending with the retry scheduled; when nil the retry
// budget is exhausted and the submission transitions to Failed.
func (s *Submission) RecordFailure(reason string, now time.Time, retryAt *time.Time) error {
	if s.voided {
		return ErrSubmissionIsVoided
	}
	if s.status != Pending {
		return notPendingError(s.status)
	}

	s.attempts++
	s.lastError = reason

	if retryAt != nil {
		at := *retryAt
		s.nextAttemptAt = &at
		return nil
	}

	newStatus, err := s.status.Fail()
	if err != nil {
		return err
	}
	s.status = newStatus
	s.nextAttemptAt = nil
	s.completedAt = &now
	return nil
}

// MarkVoided marks the submission's shipment as voided and cancels any
// scheduled attempt. Idempotent.
func (s *Submission) MarkVoided() {
	s.voided = true
	s.nextAttemptAt = nil
}
