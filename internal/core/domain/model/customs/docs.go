// Package customs models the customs document workflow for international
// shipments. The Submission entity tracks scheduling, retries with backoff,
// the uploaded document id, and terminal outcomes; the Status value object
// enforces the state machine.
package customs
