// Package budget enforces cumulative size and token ceilings for one
// pipeline run.
package budget

import "sync"

// Limits configures the ceilings a run must respect. MaxBytes of zero means
// the byte budget is unbounded; MaxTokens of zero means only the byte budget
// constrains admission.
type Limits struct {
	MaxBytes  int64
	MaxTokens int
}

// Tracker is the single logical counter shared across all extraction work for
// one run. Reservations are atomic check-and-commit operations: a rejected
// reservation never mutates the counters, and no partial reservation is
// possible. A Tracker lives for exactly one run.
type Tracker struct {
	mutex          sync.Mutex
	limits         Limits
	consumedBytes  int64
	consumedTokens int
}

// NewTracker constructs a Tracker for the provided limits.
func NewTracker(limits Limits) *Tracker {
	return &Tracker{limits: limits}
}

// TryReserve atomically checks whether committing the given amounts keeps
// both running totals within their configured maxima. On success it commits
// the amounts and reports true; otherwise it leaves state unchanged and
// reports false.
func (tracker *Tracker) TryReserve(byteCount int64, tokenCount int) bool {
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()

	if tracker.limits.MaxBytes > 0 && tracker.consumedBytes+byteCount > tracker.limits.MaxBytes {
		return false
	}
	if tracker.limits.MaxTokens > 0 && tracker.consumedTokens+tokenCount > tracker.limits.MaxTokens {
		return false
	}

	tracker.consumedBytes += byteCount
	tracker.consumedTokens += tokenCount
	return true
}

// Consumed returns the committed byte and token totals.
func (tracker *Tracker) Consumed() (int64, int) {
	tracker.mutex.Lock()
	defer tracker.mutex.Unlock()
	return tracker.consumedBytes, tracker.consumedTokens
}
