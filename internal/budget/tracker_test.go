package budget_test

import (
	"sync"
	"testing"

	"github.com/promptpack/promptpack/internal/budget"
)

func TestTryReserveByteCeiling(t *testing.T) {
	t.Parallel()

	tracker := budget.NewTracker(budget.Limits{MaxBytes: 100})

	if !tracker.TryReserve(60, 10) {
		t.Fatal("first reservation within budget was rejected")
	}
	if !tracker.TryReserve(40, 10) {
		t.Fatal("reservation exactly reaching the ceiling was rejected")
	}
	if tracker.TryReserve(1, 0) {
		t.Fatal("reservation beyond the byte ceiling was admitted")
	}

	consumedBytes, consumedTokens := tracker.Consumed()
	if consumedBytes != 100 || consumedTokens != 20 {
		t.Fatalf("unexpected totals: %d bytes, %d tokens", consumedBytes, consumedTokens)
	}
}

func TestTryReserveTokenCeiling(t *testing.T) {
	t.Parallel()

	tracker := budget.NewTracker(budget.Limits{MaxBytes: 1000, MaxTokens: 50})

	if !tracker.TryReserve(10, 50) {
		t.Fatal("reservation exactly reaching the token ceiling was rejected")
	}
	if tracker.TryReserve(10, 1) {
		t.Fatal("reservation beyond the token ceiling was admitted")
	}
}

func TestTryReserveRejectionLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	tracker := budget.NewTracker(budget.Limits{MaxBytes: 10, MaxTokens: 10})

	if !tracker.TryReserve(7, 3) {
		t.Fatal("initial reservation was rejected")
	}
	if tracker.TryReserve(4, 1) {
		t.Fatal("over-budget reservation was admitted")
	}
	if tracker.TryReserve(2, 20) {
		t.Fatal("reservation breaching only the token ceiling was admitted")
	}

	consumedBytes, consumedTokens := tracker.Consumed()
	if consumedBytes != 7 || consumedTokens != 3 {
		t.Fatalf("rejected reservations mutated state: %d bytes, %d tokens", consumedBytes, consumedTokens)
	}
}

func TestTryReserveZeroLimitsAreUnbounded(t *testing.T) {
	t.Parallel()

	tracker := budget.NewTracker(budget.Limits{})

	for reservationIndex := 0; reservationIndex < 1000; reservationIndex++ {
		if !tracker.TryReserve(1<<20, 1<<16) {
			t.Fatal("unbounded tracker rejected a reservation")
		}
	}
}

func TestTryReserveConcurrentAdmissionNeverOvershoots(t *testing.T) {
	t.Parallel()

	const (
		workerCount        = 32
		reservationsPerGo  = 100
		bytesPerAttempt    = 3
		byteCeiling        = int64(workerCount * reservationsPerGo * bytesPerAttempt / 2)
		tokensPerAttempt   = 1
		expectedAdmissions = byteCeiling / bytesPerAttempt
	)

	tracker := budget.NewTracker(budget.Limits{MaxBytes: byteCeiling})

	var waitGroup sync.WaitGroup
	admitted := make([]int64, workerCount)
	for workerIndex := 0; workerIndex < workerCount; workerIndex++ {
		workerIndex := workerIndex
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for attempt := 0; attempt < reservationsPerGo; attempt++ {
				if tracker.TryReserve(bytesPerAttempt, tokensPerAttempt) {
					admitted[workerIndex]++
				}
			}
		}()
	}
	waitGroup.Wait()

	var totalAdmitted int64
	for _, workerAdmitted := range admitted {
		totalAdmitted += workerAdmitted
	}
	if totalAdmitted != expectedAdmissions {
		t.Fatalf("expected exactly %d admissions, got %d", expectedAdmissions, totalAdmitted)
	}

	consumedBytes, _ := tracker.Consumed()
	if consumedBytes != byteCeiling {
		t.Fatalf("consumed %d bytes, ceiling is %d", consumedBytes, byteCeiling)
	}
}
