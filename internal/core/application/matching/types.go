package matching

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Outcome of a match request.
type Outcome int

const (
	// Assigned means a courier was claimed and bound before RequestMatch returned.
	Assigned Outcome = iota + 1
	// Queued means the order waits in the pending set for a later cycle.
	Queued
)

func (o Outcome) String() string {
	switch o {
	case Assigned:
		return "assigned"
	case Queued:
		return "queued"
	default:
		return "unknown"
	}
}

// Result is returned by RequestMatch. CourierID is set only when Assigned.
type Result struct {
	Outcome   Outcome
	CourierID *kernel.UUID
}

func (r Result) IsAssigned() bool {
	return r.Outcome == Assigned
}

// Assignment describes a committed courier binding.
type Assignment struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	CourierID  kernel.UUID
}

// AssignmentListener receives every committed binding, whether it happened in
// RequestMatch or in a sweep.
type AssignmentListener interface {
	OnCourierAssigned(ctx context.Context, a Assignment)
}

// AssignmentListenerFunc adapts a function to AssignmentListener.
type AssignmentListenerFunc func(ctx context.Context, a Assignment)

func (f AssignmentListenerFunc) OnCourierAssigned(ctx context.Context, a Assignment) {
	f(ctx, a)
}

// PendingRequest is a queued intent to find a courier for OrderID.
type PendingRequest struct {
	OrderID       kernel.UUID
	CreatedAt     time.Time
	Attempts      int
	LastAttemptAt time.Time
}

// CycleReport summarizes one sweep.
type CycleReport struct {
	Skipped   bool
	Assigned  int
	Dropped   int
	Failed    int
	Remaining int
	Released  int
}

// Metrics receives engine measurements. A nil Metrics disables them.
type Metrics interface {
	ObserveAttempt(outcome string)
	SetPending(n int)
	ObserveCycle(d time.Duration)
	ObserveRelease(result string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveAttempt(string) {}
func (noopMetrics) SetPending(int) {}
func (noopMetrics) ObserveCycle(time.Duration) {}
func (noopMetrics) ObserveRelease(string) {}
