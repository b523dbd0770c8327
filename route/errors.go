package route

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// InvalidCircuitError reports a malformed circuit descriptor: operand indices
// out of range, inconsistent register metadata, and similar referential
// failures. Raised before any analysis; never retried.
type InvalidCircuitError struct {
	Reason string
}

func (e *InvalidCircuitError) Error() string {
	return "invalid circuit: " + e.Reason
}

// NoFeasibleBackendError indicates that no registered backend is both
// available and capable of executing the circuit at all, so not even the
// degraded re-admission path could produce a candidate.
type NoFeasibleBackendError struct {
	NumQubits int
	Excluded  []string // backend names excluded, in evaluation order
}

func (e *NoFeasibleBackendError) Error() string {
	return fmt.Sprintf("no feasible backend for %d-qubit circuit (excluded: %v)", e.NumQubits, e.Excluded)
}

// ResourceExhaustedError indicates that every candidate, including the one
// with the smallest footprint, exceeds the hard memory ceiling.
type ResourceExhaustedError struct {
	Backend       string
	RequiredBytes uint64
	CeilingBytes  uint64
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("backend %s requires %s but hard memory ceiling is %s",
		e.Backend, humanize.IBytes(e.RequiredBytes), humanize.IBytes(e.CeilingBytes))
}

// RoutingTimeoutError is surfaced when a caller-imposed deadline expires
// before the routing pipeline completes. The pipeline itself holds no
// resources, so a timed-out call leaves no partial state behind.
type RoutingTimeoutError struct {
	Elapsed time.Duration
}

func (e *RoutingTimeoutError) Error() string {
	return fmt.Sprintf("routing timed out after %v", e.Elapsed)
}
