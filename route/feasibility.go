package route

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/qroute/qroute/route/trace"
)

// amplitudeBytes is the size of one complex128 amplitude.
const amplitudeBytes = 16

// ResourceEstimate is the projected cost of running a circuit on one
// backend, plus the feasibility verdict against the configured ceilings.
type ResourceEstimate struct {
	Backend     string
	MemoryBytes uint64
	TimeSeconds float64
	Feasible    bool
	Reason      string // why infeasible; empty when feasible
}

// bondDimension is the bond dimension assumed for compressed
// representations: 2^treewidth, capped by configuration.
func bondDimension(treewidth, limit int) uint64 {
	if treewidth > 30 {
		treewidth = 30
	}
	chi := uint64(1) << uint(treewidth)
	if chi > uint64(limit) {
		chi = uint64(limit)
	}
	return chi
}

// satMul multiplies with saturation at MaxUint64. Footprint estimates must
// never wrap: a wrapped estimate reads as tiny and admits the candidate.
func satMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint64/b {
		return math.MaxUint64
	}
	return a * b
}

// estimateMemory projects the memory footprint of one backend for the
// analyzed circuit, saturating at MaxUint64 instead of overflowing.
func estimateMemory(b Backend, a Analysis, rc ResourceConfig) uint64 {
	n := a.NumQubits
	switch b.Memory {
	case MemoryStabilizer:
		// Tableau of Pauli rows: quadratic, with a small fixed overhead.
		return uint64(n)*uint64(n)/4 + 64
	case MemoryCompressed:
		chi := bondDimension(a.TreewidthEstimate, rc.BondDimensionCap)
		return satMul(satMul(amplitudeBytes*uint64(n), chi), chi)
	case MemoryDecisionDiagram:
		tw := a.TreewidthEstimate
		if tw > 24 {
			tw = 24
		}
		return satMul(amplitudeBytes*uint64(n), uint64(1)<<uint(tw))
	default: // MemoryDense
		if n+4 >= 64 {
			return math.MaxUint64
		}
		return uint64(1) << uint(n+4)
	}
}

// estimateTime projects wall time in seconds. The figure only needs to be
// monotonic and comparable across backends, not accurate.
func estimateTime(b Backend, a Analysis, mem uint64) float64 {
	ops := float64(a.NumOperations)
	if ops == 0 {
		ops = 1
	}
	units := float64(mem) / amplitudeBytes
	return ops * units * 1e-9 / b.SpeedRank
}

// estimateResources scores one candidate against the soft ceiling and the
// capability requirements implied by the analysis.
func estimateResources(b Backend, a Analysis, rc ResourceConfig, hw HardwareProfile) ResourceEstimate {
	est := ResourceEstimate{Backend: b.Name}
	est.MemoryBytes = estimateMemory(b, a, rc)
	est.TimeSeconds = estimateTime(b, a, est.MemoryBytes)

	if ok, why := b.canRun(a); !ok {
		est.Reason = why
		return est
	}
	soft, _ := rc.ceilings(hw)
	if est.MemoryBytes > soft {
		est.Reason = fmt.Sprintf("needs %s, ceiling %s", humanize.IBytes(est.MemoryBytes), humanize.IBytes(soft))
		return est
	}
	est.Feasible = true
	return est
}

// filterFeasible narrows the candidate set to backends that are available,
// capable, and within the soft memory ceiling. When narrowing empties the
// set it re-admits the single lowest-footprint capable candidate and marks
// the decision degraded; only a breach of the hard ceiling turns into
// *ResourceExhaustedError. An empty capable set is *NoFeasibleBackendError.
func filterFeasible(a Analysis, candidates []Backend, hw HardwareProfile, rc ResourceConfig, tr *trace.Trace) ([]Backend, map[string]ResourceEstimate, bool, error) {
	estimates := make(map[string]ResourceEstimate, len(candidates))
	feasible := make([]Backend, 0, len(candidates))
	capable := make([]Backend, 0, len(candidates))
	var excluded []string

	for _, b := range candidates {
		if !b.Available {
			// Expected steady-state degradation, not an error.
			logrus.Debugf("route: backend %s unavailable, excluded", b.Name)
			tr.Record(trace.StageFeasibility, b.Name+" available", "false", trace.OutcomeExcluded)
			excluded = append(excluded, b.Name)
			continue
		}
		est := estimateResources(b, a, rc, hw)
		estimates[b.Name] = est
		if est.Feasible {
			capable = append(capable, b)
			feasible = append(feasible, b)
			tr.Record(trace.StageFeasibility, b.Name+" memory", humanize.IBytes(est.MemoryBytes), trace.OutcomeAdmitted)
			continue
		}
		if ok, _ := b.canRun(a); ok {
			capable = append(capable, b)
		}
		logrus.Debugf("route: backend %s infeasible: %s", b.Name, est.Reason)
		tr.Record(trace.StageFeasibility, b.Name+" feasible", est.Reason, trace.OutcomeExcluded)
		excluded = append(excluded, b.Name)
	}

	if len(feasible) > 0 {
		return feasible, estimates, false, nil
	}
	if len(capable) == 0 {
		return nil, estimates, false, &NoFeasibleBackendError{NumQubits: a.NumQubits, Excluded: excluded}
	}

	// Everything capable blew the soft ceiling. Re-admit the smallest
	// footprint rather than failing outright.
	best := capable[0]
	for _, b := range capable[1:] {
		eb, ebest := estimates[b.Name], estimates[best.Name]
		if eb.MemoryBytes < ebest.MemoryBytes ||
			(eb.MemoryBytes == ebest.MemoryBytes && lessByPriority(b, best)) {
			best = b
		}
	}
	_, hard := rc.ceilings(hw)
	required := estimates[best.Name].MemoryBytes
	if required > hard {
		return nil, estimates, false, &ResourceExhaustedError{Backend: best.Name, RequiredBytes: required, CeilingBytes: hard}
	}
	tr.Record(trace.StageFeasibility, best.Name+" re-admitted", humanize.IBytes(required), trace.OutcomeDegraded)
	logrus.Infof("route: feasible set empty, re-admitting %s in degraded mode", best.Name)
	return []Backend{best}, estimates, true, nil
}

// lessByPriority is the deterministic candidate tie-break: lower priority
// wins, then lexicographic name. Never insertion order alone.
func lessByPriority(a, b Backend) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Name < b.Name
}
