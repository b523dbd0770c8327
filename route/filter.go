package route

import (
	"fmt"

	"github.com/qroute/qroute/route/trace"
)

// filterRule is one deterministic Phase 1 rule: a predicate over the
// analysis and the capability the matching engine must carry.
type filterRule struct {
	name      string
	wants     Capability
	predicate func(a Analysis, th Thresholds) (bool, string)
}

// filterRules is the ordered Phase 1 rule list. Order matters: the first
// rule whose predicate holds and whose target engine exists wins, and
// evaluation stops there.
var filterRules = []filterRule{
	{
		name:  "is_clifford",
		wants: CapClifford,
		predicate: func(a Analysis, _ Thresholds) (bool, string) {
			// An empty circuit is vacuously stabilizer (ratio 1.0) and
			// takes the fast path like any other Clifford circuit.
			return a.IsClifford, fmt.Sprintf("%v (ratio %.2f)", a.IsClifford, a.CliffordRatio)
		},
	},
	{
		name:  "is_parameterized",
		wants: CapVariational,
		predicate: func(a Analysis, _ Thresholds) (bool, string) {
			return a.IsParameterized, fmt.Sprintf("%v", a.IsParameterized)
		},
	},
	{
		name:  "entanglement_estimate below threshold",
		wants: CapLowEntanglement,
		predicate: func(a Analysis, th Thresholds) (bool, string) {
			return a.EntanglementEstimate < th.LowEntanglement,
				fmt.Sprintf("%.3f (threshold %.3f)", a.EntanglementEstimate, th.LowEntanglement)
		},
	},
}

// matchFilter evaluates the ordered rule list against the candidates.
// A rule whose predicate holds selects the lowest-priority available and
// feasible candidate carrying the wanted capability; if no such candidate
// exists the rule is skipped and evaluation continues, so a missing
// specialist degrades to the next rule instead of failing. Returns nil when
// no rule matched, deferring to Phase 2.
func matchFilter(a Analysis, candidates []Backend, th Thresholds, feasible func(Backend) bool, tr *trace.Trace) *Backend {
	for _, rule := range filterRules {
		ok, value := rule.predicate(a, th)
		if !ok {
			tr.Record(trace.StageFilter, rule.name, value, trace.OutcomeNoMatch)
			continue
		}
		target := pickByCapability(candidates, rule.wants, a, feasible)
		if target == nil {
			tr.Record(trace.StageFilter, rule.name, value, trace.OutcomeSkipped)
			continue
		}
		tr.Record(trace.StageFilter, rule.name, value, trace.OutcomeMatched)
		tr.Record(trace.StageFilter, "target", target.Name, trace.OutcomeSelected)
		return target
	}
	return nil
}

// pickByCapability returns the best candidate carrying the wanted
// capability that is available, able to run the circuit, and feasible.
// Ties broken by priority then name.
func pickByCapability(candidates []Backend, want Capability, a Analysis, feasible func(Backend) bool) *Backend {
	var best *Backend
	for i := range candidates {
		b := candidates[i]
		if !b.Available || !b.Caps.Has(want) {
			continue
		}
		if ok, _ := b.canRun(a); !ok {
			continue
		}
		if !feasible(b) {
			continue
		}
		if best == nil || lessByPriority(b, *best) {
			best = &candidates[i]
		}
	}
	return best
}
