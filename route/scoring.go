package route

import (
	"fmt"
	"sort"

	"github.com/qroute/qroute/route/trace"
)

// Strategy names selectable by value.
const (
	StrategyDefault         = "default"
	StrategySpeedFirst      = "speed-first"
	StrategyMemoryEfficient = "memory-efficient"
	StrategyAccuracyFirst   = "accuracy-first"
	StrategyHardwareAware   = "hardware-aware"
)

// strategyFunc computes a multiplicative score adjustment for one candidate.
// The scoring engine multiplies it with the candidate's base speed rank.
// Implementations must be pure and deterministic.
type strategyFunc func(b Backend, a Analysis, hw HardwareProfile) float64

// validStrategies maps strategy names to implementations. Unexported to
// prevent mutation.
var validStrategies = map[string]strategyFunc{
	StrategyDefault:         scoreBalanced,
	StrategySpeedFirst:      scoreSpeedFirst,
	StrategyMemoryEfficient: scoreMemoryEfficient,
	StrategyAccuracyFirst:   scoreAccuracyFirst,
	StrategyHardwareAware:   scoreHardwareAware,
}

// IsValidStrategy returns true if name is a recognized scoring strategy.
// The empty string is valid and means the default strategy.
func IsValidStrategy(name string) bool {
	if name == "" {
		return true
	}
	_, ok := validStrategies[name]
	return ok
}

// ValidStrategyNames returns the recognized strategy names, sorted.
func ValidStrategyNames() []string {
	names := make([]string, 0, len(validStrategies))
	for name := range validStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newStrategy resolves a strategy by name. Empty string resolves to the
// default. Panics on unrecognized names: strategy selection is validated
// configuration, so an unknown name here is a programming error.
func newStrategy(name string) strategyFunc {
	if name == "" {
		name = StrategyDefault
	}
	fn, ok := validStrategies[name]
	if !ok {
		panic(fmt.Sprintf("unknown strategy %q", name))
	}
	return fn
}

// gpuBoost doubles the multiplier for engines whose required accelerator is
// actually present.
func gpuBoost(b Backend, hw HardwareProfile) float64 {
	if b.Caps.Has(CapGPU) && hw.HasGPU {
		return 2.0
	}
	return 1.0
}

// scoreBalanced is the default strategy: penalize dense representations as
// qubit count grows, reward compressed ones on weakly entangled circuits,
// and apply the accelerator boost.
func scoreBalanced(b Backend, a Analysis, hw HardwareProfile) float64 {
	m := gpuBoost(b, hw)
	switch b.Memory {
	case MemoryDense:
		m *= 1.0 / (1.0 + float64(a.NumQubits)/20.0)
	case MemoryCompressed, MemoryDecisionDiagram:
		if a.EntanglementEstimate < 4.0 {
			m *= 1.5
		} else if a.EntanglementEstimate > 16.0 {
			m *= 0.5
		}
	}
	if a.IsClifford && b.Caps.Has(CapClifford) {
		m *= 4.0
	}
	return m
}

// scoreSpeedFirst trusts the base speed ranks, adjusted only by the
// accelerator boost.
func scoreSpeedFirst(b Backend, _ Analysis, hw HardwareProfile) float64 {
	return gpuBoost(b, hw)
}

// scoreMemoryEfficient favors representations with small footprints and
// penalizes dense state vectors in proportion to qubit count.
func scoreMemoryEfficient(b Backend, a Analysis, _ HardwareProfile) float64 {
	switch b.Memory {
	case MemoryStabilizer:
		return 4.0
	case MemoryCompressed:
		return 2.5
	case MemoryDecisionDiagram:
		return 2.0
	default:
		return 1.0 / (1.0 + float64(a.NumQubits)/8.0)
	}
}

// scoreAccuracyFirst favors exact dense simulation and distrusts compressed
// representations once the entanglement estimate suggests truncation error.
func scoreAccuracyFirst(b Backend, a Analysis, _ HardwareProfile) float64 {
	switch b.Memory {
	case MemoryDense:
		return 2.0
	case MemoryCompressed:
		if a.EntanglementEstimate > 8.0 {
			return 0.25
		}
		return 0.75
	default:
		return 1.0
	}
}

// scoreHardwareAware leans on detected accelerators: GPU engines get the
// boost, and dense engines get a bump on Apple silicon where the vendor BLAS
// path is fast.
func scoreHardwareAware(b Backend, _ Analysis, hw HardwareProfile) float64 {
	m := gpuBoost(b, hw)
	if hw.AppleSilicon && b.Memory == MemoryDense && !b.Caps.Has(CapGPU) {
		m *= 1.5
	}
	return m
}

// ScoredBackend pairs a candidate with its composite score and resource
// estimate. Decision alternatives are ranked lists of these.
type ScoredBackend struct {
	Backend  Backend
	Score    float64
	Estimate ResourceEstimate
}

// scoreCandidates ranks the feasible candidates under the given strategy:
// score = base speed rank × strategy multiplier, sorted descending with the
// deterministic priority/name tie-break.
func scoreCandidates(candidates []Backend, estimates map[string]ResourceEstimate, a Analysis, hw HardwareProfile, strategyName string, tr *trace.Trace) []ScoredBackend {
	strategy := newStrategy(strategyName)
	ranked := make([]ScoredBackend, 0, len(candidates))
	for _, b := range candidates {
		mult := strategy(b, a, hw)
		score := b.SpeedRank * mult
		tr.Record(trace.StageScoring, b.Name,
			fmt.Sprintf("%.3f (rank %.1f × %.3f)", score, b.SpeedRank, mult), trace.OutcomeComputed)
		ranked = append(ranked, ScoredBackend{Backend: b, Score: score, Estimate: estimates[b.Name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return lessByPriority(ranked[i].Backend, ranked[j].Backend)
	})
	return ranked
}
