package route

import (
	"fmt"
	"sort"
	"sync"
)

// Capability is a single thing a backend can do (or needs), used as a bit in
// a CapabilitySet. Capability checks are bitset tests, not type switches.
type Capability uint16

const (
	// CapClifford marks stabilizer-formalism engines. Combined with the
	// absence of CapGeneral it means Clifford-only.
	CapClifford Capability = 1 << iota
	// CapGeneral marks engines that accept arbitrary gate sets.
	CapGeneral
	// CapParameterized marks engines that can bind free parameters.
	CapParameterized
	// CapVariational marks engines tuned for parameterized/variational
	// workloads beyond merely accepting them.
	CapVariational
	// CapLowEntanglement marks engines whose compressed representation is
	// efficient on weakly entangled circuits.
	CapLowEntanglement
	// CapCompressed marks engines whose memory scales with bond dimension
	// or decision-diagram size rather than 2^n.
	CapCompressed
	// CapGPU marks engines that require a GPU accelerator.
	CapGPU
)

// CapabilitySet is a bitset of Capability flags.
type CapabilitySet uint16

// Caps builds a CapabilitySet from individual flags.
func Caps(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

// Has reports whether the set contains the given capability.
func (s CapabilitySet) Has(c Capability) bool { return s&CapabilitySet(c) != 0 }

// MemoryModel names how a backend's memory footprint scales with circuit
// structure. It drives the resource estimator.
type MemoryModel string

const (
	// MemoryDense scales as 2^n amplitudes.
	MemoryDense MemoryModel = "dense"
	// MemoryStabilizer scales as a quadratic tableau in n.
	MemoryStabilizer MemoryModel = "stabilizer"
	// MemoryCompressed scales with n and the bond dimension implied by the
	// treewidth estimate.
	MemoryCompressed MemoryModel = "compressed"
	// MemoryDecisionDiagram scales with n and diagram width, bounded by the
	// treewidth estimate.
	MemoryDecisionDiagram MemoryModel = "decision-diagram"
)

// Backend describes one execution engine as seen by the router: identity,
// availability, capability bitset, a base speed rank (higher is faster), and
// a priority used as the deterministic tie-break (lower wins).
type Backend struct {
	Name      string
	Available bool
	Caps      CapabilitySet
	SpeedRank float64
	Priority  int
	Memory    MemoryModel
}

// canRun reports whether the backend is capable of executing a circuit with
// the given analysis at all, independent of resource limits.
func (b Backend) canRun(a Analysis) (bool, string) {
	if !a.IsClifford && b.Caps.Has(CapClifford) && !b.Caps.Has(CapGeneral) {
		return false, "non-Clifford circuit on a Clifford-only engine"
	}
	if a.IsParameterized && !b.Caps.Has(CapParameterized) {
		return false, "unbound parameters unsupported"
	}
	return true, ""
}

// Registry holds the known backends. It is populated once (or via an
// explicit Refresh) and read per routing call; routing itself never mutates
// it. Backend names must be unique.
type Registry struct {
	mu       sync.RWMutex
	backends []Backend
}

// NewRegistry creates a registry from a fixed backend list.
// Panics on duplicate names: a registry with ambiguous identities cannot
// produce deterministic decisions.
func NewRegistry(backends ...Backend) *Registry {
	seen := make(map[string]bool, len(backends))
	for _, b := range backends {
		if b.Name == "" {
			panic("route: backend with empty name")
		}
		if seen[b.Name] {
			panic(fmt.Sprintf("route: duplicate backend %q", b.Name))
		}
		seen[b.Name] = true
	}
	r := &Registry{backends: make([]Backend, len(backends))}
	copy(r.backends, backends)
	return r
}

// Candidates returns a copy of the registered backends sorted by priority,
// then name. The copy keeps callers from mutating shared registry state.
func (r *Registry) Candidates() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Backend, len(r.backends))
	copy(out, r.backends)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Lookup returns the backend with the given name.
func (r *Registry) Lookup(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.backends {
		if b.Name == name {
			return b, true
		}
	}
	return Backend{}, false
}

// Refresh replaces the backend list with the result of a discovery pass.
// This is an explicit out-of-band operation, never part of a routing call.
func (r *Registry) Refresh(discover func() []Backend) {
	fresh := discover()
	seen := make(map[string]bool, len(fresh))
	for _, b := range fresh {
		if b.Name == "" || seen[b.Name] {
			panic(fmt.Sprintf("route: discovery produced invalid backend %q", b.Name))
		}
		seen[b.Name] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends = make([]Backend, len(fresh))
	copy(r.backends, fresh)
}

// Default backend names. The catalog mirrors the engines this router was
// built to arbitrate between.
const (
	BackendStabilizer      = "stabilizer"
	BackendStatevector     = "statevector"
	BackendGPUStatevector  = "gpu-statevector"
	BackendTensorNetwork   = "tensor-network"
	BackendMPS             = "mps"
	BackendDecisionDiagram = "decision-diagram"
)

// DefaultBackends returns the standard six-engine catalog. Availability of
// the GPU engine follows the hardware profile; everything else is assumed
// present until a registry refresh says otherwise.
func DefaultBackends(hw HardwareProfile) []Backend {
	return []Backend{
		{
			Name:      BackendStabilizer,
			Available: true,
			Caps:      Caps(CapClifford),
			SpeedRank: 50,
			Priority:  0,
			Memory:    MemoryStabilizer,
		},
		{
			Name:      BackendGPUStatevector,
			Available: hw.HasGPU,
			Caps:      Caps(CapGeneral, CapParameterized, CapVariational, CapGPU),
			SpeedRank: 20,
			Priority:  1,
			Memory:    MemoryDense,
		},
		{
			Name:      BackendStatevector,
			Available: true,
			Caps:      Caps(CapGeneral, CapParameterized, CapVariational),
			SpeedRank: 10,
			Priority:  2,
			Memory:    MemoryDense,
		},
		{
			Name:      BackendDecisionDiagram,
			Available: true,
			Caps:      Caps(CapGeneral, CapCompressed),
			SpeedRank: 12,
			Priority:  3,
			Memory:    MemoryDecisionDiagram,
		},
		{
			Name:      BackendMPS,
			Available: true,
			Caps:      Caps(CapGeneral, CapParameterized, CapLowEntanglement, CapCompressed),
			SpeedRank: 6,
			Priority:  4,
			Memory:    MemoryCompressed,
		},
		{
			Name:      BackendTensorNetwork,
			Available: true,
			Caps:      Caps(CapGeneral, CapParameterized, CapCompressed),
			SpeedRank: 8,
			Priority:  5,
			Memory:    MemoryCompressed,
		},
	}
}
