// Package route selects the best execution engine for a quantum circuit.
//
// # Reading Guide
//
// Start with these three files to understand the decision pipeline:
//   - circuit.go: the circuit descriptor and its validation
//   - analysis.go: structural metrics (Clifford detection, depth, entropy,
//     connectivity, treewidth and entanglement estimates)
//   - router.go: the analyze → filter → feasibility → score → explain flow
//
// # Architecture
//
// Routing runs in two phases. Phase 1 (filter.go) walks an ordered list of
// deterministic capability rules — a pure-Clifford circuit goes to the
// stabilizer engine, a parameterized one to a variational-optimized engine,
// a weakly entangled one to a compressed-representation engine — and stops
// at the first rule whose target exists and fits. Phase 2 (scoring.go) runs
// only when no rule matches: feasibility narrowing (feasibility.go) removes
// candidates whose projected memory exceeds the configured ceilings, then a
// named strategy multiplies each survivor's base speed rank into a composite
// score. The full ranked list, the confidence, and an ordered reasoning
// trace (route/trace) make up the Decision.
//
// Every step is deterministic: ties break on candidate priority and then
// name, never on map iteration or insertion order. For a fixed circuit,
// registry state, hardware profile and strategy, Route returns bit-identical
// decisions.
//
// Structural estimators are polynomial-time heuristics. The treewidth
// estimate is a min-degree elimination upper bound and the entanglement
// estimate a tuned monotonic blend; neither claims exactness.
//
// The only process-wide state is the hardware profile (hardware.go),
// populated once behind a sync.Once. Backend discovery is an explicit
// Registry.Refresh, never part of a routing call.
package route
