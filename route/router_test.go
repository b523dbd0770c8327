package route

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qroute/qroute/route/trace"
)

func testRouter(t *testing.T, backends ...Backend) *Router {
	t.Helper()
	if len(backends) == 0 {
		backends = DefaultBackends(testHardware())
	}
	r, err := NewRouter(NewRegistry(backends...), testHardware(), DefaultConfig())
	require.NoError(t, err)
	return r
}

func TestNewRouter_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "bogus"
	_, err := NewRouter(NewRegistry(DefaultBackends(testHardware())...), testHardware(), cfg)
	assert.Error(t, err)

	_, err = NewRouter(nil, testHardware(), DefaultConfig())
	assert.Error(t, err)
}

// TestRoute_CliffordFastPath verifies that a 40-qubit stabilizer chain with
// all qubits measured goes to the stabilizer engine at confidence 1.0.
func TestRoute_CliffordFastPath(t *testing.T) {
	r := testRouter(t)

	d, err := r.Route(ghzCircuit(40))

	require.NoError(t, err)
	assert.Equal(t, BackendStabilizer, d.Backend.Name)
	assert.Equal(t, 1.0, d.Confidence)
	assert.False(t, d.Degraded)
}

// TestRoute_CliffordFastPath_Invariant verifies the invariant over a spread
// of Clifford circuits: whenever the stabilizer engine is available and
// feasible, it is always the choice.
func TestRoute_CliffordFastPath_Invariant(t *testing.T) {
	r := testRouter(t)
	for _, n := range []int{2, 3, 8, 16, 25, 40} {
		d, err := r.Route(ghzCircuit(n))
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, BackendStabilizer, d.Backend.Name, "n=%d", n)
		assert.Equal(t, 1.0, d.Confidence, "n=%d", n)
	}
}

// TestRoute_EmptyCircuitTakesCliffordFastPath verifies that a circuit with
// no operations is vacuously stabilizer and short-circuits in Phase 1, even
// against a general engine that would out-score the stabilizer in Phase 2.
func TestRoute_EmptyCircuitTakesCliffordFastPath(t *testing.T) {
	stab := Backend{
		Name: BackendStabilizer, Available: true,
		Caps: Caps(CapClifford), SpeedRank: 50, Priority: 1, Memory: MemoryStabilizer,
	}
	fast := Backend{
		Name: "fast-general", Available: true,
		Caps: Caps(CapGeneral, CapParameterized), SpeedRank: 500, Priority: 0, Memory: MemoryDense,
	}
	r := testRouter(t, stab, fast)

	d, err := r.Route(&Circuit{NumQubits: 2})

	require.NoError(t, err)
	assert.Equal(t, BackendStabilizer, d.Backend.Name)
	assert.Equal(t, 1.0, d.Confidence)
}

// TestRoute_SingleCandidateFallback verifies that with only a general
// engine registered, a tiny Bell circuit falls through every rule and lands
// there at confidence 1.0.
func TestRoute_SingleCandidateFallback(t *testing.T) {
	sv := Backend{
		Name: BackendStatevector, Available: true,
		Caps: Caps(CapGeneral, CapParameterized), SpeedRank: 10, Priority: 2, Memory: MemoryDense,
	}
	r := testRouter(t, sv)

	d, err := r.Route(ghzCircuit(2))

	require.NoError(t, err)
	assert.Equal(t, BackendStatevector, d.Backend.Name)
	assert.Equal(t, 1.0, d.Confidence)
	require.Len(t, d.Alternatives, 1)
}

// TestRoute_LowEntanglementSpecialist verifies that a weakly entangled
// sparse chain short-circuits to the MPS specialist.
func TestRoute_LowEntanglementSpecialist(t *testing.T) {
	r := testRouter(t)

	d, err := r.Route(sparseChainCircuit(12))

	require.NoError(t, err)
	assert.Equal(t, BackendMPS, d.Backend.Name)
	assert.Equal(t, 1.0, d.Confidence)
}

// TestRoute_ResourceExhausted verifies the hard-ceiling failure: 35 dense
// qubits, one dense engine, 8 GiB of memory.
func TestRoute_ResourceExhausted(t *testing.T) {
	sv := Backend{
		Name: BackendStatevector, Available: true,
		Caps: Caps(CapGeneral, CapParameterized), SpeedRank: 10, Priority: 2, Memory: MemoryDense,
	}
	r := testRouter(t, sv)

	_, err := r.Route(denseCircuit(35, 1))

	var exhausted *ResourceExhaustedError
	require.True(t, errors.As(err, &exhausted), "expected *ResourceExhaustedError, got %v", err)
}

// TestRoute_Deterministic verifies bit-identical decisions across repeated
// calls for fixed inputs.
func TestRoute_Deterministic(t *testing.T) {
	r := testRouter(t)
	circuits := []*Circuit{ghzCircuit(10), sparseChainCircuit(12), denseCircuit(8, 2), parameterizedCircuit(4)}
	for _, c := range circuits {
		first, err := r.Route(c)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := r.Route(c)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestRoute_ConfidenceBounds(t *testing.T) {
	r := testRouter(t)
	circuits := []*Circuit{ghzCircuit(3), sparseChainCircuit(9), denseCircuit(10, 2), parameterizedCircuit(5)}
	for _, c := range circuits {
		d, err := r.Route(c)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d.Confidence, 0.0)
		assert.LessOrEqual(t, d.Confidence, 1.0)
	}
}

// TestRoute_AlternativesOrdering verifies the ranked list: descending
// scores, deterministic tie-break, no duplicates, chosen at the head.
func TestRoute_AlternativesOrdering(t *testing.T) {
	r := testRouter(t)

	d, err := r.Route(denseCircuit(10, 2)) // forces Phase 2
	require.NoError(t, err)
	require.NotEmpty(t, d.Alternatives)
	assert.Equal(t, d.Backend.Name, d.Alternatives[0].Backend.Name)

	seen := map[string]bool{}
	for i, alt := range d.Alternatives {
		assert.False(t, seen[alt.Backend.Name], "duplicate %s", alt.Backend.Name)
		seen[alt.Backend.Name] = true
		if i > 0 {
			prev := d.Alternatives[i-1]
			if prev.Score == alt.Score {
				assert.True(t, lessByPriority(prev.Backend, alt.Backend))
			} else {
				assert.Greater(t, prev.Score, alt.Score)
			}
		}
	}
}

func TestRoute_StrategyChangesRanking(t *testing.T) {
	r := testRouter(t)
	c := denseCircuit(10, 2)

	accuracy, err := r.RouteWith(c, StrategyAccuracyFirst)
	require.NoError(t, err)
	memory, err := r.RouteWith(c, StrategyMemoryEfficient)
	require.NoError(t, err)

	assert.Equal(t, BackendStatevector, accuracy.Backend.Name)
	assert.NotEqual(t, accuracy.Backend.Name, memory.Backend.Name)
}

func TestRouteWith_UnknownStrategy(t *testing.T) {
	r := testRouter(t)
	_, err := r.RouteWith(ghzCircuit(2), "bogus")
	assert.Error(t, err)
}

func TestRoute_TraceReconstructsDecision(t *testing.T) {
	r := testRouter(t)

	d, err := r.Route(ghzCircuit(6))
	require.NoError(t, err)
	require.NotNil(t, d.Trace)

	// Analysis metrics recorded first, then the matched rule, then the
	// selection itself.
	assert.NotEmpty(t, d.Trace.StageSteps(trace.StageAnalysis))
	filterSteps := d.Trace.StageSteps(trace.StageFilter)
	require.NotEmpty(t, filterSteps)
	assert.Equal(t, trace.OutcomeMatched, filterSteps[0].Outcome)

	decisionSteps := d.Trace.StageSteps(trace.StageDecision)
	require.NotEmpty(t, decisionSteps)
	assert.Equal(t, d.Backend.Name, decisionSteps[0].Value)
}

func TestRouteTo_ForcedBackend(t *testing.T) {
	r := testRouter(t)

	d, err := r.RouteTo(ghzCircuit(4), BackendStatevector)
	require.NoError(t, err)
	assert.Equal(t, BackendStatevector, d.Backend.Name)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestRouteTo_Errors(t *testing.T) {
	r := testRouter(t)

	_, err := r.RouteTo(ghzCircuit(4), "warp-drive")
	assert.Error(t, err)

	// Forcing a Clifford-only engine onto a non-Clifford circuit fails.
	_, err = r.RouteTo(denseCircuit(6, 1), BackendStabilizer)
	var nofeasible *NoFeasibleBackendError
	assert.True(t, errors.As(err, &nofeasible))

	// Forcing a dense engine far past the hard ceiling fails.
	_, err = r.RouteTo(denseCircuit(35, 1), BackendStatevector)
	var exhausted *ResourceExhaustedError
	assert.True(t, errors.As(err, &exhausted))
}

func TestRouteContext_CompletesWithinDeadline(t *testing.T) {
	r := testRouter(t)
	d, err := r.RouteContext(context.Background(), ghzCircuit(6), "")
	require.NoError(t, err)
	assert.Equal(t, BackendStabilizer, d.Backend.Name)
}

func TestRouter_AnalysisCacheHit(t *testing.T) {
	r := testRouter(t)
	c := denseCircuit(6, 1)

	first, err := r.Analyze(c)
	require.NoError(t, err)
	again, err := r.Analyze(c)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// A structurally identical but distinct value hits the same entry.
	clone := denseCircuit(6, 1)
	cached, err := r.Analyze(clone)
	require.NoError(t, err)
	assert.Equal(t, first, cached)
}

func TestExplain_RendersTrace(t *testing.T) {
	r := testRouter(t)

	text, err := r.Explain(ghzCircuit(8), "")
	require.NoError(t, err)
	assert.Contains(t, text, "chosen backend: "+BackendStabilizer)
	assert.Contains(t, text, "is_clifford")
	assert.Contains(t, text, string(trace.StageAnalysis))
}

func TestRegistry_DuplicateName_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic on duplicate backend name, got none")
		}
	}()
	b := denseBackend()
	NewRegistry(b, b)
}

func TestRegistry_RefreshReplacesCatalog(t *testing.T) {
	r := NewRegistry(DefaultBackends(testHardware())...)
	r.Refresh(func() []Backend {
		return []Backend{{Name: "only", Available: true, Caps: Caps(CapGeneral), SpeedRank: 1, Memory: MemoryDense}}
	})
	candidates := r.Candidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, "only", candidates[0].Name)
}
