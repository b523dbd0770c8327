package route

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qroute/qroute/route/trace"
)

// Decision is the complete outcome of one routing call: the chosen engine,
// a bounded confidence, the ranked alternatives, whether the feasibility
// checker had to degrade, and the full reasoning trace. A Decision is either
// returned whole or not at all; there is no partial result.
type Decision struct {
	Backend      Backend
	Confidence   float64
	Alternatives []ScoredBackend
	Degraded     bool
	Trace        *trace.Trace
}

// Router runs the analyze → filter → feasibility → score → explain pipeline.
// All per-call state is stack-local, so a single Router is safe for
// concurrent use; the registry and hardware profile it reads are effectively
// constant between explicit refreshes.
type Router struct {
	registry *Registry
	hw       HardwareProfile
	cfg      Config
	cache    *analysisCache
}

// NewRouter builds a router over the given registry, hardware profile and
// configuration. The configuration is validated up front so routing calls
// cannot fail on config errors later.
func NewRouter(registry *Registry, hw HardwareProfile, cfg Config) (*Router, error) {
	if registry == nil {
		return nil, fmt.Errorf("route: nil registry")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	return &Router{
		registry: registry,
		hw:       hw,
		cfg:      cfg,
		cache:    newAnalysisCache(cfg.AnalysisCacheSize),
	}, nil
}

// NewDefaultRouter probes the local hardware once and registers the stock
// backend catalog with the stock configuration.
func NewDefaultRouter() *Router {
	hw := Probe()
	r, err := NewRouter(NewRegistry(DefaultBackends(hw)...), hw, DefaultConfig())
	if err != nil {
		panic(err) // defaults are always valid
	}
	return r
}

// Registry exposes the backend registry, e.g. for an out-of-band refresh.
func (r *Router) Registry() *Registry { return r.registry }

// Analyze computes (or returns the memoized) structural analysis for a
// circuit.
func (r *Router) Analyze(c *Circuit) (Analysis, error) {
	if a, ok := r.cache.get(c); ok {
		return a, nil
	}
	a, err := Analyze(c)
	if err != nil {
		return Analysis{}, err
	}
	r.cache.put(c, a)
	return a, nil
}

// Route selects the best backend for the circuit under the configured
// strategy.
func (r *Router) Route(c *Circuit) (Decision, error) {
	return r.RouteWith(c, r.cfg.Strategy)
}

// RouteWith selects the best backend for the circuit under a named strategy.
// An empty strategy name means the configured default.
func (r *Router) RouteWith(c *Circuit, strategy string) (Decision, error) {
	if !IsValidStrategy(strategy) {
		return Decision{}, fmt.Errorf("route: unknown strategy %q; valid: %v", strategy, ValidStrategyNames())
	}
	if strategy == "" {
		strategy = r.cfg.Strategy
	}

	tr := trace.New()
	a, err := r.Analyze(c)
	if err != nil {
		return Decision{}, err
	}
	recordAnalysis(tr, a)

	candidates := r.registry.Candidates()

	// Phase 1: ordered deterministic rules, feasibility-checked per target.
	feasibleFn := func(b Backend) bool {
		return estimateResources(b, a, r.cfg.Resources, r.hw).Feasible
	}
	if target := matchFilter(a, candidates, r.cfg.Thresholds, feasibleFn, tr); target != nil {
		est := estimateResources(*target, a, r.cfg.Resources, r.hw)
		tr.Record(trace.StageDecision, "chosen", target.Name, trace.OutcomeSelected)
		tr.Record(trace.StageDecision, "confidence", "1.00", trace.OutcomeComputed)
		logrus.Debugf("route: phase-1 match, chose %s", target.Name)
		return Decision{
			Backend:      *target,
			Confidence:   1.0,
			Alternatives: []ScoredBackend{{Backend: *target, Score: target.SpeedRank, Estimate: est}},
			Trace:        tr,
		}, nil
	}

	// Phase 2: narrow to feasible candidates, then weighted scoring.
	feasible, estimates, degraded, err := filterFeasible(a, candidates, r.hw, r.cfg.Resources, tr)
	if err != nil {
		return Decision{}, err
	}
	ranked := scoreCandidates(feasible, estimates, a, r.hw, strategy, tr)

	chosen := ranked[0]
	confidence := scoreConfidence(ranked)
	tr.Record(trace.StageDecision, "chosen", chosen.Backend.Name, trace.OutcomeSelected)
	tr.Record(trace.StageDecision, "confidence", fmt.Sprintf("%.2f", confidence), trace.OutcomeComputed)
	if degraded {
		tr.Record(trace.StageDecision, "degraded", "true", trace.OutcomeDegraded)
	}
	logrus.Debugf("route: phase-2 chose %s (confidence %.2f, strategy %s)", chosen.Backend.Name, confidence, strategy)
	return Decision{
		Backend:      chosen.Backend,
		Confidence:   confidence,
		Alternatives: ranked,
		Degraded:     degraded,
		Trace:        tr,
	}, nil
}

// RouteTo forces a named backend, bypassing selection but not safety: the
// backend must exist, be available, be capable of the circuit, and fit under
// the hard memory ceiling. Fitting under the hard ceiling but over the soft
// one yields a degraded decision, mirroring the re-admission path.
func (r *Router) RouteTo(c *Circuit, backendName string) (Decision, error) {
	tr := trace.New()
	a, err := r.Analyze(c)
	if err != nil {
		return Decision{}, err
	}
	recordAnalysis(tr, a)

	b, ok := r.registry.Lookup(backendName)
	if !ok {
		return Decision{}, fmt.Errorf("route: unknown backend %q", backendName)
	}
	if !b.Available {
		return Decision{}, &NoFeasibleBackendError{NumQubits: a.NumQubits, Excluded: []string{backendName}}
	}
	if ok, why := b.canRun(a); !ok {
		tr.Record(trace.StageFeasibility, b.Name+" capable", why, trace.OutcomeExcluded)
		return Decision{}, &NoFeasibleBackendError{NumQubits: a.NumQubits, Excluded: []string{backendName}}
	}
	est := estimateResources(b, a, r.cfg.Resources, r.hw)
	_, hard := r.cfg.Resources.ceilings(r.hw)
	if est.MemoryBytes > hard {
		return Decision{}, &ResourceExhaustedError{Backend: b.Name, RequiredBytes: est.MemoryBytes, CeilingBytes: hard}
	}
	degraded := !est.Feasible
	tr.Record(trace.StageDecision, "forced", b.Name, trace.OutcomeSelected)
	if degraded {
		tr.Record(trace.StageDecision, "degraded", est.Reason, trace.OutcomeDegraded)
	}
	return Decision{
		Backend:      b,
		Confidence:   1.0,
		Alternatives: []ScoredBackend{{Backend: b, Score: b.SpeedRank, Estimate: est}},
		Degraded:     degraded,
		Trace:        tr,
	}, nil
}

// RouteContext wraps RouteWith with a caller-imposed deadline. The pipeline
// holds no resources, so a timed-out call simply abandons its stack-local
// work; the result, if the deadline expires first, is *RoutingTimeoutError.
func (r *Router) RouteContext(ctx context.Context, c *Circuit, strategy string) (Decision, error) {
	type result struct {
		d   Decision
		err error
	}
	start := time.Now()
	ch := make(chan result, 1)
	go func() {
		d, err := r.RouteWith(c, strategy)
		ch <- result{d, err}
	}()
	select {
	case res := <-ch:
		return res.d, res.err
	case <-ctx.Done():
		return Decision{}, &RoutingTimeoutError{Elapsed: time.Since(start)}
	}
}

// Explain routes the circuit and renders the reasoning trace as plain text,
// headed by the decision itself.
func (r *Router) Explain(c *Circuit, strategy string) (string, error) {
	d, err := r.RouteWith(c, strategy)
	if err != nil {
		return "", err
	}
	header := fmt.Sprintf("chosen backend: %s (confidence %.2f)\n", d.Backend.Name, d.Confidence)
	if d.Degraded {
		header += "mode: degraded (last-resort re-admission)\n"
	}
	return header + trace.Render(d.Trace), nil
}

// scoreConfidence is the normalized gap between the top two scores, clipped
// to [0,1]. A single candidate is an unambiguous choice.
func scoreConfidence(ranked []ScoredBackend) float64 {
	if len(ranked) == 1 {
		return 1.0
	}
	s1, s2 := ranked[0].Score, ranked[1].Score
	if s1 <= 0 {
		return 0
	}
	conf := (s1 - s2) / s1
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

// recordAnalysis writes the measured structural metrics into the trace.
func recordAnalysis(tr *trace.Trace, a Analysis) {
	tr.Record(trace.StageAnalysis, "num_qubits", fmt.Sprintf("%d", a.NumQubits), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "num_operations", fmt.Sprintf("%d", a.NumOperations), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "is_clifford", fmt.Sprintf("%v", a.IsClifford), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "clifford_ratio", fmt.Sprintf("%.3f", a.CliffordRatio), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "depth", fmt.Sprintf("%d", a.Depth), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "two_qubit_depth", fmt.Sprintf("%d", a.TwoQubitDepth), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "gate_entropy", fmt.Sprintf("%.3f", a.GateEntropy), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "connectivity_score", fmt.Sprintf("%.3f", a.ConnectivityScore), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "treewidth_estimate", fmt.Sprintf("%d", a.TreewidthEstimate), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "entanglement_estimate", fmt.Sprintf("%.3f", a.EntanglementEstimate), trace.OutcomeComputed)
	tr.Record(trace.StageAnalysis, "is_parameterized", fmt.Sprintf("%v", a.IsParameterized), trace.OutcomeComputed)
}
