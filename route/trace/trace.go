// Package trace provides reasoning-trace recording for routing decisions.
// This package has no dependencies on route/ — it stores pure data types.
package trace

// Stage identifies the pipeline stage a step was recorded in.
type Stage string

const (
	// StageAnalysis covers structural metric computation.
	StageAnalysis Stage = "analysis"
	// StageFilter covers the ordered capability-rule pass.
	StageFilter Stage = "capability-filter"
	// StageFeasibility covers resource estimation and narrowing.
	StageFeasibility Stage = "feasibility"
	// StageScoring covers weighted strategy scoring.
	StageScoring Stage = "scoring"
	// StageDecision covers final selection and confidence.
	StageDecision Stage = "decision"
)

// Outcome classifies what happened when a predicate or metric was evaluated.
type Outcome string

const (
	// OutcomeComputed marks a metric that was measured and recorded.
	OutcomeComputed Outcome = "computed"
	// OutcomeMatched marks a predicate that held and influenced the decision.
	OutcomeMatched Outcome = "matched"
	// OutcomeNoMatch marks a predicate that was evaluated and did not hold.
	OutcomeNoMatch Outcome = "no-match"
	// OutcomeSkipped marks a rule whose target engine was missing, so the
	// rule was passed over rather than failed.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeExcluded marks a candidate removed from consideration.
	OutcomeExcluded Outcome = "excluded"
	// OutcomeAdmitted marks a candidate that survived narrowing.
	OutcomeAdmitted Outcome = "admitted"
	// OutcomeDegraded marks the re-admission of a last-resort candidate.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeSelected marks the chosen engine.
	OutcomeSelected Outcome = "selected"
)

// Step is one evaluated predicate or metric: which stage ran it, what was
// evaluated, the measured value, and what came of it.
type Step struct {
	Stage     Stage
	Predicate string
	Value     string
	Outcome   Outcome
}

// Trace is the ordered reasoning record of a single routing call. It is
// sufficient to reconstruct why a decision was made without re-running the
// router.
type Trace struct {
	Steps []Step
}

// New creates an empty trace ready for recording.
func New() *Trace {
	return &Trace{Steps: make([]Step, 0, 16)}
}

// Record appends one step.
func (t *Trace) Record(stage Stage, predicate, value string, outcome Outcome) {
	t.Steps = append(t.Steps, Step{Stage: stage, Predicate: predicate, Value: value, Outcome: outcome})
}

// StageSteps returns the steps recorded for one stage, in order.
func (t *Trace) StageSteps(stage Stage) []Step {
	var out []Step
	for _, s := range t.Steps {
		if s.Stage == stage {
			out = append(out, s)
		}
	}
	return out
}
