package model

// Verdict is the overall outcome of verifying a narrative against a catalog.
type Verdict string

const (
	VerdictApproved    Verdict = "APPROVED"     // All checks passed
	VerdictNeedsReview Verdict = "NEEDS_REVIEW" // Recoverable failures, corrections may apply
	VerdictRejected    Verdict = "REJECTED"     // Order violated, correction cannot reorder prose
)

// CheckName identifies one verification check.
type CheckName string

const (
	CheckOrder        CheckName = "order"        // Answers appear in index order
	CheckVeracity     CheckName = "veracity"     // No narrative value untraceable to a fact
	CheckCompleteness CheckName = "completeness" // Every non-sentinel answer present
	CheckStructure    CheckName = "structure"    // All named report sections present
)

// CheckResult is the outcome of a single verification check.
type CheckResult struct {
	Name   CheckName `json:"name"`
	Passed bool      `json:"passed"`
	Detail string    `json:"detail,omitempty"` // Which fact/question/value failed, for manual remediation
}

// VerificationReport holds the three independent check results, the optional
// structural check, and the overall verdict.
type VerificationReport struct {
	Order        CheckResult  `json:"order"`
	Veracity     CheckResult  `json:"veracity"`
	Completeness CheckResult  `json:"completeness"`
	Structure    *CheckResult `json:"structure,omitempty"` // Only when a section list is configured

	Verdict Verdict `json:"verdict"`
}

// Checks returns the populated check results in a fixed order.
func (r *VerificationReport) Checks() []CheckResult {
	checks := []CheckResult{r.Order, r.Veracity, r.Completeness}
	if r.Structure != nil {
		checks = append(checks, *r.Structure)
	}
	return checks
}

// ResolveVerdict derives the overall verdict from the check results.
// Order failures are non-negotiable: downstream correction cannot reorder
// prose, so they reject the narrative outright.
func (r *VerificationReport) ResolveVerdict() {
	switch {
	case !r.Order.Passed:
		r.Verdict = VerdictRejected
	case r.Veracity.Passed && r.Completeness.Passed && (r.Structure == nil || r.Structure.Passed):
		r.Verdict = VerdictApproved
	default:
		r.Verdict = VerdictNeedsReview
	}
}

// PipelineState tracks where a run is in the orchestrator state machine.
type PipelineState string

const (
	StateDecoded   PipelineState = "DECODED"
	StateGenerated PipelineState = "GENERATED"
	StateVerified  PipelineState = "VERIFIED"
	StateCorrected PipelineState = "CORRECTED"
	StateAccepted  PipelineState = "ACCEPTED" // Terminal, success
	StateRejected  PipelineState = "REJECTED" // Terminal, requires regeneration outside the core
)

// Terminal reports whether the state ends a pipeline run.
func (s PipelineState) Terminal() bool {
	return s == StateAccepted || s == StateRejected
}
