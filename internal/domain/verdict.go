package domain

// Decision is the categorical outcome of governance evaluation for one
// statement. It is a closed set — every consumer must handle all four cases.
type Decision int

// Governance decisions.
const (
	DecisionAllow Decision = iota
	DecisionAllowWithMasking
	DecisionAllowWithFiltering
	DecisionDeny
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "ALLOW"
	case DecisionAllowWithMasking:
		return "ALLOW_WITH_MASKING"
	case DecisionAllowWithFiltering:
		return "ALLOW_WITH_FILTERING"
	default:
		return "DENY"
	}
}

// Verdict carries a governance decision plus its human-auditable
// justification. Explanation is built as an ordered, append-only list of
// short clauses joined with spaces, reproducible from the same inputs.
type Verdict struct {
	Decision        Decision `json:"decision"`
	DecisionName    string   `json:"decision_name"`
	Explanation     string   `json:"explanation"`
	ColumnsToFilter []string `json:"columns_to_filter,omitempty"` // sorted, FILTERING only
}

// Allows reports whether the verdict permits real execution in some form.
func (v *Verdict) Allows() bool {
	return v.Decision != DecisionDeny
}

// RiskAssessment is the additive risk score computed alongside the verdict
// for audit richness. Score is clamped to [0, 100].
type RiskAssessment struct {
	Score   int      `json:"risk_score"`
	Reasons []string `json:"reasons"`
}
