package governance

import "sqlgate/internal/domain"

// Risk scoring weights. The two base signals are mandatory and fire
// identically regardless of memory state; the episodic adjustment is
// additive on top, never replacing them.
const (
	riskPIIAccess     = 50
	riskLargeResult   = 30
	largeResultRows   = 1000
	riskRecentPIIStep = 5
	riskRecentPIICap  = 15
)

// Score computes an additive risk assessment for a simulation, clamped to
// [0, 100]. Policy is accepted alongside the other decision inputs for audit
// symmetry; scoring itself only reads the simulation and episodic memory.
func Score(sim *domain.SimulationResult, _ *domain.Policy, memory *Memory) *domain.RiskAssessment {
	score := 0
	var reasons []string

	if sim.HasPII() {
		score += riskPIIAccess
		reasons = append(reasons, "Accessed PII data.")
	}

	if sim.RowsReturned != nil && *sim.RowsReturned > largeResultRows {
		score += riskLargeResult
		reasons = append(reasons, "Large number of rows returned.")
	}

	if bump := recentPIIBump(memory); bump > 0 {
		score += bump
		reasons = append(reasons, "Recent statements repeatedly accessed PII columns.")
	}

	if score == 0 {
		reasons = append(reasons, "no significant risks detected")
	}
	if score > 100 {
		score = 100
	}

	return &domain.RiskAssessment{Score: score, Reasons: reasons}
}

// recentPIIBump adds riskRecentPIIStep per remembered simulation that touched
// a PII column, capped at riskRecentPIICap.
func recentPIIBump(memory *Memory) int {
	if memory == nil {
		return 0
	}
	bump := 0
	for _, rec := range memory.Snapshot() {
		if rec.Simulation != nil && rec.Simulation.HasPII() {
			bump += riskRecentPIIStep
			if bump >= riskRecentPIICap {
				return riskRecentPIICap
			}
		}
	}
	return bump
}
