package governance

import (
	"fmt"
	"strings"

	"sqlgate/internal/domain"
)

// Decide evaluates a simulation against the policy and returns a verdict.
// It is pure and deterministic: identical inputs always produce the same
// decision and the same explanation text. Branches are evaluated top to
// bottom; the first matching branch decides.
//
// Episodic memory is accepted for interface symmetry with the risk scorer
// but never influences the verdict.
func Decide(sim *domain.SimulationResult, policy *domain.Policy, _ *Memory) *domain.Verdict {
	if sim.StatementType == domain.StmtUpdate {
		return decideUpdate(sim, policy)
	}
	return decideSelect(sim, policy)
}

func decideUpdate(sim *domain.SimulationResult, policy *domain.Policy) *domain.Verdict {
	var steps []string

	if sim.HasPII() {
		steps = append(steps, "UPDATE operation involves PII data.")
		if policy.DenyPII {
			steps = append(steps, "Policy explicitly denies access to PII data.")
		} else {
			steps = append(steps, "Mutations of PII columns are denied by default.")
		}
		return verdict(domain.DecisionDeny, steps, nil)
	}

	if blocked := policy.BlockedIntersection(sim.ColumnsAccessed); len(blocked) > 0 {
		steps = append(steps, fmt.Sprintf(
			"UPDATE assigns blocked column(s): %s.", strings.Join(blocked, ", ")))
		return verdict(domain.DecisionDeny, steps, nil)
	}

	steps = append(steps, "No policy violations detected.")
	return verdict(domain.DecisionAllow, steps, nil)
}

func decideSelect(sim *domain.SimulationResult, policy *domain.Policy) *domain.Verdict {
	var steps []string

	if sim.HasPII() {
		steps = append(steps, "Query accessed PII data.")
		if policy.DenyPII {
			steps = append(steps, "Policy denies access to PII data.")
			return verdict(domain.DecisionDeny, steps, nil)
		}
		if policy.MaskPII {
			steps = append(steps, "Policy requires masking of PII data.")
			return verdict(domain.DecisionAllowWithMasking, steps, nil)
		}
	}

	if len(policy.AllowedTables) > 0 {
		var outside []string
		for _, table := range sim.TablesAccessed {
			if !policy.IsTableAllowed(table) {
				outside = append(outside, table)
			}
		}
		if len(outside) > 0 {
			steps = append(steps, fmt.Sprintf(
				"Query accesses table(s) outside the allow-list: %s.", strings.Join(outside, ", ")))
			return verdict(domain.DecisionDeny, steps, nil)
		}
	}

	if blocked := policy.BlockedIntersection(sim.ColumnsAccessed); len(blocked) > 0 {
		steps = append(steps, fmt.Sprintf(
			"Query accessed blocked column(s): %s; they will be filtered from the result.",
			strings.Join(blocked, ", ")))
		return verdict(domain.DecisionAllowWithFiltering, steps, blocked)
	}

	steps = append(steps, "No policy violations detected.")
	return verdict(domain.DecisionAllow, steps, nil)
}

func verdict(d domain.Decision, steps []string, filter []string) *domain.Verdict {
	return &domain.Verdict{
		Decision:        d,
		DecisionName:    d.String(),
		Explanation:     strings.Join(steps, " "),
		ColumnsToFilter: filter,
	}
}
