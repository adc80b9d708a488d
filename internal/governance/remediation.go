package governance

import (
	"fmt"
	"strings"

	"sqlgate/internal/domain"
)

// Suggest produces advisory, non-blocking remediation hints for a verdict.
// An empty result is a valid outcome, not an error.
func Suggest(verdict *domain.Verdict, sim *domain.SimulationResult) []string {
	var suggestions []string

	switch verdict.Decision {
	case domain.DecisionDeny:
		if pii := sim.PIIColumns(); len(pii) > 0 {
			suggestions = append(suggestions, fmt.Sprintf(
				"Remove or mask PII columns: %s", strings.Join(pii, ", ")))
		}
	case domain.DecisionAllowWithMasking:
		suggestions = append(suggestions, "Apply masking to sensitive fields.")
	case domain.DecisionAllow, domain.DecisionAllowWithFiltering:
		// Nothing to suggest.
	}

	return suggestions
}
