package kernel

// state tracks a single run's progress through the gatekeeper pipeline.
// Transitions are strictly forward: RECEIVED → SIMULATION_CHECKED →
// POLICY_EVALUATED → DENIED | EXECUTED.
type state int

const (
	stateReceived state = iota
	stateSimulationChecked
	statePolicyEvaluated
	stateDenied
	stateExecuted
)

func (s state) String() string {
	switch s {
	case stateReceived:
		return "RECEIVED"
	case stateSimulationChecked:
		return "SIMULATION_CHECKED"
	case statePolicyEvaluated:
		return "POLICY_EVALUATED"
	case stateDenied:
		return "DENIED"
	default:
		return "EXECUTED"
	}
}
