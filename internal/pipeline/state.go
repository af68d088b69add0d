package pipeline

// State represents a verification run's lifecycle state
type State string

const (
	StateInit          State = "init"
	StateProvisioned   State = "provisioned"
	StateChecksRunning State = "checks_running"
	StateAggregated    State = "aggregated"
	StateReportedPass  State = "reported_pass"
	StateReportedFail  State = "reported_fail"
)

// ValidTransitions defines allowed state transitions.
// Flow: init -> provisioned -> checks_running -> aggregated -> reported
var ValidTransitions = map[State][]State{
	StateInit:          {StateProvisioned},
	StateProvisioned:   {StateChecksRunning},
	StateChecksRunning: {StateAggregated},
	StateAggregated:    {StateReportedPass, StateReportedFail},
	StateReportedPass:  {},
	StateReportedFail:  {},
}

// IsTerminal returns true if the state is a final state
func (s State) IsTerminal() bool {
	return s == StateReportedPass || s == StateReportedFail
}

// CanTransition checks if a transition from -> to is valid
func CanTransition(from, to State) bool {
	validTargets, exists := ValidTransitions[from]
	if !exists {
		return false
	}
	for _, target := range validTargets {
		if target == to {
			return true
		}
	}
	return false
}
