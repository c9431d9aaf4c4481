package states

import "fmt"

// TrialPhase represents the current phase of a trial
type TrialPhase int

const (
	// PhaseNotStarted - Library shuffled, no cards drawn
	PhaseNotStarted TrialPhase = iota

	// PhaseMulligan - Opening hands are drawn and kept or shipped
	PhaseMulligan

	// PhaseTurnLoop - Turns are being played
	PhaseTurnLoop

	// PhaseFinished - Terminal, with a FinishReason
	PhaseFinished

	// PhaseAborted - Terminal, a strategy requested an illegal action
	PhaseAborted
)

// String returns the string representation of a TrialPhase
func (p TrialPhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseMulligan:
		return "Mulligan"
	case PhaseTurnLoop:
		return "TurnLoop"
	case PhaseFinished:
		return "Finished"
	case PhaseAborted:
		return "Aborted"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p TrialPhase) IsTerminal() bool {
	return p == PhaseFinished || p == PhaseAborted
}

// CanDecide returns true if strategy decisions are requested in this phase
func (p TrialPhase) CanDecide() bool {
	return p == PhaseMulligan || p == PhaseTurnLoop
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p TrialPhase) AllowedTransitions() []TrialPhase {
	switch p {
	case PhaseNotStarted:
		return []TrialPhase{PhaseMulligan, PhaseAborted}
	case PhaseMulligan:
		// a library too small for the opening hand finishes the trial early
		return []TrialPhase{PhaseTurnLoop, PhaseFinished, PhaseAborted}
	case PhaseTurnLoop:
		return []TrialPhase{PhaseFinished, PhaseAborted}
	default:
		return []TrialPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p TrialPhase) CanTransitionTo(target TrialPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a TrialPhase
func ParsePhase(s string) (TrialPhase, error) {
	for p := PhaseNotStarted; p <= PhaseAborted; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseNotStarted, fmt.Errorf("unknown trial phase %q", s)
}

// FinishReason explains why a trial reached PhaseFinished
type FinishReason int

const (
	FinishNone FinishReason = iota
	FinishTurnLimitReached
	FinishLibraryEmptied
	FinishStopConditionMet
)

func (r FinishReason) String() string {
	switch r {
	case FinishNone:
		return "none"
	case FinishTurnLimitReached:
		return "turn_limit_reached"
	case FinishLibraryEmptied:
		return "library_emptied"
	case FinishStopConditionMet:
		return "stop_condition_met"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// AbortedReason is the finish_reason category reported for aborted trials
const AbortedReason = "aborted"
