package states

import (
	"fmt"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/events"
)

// State represents a trial phase with lifecycle callbacks
type State interface {
	// Phase returns the TrialPhase this state represents
	Phase() TrialPhase

	// Enter is called when transitioning into this state
	Enter(ctx *TrialContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *TrialContext) error

	// Validate checks if the state is valid given the context
	Validate(ctx *TrialContext) error
}

// Transition represents a state transition in the history
type Transition struct {
	From   TrialPhase
	To     TrialPhase
	Turn   int
	Reason string
}

// StateMachine manages trial phase transitions and history. Each trial owns
// its machine, so it is not safe for concurrent use.
type StateMachine struct {
	currentPhase TrialPhase
	states       map[TrialPhase]State
	context      *TrialContext
	history      []Transition
	publisher    events.Publisher
}

// NewStateMachine creates a new state machine in PhaseNotStarted
func NewStateMachine(ctx *TrialContext, publisher events.Publisher) *StateMachine {
	sm := &StateMachine{
		currentPhase: PhaseNotStarted,
		states:       make(map[TrialPhase]State, 5),
		context:      ctx,
		history:      make([]Transition, 0, 4),
		publisher:    publisher,
	}

	sm.RegisterState(NewNotStartedState())
	sm.RegisterState(NewMulliganState())
	sm.RegisterState(NewTurnLoopState())
	sm.RegisterState(NewFinishedState())
	sm.RegisterState(NewAbortedState())

	return sm
}

// RegisterState registers a state implementation, replacing the default
func (sm *StateMachine) RegisterState(state State) {
	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current trial phase
func (sm *StateMachine) CurrentPhase() TrialPhase {
	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(targetPhase TrialPhase, reason string) error {
	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]
	if !hasTargetState {
		return fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
		}
	}

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		sm.currentPhase = previousPhase
		return fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.history = append(sm.history, Transition{
		From:   previousPhase,
		To:     targetPhase,
		Turn:   sm.context.Turn,
		Reason: reason,
	})

	if sm.publisher != nil {
		sm.publisher.Publish(events.NewPhaseChangedEvent(
			sm.context.TrialID,
			sm.context.Turn,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}

	return nil
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the trial context
func (sm *StateMachine) GetContext() *TrialContext {
	return sm.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase TrialPhase) bool {
	return sm.currentPhase.CanTransitionTo(targetPhase)
}
