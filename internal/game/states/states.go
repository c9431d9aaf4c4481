package states

import (
	"errors"
	"fmt"
)

// NotStartedState represents a freshly shuffled trial
type NotStartedState struct{}

func NewNotStartedState() State {
	return &NotStartedState{}
}

func (s *NotStartedState) Phase() TrialPhase {
	return PhaseNotStarted
}

func (s *NotStartedState) Enter(ctx *TrialContext) error {
	return nil
}

func (s *NotStartedState) Exit(ctx *TrialContext) error {
	ctx.Logger.Trace().Msg("Trial starting")
	return nil
}

func (s *NotStartedState) Validate(ctx *TrialContext) error {
	return nil
}

// MulliganState represents drawing and deciding on opening hands
type MulliganState struct{}

func NewMulliganState() State {
	return &MulliganState{}
}

func (s *MulliganState) Phase() TrialPhase {
	return PhaseMulligan
}

func (s *MulliganState) Enter(ctx *TrialContext) error {
	ctx.Mulligans = 0
	return nil
}

func (s *MulliganState) Exit(ctx *TrialContext) error {
	ctx.Logger.Trace().
		Int("mulligans", ctx.Mulligans).
		Msg("Opening hand settled")
	return nil
}

func (s *MulliganState) Validate(ctx *TrialContext) error {
	if ctx.OpeningHandSize < 1 {
		return fmt.Errorf("opening hand size must be at least 1, got %d", ctx.OpeningHandSize)
	}
	return nil
}

// TurnLoopState represents turns being played
type TurnLoopState struct{}

func NewTurnLoopState() State {
	return &TurnLoopState{}
}

func (s *TurnLoopState) Phase() TrialPhase {
	return PhaseTurnLoop
}

func (s *TurnLoopState) Enter(ctx *TrialContext) error {
	if ctx.Turn != 0 {
		return fmt.Errorf("turn loop must start before turn 1, at turn %d", ctx.Turn)
	}
	return nil
}

func (s *TurnLoopState) Exit(ctx *TrialContext) error {
	return nil
}

func (s *TurnLoopState) Validate(ctx *TrialContext) error {
	return nil
}

// FinishedState represents a trial that ended normally
type FinishedState struct{}

func NewFinishedState() State {
	return &FinishedState{}
}

func (s *FinishedState) Phase() TrialPhase {
	return PhaseFinished
}

func (s *FinishedState) Enter(ctx *TrialContext) error {
	ctx.Logger.Trace().
		Str("reason", ctx.Reason.String()).
		Int("turn", ctx.Turn).
		Msg("Trial finished")
	return nil
}

func (s *FinishedState) Exit(ctx *TrialContext) error {
	return errors.New("finished trials cannot change phase")
}

func (s *FinishedState) Validate(ctx *TrialContext) error {
	if ctx.Reason == FinishNone {
		return errors.New("finished state requires a finish reason")
	}
	return nil
}

// AbortedState represents a trial stopped by an illegal action
type AbortedState struct{}

func NewAbortedState() State {
	return &AbortedState{}
}

func (s *AbortedState) Phase() TrialPhase {
	return PhaseAborted
}

func (s *AbortedState) Enter(ctx *TrialContext) error {
	ctx.Logger.Warn().
		Err(ctx.Error).
		Int("turn", ctx.Turn).
		Msg("Trial aborted")
	return nil
}

func (s *AbortedState) Exit(ctx *TrialContext) error {
	return errors.New("aborted trials cannot change phase")
}

func (s *AbortedState) Validate(ctx *TrialContext) error {
	if ctx.Error == nil {
		return errors.New("aborted state requires an error")
	}
	return nil
}
