package states

import (
	"github.com/rs/zerolog"
)

// TrialContext provides trial-specific information to states
type TrialContext struct {
	// TrialID uniquely identifies this trial within its run
	TrialID string

	// Index is the trial's position within its experiment
	Index int

	// Logger for state-specific logging
	Logger zerolog.Logger

	// Turn is the current turn, kept in sync by the executor
	Turn int

	// OpeningHandSize is the number of cards the first opening hand holds
	OpeningHandSize int

	// Mulligans taken so far
	Mulligans int

	// Reason is set before entering PhaseFinished
	Reason FinishReason

	// Error holds the illegal action that caused PhaseAborted
	Error error
}

// NewTrialContext creates a new trial context
func NewTrialContext(trialID string, index int, logger zerolog.Logger) *TrialContext {
	return &TrialContext{
		TrialID: trialID,
		Index:   index,
		Logger:  logger.With().Str("trial_id", trialID).Logger(),
	}
}

// Finish records the finish reason for the upcoming transition
func (tc *TrialContext) Finish(reason FinishReason) {
	tc.Reason = reason
}

// Abort records the error for the upcoming transition
func (tc *TrialContext) Abort(err error) {
	tc.Error = err
}
