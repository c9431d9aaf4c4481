package core

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction is the root of every rejected game action
	ErrIllegalAction = errors.New("illegal action")

	ErrNotInZone     = fmt.Errorf("%w: card not in zone", ErrIllegalAction)
	ErrNotALand      = fmt.Errorf("%w: card is not a land", ErrIllegalAction)
	ErrLandNotCast   = fmt.Errorf("%w: lands are played, not cast", ErrIllegalAction)
	ErrNoLandDrop    = fmt.Errorf("%w: no land drop remaining this turn", ErrIllegalAction)
	ErrCannotPay     = fmt.Errorf("%w: cannot pay mana cost", ErrIllegalAction)
	ErrInvalidZone   = fmt.Errorf("%w: cards can only be cast from hand or command zone", ErrIllegalAction)
	ErrUnknownCard   = fmt.Errorf("%w: unknown card", ErrIllegalAction)
	ErrTrialFinished = fmt.Errorf("%w: trial is finished", ErrIllegalAction)

	// ErrLibraryEmpty signals a draw past the bottom of the library. It ends
	// the trial normally and is not an IllegalAction.
	ErrLibraryEmpty = errors.New("library is empty")

	ErrInvalidCard     = errors.New("invalid card")
	ErrDuplicateCard   = errors.New("duplicate card name")
	ErrUnknownCardType = errors.New("unknown card type")
)

// ActionError carries the turn and action context of a rejected action
type ActionError struct {
	Turn   int
	Action string
	Card   string
	Err    error
}

func (e *ActionError) Error() string {
	if e.Card != "" {
		return fmt.Sprintf("turn %d: %s %s: %v", e.Turn, e.Action, e.Card, e.Err)
	}
	return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// WrapActionError adds turn, action and card context to an error.
// It returns nil when err is nil.
func WrapActionError(turn int, action, card string, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Turn: turn, Action: action, Card: card, Err: err}
}

// WrapTrialError adds trial index and phase context to an error
func WrapTrialError(trial int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("trial %d [%s]: %w", trial, phase, err)
}

// IsIllegalAction reports whether err is or wraps ErrIllegalAction
func IsIllegalAction(err error) bool {
	return errors.Is(err, ErrIllegalAction)
}
