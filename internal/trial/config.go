package trial

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
)

// DefaultOpeningHandSize is the size of the first opening hand
const DefaultOpeningHandSize = 7

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid trial config")

// MulliganRule selects how many cards a redrawn hand holds
type MulliganRule int

const (
	// RuleTraditional redraws one card fewer per mulligan
	RuleTraditional MulliganRule = iota
	// RuleLondon redraws a full hand and bottoms one card per mulligan
	RuleLondon
	// RuleFreeFirst makes the first mulligan free, then acts like traditional
	RuleFreeFirst
)

func (r MulliganRule) String() string {
	switch r {
	case RuleTraditional:
		return "traditional"
	case RuleLondon:
		return "london"
	case RuleFreeFirst:
		return "free_first"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// ParseMulliganRule converts a config name to a MulliganRule. The empty
// string means traditional.
func ParseMulliganRule(s string) (MulliganRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "traditional":
		return RuleTraditional, nil
	case "london":
		return RuleLondon, nil
	case "free_first":
		return RuleFreeFirst, nil
	default:
		return RuleTraditional, fmt.Errorf("unknown mulligan rule %q", s)
	}
}

// HandSize is the number of cards drawn after the given number of mulligans
func (r MulliganRule) HandSize(opening, mulligans int) int {
	size := opening
	switch r {
	case RuleTraditional:
		size = opening - mulligans
	case RuleFreeFirst:
		if mulligans > 0 {
			size = opening - (mulligans - 1)
		}
	}
	if size < 0 {
		return 0
	}
	return size
}

// KeptSize is the size of the hand kept after the given number of
// mulligans, once London bottoming is done
func (r MulliganRule) KeptSize(opening, mulligans int) int {
	if r == RuleLondon {
		if opening < mulligans {
			return 0
		}
		return opening - mulligans
	}
	return r.HandSize(opening, mulligans)
}

// DrawPolicy decides whether the player skips the first draw
type DrawPolicy int

const (
	// DrawPlay puts the player on the play: no draw on turn 1
	DrawPlay DrawPolicy = iota
	// DrawDraw puts the player on the draw
	DrawDraw
	// DrawRandom flips a coin with the trial's generator
	DrawRandom
)

func (d DrawPolicy) String() string {
	switch d {
	case DrawPlay:
		return "play"
	case DrawDraw:
		return "draw"
	case DrawRandom:
		return "random"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// ParseDrawPolicy converts a config name to a DrawPolicy. The empty string
// means play.
func ParseDrawPolicy(s string) (DrawPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "play":
		return DrawPlay, nil
	case "draw":
		return DrawDraw, nil
	case "random":
		return DrawRandom, nil
	default:
		return DrawPlay, fmt.Errorf("unknown draw policy %q", s)
	}
}

// Config controls a single trial
type Config struct {
	TurnLimit       int
	OpeningHandSize int
	MulliganMax     int
	MulliganRule    MulliganRule
	DrawPolicy      DrawPolicy
	Stop            rules.StopConditionConfig

	// CheckInvariants verifies zone conservation after every turn
	CheckInvariants bool
	// LogEvents logs every trace event at debug level
	LogEvents bool
}

// Validate checks the trial settings
func (c Config) Validate() error {
	if c.TurnLimit < 1 {
		return fmt.Errorf("%w: turn_limit must be at least 1", ErrInvalidConfig)
	}
	if c.OpeningHandSize < 1 {
		return fmt.Errorf("%w: opening_hand_size must be at least 1", ErrInvalidConfig)
	}
	if c.MulliganMax < 0 {
		return fmt.Errorf("%w: mulligan_max must not be negative", ErrInvalidConfig)
	}
	if c.MulliganRule.KeptSize(c.OpeningHandSize, c.MulliganMax) < 1 {
		return fmt.Errorf("%w: mulligan_max %d leaves no cards in a %d card %s hand",
			ErrInvalidConfig, c.MulliganMax, c.OpeningHandSize, c.MulliganRule)
	}
	switch c.Stop.Condition {
	case rules.StopDamage:
		if c.Stop.DamageThreshold < 1 {
			return fmt.Errorf("%w: damage_threshold must be at least 1", ErrInvalidConfig)
		}
	case rules.StopPlays:
		if c.Stop.PlayThreshold < 1 {
			return fmt.Errorf("%w: play_threshold must be at least 1", ErrInvalidConfig)
		}
	}
	return nil
}
