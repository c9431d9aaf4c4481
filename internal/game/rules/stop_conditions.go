package rules

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
)

// StopCondition selects the goal that ends a trial early
type StopCondition int

const (
	StopNone StopCondition = iota
	StopCommanderCast
	StopComboAssembled
	StopDamage
	StopPlays
)

func (s StopCondition) String() string {
	switch s {
	case StopNone:
		return "none"
	case StopCommanderCast:
		return "commander_cast"
	case StopComboAssembled:
		return "combo_assembled"
	case StopDamage:
		return "damage"
	case StopPlays:
		return "plays"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ParseStopCondition converts a config name to a StopCondition. The empty
// string means none.
func ParseStopCondition(s string) (StopCondition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return StopNone, nil
	case "commander_cast":
		return StopCommanderCast, nil
	case "combo_assembled":
		return StopComboAssembled, nil
	case "damage":
		return StopDamage, nil
	case "plays":
		return StopPlays, nil
	default:
		return StopNone, fmt.Errorf("unknown stop condition %q", s)
	}
}

// StopConditionConfig holds the thresholds a condition may need
type StopConditionConfig struct {
	Condition       StopCondition
	DamageThreshold int
	PlayThreshold   int
}

// StopConditionChecker decides whether a trial has reached its goal
type StopConditionChecker struct {
	logger      zerolog.Logger
	cfg         StopConditionConfig
	comboPieces []core.CardID
}

// NewStopConditionChecker creates a checker for one deck. The distinct
// combo-tagged cards of the deck form the combo that must be assembled.
func NewStopConditionChecker(logger zerolog.Logger, cfg StopConditionConfig, deck *game.Deck) *StopConditionChecker {
	return &StopConditionChecker{
		logger:      logger.With().Str("component", "StopConditionChecker").Logger(),
		cfg:         cfg,
		comboPieces: ComboPieces(deck),
	}
}

// ComboPieces returns the distinct combo-tagged cards of the deck
func ComboPieces(deck *game.Deck) []core.CardID {
	var pieces []core.CardID
	seen := make(map[core.CardID]bool)
	add := func(id core.CardID) {
		if !seen[id] && deck.Catalog.Card(id).IsCombo() {
			seen[id] = true
			pieces = append(pieces, id)
		}
	}
	for _, e := range deck.Entries {
		add(e.Card)
	}
	for _, id := range deck.Commanders {
		add(id)
	}
	return pieces
}

// Condition returns the configured condition
func (sc *StopConditionChecker) Condition() StopCondition {
	return sc.cfg.Condition
}

// Check reports whether the stop condition holds for the view
func (sc *StopConditionChecker) Check(v game.View) bool {
	met := false
	switch sc.cfg.Condition {
	case StopNone:
		return false
	case StopCommanderCast:
		for _, id := range v.Battlefield() {
			if v.Card(id).IsCommander() {
				met = true
				break
			}
		}
	case StopComboAssembled:
		if len(sc.comboPieces) == 0 {
			return false
		}
		onField := make(map[core.CardID]bool)
		for _, id := range v.Battlefield() {
			onField[id] = true
		}
		met = true
		for _, id := range sc.comboPieces {
			if !onField[id] {
				met = false
				break
			}
		}
	case StopDamage:
		met = v.Damage() >= sc.cfg.DamageThreshold
	case StopPlays:
		met = v.SpellsCast() >= sc.cfg.PlayThreshold
	}
	if met {
		sc.logger.Trace().
			Str("condition", sc.cfg.Condition.String()).
			Int("turn", v.Turn()).
			Msg("Stop condition met")
	}
	return met
}
