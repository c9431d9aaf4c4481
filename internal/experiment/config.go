package experiment

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/metrics"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/strategy"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/trial"
)

// ErrConfigurationInvalid is returned before any trial runs when the
// configuration cannot be executed
var ErrConfigurationInvalid = errors.New("configuration invalid")

// MaxErrors caps the distinct failure messages kept in a Summary
const MaxErrors = 10

// Config describes one experiment: a deck played TrialCount times
type Config struct {
	Name       string
	Deck       *game.Deck
	TrialCount int
	Seed       int64
	// Workers defaults to runtime.NumCPU
	Workers int

	Strategy        string
	StrategyOptions strategy.Options
	// MulliganPolicy, when set, overrides the strategy's land bounds
	MulliganPolicy string

	Trial   trial.Config
	Metrics metrics.Options

	// Progress enables periodic throughput logging
	Progress         bool
	ProgressInterval time.Duration
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfigurationInvalid, fmt.Sprintf(format, args...))
}

// Validate checks that the config can run. Every error wraps
// ErrConfigurationInvalid.
func (c Config) Validate() error {
	if c.Deck == nil {
		return invalid("deck is required")
	}
	if err := c.Deck.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigurationInvalid, err)
	}
	if size := c.Deck.Size(); size == 0 || size < c.Trial.OpeningHandSize {
		return invalid("deck has %d cards, opening hand needs %d", size, c.Trial.OpeningHandSize)
	}
	if c.TrialCount < 1 {
		return invalid("trial_count must be at least 1")
	}
	if c.Workers < 0 {
		return invalid("workers must not be negative")
	}
	if _, ok := strategy.Lookup(c.Strategy); !ok {
		return invalid("unknown strategy %q", c.Strategy)
	}
	if c.MulliganPolicy != "" {
		if _, err := strategy.ParseMulliganPolicy(c.MulliganPolicy); err != nil {
			return fmt.Errorf("%w: %w", ErrConfigurationInvalid, err)
		}
	}
	if c.StrategyOptions.Sloppiness < 0 || c.StrategyOptions.Sloppiness > 1 {
		return invalid("sloppiness must be between 0 and 1")
	}
	if err := c.Trial.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigurationInvalid, err)
	}
	switch c.Trial.Stop.Condition {
	case rules.StopComboAssembled:
		if len(rules.ComboPieces(c.Deck)) == 0 {
			return invalid("stop condition combo_assembled needs combo-tagged cards in the deck")
		}
	case rules.StopCommanderCast:
		if !hasCommander(c.Deck) {
			return invalid("stop condition commander_cast needs a commander in the deck")
		}
	}
	for _, turn := range c.Metrics.CheckpointTurns {
		if turn < 1 {
			return invalid("checkpoint turn %d must be at least 1", turn)
		}
	}
	return nil
}

// strategyOptions merges the mulligan policy into the strategy options
func (c Config) strategyOptions() strategy.Options {
	opts := c.StrategyOptions
	if c.MulliganPolicy != "" {
		if p, err := strategy.ParseMulliganPolicy(c.MulliganPolicy); err == nil {
			opts = p.Apply(opts)
		}
	}
	return opts
}

func hasCommander(deck *game.Deck) bool {
	for id := range deck.Multiset() {
		if deck.Catalog.Card(id).IsCommander() {
			return true
		}
	}
	return false
}

// spellNames lists the nonland cards of the deck, commanders included
func spellNames(deck *game.Deck) []string {
	var names []string
	for id := range deck.Multiset() {
		if card := deck.Catalog.Card(id); !card.IsLand() {
			names = append(names, card.Name)
		}
	}
	return names
}
