package strategy

import (
	"math/rand"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
)

// Strategy decides how the player pilots the deck. Implementations must not
// keep per-trial state: one instance serves every trial of an experiment,
// concurrently. All randomness comes from rng, so a call is deterministic
// for a given view and generator state.
type Strategy interface {
	Name() string
	DecideMulligan(v game.View, rng *rand.Rand) MulliganDecision
	DecideLandDrop(v game.View, rng *rand.Rand) LandDropDecision
	DecideCardPlays(v game.View, rng *rand.Rand) CardPlayDecision
}

// Bottomer is implemented by strategies that choose which cards go to the
// bottom of the library after a London mulligan. It must return exactly n
// cards from the hand.
type Bottomer interface {
	ChooseBottom(v game.View, n int, rng *rand.Rand) []core.CardID
}

// Options configure the built-in strategies. Zero values fall back to the
// defaults in DefaultOptions.
type Options struct {
	MinLands int `mapstructure:"min_lands"`
	MaxLands int `mapstructure:"max_lands"`
	// KeepAfter stops voluntary mulligans once this many have been taken
	KeepAfter int `mapstructure:"keep_after"`
	// Sloppiness is the chance of a random land drop or a skipped cast
	Sloppiness     float64 `mapstructure:"sloppiness"`
	CommanderBonus int     `mapstructure:"commander_bonus"`
	ComboBonus     int     `mapstructure:"combo_bonus"`
	// KeepProbability is used by the random strategy
	KeepProbability float64 `mapstructure:"keep_probability"`
}

// DefaultOptions returns the baseline configuration
func DefaultOptions() Options {
	return Options{
		MinLands:        2,
		MaxLands:        5,
		KeepAfter:       3,
		CommanderBonus:  10,
		ComboBonus:      5,
		KeepProbability: 0.7,
	}
}

// withDefaults fills unset fields. Land bounds are only defaulted together,
// so an explicit "0-0" policy cannot be told apart from unset; use
// MaxLands to express it.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinLands == 0 && o.MaxLands == 0 {
		o.MinLands, o.MaxLands = d.MinLands, d.MaxLands
	}
	if o.KeepAfter == 0 {
		o.KeepAfter = d.KeepAfter
	}
	if o.CommanderBonus == 0 {
		o.CommanderBonus = d.CommanderBonus
	}
	if o.ComboBonus == 0 {
		o.ComboBonus = d.ComboBonus
	}
	if o.KeepProbability == 0 {
		o.KeepProbability = d.KeepProbability
	}
	return o
}

// LandsInHand counts the lands in the view's hand
func LandsInHand(v game.View) int {
	n := 0
	for _, id := range v.Hand() {
		if v.Card(id).IsLand() {
			n++
		}
	}
	return n
}
