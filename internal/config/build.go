package config

import (
	"fmt"
	"slices"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/experiment"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/scenario"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/trial"
)

// RequestSections are the config sections a request may override
var RequestSections = []string{"simulation", "scenario", "deck", "metrics"}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

func unmarshal(v *viper.Viper, c *Config) error {
	return v.Unmarshal(c, decodeHook())
}

// Overlay decodes request over base, a settings map such as Settings
// returns, and validates the result. Keys missing from the request keep
// their base value; lists in the request replace the base list. A nil base
// means defaults.
func Overlay(base, request map[string]any) (*Config, error) {
	for key := range request {
		if !slices.Contains(RequestSections, key) {
			return nil, fmt.Errorf("%w: section %q cannot be set per request", experiment.ErrConfigurationInvalid, key)
		}
	}

	nv := viper.New()
	setViperDefaults(nv)
	if base != nil {
		// viper merges into the maps it is given
		if err := nv.MergeConfigMap(copySettings(base)); err != nil {
			return nil, fmt.Errorf("merging base config: %w", err)
		}
	}
	if err := nv.MergeConfigMap(request); err != nil {
		return nil, fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
	}

	c := &Config{}
	if err := unmarshal(nv, c); err != nil {
		return nil, fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
	}
	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
	}
	return c, nil
}

func copySettings(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = copyValue(val)
	}
	return out
}

func copyValue(val any) any {
	switch t := val.(type) {
	case map[string]any:
		return copySettings(t)
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = copyValue(item)
		}
		return items
	default:
		return val
	}
}

// BuildDeck creates a catalog and a deck from the inline deck list
func BuildDeck(d DeckConfig) (*game.Deck, error) {
	if len(d.Cards) == 0 {
		return nil, fmt.Errorf("deck.cards is required")
	}
	cat := core.NewCatalog()
	deck := game.NewDeck(cat)
	for i, cc := range d.Cards {
		if cc.Count < 1 {
			return nil, fmt.Errorf("deck.cards[%d] %s: count must be at least 1", i, cc.Name)
		}
		id, err := addCard(cat, cc)
		if err != nil {
			return nil, fmt.Errorf("deck.cards[%d]: %w", i, err)
		}
		deck.Add(id, cc.Count)
	}
	for i, cc := range d.Commanders {
		tags := slices.Clone(cc.Tags)
		if !slices.Contains(tags, core.TagCommander) {
			tags = append(tags, core.TagCommander)
		}
		cc.Tags = tags
		id, err := addCard(cat, cc)
		if err != nil {
			return nil, fmt.Errorf("deck.commanders[%d]: %w", i, err)
		}
		deck.AddCommander(id)
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return deck, nil
}

func addCard(cat *core.Catalog, cc CardConfig) (core.CardID, error) {
	cardType, err := core.ParseCardType(cc.Type)
	if err != nil {
		return core.NoCard, fmt.Errorf("%s: %w", cc.Name, err)
	}
	cost, err := mana.ParseCost(cc.Cost)
	if err != nil {
		return core.NoCard, fmt.Errorf("%s cost: %w", cc.Name, err)
	}
	produces, err := mana.ParsePool(cc.Produces)
	if err != nil {
		return core.NoCard, fmt.Errorf("%s produces: %w", cc.Name, err)
	}
	if cc.Damage < 0 {
		return core.NoCard, fmt.Errorf("%s: damage must be non-negative", cc.Name)
	}
	return cat.Add(core.Card{
		Name:     cc.Name,
		Type:     cardType,
		Cost:     cost,
		Produces: produces,
		Damage:   cc.Damage,
		Tags:     cc.Tags,
	})
}

// BuildExperiment translates the simulation, deck and metrics sections into
// an experiment config. Every error wraps experiment.ErrConfigurationInvalid.
func BuildExperiment(c *Config) (experiment.Config, error) {
	s := c.Simulation
	deck, err := BuildDeck(c.Deck)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
	}
	rule, err := trial.ParseMulliganRule(s.MulliganRule)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
	}
	draw, err := trial.ParseDrawPolicy(s.DrawPolicy)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
	}
	stop, err := rules.ParseStopCondition(s.StopCondition)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
	}

	name := s.Name
	if name == "" {
		name = c.Deck.Name
	}
	metricsOpts := c.Metrics
	metricsOpts.CheckpointTurns = slices.Clone(c.Metrics.CheckpointTurns)

	exp := experiment.Config{
		Name:            name,
		Deck:            deck,
		TrialCount:      s.TrialCount,
		Seed:            s.Seed,
		Workers:         s.Workers,
		Strategy:        s.Strategy,
		StrategyOptions: s.StrategyOptions,
		MulliganPolicy:  s.MulliganPolicy,
		Trial: trial.Config{
			TurnLimit:       s.TurnLimit,
			OpeningHandSize: s.OpeningHandSize,
			MulliganMax:     s.MulliganMax,
			MulliganRule:    rule,
			DrawPolicy:      draw,
			Stop: rules.StopConditionConfig{
				Condition:       stop,
				DamageThreshold: s.DamageThreshold,
				PlayThreshold:   s.PlayThreshold,
			},
			CheckInvariants: s.CheckInvariants,
			LogEvents:       s.LogEvents,
		},
		Metrics:          metricsOpts,
		Progress:         s.Progress,
		ProgressInterval: s.ProgressInterval,
	}
	if err := exp.Validate(); err != nil {
		return experiment.Config{}, err
	}
	return exp, nil
}

// BuildScenario translates the config into a scenario around the simulation
// settings. Without sweeps the scenario has a single point.
func BuildScenario(c *Config) (scenario.Scenario, error) {
	base, err := BuildExperiment(c)
	if err != nil {
		return scenario.Scenario{}, err
	}
	policy, err := scenario.ParseSeedPolicy(c.Scenario.SeedPolicy)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
	}
	land, err := slot(base.Deck, c.Deck.LandSlot, "deck.land_slot")
	if err != nil {
		return scenario.Scenario{}, err
	}
	filler, err := slot(base.Deck, c.Deck.FillerSlot, "deck.filler_slot")
	if err != nil {
		return scenario.Scenario{}, err
	}

	name := c.Scenario.Name
	if name == "" {
		name = base.Name
	}
	sweeps := make([]scenario.Sweep, len(c.Scenario.Sweeps))
	for i, sw := range c.Scenario.Sweeps {
		sweeps[i] = scenario.Sweep{Parameter: sw.Parameter, Values: slices.Clone(sw.Values)}
	}
	return scenario.Scenario{
		Name:        name,
		Base:        base,
		Sweeps:      sweeps,
		SeedPolicy:  policy,
		Parallelism: c.Scenario.Parallelism,
		LandSlot:    land,
		FillerSlot:  filler,
	}, nil
}

func slot(deck *game.Deck, name, key string) (core.CardID, error) {
	if name == "" {
		return core.NoCard, nil
	}
	id, ok := deck.Catalog.Lookup(name)
	if !ok {
		return core.NoCard, fmt.Errorf("%w: %s %q is not in the deck", experiment.ErrConfigurationInvalid, key, name)
	}
	return id, nil
}
