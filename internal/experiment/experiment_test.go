package experiment_test

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/experiment"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/metrics"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/strategy"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/testutil"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/trial"
)

// rusher casts every expensive card in hand the turn it can see it,
// whether or not it can pay
type rusher struct {
	*strategy.Greedy
}

func (r rusher) DecideCardPlays(v game.View, rng *rand.Rand) strategy.CardPlayDecision {
	for _, id := range v.Hand() {
		if v.Card(id).Cost.ManaValue() >= 6 {
			return strategy.CardPlayDecision{Plays: []strategy.Play{{Card: id, From: core.ZoneHand}}}
		}
	}
	return r.Greedy.DecideCardPlays(v, rng)
}

func init() {
	strategy.Register("test_rusher", func(o strategy.Options) strategy.Strategy {
		return rusher{strategy.NewGreedy(o)}
	})
}

func baseConfig(f testutil.Fixture) experiment.Config {
	return experiment.Config{
		Name:       "test",
		Deck:       f.Deck,
		TrialCount: 200,
		Seed:       42,
		Workers:    2,
		Strategy:   strategy.NameBaseline,
		Trial: trial.Config{
			TurnLimit:       8,
			OpeningHandSize: 7,
			MulliganMax:     2,
			CheckInvariants: true,
		},
		Metrics: metrics.DefaultOptions(),
	}
}

func TestValidate(t *testing.T) {
	f := testutil.GreenDeck(17)
	require.NoError(t, baseConfig(f).Validate())

	tests := []struct {
		name   string
		mutate func(*experiment.Config)
		msg    string
	}{
		{"no deck", func(c *experiment.Config) { c.Deck = nil }, "deck is required"},
		{"trial count", func(c *experiment.Config) { c.TrialCount = 0 }, "configuration invalid: trial_count must be at least 1"},
		{"workers", func(c *experiment.Config) { c.Workers = -1 }, "workers"},
		{"strategy", func(c *experiment.Config) { c.Strategy = "perfect" }, `unknown strategy "perfect"`},
		{"mulligan policy", func(c *experiment.Config) { c.MulliganPolicy = "5-2" }, "mulligan policy"},
		{"sloppiness", func(c *experiment.Config) { c.StrategyOptions.Sloppiness = 1.5 }, "sloppiness"},
		{"turn limit", func(c *experiment.Config) { c.Trial.TurnLimit = 0 }, "turn_limit"},
		{"combo", func(c *experiment.Config) { c.Trial.Stop.Condition = rules.StopComboAssembled }, "combo-tagged"},
		{"commander", func(c *experiment.Config) { c.Trial.Stop.Condition = rules.StopCommanderCast }, "commander"},
		{"checkpoint", func(c *experiment.Config) { c.Metrics.CheckpointTurns = []int{0} }, "checkpoint"},
		{"small deck", func(c *experiment.Config) { c.Deck = game.NewDeck(f.Catalog).Add(f.Forest, 3) }, "deck has 3 cards, opening hand needs 7"},
		{"empty deck", func(c *experiment.Config) { c.Deck = game.NewDeck(f.Catalog) }, "deck has 0 cards"},
		{"bad deck", func(c *experiment.Config) { c.Deck = game.NewDeck(f.Catalog).Add(core.CardID(999), 1) }, "configuration invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(f)
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, experiment.ErrConfigurationInvalid)
			assert.Contains(t, err.Error(), tt.msg)

			_, err = experiment.NewRunner(testutil.NopLogger()).Run(context.Background(), cfg)
			assert.ErrorIs(t, err, experiment.ErrConfigurationInvalid)
		})
	}
}

func TestStopConditionsValidateAgainstDeck(t *testing.T) {
	f := testutil.CommanderDeck()
	cfg := baseConfig(f)
	cfg.Trial.Stop.Condition = rules.StopComboAssembled
	assert.NoError(t, cfg.Validate())
	cfg.Trial.Stop.Condition = rules.StopCommanderCast
	assert.NoError(t, cfg.Validate())
}

func TestRunIsReproducible(t *testing.T) {
	f := testutil.CommanderDeck()
	runner := experiment.NewRunner(testutil.NopLogger())

	cfg := baseConfig(f)
	cfg.Strategy = strategy.NameRandom
	cfg.Workers = 1
	a, err := runner.Run(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Workers = 4
	b, err := runner.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a, b, "results must not depend on scheduling")
	assert.Equal(t, experiment.RunID(cfg), a.RunID)

	cfg.Seed = 43
	c, err := runner.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Metrics, c.Metrics)
	assert.NotEqual(t, a.RunID, c.RunID)
}

func TestRunIDTracksDeck(t *testing.T) {
	cfg := baseConfig(testutil.GreenDeck(17))
	id := experiment.RunID(cfg)
	assert.Equal(t, id, experiment.RunID(baseConfig(testutil.GreenDeck(17))))

	cfg.Workers = 8
	assert.Equal(t, id, experiment.RunID(cfg), "workers do not change results")
	assert.NotEqual(t, id, experiment.RunID(baseConfig(testutil.GreenDeck(16))))
}

// Forty cards with seventeen lands, first hand always kept: the flood rate
// must match the hypergeometric P(X >= 5) for a seven card hand.
func TestFloodRateMatchesHypergeometric(t *testing.T) {
	f := testutil.GreenDeck(17)
	cfg := baseConfig(f)
	cfg.TrialCount = 2000
	cfg.Trial.MulliganMax = 0
	cfg.Workers = 4

	s, err := experiment.NewRunner(testutil.NopLogger()).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Zero(t, s.Failed)
	assert.Equal(t, 2000, s.Completed)

	flood, ok := s.Metrics.Scalar(metrics.LandFlood)
	require.True(t, ok)
	require.NotNil(t, flood.Distribution)
	assert.InDelta(t, 1869660.0/18643560.0, flood.Distribution.Mean, 0.03)

	mulls, ok := s.Metrics.Scalar(metrics.Mulligans)
	require.True(t, ok)
	assert.Zero(t, mulls.Distribution.Max)

	firstLand, ok := s.Metrics.Scalar(metrics.FirstLandTurn)
	require.True(t, ok)
	require.NotNil(t, firstLand.Distribution)
	assert.GreaterOrEqual(t, firstLand.Distribution.Mean, 1.0)
	assert.LessOrEqual(t, firstLand.Distribution.Mean, 1.2)

	elves, ok := s.Metrics.Scalar(metrics.FirstCastTurnPrefix + f.Deck.Catalog.Name(f.Elves))
	require.True(t, ok)
	require.NotNil(t, elves.Distribution)
	assert.Greater(t, elves.Present, 0)
	assert.GreaterOrEqual(t, elves.Distribution.Min, 1.0)
	assert.LessOrEqual(t, elves.Distribution.Max, 8.0)
	_, ok = s.Metrics.Scalar(metrics.FirstCastTurnPrefix + f.Deck.Catalog.Name(f.Forest))
	assert.False(t, ok, "lands have no first cast turn")

	reasons, ok := s.Metrics.Category(metrics.FinishReason)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"turn_limit_reached": 2000}, reasons.Counts)
}

func TestFailedTrialsAreIsolated(t *testing.T) {
	f := testutil.GreenDeck(17)
	cfg := baseConfig(f)
	cfg.Strategy = "test_rusher"

	s, err := experiment.NewRunner(testutil.NopLogger()).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Greater(t, s.Failed, 0)
	assert.Less(t, s.Failed, s.Trials)
	assert.Equal(t, s.Trials, s.Completed)
	assert.Equal(t, s.Trials-s.Failed, s.Metrics.Trials, "failed trials contribute no observations")

	require.NotEmpty(t, s.Errors)
	assert.LessOrEqual(t, len(s.Errors), experiment.MaxErrors)
	assert.True(t, sort.StringsAreSorted(s.Errors))
	for _, msg := range s.Errors {
		assert.Contains(t, msg, "cast Craw Wurm")
	}
}

func TestCancelledRun(t *testing.T) {
	f := testutil.GreenDeck(17)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := experiment.NewRunner(testutil.NopLogger()).Run(ctx, baseConfig(f))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProgressMonitoring(t *testing.T) {
	f := testutil.GreenDeck(17)
	cfg := baseConfig(f)
	cfg.Progress = true
	s, err := experiment.NewRunner(testutil.NopLogger()).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.TrialCount, s.Completed)
}

func TestMulliganPolicyOverridesStrategy(t *testing.T) {
	f := testutil.GreenDeck(17)
	runner := experiment.NewRunner(testutil.NopLogger())

	loose := baseConfig(f)
	loose.MulliganPolicy = "0-7"
	a, err := runner.Run(context.Background(), loose)
	require.NoError(t, err)

	strict := baseConfig(f)
	strict.MulliganPolicy = "3-3"
	b, err := runner.Run(context.Background(), strict)
	require.NoError(t, err)

	ma, _ := a.Metrics.Scalar(metrics.Mulligans)
	mb, _ := b.Metrics.Scalar(metrics.Mulligans)
	assert.Zero(t, ma.Distribution.Max)
	assert.Greater(t, mb.Distribution.Mean, ma.Distribution.Mean)
}
