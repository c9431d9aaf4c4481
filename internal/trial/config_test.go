package trial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/trial"
)

func TestHandSize(t *testing.T) {
	tests := []struct {
		rule      trial.MulliganRule
		mulligans int
		want      int
	}{
		{trial.RuleTraditional, 0, 7},
		{trial.RuleTraditional, 2, 5},
		{trial.RuleTraditional, 9, 0},
		{trial.RuleLondon, 3, 7},
		{trial.RuleFreeFirst, 1, 7},
		{trial.RuleFreeFirst, 2, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rule.HandSize(7, tt.mulligans), "%s after %d", tt.rule, tt.mulligans)
	}
}

func TestKeptSize(t *testing.T) {
	assert.Equal(t, 4, trial.RuleLondon.KeptSize(7, 3))
	assert.Equal(t, 0, trial.RuleLondon.KeptSize(7, 9))
	assert.Equal(t, 4, trial.RuleTraditional.KeptSize(7, 3))
	assert.Equal(t, 5, trial.RuleFreeFirst.KeptSize(7, 3))
}

func TestMulliganMaxBelowHandSizeIsValid(t *testing.T) {
	cfg := trial.Config{TurnLimit: 10, OpeningHandSize: 7, MulliganMax: 6}
	assert.NoError(t, cfg.Validate())
	cfg.MulliganRule = trial.RuleFreeFirst
	cfg.MulliganMax = 7
	assert.NoError(t, cfg.Validate())
}

func TestParseEnums(t *testing.T) {
	for _, r := range []trial.MulliganRule{trial.RuleTraditional, trial.RuleLondon, trial.RuleFreeFirst} {
		got, err := trial.ParseMulliganRule(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	for _, d := range []trial.DrawPolicy{trial.DrawPlay, trial.DrawDraw, trial.DrawRandom} {
		got, err := trial.ParseDrawPolicy(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	r, err := trial.ParseMulliganRule("")
	require.NoError(t, err)
	assert.Equal(t, trial.RuleTraditional, r)
	_, err = trial.ParseMulliganRule("vancouver")
	assert.Error(t, err)
	_, err = trial.ParseDrawPolicy("coin")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := trial.Config{TurnLimit: 10, OpeningHandSize: 7, MulliganMax: 2}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*trial.Config)
		msg    string
	}{
		{"turn limit", func(c *trial.Config) { c.TurnLimit = 0 }, "turn_limit"},
		{"hand size", func(c *trial.Config) { c.OpeningHandSize = 0 }, "opening_hand_size"},
		{"mulligan max", func(c *trial.Config) { c.MulliganMax = -1 }, "mulligan_max"},
		{"empty kept hand", func(c *trial.Config) { c.MulliganMax = 7 }, "leaves no cards"},
		{"empty london hand", func(c *trial.Config) { c.MulliganRule = trial.RuleLondon; c.MulliganMax = 8 }, "leaves no cards"},
		{"damage", func(c *trial.Config) { c.Stop.Condition = rules.StopDamage }, "damage_threshold"},
		{"plays", func(c *trial.Config) { c.Stop.Condition = rules.StopPlays }, "play_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, trial.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
