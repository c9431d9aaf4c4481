package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedsArePureAndDistinct(t *testing.T) {
	assert.Equal(t, TrialSeed(42, 3), TrialSeed(42, 3))
	assert.Equal(t, TrialSeeds(42, 3), TrialSeeds(42, 3))

	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		s := TrialSeed(42, i)
		assert.False(t, seen[s], "trial seed collision at %d", i)
		seen[s] = true
	}
	assert.NotEqual(t, TrialSeed(42, 0), TrialSeed(43, 0))
	assert.NotEqual(t, TrialSeed(42, 0), PointSeed(42, 0))

	s := TrialSeeds(7, 0)
	assert.NotEqual(t, s.Game, s.Strategy)
	assert.Equal(t, StrategySeed(s.Game), s.Strategy)
}

func TestCapErrors(t *testing.T) {
	set := make(map[string]struct{})
	for _, m := range []string{"k", "b", "a", "c", "d", "e", "f", "g", "h", "i", "j", "l"} {
		set[m] = struct{}{}
	}
	got := capErrors(set)
	assert.Len(t, got, MaxErrors)
	assert.Equal(t, "a", got[0])
	assert.Equal(t, "j", got[MaxErrors-1])
	assert.Nil(t, capErrors(nil))
}
