package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/testutil"
)

func TestPlayableLands(t *testing.T) {
	f := testutil.GreenDeck(17)
	gs := testutil.StackedState(f, []core.CardID{f.Bears, f.Forest, f.Forest, f.Mountain})
	_, err := gs.Draw(4)
	require.NoError(t, err)
	gs.StartTurn()

	lpc := NewLegalPlayCalculator()
	assert.Equal(t, []core.CardID{f.Forest, f.Mountain}, lpc.PlayableLands(gs.View()))

	require.NoError(t, gs.PlayLand(f.Forest))
	assert.Nil(t, lpc.PlayableLands(gs.View()), "no lands once the drop is used")
}

func TestCastableCards(t *testing.T) {
	f := testutil.CommanderDeck()
	gs := testutil.StackedState(f, []core.CardID{f.Elves, f.Bears, f.Bears, f.Wurm, f.Forest})
	_, err := gs.Draw(5)
	require.NoError(t, err)

	lpc := NewLegalPlayCalculator()
	v := gs.View()

	assert.Empty(t, lpc.CastableCards(v, mana.Pool{}))

	two := lpc.CastableCards(v, mana.Pool{G: 2})
	assert.Equal(t, []Castable{
		{Card: f.Elves, From: core.ZoneHand},
		{Card: f.Bears, From: core.ZoneHand},
	}, two)

	four := lpc.CastableCards(v, mana.Pool{G: 4})
	require.NotEmpty(t, four)
	assert.Equal(t, Castable{Card: f.Commander, From: core.ZoneCommand}, four[0], "commander zone comes first")

	all := lpc.NonlandCards(v)
	assert.Len(t, all, 5, "commander plus four nonland hand cards")
}

func TestParseStopCondition(t *testing.T) {
	for _, s := range []StopCondition{StopNone, StopCommanderCast, StopComboAssembled, StopDamage, StopPlays} {
		got, err := ParseStopCondition(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseStopCondition("")
	require.NoError(t, err)
	assert.Equal(t, StopNone, got)

	_, err = ParseStopCondition("win")
	assert.Error(t, err)
}

func TestStopConditionCommanderCast(t *testing.T) {
	f := testutil.CommanderDeck()
	gs := testutil.StackedState(f, []core.CardID{f.Forest, f.Elves, f.Forest, f.Elves})
	_, err := gs.Draw(4)
	require.NoError(t, err)

	sc := NewStopConditionChecker(zerolog.Nop(), StopConditionConfig{Condition: StopCommanderCast}, gs.Deck())
	assert.Equal(t, StopCommanderCast, sc.Condition())

	for turn := 0; turn < 2; turn++ {
		gs.StartTurn()
		require.NoError(t, gs.PlayLand(f.Forest))
		_, err = gs.Cast(f.Elves, core.ZoneHand)
		require.NoError(t, err)
		assert.False(t, sc.Check(gs.View()))
	}
	gs.StartTurn()
	_, err = gs.Cast(f.Commander, core.ZoneCommand)
	require.NoError(t, err)
	assert.True(t, sc.Check(gs.View()))
}

func TestStopConditionComboAssembled(t *testing.T) {
	f := testutil.CommanderDeck()
	assert.ElementsMatch(t, []core.CardID{f.ComboA, f.ComboB}, ComboPieces(f.Deck))

	gs := testutil.StackedState(f, []core.CardID{f.Forest, f.Forest, f.ComboA, f.ComboB, f.Forest})
	_, err := gs.Draw(5)
	require.NoError(t, err)
	sc := NewStopConditionChecker(zerolog.Nop(), StopConditionConfig{Condition: StopComboAssembled}, f.Deck)

	gs.StartTurn()
	require.NoError(t, gs.PlayLand(f.Forest))
	gs.StartTurn()
	require.NoError(t, gs.PlayLand(f.Forest))
	_, err = gs.Cast(f.ComboA, core.ZoneHand)
	require.NoError(t, err)
	assert.False(t, sc.Check(gs.View()), "only one piece in play")

	gs.StartTurn()
	require.NoError(t, gs.PlayLand(f.Forest))
	_, err = gs.Cast(f.ComboB, core.ZoneHand)
	require.NoError(t, err)
	assert.True(t, sc.Check(gs.View()))

	noCombo := NewStopConditionChecker(zerolog.Nop(), StopConditionConfig{Condition: StopComboAssembled}, testutil.GreenDeck(17).Deck)
	assert.False(t, noCombo.Check(gs.View()), "a deck without combo pieces never assembles one")
}

func TestStopConditionThresholds(t *testing.T) {
	f := testutil.BurnDeck(17)
	gs := testutil.StackedState(f, []core.CardID{f.Mountain, f.Bolt, f.Mountain, f.Bolt})
	_, err := gs.Draw(4)
	require.NoError(t, err)

	damage := NewStopConditionChecker(zerolog.Nop(), StopConditionConfig{Condition: StopDamage, DamageThreshold: 6}, f.Deck)
	plays := NewStopConditionChecker(zerolog.Nop(), StopConditionConfig{Condition: StopPlays, PlayThreshold: 1}, f.Deck)
	none := NewStopConditionChecker(zerolog.Nop(), StopConditionConfig{}, f.Deck)

	gs.StartTurn()
	require.NoError(t, gs.PlayLand(f.Mountain))
	_, err = gs.Cast(f.Bolt, core.ZoneHand)
	require.NoError(t, err)
	assert.False(t, damage.Check(gs.View()))
	assert.True(t, plays.Check(gs.View()))

	gs.StartTurn()
	require.NoError(t, gs.PlayLand(f.Mountain))
	_, err = gs.Cast(f.Bolt, core.ZoneHand)
	require.NoError(t, err)
	assert.True(t, damage.Check(gs.View()))
	assert.False(t, none.Check(gs.View()))
}
