package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/testutil"
)

func TestNewShufflesDeterministically(t *testing.T) {
	f := testutil.GreenDeck(17)

	a := game.New(f.Deck, 42)
	b := game.New(f.Deck, 42)
	c := game.New(f.Deck, 43)

	assert.Equal(t, a.Library(), b.Library())
	assert.NotEqual(t, a.Library(), c.Library())
	assert.Equal(t, testutil.DeckSize, a.LibrarySize())
	assert.Empty(t, a.Hand())
	testutil.RequireConserved(t, a)
}

func TestDraw(t *testing.T) {
	f := testutil.GreenDeck(17)
	gs := game.New(f.Deck, 7)
	top := gs.Library()[:7]

	drawn, err := gs.Draw(7)
	require.NoError(t, err)
	assert.Equal(t, top, drawn)
	assert.Equal(t, top, gs.Hand())
	assert.Equal(t, testutil.DeckSize-7, gs.LibrarySize())

	drawn, err = gs.Draw(0)
	assert.NoError(t, err)
	assert.Empty(t, drawn)
	testutil.RequireConserved(t, gs)
}

func TestDrawPastEmptyLibrary(t *testing.T) {
	f := testutil.GreenDeck(17)
	gs := testutil.StackedState(f, []core.CardID{f.Forest, f.Bears})

	drawn, err := gs.Draw(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrLibraryEmpty)
	assert.False(t, core.IsIllegalAction(err))
	assert.Equal(t, []core.CardID{f.Forest, f.Bears}, drawn)
	assert.Equal(t, 0, gs.LibrarySize())
	testutil.RequireConserved(t, gs)
}

func TestPlayLand(t *testing.T) {
	f := testutil.GreenDeck(17)
	gs := testutil.StackedState(f, []core.CardID{f.Forest, f.Forest, f.Bears})
	_, err := gs.Draw(3)
	require.NoError(t, err)
	gs.StartTurn()

	require.NoError(t, gs.PlayLand(f.Forest))
	assert.Equal(t, mana.Pool{G: 1}, gs.ManaAvailable())
	assert.Equal(t, 0, gs.LandDropsRemaining())
	assert.Equal(t, 1, gs.LandsOnBattlefield())

	before := gs.Hand()
	err = gs.PlayLand(f.Forest)
	assert.ErrorIs(t, err, core.ErrNoLandDrop)
	assert.Equal(t, before, gs.Hand(), "rejected land drop must not move cards")

	gs.StartTurn()
	assert.ErrorIs(t, gs.PlayLand(f.Bears), core.ErrNotALand)
	assert.ErrorIs(t, gs.PlayLand(f.Mountain), core.ErrNotInZone)
	assert.ErrorIs(t, gs.PlayLand(core.CardID(1000)), core.ErrUnknownCard)
	testutil.RequireConserved(t, gs)
}

func TestCast(t *testing.T) {
	f := testutil.GreenDeck(17)
	gs := testutil.StackedState(f, []core.CardID{f.Forest, f.Elves, f.Growth, f.Forest, f.Bears})
	_, err := gs.Draw(5)
	require.NoError(t, err)

	gs.StartTurn()
	require.NoError(t, gs.PlayLand(f.Forest))

	payment, err := gs.Cast(f.Elves, core.ZoneHand)
	require.NoError(t, err)
	assert.Equal(t, mana.Pool{G: 1}, payment)
	assert.True(t, gs.ManaAvailable().IsEmpty(), "elves do not tap for mana the turn they arrive")
	assert.Contains(t, gs.Battlefield(), f.Elves)

	_, err = gs.Cast(f.Growth, core.ZoneHand)
	assert.ErrorIs(t, err, core.ErrCannotPay)

	gs.StartTurn()
	assert.Equal(t, mana.Pool{G: 2}, gs.ManaAvailable())
	require.NoError(t, gs.PlayLand(f.Forest))

	_, err = gs.Cast(f.Growth, core.ZoneHand)
	require.NoError(t, err)
	assert.Contains(t, gs.Graveyard(), f.Growth, "instants go to the graveyard")

	_, err = gs.Cast(f.Bears, core.ZoneHand)
	require.NoError(t, err)
	assert.Equal(t, 3, gs.SpellsCast())
	assert.True(t, gs.ManaAvailable().IsEmpty())
	testutil.RequireConserved(t, gs)
}

func TestCastRejectionsLeaveStateUntouched(t *testing.T) {
	f := testutil.CommanderDeck()
	gs := testutil.StackedState(f, []core.CardID{f.Forest, f.Wurm})
	_, err := gs.Draw(2)
	require.NoError(t, err)
	gs.StartTurn()
	require.NoError(t, gs.PlayLand(f.Forest))

	hand, pool := gs.Hand(), gs.ManaAvailable()

	tests := []struct {
		name string
		card core.CardID
		from core.Zone
		err  error
	}{
		{name: "unaffordable", card: f.Wurm, from: core.ZoneHand, err: core.ErrCannotPay},
		{name: "wrong zone", card: f.Wurm, from: core.ZoneGraveyard, err: core.ErrInvalidZone},
		{name: "not in hand", card: f.Bears, from: core.ZoneHand, err: core.ErrNotInZone},
		{name: "commander unaffordable", card: f.Commander, from: core.ZoneCommand, err: core.ErrCannotPay},
		{name: "commander not in hand", card: f.Commander, from: core.ZoneHand, err: core.ErrNotInZone},
		{name: "land", card: f.Forest, from: core.ZoneHand, err: core.ErrLandNotCast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gs.Cast(tt.card, tt.from)
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, core.IsIllegalAction(err))
			assert.Equal(t, hand, gs.Hand())
			assert.Equal(t, pool, gs.ManaAvailable())
			assert.Equal(t, []core.CardID{f.Commander}, gs.Command())
			testutil.RequireConserved(t, gs)
		})
	}
}

func TestCastCommanderFromCommandZone(t *testing.T) {
	f := testutil.CommanderDeck()
	gs := testutil.StackedState(f, []core.CardID{f.Forest, f.Forest, f.Elves, f.Elves})
	_, err := gs.Draw(4)
	require.NoError(t, err)

	gs.StartTurn()
	require.NoError(t, gs.PlayLand(f.Forest))
	_, err = gs.Cast(f.Elves, core.ZoneHand)
	require.NoError(t, err)
	gs.StartTurn()
	require.NoError(t, gs.PlayLand(f.Forest))
	_, err = gs.Cast(f.Elves, core.ZoneHand)
	require.NoError(t, err)
	gs.StartTurn()

	assert.Equal(t, 4, gs.ManaAvailable().Total())
	_, err = gs.Cast(f.Commander, core.ZoneCommand)
	require.NoError(t, err)
	assert.Empty(t, gs.Command())
	assert.Contains(t, gs.Battlefield(), f.Commander)
	testutil.RequireConserved(t, gs)
}

func TestShuffleAndBottom(t *testing.T) {
	f := testutil.GreenDeck(17)
	gs := game.New(f.Deck, 3)
	_, err := gs.Draw(7)
	require.NoError(t, err)

	gs.ShuffleHandIntoLibrary()
	assert.Empty(t, gs.Hand())
	assert.Equal(t, testutil.DeckSize, gs.LibrarySize())
	testutil.RequireConserved(t, gs)

	hand, err := gs.Draw(7)
	require.NoError(t, err)
	bottom := []core.CardID{hand[0], hand[1]}
	require.NoError(t, gs.PutOnBottom(bottom))
	assert.Equal(t, 5, gs.HandSize())
	lib := gs.Library()
	assert.Equal(t, bottom, lib[len(lib)-2:])
	testutil.RequireConserved(t, gs)

	before := gs.Hand()
	err = gs.PutOnBottom([]core.CardID{before[0], core.CardID(1000)})
	assert.ErrorIs(t, err, core.ErrNotInZone)
	assert.Equal(t, before, gs.Hand(), "partial bottoming must not happen")
}

func TestPutOnBottomRespectsMultiplicity(t *testing.T) {
	f := testutil.GreenDeck(17)
	gs := testutil.StackedState(f, []core.CardID{f.Forest, f.Bears})
	_, err := gs.Draw(2)
	require.NoError(t, err)

	err = gs.PutOnBottom([]core.CardID{f.Forest, f.Forest})
	assert.ErrorIs(t, err, core.ErrNotInZone)
	assert.Equal(t, 2, gs.HandSize())
}

func TestViewReturnsCopies(t *testing.T) {
	f := testutil.GreenDeck(17)
	gs := game.New(f.Deck, 9)
	_, err := gs.Draw(7)
	require.NoError(t, err)

	v := gs.View()
	hand := v.Hand()
	hand[0] = core.CardID(1000)
	assert.NotEqual(t, hand, gs.Hand())
	_, isState := v.(*game.GameState)
	assert.False(t, isState, "views must not expose the mutable state")
	assert.Equal(t, 7, v.HandSize())
}
