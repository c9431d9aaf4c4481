package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
)

func TestCheckConservationDetectsCorruption(t *testing.T) {
	cat := core.NewCatalog()
	forest := cat.MustAdd(core.Card{Name: "Forest", Type: core.TypeLand})
	bears := cat.MustAdd(core.Card{Name: "Grizzly Bears", Type: core.TypeCreature})
	deck := NewDeck(cat).Add(forest, 3).Add(bears, 2)

	gs := New(deck, 1)
	require.NoError(t, gs.CheckConservation())

	gs.graveyard = append(gs.graveyard, bears)
	assert.ErrorIs(t, gs.CheckConservation(), ErrConservation)

	gs = New(deck, 1)
	gs.library = gs.library[1:]
	assert.ErrorIs(t, gs.CheckConservation(), ErrConservation)
}
