package game

import (
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
)

// View is the read-only window strategies get onto a GameState. Slice
// accessors return copies, and Card definitions must not be modified.
type View interface {
	Turn() int
	Card(id core.CardID) *core.Card

	Hand() []core.CardID
	Battlefield() []core.CardID
	Graveyard() []core.CardID
	Command() []core.CardID
	HandSize() int
	LibrarySize() int

	ManaAvailable() mana.Pool
	LandDropsRemaining() int
	LandsOnBattlefield() int
	TotalManaProduction() int

	Mulligans() int
	OnThePlay() bool
	Damage() int
	SpellsCast() int
}

// stateView hides the mutating methods of GameState behind View
type stateView struct {
	gs *GameState
}

// View returns a read-only view of the state
func (gs *GameState) View() View {
	return stateView{gs: gs}
}

func (v stateView) Turn() int                      { return v.gs.Turn() }
func (v stateView) Card(id core.CardID) *core.Card { return v.gs.Card(id) }
func (v stateView) Hand() []core.CardID            { return v.gs.Hand() }
func (v stateView) Battlefield() []core.CardID     { return v.gs.Battlefield() }
func (v stateView) Graveyard() []core.CardID       { return v.gs.Graveyard() }
func (v stateView) Command() []core.CardID         { return v.gs.Command() }
func (v stateView) HandSize() int                  { return v.gs.HandSize() }
func (v stateView) LibrarySize() int               { return v.gs.LibrarySize() }
func (v stateView) ManaAvailable() mana.Pool       { return v.gs.ManaAvailable() }
func (v stateView) LandDropsRemaining() int        { return v.gs.LandDropsRemaining() }
func (v stateView) LandsOnBattlefield() int        { return v.gs.LandsOnBattlefield() }
func (v stateView) TotalManaProduction() int       { return v.gs.TotalManaProduction() }
func (v stateView) Mulligans() int                 { return v.gs.Mulligans() }
func (v stateView) OnThePlay() bool                { return v.gs.OnThePlay() }
func (v stateView) Damage() int                    { return v.gs.Damage() }
func (v stateView) SpellsCast() int                { return v.gs.SpellsCast() }
