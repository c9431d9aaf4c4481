package testutil

import (
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
)

// DeckSize is the size of the limited-style fixture decks
const DeckSize = 40

// Fixture bundles a deck with the IDs tests need to refer to
type Fixture struct {
	Catalog *core.Catalog
	Deck    *game.Deck

	Forest   core.CardID
	Elves    core.CardID
	Bears    core.CardID
	Courser  core.CardID
	Growth   core.CardID
	Wurm     core.CardID
	Mountain core.CardID
	Bolt     core.CardID

	Commander core.CardID
	ComboA    core.CardID
	ComboB    core.CardID
}

func newCatalog() (*core.Catalog, Fixture) {
	cat := core.NewCatalog()
	f := Fixture{Catalog: cat, Commander: core.NoCard, ComboA: core.NoCard, ComboB: core.NoCard}
	f.Forest = cat.MustAdd(core.Card{Name: "Forest", Type: core.TypeLand, Produces: mana.Pool{G: 1}, Tags: []string{core.TagBasic}})
	f.Mountain = cat.MustAdd(core.Card{Name: "Mountain", Type: core.TypeLand, Produces: mana.Pool{R: 1}, Tags: []string{core.TagBasic}})
	f.Elves = cat.MustAdd(core.Card{Name: "Llanowar Elves", Type: core.TypeCreature, Cost: mana.MustParseCost("{G}"), Produces: mana.Pool{G: 1}})
	f.Bears = cat.MustAdd(core.Card{Name: "Grizzly Bears", Type: core.TypeCreature, Cost: mana.MustParseCost("{1}{G}")})
	f.Courser = cat.MustAdd(core.Card{Name: "Centaur Courser", Type: core.TypeCreature, Cost: mana.MustParseCost("{2}{G}")})
	f.Growth = cat.MustAdd(core.Card{Name: "Giant Growth", Type: core.TypeInstant, Cost: mana.MustParseCost("{G}")})
	f.Wurm = cat.MustAdd(core.Card{Name: "Craw Wurm", Type: core.TypeCreature, Cost: mana.MustParseCost("{4}{G}{G}")})
	f.Bolt = cat.MustAdd(core.Card{Name: "Lightning Bolt", Type: core.TypeInstant, Cost: mana.MustParseCost("{R}"), Damage: 3})
	return cat, f
}

// GreenDeck builds a 40-card mono-green deck with the given number of
// Forests. Grizzly Bears is the filler slot that absorbs land count changes.
func GreenDeck(lands int) Fixture {
	cat, f := newCatalog()
	fixed := 4 + 4 + 4 + 3
	deck := game.NewDeck(cat).
		Add(f.Forest, lands).
		Add(f.Bears, DeckSize-lands-fixed).
		Add(f.Elves, 4).
		Add(f.Courser, 4).
		Add(f.Growth, 4).
		Add(f.Wurm, 3)
	f.Deck = deck
	return f
}

// CommanderDeck is a green deck with a commander and a two-card combo
func CommanderDeck() Fixture {
	cat, f := newCatalog()
	f.Commander = cat.MustAdd(core.Card{Name: "Omnath", Type: core.TypeCreature, Cost: mana.MustParseCost("{2}{G}{G}"), Tags: []string{core.TagCommander}})
	f.ComboA = cat.MustAdd(core.Card{Name: "Combo Piece A", Type: core.TypeArtifact, Cost: mana.MustParseCost("{2}"), Tags: []string{core.TagCombo}})
	f.ComboB = cat.MustAdd(core.Card{Name: "Combo Piece B", Type: core.TypeEnchantment, Cost: mana.MustParseCost("{1}{G}"), Tags: []string{core.TagCombo}})
	deck := game.NewDeck(cat).
		Add(f.Forest, 17).
		Add(f.Bears, 8).
		Add(f.Elves, 4).
		Add(f.Courser, 4).
		Add(f.ComboA, 2).
		Add(f.ComboB, 2).
		Add(f.Wurm, 2).
		AddCommander(f.Commander)
	f.Deck = deck
	return f
}

// BurnDeck is a mono-red deck of Mountains and Lightning Bolts
func BurnDeck(lands int) Fixture {
	cat, f := newCatalog()
	f.Deck = game.NewDeck(cat).
		Add(f.Mountain, lands).
		Add(f.Bolt, DeckSize-lands)
	return f
}

// StackedState returns a game state whose library is exactly top, in order,
// with an empty hand. It shuffles nothing, so tests can script draws.
func StackedState(f Fixture, top []core.CardID) *game.GameState {
	deck := game.NewDeck(f.Catalog)
	for _, id := range top {
		deck.Add(id, 1)
	}
	for _, id := range f.Deck.Commanders {
		deck.AddCommander(id)
	}
	gs := game.NewWithRand(deck, NewTestRNG(1))
	// drain the shuffled library, then bottom the cards in the order given
	if _, err := gs.Draw(gs.LibrarySize()); err != nil {
		panic(err)
	}
	if err := gs.PutOnBottom(top); err != nil {
		panic(err)
	}
	return gs
}
