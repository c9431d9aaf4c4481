package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
)

// ErrConservation is returned when the zones no longer hold exactly the deck
var ErrConservation = errors.New("zone conservation violated")

// LandDropsPerTurn is the number of lands a player may play each turn
const LandDropsPerTurn = 1

// GameState is the mutable model of one trial. Every mutating method
// validates the whole request before it changes anything, so a rejected
// action leaves the state exactly as it was.
type GameState struct {
	deck    *Deck
	catalog *core.Catalog
	rng     *rand.Rand

	library     []core.CardID
	hand        []core.CardID
	battlefield []core.CardID
	graveyard   []core.CardID
	command     []core.CardID

	turn          int
	landDropsMade int
	pool          mana.Pool
	damage        int
	mulligans     int
	spellsCast    int
	onThePlay     bool
}

// New shuffles the deck into a fresh library with a generator seeded by seed
func New(deck *Deck, seed int64) *GameState {
	return NewWithRand(deck, rand.New(rand.NewSource(seed)))
}

// NewWithRand creates a game state that shuffles with rng
func NewWithRand(deck *Deck, rng *rand.Rand) *GameState {
	gs := &GameState{
		deck:      deck,
		catalog:   deck.Catalog,
		rng:       rng,
		library:   deck.Cards(),
		command:   append([]core.CardID(nil), deck.Commanders...),
		onThePlay: true,
	}
	gs.shuffleLibrary()
	return gs
}

func (gs *GameState) shuffleLibrary() {
	gs.rng.Shuffle(len(gs.library), func(i, j int) {
		gs.library[i], gs.library[j] = gs.library[j], gs.library[i]
	})
}

// Rand returns the trial-scoped generator
func (gs *GameState) Rand() *rand.Rand { return gs.rng }

// Deck returns the deck the state was built from
func (gs *GameState) Deck() *Deck { return gs.deck }

// Catalog returns the card arena the deck was built from
func (gs *GameState) Catalog() *core.Catalog { return gs.catalog }

// Card returns the definition for id
func (gs *GameState) Card(id core.CardID) *core.Card { return gs.catalog.Card(id) }

// Draw moves up to n cards from the top of the library into the hand. If the
// library runs out it moves what is left and returns core.ErrLibraryEmpty.
func (gs *GameState) Draw(n int) ([]core.CardID, error) {
	if n <= 0 {
		return nil, nil
	}
	take := n
	if take > len(gs.library) {
		take = len(gs.library)
	}
	drawn := append([]core.CardID(nil), gs.library[:take]...)
	gs.library = gs.library[take:]
	gs.hand = append(gs.hand, drawn...)
	if take < n {
		return drawn, fmt.Errorf("drew %d of %d: %w", take, n, core.ErrLibraryEmpty)
	}
	return drawn, nil
}

// PlayLand puts a land from the hand onto the battlefield. Its mana is
// available immediately.
func (gs *GameState) PlayLand(id core.CardID) error {
	card := gs.catalog.Card(id)
	if card == nil {
		return core.ErrUnknownCard
	}
	if !card.IsLand() {
		return core.ErrNotALand
	}
	idx := indexOf(gs.hand, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s not in %s", core.ErrNotInZone, card.Name, core.ZoneHand)
	}
	if gs.landDropsMade >= LandDropsPerTurn {
		return core.ErrNoLandDrop
	}

	gs.hand = removeAt(gs.hand, idx)
	gs.battlefield = append(gs.battlefield, id)
	gs.landDropsMade++
	gs.pool = gs.pool.Add(card.Produces)
	return nil
}

// Cast pays for and resolves a nonland card from the hand or command zone.
// Permanents go to the battlefield and instants and sorceries to the
// graveyard. A mana source cast this way produces from the next turn on.
// The payment used is returned.
func (gs *GameState) Cast(id core.CardID, from core.Zone) (mana.Pool, error) {
	card := gs.catalog.Card(id)
	if card == nil {
		return mana.Pool{}, core.ErrUnknownCard
	}
	if !from.CanCastFrom() {
		return mana.Pool{}, fmt.Errorf("%w: %s", core.ErrInvalidZone, from)
	}
	if card.IsLand() {
		return mana.Pool{}, core.ErrLandNotCast
	}
	zone := gs.zone(from)
	idx := indexOf(*zone, id)
	if idx < 0 {
		return mana.Pool{}, fmt.Errorf("%w: %s not in %s", core.ErrNotInZone, card.Name, from)
	}
	payment, remaining, ok := mana.Pay(gs.pool, card.Cost)
	if !ok {
		return mana.Pool{}, fmt.Errorf("%w: %s with %s available", core.ErrCannotPay, card.Cost, gs.pool)
	}

	*zone = removeAt(*zone, idx)
	gs.pool = remaining
	if card.Type.IsPermanent() {
		gs.battlefield = append(gs.battlefield, id)
	} else {
		gs.graveyard = append(gs.graveyard, id)
	}
	gs.damage += card.Damage
	gs.spellsCast++
	return payment, nil
}

// StartTurn advances the turn counter, resets the land drop and refills the
// mana pool from the permanents on the battlefield.
func (gs *GameState) StartTurn() {
	gs.turn++
	gs.landDropsMade = 0
	var pool mana.Pool
	for _, id := range gs.battlefield {
		pool = pool.Add(gs.catalog.Card(id).Produces)
	}
	gs.pool = pool
}

// ShuffleHandIntoLibrary returns the whole hand to the library and shuffles it
func (gs *GameState) ShuffleHandIntoLibrary() {
	gs.library = append(gs.library, gs.hand...)
	gs.hand = nil
	gs.shuffleLibrary()
}

// PutOnBottom moves cards from the hand to the bottom of the library, in the
// given order. Either all of them move or none do.
func (gs *GameState) PutOnBottom(ids []core.CardID) error {
	remaining := append([]core.CardID(nil), gs.hand...)
	for _, id := range ids {
		idx := indexOf(remaining, id)
		if idx < 0 {
			return fmt.Errorf("%w: %s not in %s", core.ErrNotInZone, gs.catalog.Name(id), core.ZoneHand)
		}
		remaining = removeAt(remaining, idx)
	}
	gs.hand = remaining
	gs.library = append(gs.library, ids...)
	return nil
}

// RecordMulligan increments the mulligan counter
func (gs *GameState) RecordMulligan() { gs.mulligans++ }

// SetOnThePlay records whether the player takes the first turn
func (gs *GameState) SetOnThePlay(onThePlay bool) { gs.onThePlay = onThePlay }

// CheckConservation verifies that the zones together hold exactly the deck
func (gs *GameState) CheckConservation() error {
	want := gs.deck.Multiset()
	got := make(map[core.CardID]int, len(want))
	for _, z := range core.Zones {
		for _, id := range *gs.zone(z) {
			got[id]++
		}
	}
	for id, n := range want {
		if got[id] != n {
			return fmt.Errorf("%w: %s expected %d found %d", ErrConservation, gs.catalog.Name(id), n, got[id])
		}
		delete(got, id)
	}
	for id, n := range got {
		return fmt.Errorf("%w: %s expected 0 found %d", ErrConservation, gs.catalog.Name(id), n)
	}
	return nil
}

func (gs *GameState) zone(z core.Zone) *[]core.CardID {
	switch z {
	case core.ZoneLibrary:
		return &gs.library
	case core.ZoneHand:
		return &gs.hand
	case core.ZoneBattlefield:
		return &gs.battlefield
	case core.ZoneGraveyard:
		return &gs.graveyard
	case core.ZoneCommand:
		return &gs.command
	default:
		panic(fmt.Sprintf("unknown zone %d", int(z)))
	}
}

// Zone returns a copy of the cards in z
func (gs *GameState) Zone(z core.Zone) []core.CardID {
	return append([]core.CardID(nil), *gs.zone(z)...)
}

func (gs *GameState) Hand() []core.CardID        { return gs.Zone(core.ZoneHand) }
func (gs *GameState) Battlefield() []core.CardID { return gs.Zone(core.ZoneBattlefield) }
func (gs *GameState) Graveyard() []core.CardID   { return gs.Zone(core.ZoneGraveyard) }
func (gs *GameState) Command() []core.CardID     { return gs.Zone(core.ZoneCommand) }
func (gs *GameState) Library() []core.CardID     { return gs.Zone(core.ZoneLibrary) }

func (gs *GameState) HandSize() int            { return len(gs.hand) }
func (gs *GameState) LibrarySize() int         { return len(gs.library) }
func (gs *GameState) ManaAvailable() mana.Pool { return gs.pool }
func (gs *GameState) LandDropsRemaining() int  { return LandDropsPerTurn - gs.landDropsMade }
func (gs *GameState) Mulligans() int           { return gs.mulligans }
func (gs *GameState) OnThePlay() bool          { return gs.onThePlay }
func (gs *GameState) Damage() int              { return gs.damage }
func (gs *GameState) SpellsCast() int          { return gs.spellsCast }
func (gs *GameState) Turn() int                { return gs.turn }

// LandsOnBattlefield counts the lands in play
func (gs *GameState) LandsOnBattlefield() int {
	n := 0
	for _, id := range gs.battlefield {
		if gs.catalog.Card(id).IsLand() {
			n++
		}
	}
	return n
}

// TotalManaProduction is the mana the battlefield will produce next turn
func (gs *GameState) TotalManaProduction() int {
	total := 0
	for _, id := range gs.battlefield {
		total += gs.catalog.Card(id).Produces.Total()
	}
	return total
}

func indexOf(ids []core.CardID, id core.CardID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// removeAt deletes index i keeping the order of the rest. It always
// allocates so callers never alias the old backing array.
func removeAt(ids []core.CardID, i int) []core.CardID {
	out := make([]core.CardID, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}
